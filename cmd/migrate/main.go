package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/viet-college/app-dept-pages/internal/config"
	"github.com/viet-college/app-dept-pages/internal/logging"
	"github.com/viet-college/app-dept-pages/internal/models"
	"github.com/viet-college/app-dept-pages/internal/services"
	"go.uber.org/zap"
)

func main() {
	dryRun := flag.Bool("dry-run", false, "report what would change without writing")
	slug := flag.String("slug", "", "migrate a single department page")
	timeout := flag.Duration("timeout", 10*time.Minute, "overall deadline for the run")
	flag.Parse()

	if err := logging.InitLogger(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logging.Logger.Sync()

	if err := config.LoadConfig(); err != nil {
		logging.Logger.Fatal("failed to load config", zap.Error(err))
	}
	if err := config.InitMongoDB(); err != nil {
		logging.Logger.Fatal("failed to initialize MongoDB", zap.Error(err))
	}
	config.InitRedis()
	services.InitDepartmentPageService()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	svc := services.DepartmentPageServiceInstance
	slugs := []string{*slug}
	if *slug == "" {
		var err error
		if slugs, err = svc.ListSlugs(ctx); err != nil {
			logging.Logger.Fatal("failed to list pages", zap.Error(err))
		}
	}

	logging.Logger.Info("starting page migration",
		zap.Int("pages", len(slugs)),
		zap.Bool("dry_run", *dryRun),
		zap.Int("schema_version", models.CurrentSchemaVersion))

	s := newSummary()
	for _, sl := range slugs {
		if ctx.Err() != nil {
			logging.Logger.Warn("migration interrupted", zap.Error(ctx.Err()))
			break
		}
		report, err := svc.RewriteMigrated(ctx, sl, *dryRun)
		if err != nil {
			if errors.Is(err, models.ErrPageNotFound) {
				logging.Logger.Warn("page disappeared during migration", zap.String("slug", sl))
			} else {
				logging.Logger.Error("failed to migrate page", zap.String("slug", sl), zap.Error(err))
			}
			s.failed++
			continue
		}
		s.add(report)
		logging.Logger.Info("page migrated",
			zap.String("slug", sl),
			zap.Bool("changed", report.Changed()),
			zap.Int("legacy", report.Count(models.ShapeLegacy)),
			zap.Int("translated", report.Count(models.ShapeTranslated)),
			zap.Int("invalid", report.Count(models.ShapeInvalid)))
	}

	if !*dryRun {
		svc.InvalidateAll(context.Background())
	}
	s.log(*dryRun)
	config.DisconnectMongoDB(context.Background())

	if s.failed > 0 {
		os.Exit(1)
	}
}

// summary totals the migration reports of a run
type summary struct {
	pages   int
	changed int
	failed  int
	shapes  map[models.SectionShape]int
}

func newSummary() *summary {
	return &summary{shapes: make(map[models.SectionShape]int)}
}

func (s *summary) add(r models.MigrationReport) {
	s.pages++
	if r.Changed() {
		s.changed++
	}
	for _, shape := range r.Sections {
		s.shapes[shape]++
	}
}

func (s *summary) log(dryRun bool) {
	keys := make([]string, 0, len(s.shapes))
	for shape := range s.shapes {
		keys = append(keys, string(shape))
	}
	sort.Strings(keys)

	fields := []zap.Field{
		zap.Bool("dry_run", dryRun),
		zap.Int("pages", s.pages),
		zap.Int("changed", s.changed),
		zap.Int("failed", s.failed),
	}
	for _, k := range keys {
		fields = append(fields, zap.Int("sections_"+k, s.shapes[models.SectionShape(k)]))
	}
	logging.Logger.Info("page migration finished", fields...)
}
