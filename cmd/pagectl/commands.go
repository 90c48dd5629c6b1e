package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
	"github.com/viet-college/app-dept-pages/internal/editor"
	"github.com/viet-college/app-dept-pages/internal/models"
)

var errUsage = errors.New("invalid usage")

// session is what every command works with
type session struct {
	editor *editor.Editor
	out    io.Writer
}

type command struct {
	run func(ctx context.Context, s *session, args []string) error
}

var commands = map[string]command{
	"get":               {run: runGet},
	"upload-syllabus":   {run: runUploadSyllabus},
	"delete-regulation": {run: runDeleteRegulation},
	"import-sections":   {run: runImportSections},
	"set-hero":          {run: runSetHero},
}

func newFlagSet(s *session, name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(s.out)
	return fs
}

func requireFlags(fs *flag.FlagSet, values map[string]string) error {
	for name, v := range values {
		if v == "" {
			fmt.Fprintf(fs.Output(), "-%s is required\n", name)
			fs.Usage()
			return errUsage
		}
	}
	return nil
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// readLocalFile loads a file picked for upload
func readLocalFile(path string) (*models.File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return &models.File{
		Name:        filepath.Base(path),
		ContentType: mimetype.Detect(data).String(),
		Data:        data,
	}, nil
}

func runGet(ctx context.Context, s *session, args []string) error {
	fs := newFlagSet(s, "get")
	slug := fs.String("slug", "", "department slug")
	section := fs.String("section", "", "print only this section")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireFlags(fs, map[string]string{"slug": *slug}); err != nil {
		return err
	}

	if err := s.editor.Load(ctx, *slug); err != nil {
		return err
	}
	doc := s.editor.Document()
	if *section == "" {
		return printJSON(s.out, doc)
	}
	v, err := doc.Section(*section)
	if err != nil {
		return err
	}
	return printJSON(s.out, v)
}

func runUploadSyllabus(ctx context.Context, s *session, args []string) error {
	fs := newFlagSet(s, "upload-syllabus")
	slug := fs.String("slug", "", "department slug")
	program := fs.String("program", "", "program name, e.g. B.Tech CSE")
	regulation := fs.String("regulation", "", "regulation name, e.g. R22")
	path := fs.String("file", "", "syllabus file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireFlags(fs, map[string]string{"slug": *slug, "file": *path}); err != nil {
		return err
	}

	file, err := readLocalFile(*path)
	if err != nil {
		return err
	}
	if err := s.editor.Load(ctx, *slug); err != nil {
		return err
	}
	programs, err := s.editor.UploadSyllabus(ctx, *program, *regulation, file)
	if err != nil {
		return err
	}
	return printJSON(s.out, programs)
}

func runDeleteRegulation(ctx context.Context, s *session, args []string) error {
	fs := newFlagSet(s, "delete-regulation")
	slug := fs.String("slug", "", "department slug")
	program := fs.String("program", "", "program name")
	regulation := fs.String("regulation", "", "regulation name")
	yes := fs.Bool("yes", false, "confirm the deletion")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireFlags(fs, map[string]string{"slug": *slug}); err != nil {
		return err
	}

	if err := s.editor.Load(ctx, *slug); err != nil {
		return err
	}
	if err := s.editor.RequestRegulationDelete(*program, *regulation); err != nil {
		return err
	}
	if !*yes {
		ref, _ := s.editor.PendingRegulationDelete()
		s.editor.CancelRegulationDelete()
		fmt.Fprintf(s.out, "would delete %s / %s; rerun with -yes to confirm\n", ref.Program, ref.Regulation)
		return nil
	}
	programs, err := s.editor.ConfirmRegulationDelete(ctx)
	if err != nil {
		return err
	}
	return printJSON(s.out, programs)
}

func runImportSections(ctx context.Context, s *session, args []string) error {
	fs := newFlagSet(s, "import-sections")
	slug := fs.String("slug", "", "department slug")
	path := fs.String("file", "", "JSON sections document; a whole stored page is accepted too")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireFlags(fs, map[string]string{"slug": *slug, "file": *path}); err != nil {
		return err
	}

	data, err := os.ReadFile(*path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", *path, err)
	}
	if !json.Valid(data) {
		return models.NewValidationError("file", *path+" is not valid JSON")
	}

	if err := s.editor.Load(ctx, *slug); err != nil {
		return err
	}
	if err := s.editor.Import(data); err != nil {
		return err
	}
	return s.editor.SaveSections(ctx)
}

func runSetHero(ctx context.Context, s *session, args []string) error {
	fs := newFlagSet(s, "set-hero")
	slug := fs.String("slug", "", "department slug")
	image := fs.String("image", "", "hero image file")
	video := fs.String("video", "", "hero video file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireFlags(fs, map[string]string{"slug": *slug}); err != nil {
		return err
	}
	if *image == "" && *video == "" {
		fmt.Fprintln(s.out, "-image or -video is required")
		return errUsage
	}

	if err := s.editor.Load(ctx, *slug); err != nil {
		return err
	}
	if *image != "" {
		file, err := readLocalFile(*image)
		if err != nil {
			return err
		}
		s.editor.SetPendingHeroImage(file)
	}
	if *video != "" {
		file, err := readLocalFile(*video)
		if err != nil {
			return err
		}
		s.editor.SetPendingHeroVideo(file)
	}
	if err := s.editor.SaveHeroAssets(ctx); err != nil {
		return err
	}

	hero := s.editor.Document().Hero
	return printJSON(s.out, map[string]string{"image": hero.Image, "video": hero.Video})
}
