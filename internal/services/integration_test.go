package services

import (
	"context"
	"strings"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
	"github.com/viet-college/app-dept-pages/internal/config"
	"github.com/viet-college/app-dept-pages/internal/logging"
	"github.com/viet-college/app-dept-pages/internal/models"
	"github.com/viet-college/app-dept-pages/internal/redisclient"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

type integrationEnv struct {
	db    *mongo.Database
	redis *redisclient.Client
}

// setupIntegration starts MongoDB and Redis containers for the test
func setupIntegration(t *testing.T) *integrationEnv {
	if testing.Short() {
		t.Skip("Skipping container tests in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()

	mongoContainer, err := mongodb.Run(ctx, "mongo:7.0")
	require.NoError(t, err, "Failed to start MongoDB container")
	t.Cleanup(func() { _ = mongoContainer.Terminate(context.Background()) })

	redisContainer, err := tcredis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err, "Failed to start Redis container")
	t.Cleanup(func() { _ = redisContainer.Terminate(context.Background()) })

	mongoURI, err := mongoContainer.ConnectionString(ctx)
	require.NoError(t, err)
	redisURI, err := redisContainer.ConnectionString(ctx)
	require.NoError(t, err)

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	require.NoError(t, err, "Failed to connect to MongoDB")
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })
	require.NoError(t, client.Ping(ctx, nil))

	redisOpts, err := goredis.ParseURL(redisURI)
	require.NoError(t, err)
	rc := redisclient.NewClient(goredis.NewClient(redisOpts))

	config.AppConfig = &config.Config{
		MongoDatabase:            "dept_pages_test",
		RedisTTL:                 time.Minute,
		DirectoryCacheTTL:        time.Minute,
		DepartmentPageCollection: "department_pages",
		FacultyCollection:        "faculty",
		HODCollection:            "hods",
		GalleryCollection:        "gallery_images",
		StorageBackend:           config.StorageBackendGridFS,
		StoragePublicBaseURL:     "http://localhost:8080/v1/assets",
		ReferenceDepartment:      "cse",
	}

	db := client.Database("dept_pages_test")
	require.NoError(t, config.EnsureIndexes(ctx, db))

	return &integrationEnv{db: db, redis: rc}
}

func testLogger() *logging.SafeLogger {
	return logging.NewSafeLogger(zap.NewNop())
}

func TestDepartmentPageService_EndToEnd(t *testing.T) {
	env := setupIntegration(t)
	svc := NewDepartmentPageService(env.db, env.redis, testLogger())
	ctx := context.Background()

	// a never-saved slug is absent, and reads as the default document
	_, err := svc.GetBySlug(ctx, "cse")
	assert.ErrorIs(t, err, models.ErrPageNotFound)
	doc, err := svc.GetDocument(ctx, "cse")
	assert.ErrorIs(t, err, models.ErrPageNotFound)
	assert.Equal(t, models.DefaultDocument(), doc)

	doc.Fee.Items = append(doc.Fee.Items, models.FeeItem{ID: "fee-1", ProgramName: "B.Tech CSE", Fee: "₹43,000"})
	require.NoError(t, svc.UpdateSections(ctx, "cse", doc))

	reloaded, err := svc.GetDocument(ctx, "cse")
	require.NoError(t, err)
	assert.Equal(t, doc, reloaded)

	// the second read comes from the cache and must not drift
	cached, err := svc.GetDocument(ctx, "cse")
	require.NoError(t, err)
	assert.Equal(t, doc, cached)

	programs, err := svc.UploadSyllabus(ctx, "cse", models.SyllabusRequest{
		ProgramName:    "B.Tech CSE",
		RegulationName: "R20",
		FileURL:        "/v1/assets/syllabus/a.pdf",
		FileName:       "a.pdf",
	})
	require.NoError(t, err)
	require.Len(t, programs, 1)

	programs, err = svc.UploadSyllabus(ctx, "cse", models.SyllabusRequest{
		ProgramName:    "B.Tech CSE",
		RegulationName: "R20",
		FileURL:        "/v1/assets/syllabus/b.pdf",
		FileName:       "b.pdf",
	})
	require.NoError(t, err)
	require.Len(t, programs[0].Regulations, 1)
	assert.Equal(t, "/v1/assets/syllabus/b.pdf", programs[0].Regulations[0].FileURL)

	_, err = svc.UploadSyllabus(ctx, "cse", models.SyllabusRequest{
		ProgramName:    "B.Tech CSE",
		RegulationName: "R23",
		FileURL:        "/v1/assets/syllabus/c.pdf",
	})
	require.NoError(t, err)

	// a sections save leaves the curriculum alone
	require.NoError(t, svc.UpdateSections(ctx, "cse", reloaded))
	current, err := svc.GetDocument(ctx, "cse")
	require.NoError(t, err)
	require.Len(t, current.Curriculum.Programs, 1)
	assert.Len(t, current.Curriculum.Programs[0].Regulations, 2)

	programs, err = svc.DeleteRegulation(ctx, "cse", "B.Tech CSE", "R20")
	require.NoError(t, err)
	programs, err = svc.DeleteRegulation(ctx, "cse", "B.Tech CSE", "R23")
	require.NoError(t, err)
	require.Len(t, programs, 1)
	assert.Equal(t, "B.Tech CSE", programs[0].Name)
	assert.Empty(t, programs[0].Regulations)

	_, err = svc.DeleteRegulation(ctx, "cse", "B.Tech CSE", "R20")
	assert.ErrorIs(t, err, models.ErrRegulationNotFound)
	_, err = svc.DeleteRegulation(ctx, "cse", "M.Tech", "R20")
	assert.ErrorIs(t, err, models.ErrProgramNotFound)

	_, err = svc.UploadSyllabus(ctx, "cse", models.SyllabusRequest{ProgramName: " ", RegulationName: "R20", FileURL: "x"})
	assert.True(t, models.IsValidationError(err))
}

func TestDepartmentPageService_HeroIsIndependent(t *testing.T) {
	env := setupIntegration(t)
	svc := NewDepartmentPageService(env.db, env.redis, testLogger())
	ctx := context.Background()

	require.NoError(t, svc.UploadHeroImage(ctx, "mech", "/v1/assets/images/hero.jpg"))
	doc, err := svc.GetDocument(ctx, "mech")
	require.NoError(t, err)
	assert.Equal(t, "/v1/assets/images/hero.jpg", doc.Hero.Image)
	assert.Equal(t, models.DefaultDocument().Fee, doc.Fee)

	require.NoError(t, svc.UploadHeroVideo(ctx, "mech", "/v1/assets/videos/hero.mp4"))
	doc, err = svc.GetDocument(ctx, "mech")
	require.NoError(t, err)
	assert.Equal(t, "/v1/assets/images/hero.jpg", doc.Hero.Image)
	assert.Equal(t, "/v1/assets/videos/hero.mp4", doc.Hero.Video)
}

func TestDepartmentPageService_UpdateSectionsKeepsEmbeddedCurriculum(t *testing.T) {
	env := setupIntegration(t)
	svc := NewDepartmentPageService(env.db, env.redis, testLogger())
	ctx := context.Background()
	coll := env.db.Collection("department_pages")

	// stored before curriculum programs had their own field
	_, err := coll.InsertOne(ctx, bson.M{
		"slug": "it",
		"sections": bson.M{
			"hero": bson.M{"title": "IT"},
			"curriculum": bson.M{
				"title": "Curriculum",
				"programs": bson.A{bson.M{
					"name":        "B.Tech IT",
					"regulations": bson.A{bson.M{"name": "R20", "fileUrl": "/v1/assets/syllabus/r20.pdf", "fileName": "r20.pdf"}},
				}},
			},
		},
	})
	require.NoError(t, err)

	doc, err := svc.GetDocument(ctx, "it")
	require.NoError(t, err)
	require.Len(t, doc.Curriculum.Programs, 1)

	doc.Hero.Title = "Information Technology"
	require.NoError(t, svc.UpdateSections(ctx, "it", doc))

	saved, err := svc.GetDocument(ctx, "it")
	require.NoError(t, err)
	assert.Equal(t, "Information Technology", saved.Hero.Title)
	require.Len(t, saved.Curriculum.Programs, 1)
	require.Len(t, saved.Curriculum.Programs[0].Regulations, 1)
	assert.Equal(t, "R20", saved.Curriculum.Programs[0].Regulations[0].Name)

	var stored bson.M
	require.NoError(t, coll.FindOne(ctx, bson.M{"slug": "it"}).Decode(&stored))
	assert.Contains(t, stored, "curriculum_programs")

	// later syllabus writes build on the moved programs
	programs, err := svc.UploadSyllabus(ctx, "it", models.SyllabusRequest{
		ProgramName:    "B.Tech IT",
		RegulationName: "R22",
		FileURL:        "/v1/assets/syllabus/r22.pdf",
	})
	require.NoError(t, err)
	require.Len(t, programs, 1)
	assert.Len(t, programs[0].Regulations, 2)

	// a second sections save must not resurrect or drop anything
	require.NoError(t, svc.UpdateSections(ctx, "it", saved))
	again, err := svc.GetDocument(ctx, "it")
	require.NoError(t, err)
	require.Len(t, again.Curriculum.Programs, 1)
	assert.Len(t, again.Curriculum.Programs[0].Regulations, 2)
}

func TestDepartmentPageService_RewriteMigrated(t *testing.T) {
	env := setupIntegration(t)
	svc := NewDepartmentPageService(env.db, env.redis, testLogger())
	ctx := context.Background()

	_, err := env.db.Collection("department_pages").InsertOne(ctx, bson.M{
		"slug": "civil",
		"sections": bson.M{
			"whyViet":    bson.M{"title": "Why us", "content": "<p>Since 2008</p>"},
			"fee":        bson.M{"items": `[{"level":"B.Tech","amount":"₹43,000"}]`},
			"curriculum": bson.M{"programs": bson.A{bson.M{"programName": "B.Tech Civil", "regulation": "R20", "url": "/r20.pdf"}}},
		},
	})
	require.NoError(t, err)

	report, err := svc.RewriteMigrated(ctx, "civil", true)
	require.NoError(t, err)
	assert.True(t, report.Changed())
	assert.Equal(t, models.ShapeLegacy, report.Sections[models.SectionWhyViet])
	assert.Equal(t, models.ShapeTranslated, report.Sections[models.SectionFee])

	var untouched bson.M
	require.NoError(t, env.db.Collection("department_pages").FindOne(ctx, bson.M{"slug": "civil"}).Decode(&untouched))
	assert.NotContains(t, untouched, "schema_version")

	_, err = svc.RewriteMigrated(ctx, "civil", false)
	require.NoError(t, err)

	doc, err := svc.GetDocument(ctx, "civil")
	require.NoError(t, err)
	assert.Equal(t, "<p>Since 2008</p>", doc.WhyViet.Content)
	require.Len(t, doc.Fee.Items, 1)
	assert.Equal(t, "B.Tech", doc.Fee.Items[0].ProgramName)
	require.Len(t, doc.Curriculum.Programs, 1)
	assert.Equal(t, "R20", doc.Curriculum.Programs[0].Regulations[0].Name)

	report, err = svc.RewriteMigrated(ctx, "civil", true)
	require.NoError(t, err)
	assert.False(t, report.Changed(), "a rewritten page is canonical")

	slugs, err := svc.ListSlugs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"civil"}, slugs)

	_, err = svc.RewriteMigrated(ctx, "nowhere", true)
	assert.ErrorIs(t, err, models.ErrPageNotFound)
}

func TestDirectoryAndGalleryServices(t *testing.T) {
	env := setupIntegration(t)
	ctx := context.Background()

	_, err := env.db.Collection("faculty").InsertMany(ctx, []interface{}{
		bson.M{"name": "Ravi Kumar", "department": "CSE", "phone": int64(9876543210)},
		bson.M{"name": "", "department": "CSE"},
	})
	require.NoError(t, err)
	_, err = env.db.Collection("hods").InsertOne(ctx, bson.M{"name": "Dr. Priya Sharma", "department": "CSE"})
	require.NoError(t, err)
	_, err = env.db.Collection("gallery_images").InsertMany(ctx, []interface{}{
		bson.M{"src": "/img/1.jpg", "alt": "Lab", "department": "CSE"},
		bson.M{"alt": "broken"},
	})
	require.NoError(t, err)

	dir := NewDirectoryService(env.db, env.redis, testLogger())
	faculty, err := dir.GetAllFaculty(ctx)
	require.NoError(t, err)
	require.Len(t, faculty, 1)
	assert.Equal(t, "9876543210", faculty[0].Phone)
	assert.NotEmpty(t, faculty[0].ID)

	// served from cache even after the collection changes
	_, err = env.db.Collection("faculty").InsertOne(ctx, bson.M{"name": "Anita Reddy", "department": "CSE"})
	require.NoError(t, err)
	faculty, err = dir.GetAllFaculty(ctx)
	require.NoError(t, err)
	assert.Len(t, faculty, 1)

	dir.Invalidate(ctx)
	faculty, err = dir.GetAllFaculty(ctx)
	require.NoError(t, err)
	assert.Len(t, faculty, 2)

	hods, err := dir.GetAllHODs(ctx)
	require.NoError(t, err)
	require.Len(t, hods, 1)

	images, err := NewGalleryService(env.db, env.redis, testLogger()).GetAllImages(ctx)
	require.NoError(t, err)
	require.Len(t, images, 1)
	assert.Equal(t, "Lab", images[0].Alt)
}

func TestGridFSStorage_RoundTrip(t *testing.T) {
	env := setupIntegration(t)
	store := NewGridFSStorage(env.db, "http://localhost:8080/v1/assets", testLogger())
	ctx := context.Background()

	url, err := store.Upload(ctx, models.File{Name: "R20.pdf", Data: pdfBytes}, models.BucketSyllabus)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(url, "http://localhost:8080/v1/assets/syllabus/"))

	id := url[strings.LastIndex(url, "/")+1:]
	asset, err := store.Open(ctx, models.BucketSyllabus, id)
	require.NoError(t, err)
	defer asset.Body.Close()
	assert.Equal(t, "application/pdf", asset.ContentType)
	assert.Equal(t, int64(len(pdfBytes)), asset.Size)

	_, err = store.Open(ctx, models.BucketSyllabus, "65f0c6a2b1e4c2a1d0f00001")
	assert.ErrorIs(t, err, models.ErrAssetNotFound)
}

func TestRenderer_WithServices(t *testing.T) {
	env := setupIntegration(t)
	ctx := context.Background()
	logger := testLogger()

	pages := NewDepartmentPageService(env.db, env.redis, logger)
	doc := models.DefaultDocument()
	doc.Alumni.Content = "Alumni lead teams at major firms."
	require.NoError(t, pages.UpdateSections(ctx, "eee", doc))

	r := NewRenderer(pages, NewDirectoryService(env.db, env.redis, logger), NewGalleryService(env.db, env.redis, logger), "cse", logger)
	view := r.Render(ctx, "eee")
	alumni, ok := view.Section(models.SectionAlumni)
	require.True(t, ok)
	assert.Equal(t, TierLegacy, alumni.Tier)
	assert.Equal(t, "Alumni lead teams at major firms.", alumni.Content)
}
