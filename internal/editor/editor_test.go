package editor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viet-college/app-dept-pages/internal/logging"
	"github.com/viet-college/app-dept-pages/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

type fakeStore struct {
	mu         sync.Mutex
	pages      map[string]models.Document
	getErr     error
	updateErr  error
	updates    int
	heroImages map[string]string
	heroVideos map[string]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		pages:      make(map[string]models.Document),
		heroImages: make(map[string]string),
		heroVideos: make(map[string]string),
	}
}

func (s *fakeStore) GetBySlug(ctx context.Context, slug string) (bson.M, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return nil, s.getErr
	}
	doc, ok := s.pages[slug]
	if !ok {
		return nil, models.ErrPageNotFound
	}
	return bson.M{"slug": slug, "sections": models.CloneDocument(doc)}, nil
}

func (s *fakeStore) UpdateSections(ctx context.Context, slug string, doc models.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updates++
	if s.updateErr != nil {
		return s.updateErr
	}
	stored := models.CloneDocument(doc)
	if prev, ok := s.pages[slug]; ok {
		stored.Curriculum.Programs = prev.Curriculum.Programs
	} else {
		stored.Curriculum.Programs = []models.Program{}
	}
	s.pages[slug] = stored
	return nil
}

func (s *fakeStore) page(slug string) models.Document {
	if doc, ok := s.pages[slug]; ok {
		return doc
	}
	return models.DefaultDocument()
}

func (s *fakeStore) UploadSyllabus(ctx context.Context, slug string, req models.SyllabusRequest) ([]models.Program, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc := s.page(slug)
	doc.Curriculum.Programs = models.UpsertSyllabus(doc.Curriculum.Programs, req.ProgramName, models.Regulation{
		Name:     req.RegulationName,
		FileURL:  req.FileURL,
		FileName: req.FileName,
	})
	s.pages[slug] = doc
	return models.CopyPrograms(doc.Curriculum.Programs), nil
}

func (s *fakeStore) DeleteRegulation(ctx context.Context, slug, programName, regulationName string) ([]models.Program, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.pages[slug]
	if !ok {
		return nil, models.ErrPageNotFound
	}
	programs, err := models.RemoveRegulation(doc.Curriculum.Programs, programName, regulationName)
	if err != nil {
		return nil, err
	}
	doc.Curriculum.Programs = programs
	s.pages[slug] = doc
	return models.CopyPrograms(programs), nil
}

func (s *fakeStore) UploadHeroImage(ctx context.Context, slug, imageURL string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.heroImages[slug] = imageURL
	doc := s.page(slug)
	doc.Hero.Image = imageURL
	s.pages[slug] = doc
	return nil
}

func (s *fakeStore) UploadHeroVideo(ctx context.Context, slug, videoURL string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.heroVideos[slug] = videoURL
	doc := s.page(slug)
	doc.Hero.Video = videoURL
	s.pages[slug] = doc
	return nil
}

type fakeStorage struct {
	mu      sync.Mutex
	err     error
	calls   int
	buckets []string
	started chan struct{}
	release chan struct{}
}

func (f *fakeStorage) Upload(ctx context.Context, file models.File, bucket string) (string, error) {
	f.mu.Lock()
	f.calls++
	n := f.calls
	f.buckets = append(f.buckets, bucket)
	err := f.err
	started, release := f.started, f.release
	f.mu.Unlock()

	if started != nil {
		started <- struct{}{}
	}
	if release != nil {
		select {
		case <-release:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("https://assets.test/%s/%d-%s", bucket, n, file.BaseName()), nil
}

func (f *fakeStorage) uploadCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func testFile(name string) *models.File {
	return &models.File{Name: name, Data: []byte("data")}
}

func newTestEditor(t *testing.T) (*Editor, *fakeStore, *fakeStorage, *Recorder) {
	t.Helper()
	store := newFakeStore()
	storage := &fakeStorage{}
	rec := &Recorder{}
	e := New(store, storage, rec, logging.NewSafeLogger(zap.NewNop()))
	t.Cleanup(e.Close)
	return e, store, storage, rec
}

func loadedEditor(t *testing.T, slug string) (*Editor, *fakeStore, *fakeStorage, *Recorder) {
	t.Helper()
	e, store, storage, rec := newTestEditor(t)
	require.NoError(t, e.Load(context.Background(), slug))
	return e, store, storage, rec
}

func TestNew_StartsWithDefaults(t *testing.T) {
	e, _, _, _ := newTestEditor(t)

	assert.Equal(t, "", e.Slug())
	assert.Equal(t, models.SectionHero, e.ActiveSection())
	assert.Equal(t, models.DefaultDocument(), e.Document())
}

func TestOperations_RequireSlug(t *testing.T) {
	e, store, storage, _ := newTestEditor(t)
	ctx := context.Background()

	assert.ErrorIs(t, e.SaveSections(ctx), models.ErrNoSlugSelected)
	_, err := e.UploadRecruiterImage(ctx, testFile("logo.png"))
	assert.ErrorIs(t, err, models.ErrNoSlugSelected)
	_, err = e.UploadSyllabus(ctx, "B.Tech", "R22", testFile("r22.pdf"))
	assert.ErrorIs(t, err, models.ErrNoSlugSelected)
	assert.ErrorIs(t, e.RequestRegulationDelete("B.Tech", "R22"), models.ErrNoSlugSelected)

	assert.Zero(t, storage.uploadCalls())
	assert.Zero(t, store.updates)
}

func TestLoad_NormalizesSlugAndNotFoundIsSilent(t *testing.T) {
	e, _, _, rec := newTestEditor(t)

	require.NoError(t, e.Load(context.Background(), "  CSE "))
	assert.Equal(t, "cse", e.Slug())
	assert.Equal(t, models.DefaultDocument(), e.Document())
	assert.Empty(t, rec.Notifications())

	err := e.Load(context.Background(), "   ")
	assert.True(t, models.IsValidationError(err))
}

func TestLoad_FailureNotifiesAndKeepsDefaults(t *testing.T) {
	e, store, _, rec := newTestEditor(t)
	store.getErr = errors.New("connection refused")

	err := e.Load(context.Background(), "cse")
	require.Error(t, err)
	assert.True(t, models.IsPersistenceError(err))
	assert.Equal(t, models.DefaultDocument(), e.Document())

	last, ok := rec.Last()
	require.True(t, ok)
	assert.Equal(t, LevelError, last.Level)
	assert.Equal(t, OpLoad, last.Operation)
	assert.Equal(t, "cse", last.Slug)
}

func TestLoad_ReadsStoredDocument(t *testing.T) {
	e, store, _, _ := newTestEditor(t)
	doc := models.DefaultDocument()
	doc.Hero.Title = "Computer Science"
	store.pages["cse"] = doc

	require.NoError(t, e.Load(context.Background(), "cse"))
	assert.Equal(t, "Computer Science", e.Document().Hero.Title)
}

func TestSelectSection(t *testing.T) {
	e, _, _, _ := newTestEditor(t)

	require.NoError(t, e.SelectSection(models.SectionPlacements))
	assert.Equal(t, models.SectionPlacements, e.ActiveSection())
	assert.ErrorIs(t, e.SelectSection("sidebar"), models.ErrUnknownSection)
	assert.Equal(t, models.SectionPlacements, e.ActiveSection())
}

func TestSetField(t *testing.T) {
	e, _, _, _ := loadedEditor(t, "cse")

	require.NoError(t, e.SetField(models.SectionHero, "title", "Welcome"))
	assert.Equal(t, "Welcome", e.Document().Hero.Title)

	assert.ErrorIs(t, e.SetField("sidebar", "title", "x"), models.ErrUnknownSection)
	assert.Error(t, e.SetField(models.SectionHero, "nope", "x"))
}

func TestImport_MigratesAndKeepsCurriculum(t *testing.T) {
	e, store, _, _ := newTestEditor(t)
	assert.ErrorIs(t, e.Import(map[string]interface{}{}), models.ErrNoSlugSelected)

	stored := models.DefaultDocument()
	stored.Curriculum.Programs = []models.Program{{Name: "B.Tech", Regulations: []models.Regulation{{Name: "R22"}}}}
	store.pages["cse"] = stored
	require.NoError(t, e.Load(context.Background(), "cse"))

	raw := `{"sections":{"hero":{"title":"Imported"},"curriculum":{"programs":[{"name":"Ignored"}]}}}`
	require.NoError(t, e.Import(raw))

	doc := e.Document()
	assert.Equal(t, "Imported", doc.Hero.Title)
	require.Len(t, doc.Curriculum.Programs, 1)
	assert.Equal(t, "B.Tech", doc.Curriculum.Programs[0].Name)
	assert.Len(t, doc.Overview.Stats, models.StatCount)
}

func TestDocument_ReturnsCopy(t *testing.T) {
	e, _, _, _ := loadedEditor(t, "cse")
	ref := ListRef{Section: models.SectionFee, Field: "items"}
	_, err := e.Add(ref)
	require.NoError(t, err)

	doc := e.Document()
	doc.Fee.Items[0].Fee = "changed outside"

	assert.Empty(t, e.Document().Fee.Items[0].Fee)
}

func TestList_AddThenDeleteKeepsOrder(t *testing.T) {
	e, _, _, _ := loadedEditor(t, "cse")
	ref := ListRef{Section: models.SectionFee, Field: "items"}

	var ids []string
	for i := 0; i < 5; i++ {
		id, err := e.Add(ref)
		require.NoError(t, err)
		ids = append(ids, id)
	}

	got, err := e.IDs(ref)
	require.NoError(t, err)
	assert.Equal(t, ids, got)

	require.NoError(t, e.Delete(ref, ids[2]))
	got, err = e.IDs(ref)
	require.NoError(t, err)
	assert.Equal(t, []string{ids[0], ids[1], ids[3], ids[4]}, got)

	assert.ErrorIs(t, e.Delete(ref, ids[2]), models.ErrItemNotFound)
}

func TestList_IDsAreUnique(t *testing.T) {
	e, _, _, _ := loadedEditor(t, "cse")
	ref := ListRef{Section: models.SectionFacilities, Field: "cards"}

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		id, err := e.Add(ref)
		require.NoError(t, err)
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestList_UpdateTouchesOnlyTarget(t *testing.T) {
	e, _, _, _ := loadedEditor(t, "cse")
	ref := ListRef{Section: models.SectionProgramOverview, Field: "badges"}

	first, _ := e.Add(ref)
	second, _ := e.Add(ref)
	require.NoError(t, e.Update(ref, second, "code", "PO2"))

	badges := e.Document().ProgramOverview.Badges
	require.Len(t, badges, 2)
	assert.Equal(t, first, badges[0].ID)
	assert.Empty(t, badges[0].Code)
	assert.Equal(t, "PO2", badges[1].Code)

	assert.ErrorIs(t, e.Update(ref, "missing", "code", "x"), models.ErrItemNotFound)
	assert.Error(t, e.Update(ref, first, "id", "other"))
}

func TestList_NestedCoursePrograms(t *testing.T) {
	e, _, _, _ := loadedEditor(t, "cse")
	categories := ListRef{Section: models.SectionCourses, Field: "categories"}

	ug, err := e.Add(categories)
	require.NoError(t, err)
	pg, err := e.Add(categories)
	require.NoError(t, err)

	ugPrograms := ListRef{Section: models.SectionCourses, Field: "programs", ParentID: ug}
	btech, err := e.Add(ugPrograms)
	require.NoError(t, err)
	require.NoError(t, e.Update(ugPrograms, btech, "seats", "120"))

	doc := e.Document()
	require.Len(t, doc.Courses.Categories, 2)
	require.Len(t, doc.Courses.Categories[0].Programs, 1)
	assert.Equal(t, "120", doc.Courses.Categories[0].Programs[0].Seats)
	assert.Empty(t, doc.Courses.Categories[1].Programs)

	_, err = e.Add(ListRef{Section: models.SectionCourses, Field: "programs", ParentID: "missing"})
	assert.ErrorIs(t, err, models.ErrItemNotFound)

	require.NoError(t, e.Delete(categories, ug))
	doc = e.Document()
	require.Len(t, doc.Courses.Categories, 1)
	assert.Equal(t, pg, doc.Courses.Categories[0].ID)

	_, err = e.IDs(ugPrograms)
	assert.ErrorIs(t, err, models.ErrItemNotFound)
}

func TestList_NestedPillarItems(t *testing.T) {
	e, _, _, _ := loadedEditor(t, "cse")
	pillars := ListRef{Section: models.SectionIdeaCell, Field: "pillars"}

	pillar, err := e.Add(pillars)
	require.NoError(t, err)
	items := ListRef{Section: models.SectionIdeaCell, Field: "items", ParentID: pillar}
	a, _ := e.Add(items)
	b, _ := e.Add(items)
	require.NoError(t, e.Update(items, b, "text", "Hackathons"))
	require.NoError(t, e.Delete(items, a))

	got := e.Document().IdeaCell.Pillars[0].Items
	require.Len(t, got, 1)
	assert.Equal(t, "Hackathons", got[0].Text)
}

func TestList_UnknownRefs(t *testing.T) {
	e, _, _, _ := loadedEditor(t, "cse")

	_, err := e.Add(ListRef{Section: "sidebar", Field: "cards"})
	assert.ErrorIs(t, err, models.ErrUnknownSection)

	_, err = e.Add(ListRef{Section: models.SectionHero, Field: "cards"})
	assert.ErrorIs(t, err, models.ErrUnknownList)
}

func TestEditableLists(t *testing.T) {
	lists := EditableLists()
	require.Len(t, lists, len(editableLists))

	assert.Equal(t, ListRef{Section: models.SectionCourses, Field: "categories"}, lists[0])
	assert.Equal(t, ListRef{Section: models.SectionCourses, Field: "programs"}, lists[1])
	assert.Equal(t, ListRef{Section: models.SectionAlumni, Field: "cards"}, lists[len(lists)-1])
}

func TestUpdateStat(t *testing.T) {
	e, _, _, _ := loadedEditor(t, "cse")

	require.NoError(t, e.UpdateStat(models.SectionOverview, 0, "value", "1200+"))
	require.NoError(t, e.UpdateStat(models.SectionPlacements, 3, "label", "Recruiters"))

	doc := e.Document()
	require.Len(t, doc.Overview.Stats, models.StatCount)
	assert.Equal(t, "1200+", doc.Overview.Stats[0].Value)
	assert.Equal(t, models.DefaultOverviewStats()[1], doc.Overview.Stats[1])
	assert.Equal(t, "Recruiters", doc.Placements.Stats[3].Label)

	assert.ErrorIs(t, e.UpdateStat(models.SectionOverview, models.StatCount, "value", "x"), models.ErrItemNotFound)
	assert.ErrorIs(t, e.UpdateStat(models.SectionOverview, -1, "value", "x"), models.ErrItemNotFound)
	assert.ErrorIs(t, e.UpdateStat(models.SectionHero, 0, "value", "x"), models.ErrUnknownList)
	assert.ErrorIs(t, e.UpdateStat("sidebar", 0, "value", "x"), models.ErrUnknownSection)
}

func TestRecruiterImages(t *testing.T) {
	e, _, storage, _ := loadedEditor(t, "cse")

	url, err := e.UploadRecruiterImage(context.Background(), testFile("acme.png"))
	require.NoError(t, err)
	e.AddRecruiterImage("https://example.com/globex.png")

	imgs := e.Document().Placements.RecruiterImages
	assert.Equal(t, []string{url, "https://example.com/globex.png"}, imgs)
	assert.Equal(t, []string{models.BucketRecruiters}, storage.buckets)

	require.NoError(t, e.RemoveRecruiterImage(0))
	assert.Equal(t, []string{"https://example.com/globex.png"}, e.Document().Placements.RecruiterImages)
	assert.ErrorIs(t, e.RemoveRecruiterImage(5), models.ErrItemNotFound)
}

func TestUploadListAsset(t *testing.T) {
	e, _, storage, rec := loadedEditor(t, "cse")
	ref := ListRef{Section: models.SectionFacilities, Field: "cards"}
	id, err := e.Add(ref)
	require.NoError(t, err)

	url, err := e.UploadListAsset(context.Background(), ref, id, "icon", testFile("lab.svg"))
	require.NoError(t, err)
	assert.Equal(t, url, e.Document().Facilities.Cards[0].Icon)
	assert.Equal(t, []string{models.BucketIcons}, storage.buckets)

	last, ok := rec.Last()
	require.True(t, ok)
	assert.Equal(t, LevelSuccess, last.Level)
	assert.False(t, e.IsUploading(targetKey(ref, id, "icon")))
}

func TestUploadListAsset_ValidatesBeforeUpload(t *testing.T) {
	e, _, storage, _ := loadedEditor(t, "cse")
	ref := ListRef{Section: models.SectionAlumni, Field: "cards"}
	id, _ := e.Add(ref)
	ctx := context.Background()

	_, err := e.UploadListAsset(ctx, ref, id, "image", nil)
	assert.True(t, models.IsValidationError(err))

	_, err = e.UploadListAsset(ctx, ref, id, "quote", testFile("a.png"))
	assert.True(t, models.IsValidationError(err))

	_, err = e.UploadListAsset(ctx, ref, "missing", "image", testFile("a.png"))
	assert.ErrorIs(t, err, models.ErrItemNotFound)

	_, err = e.UploadListAsset(ctx, ListRef{Section: models.SectionFee, Field: "items"}, id, "icon", testFile("a.png"))
	assert.Error(t, err)

	assert.Zero(t, storage.uploadCalls())
}

func TestUploadListAsset_FailureLeavesElement(t *testing.T) {
	e, _, storage, rec := loadedEditor(t, "cse")
	storage.err = errors.New("bucket unavailable")
	ref := ListRef{Section: models.SectionPlacements, Field: "cards"}
	id, _ := e.Add(ref)

	_, err := e.UploadListAsset(context.Background(), ref, id, "image", testFile("p.jpg"))
	require.Error(t, err)
	assert.True(t, models.IsUploadError(err))
	assert.Empty(t, e.Document().Placements.Cards[0].Image)

	last, _ := rec.Last()
	assert.Equal(t, LevelError, last.Level)
	assert.Equal(t, OpUploadAsset, last.Operation)
}

func TestUpload_SecondUploadForSameTargetRefused(t *testing.T) {
	e, _, storage, _ := loadedEditor(t, "cse")
	storage.started = make(chan struct{}, 1)
	storage.release = make(chan struct{})

	done := make(chan error, 1)
	go func() {
		_, err := e.UploadRecruiterImage(context.Background(), testFile("a.png"))
		done <- err
	}()
	<-storage.started
	assert.True(t, e.IsUploading("placements.recruiterImages"))

	_, err := e.UploadRecruiterImage(context.Background(), testFile("b.png"))
	assert.True(t, models.IsValidationError(err))

	close(storage.release)
	require.NoError(t, <-done)
	assert.Len(t, e.Document().Placements.RecruiterImages, 1)
	assert.False(t, e.IsUploading("placements.recruiterImages"))
}

func TestSlugSwitch_DropsInFlightResult(t *testing.T) {
	e, _, storage, rec := loadedEditor(t, "cse")
	storage.started = make(chan struct{}, 1)
	storage.release = make(chan struct{})
	defer close(storage.release)

	done := make(chan error, 1)
	go func() {
		_, err := e.UploadRecruiterImage(context.Background(), testFile("a.png"))
		done <- err
	}()
	<-storage.started

	require.NoError(t, e.Load(context.Background(), "ece"))

	select {
	case err := <-done:
		assert.ErrorIs(t, err, models.ErrStaleSlug)
	case <-time.After(5 * time.Second):
		t.Fatal("upload was not cancelled by the slug switch")
	}

	assert.Equal(t, "ece", e.Slug())
	assert.Empty(t, e.Document().Placements.RecruiterImages)
	for _, n := range rec.Notifications() {
		assert.NotEqual(t, LevelError, n.Level, n.Message)
	}
}

func TestSlugSwitch_DiscardsPendingState(t *testing.T) {
	e, _, _, _ := loadedEditor(t, "cse")
	e.SetPendingHeroImage(testFile("hero.jpg"))
	require.NoError(t, e.SetField(models.SectionHero, "title", "Unsaved"))

	require.NoError(t, e.SwitchSlug(context.Background(), "ece"))

	assert.False(t, e.HasPendingHeroAssets())
	assert.Empty(t, e.Document().Hero.Title)
}

func TestSaveSections_PersistsAndReloads(t *testing.T) {
	e, store, _, rec := loadedEditor(t, "cse")
	require.NoError(t, e.SetField(models.SectionHero, "title", "Computer Science"))
	id, _ := e.Add(ListRef{Section: models.SectionWhyViet, Field: "cards"})

	require.NoError(t, e.SaveSections(context.Background()))

	stored := store.pages["cse"]
	assert.Equal(t, "Computer Science", stored.Hero.Title)
	require.Len(t, stored.WhyViet.Cards, 1)
	assert.Equal(t, id, stored.WhyViet.Cards[0].ID)
	assert.Equal(t, "Computer Science", e.Document().Hero.Title)

	last, _ := rec.Last()
	assert.Equal(t, LevelSuccess, last.Level)
	assert.Equal(t, OpSaveSections, last.Operation)
}

func TestSaveSections_FailureKeepsWorkingCopy(t *testing.T) {
	e, store, _, rec := loadedEditor(t, "cse")
	store.updateErr = errors.New("write conflict")
	require.NoError(t, e.SetField(models.SectionAdmission, "eligibility", "10+2 with PCM"))

	err := e.SaveSections(context.Background())
	require.Error(t, err)
	assert.True(t, models.IsPersistenceError(err))
	assert.Equal(t, "10+2 with PCM", e.Document().Admission.Eligibility)

	last, _ := rec.Last()
	assert.Equal(t, LevelError, last.Level)

	store.updateErr = nil
	require.NoError(t, e.SaveSections(context.Background()))
	assert.Equal(t, "10+2 with PCM", store.pages["cse"].Admission.Eligibility)
}

func TestSaveSections_HeroUploadFailureAbortsSave(t *testing.T) {
	e, store, storage, rec := loadedEditor(t, "cse")
	storage.err = errors.New("quota exceeded")
	e.SetPendingHeroImage(testFile("hero.jpg"))

	err := e.SaveSections(context.Background())
	require.Error(t, err)
	assert.True(t, models.IsUploadError(err))
	assert.Zero(t, store.updates)
	assert.True(t, e.HasPendingHeroAssets())

	last, _ := rec.Last()
	assert.Equal(t, LevelError, last.Level)
	assert.Equal(t, OpUploadHeroImage, last.Operation)
	assert.Contains(t, last.Message, "page not saved")
}

func TestSaveSections_HeroAssetsSurviveFailedSave(t *testing.T) {
	e, store, storage, _ := loadedEditor(t, "cse")
	store.updateErr = errors.New("write conflict")
	e.SetPendingHeroImage(testFile("hero.jpg"))
	e.SetPendingHeroVideo(testFile("hero.mp4"))

	err := e.SaveSections(context.Background())
	require.Error(t, err)

	assert.Equal(t, []string{models.BucketImages, models.BucketVideos}, storage.buckets)
	assert.NotEmpty(t, store.heroImages["cse"])
	assert.NotEmpty(t, store.heroVideos["cse"])
	assert.Equal(t, store.heroImages["cse"], e.Document().Hero.Image)
	assert.Equal(t, store.heroVideos["cse"], e.Document().Hero.Video)
	assert.False(t, e.HasPendingHeroAssets())
}

func TestSaveHeroAssets(t *testing.T) {
	e, store, _, _ := loadedEditor(t, "cse")
	e.SetPendingHeroVideo(testFile("tour.mp4"))

	require.NoError(t, e.SaveHeroAssets(context.Background()))
	assert.Zero(t, store.updates)
	assert.NotEmpty(t, store.heroVideos["cse"])
	assert.Empty(t, store.heroImages["cse"])

	e.SetPendingHeroImage(testFile("x.jpg"))
	e.SetPendingHeroImage(nil)
	assert.False(t, e.HasPendingHeroAssets())
}

func TestUploadSyllabus_ValidatesBeforeUpload(t *testing.T) {
	e, _, storage, _ := loadedEditor(t, "cse")
	ctx := context.Background()

	_, err := e.UploadSyllabus(ctx, " ", "R22", testFile("a.pdf"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "program and regulation name required")

	_, err = e.UploadSyllabus(ctx, "B.Tech", "", testFile("a.pdf"))
	assert.True(t, models.IsValidationError(err))

	_, err = e.UploadSyllabus(ctx, "B.Tech", "R22", &models.File{Name: "empty.pdf"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "select a file first")

	assert.Zero(t, storage.uploadCalls())
}

func TestUploadSyllabus_UpsertsRegulation(t *testing.T) {
	e, store, storage, _ := loadedEditor(t, "cse")
	ctx := context.Background()

	_, err := e.UploadSyllabus(ctx, "B.Tech CSE", "R22", testFile(`C:\docs\r22-v1.pdf`))
	require.NoError(t, err)
	_, err = e.UploadSyllabus(ctx, "B.Tech CSE", "R20", testFile("r20.pdf"))
	require.NoError(t, err)
	programs, err := e.UploadSyllabus(ctx, " B.Tech CSE ", "R22", testFile("r22-v2.pdf"))
	require.NoError(t, err)

	require.Len(t, programs, 1)
	regs := programs[0].Regulations
	require.Len(t, regs, 2)
	assert.Equal(t, "R22", regs[0].Name)
	assert.Equal(t, "r22-v2.pdf", regs[0].FileName)
	assert.Equal(t, "R20", regs[1].Name)

	assert.Equal(t, programs, e.Document().Curriculum.Programs)
	assert.Equal(t, programs, store.pages["cse"].Curriculum.Programs)
	assert.Equal(t, models.BucketSyllabus, storage.buckets[0])
}

func TestUploadSyllabus_KeepsUnsavedEdits(t *testing.T) {
	e, _, _, _ := loadedEditor(t, "cse")
	require.NoError(t, e.SetField(models.SectionHero, "title", "Draft"))

	_, err := e.UploadSyllabus(context.Background(), "M.Tech", "R22", testFile("m.pdf"))
	require.NoError(t, err)

	assert.Equal(t, "Draft", e.Document().Hero.Title)
}

func TestRegulationDelete_RequiresConfirmation(t *testing.T) {
	e, store, _, rec := loadedEditor(t, "cse")
	ctx := context.Background()
	_, err := e.UploadSyllabus(ctx, "B.Tech", "R22", testFile("r22.pdf"))
	require.NoError(t, err)

	assert.ErrorIs(t, e.RequestRegulationDelete("B.Tech", "R18"), models.ErrRegulationNotFound)
	assert.ErrorIs(t, e.RequestRegulationDelete("MBA", "R22"), models.ErrProgramNotFound)
	_, pending := e.PendingRegulationDelete()
	assert.False(t, pending)

	require.NoError(t, e.RequestRegulationDelete("B.Tech", "R22"))
	ref, pending := e.PendingRegulationDelete()
	require.True(t, pending)
	assert.Equal(t, RegulationRef{Program: "B.Tech", Regulation: "R22"}, ref)

	e.CancelRegulationDelete()
	_, pending = e.PendingRegulationDelete()
	assert.False(t, pending)
	assert.Len(t, store.pages["cse"].Curriculum.Programs[0].Regulations, 1)

	require.NoError(t, e.RequestRegulationDelete("B.Tech", "R22"))
	programs, err := e.ConfirmRegulationDelete(ctx)
	require.NoError(t, err)
	require.Len(t, programs, 1)
	assert.Empty(t, programs[0].Regulations)
	assert.Equal(t, programs, e.Document().Curriculum.Programs)

	last, _ := rec.Last()
	assert.Equal(t, OpDeleteRegulation, last.Operation)
	assert.Equal(t, LevelSuccess, last.Level)

	_, err = e.ConfirmRegulationDelete(ctx)
	assert.True(t, models.IsValidationError(err))
}

func TestRegulationDelete_ServerMissing(t *testing.T) {
	e, store, _, rec := loadedEditor(t, "cse")
	ctx := context.Background()
	_, err := e.UploadSyllabus(ctx, "B.Tech", "R22", testFile("r22.pdf"))
	require.NoError(t, err)
	require.NoError(t, e.RequestRegulationDelete("B.Tech", "R22"))

	// deleted elsewhere in the meantime
	_, err = store.DeleteRegulation(ctx, "cse", "B.Tech", "R22")
	require.NoError(t, err)

	_, err = e.ConfirmRegulationDelete(ctx)
	assert.ErrorIs(t, err, models.ErrRegulationNotFound)
	_, pending := e.PendingRegulationDelete()
	assert.False(t, pending)

	last, _ := rec.Last()
	assert.Equal(t, LevelError, last.Level)
}

func TestEditor_EndToEnd(t *testing.T) {
	e, store, _, rec := loadedEditor(t, "cse")
	ctx := context.Background()

	require.NoError(t, e.SetField(models.SectionOverview, "title", "About the Department"))
	require.NoError(t, e.UpdateStat(models.SectionOverview, 1, "value", "40+"))
	cards := ListRef{Section: models.SectionProjects, Field: "cards"}
	id, err := e.Add(cards)
	require.NoError(t, err)
	require.NoError(t, e.Update(cards, id, "title", "Smart Campus"))
	_, err = e.UploadListAsset(ctx, cards, id, "image", testFile("campus.jpg"))
	require.NoError(t, err)
	e.SetPendingHeroImage(testFile("banner.jpg"))
	require.NoError(t, e.SaveSections(ctx))

	_, err = e.UploadSyllabus(ctx, "B.Tech CSE", "R22", testFile("r22.pdf"))
	require.NoError(t, err)

	// a fresh session sees everything
	other := New(store, &fakeStorage{}, nil, logging.NewSafeLogger(zap.NewNop()))
	defer other.Close()
	require.NoError(t, other.Load(ctx, "cse"))
	doc := other.Document()

	assert.Equal(t, "About the Department", doc.Overview.Title)
	assert.Equal(t, "40+", doc.Overview.Stats[1].Value)
	require.Len(t, doc.Projects.Cards, 1)
	assert.Equal(t, "Smart Campus", doc.Projects.Cards[0].Title)
	assert.NotEmpty(t, doc.Projects.Cards[0].Image)
	assert.NotEmpty(t, doc.Hero.Image)
	require.Len(t, doc.Curriculum.Programs, 1)
	assert.Equal(t, "R22", doc.Curriculum.Programs[0].Regulations[0].Name)

	for _, n := range rec.Notifications() {
		assert.Equal(t, LevelSuccess, n.Level, n.Message)
	}
}
