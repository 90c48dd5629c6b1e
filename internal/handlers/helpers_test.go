package handlers

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/viet-college/app-dept-pages/internal/logging"
	"github.com/viet-college/app-dept-pages/internal/models"
	"github.com/viet-college/app-dept-pages/internal/services"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

func testLogger() *logging.SafeLogger {
	return logging.NewSafeLogger(zap.NewNop())
}

// fakePages is an in-memory PageService
type fakePages struct {
	mu       sync.Mutex
	docs     map[string]models.Document
	programs map[string][]models.Program
	err      error
	invalid  int

	heroImages map[string]string
	heroVideos map[string]string
}

func newFakePages() *fakePages {
	return &fakePages{
		docs:       make(map[string]models.Document),
		programs:   make(map[string][]models.Program),
		heroImages: make(map[string]string),
		heroVideos: make(map[string]string),
	}
}

func (f *fakePages) GetBySlug(ctx context.Context, slug string) (bson.M, error) {
	doc, err := f.GetDocument(ctx, slug)
	if err != nil {
		return nil, err
	}
	return bson.M{"slug": slug, "sections": doc}, nil
}

func (f *fakePages) GetDocument(ctx context.Context, slug string) (models.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return models.DefaultDocument(), f.err
	}
	doc, ok := f.docs[slug]
	if !ok {
		return models.DefaultDocument(), models.ErrPageNotFound
	}
	doc = models.CloneDocument(doc)
	doc.Curriculum.Programs = models.CopyPrograms(f.programs[slug])
	return doc, nil
}

func (f *fakePages) UpdateSections(ctx context.Context, slug string, doc models.Document) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.docs[slug] = models.CloneDocument(doc)
	return nil
}

func (f *fakePages) UploadSyllabus(ctx context.Context, slug string, req models.SyllabusRequest) ([]models.Program, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.programs[slug] = models.UpsertSyllabus(f.programs[slug], req.ProgramName, models.Regulation{
		Name:     req.RegulationName,
		FileURL:  req.FileURL,
		FileName: req.FileName,
	})
	return models.CopyPrograms(f.programs[slug]), nil
}

func (f *fakePages) DeleteRegulation(ctx context.Context, slug, programName, regulationName string) ([]models.Program, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	programs, err := models.RemoveRegulation(f.programs[slug], programName, regulationName)
	if err != nil {
		return nil, err
	}
	f.programs[slug] = programs
	return models.CopyPrograms(programs), nil
}

func (f *fakePages) UploadHeroImage(ctx context.Context, slug, imageURL string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.heroImages[slug] = imageURL
	return nil
}

func (f *fakePages) UploadHeroVideo(ctx context.Context, slug, videoURL string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.heroVideos[slug] = videoURL
	return nil
}

func (f *fakePages) InvalidateAll(ctx context.Context) int {
	return f.invalid
}

// fakeStorage keeps uploads in memory and serves them back by name
type fakeStorage struct {
	mu      sync.Mutex
	files   map[string]models.File
	err     error
	uploads int
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{files: make(map[string]models.File)}
}

func (s *fakeStorage) Upload(ctx context.Context, file models.File, bucket string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uploads++
	if s.err != nil {
		return "", &models.UploadError{Bucket: bucket, Err: s.err}
	}
	s.files[bucket+"/"+file.BaseName()] = file
	return "https://cdn.test/" + bucket + "/" + file.BaseName(), nil
}

func (s *fakeStorage) Open(ctx context.Context, bucket, id string) (*services.Asset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !models.IsValidBucket(bucket) {
		return nil, models.ErrInvalidBucket
	}
	file, ok := s.files[bucket+"/"+id]
	if !ok {
		return nil, models.ErrAssetNotFound
	}
	return &services.Asset{
		Body:        io.NopCloser(bytes.NewReader(file.Data)),
		Name:        id,
		ContentType: file.ContentType,
		Size:        int64(len(file.Data)),
	}, nil
}

type fakeDirectory struct {
	faculty []models.FacultyMember
	hods    []models.HOD
	err     error
}

func (d *fakeDirectory) GetAllFaculty(ctx context.Context) ([]models.FacultyMember, error) {
	return d.faculty, d.err
}

func (d *fakeDirectory) GetAllHODs(ctx context.Context) ([]models.HOD, error) {
	return d.hods, d.err
}

type fakeGallery struct {
	images []models.GalleryImage
	err    error
}

func (g *fakeGallery) GetAllImages(ctx context.Context) ([]models.GalleryImage, error) {
	return g.images, g.err
}

// multipartBody builds a form with the given fields and an optional file part
func multipartBody(fields map[string]string, fileName string, data []byte) (*bytes.Buffer, string) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		_ = mw.WriteField(k, v)
	}
	if fileName != "" {
		part, _ := mw.CreateFormFile("file", fileName)
		_, _ = part.Write(data)
	}
	_ = mw.Close()
	return &buf, mw.FormDataContentType()
}

func serve(router *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}
