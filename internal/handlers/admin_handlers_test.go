package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viet-college/app-dept-pages/internal/models"
	"github.com/viet-college/app-dept-pages/internal/utils"
)

func setupAdminRouter(pages *fakePages, storage *fakeStorage, maxBytes int64) *gin.Engine {
	h := NewAdminHandlers(testLogger(), pages, storage, maxBytes)

	router := gin.New()
	router.PUT("/admin/pages/:slug/sections", h.UpdateSections)
	router.POST("/admin/pages/:slug/curriculum", h.UploadSyllabus)
	router.DELETE("/admin/pages/:slug/curriculum", h.DeleteRegulation)
	router.PUT("/admin/pages/:slug/hero", h.UpdateHero)
	router.POST("/admin/uploads/:bucket", h.UploadAsset)
	router.POST("/admin/cache/invalidate", h.InvalidateCache)
	return router
}

func jsonRequest(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestUpdateSections_MigratesLegacyShape(t *testing.T) {
	pages := newFakePages()
	pages.programs["cse"] = []models.Program{{Name: "B.Tech", Regulations: []models.Regulation{{Name: "R22", FileURL: "u"}}}}
	router := setupAdminRouter(pages, newFakeStorage(), 0)

	body := `{"sections":{"hero":{"title":"CSE"},"overview":{"stats":[{"label":"Students","value":"1200"}]},"facilities":{"content":"Labs open late"}}}`
	w := serve(router, jsonRequest(http.MethodPut, "/admin/pages/cse/sections", body))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var page models.DepartmentPage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Equal(t, "cse", page.Slug)
	assert.Equal(t, models.CurrentSchemaVersion, page.SchemaVersion)
	assert.Equal(t, "CSE", page.Sections.Hero.Title)
	assert.Len(t, page.Sections.Overview.Stats, models.StatCount)
	assert.Equal(t, "Labs open late", page.Sections.Facilities.Content)
	require.Len(t, page.Sections.Curriculum.Programs, 1)
	assert.Equal(t, "B.Tech", page.Sections.Curriculum.Programs[0].Name)

	stored := pages.docs["cse"]
	assert.Equal(t, "CSE", stored.Hero.Title)
}

func TestUpdateSections_Errors(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		body     string
		storeErr error
		status   int
	}{
		{"empty body", "/admin/pages/cse/sections", "  ", nil, http.StatusBadRequest},
		{"bad slug", "/admin/pages/_x/sections", "{}", nil, http.StatusBadRequest},
		{"store failure", "/admin/pages/cse/sections", `{"hero":{"title":"x"}}`, &models.PersistenceError{Op: "save sections", Err: errors.New("timeout")}, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pages := newFakePages()
			pages.err = tt.storeErr
			router := setupAdminRouter(pages, newFakeStorage(), 0)

			w := serve(router, jsonRequest(http.MethodPut, tt.path, tt.body))
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestUpdateSections_RejectsMalformedBody(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"truncated json", `{"sections": {"hero": {"title": "x"`},
		{"not json", `not json`},
		{"bare array", `[1,2,3]`},
		{"no section keys", `{"foo":1}`},
		{"empty sections object", `{"sections":{}}`},
		{"sections not an object", `{"sections":"hero"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pages := newFakePages()
			existing := models.DefaultDocument()
			existing.Hero.Title = "Keep me"
			existing.Fee.Items = []models.FeeItem{{ID: "fee-1", ProgramName: "B.Tech CSE", Fee: "90000"}}
			pages.docs["cse"] = existing
			router := setupAdminRouter(pages, newFakeStorage(), 0)

			w := serve(router, jsonRequest(http.MethodPut, "/admin/pages/cse/sections", tt.body))
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())

			stored := pages.docs["cse"]
			assert.Equal(t, "Keep me", stored.Hero.Title)
			assert.Len(t, stored.Fee.Items, 1)
		})
	}
}

func TestUploadSyllabus_Multipart(t *testing.T) {
	pages := newFakePages()
	storage := newFakeStorage()
	router := setupAdminRouter(pages, storage, 1<<20)

	body, contentType := multipartBody(map[string]string{
		"programName":    " B.Tech CSE ",
		"regulationName": "R22",
	}, `C:\docs\r22.pdf`, []byte("%PDF-1.4"))
	req := httptest.NewRequest(http.MethodPost, "/admin/pages/cse/curriculum", body)
	req.Header.Set("Content-Type", contentType)

	w := serve(router, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp models.CurriculumResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Programs, 1)
	assert.Equal(t, "B.Tech CSE", resp.Programs[0].Name)
	require.Len(t, resp.Programs[0].Regulations, 1)
	assert.Equal(t, "R22", resp.Programs[0].Regulations[0].Name)
	assert.Equal(t, "r22.pdf", resp.Programs[0].Regulations[0].FileName)
	assert.Equal(t, "https://cdn.test/syllabus/r22.pdf", resp.Programs[0].Regulations[0].FileURL)
	assert.Equal(t, 1, storage.uploads)
}

func TestUploadSyllabus_ValidatesBeforeUpload(t *testing.T) {
	tests := []struct {
		name   string
		fields map[string]string
		file   string
		data   []byte
	}{
		{"missing program", map[string]string{"regulationName": "R22"}, "a.pdf", []byte("x")},
		{"blank regulation", map[string]string{"programName": "B.Tech", "regulationName": "  "}, "a.pdf", []byte("x")},
		{"missing file", map[string]string{"programName": "B.Tech", "regulationName": "R22"}, "", nil},
		{"empty file", map[string]string{"programName": "B.Tech", "regulationName": "R22"}, "a.pdf", []byte{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage := newFakeStorage()
			router := setupAdminRouter(newFakePages(), storage, 0)

			body, contentType := multipartBody(tt.fields, tt.file, tt.data)
			req := httptest.NewRequest(http.MethodPost, "/admin/pages/cse/curriculum", body)
			req.Header.Set("Content-Type", contentType)

			w := serve(router, req)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Zero(t, storage.uploads)
		})
	}
}

func TestUploadSyllabus_JSON(t *testing.T) {
	pages := newFakePages()
	router := setupAdminRouter(pages, newFakeStorage(), 0)

	w := serve(router, jsonRequest(http.MethodPost, "/admin/pages/ece/curriculum",
		`{"programName":"B.Tech","regulationName":"R20","fileUrl":"https://cdn.test/syllabus/r20.pdf","fileName":"r20.pdf"}`))
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, pages.programs["ece"], 1)

	w = serve(router, jsonRequest(http.MethodPost, "/admin/pages/ece/curriculum", `{"programName":"B.Tech"}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUploadSyllabus_StorageFailure(t *testing.T) {
	storage := newFakeStorage()
	storage.err = errors.New("disk full")
	pages := newFakePages()
	router := setupAdminRouter(pages, storage, 0)

	body, contentType := multipartBody(map[string]string{"programName": "B.Tech", "regulationName": "R22"}, "a.pdf", []byte("x"))
	req := httptest.NewRequest(http.MethodPost, "/admin/pages/cse/curriculum", body)
	req.Header.Set("Content-Type", contentType)

	w := serve(router, req)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Empty(t, pages.programs["cse"])
}

func TestDeleteRegulation(t *testing.T) {
	pages := newFakePages()
	pages.programs["cse"] = []models.Program{
		{Name: "B.Tech", Regulations: []models.Regulation{{Name: "R20"}, {Name: "R22"}}},
	}
	router := setupAdminRouter(pages, newFakeStorage(), 0)

	w := serve(router, httptest.NewRequest(http.MethodDelete, "/admin/pages/cse/curriculum?program=B.Tech&regulation=R20", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.CurriculumResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Programs, 1)
	require.Len(t, resp.Programs[0].Regulations, 1)
	assert.Equal(t, "R22", resp.Programs[0].Regulations[0].Name)

	tests := []struct {
		name   string
		query  string
		status int
	}{
		{"unknown program", "?program=M.Tech&regulation=R22", http.StatusNotFound},
		{"unknown regulation", "?program=B.Tech&regulation=R18", http.StatusNotFound},
		{"missing params", "?program=B.Tech", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(router, httptest.NewRequest(http.MethodDelete, "/admin/pages/cse/curriculum"+tt.query, nil))
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestUpdateHero(t *testing.T) {
	pages := newFakePages()
	router := setupAdminRouter(pages, newFakeStorage(), 0)

	w := serve(router, jsonRequest(http.MethodPut, "/admin/pages/cse/hero", `{"image":"https://cdn.test/images/h.jpg"}`))
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://cdn.test/images/h.jpg", pages.heroImages["cse"])
	_, touched := pages.heroVideos["cse"]
	assert.False(t, touched)

	w = serve(router, jsonRequest(http.MethodPut, "/admin/pages/cse/hero", `{"image":"a","video":"b"}`))
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "b", pages.heroVideos["cse"])

	w = serve(router, jsonRequest(http.MethodPut, "/admin/pages/cse/hero", `{}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(router, jsonRequest(http.MethodPut, "/admin/pages/cse/hero", `not json`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUploadAsset(t *testing.T) {
	storage := newFakeStorage()
	router := setupAdminRouter(newFakePages(), storage, 16)

	body, contentType := multipartBody(nil, "logo.png", []byte("png-bytes"))
	req := httptest.NewRequest(http.MethodPost, "/admin/uploads/icons", body)
	req.Header.Set("Content-Type", contentType)

	w := serve(router, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp models.UploadResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "https://cdn.test/icons/logo.png", resp.URL)
	assert.Equal(t, "logo.png", resp.FileName)
	assert.Equal(t, models.BucketIcons, resp.Bucket)
}

func TestUploadAsset_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		bucket string
		file   string
		data   []byte
		status int
	}{
		{"unknown bucket", "secrets", "a.png", []byte("x"), http.StatusBadRequest},
		{"no file", "images", "", nil, http.StatusBadRequest},
		{"too large", "images", "big.jpg", bytes.Repeat([]byte("x"), 64), http.StatusRequestEntityTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage := newFakeStorage()
			router := setupAdminRouter(newFakePages(), storage, 16)

			body, contentType := multipartBody(nil, tt.file, tt.data)
			req := httptest.NewRequest(http.MethodPost, "/admin/uploads/"+tt.bucket, body)
			req.Header.Set("Content-Type", contentType)

			w := serve(router, req)
			assert.Equal(t, tt.status, w.Code)
			assert.Zero(t, storage.uploads)
		})
	}
}

func TestUploadAsset_StorageFailure(t *testing.T) {
	storage := newFakeStorage()
	storage.err = errors.New("bucket unavailable")
	router := setupAdminRouter(newFakePages(), storage, 0)

	body, contentType := multipartBody(nil, "a.jpg", []byte("jpeg"))
	req := httptest.NewRequest(http.MethodPost, "/admin/uploads/images", body)
	req.Header.Set("Content-Type", contentType)

	w := serve(router, req)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "images")
}

func TestInvalidateCache(t *testing.T) {
	pages := newFakePages()
	pages.invalid = 7
	router := setupAdminRouter(pages, newFakeStorage(), 0)

	w := serve(router, httptest.NewRequest(http.MethodPost, "/admin/cache/invalidate", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"invalidated":7}`, w.Body.String())
}

type recordingAuditSink struct {
	mu   sync.Mutex
	logs []utils.AuditLog
}

func (s *recordingAuditSink) InsertBatch(ctx context.Context, logs []utils.AuditLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logs = append(s.logs, logs...)
	return nil
}

func TestAdminHandlers_RecordsAudit(t *testing.T) {
	pages := newFakePages()
	pages.programs["cse"] = []models.Program{{Name: "B.Tech", Regulations: []models.Regulation{{Name: "R20"}}}}
	sink := &recordingAuditSink{}
	aw := utils.NewAuditWorker(sink, 1, 16, testLogger())

	h := NewAdminHandlers(testLogger(), pages, newFakeStorage(), 0).WithAudit(aw)
	router := gin.New()
	router.PUT("/admin/pages/:slug/sections", h.UpdateSections)
	router.DELETE("/admin/pages/:slug/curriculum", h.DeleteRegulation)

	w := serve(router, jsonRequest(http.MethodPut, "/admin/pages/cse/sections", `{"hero":{"title":"CSE"}}`))
	require.Equal(t, http.StatusOK, w.Code)
	w = serve(router, httptest.NewRequest(http.MethodDelete, "/admin/pages/cse/curriculum?program=B.Tech&regulation=R20", nil))
	require.Equal(t, http.StatusOK, w.Code)
	// rejected requests leave no trail
	w = serve(router, httptest.NewRequest(http.MethodDelete, "/admin/pages/cse/curriculum?program=B.Tech&regulation=R99", nil))
	require.Equal(t, http.StatusNotFound, w.Code)
	aw.Stop()

	require.Len(t, sink.logs, 2)
	assert.Equal(t, utils.AuditResourceSections, sink.logs[0].Resource)
	assert.Equal(t, utils.AuditActionDelete, sink.logs[1].Action)
	assert.Equal(t, "cse", sink.logs[1].Slug)
	assert.Equal(t, "R20", sink.logs[1].Metadata["regulation"])
}
