package handlers

import (
	"context"

	"github.com/viet-college/app-dept-pages/internal/models"
	"github.com/viet-college/app-dept-pages/internal/services"
	"go.mongodb.org/mongo-driver/bson"
)

// PageService reads and writes department pages
type PageService interface {
	GetBySlug(ctx context.Context, slug string) (bson.M, error)
	GetDocument(ctx context.Context, slug string) (models.Document, error)
	UpdateSections(ctx context.Context, slug string, doc models.Document) error
	UploadSyllabus(ctx context.Context, slug string, req models.SyllabusRequest) ([]models.Program, error)
	DeleteRegulation(ctx context.Context, slug, programName, regulationName string) ([]models.Program, error)
	UploadHeroImage(ctx context.Context, slug, imageURL string) error
	UploadHeroVideo(ctx context.Context, slug, videoURL string) error
	InvalidateAll(ctx context.Context) int
}

// PageRenderer renders the public view of a page
type PageRenderer interface {
	Render(ctx context.Context, slug string) *services.PageView
}

// DirectoryReader lists the faculty directory
type DirectoryReader interface {
	GetAllFaculty(ctx context.Context) ([]models.FacultyMember, error)
	GetAllHODs(ctx context.Context) ([]models.HOD, error)
}

// GalleryReader lists the gallery
type GalleryReader interface {
	GetAllImages(ctx context.Context) ([]models.GalleryImage, error)
}

var (
	_ PageService           = (*services.DepartmentPageService)(nil)
	_ PageRenderer          = (*services.Renderer)(nil)
	_ DirectoryReader       = (*services.DirectoryService)(nil)
	_ GalleryReader         = (*services.GalleryService)(nil)
	_ services.AssetStorage = (*services.GridFSStorage)(nil)
	_ services.AssetStorage = (*services.LocalStorage)(nil)
)
