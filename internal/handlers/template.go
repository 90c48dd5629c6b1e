package handlers

import (
	"embed"
	"html/template"
	"strings"

	"github.com/viet-college/app-dept-pages/internal/models"
	"github.com/viet-college/app-dept-pages/internal/services"
)

//go:embed templates/page.html
var templateFS embed.FS

var pageTemplate = template.Must(
	template.New("page.html").Funcs(template.FuncMap{
		"tiles": galleryTiles,
	}).ParseFS(templateFS, "templates/page.html"),
)

type pageTemplateData struct {
	Slug           string
	DepartmentName string
	Sections       []templateSection
}

type templateSection struct {
	Key        string
	Title      string
	Tier       services.Tier
	Kind       string
	Paragraphs []string
	Data       interface{}
}

type galleryTile struct {
	Image models.GalleryImage
	Col   int
	Row   int
}

func newPageTemplateData(view *services.PageView) pageTemplateData {
	data := pageTemplateData{
		Slug:           view.Slug,
		DepartmentName: view.DepartmentName,
		Sections:       make([]templateSection, 0, len(view.Sections)),
	}
	for _, s := range view.Sections {
		data.Sections = append(data.Sections, templateSection{
			Key:        s.Key,
			Title:      s.Title,
			Tier:       s.Tier,
			Kind:       sectionKind(s.Data),
			Paragraphs: paragraphs(s.Content),
			Data:       s.Data,
		})
	}
	return data
}

// sectionKind picks the template block for the section data
func sectionKind(data interface{}) string {
	switch data.(type) {
	case *models.HeroSection:
		return "hero"
	case *models.OverviewSection:
		return "overview"
	case *models.VisionMissionSection:
		return "visionMission"
	case services.HODView:
		return "hod"
	case *models.CoursesSection:
		return "courses"
	case *models.CurriculumSection:
		return "curriculum"
	case *models.AdmissionSection:
		return "admission"
	case *models.FeeSection:
		return "fee"
	case *models.ProgramOverviewSection:
		return "programOverview"
	case *models.CardSection:
		return "cards"
	case services.FacultyView:
		return "faculty"
	case *models.PlacementsSection:
		return "placements"
	case *models.RDSection:
		return "rd"
	case *models.IdeaCellSection:
		return "ideaCell"
	case services.GalleryView:
		return "gallery"
	case *models.AlumniSection:
		return "alumni"
	}
	return "text"
}

// paragraphs splits a free-text body on blank lines
func paragraphs(content string) []string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	var out []string
	for _, p := range strings.Split(content, "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func galleryTiles(v services.GalleryView) []galleryTile {
	tiles := make([]galleryTile, 0, len(v.Images))
	for i, img := range v.Images {
		cell := services.GridCell{Col: 1, Row: 1}
		if i < len(v.Layout) {
			cell = v.Layout[i]
		}
		tiles = append(tiles, galleryTile{Image: img, Col: cell.Col, Row: cell.Row})
	}
	return tiles
}
