package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/viet-college/app-dept-pages/internal/logging"
	"github.com/viet-college/app-dept-pages/internal/models"
	"github.com/viet-college/app-dept-pages/internal/observability"
	"github.com/viet-college/app-dept-pages/internal/utils"
	"go.uber.org/zap"
)

// Tier says where the content of a rendered section came from
type Tier string

const (
	TierStructured  Tier = "structured"
	TierLegacy      Tier = "legacy"
	TierDemo        Tier = "demo"
	TierPlaceholder Tier = "placeholder"
)

// PersonView is a directory entry prepared for display
type PersonView struct {
	models.DirectoryEntry
	PhoneDisplay string `json:"phoneDisplay,omitempty"`
	PhoneLink    string `json:"phoneLink,omitempty"`
}

// HODView is the head-of-department section
type HODView struct {
	Title   string      `json:"title"`
	Message string      `json:"message"`
	Person  *PersonView `json:"person,omitempty"`
}

// FacultyView is the faculty section
type FacultyView struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Members     []PersonView `json:"members"`
}

// GalleryView is the gallery preview strip
type GalleryView struct {
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Images      []models.GalleryImage `json:"images"`
	Layout      []GridCell            `json:"layout"`
	Total       int                   `json:"total"`
	ViewMore    bool                  `json:"viewMore"`
}

// SectionView is one rendered section. Content holds the legacy body or the
// placeholder message; Data holds the structured or demo content.
type SectionView struct {
	Key     string      `json:"key"`
	Title   string      `json:"title"`
	Tier    Tier        `json:"tier"`
	Content string      `json:"content,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// PageView is a fully rendered department page
type PageView struct {
	Slug           string        `json:"slug"`
	DepartmentName string        `json:"departmentName"`
	Sections       []SectionView `json:"sections"`
}

// Section returns the rendered section with the given key
func (p *PageView) Section(key string) (SectionView, bool) {
	for _, s := range p.Sections {
		if s.Key == key {
			return s, true
		}
	}
	return SectionView{}, false
}

// RenderInput is everything a page render depends on
type RenderInput struct {
	Slug                string
	Document            models.Document
	HODs                []models.HOD
	Faculty             []models.FacultyMember
	Gallery             []models.GalleryImage
	ReferenceDepartment string
}

var defaultSectionTitles = map[string]string{
	models.SectionHero:            "Welcome",
	models.SectionOverview:        "Overview",
	models.SectionVisionMission:   "Vision & Mission",
	models.SectionHOD:             "Head of Department",
	models.SectionCourses:         "Courses Offered",
	models.SectionCurriculum:      "Curriculum",
	models.SectionAdmission:       "Admissions",
	models.SectionFee:             "Fee Structure",
	models.SectionProgramOverview: "Program Overview",
	models.SectionFacilities:      "Facilities",
	models.SectionWhyViet:         "Why VIET",
	models.SectionFaculty:         "Faculty",
	models.SectionProjects:        "Projects",
	models.SectionPlacements:      "Placements",
	models.SectionRD:              "Research & Development",
	models.SectionIdeaCell:        "IDEA Cell",
	models.SectionClubActivities:  "Club Activities",
	models.SectionGallery:         "Gallery",
	models.SectionAlumni:          "Alumni",
}

// PlaceholderMessage is shown for a section with no content at all
func PlaceholderMessage(title string) string {
	return fmt.Sprintf("%s has not been configured yet. Edit it in the admin panel.", title)
}

// BuildPageView composes every section of a page. It performs no I/O.
func BuildPageView(in RenderInput) *PageView {
	slug := strings.ToLower(strings.TrimSpace(in.Slug))
	view := &PageView{
		Slug:           slug,
		DepartmentName: slug,
		Sections:       make([]SectionView, 0, len(models.SectionKeys)),
	}
	if d, ok := models.LookupDepartment(slug); ok {
		view.DepartmentName = d.Name
	}

	doc := in.Document
	demo := slug != "" && slug == strings.ToLower(in.ReferenceDepartment)
	var demoDoc models.Document
	if demo {
		demoDoc = demoDocument()
	}

	hod := hodView(doc, in.HODs, slug)
	faculty := facultyView(doc, in.HODs, in.Faculty, slug)
	gallery := galleryView(doc, in.Gallery, slug)

	for _, key := range models.SectionKeys {
		sv := SectionView{Key: key, Title: doc.SectionTitle(key)}

		var structured bool
		var data interface{}
		switch key {
		case models.SectionHOD:
			structured = hod.Person != nil || doc.HasStructuredData(key)
			data = hod
		case models.SectionFaculty:
			structured = len(faculty.Members) > 0
			data = faculty
		case models.SectionGallery:
			structured = len(gallery.Images) > 0
			data = gallery
		default:
			structured = doc.HasStructuredData(key)
			data = sectionValue(&doc, key)
		}

		switch {
		case structured:
			sv.Tier = TierStructured
			sv.Data = data
		case doc.LegacyContent(key) != "":
			sv.Tier = TierLegacy
			sv.Content = doc.LegacyContent(key)
		case demo:
			sv.Tier = TierDemo
			sv.Data = demoValue(&demoDoc, key)
			if sv.Title == "" {
				sv.Title = demoDoc.SectionTitle(key)
			}
		default:
			sv.Tier = TierPlaceholder
		}

		if sv.Title == "" {
			sv.Title = defaultSectionTitles[key]
		}
		if sv.Tier == TierPlaceholder {
			sv.Content = PlaceholderMessage(sv.Title)
		}

		observability.SectionRenders.WithLabelValues(key, string(sv.Tier)).Inc()
		view.Sections = append(view.Sections, sv)
	}

	return view
}

func sectionValue(doc *models.Document, key string) interface{} {
	ptr, err := doc.Section(key)
	if err != nil {
		return nil
	}
	return ptr
}

// demoValue shapes the demo content like the structured data of the section
func demoValue(demoDoc *models.Document, key string) interface{} {
	switch key {
	case models.SectionHOD:
		return HODView{Title: demoDoc.HOD.Title, Message: demoDoc.HOD.Message}
	case models.SectionFaculty:
		return FacultyView{Title: demoDoc.Faculty.Title, Description: demoDoc.Faculty.Description, Members: []PersonView{}}
	case models.SectionGallery:
		return GalleryView{Title: demoDoc.Gallery.Title, Description: demoDoc.Gallery.Description, Images: []models.GalleryImage{}}
	}
	return sectionValue(demoDoc, key)
}

func hodView(doc models.Document, hods []models.HOD, slug string) HODView {
	v := HODView{Title: doc.HOD.Title, Message: doc.HOD.Message}
	match := models.HODMatcher(slug)
	for _, h := range hods {
		if match(h) {
			p := personView(h)
			v.Person = &p
			break
		}
	}
	return v
}

// facultyView lists the page's HODs first, then the faculty pool, each person once
func facultyView(doc models.Document, hods []models.HOD, faculty []models.FacultyMember, slug string) FacultyView {
	v := FacultyView{
		Title:       doc.Faculty.Title,
		Description: doc.Faculty.Description,
		Members:     []PersonView{},
	}
	seen := make(map[string]bool)
	add := func(m models.DirectoryEntry) {
		key := strings.ToLower(strings.TrimSpace(m.Name))
		if key == "" || seen[key] {
			return
		}
		seen[key] = true
		v.Members = append(v.Members, personView(m))
	}

	hodMatch := models.HODMatcher(slug)
	for _, h := range hods {
		if hodMatch(h) {
			add(h)
		}
	}
	facultyMatch := models.FacultyMatcher(slug)
	for _, f := range faculty {
		if facultyMatch(f) {
			add(f)
		}
	}
	return v
}

func galleryView(doc models.Document, images []models.GalleryImage, slug string) GalleryView {
	v := GalleryView{
		Title:       doc.Gallery.Title,
		Description: doc.Gallery.Description,
		Images:      []models.GalleryImage{},
	}
	match := models.GalleryMatcher(slug)
	for _, img := range images {
		if !match(img) {
			continue
		}
		v.Total++
		if len(v.Images) < GalleryPreviewLimit {
			v.Images = append(v.Images, img)
		}
	}
	v.ViewMore = v.Total > GalleryPreviewLimit
	v.Layout = GalleryLayout(len(v.Images))
	return v
}

func personView(m models.DirectoryEntry) PersonView {
	p := PersonView{DirectoryEntry: m}
	p.Name = strings.TrimSpace(m.Name)
	if strings.TrimSpace(m.Phone) != "" {
		p.PhoneDisplay = utils.FormatPhoneForDisplay(m.Phone)
		p.PhoneLink = utils.PhoneTelURI(m.Phone)
	}
	return p
}

// DocumentSource loads the migrated document of a page
type DocumentSource interface {
	GetDocument(ctx context.Context, slug string) (models.Document, error)
}

// DirectorySource provides the full faculty and HOD sets
type DirectorySource interface {
	GetAllFaculty(ctx context.Context) ([]models.FacultyMember, error)
	GetAllHODs(ctx context.Context) ([]models.HOD, error)
}

// GallerySource provides the full gallery set
type GallerySource interface {
	GetAllImages(ctx context.Context) ([]models.GalleryImage, error)
}

// Renderer fetches a page and its collaborator data and renders it
type Renderer struct {
	pages               DocumentSource
	directory           DirectorySource
	gallery             GallerySource
	referenceDepartment string
	logger              *logging.SafeLogger
}

// NewRenderer creates a page renderer
func NewRenderer(pages DocumentSource, directory DirectorySource, gallery GallerySource, referenceDepartment string, logger *logging.SafeLogger) *Renderer {
	return &Renderer{
		pages:               pages,
		directory:           directory,
		gallery:             gallery,
		referenceDepartment: referenceDepartment,
		logger:              logger,
	}
}

// Render renders a page. Collaborator failures never reach the caller: a
// missing or unreadable page renders the default document, and an unreachable
// directory or gallery renders as empty.
func (r *Renderer) Render(ctx context.Context, slug string) *PageView {
	ctx, span, end := utils.TraceOperation(ctx, "render_page", map[string]interface{}{"slug": slug})
	defer end()

	in := RenderInput{
		Slug:                slug,
		Document:            models.DefaultDocument(),
		ReferenceDepartment: r.referenceDepartment,
	}

	var wg sync.WaitGroup
	wg.Add(4)
	go func() {
		defer wg.Done()
		doc, err := r.pages.GetDocument(ctx, slug)
		if err != nil {
			if !errors.Is(err, models.ErrPageNotFound) {
				r.logger.Warn("rendering default document", zap.String("slug", slug), zap.Error(err))
			}
			return
		}
		in.Document = doc
	}()
	go func() {
		defer wg.Done()
		hods, err := r.directory.GetAllHODs(ctx)
		if err != nil {
			r.logger.Warn("rendering without hods", zap.String("slug", slug), zap.Error(err))
			return
		}
		in.HODs = hods
	}()
	go func() {
		defer wg.Done()
		faculty, err := r.directory.GetAllFaculty(ctx)
		if err != nil {
			r.logger.Warn("rendering without faculty", zap.String("slug", slug), zap.Error(err))
			return
		}
		in.Faculty = faculty
	}()
	go func() {
		defer wg.Done()
		images, err := r.gallery.GetAllImages(ctx)
		if err != nil {
			r.logger.Warn("rendering without gallery", zap.String("slug", slug), zap.Error(err))
			return
		}
		in.Gallery = images
	}()
	wg.Wait()

	view := BuildPageView(in)
	utils.AddSpanAttribute(span, "render.sections", len(view.Sections))
	return view
}
