package models

import (
	"time"
)

// CurrentSchemaVersion is stamped on documents rewritten by the batch migration
const CurrentSchemaVersion = 2

// Section keys of a department page, in page order
const (
	SectionHero            = "hero"
	SectionOverview        = "overview"
	SectionVisionMission   = "visionMission"
	SectionHOD             = "hod"
	SectionCourses         = "courses"
	SectionCurriculum      = "curriculum"
	SectionAdmission       = "admission"
	SectionFee             = "fee"
	SectionProgramOverview = "programOverview"
	SectionFacilities      = "facilities"
	SectionWhyViet         = "whyViet"
	SectionFaculty         = "faculty"
	SectionProjects        = "projects"
	SectionPlacements      = "placements"
	SectionRD              = "rd"
	SectionIdeaCell        = "ideaCell"
	SectionClubActivities  = "clubActivities"
	SectionGallery         = "gallery"
	SectionAlumni          = "alumni"
)

// SectionKeys lists every section of a department page in render order
var SectionKeys = []string{
	SectionHero,
	SectionOverview,
	SectionVisionMission,
	SectionHOD,
	SectionCourses,
	SectionCurriculum,
	SectionAdmission,
	SectionFee,
	SectionProgramOverview,
	SectionFacilities,
	SectionWhyViet,
	SectionFaculty,
	SectionProjects,
	SectionPlacements,
	SectionRD,
	SectionIdeaCell,
	SectionClubActivities,
	SectionGallery,
	SectionAlumni,
}

// IsValidSection reports whether key names a known section
func IsValidSection(key string) bool {
	for _, k := range SectionKeys {
		if k == key {
			return true
		}
	}
	return false
}

// StatCount is the fixed length of every stats array
const StatCount = 4

// Stat is one label/value pair of a fixed four-entry stats strip
type Stat struct {
	Label string `json:"label" bson:"label"`
	Value string `json:"value" bson:"value"`
}

// HeroSection is the page banner
type HeroSection struct {
	Image      string `json:"image" bson:"image"`
	Video      string `json:"video" bson:"video"`
	Badge      string `json:"badge" bson:"badge"`
	Title      string `json:"title" bson:"title"`
	Subtitle   string `json:"subtitle" bson:"subtitle"`
	ButtonText string `json:"buttonText" bson:"buttonText"`
	ButtonLink string `json:"buttonLink" bson:"buttonLink"`
}

type OverviewSection struct {
	Title       string `json:"title" bson:"title"`
	Description string `json:"description" bson:"description"`
	Image       string `json:"image" bson:"image"`
	Stats       []Stat `json:"stats" bson:"stats"`
}

type VisionMissionSection struct {
	Vision  string `json:"vision" bson:"vision"`
	Mission string `json:"mission" bson:"mission"`
	Content string `json:"content" bson:"content"`
}

// HODSection holds the page's copy for the head of department; the person
// itself comes from the faculty directory.
type HODSection struct {
	Title   string `json:"title" bson:"title"`
	Message string `json:"message" bson:"message"`
}

type CourseProgram struct {
	ID    string `json:"id" bson:"id"`
	Name  string `json:"name" bson:"name"`
	Seats string `json:"seats" bson:"seats"`
	Fee   string `json:"fee" bson:"fee"`
}

type CourseCategory struct {
	ID       string          `json:"id" bson:"id"`
	Name     string          `json:"name" bson:"name"`
	Programs []CourseProgram `json:"programs" bson:"programs"`
}

type CoursesSection struct {
	Categories []CourseCategory `json:"categories" bson:"categories"`
}

// Regulation is one syllabus document of a program
type Regulation struct {
	Name     string `json:"name" bson:"name"`
	FileURL  string `json:"fileUrl" bson:"fileUrl"`
	FileName string `json:"fileName" bson:"fileName"`
}

// Program groups the regulations of one degree program. Regulation names are
// unique within a program.
type Program struct {
	Name        string       `json:"name" bson:"name"`
	Regulations []Regulation `json:"regulations" bson:"regulations"`
}

type CurriculumSection struct {
	Title       string    `json:"title" bson:"title"`
	Description string    `json:"description" bson:"description"`
	Programs    []Program `json:"programs" bson:"programs"`
}

type AdmissionSection struct {
	Title       string `json:"title" bson:"title"`
	Description string `json:"description" bson:"description"`
	Eligibility string `json:"eligibility" bson:"eligibility"`
	ApplyLink   string `json:"applyLink" bson:"applyLink"`
	Content     string `json:"content" bson:"content"`
}

type FeeItem struct {
	ID          string `json:"id" bson:"id"`
	ProgramName string `json:"programName" bson:"programName"`
	Fee         string `json:"fee" bson:"fee"`
}

type FeeSection struct {
	Title string    `json:"title" bson:"title"`
	Note  string    `json:"note" bson:"note"`
	Items []FeeItem `json:"items" bson:"items"`
}

// Badge is a program-outcome (PO) badge
type Badge struct {
	ID   string `json:"id" bson:"id"`
	Code string `json:"code" bson:"code"`
	Text string `json:"text" bson:"text"`
}

type ProgramOverviewSection struct {
	Title       string  `json:"title" bson:"title"`
	Description string  `json:"description" bson:"description"`
	Badges      []Badge `json:"badges" bson:"badges"`
	Content     string  `json:"content" bson:"content"`
}

// Card is the shared element of the facilities, why-VIET, projects, club and R&D grids
type Card struct {
	ID          string `json:"id" bson:"id"`
	Icon        string `json:"icon" bson:"icon"`
	Image       string `json:"image" bson:"image"`
	Title       string `json:"title" bson:"title"`
	Description string `json:"description" bson:"description"`
}

// CardSection is a titled grid of cards. Content is the legacy free-text body.
type CardSection struct {
	Title       string `json:"title" bson:"title"`
	Description string `json:"description" bson:"description"`
	Cards       []Card `json:"cards" bson:"cards"`
	Content     string `json:"content" bson:"content"`
}

type FacultySection struct {
	Title       string `json:"title" bson:"title"`
	Description string `json:"description" bson:"description"`
}

type PlacementCard struct {
	ID      string `json:"id" bson:"id"`
	Image   string `json:"image" bson:"image"`
	Name    string `json:"name" bson:"name"`
	Company string `json:"company" bson:"company"`
	Role    string `json:"role" bson:"role"`
	Package string `json:"package" bson:"package"`
}

type PlacementsSection struct {
	Title           string          `json:"title" bson:"title"`
	Stats           []Stat          `json:"stats" bson:"stats"`
	RecruiterImages []string        `json:"recruiterImages" bson:"recruiterImages"`
	Cards           []PlacementCard `json:"cards" bson:"cards"`
	Content         string          `json:"content" bson:"content"`
}

type ResearchArea struct {
	ID   string `json:"id" bson:"id"`
	Name string `json:"name" bson:"name"`
}

type RDSection struct {
	Title         string         `json:"title" bson:"title"`
	Description   string         `json:"description" bson:"description"`
	ResearchAreas []ResearchArea `json:"researchAreas" bson:"researchAreas"`
	Cards         []Card         `json:"cards" bson:"cards"`
	Content       string         `json:"content" bson:"content"`
}

type PillarItem struct {
	ID   string `json:"id" bson:"id"`
	Text string `json:"text" bson:"text"`
}

type Pillar struct {
	ID    string       `json:"id" bson:"id"`
	Title string       `json:"title" bson:"title"`
	Icon  string       `json:"icon" bson:"icon"`
	Items []PillarItem `json:"items" bson:"items"`
}

type IdeaCellSection struct {
	Title       string   `json:"title" bson:"title"`
	Description string   `json:"description" bson:"description"`
	Pillars     []Pillar `json:"pillars" bson:"pillars"`
	Content     string   `json:"content" bson:"content"`
}

type GallerySection struct {
	Title       string `json:"title" bson:"title"`
	Description string `json:"description" bson:"description"`
}

type AlumniCard struct {
	ID      string `json:"id" bson:"id"`
	Image   string `json:"image" bson:"image"`
	Name    string `json:"name" bson:"name"`
	Batch   string `json:"batch" bson:"batch"`
	Company string `json:"company" bson:"company"`
	Quote   string `json:"quote" bson:"quote"`
}

type AlumniSection struct {
	Title   string       `json:"title" bson:"title"`
	Cards   []AlumniCard `json:"cards" bson:"cards"`
	Content string       `json:"content" bson:"content"`
}

// Document is the full content of one department page, one field per section
type Document struct {
	Hero            HeroSection            `json:"hero" bson:"hero"`
	Overview        OverviewSection        `json:"overview" bson:"overview"`
	VisionMission   VisionMissionSection   `json:"visionMission" bson:"visionMission"`
	HOD             HODSection             `json:"hod" bson:"hod"`
	Courses         CoursesSection         `json:"courses" bson:"courses"`
	Curriculum      CurriculumSection      `json:"curriculum" bson:"curriculum"`
	Admission       AdmissionSection       `json:"admission" bson:"admission"`
	Fee             FeeSection             `json:"fee" bson:"fee"`
	ProgramOverview ProgramOverviewSection `json:"programOverview" bson:"programOverview"`
	Facilities      CardSection            `json:"facilities" bson:"facilities"`
	WhyViet         CardSection            `json:"whyViet" bson:"whyViet"`
	Faculty         FacultySection         `json:"faculty" bson:"faculty"`
	Projects        CardSection            `json:"projects" bson:"projects"`
	Placements      PlacementsSection      `json:"placements" bson:"placements"`
	RD              RDSection              `json:"rd" bson:"rd"`
	IdeaCell        IdeaCellSection        `json:"ideaCell" bson:"ideaCell"`
	ClubActivities  CardSection            `json:"clubActivities" bson:"clubActivities"`
	Gallery         GallerySection         `json:"gallery" bson:"gallery"`
	Alumni          AlumniSection          `json:"alumni" bson:"alumni"`
}

// Section returns a pointer to the named section struct
func (d *Document) Section(key string) (interface{}, error) {
	switch key {
	case SectionHero:
		return &d.Hero, nil
	case SectionOverview:
		return &d.Overview, nil
	case SectionVisionMission:
		return &d.VisionMission, nil
	case SectionHOD:
		return &d.HOD, nil
	case SectionCourses:
		return &d.Courses, nil
	case SectionCurriculum:
		return &d.Curriculum, nil
	case SectionAdmission:
		return &d.Admission, nil
	case SectionFee:
		return &d.Fee, nil
	case SectionProgramOverview:
		return &d.ProgramOverview, nil
	case SectionFacilities:
		return &d.Facilities, nil
	case SectionWhyViet:
		return &d.WhyViet, nil
	case SectionFaculty:
		return &d.Faculty, nil
	case SectionProjects:
		return &d.Projects, nil
	case SectionPlacements:
		return &d.Placements, nil
	case SectionRD:
		return &d.RD, nil
	case SectionIdeaCell:
		return &d.IdeaCell, nil
	case SectionClubActivities:
		return &d.ClubActivities, nil
	case SectionGallery:
		return &d.Gallery, nil
	case SectionAlumni:
		return &d.Alumni, nil
	}
	return nil, ErrUnknownSection
}

// DepartmentPage is the persisted record for one department slug
type DepartmentPage struct {
	Slug          string     `json:"slug" bson:"slug"`
	Sections      Document   `json:"sections" bson:"sections"`
	SchemaVersion int        `json:"schemaVersion" bson:"schema_version"`
	UpdatedAt     *time.Time `json:"updatedAt,omitempty" bson:"updated_at,omitempty"`
}

// SectionsRequest is the body of a whole-sections save
type SectionsRequest struct {
	Sections Document `json:"sections"`
}

// SyllabusRequest registers an already-stored syllabus file for a program regulation
type SyllabusRequest struct {
	ProgramName    string `json:"programName" binding:"required"`
	RegulationName string `json:"regulationName" binding:"required"`
	FileURL        string `json:"fileUrl" binding:"required"`
	FileName       string `json:"fileName"`
}

// HeroAssetsRequest persists hero media independently of the section save
type HeroAssetsRequest struct {
	Image *string `json:"image,omitempty"`
	Video *string `json:"video,omitempty"`
}

// UploadResponse is returned by the asset upload endpoint
type UploadResponse struct {
	URL      string `json:"url"`
	FileName string `json:"fileName"`
	Bucket   string `json:"bucket"`
}

// CurriculumResponse carries a page's programs after a curriculum change
type CurriculumResponse struct {
	Slug     string    `json:"slug"`
	Programs []Program `json:"programs"`
}
