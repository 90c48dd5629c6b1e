package models

// Baseline stats shown before a department fills in its own figures
var (
	defaultOverviewStats = []Stat{
		{Label: "Established", Value: "2008"},
		{Label: "Faculty Members", Value: "60+"},
		{Label: "Students", Value: "1200+"},
		{Label: "Labs & Facilities", Value: "25+"},
	}

	defaultPlacementStats = []Stat{
		{Label: "Placement Rate", Value: "95%"},
		{Label: "Students Placed", Value: "450+"},
		{Label: "Recruiting Companies", Value: "120+"},
		{Label: "Highest Package", Value: "12 LPA"},
	}
)

// DefaultOverviewStats returns a fresh copy of the baseline overview stats
func DefaultOverviewStats() []Stat {
	return append([]Stat(nil), defaultOverviewStats...)
}

// DefaultPlacementStats returns a fresh copy of the baseline placement stats
func DefaultPlacementStats() []Stat {
	return append([]Stat(nil), defaultPlacementStats...)
}

// DefaultDocument returns an empty page: every section present, scalars empty,
// lists empty and stats set to the baseline figures. Each call returns
// independent slices.
func DefaultDocument() Document {
	return Document{
		Overview: OverviewSection{
			Stats: DefaultOverviewStats(),
		},
		Courses: CoursesSection{
			Categories: []CourseCategory{},
		},
		Curriculum: CurriculumSection{
			Programs: []Program{},
		},
		Fee: FeeSection{
			Items: []FeeItem{},
		},
		ProgramOverview: ProgramOverviewSection{
			Badges: []Badge{},
		},
		Facilities:     CardSection{Cards: []Card{}},
		WhyViet:        CardSection{Cards: []Card{}},
		Projects:       CardSection{Cards: []Card{}},
		ClubActivities: CardSection{Cards: []Card{}},
		Placements: PlacementsSection{
			Stats:           DefaultPlacementStats(),
			RecruiterImages: []string{},
			Cards:           []PlacementCard{},
		},
		RD: RDSection{
			ResearchAreas: []ResearchArea{},
			Cards:         []Card{},
		},
		IdeaCell: IdeaCellSection{
			Pillars: []Pillar{},
		},
		Alumni: AlumniSection{
			Cards: []AlumniCard{},
		},
	}
}

// NewDepartmentPage returns the default page for a slug
func NewDepartmentPage(slug string) *DepartmentPage {
	return &DepartmentPage{
		Slug:          slug,
		Sections:      DefaultDocument(),
		SchemaVersion: CurrentSchemaVersion,
	}
}

// CloneDocument returns a deep copy of doc. A migrated document migrates to
// itself, so re-running the migration yields an independent copy.
func CloneDocument(doc Document) Document {
	return Migrate(doc)
}
