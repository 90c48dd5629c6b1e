package services

import (
	"github.com/viet-college/app-dept-pages/internal/models"
)

// demoDocument is the illustrative content shown on the reference department
// for sections an operator has not filled in yet
func demoDocument() models.Document {
	doc := models.DefaultDocument()

	doc.Hero = models.HeroSection{
		Badge:      "NBA Accredited",
		Title:      "Department of Computer Science and Engineering",
		Subtitle:   "Building engineers who design the systems of tomorrow",
		ButtonText: "Apply Now",
		ButtonLink: "/admissions",
	}
	doc.Overview.Title = "About the Department"
	doc.Overview.Description = "Established in 2008, the department offers undergraduate and postgraduate programs " +
		"with a strong focus on software engineering, data and systems."
	doc.VisionMission = models.VisionMissionSection{
		Vision:  "To be a centre of excellence in computing education and research.",
		Mission: "To impart quality technical education through industry-aligned curricula and hands-on learning.",
	}
	doc.HOD = models.HODSection{
		Title:   "From the Head of Department",
		Message: "Our students learn by building. Welcome to a department where curiosity turns into craft.",
	}
	doc.Courses.Categories = []models.CourseCategory{
		{
			ID:   "demo-ug",
			Name: "Undergraduate",
			Programs: []models.CourseProgram{
				{ID: "demo-btech-cse", Name: "B.Tech CSE", Seats: "180", Fee: "₹43,000"},
			},
		},
		{
			ID:   "demo-pg",
			Name: "Postgraduate",
			Programs: []models.CourseProgram{
				{ID: "demo-mtech-cse", Name: "M.Tech CSE", Seats: "18", Fee: "₹57,000"},
			},
		},
	}
	doc.Curriculum.Title = "Curriculum & Syllabus"
	doc.Curriculum.Description = "Syllabus documents for every regulation are published here."
	doc.Admission = models.AdmissionSection{
		Title:       "Admissions",
		Description: "Admissions are made through the state engineering entrance examination.",
		Eligibility: "10+2 with Mathematics, Physics and Chemistry",
		ApplyLink:   "/admissions",
	}
	doc.Fee.Title = "Fee Structure"
	doc.Fee.Note = "Fees are per annum and subject to revision by the fee regulatory committee."
	doc.Fee.Items = []models.FeeItem{
		{ID: "demo-fee-btech", ProgramName: "B.Tech CSE", Fee: "₹43,000"},
		{ID: "demo-fee-mtech", ProgramName: "M.Tech CSE", Fee: "₹57,000"},
	}
	doc.ProgramOverview = models.ProgramOverviewSection{
		Title:       "Program Outcomes",
		Description: "Graduates of the program are able to:",
		Badges: []models.Badge{
			{ID: "demo-po1", Code: "PO1", Text: "Apply engineering knowledge to complex problems"},
			{ID: "demo-po2", Code: "PO2", Text: "Analyse problems using first principles"},
			{ID: "demo-po3", Code: "PO3", Text: "Design solutions that meet specified needs"},
		},
	}
	doc.Facilities = models.CardSection{
		Title: "Facilities",
		Cards: []models.Card{
			{ID: "demo-lab", Icon: "cpu", Title: "Advanced Computing Lab", Description: "120 workstations with GPU nodes."},
			{ID: "demo-library", Icon: "book", Title: "Department Library", Description: "Over 5,000 volumes and e-journals."},
		},
	}
	doc.WhyViet = models.CardSection{
		Title: "Why VIET",
		Cards: []models.Card{
			{ID: "demo-why-industry", Icon: "briefcase", Title: "Industry Connect", Description: "Internships with partner companies."},
			{ID: "demo-why-faculty", Icon: "users", Title: "Experienced Faculty", Description: "Mentors with research and industry backgrounds."},
		},
	}
	doc.Faculty = models.FacultySection{Title: "Our Faculty", Description: "Meet the people who teach and mentor our students."}
	doc.Projects = models.CardSection{
		Title: "Student Projects",
		Cards: []models.Card{
			{ID: "demo-project-iot", Icon: "wifi", Title: "Smart Campus IoT", Description: "Sensor network monitoring classroom energy use."},
		},
	}
	doc.Placements.Title = "Placements"
	doc.Placements.Cards = []models.PlacementCard{
		{ID: "demo-placed-1", Name: "A. Student", Company: "Example Technologies", Role: "Software Engineer", Package: "12 LPA"},
	}
	doc.RD = models.RDSection{
		Title:       "Research & Development",
		Description: "Faculty and students collaborate on funded research.",
		ResearchAreas: []models.ResearchArea{
			{ID: "demo-area-ml", Name: "Machine Learning"},
			{ID: "demo-area-net", Name: "Computer Networks"},
		},
		Cards: []models.Card{},
	}
	doc.IdeaCell = models.IdeaCellSection{
		Title:       "IDEA Cell",
		Description: "Innovation, Design, Entrepreneurship and Action.",
		Pillars: []models.Pillar{
			{
				ID:    "demo-pillar-innovate",
				Title: "Innovate",
				Icon:  "lightbulb",
				Items: []models.PillarItem{{ID: "demo-item-hackathon", Text: "Annual hackathon"}},
			},
		},
	}
	doc.ClubActivities = models.CardSection{
		Title: "Club Activities",
		Cards: []models.Card{
			{ID: "demo-club-coding", Icon: "code", Title: "Coding Club", Description: "Weekly contests and workshops."},
		},
	}
	doc.Gallery = models.GallerySection{Title: "Gallery", Description: "Moments from campus life."}
	doc.Alumni = models.AlumniSection{
		Title: "Alumni Speak",
		Cards: []models.AlumniCard{
			{ID: "demo-alumnus", Name: "A. Graduate", Batch: "2019", Company: "Example Systems", Quote: "The labs made me job-ready."},
		},
	}
	return doc
}
