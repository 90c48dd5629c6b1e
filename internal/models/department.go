package models

import (
	"strings"
)

// FamilyCSE groups the computer science sub-departments that share one faculty pool
const FamilyCSE = "cse"

// Slugs of the CSE family
const (
	SlugCSE            = "cse"
	SlugCSEDataScience = "cse-data-science"
	SlugCyberSecurity  = "cyber-security"
	SlugCSEAIML        = "cse-aiml"
)

// Department is an academic department with its own page
type Department struct {
	Slug   string `json:"slug"`
	Name   string `json:"name"`
	Code   string `json:"code"`
	Family string `json:"family,omitempty"`

	// exact texts that identify the department, compared after normalization
	aliases []string
	// phrases that identify the department when contained in the text
	phrases []string
	// slugs whose predicate vetoes a match for this department
	excludes []string
}

// DepartmentListResponse represents the department catalog in API responses
type DepartmentListResponse struct {
	Departments []Department `json:"departments"`
	TotalCount  int          `json:"total_count"`
}

// Catalog lists every department, CSE family first
var Catalog = []Department{
	{
		Slug:     SlugCSE,
		Name:     "Computer Science and Engineering",
		Code:     "CSE",
		Family:   FamilyCSE,
		aliases:  []string{"cse", "computer science"},
		phrases:  []string{"computer science and engineering", "computer science & engineering"},
		excludes: []string{SlugCSEDataScience, SlugCyberSecurity, SlugCSEAIML},
	},
	{
		Slug:    SlugCSEDataScience,
		Name:    "CSE (Data Science)",
		Code:    "CSD",
		Family:  FamilyCSE,
		aliases: []string{"csd", "cse-ds", "ds"},
		phrases: []string{"data science", "(csd)"},
	},
	{
		Slug:    SlugCyberSecurity,
		Name:    "CSE (Cyber Security)",
		Code:    "CSC",
		Family:  FamilyCSE,
		aliases: []string{"csc"},
		phrases: []string{"cybersecurity (csc)", "cyber security"},
	},
	{
		Slug:    SlugCSEAIML,
		Name:    "CSE (AI & ML)",
		Code:    "CSM",
		Family:  FamilyCSE,
		aliases: []string{"csm", "aiml", "cse-aiml"},
		phrases: []string{"ai&ml", "ai & ml", "ai and ml", "artificial intelligence", "machine learning"},
	},
	{
		Slug:    "ece",
		Name:    "Electronics and Communication Engineering",
		Code:    "ECE",
		aliases: []string{"ece"},
		phrases: []string{"electronics and communication", "electronics & communication"},
	},
	{
		Slug:    "eee",
		Name:    "Electrical and Electronics Engineering",
		Code:    "EEE",
		aliases: []string{"eee"},
		phrases: []string{"electrical and electronics", "electrical & electronics"},
	},
	{
		Slug:    "mech",
		Name:    "Mechanical Engineering",
		Code:    "ME",
		aliases: []string{"mech", "me"},
		phrases: []string{"mechanical"},
	},
	{
		Slug:    "civil",
		Name:    "Civil Engineering",
		Code:    "CE",
		aliases: []string{"civil", "ce"},
		phrases: []string{"civil engineering"},
	},
}

// LookupDepartment returns the catalog entry for a slug
func LookupDepartment(slug string) (Department, bool) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	for _, d := range Catalog {
		if d.Slug == slug {
			return d, true
		}
	}
	return Department{}, false
}

// InFamily reports whether the department belongs to the CSE family
func (d Department) InFamily() bool {
	return d.Family == FamilyCSE
}

// normalizeDepartmentText lower-cases, trims and collapses inner whitespace
func normalizeDepartmentText(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}

func (d Department) matches(text string) bool {
	if text == "" {
		return false
	}
	hit := false
	for _, a := range d.aliases {
		if text == a {
			hit = true
			break
		}
	}
	if !hit {
		for _, p := range d.phrases {
			if strings.Contains(text, p) {
				hit = true
				break
			}
		}
	}
	if !hit {
		return false
	}
	for _, ex := range d.excludes {
		if other, ok := LookupDepartment(ex); ok && other.matches(text) {
			return false
		}
	}
	return true
}

// MatchesDepartment applies the department's own predicate to a free-text
// department field. Unknown slugs match only their own slug text.
func MatchesDepartment(slug, departmentText string) bool {
	text := normalizeDepartmentText(departmentText)
	d, ok := LookupDepartment(slug)
	if !ok {
		return text != "" && text == normalizeDepartmentText(slug)
	}
	return d.matches(text)
}

// InCSEFamily reports whether the text matches any CSE family predicate
func InCSEFamily(departmentText string) bool {
	text := normalizeDepartmentText(departmentText)
	for _, d := range Catalog {
		if d.InFamily() && d.matches(text) {
			return true
		}
	}
	return false
}

// DepartmentMatcher decides whether a directory entry belongs on a page
type DepartmentMatcher func(m DirectoryEntry) bool

// HODMatcher selects heads of department strictly by the slug's own predicate
func HODMatcher(slug string) DepartmentMatcher {
	return func(m DirectoryEntry) bool {
		if m.DepartmentSlug != "" {
			return strings.EqualFold(m.DepartmentSlug, slug)
		}
		return MatchesDepartment(slug, m.Department)
	}
}

// FacultyMatcher selects faculty for a page. CSE family pages share the
// whole family pool; other departments use their own predicate.
func FacultyMatcher(slug string) DepartmentMatcher {
	d, ok := LookupDepartment(slug)
	if !ok || !d.InFamily() {
		return HODMatcher(slug)
	}
	return func(m DirectoryEntry) bool {
		if m.DepartmentSlug != "" {
			if family, ok := LookupDepartment(m.DepartmentSlug); ok {
				return family.InFamily()
			}
			return false
		}
		return InCSEFamily(m.Department)
	}
}

// GalleryMatcher selects gallery images by the slug's own predicate
func GalleryMatcher(slug string) func(GalleryImage) bool {
	return func(img GalleryImage) bool {
		return MatchesDepartment(slug, img.Department) ||
			strings.EqualFold(strings.TrimSpace(img.Department), slug)
	}
}
