package models

// DirectoryEntry is a person from the faculty directory. Department is free
// text entered by staff; DepartmentSlug is set by newer data entry and takes
// precedence over the text when present.
type DirectoryEntry struct {
	ID             string `json:"id" bson:"_id,omitempty"`
	Name           string `json:"name" bson:"name"`
	Designation    string `json:"designation" bson:"designation"`
	Qualification  string `json:"qualification" bson:"qualification"`
	Email          string `json:"email" bson:"email"`
	Phone          string `json:"phone" bson:"phone"`
	Experience     string `json:"experience" bson:"experience"`
	Department     string `json:"department" bson:"department"`
	DepartmentSlug string `json:"departmentSlug,omitempty" bson:"department_slug,omitempty"`
	Image          string `json:"image" bson:"image"`
	Resume         string `json:"resume" bson:"resume"`
}

// FacultyMember is a general faculty directory entry
type FacultyMember = DirectoryEntry

// HOD is a head-of-department directory entry
type HOD = DirectoryEntry

// GalleryImage is one photo from the gallery store
type GalleryImage struct {
	ID         string `json:"id" bson:"_id,omitempty"`
	Src        string `json:"src" bson:"src"`
	Alt        string `json:"alt" bson:"alt"`
	Department string `json:"department" bson:"department"`
}

// FacultyListResponse is the full faculty or HOD set
type FacultyListResponse struct {
	Data       []DirectoryEntry `json:"data"`
	TotalCount int              `json:"total_count"`
}

// GalleryListResponse is the full gallery set
type GalleryListResponse struct {
	Data       []GalleryImage `json:"data"`
	TotalCount int            `json:"total_count"`
}
