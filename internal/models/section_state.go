package models

// HasStructuredData reports whether the section carries structured content of
// its own. Titles alone do not count, and stats only count once they differ
// from the baseline figures. Faculty and gallery sections are fed by the
// directory, so they never carry structured data in the document.
func (d *Document) HasStructuredData(key string) bool {
	switch key {
	case SectionHero:
		h := d.Hero
		return h.Image != "" || h.Video != "" || h.Badge != "" || h.Title != "" || h.Subtitle != ""
	case SectionOverview:
		o := d.Overview
		return o.Description != "" || o.Image != "" || statsCustomized(o.Stats, defaultOverviewStats)
	case SectionVisionMission:
		return d.VisionMission.Vision != "" || d.VisionMission.Mission != ""
	case SectionHOD:
		return d.HOD.Message != ""
	case SectionCourses:
		return len(d.Courses.Categories) > 0
	case SectionCurriculum:
		return len(d.Curriculum.Programs) > 0
	case SectionAdmission:
		a := d.Admission
		return a.Description != "" || a.Eligibility != "" || a.ApplyLink != ""
	case SectionFee:
		return len(d.Fee.Items) > 0
	case SectionProgramOverview:
		return len(d.ProgramOverview.Badges) > 0 || d.ProgramOverview.Description != ""
	case SectionFacilities:
		return len(d.Facilities.Cards) > 0
	case SectionWhyViet:
		return len(d.WhyViet.Cards) > 0
	case SectionProjects:
		return len(d.Projects.Cards) > 0
	case SectionClubActivities:
		return len(d.ClubActivities.Cards) > 0
	case SectionPlacements:
		p := d.Placements
		return len(p.Cards) > 0 || len(p.RecruiterImages) > 0 || statsCustomized(p.Stats, defaultPlacementStats)
	case SectionRD:
		return len(d.RD.Cards) > 0 || len(d.RD.ResearchAreas) > 0
	case SectionIdeaCell:
		return len(d.IdeaCell.Pillars) > 0
	case SectionAlumni:
		return len(d.Alumni.Cards) > 0
	}
	return false
}

// LegacyContent returns the free-text body of a section, if it has one
func (d *Document) LegacyContent(key string) string {
	switch key {
	case SectionVisionMission:
		return d.VisionMission.Content
	case SectionAdmission:
		return d.Admission.Content
	case SectionProgramOverview:
		return d.ProgramOverview.Content
	case SectionFacilities:
		return d.Facilities.Content
	case SectionWhyViet:
		return d.WhyViet.Content
	case SectionProjects:
		return d.Projects.Content
	case SectionClubActivities:
		return d.ClubActivities.Content
	case SectionPlacements:
		return d.Placements.Content
	case SectionRD:
		return d.RD.Content
	case SectionIdeaCell:
		return d.IdeaCell.Content
	case SectionAlumni:
		return d.Alumni.Content
	}
	return ""
}

// SectionTitle returns the operator-supplied heading of a section
func (d *Document) SectionTitle(key string) string {
	switch key {
	case SectionHero:
		return d.Hero.Title
	case SectionOverview:
		return d.Overview.Title
	case SectionHOD:
		return d.HOD.Title
	case SectionCurriculum:
		return d.Curriculum.Title
	case SectionAdmission:
		return d.Admission.Title
	case SectionFee:
		return d.Fee.Title
	case SectionProgramOverview:
		return d.ProgramOverview.Title
	case SectionFacilities:
		return d.Facilities.Title
	case SectionWhyViet:
		return d.WhyViet.Title
	case SectionFaculty:
		return d.Faculty.Title
	case SectionProjects:
		return d.Projects.Title
	case SectionPlacements:
		return d.Placements.Title
	case SectionRD:
		return d.RD.Title
	case SectionIdeaCell:
		return d.IdeaCell.Title
	case SectionClubActivities:
		return d.ClubActivities.Title
	case SectionGallery:
		return d.Gallery.Title
	case SectionAlumni:
		return d.Alumni.Title
	}
	return ""
}

func statsCustomized(stats, defaults []Stat) bool {
	if len(stats) != len(defaults) {
		return len(stats) > 0
	}
	for i := range stats {
		if stats[i] != defaults[i] {
			return true
		}
	}
	return false
}

// SectionIsEmpty reports whether a section has neither structured data nor legacy content
func SectionIsEmpty(doc *Document, key string) bool {
	return !doc.HasStructuredData(key) && doc.LegacyContent(key) == ""
}
