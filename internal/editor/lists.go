package editor

import (
	"sort"
	"strings"

	"github.com/viet-college/app-dept-pages/internal/models"
	"github.com/viet-college/app-dept-pages/internal/utils"
)

// ListRef addresses an id-keyed list of the document. ParentID selects the
// owning element for nested lists (course programs of a category, items of
// an IDEA cell pillar).
type ListRef struct {
	Section  string `json:"section"`
	Field    string `json:"field"`
	ParentID string `json:"parentId,omitempty"`
}

func (r ListRef) key() string {
	return r.Section + "." + r.Field
}

// listHandle edits one typed list in place
type listHandle interface {
	add(id string)
	update(id, field, value string) error
	remove(id string) error
	ids() []string
	item(id string) (interface{}, bool)
}

type sliceHandle[T any] struct {
	list    *[]T
	newItem func(id string) T
}

func (h sliceHandle[T]) index(id string) int {
	for i := range *h.list {
		if models.ItemID(&(*h.list)[i]) == id {
			return i
		}
	}
	return -1
}

func (h sliceHandle[T]) add(id string) {
	next := make([]T, len(*h.list), len(*h.list)+1)
	copy(next, *h.list)
	*h.list = append(next, h.newItem(id))
}

func (h sliceHandle[T]) update(id, field, value string) error {
	i := h.index(id)
	if i < 0 {
		return models.ErrItemNotFound
	}
	next := make([]T, len(*h.list))
	copy(next, *h.list)
	if err := models.SetStringField(&next[i], field, value); err != nil {
		return err
	}
	*h.list = next
	return nil
}

// remove drops the element, and with it anything nested inside it
func (h sliceHandle[T]) remove(id string) error {
	i := h.index(id)
	if i < 0 {
		return models.ErrItemNotFound
	}
	next := make([]T, 0, len(*h.list)-1)
	next = append(next, (*h.list)[:i]...)
	next = append(next, (*h.list)[i+1:]...)
	*h.list = next
	return nil
}

func (h sliceHandle[T]) ids() []string {
	out := make([]string, len(*h.list))
	for i := range *h.list {
		out[i] = models.ItemID(&(*h.list)[i])
	}
	return out
}

func (h sliceHandle[T]) item(id string) (interface{}, bool) {
	i := h.index(id)
	if i < 0 {
		return nil, false
	}
	return &(*h.list)[i], true
}

func cards(list *[]models.Card) listHandle {
	return sliceHandle[models.Card]{list: list, newItem: func(id string) models.Card { return models.Card{ID: id} }}
}

type listResolver func(doc *models.Document, parentID string) (listHandle, error)

// editableLists maps "<section>.<field>" to its list
var editableLists = map[string]listResolver{
	"courses.categories": func(d *models.Document, _ string) (listHandle, error) {
		return sliceHandle[models.CourseCategory]{
			list: &d.Courses.Categories,
			newItem: func(id string) models.CourseCategory {
				return models.CourseCategory{ID: id, Programs: []models.CourseProgram{}}
			},
		}, nil
	},
	"courses.programs": func(d *models.Document, parentID string) (listHandle, error) {
		for i := range d.Courses.Categories {
			if d.Courses.Categories[i].ID == parentID {
				return sliceHandle[models.CourseProgram]{
					list:    &d.Courses.Categories[i].Programs,
					newItem: func(id string) models.CourseProgram { return models.CourseProgram{ID: id} },
				}, nil
			}
		}
		return nil, models.ErrItemNotFound
	},
	"fee.items": func(d *models.Document, _ string) (listHandle, error) {
		return sliceHandle[models.FeeItem]{
			list:    &d.Fee.Items,
			newItem: func(id string) models.FeeItem { return models.FeeItem{ID: id} },
		}, nil
	},
	"programOverview.badges": func(d *models.Document, _ string) (listHandle, error) {
		return sliceHandle[models.Badge]{
			list:    &d.ProgramOverview.Badges,
			newItem: func(id string) models.Badge { return models.Badge{ID: id} },
		}, nil
	},
	"facilities.cards":     func(d *models.Document, _ string) (listHandle, error) { return cards(&d.Facilities.Cards), nil },
	"whyViet.cards":        func(d *models.Document, _ string) (listHandle, error) { return cards(&d.WhyViet.Cards), nil },
	"projects.cards":       func(d *models.Document, _ string) (listHandle, error) { return cards(&d.Projects.Cards), nil },
	"clubActivities.cards": func(d *models.Document, _ string) (listHandle, error) { return cards(&d.ClubActivities.Cards), nil },
	"rd.cards":             func(d *models.Document, _ string) (listHandle, error) { return cards(&d.RD.Cards), nil },
	"rd.researchAreas": func(d *models.Document, _ string) (listHandle, error) {
		return sliceHandle[models.ResearchArea]{
			list:    &d.RD.ResearchAreas,
			newItem: func(id string) models.ResearchArea { return models.ResearchArea{ID: id} },
		}, nil
	},
	"placements.cards": func(d *models.Document, _ string) (listHandle, error) {
		return sliceHandle[models.PlacementCard]{
			list:    &d.Placements.Cards,
			newItem: func(id string) models.PlacementCard { return models.PlacementCard{ID: id} },
		}, nil
	},
	"ideaCell.pillars": func(d *models.Document, _ string) (listHandle, error) {
		return sliceHandle[models.Pillar]{
			list: &d.IdeaCell.Pillars,
			newItem: func(id string) models.Pillar {
				return models.Pillar{ID: id, Items: []models.PillarItem{}}
			},
		}, nil
	},
	"ideaCell.items": func(d *models.Document, parentID string) (listHandle, error) {
		for i := range d.IdeaCell.Pillars {
			if d.IdeaCell.Pillars[i].ID == parentID {
				return sliceHandle[models.PillarItem]{
					list:    &d.IdeaCell.Pillars[i].Items,
					newItem: func(id string) models.PillarItem { return models.PillarItem{ID: id} },
				}, nil
			}
		}
		return nil, models.ErrItemNotFound
	},
	"alumni.cards": func(d *models.Document, _ string) (listHandle, error) {
		return sliceHandle[models.AlumniCard]{
			list:    &d.Alumni.Cards,
			newItem: func(id string) models.AlumniCard { return models.AlumniCard{ID: id} },
		}, nil
	},
}

// EditableLists returns every list the editor can change, in page order
func EditableLists() []ListRef {
	out := make([]ListRef, 0, len(editableLists))
	for _, key := range models.SectionKeys {
		var fields []string
		for k := range editableLists {
			if section, field, _ := strings.Cut(k, "."); section == key {
				fields = append(fields, field)
			}
		}
		sort.Strings(fields)
		for _, field := range fields {
			out = append(out, ListRef{Section: key, Field: field})
		}
	}
	return out
}

// resolve finds the list under ref. Callers hold e.mu.
func (e *Editor) resolve(ref ListRef) (listHandle, error) {
	resolver, ok := editableLists[ref.key()]
	if !ok {
		if !models.IsValidSection(ref.Section) {
			return nil, models.ErrUnknownSection
		}
		return nil, models.ErrUnknownList
	}
	return resolver(&e.doc, ref.ParentID)
}

// Add appends a new empty element to the list and returns its id
func (e *Editor) Add(ref ListRef) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	h, err := e.resolve(ref)
	if err != nil {
		return "", err
	}
	id := utils.NewItemID(ref.Field)
	h.add(id)
	return id, nil
}

// Update sets one string field of the element with the given id
func (e *Editor) Update(ref ListRef, id, field, value string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	h, err := e.resolve(ref)
	if err != nil {
		return err
	}
	return h.update(id, field, value)
}

// Delete removes the element with the given id
func (e *Editor) Delete(ref ListRef, id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	h, err := e.resolve(ref)
	if err != nil {
		return err
	}
	return h.remove(id)
}

// IDs returns the element ids of the list in order
func (e *Editor) IDs(ref ListRef) ([]string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	h, err := e.resolve(ref)
	if err != nil {
		return nil, err
	}
	return h.ids(), nil
}

// UpdateStat sets the label or value of one of the four stats of the
// overview or placements section
func (e *Editor) UpdateStat(section string, index int, field, value string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	var stats *[]models.Stat
	switch section {
	case models.SectionOverview:
		stats = &e.doc.Overview.Stats
	case models.SectionPlacements:
		stats = &e.doc.Placements.Stats
	default:
		if !models.IsValidSection(section) {
			return models.ErrUnknownSection
		}
		return models.ErrUnknownList
	}
	if index < 0 || index >= len(*stats) {
		return models.ErrItemNotFound
	}

	next := make([]models.Stat, len(*stats))
	copy(next, *stats)
	if err := models.SetStringField(&next[index], field, value); err != nil {
		return err
	}
	*stats = next
	return nil
}

// AddRecruiterImage appends a recruiter logo URL
func (e *Editor) AddRecruiterImage(url string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.addRecruiterImage(url)
}

func (e *Editor) addRecruiterImage(url string) {
	imgs := e.doc.Placements.RecruiterImages
	next := make([]string, len(imgs), len(imgs)+1)
	copy(next, imgs)
	e.doc.Placements.RecruiterImages = append(next, url)
}

// RemoveRecruiterImage removes the recruiter logo at index
func (e *Editor) RemoveRecruiterImage(index int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	imgs := e.doc.Placements.RecruiterImages
	if index < 0 || index >= len(imgs) {
		return models.ErrItemNotFound
	}
	next := make([]string, 0, len(imgs)-1)
	next = append(next, imgs[:index]...)
	e.doc.Placements.RecruiterImages = append(next, imgs[index+1:]...)
	return nil
}
