package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SectionShape describes what Migrate found for a section in the raw input
type SectionShape string

const (
	// ShapeAbsent means the section was missing and defaults were used
	ShapeAbsent SectionShape = "absent"
	// ShapeCanonical means the section already had the current structure
	ShapeCanonical SectionShape = "canonical"
	// ShapeLegacy means only the free-text content body was found
	ShapeLegacy SectionShape = "legacy"
	// ShapeTranslated means a deprecated encoding was parsed into the current structure
	ShapeTranslated SectionShape = "translated"
	// ShapeInvalid means the section had the wrong type and defaults were used
	ShapeInvalid SectionShape = "invalid"
)

// MigrationReport records the shape detected for every section
type MigrationReport struct {
	Sections map[string]SectionShape `json:"sections"`
}

// Changed reports whether any section needed more than a canonical decode
func (r MigrationReport) Changed() bool {
	for _, s := range r.Sections {
		if s != ShapeCanonical && s != ShapeAbsent {
			return true
		}
	}
	return false
}

// Count returns how many sections were classified with the given shape
func (r MigrationReport) Count(shape SectionShape) int {
	n := 0
	for _, s := range r.Sections {
		if s == shape {
			n++
		}
	}
	return n
}

// Migrate upgrades any stored representation of a page into the current
// Document shape. It never fails: unusable input yields DefaultDocument.
func Migrate(raw interface{}) Document {
	doc, _ := MigrateWithReport(raw)
	return doc
}

// MigrateWithReport is Migrate plus the per-section classification
func MigrateWithReport(raw interface{}) (doc Document, report MigrationReport) {
	report = newReport(ShapeAbsent)
	defer func() {
		if r := recover(); r != nil {
			doc = DefaultDocument()
			report = newReport(ShapeInvalid)
		}
	}()

	doc = DefaultDocument()
	root, ok := normalizeRoot(raw)
	if !ok {
		return doc, report
	}

	for _, key := range SectionKeys {
		v, present := root[key]
		if !present || v == nil {
			continue
		}
		m, ok := asMap(v)
		if !ok {
			report.Sections[key] = ShapeInvalid
			continue
		}
		report.Sections[key] = sectionDecoders[key](&doc, m)
	}
	return doc, report
}

func newReport(shape SectionShape) MigrationReport {
	r := MigrationReport{Sections: make(map[string]SectionShape, len(SectionKeys))}
	for _, key := range SectionKeys {
		r.Sections[key] = shape
	}
	return r
}

type sectionDecoder func(doc *Document, m map[string]interface{}) SectionShape

var sectionDecoders = map[string]sectionDecoder{
	SectionHero:            decodeHero,
	SectionOverview:        decodeOverview,
	SectionVisionMission:   decodeVisionMission,
	SectionHOD:             decodeHOD,
	SectionCourses:         decodeCourses,
	SectionCurriculum:      decodeCurriculum,
	SectionAdmission:       decodeAdmission,
	SectionFee:             decodeFee,
	SectionProgramOverview: decodeProgramOverview,
	SectionFacilities:      cardSectionDecoder(func(d *Document) *CardSection { return &d.Facilities }),
	SectionWhyViet:         cardSectionDecoder(func(d *Document) *CardSection { return &d.WhyViet }),
	SectionFaculty:         decodeFaculty,
	SectionProjects:        cardSectionDecoder(func(d *Document) *CardSection { return &d.Projects }),
	SectionPlacements:      decodePlacements,
	SectionRD:              decodeRD,
	SectionIdeaCell:        decodeIdeaCell,
	SectionClubActivities:  cardSectionDecoder(func(d *Document) *CardSection { return &d.ClubActivities }),
	SectionGallery:         decodeGallery,
	SectionAlumni:          decodeAlumni,
}

func decodeHero(doc *Document, m map[string]interface{}) SectionShape {
	h := &doc.Hero
	h.Image = str(m, "image", h.Image)
	h.Video = str(m, "video", h.Video)
	h.Badge = str(m, "badge", h.Badge)
	h.Title = str(m, "title", h.Title)
	h.Subtitle = str(m, "subtitle", h.Subtitle)
	h.ButtonText = str(m, "buttonText", h.ButtonText)
	h.ButtonLink = str(m, "buttonLink", h.ButtonLink)
	return ShapeCanonical
}

func decodeOverview(doc *Document, m map[string]interface{}) SectionShape {
	o := &doc.Overview
	o.Title = str(m, "title", o.Title)
	o.Description = str(m, "description", o.Description)
	o.Image = str(m, "image", o.Image)
	o.Stats = stats(m, "stats", defaultOverviewStats)
	return ShapeCanonical
}

func decodeVisionMission(doc *Document, m map[string]interface{}) SectionShape {
	vm := &doc.VisionMission
	vm.Vision = str(m, "vision", vm.Vision)
	vm.Mission = str(m, "mission", vm.Mission)
	vm.Content = str(m, "content", vm.Content)
	if isLegacy(m) && vm.Vision == "" && vm.Mission == "" {
		return ShapeLegacy
	}
	return ShapeCanonical
}

func decodeHOD(doc *Document, m map[string]interface{}) SectionShape {
	doc.HOD.Title = str(m, "title", doc.HOD.Title)
	doc.HOD.Message = str(m, "message", doc.HOD.Message)
	return ShapeCanonical
}

func decodeCourses(doc *Document, m map[string]interface{}) SectionShape {
	raw, _ := asSlice(m["categories"])
	categories := make([]CourseCategory, 0, len(raw))
	catIDs := newIDAllocator("categories")
	for i, v := range raw {
		cm, ok := asMap(v)
		if !ok {
			continue
		}
		cat := CourseCategory{
			ID:       catIDs.next(cm, i),
			Name:     str(cm, "name", ""),
			Programs: []CourseProgram{},
		}
		progs, _ := asSlice(cm["programs"])
		progIDs := newIDAllocator("programs")
		for j, pv := range progs {
			if name, ok := pv.(string); ok {
				cat.Programs = append(cat.Programs, CourseProgram{ID: progIDs.next(nil, j), Name: name})
				continue
			}
			pm, ok := asMap(pv)
			if !ok {
				continue
			}
			cat.Programs = append(cat.Programs, CourseProgram{
				ID:    progIDs.next(pm, j),
				Name:  str(pm, "name", ""),
				Seats: str(pm, "seats", ""),
				Fee:   str(pm, "fee", ""),
			})
		}
		categories = append(categories, cat)
	}
	doc.Courses.Categories = categories
	return ShapeCanonical
}

func decodeCurriculum(doc *Document, m map[string]interface{}) SectionShape {
	c := &doc.Curriculum
	c.Title = str(m, "title", c.Title)
	c.Description = str(m, "description", c.Description)
	c.Programs = decodePrograms(m["programs"])
	return ShapeCanonical
}

// decodePrograms merges programs that share a name and keeps the last
// regulation of a given name, matching the upsert rule.
func decodePrograms(v interface{}) []Program {
	raw, _ := asSlice(v)
	programs := make([]Program, 0, len(raw))
	index := make(map[string]int)
	for _, pv := range raw {
		pm, ok := asMap(pv)
		if !ok {
			continue
		}
		name := firstStr(pm, "name", "programName")
		pos, seen := index[name]
		if !seen {
			pos = len(programs)
			index[name] = pos
			programs = append(programs, Program{Name: name, Regulations: []Regulation{}})
		}
		regs, _ := asSlice(pm["regulations"])
		for _, rv := range regs {
			rm, ok := asMap(rv)
			if !ok {
				continue
			}
			programs[pos].Regulations = UpsertRegulation(programs[pos].Regulations, Regulation{
				Name:     firstStr(rm, "name", "regulation"),
				FileURL:  firstStr(rm, "fileUrl", "url"),
				FileName: str(rm, "fileName", ""),
			})
		}
	}
	return programs
}

func decodeAdmission(doc *Document, m map[string]interface{}) SectionShape {
	a := &doc.Admission
	a.Title = str(m, "title", a.Title)
	a.Description = str(m, "description", a.Description)
	a.Eligibility = str(m, "eligibility", a.Eligibility)
	a.ApplyLink = str(m, "applyLink", a.ApplyLink)
	a.Content = str(m, "content", a.Content)
	if isLegacy(m) && a.Description == "" && a.Eligibility == "" {
		return ShapeLegacy
	}
	return ShapeCanonical
}

func decodeFee(doc *Document, m map[string]interface{}) SectionShape {
	f := &doc.Fee
	f.Title = str(m, "title", f.Title)
	f.Note = str(m, "note", f.Note)

	shape := ShapeCanonical
	rawItems, isList := asSlice(m["items"])
	if !isList {
		if encoded, ok := m["items"].(string); ok {
			var decoded []interface{}
			if err := json.Unmarshal([]byte(encoded), &decoded); err == nil {
				rawItems = decoded
				shape = ShapeTranslated
			}
		}
	}

	items := make([]FeeItem, 0, len(rawItems))
	ids := newIDAllocator("items")
	for i, v := range rawItems {
		im, ok := asMap(v)
		if !ok {
			continue
		}
		items = append(items, FeeItem{
			ID:          ids.next(im, i),
			ProgramName: firstStr(im, "programName", "level"),
			Fee:         firstStr(im, "fee", "amount"),
		})
	}
	f.Items = items
	return shape
}

func decodeProgramOverview(doc *Document, m map[string]interface{}) SectionShape {
	p := &doc.ProgramOverview
	p.Title = str(m, "title", p.Title)
	p.Description = str(m, "description", p.Description)
	p.Content = str(m, "content", p.Content)

	raw, _ := asSlice(m["badges"])
	badges := make([]Badge, 0, len(raw))
	ids := newIDAllocator("badges")
	for i, v := range raw {
		if text, ok := v.(string); ok {
			badges = append(badges, Badge{ID: ids.next(nil, i), Text: text})
			continue
		}
		bm, ok := asMap(v)
		if !ok {
			continue
		}
		badges = append(badges, Badge{
			ID:   ids.next(bm, i),
			Code: str(bm, "code", ""),
			Text: str(bm, "text", ""),
		})
	}
	p.Badges = badges
	return shapeFor(m, "badges")
}

func cardSectionDecoder(target func(*Document) *CardSection) sectionDecoder {
	return func(doc *Document, m map[string]interface{}) SectionShape {
		s := target(doc)
		s.Title = str(m, "title", s.Title)
		s.Description = str(m, "description", s.Description)
		s.Content = str(m, "content", s.Content)
		s.Cards = decodeCards(m["cards"])
		return shapeFor(m, "cards")
	}
}

func decodeCards(v interface{}) []Card {
	raw, _ := asSlice(v)
	cards := make([]Card, 0, len(raw))
	ids := newIDAllocator("cards")
	for i, cv := range raw {
		cm, ok := asMap(cv)
		if !ok {
			continue
		}
		cards = append(cards, Card{
			ID:          ids.next(cm, i),
			Icon:        str(cm, "icon", ""),
			Image:       str(cm, "image", ""),
			Title:       firstStr(cm, "title", "name"),
			Description: str(cm, "description", ""),
		})
	}
	return cards
}

func decodeFaculty(doc *Document, m map[string]interface{}) SectionShape {
	doc.Faculty.Title = str(m, "title", doc.Faculty.Title)
	doc.Faculty.Description = str(m, "description", doc.Faculty.Description)
	return ShapeCanonical
}

func decodePlacements(doc *Document, m map[string]interface{}) SectionShape {
	p := &doc.Placements
	p.Title = str(m, "title", p.Title)
	p.Content = str(m, "content", p.Content)
	p.Stats = stats(m, "stats", defaultPlacementStats)

	rawImages, _ := asSlice(m["recruiterImages"])
	images := make([]string, 0, len(rawImages))
	for _, v := range rawImages {
		url := ""
		if s, ok := v.(string); ok {
			url = s
		} else if im, ok := asMap(v); ok {
			url = firstStr(im, "url", "src", "image")
		}
		if url != "" {
			images = append(images, url)
		}
	}
	p.RecruiterImages = images

	rawCards, _ := asSlice(m["cards"])
	cards := make([]PlacementCard, 0, len(rawCards))
	ids := newIDAllocator("cards")
	for i, v := range rawCards {
		cm, ok := asMap(v)
		if !ok {
			continue
		}
		cards = append(cards, PlacementCard{
			ID:      ids.next(cm, i),
			Image:   str(cm, "image", ""),
			Name:    str(cm, "name", ""),
			Company: str(cm, "company", ""),
			Role:    str(cm, "role", ""),
			Package: str(cm, "package", ""),
		})
	}
	p.Cards = cards
	return shapeFor(m, "cards", "recruiterImages", "stats")
}

func decodeRD(doc *Document, m map[string]interface{}) SectionShape {
	r := &doc.RD
	r.Title = str(m, "title", r.Title)
	r.Description = str(m, "description", r.Description)
	r.Content = str(m, "content", r.Content)
	r.Cards = decodeCards(m["cards"])

	raw, _ := asSlice(m["researchAreas"])
	areas := make([]ResearchArea, 0, len(raw))
	ids := newIDAllocator("researchAreas")
	for i, v := range raw {
		if name, ok := v.(string); ok {
			areas = append(areas, ResearchArea{ID: ids.next(nil, i), Name: name})
			continue
		}
		am, ok := asMap(v)
		if !ok {
			continue
		}
		areas = append(areas, ResearchArea{ID: ids.next(am, i), Name: str(am, "name", "")})
	}
	r.ResearchAreas = areas
	return shapeFor(m, "cards", "researchAreas")
}

func decodeIdeaCell(doc *Document, m map[string]interface{}) SectionShape {
	ic := &doc.IdeaCell
	ic.Title = str(m, "title", ic.Title)
	ic.Description = str(m, "description", ic.Description)
	ic.Content = str(m, "content", ic.Content)

	raw, _ := asSlice(m["pillars"])
	pillars := make([]Pillar, 0, len(raw))
	pillarIDs := newIDAllocator("pillars")
	for i, v := range raw {
		pm, ok := asMap(v)
		if !ok {
			continue
		}
		pillar := Pillar{
			ID:    pillarIDs.next(pm, i),
			Title: str(pm, "title", ""),
			Icon:  str(pm, "icon", ""),
			Items: []PillarItem{},
		}
		items, _ := asSlice(pm["items"])
		itemIDs := newIDAllocator("items")
		for j, iv := range items {
			if text, ok := iv.(string); ok {
				pillar.Items = append(pillar.Items, PillarItem{ID: itemIDs.next(nil, j), Text: text})
				continue
			}
			im, ok := asMap(iv)
			if !ok {
				continue
			}
			pillar.Items = append(pillar.Items, PillarItem{ID: itemIDs.next(im, j), Text: str(im, "text", "")})
		}
		pillars = append(pillars, pillar)
	}
	ic.Pillars = pillars
	return shapeFor(m, "pillars")
}

func decodeGallery(doc *Document, m map[string]interface{}) SectionShape {
	doc.Gallery.Title = str(m, "title", doc.Gallery.Title)
	doc.Gallery.Description = str(m, "description", doc.Gallery.Description)
	return ShapeCanonical
}

func decodeAlumni(doc *Document, m map[string]interface{}) SectionShape {
	a := &doc.Alumni
	a.Title = str(m, "title", a.Title)
	a.Content = str(m, "content", a.Content)

	raw, _ := asSlice(m["cards"])
	cards := make([]AlumniCard, 0, len(raw))
	ids := newIDAllocator("cards")
	for i, v := range raw {
		cm, ok := asMap(v)
		if !ok {
			continue
		}
		cards = append(cards, AlumniCard{
			ID:      ids.next(cm, i),
			Image:   str(cm, "image", ""),
			Name:    str(cm, "name", ""),
			Batch:   str(cm, "batch", ""),
			Company: str(cm, "company", ""),
			Quote:   str(cm, "quote", ""),
		})
	}
	a.Cards = cards
	return shapeFor(m, "cards")
}

// isLegacy reports a free-text section: a non-empty string content body
func isLegacy(m map[string]interface{}) bool {
	s, ok := m["content"].(string)
	return ok && s != ""
}

// shapeFor classifies a section as legacy when it carries a content string
// and none of its structured lists as an array
func shapeFor(m map[string]interface{}, lists ...string) SectionShape {
	if !isLegacy(m) {
		return ShapeCanonical
	}
	for _, key := range lists {
		if _, ok := asSlice(m[key]); ok {
			return ShapeCanonical
		}
	}
	return ShapeLegacy
}

// stats normalizes a stats array to exactly StatCount entries. Entries or
// fields missing from raw take the default at the same index.
func stats(m map[string]interface{}, key string, defaults []Stat) []Stat {
	raw, _ := asSlice(m[key])
	out := make([]Stat, StatCount)
	for i := 0; i < StatCount; i++ {
		def := Stat{}
		if i < len(defaults) {
			def = defaults[i]
		}
		out[i] = def
		if i >= len(raw) {
			continue
		}
		if sm, ok := asMap(raw[i]); ok {
			out[i] = Stat{
				Label: str(sm, "label", def.Label),
				Value: str(sm, "value", def.Value),
			}
		}
	}
	return out
}

// idAllocator hands out element ids, keeping stored ones and filling in
// deterministic ids for missing or duplicate values
type idAllocator struct {
	list string
	seen map[string]bool
}

func newIDAllocator(list string) *idAllocator {
	return &idAllocator{list: list, seen: make(map[string]bool)}
}

func (a *idAllocator) next(m map[string]interface{}, index int) string {
	if m != nil {
		if id := str(m, "id", ""); id != "" && !a.seen[id] {
			a.seen[id] = true
			return id
		}
	}
	id := fmt.Sprintf("%s-%d", a.list, index+1)
	for n := 2; a.seen[id]; n++ {
		id = fmt.Sprintf("%s-%d-%d", a.list, index+1, n)
	}
	a.seen[id] = true
	return id
}

func normalizeRoot(raw interface{}) (map[string]interface{}, bool) {
	var root map[string]interface{}
	var ok bool

	switch v := raw.(type) {
	case nil:
		return nil, false
	case Document:
		root, ok = documentToMap(&v)
	case *Document:
		if v == nil {
			return nil, false
		}
		root, ok = documentToMap(v)
	case []byte:
		root, ok = decodeJSONObject(v)
	case json.RawMessage:
		root, ok = decodeJSONObject(v)
	case string:
		root, ok = decodeJSONObject([]byte(v))
	default:
		// JSON decoding already replaces invalid UTF-8; raw maps must agree with it
		var m map[string]interface{}
		if m, ok = asMap(raw); ok {
			root, _ = validUTF8(m).(map[string]interface{})
		}
	}
	if !ok {
		return nil, false
	}

	// A whole stored page wraps its sections
	if !hasAnySection(root) {
		if inner, ok := asMap(root["sections"]); ok {
			return inner, true
		}
	}
	return root, true
}

func hasAnySection(m map[string]interface{}) bool {
	for _, key := range SectionKeys {
		if _, ok := m[key]; ok {
			return true
		}
	}
	return false
}

// validUTF8 copies v with every string made valid UTF-8
func validUTF8(v interface{}) interface{} {
	switch t := v.(type) {
	case string:
		return strings.ToValidUTF8(t, "\uFFFD")
	case []string:
		out := make([]string, len(t))
		for i, s := range t {
			out[i] = strings.ToValidUTF8(s, "\uFFFD")
		}
		return out
	}
	if m, ok := asMap(v); ok {
		out := make(map[string]interface{}, len(m))
		for k, x := range m {
			out[k] = validUTF8(x)
		}
		return out
	}
	if s, ok := asSlice(v); ok {
		out := make([]interface{}, len(s))
		for i, x := range s {
			out[i] = validUTF8(x)
		}
		return out
	}
	return v
}

// DecodeSectionsPayload migrates a whole-sections overwrite body. A body that
// names no section is rejected so it cannot replace a stored page with defaults.
func DecodeSectionsPayload(data []byte) (Document, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Document{}, NewValidationError("sections", "request body is empty")
	}
	if !json.Valid(data) {
		return Document{}, NewValidationError("sections", "request body is not valid JSON")
	}
	root, ok := decodeJSONObject(data)
	if !ok {
		return Document{}, NewValidationError("sections", "request body must be a JSON object")
	}
	if !hasAnySection(root) {
		inner, ok := asMap(root["sections"])
		if !ok || !hasAnySection(inner) {
			return Document{}, NewValidationError("sections", "request body contains no known section")
		}
	}
	return Migrate(root), nil
}

func documentToMap(doc *Document) (map[string]interface{}, bool) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, false
	}
	return decodeJSONObject(data)
}

func decodeJSONObject(data []byte) (map[string]interface{}, bool) {
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, false
	}
	return asMap(v)
}

func asMap(v interface{}) (map[string]interface{}, bool) {
	switch m := v.(type) {
	case map[string]interface{}:
		return m, true
	case primitive.M:
		return map[string]interface{}(m), true
	case primitive.D:
		out := make(map[string]interface{}, len(m))
		for _, e := range m {
			out[e.Key] = e.Value
		}
		return out, true
	case map[string]string:
		out := make(map[string]interface{}, len(m))
		for k, s := range m {
			out[k] = s
		}
		return out, true
	}
	return nil, false
}

func asSlice(v interface{}) ([]interface{}, bool) {
	switch s := v.(type) {
	case []interface{}:
		return s, true
	case primitive.A:
		return []interface{}(s), true
	case []map[string]interface{}:
		out := make([]interface{}, len(s))
		for i := range s {
			out[i] = s[i]
		}
		return out, true
	case []primitive.M:
		out := make([]interface{}, len(s))
		for i := range s {
			out[i] = s[i]
		}
		return out, true
	case []string:
		out := make([]interface{}, len(s))
		for i := range s {
			out[i] = s[i]
		}
		return out, true
	}
	return nil, false
}

// asString converts scalars to text; numbers are formatted, anything else is empty
func asString(v interface{}) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(s), 'f', -1, 32)
	case int:
		return strconv.Itoa(s)
	case int32:
		return strconv.FormatInt(int64(s), 10)
	case int64:
		return strconv.FormatInt(s, 10)
	case json.Number:
		return s.String()
	case primitive.Decimal128:
		return s.String()
	}
	return ""
}

// str reads a scalar field; a missing key keeps def, a present key of the
// wrong type becomes empty
func str(m map[string]interface{}, key, def string) string {
	v, ok := m[key]
	if !ok {
		return def
	}
	return asString(v)
}

// firstStr returns the first non-empty value among alternate key names
func firstStr(m map[string]interface{}, keys ...string) string {
	for _, key := range keys {
		if s := asString(m[key]); s != "" {
			return s
		}
	}
	return ""
}
