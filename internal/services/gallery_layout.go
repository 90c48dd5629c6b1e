package services

// GalleryColumns is the column count of the gallery preview grid
const GalleryColumns = 4

// GalleryPreviewLimit is the number of images shown before "View More"
const GalleryPreviewLimit = 10

// GridCell is the column and row span of one gallery tile
type GridCell struct {
	Col int `json:"col"`
	Row int `json:"row"`
}

// galleryTemplates holds one hand-made template per image count, index 0
// for a single image. Every template tiles the grid without holes.
var galleryTemplates = [GalleryPreviewLimit][]GridCell{
	{{4, 2}},
	{{2, 2}, {2, 2}},
	{{2, 2}, {2, 1}, {2, 1}},
	{{2, 2}, {1, 1}, {1, 1}, {2, 1}},
	{{2, 2}, {1, 1}, {1, 1}, {1, 1}, {1, 1}},
	{{2, 2}, {1, 1}, {1, 1}, {1, 1}, {1, 1}, {4, 1}},
	{{2, 2}, {1, 1}, {1, 1}, {1, 1}, {1, 1}, {2, 1}, {2, 1}},
	{{2, 1}, {1, 1}, {1, 1}, {1, 1}, {1, 1}, {2, 1}, {2, 1}, {2, 1}},
	{{2, 2}, {1, 1}, {1, 1}, {1, 1}, {1, 1}, {1, 1}, {1, 1}, {1, 1}, {1, 1}},
	{{1, 1}, {1, 1}, {1, 1}, {1, 1}, {2, 1}, {1, 1}, {1, 1}, {1, 1}, {1, 1}, {2, 1}},
}

// GalleryLayout returns the grid template for n preview images. Counts above
// the preview limit use the densest template; zero yields no cells.
func GalleryLayout(n int) []GridCell {
	if n <= 0 {
		return nil
	}
	if n > GalleryPreviewLimit {
		n = GalleryPreviewLimit
	}
	template := galleryTemplates[n-1]
	cells := make([]GridCell, len(template))
	copy(cells, template)
	return cells
}
