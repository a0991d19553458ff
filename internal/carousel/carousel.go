// Package carousel groups product images into fixed-size pages and derives
// paging-control state from observed scroll positions. Pagination is purely a
// display grouping: it never reorders or drops items.
package carousel

// DefaultPageSize is how many product images sit on one carousel page.
const DefaultPageSize = 3

// navEpsilon absorbs fractional rounding in reported scroll widths.
const navEpsilon = 1.0

// minImagesForNav is the smallest image count that shows paging controls.
const minImagesForNav = 3

// scrollStepRatio is the fraction of the visible width moved per page turn.
const scrollStepRatio = 0.8

// Paginate splits images into contiguous pages of at most pageSize entries.
// The last page may be shorter. A pageSize of zero or less falls back to
// DefaultPageSize.
func Paginate(images []string, pageSize int) [][]string {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	var pages [][]string
	for i := 0; i < len(images); i += pageSize {
		end := i + pageSize
		if end > len(images) {
			end = len(images)
		}
		pages = append(pages, images[i:end])
	}
	return pages
}

// GlobalIndex recovers the flat position of an image from its page
// coordinates, so a price lookup resolves to the same pair regardless of how
// the sequence was paged. Returns -1 for coordinates outside the pages.
func GlobalIndex(pages [][]string, pageIndex, inPageIndex int) int {
	if pageIndex < 0 || pageIndex >= len(pages) {
		return -1
	}
	if inPageIndex < 0 || inPageIndex >= len(pages[pageIndex]) {
		return -1
	}
	idx := inPageIndex
	for _, p := range pages[:pageIndex] {
		idx += len(p)
	}
	return idx
}

// NavState gates the visibility of the left and right paging controls.
type NavState struct {
	Left  bool `json:"left"`
	Right bool `json:"right"`
}

// Navigation derives control visibility from a scroll-position sample.
// offset is the current scroll offset, total the full scrollable width and
// visible the viewport width, all in the same unit. Controls are hidden
// outright when two or fewer images are shown.
func Navigation(offset, total, visible float64, imageCount int) NavState {
	if imageCount < minImagesForNav {
		return NavState{}
	}
	return NavState{
		Left:  offset > 0,
		Right: offset < total-visible-navEpsilon,
	}
}

// ScrollStep is how far one control press scrolls, given the viewport width.
func ScrollStep(visible float64) float64 {
	return visible * scrollStepRatio
}
