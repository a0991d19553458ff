package carousel

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func imageList(n int) []string {
	images := make([]string, n)
	for i := range images {
		images[i] = fmt.Sprintf("img-%d.jpg", i)
	}
	return images
}

func TestPaginatePageCountAndSizes(t *testing.T) {
	for n := 0; n <= 10; n++ {
		images := imageList(n)
		pages := Paginate(images, 3)

		wantPages := (n + 2) / 3
		require.Len(t, pages, wantPages, "n=%d", n)

		for i, p := range pages {
			if i < len(pages)-1 {
				assert.Len(t, p, 3)
			} else {
				assert.NotEmpty(t, p)
				assert.LessOrEqual(t, len(p), 3)
			}
		}
	}
}

func TestPaginateConcatenationReproducesInput(t *testing.T) {
	images := imageList(7)
	pages := Paginate(images, 3)

	var flat []string
	for _, p := range pages {
		flat = append(flat, p...)
	}
	assert.Equal(t, images, flat)
}

func TestPaginateFallsBackToDefaultPageSize(t *testing.T) {
	pages := Paginate(imageList(4), 0)
	require.Len(t, pages, 2)
	assert.Len(t, pages[0], DefaultPageSize)
}

func TestGlobalIndexRoundTrip(t *testing.T) {
	images := imageList(8)
	prices := []string{"10", "20", "30", "40", "50", "60", "70", "80"}
	pages := Paginate(images, 3)

	for pi, page := range pages {
		for i := range page {
			idx := GlobalIndex(pages, pi, i)
			require.GreaterOrEqual(t, idx, 0)
			assert.Equal(t, images[idx], pages[pi][i])
			assert.Equal(t, prices[idx], prices[GlobalIndex(pages, pi, i)])
		}
	}
}

func TestGlobalIndexAlignsPrices(t *testing.T) {
	prices := []string{"10", "20", "30", "40", "50"}
	pages := Paginate(imageList(5), 3)

	require.Len(t, pages, 2)
	assert.Len(t, pages[0], 3)
	assert.Len(t, pages[1], 2)

	// Image at page 1, slot 1 sits at flat index 4.
	idx := GlobalIndex(pages, 1, 1)
	assert.Equal(t, 4, idx)
	assert.Equal(t, "50", prices[idx])
}

func TestGlobalIndexOutOfRange(t *testing.T) {
	pages := Paginate(imageList(4), 3)
	assert.Equal(t, -1, GlobalIndex(pages, -1, 0))
	assert.Equal(t, -1, GlobalIndex(pages, 2, 0))
	assert.Equal(t, -1, GlobalIndex(pages, 1, 3))
}

func TestNavigationScrollBounds(t *testing.T) {
	// At the left edge only the right control shows.
	nav := Navigation(0, 900, 300, 6)
	assert.False(t, nav.Left)
	assert.True(t, nav.Right)

	// Mid-scroll shows both.
	nav = Navigation(200, 900, 300, 6)
	assert.True(t, nav.Left)
	assert.True(t, nav.Right)

	// At the right edge only the left control shows.
	nav = Navigation(600, 900, 300, 6)
	assert.True(t, nav.Left)
	assert.False(t, nav.Right)
}

func TestNavigationEpsilonAbsorbsRounding(t *testing.T) {
	// 0.5px short of the end still counts as the end.
	nav := Navigation(599.5, 900, 300, 6)
	assert.False(t, nav.Right)
}

func TestNavigationHiddenForTwoOrFewerImages(t *testing.T) {
	nav := Navigation(100, 900, 300, 2)
	assert.False(t, nav.Left)
	assert.False(t, nav.Right)

	nav = Navigation(100, 900, 300, 3)
	assert.True(t, nav.Left)
}

func TestScrollStep(t *testing.T) {
	assert.InDelta(t, 240.0, ScrollStep(300), 0.001)
}
