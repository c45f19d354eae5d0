package window

import (
	"sort"

	"github.com/genesis-ai-dev/CodexZero-sub001/internal/core/verse"
)

// renderedElem pairs a verse index with its materialized element. The
// rendered slice is kept sorted ascending by index at all times.
type renderedElem struct {
	index int
	el    Element
}

// viewport is the per-pane load state plus scroll geometry. One viewport is
// exclusively owned by the manager; the surrounding editor only ever sees
// rendered lines, never this struct.
type viewport struct {
	id     string
	width  int
	height int

	scrollTop int

	loaded   map[int]verse.Verse
	rendered []renderedElem

	busy      bool
	direction Direction

	// epoch invalidates in-flight loads wholesale: a locator jump bumps it,
	// and results carrying an older epoch are discarded on apply.
	epoch uint64

	// chapterAnchor is the first index of the most recent initial slice.
	chapterAnchor int

	// initialErr is the inline error state shown when a locator load fails.
	initialErr error

	// Running average of measured element heights, seeded from config.
	heightSum   int
	heightCount int
}

func newViewport(id string) *viewport {
	return &viewport{
		id:     id,
		loaded: make(map[int]verse.Verse),
	}
}

// reset clears loaded and rendered state for a fresh locator load. The
// epoch bump makes any in-flight result for the old state stale.
func (vp *viewport) reset() {
	vp.loaded = make(map[int]verse.Verse)
	vp.rendered = nil
	vp.scrollTop = 0
	vp.chapterAnchor = 0
	vp.initialErr = nil
	vp.epoch++
}

// loadedBounds returns the min and max loaded indices. ok is false when
// nothing has been loaded yet.
func (vp *viewport) loadedBounds() (minIdx, maxIdx int, ok bool) {
	for idx := range vp.loaded {
		if !ok {
			minIdx, maxIdx, ok = idx, idx, true
			continue
		}
		if idx < minIdx {
			minIdx = idx
		}
		if idx > maxIdx {
			maxIdx = idx
		}
	}
	return minIdx, maxIdx, ok
}

// isRendered reports whether idx currently has a materialized element.
func (vp *viewport) isRendered(idx int) bool {
	i := sort.Search(len(vp.rendered), func(i int) bool { return vp.rendered[i].index >= idx })
	return i < len(vp.rendered) && vp.rendered[i].index == idx
}

// insert places el at its sorted position: before the first rendered
// element whose index exceeds idx, or appended when none exists. Returns
// false when idx is already rendered; overlapping range fetches make that a
// no-op rather than a duplicate element.
func (vp *viewport) insert(idx int, el Element) bool {
	i := sort.Search(len(vp.rendered), func(i int) bool { return vp.rendered[i].index >= idx })
	if i < len(vp.rendered) && vp.rendered[i].index == idx {
		return false
	}

	vp.rendered = append(vp.rendered, renderedElem{})
	copy(vp.rendered[i+1:], vp.rendered[i:])
	vp.rendered[i] = renderedElem{index: idx, el: el}

	vp.heightSum += el.Height()
	vp.heightCount++
	return true
}

// offsetOf returns the row offset of the rendered element with the given
// verse index.
func (vp *viewport) offsetOf(idx int) (int, bool) {
	top := 0
	for _, re := range vp.rendered {
		if re.index == idx {
			return top, true
		}
		top += re.el.Height()
	}
	return 0, false
}

// renderedHeight is the total height of all rendered elements, the scroll
// analog of the container's scrollHeight.
func (vp *viewport) renderedHeight() int {
	total := 0
	for _, re := range vp.rendered {
		total += re.el.Height()
	}
	return total
}

// avgHeight is the measured running average of element heights, falling
// back to the configured seed before any verse has been rendered.
func (vp *viewport) avgHeight(seed int) int {
	if vp.heightCount == 0 {
		return seed
	}
	avg := vp.heightSum / vp.heightCount
	if avg < 1 {
		avg = 1
	}
	return avg
}

// clampScroll keeps scrollTop within [0, renderedHeight-height].
func (vp *viewport) clampScroll() {
	maxTop := vp.renderedHeight() - vp.height
	if maxTop < 0 {
		maxTop = 0
	}
	if vp.scrollTop > maxTop {
		vp.scrollTop = maxTop
	}
	if vp.scrollTop < 0 {
		vp.scrollTop = 0
	}
}

// centeredIndex finds the rendered element whose vertical center is closest
// to the viewport's vertical center. Linear scan; the rendered set is
// bounded by the eviction ceiling.
func (vp *viewport) centeredIndex() (int, bool) {
	if len(vp.rendered) == 0 {
		return 0, false
	}
	center := vp.scrollTop + vp.height/2

	best, bestDist := 0, -1
	top := 0
	for _, re := range vp.rendered {
		elCenter := top + re.el.Height()/2
		dist := elCenter - center
		if dist < 0 {
			dist = -dist
		}
		if bestDist < 0 || dist < bestDist {
			best, bestDist = re.index, dist
		}
		top += re.el.Height()
	}
	return best, true
}
