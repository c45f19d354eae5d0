package window

// Scroll moves a viewport's scroll position by delta rows (positive is
// down) and returns the clamped new position. Unknown ids return 0.
func (m *Manager) Scroll(viewportID string, delta int) int {
	vp, ok := m.viewports[viewportID]
	if !ok {
		return 0
	}
	vp.scrollTop += delta
	vp.clampScroll()
	return vp.scrollTop
}

// ScrollTo sets an absolute scroll position, clamped to the content.
func (m *Manager) ScrollTo(viewportID string, top int) {
	vp, ok := m.viewports[viewportID]
	if !ok {
		return
	}
	vp.scrollTop = top
	vp.clampScroll()
}

// ScrollToIndex positions the viewport so the given verse sits at the top,
// when it is rendered. Returns false otherwise.
func (m *Manager) ScrollToIndex(viewportID string, index int) bool {
	vp, ok := m.viewports[viewportID]
	if !ok {
		return false
	}
	top, found := vp.offsetOf(index)
	if !found {
		return false
	}
	vp.scrollTop = top
	vp.clampScroll()
	return true
}

// ScrollTop returns the current scroll offset in rows.
func (m *Manager) ScrollTop(viewportID string) int {
	if vp, ok := m.viewports[viewportID]; ok {
		return vp.scrollTop
	}
	return 0
}

// ScrollHeight returns the total rendered content height in rows.
func (m *Manager) ScrollHeight(viewportID string) int {
	if vp, ok := m.viewports[viewportID]; ok {
		return vp.renderedHeight()
	}
	return 0
}

// OffsetOf returns the row offset of a rendered verse within the content.
func (m *Manager) OffsetOf(viewportID string, index int) (int, bool) {
	if vp, ok := m.viewports[viewportID]; ok {
		return vp.offsetOf(index)
	}
	return 0, false
}

// CenteredIndex derives the verse whose rendered center is closest to the
// viewport's vertical center. This is the navigation-sync input; callers
// debounce it behind scroll activity.
func (m *Manager) CenteredIndex(viewportID string) (int, bool) {
	if vp, ok := m.viewports[viewportID]; ok {
		return vp.centeredIndex()
	}
	return 0, false
}

// VisibleLines returns the slice of rendered rows currently inside the
// viewport, top-padded only by content (no trailing fill). The view layer
// paints these verbatim.
func (m *Manager) VisibleLines(viewportID string) []string {
	vp, ok := m.viewports[viewportID]
	if !ok || vp.height <= 0 {
		return nil
	}

	lines := make([]string, 0, vp.height)
	row := 0
	for _, re := range vp.rendered {
		h := re.el.Height()
		if row+h <= vp.scrollTop {
			row += h
			continue
		}
		for i, line := range re.el.Lines() {
			abs := row + i
			if abs < vp.scrollTop {
				continue
			}
			if abs >= vp.scrollTop+vp.height {
				return lines
			}
			lines = append(lines, line)
		}
		row += h
	}
	return lines
}
