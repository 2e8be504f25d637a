// Package layout implements the per-monitor scrollable strip layout
// engine: an ordered list of columns, each a vertical stack of
// windows, a viewport that scrolls over the strip, and animated
// centering of the focused column. See spec.md section 4.B.
package layout

import (
	"math"

	"github.com/AdEx-Partners-DE/OpenNiri-Windows-sub000/internal/geometry"
)

// CenteringMode selects how the viewport follows the focused column.
type CenteringMode int

const (
	// Center always re-centers the viewport on the focused column.
	Center CenteringMode = iota
	// JustInView only scrolls when the focused column would be clipped.
	JustInView
)

const (
	// AbsoluteMinColumnWidth is the absolute floor column widths can
	// never go below, regardless of configuration.
	AbsoluteMinColumnWidth = 100

	// DefaultAnimationDurationMs is used by EnsureFocusedVisibleAnimated
	// when no explicit duration is supplied.
	DefaultAnimationDurationMs = 180
)

// Column is a vertically stacked group of windows sharing one width.
type Column struct {
	Width   int
	Windows []geometry.WindowID
}

// FloatingWindow is a window positioned by rule or user drag rather
// than by the tiling algorithm.
type FloatingWindow struct {
	ID   geometry.WindowID
	Rect geometry.Rect
}

// WindowPlacement is the computed screen rectangle and visibility for
// one managed window.
type WindowPlacement struct {
	ID           geometry.WindowID
	Rect         geometry.Rect
	Visibility   geometry.Visibility
	ColumnIndex  int
	WindowIndex  int
	Floating     bool
	Fullscreen   bool
}

// Workspace is the per-monitor strip of columns plus focus, scroll and
// animation state, the floating set, and the layout gaps/bounds it was
// configured with.
type Workspace struct {
	Columns               []Column
	FocusedColumn         int
	FocusedWindowInColumn int

	ScrollOffset       float64
	TargetScrollOffset float64
	animating          bool
	animStartOffset    float64
	animElapsedMs      int64
	animDurationMs     int64

	Floating          map[geometry.WindowID]geometry.Rect
	FullscreenWindow  *geometry.WindowID

	Gap                int
	OuterGap           int
	DefaultColumnWidth int
	MinColumnWidth     int
	MaxColumnWidth     int
	CenteringMode      CenteringMode
}

// New creates an empty workspace with the given gaps and width bounds.
func New(gap, outerGap, defaultColumnWidth, minColumnWidth, maxColumnWidth int, mode CenteringMode) *Workspace {
	if minColumnWidth < AbsoluteMinColumnWidth {
		minColumnWidth = AbsoluteMinColumnWidth
	}
	return &Workspace{
		Floating:           make(map[geometry.WindowID]geometry.Rect),
		Gap:                gap,
		OuterGap:           outerGap,
		DefaultColumnWidth: defaultColumnWidth,
		MinColumnWidth:     minColumnWidth,
		MaxColumnWidth:     maxColumnWidth,
		CenteringMode:      mode,
	}
}

func (w *Workspace) clampWidth(width int) int {
	if width < w.MinColumnWidth {
		width = w.MinColumnWidth
	}
	if w.MaxColumnWidth > 0 && width > w.MaxColumnWidth {
		width = w.MaxColumnWidth
	}
	if width < AbsoluteMinColumnWidth {
		width = AbsoluteMinColumnWidth
	}
	return width
}

func (w *Workspace) findWindow(id geometry.WindowID) (colIdx, winIdx int, ok bool) {
	for ci, col := range w.Columns {
		for wi, wid := range col.Windows {
			if wid == id {
				return ci, wi, true
			}
		}
	}
	return 0, 0, false
}

func (w *Workspace) clampFocus() {
	if len(w.Columns) == 0 {
		w.FocusedColumn = 0
		w.FocusedWindowInColumn = 0
		return
	}
	if w.FocusedColumn >= len(w.Columns) {
		w.FocusedColumn = len(w.Columns) - 1
	}
	if w.FocusedColumn < 0 {
		w.FocusedColumn = 0
	}
	n := len(w.Columns[w.FocusedColumn].Windows)
	if n == 0 {
		w.FocusedWindowInColumn = 0
		return
	}
	if w.FocusedWindowInColumn >= n {
		w.FocusedWindowInColumn = n - 1
	}
	if w.FocusedWindowInColumn < 0 {
		w.FocusedWindowInColumn = 0
	}
}

// InsertWindow appends a new single-window column immediately to the
// right of the focused column and focuses it. Width defaults to
// DefaultColumnWidth when nil, and is always clamped to configured
// bounds. Fails if id is already present anywhere in the workspace.
func (w *Workspace) InsertWindow(id geometry.WindowID, width *int) error {
	if _, _, ok := w.findWindow(id); ok {
		return ErrWindowAlreadyPresent
	}
	if _, present := w.Floating[id]; present {
		return ErrWindowAlreadyPresent
	}
	col := Column{Width: w.clampWidth(valueOr(width, w.DefaultColumnWidth)), Windows: []geometry.WindowID{id}}

	insertAt := len(w.Columns)
	if len(w.Columns) > 0 {
		insertAt = w.FocusedColumn + 1
	}
	w.Columns = append(w.Columns, Column{})
	copy(w.Columns[insertAt+1:], w.Columns[insertAt:])
	w.Columns[insertAt] = col

	w.FocusedColumn = insertAt
	w.FocusedWindowInColumn = 0
	return nil
}

// InsertWindowInColumn stacks id at the bottom of the column at
// columnIndex.
func (w *Workspace) InsertWindowInColumn(id geometry.WindowID, columnIndex int) error {
	if columnIndex < 0 || columnIndex >= len(w.Columns) {
		return ErrColumnOutOfBounds
	}
	if _, _, ok := w.findWindow(id); ok {
		return ErrWindowAlreadyPresent
	}
	if _, present := w.Floating[id]; present {
		return ErrWindowAlreadyPresent
	}
	w.Columns[columnIndex].Windows = append(w.Columns[columnIndex].Windows, id)
	return nil
}

// RemoveWindow locates and removes id from whichever column (or the
// floating set) owns it. If the containing column becomes empty, the
// column itself is removed, so removing the sole window of the sole
// column leaves the workspace with no columns.
func (w *Workspace) RemoveWindow(id geometry.WindowID) error {
	if _, present := w.Floating[id]; present {
		delete(w.Floating, id)
		return nil
	}
	colIdx, winIdx, ok := w.findWindow(id)
	if !ok {
		return ErrWindowNotFound
	}
	col := &w.Columns[colIdx]
	col.Windows = append(col.Windows[:winIdx], col.Windows[winIdx+1:]...)

	if len(col.Windows) == 0 {
		w.Columns = append(w.Columns[:colIdx], w.Columns[colIdx+1:]...)
		if w.FocusedColumn >= colIdx {
			w.FocusedColumn--
			if w.FocusedColumn < 0 {
				w.FocusedColumn = 0
			}
		}
	}
	if w.FullscreenWindow != nil && *w.FullscreenWindow == id {
		w.FullscreenWindow = nil
	}
	w.clampFocus()
	return nil
}

// FocusLeft moves focus to the previous column, saturating at 0.
func (w *Workspace) FocusLeft() {
	if w.FocusedColumn > 0 {
		w.FocusedColumn--
	}
	w.clampFocus()
}

// FocusRight moves focus to the next column, saturating at the end.
func (w *Workspace) FocusRight() {
	if w.FocusedColumn < len(w.Columns)-1 {
		w.FocusedColumn++
	}
	w.clampFocus()
}

// FocusUp moves focus to the previous window in the focused column.
func (w *Workspace) FocusUp() {
	if w.FocusedWindowInColumn > 0 {
		w.FocusedWindowInColumn--
	}
}

// FocusDown moves focus to the next window in the focused column.
func (w *Workspace) FocusDown() {
	if len(w.Columns) == 0 {
		return
	}
	if w.FocusedWindowInColumn < len(w.Columns[w.FocusedColumn].Windows)-1 {
		w.FocusedWindowInColumn++
	}
}

// MoveColumnLeft swaps the focused column with its left neighbor;
// focus follows the column.
func (w *Workspace) MoveColumnLeft() {
	if w.FocusedColumn <= 0 || w.FocusedColumn >= len(w.Columns) {
		return
	}
	i := w.FocusedColumn
	w.Columns[i-1], w.Columns[i] = w.Columns[i], w.Columns[i-1]
	w.FocusedColumn--
}

// MoveColumnRight swaps the focused column with its right neighbor;
// focus follows the column.
func (w *Workspace) MoveColumnRight() {
	if w.FocusedColumn < 0 || w.FocusedColumn >= len(w.Columns)-1 {
		return
	}
	i := w.FocusedColumn
	w.Columns[i+1], w.Columns[i] = w.Columns[i], w.Columns[i+1]
	w.FocusedColumn++
}

// ResizeFocusedColumn adjusts the focused column's width by delta,
// clamped to [MinColumnWidth, MaxColumnWidth] and never below
// AbsoluteMinColumnWidth.
func (w *Workspace) ResizeFocusedColumn(delta int) error {
	if w.FocusedColumn < 0 || w.FocusedColumn >= len(w.Columns) {
		return ErrColumnOutOfBounds
	}
	col := &w.Columns[w.FocusedColumn]
	col.Width = w.clampWidth(col.Width + delta)
	return nil
}

// SetFocusedColumnWidthFraction sets the focused column's width to
// round(f * viewportWidth), clamped to configured bounds.
func (w *Workspace) SetFocusedColumnWidthFraction(f float64, viewportWidth int) error {
	if w.FocusedColumn < 0 || w.FocusedColumn >= len(w.Columns) {
		return ErrColumnOutOfBounds
	}
	width := int(math.Round(f * float64(viewportWidth)))
	w.Columns[w.FocusedColumn].Width = w.clampWidth(width)
	return nil
}

// EqualizeColumnWidths distributes (viewportWidth - outerGap*2 -
// gap*(n-1)) equally across all columns; the remainder goes to the
// last column.
func (w *Workspace) EqualizeColumnWidths(viewportWidth int) {
	n := len(w.Columns)
	if n == 0 {
		return
	}
	available := viewportWidth - w.OuterGap*2 - w.Gap*(n-1)
	if available < 0 {
		available = 0
	}
	each := available / n
	remainder := available - each*n
	for i := range w.Columns {
		width := each
		if i == n-1 {
			width += remainder
		}
		w.Columns[i].Width = w.clampWidth(width)
	}
}

// TotalWidth returns sum(column.width) + gap*(n-1) + 2*outerGap, or 0
// for an empty workspace.
func (w *Workspace) TotalWidth() int {
	n := len(w.Columns)
	if n == 0 {
		return 0
	}
	total := w.OuterGap * 2
	total += w.Gap * (n - 1)
	for _, c := range w.Columns {
		total += c.Width
	}
	return total
}

func (w *Workspace) maxScrollOffset(viewportWidth int) float64 {
	m := w.TotalWidth() - viewportWidth
	if m < 0 {
		m = 0
	}
	return float64(m)
}

func (w *Workspace) clampScroll(offset float64, viewportWidth int) float64 {
	max := w.maxScrollOffset(viewportWidth)
	if offset < 0 {
		return 0
	}
	if offset > max {
		return max
	}
	return offset
}

// ScrollBy adds delta to ScrollOffset, clamped to the valid range.
func (w *Workspace) ScrollBy(delta float64, viewportWidth int) {
	w.ScrollOffset = w.clampScroll(w.ScrollOffset+delta, viewportWidth)
}

// columnStripX returns the strip-coordinate left edge of column i.
func (w *Workspace) columnStripX(i int) int {
	x := w.OuterGap
	for j := 0; j < i; j++ {
		x += w.Columns[j].Width + w.Gap
	}
	return x
}

func (w *Workspace) targetOffsetFor(viewportWidth int) float64 {
	if len(w.Columns) == 0 || w.FocusedColumn < 0 || w.FocusedColumn >= len(w.Columns) {
		return w.clampScroll(w.ScrollOffset, viewportWidth)
	}
	stripX := w.columnStripX(w.FocusedColumn)
	width := w.Columns[w.FocusedColumn].Width
	stripRight := stripX + width

	switch w.CenteringMode {
	case Center:
		center := float64(stripX) + float64(width)/2
		return w.clampScroll(center-float64(viewportWidth)/2, viewportWidth)
	case JustInView:
		offset := w.ScrollOffset
		if float64(stripX) < offset {
			offset = float64(stripX - w.OuterGap)
		} else if float64(stripRight) > offset+float64(viewportWidth) {
			offset = float64(stripRight) - float64(viewportWidth) + float64(w.OuterGap)
		}
		return w.clampScroll(offset, viewportWidth)
	default:
		return w.clampScroll(w.ScrollOffset, viewportWidth)
	}
}

// EnsureFocusedVisible immediately scrolls so the focused column is
// visible per the configured centering mode.
func (w *Workspace) EnsureFocusedVisible(viewportWidth int) {
	w.ScrollOffset = w.targetOffsetFor(viewportWidth)
	w.TargetScrollOffset = w.ScrollOffset
}

// EnsureFocusedVisibleAnimated begins an eased scroll toward the
// target offset instead of jumping immediately. A zero durationMs
// uses DefaultAnimationDurationMs.
func (w *Workspace) EnsureFocusedVisibleAnimated(viewportWidth int, durationMs int64) {
	target := w.targetOffsetFor(viewportWidth)
	if target == w.ScrollOffset {
		w.TargetScrollOffset = target
		w.animating = false
		return
	}
	if durationMs <= 0 {
		durationMs = DefaultAnimationDurationMs
	}
	w.animStartOffset = w.ScrollOffset
	w.TargetScrollOffset = target
	w.animElapsedMs = 0
	w.animDurationMs = durationMs
	w.animating = true
}

// IsAnimating reports whether this workspace has an active scroll
// animation.
func (w *Workspace) IsAnimating() bool { return w.animating }

// TickAnimation advances the scroll animation by deltaMs of wall-clock
// time and reports whether it is still animating. Easing is a cubic
// ease-out; when the animation completes, ScrollOffset is committed to
// TargetScrollOffset exactly.
func (w *Workspace) TickAnimation(deltaMs int64) bool {
	if !w.animating {
		return false
	}
	w.animElapsedMs += deltaMs
	t := float64(w.animElapsedMs) / float64(w.animDurationMs)
	if t >= 1 {
		w.ScrollOffset = w.TargetScrollOffset
		w.animating = false
		return false
	}
	progress := 1 - math.Pow(1-t, 3)
	w.ScrollOffset = w.animStartOffset + (w.TargetScrollOffset-w.animStartOffset)*progress
	return true
}

// ComputePlacements computes the screen rectangle and visibility of
// every tiled and floating window using the current ScrollOffset.
func (w *Workspace) ComputePlacements(viewport geometry.Rect) []WindowPlacement {
	return w.computePlacements(viewport, w.ScrollOffset)
}

// ComputePlacementsAnimated is identical to ComputePlacements but is
// provided for call-site symmetry with the daemon's animation tick,
// which always reads the (already ticked) current ScrollOffset.
func (w *Workspace) ComputePlacementsAnimated(viewport geometry.Rect) []WindowPlacement {
	return w.computePlacements(viewport, w.ScrollOffset)
}

func (w *Workspace) computePlacements(viewport geometry.Rect, scrollOffset float64) []WindowPlacement {
	var placements []WindowPlacement

	if w.FullscreenWindow != nil {
		placements = append(placements, WindowPlacement{
			ID:         *w.FullscreenWindow,
			Rect:       viewport,
			Visibility: geometry.Visible,
			Fullscreen: true,
		})
		for id, rect := range w.Floating {
			placements = append(placements, WindowPlacement{ID: id, Rect: rect, Visibility: geometry.Visible, Floating: true})
		}
		return placements
	}

	stripX := w.OuterGap
	for ci, col := range w.Columns {
		screenX := stripX - int(scrollOffset) + viewport.X
		stripRight := stripX + col.Width

		var vis geometry.Visibility
		switch {
		case float64(stripRight) <= scrollOffset:
			vis = geometry.OffScreenLeft
		case float64(stripX) >= scrollOffset+float64(viewport.Width):
			vis = geometry.OffScreenRight
		default:
			vis = geometry.Visible
		}

		heights := w.distributeHeights(viewport.Height, len(col.Windows))
		y := viewport.Y + w.OuterGap
		for wi, id := range col.Windows {
			h := heights[wi]
			placements = append(placements, WindowPlacement{
				ID:          id,
				Rect:        geometry.Rect{X: screenX, Y: y, Width: col.Width, Height: h},
				Visibility:  vis,
				ColumnIndex: ci,
				WindowIndex: wi,
			})
			y += h + w.Gap
		}

		stripX = stripRight + w.Gap
	}

	for id, rect := range w.Floating {
		placements = append(placements, WindowPlacement{ID: id, Rect: rect, Visibility: geometry.Visible, Floating: true})
	}

	return placements
}

// distributeHeights splits (viewportHeight - 2*outerGap - gap*(n-1))
// equally across n windows; the last window absorbs the remainder so
// the bottom edge lands exactly at viewport.y + viewport.height -
// outer_gap.
func (w *Workspace) distributeHeights(viewportHeight, n int) []int {
	if n == 0 {
		return nil
	}
	available := viewportHeight - 2*w.OuterGap - w.Gap*(n-1)
	if available < 0 {
		available = 0
	}
	each := available / n
	remainder := available - each*n
	heights := make([]int, n)
	for i := range heights {
		heights[i] = each
	}
	heights[n-1] += remainder
	return heights
}

// FocusedColumnRect returns the current screen rectangle spanned by
// the focused column (used by the daemon to position the snap-hint
// overlay during a resize).
func (w *Workspace) FocusedColumnRect(viewport geometry.Rect) (geometry.Rect, bool) {
	if w.FocusedColumn < 0 || w.FocusedColumn >= len(w.Columns) {
		return geometry.Rect{}, false
	}
	stripX := w.columnStripX(w.FocusedColumn)
	screenX := stripX - int(w.ScrollOffset) + viewport.X
	return geometry.Rect{
		X:      screenX,
		Y:      viewport.Y + w.OuterGap,
		Width:  w.Columns[w.FocusedColumn].Width,
		Height: viewport.Height - 2*w.OuterGap,
	}, true
}

// FocusedWindow returns the id of the currently focused tiled window,
// if any.
func (w *Workspace) FocusedWindow() (geometry.WindowID, bool) {
	if w.FocusedColumn < 0 || w.FocusedColumn >= len(w.Columns) {
		return 0, false
	}
	col := w.Columns[w.FocusedColumn]
	if w.FocusedWindowInColumn < 0 || w.FocusedWindowInColumn >= len(col.Windows) {
		return 0, false
	}
	return col.Windows[w.FocusedWindowInColumn], true
}

// FocusWindow sets both the column and in-column focus indices to the
// location of id. It fails only if id isn't tracked in any column
// (spec.md section 9, open question 3).
func (w *Workspace) FocusWindow(id geometry.WindowID) error {
	colIdx, winIdx, ok := w.findWindow(id)
	if !ok {
		return ErrWindowNotFound
	}
	w.FocusedColumn = colIdx
	w.FocusedWindowInColumn = winIdx
	return nil
}

// ToggleFullscreen sets FullscreenWindow to the focused window, or
// clears it if the focused window is already fullscreen.
func (w *Workspace) ToggleFullscreen() error {
	id, ok := w.FocusedWindow()
	if !ok {
		return ErrEmptyColumn
	}
	if w.FullscreenWindow != nil && *w.FullscreenWindow == id {
		w.FullscreenWindow = nil
		return nil
	}
	w.FullscreenWindow = &id
	return nil
}

// AddFloating adds id to the floating set at rect. It is idempotent
// on id's rect.
func (w *Workspace) AddFloating(id geometry.WindowID, rect geometry.Rect) {
	w.Floating[id] = rect
}

// RemoveFloating removes id from the floating set.
func (w *Workspace) RemoveFloating(id geometry.WindowID) {
	delete(w.Floating, id)
}

const (
	defaultFloatingWidth  = 800
	defaultFloatingHeight = 600
)

// ToggleFloating moves the focused window between the tiled strip and
// the floating set. Floating windows keep the rect of their current
// tiled placement when one is computed, else get a centered 800x600
// default.
func (w *Workspace) ToggleFloating(viewport geometry.Rect) error {
	if id, ok := w.FocusedWindow(); ok {
		placements := w.ComputePlacements(viewport)
		rect := geometry.Rect{
			X:      viewport.X + (viewport.Width-defaultFloatingWidth)/2,
			Y:      viewport.Y + (viewport.Height-defaultFloatingHeight)/2,
			Width:  defaultFloatingWidth,
			Height: defaultFloatingHeight,
		}
		for _, p := range placements {
			if p.ID == id && !p.Floating {
				rect = p.Rect
				break
			}
		}
		if err := w.RemoveWindow(id); err != nil {
			return err
		}
		w.AddFloating(id, rect)
		return nil
	}

	// No tiled focus: float the most recently added floating window
	// back into the strip is not well defined without an id, so this
	// is a caller error.
	return ErrWindowNotFound
}

// ToggleFloatingByID toggles the tiled/floating state of a specific
// window id, regardless of current focus. Tiling focus is not moved
// when a tiled window is floated; floating windows become the focused
// tiled window once re-tiled.
func (w *Workspace) ToggleFloatingByID(id geometry.WindowID, viewport geometry.Rect) error {
	if rect, ok := w.Floating[id]; ok {
		delete(w.Floating, id)
		width := rect.Width
		return w.InsertWindow(id, &width)
	}
	if _, _, ok := w.findWindow(id); !ok {
		return ErrWindowNotFound
	}
	placements := w.ComputePlacements(viewport)
	rect := geometry.Rect{
		X:      viewport.X + (viewport.Width-defaultFloatingWidth)/2,
		Y:      viewport.Y + (viewport.Height-defaultFloatingHeight)/2,
		Width:  defaultFloatingWidth,
		Height: defaultFloatingHeight,
	}
	for _, p := range placements {
		if p.ID == id && !p.Floating {
			rect = p.Rect
			break
		}
	}
	if err := w.RemoveWindow(id); err != nil {
		return err
	}
	w.AddFloating(id, rect)
	return nil
}

func valueOr(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}
