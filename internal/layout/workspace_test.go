package layout

import (
	"testing"

	"github.com/AdEx-Partners-DE/OpenNiri-Windows-sub000/internal/geometry"
)

func widthPtr(w int) *int { return &w }

// S1: Build: start empty, insert(1, 400), insert(2, 600), insert(3, 400),
// gaps=10/10. total_width = 1440, focused_column = 2.
func TestScenarioS1Build(t *testing.T) {
	w := New(10, 10, 400, 400, 1600, Center)
	if err := w.InsertWindow(1, widthPtr(400)); err != nil {
		t.Fatal(err)
	}
	if err := w.InsertWindow(2, widthPtr(600)); err != nil {
		t.Fatal(err)
	}
	if err := w.InsertWindow(3, widthPtr(400)); err != nil {
		t.Fatal(err)
	}

	if got := w.TotalWidth(); got != 1440 {
		t.Errorf("TotalWidth() = %d, want 1440", got)
	}
	if w.FocusedColumn != 2 {
		t.Errorf("FocusedColumn = %d, want 2", w.FocusedColumn)
	}
}

// S2: Placement with viewport (500x600) and scroll_offset=0 on S1.
// Columns land at screen_x={10, 420, 1030}; visibilities are
// {Visible, Visible, OffScreenRight}.
func TestScenarioS2Placement(t *testing.T) {
	w := New(10, 10, 400, 400, 1600, Center)
	w.InsertWindow(1, widthPtr(400))
	w.InsertWindow(2, widthPtr(600))
	w.InsertWindow(3, widthPtr(400))

	viewport := geometry.Rect{X: 0, Y: 0, Width: 500, Height: 600}
	placements := w.ComputePlacements(viewport)

	byCol := map[int]WindowPlacement{}
	for _, p := range placements {
		if !p.Floating {
			byCol[p.ColumnIndex] = p
		}
	}

	wantX := map[int]int{0: 10, 1: 420, 2: 1030}
	wantVis := map[int]geometry.Visibility{0: geometry.Visible, 1: geometry.Visible, 2: geometry.OffScreenRight}
	for col, x := range wantX {
		p, ok := byCol[col]
		if !ok {
			t.Fatalf("missing placement for column %d", col)
		}
		if p.Rect.X != x {
			t.Errorf("column %d screen_x = %d, want %d", col, p.Rect.X, x)
		}
		if p.Visibility != wantVis[col] {
			t.Errorf("column %d visibility = %v, want %v", col, p.Visibility, wantVis[col])
		}
	}
}

// S3: Centering with viewport_width=500 in S1, focused_column=0,
// scroll_offset=500, mode=Center: col 0 center = 210, required offset
// = 210-250 = -40, clamped to 0 => scroll_offset = 0.
func TestScenarioS3Centering(t *testing.T) {
	w := New(10, 10, 400, 400, 1600, Center)
	w.InsertWindow(1, widthPtr(400))
	w.InsertWindow(2, widthPtr(600))
	w.InsertWindow(3, widthPtr(400))

	w.FocusedColumn = 0
	w.ScrollOffset = 500

	w.EnsureFocusedVisible(500)

	if w.ScrollOffset != 0 {
		t.Errorf("ScrollOffset = %v, want 0", w.ScrollOffset)
	}
}

// S4: Stacking: insert(1), insert_in_column(2, 0), insert_in_column(3, 0);
// compute_placements((0,0,500,600)) yields three rects all with
// column_index = 0, heights summing exactly to 600 - 2*outer_gap minus
// the two inter-window gaps.
func TestScenarioS4Stacking(t *testing.T) {
	w := New(10, 10, 400, 400, 1600, Center)
	w.InsertWindow(1, nil)
	if err := w.InsertWindowInColumn(2, 0); err != nil {
		t.Fatal(err)
	}
	if err := w.InsertWindowInColumn(3, 0); err != nil {
		t.Fatal(err)
	}

	placements := w.ComputePlacements(geometry.Rect{X: 0, Y: 0, Width: 500, Height: 600})
	if len(placements) != 3 {
		t.Fatalf("len(placements) = %d, want 3", len(placements))
	}
	totalHeight := 0
	for _, p := range placements {
		if p.ColumnIndex != 0 {
			t.Errorf("placement column_index = %d, want 0", p.ColumnIndex)
		}
		totalHeight += p.Rect.Height
	}
	want := 600 - 2*w.OuterGap - 2*w.Gap
	if totalHeight != want {
		t.Errorf("total height = %d, want %d", totalHeight, want)
	}
}

func TestFocusLeftRightBoundaries(t *testing.T) {
	w := New(10, 10, 400, 400, 1600, Center)
	w.InsertWindow(1, nil)
	w.InsertWindow(2, nil)

	w.FocusedColumn = 0
	w.FocusLeft()
	if w.FocusedColumn != 0 {
		t.Errorf("focus_left at column 0 should be a no-op, got %d", w.FocusedColumn)
	}

	w.FocusedColumn = len(w.Columns) - 1
	w.FocusRight()
	if w.FocusedColumn != len(w.Columns)-1 {
		t.Errorf("focus_right at last column should be a no-op, got %d", w.FocusedColumn)
	}
}

func TestFocusLeftRightRoundTrip(t *testing.T) {
	w := New(10, 10, 400, 400, 1600, Center)
	w.InsertWindow(1, nil)
	w.InsertWindow(2, nil)
	w.InsertWindow(3, nil)

	w.FocusedColumn = 1
	w.FocusLeft()
	w.FocusRight()
	if w.FocusedColumn != 1 {
		t.Errorf("focus_left . focus_right should be identity, got %d", w.FocusedColumn)
	}
}

func TestMoveColumnRoundTrip(t *testing.T) {
	w := New(10, 10, 400, 400, 1600, Center)
	w.InsertWindow(1, nil)
	w.InsertWindow(2, nil)
	w.InsertWindow(3, nil)

	before := append([]Column(nil), w.Columns...)
	focusBefore := w.FocusedColumn

	w.MoveColumnLeft()
	w.MoveColumnRight()

	if focusBefore != w.FocusedColumn {
		t.Errorf("focus changed across move_column_left . move_column_right: %d -> %d", focusBefore, w.FocusedColumn)
	}
	for i := range before {
		if before[i].Windows[0] != w.Columns[i].Windows[0] {
			t.Errorf("column order changed at index %d", i)
		}
	}
}

func TestRemoveSoleWindowLeavesEmptyWorkspace(t *testing.T) {
	w := New(10, 10, 400, 400, 1600, Center)
	w.InsertWindow(1, nil)
	if err := w.RemoveWindow(1); err != nil {
		t.Fatalf("RemoveWindow: %v", err)
	}
	if len(w.Columns) != 0 {
		t.Errorf("expected empty workspace, got %d columns", len(w.Columns))
	}
	if w.TotalWidth() != 0 {
		t.Errorf("TotalWidth() = %d, want 0", w.TotalWidth())
	}
}

func TestResizeNeverBelowAbsoluteMinimum(t *testing.T) {
	w := New(10, 10, 400, 100, 1600, Center)
	w.InsertWindow(1, widthPtr(120))
	w.ResizeFocusedColumn(-1000000)
	if w.Columns[0].Width < AbsoluteMinColumnWidth {
		t.Errorf("width = %d, below absolute minimum %d", w.Columns[0].Width, AbsoluteMinColumnWidth)
	}
}

func TestResizeNeverExceedsMax(t *testing.T) {
	w := New(10, 10, 400, 100, 1000, Center)
	w.InsertWindow(1, widthPtr(900))
	w.ResizeFocusedColumn(1000000)
	if w.Columns[0].Width > 1000 {
		t.Errorf("width = %d, exceeds configured max 1000", w.Columns[0].Width)
	}
}

func TestScrollByClampsToValidRange(t *testing.T) {
	w := New(10, 10, 400, 400, 1600, Center)
	w.InsertWindow(1, nil)
	w.InsertWindow(2, nil)

	w.ScrollBy(-1e18, 500)
	if w.ScrollOffset != 0 {
		t.Errorf("ScrollOffset = %v, want 0 after huge negative scroll", w.ScrollOffset)
	}

	w.ScrollBy(1e18, 500)
	want := w.maxScrollOffset(500)
	if w.ScrollOffset != want {
		t.Errorf("ScrollOffset = %v, want %v after huge positive scroll", w.ScrollOffset, want)
	}
}

func TestInvariantFocusIndicesInRange(t *testing.T) {
	w := New(10, 10, 400, 400, 1600, Center)
	w.InsertWindow(1, nil)
	w.InsertWindowInColumn(2, 0)
	w.InsertWindow(3, nil)
	w.RemoveWindow(1)

	if len(w.Columns) > 0 {
		if w.FocusedColumn < 0 || w.FocusedColumn >= len(w.Columns) {
			t.Fatalf("FocusedColumn %d out of range [0,%d)", w.FocusedColumn, len(w.Columns))
		}
		n := len(w.Columns[w.FocusedColumn].Windows)
		if w.FocusedWindowInColumn < 0 || w.FocusedWindowInColumn >= n {
			t.Fatalf("FocusedWindowInColumn %d out of range [0,%d)", w.FocusedWindowInColumn, n)
		}
	}
}

func TestInsertWindowAlreadyPresentFails(t *testing.T) {
	w := New(10, 10, 400, 400, 1600, Center)
	w.InsertWindow(1, nil)
	if err := w.InsertWindow(1, nil); err != ErrWindowAlreadyPresent {
		t.Errorf("err = %v, want ErrWindowAlreadyPresent", err)
	}
}

func TestTickAnimationCommitsExactlyOnCompletion(t *testing.T) {
	w := New(10, 10, 400, 400, 1600, JustInView)
	w.InsertWindow(1, widthPtr(400))
	w.InsertWindow(2, widthPtr(600))
	w.InsertWindow(3, widthPtr(400))
	w.FocusedColumn = 0
	w.ScrollOffset = 500

	w.EnsureFocusedVisibleAnimated(500, 100)
	if !w.IsAnimating() {
		t.Fatal("expected animation to start")
	}

	for i := 0; i < 5; i++ {
		w.TickAnimation(10)
	}
	if !w.IsAnimating() {
		t.Fatal("expected animation still in progress at 50ms/100ms")
	}

	still := w.TickAnimation(1000)
	if still {
		t.Error("expected animation to finish")
	}
	if w.ScrollOffset != w.TargetScrollOffset {
		t.Errorf("ScrollOffset = %v, want exact TargetScrollOffset %v", w.ScrollOffset, w.TargetScrollOffset)
	}
}

func TestFullscreenHidesOtherTiledPlacements(t *testing.T) {
	w := New(10, 10, 400, 400, 1600, Center)
	w.InsertWindow(1, nil)
	w.InsertWindow(2, nil)
	w.FocusedColumn = 0
	w.FocusedWindowInColumn = 0
	if err := w.ToggleFullscreen(); err != nil {
		t.Fatal(err)
	}

	placements := w.ComputePlacements(geometry.Rect{X: 0, Y: 0, Width: 500, Height: 600})
	if len(placements) != 1 {
		t.Fatalf("len(placements) = %d, want 1 while fullscreen", len(placements))
	}
	if !placements[0].Fullscreen {
		t.Error("expected the single placement to be marked Fullscreen")
	}
}

func TestFocusWindowSetsBothIndices(t *testing.T) {
	w := New(10, 10, 400, 400, 1600, Center)
	w.InsertWindow(1, nil)
	w.InsertWindowInColumn(2, 0)
	w.InsertWindow(3, nil)

	if err := w.FocusWindow(2); err != nil {
		t.Fatal(err)
	}
	if w.FocusedColumn != 0 || w.FocusedWindowInColumn != 1 {
		t.Errorf("FocusWindow(2): got column=%d window=%d, want column=0 window=1", w.FocusedColumn, w.FocusedWindowInColumn)
	}

	if err := w.FocusWindow(999); err != ErrWindowNotFound {
		t.Errorf("FocusWindow(unknown) err = %v, want ErrWindowNotFound", err)
	}
}

func TestToggleFloatingRoundTrip(t *testing.T) {
	w := New(10, 10, 400, 400, 1600, Center)
	w.InsertWindow(1, nil)
	w.InsertWindow(2, nil)
	w.FocusWindow(2)

	viewport := geometry.Rect{X: 0, Y: 0, Width: 1000, Height: 800}
	if err := w.ToggleFloating(viewport); err != nil {
		t.Fatal(err)
	}
	if _, ok := w.Floating[2]; !ok {
		t.Fatal("expected window 2 to be floating")
	}
	if len(w.Columns) != 1 {
		t.Fatalf("expected 1 remaining column, got %d", len(w.Columns))
	}

	if err := w.ToggleFloatingByID(2, viewport); err != nil {
		t.Fatal(err)
	}
	if _, ok := w.Floating[2]; ok {
		t.Fatal("expected window 2 to be tiled again")
	}
	if _, _, ok := w.findWindow(2); !ok {
		t.Fatal("expected window 2 back in a column")
	}
}
