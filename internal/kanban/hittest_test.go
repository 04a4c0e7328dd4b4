package kanban

import "testing"

func testGeometry() []ColumnGeometry {
	return []ColumnGeometry{
		{
			Key:    "Todo",
			Bounds: Rect{X: 0, Y: 0, W: 100, H: 400},
			Cards: []CardGeometry{
				{RowID: "row-a", Bounds: Rect{X: 10, Y: 10, W: 80, H: 60}},
				{RowID: "row-b", Bounds: Rect{X: 10, Y: 80, W: 80, H: 60}},
			},
		},
		{
			Key:    "Done",
			Bounds: Rect{X: 110, Y: 0, W: 100, H: 400},
			Cards:  []CardGeometry{},
		},
	}
}

func TestResolveDropTargetHitsCard(t *testing.T) {
	target, ok := ResolveDropTarget(Point{X: 50, Y: 100}, Rect{}, testGeometry())
	if !ok {
		t.Fatalf("expected a drop target")
	}
	if target.ColumnKey != "Todo" || target.Index != 1 {
		t.Fatalf("expected Todo index 1, got %#v", target)
	}
}

func TestResolveDropTargetEmptyColumnSpaceAppends(t *testing.T) {
	target, ok := ResolveDropTarget(Point{X: 50, Y: 300}, Rect{}, testGeometry())
	if !ok {
		t.Fatalf("expected a drop target")
	}
	if target.ColumnKey != "Todo" || target.Index != 2 {
		t.Fatalf("expected append at end of Todo, got %#v", target)
	}
}

func TestResolveDropTargetEmptyColumn(t *testing.T) {
	target, ok := ResolveDropTarget(Point{X: 150, Y: 50}, Rect{}, testGeometry())
	if !ok {
		t.Fatalf("expected a drop target")
	}
	if target.ColumnKey != "Done" || target.Index != 0 {
		t.Fatalf("expected empty Done column, got %#v", target)
	}
}

func TestResolveDropTargetFallsBackToBoundingBox(t *testing.T) {
	// Pointer outside every column; the dragged card overlaps Done the most.
	dragged := Rect{X: 140, Y: 380, W: 80, H: 60}
	target, ok := ResolveDropTarget(Point{X: 300, Y: 500}, dragged, testGeometry())
	if !ok {
		t.Fatalf("expected the bounding-box fallback to resolve")
	}
	if target.ColumnKey != "Done" || target.Index != 0 {
		t.Fatalf("expected Done via overlap, got %#v", target)
	}
}

func TestResolveDropTargetMiss(t *testing.T) {
	dragged := Rect{X: 500, Y: 500, W: 10, H: 10}
	if _, ok := ResolveDropTarget(Point{X: 505, Y: 505}, dragged, testGeometry()); ok {
		t.Fatalf("expected no drop target")
	}
}

func TestRectContainsEdges(t *testing.T) {
	rect := Rect{X: 0, Y: 0, W: 10, H: 10}
	if !rect.Contains(Point{X: 0, Y: 0}) {
		t.Fatalf("top-left corner is inside")
	}
	if rect.Contains(Point{X: 10, Y: 10}) {
		t.Fatalf("bottom-right corner is outside")
	}
}
