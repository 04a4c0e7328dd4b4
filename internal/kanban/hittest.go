package kanban

// Point is a pointer position in board coordinates.
type Point struct {
	X float64
	Y float64
}

// Rect is an axis-aligned bounding box in board coordinates.
type Rect struct {
	X float64
	Y float64
	W float64
	H float64
}

// Contains reports whether the point falls inside the rectangle.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.W && p.Y >= r.Y && p.Y < r.Y+r.H
}

// Intersection returns the overlapping area between two rectangles, zero when
// they do not touch.
func (r Rect) Intersection(o Rect) float64 {
	width := min(r.X+r.W, o.X+o.W) - max(r.X, o.X)
	height := min(r.Y+r.H, o.Y+o.H) - max(r.Y, o.Y)
	if width <= 0 || height <= 0 {
		return 0
	}
	return width * height
}

// CardGeometry is the rendered bounds of one card.
type CardGeometry struct {
	RowID  string
	Bounds Rect
}

// ColumnGeometry is the rendered bounds of one column and its cards, in
// visual order.
type ColumnGeometry struct {
	Key    string
	Bounds Rect
	Cards  []CardGeometry
}

// DropTarget names where a drag resolves: a column and the insertion index
// within it.
type DropTarget struct {
	ColumnKey string
	Index     int
}

// ResolveDropTarget maps a drag release onto a column and index. The pointer
// position wins when it lands inside a column: hitting a card inserts at that
// card's position, hitting empty column space appends. When the pointer is
// outside every column, the dragged card's bounding box falls back to the
// column (and card) with the largest overlap, so drops into empty column
// space still resolve. Returns false when neither test finds a column.
func ResolveDropTarget(pointer Point, dragged Rect, columns []ColumnGeometry) (DropTarget, bool) {
	for _, column := range columns {
		if !column.Bounds.Contains(pointer) {
			continue
		}
		for index, card := range column.Cards {
			if card.RowID != "" && card.Bounds.Contains(pointer) {
				return DropTarget{ColumnKey: column.Key, Index: index}, true
			}
		}
		return DropTarget{ColumnKey: column.Key, Index: len(column.Cards)}, true
	}

	bestArea := 0.0
	best := DropTarget{}
	found := false
	for _, column := range columns {
		area := column.Bounds.Intersection(dragged)
		if area <= bestArea {
			continue
		}
		bestArea = area
		found = true
		best = DropTarget{ColumnKey: column.Key, Index: len(column.Cards)}
		cardArea := 0.0
		for index, card := range column.Cards {
			overlap := card.Bounds.Intersection(dragged)
			if overlap > cardArea {
				cardArea = overlap
				best.Index = index
			}
		}
	}
	return best, found
}
