package kanban

import "encoding/json"

// CellChange is the group-by cell write a drop produces when the card moves
// between columns. A nil ValueJSON clears the cell (drop on uncategorized).
type CellChange struct {
	RowID      string
	PropertyID string
	ValueJSON  *string
}

// DropPlan translates a completed drag gesture into storage operations: an
// optional group-by cell change, and the full flattened row id list to hand
// to one reorder call. Columns partition the global order, so the flattened
// list always covers every row on the board, keeping the stored order
// consistent with the per-column visual order.
type DropPlan struct {
	CellChange *CellChange
	OrderedIDs []string
}

// PlanDrop computes the plan for dropping rowID into targetColumnKey at
// targetIndex within that column. A negative or out-of-range index appends
// (drop on empty space or the column header). Dropping within the source
// column yields a pure reorder with no cell change; other columns keep their
// internal order untouched either way.
func PlanDrop(board Board, rowID, targetColumnKey string, targetIndex int) (DropPlan, error) {
	targetColumn := -1
	for i, column := range board.Columns {
		if column.Key == targetColumnKey {
			targetColumn = i
			break
		}
	}
	if targetColumn < 0 {
		return DropPlan{}, ErrColumnNotFound
	}

	ids := make([][]string, len(board.Columns))
	sourceColumn := -1
	for i, column := range board.Columns {
		ids[i] = make([]string, 0, len(column.Rows))
		for _, row := range column.Rows {
			if row.ID == rowID {
				sourceColumn = i
				continue
			}
			ids[i] = append(ids[i], row.ID)
		}
	}
	if sourceColumn < 0 {
		return DropPlan{}, ErrRowNotOnBoard
	}

	if targetIndex < 0 || targetIndex > len(ids[targetColumn]) {
		targetIndex = len(ids[targetColumn])
	}
	lane := ids[targetColumn]
	lane = append(lane[:targetIndex], append([]string{rowID}, lane[targetIndex:]...)...)
	ids[targetColumn] = lane

	plan := DropPlan{OrderedIDs: flatten(ids)}
	if sourceColumn != targetColumn {
		change := CellChange{RowID: rowID, PropertyID: board.GroupByPropertyID}
		if !board.Columns[targetColumn].Uncategorized {
			value := encodeString(board.Columns[targetColumn].Key)
			change.ValueJSON = &value
		}
		plan.CellChange = &change
	}
	return plan, nil
}

// flatten concatenates the per-column id lists in column order into the
// single global ordering.
func flatten(ids [][]string) []string {
	total := 0
	for _, lane := range ids {
		total += len(lane)
	}
	flat := make([]string, 0, total)
	for _, lane := range ids {
		flat = append(flat, lane...)
	}
	return flat
}

func encodeString(value string) string {
	encoded, err := json.Marshal(value)
	if err != nil {
		return `""`
	}
	return string(encoded)
}
