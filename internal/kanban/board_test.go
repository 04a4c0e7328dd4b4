package kanban

import (
	"testing"

	"github.com/nexum-labs/nexum/backend/internal/properties"
	"github.com/nexum-labs/nexum/backend/internal/rows"
)

func selectProperty(id string, order int, options string) properties.Property {
	return properties.Property{
		ID:         id,
		DatabaseID: "db-1",
		Name:       id,
		Type:       properties.TypeSelect,
		Order:      order,
		ConfigJSON: options,
	}
}

func textProperty(id string, order int) properties.Property {
	return properties.Property{
		ID:         id,
		DatabaseID: "db-1",
		Name:       id,
		Type:       properties.TypeText,
		Order:      order,
	}
}

func dateProperty(id string, order int) properties.Property {
	return properties.Property{
		ID:         id,
		DatabaseID: "db-1",
		Name:       id,
		Type:       properties.TypeDate,
		Order:      order,
	}
}

func rowWithValue(id, propertyID, value string) rows.Row {
	row := rows.Row{ID: id, DatabaseID: "db-1"}
	if value != "" {
		encoded := `"` + value + `"`
		row.Cells = []rows.Cell{{RowID: id, PropertyID: propertyID, ValueJSON: &encoded}}
	}
	return row
}

func columnRowIDs(column Column) []string {
	ids := make([]string, 0, len(column.Rows))
	for _, row := range column.Rows {
		ids = append(ids, row.ID)
	}
	return ids
}

func sameIDs(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

func TestBuildBoardBucketsDeterministically(t *testing.T) {
	groupBy := selectProperty("prop-status", 1, `{"options":["Todo","In Progress","Done"]}`)
	rowList := []rows.Row{
		rowWithValue("row-1", "prop-status", "Todo"),
		rowWithValue("row-2", "prop-status", ""),
		rowWithValue("row-3", "prop-status", "Done"),
		rowWithValue("row-4", "prop-status", "Unknown"),
		rowWithValue("row-5", "prop-status", "In Progress"),
	}

	board, err := BuildBoard(groupBy, []properties.Property{groupBy}, rowList)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(board.Columns) != 4 {
		t.Fatalf("expected 3 option columns plus uncategorized, got %d", len(board.Columns))
	}
	if !board.Columns[3].Uncategorized {
		t.Fatalf("expected trailing uncategorized column")
	}

	expectations := map[string][]string{
		"Todo":           {"row-1"},
		"In Progress":    {"row-5"},
		"Done":           {"row-3"},
		UncategorizedKey: {"row-2", "row-4"},
	}
	for _, column := range board.Columns {
		want := expectations[column.Key]
		if !sameIDs(columnRowIDs(column), want) {
			t.Fatalf("column %s: expected rows %v, got %v", column.Key, want, columnRowIDs(column))
		}
	}
}

func TestBuildBoardRejectsNonSelectGroupBy(t *testing.T) {
	groupBy := textProperty("prop-title", 0)

	if _, err := BuildBoard(groupBy, nil, nil); err != ErrNotSelectProperty {
		t.Fatalf("expected ErrNotSelectProperty, got %v", err)
	}
}

func TestBuildBoardHandlesMalformedConfig(t *testing.T) {
	groupBy := selectProperty("prop-status", 0, `{broken`)
	rowList := []rows.Row{rowWithValue("row-1", "prop-status", "Todo")}

	board, err := BuildBoard(groupBy, []properties.Property{groupBy}, rowList)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(board.Columns) != 1 {
		t.Fatalf("malformed config should yield only the uncategorized column, got %d", len(board.Columns))
	}
	if !sameIDs(columnRowIDs(board.Columns[0]), []string{"row-1"}) {
		t.Fatalf("all rows should fall back to uncategorized")
	}
}

func TestDeriveCardFields(t *testing.T) {
	groupBy := selectProperty("prop-status", 1, `{"options":["Todo","Done"]}`)
	schema := []properties.Property{
		textProperty("prop-title", 0),
		groupBy,
		selectProperty("prop-priority", 2, `{"options":["Low","High"]}`),
		dateProperty("prop-start", 3),
		dateProperty("prop-end", 4),
		textProperty("prop-notes", 5),
	}

	board, err := BuildBoard(groupBy, schema, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	fields := board.Fields
	if fields.Title == nil || fields.Title.ID != "prop-title" {
		t.Fatalf("expected title prop-title, got %#v", fields.Title)
	}
	if len(fields.Badges) != 1 || fields.Badges[0].ID != "prop-priority" {
		t.Fatalf("expected prop-priority as the only badge, got %#v", fields.Badges)
	}
	if len(fields.Dates) != 2 {
		t.Fatalf("expected two date fields, got %d", len(fields.Dates))
	}
	if len(fields.ExtraText) != 1 || fields.ExtraText[0].ID != "prop-notes" {
		t.Fatalf("expected prop-notes as extra text, got %#v", fields.ExtraText)
	}
}

func TestDeriveCardFieldsTitleFallback(t *testing.T) {
	groupBy := selectProperty("prop-status", 0, `{"options":["Todo"]}`)
	schema := []properties.Property{
		groupBy,
		textProperty("prop-desc", 4),
	}

	board, err := BuildBoard(groupBy, schema, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if board.Fields.Title == nil || board.Fields.Title.ID != "prop-desc" {
		t.Fatalf("expected fallback to any TEXT property, got %#v", board.Fields.Title)
	}
	if len(board.Fields.ExtraText) != 0 {
		t.Fatalf("title property should not repeat in extra text")
	}
}

func TestNewRowCells(t *testing.T) {
	seeds := NewRowCells("prop-status", "Done")
	if len(seeds) != 1 {
		t.Fatalf("expected one seed, got %d", len(seeds))
	}
	if seeds[0].PropertyID != "prop-status" || seeds[0].ValueJSON == nil || *seeds[0].ValueJSON != `"Done"` {
		t.Fatalf("unexpected seed: %#v", seeds[0])
	}

	if seeds := NewRowCells("prop-status", UncategorizedKey); seeds != nil {
		t.Fatalf("uncategorized column should seed nothing, got %#v", seeds)
	}
}
