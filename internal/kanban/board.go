// Package kanban projects a database's rows onto a board grouped by a
// SELECT property. The projection is pure and re-derivable: it reads the
// schema, rows and cells and never persists state of its own.
package kanban

import (
	"errors"

	"github.com/nexum-labs/nexum/backend/internal/properties"
	"github.com/nexum-labs/nexum/backend/internal/rows"
)

// UncategorizedKey identifies the synthetic trailing column that collects
// rows whose group-by cell is empty or not among the configured options.
const UncategorizedKey = "__uncategorized__"

// UncategorizedLabel is the display label of the synthetic column.
const UncategorizedLabel = "Uncategorized"

var (
	// ErrNotSelectProperty indicates the group-by property is not SELECT-typed.
	ErrNotSelectProperty = errors.New("kanban: group-by property must be SELECT")
	// ErrColumnNotFound indicates a drop target column key outside the board.
	ErrColumnNotFound = errors.New("kanban: column not found")
	// ErrRowNotOnBoard indicates a dragged row id absent from the board.
	ErrRowNotOnBoard = errors.New("kanban: row not on board")
)

// Column is one vertical lane of the board.
type Column struct {
	Key           string
	Label         string
	Uncategorized bool
	Rows          []rows.Row
}

// CardFields names the auxiliary properties rendered on each card. Display
// only; nothing here is persisted.
type CardFields struct {
	Title     *properties.Property
	Badges    []properties.Property
	Dates     []properties.Property
	ExtraText []properties.Property
}

// Board is the materialized kanban projection.
type Board struct {
	GroupByPropertyID string
	Columns           []Column
	Fields            CardFields
}

// BuildBoard buckets rows into columns derived from the group-by property's
// option list, in declared order, with the uncategorized column trailing.
// A row lands in a named column only when its group-by cell holds a non-empty
// string that matches an option; everything else is uncategorized. Rows keep
// their incoming (order-sorted) sequence within each column.
func BuildBoard(groupBy properties.Property, schema []properties.Property, rowList []rows.Row) (Board, error) {
	if groupBy.Type != properties.TypeSelect {
		return Board{}, ErrNotSelectProperty
	}

	options := groupBy.SelectOptions()
	columns := make([]Column, 0, len(options)+1)
	index := make(map[string]int, len(options)+1)
	for _, option := range options {
		if _, exists := index[option]; exists {
			continue
		}
		index[option] = len(columns)
		columns = append(columns, Column{Key: option, Label: option})
	}
	index[UncategorizedKey] = len(columns)
	columns = append(columns, Column{
		Key:           UncategorizedKey,
		Label:         UncategorizedLabel,
		Uncategorized: true,
	})

	for _, row := range rowList {
		value := rows.CellStringValue(row, groupBy.ID)
		position, matched := index[value]
		if value == "" || !matched {
			position = index[UncategorizedKey]
		}
		columns[position].Rows = append(columns[position].Rows, row)
	}

	return Board{
		GroupByPropertyID: groupBy.ID,
		Columns:           columns,
		Fields:            deriveCardFields(groupBy, schema),
	}, nil
}

// deriveCardFields picks the display properties: the title is the first TEXT
// property at order 0, falling back to any TEXT property; other SELECTs
// become badges, DATEs become date chips, remaining TEXTs trail as plain text.
func deriveCardFields(groupBy properties.Property, schema []properties.Property) CardFields {
	fields := CardFields{}

	for i := range schema {
		if schema[i].Type == properties.TypeText && schema[i].Order == 0 {
			fields.Title = &schema[i]
			break
		}
	}
	if fields.Title == nil {
		for i := range schema {
			if schema[i].Type == properties.TypeText {
				fields.Title = &schema[i]
				break
			}
		}
	}

	for i := range schema {
		property := schema[i]
		switch property.Type {
		case properties.TypeSelect:
			if property.ID != groupBy.ID {
				fields.Badges = append(fields.Badges, property)
			}
		case properties.TypeDate:
			fields.Dates = append(fields.Dates, property)
		case properties.TypeText:
			if fields.Title == nil || property.ID != fields.Title.ID {
				fields.ExtraText = append(fields.ExtraText, property)
			}
		}
	}

	return fields
}

// NewRowCells seeds the group-by cell for a row created from a column's "New"
// button, so the row buckets correctly without a follow-up write. Creation in
// the uncategorized column seeds nothing.
func NewRowCells(groupByPropertyID, columnKey string) []rows.CellSeed {
	if columnKey == UncategorizedKey {
		return nil
	}
	value := encodeString(columnKey)
	return []rows.CellSeed{{PropertyID: groupByPropertyID, ValueJSON: &value}}
}
