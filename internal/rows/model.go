package rows

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/nexum-labs/nexum/backend/internal/properties"
)

var (
	// ErrRowNotFound indicates the requested row id does not exist.
	ErrRowNotFound = errors.New("rows: row not found")
	// ErrEmptyReorder indicates a reorder request without row ids.
	ErrEmptyReorder = errors.New("rows: ordered id list is empty")
)

// Row is an entry in a database, positioned by an integer order key. Its
// cells are sparse: a property with no cell on this row reads as null.
type Row struct {
	ID         string    `gorm:"column:id;primaryKey;size:36"`
	DatabaseID string    `gorm:"column:database_id;size:36;not null;index"`
	Order      int       `gorm:"column:position;not null;default:0"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`

	Cells []Cell `gorm:"foreignKey:RowID;constraint:OnDelete:CASCADE"`
}

// TableName provides the explicit table binding for GORM.
func (Row) TableName() string {
	return "rows"
}

// Cell holds one (row, property) value. The composite primary key is the
// uniqueness invariant: at most one cell per pair, enforced by the store.
type Cell struct {
	RowID      string    `gorm:"column:row_id;primaryKey;size:36"`
	PropertyID string    `gorm:"column:property_id;primaryKey;size:36"`
	ValueJSON  *string   `gorm:"column:value_json;type:text"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`

	Property properties.Property `gorm:"foreignKey:PropertyID;constraint:OnDelete:CASCADE"`
}

// TableName provides the explicit table binding for GORM.
func (Cell) TableName() string {
	return "cells"
}

// Value exposes the stored JSON value, or nil for a null cell.
func (c Cell) Value() json.RawMessage {
	if c.ValueJSON == nil || *c.ValueJSON == "" {
		return nil
	}
	return json.RawMessage(*c.ValueJSON)
}

// CellValue resolves the sparse storage contract: scan the row's cells for
// the property and return its value, or nil when no cell exists. Absence is
// a null value, never an error.
func CellValue(row Row, propertyID string) json.RawMessage {
	for _, cell := range row.Cells {
		if cell.PropertyID == propertyID {
			return cell.Value()
		}
	}
	return nil
}

// CellStringValue decodes the cell value as a string for display and
// grouping. Non-string and null values yield the empty string.
func CellStringValue(row Row, propertyID string) string {
	raw := CellValue(row, propertyID)
	if raw == nil {
		return ""
	}
	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return ""
	}
	return value
}

// CellSeed is an initial cell supplied at row creation.
type CellSeed struct {
	PropertyID string
	ValueJSON  *string
}
