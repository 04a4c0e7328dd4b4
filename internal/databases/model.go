package databases

import (
	"errors"
	"strings"
	"time"

	"github.com/nexum-labs/nexum/backend/internal/projects"
	"github.com/nexum-labs/nexum/backend/internal/properties"
	"github.com/nexum-labs/nexum/backend/internal/rows"
)

// ViewType selects how a database renders by default.
type ViewType string

const (
	// ViewTypeTable renders rows as a flat spreadsheet.
	ViewTypeTable ViewType = "TABLE"
	// ViewTypeBoard renders rows as a kanban board.
	ViewTypeBoard ViewType = "BOARD"
)

var (
	// ErrDatabaseNotFound indicates the requested database id does not exist.
	ErrDatabaseNotFound = errors.New("databases: database not found")
	// ErrTemplateNotFound indicates an unknown template id.
	ErrTemplateNotFound = errors.New("databases: template not found")
	// ErrNameRequired indicates an empty database name was supplied.
	ErrNameRequired = errors.New("databases: name is required")
	// ErrInvalidViewType indicates a view type outside TABLE and BOARD.
	ErrInvalidViewType = errors.New("databases: invalid view type")
)

// ParseViewType validates raw input against the enumerated view types.
func ParseViewType(value string) (ViewType, error) {
	switch ViewType(strings.ToUpper(strings.TrimSpace(value))) {
	case ViewTypeTable:
		return ViewTypeTable, nil
	case ViewTypeBoard:
		return ViewTypeBoard, nil
	default:
		return "", ErrInvalidViewType
	}
}

// Database owns an ordered property schema and an ordered set of rows within
// a project.
type Database struct {
	ID        string    `gorm:"column:id;primaryKey;size:36" json:"id"`
	Name      string    `gorm:"column:name;size:190;not null" json:"name"`
	ProjectID string    `gorm:"column:project_id;size:36;not null;index" json:"projectId"`
	ViewType  ViewType  `gorm:"column:view_type;size:16;not null;default:TABLE" json:"viewType"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`

	Project    *projects.Project     `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"-"`
	Properties []properties.Property `gorm:"foreignKey:DatabaseID;constraint:OnDelete:CASCADE" json:"-"`
	Rows       []rows.Row            `gorm:"foreignKey:DatabaseID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName provides the explicit table binding for GORM.
func (Database) TableName() string {
	return "databases"
}

// Detail is the hydrated read shape shared by the blank and template
// creation paths: the database, its properties in column order, and the row
// count.
type Detail struct {
	Database   Database
	Properties []properties.Property
	RowCount   int64
}
