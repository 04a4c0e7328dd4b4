package projects

import (
	"errors"
	"time"
)

// MaxDepth caps the project tree at root -> child -> grandchild.
const MaxDepth = 3

var (
	// ErrProjectNotFound indicates the requested project id does not exist.
	ErrProjectNotFound = errors.New("projects: project not found")
	// ErrNameRequired indicates an empty project name was supplied.
	ErrNameRequired = errors.New("projects: name is required")
	// ErrMaxDepthExceeded indicates creation would nest deeper than MaxDepth levels.
	ErrMaxDepthExceeded = errors.New("projects: maximum nesting depth exceeded")
)

// Project is a node in the workspace tree. A nil ParentID marks a root project.
type Project struct {
	ID        string     `gorm:"column:id;primaryKey;size:36" json:"id"`
	Name      string     `gorm:"column:name;size:190;not null" json:"name"`
	ParentID  *string    `gorm:"column:parent_id;size:36;index" json:"parentId"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
	Children  []*Project `gorm:"foreignKey:ParentID;constraint:OnDelete:CASCADE" json:"children,omitempty"`
}

// TableName provides the explicit table binding for GORM.
func (Project) TableName() string {
	return "projects"
}
