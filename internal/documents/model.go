package documents

import (
	"errors"
	"time"

	"github.com/nexum-labs/nexum/backend/internal/projects"
)

var (
	// ErrDocumentNotFound indicates the requested document id does not exist.
	ErrDocumentNotFound = errors.New("documents: document not found")
	// ErrTitleRequired indicates an empty document title was supplied.
	ErrTitleRequired = errors.New("documents: title is required")
)

// Document is a project-owned rich-text page. Content is an opaque JSON tree
// produced by the editor; the backend stores it verbatim.
type Document struct {
	ID          string    `gorm:"column:id;primaryKey;size:36" json:"id"`
	Title       string    `gorm:"column:title;size:190;not null" json:"title"`
	ContentJSON string    `gorm:"column:content_json;type:text" json:"-"`
	ProjectID   string    `gorm:"column:project_id;size:36;not null;index" json:"projectId"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`

	Project *projects.Project `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName provides the explicit table binding for GORM.
func (Document) TableName() string {
	return "documents"
}
