package projects

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	errMissingDatabase   = errors.New("database handle is required")
	errMissingIDProvider = errors.New("id provider is required")
	noOpLogger           = zap.NewNop()
)

// ServiceError wraps a failure with an operation.reason code.
type ServiceError struct {
	code string
	err  error
}

func (e *ServiceError) Error() string {
	if e.err == nil {
		return e.code
	}
	return fmt.Sprintf("%s: %v", e.code, e.err)
}

func (e *ServiceError) Unwrap() error {
	return e.err
}

func (e *ServiceError) Code() string {
	return e.code
}

const (
	opServiceNew    = "projects.service.new"
	opListProjects  = "projects.list"
	opGetProject    = "projects.get"
	opCreateProject = "projects.create"
	opRenameProject = "projects.rename"
	opDeleteProject = "projects.delete"
)

func newServiceError(operation, reason string, cause error) error {
	code := fmt.Sprintf("%s.%s", operation, reason)
	return &ServiceError{code: code, err: cause}
}

// IDProvider issues identifiers for newly created projects.
type IDProvider interface {
	NewID() (string, error)
}

// ServiceConfig bundles the dependencies for the project service.
type ServiceConfig struct {
	Database   *gorm.DB
	IDProvider IDProvider
	Logger     *zap.Logger
}

// Service manages the project tree.
type Service struct {
	db         *gorm.DB
	idProvider IDProvider
	logger     *zap.Logger
}

// NewService validates the configuration and constructs a Service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Database == nil {
		return nil, newServiceError(opServiceNew, "missing_database", errMissingDatabase)
	}
	if cfg.IDProvider == nil {
		return nil, newServiceError(opServiceNew, "missing_id_provider", errMissingIDProvider)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = noOpLogger
	}

	return &Service{
		db:         cfg.Database,
		idProvider: cfg.IDProvider,
		logger:     logger,
	}, nil
}

// List returns the projects directly under parentID (roots when parentID is nil),
// most recently updated first.
func (s *Service) List(ctx context.Context, parentID *string) ([]Project, error) {
	query := s.db.WithContext(ctx).Order("updated_at DESC")
	if parentID == nil {
		query = query.Where("parent_id IS NULL")
	} else {
		query = query.Where("parent_id = ?", *parentID)
	}

	var result []Project
	if err := query.Find(&result).Error; err != nil {
		s.logError(opListProjects, "query_failed", err)
		return nil, newServiceError(opListProjects, "query_failed", err)
	}
	return result, nil
}

// Get returns a single project with its direct children loaded.
func (s *Service) Get(ctx context.Context, id string) (Project, error) {
	var project Project
	err := s.db.WithContext(ctx).
		Preload("Children", func(db *gorm.DB) *gorm.DB {
			return db.Order("updated_at DESC")
		}).
		Where("id = ?", id).
		Take(&project).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Project{}, newServiceError(opGetProject, "not_found", ErrProjectNotFound)
	}
	if err != nil {
		s.logError(opGetProject, "query_failed", err, zap.String("project_id", id))
		return Project{}, newServiceError(opGetProject, "query_failed", err)
	}
	return project, nil
}

// Create inserts a project under the optional parent. The nesting cap is
// enforced here rather than in the client: the parent chain is walked inside
// the creation transaction so a racing reparent cannot slip past the check.
func (s *Service) Create(ctx context.Context, name string, parentID *string) (Project, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return Project{}, newServiceError(opCreateProject, "missing_name", ErrNameRequired)
	}

	id, err := s.idProvider.NewID()
	if err != nil {
		s.logError(opCreateProject, "id_generation_failed", err)
		return Project{}, newServiceError(opCreateProject, "id_generation_failed", err)
	}

	project := Project{ID: id, Name: trimmed, ParentID: parentID}
	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if parentID != nil {
			depth, err := ancestorDepth(tx, *parentID)
			if err != nil {
				return err
			}
			if depth+1 >= MaxDepth {
				return newServiceError(opCreateProject, "max_depth_exceeded", ErrMaxDepthExceeded)
			}
		}
		return tx.Create(&project).Error
	})
	if txErr != nil {
		var serviceErr *ServiceError
		if errors.As(txErr, &serviceErr) {
			return Project{}, txErr
		}
		s.logError(opCreateProject, "insert_failed", txErr, zap.String("project_name", trimmed))
		return Project{}, newServiceError(opCreateProject, "insert_failed", txErr)
	}
	return project, nil
}

// Rename updates a project's name.
func (s *Service) Rename(ctx context.Context, id, name string) (Project, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return Project{}, newServiceError(opRenameProject, "missing_name", ErrNameRequired)
	}

	result := s.db.WithContext(ctx).Model(&Project{}).Where("id = ?", id).Update("name", trimmed)
	if result.Error != nil {
		s.logError(opRenameProject, "update_failed", result.Error, zap.String("project_id", id))
		return Project{}, newServiceError(opRenameProject, "update_failed", result.Error)
	}
	if result.RowsAffected == 0 {
		return Project{}, newServiceError(opRenameProject, "not_found", ErrProjectNotFound)
	}

	var project Project
	if err := s.db.WithContext(ctx).Where("id = ?", id).Take(&project).Error; err != nil {
		s.logError(opRenameProject, "reload_failed", err, zap.String("project_id", id))
		return Project{}, newServiceError(opRenameProject, "reload_failed", err)
	}
	return project, nil
}

// Delete removes a project. Child projects, databases and documents go with it
// through the cascading foreign keys.
func (s *Service) Delete(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&Project{})
	if result.Error != nil {
		s.logError(opDeleteProject, "delete_failed", result.Error, zap.String("project_id", id))
		return newServiceError(opDeleteProject, "delete_failed", result.Error)
	}
	if result.RowsAffected == 0 {
		return newServiceError(opDeleteProject, "not_found", ErrProjectNotFound)
	}
	return nil
}

// ancestorDepth counts the chain length from the given project up to its root:
// 0 for a root project, 1 for a child, and so on.
func ancestorDepth(tx *gorm.DB, id string) (int, error) {
	depth := 0
	current := id
	for {
		var node Project
		err := tx.Select("id", "parent_id").Where("id = ?", current).Take(&node).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, newServiceError(opCreateProject, "parent_not_found", ErrProjectNotFound)
		}
		if err != nil {
			return 0, err
		}
		if node.ParentID == nil {
			return depth, nil
		}
		if depth >= MaxDepth {
			return depth, nil
		}
		depth++
		current = *node.ParentID
	}
}

func (s *Service) logError(operation, reason string, err error, fields ...zap.Field) {
	attrs := []zap.Field{
		zap.String("operation", operation),
		zap.String("reason", reason),
	}
	if err != nil {
		attrs = append(attrs, zap.Error(err))
	}
	attrs = append(attrs, fields...)
	s.logger.Error("projects service error", attrs...)
}
