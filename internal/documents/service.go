package documents

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
	opServiceNew     = "documents.service.new"
	opListDocuments  = "documents.list"
	opGetDocument    = "documents.get"
	opCreateDocument = "documents.create"
	opUpdateDocument = "documents.update"
	opDeleteDocument = "documents.delete"
)

func newServiceError(operation, reason string, cause error) error {
	code := fmt.Sprintf("%s.%s", operation, reason)
	return &ServiceError{code: code, err: cause}
}

// IDProvider issues identifiers for newly created documents.
type IDProvider interface {
	NewID() (string, error)
}

// ServiceConfig bundles the dependencies for the document service.
type ServiceConfig struct {
	Database   *gorm.DB
	IDProvider IDProvider
	Logger     *zap.Logger
}

// Service manages rich-text documents.
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

// List returns documents, optionally filtered by project, newest first.
func (s *Service) List(ctx context.Context, projectID *string) ([]Document, error) {
	query := s.db.WithContext(ctx).Order("created_at DESC")
	if projectID != nil {
		query = query.Where("project_id = ?", *projectID)
	}

	var result []Document
	if err := query.Find(&result).Error; err != nil {
		s.logError(opListDocuments, "query_failed", err)
		return nil, newServiceError(opListDocuments, "query_failed", err)
	}
	return result, nil
}

// Get returns a single document by id.
func (s *Service) Get(ctx context.Context, id string) (Document, error) {
	var document Document
	err := s.db.WithContext(ctx).Where("id = ?", id).Take(&document).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Document{}, newServiceError(opGetDocument, "not_found", ErrDocumentNotFound)
	}
	if err != nil {
		s.logError(opGetDocument, "query_failed", err, zap.String("document_id", id))
		return Document{}, newServiceError(opGetDocument, "query_failed", err)
	}
	return document, nil
}

// Create inserts a new empty document under the given project.
func (s *Service) Create(ctx context.Context, title, projectID string) (Document, error) {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return Document{}, newServiceError(opCreateDocument, "missing_title", ErrTitleRequired)
	}

	id, err := s.idProvider.NewID()
	if err != nil {
		s.logError(opCreateDocument, "id_generation_failed", err)
		return Document{}, newServiceError(opCreateDocument, "id_generation_failed", err)
	}

	document := Document{ID: id, Title: trimmed, ProjectID: projectID}
	if err := s.db.WithContext(ctx).Create(&document).Error; err != nil {
		s.logError(opCreateDocument, "insert_failed", err, zap.String("project_id", projectID))
		return Document{}, newServiceError(opCreateDocument, "insert_failed", err)
	}
	return document, nil
}

// UpdateRequest carries the partial update payload: nil fields stay untouched.
type UpdateRequest struct {
	Title       *string
	ContentJSON *string
}

// Update applies a partial update and returns the stored document.
func (s *Service) Update(ctx context.Context, id string, request UpdateRequest) (Document, error) {
	updates := map[string]any{}
	if request.Title != nil {
		trimmed := strings.TrimSpace(*request.Title)
		if trimmed == "" {
			return Document{}, newServiceError(opUpdateDocument, "missing_title", ErrTitleRequired)
		}
		updates["title"] = trimmed
	}
	if request.ContentJSON != nil {
		updates["content_json"] = *request.ContentJSON
	}

	if len(updates) > 0 {
		result := s.db.WithContext(ctx).Model(&Document{}).Where("id = ?", id).Updates(updates)
		if result.Error != nil {
			s.logError(opUpdateDocument, "update_failed", result.Error, zap.String("document_id", id))
			return Document{}, newServiceError(opUpdateDocument, "update_failed", result.Error)
		}
		if result.RowsAffected == 0 {
			return Document{}, newServiceError(opUpdateDocument, "not_found", ErrDocumentNotFound)
		}
	}

	var document Document
	err := s.db.WithContext(ctx).Where("id = ?", id).Take(&document).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Document{}, newServiceError(opUpdateDocument, "not_found", ErrDocumentNotFound)
	}
	if err != nil {
		s.logError(opUpdateDocument, "reload_failed", err, zap.String("document_id", id))
		return Document{}, newServiceError(opUpdateDocument, "reload_failed", err)
	}
	return document, nil
}

// Delete removes a document.
func (s *Service) Delete(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&Document{})
	if result.Error != nil {
		s.logError(opDeleteDocument, "delete_failed", result.Error, zap.String("document_id", id))
		return newServiceError(opDeleteDocument, "delete_failed", result.Error)
	}
	if result.RowsAffected == 0 {
		return newServiceError(opDeleteDocument, "not_found", ErrDocumentNotFound)
	}
	return nil
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
	s.logger.Error("documents service error", attrs...)
}
