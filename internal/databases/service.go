package databases

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nexum-labs/nexum/backend/internal/properties"
	"github.com/nexum-labs/nexum/backend/internal/rows"
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
	opServiceNew     = "databases.service.new"
	opListDatabases  = "databases.list"
	opGetDatabase    = "databases.get"
	opCreateDatabase = "databases.create"
	opCreateFromTpl  = "databases.create_from_template"
	opRenameDatabase = "databases.rename"
	opSetViewType    = "databases.set_view_type"
	opDeleteDatabase = "databases.delete"
)

func newServiceError(operation, reason string, cause error) error {
	code := fmt.Sprintf("%s.%s", operation, reason)
	return &ServiceError{code: code, err: cause}
}

// IDProvider issues identifiers for databases and their seeded properties.
type IDProvider interface {
	NewID() (string, error)
}

// ServiceConfig bundles the dependencies for the database service.
type ServiceConfig struct {
	Database   *gorm.DB
	IDProvider IDProvider
	Logger     *zap.Logger
}

// Service manages databases and template instantiation.
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

// List returns all databases, newest first.
func (s *Service) List(ctx context.Context) ([]Database, error) {
	var result []Database
	err := s.db.WithContext(ctx).Order("created_at DESC").Find(&result).Error
	if err != nil {
		s.logError(opListDatabases, "query_failed", err)
		return nil, newServiceError(opListDatabases, "query_failed", err)
	}
	return result, nil
}

// Get returns the hydrated detail for a database: properties in column order
// and the current row count.
func (s *Service) Get(ctx context.Context, id string) (Detail, error) {
	return s.detail(s.db.WithContext(ctx), opGetDatabase, id)
}

// Create inserts a blank database with no properties. The read shape matches
// the template path so callers handle both uniformly.
func (s *Service) Create(ctx context.Context, name, projectID string) (Detail, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return Detail{}, newServiceError(opCreateDatabase, "missing_name", ErrNameRequired)
	}

	id, err := s.idProvider.NewID()
	if err != nil {
		s.logError(opCreateDatabase, "id_generation_failed", err)
		return Detail{}, newServiceError(opCreateDatabase, "id_generation_failed", err)
	}

	database := Database{ID: id, Name: trimmed, ProjectID: projectID, ViewType: ViewTypeTable}
	if err := s.db.WithContext(ctx).Create(&database).Error; err != nil {
		s.logError(opCreateDatabase, "insert_failed", err, zap.String("project_id", projectID))
		return Detail{}, newServiceError(opCreateDatabase, "insert_failed", err)
	}

	return s.Get(ctx, id)
}

// CreateFromTemplate instantiates a database plus the template's property set
// inside one transaction. If any property insert fails the database insert
// rolls back with it; callers never observe a partial schema.
func (s *Service) CreateFromTemplate(ctx context.Context, name, projectID, templateID string) (Detail, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return Detail{}, newServiceError(opCreateFromTpl, "missing_name", ErrNameRequired)
	}

	template, ok := findTemplate(templateID)
	if !ok {
		return Detail{}, newServiceError(opCreateFromTpl, "template_not_found", ErrTemplateNotFound)
	}

	databaseID, err := s.idProvider.NewID()
	if err != nil {
		s.logError(opCreateFromTpl, "id_generation_failed", err)
		return Detail{}, newServiceError(opCreateFromTpl, "id_generation_failed", err)
	}

	var detail Detail
	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		database := Database{
			ID:        databaseID,
			Name:      trimmed,
			ProjectID: projectID,
			ViewType:  template.DefaultViewType,
		}
		if err := tx.Create(&database).Error; err != nil {
			return err
		}

		for _, blueprint := range template.Properties {
			propertyID, err := s.idProvider.NewID()
			if err != nil {
				return err
			}
			property := properties.Property{
				ID:         propertyID,
				DatabaseID: databaseID,
				Name:       blueprint.Name,
				Type:       blueprint.Type,
				Order:      blueprint.Order,
				ConfigJSON: blueprint.ConfigJSON,
			}
			if err := tx.Create(&property).Error; err != nil {
				return err
			}
		}

		loaded, err := s.detail(tx, opCreateFromTpl, databaseID)
		if err != nil {
			return err
		}
		detail = loaded
		return nil
	})
	if txErr != nil {
		var serviceErr *ServiceError
		if errors.As(txErr, &serviceErr) {
			return Detail{}, txErr
		}
		s.logError(opCreateFromTpl, "transaction_failed", txErr,
			zap.String("template_id", templateID),
			zap.String("project_id", projectID))
		return Detail{}, newServiceError(opCreateFromTpl, "transaction_failed", txErr)
	}

	return detail, nil
}

// Rename updates a database's name.
func (s *Service) Rename(ctx context.Context, id, name string) (Database, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return Database{}, newServiceError(opRenameDatabase, "missing_name", ErrNameRequired)
	}

	result := s.db.WithContext(ctx).Model(&Database{}).Where("id = ?", id).Update("name", trimmed)
	if result.Error != nil {
		s.logError(opRenameDatabase, "update_failed", result.Error, zap.String("database_id", id))
		return Database{}, newServiceError(opRenameDatabase, "update_failed", result.Error)
	}
	if result.RowsAffected == 0 {
		return Database{}, newServiceError(opRenameDatabase, "not_found", ErrDatabaseNotFound)
	}
	return s.load(ctx, opRenameDatabase, id)
}

// SetViewType switches the default rendering between table and board.
func (s *Service) SetViewType(ctx context.Context, id string, viewType ViewType) (Database, error) {
	if _, err := ParseViewType(string(viewType)); err != nil {
		return Database{}, newServiceError(opSetViewType, "invalid_view_type", err)
	}

	result := s.db.WithContext(ctx).Model(&Database{}).Where("id = ?", id).Update("view_type", viewType)
	if result.Error != nil {
		s.logError(opSetViewType, "update_failed", result.Error, zap.String("database_id", id))
		return Database{}, newServiceError(opSetViewType, "update_failed", result.Error)
	}
	if result.RowsAffected == 0 {
		return Database{}, newServiceError(opSetViewType, "not_found", ErrDatabaseNotFound)
	}
	return s.load(ctx, opSetViewType, id)
}

// Delete removes a database. Properties, rows and cells go with it through
// the cascading foreign keys.
func (s *Service) Delete(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&Database{})
	if result.Error != nil {
		s.logError(opDeleteDatabase, "delete_failed", result.Error, zap.String("database_id", id))
		return newServiceError(opDeleteDatabase, "delete_failed", result.Error)
	}
	if result.RowsAffected == 0 {
		return newServiceError(opDeleteDatabase, "not_found", ErrDatabaseNotFound)
	}
	return nil
}

func (s *Service) load(ctx context.Context, operation, id string) (Database, error) {
	var database Database
	err := s.db.WithContext(ctx).Where("id = ?", id).Take(&database).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Database{}, newServiceError(operation, "not_found", ErrDatabaseNotFound)
	}
	if err != nil {
		s.logError(operation, "reload_failed", err, zap.String("database_id", id))
		return Database{}, newServiceError(operation, "reload_failed", err)
	}
	return database, nil
}

func (s *Service) detail(tx *gorm.DB, operation, id string) (Detail, error) {
	var database Database
	err := tx.Where("id = ?", id).Take(&database).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Detail{}, newServiceError(operation, "not_found", ErrDatabaseNotFound)
	}
	if err != nil {
		s.logError(operation, "query_failed", err, zap.String("database_id", id))
		return Detail{}, newServiceError(operation, "query_failed", err)
	}

	var schema []properties.Property
	err = tx.Where("database_id = ?", id).
		Order("position ASC, created_at ASC, id ASC").
		Find(&schema).Error
	if err != nil {
		s.logError(operation, "properties_query_failed", err, zap.String("database_id", id))
		return Detail{}, newServiceError(operation, "properties_query_failed", err)
	}

	var rowCount int64
	if err := tx.Model(&rows.Row{}).Where("database_id = ?", id).Count(&rowCount).Error; err != nil {
		s.logError(operation, "row_count_failed", err, zap.String("database_id", id))
		return Detail{}, newServiceError(operation, "row_count_failed", err)
	}

	return Detail{Database: database, Properties: schema, RowCount: rowCount}, nil
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
	s.logger.Error("databases service error", attrs...)
}
