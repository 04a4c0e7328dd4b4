package properties

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
	opRegistryNew    = "properties.registry.new"
	opListProperties = "properties.list"
	opCreateProperty = "properties.create"
	opUpdateProperty = "properties.update"
	opDeleteProperty = "properties.delete"
)

func newServiceError(operation, reason string, cause error) error {
	code := fmt.Sprintf("%s.%s", operation, reason)
	return &ServiceError{code: code, err: cause}
}

// IDProvider issues identifiers for newly created properties.
type IDProvider interface {
	NewID() (string, error)
}

// RegistryConfig bundles the dependencies for the property registry.
type RegistryConfig struct {
	Database   *gorm.DB
	IDProvider IDProvider
	Logger     *zap.Logger
}

// Registry manages the typed column schema of a database.
type Registry struct {
	db         *gorm.DB
	idProvider IDProvider
	logger     *zap.Logger
}

// NewRegistry validates the configuration and constructs a Registry.
func NewRegistry(cfg RegistryConfig) (*Registry, error) {
	if cfg.Database == nil {
		return nil, newServiceError(opRegistryNew, "missing_database", errMissingDatabase)
	}
	if cfg.IDProvider == nil {
		return nil, newServiceError(opRegistryNew, "missing_id_provider", errMissingIDProvider)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = noOpLogger
	}

	return &Registry{
		db:         cfg.Database,
		idProvider: cfg.IDProvider,
		logger:     logger,
	}, nil
}

// List returns a database's properties in column order. Equal order values
// fall back to creation order so the sequence stays stable.
func (r *Registry) List(ctx context.Context, databaseID string) ([]Property, error) {
	var result []Property
	err := r.db.WithContext(ctx).
		Where("database_id = ?", databaseID).
		Order("position ASC, created_at ASC, id ASC").
		Find(&result).Error
	if err != nil {
		r.logError(opListProperties, "query_failed", err, zap.String("database_id", databaseID))
		return nil, newServiceError(opListProperties, "query_failed", err)
	}
	return result, nil
}

// CreateRequest carries the inputs for a new property. Order defaults to 0
// when the caller does not assign a position; the registry does not
// resequence siblings. Config is stored as-is without shape validation.
type CreateRequest struct {
	DatabaseID         string
	Name               string
	Type               PropertyType
	Order              int
	ConfigJSON         string
	RelationDatabaseID *string
}

// Create inserts a new property into the schema.
func (r *Registry) Create(ctx context.Context, request CreateRequest) (Property, error) {
	trimmed := strings.TrimSpace(request.Name)
	if trimmed == "" {
		return Property{}, newServiceError(opCreateProperty, "missing_name", ErrNameRequired)
	}
	if _, err := ParseType(string(request.Type)); err != nil {
		return Property{}, newServiceError(opCreateProperty, "invalid_type", err)
	}

	id, err := r.idProvider.NewID()
	if err != nil {
		r.logError(opCreateProperty, "id_generation_failed", err)
		return Property{}, newServiceError(opCreateProperty, "id_generation_failed", err)
	}

	property := Property{
		ID:                 id,
		DatabaseID:         request.DatabaseID,
		Name:               trimmed,
		Type:               request.Type,
		Order:              request.Order,
		ConfigJSON:         request.ConfigJSON,
		RelationDatabaseID: request.RelationDatabaseID,
	}
	if err := r.db.WithContext(ctx).Create(&property).Error; err != nil {
		r.logError(opCreateProperty, "insert_failed", err, zap.String("database_id", request.DatabaseID))
		return Property{}, newServiceError(opCreateProperty, "insert_failed", err)
	}
	return property, nil
}

// UpdateRequest carries the partial update payload: nil fields stay untouched.
type UpdateRequest struct {
	Name       *string
	Order      *int
	ConfigJSON *string
}

// Update applies a partial update and returns the stored property.
func (r *Registry) Update(ctx context.Context, id string, request UpdateRequest) (Property, error) {
	updates := map[string]any{}
	if request.Name != nil {
		trimmed := strings.TrimSpace(*request.Name)
		if trimmed == "" {
			return Property{}, newServiceError(opUpdateProperty, "missing_name", ErrNameRequired)
		}
		updates["name"] = trimmed
	}
	if request.Order != nil {
		updates["position"] = *request.Order
	}
	if request.ConfigJSON != nil {
		updates["config_json"] = *request.ConfigJSON
	}

	if len(updates) > 0 {
		result := r.db.WithContext(ctx).Model(&Property{}).Where("id = ?", id).Updates(updates)
		if result.Error != nil {
			r.logError(opUpdateProperty, "update_failed", result.Error, zap.String("property_id", id))
			return Property{}, newServiceError(opUpdateProperty, "update_failed", result.Error)
		}
		if result.RowsAffected == 0 {
			return Property{}, newServiceError(opUpdateProperty, "not_found", ErrPropertyNotFound)
		}
	}

	var property Property
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&property).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Property{}, newServiceError(opUpdateProperty, "not_found", ErrPropertyNotFound)
	}
	if err != nil {
		r.logError(opUpdateProperty, "reload_failed", err, zap.String("property_id", id))
		return Property{}, newServiceError(opUpdateProperty, "reload_failed", err)
	}
	return property, nil
}

// Delete removes a property. Its cells go with it through the cascading
// foreign key.
func (r *Registry) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&Property{})
	if result.Error != nil {
		r.logError(opDeleteProperty, "delete_failed", result.Error, zap.String("property_id", id))
		return newServiceError(opDeleteProperty, "delete_failed", result.Error)
	}
	if result.RowsAffected == 0 {
		return newServiceError(opDeleteProperty, "not_found", ErrPropertyNotFound)
	}
	return nil
}

func (r *Registry) logError(operation, reason string, err error, fields ...zap.Field) {
	attrs := []zap.Field{
		zap.String("operation", operation),
		zap.String("reason", reason),
	}
	if err != nil {
		attrs = append(attrs, zap.Error(err))
	}
	attrs = append(attrs, fields...)
	r.logger.Error("properties registry error", attrs...)
}
