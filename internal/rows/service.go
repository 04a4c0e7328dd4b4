package rows

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
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
	opServiceNew  = "rows.service.new"
	opListRows    = "rows.list"
	opCreateRow   = "rows.create"
	opUpdateOrder = "rows.update_order"
	opReorderRows = "rows.reorder"
	opDeleteRow   = "rows.delete"
	opUpsertCell  = "rows.upsert_cell"
	opDeleteCell  = "rows.delete_cell"
	opGetRow      = "rows.get"
)

func newServiceError(operation, reason string, cause error) error {
	code := fmt.Sprintf("%s.%s", operation, reason)
	return &ServiceError{code: code, err: cause}
}

// IDProvider issues identifiers for newly created rows.
type IDProvider interface {
	NewID() (string, error)
}

// ServiceConfig bundles the dependencies for the row service.
type ServiceConfig struct {
	Database   *gorm.DB
	IDProvider IDProvider
	Logger     *zap.Logger
}

// Service maintains the total order over a database's rows and the sparse
// cell store keyed by (row, property).
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

// List returns a database's rows ordered ascending, each with its cells and
// their owning properties eagerly loaded.
func (s *Service) List(ctx context.Context, databaseID string) ([]Row, error) {
	var result []Row
	err := s.db.WithContext(ctx).
		Preload("Cells.Property").
		Where("database_id = ?", databaseID).
		Order("position ASC, created_at ASC").
		Find(&result).Error
	if err != nil {
		s.logError(opListRows, "query_failed", err, zap.String("database_id", databaseID))
		return nil, newServiceError(opListRows, "query_failed", err)
	}
	return result, nil
}

// Get returns a single row with its cells loaded.
func (s *Service) Get(ctx context.Context, id string) (Row, error) {
	var row Row
	err := s.db.WithContext(ctx).
		Preload("Cells.Property").
		Where("id = ?", id).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Row{}, newServiceError(opGetRow, "not_found", ErrRowNotFound)
	}
	if err != nil {
		s.logError(opGetRow, "query_failed", err, zap.String("row_id", id))
		return Row{}, newServiceError(opGetRow, "query_failed", err)
	}
	return row, nil
}

// Create inserts a row, optionally with initial cells, as one atomic unit.
// When order is nil the row is appended: the current row count is read inside
// the same transaction, so two concurrent appends cannot land on the same
// position. An explicit order is stored verbatim.
func (s *Service) Create(ctx context.Context, databaseID string, order *int, seeds []CellSeed) (Row, error) {
	id, err := s.idProvider.NewID()
	if err != nil {
		s.logError(opCreateRow, "id_generation_failed", err)
		return Row{}, newServiceError(opCreateRow, "id_generation_failed", err)
	}

	row := Row{ID: id, DatabaseID: databaseID}
	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if order != nil {
			row.Order = *order
		} else {
			var count int64
			if err := tx.Model(&Row{}).Where("database_id = ?", databaseID).Count(&count).Error; err != nil {
				return err
			}
			row.Order = int(count)
		}

		for _, seed := range seeds {
			row.Cells = append(row.Cells, Cell{
				RowID:      id,
				PropertyID: seed.PropertyID,
				ValueJSON:  seed.ValueJSON,
			})
		}

		return tx.Create(&row).Error
	})
	if txErr != nil {
		s.logError(opCreateRow, "insert_failed", txErr, zap.String("database_id", databaseID))
		return Row{}, newServiceError(opCreateRow, "insert_failed", txErr)
	}

	return s.Get(ctx, id)
}

// UpdateOrder reassigns a single row's order without touching its siblings.
func (s *Service) UpdateOrder(ctx context.Context, id string, order int) (Row, error) {
	result := s.db.WithContext(ctx).Model(&Row{}).Where("id = ?", id).Update("position", order)
	if result.Error != nil {
		s.logError(opUpdateOrder, "update_failed", result.Error, zap.String("row_id", id))
		return Row{}, newServiceError(opUpdateOrder, "update_failed", result.Error)
	}
	if result.RowsAffected == 0 {
		return Row{}, newServiceError(opUpdateOrder, "not_found", ErrRowNotFound)
	}
	return s.Get(ctx, id)
}

// Reorder assigns order = index for every id at its position in the list, as
// one all-or-nothing transaction. If any id does not resolve to exactly one
// row the whole transaction rolls back and no order changes apply; readers
// never observe a partial reorder.
func (s *Service) Reorder(ctx context.Context, orderedIDs []string) error {
	if len(orderedIDs) == 0 {
		return newServiceError(opReorderRows, "empty_list", ErrEmptyReorder)
	}

	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for index, id := range orderedIDs {
			result := tx.Model(&Row{}).Where("id = ?", id).Update("position", index)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected != 1 {
				return fmt.Errorf("%w: %s", ErrRowNotFound, id)
			}
		}
		return nil
	})
	if txErr != nil {
		if errors.Is(txErr, ErrRowNotFound) {
			return newServiceError(opReorderRows, "row_not_found", txErr)
		}
		s.logError(opReorderRows, "transaction_failed", txErr)
		return newServiceError(opReorderRows, "transaction_failed", txErr)
	}
	return nil
}

// Delete removes a row. Its cells go with it through the cascading foreign key.
func (s *Service) Delete(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&Row{})
	if result.Error != nil {
		s.logError(opDeleteRow, "delete_failed", result.Error, zap.String("row_id", id))
		return newServiceError(opDeleteRow, "delete_failed", result.Error)
	}
	if result.RowsAffected == 0 {
		return newServiceError(opDeleteRow, "not_found", ErrRowNotFound)
	}
	return nil
}

// UpsertCell writes the value for (rowID, propertyID) as a single conditional
// insert-or-update on the composite key. Racing upserts to the same pair
// converge on one cell with the last committed value.
func (s *Service) UpsertCell(ctx context.Context, rowID, propertyID string, valueJSON *string) (Cell, error) {
	cell := Cell{RowID: rowID, PropertyID: propertyID, ValueJSON: valueJSON}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "row_id"}, {Name: "property_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"value_json", "updated_at"}),
		}).
		Create(&cell).Error
	if err != nil {
		s.logError(opUpsertCell, "upsert_failed", err,
			zap.String("row_id", rowID),
			zap.String("property_id", propertyID))
		return Cell{}, newServiceError(opUpsertCell, "upsert_failed", err)
	}

	var stored Cell
	err = s.db.WithContext(ctx).
		Preload("Property").
		Where("row_id = ? AND property_id = ?", rowID, propertyID).
		Take(&stored).Error
	if err != nil {
		s.logError(opUpsertCell, "reload_failed", err,
			zap.String("row_id", rowID),
			zap.String("property_id", propertyID))
		return Cell{}, newServiceError(opUpsertCell, "reload_failed", err)
	}
	return stored, nil
}

// DeleteCell removes the cell for (rowID, propertyID). Deleting an absent
// cell is a no-op, matching the sparse contract where absence means null.
func (s *Service) DeleteCell(ctx context.Context, rowID, propertyID string) error {
	err := s.db.WithContext(ctx).
		Where("row_id = ? AND property_id = ?", rowID, propertyID).
		Delete(&Cell{}).Error
	if err != nil {
		s.logError(opDeleteCell, "delete_failed", err,
			zap.String("row_id", rowID),
			zap.String("property_id", propertyID))
		return newServiceError(opDeleteCell, "delete_failed", err)
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
	s.logger.Error("rows service error", attrs...)
}
