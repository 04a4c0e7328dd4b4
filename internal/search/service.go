package search

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/nexum-labs/nexum/backend/internal/databases"
	"github.com/nexum-labs/nexum/backend/internal/documents"
	"github.com/nexum-labs/nexum/backend/internal/projects"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const resultLimit = 10

var (
	errMissingDatabase = errors.New("database handle is required")
	noOpLogger         = zap.NewNop()
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
	opServiceNew = "search.service.new"
	opSearch     = "search.query"
)

func newServiceError(operation, reason string, cause error) error {
	code := fmt.Sprintf("%s.%s", operation, reason)
	return &ServiceError{code: code, err: cause}
}

// ServiceConfig bundles the dependencies for the search service.
type ServiceConfig struct {
	Database *gorm.DB
	Logger   *zap.Logger
}

// Service fans a substring query out across projects, databases and
// documents.
type Service struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewService validates the configuration and constructs a Service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Database == nil {
		return nil, newServiceError(opServiceNew, "missing_database", errMissingDatabase)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = noOpLogger
	}

	return &Service{db: cfg.Database, logger: logger}, nil
}

// Results groups the per-entity match lists.
type Results struct {
	Projects  []projects.Project
	Databases []databases.Database
	Documents []documents.Document
}

// Search runs three case-insensitive substring queries concurrently, each
// capped at ten results ordered by most recent update. An empty query
// short-circuits to empty lists without touching the store.
func (s *Service) Search(ctx context.Context, query string) (Results, error) {
	trimmed := strings.TrimSpace(query)
	results := Results{
		Projects:  []projects.Project{},
		Databases: []databases.Database{},
		Documents: []documents.Document{},
	}
	if trimmed == "" {
		return results, nil
	}

	pattern := "%" + trimmed + "%"
	var wg sync.WaitGroup
	errs := make([]error, 3)

	wg.Add(3)
	go func() {
		defer wg.Done()
		errs[0] = s.db.WithContext(ctx).
			Where("name LIKE ? COLLATE NOCASE", pattern).
			Order("updated_at DESC").
			Limit(resultLimit).
			Find(&results.Projects).Error
	}()
	go func() {
		defer wg.Done()
		errs[1] = s.db.WithContext(ctx).
			Where("name LIKE ? COLLATE NOCASE", pattern).
			Order("updated_at DESC").
			Limit(resultLimit).
			Find(&results.Databases).Error
	}()
	go func() {
		defer wg.Done()
		errs[2] = s.db.WithContext(ctx).
			Where("title LIKE ? COLLATE NOCASE", pattern).
			Order("updated_at DESC").
			Limit(resultLimit).
			Find(&results.Documents).Error
	}()
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			s.logError(opSearch, "query_failed", err)
			return Results{}, newServiceError(opSearch, "query_failed", err)
		}
	}
	return results, nil
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
	s.logger.Error("search service error", attrs...)
}
