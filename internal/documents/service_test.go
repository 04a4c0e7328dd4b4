package documents

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

type seqIDProvider struct {
	next int
}

func (p *seqIDProvider) NewID() (string, error) {
	p.next++
	return fmt.Sprintf("doc-%d", p.next), nil
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	dsn := fmt.Sprintf("file:documents_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open in-memory database: %v", err)
	}
	if err := db.AutoMigrate(&Document{}); err != nil {
		t.Fatalf("failed to migrate schema: %v", err)
	}

	service, err := NewService(ServiceConfig{
		Database:   db,
		IDProvider: &seqIDProvider{},
	})
	if err != nil {
		t.Fatalf("failed to construct service: %v", err)
	}
	return service
}

func stringPtr(value string) *string {
	return &value
}

func TestCreateTrimsTitle(t *testing.T) {
	service := newTestService(t)

	document, err := service.Create(context.Background(), "  Notes  ", "project-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if document.Title != "Notes" {
		t.Fatalf("expected trimmed title, got %q", document.Title)
	}
	if document.ContentJSON != "" {
		t.Fatalf("new document should start with empty content, got %q", document.ContentJSON)
	}
}

func TestCreateRejectsEmptyTitle(t *testing.T) {
	service := newTestService(t)

	_, err := service.Create(context.Background(), "   ", "project-1")
	if !errors.Is(err, ErrTitleRequired) {
		t.Fatalf("expected ErrTitleRequired, got %v", err)
	}
}

func TestListFiltersByProject(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()

	if _, err := service.Create(ctx, "First", "project-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := service.Create(ctx, "Second", "project-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := service.Create(ctx, "Elsewhere", "project-2"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	all, err := service.List(ctx, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 documents, got %d", len(all))
	}

	projectID := "project-1"
	filtered, err := service.List(ctx, &projectID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(filtered) != 2 {
		t.Fatalf("expected 2 documents in project-1, got %d", len(filtered))
	}
	for _, document := range filtered {
		if document.ProjectID != "project-1" {
			t.Fatalf("filtered listing leaked document %s", document.ID)
		}
	}
}

func TestGetNotFound(t *testing.T) {
	service := newTestService(t)

	_, err := service.Get(context.Background(), "missing-doc")
	if !errors.Is(err, ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}
}

func TestUpdateAppliesPartialFields(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()

	document, err := service.Create(ctx, "Draft", "project-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	content := `{"blocks":[{"type":"paragraph","text":"hello"}]}`
	updated, err := service.Update(ctx, document.ID, UpdateRequest{ContentJSON: &content})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.ContentJSON != content {
		t.Fatalf("expected updated content, got %q", updated.ContentJSON)
	}
	if updated.Title != "Draft" {
		t.Fatalf("title must survive a content-only update, got %q", updated.Title)
	}

	updated, err = service.Update(ctx, document.ID, UpdateRequest{Title: stringPtr(" Final ")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Title != "Final" {
		t.Fatalf("expected trimmed title, got %q", updated.Title)
	}
	if updated.ContentJSON != content {
		t.Fatalf("content must survive a title-only update, got %q", updated.ContentJSON)
	}
}

func TestUpdateRejectsEmptyTitle(t *testing.T) {
	service := newTestService(t)

	document, err := service.Create(context.Background(), "Draft", "project-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = service.Update(context.Background(), document.ID, UpdateRequest{Title: stringPtr("  ")})
	if !errors.Is(err, ErrTitleRequired) {
		t.Fatalf("expected ErrTitleRequired, got %v", err)
	}
}

func TestUpdateNotFound(t *testing.T) {
	service := newTestService(t)

	_, err := service.Update(context.Background(), "missing-doc", UpdateRequest{Title: stringPtr("New")})
	if !errors.Is(err, ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}
}

func TestDeleteIsFinal(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()

	document, err := service.Create(ctx, "Doomed", "project-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := service.Delete(ctx, document.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := service.Delete(ctx, document.ID); !errors.Is(err, ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound on repeat delete, got %v", err)
	}
}
