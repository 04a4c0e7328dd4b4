package databases

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"github.com/nexum-labs/nexum/backend/internal/properties"
	"github.com/nexum-labs/nexum/backend/internal/rows"
	"gorm.io/gorm"
)

type seqIDProvider struct {
	next int
}

func (p *seqIDProvider) NewID() (string, error) {
	p.next++
	return fmt.Sprintf("id-%d", p.next), nil
}

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:databases_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open in-memory database: %v", err)
	}
	if err := db.AutoMigrate(&Database{}, &properties.Property{}, &rows.Row{}, &rows.Cell{}); err != nil {
		t.Fatalf("failed to migrate schema: %v", err)
	}

	service, err := NewService(ServiceConfig{
		Database:   db,
		IDProvider: &seqIDProvider{},
	})
	if err != nil {
		t.Fatalf("failed to construct service: %v", err)
	}
	return service, db
}

func TestCreateBlankDatabase(t *testing.T) {
	service, _ := newTestService(t)

	detail, err := service.Create(context.Background(), "  Tasks  ", "project-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if detail.Database.Name != "Tasks" {
		t.Fatalf("expected trimmed name, got %q", detail.Database.Name)
	}
	if detail.Database.ViewType != ViewTypeTable {
		t.Fatalf("blank database should default to TABLE, got %s", detail.Database.ViewType)
	}
	if len(detail.Properties) != 0 || detail.RowCount != 0 {
		t.Fatalf("blank database should start empty, got %#v", detail)
	}
}

func TestCreateRejectsEmptyName(t *testing.T) {
	service, _ := newTestService(t)

	_, err := service.Create(context.Background(), "  ", "project-1")
	if !errors.Is(err, ErrNameRequired) {
		t.Fatalf("expected ErrNameRequired, got %v", err)
	}
}

func TestCreateFromTemplateSeedsFullSchema(t *testing.T) {
	service, _ := newTestService(t)

	detail, err := service.CreateFromTemplate(context.Background(), "Sprint Board", "project-1", "todo-kanban")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if detail.Database.ViewType != ViewTypeBoard {
		t.Fatalf("todo-kanban should default to BOARD, got %s", detail.Database.ViewType)
	}
	if len(detail.Properties) != 5 {
		t.Fatalf("expected 5 seeded properties, got %d", len(detail.Properties))
	}

	wantNames := []string{"Title", "Status", "Priority", "Start Date", "End Date"}
	wantTypes := []properties.PropertyType{
		properties.TypeText,
		properties.TypeSelect,
		properties.TypeSelect,
		properties.TypeDate,
		properties.TypeDate,
	}
	for index, property := range detail.Properties {
		if property.Name != wantNames[index] || property.Type != wantTypes[index] {
			t.Fatalf("property %d: expected %s/%s, got %s/%s",
				index, wantNames[index], wantTypes[index], property.Name, property.Type)
		}
		if property.Order != index {
			t.Fatalf("property %s: expected order %d, got %d", property.Name, index, property.Order)
		}
	}

	status := detail.Properties[1]
	options := status.SelectOptions()
	if len(options) != 3 || options[0] != "Todo" || options[1] != "In Progress" || options[2] != "Done" {
		t.Fatalf("unexpected status options: %v", options)
	}
}

func TestCreateFromTemplateUnknownTemplate(t *testing.T) {
	service, db := newTestService(t)

	_, err := service.CreateFromTemplate(context.Background(), "Board", "project-1", "missing-template")
	if !errors.Is(err, ErrTemplateNotFound) {
		t.Fatalf("expected ErrTemplateNotFound, got %v", err)
	}

	var count int64
	if err := db.Model(&Database{}).Count(&count).Error; err != nil {
		t.Fatalf("failed to count databases: %v", err)
	}
	if count != 0 {
		t.Fatalf("no database should exist after a failed instantiation, got %d", count)
	}
}

func TestListTemplatesCatalog(t *testing.T) {
	templates := ListTemplates()
	if len(templates) == 0 {
		t.Fatalf("expected at least one template")
	}

	found := false
	for _, template := range templates {
		if template.ID == "todo-kanban" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected todo-kanban in the catalog")
	}
}

func TestGetReportsRowCount(t *testing.T) {
	service, db := newTestService(t)
	ctx := context.Background()

	detail, err := service.Create(ctx, "Tasks", "project-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := 0; i < 3; i++ {
		row := rows.Row{ID: fmt.Sprintf("row-%d", i), DatabaseID: detail.Database.ID, Order: i}
		if err := db.Create(&row).Error; err != nil {
			t.Fatalf("failed to create row: %v", err)
		}
	}

	reloaded, err := service.Get(ctx, detail.Database.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reloaded.RowCount != 3 {
		t.Fatalf("expected row count 3, got %d", reloaded.RowCount)
	}
}

func TestGetNotFound(t *testing.T) {
	service, _ := newTestService(t)

	_, err := service.Get(context.Background(), "missing-db")
	if !errors.Is(err, ErrDatabaseNotFound) {
		t.Fatalf("expected ErrDatabaseNotFound, got %v", err)
	}
}

func TestRenameDatabase(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	detail, err := service.Create(ctx, "Old", "project-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	renamed, err := service.Rename(ctx, detail.Database.ID, " New ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if renamed.Name != "New" {
		t.Fatalf("expected trimmed rename, got %q", renamed.Name)
	}
}

func TestSetViewType(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	detail, err := service.Create(ctx, "Tasks", "project-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	updated, err := service.SetViewType(ctx, detail.Database.ID, ViewTypeBoard)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.ViewType != ViewTypeBoard {
		t.Fatalf("expected BOARD, got %s", updated.ViewType)
	}

	if _, err := service.SetViewType(ctx, detail.Database.ID, "CALENDAR"); !errors.Is(err, ErrInvalidViewType) {
		t.Fatalf("expected ErrInvalidViewType, got %v", err)
	}
}

func TestDeleteNotFound(t *testing.T) {
	service, _ := newTestService(t)

	err := service.Delete(context.Background(), "missing-db")
	if !errors.Is(err, ErrDatabaseNotFound) {
		t.Fatalf("expected ErrDatabaseNotFound, got %v", err)
	}
}
