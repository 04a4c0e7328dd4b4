package storage

import (
	"path/filepath"
	"testing"

	"github.com/nexum-labs/nexum/backend/internal/databases"
	"github.com/nexum-labs/nexum/backend/internal/documents"
	"github.com/nexum-labs/nexum/backend/internal/projects"
	"github.com/nexum-labs/nexum/backend/internal/properties"
	"github.com/nexum-labs/nexum/backend/internal/rows"
	"gorm.io/gorm"
)

func openTestDatabase(t *testing.T) *gorm.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "workspace.db")
	db, err := OpenSQLite(path, nil)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	return db
}

func TestOpenSQLiteRequiresPath(t *testing.T) {
	if _, err := OpenSQLite("", nil); err == nil {
		t.Fatalf("expected an error for an empty path")
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	db := openTestDatabase(t)

	// OpenSQLite already migrated once; a second pass must not reapply.
	if err := Migrate(db, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var count int64
	if err := db.Model(&migrationRecord{}).Where("name = ?", migrationBackfillViewType).Count(&count).Error; err != nil {
		t.Fatalf("failed to count migration records: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected one record for %s, got %d", migrationBackfillViewType, count)
	}
}

func TestBackfillDatabaseViewType(t *testing.T) {
	db := openTestDatabase(t)

	project := projects.Project{ID: "project-1", Name: "Work"}
	if err := db.Create(&project).Error; err != nil {
		t.Fatalf("failed to create project: %v", err)
	}
	if err := db.Exec(
		"INSERT INTO databases (id, name, project_id, view_type) VALUES (?, ?, ?, '')",
		"db-legacy", "Legacy", project.ID,
	).Error; err != nil {
		t.Fatalf("failed to insert legacy database: %v", err)
	}

	if err := backfillDatabaseViewType(db); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var repaired databases.Database
	if err := db.Where("id = ?", "db-legacy").Take(&repaired).Error; err != nil {
		t.Fatalf("failed to reload database: %v", err)
	}
	if repaired.ViewType != databases.ViewTypeTable {
		t.Fatalf("expected TABLE after backfill, got %q", repaired.ViewType)
	}
}

func TestProjectDeleteCascades(t *testing.T) {
	db := openTestDatabase(t)

	project := projects.Project{ID: "project-1", Name: "Work"}
	if err := db.Create(&project).Error; err != nil {
		t.Fatalf("failed to create project: %v", err)
	}
	document := documents.Document{ID: "doc-1", Title: "Notes", ProjectID: project.ID}
	if err := db.Create(&document).Error; err != nil {
		t.Fatalf("failed to create document: %v", err)
	}
	database := databases.Database{ID: "db-1", Name: "Tasks", ProjectID: project.ID, ViewType: databases.ViewTypeTable}
	if err := db.Create(&database).Error; err != nil {
		t.Fatalf("failed to create database: %v", err)
	}
	property := properties.Property{ID: "prop-1", DatabaseID: database.ID, Name: "Title", Type: properties.TypeText}
	if err := db.Create(&property).Error; err != nil {
		t.Fatalf("failed to create property: %v", err)
	}
	row := rows.Row{ID: "row-1", DatabaseID: database.ID}
	if err := db.Create(&row).Error; err != nil {
		t.Fatalf("failed to create row: %v", err)
	}
	value := `"hello"`
	cell := rows.Cell{RowID: row.ID, PropertyID: property.ID, ValueJSON: &value}
	if err := db.Create(&cell).Error; err != nil {
		t.Fatalf("failed to create cell: %v", err)
	}

	if err := db.Where("id = ?", project.ID).Delete(&projects.Project{}).Error; err != nil {
		t.Fatalf("failed to delete project: %v", err)
	}

	counts := map[string]any{
		"documents":  &documents.Document{},
		"databases":  &databases.Database{},
		"properties": &properties.Property{},
		"rows":       &rows.Row{},
		"cells":      &rows.Cell{},
	}
	for table, model := range counts {
		var count int64
		if err := db.Model(model).Count(&count).Error; err != nil {
			t.Fatalf("failed to count %s: %v", table, err)
		}
		if count != 0 {
			t.Fatalf("expected %s to cascade away, %d left", table, count)
		}
	}
}

func TestPropertyDeleteCascadesToCells(t *testing.T) {
	db := openTestDatabase(t)

	project := projects.Project{ID: "project-1", Name: "Work"}
	if err := db.Create(&project).Error; err != nil {
		t.Fatalf("failed to create project: %v", err)
	}
	database := databases.Database{ID: "db-1", Name: "Tasks", ProjectID: project.ID, ViewType: databases.ViewTypeTable}
	if err := db.Create(&database).Error; err != nil {
		t.Fatalf("failed to create database: %v", err)
	}
	property := properties.Property{ID: "prop-1", DatabaseID: database.ID, Name: "Status", Type: properties.TypeSelect}
	if err := db.Create(&property).Error; err != nil {
		t.Fatalf("failed to create property: %v", err)
	}
	row := rows.Row{ID: "row-1", DatabaseID: database.ID}
	if err := db.Create(&row).Error; err != nil {
		t.Fatalf("failed to create row: %v", err)
	}
	value := `"Todo"`
	cell := rows.Cell{RowID: row.ID, PropertyID: property.ID, ValueJSON: &value}
	if err := db.Create(&cell).Error; err != nil {
		t.Fatalf("failed to create cell: %v", err)
	}

	if err := db.Where("id = ?", property.ID).Delete(&properties.Property{}).Error; err != nil {
		t.Fatalf("failed to delete property: %v", err)
	}

	var cellCount int64
	if err := db.Model(&rows.Cell{}).Count(&cellCount).Error; err != nil {
		t.Fatalf("failed to count cells: %v", err)
	}
	if cellCount != 0 {
		t.Fatalf("expected the orphaned cell to cascade away, %d left", cellCount)
	}

	var rowCount int64
	if err := db.Model(&rows.Row{}).Count(&rowCount).Error; err != nil {
		t.Fatalf("failed to count rows: %v", err)
	}
	if rowCount != 1 {
		t.Fatalf("the row itself must survive a property delete, got %d", rowCount)
	}
}
