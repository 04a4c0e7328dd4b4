package storage

import (
	"errors"
	"time"

	"github.com/nexum-labs/nexum/backend/internal/databases"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const migrationBackfillViewType = "2026-07-18_backfill_database_view_type"

type migrationRecord struct {
	Name             string `gorm:"column:name;primaryKey;size:190;not null"`
	AppliedAtSeconds int64  `gorm:"column:applied_at_s;not null"`
}

func (migrationRecord) TableName() string {
	return "db_migrations"
}

type migrationDefinition struct {
	name  string
	apply func(*gorm.DB) error
}

func applyMigrations(db *gorm.DB, logger *zap.Logger) error {
	migrations := []migrationDefinition{
		{name: migrationBackfillViewType, apply: backfillDatabaseViewType},
	}

	for _, migration := range migrations {
		var record migrationRecord
		err := db.Where("name = ?", migration.name).Take(&record).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := migration.apply(db); err != nil {
			return err
		}
		appliedAt := time.Now().UTC().Unix()
		if err := db.Create(&migrationRecord{Name: migration.name, AppliedAtSeconds: appliedAt}).Error; err != nil {
			return err
		}
		if logger != nil {
			logger.Info("database migration applied", zap.String("migration", migration.name))
		}
	}
	return nil
}

// backfillDatabaseViewType repairs rows created before view_type carried a
// default.
func backfillDatabaseViewType(db *gorm.DB) error {
	return db.Model(&databases.Database{}).
		Where("view_type IS NULL OR view_type = ''").
		Update("view_type", databases.ViewTypeTable).Error
}
