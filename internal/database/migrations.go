package database

import (
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const migrationTrimNotificationOverflow = "2026-07-02_trim_notification_overflow"

const notificationCap = 50

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
		{name: migrationTrimNotificationOverflow, apply: trimNotificationOverflow},
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

// trimNotificationOverflow re-truncates notification queues written by
// builds that enforced the cap only on display, not on write.
func trimNotificationOverflow(db *gorm.DB) error {
	const key = "cl_notifications"

	var row struct {
		Value string
	}
	err := db.Table("client_state").Select("value").Where("key = ?", key).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	var queue []json.RawMessage
	if err := json.Unmarshal([]byte(row.Value), &queue); err != nil {
		// Corrupt slot reads as empty downstream; nothing to repair.
		return nil
	}
	if len(queue) <= notificationCap {
		return nil
	}
	trimmed, err := json.Marshal(queue[:notificationCap])
	if err != nil {
		return err
	}
	return db.Table("client_state").Where("key = ?", key).
		Update("value", string(trimmed)).Error
}
