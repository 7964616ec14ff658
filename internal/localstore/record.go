package localstore

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Record is one persisted key-value row of the client-local store.
type Record struct {
	Key       string    `gorm:"column:key;primaryKey;size:190;not null"`
	Value     string    `gorm:"column:value;type:text;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

// TableName provides the explicit table binding for GORM.
func (Record) TableName() string {
	return "client_state"
}

type gormKV struct {
	db *gorm.DB
}

// NewGormKV wraps an open database handle as a KV. The schema is expected
// to be migrated by the database package.
func NewGormKV(db *gorm.DB) (KV, error) {
	if db == nil {
		return nil, errors.New("localstore: database handle is required")
	}
	return &gormKV{db: db}, nil
}

func (g *gormKV) Get(key string) (string, bool, error) {
	var record Record
	err := g.db.Where("key = ?", key).Take(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return record.Value, true, nil
}

func (g *gormKV) Set(key, value string) error {
	record := Record{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	return g.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&record).Error
}

func (g *gormKV) Delete(key string) error {
	return g.db.Where("key = ?", key).Delete(&Record{}).Error
}
