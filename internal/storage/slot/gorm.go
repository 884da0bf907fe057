package slot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// Entry is one named slot row.
type Entry struct {
	Name      string `gorm:"primaryKey;size:64"`
	Value     string `gorm:"type:text"`
	UpdatedAt time.Time
}

// TableName keeps the table name stable regardless of naming strategy.
func (Entry) TableName() string { return "slots" }

// Gorm keeps the slot in a key/value table.
type Gorm struct {
	db  *gorm.DB
	key string
}

var _ Store = (*Gorm)(nil)

// OpenSQLite opens (or creates) a SQLite database for slot storage.
func OpenSQLite(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("slot: open sqlite %s: %w", path, err)
	}
	return db, nil
}

// NewGorm migrates the slots table and returns a slot bound to key.
func NewGorm(db *gorm.DB, key string) (*Gorm, error) {
	if db == nil {
		return nil, fmt.Errorf("slot: db is required")
	}
	if key == "" {
		key = DefaultKey
	}
	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, fmt.Errorf("slot: auto-migrate: %w", err)
	}
	return &Gorm{db: db, key: key}, nil
}

// Load returns the stored value, or nil when the key has never been saved.
func (g *Gorm) Load(ctx context.Context) ([]byte, error) {
	var e Entry
	err := g.db.WithContext(ctx).Where("name = ?", g.key).First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("slot: load %q: %w", g.key, err)
	}
	return []byte(e.Value), nil
}

// Save upserts the value.
func (g *Gorm) Save(ctx context.Context, data []byte) error {
	e := Entry{Name: g.key, Value: string(data), UpdatedAt: time.Now()}
	result := g.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&e)
	if result.Error != nil {
		return fmt.Errorf("slot: save %q: %w", g.key, result.Error)
	}
	return nil
}
