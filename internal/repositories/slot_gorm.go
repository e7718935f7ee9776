package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StorageSlot is one named snapshot row.
type StorageSlot struct {
	Name      string `gorm:"primaryKey;type:varchar(100)"`
	Payload   []byte
	UpdatedAt time.Time
}

// GORMSlotStore is a GORM implementation of SlotStore.
type GORMSlotStore struct {
	db   *gorm.DB
	name string
}

// NewGORMSlotStore creates a new instance of GORMSlotStore.
// An empty name falls back to DefaultSlot.
func NewGORMSlotStore(db *gorm.DB, name string) *GORMSlotStore {
	if name == "" {
		name = DefaultSlot
	}
	return &GORMSlotStore{
		db:   db,
		name: name,
	}
}

// Load reads the snapshot row.
func (s *GORMSlotStore) Load(ctx context.Context) ([]byte, error) {
	var slot StorageSlot
	if err := s.db.WithContext(ctx).First(&slot, "name = ?", s.name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSlotEmpty
		}
		return nil, fmt.Errorf("failed to load slot %s: %w", s.name, err)
	}
	return slot.Payload, nil
}

// Save upserts the snapshot row.
func (s *GORMSlotStore) Save(ctx context.Context, data []byte) error {
	slot := StorageSlot{
		Name:      s.name,
		Payload:   data,
		UpdatedAt: time.Now().UTC(),
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
	}).Create(&slot).Error
	if err != nil {
		return fmt.Errorf("failed to save slot %s: %w", s.name, err)
	}
	return nil
}
