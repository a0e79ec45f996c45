package store

import (
	"context"
	"errors"
	"time"

	"git.solsynth.dev/hypernet/telemed/pkg/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (v *GormStore) GetRoom(ctx context.Context, id models.EventID) (models.Room, error) {
	var room models.Room
	if err := v.db.WithContext(ctx).
		Where("event_id = ?", id).
		First(&room).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return room, ErrNotFound
		}
		return room, storageError("get room", err)
	}
	return room, nil
}

func (v *GormStore) CreateRoomIfAbsent(ctx context.Context, room models.Room) (models.Room, bool, error) {
	tx := v.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "event_id"}},
			DoNothing: true,
		}).
		Create(&room)
	if tx.Error != nil {
		return room, false, storageError("create room", tx.Error)
	}
	if tx.RowsAffected > 0 {
		return room, true, nil
	}

	// Lost the insert to another writer, hand back what it stored.
	stored, err := v.GetRoom(ctx, room.EventID)
	if errors.Is(err, ErrNotFound) {
		return stored, false, storageError("create room", errors.New("conflicting room vanished before it could be read"))
	}
	return stored, false, err
}

func (v *GormStore) DeleteRoom(ctx context.Context, id models.EventID) (bool, error) {
	var deleted bool
	err := v.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("event_id = ?", id).Delete(&models.Credential{}).Error; err != nil {
			return err
		}
		res := tx.Where("event_id = ?", id).Delete(&models.Room{})
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected > 0
		return nil
	})
	if err != nil {
		return false, storageError("delete room", err)
	}
	return deleted, nil
}

func (v *GormStore) SaveCredential(ctx context.Context, credential models.Credential) error {
	if err := v.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "event_id"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"token", "role", "expires_at", "created_at"}),
		}).
		Create(&credential).Error; err != nil {
		return storageError("save credential", err)
	}
	return nil
}

func (v *GormStore) ListCredentials(ctx context.Context, id models.EventID) ([]models.Credential, error) {
	var credentials []models.Credential
	if err := v.db.WithContext(ctx).
		Where("event_id = ?", id).
		Order("created_at DESC").
		Find(&credentials).Error; err != nil {
		return credentials, storageError("list credentials", err)
	}
	return credentials, nil
}

func (v *GormStore) PurgeExpiredCredentials(ctx context.Context, before time.Time) (int64, error) {
	tx := v.db.WithContext(ctx).Delete(&models.Credential{}, "expires_at < ?", before)
	if tx.Error != nil {
		return 0, storageError("purge credentials", tx.Error)
	}
	return tx.RowsAffected, nil
}
