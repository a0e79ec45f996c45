package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"git.solsynth.dev/hypernet/telemed/pkg/internal/models"
)

var (
	ErrNotFound = errors.New("store: not found")
	ErrStorage  = errors.New("store: storage unavailable")
)

func storageError(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrStorage, op, err)
}

// Store persists room records and the credentials issued under them.
type Store interface {
	// GetRoom returns ErrNotFound when no room is open for the event.
	GetRoom(ctx context.Context, id models.EventID) (models.Room, error)
	// CreateRoomIfAbsent inserts the room unless one already exists for the
	// event. The stored record is returned either way; created reports
	// whether this call inserted it.
	CreateRoomIfAbsent(ctx context.Context, room models.Room) (stored models.Room, created bool, err error)
	// DeleteRoom removes the room and every credential under its event id
	// in one step. Deleting a missing room reports false with no error.
	DeleteRoom(ctx context.Context, id models.EventID) (bool, error)
	// SaveCredential stores the credential, replacing the previous one
	// issued to the same user for the same event.
	SaveCredential(ctx context.Context, credential models.Credential) error
	ListCredentials(ctx context.Context, id models.EventID) ([]models.Credential, error)
	PurgeExpiredCredentials(ctx context.Context, before time.Time) (int64, error)
}
