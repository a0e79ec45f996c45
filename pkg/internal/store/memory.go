package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"git.solsynth.dev/hypernet/telemed/pkg/internal/models"
)

// MemoryStore keeps everything in process. It is used by the tests and by
// single node deployments that do not configure a database.
type MemoryStore struct {
	mu          sync.RWMutex
	rooms       map[models.EventID]models.Room
	credentials map[models.EventID]map[string]models.Credential
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		rooms:       make(map[models.EventID]models.Room),
		credentials: make(map[models.EventID]map[string]models.Credential),
	}
}

func (v *MemoryStore) GetRoom(ctx context.Context, id models.EventID) (models.Room, error) {
	if err := ctx.Err(); err != nil {
		return models.Room{}, storageError("get room", err)
	}
	v.mu.RLock()
	defer v.mu.RUnlock()
	room, ok := v.rooms[id]
	if !ok {
		return models.Room{}, ErrNotFound
	}
	return room, nil
}

func (v *MemoryStore) CreateRoomIfAbsent(ctx context.Context, room models.Room) (models.Room, bool, error) {
	if err := ctx.Err(); err != nil {
		return room, false, storageError("create room", err)
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	if stored, ok := v.rooms[room.EventID]; ok {
		return stored, false, nil
	}
	room.EventID = models.EventID(strings.Clone(string(room.EventID)))
	room.RoomName = strings.Clone(room.RoomName)
	v.rooms[room.EventID] = room
	return room, true, nil
}

func (v *MemoryStore) DeleteRoom(ctx context.Context, id models.EventID) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, storageError("delete room", err)
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	_, ok := v.rooms[id]
	delete(v.rooms, id)
	delete(v.credentials, id)
	return ok, nil
}

func (v *MemoryStore) SaveCredential(ctx context.Context, credential models.Credential) error {
	if err := ctx.Err(); err != nil {
		return storageError("save credential", err)
	}
	credential.EventID = models.EventID(strings.Clone(string(credential.EventID)))
	credential.UserID = strings.Clone(credential.UserID)
	v.mu.Lock()
	defer v.mu.Unlock()
	bucket, ok := v.credentials[credential.EventID]
	if !ok {
		bucket = make(map[string]models.Credential)
		v.credentials[credential.EventID] = bucket
	}
	bucket[credential.UserID] = credential
	return nil
}

func (v *MemoryStore) ListCredentials(ctx context.Context, id models.EventID) ([]models.Credential, error) {
	if err := ctx.Err(); err != nil {
		return nil, storageError("list credentials", err)
	}
	v.mu.RLock()
	defer v.mu.RUnlock()
	var credentials []models.Credential
	for _, item := range v.credentials[id] {
		credentials = append(credentials, item)
	}
	sort.Slice(credentials, func(i, j int) bool {
		return credentials[i].CreatedAt.After(credentials[j].CreatedAt)
	})
	return credentials, nil
}

func (v *MemoryStore) PurgeExpiredCredentials(ctx context.Context, before time.Time) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, storageError("purge credentials", err)
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	var count int64
	for id, bucket := range v.credentials {
		for user, item := range bucket {
			if item.ExpiresAt.Before(before) {
				delete(bucket, user)
				count++
			}
		}
		if len(bucket) == 0 {
			delete(v.credentials, id)
		}
	}
	return count, nil
}
