package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"git.solsynth.dev/hypernet/telemed/pkg/internal/config"
	"git.solsynth.dev/hypernet/telemed/pkg/internal/models"
	"git.solsynth.dev/hypernet/telemed/pkg/internal/store"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

var (
	// ErrAbsent is matched by every reason GetJoinData has no join data to give.
	ErrAbsent        = errors.New("join data absent")
	ErrRoomNotFound  = fmt.Errorf("%w: no room is open for this appointment", ErrAbsent)
	ErrNotConfigured = fmt.Errorf("%w: calling provider is not configured", ErrAbsent)
)

// RoomManager owns the room lifecycle of every appointment.
type RoomManager struct {
	store    store.Store
	provider Provider
	settings config.Settings
	locks    *eventLocks
	now      func() time.Time
}

func NewRoomManager(s store.Store, provider Provider, settings config.Settings, now func() time.Time) *RoomManager {
	if now == nil {
		now = time.Now
	}
	return &RoomManager{
		store:    s,
		provider: provider,
		settings: settings,
		locks:    newEventLocks(),
		now:      now,
	}
}

func (v *RoomManager) Provider() Provider {
	return v.provider
}

func (v *RoomManager) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if v.settings.StorageTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, v.settings.StorageTimeout)
}

func (v *RoomManager) newRoomName(id models.EventID) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("%s-%s-%s", v.settings.RoomPrefix, id, suffix)
}

func (v *RoomManager) GetRoom(ctx context.Context, id models.EventID) (models.Room, error) {
	ctx, cancel := v.withTimeout(ctx)
	defer cancel()
	return v.store.GetRoom(ctx, id)
}

// CreateRoom opens the room for an appointment. When one is already open it
// is returned untouched, repeated deliveries of the same event land here.
func (v *RoomManager) CreateRoom(ctx context.Context, id models.EventID, opts models.RoomOptions) (models.Room, error) {
	id = models.EventID(id.String())
	unlock := v.locks.Lock(id.String())
	defer unlock()

	ctx, cancel := v.withTimeout(ctx)
	defer cancel()

	if room, err := v.store.GetRoom(ctx, id); err == nil {
		return room, nil
	} else if !errors.Is(err, store.ErrNotFound) {
		return room, err
	}

	room := models.Room{
		EventID:   id,
		RoomName:  v.newRoomName(id),
		CreatedAt: v.now(),
		Options:   opts.Metadata,
	}
	if opts.CreatedBy != "" {
		room.CreatedBy = lo.ToPtr(opts.CreatedBy)
	}

	room, created, err := v.store.CreateRoomIfAbsent(ctx, room)
	if err != nil {
		return room, err
	} else if !created {
		return room, nil
	}

	// Backends that need no pre-created room still accept joins, so a remote
	// failure is logged rather than failing the booking.
	if err := v.provider.CreateRoom(ctx, room); err != nil {
		log.Error().Err(err).Str("event", id.String()).Str("room", room.RoomName).
			Msg("Unable to create room at provider side...")
	}

	log.Info().Str("event", id.String()).Str("room", room.RoomName).Msg("Video room created.")
	return room, nil
}

// EndRoom closes the room and drops every credential issued under it.
// Ending a room that is not open reports false and no error.
func (v *RoomManager) EndRoom(ctx context.Context, id models.EventID) (bool, error) {
	id = models.EventID(id.String())
	unlock := v.locks.Lock(id.String())
	defer unlock()

	ctx, cancel := v.withTimeout(ctx)
	defer cancel()

	room, err := v.store.GetRoom(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	} else if err != nil {
		return false, err
	}

	deleted, err := v.store.DeleteRoom(ctx, id)
	if err != nil {
		return false, err
	}

	if err := v.provider.EndRoom(ctx, room); err != nil {
		log.Error().Err(err).Str("event", id.String()).Str("room", room.RoomName).
			Msg("Unable to delete room at provider side...")
	}

	if deleted {
		log.Info().Str("event", id.String()).Str("room", room.RoomName).Msg("Video room ended.")
	}
	return deleted, nil
}

// GetJoinData mints a fresh credential for a user of an open room. It never
// opens the room itself; the result is ErrRoomNotFound or ErrNotConfigured
// when there is nothing to join.
func (v *RoomManager) GetJoinData(ctx context.Context, id models.EventID, user string, role models.Role) (models.JoinData, error) {
	id = models.EventID(id.String())
	unlock := v.locks.RLock(id.String())
	defer unlock()

	ctx, cancel := v.withTimeout(ctx)
	defer cancel()

	room, err := v.store.GetRoom(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return models.JoinData{}, ErrRoomNotFound
	} else if err != nil {
		return models.JoinData{}, err
	}

	if v.provider.Domain() == "" {
		log.Warn().Str("event", id.String()).Str("provider", v.provider.Name()).
			Msg("Join requested while calling provider is not configured...")
		return models.JoinData{}, ErrNotConfigured
	}

	credential, err := v.provider.MintCredential(room, user, role)
	if err != nil {
		return models.JoinData{}, fmt.Errorf("unable to issue join token: %v", err)
	}
	if err := v.store.SaveCredential(ctx, credential); err != nil {
		return models.JoinData{}, err
	}

	return v.provider.BuildJoinPayload(room, credential), nil
}

func (v *RoomManager) ListCredentials(ctx context.Context, id models.EventID) ([]models.Credential, error) {
	id = models.EventID(id.String())
	unlock := v.locks.RLock(id.String())
	defer unlock()

	ctx, cancel := v.withTimeout(ctx)
	defer cancel()
	return v.store.ListCredentials(ctx, id)
}
