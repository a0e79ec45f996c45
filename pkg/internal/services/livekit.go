package services

import (
	"context"
	"time"

	"git.solsynth.dev/hypernet/telemed/pkg/internal/config"
	"git.solsynth.dev/hypernet/telemed/pkg/internal/models"
	jsoniter "github.com/json-iterator/go"
	"github.com/livekit/protocol/auth"
	"github.com/livekit/protocol/livekit"
)

// LiveKitRoomService is the part of the LiveKit room API the provider calls.
type LiveKitRoomService interface {
	CreateRoom(ctx context.Context, req *livekit.CreateRoomRequest) (*livekit.Room, error)
	DeleteRoom(ctx context.Context, req *livekit.DeleteRoomRequest) (*livekit.DeleteRoomResponse, error)
}

type LiveKitProvider struct {
	settings config.Settings
	client   LiveKitRoomService
	now      func() time.Time
}

func NewLiveKitProvider(settings config.Settings, client LiveKitRoomService, now func() time.Time) *LiveKitProvider {
	return &LiveKitProvider{settings: settings, client: client, now: now}
}

func (v *LiveKitProvider) Name() string { return config.ProviderLiveKit }

// Domain stays empty until the api key pair is set as well, tokens cannot
// be signed without it.
func (v *LiveKitProvider) Domain() string {
	if v.settings.APIKey == "" || v.settings.Secret == "" {
		return ""
	}
	return v.settings.Domain
}

func (v *LiveKitProvider) CreateRoom(ctx context.Context, room models.Room) error {
	_, err := v.client.CreateRoom(ctx, &livekit.CreateRoomRequest{
		Name:            room.RoomName,
		EmptyTimeout:    v.settings.EmptyTimeout,
		MaxParticipants: v.settings.MaxParticipants,
	})
	return err
}

func (v *LiveKitProvider) EndRoom(ctx context.Context, room models.Room) error {
	_, err := v.client.DeleteRoom(ctx, &livekit.DeleteRoomRequest{
		Room: room.RoomName,
	})
	return err
}

func (v *LiveKitProvider) MintCredential(room models.Room, user string, role models.Role) (models.Credential, error) {
	issuedAt := v.now()
	ttl := TokenTTL(v.settings.TokenTTL)
	credential := models.Credential{
		EventID:   room.EventID,
		UserID:    user,
		Role:      models.NormalizeRole(role),
		ExpiresAt: issuedAt.Add(ttl),
		CreatedAt: issuedAt,
	}

	grant := &auth.VideoGrant{
		Room:      room.RoomName,
		RoomJoin:  true,
		RoomAdmin: credential.Role == models.RoleDoctor,
	}

	metadata, err := jsoniter.Marshal(map[string]any{
		"event_id": room.EventID,
		"user_id":  user,
		"role":     credential.Role,
	})
	if err != nil {
		return credential, err
	}

	tk := auth.NewAccessToken(v.settings.APIKey, v.settings.Secret)
	tk.AddGrant(grant).
		SetIdentity(user).
		SetName(user).
		SetMetadata(string(metadata)).
		SetValidFor(ttl)

	token, err := tk.ToJWT()
	if err != nil {
		return credential, err
	}
	credential.Token = token
	return credential, nil
}

func (v *LiveKitProvider) BuildJoinPayload(room models.Room, credential models.Credential) models.JoinData {
	return models.JoinData{
		RoomName:  room.RoomName,
		Domain:    v.settings.Domain,
		Token:     credential.Token,
		ExpiresAt: credential.ExpiresAt,
	}
}
