package services

import (
	"context"
	"time"

	"git.solsynth.dev/hypernet/telemed/pkg/internal/config"
	"git.solsynth.dev/hypernet/telemed/pkg/internal/models"
	lksdk "github.com/livekit/server-sdk-go"
	"github.com/rs/zerolog/log"
)

// Provider is the video backend a room lives on.
type Provider interface {
	Name() string
	// Domain is the signaling domain clients connect to. It is empty while
	// the provider is missing configuration it needs to issue tokens.
	Domain() string
	// CreateRoom and EndRoom mirror the room record on the backend. Backends
	// without a room API treat both as no-ops.
	CreateRoom(ctx context.Context, room models.Room) error
	EndRoom(ctx context.Context, room models.Room) error
	MintCredential(room models.Room, user string, role models.Role) (models.Credential, error)
	BuildJoinPayload(room models.Room, credential models.Credential) models.JoinData
}

// NewProvider picks the backend once at startup. Unknown names fall back to Jitsi.
func NewProvider(settings config.Settings, now func() time.Time) Provider {
	if now == nil {
		now = time.Now
	}

	switch settings.Provider {
	case config.ProviderLiveKit:
		client := lksdk.NewRoomServiceClient("https://"+settings.Domain, settings.APIKey, settings.Secret)
		return NewLiveKitProvider(settings, client, now)
	case config.ProviderJitsi, "":
	default:
		log.Warn().Str("provider", settings.Provider).Msg("Unknown calling provider, falling back to jitsi...")
	}
	return NewJitsiProvider(settings, NewIssuer(settings.AppID, now))
}
