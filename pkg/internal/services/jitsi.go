package services

import (
	"context"

	"git.solsynth.dev/hypernet/telemed/pkg/internal/config"
	"git.solsynth.dev/hypernet/telemed/pkg/internal/models"
)

// JitsiProvider needs no server side room. Rooms spring into existence when
// the first participant joins, so only the tokens matter.
type JitsiProvider struct {
	settings config.Settings
	issuer   *Issuer
}

func NewJitsiProvider(settings config.Settings, issuer *Issuer) *JitsiProvider {
	return &JitsiProvider{settings: settings, issuer: issuer}
}

func (v *JitsiProvider) Name() string { return config.ProviderJitsi }

func (v *JitsiProvider) Domain() string { return v.settings.Domain }

func (v *JitsiProvider) CreateRoom(ctx context.Context, room models.Room) error { return nil }

func (v *JitsiProvider) EndRoom(ctx context.Context, room models.Room) error { return nil }

func (v *JitsiProvider) MintCredential(room models.Room, user string, role models.Role) (models.Credential, error) {
	credential, err := v.issuer.Mint(room.RoomName, user, role, v.settings.TokenTTL, v.settings.Secret)
	credential.EventID = room.EventID
	return credential, err
}

func (v *JitsiProvider) BuildJoinPayload(room models.Room, credential models.Credential) models.JoinData {
	return models.JoinData{
		RoomName:  room.RoomName,
		Domain:    v.settings.Domain,
		Token:     credential.Token,
		ExpiresAt: credential.ExpiresAt,
	}
}
