package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	ProviderJitsi   = "jitsi"
	ProviderLiveKit = "livekit"

	DefaultTokenTTL     = 10
	DefaultAccessWindow = 15
)

// Settings is the read-only view of the configuration consumed by the room services.
type Settings struct {
	Provider        string
	Domain          string
	Secret          string
	AppID           string
	APIKey          string
	TokenTTL        int
	AccessWindow    int
	RoomPrefix      string
	EmptyTimeout    uint32
	MaxParticipants uint32
	StorageTimeout  time.Duration
	Branding        Branding
}

type Branding struct {
	Title string `json:"title"`
	Logo  string `json:"logo"`
}

// SetDefaults registers the fallback values on a viper instance.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("bind", "0.0.0.0:8447")
	v.SetDefault("grpc_bind", "0.0.0.0:7447")
	v.SetDefault("database.prefix", "telemed_")
	v.SetDefault("database.timeout", "5s")
	v.SetDefault("calling.provider", ProviderJitsi)
	v.SetDefault("calling.app_id", "telemed")
	v.SetDefault("calling.token_ttl", DefaultTokenTTL)
	v.SetDefault("calling.access_window", DefaultAccessWindow)
	v.SetDefault("calling.room_prefix", "room")
	v.SetDefault("calling.empty_timeout_duration", 300)
	v.SetDefault("calling.max_participants", 4)
	v.SetDefault("branding.title", "Videoconsulta")
	v.SetDefault("cleanup.schedule", "@every 30m")
}

// Configure prepares viper the same way for the server and the tests:
// settings.toml looked up in the working directory and its parent,
// TELEMED_ prefixed environment variables override the file.
func Configure(v *viper.Viper) {
	v.AddConfigPath(".")
	v.AddConfigPath("..")
	v.SetConfigName("settings")
	v.SetConfigType("toml")
	v.SetEnvPrefix("telemed")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)
}

// Load decodes the calling section into Settings, clamping values
// that fall outside their allowed ranges.
func Load(v *viper.Viper) Settings {
	settings := Settings{
		Provider:        strings.ToLower(strings.TrimSpace(v.GetString("calling.provider"))),
		Domain:          strings.TrimSpace(v.GetString("calling.domain")),
		Secret:          v.GetString("calling.secret"),
		AppID:           v.GetString("calling.app_id"),
		APIKey:          v.GetString("calling.api_key"),
		TokenTTL:        v.GetInt("calling.token_ttl"),
		AccessWindow:    v.GetInt("calling.access_window"),
		RoomPrefix:      strings.TrimSpace(v.GetString("calling.room_prefix")),
		EmptyTimeout:    v.GetUint32("calling.empty_timeout_duration"),
		MaxParticipants: v.GetUint32("calling.max_participants"),
		StorageTimeout:  v.GetDuration("database.timeout"),
		Branding: Branding{
			Title: v.GetString("branding.title"),
			Logo:  v.GetString("branding.logo"),
		},
	}

	if settings.TokenTTL == 0 {
		settings.TokenTTL = DefaultTokenTTL
	} else if settings.TokenTTL < 0 {
		settings.TokenTTL = 1
	}
	if settings.AccessWindow < 0 {
		settings.AccessWindow = 0
	}
	if settings.RoomPrefix == "" {
		settings.RoomPrefix = "room"
	}
	if settings.StorageTimeout <= 0 {
		settings.StorageTimeout = 5 * time.Second
	}

	return settings
}
