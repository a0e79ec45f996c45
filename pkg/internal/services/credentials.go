package services

import (
	"fmt"
	"strings"
	"time"

	"git.solsynth.dev/hypernet/telemed/pkg/internal/config"
	"git.solsynth.dev/hypernet/telemed/pkg/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenTTL turns the configured minutes into a duration. Unset means the
// default of ten minutes, anything else below one minute is raised to one.
func TokenTTL(minutes int) time.Duration {
	switch {
	case minutes == 0:
		minutes = config.DefaultTokenTTL
	case minutes < 1:
		minutes = 1
	}
	return time.Duration(minutes) * time.Minute
}

type JoinClaims struct {
	Room    string          `json:"room"`
	User    string          `json:"user"`
	Role    models.Role     `json:"role"`
	Context JoinUserContext `json:"context"`
	jwt.RegisteredClaims
}

type JoinUserContext struct {
	User struct {
		ID        string `json:"id"`
		Moderator bool   `json:"moderator"`
	} `json:"user"`
}

// Issuer mints join tokens in the format Jitsi's token authentication reads.
type Issuer struct {
	AppID string
	Now   func() time.Time
}

func NewIssuer(appId string, now func() time.Time) *Issuer {
	if now == nil {
		now = time.Now
	}
	return &Issuer{AppID: appId, Now: now}
}

// Mint issues a credential for one user in one room. With no secret the
// token is an opaque random string, otherwise an HS256 JWT.
func (v *Issuer) Mint(room, user string, role models.Role, ttlMinutes int, secret string) (models.Credential, error) {
	issuedAt := v.Now()
	credential := models.Credential{
		UserID:    user,
		Role:      models.NormalizeRole(role),
		ExpiresAt: issuedAt.Add(TokenTTL(ttlMinutes)),
		CreatedAt: issuedAt,
	}

	if secret == "" {
		credential.Token = strings.ReplaceAll(uuid.NewString(), "-", "")
		return credential, nil
	}

	claims := JoinClaims{
		Room: room,
		User: user,
		Role: credential.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    v.AppID,
			Subject:   "*",
			Audience:  jwt.ClaimStrings{"jitsi"},
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(credential.ExpiresAt),
			ID:        uuid.NewString(),
		},
	}
	claims.Context.User.ID = user
	claims.Context.User.Moderator = credential.Role == models.RoleDoctor

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tks, err := token.SignedString([]byte(secret))
	if err != nil {
		return credential, fmt.Errorf("failed to sign token: %v", err)
	}
	credential.Token = tks
	return credential, nil
}

// ParseJoinToken verifies a signed join token. The issuer's clock is used
// for the expiry checks.
func (v *Issuer) ParseJoinToken(tk, secret string) (JoinClaims, error) {
	var claims JoinClaims
	token, err := jwt.ParseWithClaims(tk, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Method)
		}
		return []byte(secret), nil
	}, jwt.WithTimeFunc(v.Now), jwt.WithAudience("jitsi"))
	if err != nil {
		return claims, err
	}
	if !token.Valid {
		return claims, fmt.Errorf("invalid token")
	}
	return claims, nil
}
