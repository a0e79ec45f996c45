package services

import (
	"context"
	"time"

	"git.solsynth.dev/hypernet/telemed/pkg/internal/store"
	"github.com/rs/zerolog/log"
)

// CredentialCleaner drops stored credentials whose token already expired.
// The backend refuses those tokens anyway, the rows are only audit trail.
type CredentialCleaner struct {
	store store.Store
	now   func() time.Time
}

func NewCredentialCleaner(s store.Store, now func() time.Time) *CredentialCleaner {
	if now == nil {
		now = time.Now
	}
	return &CredentialCleaner{store: s, now: now}
}

func (v *CredentialCleaner) DoCredentialCleanup() {
	deadline := v.now()
	log.Debug().Time("deadline", deadline).Msg("Now cleaning up expired credentials...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	count, err := v.store.PurgeExpiredCredentials(ctx, deadline)
	if err != nil {
		log.Error().Err(err).Msg("An error occurred when running credential cleanup...")
		return
	}

	log.Debug().Int64("affected", count).Msg("Clean up expired credentials accomplished.")
}
