package services

import (
	"context"
	"testing"
	"time"

	"git.solsynth.dev/hypernet/telemed/pkg/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCredentialCleanupDropsExpired(t *testing.T) {
	manager, s, clock := newTestManager(t, testSettings())
	ctx := context.Background()

	_, err := manager.CreateRoom(ctx, "42", models.RoomOptions{})
	require.NoError(t, err)
	_, err = manager.GetJoinData(ctx, "42", "1", models.RoleDoctor)
	require.NoError(t, err)
	clock.Advance(5 * time.Minute)
	_, err = manager.GetJoinData(ctx, "42", "2", models.RolePatient)
	require.NoError(t, err)

	clock.Advance(6 * time.Minute)
	NewCredentialCleaner(s, clock.Now).DoCredentialCleanup()

	credentials, err := manager.ListCredentials(ctx, "42")
	require.NoError(t, err)
	require.Len(t, credentials, 1)
	assert.Equal(t, "2", credentials[0].UserID)
}
