package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateResetToken(t *testing.T) {
	u := &User{ID: 1}

	require.NoError(t, u.GenerateResetToken())

	assert.Len(t, u.ResetToken, 32)
	require.NotNil(t, u.ResetSentAt)
	assert.True(t, u.ResetTokenValid())
}

func TestResetTokenExpires(t *testing.T) {
	u := &User{ID: 1}
	require.NoError(t, u.GenerateResetToken())

	stale := time.Now().Add(-ResetTokenTTL - time.Minute)
	u.ResetSentAt = &stale

	assert.False(t, u.ResetTokenValid())
}

func TestResetTokenInvalidWhenUnset(t *testing.T) {
	u := &User{ID: 1}
	assert.False(t, u.ResetTokenValid())

	require.NoError(t, u.GenerateResetToken())
	u.ClearResetToken()

	assert.False(t, u.ResetTokenValid())
	assert.Empty(t, u.ResetToken)
	assert.Nil(t, u.ResetSentAt)
}

func TestCheckPasswordRoundTrip(t *testing.T) {
	u := &User{ID: 1}
	require.NoError(t, u.SetPassword("swordfish"))

	assert.True(t, u.CheckPassword("swordfish"))
	assert.False(t, u.CheckPassword("sw0rdfish"))
}
