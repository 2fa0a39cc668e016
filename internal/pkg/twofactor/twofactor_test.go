package twofactor

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/pquerna/otp/totp"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WatchHubTV/WatchHub/app/models"
	"github.com/WatchHubTV/WatchHub/internal/pkg/clientstore"
)

type fakeRepo struct {
	secret  string
	enabled bool
	calls   int
}

func (f *fakeRepo) UpdateTOTP(userID uint, secret string, enabled bool) error {
	f.calls++
	f.secret = secret
	f.enabled = enabled
	return nil
}

func newTestService(t *testing.T) (*Service, *fakeRepo, *clientstore.Store) {
	t.Helper()
	mr := miniredis.RunT(t)
	store := clientstore.New(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	repo := &fakeRepo{}
	return NewService(repo, store), repo, store
}

func testUser() *models.User {
	return &models.User{ID: 1, Email: "ana@example.com"}
}

func TestBeginEnrollment(t *testing.T) {
	svc, repo, store := newTestService(t)
	user := testUser()

	enr, err := svc.BeginEnrollment(context.Background(), user)
	require.NoError(t, err)
	assert.NotEmpty(t, enr.Secret)
	assert.Contains(t, enr.OTPAuthURL, "otpauth://totp/")
	assert.Contains(t, enr.OTPAuthURL, "WatchHub")

	// The account is not protected yet.
	assert.Equal(t, 0, repo.calls)
	assert.False(t, user.TOTPEnabled)

	var pending pendingSecret
	ok, err := store.GetJSON(context.Background(), clientstore.PendingTOTPKey(1), &pending)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, enr.Secret, pending.Secret)
}

func TestConfirmWithValidCode(t *testing.T) {
	svc, repo, store := newTestService(t)
	user := testUser()
	ctx := context.Background()

	enr, err := svc.BeginEnrollment(ctx, user)
	require.NoError(t, err)

	code, err := totp.GenerateCode(enr.Secret, time.Now())
	require.NoError(t, err)

	codes, err := svc.Confirm(ctx, user, code)
	require.NoError(t, err)
	require.Len(t, codes, 10)
	codeRe := regexp.MustCompile(`^[A-Z0-9]{8}$`)
	for _, c := range codes {
		assert.Regexp(t, codeRe, c)
	}

	assert.True(t, repo.enabled)
	assert.Equal(t, enr.Secret, repo.secret)
	assert.True(t, user.TOTPEnabled)

	// The pending secret is consumed.
	var pending pendingSecret
	ok, err := store.GetJSON(ctx, clientstore.PendingTOTPKey(1), &pending)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestConfirmWithInvalidCode(t *testing.T) {
	svc, repo, _ := newTestService(t)
	user := testUser()
	ctx := context.Background()

	_, err := svc.BeginEnrollment(ctx, user)
	require.NoError(t, err)

	_, err = svc.Confirm(ctx, user, "000000")
	assert.ErrorIs(t, err, ErrInvalidCode)
	assert.Equal(t, 0, repo.calls)
	assert.False(t, user.TOTPEnabled)
}

func TestConfirmWithoutEnrollment(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.Confirm(context.Background(), testUser(), "123456")
	assert.ErrorIs(t, err, ErrNoPendingCode)
}

func TestVerifyTOTPCode(t *testing.T) {
	svc, _, _ := newTestService(t)
	user := testUser()
	ctx := context.Background()

	enr, err := svc.BeginEnrollment(ctx, user)
	require.NoError(t, err)
	code, err := totp.GenerateCode(enr.Secret, time.Now())
	require.NoError(t, err)
	_, err = svc.Confirm(ctx, user, code)
	require.NoError(t, err)

	code, err = totp.GenerateCode(user.TOTPSecret, time.Now())
	require.NoError(t, err)
	ok, err := svc.Verify(ctx, user, code)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.Verify(ctx, user, "000000")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyConsumesBackupCode(t *testing.T) {
	svc, _, _ := newTestService(t)
	user := testUser()
	ctx := context.Background()

	enr, err := svc.BeginEnrollment(ctx, user)
	require.NoError(t, err)
	code, err := totp.GenerateCode(enr.Secret, time.Now())
	require.NoError(t, err)
	codes, err := svc.Confirm(ctx, user, code)
	require.NoError(t, err)

	ok, err := svc.Verify(ctx, user, codes[0])
	require.NoError(t, err)
	assert.True(t, ok)

	// A backup code only works once.
	ok, err = svc.Verify(ctx, user, codes[0])
	require.NoError(t, err)
	assert.False(t, ok)

	remaining, err := svc.BackupCodes(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, remaining, 9)
}

func TestVerifyNotEnrolled(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.Verify(context.Background(), testUser(), "123456")
	assert.ErrorIs(t, err, ErrNotEnrolled)
}

func TestDisable(t *testing.T) {
	svc, repo, store := newTestService(t)
	user := testUser()
	ctx := context.Background()

	enr, err := svc.BeginEnrollment(ctx, user)
	require.NoError(t, err)
	code, err := totp.GenerateCode(enr.Secret, time.Now())
	require.NoError(t, err)
	_, err = svc.Confirm(ctx, user, code)
	require.NoError(t, err)

	require.NoError(t, svc.Disable(ctx, user))
	assert.False(t, repo.enabled)
	assert.Empty(t, repo.secret)
	assert.False(t, user.TOTPEnabled)

	var codes []string
	ok, err := store.GetJSON(ctx, clientstore.BackupCodesKey(1), &codes)
	require.NoError(t, err)
	assert.False(t, ok)
}
