// Package twofactor handles TOTP enrollment and verification for user
// accounts. A pending secret lives in the client store until the user
// confirms a valid code; only then is the account flagged as protected.
package twofactor

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
	"gorm.io/gorm"

	"github.com/WatchHubTV/WatchHub/app/models"
	"github.com/WatchHubTV/WatchHub/internal/pkg/clientstore"
)

const issuer = "WatchHub"

const (
	backupCodeCount  = 10
	backupCodeLength = 8
)

const backupCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

var (
	ErrNotEnrolled   = errors.New("two-factor authentication is not set up")
	ErrNoPendingCode = errors.New("no pending two-factor enrollment")
	ErrInvalidCode   = errors.New("invalid verification code")
)

// Enrollment is handed to the settings page so the user can scan the
// QR code or type the secret manually.
type Enrollment struct {
	Secret     string `json:"secret"`
	OTPAuthURL string `json:"otpauth_url"`
}

type pendingSecret struct {
	Secret    string    `json:"secret"`
	CreatedAt time.Time `json:"created_at"`
}

// Repository persists the TOTP fields on the user record.
type Repository interface {
	UpdateTOTP(userID uint, secret string, enabled bool) error
}

type gormRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) UpdateTOTP(userID uint, secret string, enabled bool) error {
	return r.db.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"totp_secret":  secret,
		"totp_enabled": enabled,
	}).Error
}

type Service struct {
	repo  Repository
	store *clientstore.Store
}

func NewService(repo Repository, store *clientstore.Store) *Service {
	return &Service{repo: repo, store: store}
}

func NewServiceFromDB(db *gorm.DB, store *clientstore.Store) *Service {
	return NewService(NewRepository(db), store)
}

// BeginEnrollment generates a fresh TOTP secret and parks it in the client
// store. The account is not protected until Confirm succeeds; starting a new
// enrollment replaces any pending secret.
func (s *Service) BeginEnrollment(ctx context.Context, user *models.User) (*Enrollment, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      issuer,
		AccountName: user.Email,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return nil, fmt.Errorf("generate totp secret: %w", err)
	}

	pending := pendingSecret{Secret: key.Secret(), CreatedAt: time.Now()}
	if err := s.store.SetJSON(ctx, clientstore.PendingTOTPKey(user.ID), pending); err != nil {
		return nil, err
	}

	return &Enrollment{Secret: key.Secret(), OTPAuthURL: key.URL()}, nil
}

// Confirm validates the code against the pending secret. On success the
// secret is persisted on the user row, two-factor is switched on and a set
// of backup codes is generated and stored client-side.
func (s *Service) Confirm(ctx context.Context, user *models.User, code string) ([]string, error) {
	var pending pendingSecret
	ok, err := s.store.GetJSON(ctx, clientstore.PendingTOTPKey(user.ID), &pending)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNoPendingCode
	}

	if !totp.Validate(code, pending.Secret) {
		return nil, ErrInvalidCode
	}

	if err := s.repo.UpdateTOTP(user.ID, pending.Secret, true); err != nil {
		return nil, fmt.Errorf("enable two-factor: %w", err)
	}
	user.TOTPSecret = pending.Secret
	user.TOTPEnabled = true

	codes, err := generateBackupCodes()
	if err != nil {
		return nil, err
	}
	if err := s.store.SetJSON(ctx, clientstore.BackupCodesKey(user.ID), codes); err != nil {
		return nil, err
	}
	if err := s.store.Delete(ctx, clientstore.PendingTOTPKey(user.ID)); err != nil {
		return nil, err
	}
	return codes, nil
}

// Verify checks a login code against the user's enabled secret, falling
// back to the stored backup codes. A matched backup code is consumed.
func (s *Service) Verify(ctx context.Context, user *models.User, code string) (bool, error) {
	if !user.TOTPEnabled || user.TOTPSecret == "" {
		return false, ErrNotEnrolled
	}
	if totp.Validate(code, user.TOTPSecret) {
		return true, nil
	}

	var codes []string
	ok, err := s.store.GetJSON(ctx, clientstore.BackupCodesKey(user.ID), &codes)
	if err != nil || !ok {
		return false, err
	}
	for i, c := range codes {
		if c == code {
			codes = append(codes[:i], codes[i+1:]...)
			if err := s.store.SetJSON(ctx, clientstore.BackupCodesKey(user.ID), codes); err != nil {
				return false, err
			}
			return true, nil
		}
	}
	return false, nil
}

// Disable turns off two-factor and discards the stored secret and codes.
func (s *Service) Disable(ctx context.Context, user *models.User) error {
	if err := s.repo.UpdateTOTP(user.ID, "", false); err != nil {
		return fmt.Errorf("disable two-factor: %w", err)
	}
	user.TOTPSecret = ""
	user.TOTPEnabled = false
	if err := s.store.Delete(ctx, clientstore.BackupCodesKey(user.ID)); err != nil {
		return err
	}
	return s.store.Delete(ctx, clientstore.PendingTOTPKey(user.ID))
}

// BackupCodes returns the user's remaining backup codes.
func (s *Service) BackupCodes(ctx context.Context, userID uint) ([]string, error) {
	var codes []string
	if _, err := s.store.GetJSON(ctx, clientstore.BackupCodesKey(userID), &codes); err != nil {
		return nil, err
	}
	return codes, nil
}

func generateBackupCodes() ([]string, error) {
	codes := make([]string, 0, backupCodeCount)
	for i := 0; i < backupCodeCount; i++ {
		code := make([]byte, backupCodeLength)
		for j := range code {
			n, err := rand.Int(rand.Reader, big.NewInt(int64(len(backupCodeAlphabet))))
			if err != nil {
				return nil, fmt.Errorf("generate backup code: %w", err)
			}
			code[j] = backupCodeAlphabet[n.Int64()]
		}
		codes = append(codes, string(code))
	}
	return codes, nil
}
