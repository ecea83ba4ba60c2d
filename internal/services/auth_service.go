package services

import (
	"context"
	"errors"

	"timebook-backend/internal/auth"
	"timebook-backend/internal/domain"
	"timebook-backend/internal/models"
)

// UserStore is the repository surface the auth service needs.
type UserStore interface {
	Get(ctx context.Context, id int) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	SetTOTPSecret(ctx context.Context, userID int, secret string) error
	EnableTOTP(ctx context.Context, userID int) error
}

type AuthService struct {
	users UserStore
}

func NewAuthService(users UserStore) *AuthService {
	return &AuthService{users: users}
}

// Login verifies the credentials (and the TOTP code when the account
// has 2FA enabled) and returns the principal. Every failure mode
// answers the same ErrUnauthorized so usernames cannot be probed.
func (s *AuthService) Login(ctx context.Context, req *models.LoginRequest) (*models.User, error) {
	if req.Username == "" || req.Password == "" {
		return nil, domain.NewValidationError("username", "Benutzername und Passwort sind erforderlich")
	}

	user, err := s.users.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}
	if !user.Aktiv {
		return nil, domain.ErrUnauthorized
	}
	if !auth.VerifyPassword(user.PasswordHash, req.Password) {
		return nil, domain.ErrUnauthorized
	}

	if user.TOTPEnabled {
		if user.TOTPSecret == nil || req.TOTPCode == "" || !auth.VerifyTOTPCode(*user.TOTPSecret, req.TOTPCode) {
			return nil, domain.ErrUnauthorized
		}
	}

	return user, nil
}

// SetupTOTP generates a pending TOTP secret for the user and returns
// the enrollment QR code. The secret only becomes active after
// ConfirmTOTP verifies a first code.
func (s *AuthService) SetupTOTP(ctx context.Context, principal *models.Principal) (*models.TOTPSetupResponse, error) {
	user, err := s.users.Get(ctx, principal.ID)
	if err != nil {
		return nil, err
	}

	secret, qrPNG, err := auth.GenerateTOTPSetup(user.Username)
	if err != nil {
		return nil, err
	}
	if err := s.users.SetTOTPSecret(ctx, user.ID, secret); err != nil {
		return nil, err
	}

	return &models.TOTPSetupResponse{Secret: secret, QRCodePNG: qrPNG}, nil
}

// ConfirmTOTP verifies the first code against the pending secret and
// enables 2FA for the account.
func (s *AuthService) ConfirmTOTP(ctx context.Context, principal *models.Principal, code string) error {
	user, err := s.users.Get(ctx, principal.ID)
	if err != nil {
		return err
	}
	if user.TOTPSecret == nil {
		return domain.NewValidationError("totp_code", "Kein TOTP-Setup vorhanden")
	}
	if !auth.VerifyTOTPCode(*user.TOTPSecret, code) {
		return domain.NewValidationError("totp_code", "Ungültiger Code")
	}
	return s.users.EnableTOTP(ctx, user.ID)
}
