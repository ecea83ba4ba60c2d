package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timebook-backend/internal/auth"
	"timebook-backend/internal/domain"
	"timebook-backend/internal/models"
)

func testUser(t *testing.T, password string) *models.User {
	t.Helper()
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)
	return &models.User{
		ID:           1,
		Username:     "freelancer",
		PasswordHash: hash,
		Aktiv:        true,
	}
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("valid credentials", func(t *testing.T) {
		svc := NewAuthService(newFakeUserStore(testUser(t, "geheim")))
		user, err := svc.Login(ctx, &models.LoginRequest{Username: "freelancer", Password: "geheim"})
		require.NoError(t, err)
		assert.Equal(t, 1, user.ID)
	})

	t.Run("empty credentials are a validation failure", func(t *testing.T) {
		svc := NewAuthService(newFakeUserStore(testUser(t, "geheim")))
		_, err := svc.Login(ctx, &models.LoginRequest{Username: "freelancer"})
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrValidation))
	})

	// unknown user, wrong password and inactive account all answer the
	// same way so usernames cannot be probed
	t.Run("uniform unauthorized", func(t *testing.T) {
		inactive := testUser(t, "geheim")
		inactive.Aktiv = false

		tests := []struct {
			name string
			user *models.User
			req  *models.LoginRequest
		}{
			{"unknown user", testUser(t, "geheim"), &models.LoginRequest{Username: "nobody", Password: "geheim"}},
			{"wrong password", testUser(t, "geheim"), &models.LoginRequest{Username: "freelancer", Password: "falsch"}},
			{"inactive account", inactive, &models.LoginRequest{Username: "freelancer", Password: "geheim"}},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				svc := NewAuthService(newFakeUserStore(tt.user))
				_, err := svc.Login(ctx, tt.req)
				require.Error(t, err)
				assert.True(t, errors.Is(err, domain.ErrUnauthorized))
			})
		}
	})

	t.Run("totp required once enabled", func(t *testing.T) {
		user := testUser(t, "geheim")
		secret := "JBSWY3DPEHPK3PXP"
		user.TOTPSecret = &secret
		user.TOTPEnabled = true
		svc := NewAuthService(newFakeUserStore(user))

		_, err := svc.Login(ctx, &models.LoginRequest{Username: "freelancer", Password: "geheim"})
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrUnauthorized))

		code, err := totp.GenerateCode(secret, time.Now())
		require.NoError(t, err)
		_, err = svc.Login(ctx, &models.LoginRequest{Username: "freelancer", Password: "geheim", TOTPCode: code})
		require.NoError(t, err)
	})
}

func TestConfirmTOTP(t *testing.T) {
	ctx := context.Background()
	principal := testPrincipal()

	t.Run("enables after a valid first code", func(t *testing.T) {
		user := testUser(t, "geheim")
		store := newFakeUserStore(user)
		svc := NewAuthService(store)

		setup, err := svc.SetupTOTP(ctx, principal)
		require.NoError(t, err)
		assert.NotEmpty(t, setup.Secret)
		assert.NotEmpty(t, setup.QRCodePNG)
		assert.False(t, user.TOTPEnabled)

		code, err := totp.GenerateCode(setup.Secret, time.Now())
		require.NoError(t, err)
		require.NoError(t, svc.ConfirmTOTP(ctx, principal, code))
		assert.True(t, user.TOTPEnabled)
	})

	t.Run("rejects without prior setup", func(t *testing.T) {
		svc := NewAuthService(newFakeUserStore(testUser(t, "geheim")))
		err := svc.ConfirmTOTP(ctx, principal, "123456")
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrValidation))
	})
}
