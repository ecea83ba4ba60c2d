package repositories

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"timebook-backend/internal/domain"
	"timebook-backend/internal/models"
)

type UserRepository struct {
	DB *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{DB: db}
}

const userColumns = `id, username, password_hash, email, admin, aktiv,
	totp_secret, totp_enabled, created_at, updated_at`

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Email, &u.Admin,
		&u.Aktiv, &u.TOTPSecret, &u.TOTPEnabled, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) Get(ctx context.Context, id int) (*models.User, error) {
	return scanUser(r.DB.QueryRow(ctx,
		`SELECT `+userColumns+` FROM mitarbeiter WHERE id = $1`, id))
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return scanUser(r.DB.QueryRow(ctx,
		`SELECT `+userColumns+` FROM mitarbeiter WHERE username = $1`, username))
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	return r.DB.QueryRow(ctx,
		`INSERT INTO mitarbeiter(username, password_hash, email, admin)
		 VALUES($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at`,
		user.Username, user.PasswordHash, user.Email, user.Admin,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
}

// SetTOTPSecret stores a pending TOTP secret; it stays disabled until
// the user confirms a first code.
func (r *UserRepository) SetTOTPSecret(ctx context.Context, userID int, secret string) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE mitarbeiter SET totp_secret = $1, totp_enabled = FALSE, updated_at = now()
		 WHERE id = $2`, secret, userID)
	return err
}

func (r *UserRepository) EnableTOTP(ctx context.Context, userID int) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE mitarbeiter SET totp_enabled = TRUE, updated_at = now() WHERE id = $1`, userID)
	return err
}
