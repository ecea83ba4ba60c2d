package models

import "time"

// User is an authenticated freelancer account (Mitarbeiter). Every other
// entity is owned by exactly one user via mitarbeiter_id.
type User struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Email        *string   `json:"email,omitempty"`
	Admin        bool      `json:"admin"`
	Aktiv        bool      `json:"aktiv"`
	TOTPSecret   *string   `json:"-"`
	TOTPEnabled  bool      `json:"totp_enabled"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Principal is the session-resolved identity attached to each request.
type Principal struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Admin    bool   `json:"admin"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	TOTPCode string `json:"totp_code,omitempty"`
}

type TOTPSetupResponse struct {
	Secret    string `json:"secret"`
	QRCodePNG string `json:"qr_code_png"` // base64-encoded PNG
}
