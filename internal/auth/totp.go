package auth

import (
	"bytes"
	"encoding/base64"
	"image/png"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

const totpIssuer = "TimeBook"

// GenerateTOTPSetup creates a fresh TOTP secret and a QR code PNG
// (base64) for enrolling an authenticator app. The secret is stored
// unverified until the user confirms a first code.
func GenerateTOTPSetup(accountName string) (secret string, qrPNG string, err error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      totpIssuer,
		AccountName: accountName,
		Period:      30,
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return "", "", err
	}

	img, err := key.Image(200, 200)
	if err != nil {
		return "", "", err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", "", err
	}

	return key.Secret(), base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// VerifyTOTPCode checks a 6-digit code against the stored secret.
func VerifyTOTPCode(secret, code string) bool {
	return totp.Validate(code, secret)
}
