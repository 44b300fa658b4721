package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base32"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
	"github.com/skip2/go-qrcode"
)

const (
	DefaultTOTPIssuer = "Accops Workspace"
	TOTPPeriod        = 30
)

// TOTPManager validates authenticator-app codes. Secrets are derived from a
// server seed and the username so no per-user enrollment is stored.
type TOTPManager struct {
	issuer string
	seed   []byte
}

// NewTOTPManager derives per-user secrets from seed. An empty issuer means
// DefaultTOTPIssuer.
func NewTOTPManager(issuer, seed string) *TOTPManager {
	if issuer == "" {
		issuer = DefaultTOTPIssuer
	}
	return &TOTPManager{issuer: issuer, seed: []byte(seed)}
}

// SecretFor returns the base32 TOTP secret for username.
func (m *TOTPManager) SecretFor(username string) string {
	mac := hmac.New(sha256.New, m.seed)
	mac.Write([]byte(strings.ToLower(username)))
	sum := mac.Sum(nil)[:20]
	return base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(sum)
}

// ProvisioningURL is the otpauth:// URL an authenticator app enrolls from.
func (m *TOTPManager) ProvisioningURL(username string) string {
	v := url.Values{}
	v.Set("secret", m.SecretFor(username))
	v.Set("issuer", m.issuer)
	v.Set("algorithm", "SHA1")
	v.Set("digits", "6")
	v.Set("period", fmt.Sprint(TOTPPeriod))

	return fmt.Sprintf("otpauth://totp/%s:%s?%s",
		url.PathEscape(m.issuer),
		url.PathEscape(username),
		v.Encode(),
	)
}

// GenerateCode returns the code for username at t.
func (m *TOTPManager) GenerateCode(username string, t time.Time) (string, error) {
	return totp.GenerateCodeCustom(m.SecretFor(username), t, totp.ValidateOpts{
		Period:    TOTPPeriod,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
}

// ValidateCode accepts the current code or one from the adjacent periods.
func (m *TOTPManager) ValidateCode(username, code string, t time.Time) bool {
	code = strings.ReplaceAll(code, " ", "")
	ok, err := totp.ValidateCustom(code, m.SecretFor(username), t, totp.ValidateOpts{
		Period:    TOTPPeriod,
		Skew:      1,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	return err == nil && ok
}

// GenerateQRCode encodes content as a PNG.
func GenerateQRCode(content string, size int) ([]byte, error) {
	if size <= 0 {
		size = 256
	}
	return qrcode.Encode(content, qrcode.Medium, size)
}
