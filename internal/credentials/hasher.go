// Package credentials maps a plaintext password and a hashing mode to the
// credential string transmitted to the login endpoint. All functions are
// pure; the hashes here are wire-format obfuscation expected by the auth
// API, not password storage.
package credentials

import (
	"crypto/hmac"
	"crypto/md5" //nolint:gosec // wire format mandated by the auth API
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"strings"

	"github.com/stardyn/authkit/config"
)

// Hash applies the configured hashing strategy to a password. An unknown
// mode falls back to MD5Upper with a warning.
func Hash(logger *slog.Logger, mode config.PasswordHashType, password, siteKey, siteName string) string {
	switch mode {
	case config.HashNone:
		return password
	case config.HashSHA256:
		return CaptchaHash(password, siteKey, siteName)
	case config.HashMD5Upper:
		return MD5Upper(password)
	default:
		if logger != nil {
			logger.Warn("unknown password hash type, using md5_upper",
				slog.String("mode", string(mode)))
		}
		return MD5Upper(password)
	}
}

// MD5Upper returns the uppercased hex MD5 digest of the password.
func MD5Upper(password string) string {
	sum := md5.Sum([]byte(password)) //nolint:gosec
	return strings.ToUpper(hex.EncodeToString(sum[:]))
}

// CaptchaHash returns the captcha-style keyed hash: an HMAC-SHA256 of
// "siteName:password" keyed with the site key, hex encoded.
func CaptchaHash(password, siteKey, siteName string) string {
	mac := hmac.New(sha256.New, []byte(siteKey))
	mac.Write([]byte(siteName + ":" + password))
	return hex.EncodeToString(mac.Sum(nil))
}
