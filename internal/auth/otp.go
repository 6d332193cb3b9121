package auth

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mercato/server/internal/model"
)

const otpDigits = 6

// HashCode returns the bcrypt hash of a plaintext passcode for storage.
// The plaintext itself is never persisted or logged.
func HashCode(code string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash otp code: %w", err)
	}
	return string(hash), nil
}

// VerifyCode reports whether the plaintext code matches the stored bcrypt
// hash. A mismatch is a normal false result, not an error.
func VerifyCode(code, storedHash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(code)) == nil
}

// IsExpired reports whether the record's validity window has closed at the
// given instant. A record is valid only while now is strictly before
// ExpiresAt; at ExpiresAt == now it is already expired.
func IsExpired(rec model.OtpRecord, now time.Time) bool {
	return !now.Before(rec.ExpiresAt)
}

// GenerateCode returns a random 6-digit passcode from crypto/rand.
func GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("generate otp code: %w", err)
	}
	return fmt.Sprintf("%0*d", otpDigits, n.Int64()+100000), nil
}
