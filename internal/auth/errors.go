package auth

import "errors"

// Expected outcomes of the verification flow. These are returned, never
// panicked; only infrastructure failures (storage unreachable) travel as
// wrapped unknown errors.
var (
	// ErrUserNotFound means no account exists for the submitted email.
	ErrUserNotFound = errors.New("user not found")

	// ErrOTPNotFound means no passcode was ever issued for the (user, purpose).
	ErrOTPNotFound = errors.New("otp not found")

	// ErrOTPExpired means the latest passcode is past its validity window.
	// Expiry is checked before the code is compared.
	ErrOTPExpired = errors.New("otp expired")

	// ErrCodeMismatch means the submitted code does not match the stored hash.
	ErrCodeMismatch = errors.New("otp code mismatch")

	// ErrUnknownRole means the user row carries a role this service does not
	// know how to provision.
	ErrUnknownRole = errors.New("unknown role")

	// ErrUnauthenticated is the single outcome for every session read failure:
	// missing cookie, bad signature, expired token. Callers cannot tell these
	// apart.
	ErrUnauthenticated = errors.New("unauthenticated")
)
