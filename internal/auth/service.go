package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mercato/server/internal/model"
	"github.com/mercato/server/internal/repo"
)

// AuthService orchestrates OTP verification, the one-way unverified->verified
// transition with its exactly-once profile provisioning, and session issuance.
type AuthService struct {
	jwtService       *JWTService
	userRepo         repo.UserRepo
	otpRepo          repo.OtpRepo
	verificationRepo repo.VerificationRepo
	otpTTL           time.Duration
}

// NewAuthService creates a new auth service
func NewAuthService(
	jwtService *JWTService,
	userRepo repo.UserRepo,
	otpRepo repo.OtpRepo,
	verificationRepo repo.VerificationRepo,
	otpTTL time.Duration,
) *AuthService {
	return &AuthService{
		jwtService:       jwtService,
		userRepo:         userRepo,
		otpRepo:          otpRepo,
		verificationRepo: verificationRepo,
		otpTTL:           otpTTL,
	}
}

// RequestOTP creates the user if absent and stores a fresh hashed passcode
// for the (user, purpose) pair. The plaintext code is returned to the caller
// for delivery; it is never persisted.
func (s *AuthService) RequestOTP(ctx context.Context, email string, role model.Role, purpose string) (string, error) {
	user, err := s.userRepo.GetOrCreateByEmail(ctx, email, role)
	if err != nil {
		return "", fmt.Errorf("get or create user: %w", err)
	}

	code, err := GenerateCode()
	if err != nil {
		return "", err
	}
	hash, err := HashCode(code)
	if err != nil {
		return "", err
	}

	if _, err := s.otpRepo.Create(ctx, user.ID, purpose, hash, time.Now().Add(s.otpTTL)); err != nil {
		return "", fmt.Errorf("store otp: %w", err)
	}
	return code, nil
}

// VerifyOTPAndIssueSession runs the full verification flow for a submitted
// (email, code, purpose) and returns the user plus a signed session token.
//
// Check order is fixed: user exists, latest OTP exists, OTP unexpired, code
// matches. An expired OTP with a matching code is still Expired, never
// Mismatch. Only after all checks pass does the state transition run; an
// already-verified user passes through it untouched and still gets a fresh
// session.
func (s *AuthService) VerifyOTPAndIssueSession(ctx context.Context, email, code, purpose string) (model.User, string, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return model.User{}, "", ErrUserNotFound
		}
		return model.User{}, "", fmt.Errorf("lookup user: %w", err)
	}

	rec, err := s.otpRepo.LatestByUserAndPurpose(ctx, user.ID, purpose)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return model.User{}, "", ErrOTPNotFound
		}
		return model.User{}, "", fmt.Errorf("lookup otp: %w", err)
	}

	if IsExpired(rec, time.Now()) {
		return model.User{}, "", ErrOTPExpired
	}

	if !VerifyCode(code, rec.CodeHash) {
		return model.User{}, "", ErrCodeMismatch
	}

	claims, err := s.completeVerification(ctx, &user)
	if err != nil {
		return model.User{}, "", err
	}

	token, err := s.jwtService.Sign(claims.UserID, claims.Role)
	if err != nil {
		return model.User{}, "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return user, token, nil
}

// completeVerification applies the Unverified -> Verified transition. The
// caller must already have confirmed the OTP is unexpired and matches.
// Verified is terminal: repeat calls mutate nothing and still yield claims.
func (s *AuthService) completeVerification(ctx context.Context, user *model.User) (*SessionClaims, error) {
	if user.Role != model.RoleBuyer && user.Role != model.RoleSeller {
		return nil, ErrUnknownRole
	}

	if !user.IsVerified {
		if _, err := s.verificationRepo.CompleteVerification(ctx, user.ID, user.Role); err != nil {
			return nil, fmt.Errorf("complete verification: %w", err)
		}
		user.IsVerified = true
	}

	return &SessionClaims{UserID: user.ID, Role: user.Role}, nil
}
