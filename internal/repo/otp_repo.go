package repo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mercato/server/internal/model"
)

// OtpRepo defines the interface for OTP record repository operations.
// Records are append-only: issuing a new code does not delete prior rows,
// the most recently created one supersedes them.
type OtpRepo interface {
	Create(ctx context.Context, userID uuid.UUID, purpose, codeHash string, expiresAt time.Time) (uuid.UUID, error)
	LatestByUserAndPurpose(ctx context.Context, userID uuid.UUID, purpose string) (model.OtpRecord, error)
}

type otpRepo struct {
	db *sql.DB
}

// NewOtpRepo creates a new OtpRepo instance
func NewOtpRepo(db *sql.DB) OtpRepo {
	return &otpRepo{db: db}
}

// Create inserts a new OTP record holding only the code hash.
func (r *otpRepo) Create(ctx context.Context, userID uuid.UUID, purpose, codeHash string, expiresAt time.Time) (uuid.UUID, error) {
	var idStr string
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO otps (user_id, purpose, code_hash, expires_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, userID, purpose, codeHash, expiresAt).Scan(&idStr)
	if err != nil {
		return uuid.Nil, fmt.Errorf("insert otp: %w", err)
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, fmt.Errorf("parse otp ID: %w", err)
	}
	return id, nil
}

// LatestByUserAndPurpose returns the most recently created record for the
// (user, purpose) pair. Expiry is the caller's check, not a filter here.
func (r *otpRepo) LatestByUserAndPurpose(ctx context.Context, userID uuid.UUID, purpose string) (model.OtpRecord, error) {
	query := `
		SELECT id, user_id, purpose, code_hash, expires_at, created_at
		FROM otps
		WHERE user_id = $1 AND purpose = $2
		ORDER BY created_at DESC
		LIMIT 1
	`
	var rec model.OtpRecord
	var idStr, userIDStr string
	err := r.db.QueryRowContext(ctx, query, userID, purpose).Scan(
		&idStr,
		&userIDStr,
		&rec.Purpose,
		&rec.CodeHash,
		&rec.ExpiresAt,
		&rec.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return model.OtpRecord{}, fmt.Errorf("otp: %w", ErrNotFound)
		}
		return model.OtpRecord{}, fmt.Errorf("query otp: %w", err)
	}

	rec.ID, err = uuid.Parse(idStr)
	if err != nil {
		return model.OtpRecord{}, fmt.Errorf("parse otp ID: %w", err)
	}
	rec.UserID, err = uuid.Parse(userIDStr)
	if err != nil {
		return model.OtpRecord{}, fmt.Errorf("parse otp user ID: %w", err)
	}
	return rec, nil
}
