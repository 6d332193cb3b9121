package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/mercato/server/internal/model"
)

// VerificationRepo owns the one storage transaction of the verification flow:
// flipping is_verified and provisioning the role profile together, so a user
// can never end up verified without a profile.
type VerificationRepo interface {
	// CompleteVerification marks the user verified and creates the profile
	// for its role, all inside one transaction. It reports whether this call
	// performed the transition; false means the user was already verified
	// (or a concurrent request won), which is a success, not an error.
	CompleteVerification(ctx context.Context, userID uuid.UUID, role model.Role) (provisioned bool, err error)
}

type verificationRepo struct {
	db *sql.DB
}

// NewVerificationRepo creates a new VerificationRepo instance
func NewVerificationRepo(db *sql.DB) VerificationRepo {
	return &verificationRepo{db: db}
}

// CompleteVerification serializes same-user requests with an advisory lock,
// then relies on the conditional UPDATE plus ON CONFLICT DO NOTHING against
// the UNIQUE(user_id) profile constraints so at most one request ever
// provisions.
func (r *verificationRepo) CompleteVerification(ctx context.Context, userID uuid.UUID, role model.Role) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	// Advisory lock: serialize verification per user. Blocks until held;
	// released on COMMIT/ROLLBACK.
	_, err = tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(2, hashtext($1))`, userID.String())
	if err != nil {
		return false, fmt.Errorf("advisory lock: %w", err)
	}

	// Single-winner flip: only the request that actually transitions
	// false->true gets to provision.
	result, err := tx.ExecContext(ctx, `
		UPDATE users
		SET is_verified = TRUE
		WHERE id = $1 AND is_verified = FALSE
	`, userID)
	if err != nil {
		return false, fmt.Errorf("mark verified: %w", err)
	}
	flipped, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("mark verified rows: %w", err)
	}
	if flipped == 0 {
		// Already verified; nothing to provision.
		return false, nil
	}

	created, err := r.provisionProfile(ctx, tx, userID, role)
	if err != nil {
		return false, err
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit: %w", err)
	}
	return created, nil
}

// provisionProfile inserts the role profile. A conflicting row means another
// request already provisioned this user; that is reported as created=false,
// not as an error, so the verified flip above still commits.
func (r *verificationRepo) provisionProfile(ctx context.Context, tx *sql.Tx, userID uuid.UUID, role model.Role) (bool, error) {
	switch role {
	case model.RoleBuyer:
		var profileID string
		err := tx.QueryRowContext(ctx, `
			INSERT INTO buyer_profiles (user_id)
			VALUES ($1)
			ON CONFLICT (user_id) DO NOTHING
			RETURNING id
		`, userID).Scan(&profileID)
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		if err != nil {
			return false, fmt.Errorf("insert buyer profile: %w", err)
		}
		// Empty cart: one cart row, zero items.
		_, err = tx.ExecContext(ctx, `
			INSERT INTO carts (buyer_profile_id)
			VALUES ($1)
		`, profileID)
		if err != nil {
			return false, fmt.Errorf("insert cart: %w", err)
		}
		return true, nil
	case model.RoleSeller:
		result, err := tx.ExecContext(ctx, `
			INSERT INTO seller_profiles (user_id, shop_name, gst_number)
			VALUES ($1, '', '')
			ON CONFLICT (user_id) DO NOTHING
		`, userID)
		if err != nil {
			return false, fmt.Errorf("insert seller profile: %w", err)
		}
		n, err := result.RowsAffected()
		if err != nil {
			return false, fmt.Errorf("insert seller profile rows: %w", err)
		}
		return n == 1, nil
	}
	return false, fmt.Errorf("provision profile: unknown role %q", role)
}
