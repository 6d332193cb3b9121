package repo

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/mercato/server/internal/model"
)

// ProfileRepo reads the role profiles created at first verification.
type ProfileRepo interface {
	GetBuyerProfile(ctx context.Context, userID uuid.UUID) (model.BuyerProfile, error)
	GetSellerProfile(ctx context.Context, userID uuid.UUID) (model.SellerProfile, error)
	CountCartItems(ctx context.Context, cartID uuid.UUID) (int, error)
}

type profileRepo struct {
	db *sql.DB
}

// NewProfileRepo creates a new ProfileRepo instance
func NewProfileRepo(db *sql.DB) ProfileRepo {
	return &profileRepo{db: db}
}

// GetBuyerProfile returns the buyer profile and its cart for the user.
func (r *profileRepo) GetBuyerProfile(ctx context.Context, userID uuid.UUID) (model.BuyerProfile, error) {
	query := `
		SELECT bp.id, bp.user_id, c.id, bp.created_at
		FROM buyer_profiles bp
		JOIN carts c ON c.buyer_profile_id = bp.id
		WHERE bp.user_id = $1
	`
	var p model.BuyerProfile
	var idStr, userIDStr, cartIDStr string
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&idStr, &userIDStr, &cartIDStr, &p.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return model.BuyerProfile{}, fmt.Errorf("buyer profile: %w", ErrNotFound)
		}
		return model.BuyerProfile{}, fmt.Errorf("query buyer profile: %w", err)
	}
	p.ID, _ = uuid.Parse(idStr)
	p.UserID, _ = uuid.Parse(userIDStr)
	p.CartID, _ = uuid.Parse(cartIDStr)
	return p, nil
}

// GetSellerProfile returns the seller profile for the user.
func (r *profileRepo) GetSellerProfile(ctx context.Context, userID uuid.UUID) (model.SellerProfile, error) {
	query := `
		SELECT id, user_id, shop_name, gst_number, created_at
		FROM seller_profiles
		WHERE user_id = $1
	`
	var p model.SellerProfile
	var idStr, userIDStr string
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&idStr, &userIDStr, &p.ShopName, &p.GSTNumber, &p.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return model.SellerProfile{}, fmt.Errorf("seller profile: %w", ErrNotFound)
		}
		return model.SellerProfile{}, fmt.Errorf("query seller profile: %w", err)
	}
	p.ID, _ = uuid.Parse(idStr)
	p.UserID, _ = uuid.Parse(userIDStr)
	return p, nil
}

// CountCartItems returns the number of items in a cart.
func (r *profileRepo) CountCartItems(ctx context.Context, cartID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM cart_items WHERE cart_id = $1
	`, cartID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count cart items: %w", err)
	}
	return count, nil
}
