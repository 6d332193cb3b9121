package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Role identifies which side of the marketplace a user belongs to.
type Role string

const (
	RoleBuyer  Role = "BUYER"
	RoleSeller Role = "SELLER"
)

// ParseRole validates a role string. Unknown values are rejected rather than
// defaulting to a role.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleBuyer, RoleSeller:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// User represents a marketplace account. IsVerified flips false->true exactly
// once, on first successful OTP verification.
type User struct {
	ID         uuid.UUID
	Email      string
	Role       Role
	IsVerified bool
	CreatedAt  time.Time
}

// OtpRecord is one issued passcode for a (user, purpose) pair. Only the hash
// of the code is stored. Several records may exist per pair; the most recently
// created one is authoritative.
type OtpRecord struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Purpose   string
	CodeHash  string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// BuyerProfile is created once, at first verification of a BUYER. It starts
// with an empty cart.
type BuyerProfile struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	CartID    uuid.UUID
	CreatedAt time.Time
}

// CartItem is a single line in a buyer's cart.
type CartItem struct {
	ID        uuid.UUID
	CartID    uuid.UUID
	ProductID uuid.UUID
	Quantity  int
	CreatedAt time.Time
}

// SellerProfile is created once, at first verification of a SELLER, with shop
// identity fields left empty until the seller fills them in.
type SellerProfile struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	ShopName  string
	GSTNumber string
	CreatedAt time.Time
}
