package models

import "time"

// Role is the privilege level of a membership, ordered
// OWNER > EDITOR > VIEWER.
type Role string

const (
	RoleOwner  Role = "OWNER"
	RoleEditor Role = "EDITOR"
	RoleViewer Role = "VIEWER"
)

// rank maps roles onto a total order so authorization is a single
// numeric comparison.
func (r Role) rank() int {
	switch r {
	case RoleOwner:
		return 3
	case RoleEditor:
		return 2
	case RoleViewer:
		return 1
	default:
		return 0
	}
}

// AtLeast reports whether r satisfies the required privilege level.
func (r Role) AtLeast(required Role) bool {
	return r.rank() >= required.rank()
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r.rank() > 0
}

// Membership links a user to a wishlist with a role. At most one
// membership exists per (user, wishlist) pair.
type Membership struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	WishlistID string    `json:"wishlist_id"`
	Role       Role      `json:"role"`
	CreatedAt  time.Time `json:"created_at"`
}

// MembershipResponse is the API shape of a membership.
type MembershipResponse struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	WishlistID string    `json:"wishlist_id"`
	Role       Role      `json:"role"`
	CreatedAt  time.Time `json:"created_at"`
}

// ToResponse converts a membership to its API shape.
func (m *Membership) ToResponse() *MembershipResponse {
	return &MembershipResponse{
		ID:         m.ID,
		UserID:     m.UserID,
		WishlistID: m.WishlistID,
		Role:       m.Role,
		CreatedAt:  m.CreatedAt,
	}
}
