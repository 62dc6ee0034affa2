package models

import "time"

// Role is the access level assigned to a user at registration.
type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleSeller Role = "seller"
	RoleAdmin  Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleBuyer, RoleSeller, RoleAdmin:
		return true
	}
	return false
}

// Can reports whether a user holding role r may perform an operation that
// requires the given role. Admin satisfies any seller-level requirement; an
// admin requirement is satisfied by admin only. Buyer-level operations are
// open to every authenticated user.
func (r Role) Can(required Role) bool {
	switch required {
	case RoleBuyer:
		return r.Valid()
	case RoleSeller:
		return r == RoleSeller || r == RoleAdmin
	case RoleAdmin:
		return r == RoleAdmin
	}
	return false
}

// User represents a registered account.
type User struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Username  string    `json:"username" gorm:"uniqueIndex;type:varchar(30)"`
	Email     string    `json:"email" gorm:"uniqueIndex;type:varchar(254)"`
	Password  string    `json:"-" gorm:"type:varchar(255)"` // bcrypt hash, never serialized
	Role      Role      `json:"role" gorm:"type:varchar(16)"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
