package domain

import "time"

// Privilege is the global role assigned to a member account.
type Privilege string

const (
	PrivilegeAdmin Privilege = "admin"
	PrivilegeUser  Privilege = "user"
	PrivilegeDemo  Privilege = "demo"
)

// Valid reports whether p is one of the known privilege levels.
func (p Privilege) Valid() bool {
	switch p {
	case PrivilegeAdmin, PrivilegeUser, PrivilegeDemo:
		return true
	}
	return false
}

// Member models an account in the tracker. Identity (ID) is immutable once
// created; privilege and profile fields are admin-mutable.
type Member struct {
	ID           string    `json:"id" bson:"_id,omitempty"`
	Name         string    `json:"name" bson:"name"`
	Email        string    `json:"email" bson:"email"`
	PasswordHash string    `json:"-" bson:"password_hash"`
	Privilege    Privilege `json:"privilege" bson:"privilege"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at"`
}

// IsAdmin reports whether the member holds the admin privilege.
func (m *Member) IsAdmin() bool {
	return m != nil && m.Privilege == PrivilegeAdmin
}
