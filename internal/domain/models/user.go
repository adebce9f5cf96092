// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Canonical role identifiers. Role is fixed at registration.
const (
	RoleDirector = "director"
	RoleProducer = "producer"
)

// Roles is the full set of allowed user roles.
var Roles = []string{RoleDirector, RoleProducer}

// IsValidRole reports whether r is one of Roles.
func IsValidRole(r string) bool {
	for _, v := range Roles {
		if r == v {
			return true
		}
	}
	return false
}

// User represents directors and producers.
//
// NOTE:
//   - Email is stored lowercased and is unique across all users.
//   - PasswordHash never leaves the server; it has no JSON name.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	NameCI       string             `bson:"name_ci" json:"-"` // lowercase, diacritics-stripped
	Email        string             `bson:"email" json:"email"`
	Phone        string             `bson:"phone" json:"phone"`
	Role         string             `bson:"role" json:"role"` // director | producer
	PasswordHash string             `bson:"password_hash" json:"-"`
	Bio          string             `bson:"bio,omitempty" json:"bio,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// IsDirector returns true if this user uploads stories.
func (u *User) IsDirector() bool {
	return u.Role == RoleDirector
}

// DirectorInfo is the public slice of a User that is joined onto story listings.
type DirectorInfo struct {
	ID    primitive.ObjectID `bson:"_id" json:"id"`
	Name  string             `bson:"name" json:"name"`
	Email string             `bson:"email" json:"email"`
	Phone string             `bson:"phone" json:"phone,omitempty"`
	Bio   string             `bson:"bio,omitempty" json:"bio,omitempty"`
}
