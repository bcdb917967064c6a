// internal/domain/models/user.go
package models

import (
	"time"
)

// UserKeyPrefix namespaces identity documents so a username can never collide
// with another document key in the users collection.
const UserKeyPrefix = "org.terragon.user:"

// UserType is the fixed "type" value written on every identity document.
const UserType = "user"

// UserKey derives the identity-collection key for a username.
func UserKey(name string) string {
	return UserKeyPrefix + name
}

// User is an identity document in the users collection.
//
// NOTE:
//   - PasswordHash is write-only. It is never serialized to JSON and the API
//     surface never reads it back except to verify an elevated login.
//   - StripeID stays empty until the billing customer is provisioned.
type User struct {
	ID           string  `bson:"_id" json:"_id"`
	Rev          string  `bson:"_rev,omitempty" json:"_rev,omitempty"`
	Type         string  `bson:"type" json:"type"`
	Name         string  `bson:"name" json:"name"`               // username / handle
	PersonName   string  `bson:"person_name" json:"person_name"` // display name
	Email        string  `bson:"email" json:"email"`
	Phone        string  `bson:"phone,omitempty" json:"phone,omitempty"` // international format once validated
	Roles        RoleSet `bson:"roles" json:"roles"`
	PasswordHash string  `bson:"password_hash,omitempty" json:"-"`
	StripeID     string  `bson:"stripe_id,omitempty" json:"stripe_id,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

func (u *User) DocID() string        { return u.ID }
func (u *User) DocRev() string       { return u.Rev }
func (u *User) SetDocRev(rev string) { u.Rev = rev }

// HasCommerceAccount reports whether a billing customer was provisioned.
func (u *User) HasCommerceAccount() bool {
	return u.StripeID != ""
}
