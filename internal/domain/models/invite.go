// internal/domain/models/invite.go
package models

import "time"

// Invite is a one-time code keyed by the code itself.
// Once RedeemedBy is set the code is permanently consumed.
type Invite struct {
	ID            string     `bson:"_id" json:"_id"`
	Rev           string     `bson:"_rev,omitempty" json:"_rev,omitempty"`
	CreatedByUser string     `bson:"created_by_user,omitempty" json:"created_by_user,omitempty"` // User key
	RedeemedBy    string     `bson:"redeemed_by,omitempty" json:"redeemed_by,omitempty"`         // Profile key
	CreatedAt     time.Time  `bson:"created_at" json:"created_at"`
	RedeemedAt    *time.Time `bson:"redeemed_at,omitempty" json:"redeemed_at,omitempty"`
}

func (i *Invite) DocID() string        { return i.ID }
func (i *Invite) DocRev() string       { return i.Rev }
func (i *Invite) SetDocRev(rev string) { i.Rev = rev }

// Redeemed reports whether the code has already been consumed.
func (i *Invite) Redeemed() bool {
	return i.RedeemedBy != ""
}
