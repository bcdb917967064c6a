// internal/domain/models/profile.go
package models

import "time"

// Profile holds per-member role data, separate from identity.
// Its key is the bare username and its Roles mirror the User's Roles.
type Profile struct {
	ID         string         `bson:"_id" json:"_id"`
	Rev        string         `bson:"_rev,omitempty" json:"_rev,omitempty"`
	Roles      RoleSet        `bson:"roles" json:"roles"`
	Attributes map[string]any `bson:"attributes,omitempty" json:"attributes,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

func (p *Profile) DocID() string        { return p.ID }
func (p *Profile) DocRev() string       { return p.Rev }
func (p *Profile) SetDocRev(rev string) { p.Rev = rev }
