// internal/domain/models/roles.go
package models

// Membership roles. A role set is always one of the states built below.
const (
	RolePendingMember  = "pending_member"
	RoleMember         = "member"
	RoleFreeloader     = "freeloader"
	RoleFoundingMember = "founding_member"
)

// RoleSet is the list of role tags on a User or Profile document.
type RoleSet []string

// Has reports whether role is in the set.
func (rs RoleSet) Has(role string) bool {
	for _, r := range rs {
		if r == role {
			return true
		}
	}
	return false
}

// PendingRoles is assigned at signup.
func PendingRoles() RoleSet { return RoleSet{RolePendingMember, RoleMember} }

// FreeloaderRoles is assigned after an invite is redeemed.
func FreeloaderRoles() RoleSet { return RoleSet{RoleMember, RoleFreeloader} }

// FoundingRoles is assigned after the founding-member payment succeeds.
func FoundingRoles() RoleSet { return RoleSet{RoleMember, RoleFoundingMember} }
