// internal/domain/models/collections.go
package models

// Logical collections. The supervisor provisions one store client per name.
const (
	UsersCollection      = "users"
	ProfilesCollection   = "user_profiles"
	InvitesCollection    = "invites"
	SystemInfoCollection = "system_info"
)

// AllCollections lists every logical collection in provisioning order.
func AllCollections() []string {
	return []string{UsersCollection, ProfilesCollection, InvitesCollection, SystemInfoCollection}
}
