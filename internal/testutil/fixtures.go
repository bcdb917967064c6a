package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/terragon/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		rctx = chi.NewRouteContext()
	}
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Store bundles one in-memory collection per logical collection.
type Store struct {
	Users      *MemCollection[models.User, *models.User]
	Profiles   *MemCollection[models.Profile, *models.Profile]
	Invites    *MemCollection[models.Invite, *models.Invite]
	SystemInfo *MemCollection[models.SystemInfo, *models.SystemInfo]
}

// NewStore returns an empty in-memory Store.
func NewStore() *Store {
	return &Store{
		Users:      NewMemCollection[models.User](models.UsersCollection),
		Profiles:   NewMemCollection[models.Profile](models.ProfilesCollection),
		Invites:    NewMemCollection[models.Invite](models.InvitesCollection),
		SystemInfo: NewMemCollection[models.SystemInfo](models.SystemInfoCollection),
	}
}

// Fixtures seeds documents into a Store.
type Fixtures struct {
	t     *testing.T
	store *Store
}

// NewFixtures creates a Fixtures for store.
func NewFixtures(t *testing.T, store *Store) *Fixtures {
	t.Helper()
	return &Fixtures{t: t, store: store}
}

// CreateMember seeds a User and matching Profile with the given roles.
// stripeID may be empty for a user without a billing customer.
func (f *Fixtures) CreateMember(name string, roles models.RoleSet, stripeID string) (*models.User, *models.Profile) {
	f.t.Helper()

	now := time.Now().UTC()
	u := f.store.Users.Put(&models.User{
		ID:         models.UserKey(name),
		Type:       models.UserType,
		Name:       name,
		PersonName: "Test " + name,
		Email:      name + "@example.com",
		Roles:      append(models.RoleSet(nil), roles...),
		StripeID:   stripeID,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	p := f.store.Profiles.Put(&models.Profile{
		ID:        name,
		Roles:     append(models.RoleSet(nil), roles...),
		CreatedAt: now,
		UpdatedAt: now,
	})
	return u, p
}

// CreateInvite seeds an invite code. redeemedBy may be empty.
func (f *Fixtures) CreateInvite(code, createdBy, redeemedBy string) *models.Invite {
	f.t.Helper()

	inv := &models.Invite{
		ID:            code,
		CreatedByUser: createdBy,
		RedeemedBy:    redeemedBy,
		CreatedAt:     time.Now().UTC(),
	}
	if redeemedBy != "" {
		at := inv.CreatedAt
		inv.RedeemedAt = &at
	}
	return f.store.Invites.Put(inv)
}
