package docstore_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/dalemusser/terragon/internal/app/store/docstore"
	"github.com/dalemusser/terragon/internal/app/system/credentials"
	"github.com/dalemusser/terragon/internal/domain/models"
	"github.com/dalemusser/terragon/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
)

func TestNextRev(t *testing.T) {
	re := regexp.MustCompile(`^[0-9]+-[0-9a-f]{16}$`)

	tests := []struct {
		prev    string
		wantGen string
	}{
		{"", "1-"},
		{"1-0123456789abcdef", "2-"},
		{"41-ffff", "42-"},
		{"garbage", "1-"},
	}
	for _, tt := range tests {
		got := docstore.NextRev(tt.prev)
		if !re.MatchString(got) {
			t.Errorf("NextRev(%q) = %q, bad format", tt.prev, got)
		}
		if got[:len(tt.wantGen)] != tt.wantGen {
			t.Errorf("NextRev(%q) = %q, want prefix %q", tt.prev, got, tt.wantGen)
		}
	}
	if docstore.NextRev("1-a") == docstore.NextRev("1-a") {
		t.Error("NextRev returned the same suffix twice")
	}
}

func newUsers(t *testing.T) *docstore.Collection[models.User, *models.User] {
	t.Helper()
	db := testutil.SetupTestDB(t)
	return docstore.NewCollection[models.User](db, models.UsersCollection)
}

func testUser(name string) *models.User {
	now := time.Now().UTC().Truncate(time.Millisecond)
	return &models.User{
		ID:         models.UserKey(name),
		Type:       models.UserType,
		Name:       name,
		PersonName: "Test " + name,
		Email:      name + "@example.com",
		Roles:      models.PendingRoles(),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func TestCollection_GetMissing(t *testing.T) {
	users := newUsers(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := users.Get(ctx, models.UserKey("nobody"))
	if !errors.Is(err, docstore.ErrNotFound) {
		t.Errorf("Get missing: got %v, want ErrNotFound", err)
	}
}

func TestCollection_UpsertRevisions(t *testing.T) {
	users := newUsers(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	in := testUser("alice1")
	created, err := users.Upsert(ctx, in)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if in.Rev != "" {
		t.Error("Upsert modified the caller's document")
	}
	if created.Rev == "" || created.Rev[:2] != "1-" {
		t.Errorf("created rev = %q", created.Rev)
	}

	// Creating the same key again conflicts.
	if _, err := users.Upsert(ctx, testUser("alice1")); !errors.Is(err, docstore.ErrConflict) {
		t.Errorf("duplicate create: got %v, want ErrConflict", err)
	}

	got, err := users.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	got.StripeID = "cus_1"
	updated, err := users.Upsert(ctx, got)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Rev[:2] != "2-" {
		t.Errorf("updated rev = %q", updated.Rev)
	}

	// got still carries the old revision.
	got.Email = "other@example.com"
	if _, err := users.Upsert(ctx, got); !errors.Is(err, docstore.ErrConflict) {
		t.Errorf("stale update: got %v, want ErrConflict", err)
	}

	final, err := users.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if final.StripeID != "cus_1" || final.Email != "alice1@example.com" {
		t.Errorf("final = %+v", final)
	}
}

func TestCollection_Find(t *testing.T) {
	users := newUsers(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	for _, n := range []string{"bob22", "carol3"} {
		if _, err := users.Upsert(ctx, testUser(n)); err != nil {
			t.Fatalf("seed %s: %v", n, err)
		}
	}

	found, err := users.Find(ctx, bson.M{"name": "bob22"})
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(found) != 1 || found[0].Name != "bob22" {
		t.Errorf("Find by name = %+v", found)
	}

	none, err := users.Find(ctx, bson.M{"email": "nobody@example.com"})
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("Find no match = %d docs", len(none))
	}
}

func TestCollection_ProbeEmpty(t *testing.T) {
	users := newUsers(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := users.Probe(ctx); err != nil {
		t.Errorf("Probe on empty collection: %v", err)
	}
}

func TestDial_SpentCredentials(t *testing.T) {
	creds := credentials.NewOneShot(credentials.Credentials{})
	if _, err := creds.Take(); err != nil {
		t.Fatalf("Take: %v", err)
	}

	_, err := docstore.Dial(context.Background(), docstore.Config{URI: testutil.MongoURI(), Database: "x"}, creds)
	if !errors.Is(err, credentials.ErrSpent) {
		t.Errorf("Dial with spent creds: got %v, want ErrSpent", err)
	}
}

func TestSession_ReadyAfterSystemInfo(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	sess, err := docstore.Dial(ctx, docstore.Config{URI: testutil.MongoURI(), Database: db.Name()},
		credentials.NewOneShot(credentials.Credentials{}))
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer sess.Close(ctx)

	if err := sess.Ready(ctx); err == nil {
		t.Error("Ready succeeded before the system info document exists")
	}
	if err := sess.EnsureSystemInfo(ctx, "terragon"); err != nil {
		t.Fatalf("EnsureSystemInfo: %v", err)
	}
	if err := sess.EnsureSystemInfo(ctx, "terragon"); err != nil {
		t.Fatalf("second EnsureSystemInfo: %v", err)
	}
	if err := sess.Ready(ctx); err != nil {
		t.Errorf("Ready: %v", err)
	}

	probes := sess.Probes()
	if len(probes) != len(models.AllCollections()) {
		t.Errorf("got %d probes, want %d", len(probes), len(models.AllCollections()))
	}
	for name, p := range probes {
		if err := p(ctx); err != nil {
			t.Errorf("probe %s: %v", name, err)
		}
	}
}
