package validators_test

import (
	"testing"
	"time"

	"github.com/dalemusser/terragon/internal/app/system/validators"
	"github.com/dalemusser/terragon/internal/domain/models"
	"github.com/dalemusser/terragon/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
)

func TestEnsureAll_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("First EnsureAll failed: %v", err)
	}
	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("Second EnsureAll failed: %v", err)
	}
}

func TestEnsureAll_CreatesCollections(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	names, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		t.Fatalf("ListCollectionNames failed: %v", err)
	}
	have := make(map[string]bool, len(names))
	for _, n := range names {
		have[n] = true
	}
	for _, want := range models.AllCollections() {
		if !have[want] {
			t.Errorf("expected collection %q to exist", want)
		}
	}
}

func TestUsersValidator(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	valid := func() bson.M {
		return bson.M{
			"_id":         models.UserKey("alice1"),
			"_rev":        "1-0123456789abcdef",
			"type":        models.UserType,
			"name":        "alice1",
			"person_name": "Alice",
			"email":       "alice@example.com",
			"roles":       bson.A{models.RolePendingMember, models.RoleMember},
			"created_at":  time.Now().UTC(),
		}
	}

	tests := []struct {
		name    string
		mutate  func(bson.M)
		wantErr bool
	}{
		{"valid", func(bson.M) {}, false},
		{"missing rev", func(d bson.M) { delete(d, "_rev") }, true},
		{"bad rev", func(d bson.M) { d["_rev"] = "abc" }, true},
		{"unknown role", func(d bson.M) { d["roles"] = bson.A{"admin"} }, true},
		{"short name", func(d bson.M) { d["name"] = "ab" }, true},
		{"blank person name", func(d bson.M) { d["person_name"] = "   " }, true},
		{"wrong type", func(d bson.M) { d["type"] = "group" }, true},
	}
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := valid()
			doc["_id"] = models.UserKey("user" + string(rune('a'+i)))
			tt.mutate(doc)
			_, err := db.Collection(models.UsersCollection).InsertOne(ctx, doc)
			if (err != nil) != tt.wantErr {
				t.Errorf("InsertOne() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestInvitesValidator(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	c := db.Collection(models.InvitesCollection)
	now := time.Now().UTC()

	if _, err := c.InsertOne(ctx, bson.M{
		"_id":             "ABCDEF012345",
		"_rev":            "1-00ff",
		"created_by_user": models.UserKey("founder"),
		"created_at":      now,
	}); err != nil {
		t.Errorf("valid invite rejected: %v", err)
	}

	if _, err := c.InsertOne(ctx, bson.M{
		"_id":             "BADCREATOR00",
		"_rev":            "1-00ff",
		"created_by_user": "founder",
		"created_at":      now,
	}); err == nil {
		t.Error("invite with a bare creator name accepted")
	}

	if _, err := c.InsertOne(ctx, bson.M{
		"_id":  "NOCREATEDAT0",
		"_rev": "1-00ff",
	}); err == nil {
		t.Error("invite without created_at accepted")
	}
}
