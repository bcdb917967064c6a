// internal/app/system/validators/validators.go
package validators

import (
	"context"
	"errors"
	"strings"

	"github.com/dalemusser/terragon/internal/domain/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// EnsureAll creates the onboarding collections (if missing) and attaches
// JSON-Schema validators. Servers without collMod support are logged and skipped.
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	ensure := func(coll string, schema bson.M) {
		if _, err := ensureCollection(ctx, db, coll); err != nil {
			problems = append(problems, coll+": "+err.Error())
			return
		}
		if schema == nil {
			return
		}
		if err := setValidator(ctx, db, coll, schema); err != nil {
			if isNoSuchCommand(err) || isNotImplemented(err) {
				zap.L().Info("validator skipped (unsupported)", zap.String("collection", coll))
				return
			}
			problems = append(problems, coll+": "+err.Error())
		}
	}

	ensure(models.UsersCollection, usersSchema())
	ensure(models.ProfilesCollection, profilesSchema())
	ensure(models.InvitesCollection, invitesSchema())
	ensure(models.SystemInfoCollection, nil)

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

func collectionExists(ctx context.Context, db *mongo.Database, name string) (bool, error) {
	names, err := db.ListCollectionNames(ctx, bson.M{"name": name})
	if err != nil {
		return false, err
	}
	return len(names) > 0, nil
}

// ensureCollection returns created==true only if it actually created <name>.
func ensureCollection(ctx context.Context, db *mongo.Database, name string) (created bool, err error) {
	exists, listErr := collectionExists(ctx, db, name)
	if listErr == nil && exists {
		return false, nil
	}
	if err := db.CreateCollection(ctx, name); err != nil {
		if isNamespaceExistsErr(err) {
			return false, nil
		}
		zap.L().Warn("createCollection failed", zap.String("collection", name), zap.Error(err))
		return false, err
	}
	zap.L().Info("created collection", zap.String("collection", name))
	return true, nil
}

func setValidator(ctx context.Context, db *mongo.Database, name string, validator bson.M) error {
	cmd := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
		{Key: "validationLevel", Value: "moderate"},
		{Key: "validationAction", Value: "error"},
	}
	return db.RunCommand(ctx, cmd).Err()
}

/* ------------------------- error helpers ------------------------- */

func commandErrorMatches(err error, code int32, phrases ...string) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == code {
		return true
	}
	s := strings.ToLower(err.Error())
	for _, p := range phrases {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}

func isNamespaceExistsErr(err error) bool {
	return commandErrorMatches(err, 48, "already exists", "namespace exists")
}

func isNoSuchCommand(err error) bool {
	return commandErrorMatches(err, 59, "no such command")
}

func isNotImplemented(err error) bool {
	return commandErrorMatches(err, 115, "not implemented", "not supported")
}

/* ------------------------- JSON-Schema docs ---------------------- */

func rolesProperty() bson.M {
	return bson.M{
		"bsonType": "array",
		"items": bson.M{"enum": bson.A{
			models.RolePendingMember, models.RoleMember, models.RoleFreeloader, models.RoleFoundingMember,
		}},
	}
}

func revProperty() bson.M {
	return bson.M{"bsonType": "string", "pattern": "^[0-9]+-[0-9a-f]+$"}
}

func usersSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"_rev", "type", "name", "person_name", "email", "roles"},
			"properties": bson.M{
				"_rev":        revProperty(),
				"type":        bson.M{"enum": bson.A{models.UserType}},
				"name":        bson.M{"bsonType": "string", "minLength": 3, "pattern": "^[A-Za-z0-9_]+$"},
				"person_name": bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"},
				"email":       bson.M{"bsonType": "string", "minLength": 3},
				"phone":       bson.M{"bsonType": "string"},
				"roles":       rolesProperty(),
				"stripe_id":   bson.M{"bsonType": "string"},
			},
		},
	}
}

func profilesSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"_rev", "roles"},
			"properties": bson.M{
				"_rev":       revProperty(),
				"roles":      rolesProperty(),
				"attributes": bson.M{"bsonType": "object"},
			},
		},
	}
}

func invitesSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"_rev", "created_at"},
			"properties": bson.M{
				"_rev":            revProperty(),
				"created_by_user": bson.M{"bsonType": "string", "pattern": "^" + strings.ReplaceAll(models.UserKeyPrefix, ".", "\\.")},
				"redeemed_by":     bson.M{"bsonType": "string", "minLength": 1},
				"created_at":      bson.M{"bsonType": "date"},
				"redeemed_at":     bson.M{"bsonType": bson.A{"date", "null"}},
			},
		},
	}
}
