// internal/app/store/docstore/collection.go
package docstore

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dalemusser/terragon/internal/app/system/timeouts"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrNotFound is returned by Get when no document has the key.
	ErrNotFound = errors.New("document not found")
	// ErrConflict is returned by Upsert when the stored revision moved on
	// (or a create hit an existing key).
	ErrConflict = errors.New("document update conflict")
)

// Document is implemented by every type stored through a Collection.
type Document interface {
	DocID() string
	DocRev() string
	SetDocRev(rev string)
}

// Client is the contract one logical collection offers to the rest of the app.
// Find may return zero, one or many documents.
type Client[T any] interface {
	Get(ctx context.Context, key string) (*T, error)
	Find(ctx context.Context, selector bson.M) ([]*T, error)
	Upsert(ctx context.Context, doc *T) (*T, error)
	Probe(ctx context.Context) error
}

// Collection is the MongoDB-backed Client.
type Collection[T any, PT interface {
	*T
	Document
}] struct {
	c *mongo.Collection
}

// NewCollection binds a Collection to db.<name>.
func NewCollection[T any, PT interface {
	*T
	Document
}](db *mongo.Database, name string) *Collection[T, PT] {
	return &Collection[T, PT]{c: db.Collection(name)}
}

// Name returns the underlying collection name.
func (c *Collection[T, PT]) Name() string {
	return c.c.Name()
}

// Get loads a document by key. Returns ErrNotFound if absent.
func (c *Collection[T, PT]) Get(ctx context.Context, key string) (*T, error) {
	ctx, cancel := context.WithTimeout(ctx, timeouts.Store())
	defer cancel()

	var doc T
	if err := c.c.FindOne(ctx, bson.M{"_id": key}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%s: get %q: %w", c.Name(), key, err)
	}
	return &doc, nil
}

// Find returns every document matching selector.
func (c *Collection[T, PT]) Find(ctx context.Context, selector bson.M) ([]*T, error) {
	ctx, cancel := context.WithTimeout(ctx, timeouts.Store())
	defer cancel()

	cur, err := c.c.Find(ctx, selector)
	if err != nil {
		return nil, fmt.Errorf("%s: find: %w", c.Name(), err)
	}
	defer cur.Close(ctx)

	var out []*T
	for cur.Next(ctx) {
		var doc T
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("%s: decode: %w", c.Name(), err)
		}
		out = append(out, &doc)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("%s: find: %w", c.Name(), err)
	}
	return out, nil
}

// Upsert creates doc when it carries no revision, otherwise replaces the
// stored document only if its revision still matches. The saved copy with
// its new revision is returned; doc itself is left untouched.
func (c *Collection[T, PT]) Upsert(ctx context.Context, doc *T) (*T, error) {
	ctx, cancel := context.WithTimeout(ctx, timeouts.Store())
	defer cancel()

	saved := *doc
	sp := PT(&saved)
	prev := sp.DocRev()
	sp.SetDocRev(NextRev(prev))

	if prev == "" {
		if _, err := c.c.InsertOne(ctx, &saved); err != nil {
			if wafflemongo.IsDup(err) {
				return nil, ErrConflict
			}
			return nil, fmt.Errorf("%s: insert %q: %w", c.Name(), sp.DocID(), err)
		}
		return &saved, nil
	}

	res, err := c.c.ReplaceOne(ctx, bson.M{"_id": sp.DocID(), "_rev": prev}, &saved)
	if err != nil {
		return nil, fmt.Errorf("%s: replace %q: %w", c.Name(), sp.DocID(), err)
	}
	if res.MatchedCount == 0 {
		return nil, ErrConflict
	}
	return &saved, nil
}

// Probe confirms the operator session can read this collection.
// An empty collection is healthy.
func (c *Collection[T, PT]) Probe(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, timeouts.Probe())
	defer cancel()

	opts := options.FindOne().SetProjection(bson.M{"_id": 1})
	err := c.c.FindOne(ctx, bson.M{}, opts).Err()
	if err == nil || errors.Is(err, mongo.ErrNoDocuments) {
		return nil
	}
	return fmt.Errorf("%s: probe: %w", c.Name(), err)
}

// NextRev returns the revision that follows rev.
// Revisions look like "<generation>-<16 hex chars>".
func NextRev(rev string) string {
	gen := 0
	if head, _, ok := strings.Cut(rev, "-"); ok {
		if n, err := strconv.Atoi(head); err == nil {
			gen = n
		}
	}
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
	return strconv.Itoa(gen+1) + "-" + suffix
}
