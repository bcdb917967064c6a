// internal/app/store/docstore/session.go
package docstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/terragon/internal/app/system/credentials"
	"github.com/dalemusser/terragon/internal/app/system/timeouts"
	"github.com/dalemusser/terragon/internal/domain/models"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Config describes where the operator session connects.
type Config struct {
	URI         string
	Database    string
	MaxPoolSize uint64
	MinPoolSize uint64
}

// Session is one authenticated operator connection plus a store client per
// logical collection. All clients share the same underlying mongo.Client.
type Session struct {
	client *mongo.Client
	db     *mongo.Database

	Users      *Collection[models.User, *models.User]
	Profiles   *Collection[models.Profile, *models.Profile]
	Invites    *Collection[models.Invite, *models.Invite]
	SystemInfo *Collection[models.SystemInfo, *models.SystemInfo]
}

// Dial opens an operator session using the single-use credentials in creds
// and verifies it with a primary ping.
func Dial(ctx context.Context, cfg Config, creds *credentials.OneShot) (*Session, error) {
	c, err := creds.Take()
	if err != nil {
		return nil, err
	}

	opts := options.Client().ApplyURI(cfg.URI)
	if c.Username != "" {
		opts.SetAuth(options.Credential{Username: c.Username, Password: c.Password})
	}
	if cfg.MaxPoolSize > 0 {
		opts.SetMaxPoolSize(cfg.MaxPoolSize)
	}
	if cfg.MinPoolSize > 0 {
		opts.SetMinPoolSize(cfg.MinPoolSize)
	}
	opts.SetServerSelectionTimeout(timeouts.Probe())

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}

	pctx, cancel := context.WithTimeout(ctx, timeouts.Probe())
	defer cancel()
	if err := client.Ping(pctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping: %w", err)
	}

	return newSession(client, client.Database(cfg.Database)), nil
}

func newSession(client *mongo.Client, db *mongo.Database) *Session {
	return &Session{
		client:     client,
		db:         db,
		Users:      NewCollection[models.User](db, models.UsersCollection),
		Profiles:   NewCollection[models.Profile](db, models.ProfilesCollection),
		Invites:    NewCollection[models.Invite](db, models.InvitesCollection),
		SystemInfo: NewCollection[models.SystemInfo](db, models.SystemInfoCollection),
	}
}

// Database exposes the underlying database for schema setup.
func (s *Session) Database() *mongo.Database {
	return s.db
}

// Probes returns one liveness probe per logical collection, keyed by name.
func (s *Session) Probes() map[string]func(context.Context) error {
	return map[string]func(context.Context) error{
		s.Users.Name():      s.Users.Probe,
		s.Profiles.Name():   s.Profiles.Probe,
		s.Invites.Name():    s.Invites.Probe,
		s.SystemInfo.Name(): s.SystemInfo.Probe,
	}
}

// Ready reports whether the readiness document can be read.
func (s *Session) Ready(ctx context.Context) error {
	if _, err := s.SystemInfo.Get(ctx, models.SystemInfoID); err != nil {
		return fmt.Errorf("system info: %w", err)
	}
	return nil
}

// EnsureSystemInfo creates the readiness document if it does not exist yet.
func (s *Session) EnsureSystemInfo(ctx context.Context, name string) error {
	_, err := s.SystemInfo.Get(ctx, models.SystemInfoID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrNotFound) {
		return err
	}
	_, err = s.SystemInfo.Upsert(ctx, &models.SystemInfo{
		ID:        models.SystemInfoID,
		Name:      name,
		UpdatedAt: time.Now().UTC(),
	})
	if errors.Is(err, ErrConflict) {
		return nil
	}
	return err
}

// Close disconnects the operator session.
func (s *Session) Close(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Disconnect(ctx)
}
