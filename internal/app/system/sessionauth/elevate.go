// internal/app/system/sessionauth/elevate.go
package sessionauth

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/dalemusser/terragon/internal/app/store/docstore"
	"github.com/dalemusser/terragon/internal/app/system/credentials"
	"github.com/dalemusser/terragon/internal/domain/models"
	"golang.org/x/crypto/bcrypt"
)

// ErrBadCredentials is returned when the name or password does not match.
var ErrBadCredentials = errors.New("name or password is incorrect")

// ErrNoCookie is returned when authentication succeeded but no cookie was minted.
var ErrNoCookie = errors.New("authenticated without a session cookie")

// Verifier checks a name/password pair and returns the holder's roles.
type Verifier interface {
	Verify(ctx context.Context, name, password string) (models.RoleSet, error)
}

// HashPassword returns the bcrypt hash stored on an identity document.
func HashPassword(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// UserVerifier checks passwords against identity documents.
type UserVerifier struct {
	users docstore.Client[models.User]
}

func NewUserVerifier(users docstore.Client[models.User]) *UserVerifier {
	return &UserVerifier{users: users}
}

func (v *UserVerifier) Verify(ctx context.Context, name, password string) (models.RoleSet, error) {
	u, err := v.users.Get(ctx, models.UserKey(name))
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, ErrBadCredentials
	}
	if err != nil {
		return nil, err
	}
	if u.PasswordHash == "" || bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, ErrBadCredentials
	}
	return u.Roles, nil
}

// client is a single-use authenticated client. It signals authenticated
// first and delivers the cookie afterwards.
type client struct {
	authenticated chan struct{}
	cookie        chan *http.Cookie
	errc          chan error
	user          UserCtx
}

func login(ctx context.Context, v Verifier, iss *Issuer, creds *credentials.OneShot) *client {
	c := &client{
		authenticated: make(chan struct{}),
		cookie:        make(chan *http.Cookie, 1),
		errc:          make(chan error, 1),
	}
	go func() {
		cr, err := creds.Take()
		if err != nil {
			c.errc <- err
			return
		}
		roles, err := v.Verify(ctx, cr.Username, cr.Password)
		if err != nil {
			c.errc <- err
			return
		}
		c.user = UserCtx{Name: cr.Username, Roles: roles}
		close(c.authenticated)

		ck, err := iss.Issue(c.user)
		if err != nil {
			c.errc <- err
			return
		}
		c.cookie <- ck
	}()
	return c
}

// Elevate authenticates once with creds through an isolated client and
// returns the session context and cookie. It waits for the authenticated
// signal, then for a non-empty cookie. The client is discarded afterwards.
func Elevate(ctx context.Context, v Verifier, iss *Issuer, creds *credentials.OneShot) (Context, *http.Cookie, error) {
	c := login(ctx, v, iss, creds)

	select {
	case <-c.authenticated:
	case err := <-c.errc:
		return Context{}, nil, fmt.Errorf("elevate: %w", err)
	case <-ctx.Done():
		return Context{}, nil, ctx.Err()
	}

	select {
	case ck := <-c.cookie:
		if ck == nil || ck.Value == "" {
			return Context{}, nil, ErrNoCookie
		}
		return Context{OK: true, UserCtx: c.user}, ck, nil
	case err := <-c.errc:
		return Context{}, nil, fmt.Errorf("elevate: %w", err)
	case <-ctx.Done():
		return Context{}, nil, ctx.Err()
	}
}
