// internal/app/system/sessionauth/issuer.go
package sessionauth

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dalemusser/terragon/internal/domain/models"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

const (
	isAuthKey = "is_authenticated"
	userName  = "user_name"
	userRoles = "user_roles"
)

// DefaultMaxAge is how long a minted session cookie stays valid, in seconds.
const DefaultMaxAge = 86400 * 7

// UserCtx identifies the holder of a session.
type UserCtx struct {
	Name  string         `json:"name"`
	Roles models.RoleSet `json:"roles"`
}

// Context is the authenticated-session context returned to the caller.
type Context struct {
	OK      bool    `json:"ok"`
	UserCtx UserCtx `json:"userCtx"`
}

// Issuer mints and reads signed session cookies. Nothing is stored server-side.
type Issuer struct {
	name   string
	codecs []securecookie.Codec
	opts   *sessions.Options
}

// NewIssuer builds an Issuer signing with sessionKey.
//
// In production (secure=true), cookies are Secure + SameSite=None so a
// cross-origin front end can send them back. In local dev use secure=false.
func NewIssuer(name, sessionKey string, secure bool, logger *zap.Logger) (*Issuer, error) {
	if sessionKey == "" {
		return nil, fmt.Errorf("session key is empty; provide ≥32 random chars")
	}
	if len(sessionKey) < 32 {
		logger.Warn("session key is short; 32+ chars recommended",
			zap.Int("length", len(sessionKey)))
	}

	opts := &sessions.Options{
		Path:     "/",
		MaxAge:   DefaultMaxAge,
		Secure:   secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if secure {
		opts.SameSite = http.SameSiteNoneMode
	}

	codecs := securecookie.CodecsFromPairs([]byte(sessionKey))
	for _, c := range codecs {
		if sc, ok := c.(*securecookie.SecureCookie); ok {
			sc.MaxAge(opts.MaxAge)
		}
	}

	return &Issuer{name: name, codecs: codecs, opts: opts}, nil
}

// Name returns the cookie name.
func (i *Issuer) Name() string { return i.name }

// Issue mints a cookie for u.
func (i *Issuer) Issue(u UserCtx) (*http.Cookie, error) {
	values := map[any]any{
		isAuthKey: true,
		userName:  u.Name,
		userRoles: []string(u.Roles),
	}
	encoded, err := securecookie.EncodeMulti(i.name, values, i.codecs...)
	if err != nil {
		return nil, fmt.Errorf("encode session: %w", err)
	}
	return sessions.NewCookie(i.name, encoded, i.opts), nil
}

// Read verifies a cookie value minted by Issue and returns its holder.
func (i *Issuer) Read(value string) (UserCtx, error) {
	values := map[any]any{}
	if err := securecookie.DecodeMulti(i.name, value, &values, i.codecs...); err != nil {
		return UserCtx{}, fmt.Errorf("decode session: %w", err)
	}
	if ok, _ := values[isAuthKey].(bool); !ok {
		return UserCtx{}, errors.New("session is not authenticated")
	}
	name, _ := values[userName].(string)
	roles, _ := values[userRoles].([]string)
	return UserCtx{Name: name, Roles: models.RoleSet(roles)}, nil
}
