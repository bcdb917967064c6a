// internal/app/system/credentials/credentials.go
package credentials

import (
	"errors"
	"sync"
)

// ErrSpent is returned when a OneShot has already handed out its credentials.
var ErrSpent = errors.New("credentials already taken")

// Credentials is a username/password pair.
type Credentials struct {
	Username string
	Password string
}

// OneShot hands out its credentials exactly once and then forgets them.
// It is safe for concurrent use.
type OneShot struct {
	mu    sync.Mutex
	creds *Credentials
}

// NewOneShot wraps c in a single-use supplier.
func NewOneShot(c Credentials) *OneShot {
	return &OneShot{creds: &c}
}

// Take returns the credentials on the first call and ErrSpent afterwards.
func (o *OneShot) Take() (Credentials, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.creds == nil {
		return Credentials{}, ErrSpent
	}
	c := *o.creds
	o.creds = nil
	return c, nil
}

// Supplier produces fresh single-use credentials for each connection attempt.
type Supplier struct {
	operator Credentials
}

// NewSupplier returns a Supplier for the operator account.
func NewSupplier(username, password string) *Supplier {
	return &Supplier{operator: Credentials{Username: username, Password: password}}
}

// Operator returns a new OneShot carrying the operator credentials.
// Each provisioning attempt takes its own.
func (s *Supplier) Operator() *OneShot {
	return NewOneShot(s.operator)
}

// Member returns a OneShot for an elevated re-authentication as name.
func Member(name, password string) *OneShot {
	return NewOneShot(Credentials{Username: name, Password: password})
}
