// internal/app/onboarding/service.go
package onboarding

import (
	"strings"
	"time"

	"github.com/dalemusser/terragon/internal/app/store/docstore"
	"github.com/dalemusser/terragon/internal/app/system/payments"
	"github.com/dalemusser/terragon/internal/app/system/sessionauth"
	"github.com/dalemusser/terragon/internal/domain/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Stores are the store clients the workflows read and write. They are owned
// by the connection supervisor; the Service never creates or closes them.
type Stores struct {
	Users    docstore.Client[models.User]
	Profiles docstore.Client[models.Profile]
	Invites  docstore.Client[models.Invite]
}

// Service runs the signup, invite-redemption and founding-payment workflows.
// None of them is transactional: a failure part way through leaves earlier
// writes in place.
type Service struct {
	users    docstore.Client[models.User]
	profiles docstore.Client[models.Profile]
	invites  docstore.Client[models.Invite]

	payments payments.Processor
	verifier sessionauth.Verifier
	issuer   *sessionauth.Issuer
	log      *zap.Logger

	now     func() time.Time
	newCode func() string
}

// New builds a Service. Elevated re-authentication verifies against st.Users.
func New(st Stores, proc payments.Processor, issuer *sessionauth.Issuer, logger *zap.Logger) *Service {
	return &Service{
		users:    st.Users,
		profiles: st.Profiles,
		invites:  st.Invites,
		payments: proc,
		verifier: sessionauth.NewUserVerifier(st.Users),
		issuer:   issuer,
		log:      logger,
		now:      func() time.Time { return time.Now().UTC() },
		newCode:  NewInviteCode,
	}
}

// NewInviteCode returns a random 12-character invite code.
func NewInviteCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:12])
}
