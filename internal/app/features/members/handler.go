// internal/app/features/members/handler.go
package members

import (
	"context"

	"github.com/dalemusser/terragon/internal/app/onboarding"
	"github.com/dalemusser/terragon/internal/app/system/inputval"
	"github.com/dalemusser/terragon/internal/domain/models"
	"go.uber.org/zap"
)

// Workflows is the onboarding surface the handlers drive.
// *onboarding.Service satisfies it.
type Workflows interface {
	UserExists(ctx context.Context, name string) (bool, error)
	Signup(ctx context.Context, in *models.Signup) (*onboarding.SignupResult, error)
	RedeemInvite(ctx context.Context, name, code string) (*onboarding.WriteResult, error)
	FoundingPayment(ctx context.Context, name string, in models.FoundingMemberPayment) (*onboarding.WriteResult, error)
}

// SignupValidator checks a signup body. *inputval.Pipeline satisfies it.
type SignupValidator interface {
	Validate(ctx context.Context, s *models.Signup) ([]inputval.FieldError, error)
}

// Handler serves the /user endpoints. It is rebuilt for every live store
// session, so it never outlives the clients it was given.
type Handler struct {
	Svc       Workflows
	Validator SignupValidator
	Log       *zap.Logger
}

func NewHandler(svc Workflows, v SignupValidator, logger *zap.Logger) *Handler {
	return &Handler{
		Svc:       svc,
		Validator: v,
		Log:       logger,
	}
}
