package onboarding

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/dalemusser/terragon/internal/app/store/docstore"
	"github.com/dalemusser/terragon/internal/app/system/credentials"
	"github.com/dalemusser/terragon/internal/app/system/inputval"
	"github.com/dalemusser/terragon/internal/app/system/metrics"
	"github.com/dalemusser/terragon/internal/app/system/sessionauth"
	"github.com/dalemusser/terragon/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// SignupResult is what a completed signup hands back to the caller.
type SignupResult struct {
	Session sessionauth.Context
	Profile *models.Profile
	Cookie  *http.Cookie
}

// Signup registers a validated member. Each step waits for the previous one.
// If a later step fails the User document stays behind as pending_member.
func (s *Service) Signup(ctx context.Context, in *models.Signup) (*SignupResult, error) {
	res, err := s.signup(ctx, in)
	if err != nil {
		metrics.ObserveWorkflow("signup", "error")
		return nil, err
	}
	metrics.ObserveWorkflow("signup", "ok")
	return res, nil
}

func (s *Service) signup(ctx context.Context, in *models.Signup) (*SignupResult, error) {
	password := in.Password
	in.PasswordConfirm = ""

	hash, err := sessionauth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	user, err := s.users.Upsert(ctx, &models.User{
		ID:           models.UserKey(in.Name),
		Type:         models.UserType,
		Name:         in.Name,
		PersonName:   in.PersonName,
		Email:        in.Email,
		Phone:        in.Phone,
		Roles:        models.PendingRoles(),
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if errors.Is(err, docstore.ErrConflict) {
		return nil, &ValidationError{Fields: []inputval.FieldError{{Field: "name", Message: inputval.MsgExists}}}
	}
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	customer, err := s.payments.CreateCustomer(ctx, user.Email, map[string]string{"userId": user.ID})
	if err != nil {
		s.log.Warn("signup stopped after user write", zap.String("user", user.ID), zap.Error(err))
		return nil, fmt.Errorf("create billing customer: %w", err)
	}
	user.StripeID = customer.ID
	user.UpdatedAt = s.now()
	if user, err = s.users.Upsert(ctx, user); err != nil {
		return nil, fmt.Errorf("attach billing customer: %w", err)
	}

	profile, err := s.profiles.Upsert(ctx, &models.Profile{
		ID:        in.Name,
		Roles:     models.PendingRoles(),
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, fmt.Errorf("create profile: %w", err)
	}

	session, cookie, err := sessionauth.Elevate(ctx, s.verifier, s.issuer, credentials.Member(in.Name, password))
	if err != nil {
		return nil, fmt.Errorf("elevated login: %w", err)
	}

	s.log.Info("member signed up", zap.String("user", user.ID), zap.String("stripe_id", user.StripeID))
	return &SignupResult{Session: session, Profile: profile, Cookie: cookie}, nil
}

// UserExists reports whether an identity document has the given name.
func (s *Service) UserExists(ctx context.Context, name string) (bool, error) {
	docs, err := s.users.Find(ctx, bson.M{"name": name})
	if err != nil {
		return false, fmt.Errorf("find user: %w", err)
	}
	return len(docs) > 0, nil
}
