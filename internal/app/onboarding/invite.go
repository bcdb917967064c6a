package onboarding

import (
	"context"
	"errors"
	"fmt"

	"github.com/dalemusser/terragon/internal/app/store/docstore"
	"github.com/dalemusser/terragon/internal/app/system/metrics"
	"github.com/dalemusser/terragon/internal/domain/models"
	"go.uber.org/zap"
)

// RedeemInvite moves a pending member to the freeloader tier using an
// unredeemed invite code.
func (s *Service) RedeemInvite(ctx context.Context, name, code string) (*WriteResult, error) {
	res, err := s.redeemInvite(ctx, name, code)
	metrics.ObserveWorkflow("invite", resultLabel(res, err))
	return res, err
}

func (s *Service) redeemInvite(ctx context.Context, name, code string) (*WriteResult, error) {
	user, err := s.users.Get(ctx, models.UserKey(name))
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, ErrNoUser
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if !user.Roles.Has(models.RolePendingMember) {
		return nil, ErrIneligible
	}

	profile, err := s.profileFor(ctx, name)
	if err != nil {
		return nil, err
	}

	invite, err := s.invites.Get(ctx, code)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, ErrNoInvite
	}
	if err != nil {
		return nil, fmt.Errorf("get invite: %w", err)
	}
	if invite.Redeemed() {
		return nil, ErrAlreadyRedeemed
	}

	now := s.now()
	invite.RedeemedBy = profile.ID
	invite.RedeemedAt = &now
	user.Roles = models.FreeloaderRoles()
	user.UpdatedAt = now
	profile.Roles = models.FreeloaderRoles()
	profile.UpdatedAt = now

	res := s.writeAll(ctx, "invite",
		write(s.users, user), write(s.profiles, profile), write(s.invites, invite))

	s.log.Info("invite redeemed",
		zap.String("user", user.ID),
		zap.String("invite", invite.ID),
		zap.Bool("partial", res.Failed()))
	return res, nil
}

// profileFor loads the member's profile, or starts a new one when a
// previous signup stopped before writing it.
func (s *Service) profileFor(ctx context.Context, name string) (*models.Profile, error) {
	p, err := s.profiles.Get(ctx, name)
	if errors.Is(err, docstore.ErrNotFound) {
		now := s.now()
		return &models.Profile{ID: name, CreatedAt: now, UpdatedAt: now}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return p, nil
}

func resultLabel(res *WriteResult, err error) string {
	switch {
	case err != nil:
		if code, ok := AsCode(err); ok {
			return code
		}
		var ip *IncompletePaymentError
		if errors.As(err, &ip) {
			return "incomplete"
		}
		return "error"
	case res != nil && res.Failed():
		return "partial"
	}
	return "ok"
}
