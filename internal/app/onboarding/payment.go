package onboarding

import (
	"context"
	"errors"
	"fmt"

	"github.com/dalemusser/terragon/internal/app/store/docstore"
	"github.com/dalemusser/terragon/internal/app/system/inputval"
	"github.com/dalemusser/terragon/internal/app/system/metrics"
	"github.com/dalemusser/terragon/internal/app/system/payments"
	"github.com/dalemusser/terragon/internal/domain/models"
	"go.uber.org/zap"
)

// FoundingPayment takes a one-time contribution, promotes the member to the
// founding tier and issues them a fresh invite code. Processor errors are
// returned as *payments.ProcessorError and are never retried. An intent that
// does not succeed outright comes back as *IncompletePaymentError and nothing
// is promoted.
func (s *Service) FoundingPayment(ctx context.Context, name string, in models.FoundingMemberPayment) (*WriteResult, error) {
	res, err := s.foundingPayment(ctx, name, in)
	metrics.ObserveWorkflow("payment", resultLabel(res, err))
	return res, err
}

func (s *Service) foundingPayment(ctx context.Context, name string, in models.FoundingMemberPayment) (*WriteResult, error) {
	user, err := s.users.Get(ctx, models.UserKey(name))
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, ErrNoUser
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if !user.HasCommerceAccount() {
		return nil, ErrNoCommerceAccount
	}
	amount, err := payments.AmountInCents(in.Contribution)
	if err != nil {
		return nil, &ValidationError{Fields: []inputval.FieldError{{Field: "contribution", Message: inputval.MsgInvalid}}}
	}

	customer, err := s.payments.RetrieveCustomer(ctx, user.StripeID)
	if err != nil {
		return nil, fmt.Errorf("retrieve customer: %w", err)
	}
	if customer.SourceCount > 0 {
		return nil, ErrCardAlreadyAdded
	}

	method, err := s.payments.CreatePaymentMethod(ctx, payments.Card{
		Number:   in.CCNumber,
		ExpMonth: in.CCExpMonth,
		ExpYear:  in.CCExpYear,
		CVC:      in.CCCVC,
	})
	if err != nil {
		return nil, fmt.Errorf("create payment method: %w", err)
	}
	if err := s.payments.AttachPaymentMethod(ctx, method.ID, customer.ID); err != nil {
		return nil, fmt.Errorf("attach payment method: %w", err)
	}

	intent, err := s.payments.CreatePaymentIntent(ctx, payments.IntentRequest{
		Currency:        payments.CurrencyUSD,
		Amount:          amount,
		CustomerID:      customer.ID,
		PaymentMethodID: method.ID,
	})
	if err != nil {
		return nil, fmt.Errorf("create payment intent: %w", err)
	}
	if intent.Status != payments.IntentSucceeded {
		s.log.Info("founding payment not settled",
			zap.String("user", user.ID),
			zap.String("intent", intent.ID),
			zap.String("status", intent.Status))
		return nil, &IncompletePaymentError{Intent: intent}
	}

	profile, err := s.profileFor(ctx, name)
	if err != nil {
		return nil, err
	}

	now := s.now()
	user.Roles = models.FoundingRoles()
	user.UpdatedAt = now
	profile.Roles = models.FoundingRoles()
	profile.UpdatedAt = now
	invite := &models.Invite{
		ID:            s.newCode(),
		CreatedByUser: user.ID,
		CreatedAt:     now,
	}

	res := s.writeAll(ctx, "payment",
		write(s.users, user), write(s.profiles, profile), write(s.invites, invite))

	s.log.Info("founding payment taken",
		zap.String("user", user.ID),
		zap.String("intent", intent.ID),
		zap.Int64("amount", intent.Amount),
		zap.String("new_invite", invite.ID),
		zap.Bool("partial", res.Failed()))
	return res, nil
}
