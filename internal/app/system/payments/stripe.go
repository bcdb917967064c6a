// internal/app/system/payments/stripe.go
package payments

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dalemusser/terragon/internal/app/system/timeouts"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"go.uber.org/zap"
)

// Stripe implements Processor against the Stripe API.
type Stripe struct {
	api *client.API
	log *zap.Logger
}

// NewStripe returns a Stripe processor using secretKey. baseURL overrides the
// API endpoint and is empty in production. Network retries are disabled.
func NewStripe(secretKey, baseURL string, logger *zap.Logger) *Stripe {
	cfg := &stripe.BackendConfig{
		HTTPClient:        &http.Client{Timeout: timeouts.Processor()},
		LeveledLogger:     logger.Sugar(),
		MaxNetworkRetries: stripe.Int64(0),
	}
	if baseURL != "" {
		cfg.URL = stripe.String(baseURL)
	}
	backend := stripe.GetBackendWithConfig(stripe.APIBackend, cfg)

	api := &client.API{}
	api.Init(secretKey, &stripe.Backends{API: backend, Connect: backend, Uploads: backend})
	return &Stripe{api: api, log: logger}
}

func (s *Stripe) CreateCustomer(ctx context.Context, email string, metadata map[string]string) (*Customer, error) {
	params := &stripe.CustomerParams{Email: stripe.String(email)}
	params.Context = ctx
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}
	c, err := s.api.Customers.New(params)
	if err != nil {
		return nil, s.wrap("create customer", err)
	}
	return toCustomer(c), nil
}

func (s *Stripe) RetrieveCustomer(ctx context.Context, id string) (*Customer, error) {
	params := &stripe.CustomerParams{}
	params.Context = ctx
	params.AddExpand("sources")
	c, err := s.api.Customers.Get(id, params)
	if err != nil {
		return nil, s.wrap("retrieve customer", err)
	}
	out := toCustomer(c)

	lp := &stripe.PaymentMethodListParams{
		Customer: stripe.String(id),
		Type:     stripe.String(string(stripe.PaymentMethodTypeCard)),
	}
	lp.Context = ctx
	lp.Limit = stripe.Int64(10)
	it := s.api.PaymentMethods.List(lp)
	for it.Next() {
		out.SourceCount++
	}
	if err := it.Err(); err != nil {
		return nil, s.wrap("list payment methods", err)
	}
	return out, nil
}

// AttachPaymentMethod links a card payment method to the customer so it is
// counted on the next RetrieveCustomer.
func (s *Stripe) AttachPaymentMethod(ctx context.Context, methodID, customerID string) error {
	params := &stripe.PaymentMethodAttachParams{Customer: stripe.String(customerID)}
	params.Context = ctx
	if _, err := s.api.PaymentMethods.Attach(methodID, params); err != nil {
		return s.wrap("attach payment method", err)
	}
	return nil
}

func (s *Stripe) CreatePaymentMethod(ctx context.Context, card Card) (*PaymentMethod, error) {
	cp := &stripe.PaymentMethodCardParams{
		Number:   stripe.String(card.Number),
		ExpMonth: stripe.Int64(card.ExpMonth),
		ExpYear:  stripe.Int64(card.ExpYear),
	}
	if card.CVC != "" {
		cp.CVC = stripe.String(card.CVC)
	}
	params := &stripe.PaymentMethodParams{
		Type: stripe.String(string(stripe.PaymentMethodTypeCard)),
		Card: cp,
	}
	params.Context = ctx
	pm, err := s.api.PaymentMethods.New(params)
	if err != nil {
		return nil, s.wrap("create payment method", err)
	}
	return &PaymentMethod{ID: pm.ID}, nil
}

func (s *Stripe) CreatePaymentIntent(ctx context.Context, req IntentRequest) (*PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(req.Amount),
		Currency:           stripe.String(req.Currency),
		Customer:           stripe.String(req.CustomerID),
		PaymentMethod:      stripe.String(req.PaymentMethodID),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Confirm:            stripe.Bool(true),
		SetupFutureUsage:   stripe.String(string(stripe.PaymentIntentSetupFutureUsageOffSession)),
	}
	params.Context = ctx
	pi, err := s.api.PaymentIntents.New(params)
	if err != nil {
		return nil, s.wrap("create payment intent", err)
	}
	return &PaymentIntent{
		ID:       pi.ID,
		Status:   string(pi.Status),
		Amount:   pi.Amount,
		Currency: string(pi.Currency),
	}, nil
}

func toCustomer(c *stripe.Customer) *Customer {
	out := &Customer{ID: c.ID, Email: c.Email}
	if c.Sources != nil {
		out.SourceCount = len(c.Sources.Data)
	}
	return out
}

// wrap turns a *stripe.Error into a ProcessorError; transport errors pass through.
func (s *Stripe) wrap(op string, err error) error {
	var se *stripe.Error
	if !errors.As(err, &se) {
		s.log.Warn("stripe call failed", zap.String("op", op), zap.Error(err))
		return err
	}
	var body []byte
	if se.LastResponse != nil && json.Valid(se.LastResponse.RawJSON) {
		body = se.LastResponse.RawJSON
	} else {
		var mErr error
		if body, mErr = json.Marshal(map[string]any{"error": se}); mErr != nil {
			body = []byte(`{"error":{"message":"unreadable processor error"}}`)
		}
	}
	s.log.Info("stripe rejected request",
		zap.String("op", op),
		zap.String("type", string(se.Type)),
		zap.String("code", string(se.Code)),
		zap.Int("status", se.HTTPStatusCode))
	return &ProcessorError{Status: se.HTTPStatusCode, Body: body}
}
