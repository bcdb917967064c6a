// internal/app/system/payments/payments.go
package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// CurrencyUSD is the only currency founding payments are taken in.
const CurrencyUSD = "usd"

// Customer is the processor's billing customer.
type Customer struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	SourceCount int    `json:"source_count"` // legacy sources plus attached card payment methods
}

// Card holds the submitted card fields.
type Card struct {
	Number   string
	ExpMonth int64
	ExpYear  int64
	CVC      string
}

// PaymentMethod is a card attached at the processor.
type PaymentMethod struct {
	ID string `json:"id"`
}

// IntentRequest describes a payment intent. Amount is in minor units (cents).
type IntentRequest struct {
	Currency        string
	Amount          int64
	CustomerID      string
	PaymentMethodID string
}

// PaymentIntent is a created and confirmed intent.
type PaymentIntent struct {
	ID       string `json:"id"`
	Status   string `json:"status"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// Processor is the payment processor contract. Intents are always confirmed
// on creation.
type Processor interface {
	CreateCustomer(ctx context.Context, email string, metadata map[string]string) (*Customer, error)
	RetrieveCustomer(ctx context.Context, id string) (*Customer, error)
	CreatePaymentMethod(ctx context.Context, card Card) (*PaymentMethod, error)
	AttachPaymentMethod(ctx context.Context, methodID, customerID string) error
	CreatePaymentIntent(ctx context.Context, req IntentRequest) (*PaymentIntent, error)
}

// ProcessorError is an error reported by the processor itself. Body is the
// processor's JSON error, forwarded to callers untouched.
type ProcessorError struct {
	Status int
	Body   json.RawMessage
}

func (e *ProcessorError) Error() string {
	return fmt.Sprintf("payment processor error (status %d): %s", e.Status, e.Body)
}

// IntentSucceeded is the status of a confirmed intent whose charge went through.
const IntentSucceeded = "succeeded"

// MaxContribution is the largest whole-unit amount AmountInCents accepts.
const MaxContribution = 999999

// ErrAmountOutOfRange is returned for non-positive or oversized amounts.
var ErrAmountOutOfRange = errors.New("amount out of range")

// AmountInCents converts whole currency units to minor units.
func AmountInCents(units int64) (int64, error) {
	if units < 1 || units > MaxContribution {
		return 0, fmt.Errorf("%w: %d", ErrAmountOutOfRange, units)
	}
	return units * 100, nil
}
