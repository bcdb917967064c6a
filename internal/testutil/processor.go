package testutil

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/dalemusser/terragon/internal/app/system/payments"
)

// FakeProcessor is an in-memory payments.Processor that records every call.
type FakeProcessor struct {
	mu        sync.Mutex
	customers map[string]*payments.Customer
	calls     []string
	intents   []payments.IntentRequest
	attached  map[string]string
	seq       int

	intentStatus string

	customerErr error
	intentErr   error
}

// NewFakeProcessor returns a processor with no customers.
func NewFakeProcessor() *FakeProcessor {
	return &FakeProcessor{
		customers:    map[string]*payments.Customer{},
		attached:     map[string]string{},
		intentStatus: payments.IntentSucceeded,
	}
}

// IntentStatus sets the status returned by later payment intents,
// for example "requires_action".
func (f *FakeProcessor) IntentStatus(status string) {
	f.mu.Lock()
	f.intentStatus = status
	f.mu.Unlock()
}

// Decline makes every payment intent fail with a card_declined error.
func (f *FakeProcessor) Decline() {
	f.mu.Lock()
	defer f.mu.Unlock()
	body, _ := json.Marshal(map[string]any{"error": map[string]any{
		"type": "card_error", "code": "card_declined", "message": "Your card was declined.",
	}})
	f.intentErr = &payments.ProcessorError{Status: http.StatusPaymentRequired, Body: body}
}

// FailCustomers makes CreateCustomer return err.
func (f *FakeProcessor) FailCustomers(err error) {
	f.mu.Lock()
	f.customerErr = err
	f.mu.Unlock()
}

// AddCustomer registers an existing customer with the given number of sources.
func (f *FakeProcessor) AddCustomer(id string, sources int) {
	f.mu.Lock()
	f.customers[id] = &payments.Customer{ID: id, SourceCount: sources}
	f.mu.Unlock()
}

// Calls returns the names of every method called, in order.
func (f *FakeProcessor) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// Intents returns every payment intent request received.
func (f *FakeProcessor) Intents() []payments.IntentRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]payments.IntentRequest(nil), f.intents...)
}

// AttachedTo returns the customer a payment method was attached to.
func (f *FakeProcessor) AttachedTo(methodID string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.attached[methodID]
	return c, ok
}

// Customer returns a customer by id.
func (f *FakeProcessor) Customer(id string) (*payments.Customer, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.customers[id]
	return c, ok
}

func (f *FakeProcessor) next(prefix string) string {
	f.seq++
	return fmt.Sprintf("%s_%d", prefix, f.seq)
}

func (f *FakeProcessor) CreateCustomer(ctx context.Context, email string, metadata map[string]string) (*payments.Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "CreateCustomer")
	if f.customerErr != nil {
		return nil, f.customerErr
	}
	c := &payments.Customer{ID: f.next("cus"), Email: email}
	f.customers[c.ID] = c
	out := *c
	return &out, nil
}

func (f *FakeProcessor) RetrieveCustomer(ctx context.Context, id string) (*payments.Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "RetrieveCustomer")
	c, ok := f.customers[id]
	if !ok {
		return nil, missingCustomer()
	}
	out := *c
	return &out, nil
}

func missingCustomer() error {
	return &payments.ProcessorError{
		Status: http.StatusNotFound,
		Body:   json.RawMessage(`{"error":{"type":"invalid_request_error","code":"resource_missing"}}`),
	}
}

func (f *FakeProcessor) CreatePaymentMethod(ctx context.Context, card payments.Card) (*payments.PaymentMethod, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "CreatePaymentMethod")
	return &payments.PaymentMethod{ID: f.next("pm")}, nil
}

// AttachPaymentMethod counts the method as a source on the customer.
func (f *FakeProcessor) AttachPaymentMethod(ctx context.Context, methodID, customerID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "AttachPaymentMethod")
	c, ok := f.customers[customerID]
	if !ok {
		return missingCustomer()
	}
	c.SourceCount++
	f.attached[methodID] = customerID
	return nil
}

func (f *FakeProcessor) CreatePaymentIntent(ctx context.Context, req payments.IntentRequest) (*payments.PaymentIntent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "CreatePaymentIntent")
	f.intents = append(f.intents, req)
	if f.intentErr != nil {
		return nil, f.intentErr
	}
	return &payments.PaymentIntent{
		ID:       f.next("pi"),
		Status:   f.intentStatus,
		Amount:   req.Amount,
		Currency: req.Currency,
	}, nil
}
