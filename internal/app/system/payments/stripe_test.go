package payments

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"go.uber.org/zap"
)

const declineBody = `{"error":{"type":"card_error","code":"card_declined",
	"decline_code":"generic_decline","message":"Your card was declined."}}`

// fakeStripe records form posts and answers like the Stripe API.
type fakeStripe struct {
	mu    sync.Mutex
	forms map[string]map[string][]string
	srv   *httptest.Server
}

func newFakeStripe(t *testing.T, decline bool) *fakeStripe {
	t.Helper()
	f := &fakeStripe{forms: map[string]map[string][]string{}}
	mux := http.NewServeMux()

	mux.HandleFunc("POST /v1/customers", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		writeJSON(w, http.StatusOK, `{"id":"cus_123","object":"customer","email":"`+r.PostForm.Get("email")+`"}`)
	})
	mux.HandleFunc("GET /v1/customers/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") == "cus_card" {
			writeJSON(w, http.StatusOK, `{"id":"cus_card","object":"customer",
				"sources":{"object":"list","data":[{"id":"card_1","object":"card"}]}}`)
			return
		}
		writeJSON(w, http.StatusOK, `{"id":"`+r.PathValue("id")+`","object":"customer",
			"sources":{"object":"list","data":[]}}`)
	})
	mux.HandleFunc("GET /v1/payment_methods", func(w http.ResponseWriter, r *http.Request) {
		data := ``
		if r.URL.Query().Get("customer") == "cus_pm" {
			data = `{"id":"pm_attached","object":"payment_method","type":"card","customer":"cus_pm"}`
		}
		writeJSON(w, http.StatusOK, `{"object":"list","url":"/v1/payment_methods","has_more":false,"data":[`+data+`]}`)
	})
	mux.HandleFunc("POST /v1/payment_methods", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		writeJSON(w, http.StatusOK, `{"id":"pm_123","object":"payment_method","type":"card"}`)
	})
	mux.HandleFunc("POST /v1/payment_methods/{id}/attach", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		writeJSON(w, http.StatusOK, `{"id":"`+r.PathValue("id")+`","object":"payment_method","type":"card",
			"customer":"`+r.PostForm.Get("customer")+`"}`)
	})
	mux.HandleFunc("POST /v1/payment_intents", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		if decline {
			writeJSON(w, http.StatusPaymentRequired, declineBody)
			return
		}
		writeJSON(w, http.StatusOK, `{"id":"pi_123","object":"payment_intent","status":"succeeded",
			"amount":`+r.PostForm.Get("amount")+`,"currency":"usd"}`)
	})

	f.srv = httptest.NewServer(mux)
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeStripe) record(r *http.Request) {
	_ = r.ParseForm()
	f.mu.Lock()
	f.forms[r.URL.Path] = r.PostForm
	f.mu.Unlock()
}

func (f *fakeStripe) form(path string) map[string][]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.forms[path]
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func TestStripe_CreateCustomer(t *testing.T) {
	f := newFakeStripe(t, false)
	s := NewStripe("sk_test_123", f.srv.URL, zap.NewNop())

	c, err := s.CreateCustomer(context.Background(), "alice@example.com",
		map[string]string{"userId": "org.terragon.user:alice1"})
	if err != nil {
		t.Fatalf("CreateCustomer: %v", err)
	}
	if c.ID != "cus_123" {
		t.Errorf("ID = %q", c.ID)
	}
	form := f.form("/v1/customers")
	if got := form["metadata[userId]"]; len(got) != 1 || got[0] != "org.terragon.user:alice1" {
		t.Errorf("metadata[userId] = %v", got)
	}
}

func TestStripe_RetrieveCustomer_SourceCount(t *testing.T) {
	f := newFakeStripe(t, false)
	s := NewStripe("sk_test_123", f.srv.URL, zap.NewNop())

	tests := []struct {
		id   string
		want int
	}{
		{"cus_empty", 0},
		{"cus_card", 1},
		{"cus_pm", 1},
	}
	for _, tt := range tests {
		c, err := s.RetrieveCustomer(context.Background(), tt.id)
		if err != nil {
			t.Fatalf("RetrieveCustomer(%s): %v", tt.id, err)
		}
		if c.SourceCount != tt.want {
			t.Errorf("%s: SourceCount = %d, want %d", tt.id, c.SourceCount, tt.want)
		}
	}
}

func TestStripe_PaymentIntent(t *testing.T) {
	f := newFakeStripe(t, false)
	s := NewStripe("sk_test_123", f.srv.URL, zap.NewNop())

	pm, err := s.CreatePaymentMethod(context.Background(), Card{Number: "4242424242424242", ExpMonth: 12, ExpYear: 2030, CVC: "123"})
	if err != nil {
		t.Fatalf("CreatePaymentMethod: %v", err)
	}
	if err := s.AttachPaymentMethod(context.Background(), pm.ID, "cus_123"); err != nil {
		t.Fatalf("AttachPaymentMethod: %v", err)
	}
	if got := f.form("/v1/payment_methods/pm_123/attach")["customer"]; len(got) != 1 || got[0] != "cus_123" {
		t.Errorf("attach customer = %v", got)
	}

	amount, err := AmountInCents(25)
	if err != nil {
		t.Fatalf("AmountInCents: %v", err)
	}
	pi, err := s.CreatePaymentIntent(context.Background(), IntentRequest{
		Currency: CurrencyUSD, Amount: amount, CustomerID: "cus_123", PaymentMethodID: pm.ID,
	})
	if err != nil {
		t.Fatalf("CreatePaymentIntent: %v", err)
	}
	if pi.Status != "succeeded" || pi.Amount != 2500 {
		t.Errorf("intent = %+v", pi)
	}

	form := f.form("/v1/payment_intents")
	want := map[string]string{
		"amount":                  "2500",
		"currency":                "usd",
		"customer":                "cus_123",
		"payment_method":          "pm_123",
		"confirm":                 "true",
		"payment_method_types[0]": "card",
		"setup_future_usage":      "off_session",
	}
	for k, v := range want {
		if got := form[k]; len(got) != 1 || got[0] != v {
			t.Errorf("%s = %v, want %s", k, got, v)
		}
	}
}

func TestStripe_DeclineIsProcessorError(t *testing.T) {
	f := newFakeStripe(t, true)
	s := NewStripe("sk_test_123", f.srv.URL, zap.NewNop())

	_, err := s.CreatePaymentIntent(context.Background(), IntentRequest{
		Currency: CurrencyUSD, Amount: 100, CustomerID: "cus_123", PaymentMethodID: "pm_123",
	})
	var pe *ProcessorError
	if !errors.As(err, &pe) {
		t.Fatalf("err = %v, want *ProcessorError", err)
	}
	if pe.Status != http.StatusPaymentRequired {
		t.Errorf("Status = %d", pe.Status)
	}

	var body struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(pe.Body, &body); err != nil {
		t.Fatalf("body not JSON: %v", err)
	}
	if body.Error.Code != "card_declined" || !strings.Contains(body.Error.Message, "declined") {
		t.Errorf("body = %s", pe.Body)
	}
	if string(pe.Body) != declineBody {
		t.Errorf("body not forwarded verbatim:\n got %s\nwant %s", pe.Body, declineBody)
	}
}

func TestAmountInCents(t *testing.T) {
	tests := []struct {
		units   int64
		want    int64
		wantErr bool
	}{
		{50, 5000, false},
		{1, 100, false},
		{MaxContribution, MaxContribution * 100, false},
		{0, 0, true},
		{-5, 0, true},
		{MaxContribution + 1, 0, true},
		{92233720368547759, 0, true},
	}
	for _, tt := range tests {
		got, err := AmountInCents(tt.units)
		if (err != nil) != tt.wantErr {
			t.Errorf("AmountInCents(%d) error = %v, wantErr %v", tt.units, err, tt.wantErr)
			continue
		}
		if err != nil && !errors.Is(err, ErrAmountOutOfRange) {
			t.Errorf("AmountInCents(%d) error = %v, want ErrAmountOutOfRange", tt.units, err)
		}
		if got != tt.want {
			t.Errorf("AmountInCents(%d) = %d, want %d", tt.units, got, tt.want)
		}
	}
}
