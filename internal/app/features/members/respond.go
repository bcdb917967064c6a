// internal/app/features/members/respond.go
package members

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/dalemusser/terragon/internal/app/onboarding"
	"github.com/dalemusser/terragon/internal/app/system/inputval"
	"github.com/dalemusser/terragon/internal/app/system/payments"
	"go.uber.org/zap"
)

const maxBodyBytes = 64 << 10

var errTrailingData = errors.New("unexpected data after JSON body")

type errorBody struct {
	Error string `json:"error"`
}

type errorsBody struct {
	Errors []inputval.FieldError `json:"errors"`
}

type incompleteBody struct {
	Error  string                  `json:"error"`
	Intent *payments.PaymentIntent `json:"intent"`
}

type existsBody struct {
	Exists bool `json:"exists"`
}

// decodeStrict reads exactly one JSON object and rejects unknown fields.
func decodeStrict(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode body: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return errTrailingData
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (h *Handler) badRequest(w http.ResponseWriter, r *http.Request, err error) {
	h.Log.Debug("rejected request body", zap.String("path", r.URL.Path), zap.Error(err))
	writeJSON(w, http.StatusBadRequest, errorBody{Error: "bad_request"})
}

// writeError maps a workflow error onto the response.
//
//	business rule      -> 200 {"error": code}
//	late field error   -> 200 {"errors": [...]}
//	unsettled payment  -> 200 {"error":"payment_incomplete","intent":{...}}
//	processor failure  -> processor status, processor body verbatim
//	anything else      -> 500 {"error":"internal"}
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if code, ok := onboarding.AsCode(err); ok {
		writeJSON(w, http.StatusOK, errorBody{Error: code})
		return
	}

	var ve *onboarding.ValidationError
	if errors.As(err, &ve) {
		writeJSON(w, http.StatusOK, errorsBody{Errors: ve.Fields})
		return
	}

	var ip *onboarding.IncompletePaymentError
	if errors.As(err, &ip) {
		writeJSON(w, http.StatusOK, incompleteBody{Error: "payment_incomplete", Intent: ip.Intent})
		return
	}

	var pe *payments.ProcessorError
	if errors.As(err, &pe) {
		status := pe.Status
		if status == 0 {
			status = http.StatusPaymentRequired
		}
		h.Log.Info("processor rejected request",
			zap.String("path", r.URL.Path),
			zap.Int("status", status))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write(pe.Body)
		return
	}

	h.Log.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
	writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal"})
}
