package onboarding

import (
	"errors"

	"github.com/dalemusser/terragon/internal/app/system/inputval"
	"github.com/dalemusser/terragon/internal/app/system/payments"
)

// CodeError is a business-rule rejection reported to the caller as {"error": Code}.
type CodeError struct {
	Code string
}

func (e *CodeError) Error() string { return e.Code }

var (
	ErrNoUser            = &CodeError{Code: "no_user"}
	ErrIneligible        = &CodeError{Code: "ineligible"}
	ErrNoInvite          = &CodeError{Code: "no_invite"}
	ErrAlreadyRedeemed   = &CodeError{Code: "already_redeemed"}
	ErrNoCommerceAccount = &CodeError{Code: "no_commerce_account"}
	ErrCardAlreadyAdded  = &CodeError{Code: "card_already_added"}
)

// AsCode returns the business code carried by err, if any.
func AsCode(err error) (string, bool) {
	var ce *CodeError
	if errors.As(err, &ce) {
		return ce.Code, true
	}
	return "", false
}

// ValidationError carries field errors found after input validation passed,
// such as a name claimed by a concurrent signup.
type ValidationError struct {
	Fields []inputval.FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	return e.Fields[0].Error()
}

// IncompletePaymentError reports a payment intent the processor did not
// settle, for example one waiting on card authentication. Nothing was written.
type IncompletePaymentError struct {
	Intent *payments.PaymentIntent
}

func (e *IncompletePaymentError) Error() string {
	return "payment intent " + e.Intent.ID + " is " + e.Intent.Status
}
