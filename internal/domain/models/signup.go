// internal/domain/models/signup.go
package models

// Signup is the POST /user payload.
// Phone is rewritten in place to international format during validation.
type Signup struct {
	Name            string `json:"name"`
	PersonName      string `json:"person_name"`
	Email           string `json:"email"`
	Phone           string `json:"phone,omitempty"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
}

// FoundingMemberPayment is the POST /user/{userId}/payment payload.
// Contribution is in whole currency units.
type FoundingMemberPayment struct {
	CCNumber     string `json:"cc_number" validate:"required,numeric,min=12,max=19"`
	CCExpMonth   int64  `json:"cc_exp_month" validate:"required,min=1,max=12"`
	CCExpYear    int64  `json:"cc_exp_year" validate:"required,min=2000"`
	CCCVC        string `json:"cc_cvc,omitempty" validate:"omitempty,numeric,min=3,max=4"`
	Contribution int64  `json:"contribution" validate:"required,min=1,max=999999"`
}

// InviteRedemption is the POST /user/{userId}/invite payload.
type InviteRedemption struct {
	Code string `json:"code" validate:"required"`
}
