// internal/app/system/inputval/checks.go
package inputval

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
)

func (p *Pipeline) checkEmail(ctx context.Context, email string) (*FieldError, error) {
	if !IsValidEmail(email) || !p.deliverable(ctx, email) {
		return fail("email", MsgInvalid), nil
	}
	taken, err := p.exists(ctx, "email", email)
	if err != nil {
		return nil, err
	}
	if taken {
		return fail("email", MsgExists), nil
	}
	return nil, nil
}

func checkPersonName(name string) *FieldError {
	if name == "" {
		return fail("person_name", MsgRequired)
	}
	return nil
}

func (p *Pipeline) checkName(ctx context.Context, name string) (*FieldError, error) {
	if !ValidUsername(name, p.product) {
		return fail("name", MsgInvalid), nil
	}
	taken, err := p.exists(ctx, "name", name)
	if err != nil {
		return nil, err
	}
	if taken {
		return fail("name", MsgExists), nil
	}
	return nil, nil
}

// checkPhone rewrites *phone to international format when it is valid.
func (p *Pipeline) checkPhone(phone *string) *FieldError {
	if *phone == "" {
		return nil
	}
	canon, ok := CanonicalPhone(*phone, p.region)
	if !ok {
		return fail("phone", MsgInvalid)
	}
	*phone = canon
	return nil
}

func checkPassword(pw, confirm string) *FieldError {
	switch {
	case pw == "":
		return fail("password", MsgRequired)
	case len(pw) < MinPasswordLen:
		return fail("password", MsgShort)
	case pw != confirm:
		return fail("password", MsgMismatch)
	}
	return nil
}

func (p *Pipeline) exists(ctx context.Context, field, value string) (bool, error) {
	docs, err := p.users.Find(ctx, bson.M{field: value})
	if err != nil {
		return false, err
	}
	return len(docs) > 0, nil
}

// deliverable reports whether the address's domain publishes mail exchangers.
func (p *Pipeline) deliverable(ctx context.Context, email string) bool {
	at := strings.LastIndexByte(email, '@')
	if at < 0 {
		return false
	}
	mx, err := p.resolver.LookupMX(ctx, email[at+1:])
	if err != nil {
		return false
	}
	for _, r := range mx {
		if r.Host != "" && r.Host != "." {
			return true
		}
	}
	return false
}
