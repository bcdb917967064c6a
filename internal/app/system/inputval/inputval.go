// internal/app/system/inputval/inputval.go
package inputval

import (
	"context"
	"errors"
	"fmt"
	"net"
	"reflect"
	"strings"

	"github.com/dalemusser/terragon/internal/app/store/docstore"
	"github.com/dalemusser/terragon/internal/app/system/join"
	"github.com/dalemusser/terragon/internal/domain/models"
	"github.com/go-playground/validator/v10"
)

// Failure messages reported in FieldError.Message.
const (
	MsgInvalid  = "invalid"
	MsgExists   = "exists"
	MsgRequired = "required"
	MsgShort    = "short"
	MsgMismatch = "mismatch"
)

// MinPasswordLen is the shortest accepted password.
const MinPasswordLen = 8

// FieldError names one rejected signup field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return e.Field + " " + e.Message
}

// MXResolver looks up mail exchangers for a domain. *net.Resolver satisfies it.
type MXResolver interface {
	LookupMX(ctx context.Context, name string) ([]*net.MX, error)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their JSON names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// StructErrors validates v and converts tag failures to FieldErrors.
// A nil slice means v passed. Non-validation errors are returned as is.
func StructErrors(v any) ([]FieldError, error) {
	err := validate.Struct(v)
	if err == nil {
		return nil, nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, err
	}
	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		msg := MsgInvalid
		if fe.Tag() == "required" {
			msg = MsgRequired
		}
		out = append(out, FieldError{Field: fe.Field(), Message: msg})
	}
	return out, nil
}

// Pipeline runs every signup check concurrently and reports all failures at once.
type Pipeline struct {
	users    docstore.Client[models.User]
	resolver MXResolver
	product  string
	region   string
}

// New builds a Pipeline. A nil resolver uses net.DefaultResolver; an empty
// region defaults to "US".
func New(users docstore.Client[models.User], product, region string, resolver MXResolver) *Pipeline {
	if resolver == nil {
		resolver = net.DefaultResolver
	}
	if region == "" {
		region = DefaultRegion
	}
	return &Pipeline{users: users, resolver: resolver, product: product, region: region}
}

type check = join.Task[*FieldError]

// Validate returns every failed field in s. When it returns no failures,
// s.Phone holds the canonical form of any submitted phone number.
// An error is returned only when a lookup against the store failed.
func (p *Pipeline) Validate(ctx context.Context, s *models.Signup) ([]FieldError, error) {
	checks := []check{
		func(ctx context.Context) (*FieldError, error) { return p.checkEmail(ctx, s.Email) },
		func(ctx context.Context) (*FieldError, error) { return checkPersonName(s.PersonName), nil },
		func(ctx context.Context) (*FieldError, error) { return p.checkName(ctx, s.Name) },
		func(ctx context.Context) (*FieldError, error) { return p.checkPhone(&s.Phone), nil },
		func(ctx context.Context) (*FieldError, error) {
			return checkPassword(s.Password, s.PasswordConfirm), nil
		},
	}

	outcomes := join.All(ctx, checks...)
	if err := join.Err(outcomes); err != nil {
		return nil, fmt.Errorf("validate signup: %w", err)
	}

	var failed []FieldError
	for _, o := range outcomes {
		if o.Value != nil {
			failed = append(failed, *o.Value)
		}
	}
	return failed, nil
}

func fail(field, msg string) *FieldError {
	return &FieldError{Field: field, Message: msg}
}
