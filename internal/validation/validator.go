// Package validation holds the field rules applied to create and update
// payloads before they reach a store.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator"

	errs "studiohub/internal/domain/errors"
	"studiohub/internal/domain/models"
)

// Validator runs the shape rules declared in struct tags followed by the
// domain rules of each entity. It is safe for concurrent use.
type Validator struct {
	policy Policy
	now    func() time.Time
	shape  *validator.Validate
}

// New returns a Validator enforcing policy. now supplies the current time;
// nil means time.Now.
func New(policy Policy, now func() time.Time) *Validator {
	if now == nil {
		now = time.Now
	}
	shape := validator.New()
	shape.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validator{policy: policy, now: now, shape: shape}
}

func (v *Validator) Policy() Policy { return v.policy }

// pass collects the failures of one payload. today is read once so every
// date rule of the pass sees the same day.
type pass struct {
	policy Policy
	today  models.Date
	errs   errs.ValidationErrors
}

func (v *Validator) begin(payload any) *pass {
	p := &pass{policy: v.policy, today: models.DateOf(v.now())}
	err := v.shape.Struct(payload)
	if err == nil {
		return p
	}
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		p.fail("body", err)
		return p
	}
	for _, fe := range fieldErrs {
		p.fail(fe.Field(), errors.New(shapeReason(fe)))
	}
	return p
}

func shapeReason(fe validator.FieldError) string {
	label := Label(fe.Field())
	switch fe.Tag() {
	case "required":
		return label + " is required"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", label, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", label, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", label, fe.Param())
	case "email":
		return label + " is not a valid email address"
	}
	return label + " is invalid"
}

// fail records err for field unless the field already failed.
func (p *pass) fail(field string, err error) {
	if err == nil || p.errs.Has(field) {
		return
	}
	p.errs = append(p.errs, errs.FieldError{Field: field, Reason: err.Error()})
}

func (p *pass) ok(field string) bool { return !p.errs.Has(field) }

func (p *pass) err() error {
	if len(p.errs) == 0 {
		return nil
	}
	return p.errs
}

func (p *pass) text(field, label string, s *string, opts TextOptions) {
	if !p.ok(field) {
		return
	}
	out, err := Text(label, *s, opts)
	if err != nil {
		p.fail(field, err)
		return
	}
	*s = out
}

func (p *pass) optText(field, label string, s **string, opts TextOptions) {
	if *s == nil {
		return
	}
	v := **s
	p.text(field, label, &v, opts)
	*s = &v
}

func (p *pass) phone(field string, s **string) {
	if *s == nil || !p.ok(field) {
		return
	}
	out, err := Phone(Label(field), **s, p.policy.MinPhoneDigits, p.policy.MaxPhoneDigits)
	if err != nil {
		p.fail(field, err)
		return
	}
	*s = &out
}

func (p *pass) password(field, raw string) {
	if !p.ok(field) {
		return
	}
	p.fail(field, Password(raw, p.policy.MinPasswordLength))
}

func (p *pass) amount(field string, d **models.Decimal, b Bound) {
	if *d == nil || !p.ok(field) {
		return
	}
	b.Places = p.policy.DecimalPlaces
	out, err := Decimal(Label(field), **d, b)
	if err != nil {
		p.fail(field, err)
		return
	}
	*d = &out
}

func (p *pass) startDate(field string, d *models.Date) {
	if d == nil || !p.ok(field) {
		return
	}
	p.fail(field, StartDate(Label(field), *d, p.today, p.policy.StartDateLookbackYears))
}

func (p *pass) validUntil(field string, d *models.Date) {
	if d == nil || !p.ok(field) {
		return
	}
	p.fail(field, ValidUntil("Quote", *d, p.today, p.policy.QuoteValidityYears))
}

func (p *pass) message(field string, s **string) {
	if *s == nil || !p.ok(field) {
		return
	}
	out, err := Message(Label(field), *s, p.policy.MaxMessageLength)
	if err != nil {
		p.fail(field, err)
		return
	}
	*s = out
}

// dateRange runs only on an otherwise clean pass.
func (p *pass) dateRange(field string, start, end *models.Date) {
	if len(p.errs) > 0 {
		return
	}
	p.fail(field, DateRange(start, end))
}

func enum[T ~string](p *pass, field string, v *T, allowed []T) {
	if v == nil || !p.ok(field) {
		return
	}
	p.fail(field, Enum(Label(field), *v, allowed))
}

func minZero() Bound { return Bound{} }

func positive() Bound { return Bound{MinExclusive: true} }
