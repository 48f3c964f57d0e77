package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"studiohub/internal/domain/models"
)

// nameCharset admits Latin letters including accented ones, digits,
// whitespace, hyphens, apostrophes and dots.
var nameCharset = regexp.MustCompile(`^[a-zA-ZÀ-ÿ0-9\s\-'.]+$`)

type TextOptions struct {
	// Charset restricts the value to nameCharset.
	Charset bool
	// TitleCase upper-cases the first letter of every word.
	TitleCase bool
}

// Text trims raw and rejects it when nothing is left.
func Text(label, raw string, opts TextOptions) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", fmt.Errorf("%s cannot be empty or only whitespace", label)
	}
	if opts.Charset && !nameCharset.MatchString(s) {
		return "", fmt.Errorf("%s can only contain letters, numbers, spaces, hyphens, apostrophes, and dots", label)
	}
	if opts.TitleCase {
		s = TitleCase(s)
	}
	return s, nil
}

// TitleCase upper-cases every letter that follows a non-letter and
// lower-cases the rest, so "o'neil-smith" becomes "O'Neil-Smith".
func TitleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevCased := false
	for _, r := range s {
		cased := unicode.IsUpper(r) || unicode.IsLower(r) || unicode.IsTitle(r)
		switch {
		case cased && prevCased:
			b.WriteRune(unicode.ToLower(r))
		case cased:
			b.WriteRune(unicode.ToTitle(r))
		default:
			b.WriteRune(r)
		}
		prevCased = cased
	}
	return b.String()
}

// Phone counts the digits of raw, ignoring every other character. The
// accepted value is raw trimmed, with its formatting kept.
func Phone(label, raw string, minDigits, maxDigits int) (string, error) {
	digits := 0
	for _, r := range raw {
		if unicode.IsDigit(r) {
			digits++
		}
	}
	if digits < minDigits || digits > maxDigits {
		return "", fmt.Errorf("%s must be between %d and %d digits", label, minDigits, maxDigits)
	}
	return strings.TrimSpace(raw), nil
}

// Password checks the strength of a clear-text password. The first failed
// requirement is reported.
func Password(raw string, minLength int) error {
	if utf8.RuneCountInString(raw) < minLength {
		return fmt.Errorf("Password must be at least %d characters long", minLength)
	}
	if !strings.ContainsFunc(raw, func(r rune) bool { return r >= 'a' && r <= 'z' }) {
		return errors.New("Password must contain at least one lowercase letter")
	}
	if !strings.ContainsFunc(raw, func(r rune) bool { return (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') }) {
		return errors.New("Password must contain at least one uppercase letter or digit")
	}
	return nil
}

// Bound describes the admissible range of a decimal field.
type Bound struct {
	Min decimal.Decimal
	// MinExclusive rejects Min itself.
	MinExclusive bool
	// Max is the inclusive ceiling, if any.
	Max *decimal.Decimal
	// Between reports either violation as "must be between Min and Max".
	Between bool
	Places  int32
}

// Decimal checks d against b and returns it rounded to b.Places.
func Decimal(label string, d models.Decimal, b Bound) (models.Decimal, error) {
	belowMin := d.LessThan(b.Min) || (b.MinExclusive && d.Equal(b.Min))
	aboveMax := b.Max != nil && d.GreaterThan(*b.Max)
	switch {
	case b.Between && b.Max != nil && (belowMin || aboveMax):
		return d, fmt.Errorf("%s must be between %s and %s", label, number(b.Min), number(*b.Max))
	case belowMin && b.MinExclusive:
		return d, fmt.Errorf("%s must be greater than %s", label, number(b.Min))
	case belowMin:
		return d, fmt.Errorf("%s must be greater than or equal to %s", label, number(b.Min))
	case aboveMax:
		return d, fmt.Errorf("%s cannot exceed %s", label, number(*b.Max))
	}
	if rounded := d.Round(b.Places); !d.Equal(rounded) {
		return d, fmt.Errorf("%s must have at most %d decimal places", label, b.Places)
	}
	return models.Decimal{Decimal: d.Round(b.Places)}, nil
}

var groupFrom = decimal.NewFromInt(1_000_000)

// number renders a bound the way reasons quote it: digits are grouped from
// a million up ("1,000,000") and left plain below ("1000").
func number(d decimal.Decimal) string {
	if d.Abs().LessThan(groupFrom) {
		return d.String()
	}
	return humanize.Commaf(d.InexactFloat64())
}

// StartDate rejects dates further in the past than lookbackYears before
// today.
func StartDate(label string, d, today models.Date, lookbackYears int) error {
	if d.Before(today.AddDate(-lookbackYears, 0, 0)) {
		return fmt.Errorf("%s cannot be more than %s in the past", label, years(lookbackYears))
	}
	return nil
}

// ValidUntil requires an expiry strictly after today and no later than
// maxYears from today.
func ValidUntil(subject string, d, today models.Date, maxYears int) error {
	if !d.After(today) {
		return fmt.Errorf("%s expiration date must be in the future", subject)
	}
	if d.After(today.AddDate(maxYears, 0, 0)) {
		return fmt.Errorf("%s cannot be valid for more than %s", subject, years(maxYears))
	}
	return nil
}

func years(n int) string {
	if n == 1 {
		return "1 year"
	}
	return fmt.Sprintf("%d years", n)
}

// Message trims raw and caps its length in characters. A blank message
// becomes absent.
func Message(label string, raw *string, maxLength int) (*string, error) {
	if raw == nil {
		return nil, nil
	}
	s := strings.TrimSpace(*raw)
	if utf8.RuneCountInString(s) > maxLength {
		return nil, fmt.Errorf("%s cannot exceed %d characters", label, maxLength)
	}
	if s == "" {
		return nil, nil
	}
	return &s, nil
}

// BlankToAbsent trims raw, mapping blank strings to nil.
func BlankToAbsent(raw *string) *string {
	if raw == nil {
		return nil
	}
	s := strings.TrimSpace(*raw)
	if s == "" {
		return nil
	}
	return &s
}

// DateRange requires end to fall after start when both are known.
func DateRange(start, end *models.Date) error {
	if start == nil || end == nil {
		return nil
	}
	if !end.After(*start) {
		return errors.New("End date must be after start date")
	}
	return nil
}

// Enum rejects values outside allowed.
func Enum[T ~string](label string, v T, allowed []T) error {
	for _, a := range allowed {
		if v == a {
			return nil
		}
	}
	quoted := make([]string, len(allowed))
	for i, a := range allowed {
		quoted[i] = "'" + string(a) + "'"
	}
	return fmt.Errorf("%s must be one of: %s", label, strings.Join(quoted, ", "))
}

var labels = map[string]string{
	"whatsapp":         "WhatsApp number",
	"whatsapp_message": "WhatsApp message",
	"phone":            "Phone number",
	"email":            "Email",
	"assigned_user_id": "Assigned user",
}

// Label renders a JSON field name for use in messages, e.g. "hourly_rate"
// becomes "Hourly rate".
func Label(field string) string {
	if l, ok := labels[field]; ok {
		return l
	}
	s := strings.ReplaceAll(field, "_", " ")
	s = strings.TrimSuffix(s, " id")
	if s == "" {
		return field
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}
