package validation

import (
	"github.com/shopspring/decimal"
)

// Policy carries the numeric limits the rules enforce. The hourly-rate and
// margin ceilings are deployment policy and may be overridden by config.
type Policy struct {
	MaxHourlyRate       decimal.Decimal
	MaxMarginPercentage decimal.Decimal
	MaxQuotePrice       decimal.Decimal
	// StartDateLookbackYears is how far in the past a project may start.
	StartDateLookbackYears int
	// QuoteValidityYears caps how far in the future a quote may expire.
	QuoteValidityYears int
	MaxMessageLength   int
	MinPhoneDigits     int
	MaxPhoneDigits     int
	MinPasswordLength  int
	// DecimalPlaces is the fractional precision of every monetary and
	// percentage field.
	DecimalPlaces int32
}

func DefaultPolicy() Policy {
	return Policy{
		MaxHourlyRate:          decimal.NewFromInt(1000),
		MaxMarginPercentage:    decimal.NewFromInt(100),
		MaxQuotePrice:          decimal.NewFromInt(1_000_000),
		StartDateLookbackYears: 5,
		QuoteValidityYears:     1,
		MaxMessageLength:       4096,
		MinPhoneDigits:         7,
		MaxPhoneDigits:         15,
		MinPasswordLength:      8,
		DecimalPlaces:          2,
	}
}
