package validation

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

// Basic validators

func Required(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v[field] = "required"
	}
}

func PositiveDecimal(field string, val decimal.Decimal, v Violations) {
	if !val.IsPositive() {
		v[field] = "must_be_positive"
	}
}

// ISODate checks a "2006-01-02" date string.
func ISODate(field, value string, v Violations) {
	if _, err := time.Parse("2006-01-02", value); err != nil {
		v[field] = "invalid_date"
	}
}

// DateOrder flags desde > hasta. Both must already be valid ISO dates;
// lexicographic comparison is chronological for that format.
func DateOrder(field, desde, hasta string, v Violations) {
	if desde > hasta {
		v[field] = "inverted_range"
	}
}
