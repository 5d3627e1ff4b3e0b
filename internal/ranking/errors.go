
package ranking

import (
	"errors"
	"fmt"
)

var (
	ErrYearNotFound     = errors.New("year not in table")
	ErrCountryNotFound  = errors.New("country not ranked in year")
	ErrEmptyTable       = errors.New("table is empty")
	ErrDuplicateYear    = errors.New("duplicate year label")
	ErrDuplicateCountry = errors.New("country ranked twice in one year")
	ErrShapeMismatch    = errors.New("table shape mismatch")
)

// LookupError reports a year or country that is missing from a table.
type LookupError struct {
	Year    string
	Country string
	Err     error
}

func (e *LookupError) Error() string {
	if e.Country != "" {
		return fmt.Sprintf("lookup %q in %q: %v", e.Country, e.Year, e.Err)
	}
	return fmt.Sprintf("lookup year %q: %v", e.Year, e.Err)
}

func (e *LookupError) Unwrap() error { return e.Err }

// ValidationError reports a table that breaks the ranking invariants.
type ValidationError struct {
	Err     error
	Year    string
	Country string
	Detail  string
}

func (e *ValidationError) Error() string {
	msg := "invalid table: " + e.Err.Error()
	if e.Year != "" {
		msg += fmt.Sprintf(" (year %q", e.Year)
		if e.Country != "" {
			msg += fmt.Sprintf(", country %q", e.Country)
		}
		msg += ")"
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *ValidationError) Unwrap() error { return e.Err }

func rowsDetail(first, second int) string {
	return fmt.Sprintf("ranks %d and %d", first+1, second+1)
}
