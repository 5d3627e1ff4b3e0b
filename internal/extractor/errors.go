
package extractor

import (
	"errors"
	"fmt"
)

var ErrExtraction = errors.New("extraction failed")

// Kind classifies why the page did not yield a ranking table.
type Kind string

const (
	KindDecode     Kind = "decode"
	KindNoYears    Kind = "no-years"
	KindNoCards    Kind = "no-cards"
	KindMisaligned Kind = "misaligned"
	KindEmptyCard  Kind = "empty-card"
	KindEmptyName  Kind = "empty-name"
)

type ExtractionError struct {
	Kind     Kind
	Selector string
	Year     string
	Rank     int
	Years    int
	Cards    int
	Err      error
}

func (e *ExtractionError) Error() string {
	switch e.Kind {
	case KindNoYears, KindNoCards:
		return fmt.Sprintf("extract: %s: selector %q matched nothing", e.Kind, e.Selector)
	case KindMisaligned:
		return fmt.Sprintf("extract: %s: %d year labels but %d cards", e.Kind, e.Years, e.Cards)
	case KindEmptyCard:
		return fmt.Sprintf("extract: %s: no %q nodes for year %q", e.Kind, e.Selector, e.Year)
	case KindEmptyName:
		return fmt.Sprintf("extract: %s: blank %q node at rank %d for year %q", e.Kind, e.Selector, e.Rank, e.Year)
	}
	return fmt.Sprintf("extract: %s: %v", e.Kind, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

func (e *ExtractionError) Is(target error) bool { return target == ErrExtraction }
