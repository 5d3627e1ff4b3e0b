
package extractor

import (
	"bytes"
	"io"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/unicode/norm"

	"gfp-rankings/internal/ranking"
)

// Selectors locate the ranking markup in the page.
type Selectors struct {
	Year    string `yaml:"year"`
	Card    string `yaml:"card"`
	Country string `yaml:"country"`
}

// DefaultSelectors match the globalfirepower.com previous-ranks page.
var DefaultSelectors = Selectors{
	Year:    "span.textLarger.textBold",
	Card:    "div.mainLists",
	Country: "div.countryName",
}

type Extractor struct {
	sel Selectors
}

func New(sel Selectors) *Extractor {
	if sel.Year == "" {
		sel.Year = DefaultSelectors.Year
	}
	if sel.Card == "" {
		sel.Card = DefaultSelectors.Card
	}
	if sel.Country == "" {
		sel.Country = DefaultSelectors.Country
	}
	return &Extractor{sel: sel}
}

// Sections are the two node sets of the page, both in document order.
type Sections struct {
	Years *goquery.Selection
	Cards *goquery.Selection
}

var whitespaceRe = regexp.MustCompile(`\s+`)

func (e *Extractor) Parse(r io.Reader, contentType string) (Sections, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Sections{}, &ExtractionError{Kind: KindDecode, Err: err}
	}

	enc, _, _ := charset.DetermineEncoding(data, contentType)
	utf8data, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		// undecodable in the declared charset; accept it when the bytes are valid utf-8
		if !utf8.Valid(data) {
			return Sections{}, &ExtractionError{Kind: KindDecode, Err: err}
		}
		utf8data = data
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(utf8data))
	if err != nil {
		return Sections{}, &ExtractionError{Kind: KindDecode, Err: err}
	}

	years := doc.Find(e.sel.Year)
	if years.Length() == 0 {
		return Sections{}, &ExtractionError{Kind: KindNoYears, Selector: e.sel.Year}
	}
	cards := doc.Find(e.sel.Card)
	if cards.Length() == 0 {
		return Sections{}, &ExtractionError{Kind: KindNoCards, Selector: e.sel.Card}
	}
	return Sections{Years: years, Cards: cards}, nil
}

// Years returns the label text of every node, in order. Duplicates are kept.
func Years(nodes *goquery.Selection) []string {
	out := make([]string, 0, nodes.Length())
	nodes.Each(func(i int, s *goquery.Selection) {
		out = append(out, cleanText(s.Text()))
	})
	return out
}

// Countries pairs years with cards by position and reads the country names
// of each card in document order.
func (e *Extractor) Countries(years []string, cards *goquery.Selection) (*ranking.Table, error) {
	if len(years) != cards.Length() {
		return nil, &ExtractionError{Kind: KindMisaligned, Years: len(years), Cards: cards.Length()}
	}

	columns := make([][]string, len(years))
	var failed error
	cards.EachWithBreak(func(i int, card *goquery.Selection) bool {
		var names []string
		card.Find(e.sel.Country).EachWithBreak(func(j int, s *goquery.Selection) bool {
			name := cleanText(s.Text())
			if name == "" {
				// a blank node still occupies a rank
				failed = &ExtractionError{Kind: KindEmptyName, Selector: e.sel.Country, Year: years[i], Rank: j + 1}
				return false
			}
			names = append(names, name)
			return true
		})
		if failed != nil {
			return false
		}
		if len(names) == 0 {
			failed = &ExtractionError{Kind: KindEmptyCard, Selector: e.sel.Country, Year: years[i]}
			return false
		}
		columns[i] = names
		return true
	})
	if failed != nil {
		return nil, failed
	}
	return ranking.NewTable(years, columns)
}

// Extract runs Parse, Years and Countries in sequence.
func (e *Extractor) Extract(r io.Reader, contentType string) (*ranking.Table, error) {
	sections, err := e.Parse(r, contentType)
	if err != nil {
		return nil, err
	}
	return e.Countries(Years(sections.Years), sections.Cards)
}

func cleanText(s string) string {
	s = norm.NFC.String(s)
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}
