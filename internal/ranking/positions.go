
package ranking

// Series is one country's rank positions, one per selected year.
type Series struct {
	Country   string `json:"country"`
	Positions []int  `json:"positions"`
}

// PositionSeries keeps series in the order countries were selected.
type PositionSeries []Series

func (ps PositionSeries) Get(country string) ([]int, bool) {
	for _, s := range ps {
		if s.Country == country {
			return s.Positions, true
		}
	}
	return nil, false
}

func (ps PositionSeries) Countries() []string {
	out := make([]string, len(ps))
	for i, s := range ps {
		out[i] = s.Country
	}
	return out
}

// Positions resolves the rank of countries across years.
//
// countries and years are paired index by index only to pick which countries
// get a series, so the result holds min(len(countries), len(years)) entries.
// Each selected country is still evaluated against every year in years.
func Positions(t *Table, countries, years []string) (PositionSeries, error) {
	sliced, err := t.Select(years)
	if err != nil {
		return nil, err
	}

	n := min(len(countries), len(years))
	out := make(PositionSeries, 0, n)
	index := make(map[string]int, n)
	for _, country := range countries[:n] {
		positions := make([]int, len(years))
		for j, year := range years {
			p, err := sliced.Position(country, year)
			if err != nil {
				return nil, err
			}
			positions[j] = p
		}
		if i, ok := index[country]; ok {
			out[i].Positions = positions
			continue
		}
		index[country] = len(out)
		out = append(out, Series{Country: country, Positions: positions})
	}
	return out, nil
}
