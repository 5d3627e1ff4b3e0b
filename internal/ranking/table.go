
package ranking

// Table holds one column of country names per year label, ordered by rank.
// Row index + 1 is the rank position. A Table is never modified in place.
type Table struct {
	years   []string
	columns [][]string
}

func NewTable(years []string, columns [][]string) (*Table, error) {
	if len(years) != len(columns) {
		return nil, &ValidationError{Err: ErrShapeMismatch, Detail: "years and columns differ in length"}
	}
	t := &Table{
		years:   append([]string(nil), years...),
		columns: make([][]string, len(columns)),
	}
	for i, col := range columns {
		t.columns[i] = append([]string(nil), col...)
	}
	return t, nil
}

// Years returns the column labels in table order.
func (t *Table) Years() []string {
	return append([]string(nil), t.years...)
}

// Column returns the countries of the first column labelled year.
func (t *Table) Column(year string) ([]string, bool) {
	for i, y := range t.years {
		if y == year {
			return append([]string(nil), t.columns[i]...), true
		}
	}
	return nil, false
}

// Depth is the number of rank rows, i.e. the longest column.
func (t *Table) Depth() int {
	depth := 0
	for _, col := range t.columns {
		if len(col) > depth {
			depth = len(col)
		}
	}
	return depth
}

// Cell returns the country at row (0-based) of column i, or "" past the end.
func (t *Table) Cell(row, i int) string {
	if i < 0 || i >= len(t.columns) || row < 0 || row >= len(t.columns[i]) {
		return ""
	}
	return t.columns[i][row]
}

// Rename returns a copy with the given labels replaced. Cells are unchanged.
func (t *Table) Rename(renames map[string]string) *Table {
	out := &Table{years: make([]string, len(t.years)), columns: t.columns}
	for i, y := range t.years {
		if to, ok := renames[y]; ok {
			out.years[i] = to
			continue
		}
		out.years[i] = y
	}
	return out
}

// Select restricts the table to years, in the requested order.
func (t *Table) Select(years []string) (*Table, error) {
	out := &Table{years: make([]string, 0, len(years)), columns: make([][]string, 0, len(years))}
	for _, y := range years {
		col, ok := t.Column(y)
		if !ok {
			return nil, &LookupError{Year: y, Err: ErrYearNotFound}
		}
		out.years = append(out.years, y)
		out.columns = append(out.columns, col)
	}
	return out, nil
}

// Validate checks that the table is non-empty, that year labels are unique
// and that no country is ranked twice in the same year.
func (t *Table) Validate() error {
	if len(t.years) == 0 || t.Depth() == 0 {
		return &ValidationError{Err: ErrEmptyTable}
	}
	seenYears := make(map[string]struct{}, len(t.years))
	for i, y := range t.years {
		if _, dup := seenYears[y]; dup {
			return &ValidationError{Err: ErrDuplicateYear, Year: y}
		}
		seenYears[y] = struct{}{}

		seen := make(map[string]int, len(t.columns[i]))
		for row, c := range t.columns[i] {
			if prev, dup := seen[c]; dup {
				return &ValidationError{
					Err:     ErrDuplicateCountry,
					Year:    y,
					Country: c,
					Detail:  rowsDetail(prev, row),
				}
			}
			seen[c] = row
		}
	}
	return nil
}

// Position is the 1-based rank of country in year. When a country appears
// more than once the lowest row wins.
func (t *Table) Position(country, year string) (int, error) {
	col, ok := t.Column(year)
	if !ok {
		return 0, &LookupError{Year: year, Err: ErrYearNotFound}
	}
	for row, c := range col {
		if c == country {
			return row + 1, nil
		}
	}
	return 0, &LookupError{Year: year, Country: country, Err: ErrCountryNotFound}
}
