
package ranking

// DefaultYearRenames maps the edition labels the source page publishes with
// a suffix to their bare year.
var DefaultYearRenames = map[string]string{
	"2009 (No Update)": "2009",
	"2008 (No Update)": "2008",
}

// Normalize renames year labels and validates the result.
func Normalize(t *Table, renames map[string]string) (*Table, error) {
	out := t.Rename(renames)
	if err := out.Validate(); err != nil {
		return nil, err
	}
	return out, nil
}
