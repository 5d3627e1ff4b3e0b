
package ioformats

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"gfp-rankings/internal/ranking"
)

var ErrPersistence = errors.New("persistence failed")

// PersistenceError reports a failed read or write of the rankings file.
type PersistenceError struct {
	Path string
	Op   string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }

// WriteTable writes t as CSV: a header of an empty index cell followed by the
// year labels, then one row per rank led by its 0-based row index. Columns
// shorter than the table depth get empty cells.
func WriteTable(w io.Writer, t *ranking.Table) error {
	years := t.Years()
	cw := csv.NewWriter(w)

	header := make([]string, 0, len(years)+1)
	header = append(header, "")
	header = append(header, years...)
	if err := cw.Write(header); err != nil {
		return err
	}

	row := make([]string, len(years)+1)
	for r := 0; r < t.Depth(); r++ {
		row[0] = strconv.Itoa(r)
		for i := range years {
			row[i+1] = t.Cell(r, i)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadTable parses the output of WriteTable.
func ReadTable(r io.Reader) (*ranking.Table, error) {
	cr := csv.NewReader(r)
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, errors.New("empty csv")
	}
	years := rows[0][1:]
	columns := make([][]string, len(years))
	for n, row := range rows[1:] {
		if idx, err := strconv.Atoi(row[0]); err != nil || idx != n {
			return nil, fmt.Errorf("row %d: bad index %q", n+1, row[0])
		}
		for i := range years {
			columns[i] = append(columns[i], row[i+1])
		}
	}
	for i, col := range columns {
		end := len(col)
		for end > 0 && col[end-1] == "" {
			end--
		}
		columns[i] = col[:end]
	}
	return ranking.NewTable(years, columns)
}

// SaveTable writes t to path, replacing any existing file.
func SaveTable(path string, t *ranking.Table) error {
	var buf bytes.Buffer
	if err := WriteTable(&buf, t); err != nil {
		return &PersistenceError{Path: path, Op: "encode", Err: err}
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return &PersistenceError{Path: path, Op: "mkdir", Err: err}
		}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return &PersistenceError{Path: path, Op: "write", Err: err}
	}
	return nil
}

func LoadTable(path string) (*ranking.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &PersistenceError{Path: path, Op: "open", Err: err}
	}
	defer f.Close()
	t, err := ReadTable(f)
	if err != nil {
		return nil, &PersistenceError{Path: path, Op: "decode", Err: err}
	}
	return t, nil
}

// WriteNDJSON writes any JSON-marshalable items as NDJSON to w.
func WriteNDJSON[T any](w io.Writer, items []T) error {
	enc := json.NewEncoder(w)
	for _, it := range items {
		if err := enc.Encode(it); err != nil {
			return err
		}
	}
	return nil
}
