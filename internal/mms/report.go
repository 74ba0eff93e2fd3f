package mms

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Table is one parsed MMS report: the column names from the "I" header
// row and the "D" data rows aligned to it. A table is never mutated
// after parsing; lookups are read-only projections.
//
// MMS reports are CSV files where the first field of each row marks its
// kind: "C" for comment rows (the file opens with one and closes with a
// "C","END OF REPORT" trailer), "I" for the header row and "D" for data.
type Table struct {
	Name    string
	Header  []string
	Rows    [][]string
	columns map[string]int
}

// ParseTable reads a single-section MMS report. Rows after a second "I"
// row (a new report section) are ignored; the constraint tables we
// consume are all single-section.
func ParseTable(name string, r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	t := &Table{Name: name}
	line := 0
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, &ParseError{Table: name, Line: line, Reason: err.Error()}
		}
		if len(record) == 0 {
			continue
		}
		switch record[0] {
		case "C":
			// leading comment or END OF REPORT trailer
		case "I":
			if t.Header != nil {
				// second section: stop at the first one
				return t, nil
			}
			t.Header = record
			t.columns = make(map[string]int, len(record))
			for i, col := range record {
				if _, dup := t.columns[col]; !dup {
					t.columns[col] = i
				}
			}
		case "D":
			if t.Header == nil {
				return nil, &ParseError{Table: name, Line: line, Reason: "data row before header row"}
			}
			if len(record) != len(t.Header) {
				return nil, &ParseError{
					Table: name, Line: line,
					Reason: fmt.Sprintf("row has %d fields, header has %d", len(record), len(t.Header)),
				}
			}
			t.Rows = append(t.Rows, record)
		default:
			return nil, &ParseError{Table: name, Line: line, Reason: fmt.Sprintf("unknown row marker %q", record[0])}
		}
	}
	if t.Header == nil {
		return nil, &ParseError{Table: name, Reason: "no header row"}
	}
	return t, nil
}

// Index returns the position of a named column, or a ParseError if the
// published report does not carry it.
func (t *Table) Index(column string) (int, error) {
	if i, ok := t.columns[column]; ok {
		return i, nil
	}
	return 0, &ParseError{Table: t.Name, Reason: fmt.Sprintf("missing column %s", column)}
}

// Float parses a numeric field, treating blank as zero (the archive
// leaves optional numeric columns empty).
func (t *Table) Float(row []string, index int) (float64, error) {
	s := strings.TrimSpace(row[index])
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, &ParseError{Table: t.Name, Reason: fmt.Sprintf("bad numeric value %q in column %s", s, t.Header[index])}
	}
	return v, nil
}

// Int parses an integer field that the archive may publish with a
// decimal point (e.g. TERMID "3" or "3.0").
func (t *Table) Int(row []string, index int) (int, error) {
	v, err := t.Float(row, index)
	if err != nil {
		return 0, err
	}
	return int(v), nil
}
