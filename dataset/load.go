package dataset

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// LoadOptions controls how delimited text is parsed.
type LoadOptions struct {
	// Delimiter separates fields. Zero means any run of whitespace, the
	// layout of plain numeric text files. Any other rune is parsed as CSV.
	Delimiter rune

	// Header treats the first data row as column names.
	Header bool

	// Comment starts a line that is ignored. Default: '#'.
	Comment rune

	// Columns selects which fields become dimensions, by zero-based index,
	// in the given order. Empty means every field.
	Columns []int
}

// LoadFile reads a dataset from the file at path.
func LoadFile(path string, opts LoadOptions) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening dataset: %w", err)
	}
	defer f.Close()

	d, err := Load(f, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// Load reads a dataset of numeric rows from r. Every row must have the same
// number of fields and every selected field must parse as a finite number.
func Load(r io.Reader, opts LoadOptions) (*Dataset, error) {
	if opts.Comment == 0 {
		opts.Comment = '#'
	}

	var next recordFunc
	if opts.Delimiter == 0 {
		next = whitespaceRecords(r, opts.Comment)
	} else {
		next = csvRecords(r, opts.Delimiter, opts.Comment)
	}

	var (
		d      Dataset
		fields int
	)
	for {
		line, record, err := next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		if fields == 0 {
			fields = len(record)
			if err := checkColumns(opts.Columns, fields, line); err != nil {
				return nil, err
			}
			if opts.Header {
				d.Columns = selectFields(record, opts.Columns)
				continue
			}
			d.Columns = selectFields(defaultColumns(fields), opts.Columns)
		}
		if len(record) != fields {
			return nil, fmt.Errorf("%w: line %d has %d fields, want %d", ErrMalformed, line, len(record), fields)
		}

		point, err := parseRecord(selectFields(record, opts.Columns), line)
		if err != nil {
			return nil, err
		}
		d.Points = append(d.Points, point)
	}

	if len(d.Points) == 0 {
		return nil, fmt.Errorf("%w: no data rows", ErrMalformed)
	}
	return &d, nil
}

// recordFunc returns the next non-empty, non-comment record and its 1-based
// line number, or io.EOF.
type recordFunc func() (int, []string, error)

func whitespaceRecords(r io.Reader, comment rune) recordFunc {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	line := 0
	return func() (int, []string, error) {
		for sc.Scan() {
			line++
			text := strings.TrimSpace(sc.Text())
			if text == "" || strings.HasPrefix(text, string(comment)) {
				continue
			}
			return line, strings.Fields(text), nil
		}
		if err := sc.Err(); err != nil {
			return line, nil, fmt.Errorf("reading line %d: %w", line+1, err)
		}
		return line, nil, io.EOF
	}
}

func csvRecords(r io.Reader, delimiter, comment rune) recordFunc {
	cr := csv.NewReader(r)
	cr.Comma = delimiter
	cr.Comment = comment
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	return func() (int, []string, error) {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return 0, nil, io.EOF
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				return parseErr.Line, nil, fmt.Errorf("%w: %v", ErrMalformed, parseErr)
			}
			return 0, nil, fmt.Errorf("reading csv: %w", err)
		}
		line, _ := cr.FieldPos(0)
		for i := range record {
			record[i] = strings.TrimSpace(record[i])
		}
		return line, record, nil
	}
}

func checkColumns(columns []int, fields, line int) error {
	for _, c := range columns {
		if c < 0 || c >= fields {
			return fmt.Errorf("%w: line %d: column %d out of range, row has %d fields", ErrMalformed, line, c, fields)
		}
	}
	return nil
}

func selectFields[T any](record []T, columns []int) []T {
	if len(columns) == 0 {
		return append([]T(nil), record...)
	}
	out := make([]T, len(columns))
	for i, c := range columns {
		out[i] = record[c]
	}
	return out
}

func parseRecord(fields []string, line int) ([]float64, error) {
	point := make([]float64, len(fields))
	for j, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d column %d: %q is not a number", ErrMalformed, line, j+1, f)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: line %d column %d: non-finite value %q", ErrMalformed, line, j+1, f)
		}
		point[j] = v
	}
	return point, nil
}
