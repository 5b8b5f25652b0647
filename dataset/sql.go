package dataset

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
)

// LoadSQL runs query on db and returns every numeric column of the result
// as a dimension, in column order. Non-numeric columns are skipped. A NULL
// in a numeric column is an error.
//
// With DuckDB this reads files directly, e.g.
//
//	SELECT x, y FROM read_csv_auto('points.csv')
func LoadSQL(ctx context.Context, db *sql.DB, query string, args ...any) (*Dataset, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying points: %w", err)
	}
	defer rows.Close()

	types, err := rows.ColumnTypes()
	if err != nil {
		return nil, fmt.Errorf("reading column types: %w", err)
	}

	var (
		d       Dataset
		numeric []int
	)
	for i, ct := range types {
		if isNumericType(ct.DatabaseTypeName()) {
			numeric = append(numeric, i)
			d.Columns = append(d.Columns, ct.Name())
		}
	}
	if len(numeric) == 0 {
		return nil, fmt.Errorf("%w: query returned no numeric columns", ErrMalformed)
	}

	values := make([]any, len(types))
	dest := make([]any, len(types))
	for i := range values {
		dest[i] = &values[i]
	}

	row := 0
	for rows.Next() {
		row++
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scanning row %d: %w", row, err)
		}
		point := make([]float64, len(numeric))
		for j, c := range numeric {
			v, err := toFloat(values[c])
			if err != nil {
				return nil, fmt.Errorf("%w: row %d column %q: %v", ErrMalformed, row, d.Columns[j], err)
			}
			point[j] = v
		}
		d.Points = append(d.Points, point)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}

	if len(d.Points) == 0 {
		return nil, fmt.Errorf("%w: query returned no rows", ErrMalformed)
	}
	return &d, nil
}

var numericTypes = map[string]bool{
	"TINYINT": true, "SMALLINT": true, "INTEGER": true, "BIGINT": true, "HUGEINT": true,
	"UTINYINT": true, "USMALLINT": true, "UINTEGER": true, "UBIGINT": true, "UHUGEINT": true,
	"FLOAT": true, "DOUBLE": true, "REAL": true, "INT": true, "NUMERIC": true,
}

func isNumericType(name string) bool {
	name = strings.ToUpper(name)
	return numericTypes[name] || strings.HasPrefix(name, "DECIMAL") || strings.HasPrefix(name, "NUMERIC")
}

func toFloat(v any) (float64, error) {
	var f float64
	switch x := v.(type) {
	case nil:
		return 0, fmt.Errorf("NULL value")
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int8:
		f = float64(x)
	case int16:
		f = float64(x)
	case int32:
		f = float64(x)
	case int64:
		f = float64(x)
	case uint8:
		f = float64(x)
	case uint16:
		f = float64(x)
	case uint32:
		f = float64(x)
	case uint64:
		f = float64(x)
	case *big.Int:
		f, _ = new(big.Float).SetInt(x).Float64()
	case []byte:
		return parseFloat(string(x))
	case string:
		return parseFloat(x)
	case interface{ Float64() float64 }:
		f = x.Float64()
	case fmt.Stringer:
		return parseFloat(x.String())
	default:
		return 0, fmt.Errorf("unsupported value type %T", v)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("non-finite value %v", f)
	}
	return f, nil
}

func parseFloat(s string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", s)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("non-finite value %q", s)
	}
	return f, nil
}
