package dataset

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *sql.DB {
	db, err := sql.Open("duckdb", "")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`CREATE TABLE points (name VARCHAR, x DOUBLE, y DOUBLE, n INTEGER)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO points VALUES ('a', 0.5, 1.5, 1), ('b', 2.0, -3.0, 2), ('c', 4.25, 0.0, 3)`)
	require.NoError(t, err)
	return db
}

func TestLoadSQL_NumericColumns(t *testing.T) {
	db := setupTestDB(t)

	d, err := LoadSQL(t.Context(), db, "SELECT name, x, y, n FROM points ORDER BY name")
	require.NoError(t, err)

	assert.Equal(t, []string{"x", "y", "n"}, d.Columns)
	assert.Equal(t, [][]float64{
		{0.5, 1.5, 1},
		{2.0, -3.0, 2},
		{4.25, 0.0, 3},
	}, d.Points)
}

func TestLoadSQL_Args(t *testing.T) {
	db := setupTestDB(t)

	d, err := LoadSQL(t.Context(), db, "SELECT x, y FROM points WHERE n >= ? ORDER BY n", 2)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{2.0, -3.0}, {4.25, 0.0}}, d.Points)
}

func TestLoadSQL_ReadCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "points.csv")
	require.NoError(t, os.WriteFile(path, []byte("x,y\n1.0,2.0\n3.0,4.0\n"), 0o600))

	db, err := sql.Open("duckdb", "")
	require.NoError(t, err)
	defer db.Close()

	query := fmt.Sprintf("SELECT CAST(x AS DOUBLE) AS x, CAST(y AS DOUBLE) AS y FROM read_csv_auto('%s')", path)
	d, err := LoadSQL(t.Context(), db, query)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{1, 2}, {3, 4}}, d.Points)
}

func TestLoadSQL_Errors(t *testing.T) {
	db := setupTestDB(t)

	tests := []struct {
		name      string
		query     string
		malformed bool
	}{
		{"no numeric columns", "SELECT name FROM points", true},
		{"no rows", "SELECT x FROM points WHERE n > 10", true},
		{"null value", "SELECT CAST(NULL AS DOUBLE) AS x", true},
		{"bad sql", "SELEC x FROM points", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadSQL(t.Context(), db, tt.query)
			require.Error(t, err)
			if tt.malformed {
				assert.ErrorIs(t, err, ErrMalformed)
			} else {
				assert.NotErrorIs(t, err, ErrMalformed)
			}
		})
	}
}

func TestToFloat(t *testing.T) {
	tests := []struct {
		in      any
		want    float64
		wantErr bool
	}{
		{float32(1.5), 1.5, false},
		{int8(-3), -3, false},
		{uint64(7), 7, false},
		{"2.5", 2.5, false},
		{[]byte(" 4 "), 4, false},
		{nil, 0, true},
		{true, 0, true},
		{"Inf", 0, true},
	}
	for _, tt := range tests {
		got, err := toFloat(tt.in)
		if tt.wantErr {
			assert.Error(t, err, "input %#v", tt.in)
			continue
		}
		require.NoError(t, err, "input %#v", tt.in)
		assert.Equal(t, tt.want, got)
	}
}
