package graph

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResult_Format_Empty(t *testing.T) {
	assert.Equal(t, "Query returned no results.", Result{}.Format())
}

func TestResult_Format_Rows(t *testing.T) {
	r := Result{
		Columns: []string{"name", "count"},
		Rows: []map[string]any{
			{"name": "Alice", "count": int64(3)},
			{"name": "Bob", "count": int64(1)},
		},
		Count: 2,
	}

	out := r.Format()
	assert.Contains(t, out, "Columns: name, count")
	assert.Contains(t, out, "Rows (2 total):")
	assert.Contains(t, out, "Alice | 3")
	assert.Contains(t, out, "Bob | 1")
}

func TestResult_Format_CapsRows(t *testing.T) {
	rows := make([]map[string]any, 80)
	for i := range rows {
		rows[i] = map[string]any{"n": i}
	}
	r := Result{Columns: []string{"n"}, Rows: rows, Count: 80}

	out := r.Format()
	assert.Contains(t, out, "... and 30 more rows")
	assert.Equal(t, maxFormattedRows, strings.Count(out, "\n")-3) // header, count line, trailer
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "3", formatValue(float64(3)))
	assert.Equal(t, "3.33", formatValue(float64(10)/3))
	assert.Equal(t, "", formatValue(nil))
	assert.Equal(t, "hello", formatValue("hello"))

	long := strings.Repeat("x", 150)
	formatted := formatValue(long)
	assert.Len(t, formatted, 100)
	assert.True(t, strings.HasSuffix(formatted, "..."))
}

func TestFormatValue_Int(t *testing.T) {
	assert.Equal(t, "42", formatValue(int64(42)))
	assert.Equal(t, fmt.Sprintf("%v", true), formatValue(true))
}
