package graph

import (
	"fmt"
	"strings"
)

// maxFormattedRows caps how many rows are rendered for the LLM. Large result
// sets blow out the synthesis prompt without improving the answer.
const maxFormattedRows = 50

// Format renders a query result as human-readable text suitable for
// inclusion in an LLM prompt.
func (r Result) Format() string {
	if r.Count == 0 {
		return "Query returned no results."
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Columns: %s\n", strings.Join(r.Columns, ", ")))
	sb.WriteString(fmt.Sprintf("Rows (%d total):\n", r.Count))

	displayRows := min(r.Count, maxFormattedRows)

	for i := 0; i < displayRows && i < len(r.Rows); i++ {
		values := make([]string, len(r.Columns))
		for j, col := range r.Columns {
			values[j] = formatValue(r.Rows[i][col])
		}
		sb.WriteString(strings.Join(values, " | ") + "\n")
	}

	if r.Count > maxFormattedRows {
		sb.WriteString(fmt.Sprintf("... and %d more rows\n", r.Count-maxFormattedRows))
	}

	return sb.String()
}

// formatValue formats a single value for display to the LLM. Floats are
// rounded to 2 decimal places to avoid long decimals (like
// 3.3333333333333335) that can confuse the model.
func formatValue(v any) string {
	switch val := v.(type) {
	case float64:
		if val == float64(int64(val)) {
			return fmt.Sprintf("%.0f", val)
		}
		return fmt.Sprintf("%.2f", val)
	case float32:
		if val == float32(int32(val)) {
			return fmt.Sprintf("%.0f", val)
		}
		return fmt.Sprintf("%.2f", val)
	case nil:
		return ""
	default:
		s := fmt.Sprintf("%v", v)
		if len(s) > 100 {
			s = s[:97] + "..."
		}
		return s
	}
}
