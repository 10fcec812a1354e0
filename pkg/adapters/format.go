package adapters

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// FormatValue renders a stored value with exactly two decimals.
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// FormatCell formats numeric cells to two decimals and passes everything else
// through as its string form.
func FormatCell(cell any) string {
	switch v := cell.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return FormatValue(v)
	case float32:
		return FormatValue(float64(v))
	case int:
		return FormatValue(float64(v))
	case int64:
		return FormatValue(float64(v))
	case json.Number:
		if f, err := v.Float64(); err == nil {
			return FormatValue(f)
		}
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}
