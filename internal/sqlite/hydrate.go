package sqlite

import (
	"time"

	"github.com/dukaforge/stockroom/pkg/types"
)

// Row value accessors. The sqlite driver hands back int64 for INTEGER,
// float64 for REAL, and string (via scanRows) for TEXT; these helpers
// flatten the variants so hydration stays terse.

func rowString(r types.Row, col string) string {
	if v, ok := r[col].(string); ok {
		return v
	}
	return ""
}

func rowFloat(r types.Row, col string) float64 {
	switch v := r[col].(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	}
	return 0
}

func rowInt(r types.Row, col string) int {
	switch v := r[col].(type) {
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}

func rowTime(r types.Row, col string) time.Time {
	t, err := time.Parse(time.RFC3339, rowString(r, col))
	if err != nil {
		return time.Time{}
	}
	return t
}
