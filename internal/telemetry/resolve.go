package telemetry

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Resolve walks the snapshot along a dotted key (e.g. "temperature.k") and
// returns the leaf formatted as a display string. The second return value is
// false when the key is empty or over-long, a path segment is missing, an
// intermediate node is not a map, or the leaf has no string form
// (nested map, slice, nil).
//
// Leaf formatting: strings pass through unchanged, floats use 6 significant
// digits, integers are plain decimal, booleans become "1"/"0".
func (s Snapshot) Resolve(dottedKey string) (string, bool) {
	if dottedKey == "" || len(dottedKey) >= MaxKeyLen {
		return "", false
	}

	var node any = s
	for _, seg := range splitKey(dottedKey) {
		m, ok := asMap(node)
		if !ok {
			return "", false
		}
		node, ok = m[seg]
		if !ok {
			return "", false
		}
	}
	return formatLeaf(node)
}

func formatLeaf(v any) (string, bool) {
	switch leaf := v.(type) {
	case string:
		return leaf, true
	case json.Number:
		return formatNumber(leaf), true
	case float64:
		return strconv.FormatFloat(leaf, 'g', 6, 64), true
	case float32:
		return strconv.FormatFloat(float64(leaf), 'g', 6, 32), true
	case int:
		return strconv.FormatInt(int64(leaf), 10), true
	case int64:
		return strconv.FormatInt(leaf, 10), true
	case uint:
		return strconv.FormatUint(uint64(leaf), 10), true
	case uint64:
		return strconv.FormatUint(leaf, 10), true
	case bool:
		if leaf {
			return "1", true
		}
		return "0", true
	default:
		return "", false
	}
}

// formatNumber keeps integers verbatim and reformats decimals to 6
// significant digits, matching the float handling above.
func formatNumber(n json.Number) string {
	s := n.String()
	if !strings.ContainsAny(s, ".eE") {
		return s
	}
	f, err := n.Float64()
	if err != nil {
		return s
	}
	return strconv.FormatFloat(f, 'g', 6, 64)
}
