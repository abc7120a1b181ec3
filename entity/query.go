package entity

import (
	"fmt"
	"sort"

	"github.com/veriscribe/veriscribe/core"
)

// applyQuery emulates the hosted backend's query capability client-side:
// equality filter on one field, descending order by one field, optional
// result cap. Used by the local backends so callers stay backend-agnostic.
func applyQuery(docs []core.Document, q core.Query) []core.Document {
	out := make([]core.Document, 0, len(docs))
	for _, doc := range docs {
		if q.Field != "" && !valuesEqual(doc[q.Field], q.Equals) {
			continue
		}
		out = append(out, doc)
	}
	if q.OrderBy != "" {
		sort.SliceStable(out, func(i, j int) bool {
			return less(out[j][q.OrderBy], out[i][q.OrderBy]) // descending
		})
	}
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out
}

func valuesEqual(a, b any) bool {
	af, aok := asFloat(a)
	bf, bok := asFloat(b)
	if aok && bok {
		return af == bf
	}
	return fmt.Sprint(a) == fmt.Sprint(b)
}

// less orders mixed JSON values: numbers numerically, everything else by
// string form. Numbers sort before non-numbers.
func less(a, b any) bool {
	af, aok := asFloat(a)
	bf, bok := asFloat(b)
	switch {
	case aok && bok:
		return af < bf
	case aok:
		return true
	case bok:
		return false
	default:
		return fmt.Sprint(a) < fmt.Sprint(b)
	}
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
