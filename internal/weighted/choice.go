package weighted

import "strings"

// Option is a candidate string with a selection weight, used for small
// in-memory choices such as name templates and descriptor words.
type Option struct {
	Value  string
	Weight float64
}

// Uniform builds equal-weight Options from values, skipping blanks.
func Uniform(values []string) []Option {
	opts := make([]Option, 0, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		opts = append(opts, Option{Value: v, Weight: 1.0})
	}
	return opts
}

// PickOption selects one option value proportionally to its weight.
//
// Precondition: src must be non-nil; at least one option must have Weight > 0.
// Panics with "weighted: PickOption called with no positive weights" otherwise,
// since option sets are assembled by code, not data, and an empty set is a
// programming error.
func PickOption(src Source, opts []Option) string {
	total := 0.0
	for _, o := range opts {
		if o.Weight > 0 {
			total += o.Weight
		}
	}
	if total <= 0 {
		panic("weighted: PickOption called with no positive weights")
	}
	target := src.Float64() * total
	for _, o := range opts {
		if o.Weight <= 0 {
			continue
		}
		if target < o.Weight {
			return o.Value
		}
		target -= o.Weight
	}
	for i := len(opts) - 1; i >= 0; i-- {
		if opts[i].Weight > 0 {
			return opts[i].Value
		}
	}
	return ""
}

// SplitCSV splits a comma-separated value string into trimmed parts,
// dropping empties.
func SplitCSV(csv string) []string {
	parts := strings.Split(csv, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// PickCSV returns one random trimmed value from a comma-separated string,
// or "" when the string has no values.
func PickCSV(src Source, csv string) string {
	parts := SplitCSV(csv)
	if len(parts) == 0 {
		return ""
	}
	return parts[src.Intn(len(parts))]
}
