package utils

import "strings"

// LowerKeys returns a copy of m with every key lower-cased.
// It never returns nil.
func LowerKeys(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[strings.ToLower(k)] = v
	}
	return out
}

// HeaderValues collects the values of headers starting with prefix
// (case-insensitive), keyed by the lower-cased remainder of the header name.
func HeaderValues(headers map[string][]string, prefix string) map[string]string {
	out := make(map[string]string)
	p := strings.ToLower(prefix)
	for name, values := range headers {
		lower := strings.ToLower(name)
		if !strings.HasPrefix(lower, p) || len(lower) == len(p) || len(values) == 0 {
			continue
		}
		out[lower[len(p):]] = values[0]
	}
	return out
}

// ToBool converts a query or header value to bool.
// It accepts "1" and "true" in any case.
func ToBool(val string) bool {
	return val == "1" || strings.EqualFold(val, "true")
}
