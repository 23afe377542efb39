// Package attrs reads slog-style alternating key/value argument lists.
package attrs

// Strings collects the string-valued pairs of kv, formatted as
// [key1, value1, key2, value2, ...]. Non-string keys or values are skipped,
// and a later duplicate key overwrites an earlier one.
func Strings(kv []any) map[string]string {
	out := make(map[string]string, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		k, ok := kv[i].(string)
		if !ok {
			continue
		}
		if v, ok := kv[i+1].(string); ok {
			out[k] = v
		}
	}
	return out
}
