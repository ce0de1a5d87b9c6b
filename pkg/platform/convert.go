package platform

// toFloat64 converts various numeric types to float64.
func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

// parseBool extracts a bool value, returning false for anything else.
func parseBool(v any) bool {
	b, ok := v.(bool)
	return ok && b
}

// parseString extracts a string value, returning "" for anything else.
func parseString(v any) string {
	s, _ := v.(string)
	return s
}
