package metrics

// normalizeLabel guards against empty label values, which would otherwise
// produce indistinguishable blank series.
func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
