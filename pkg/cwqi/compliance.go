package cwqi

// IsFailed reports whether p fails its category's objective. It only interprets the
// status the upstream store assigned; it never compares numbers itself.
func IsFailed(p CategorizedParameter) bool {
	switch p.Category {
	case CategoryHealth:
		return p.CategoryStatus == StatusExceedsMAC
	case CategoryAO:
		switch p.CategoryStatus {
		case StatusExceedsAO:
			return true
		case StatusAORangeValue:
			// range objectives: the row-level verdict decides
			return p.OverallStatus == StatusWarning
		}
	}
	return false
}

// Concerns returns the failing subset of params in input order.
func Concerns(params []CategorizedParameter) []CategorizedParameter {
	out := []CategorizedParameter{}
	for _, p := range params {
		if IsFailed(p) {
			out = append(out, p)
		}
	}
	return out
}
