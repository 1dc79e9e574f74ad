package engine

import "hydromon/internal/types"

// crossing decides whether moving from prev to current emits an alert.
// Alerts fire only on upward transitions through a threshold. On the first
// evaluation of a process (prev == nil) an alert fires if current already
// sits at or above a threshold. When one step crosses both thresholds only
// the high alert is emitted. Returns the alert kind and whether one fired.
func crossing(prev *float64, current, mid, high float64) (types.AlertKind, bool) {
	if prev == nil {
		switch {
		case current >= high:
			return types.AlertHighRisk, true
		case current >= mid:
			return types.AlertMediumRisk, true
		}
		return "", false
	}

	if current >= high && *prev < high {
		return types.AlertHighRisk, true
	}
	if current >= mid && *prev < mid {
		return types.AlertMediumRisk, true
	}
	return "", false
}
