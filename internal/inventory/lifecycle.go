package inventory

import "probe-inventory-backend/internal/model"

// transitions is the status lifecycle: Instock -> Calibrated -> Shipped,
// with Scrapped reachable from any non-terminal state. Shipped and
// Scrapped are terminal.
var transitions = map[model.Status][]model.Status{
	model.StatusInstock:    {model.StatusCalibrated, model.StatusScrapped},
	model.StatusCalibrated: {model.StatusShipped, model.StatusScrapped},
}

// CanTransition reports whether the lifecycle permits from -> to.
func CanTransition(from, to model.Status) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// CanTransitionDirect is CanTransition restricted to direct status
// updates: entering Calibrated is only possible through a calibration,
// never through a bare status change.
func CanTransitionDirect(from, to model.Status) bool {
	if to == model.StatusCalibrated {
		return false
	}
	return CanTransition(from, to)
}

// IsTerminal reports whether a status permits no further transitions.
func IsTerminal(s model.Status) bool {
	return len(transitions[s]) == 0
}
