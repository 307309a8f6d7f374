package diagnosis

import (
	"fmt"

	"aqua_project/internal/domain"
)

// CheckUnusual evaluates the snapshot against the tighter critical
// threshold table and returns one description per near-emergency
// condition. Independent of Diagnose: its own severity semantics (every
// hit is alert-worthy) and its own consumers.
func CheckUnusual(snap domain.ParameterSnapshot) []string {
	conditions := []string{}

	for _, name := range sortedParameters(snap.Parameters) {
		rule, ok := domain.CriticalThresholds[name]
		if !ok {
			continue
		}

		value := snap.Parameters[name]

		if rule.Min != nil && value < *rule.Min {
			conditions = append(conditions,
				fmt.Sprintf("%s %.2f is below the critical limit of %.2f", name, value, *rule.Min))
			continue
		}

		if rule.Max != nil && value > *rule.Max {
			conditions = append(conditions,
				fmt.Sprintf("%s %.2f is above the critical limit of %.2f", name, value, *rule.Max))
		}
	}

	return conditions
}
