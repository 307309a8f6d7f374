// Package diagnosis evaluates parameter snapshots against the operating
// and critical threshold tables. Both passes are pure functions with no
// side effects, which is what keeps the monitoring loop testable.
package diagnosis

import (
	"fmt"
	"sort"

	"aqua_project/internal/domain"
)

// Severity grading factors. A value below 90% of the minimum, or above
// 120% of the maximum, is graded high instead of medium.
const (
	lowSideHighFactor  = 0.9
	highSideHighFactor = 1.2
)

// recommendations is keyed by "parameter:direction". Faults with no
// specific entry fall back to the generic pair below.
var recommendations = map[string]string{
	"ph:low":               "Increase pH by dosing an alkaline agent (soda ash or lime)",
	"ph:high":              "Decrease pH by dosing an acid (CO2 or dilute sulfuric acid)",
	"tss:high":             "Improve filtration or add flocculant to settle suspended solids",
	"bod:high":             "Increase aeration and review biological treatment loading",
	"cod:high":             "Increase aeration and check for industrial discharge upstream",
	"hardness:high":        "Pre-soften intake water with ion exchange or lime softening",
	"dissolved_oxygen:low": "Increase blower output or add diffusers to raise dissolved oxygen",
	"temperature:low":      "Check heating and insulation of the treatment basin",
	"temperature:high":     "Increase cooling or reduce thermal load on the intake",
	"conductivity:high":    "Check for saline intrusion or concentrated reject streams",
	"turbidity:high":       "Inspect clarifier performance and coagulant dosing",
}

var genericRecommendations = []string{
	"Inspect the affected treatment stage and verify sensor calibration",
	"Schedule a manual water sample for laboratory confirmation",
}

// Diagnose classifies every recognized parameter of the snapshot against
// its operating threshold rule. Unrecognized parameters are skipped
// silently; values inside [min, max] never fault even when outside the
// optimal band.
func Diagnose(snap domain.ParameterSnapshot) domain.DiagnosisResult {
	result := domain.DiagnosisResult{
		Faults:          []domain.Fault{},
		Severity:        domain.SeverityLow,
		Recommendations: []string{},
	}

	for _, name := range sortedParameters(snap.Parameters) {
		rule, ok := domain.OperatingThresholds[name]
		if !ok {
			continue
		}

		value := snap.Parameters[name]
		if fault := evaluate(name, value, rule); fault != nil {
			result.Faults = append(result.Faults, *fault)
			if fault.Severity.Rank() > result.Severity.Rank() {
				result.Severity = fault.Severity
			}
		}
	}

	result.HasFault = len(result.Faults) > 0
	if result.HasFault {
		result.Recommendations = recommend(result.Faults)
	}

	return result
}

// evaluate returns the fault for one (parameter, value) pair, or nil when
// the value sits inside the operating range
func evaluate(name string, value float64, rule domain.ThresholdRule) *domain.Fault {
	if rule.Min != nil && value < *rule.Min {
		severity := domain.SeverityMedium
		if value < lowSideHighFactor * *rule.Min {
			severity = domain.SeverityHigh
		}
		return &domain.Fault{
			Parameter:   name,
			Value:       value,
			Threshold:   *rule.Min,
			Direction:   domain.DirectionLow,
			Severity:    severity,
			Description: fmt.Sprintf("%s %.2f is below the minimum of %.2f", name, value, *rule.Min),
			Impact:      domain.ParameterImpacts[name],
		}
	}

	if rule.Max != nil && value > *rule.Max {
		severity := domain.SeverityMedium
		if value > highSideHighFactor * *rule.Max {
			severity = domain.SeverityHigh
		}
		return &domain.Fault{
			Parameter:   name,
			Value:       value,
			Threshold:   *rule.Max,
			Direction:   domain.DirectionHigh,
			Severity:    severity,
			Description: fmt.Sprintf("%s %.2f exceeds the maximum of %.2f", name, value, *rule.Max),
			Impact:      domain.ParameterImpacts[name],
		}
	}

	return nil
}

// recommend matches faults against the recommendation table. When faults
// exist but none has a specific entry, the two generic recommendations
// are returned instead.
func recommend(faults []domain.Fault) []string {
	recs := []string{}
	seen := map[string]bool{}

	for _, fault := range faults {
		key := fmt.Sprintf("%s:%s", fault.Parameter, fault.Direction)
		if rec, ok := recommendations[key]; ok && !seen[rec] {
			recs = append(recs, rec)
			seen[rec] = true
		}
	}

	if len(recs) == 0 {
		recs = append(recs, genericRecommendations...)
	}

	return recs
}

// sortedParameters keeps fault order deterministic across runs
func sortedParameters(params map[string]float64) []string {
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
