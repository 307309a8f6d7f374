package domain

import "strings"

// parameterAliases maps telemetry field spellings to the canonical keys
// used by both rule tables. Lookup happens after lower-casing, so "Flow",
// "flow" and "FLOW" all land on "flow".
var parameterAliases = map[string]string{
	"do":               "dissolved_oxygen",
	"dissolved oxygen": "dissolved_oxygen",
	"temp":             "temperature",
	"flow rate":        "flow",
	"flowrate":         "flow",
	"ec":               "conductivity",
}

// NormalizeSnapshot canonicalizes parameter-name casing once at the
// ingestion boundary and fills documented defaults for missing core
// parameters. The input map is not modified.
func NormalizeSnapshot(snap ParameterSnapshot) ParameterSnapshot {
	normalized := make(map[string]float64, len(snap.Parameters)+len(SnapshotDefaults))

	for name, value := range snap.Parameters {
		normalized[CanonicalParameter(name)] = value
	}

	for name, value := range SnapshotDefaults {
		if _, ok := normalized[name]; !ok {
			normalized[name] = value
		}
	}

	return ParameterSnapshot{
		DeviceID:   snap.DeviceID,
		Parameters: normalized,
		CapturedAt: snap.CapturedAt,
	}
}

// CanonicalParameter lower-cases a parameter name and resolves known
// aliases
func CanonicalParameter(name string) string {
	key := strings.ToLower(strings.TrimSpace(name))
	if alias, ok := parameterAliases[key]; ok {
		return alias
	}
	return key
}
