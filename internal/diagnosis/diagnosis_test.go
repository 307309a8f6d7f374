package diagnosis

import (
	"strings"
	"testing"
	"time"

	"aqua_project/internal/domain"
)

func snapshot(params map[string]float64) domain.ParameterSnapshot {
	return domain.ParameterSnapshot{
		DeviceID:   "DEV_001",
		Parameters: params,
		CapturedAt: time.Now(),
	}
}

func TestDiagnoseAllWithinRange(t *testing.T) {
	result := Diagnose(snapshot(map[string]float64{
		"ph":          7.2,
		"bod":         15,
		"cod":         120,
		"tss":         40,
		"flow":        12.5,
		"temperature": 25,
	}))

	if result.HasFault {
		t.Fatalf("expected no fault, got %d faults: %+v", len(result.Faults), result.Faults)
	}
	if result.Severity != domain.SeverityLow {
		t.Errorf("severity = %s, want low", result.Severity)
	}
	if len(result.Recommendations) != 0 {
		t.Errorf("expected no recommendations, got %v", result.Recommendations)
	}
}

func TestDiagnoseEmptySnapshot(t *testing.T) {
	result := Diagnose(snapshot(map[string]float64{}))

	if result.HasFault {
		t.Error("empty snapshot must not fault")
	}
	if len(result.Faults) != 0 {
		t.Errorf("faults = %v, want empty", result.Faults)
	}
	if len(result.Recommendations) != 0 {
		t.Errorf("recommendations = %v, want empty", result.Recommendations)
	}
	if result.Severity != domain.SeverityLow {
		t.Errorf("severity = %s, want low", result.Severity)
	}
}

func TestDiagnoseUnknownParameterSkipped(t *testing.T) {
	result := Diagnose(snapshot(map[string]float64{
		"chlorophyll": 9999,
		"ph":          7.0,
	}))

	if result.HasFault {
		t.Errorf("unknown parameter produced faults: %+v", result.Faults)
	}
}

func TestDiagnoseLowSideSeverityGrading(t *testing.T) {
	// ph min is 6.5; 0.9*min = 5.85
	testCases := []struct {
		name string
		ph   float64
		want domain.Severity
	}{
		{"just below min is medium", 6.2, domain.SeverityMedium},
		{"just above 90 percent of min is medium", 5.9, domain.SeverityMedium},
		{"below 90 percent of min is high", 5.5, domain.SeverityHigh},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := Diagnose(snapshot(map[string]float64{"ph": tc.ph}))
			if len(result.Faults) != 1 {
				t.Fatalf("faults = %d, want 1", len(result.Faults))
			}
			fault := result.Faults[0]
			if fault.Direction != domain.DirectionLow {
				t.Errorf("direction = %s, want low", fault.Direction)
			}
			if fault.Severity != tc.want {
				t.Errorf("severity = %s, want %s", fault.Severity, tc.want)
			}
		})
	}
}

func TestDiagnoseHighPH(t *testing.T) {
	// ph max is 8.5; 9.2 <= 8.5*1.2 so medium
	result := Diagnose(snapshot(map[string]float64{"ph": 9.2}))

	if len(result.Faults) != 1 {
		t.Fatalf("faults = %d, want exactly 1", len(result.Faults))
	}

	fault := result.Faults[0]
	if fault.Direction != domain.DirectionHigh {
		t.Errorf("direction = %s, want high", fault.Direction)
	}
	if fault.Severity != domain.SeverityMedium {
		t.Errorf("severity = %s, want medium", fault.Severity)
	}

	found := false
	for _, rec := range result.Recommendations {
		if strings.Contains(strings.ToLower(rec), "ph") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a pH-specific recommendation, got %v", result.Recommendations)
	}
}

func TestDiagnoseHighSideSeverityGrading(t *testing.T) {
	// tss max is 100; 1.2*max = 120
	result := Diagnose(snapshot(map[string]float64{"tss": 121}))
	if result.Faults[0].Severity != domain.SeverityHigh {
		t.Errorf("tss 121 severity = %s, want high", result.Faults[0].Severity)
	}

	result = Diagnose(snapshot(map[string]float64{"tss": 110}))
	if result.Faults[0].Severity != domain.SeverityMedium {
		t.Errorf("tss 110 severity = %s, want medium", result.Faults[0].Severity)
	}
}

func TestDiagnoseOptimalBandNeverFaults(t *testing.T) {
	// ph 8.3 is outside optimal [7.0, 8.0] but inside operating [6.5, 8.5]
	result := Diagnose(snapshot(map[string]float64{"ph": 8.3}))

	if result.HasFault {
		t.Errorf("value inside operating range faulted: %+v", result.Faults)
	}
}

func TestDiagnoseOverallSeverityIsMax(t *testing.T) {
	result := Diagnose(snapshot(map[string]float64{
		"ph":  9.2, // medium
		"tss": 250, // high
	}))

	if result.Severity != domain.SeverityHigh {
		t.Errorf("overall severity = %s, want high", result.Severity)
	}
	if len(result.Faults) != 2 {
		t.Errorf("faults = %d, want 2", len(result.Faults))
	}
}

func TestDiagnoseGenericRecommendations(t *testing.T) {
	// flow has a min rule but no entry in the recommendation table
	result := Diagnose(snapshot(map[string]float64{"flow": -5}))

	if !result.HasFault {
		t.Fatal("expected a fault for negative flow")
	}
	if len(result.Recommendations) != 2 {
		t.Errorf("expected the two generic recommendations, got %v", result.Recommendations)
	}
}

func TestCheckUnusual(t *testing.T) {
	testCases := []struct {
		name   string
		params map[string]float64
		want   int
	}{
		{"all inside critical bands", map[string]float64{"ph": 9.0, "bod": 45, "temperature": 48}, 0},
		{"ph below critical band", map[string]float64{"ph": 5.2}, 1},
		{"ph above critical band", map[string]float64{"ph": 9.8}, 1},
		{"two conditions at once", map[string]float64{"ph": 10.1, "cod": 450}, 2},
		{"parameter without critical rule", map[string]float64{"hardness": 5000}, 0},
		{"empty snapshot", map[string]float64{}, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			conditions := CheckUnusual(snapshot(tc.params))
			if len(conditions) != tc.want {
				t.Errorf("conditions = %v, want %d entries", conditions, tc.want)
			}
		})
	}
}

func TestCheckUnusualMessageContent(t *testing.T) {
	conditions := CheckUnusual(snapshot(map[string]float64{"ph": 9.8}))
	if len(conditions) != 1 {
		t.Fatalf("conditions = %v, want 1 entry", conditions)
	}
	if !strings.Contains(conditions[0], "ph") || !strings.Contains(conditions[0], "9.50") {
		t.Errorf("unexpected condition text: %q", conditions[0])
	}
}
