package domain

import "time"

// Severity classifies a fault or an overall diagnosis
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Rank orders severities so the overall diagnosis can take the maximum
func (s Severity) Rank() int {
	switch s {
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	default:
		return 0
	}
}

// Level classifies an in-app notification
type Level string

const (
	LevelInfo     Level = "info"
	LevelWarning  Level = "warning"
	LevelCritical Level = "critical"
)

// Direction says which side of the operating range a value violated
type Direction string

const (
	DirectionLow  Direction = "low"
	DirectionHigh Direction = "high"
)

// ParameterSnapshot is one timestamped set of parameter readings for a
// device. Produced by the telemetry store; immutable once read.
type ParameterSnapshot struct {
	DeviceID   string             `json:"device_id" bson:"device_id"`
	Parameters map[string]float64 `json:"parameters" bson:"parameters"`
	CapturedAt time.Time          `json:"captured_at" bson:"captured_at"`
}

// ThresholdRule defines the operating range for one parameter. Nil bounds
// are unchecked. The optimal band is descriptive only and never faults.
type ThresholdRule struct {
	Min        *float64 `json:"min,omitempty"`
	Max        *float64 `json:"max,omitempty"`
	OptimalMin *float64 `json:"optimal_min,omitempty"`
	OptimalMax *float64 `json:"optimal_max,omitempty"`
}

// Fault is a single parameter value found outside its operating range
type Fault struct {
	Parameter   string    `json:"parameter" bson:"parameter"`
	Value       float64   `json:"value" bson:"value"`
	Threshold   float64   `json:"threshold" bson:"threshold"`
	Direction   Direction `json:"direction" bson:"direction"`
	Severity    Severity  `json:"severity" bson:"severity"`
	Description string    `json:"description" bson:"description"`
	Impact      string    `json:"impact" bson:"impact"`
}

// DiagnosisResult is the outcome of one threshold evaluation pass
type DiagnosisResult struct {
	HasFault        bool     `json:"has_fault" bson:"has_fault"`
	Faults          []Fault  `json:"faults" bson:"faults"`
	Severity        Severity `json:"severity" bson:"severity"`
	Recommendations []string `json:"recommendations" bson:"recommendations"`
}

// MonitoringSession is the live standing subscription to one device's
// telemetry. At most one active session exists per device.
type MonitoringSession struct {
	DeviceID  string    `json:"device_id"`
	OwnerID   string    `json:"owner_id"`
	Active    bool      `json:"active"`
	StartedAt time.Time `json:"started_at"`
}

// Notification is one entry in the in-app feed. Never deleted, only
// marked read.
type Notification struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Level     Level     `json:"level"`
	DeviceID  string    `json:"device_id"`
	Timestamp time.Time `json:"timestamp"`
	Read      bool      `json:"read"`
}

// NotificationPreferences controls which external channels a user's
// critical alerts fan out to
type NotificationPreferences struct {
	PushEnabled     bool `json:"push_enabled" bson:"push_enabled"`
	EmailEnabled    bool `json:"email_enabled" bson:"email_enabled"`
	SMSEnabled      bool `json:"sms_enabled" bson:"sms_enabled"`
	WhatsappEnabled bool `json:"whatsapp_enabled" bson:"whatsapp_enabled"`
}

// DefaultPreferences is the all-enabled fallback used when the user record
// is missing or the lookup fails
func DefaultPreferences() NotificationPreferences {
	return NotificationPreferences{
		PushEnabled:     true,
		EmailEnabled:    true,
		SMSEnabled:      true,
		WhatsappEnabled: true,
	}
}

// Device is one entry of the device registry
type Device struct {
	ID      string `json:"id" bson:"_id"`
	OwnerID string `json:"owner_id" bson:"owner_id"`
	Name    string `json:"name" bson:"name"`
	Active  bool   `json:"active" bson:"active"`
}

// AuditRecord is one immutable monitoring-cycle entry appended to the
// external log store
type AuditRecord struct {
	DeviceID          string             `json:"device_id" bson:"device_id"`
	OwnerID           string             `json:"owner_id" bson:"owner_id"`
	Parameters        map[string]float64 `json:"parameters" bson:"parameters"`
	Diagnosis         DiagnosisResult    `json:"diagnosis" bson:"diagnosis"`
	UnusualConditions []string           `json:"unusual_conditions" bson:"unusual_conditions"`
	HasIssues         bool               `json:"has_issues" bson:"has_issues"`
	Severity          Severity           `json:"severity" bson:"severity"`
	Offline           bool               `json:"offline" bson:"offline"`
	Timestamp         time.Time          `json:"timestamp" bson:"timestamp"`
}
