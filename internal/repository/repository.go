package repository

import (
	"context"

	"aqua_project/internal/domain"
)

// AuditSink receives one immutable record per monitoring cycle.
// Append-only; callers treat failures as non-fatal.
type AuditSink interface {
	Append(ctx context.Context, record domain.AuditRecord) error
}

// PreferenceStore reads a user's notification channel preferences
type PreferenceStore interface {
	GetPreferences(ctx context.Context, userID string) (domain.NotificationPreferences, error)
}

// DeviceStore lists the devices registered to an owner
type DeviceStore interface {
	ListDevices(ctx context.Context, ownerID string) ([]domain.Device, error)
}

// TelemetryRepo reads the live telemetry store
type TelemetryRepo interface {
	// LatestSnapshot returns the most recent reading for a device, or
	// nil when the device has never reported
	LatestSnapshot(ctx context.Context, deviceID string) (*domain.ParameterSnapshot, error)
}
