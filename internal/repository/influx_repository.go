package repository

import (
	"context"
	"fmt"
	"time"

	"aqua_project/internal/config"
	"aqua_project/internal/domain"
)

// telemetryTable is the measurement the ingest pipeline writes snapshots to
const telemetryTable = "water_quality"

// Non-parameter columns of the telemetry table
var reservedColumns = map[string]bool{
	"time":      true,
	"device_id": true,
	"site":      true,
	"source":    true,
}

// InfluxTelemetryRepo implements TelemetryRepo against InfluxDB v3
type InfluxTelemetryRepo struct {
	db *config.InfluxDatabase
}

// NewInfluxTelemetryRepo creates a new telemetry repository
func NewInfluxTelemetryRepo(db *config.InfluxDatabase) *InfluxTelemetryRepo {
	return &InfluxTelemetryRepo{db: db}
}

// LatestSnapshot returns the newest reading for a device, or nil when the
// device has never reported. Every numeric column except the reserved
// ones is treated as a parameter.
func (r *InfluxTelemetryRepo) LatestSnapshot(ctx context.Context, deviceID string) (*domain.ParameterSnapshot, error) {
	if r.db == nil || r.db.Client == nil {
		return nil, fmt.Errorf("influx client is nil - database not initialized")
	}

	query := fmt.Sprintf(
		"SELECT * FROM %s WHERE device_id = '%s' ORDER BY time DESC LIMIT 1",
		telemetryTable, deviceID)

	iterator, err := r.db.Client.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("telemetry query failed: %w", err)
	}

	if !iterator.Next() {
		return nil, nil
	}

	return rowToSnapshot(deviceID, iterator.Value()), nil
}

// rowToSnapshot converts an Influx result row into a parameter snapshot
func rowToSnapshot(deviceID string, row map[string]interface{}) *domain.ParameterSnapshot {
	snap := &domain.ParameterSnapshot{
		DeviceID:   deviceID,
		Parameters: make(map[string]float64),
	}

	if ts, ok := row["time"].(time.Time); ok {
		snap.CapturedAt = ts
	}

	for column, value := range row {
		if reservedColumns[column] {
			continue
		}
		if v, ok := toFloat(value); ok {
			snap.Parameters[column] = v
		}
	}

	return snap
}

func toFloat(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}
