// Package monitor owns the per-device monitoring sessions: one standing
// telemetry subscription per monitored device, the evaluation cycle run
// on every update, and the decision to raise alerts.
package monitor

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"aqua_project/internal/constants"
	"aqua_project/internal/diagnosis"
	"aqua_project/internal/dispatch"
	"aqua_project/internal/domain"
	"aqua_project/internal/repository"
	"aqua_project/internal/staleness"
	"aqua_project/internal/telemetry"
	"aqua_project/pkg/logger"
)

// Options carries the collaborators and tuning for a monitoring service
type Options struct {
	Source     telemetry.Source
	Telemetry  repository.TelemetryRepo
	Audit      repository.AuditSink
	Devices    repository.DeviceStore
	Dispatcher *dispatch.Dispatcher

	// OfflineThreshold marks telemetry older than this as stale
	OfflineThreshold time.Duration
	// PollFallbackInterval forces one evaluation when no push update
	// arrived within the interval. Zero disables the fallback.
	PollFallbackInterval time.Duration
}

// Service is the monitoring orchestrator. The session registry is the
// only shared mutable state; every mutation goes through the mutex so
// concurrent start/stop calls for the same device preserve the
// at-most-one-subscription invariant.
type Service struct {
	mu       sync.Mutex
	sessions map[string]*session

	source     telemetry.Source
	telemetry  repository.TelemetryRepo
	audit      repository.AuditSink
	devices    repository.DeviceStore
	dispatcher *dispatch.Dispatcher

	offlineThreshold time.Duration
	pollInterval     time.Duration
}

// session is the live subscription state for one device
type session struct {
	deviceID    string
	ownerID     string
	startedAt   time.Time
	unsubscribe func()
	stop        chan struct{}

	mu         sync.Mutex
	lastUpdate time.Time
}

func (s *session) touch() {
	s.mu.Lock()
	s.lastUpdate = time.Now()
	s.mu.Unlock()
}

func (s *session) sinceUpdate() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastUpdate.IsZero() {
		return time.Since(s.startedAt)
	}
	return time.Since(s.lastUpdate)
}

// NewService creates the orchestrator
func NewService(opts Options) *Service {
	if opts.OfflineThreshold <= 0 {
		opts.OfflineThreshold = staleness.DefaultThreshold
	}
	return &Service{
		sessions:         make(map[string]*session),
		source:           opts.Source,
		telemetry:        opts.Telemetry,
		audit:            opts.Audit,
		devices:          opts.Devices,
		dispatcher:       opts.Dispatcher,
		offlineThreshold: opts.OfflineThreshold,
		pollInterval:     opts.PollFallbackInterval,
	}
}

// Start activates monitoring for a device. Idempotent: starting an
// already-active device logs a notice and changes nothing, so duplicate
// subscriptions (and duplicate alerts) cannot happen.
func (svc *Service) Start(deviceID, ownerID string) error {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	if _, active := svc.sessions[deviceID]; active {
		logger.WriteLog(constants.LOG_LEVEL_INFO, deviceID, "MONITOR",
			"Monitoring already active, start ignored")
		return nil
	}

	s := &session{
		deviceID:  deviceID,
		ownerID:   ownerID,
		startedAt: time.Now(),
		stop:      make(chan struct{}),
	}

	unsubscribe, err := svc.source.Subscribe(deviceID,
		func(snap domain.ParameterSnapshot) {
			s.touch()
			svc.evaluate(s, snap)
		},
		func(err error) {
			// Transient telemetry errors keep the subscription alive
			logger.WriteLog(constants.LOG_LEVEL_ERROR, deviceID, "TELEMETRY",
				fmt.Sprintf("Telemetry read error: %v", err))
		},
	)
	if err != nil {
		return fmt.Errorf("telemetry subscribe failed for %s: %w", deviceID, err)
	}

	s.unsubscribe = unsubscribe
	svc.sessions[deviceID] = s

	if svc.pollInterval > 0 {
		go svc.pollLoop(s)
	}

	logger.WriteLog(constants.LOG_LEVEL_INFO, deviceID, "MONITOR",
		fmt.Sprintf("Monitoring started for owner %s", ownerID))
	return nil
}

// Stop deactivates monitoring for a device and unsubscribes from its
// telemetry. Stopping an inactive device is a no-op. In-flight dispatches
// are allowed to complete.
func (svc *Service) Stop(deviceID string) {
	svc.mu.Lock()
	s, active := svc.sessions[deviceID]
	if active {
		delete(svc.sessions, deviceID)
	}
	svc.mu.Unlock()

	if !active {
		logger.WriteLog(constants.LOG_LEVEL_DEBUG, deviceID, "MONITOR",
			"Stop requested for inactive device, ignored")
		return
	}

	s.unsubscribe()
	close(s.stop)

	logger.WriteLog(constants.LOG_LEVEL_INFO, deviceID, "MONITOR", "Monitoring stopped")
}

// StartAll starts monitoring every active registered device of an owner.
// An empty ownerID covers the whole fleet. Returns how many sessions
// were started.
func (svc *Service) StartAll(ctx context.Context, ownerID string) (int, error) {
	devices, err := svc.devices.ListDevices(ctx, ownerID)
	if err != nil {
		return 0, fmt.Errorf("device listing failed: %w", err)
	}

	started := 0
	for _, device := range devices {
		owner := device.OwnerID
		if ownerID != "" {
			owner = ownerID
		}
		if err := svc.Start(device.ID, owner); err != nil {
			logger.WriteLog(constants.LOG_LEVEL_ERROR, device.ID, "MONITOR",
				fmt.Sprintf("Start failed: %v", err))
			continue
		}
		started++
	}

	return started, nil
}

// StopAll stops every active session
func (svc *Service) StopAll() {
	svc.mu.Lock()
	ids := make([]string, 0, len(svc.sessions))
	for id := range svc.sessions {
		ids = append(ids, id)
	}
	svc.mu.Unlock()

	for _, id := range ids {
		svc.Stop(id)
	}
}

// Sessions returns the active monitoring sessions
func (svc *Service) Sessions() []domain.MonitoringSession {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	out := make([]domain.MonitoringSession, 0, len(svc.sessions))
	for _, s := range svc.sessions {
		out = append(out, domain.MonitoringSession{
			DeviceID:  s.deviceID,
			OwnerID:   s.ownerID,
			Active:    true,
			StartedAt: s.startedAt,
		})
	}
	return out
}

// CheckNow forces one evaluation cycle for an active device without
// waiting for the next telemetry push
func (svc *Service) CheckNow(ctx context.Context, deviceID string) error {
	svc.mu.Lock()
	s, active := svc.sessions[deviceID]
	svc.mu.Unlock()

	if !active {
		return fmt.Errorf("no active monitoring session for device %s", deviceID)
	}

	snap, err := svc.telemetry.LatestSnapshot(ctx, deviceID)
	if err != nil {
		return fmt.Errorf("telemetry read failed for %s: %w", deviceID, err)
	}
	if snap == nil {
		return fmt.Errorf("device %s has no telemetry yet", deviceID)
	}

	svc.evaluate(s, *snap)
	return nil
}

// pollLoop forces an evaluation when no push update arrived within the
// fallback interval
func (svc *Service) pollLoop(s *session) {
	ticker := time.NewTicker(svc.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			if s.sinceUpdate() < svc.pollInterval {
				continue
			}
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			err := svc.CheckNow(ctx, s.deviceID)
			cancel()
			if err != nil {
				logger.WriteLog(constants.LOG_LEVEL_WARN, s.deviceID, "MONITOR",
					fmt.Sprintf("Poll fallback check failed: %v", err))
			}
		}
	}
}

// evaluate runs one monitoring cycle: normalize, diagnose, check critical
// bands, append the audit record, and raise at most one alert
func (svc *Service) evaluate(s *session, snap domain.ParameterSnapshot) {
	normalized := domain.NormalizeSnapshot(snap)

	diag := diagnosis.Diagnose(normalized)
	unusual := diagnosis.CheckUnusual(normalized)

	// Staleness adds an offline flag; it never blocks evaluation of the
	// last received values
	var last *time.Time
	if !snap.CapturedAt.IsZero() {
		t := snap.CapturedAt
		last = &t
	}
	offline := staleness.IsOffline(last, svc.offlineThreshold)

	record := domain.AuditRecord{
		DeviceID:          s.deviceID,
		OwnerID:           s.ownerID,
		Parameters:        normalized.Parameters,
		Diagnosis:         diag,
		UnusualConditions: unusual,
		HasIssues:         diag.HasFault || len(unusual) > 0,
		Severity:          diag.Severity,
		Offline:           offline,
		Timestamp:         time.Now(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	err := svc.audit.Append(ctx, record)
	cancel()
	if err != nil {
		// Audit failures never abort the monitoring loop or block dispatch
		logger.WriteLog(constants.LOG_LEVEL_ERROR, s.deviceID, "AUDIT",
			fmt.Sprintf("Audit append failed: %v", err))
	}

	if alert, triggered := composeAlert(s.deviceID, diag, unusual); triggered {
		svc.dispatcher.Dispatch(s.ownerID, alert)
		logger.WriteLog(constants.LOG_LEVEL_WARN, s.deviceID, "MONITOR",
			fmt.Sprintf("Alert raised: %s", alert.Title))
	}
}

// composeAlert decides whether this cycle raises an alert and builds it.
// One alert per cycle per device; unusual conditions take precedence in
// message composition over same-cycle high-severity faults.
func composeAlert(deviceID string, diag domain.DiagnosisResult, unusual []string) (dispatch.AlertInput, bool) {
	if len(unusual) > 0 {
		return dispatch.AlertInput{
			Title:    fmt.Sprintf("Unusual condition on device %s", deviceID),
			Message:  strings.Join(unusual, "; "),
			Level:    domain.LevelCritical,
			DeviceID: deviceID,
		}, true
	}

	if diag.HasFault && diag.Severity == domain.SeverityHigh {
		descriptions := make([]string, 0, len(diag.Faults))
		for _, fault := range diag.Faults {
			descriptions = append(descriptions, fault.Description)
		}
		message := strings.Join(descriptions, "; ")
		if len(diag.Recommendations) > 0 {
			message = fmt.Sprintf("%s. Recommended: %s", message, diag.Recommendations[0])
		}
		return dispatch.AlertInput{
			Title:    fmt.Sprintf("High severity fault on device %s", deviceID),
			Message:  message,
			Level:    domain.LevelCritical,
			DeviceID: deviceID,
		}, true
	}

	return dispatch.AlertInput{}, false
}
