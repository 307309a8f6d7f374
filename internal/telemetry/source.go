// Package telemetry exposes the live parameter stream of a device as a
// push-style subscription. The orchestrator depends only on the Source
// interface; the concrete implementation here detects changes in the
// telemetry store and emits snapshots as they appear.
package telemetry

import (
	"context"
	"sync"
	"time"

	"aqua_project/internal/constants"
	"aqua_project/internal/domain"
	"aqua_project/internal/repository"
	"aqua_project/pkg/logger"
)

// Source is a per-device live telemetry subscription. Subscribe returns
// an unsubscribe func; calling it more than once is harmless.
type Source interface {
	Subscribe(deviceID string, onUpdate func(domain.ParameterSnapshot), onError func(error)) (func(), error)
}

// StoreSource implements Source on top of the telemetry repository by
// watching for new capture timestamps. A snapshot is emitted only when
// its timestamp advances past the previously seen one, so duplicate
// reads never produce duplicate updates.
type StoreSource struct {
	repo     repository.TelemetryRepo
	interval time.Duration
}

// NewStoreSource creates a source that checks for fresh readings every
// interval
func NewStoreSource(repo repository.TelemetryRepo, interval time.Duration) *StoreSource {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &StoreSource{repo: repo, interval: interval}
}

// Subscribe starts the watch loop for one device. Read errors go to
// onError and the loop keeps running; the subscription only ends through
// the returned unsubscribe func.
func (s *StoreSource) Subscribe(deviceID string, onUpdate func(domain.ParameterSnapshot), onError func(error)) (func(), error) {
	stop := make(chan struct{})
	var once sync.Once

	go s.watch(deviceID, onUpdate, onError, stop)

	unsubscribe := func() {
		once.Do(func() {
			close(stop)
			logger.WriteLog(constants.LOG_LEVEL_DEBUG, deviceID, "TELEMETRY",
				"Subscription closed")
		})
	}

	return unsubscribe, nil
}

func (s *StoreSource) watch(deviceID string, onUpdate func(domain.ParameterSnapshot), onError func(error), stop <-chan struct{}) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	var lastSeen time.Time

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), s.interval)
			snap, err := s.repo.LatestSnapshot(ctx, deviceID)
			cancel()

			if err != nil {
				onError(err)
				continue
			}
			if snap == nil {
				continue
			}

			if snap.CapturedAt.After(lastSeen) {
				lastSeen = snap.CapturedAt
				onUpdate(*snap)
			}
		}
	}
}
