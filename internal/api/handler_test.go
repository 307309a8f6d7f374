package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"aqua_project/internal/dispatch"
	"aqua_project/internal/domain"
	"aqua_project/internal/monitor"

	"github.com/gin-gonic/gin"
)

type stubSource struct{}

func (stubSource) Subscribe(_ string, _ func(domain.ParameterSnapshot), _ func(error)) (func(), error) {
	return func() {}, nil
}

type stubAudit struct{}

func (stubAudit) Append(_ context.Context, _ domain.AuditRecord) error { return nil }

type stubDevices struct{}

func (stubDevices) ListDevices(_ context.Context, _ string) ([]domain.Device, error) {
	return nil, nil
}

type stubPrefs struct{}

func (stubPrefs) GetPreferences(_ context.Context, _ string) (domain.NotificationPreferences, error) {
	return domain.NotificationPreferences{}, nil
}

type stubTelemetry struct {
	snap *domain.ParameterSnapshot
}

func (s *stubTelemetry) LatestSnapshot(_ context.Context, _ string) (*domain.ParameterSnapshot, error) {
	return s.snap, nil
}

func newTestRouter(t *testing.T, telemetry *stubTelemetry) (*gin.Engine, *dispatch.Feed) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	feed := dispatch.NewFeed(50)
	dispatcher := dispatch.NewDispatcher(feed, stubPrefs{}, dispatch.GatewaySet{
		Push:     dispatch.NewGatewayClient("push", "", time.Second),
		Email:    dispatch.NewGatewayClient("email", "", time.Second),
		SMS:      dispatch.NewGatewayClient("sms", "", time.Second),
		Whatsapp: dispatch.NewGatewayClient("whatsapp", "", time.Second),
	})

	svc := monitor.NewService(monitor.Options{
		Source:     stubSource{},
		Telemetry:  telemetry,
		Audit:      stubAudit{},
		Devices:    stubDevices{},
		Dispatcher: dispatcher,
	})

	r := gin.New()
	SetupRoutes(r, svc, feed, telemetry, 10*time.Minute)
	return r, feed
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestStartStopAndSessions(t *testing.T) {
	r, _ := newTestRouter(t, &stubTelemetry{})

	w := doJSON(t, r, http.MethodPost, "/api/monitoring/start",
		`{"deviceId": "DEV_001", "ownerId": "user-1"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("start status = %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodGet, "/api/monitoring/sessions", "")
	var sessions struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &sessions); err != nil {
		t.Fatal(err)
	}
	if sessions.Count != 1 {
		t.Errorf("sessions = %d, want 1", sessions.Count)
	}

	w = doJSON(t, r, http.MethodPost, "/api/monitoring/stop", `{"deviceId": "DEV_001"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("stop status = %d", w.Code)
	}

	w = doJSON(t, r, http.MethodGet, "/api/monitoring/sessions", "")
	if err := json.Unmarshal(w.Body.Bytes(), &sessions); err != nil {
		t.Fatal(err)
	}
	if sessions.Count != 0 {
		t.Errorf("sessions after stop = %d, want 0", sessions.Count)
	}
}

func TestStartRejectsMissingFields(t *testing.T) {
	r, _ := newTestRouter(t, &stubTelemetry{})

	w := doJSON(t, r, http.MethodPost, "/api/monitoring/start", `{"deviceId": "DEV_001"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for missing ownerId", w.Code)
	}
}

func TestCheckNowWithoutSession(t *testing.T) {
	r, _ := newTestRouter(t, &stubTelemetry{})

	w := doJSON(t, r, http.MethodPost, "/api/monitoring/check/DEV_404", "")
	if w.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409 for inactive device", w.Code)
	}
}

func TestNotificationEndpoints(t *testing.T) {
	r, feed := newTestRouter(t, &stubTelemetry{})

	n := feed.Add(dispatch.AlertInput{
		Title:    "test",
		Message:  "unit test",
		Level:    domain.LevelWarning,
		DeviceID: "DEV_001",
	})

	w := doJSON(t, r, http.MethodGet, "/api/notifications/unread-count", "")
	var unread struct {
		Unread int `json:"unread"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &unread); err != nil {
		t.Fatal(err)
	}
	if unread.Unread != 1 {
		t.Errorf("unread = %d, want 1", unread.Unread)
	}

	w = doJSON(t, r, http.MethodPost, "/api/notifications/"+n.ID+"/read", "")
	if w.Code != http.StatusOK {
		t.Errorf("mark-read status = %d", w.Code)
	}

	w = doJSON(t, r, http.MethodPost, "/api/notifications/no-such-id/read", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown id status = %d, want 404", w.Code)
	}

	feed.Add(dispatch.AlertInput{Title: "two", Level: domain.LevelInfo, DeviceID: "DEV_001"})
	w = doJSON(t, r, http.MethodPost, "/api/notifications/read-all", "")
	if w.Code != http.StatusOK {
		t.Errorf("read-all status = %d", w.Code)
	}

	w = doJSON(t, r, http.MethodGet, "/api/notifications/unread-count", "")
	if err := json.Unmarshal(w.Body.Bytes(), &unread); err != nil {
		t.Fatal(err)
	}
	if unread.Unread != 0 {
		t.Errorf("unread after read-all = %d, want 0", unread.Unread)
	}
}

func TestDeviceStatus(t *testing.T) {
	recent := time.Now().Add(-2 * time.Minute)
	r, _ := newTestRouter(t, &stubTelemetry{snap: &domain.ParameterSnapshot{
		DeviceID:   "DEV_001",
		Parameters: map[string]float64{"ph": 7.2},
		CapturedAt: recent,
	}})

	w := doJSON(t, r, http.MethodGet, "/api/devices/DEV_001/status", "")
	var status struct {
		Online     bool    `json:"online"`
		OfflineFor *string `json:"offline_for"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &status); err != nil {
		t.Fatal(err)
	}
	if !status.Online {
		t.Error("device with a 2-minute-old reading reported offline")
	}
	if status.OfflineFor != nil {
		t.Errorf("offline_for = %v, want null while online", *status.OfflineFor)
	}
}

func TestDeviceStatusNeverReported(t *testing.T) {
	r, _ := newTestRouter(t, &stubTelemetry{snap: nil})

	w := doJSON(t, r, http.MethodGet, "/api/devices/DEV_001/status", "")
	var status struct {
		Online     bool    `json:"online"`
		OfflineFor *string `json:"offline_for"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &status); err != nil {
		t.Fatal(err)
	}
	if status.Online {
		t.Error("device that never reported must be offline")
	}
	if status.OfflineFor == nil || *status.OfflineFor != "never reported" {
		t.Errorf("offline_for = %v, want \"never reported\"", status.OfflineFor)
	}
}
