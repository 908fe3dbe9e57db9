package health

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHealthChecker_CheckHealth_Aggregation(t *testing.T) {
	hc := NewHealthChecker()
	hc.AddCheck(NewRigSessionHealthCheck(func() bool { return true }))
	hc.AddCheck(NewGripZonesHealthCheck(func() bool { return true }))

	status := hc.CheckHealth(context.Background())
	if status.Status != "healthy" {
		t.Errorf("status = %q, want healthy", status.Status)
	}
	if len(status.Checks) != 2 {
		t.Errorf("checks = %d, want 2", len(status.Checks))
	}

	// One failing check makes the whole rig unhealthy.
	hc.AddCheck(NewPoseSourceHealthCheck(func() int { return 0 }))
	status = hc.CheckHealth(context.Background())
	if status.Status != "unhealthy" {
		t.Errorf("status = %q, want unhealthy", status.Status)
	}
	if status.Checks["pose_source"].Status != "unhealthy" {
		t.Errorf("pose_source = %+v, want unhealthy", status.Checks["pose_source"])
	}
	if status.Checks["rig_session"].Status != "healthy" {
		t.Errorf("rig_session = %+v, want healthy", status.Checks["rig_session"])
	}
}

func TestPoseSourceHealthCheck_OneHandIsEnough(t *testing.T) {
	check := NewPoseSourceHealthCheck(func() int { return 1 })
	if err := check.Check(context.Background()); err != nil {
		t.Errorf("one tracked controller reported unhealthy: %v", err)
	}
}

func TestHealthChecker_RemoveCheck(t *testing.T) {
	hc := NewHealthChecker()
	hc.AddCheck(NewRigSessionHealthCheck(func() bool { return false }))
	hc.RemoveCheck("rig_session")

	status := hc.CheckHealth(context.Background())
	if status.Status != "healthy" {
		t.Errorf("status = %q after removing the failing check, want healthy", status.Status)
	}
}

func TestLivenessHandler_AlwaysOK(t *testing.T) {
	hc := NewHealthChecker()
	hc.AddCheck(NewRigSessionHealthCheck(func() bool { return false }))

	rec := httptest.NewRecorder()
	hc.LivenessHandler(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("liveness status = %d, want 200 even while unready", rec.Code)
	}
}

func TestReadinessHandler_StatusCodes(t *testing.T) {
	tests := []struct {
		name     string
		running  bool
		wantCode int
	}{
		{name: "ready", running: true, wantCode: http.StatusOK},
		{name: "not_ready", running: false, wantCode: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hc := NewHealthChecker()
			hc.AddCheck(NewRigSessionHealthCheck(func() bool { return tt.running }))

			rec := httptest.NewRecorder()
			hc.ReadinessHandler(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

			if rec.Code != tt.wantCode {
				t.Errorf("readiness status = %d, want %d", rec.Code, tt.wantCode)
			}

			var status HealthStatus
			if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
				t.Fatalf("readiness body is not valid JSON: %v", err)
			}
			if _, ok := status.Checks["rig_session"]; !ok {
				t.Error("readiness body missing the rig_session check")
			}
		})
	}
}
