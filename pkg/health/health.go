// Package health provides health check functionality for the barspin rig.
// It implements HTTP endpoints for liveness and readiness probes so an
// embedding deployment can monitor a headless rig session.
package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"
)

// HealthCheck defines the interface for individual health checks.
// Each component can implement this interface to provide its health status.
type HealthCheck interface {
	// Name returns the unique name of this health check
	Name() string
	// Check performs the health check and returns an error if unhealthy
	Check(ctx context.Context) error
}

// HealthStatus represents the overall health status of the application.
type HealthStatus struct {
	Status string                     `json:"status"`
	Checks map[string]ComponentHealth `json:"checks"`
}

// ComponentHealth represents the health status of an individual component.
type ComponentHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// HealthChecker manages and executes health checks for the application.
type HealthChecker struct {
	checks map[string]HealthCheck
	mu     sync.RWMutex
}

// NewHealthChecker creates a new health checker instance.
func NewHealthChecker() *HealthChecker {
	return &HealthChecker{
		checks: make(map[string]HealthCheck),
	}
}

// AddCheck registers a new health check with the health checker.
// If a check with the same name already exists, it will be replaced.
func (hc *HealthChecker) AddCheck(check HealthCheck) {
	hc.mu.Lock()
	defer hc.mu.Unlock()
	hc.checks[check.Name()] = check
}

// RemoveCheck removes a health check by name.
func (hc *HealthChecker) RemoveCheck(name string) {
	hc.mu.Lock()
	defer hc.mu.Unlock()
	delete(hc.checks, name)
}

// CheckHealth executes all registered health checks and returns the
// aggregated status. The overall status is "healthy" only if every
// individual check passes.
func (hc *HealthChecker) CheckHealth(ctx context.Context) HealthStatus {
	hc.mu.RLock()
	defer hc.mu.RUnlock()

	status := HealthStatus{
		Status: "healthy",
		Checks: make(map[string]ComponentHealth),
	}

	for name, check := range hc.checks {
		if err := check.Check(ctx); err != nil {
			status.Status = "unhealthy"
			status.Checks[name] = ComponentHealth{
				Status:  "unhealthy",
				Message: err.Error(),
			}
		} else {
			status.Checks[name] = ComponentHealth{
				Status: "healthy",
			}
		}
	}

	return status
}

// LivenessHandler provides a simple liveness probe endpoint. It returns
// 200 OK whenever the process can handle requests.
func (hc *HealthChecker) LivenessHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	response := map[string]string{"status": "alive"}
	json.NewEncoder(w).Encode(response)
}

// ReadinessHandler executes all health checks and returns 200 OK when the
// rig is ready, 503 otherwise.
func (hc *HealthChecker) ReadinessHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	health := hc.CheckHealth(ctx)

	w.Header().Set("Content-Type", "application/json")

	if health.Status == "healthy" {
		w.WriteHeader(http.StatusOK)
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
	}

	json.NewEncoder(w).Encode(health)
}

// RigSessionHealthCheck reports whether the rig's frame loop is running.
type RigSessionHealthCheck struct {
	rigRunning func() bool
}

// NewRigSessionHealthCheck creates a health check for the rig session.
func NewRigSessionHealthCheck(rigRunning func() bool) *RigSessionHealthCheck {
	return &RigSessionHealthCheck{
		rigRunning: rigRunning,
	}
}

// Name returns the name of this health check.
func (r *RigSessionHealthCheck) Name() string {
	return "rig_session"
}

// Check verifies that the rig session is running.
func (r *RigSessionHealthCheck) Check(ctx context.Context) error {
	if !r.rigRunning() {
		return fmt.Errorf("rig session is not running")
	}
	return nil
}

// PoseSourceHealthCheck reports whether any hand controller is tracked. A
// single missing controller is a normal transient, so the check only fails
// when neither hand is tracked.
type PoseSourceHealthCheck struct {
	connectedHands func() int
}

// NewPoseSourceHealthCheck creates a health check for controller tracking.
func NewPoseSourceHealthCheck(connectedHands func() int) *PoseSourceHealthCheck {
	return &PoseSourceHealthCheck{
		connectedHands: connectedHands,
	}
}

// Name returns the name of this health check.
func (p *PoseSourceHealthCheck) Name() string {
	return "pose_source"
}

// Check verifies that at least one controller is tracked.
func (p *PoseSourceHealthCheck) Check(ctx context.Context) error {
	if p.connectedHands() == 0 {
		return fmt.Errorf("no hand controllers tracked")
	}
	return nil
}

// GripZonesHealthCheck reports whether both grip zones have been registered,
// i.e. the handlebar geometry has loaded.
type GripZonesHealthCheck struct {
	zonesReady func() bool
}

// NewGripZonesHealthCheck creates a health check for grip zone setup.
func NewGripZonesHealthCheck(zonesReady func() bool) *GripZonesHealthCheck {
	return &GripZonesHealthCheck{
		zonesReady: zonesReady,
	}
}

// Name returns the name of this health check.
func (g *GripZonesHealthCheck) Name() string {
	return "grip_zones"
}

// Check verifies that both grip zones exist.
func (g *GripZonesHealthCheck) Check(ctx context.Context) error {
	if !g.zonesReady() {
		return fmt.Errorf("grip zones not initialized")
	}
	return nil
}
