// pkg/telemetry/server_test.go
package telemetry

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/opd-ai/go-barspin/pkg/config"
	"github.com/opd-ai/go-barspin/pkg/event"
	"github.com/opd-ai/go-barspin/pkg/logging"
)

func testEnvConfig() *config.EnvironmentConfig {
	return &config.EnvironmentConfig{
		TelemetryAddr:                     "localhost:0",
		MaxClients:                        2,
		ReadTimeout:                       time.Second,
		WriteTimeout:                      time.Second,
		CircuitBreakerMaxRequests:         3,
		CircuitBreakerInterval:            time.Minute,
		CircuitBreakerTimeout:             time.Second,
		CircuitBreakerMaxConsecutiveFails: 5,
		ShutdownTimeout:                   time.Second,
	}
}

func newTestServer(t *testing.T) (*Server, *httptest.Server, *event.Bus) {
	t.Helper()

	bus := event.NewEventBus()
	cfg := config.TelemetryConfig{Enabled: true, ListenAddr: "localhost:0", MaxClients: 2}
	s := NewServer(cfg, testEnvConfig(), bus, logging.NewLogger())

	// Bridge the bus by hand instead of Start so the test controls the
	// listener lifecycle through httptest.
	for _, et := range bridgedEvents {
		s.subs = append(s.subs, bus.Subscribe(et, s.onEvent))
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/events", s.handleEvents)
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)

	return s, ts, bus
}

func dial(t *testing.T, ts *httptest.Server, name string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/events?name=" + name
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial %s failed: %v", url, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

// waitForClients polls until the server registers the expected subscriber
// count; registration happens on the handler goroutine.
func waitForClients(t *testing.T, s *Server, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for s.ClientCount() != want {
		if time.Now().After(deadline) {
			t.Fatalf("client count = %d, want %d", s.ClientCount(), want)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestFrameFromEvent(t *testing.T) {
	tests := []struct {
		name   string
		event  event.Event
		wantOK bool
		want   Frame
	}{
		{
			name:   "grip_event",
			event:  event.NewGripEvent(event.GripStart, nil, "left", 0.05),
			wantOK: true,
			want:   Frame{Type: "grip_start", Hand: "left", Distance: 0.05},
		},
		{
			name: "trick_event",
			event: event.NewTrickEvent(event.TrickSpinning, nil,
				"initiated", "spinning", "clockwise", 0.25, "right"),
			wantOK: true,
			want: Frame{
				Type: "trick_spinning", Hand: "right",
				PreviousState: "initiated", CurrentState: "spinning",
				SpinDirection: "clockwise", SpinProgress: 0.25,
			},
		},
		{
			name:   "base_event",
			event:  &event.BaseEvent{EventType: event.SessionStarted},
			wantOK: true,
			want:   Frame{Type: "session_started"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := frameFromEvent(tt.event)
			if ok != tt.wantOK {
				t.Fatalf("frameFromEvent ok = %t, want %t", ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("frame = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestServer_ForwardsBusEventsToSubscriber(t *testing.T) {
	s, ts, bus := newTestServer(t)
	conn := dial(t, ts, "hud")
	waitForClients(t, s, 1)

	bus.Publish(event.NewGripEvent(event.GripStart, nil, "right", 0.03))

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, payload, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("reading forwarded frame failed: %v", err)
	}

	var frame Frame
	if err := json.Unmarshal(payload, &frame); err != nil {
		t.Fatalf("frame payload is not valid JSON: %v", err)
	}
	if frame.Type != "grip_start" || frame.Hand != "right" {
		t.Errorf("frame = %+v, want grip_start/right", frame)
	}
}

func TestServer_RejectsInvalidClientName(t *testing.T) {
	_, ts, _ := newTestServer(t)

	tests := []struct {
		name     string
		query    string
		wantCode int
	}{
		{name: "missing_name", query: "", wantCode: http.StatusBadRequest},
		{name: "bad_characters", query: "?name=a%20b", wantCode: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Get(ts.URL + "/events" + tt.query)
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != tt.wantCode {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantCode)
			}
		})
	}
}

func TestServer_EnforcesSubscriberLimit(t *testing.T) {
	s, ts, _ := newTestServer(t)

	dial(t, ts, "first")
	dial(t, ts, "second")
	waitForClients(t, s, 2)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/events?name=third"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err == nil {
		t.Fatal("third subscriber was accepted past the limit")
	}
	if resp == nil || resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("over-limit dial response = %+v, want 503", resp)
	}
}

func TestServer_UnregistersDisconnectedClient(t *testing.T) {
	s, ts, _ := newTestServer(t)

	conn := dial(t, ts, "short-lived")
	waitForClients(t, s, 1)

	conn.Close()
	waitForClients(t, s, 0)
}
