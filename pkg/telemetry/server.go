// pkg/telemetry/server.go
package telemetry

import (
	"context"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/opd-ai/go-barspin/pkg/config"
	"github.com/opd-ai/go-barspin/pkg/event"
	"github.com/opd-ai/go-barspin/pkg/logging"
	"github.com/opd-ai/go-barspin/pkg/validation"
)

var upgrader = websocket.Upgrader{
	// Origin checks belong to the embedding application.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Server exposes the rig's event stream at /events. Clients identify
// themselves with a ?name= query parameter; names are validated and
// connection attempts are rate limited per remote address.
type Server struct {
	cfg     config.TelemetryConfig
	envCfg  *config.EnvironmentConfig
	bus     *event.Bus
	logger  *logging.Logger
	limiter *validation.RateLimiter

	httpServer *http.Server

	mu      sync.RWMutex
	clients map[*client]struct{}
	subs    []*event.Subscription
}

// NewServer creates a telemetry server over the given bus. Nothing runs
// until Start.
func NewServer(cfg config.TelemetryConfig, envCfg *config.EnvironmentConfig, bus *event.Bus, logger *logging.Logger) *Server {
	return &Server{
		cfg:     cfg,
		envCfg:  envCfg,
		bus:     bus,
		logger:  logger,
		limiter: validation.NewRateLimiter(validation.MaxConnectionsPerMin, validation.RateWindow),
		clients: make(map[*client]struct{}),
	}
}

// Start subscribes to the rig events and begins serving websocket clients.
// The HTTP listener runs on its own goroutine; event forwarding happens
// synchronously on the rig's frame loop and only enqueues.
func (s *Server) Start(ctx context.Context) error {
	for _, t := range bridgedEvents {
		s.subs = append(s.subs, s.bus.Subscribe(t, s.onEvent))
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/events", s.handleEvents)

	s.httpServer = &http.Server{
		Addr:         s.cfg.ListenAddr,
		Handler:      mux,
		ReadTimeout:  s.envCfg.ReadTimeout,
		WriteTimeout: s.envCfg.WriteTimeout,
	}

	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error(ctx, "telemetry server stopped", err,
				"addr", s.cfg.ListenAddr,
			)
		}
	}()

	s.logger.Info(ctx, "telemetry server listening",
		"addr", s.cfg.ListenAddr,
	)
	return nil
}

// Stop unsubscribes from the bus, disconnects all clients and shuts the
// listener down.
func (s *Server) Stop(ctx context.Context) error {
	for _, sub := range s.subs {
		sub.Cancel()
	}
	s.subs = nil

	s.mu.Lock()
	for c := range s.clients {
		close(c.send)
		delete(s.clients, c)
	}
	s.mu.Unlock()

	s.limiter.Close()

	if s.httpServer == nil {
		return nil
	}
	shutdownCtx, cancel := context.WithTimeout(ctx, s.envCfg.ShutdownTimeout)
	defer cancel()
	return s.httpServer.Shutdown(shutdownCtx)
}

// ClientCount returns the number of connected subscribers.
func (s *Server) ClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// onEvent forwards one bus event to every connected client.
func (s *Server) onEvent(e event.Event) {
	frame, ok := frameFromEvent(e)
	if !ok {
		return
	}
	payload, err := frame.Marshal()
	if err != nil {
		return
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	for c := range s.clients {
		c.enqueue(payload)
	}
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if !s.limiter.Allow(r.RemoteAddr) {
		http.Error(w, "too many connection attempts", http.StatusTooManyRequests)
		return
	}

	name, err := validation.ValidateClientName(r.URL.Query().Get("name"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.RLock()
	full := len(s.clients) >= s.cfg.MaxClients
	s.mu.RUnlock()
	if full {
		http.Error(w, "subscriber limit reached", http.StatusServiceUnavailable)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn(ctx, "telemetry upgrade failed",
			"remote", r.RemoteAddr,
			"error", err.Error(),
		)
		return
	}

	c := newClient(s, conn, name, s.envCfg, s.logger)

	s.mu.Lock()
	s.clients[c] = struct{}{}
	s.mu.Unlock()

	// The pumps must not inherit the request context; net/http cancels it
	// when this handler returns.
	go c.writePump(context.Background())
	go c.readPump(context.Background())

	s.logger.Info(context.Background(), "telemetry client connected",
		"client", name,
		"remote", r.RemoteAddr,
	)
}

// unregister removes a client; safe to call more than once.
func (s *Server) unregister(c *client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.clients, c)
}
