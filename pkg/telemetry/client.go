// pkg/telemetry/client.go
package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sony/gobreaker"

	"github.com/opd-ai/go-barspin/pkg/config"
	"github.com/opd-ai/go-barspin/pkg/logging"
)

const (
	writeWait  = 5 * time.Second
	pongWait   = 30 * time.Second
	pingPeriod = 20 * time.Second
)

// client is one connected telemetry subscriber. Frames are queued on a
// buffered channel; a per-client circuit breaker around the socket writes
// isolates a stalled subscriber so it cannot wedge the hub.
type client struct {
	server  *Server
	conn    *websocket.Conn
	send    chan []byte
	name    string
	breaker *gobreaker.CircuitBreaker
	logger  *logging.Logger
}

func newClient(server *Server, conn *websocket.Conn, name string, envCfg *config.EnvironmentConfig, logger *logging.Logger) *client {
	settings := gobreaker.Settings{
		Name:        "telemetry-" + name,
		MaxRequests: uint32(envCfg.CircuitBreakerMaxRequests),
		Interval:    envCfg.CircuitBreakerInterval,
		Timeout:     envCfg.CircuitBreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= uint32(envCfg.CircuitBreakerMaxConsecutiveFails)
		},
	}
	return &client{
		server:  server,
		conn:    conn,
		send:    make(chan []byte, 64),
		name:    name,
		breaker: gobreaker.NewCircuitBreaker(settings),
		logger:  logger,
	}
}

// enqueue queues a frame for the client, dropping it if the client's queue
// is full. A subscriber that cannot keep up loses frames, not the rig.
func (c *client) enqueue(payload []byte) {
	select {
	case c.send <- payload:
	default:
	}
}

// writePump drains the send queue to the socket. Each write goes through
// the circuit breaker; an open breaker ends the connection.
func (c *client) writePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.server.unregister(c)
		c.conn.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-c.send:
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.write(websocket.TextMessage, msg); err != nil {
				c.logWriteExit(err)
				return
			}
		case <-ticker.C:
			if err := c.write(websocket.PingMessage, nil); err != nil {
				c.logWriteExit(err)
				return
			}
		}
	}
}

func (c *client) write(messageType int, payload []byte) error {
	_, err := c.breaker.Execute(func() (interface{}, error) {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		return nil, c.conn.WriteMessage(messageType, payload)
	})
	return err
}

func (c *client) logWriteExit(err error) {
	if errors.Is(err, websocket.ErrCloseSent) {
		return
	}
	c.logger.Debug(context.Background(), "telemetry client write pump exiting",
		"client", c.name,
		"error", err.Error(),
	)
}

// readPump reads and discards incoming messages to detect disconnects and
// keep the pong handler serviced.
func (c *client) readPump(ctx context.Context) {
	defer func() {
		c.server.unregister(c)
		c.conn.Close()
	}()

	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
