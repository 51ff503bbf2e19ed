// Package gateway maintains the persistent event-channel connection. It
// treats the socket as a byte pipe: frames decode into event envelopes and
// go straight to the dispatcher; all merge logic lives behind it.
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/anonto42/nano-midea/appclient/internal/events"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	// Reconnection uses a fixed delay and a fixed attempt cap, never an
	// unbounded loop. The counter resets after a healthy connection.
	reconnectDelay = 3 * time.Second
	maxReconnects  = 10

	sendQueueSize = 64
)

// Client is one client session on the event gateway.
type Client struct {
	url        string
	token      string
	connID     string
	dispatcher *events.Dispatcher
	logger     *zap.Logger

	mu   sync.Mutex
	conn *websocket.Conn
	send chan []byte
}

// NewClient creates a gateway client delivering events to the dispatcher.
func NewClient(url, token string, dispatcher *events.Dispatcher, logger *zap.Logger) *Client {
	return &Client{
		url:        url,
		token:      token,
		connID:     uuid.NewString(),
		dispatcher: dispatcher,
		logger:     logger.Named("gateway"),
	}
}

// Run connects and pumps events until the context is cancelled or the
// reconnection attempts are exhausted. Every received envelope is handed to
// the dispatcher from this single goroutine, so reconciliation handlers
// execute one at a time in arrival order.
func (c *Client) Run(ctx context.Context) error {
	attempts := 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		start := time.Now()
		err := c.connectAndRead(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if time.Since(start) > pongWait {
			// The connection was healthy for a while; start counting over.
			attempts = 0
		}
		attempts++
		if attempts > maxReconnects {
			return fmt.Errorf("gateway: giving up after %d reconnect attempts: %w", maxReconnects, err)
		}
		c.logger.Warn("gateway connection lost, reconnecting",
			zap.Int("attempt", attempts), zap.Error(err))

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(reconnectDelay):
		}
	}
}

func (c *Client) connectAndRead(ctx context.Context) error {
	header := http.Header{}
	header.Set("Authorization", "Bearer "+c.token)
	header.Set("X-Conn-ID", c.connID)

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.url, header)
	if err != nil {
		return fmt.Errorf("dial %s: %w", c.url, err)
	}
	c.logger.Info("gateway connected", zap.String("conn_id", c.connID))

	send := make(chan []byte, sendQueueSize)
	c.mu.Lock()
	c.conn = conn
	c.send = send
	c.mu.Unlock()

	quit := make(chan struct{})
	writerDone := make(chan struct{})
	go c.writeLoop(conn, send, quit, writerDone)

	err = c.readLoop(ctx, conn)

	c.mu.Lock()
	c.conn = nil
	c.send = nil
	c.mu.Unlock()
	// The send channel is abandoned rather than closed so that a racing
	// Send cannot hit a closed channel; its frames are simply dropped.
	close(quit)
	<-writerDone
	conn.Close()
	return err
}

// readLoop is the single delivery path into the engine.
func (c *Client) readLoop(ctx context.Context, conn *websocket.Conn) error {
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	// Unblock ReadMessage when the context ends.
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("read frame: %w", err)
		}
		var env events.Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			c.logger.Warn("undecodable frame dropped", zap.Error(err))
			continue
		}
		c.dispatcher.Dispatch(env)
	}
}

// writeLoop owns all writes on the connection: queued frames and keepalive
// pings.
func (c *Client) writeLoop(conn *websocket.Conn, send <-chan []byte, quit <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-quit:
			return
		case data := <-send:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				c.logger.Warn("write failed", zap.Error(err))
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Send queues one outbound frame. Returns an error when disconnected or the
// queue is full; it never blocks the caller.
func (c *Client) Send(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal frame: %w", err)
	}
	c.mu.Lock()
	send := c.send
	c.mu.Unlock()
	if send == nil {
		return fmt.Errorf("gateway: not connected")
	}
	select {
	case send <- data:
		return nil
	default:
		return fmt.Errorf("gateway: send queue full")
	}
}
