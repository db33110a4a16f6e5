package server

import (
	"bytes"
	"context"
	"encoding/json"
	"sync"
	"time"

	"courier-chat/pkg/logger"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8 * 1024
	sendBufferSize = 256
)

var (
	newline = []byte{'\n'}
	space   = []byte{' '}
)

// Client is a single live duplex connection. userID is empty when the
// identity collaborator could not resolve the caller; the connection stays
// open but every operation on it fails unauthenticated.
type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	send     chan []byte
	userID   string
	clientID string

	closeOnce sync.Once
	closeMu   sync.Mutex
	closed    bool

	log *logger.Logger
}

func NewClient(hub *Hub, conn *websocket.Conn, userID, clientID string, log *logger.Logger) *Client {
	return &Client{
		hub:      hub,
		conn:     conn,
		send:     make(chan []byte, sendBufferSize),
		userID:   userID,
		clientID: clientID,
		log:      log,
	}
}

// push enqueues a payload without blocking. Delivery is fire-and-forget: a
// full buffer or an already-closed connection drops the frame.
func (c *Client) push(payload []byte) {
	c.closeMu.Lock()
	defer c.closeMu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.send <- payload:
	default:
		c.log.Warn(context.Background(), "client send buffer full, dropping frame",
			zap.String("user_id", c.userID),
			zap.String("client_id", c.clientID))
	}
}

func (c *Client) pushEvent(env eventEnvelope) {
	payload, err := json.Marshal(env)
	if err != nil {
		c.log.Error(context.Background(), "failed to marshal event",
			zap.String("client_id", c.clientID),
			zap.Error(err))
		return
	}
	c.push(payload)
}

// close shuts the send channel exactly once and closes the transport.
func (c *Client) close() {
	c.closeOnce.Do(func() {
		c.closeMu.Lock()
		c.closed = true
		close(c.send)
		c.closeMu.Unlock()
		if c.conn != nil {
			c.conn.Close()
		}
	})
}

func (c *Client) readPump() {
	defer func() {
		c.hub.Disconnect(c)
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.log.Warn(context.Background(), "websocket unexpected close",
					zap.String("user_id", c.userID),
					zap.String("client_id", c.clientID),
					zap.Error(err))
			}
			break
		}

		raw = bytes.TrimSpace(bytes.Replace(raw, newline, space, -1))
		c.handleFrame(raw)
	}
}

// frameContext builds the context a single inbound frame is processed under.
// Each frame gets its own request id so log lines from one socket operation
// can be correlated the same way an HTTP request's can.
func (c *Client) frameContext() context.Context {
	ctx := context.WithValue(context.Background(), logger.UserIdKey, c.userID)
	return context.WithValue(ctx, logger.RequestIdKey, uuid.NewString())
}

// handleFrame decodes one inbound frame and routes it. A bad frame produces
// an error event on this connection; it never tears the connection down.
func (c *Client) handleFrame(raw []byte) {
	ctx := c.frameContext()

	var frame inboundFrame
	if err := json.Unmarshal(raw, &frame); err != nil {
		c.pushEvent(eventEnvelope{
			Type:  EventError,
			Error: "malformed frame",
			Code:  "VALIDATION_ERROR",
		})
		return
	}

	switch frame.Type {
	case OpSendMessage:
		c.hub.SendMessage(ctx, c, frame.ReceiverID, frame.Content)
	case OpLoadMessages:
		c.hub.LoadMessages(ctx, c, frame.ReceiverID)
	default:
		c.pushEvent(eventEnvelope{
			Type:  EventError,
			Error: "unknown operation type",
			Code:  "VALIDATION_ERROR",
		})
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
