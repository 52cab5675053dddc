package ws

import (
	"context"
	"encoding/json"
	"time"

	"webapp_validator/internal/logger"
	"webapp_validator/internal/service"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 30 * time.Second
	pingPeriod = 25 * time.Second

	transportWS = "ws"
)

// Client is one WebSocket connection. Every text frame is handled as a
// verify request and answered in order on the same connection.
type Client struct {
	Conn *websocket.Conn
	Send chan []byte

	ctx       context.Context
	verifier  *service.VerifyService
	readLimit int64
	done      chan struct{}
}

func NewClient(ctx context.Context, conn *websocket.Conn, verifier *service.VerifyService, readLimit int64) *Client {
	return &Client{
		Conn:      conn,
		Send:      make(chan []byte, 16),
		ctx:       ctx,
		verifier:  verifier,
		readLimit: readLimit,
		done:      make(chan struct{}),
	}
}

// Run blocks until the peer disconnects or a write fails.
func (c *Client) Run() {
	go c.writePump()
	c.readPump()
}

func (c *Client) readPump() {
	log := logger.WithContext(c.ctx)
	defer close(c.Send)

	if c.readLimit > 0 {
		c.Conn.SetReadLimit(c.readLimit)
	}
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		msgType, msg, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Warn("ws read error", "error", err)
			}
			return
		}
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))

		resp := c.verifier.MalformedResponse()
		if msgType == websocket.TextMessage {
			resp, _ = c.verifier.HandleBody(c.ctx, msg, transportWS)
		}

		out, err := json.Marshal(resp)
		if err != nil {
			log.Error("ws marshal response", "error", err)
			return
		}

		select {
		case c.Send <- out:
		case <-c.done:
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		close(c.done)
		c.Conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.Conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				logger.WithContext(c.ctx).Warn("ws write error", "error", err)
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
