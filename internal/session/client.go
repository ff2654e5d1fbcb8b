// Package session implements the roomnet protocol client: the transport
// connection, the session state machine, and the room command API.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/luciancaetano/roomnet"
	"github.com/luciancaetano/roomnet/internal/protocol"
)

const (
	// Time allowed to write a frame to the backend.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong from the backend.
	pongWait = 60 * time.Second

	// Ping period. Must be less than pongWait.
	pingPeriod = 54 * time.Second

	// Outbound frame buffer per connection.
	sendBuffer = 256
)

// Config configures a protocol client.
type Config struct {
	// URL is the websocket endpoint of the backend, e.g.
	// "ws://localhost:8080/ws".
	URL string

	// Game is the game namespace. A "game:<name>" tag is appended
	// automatically to every createRoom and listRooms request.
	Game string

	// Mode is the binary channel mode, fixed for the client's lifetime.
	Mode roomnet.BinaryMode

	// HandshakeTimeout bounds the websocket handshake. Defaults to 5s.
	HandshakeTimeout time.Duration

	// Logger receives debug/warn output. Defaults to slog.Default().
	Logger *slog.Logger
}

type connStatus int

const (
	statusDisconnected connStatus = iota
	statusConnecting
	statusConnected
)

type outFrame struct {
	messageType int
	data        []byte
}

// Client implements roomnet.Client. The object persists across repeated
// connect/disconnect cycles; every disconnect resets identity, room, owner
// and host state to their zero values.
type Client struct {
	cfg   Config
	codec *protocol.Codec
	disp  *dispatcher
	log   *slog.Logger

	mu       sync.RWMutex
	status   connStatus
	conn     *websocket.Conn
	sendCh   chan outFrame
	playerID string
	roomID   string
	ownerID  string
}

// New creates a disconnected client.
func New(cfg Config) *Client {
	if cfg.HandshakeTimeout == 0 {
		cfg.HandshakeTimeout = 5 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return &Client{
		cfg:   cfg,
		codec: protocol.NewCodec(cfg.Mode),
		disp:  newDispatcher(),
		log:   cfg.Logger,
	}
}

// On registers a subscriber for an event kind.
func (c *Client) On(kind roomnet.EventKind, handler roomnet.Handler) {
	c.disp.on(kind, handler)
}

// Connect opens the transport and raises the connected event. The session
// stays unassigned until the backend delivers an assignId frame.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	if c.status != statusDisconnected {
		c.mu.Unlock()
		return errors.New(roomnet.ErrAlreadyConnected)
	}
	c.status = statusConnecting
	c.mu.Unlock()

	dialer := &websocket.Dialer{HandshakeTimeout: c.cfg.HandshakeTimeout}
	conn, _, err := dialer.DialContext(ctx, c.cfg.URL, nil)
	if err != nil {
		c.mu.Lock()
		c.status = statusDisconnected
		c.mu.Unlock()
		return fmt.Errorf("%s: %w", roomnet.ErrDialFailed, err)
	}

	sendCh := make(chan outFrame, sendBuffer)
	c.mu.Lock()
	c.conn = conn
	c.sendCh = sendCh
	c.status = statusConnected
	c.mu.Unlock()

	// The connected event must precede everything the read loop raises.
	c.disp.emit(roomnet.Event{Kind: roomnet.EventConnected})

	go c.writePump(conn, sendCh)
	go c.readLoop(conn)

	return nil
}

// Disconnect terminates the transport, resets session state and raises the
// disconnected event. No-op when already disconnected.
func (c *Client) Disconnect() error {
	return c.teardown(true)
}

// teardown transitions the session to disconnected. Reached from Disconnect
// and from the read loop on any transport close; only the first caller wins.
func (c *Client) teardown(voluntary bool) error {
	c.mu.Lock()
	if c.status != statusConnected {
		c.mu.Unlock()
		return nil
	}
	conn := c.conn
	c.status = statusDisconnected
	c.conn = nil
	c.playerID = ""
	c.roomID = ""
	c.ownerID = ""

	// Closing sendCh under the lock excludes concurrent send() calls, which
	// hold the read lock while queueing.
	close(c.sendCh)
	c.sendCh = nil
	c.mu.Unlock()

	var err error
	if voluntary {
		message := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		conn.WriteControl(websocket.CloseMessage, message, time.Now().Add(time.Second))
		err = conn.Close()
	} else {
		conn.Close()
	}

	c.disp.emit(roomnet.Event{Kind: roomnet.EventDisconnected})
	return err
}

// readLoop delivers inbound frames until the connection closes. All protocol
// processing happens here, one frame at a time in arrival order: parse, apply
// the state mutation, then invoke every subscriber before the next read.
func (c *Client) readLoop(conn *websocket.Conn) {
	defer c.teardown(false)

	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				c.log.Debug("read loop terminated", "error", err)
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(pongWait))

		switch messageType {
		case websocket.TextMessage:
			c.handleControl(data)
		case websocket.BinaryMessage:
			bits, bytes := c.codec.DecodeFrame(data)
			c.disp.emit(roomnet.Event{Kind: roomnet.EventBinary, Bits: bits, Bytes: bytes})
		}
	}
}

// writePump pumps frames from the send channel to the connection and keeps
// the connection alive with periodic pings.
func (c *Client) writePump(conn *websocket.Conn, sendCh <-chan outFrame) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case frame, ok := <-sendCh:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Channel closed by teardown
				conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteMessage(frame.messageType, frame.data); err != nil {
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

// send queues a frame for delivery. Frames are silently dropped while the
// session is disconnected or has no assigned identity, and when the send
// buffer is full — there is no backpressure at this layer.
func (c *Client) send(messageType int, data []byte) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.status != statusConnected || c.playerID == "" {
		c.log.Debug("dropping outbound frame, session not ready")
		return
	}

	select {
	case c.sendCh <- outFrame{messageType: messageType, data: data}:
	default:
		c.log.Warn("send buffer full, frame dropped")
	}
}
