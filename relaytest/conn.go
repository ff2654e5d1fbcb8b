package relaytest

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/luciancaetano/roomnet/internal/protocol"
)

type frame struct {
	messageType int
	data        []byte
}

// conn is one connected player. The assigned identity doubles as the map key
// in Server.conns and room.members. The room pointer is guarded by Server.mu.
type conn struct {
	id      string
	sock    *websocket.Conn
	sendCh  chan frame
	limiter *rate.Limiter

	mu     sync.RWMutex
	closed bool

	room *room
}

func newConn(sock *websocket.Conn, rl *RateLimitConfig) *conn {
	var limiter *rate.Limiter
	if rl != nil && rl.Enabled {
		limiter = rate.NewLimiter(rl.MessagesPerSecond, rl.Burst)
	}

	c := &conn{
		id:      uuid.New().String(),
		sock:    sock,
		sendCh:  make(chan frame, sendBuffer),
		limiter: limiter,
	}
	go c.writePump()
	return c
}

// allow reports whether the connection is within its rate limit.
func (c *conn) allow() bool {
	if c.limiter == nil {
		return true
	}
	return c.limiter.Allow()
}

func (c *conn) sendControl(msg *protocol.Control) {
	data, err := protocol.EncodeControl(msg)
	if err != nil {
		return
	}
	c.send(frame{messageType: websocket.TextMessage, data: data})
}

func (c *conn) sendError(message string) {
	c.sendControl(&protocol.Control{Type: protocol.TypeError, Message: message})
}

func (c *conn) sendBinary(data []byte) {
	c.send(frame{messageType: websocket.BinaryMessage, data: data})
}

// send queues a frame, dropping it when the connection is closed or the
// buffer is full. The read lock is held through the channel send so close
// cannot race it.
func (c *conn) send(f frame) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return
	}
	select {
	case c.sendCh <- f:
	default:
	}
}

func (c *conn) close() {
	c.closeWithCode(websocket.CloseNormalClosure, "")
}

func (c *conn) closeWithCode(code int, reason string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true

	message := websocket.FormatCloseMessage(code, reason)
	c.sock.WriteControl(websocket.CloseMessage, message, time.Now().Add(time.Second))

	close(c.sendCh)
	c.sock.Close()
}

// writePump pumps queued frames to the socket and keeps the connection alive
// with periodic pings.
func (c *conn) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.sock.Close()
	}()

	for {
		select {
		case f, ok := <-c.sendCh:
			c.sock.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.sock.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.sock.WriteMessage(f.messageType, f.data); err != nil {
				return
			}

		case <-ticker.C:
			c.sock.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.sock.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
