// Package relaytest provides an in-process matchmaking/relay backend for
// testing roomnet clients, in the spirit of httptest.
//
// The server implements the full backend contract a client observes: it
// assigns player identities on connect, owns room state (capacity, tags,
// metadata, private and closed conventions), elects a replacement host when
// the owner departs, enforces host-only mutation, rejects joins to missing,
// full or closed rooms with error frames, and relays text and binary frames
// to the other members of a room. Inbound frames are rate limited per
// connection with a token bucket.
//
// Example:
//
//	srv := relaytest.New(nil)
//	defer srv.Close()
//
//	client := lobby.New(lobby.DefaultConfig(srv.URL(), "mygame"))
package relaytest

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/luciancaetano/roomnet"
	"github.com/luciancaetano/roomnet/internal/protocol"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
	sendBuffer = 256
)

// Protocol rejection messages sent as error frames.
const (
	ErrRoomNotFound   = "room not found"
	ErrRoomFull       = "room is full"
	ErrRoomClosed     = "room is closed"
	ErrAlreadyInRoom  = "already in a room"
	ErrNotInRoom      = "not in a room"
	ErrNotHost        = "only the room host may do that"
	ErrPlayerNotFound = "player is not in the room"
)

// RateLimitConfig defines per-connection rate limiting.
type RateLimitConfig struct {
	// MessagesPerSecond defines how many frames a connection may send per second
	MessagesPerSecond rate.Limit
	// Burst defines the maximum burst size (token bucket capacity)
	Burst int
	// Enabled determines if rate limiting is active
	Enabled bool
}

// DefaultRateLimitConfig allows 100 frames per second with burst of 200.
func DefaultRateLimitConfig() *RateLimitConfig {
	return &RateLimitConfig{
		MessagesPerSecond: 100,
		Burst:             200,
		Enabled:           true,
	}
}

// NoRateLimit returns a configuration with rate limiting disabled.
func NoRateLimit() *RateLimitConfig {
	return &RateLimitConfig{Enabled: false}
}

// Config configures a test backend. The zero value (or nil) uses default
// rate limiting and slog.Default().
type Config struct {
	RateLimit *RateLimitConfig
	Logger    *slog.Logger
}

// Server is an in-process relay backend listening on a local port.
type Server struct {
	httpSrv   *httptest.Server
	upgrader  websocket.Upgrader
	rateLimit *RateLimitConfig
	log       *slog.Logger
	metrics   *metrics

	mu    sync.Mutex
	conns map[string]*conn
	rooms map[string]*room
}

// New creates and starts a test backend.
func New(cfg *Config) *Server {
	if cfg == nil {
		cfg = &Config{}
	}
	if cfg.RateLimit == nil {
		cfg.RateLimit = DefaultRateLimitConfig()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	s := &Server{
		rateLimit: cfg.RateLimit,
		log:       cfg.Logger,
		metrics:   newMetrics(),
		conns:     make(map[string]*conn),
		rooms:     make(map[string]*room),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Test server, all origins allowed
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
	s.httpSrv = httptest.NewServer(http.HandlerFunc(s.handleWebSocket))
	return s
}

// URL returns the websocket endpoint clients dial.
func (s *Server) URL() string {
	return "ws" + strings.TrimPrefix(s.httpSrv.URL, "http")
}

// Close disconnects every client and shuts the server down.
func (s *Server) Close() {
	s.mu.Lock()
	conns := make([]*conn, 0, len(s.conns))
	for _, c := range s.conns {
		conns = append(conns, c)
	}
	s.mu.Unlock()

	for _, c := range conns {
		c.closeWithCode(websocket.CloseGoingAway, "server shutting down")
	}
	s.httpSrv.Close()
}

// MetricsHandler exposes the server's prometheus metrics.
func (s *Server) MetricsHandler() http.Handler {
	return s.metrics.handler()
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sock, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", "error", err)
		return
	}

	c := newConn(sock, s.rateLimit)
	s.mu.Lock()
	s.conns[c.id] = c
	s.mu.Unlock()
	s.metrics.connectedClients.Inc()

	c.sendControl(&protocol.Control{Type: protocol.TypeAssignID, PlayerID: c.id})
	s.readLoop(c)

	s.mu.Lock()
	s.removeFromRoom(c)
	delete(s.conns, c.id)
	s.mu.Unlock()
	s.metrics.connectedClients.Dec()
	c.close()
}

// readLoop processes inbound frames until the connection closes.
func (s *Server) readLoop(c *conn) {
	c.sock.SetReadDeadline(time.Now().Add(pongWait))
	c.sock.SetPongHandler(func(string) error {
		c.sock.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		messageType, data, err := c.sock.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				s.log.Debug("connection closed", "player_id", c.id, "error", err)
			}
			return
		}
		c.sock.SetReadDeadline(time.Now().Add(pongWait))

		if !c.allow() {
			s.log.Warn("rate limit exceeded", "player_id", c.id)
			c.closeWithCode(websocket.ClosePolicyViolation, "rate limit exceeded")
			return
		}

		switch messageType {
		case websocket.TextMessage:
			s.handleControl(c, data)
		case websocket.BinaryMessage:
			s.relayBinary(c, data)
		}
	}
}

// handleControl applies one client command to room state and emits the
// resulting notifications. Unparseable or unknown frames are dropped.
func (s *Server) handleControl(c *conn, data []byte) {
	msg, err := protocol.DecodeControl(data)
	if err != nil {
		s.log.Debug("dropping unparseable frame", "player_id", c.id, "error", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch msg.Type {
	case protocol.TypeCreateRoom:
		s.createRoom(c, msg)
	case protocol.TypeJoinRoom:
		s.joinRoom(c, msg.RoomID)
	case protocol.TypeLeaveRoom:
		s.removeFromRoom(c)
	case protocol.TypeListRooms:
		s.listRooms(c, msg.Tags)
	case protocol.TypeRelay:
		s.relay(c, msg)
	case protocol.TypeTellOwner:
		s.tellOwner(c, msg)
	case protocol.TypeTellPlayer:
		s.tellPlayer(c, msg)
	case protocol.TypeUpdateMeta:
		s.updateMeta(c, msg.Metadata)
	case protocol.TypeAddTag:
		s.addTag(c, msg.Tag)
	case protocol.TypeRemoveTag:
		s.removeTag(c, msg.Tag)
	default:
		s.log.Debug("dropping frame of unknown type", "type", msg.Type)
	}
}

func (s *Server) createRoom(c *conn, msg *protocol.Control) {
	if c.room != nil {
		c.sendError(ErrAlreadyInRoom)
		return
	}

	maxClients := msg.MaxClients
	if maxClients < 1 {
		maxClients = 1
	}
	metadata := msg.Metadata
	if metadata == nil {
		metadata = make(map[string]any)
	}

	r := &room{
		id:         uuid.New().String(),
		ownerID:    c.id,
		maxClients: maxClients,
		tags:       msg.Tags,
		metadata:   metadata,
		members:    make(map[string]*conn),
	}
	r.addMember(c)
	c.room = r
	s.rooms[r.id] = r
	s.metrics.openRooms.Inc()

	c.sendControl(&protocol.Control{
		Type:     protocol.TypeRoomCreated,
		RoomID:   r.id,
		PlayerID: c.id,
	})
}

func (s *Server) joinRoom(c *conn, roomID string) {
	if c.room != nil {
		c.sendError(ErrAlreadyInRoom)
		return
	}
	r, ok := s.rooms[roomID]
	if !ok {
		c.sendError(ErrRoomNotFound)
		return
	}
	if r.isClosed() {
		c.sendError(ErrRoomClosed)
		return
	}
	if r.isFull() {
		c.sendError(ErrRoomFull)
		return
	}

	r.addMember(c)
	c.room = r

	// Only the joiner is notified; members discover each other through
	// relay traffic.
	c.sendControl(&protocol.Control{
		Type:       protocol.TypeRoomJoined,
		RoomID:     r.id,
		PlayerID:   c.id,
		OwnerID:    r.ownerID,
		MaxClients: r.maxClients,
	})
}

// removeFromRoom detaches a member, notifies the remaining members and
// promotes a replacement host if the owner left. Caller holds s.mu.
func (s *Server) removeFromRoom(c *conn) {
	r := c.room
	if r == nil {
		return
	}
	c.room = nil
	r.removeMember(c)

	if len(r.members) == 0 {
		delete(s.rooms, r.id)
		s.metrics.openRooms.Dec()
		return
	}

	for _, m := range r.members {
		m.sendControl(&protocol.Control{Type: protocol.TypePlayerLeft, PlayerID: c.id})
	}

	if r.ownerID != c.id {
		return
	}

	// Owner departed: the longest-standing member becomes host.
	oldHost := r.ownerID
	promoted := r.members[r.joinOrder[0]]
	r.ownerID = promoted.id

	promoted.sendControl(&protocol.Control{Type: protocol.TypeMakeHost, OldHostID: oldHost})
	for _, m := range r.members {
		if m.id == promoted.id {
			continue
		}
		m.sendControl(&protocol.Control{
			Type:      protocol.TypeReassignedHost,
			NewHostID: promoted.id,
			OldHostID: oldHost,
		})
	}
}

func (s *Server) listRooms(c *conn, tags []string) {
	summaries := []roomnet.RoomSummary{}
	for _, r := range s.rooms {
		if r.isPrivate() || !r.matchesAll(tags) {
			continue
		}
		summaries = append(summaries, r.summary())
	}
	c.sendControl(&protocol.Control{Type: protocol.TypeRoomList, Rooms: summaries})
}

func (s *Server) relay(c *conn, msg *protocol.Control) {
	if c.room == nil {
		c.sendError(ErrNotInRoom)
		return
	}
	for _, m := range c.room.members {
		if m.id == c.id {
			continue
		}
		m.sendControl(&protocol.Control{Type: protocol.TypeRelay, From: c.id, Payload: msg.Payload})
	}
	s.metrics.relayedMessages.Inc()
}

func (s *Server) tellOwner(c *conn, msg *protocol.Control) {
	if c.room == nil {
		c.sendError(ErrNotInRoom)
		return
	}
	owner := c.room.members[c.room.ownerID]
	owner.sendControl(&protocol.Control{Type: protocol.TypeTellOwner, From: c.id, Payload: msg.Payload})
	s.metrics.relayedMessages.Inc()
}

func (s *Server) tellPlayer(c *conn, msg *protocol.Control) {
	if c.room == nil {
		c.sendError(ErrNotInRoom)
		return
	}
	target, ok := c.room.members[msg.PlayerID]
	if !ok {
		c.sendError(ErrPlayerNotFound)
		return
	}
	target.sendControl(&protocol.Control{Type: protocol.TypeTellPlayer, From: c.id, Payload: msg.Payload})
	s.metrics.relayedMessages.Inc()
}

func (s *Server) updateMeta(c *conn, metadata map[string]any) {
	r, ok := s.hostRoom(c)
	if !ok {
		return
	}
	for key, value := range metadata {
		r.metadata[key] = value
	}
	for _, m := range r.members {
		m.sendControl(&protocol.Control{Type: protocol.TypeRoomUpdated, Metadata: r.metadata})
	}
}

func (s *Server) addTag(c *conn, tag string) {
	r, ok := s.hostRoom(c)
	if !ok {
		return
	}
	r.tags = append(r.tags, tag)
	for _, m := range r.members {
		m.sendControl(&protocol.Control{Type: protocol.TypeRoomTagAdded, Tag: tag})
	}
}

func (s *Server) removeTag(c *conn, tag string) {
	r, ok := s.hostRoom(c)
	if !ok {
		return
	}
	r.removeTag(tag)
	for _, m := range r.members {
		m.sendControl(&protocol.Control{Type: protocol.TypeRoomTagRemoved, Tag: tag})
	}
}

// hostRoom returns the caller's room iff the caller is its host, sending the
// appropriate error frame otherwise.
func (s *Server) hostRoom(c *conn) (*room, bool) {
	if c.room == nil {
		c.sendError(ErrNotInRoom)
		return nil, false
	}
	if c.room.ownerID != c.id {
		c.sendError(ErrNotHost)
		return nil, false
	}
	return c.room, true
}

// relayBinary fans a binary frame out to the other room members unmodified.
// Frames from members not in a room are dropped; the binary channel has no
// error reporting.
func (s *Server) relayBinary(c *conn, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c.room == nil {
		return
	}
	for _, m := range c.room.members {
		if m.id == c.id {
			continue
		}
		m.sendBinary(data)
	}
	s.metrics.binaryFrames.Inc()
}
