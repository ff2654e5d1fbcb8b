package roomnet

import "context"

// Client is a session with a matchmaking/relay backend.
//
// A Client is created once and may be connected and disconnected repeatedly;
// every disconnect resets the session (identity, room, owner, host flag) and
// a later Connect starts a brand-new session.
//
// All command methods are fire-and-forget: they serialize a control frame
// and submit it without waiting for a reply. Outcomes arrive asynchronously
// as events. Commands issued while disconnected or before the backend has
// assigned an identity are silently dropped; the returned error is non-nil
// only for local encoding failures or binary-mode misuse.
//
// Example usage:
//
//	client := lobby.New(lobby.DefaultConfig("ws://localhost:8080/ws", "mygame"))
//
//	client.On(roomnet.EventRoomJoined, func(ev roomnet.Event) {
//	    log.Printf("joined room %s owned by %s", ev.RoomID, ev.OwnerID)
//	})
//
//	if err := client.Connect(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	client.JoinRoom("some-room-id")
type Client interface {
	// Connect opens the transport connection to the backend.
	//
	// On success the session is connected but unassigned: an assignedId
	// event follows once the backend allocates the player identity, and
	// only then are commands accepted. Connect raises a connected event.
	//
	// Returns an error if the client is already connected or connecting,
	// or if the dial fails. No automatic reconnection is ever attempted.
	Connect(ctx context.Context) error

	// Disconnect terminates the transport and resets session state,
	// raising a disconnected event. It is the only cancellation primitive:
	// in-flight outbound commands may or may not have been delivered.
	//
	// Disconnecting an already-disconnected client is a no-op.
	Disconnect() error

	// On registers a subscriber for an event kind. Handlers run
	// synchronously on the read loop in registration order. Registering
	// the same handler twice yields two invocations per event.
	On(kind EventKind, handler Handler)

	// CreateRoom requests a new room owned by the caller.
	//
	// The game-scoping tag is appended automatically; private appends the
	// reserved "private" tag, excluding the room from listings. Success is
	// observed via a roomCreated event.
	//
	// A client that is already in a room receives an error event and no
	// frame is sent; leave the current room first.
	CreateRoom(tags []string, maxClients int, private bool, metadata map[string]any) error

	// JoinRoom requests membership in an existing room. Success arrives as
	// a roomJoined event; a missing, full or closed room yields an error
	// event instead. Joining while already in a room yields a local error
	// event, like CreateRoom.
	JoinRoom(roomID string) error

	// LeaveRoom submits a leave request and immediately clears the local
	// room, owner and host fields without waiting for acknowledgement.
	// Calling it while not in a room sends nothing but still clears state.
	LeaveRoom() error

	// ListRooms requests an enumeration of public rooms matching all given
	// tags plus the automatic game tag (intersection). The response
	// arrives as a roomList event.
	ListRooms(tags []string) error

	// UpdateMeta mutates the room metadata. The backend enforces the
	// host-only restriction; a rejection arrives as an error event. On
	// success every member, including the issuer, receives a roomUpdated
	// event carrying the full metadata object.
	UpdateMeta(metadata map[string]any) error

	// AddTag adds a tag to the current room (host-only, backend-enforced).
	// Members observe a roomTagAdded event. Adding the reserved "closed"
	// tag blocks new joins until it is removed.
	AddTag(tag string) error

	// RemoveTag removes a tag from the current room (host-only,
	// backend-enforced). Members observe a roomTagRemoved event.
	RemoveTag(tag string) error

	// SendRelay broadcasts a JSON-marshalable payload to every other
	// member of the current room. Receivers observe a relay event with the
	// sender's identity; the sender receives no echo.
	SendRelay(payload any) error

	// TellOwner sends a payload to the room owner only.
	TellOwner(payload any) error

	// TellPlayer sends a payload to one named room member. A target that
	// is not a member of the room is a backend-side error event.
	TellPlayer(playerID string, payload any) error

	// SendBits submits a '0'/'1' string as a binary frame to all other
	// room members. Only valid in BinaryBits mode. A final partial 8-bit
	// group is right-padded with zeros on the wire.
	SendBits(bits string) error

	// SendBytes submits raw bytes as a binary frame to all other room
	// members. Only valid in BinaryBytes mode.
	SendBytes(data []byte) error

	// PlayerID returns the backend-assigned identity, or "" before
	// assignment and after disconnect.
	PlayerID() string

	// RoomID returns the current room identity, or "" when not in a room.
	RoomID() string

	// OwnerID returns the current room owner identity, or "" when not in
	// a room.
	OwnerID() string

	// IsHost reports whether the local player owns the current room. It is
	// always exactly PlayerID() == OwnerID() for a non-empty PlayerID.
	IsHost() bool

	// IsConnected reports whether the transport is open.
	IsConnected() bool
}
