package roomnet

import "encoding/json"

// BinaryMode selects how binary frames are encoded on send and rendered on
// receive. A client uses exactly one mode for its whole lifetime; the mode is
// not negotiated with the backend and must match what peers expect.
type BinaryMode int

const (
	// BinaryBits exchanges binary payloads as strings of '0'/'1' characters,
	// packed eight bits per byte on the wire. A final partial group is
	// right-padded with '0' bits; the padding is not stripped on receive.
	BinaryBits BinaryMode = iota

	// BinaryBytes exchanges binary payloads as raw byte slices.
	BinaryBytes
)

// EventKind identifies a protocol event raised by the client.
type EventKind int

const (
	// EventConnected fires when the transport opens. The session has no
	// player identity yet; commands are dropped until EventAssignedID.
	EventConnected EventKind = iota

	// EventDisconnected fires on any transport close, intentional or not.
	// Session state (identity, room, owner, host flag) is already reset
	// when handlers run.
	EventDisconnected

	// EventAssignedID fires when the backend assigns the local player
	// identity. Carries PlayerID.
	EventAssignedID

	// EventRoomCreated fires when a room requested with CreateRoom exists.
	// The local player is its owner. Carries RoomID.
	EventRoomCreated

	// EventRoomJoined fires when a JoinRoom request succeeds. Carries
	// RoomID, PlayerID (own identity), OwnerID and MaxClients.
	EventRoomJoined

	// EventMakeHost fires when the backend promotes the local player to
	// room owner. Carries OldHostID.
	EventMakeHost

	// EventReassignedHost fires when room ownership moves to another
	// member. Carries NewHostID and OldHostID.
	EventReassignedHost

	// EventPlayerLeft fires when another member leaves the room. Carries
	// PlayerID of the departing member. The client does not maintain a
	// member list; consumers that need one track it themselves.
	EventPlayerLeft

	// EventRelay fires when another member broadcasts a payload with
	// SendRelay. Carries From and Payload. The sender never receives its
	// own echo.
	EventRelay

	// EventTellOwner fires when a member sends a payload directed at the
	// room owner. Carries From and Payload.
	EventTellOwner

	// EventTellPlayer fires when a member sends a payload directed at the
	// local player. Carries From and Payload.
	EventTellPlayer

	// EventRoomList fires in response to ListRooms. Carries Rooms.
	EventRoomList

	// EventRoomUpdated fires when the room metadata changes. Carries
	// Metadata. Broadcast to all members including the issuer.
	EventRoomUpdated

	// EventRoomTagAdded fires when a tag is added to the room. Carries Tag.
	EventRoomTagAdded

	// EventRoomTagRemoved fires when a tag is removed from the room.
	// Carries Tag.
	EventRoomTagRemoved

	// EventError fires on a protocol-level rejection (join a closed, full
	// or missing room, unauthorized mutation). Carries Message. Errors are
	// informational; the session stays connected.
	EventError

	// EventBinary fires when a binary frame arrives. Carries Bits in
	// BinaryBits mode or Bytes in BinaryBytes mode.
	EventBinary

	// NumEventKinds is the number of event kinds; kinds are contiguous
	// starting at zero.
	NumEventKinds
)

var eventKindNames = [NumEventKinds]string{
	EventConnected:      "connected",
	EventDisconnected:   "disconnected",
	EventAssignedID:     "assignedId",
	EventRoomCreated:    "roomCreated",
	EventRoomJoined:     "roomJoined",
	EventMakeHost:       "makeHost",
	EventReassignedHost: "reassignedHost",
	EventPlayerLeft:     "playerLeft",
	EventRelay:          "relay",
	EventTellOwner:      "tellOwner",
	EventTellPlayer:     "tellPlayer",
	EventRoomList:       "roomList",
	EventRoomUpdated:    "roomUpdated",
	EventRoomTagAdded:   "roomTagAdded",
	EventRoomTagRemoved: "roomTagRemoved",
	EventError:          "error",
	EventBinary:         "binary",
}

// String returns the protocol name of the event kind.
func (k EventKind) String() string {
	if k < 0 || k >= NumEventKinds {
		return "unknown"
	}
	return eventKindNames[k]
}

// RoomSummary is one entry of a room listing.
type RoomSummary struct {
	RoomID      string `json:"roomId"`
	OwnerID     string `json:"ownerId"`
	PlayerCount int    `json:"playerCount"`
}

// Event is the tagged variant delivered to subscribers. Kind selects which
// of the remaining fields are meaningful; all others are zero values.
type Event struct {
	Kind EventKind

	// PlayerID is the assigned identity (assignedId), the own identity
	// (roomJoined) or the departing member (playerLeft).
	PlayerID string

	// RoomID is set on roomCreated and roomJoined.
	RoomID string

	// OwnerID is set on roomJoined.
	OwnerID string

	// MaxClients is the room capacity, set on roomJoined.
	MaxClients int

	// NewHostID and OldHostID describe a host change (makeHost carries only
	// OldHostID; reassignedHost carries both).
	NewHostID string
	OldHostID string

	// From identifies the sender of a relay, tellOwner or tellPlayer
	// payload.
	From string

	// Payload is the application payload of relay, tellOwner and
	// tellPlayer events, exactly as it appeared on the wire.
	Payload json.RawMessage

	// Rooms is the result of a roomList event.
	Rooms []RoomSummary

	// Tag is set on roomTagAdded and roomTagRemoved.
	Tag string

	// Metadata is the full room metadata object, set on roomUpdated.
	Metadata map[string]any

	// Message is the server-supplied text of an error event.
	Message string

	// Bits and Bytes carry a binary frame, one of them per BinaryMode.
	Bits  string
	Bytes []byte
}

// Handler is a subscriber callback. Handlers run synchronously on the
// connection read loop; they must not block for long periods.
type Handler func(Event)
