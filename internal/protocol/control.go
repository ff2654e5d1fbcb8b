// Package protocol implements the wire formats of the roomnet control and
// binary channels: a JSON envelope discriminated by a "type" field for
// control frames, and a dual-mode codec for raw binary frames.
package protocol

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/luciancaetano/roomnet"
)

// Control frame type discriminators, client to server.
const (
	TypeCreateRoom = "createRoom"
	TypeJoinRoom   = "joinRoom"
	TypeLeaveRoom  = "leaveRoom"
	TypeListRooms  = "listRooms"
	TypeUpdateMeta = "updateMeta"
	TypeAddTag     = "addTag"
	TypeRemoveTag  = "removeTag"
)

// Control frame type discriminators, server to client. TypeRelay,
// TypeTellOwner and TypeTellPlayer appear in both directions.
const (
	TypeAssignID       = "assignId"
	TypeRoomCreated    = "roomCreated"
	TypeRoomJoined     = "roomJoined"
	TypeMakeHost       = "makeHost"
	TypeReassignedHost = "reassignedHost"
	TypePlayerLeft     = "playerLeft"
	TypeRelay          = "relay"
	TypeTellOwner      = "tellOwner"
	TypeTellPlayer     = "tellPlayer"
	TypeRoomList       = "roomList"
	TypeRoomUpdated    = "roomUpdated"
	TypeRoomTagAdded   = "roomTagAdded"
	TypeRoomTagRemoved = "roomTagRemoved"
	TypeError          = "error"
)

// Control is the single envelope for every control-channel frame. Type
// selects which of the remaining fields are populated; unused fields are
// omitted on the wire.
type Control struct {
	Type       string                `json:"type"`
	Tags       []string              `json:"tags,omitempty"`
	MaxClients int                   `json:"maxClients,omitempty"`
	RoomID     string                `json:"roomId,omitempty"`
	PlayerID   string                `json:"playerId,omitempty"`
	OwnerID    string                `json:"ownerId,omitempty"`
	NewHostID  string                `json:"newHostId,omitempty"`
	OldHostID  string                `json:"oldHostId,omitempty"`
	From       string                `json:"from,omitempty"`
	Payload    json.RawMessage       `json:"payload,omitempty"`
	Rooms      []roomnet.RoomSummary `json:"rooms,omitempty"`
	Tag        string                `json:"tag,omitempty"`
	Metadata   map[string]any        `json:"metadata,omitempty"`
	Message    string                `json:"message,omitempty"`
}

// EncodeControl serializes a control frame to its wire form.
func EncodeControl(msg *Control) ([]byte, error) {
	if msg.Type == "" {
		return nil, errors.New("control frame has no type")
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("marshal %s frame: %w", msg.Type, err)
	}
	return data, nil
}

// DecodeControl parses an inbound control frame. It returns an error for
// frames that are not JSON objects or carry no type discriminator; callers
// drop those without raising any event. An unrecognized type is not an
// error here — classification happens in the session layer.
func DecodeControl(data []byte) (*Control, error) {
	var msg Control
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("unmarshal control frame: %w", err)
	}
	if msg.Type == "" {
		return nil, errors.New("control frame has no type")
	}
	return &msg, nil
}
