package session

import (
	"github.com/luciancaetano/roomnet"
	"github.com/luciancaetano/roomnet/internal/protocol"
)

// handleControl classifies one inbound control frame. Unparseable frames and
// frames of unknown type are dropped without raising any event.
func (c *Client) handleControl(data []byte) {
	msg, err := protocol.DecodeControl(data)
	if err != nil {
		c.log.Debug("dropping unparseable control frame", "error", err)
		return
	}
	c.apply(msg)
}

// apply runs the session state machine for one control frame: the state
// mutation happens first, then subscribers observe the resulting event.
func (c *Client) apply(msg *protocol.Control) {
	switch msg.Type {
	case protocol.TypeAssignID:
		c.mu.Lock()
		c.playerID = msg.PlayerID
		c.mu.Unlock()
		c.disp.emit(roomnet.Event{Kind: roomnet.EventAssignedID, PlayerID: msg.PlayerID})

	case protocol.TypeRoomCreated:
		// The creator is the owner.
		c.mu.Lock()
		c.roomID = msg.RoomID
		c.ownerID = c.playerID
		c.mu.Unlock()
		c.disp.emit(roomnet.Event{Kind: roomnet.EventRoomCreated, RoomID: msg.RoomID})

	case protocol.TypeRoomJoined:
		c.mu.Lock()
		c.roomID = msg.RoomID
		c.ownerID = msg.OwnerID
		c.mu.Unlock()
		c.disp.emit(roomnet.Event{
			Kind:       roomnet.EventRoomJoined,
			RoomID:     msg.RoomID,
			PlayerID:   msg.PlayerID,
			OwnerID:    msg.OwnerID,
			MaxClients: msg.MaxClients,
		})

	case protocol.TypeMakeHost:
		// Promotion to host without leaving the room.
		c.mu.Lock()
		c.ownerID = c.playerID
		c.mu.Unlock()
		c.disp.emit(roomnet.Event{Kind: roomnet.EventMakeHost, OldHostID: msg.OldHostID})

	case protocol.TypeReassignedHost:
		c.mu.Lock()
		c.ownerID = msg.NewHostID
		c.mu.Unlock()
		c.disp.emit(roomnet.Event{
			Kind:      roomnet.EventReassignedHost,
			NewHostID: msg.NewHostID,
			OldHostID: msg.OldHostID,
		})

	case protocol.TypePlayerLeft:
		c.disp.emit(roomnet.Event{Kind: roomnet.EventPlayerLeft, PlayerID: msg.PlayerID})

	case protocol.TypeRelay:
		c.disp.emit(roomnet.Event{Kind: roomnet.EventRelay, From: msg.From, Payload: msg.Payload})

	case protocol.TypeTellOwner:
		c.disp.emit(roomnet.Event{Kind: roomnet.EventTellOwner, From: msg.From, Payload: msg.Payload})

	case protocol.TypeTellPlayer:
		c.disp.emit(roomnet.Event{Kind: roomnet.EventTellPlayer, From: msg.From, Payload: msg.Payload})

	case protocol.TypeRoomList:
		c.disp.emit(roomnet.Event{Kind: roomnet.EventRoomList, Rooms: msg.Rooms})

	case protocol.TypeRoomUpdated:
		c.disp.emit(roomnet.Event{Kind: roomnet.EventRoomUpdated, Metadata: msg.Metadata})

	case protocol.TypeRoomTagAdded:
		c.disp.emit(roomnet.Event{Kind: roomnet.EventRoomTagAdded, Tag: msg.Tag})

	case protocol.TypeRoomTagRemoved:
		c.disp.emit(roomnet.Event{Kind: roomnet.EventRoomTagRemoved, Tag: msg.Tag})

	case protocol.TypeError:
		c.disp.emit(roomnet.Event{Kind: roomnet.EventError, Message: msg.Message})

	default:
		c.log.Debug("dropping control frame of unknown type", "type", msg.Type)
	}
}

// PlayerID returns the backend-assigned identity, or "" before assignment.
func (c *Client) PlayerID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.playerID
}

// RoomID returns the current room identity, or "" when not in a room.
func (c *Client) RoomID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.roomID
}

// OwnerID returns the current room owner identity, or "" when not in a room.
func (c *Client) OwnerID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ownerID
}

// IsHost reports whether the local player owns the current room. The flag is
// derived, never stored, so it cannot diverge from PlayerID == OwnerID.
func (c *Client) IsHost() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.playerID != "" && c.playerID == c.ownerID
}

// IsConnected reports whether the transport is open.
func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.status == statusConnected
}

func (c *Client) inRoom() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.roomID != ""
}
