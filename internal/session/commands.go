package session

import (
	"encoding/json"
	"fmt"

	"github.com/gorilla/websocket"

	"github.com/luciancaetano/roomnet"
	"github.com/luciancaetano/roomnet/internal/protocol"
)

// CreateRoom requests a new room owned by the caller. The game tag is
// appended automatically; private rooms additionally carry the reserved
// "private" tag. A client already in a room is rejected locally with an
// error event, without sending a frame.
func (c *Client) CreateRoom(tags []string, maxClients int, private bool, metadata map[string]any) error {
	if c.inRoom() {
		c.disp.emit(roomnet.Event{Kind: roomnet.EventError, Message: roomnet.ErrAlreadyInRoom})
		return nil
	}

	wireTags := c.scopedTags(tags)
	if private {
		wireTags = append(wireTags, roomnet.TagPrivate)
	}
	return c.submit(&protocol.Control{
		Type:       protocol.TypeCreateRoom,
		Tags:       wireTags,
		MaxClients: maxClients,
		Metadata:   metadata,
	})
}

// JoinRoom requests membership in an existing room. Rejections (missing,
// full or closed room) arrive as error events from the backend; joining
// while already in a room is rejected locally like CreateRoom.
func (c *Client) JoinRoom(roomID string) error {
	if c.inRoom() {
		c.disp.emit(roomnet.Event{Kind: roomnet.EventError, Message: roomnet.ErrAlreadyInRoom})
		return nil
	}
	return c.submit(&protocol.Control{Type: protocol.TypeJoinRoom, RoomID: roomID})
}

// LeaveRoom submits a leave request and clears the local room, owner and
// host state immediately, without waiting for acknowledgement. When not in a
// room nothing is sent, but local state is still cleared.
func (c *Client) LeaveRoom() error {
	c.mu.Lock()
	inRoom := c.roomID != ""
	c.roomID = ""
	c.ownerID = ""
	c.mu.Unlock()

	if !inRoom {
		return nil
	}
	return c.submit(&protocol.Control{Type: protocol.TypeLeaveRoom})
}

// ListRooms requests all public rooms matching every given tag plus the
// automatic game tag.
func (c *Client) ListRooms(tags []string) error {
	return c.submit(&protocol.Control{Type: protocol.TypeListRooms, Tags: c.scopedTags(tags)})
}

// UpdateMeta mutates the room metadata. Host-only; the backend is the
// authority on permission, so no local check happens before sending.
func (c *Client) UpdateMeta(metadata map[string]any) error {
	return c.submit(&protocol.Control{Type: protocol.TypeUpdateMeta, Metadata: metadata})
}

// AddTag adds a tag to the current room. Host-only, backend-enforced.
func (c *Client) AddTag(tag string) error {
	return c.submit(&protocol.Control{Type: protocol.TypeAddTag, Tag: tag})
}

// RemoveTag removes a tag from the current room. Host-only, backend-enforced.
func (c *Client) RemoveTag(tag string) error {
	return c.submit(&protocol.Control{Type: protocol.TypeRemoveTag, Tag: tag})
}

// SendRelay broadcasts a payload to every other member of the current room.
func (c *Client) SendRelay(payload any) error {
	raw, err := marshalPayload(payload)
	if err != nil {
		return err
	}
	return c.submit(&protocol.Control{Type: protocol.TypeRelay, Payload: raw})
}

// TellOwner sends a payload to the room owner.
func (c *Client) TellOwner(payload any) error {
	raw, err := marshalPayload(payload)
	if err != nil {
		return err
	}
	return c.submit(&protocol.Control{Type: protocol.TypeTellOwner, Payload: raw})
}

// TellPlayer sends a payload to one named room member.
func (c *Client) TellPlayer(playerID string, payload any) error {
	raw, err := marshalPayload(payload)
	if err != nil {
		return err
	}
	return c.submit(&protocol.Control{Type: protocol.TypeTellPlayer, PlayerID: playerID, Payload: raw})
}

// SendBits submits a bit-string binary frame to all other room members.
func (c *Client) SendBits(bits string) error {
	frame, err := c.codec.EncodeBits(bits)
	if err != nil {
		return err
	}
	c.send(websocket.BinaryMessage, frame)
	return nil
}

// SendBytes submits a raw binary frame to all other room members.
func (c *Client) SendBytes(data []byte) error {
	frame, err := c.codec.EncodeBytes(data)
	if err != nil {
		return err
	}
	c.send(websocket.BinaryMessage, frame)
	return nil
}

// submit serializes a control frame and queues it. Serialization failures
// are returned; a not-ready session drops the frame silently.
func (c *Client) submit(msg *protocol.Control) error {
	data, err := protocol.EncodeControl(msg)
	if err != nil {
		return fmt.Errorf("%s: %w", roomnet.ErrFailedToEncode, err)
	}
	c.send(websocket.TextMessage, data)
	return nil
}

// scopedTags copies the given tags and appends the game-scoping tag.
func (c *Client) scopedTags(tags []string) []string {
	out := make([]string, 0, len(tags)+2)
	out = append(out, tags...)
	return append(out, roomnet.TagGamePrefix+c.cfg.Game)
}

func marshalPayload(payload any) (json.RawMessage, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", roomnet.ErrFailedToEncode, err)
	}
	return raw, nil
}
