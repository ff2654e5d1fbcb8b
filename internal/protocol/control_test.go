package protocol

import (
	"encoding/json"
	"strings"
	"testing"
)

// TestEncodeControl tests serialization of outbound control frames
func TestEncodeControl(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		msg       *Control
		wantError bool
	}{
		{
			name: "createRoom with tags and capacity",
			msg: &Control{
				Type:       TypeCreateRoom,
				Tags:       []string{"region:NA", "game:chess"},
				MaxClients: 8,
			},
			wantError: false,
		},
		{
			name:      "joinRoom",
			msg:       &Control{Type: TypeJoinRoom, RoomID: "room-1"},
			wantError: false,
		},
		{
			name:      "leaveRoom has no fields",
			msg:       &Control{Type: TypeLeaveRoom},
			wantError: false,
		},
		{
			name:      "relay with payload",
			msg:       &Control{Type: TypeRelay, Payload: json.RawMessage(`{"msg":"hi"}`)},
			wantError: false,
		},
		{
			name:      "missing type",
			msg:       &Control{RoomID: "room-1"},
			wantError: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			data, err := EncodeControl(tt.msg)

			if (err != nil) != tt.wantError {
				t.Errorf("EncodeControl() error = %v, wantError %v", err, tt.wantError)
				return
			}
			if tt.wantError {
				return
			}

			var decoded map[string]any
			if err := json.Unmarshal(data, &decoded); err != nil {
				t.Fatalf("encoded frame is not valid JSON: %v", err)
			}
			if decoded["type"] != tt.msg.Type {
				t.Errorf("type discriminator = %v, want %v", decoded["type"], tt.msg.Type)
			}
		})
	}
}

// TestEncodeControlOmitsEmptyFields verifies unused fields stay off the wire
func TestEncodeControlOmitsEmptyFields(t *testing.T) {
	t.Parallel()

	data, err := EncodeControl(&Control{Type: TypeLeaveRoom})
	if err != nil {
		t.Fatalf("EncodeControl() failed: %v", err)
	}

	if got, want := string(data), `{"type":"leaveRoom"}`; got != want {
		t.Errorf("encoded frame = %s, want %s", got, want)
	}
}

// TestDecodeControl tests classification of inbound control frames
func TestDecodeControl(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		data      string
		wantType  string
		wantError bool
	}{
		{
			name:     "assignId",
			data:     `{"type":"assignId","playerId":"p-1"}`,
			wantType: TypeAssignID,
		},
		{
			name:     "roomJoined with capacity",
			data:     `{"type":"roomJoined","roomId":"r-1","playerId":"p-2","ownerId":"p-1","maxClients":200}`,
			wantType: TypeRoomJoined,
		},
		{
			name:     "unknown type is not a decode error",
			data:     `{"type":"somethingNew","x":1}`,
			wantType: "somethingNew",
		},
		{
			name:      "malformed JSON",
			data:      `{"type":`,
			wantError: true,
		},
		{
			name:      "JSON array",
			data:      `[1,2,3]`,
			wantError: true,
		},
		{
			name:      "missing type discriminator",
			data:      `{"roomId":"r-1"}`,
			wantError: true,
		},
		{
			name:      "empty frame",
			data:      ``,
			wantError: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			msg, err := DecodeControl([]byte(tt.data))

			if (err != nil) != tt.wantError {
				t.Errorf("DecodeControl() error = %v, wantError %v", err, tt.wantError)
				return
			}
			if tt.wantError {
				return
			}

			if msg.Type != tt.wantType {
				t.Errorf("Type = %q, want %q", msg.Type, tt.wantType)
			}
		})
	}
}

// TestControlRoundTrip verifies encode and decode are inverses for every
// frame kind that travels in both directions
func TestControlRoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		msg  *Control
	}{
		{"relay", &Control{Type: TypeRelay, From: "p-1", Payload: json.RawMessage(`{"k":1}`)}},
		{"tellPlayer", &Control{Type: TypeTellPlayer, PlayerID: "p-2", Payload: json.RawMessage(`"hi"`)}},
		{"roomTagAdded", &Control{Type: TypeRoomTagAdded, Tag: "closed"}},
		{"reassignedHost", &Control{Type: TypeReassignedHost, NewHostID: "p-2", OldHostID: "p-1"}},
		{"error", &Control{Type: TypeError, Message: "room is full"}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			data, err := EncodeControl(tt.msg)
			if err != nil {
				t.Fatalf("EncodeControl() failed: %v", err)
			}

			decoded, err := DecodeControl(data)
			if err != nil {
				t.Fatalf("DecodeControl() failed: %v", err)
			}

			if decoded.Type != tt.msg.Type ||
				decoded.From != tt.msg.From ||
				decoded.PlayerID != tt.msg.PlayerID ||
				decoded.Tag != tt.msg.Tag ||
				decoded.NewHostID != tt.msg.NewHostID ||
				decoded.OldHostID != tt.msg.OldHostID ||
				decoded.Message != tt.msg.Message {
				t.Errorf("round trip mismatch: got %+v, want %+v", decoded, tt.msg)
			}
			if string(decoded.Payload) != string(tt.msg.Payload) {
				t.Errorf("payload = %s, want %s", decoded.Payload, tt.msg.Payload)
			}
		})
	}
}

// TestDecodeControlRoomList verifies room summaries survive the wire
func TestDecodeControlRoomList(t *testing.T) {
	t.Parallel()

	data := `{"type":"roomList","rooms":[{"roomId":"r-1","ownerId":"p-1","playerCount":3}]}`
	msg, err := DecodeControl([]byte(data))
	if err != nil {
		t.Fatalf("DecodeControl() failed: %v", err)
	}

	if len(msg.Rooms) != 1 {
		t.Fatalf("len(Rooms) = %d, want 1", len(msg.Rooms))
	}
	r := msg.Rooms[0]
	if r.RoomID != "r-1" || r.OwnerID != "p-1" || r.PlayerCount != 3 {
		t.Errorf("room summary = %+v", r)
	}
}

// BenchmarkEncodeControl benchmarks control frame serialization
func BenchmarkEncodeControl(b *testing.B) {
	msg := &Control{Type: TypeRelay, Payload: json.RawMessage(strings.Repeat(`1`, 128))}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = EncodeControl(msg)
	}
}
