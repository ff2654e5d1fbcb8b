// Package roomnet provides a client-side networking layer for real-time
// multiplayer sessions over WebSocket.
//
// A roomnet client manages a single bidirectional connection to a
// matchmaking/relay backend, tracks room membership and host assignment, and
// exchanges both structured control messages and raw binary payloads with the
// other peers connected to the same room.
//
// # Architecture
//
// The control channel carries one JSON object per text frame, discriminated
// by a "type" field. The client serializes outbound room commands (create,
// join, leave, list, relay, directed messages, metadata and tag mutation) and
// classifies inbound control frames, applying each one to its local session
// state before notifying subscribers through a typed event dispatcher.
// Binary application data bypasses the control channel entirely and travels
// as raw WebSocket binary frames through a dual-mode codec.
//
// The backend is the sole authority on room state: host election, closed-room
// enforcement, and host-only permission checks all happen server side. The
// client holds only a partial, eventually-consistent view built from the
// events it observes, and deliberately does not re-validate permissions
// before sending.
//
// # Quick Start
//
//	import (
//	    "github.com/luciancaetano/roomnet"
//	    "github.com/luciancaetano/roomnet/lobby"
//	)
//
//	client := lobby.New(lobby.DefaultConfig("ws://localhost:8080/ws", "mygame"))
//
//	client.On(roomnet.EventAssignedID, func(ev roomnet.Event) {
//	    log.Printf("assigned player id %s", ev.PlayerID)
//	    client.CreateRoom([]string{"region:NA"}, 8, false, nil)
//	})
//
//	client.On(roomnet.EventRelay, func(ev roomnet.Event) {
//	    log.Printf("relay from %s: %s", ev.From, ev.Payload)
//	})
//
//	if err := client.Connect(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// # Events
//
// Every protocol notification is delivered as an Event value tagged with an
// EventKind. Handlers registered with On run synchronously on the connection
// read loop, in registration order, after the session state has already been
// updated. Multiple handlers may subscribe to the same kind; registering the
// same handler twice yields two invocations.
//
// # Commands
//
// Room commands are fire-and-forget: they serialize a control frame and
// submit it without waiting for a reply. Success is observed asynchronously
// through the corresponding event (roomCreated, roomJoined, roomList, ...).
// Commands issued while disconnected or before the backend has assigned a
// player identity are silently dropped. Protocol-level rejections such as
// joining a full or closed room arrive as an error event and leave the
// session connected.
//
// # Binary Modes
//
// A client operates in exactly one of two binary modes, fixed at
// construction:
//
//   - BinaryBits: payloads are strings of '0'/'1' characters. Outbound
//     strings are packed eight bits per byte, the final partial group
//     right-padded with zeros. Inbound frames are rendered back as one
//     zero-padded 8-bit group per byte.
//   - BinaryBytes: payloads are raw byte slices, passed through unmodified.
//
// The mode is not negotiated with the backend; peers must agree on it out of
// band. Binary frames carry no sender identity and no envelope: payload
// boundaries equal WebSocket message boundaries.
//
// # Reconnection
//
// The client never reconnects on its own. Any transport close resets the
// session (identity, room, owner, host flag) and raises a disconnected
// event; a later Connect starts a brand-new session with a freshly assigned
// identity.
package roomnet
