package roomnet

// Reserved room tags. The game tag is appended automatically to every
// createRoom and listRooms request; private and closed are protocol
// conventions enforced by the backend.
const (
	// TagGamePrefix scopes a room to a game namespace, e.g. "game:chess".
	TagGamePrefix = "game:"

	// TagPrivate excludes a room from listings.
	TagPrivate = "private"

	// TagClosed blocks new joins while preserving existing membership.
	// Removing the tag reopens the room.
	TagClosed = "closed"
)

// Standard error messages
const (
	// Connection errors
	ErrAlreadyConnected = "client is already connected"
	ErrConnectionClosed = "connection is closed"
	ErrDialFailed       = "failed to dial backend"

	// Command errors
	ErrAlreadyInRoom  = "already in a room"
	ErrFailedToEncode = "failed to encode message"

	// Binary codec errors
	ErrWrongBinaryMode  = "operation does not match the configured binary mode"
	ErrInvalidBitString = "bit string contains characters other than '0' and '1'"
)
