// Package lobby constructs roomnet protocol clients.
package lobby

import (
	"github.com/luciancaetano/roomnet"
	"github.com/luciancaetano/roomnet/internal/session"
)

type Config = session.Config

// New creates a disconnected protocol client from the given configuration.
//
// Example:
//
//	client := lobby.New(lobby.Config{
//	    URL:  "ws://localhost:8080/ws",
//	    Game: "mygame",
//	    Mode: roomnet.BinaryBytes,
//	})
//	if err := client.Connect(ctx); err != nil {
//	    log.Fatal(err)
//	}
func New(cfg Config) roomnet.Client {
	return session.New(cfg)
}

// DefaultConfig returns a configuration with byte-array binary mode and
// default timeouts, connecting to url and scoping all rooms to game.
func DefaultConfig(url, game string) Config {
	return Config{
		URL:  url,
		Game: game,
		Mode: roomnet.BinaryBytes,
	}
}

// BitsConfig is DefaultConfig with bit-string binary mode.
func BitsConfig(url, game string) Config {
	cfg := DefaultConfig(url, game)
	cfg.Mode = roomnet.BinaryBits
	return cfg
}
