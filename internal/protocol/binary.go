package protocol

import (
	"errors"
	"fmt"

	"github.com/luciancaetano/roomnet"
)

// Codec converts application payloads to wire-ready binary frames and back.
// It operates in exactly one of two modes, fixed at construction: bit-string
// (payloads are '0'/'1' strings, packed eight bits per byte) or byte-array
// (payloads are raw bytes). Frames carry no envelope; payload boundaries
// equal message boundaries.
type Codec struct {
	mode roomnet.BinaryMode
}

// NewCodec creates a codec for the given mode.
func NewCodec(mode roomnet.BinaryMode) *Codec {
	return &Codec{mode: mode}
}

// Mode returns the configured binary mode.
func (c *Codec) Mode() roomnet.BinaryMode {
	return c.mode
}

// EncodeBits packs a string of '0'/'1' characters into bytes, most
// significant bit first. A final group shorter than eight bits is
// right-padded with zero bits, so "1" encodes as 0x80. The padding is part
// of the wire format and is not stripped on receive.
func (c *Codec) EncodeBits(bits string) ([]byte, error) {
	if c.mode != roomnet.BinaryBits {
		return nil, errors.New(roomnet.ErrWrongBinaryMode)
	}

	out := make([]byte, (len(bits)+7)/8)
	for i := 0; i < len(bits); i++ {
		switch bits[i] {
		case '1':
			out[i/8] |= 1 << (7 - i%8)
		case '0':
		default:
			return nil, fmt.Errorf("%s: %q at offset %d", roomnet.ErrInvalidBitString, bits[i], i)
		}
	}
	return out, nil
}

// EncodeBytes returns a copy of the payload ready for the wire.
func (c *Codec) EncodeBytes(data []byte) ([]byte, error) {
	if c.mode != roomnet.BinaryBytes {
		return nil, errors.New(roomnet.ErrWrongBinaryMode)
	}

	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// DecodeFrame renders an inbound binary frame according to the configured
// mode. In bit-string mode it returns every byte as an 8-character
// zero-padded group, concatenated in receive order, and a nil byte slice;
// in byte-array mode it returns an empty string and a copy of the frame.
func (c *Codec) DecodeFrame(data []byte) (string, []byte) {
	if c.mode == roomnet.BinaryBytes {
		out := make([]byte, len(data))
		copy(out, data)
		return "", out
	}

	buf := make([]byte, 0, len(data)*8)
	for _, b := range data {
		for bit := 7; bit >= 0; bit-- {
			if b&(1<<bit) != 0 {
				buf = append(buf, '1')
			} else {
				buf = append(buf, '0')
			}
		}
	}
	return string(buf), nil
}
