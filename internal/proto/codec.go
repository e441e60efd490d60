package proto

import (
	"encoding/binary"
	"errors"
	"math"
)

// ErrShortPacket reports a received datagram smaller than Size, the one
// length the protocol accepts.
var ErrShortPacket = errors.New("proto: short packet")

// DecodeBytes validates raw's length before decoding it, returning
// ErrShortPacket for anything under Size bytes. Callers reading off a
// socket should use this instead of Decode directly, since a raw read
// buffer isn't guaranteed to be exactly Size bytes.
func DecodeBytes(raw []byte) (Command, error) {
	if len(raw) < Size {
		return Command{}, ErrShortPacket
	}
	var buf [Size]byte
	copy(buf[:], raw[:Size])
	return Decode(buf), nil
}

// Decode interprets a 36-byte datagram as a Command. Any opcode outside the
// Op* constants becomes the Unknown case: Op is still set to the raw value
// read, but Raw retains the full packet for diagnostics and the caller is
// expected to treat any Op outside the known set as Unknown.
func Decode(buf [Size]byte) Command {
	c := Command{Raw: buf}
	c.Op = Opcode(binary.BigEndian.Uint32(buf[0:4]))

	switch c.Op {
	case OpKeepAlive, OpQuit:
		// no payload
	case OpPing:
		copy(c.Ping.Data[:], buf[4:36])
	case OpPlay:
		c.Play.Sec = binary.BigEndian.Uint32(buf[4:8])
		c.Play.Usec = binary.BigEndian.Uint32(buf[8:12])
		c.Play.Freq = binary.BigEndian.Uint32(buf[12:16])
		c.Play.Amp = math.Float32frombits(binary.BigEndian.Uint32(buf[16:20]))
		c.Play.Voice = binary.BigEndian.Uint32(buf[20:24])
	case OpCaps:
		c.Caps.Voices = binary.BigEndian.Uint32(buf[4:8])
		copy(c.Caps.Tp[:], buf[8:12])
		copy(c.Caps.Ident[:], buf[12:36])
	case OpPCM:
		for i := 0; i < 16; i++ {
			off := 4 + i*2
			c.PCM.Samples[i] = int16(binary.LittleEndian.Uint16(buf[off : off+2]))
		}
	case OpPCMSyn:
		c.PCMSynBuffered = binary.BigEndian.Uint32(buf[4:8])
	case OpArtParam:
		c.ArtParam.Voice = binary.BigEndian.Uint32(buf[4:8])
		c.ArtParam.Index = binary.BigEndian.Uint32(buf[8:12])
		c.ArtParam.Value = math.Float32frombits(binary.BigEndian.Uint32(buf[12:16]))
	}
	return c
}

// Encode serializes c into a 36-byte datagram, zero-padding any unused
// tail.
func Encode(c Command) [Size]byte {
	var buf [Size]byte
	binary.BigEndian.PutUint32(buf[0:4], uint32(c.Op))

	switch c.Op {
	case OpKeepAlive, OpQuit:
		// no payload
	case OpPing:
		copy(buf[4:36], c.Ping.Data[:])
	case OpPlay:
		binary.BigEndian.PutUint32(buf[4:8], c.Play.Sec)
		binary.BigEndian.PutUint32(buf[8:12], c.Play.Usec)
		binary.BigEndian.PutUint32(buf[12:16], c.Play.Freq)
		binary.BigEndian.PutUint32(buf[16:20], math.Float32bits(c.Play.Amp))
		binary.BigEndian.PutUint32(buf[20:24], c.Play.Voice)
	case OpCaps:
		binary.BigEndian.PutUint32(buf[4:8], c.Caps.Voices)
		copy(buf[8:12], c.Caps.Tp[:])
		copy(buf[12:36], c.Caps.Ident[:])
	case OpPCM:
		for i := 0; i < 16; i++ {
			off := 4 + i*2
			binary.LittleEndian.PutUint16(buf[off:off+2], uint16(c.PCM.Samples[i]))
		}
	case OpPCMSyn:
		binary.BigEndian.PutUint32(buf[4:8], c.PCMSynBuffered)
	case OpArtParam:
		binary.BigEndian.PutUint32(buf[4:8], c.ArtParam.Voice)
		binary.BigEndian.PutUint32(buf[8:12], c.ArtParam.Index)
		binary.BigEndian.PutUint32(buf[12:16], math.Float32bits(c.ArtParam.Value))
	default:
		copy(buf[:], c.Raw[:])
		binary.BigEndian.PutUint32(buf[0:4], uint32(c.Op))
	}
	return buf
}

// IsKnown reports whether op is one of the documented opcodes; callers use
// this to classify a decoded Command as Unknown per §4.6/§4.7.
func IsKnown(op Opcode) bool {
	switch op {
	case OpKeepAlive, OpPing, OpQuit, OpPlay, OpCaps, OpPCM, OpPCMSyn, OpArtParam:
		return true
	default:
		return false
	}
}
