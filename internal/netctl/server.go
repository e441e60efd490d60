// Package netctl implements the network thread: a blocking read loop over
// the control socket that decodes commands and applies them to the shared
// mixer, per §4.7/§5.
package netctl

import (
	"errors"
	"log"
	"net"

	"github.com/nyxaudio/synthd/internal/mixer"
	"github.com/nyxaudio/synthd/internal/proto"
)

// Server owns the control socket and applies received commands to a Mixer.
// One goroutine runs Serve; the mixer's own mutex (not this struct) is what
// actually coordinates with the audio callback.
type Server struct {
	conn  net.PacketConn
	mixer *mixer.Mixer
}

// New wraps conn and mx; conn is expected to already be bound (e.g. via
// net.ListenPacket("udp", "0.0.0.0:13676")).
func New(conn net.PacketConn, mx *mixer.Mixer) *Server {
	return &Server{conn: conn, mixer: mx}
}

// Serve blocks, reading datagrams until the socket errors (including when
// it is closed to unblock a pending read) or a Quit command is handled. A
// socket error is treated as an implicit Quit, per §7.
func (s *Server) Serve() error {
	var buf [proto.Size]byte
	for {
		n, addr, err := s.conn.ReadFrom(buf[:])
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return err
		}

		cmd, decErr := proto.DecodeBytes(buf[:n])
		if decErr != nil {
			log.Printf("netctl: dropped packet from %s: %v", addr, decErr)
			continue
		}
		if !s.handle(cmd, addr) {
			return nil
		}
	}
}

// handle applies one decoded command, returning false when the caller
// should stop serving (Quit).
func (s *Server) handle(cmd proto.Command, addr net.Addr) bool {
	if !proto.IsKnown(cmd.Op) {
		log.Printf("netctl: unknown opcode %d from %s", cmd.Op, addr)
		return true
	}

	switch cmd.Op {
	case proto.OpKeepAlive:
		// recovered silently, nothing to do
	case proto.OpPing:
		reply := proto.Encode(cmd)
		if _, err := s.conn.WriteTo(reply[:], addr); err != nil {
			log.Printf("netctl: failed to echo ping to %s: %v", addr, err)
		}
	case proto.OpQuit:
		s.mixer.RequestQuit()
		return false
	case proto.OpPlay:
		p := cmd.Play
		ok := s.mixer.ApplyPlay(p.Voice, p.Freq, p.Amp, p.Duration().Seconds())
		if !ok {
			log.Printf("netctl: dropped Play for out-of-range voice %d", p.Voice)
		}
	case proto.OpCaps:
		reply := proto.NewCapsReply(uint32(s.mixer.NumVoices()))
		encoded := proto.Encode(reply)
		if _, err := s.conn.WriteTo(encoded[:], addr); err != nil {
			log.Printf("netctl: failed to send caps reply to %s: %v", addr, err)
		}
	case proto.OpPCM, proto.OpPCMSyn:
		// reserved; accepted and ignored per §4.7
	case proto.OpArtParam:
		ap := cmd.ArtParam
		if ap.Voice == proto.AllVoices {
			s.mixer.ApplyArtParam(nil, int(ap.Index), ap.Value)
		} else {
			v := ap.Voice
			s.mixer.ApplyArtParam(&v, int(ap.Index), ap.Value)
		}
	}
	return true
}
