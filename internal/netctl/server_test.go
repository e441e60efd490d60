package netctl

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nyxaudio/synthd/internal/mixer"
	"github.com/nyxaudio/synthd/internal/proto"
	"github.com/nyxaudio/synthd/internal/signal"
)

func newLoopbackServer(t *testing.T, numVoices int) (*Server, net.PacketConn, *mixer.Mixer) {
	t.Helper()
	conn, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)
	env := signal.DefaultEnvironment()
	gens := make([]signal.Generator, numVoices)
	for i := range gens {
		gens[i] = signal.NewParam("_", 0)
	}
	mx := mixer.New(env, gens)
	srv := New(conn, mx)
	return srv, conn, mx
}

func roundTrip(t *testing.T, conn net.PacketConn, serverAddr net.Addr, cmd proto.Command) proto.Command {
	t.Helper()
	client, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)
	defer client.Close()

	wire := proto.Encode(cmd)
	_, err = client.WriteTo(wire[:], serverAddr)
	require.NoError(t, err)

	require.NoError(t, client.SetReadDeadline(time.Now().Add(2*time.Second)))
	var reply [proto.Size]byte
	n, _, err := client.ReadFrom(reply[:])
	require.NoError(t, err)
	require.Equal(t, proto.Size, n)
	return proto.Decode(reply)
}

// TestCapsRoundTrip reproduces §8's end-to-end scenario 4 over a real
// socket: a Caps query to a 3-voice server answers with voices=3.
func TestCapsRoundTrip(t *testing.T) {
	srv, conn, _ := newLoopbackServer(t, 3)
	defer conn.Close()
	go srv.Serve()

	got := roundTrip(t, conn, conn.LocalAddr(), proto.Command{Op: proto.OpCaps})
	assert.Equal(t, proto.OpCaps, got.Op)
	assert.Equal(t, uint32(3), got.Caps.Voices)
	assert.Equal(t, "SYNF", string(got.Caps.Tp[:]))
}

// TestPingRoundTrip reproduces §8's end-to-end scenario 3 over a real
// socket: a Ping is echoed back verbatim.
func TestPingRoundTrip(t *testing.T) {
	srv, conn, _ := newLoopbackServer(t, 1)
	defer conn.Close()
	go srv.Serve()

	cmd := proto.Command{Op: proto.OpPing}
	cmd.Ping.Data[0] = 0xAB
	cmd.Ping.Data[31] = 0xCD

	got := roundTrip(t, conn, conn.LocalAddr(), cmd)
	assert.Equal(t, proto.OpPing, got.Op)
	assert.Equal(t, cmd.Ping, got.Ping)
}

func TestKeepAliveHandledNoReply(t *testing.T) {
	srv, conn, _ := newLoopbackServer(t, 1)
	defer conn.Close()

	cont := srv.handle(proto.Command{Op: proto.OpKeepAlive}, conn.LocalAddr())
	assert.True(t, cont)
}

func TestQuitStopsServeAndSetsMixerQuit(t *testing.T) {
	srv, conn, mx := newLoopbackServer(t, 1)
	defer conn.Close()

	cont := srv.handle(proto.Command{Op: proto.OpQuit}, conn.LocalAddr())
	assert.False(t, cont)
	assert.True(t, mx.Quit())
}

func TestPlayDispatchesToMixer(t *testing.T) {
	srv, conn, mx := newLoopbackServer(t, 2)
	defer conn.Close()

	cmd := proto.Command{Op: proto.OpPlay}
	cmd.Play.Voice = 1
	cmd.Play.Freq = 440
	cmd.Play.Amp = 0.5
	cmd.Play.Sec = 1

	cont := srv.handle(cmd, conn.LocalAddr())
	assert.True(t, cont)

	out := mx.RenderBlock()
	assert.Equal(t, signal.Sample, out.Rate())
}

func TestArtParamAllVoicesDispatch(t *testing.T) {
	_, conn, _ := newLoopbackServer(t, 0)
	defer conn.Close()
	gens := []signal.Generator{signal.NewParam("artp2", 0), signal.NewParam("artp2", 0), signal.NewParam("artp2", 0)}
	mx := mixer.New(signal.DefaultEnvironment(), gens)
	srv := New(conn, mx)

	cmd := proto.Command{Op: proto.OpArtParam}
	cmd.ArtParam.Voice = proto.AllVoices
	cmd.ArtParam.Index = 2
	cmd.ArtParam.Value = 0.5

	cont := srv.handle(cmd, conn.LocalAddr())
	assert.True(t, cont)
	// every voice reads artp2; the 1/3-normalized mix is 0.5 only if all
	// three voices received the value.
	out := mx.RenderBlock()
	assert.InDelta(t, 0.5, out.First(), 1e-6)
}

func TestUnknownOpcodeIsIgnored(t *testing.T) {
	srv, conn, _ := newLoopbackServer(t, 1)
	defer conn.Close()

	cont := srv.handle(proto.Command{Op: proto.Opcode(99)}, conn.LocalAddr())
	assert.True(t, cont)
}
