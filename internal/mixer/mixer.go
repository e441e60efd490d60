package mixer

import (
	"sync"
	"sync/atomic"

	"github.com/nyxaudio/synthd/internal/signal"
)

// Mixer owns the fixed set of voices and the running frame counter, guarded
// by a single coarse mutex shared between the audio callback and the
// network thread — the canonical design §5/§9 call for over a lock-free
// ring buffer.
type Mixer struct {
	mu     sync.Mutex
	env    signal.Environment
	voices []*Voice
	frames uint64 // hot read path also available via FrameCount (atomic)

	buf   *signal.Buffer
	scale *signal.Buffer

	quit int32
}

// New builds a Mixer over the given compiled per-voice generator trees.
func New(env signal.Environment, gens []signal.Generator) *Mixer {
	voices := make([]*Voice, len(gens))
	for i, g := range gens {
		voices[i] = NewVoice(env, g)
	}
	return &Mixer{
		env:    env,
		voices: voices,
		buf:    signal.NewBuffer(env.DefaultBufferSize),
		scale:  signal.NewBuffer(1),
	}
}

// NumVoices returns N, the fixed voice count.
func (m *Mixer) NumVoices() int { return len(m.voices) }

// FrameCount is a lock-free read of the running frame counter, safe to call
// from any thread for diagnostics; the authoritative mutation still happens
// under the mutex inside RenderBlock.
func (m *Mixer) FrameCount() uint64 { return atomic.LoadUint64(&m.frames) }

// Quit reports whether a Quit command has been applied.
func (m *Mixer) Quit() bool { return atomic.LoadInt32(&m.quit) != 0 }

// RequestQuit signals the mixer to terminate after the current block, per
// §4.7's Quit handling.
func (m *Mixer) RequestQuit() { atomic.StoreInt32(&m.quit, 1) }

// RenderBlock runs one audio-callback iteration: per §4.7 steps 1-6. It
// acquires the mixer's lock for its full duration, the bound the audio
// callback's realtime budget must accommodate.
func (m *Mixer) RenderBlock() *signal.Buffer {
	m.mu.Lock()
	defer m.mu.Unlock()

	frameVal := float32(m.frames)
	for _, v := range m.voices {
		v.Params.Vars["v_frame"] = frameVal
	}

	if len(m.voices) == 0 {
		m.buf.SetRate(signal.Sample)
		m.buf.Zero()
		return m.buf
	}

	first := m.voices[0].Gen.Eval(m.voices[0].Params)
	m.buf.UpdateFrom(first)
	for _, v := range m.voices[1:] {
		out := v.Gen.Eval(v.Params)
		if m.buf.Rate() == signal.Control && out.Rate() == signal.Sample {
			m.buf.BroadcastFirst()
		}
		m.buf.SumInto(out)
	}

	m.scale.Set(1.0 / float32(len(m.voices)))
	m.buf.MulInto(m.scale)

	// The mixed block always leaves the mixer at Sample rate: a Control-rate
	// result only has entry 0 meaningful, but every downstream consumer
	// (the audio sink, WriteBytes) reads the full block by index.
	if m.buf.Rate() == signal.Control {
		m.buf.BroadcastFirst()
	}

	atomic.AddUint64(&m.frames, uint64(m.env.DefaultBufferSize))
	return m.buf
}

// ApplyPlay handles a Play command per §4.7: out-of-range voices are
// dropped. deadline_frames = frames + duration*sample_rate.
func (m *Mixer) ApplyPlay(voice uint32, freq uint32, amp float32, durationSeconds float64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if int(voice) >= len(m.voices) {
		return false
	}
	v := m.voices[voice]
	deadline := m.frames + uint64(durationSeconds*float64(m.env.SampleRate))
	v.applyPlay(m.frames, deadline, float32(freq), amp)
	return true
}

// ApplyArtParam sets articulation parameter index on the target voice, or
// every voice when voice is nil (the wire's "all voices" sentinel).
func (m *Mixer) ApplyArtParam(voice *uint32, index int, value float32) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if voice == nil {
		for _, v := range m.voices {
			v.SetArtParam(index, value)
		}
		return
	}
	if int(*voice) >= len(m.voices) {
		return
	}
	m.voices[*voice].SetArtParam(index, value)
}
