// Package audiosink adapts the mixer's mono block-pull contract to
// ebiten/v2/audio's stereo NewPlayerF32, by duplicating each mono frame
// across both output channels.
package audiosink

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"sync"

	ebitaudio "github.com/hajimehoshi/ebiten/v2/audio"
)

// MonoSource is the contract §6 describes for the audio sink: fill buf with
// frames mono samples. The mixer implements this by calling RenderBlock
// repeatedly and copying out entries.
type MonoSource interface {
	ProcessMono(dst []float32)
}

// reader bridges a MonoSource into ebiten's byte-stream expectation:
// interleaved stereo little-endian float32, each mono frame duplicated to
// both channels.
type reader struct {
	mu     sync.Mutex
	source MonoSource
	mono   []float32
}

func newReader(source MonoSource) *reader {
	return &reader{source: source}
}

func (r *reader) Read(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	frames := len(p) / 8 // 2 channels * 4 bytes per float32
	if frames == 0 {
		return 0, nil
	}
	if cap(r.mono) < frames {
		r.mono = make([]float32, frames)
	}
	r.mono = r.mono[:frames]
	r.source.ProcessMono(r.mono)

	for i := 0; i < frames; i++ {
		u := math.Float32bits(r.mono[i])
		binary.LittleEndian.PutUint32(p[i*8:], u)
		binary.LittleEndian.PutUint32(p[i*8+4:], u)
	}
	return frames * 8, nil
}

func (r *reader) Close() error { return nil }

// Sink wraps an ebiten audio player pulling from a MonoSource.
type Sink struct {
	player *ebitaudio.Player
	reader io.ReadCloser
}

var (
	contextOnce sync.Once
	context     *ebitaudio.Context
	contextRate int
)

func sharedContext(sampleRate int) (*ebitaudio.Context, error) {
	contextOnce.Do(func() {
		contextRate = sampleRate
		context = ebitaudio.NewContext(sampleRate)
	})
	if contextRate != sampleRate {
		return nil, fmt.Errorf("audio context already initialized at %d Hz (requested %d Hz)", contextRate, sampleRate)
	}
	return context, nil
}

// NewSink opens an ebiten-backed audio output pulling mono blocks from
// source at sampleRate.
func NewSink(sampleRate int, source MonoSource) (*Sink, error) {
	ctx, err := sharedContext(sampleRate)
	if err != nil {
		return nil, err
	}
	rd := newReader(source)
	pl, err := ctx.NewPlayerF32(rd)
	if err != nil {
		return nil, err
	}
	return &Sink{player: pl, reader: rd}, nil
}

// Play starts (or resumes) playback.
func (s *Sink) Play() { s.player.Play() }

// Stop halts playback and releases the player.
func (s *Sink) Stop() error {
	s.player.Pause()
	s.player.Close()
	return s.reader.Close()
}
