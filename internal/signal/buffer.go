// Package signal implements the generator tree: the dual-rate sample buffer
// primitive and the closed set of generator variants that compile from the
// expression language in internal/lang.
package signal

import (
	"encoding/binary"
	"math"
)

// Rate marks whether a Buffer's entries are all meaningful (Sample) or only
// entry 0 stands in for a constant spanning the whole block (Control).
type Rate int

const (
	Sample Rate = iota
	Control
)

// Buffer is a fixed-capacity block of audio samples plus a Rate tag. Once
// constructed, its capacity never changes; only its contents and rate flip
// between evaluations. A Buffer is exclusively owned by the generator that
// produced it — callers only ever borrow one via Generator.Eval/Buffer.
type Buffer struct {
	samples []float32
	rate    Rate
}

// NewBuffer allocates a zero-initialized buffer of n samples at Sample rate.
func NewBuffer(n int) *Buffer {
	if n < 1 {
		n = 1
	}
	return &Buffer{samples: make([]float32, n), rate: Sample}
}

func (b *Buffer) Len() int   { return len(b.samples) }
func (b *Buffer) Rate() Rate { return b.rate }

// At returns sample i without regard to rate (for Control-rate buffers, only
// i==0 is meaningful; callers that want "the value regardless of rate"
// should use First instead).
func (b *Buffer) At(i int) float32 { return b.samples[i] }

func (b *Buffer) SetAt(i int, v float32) { b.samples[i] = v }

// First returns entry 0, defined regardless of rate.
func (b *Buffer) First() float32 { return b.samples[0] }

// Set writes entry 0 and marks the buffer Control rate.
func (b *Buffer) Set(v float32) {
	b.samples[0] = v
	b.rate = Control
}

// SetRate forces the rate tag directly, used by generators that decide their
// output rate from their children before writing samples.
func (b *Buffer) SetRate(r Rate) { b.rate = r }

// BroadcastFirst copies entry 0 into every entry and marks the buffer
// Sample rate, materializing a Control-rate constant across the whole
// block for a consumer that reads by index regardless of rate.
func (b *Buffer) BroadcastFirst() {
	v := b.samples[0]
	for i := range b.samples {
		b.samples[i] = v
	}
	b.rate = Sample
}

func minLen(a, b *Buffer) int {
	if a.Len() < b.Len() {
		return a.Len()
	}
	return b.Len()
}

// UpdateFrom copies other's rate, then its contents: all entries up to
// min(len) at Sample rate, or just entry 0 at Control rate.
func (b *Buffer) UpdateFrom(other *Buffer) {
	b.rate = other.rate
	switch b.rate {
	case Sample:
		n := minLen(b, other)
		copy(b.samples[:n], other.samples[:n])
	case Control:
		b.samples[0] = other.samples[0]
	}
}

// SumInto adds other into b in place. b's own rate decides the loop shape;
// other's rate decides whether each step reads other[i] or broadcasts
// other[0].
func (b *Buffer) SumInto(other *Buffer) {
	switch b.rate {
	case Sample:
		n := minLen(b, other)
		if other.rate == Control {
			n = b.Len()
		}
		for i := 0; i < n; i++ {
			if other.rate == Sample {
				b.samples[i] += other.samples[i]
			} else {
				b.samples[i] += other.samples[0]
			}
		}
	case Control:
		b.samples[0] += other.samples[0]
	}
}

// MulInto multiplies other into b in place, with the same rate rules as
// SumInto.
func (b *Buffer) MulInto(other *Buffer) {
	switch b.rate {
	case Sample:
		n := minLen(b, other)
		if other.rate == Control {
			n = b.Len()
		}
		for i := 0; i < n; i++ {
			if other.rate == Sample {
				b.samples[i] *= other.samples[i]
			} else {
				b.samples[i] *= other.samples[0]
			}
		}
	case Control:
		b.samples[0] *= other.samples[0]
	}
}

// Zero fills every entry with 0.0. Rate is left untouched.
func (b *Buffer) Zero() {
	for i := range b.samples {
		b.samples[i] = 0
	}
}

// WriteBytes serializes the full capacity (not just the meaningful entries)
// as little-endian IEEE-754 float32, producing 4*Len() bytes. Used by the
// audio sink and by PCM-adjacent diagnostics.
func (b *Buffer) WriteBytes(buf []byte) {
	for i, s := range b.samples {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(s))
	}
}
