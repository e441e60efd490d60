package signal

import (
	"crypto/rand"
	"encoding/binary"
)

// xorshift64 is a minimal 64-bit xorshift PRNG, one instance per Noise
// generator, matching §4.2's "holds its own PRNG" requirement.
type xorshift64 struct{ state uint64 }

func newXorshift64(seed uint64) *xorshift64 {
	if seed == 0 {
		seed = 0x9e3779b97f4a7c15
	}
	return &xorshift64{state: seed}
}

func (x *xorshift64) next() uint64 {
	s := x.state
	s ^= s << 13
	s ^= s >> 7
	s ^= s << 17
	x.state = s
	return s
}

// float01 maps the generator's output to [0,1) using the top 24 bits, wide
// enough for exact float32 representation.
func (x *xorshift64) float01() float32 {
	return float32(x.next()>>40) / float32(1<<24)
}

// Noise emits uniform [0,1) samples from a per-instance xorshift64 PRNG,
// seeded from a platform entropy source at construction. Always Sample
// rate; has no phase or frequency.
type Noise struct {
	base
	rng *xorshift64
}

// NewNoise seeds from crypto/rand, the platform entropy source.
func NewNoise(env Environment) *Noise {
	var seedBytes [8]byte
	_, _ = rand.Read(seedBytes[:])
	seed := binary.LittleEndian.Uint64(seedBytes[:])
	return &Noise{base: base{buf: NewBuffer(env.DefaultBufferSize)}, rng: newXorshift64(seed)}
}

// NewNoiseSeeded builds a Noise with a fixed seed, for callers that need a
// deterministic sequence.
func NewNoiseSeeded(env Environment, seed uint64) *Noise {
	return &Noise{base: base{buf: NewBuffer(env.DefaultBufferSize)}, rng: newXorshift64(seed)}
}

func (n *Noise) Eval(params *Parameters) *Buffer {
	n.buf.SetRate(Sample)
	sz := n.buf.Len()
	for i := 0; i < sz; i++ {
		n.buf.SetAt(i, n.rng.float01())
	}
	return n.buf
}
