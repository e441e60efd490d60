package signal

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestSineScenario reproduces end-to-end scenario 1 from §8: parse
// sine(440), evaluate one 64-sample block at 44100 Hz starting from phase
// 0. output[0] = 0.0, output[1] ~= sin(2*pi*440/44100).
func TestSineScenario(t *testing.T) {
	env := DefaultEnvironment()
	env.DefaultBufferSize = 64
	s := NewSine(env, NewParam("_", 440), nil)
	p := NewParameters(env)
	out := s.Eval(p)

	assert.InDelta(t, 0.0, out.At(0), 1e-6)
	want := math.Sin(2 * math.Pi * 440 / 44100)
	assert.InDelta(t, want, float64(out.At(1)), 1e-4)
}

// TestPhaseContinuity checks §8's phase-continuity law: evaluating across
// two blocks with constant freq equals evaluating one block of the
// combined length, up to floating point rounding.
func TestPhaseContinuity(t *testing.T) {
	env := DefaultEnvironment()
	env.DefaultBufferSize = 32
	twoBlock := NewSine(env, NewParam("_", 220), nil)
	p := NewParameters(env)
	b1 := make([]float32, 32)
	out := twoBlock.Eval(p)
	copy(b1, sliceOf(out))
	b2 := make([]float32, 32)
	out = twoBlock.Eval(p)
	copy(b2, sliceOf(out))

	wholeEnv := env
	wholeEnv.DefaultBufferSize = 64
	whole := NewSine(wholeEnv, NewParam("_", 220), nil)
	wp := NewParameters(wholeEnv)
	wout := whole.Eval(wp)

	for i := 0; i < 32; i++ {
		if diff := abs32(b1[i] - wout.At(i)); diff > 1e-4 {
			t.Fatalf("block1[%d] = %v, whole[%d] = %v, diff %v", i, b1[i], i, wout.At(i), diff)
		}
	}
	for i := 0; i < 32; i++ {
		if diff := abs32(b2[i] - wout.At(32+i)); diff > 1e-4 {
			t.Fatalf("block2[%d] = %v, whole[%d] = %v, diff %v", i, b2[i], 32+i, wout.At(32+i), diff)
		}
	}
}

func sliceOf(b *Buffer) []float32 {
	out := make([]float32, b.Len())
	for i := range out {
		out[i] = b.At(i)
	}
	return out
}

func abs32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

func TestSawRange(t *testing.T) {
	env := DefaultEnvironment()
	s := NewSaw(env, NewParam("_", 100), nil)
	p := NewParameters(env)
	out := s.Eval(p)
	for i := 0; i < out.Len(); i++ {
		v := out.At(i)
		if v < -1.0001 || v > 1.0001 {
			t.Fatalf("saw[%d] = %v out of range", i, v)
		}
	}
}

func TestSquareAlternates(t *testing.T) {
	env := DefaultEnvironment()
	sq := NewSquare(env, NewParam("_", 100), nil)
	p := NewParameters(env)
	out := sq.Eval(p)
	for i := 0; i < out.Len(); i++ {
		v := out.At(i)
		if v != 1.0 && v != -1.0 {
			t.Fatalf("square[%d] = %v, want +-1", i, v)
		}
	}
}
