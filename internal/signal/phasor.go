package signal

import "math"

// phasor holds the running phase shared by sine/saw/triangle/square. Sine
// tracks phase in radians (0..2π); the other three track a normalized phase
// in [0,1) — matching the two distinct phase conventions §4.2 calls for.
type phasor struct {
	phase float64
}

// Sine is a stateful phase accumulator: output[i] = sin(θ0 + ω·i) where
// ω = 2π·freq/sample_rate, freq re-read from Freq once per block (the
// block-synchronous simplification §4.2 calls out). Always Sample rate.
type Sine struct {
	base
	phasor
	Freq, Phase Generator
}

func NewSine(env Environment, freq, phase Generator) *Sine {
	return &Sine{base: base{buf: NewBuffer(env.DefaultBufferSize)}, Freq: freq, Phase: phase}
}

func (s *Sine) Eval(params *Parameters) *Buffer {
	freq := s.Freq.Eval(params).First()
	if s.Phase != nil {
		s.phase = float64(s.Phase.Eval(params).First())
	}
	s.buf.SetRate(Sample)
	omega := 2 * math.Pi * float64(freq) / float64(params.Env.SampleRate)
	theta := s.phase
	n := s.buf.Len()
	for i := 0; i < n; i++ {
		s.buf.SetAt(i, float32(math.Sin(theta+omega*float64(i))))
	}
	s.phase = math.Mod(theta+omega*float64(n), 2*math.Pi)
	return s.buf
}

// normPhasor is the shared evaluator for saw/triangle/square: a normalized
// phase in [0,1) advancing by freq/sample_rate per sample, mapped through a
// per-waveform shaping function.
type normPhasor struct {
	base
	phasor
	Freq, Phase Generator
	shape       func(frac float64) float32
}

func (n *normPhasor) eval(params *Parameters) *Buffer {
	freq := n.Freq.Eval(params).First()
	if n.Phase != nil {
		n.phase = float64(n.Phase.Eval(params).First())
	}
	n.buf.SetRate(Sample)
	step := float64(freq) / float64(params.Env.SampleRate)
	ph := n.phase
	sz := n.buf.Len()
	for i := 0; i < sz; i++ {
		n.buf.SetAt(i, n.shape(ph))
		ph += step
		for ph >= 1.0 {
			ph -= 1.0
		}
		for ph < 0.0 {
			ph += 1.0
		}
	}
	n.phase = ph
	return n.buf
}

// Saw is a bandlimited-free ramp from -1 to +1 across each period.
type Saw struct{ normPhasor }

func NewSaw(env Environment, freq, phase Generator) *Saw {
	s := &Saw{}
	s.buf = NewBuffer(env.DefaultBufferSize)
	s.Freq, s.Phase = freq, phase
	s.shape = func(frac float64) float32 { return float32(2*frac - 1) }
	return s
}

func (s *Saw) Eval(params *Parameters) *Buffer { return s.eval(params) }

// Square alternates between -1 (first half of the period) and +1 (second
// half).
type Square struct{ normPhasor }

func NewSquare(env Environment, freq, phase Generator) *Square {
	s := &Square{}
	s.buf = NewBuffer(env.DefaultBufferSize)
	s.Freq, s.Phase = freq, phase
	s.shape = func(frac float64) float32 {
		if frac < 0.5 {
			return -1
		}
		return 1
	}
	return s
}

func (s *Square) Eval(params *Parameters) *Buffer { return s.eval(params) }

// Triangle is piecewise-linear across the period: 0 → 1 → 0 → -1 → 0.
type Triangle struct{ normPhasor }

func NewTriangle(env Environment, freq, phase Generator) *Triangle {
	t := &Triangle{}
	t.buf = NewBuffer(env.DefaultBufferSize)
	t.Freq, t.Phase = freq, phase
	t.shape = triangleShape
	return t
}

func (t *Triangle) Eval(params *Parameters) *Buffer { return t.eval(params) }

func triangleShape(frac float64) float32 {
	switch {
	case frac < 0.25:
		return float32(frac * 4)
	case frac < 0.5:
		return float32(1 - (frac-0.25)*4)
	case frac < 0.75:
		return float32(-(frac - 0.5) * 4)
	default:
		return float32(-1 + (frac-0.75)*4)
	}
}
