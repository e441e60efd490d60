package signal

// Lut is a wavetable player shared by the lutdata and lutgen factories: a
// fixed table of samples is indexed by a phase accumulator advancing at
// freq/sample_rate, wrapped modulo the table length. Always Sample rate.
type Lut struct {
	base
	Freq  Generator
	phase float32
	table []float32
}

// NewLut wraps a precomputed table (the lutdata factory builds it from
// inline literals; the lutgen factory pre-renders a child generator — see
// RenderLutTable).
func NewLut(env Environment, freq Generator, phase float32, table []float32) *Lut {
	return &Lut{base: base{buf: NewBuffer(env.DefaultBufferSize)}, Freq: freq, phase: phase, table: table}
}

func (l *Lut) Eval(params *Parameters) *Buffer {
	l.buf.SetRate(Sample)
	pvel := l.Freq.Eval(params).First() / params.Env.SampleRate
	n := l.buf.Len()
	tlen := float32(len(l.table))
	for i := 0; i < n; i++ {
		frac := l.phase + pvel*float32(i)
		frac -= float32(int(frac))
		if frac < 0 {
			frac += 1
		}
		idx := int(frac * tlen)
		if idx >= len(l.table) {
			idx = len(l.table) - 1
		}
		l.buf.SetAt(i, l.table[idx])
	}
	frac := l.phase + pvel*float32(n)
	frac -= float32(int(frac))
	if frac < 0 {
		frac += 1
	}
	l.phase = frac
	return l.buf
}

// RenderLutTable pre-renders gen one-shot into a table of length samples:
// gen's sample rate is temporarily repurposed to samples (so one full block
// equals one full cycle) and its nominated variable is bound to 1.0, per
// lutgen's construction contract in §4.2.
func RenderLutTable(baseEnv Environment, gen Generator, samples int, varName string) []float32 {
	if samples < 1 {
		samples = 1
	}
	genEnv := baseEnv
	genEnv.SampleRate = float32(samples)
	p := NewParameters(genEnv)
	p.Vars[varName] = 1.0

	gen.SetBuffer(NewBuffer(samples))
	out := gen.Eval(p)

	table := make([]float32, samples)
	n := out.Len()
	if n > samples {
		n = samples
	}
	for i := 0; i < n; i++ {
		table[i] = out.At(i)
	}
	return table
}
