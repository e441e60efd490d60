package signal

// Param reads a named variable from Parameters.Vars each block, falling
// back to a fixed default when absent. Always Control rate: per §4.2, a
// variable is read once per block and broadcast.
type Param struct {
	base
	Name    string
	Default float32
}

// NewParam constructs a Param generator over a one-sample output buffer.
func NewParam(name string, def float32) *Param {
	return &Param{base: base{buf: NewBuffer(1)}, Name: name, Default: def}
}

func (p *Param) Eval(params *Parameters) *Buffer {
	p.buf.Set(params.Var(p.Name, p.Default))
	return p.buf
}
