package signal

// Add sums its children left to right. Rate is Sample if any child is
// Sample; Control only if every child is Control; an empty child list
// yields a zeroed Sample-rate buffer (there is no "all Control" vacuous
// truth here — a nullary add can't know its block length is meaningless).
type Add struct {
	base
	Children []Generator
}

func NewAdd(env Environment, children []Generator) *Add {
	return &Add{base: base{buf: NewBuffer(env.DefaultBufferSize)}, Children: children}
}

func (a *Add) Eval(params *Parameters) *Buffer {
	if len(a.Children) == 0 {
		a.buf.SetRate(Sample)
		a.buf.Zero()
		return a.buf
	}
	outs := make([]*Buffer, len(a.Children))
	for i, c := range a.Children {
		outs[i] = c.Eval(params)
	}
	a.buf.UpdateFrom(outs[0])
	if rateOfAll(outs) == Sample && outs[0].Rate() == Control {
		a.buf.BroadcastFirst()
	}
	for _, o := range outs[1:] {
		a.buf.SumInto(o)
	}
	return a.buf
}

// Mul multiplies its children left to right, with the same rate-promotion
// rule as Add. An empty child list yields a zeroed Sample-rate buffer, same
// as Add's empty case (not the multiplicative identity 1).
type Mul struct {
	base
	Children []Generator
}

func NewMul(env Environment, children []Generator) *Mul {
	return &Mul{base: base{buf: NewBuffer(env.DefaultBufferSize)}, Children: children}
}

func (m *Mul) Eval(params *Parameters) *Buffer {
	if len(m.Children) == 0 {
		m.buf.SetRate(Sample)
		m.buf.Zero()
		return m.buf
	}
	outs := make([]*Buffer, len(m.Children))
	for i, c := range m.Children {
		outs[i] = c.Eval(params)
	}
	m.buf.UpdateFrom(outs[0])
	if rateOfAll(outs) == Sample && outs[0].Rate() == Control {
		m.buf.BroadcastFirst()
	}
	for _, o := range outs[1:] {
		m.buf.MulInto(o)
	}
	return m.buf
}

// Negate adopts its child's rate and negates every meaningful entry.
type Negate struct {
	base
	Child Generator
}

func NewNegate(env Environment, child Generator) *Negate {
	return &Negate{base: base{buf: NewBuffer(env.DefaultBufferSize)}, Child: child}
}

func (n *Negate) Eval(params *Parameters) *Buffer {
	in := n.Child.Eval(params)
	n.buf.SetRate(in.Rate())
	n.buf.UpdateFrom(in)
	bound := 1
	if n.buf.Rate() == Sample {
		bound = minLen(n.buf, in)
	}
	for i := 0; i < bound; i++ {
		n.buf.SetAt(i, -n.buf.At(i))
	}
	return n.buf
}

// Reciprocate adopts its child's rate and computes 1/x per entry. A zero
// input produces ±Inf per IEEE-754; that's the caller's problem, per spec.
type Reciprocate struct {
	base
	Child Generator
}

func NewReciprocate(env Environment, child Generator) *Reciprocate {
	return &Reciprocate{base: base{buf: NewBuffer(env.DefaultBufferSize)}, Child: child}
}

func (r *Reciprocate) Eval(params *Parameters) *Buffer {
	in := r.Child.Eval(params)
	r.buf.SetRate(in.Rate())
	r.buf.UpdateFrom(in)
	bound := 1
	if r.buf.Rate() == Sample {
		bound = minLen(r.buf, in)
	}
	for i := 0; i < bound; i++ {
		r.buf.SetAt(i, 1/r.buf.At(i))
	}
	return r.buf
}
