package signal

// IfElse selects per-sample between IfTrue and IfFalse based on whether
// Cond is >= 0.5. Control rate iff all three children are Control;
// otherwise Sample rate, bounded by the shortest Sample-rate input (and by
// the own buffer's capacity).
type IfElse struct {
	base
	Cond, IfTrue, IfFalse Generator
}

func NewIfElse(env Environment, cond, ifTrue, ifFalse Generator) *IfElse {
	return &IfElse{base: base{buf: NewBuffer(env.DefaultBufferSize)}, Cond: cond, IfTrue: ifTrue, IfFalse: ifFalse}
}

func (ie *IfElse) Eval(params *Parameters) *Buffer {
	cond := ie.Cond.Eval(params)
	t := ie.IfTrue.Eval(params)
	f := ie.IfFalse.Eval(params)
	rate := rateOfAll([]*Buffer{cond, t, f})
	ie.buf.SetRate(rate)
	bound := 1
	if rate == Sample {
		bound = ie.buf.Len()
		for _, b := range []*Buffer{cond, t, f} {
			if b.Rate() == Sample && b.Len() < bound {
				bound = b.Len()
			}
		}
	}
	for i := 0; i < bound; i++ {
		var v float32
		if entryAt(cond, i) >= 0.5 {
			v = entryAt(t, i)
		} else {
			v = entryAt(f, i)
		}
		ie.buf.SetAt(i, v)
	}
	return ie.buf
}
