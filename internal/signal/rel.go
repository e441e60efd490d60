package signal

// RelOp is one of the six comparison operators the expression language
// accepts for rel(left, op, right).
type RelOp int

const (
	RelGT RelOp = iota
	RelGE
	RelEQ
	RelNE
	RelLE
	RelLT
)

// ParseRelOp maps the operator's textual spelling to a RelOp, reporting ok
// when recognized.
func ParseRelOp(s string) (RelOp, bool) {
	switch s {
	case ">":
		return RelGT, true
	case ">=":
		return RelGE, true
	case "==":
		return RelEQ, true
	case "!=":
		return RelNE, true
	case "<=":
		return RelLE, true
	case "<":
		return RelLT, true
	default:
		return 0, false
	}
}

func (op RelOp) apply(l, r float32) bool {
	switch op {
	case RelGT:
		return l > r
	case RelGE:
		return l >= r
	case RelEQ:
		return l == r
	case RelNE:
		return l != r
	case RelLE:
		return l <= r
	case RelLT:
		return l < r
	}
	return false
}

// Rel compares Left and Right per-sample, emitting 1.0 where the comparison
// holds and 0.0 otherwise. Go's native float32 operators follow IEEE-754
// with no special-casing here: every comparison with a NaN operand is false
// (so it emits 0.0), except != which is true (so NaN != NaN emits 1.0).
type Rel struct {
	base
	Left, Right Generator
	Op          RelOp
}

func NewRel(env Environment, left, right Generator, op RelOp) *Rel {
	return &Rel{base: base{buf: NewBuffer(env.DefaultBufferSize)}, Left: left, Right: right, Op: op}
}

func (r *Rel) Eval(params *Parameters) *Buffer {
	l := r.Left.Eval(params)
	rt := r.Right.Eval(params)
	rate := rateOfAll([]*Buffer{l, rt})
	r.buf.SetRate(rate)
	bound := 1
	if rate == Sample {
		bound = r.buf.Len()
		if n := minBufs(l, rt, r.buf); n < bound {
			bound = n
		}
	}
	for i := 0; i < bound; i++ {
		lv := entryAt(l, i)
		rv := entryAt(rt, i)
		if r.Op.apply(lv, rv) {
			r.buf.SetAt(i, 1.0)
		} else {
			r.buf.SetAt(i, 0.0)
		}
	}
	return r.buf
}

// entryAt reads b[i] if b is Sample rate, or b's sole entry if Control —
// the "broadcast control-rate inputs" rule shared by Rel and IfElse.
func entryAt(b *Buffer, i int) float32 {
	if b.Rate() == Sample {
		return b.At(i)
	}
	return b.First()
}

func minBufs(bufs ...*Buffer) int {
	n := bufs[0].Len()
	for _, b := range bufs[1:] {
		if b.Len() < n {
			n = b.Len()
		}
	}
	return n
}
