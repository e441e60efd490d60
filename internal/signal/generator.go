package signal

// Generator is the contract every sample-producer in the tree implements:
// evaluate one block, peek the last output without re-evaluating, or swap
// out the backing buffer (used when a parent retunes a child's block size,
// e.g. lutgen's one-shot pre-render).
type Generator interface {
	// Eval evaluates one block against params and returns the output
	// buffer. The returned pointer is only valid until the next Eval call
	// on the same Generator.
	Eval(params *Parameters) *Buffer

	// Buffer peeks the most recently produced output without evaluating.
	Buffer() *Buffer

	// SetBuffer swaps the generator's internal output buffer for nb,
	// returning the previous one.
	SetBuffer(nb *Buffer) *Buffer
}

// base is embedded by every concrete generator to supply the
// Buffer/SetBuffer half of the Generator contract uniformly, the way the
// reference implementation's generators all carry a `buf` field.
type base struct {
	buf *Buffer
}

func (b *base) Buffer() *Buffer { return b.buf }

func (b *base) SetBuffer(nb *Buffer) *Buffer {
	old := b.buf
	b.buf = nb
	return old
}

// rateOfAll reports Sample if any of gens is Sample rate, Control only if
// every one of them is Control. Used by Add/Mul/IfElse/Rel's rate-promotion
// rule. An empty slice is treated as Control (vacuously all-Control);
// callers that need the "no children" special case (Add/Mul's empty arg
// list forces Sample) handle that themselves.
func rateOfAll(bufs []*Buffer) Rate {
	for _, b := range bufs {
		if b.Rate() == Sample {
			return Sample
		}
	}
	return Control
}
