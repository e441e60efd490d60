package mixer

// Source adapts a Mixer's fixed-size block pull (RenderBlock) to an
// arbitrary-length mono frame request, the shape the audio sink actually
// asks for. It buffers whatever tail of a rendered block hasn't yet been
// consumed.
type Source struct {
	mixer   *Mixer
	pending []float32
}

// NewSource wraps mx for pulling by an audio sink.
func NewSource(mx *Mixer) *Source {
	return &Source{mixer: mx}
}

// ProcessMono fills dst with len(dst) mono samples, rendering as many
// mixer blocks as needed and carrying over any unconsumed remainder.
func (s *Source) ProcessMono(dst []float32) {
	filled := 0
	for filled < len(dst) {
		if len(s.pending) == 0 {
			s.pending = s.renderBlockSamples()
		}
		n := copy(dst[filled:], s.pending)
		s.pending = s.pending[n:]
		filled += n
	}
}

func (s *Source) renderBlockSamples() []float32 {
	buf := s.mixer.RenderBlock()
	out := make([]float32, buf.Len())
	for i := range out {
		out[i] = buf.At(i)
	}
	return out
}
