package signal

// ControlRateAdapter forces its child's output to Control rate, resizing
// the child's own buffer down to one sample (an optimization: the child
// never needs to produce more than entry 0 once wrapped).
type ControlRateAdapter struct {
	base
	Child Generator
}

func NewControlRateAdapter(child Generator) *ControlRateAdapter {
	child.SetBuffer(NewBuffer(1))
	return &ControlRateAdapter{base: base{buf: NewBuffer(1)}, Child: child}
}

func (c *ControlRateAdapter) Eval(params *Parameters) *Buffer {
	c.buf.UpdateFrom(c.Child.Eval(params))
	c.buf.SetRate(Control)
	return c.buf
}

// SampleRateConstant emits the active Environment's sample rate as a
// Control-rate scalar; it takes no child.
type SampleRateConstant struct {
	base
}

func NewSampleRateConstant() *SampleRateConstant {
	return &SampleRateConstant{base: base{buf: NewBuffer(1)}}
}

func (s *SampleRateConstant) Eval(params *Parameters) *Buffer {
	s.buf.Set(params.Env.SampleRate)
	return s.buf
}
