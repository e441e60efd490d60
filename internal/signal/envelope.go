package signal

// envState names one of DAHDSR's six phases.
type envState int

const (
	envDelay envState = iota
	envAttack
	envHold
	envDecay
	envSustain
	envRelease
)

// DAHDSR is the six-phase envelope generator: Delay, Attack, Hold, Decay,
// Sustain, Release. Every child generator is read at Control rate (first
// entry only) once per sample — a rising edge on Gate restarts the cycle
// from Delay; Gate dropping below 0.5 forces Release regardless of current
// phase. Always Sample rate.
type DAHDSR struct {
	base
	Gate, Delay, Attack, Hold, Decay, Sustain, Release Generator

	state     envState
	level     float32
	countdown int
}

func NewDAHDSR(env Environment, gate, delay, attack, hold, decay, sustain, release Generator) *DAHDSR {
	return &DAHDSR{
		base:    base{buf: NewBuffer(env.DefaultBufferSize)},
		Gate:    gate,
		Delay:   delay,
		Attack:  attack,
		Hold:    hold,
		Decay:   decay,
		Sustain: sustain,
		Release: release,
		state:   envRelease,
		level:   0,
	}
}

func (d *DAHDSR) Eval(params *Parameters) *Buffer {
	gateBuf := d.Gate.Eval(params)
	delayBuf := d.Delay.Eval(params)
	attackBuf := d.Attack.Eval(params)
	holdBuf := d.Hold.Eval(params)
	decayBuf := d.Decay.Eval(params)
	sustainBuf := d.Sustain.Eval(params)
	releaseBuf := d.Release.Eval(params)

	d.buf.SetRate(Sample)
	sz := d.buf.Len()
	for i := 0; i < sz; i++ {
		gate := gateBuf.First()
		delay := delayBuf.First()
		attack := attackBuf.First()
		hold := holdBuf.First()
		decay := decayBuf.First()
		sustain := sustainBuf.First()
		release := releaseBuf.First()

		gateUp := gate >= 0.5
		if gateUp && d.state == envRelease {
			d.state = envDelay
			d.countdown = int(delay)
			d.level = 0
		} else if !gateUp {
			d.state = envRelease
		}

		switch d.state {
		case envDelay:
			d.countdown--
			if d.countdown <= 0 {
				d.state = envAttack
			}
		case envAttack:
			d.level += attack
			if d.level >= 1 {
				d.level = 1
				d.countdown = int(hold)
				d.state = envHold
			}
		case envHold:
			d.countdown--
			if d.countdown <= 0 {
				d.state = envDecay
			}
		case envDecay:
			d.level -= decay
			if d.level <= sustain {
				d.level = sustain
				d.state = envSustain
			}
		case envSustain:
			d.level = sustain
		case envRelease:
			d.level -= release
			if d.level < 0 {
				d.level = 0
			}
		}
		d.buf.SetAt(i, d.level)
	}
	return d.buf
}
