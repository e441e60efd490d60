// Package mixer implements the voice mixer / control loop: N voices each
// wrapping a compiled generator tree, evaluated one block at a time and
// summed into a normalized output buffer, driven by commands arriving on
// the network thread.
package mixer

import (
	"fmt"

	"github.com/nyxaudio/synthd/internal/signal"
)

// maxArtParams bounds the per-voice articulation-parameter bank. Spec
// leaves the bound unstated; 64 is generous for a synth voice and keeps the
// bank a fixed array rather than an unbounded per-voice map on the
// audio-adjacent hot path.
const maxArtParams = 64

// Voice is one independent generator tree plus its parameter bindings,
// created once at startup and never replaced during playback.
type Voice struct {
	Gen      signal.Generator
	Params   *signal.Parameters
	artParam [maxArtParams]float32
}

// NewVoice wraps a compiled generator tree in fresh Parameters over env.
func NewVoice(env signal.Environment, gen signal.Generator) *Voice {
	return &Voice{Gen: gen, Params: signal.NewParameters(env)}
}

// SetArtParam sets articulation parameter index to value if index is in
// range; out-of-range indices are dropped silently (a diagnostic may be
// logged by the caller), matching §7's "recovered silently" error class.
func (v *Voice) SetArtParam(index int, value float32) bool {
	if index < 0 || index >= maxArtParams {
		return false
	}
	v.artParam[index] = value
	v.Params.Vars[fmt.Sprintf("artp%d", index)] = value
	return true
}

// applyPlay writes the per-voice vars a Play command sets: v_start,
// v_deadline, v_freq, v_amp, per §4.7.
func (v *Voice) applyPlay(startFrame, deadlineFrame uint64, freq, amp float32) {
	v.Params.Vars["v_start"] = float32(startFrame)
	v.Params.Vars["v_deadline"] = float32(deadlineFrame)
	v.Params.Vars["v_freq"] = freq
	v.Params.Vars["v_amp"] = amp
}
