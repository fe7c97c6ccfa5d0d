// voice_shimmer.go - Ethereal shimmer pad with ultra-slow modulation

package main

// Shimmer recipe: a sine at the base pitch and a slightly detuned triangle
// an octave relationship below it, both bent by an ultra-slow pitch LFO,
// with independent amplitude and pan LFOs whose periods sit in the tens of
// seconds. The pan LFO makes Pan() time-varying; the graph reads it per
// block. Shimmer never self-terminates, but it is the first layer shed
// under render overload.
const (
	SHIMMER_GAIN      = 0.004
	SHIMMER_DETUNE    = 1.02
	SHIMMER_PITCH_LFO = 0.023 // Hz
	SHIMMER_AMP_LFO   = 0.037
	SHIMMER_PAN_LFO   = 0.043
	SHIMMER_LP_CUTOFF = 8000
	SHIMMER_LP_RES    = 0.3
)

type shimmerVoice struct {
	freq float64

	osc1 phasor
	osc2 phasor

	pitchLFO *sineLFO
	ampLFO   *sineLFO
	panLFO   *sineLFO

	filter svFilter
	pan    float32
}

func newShimmerVoice(p ShimmerParams) *shimmerVoice {
	v := &shimmerVoice{
		freq:     p.Freq,
		pitchLFO: newSineLFO(SHIMMER_PITCH_LFO, 0.95, 1.05),
		ampLFO:   newSineLFO(SHIMMER_AMP_LFO, 0.0, 0.3),
		panLFO:   newSineLFO(SHIMMER_PAN_LFO, -0.8, 0.8),
	}
	v.filter.setCutoff(SHIMMER_LP_CUTOFF, SHIMMER_LP_RES)
	return v
}

func (v *shimmerVoice) Kind() VoiceKind { return VOICE_SHIMMER }

// Pan returns the position the pan LFO reached during the last block.
func (v *shimmerVoice) Pan() float32 { return v.pan }

func (v *shimmerVoice) Render(out []float32) bool {
	base := float32(v.freq)
	for i := range out {
		bend := v.pitchLFO.next()
		amp := 1.0 + v.ampLFO.next()
		v.pan = v.panLFO.next()

		s1 := v.osc1.sine(base * bend)
		s2 := v.osc2.triangle(base * bend * SHIMMER_DETUNE)

		out[i] += v.filter.lowpass((s1 + s2) * SHIMMER_GAIN * amp)
	}
	return true
}
