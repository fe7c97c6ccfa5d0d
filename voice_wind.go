// voice_wind.go - Band-passed noise bed that breathes with the wind

package main

import "math/rand"

// Noise bed recipe: white noise band-passed around 800Hz for the airy hiss,
// a second noise source low-passed at 200Hz for ground rumble. The hiss
// rides a wind process of its own so the bed swells and gusts along with
// the chime activity; the rumble stays constant underneath. Rendered
// entirely on the render loop from a seeded source, so captures replay
// sample-exact.
const (
	WIND_NOISE_CENTER  = 800
	WIND_NOISE_RES     = 0.3
	WIND_RUMBLE_CUTOFF = 200
	WIND_RUMBLE_RES    = 0.1
	WIND_HISS_GAIN     = 0.015
	WIND_RUMBLE_GAIN   = 0.01
	WIND_DYN_FLOOR     = 0.2    // Hiss level in still air; full wind reaches 1.0
	WIND_GAIN_SLEW     = 0.0005 // Per-sample approach toward the wind level
)

type windVoice struct {
	rng  *rand.Rand
	wind *WindSignal
	band svFilter
	low  svFilter
	gain float32
}

func newWindVoice(p WindParams) *windVoice {
	v := &windVoice{
		rng:  rand.New(rand.NewSource(p.Seed)),
		wind: NewWindSignal(rand.New(rand.NewSource(p.Seed + 1))),
		gain: WIND_DYN_FLOOR,
	}
	v.band.setCutoff(float32(p.Freq), WIND_NOISE_RES)
	v.low.setCutoff(WIND_RUMBLE_CUTOFF, WIND_RUMBLE_RES)
	return v
}

func (v *windVoice) Kind() VoiceKind { return VOICE_WIND }
func (v *windVoice) Pan() float32    { return 0 }

func (v *windVoice) Render(out []float32) bool {
	v.wind.Advance(float64(len(out)) / SAMPLE_RATE)
	target := float32(WIND_DYN_FLOOR + (1-WIND_DYN_FLOOR)*v.wind.Level())
	for i := range out {
		hiss := v.band.bandpass(v.rng.Float32()*2-1) * WIND_HISS_GAIN
		rumble := v.low.lowpass(v.rng.Float32()*2-1) * WIND_RUMBLE_GAIN
		v.gain += (target - v.gain) * WIND_GAIN_SLEW
		out[i] += hiss*v.gain + rumble
	}
	return true
}
