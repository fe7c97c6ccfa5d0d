// voice_bell.go - FM wind-chime bell voice

package main

// FM bell recipe: a sine modulator at 3.5x the carrier for metallic partials,
// modulation index scaled by velocity so hard strikes ring brighter, two
// quiet upper partials (the x2.95 one slightly inharmonic), and a gentle
// per-voice lowpass for warmth.
const (
	BELL_MOD_RATIO   = 3.5
	BELL_MOD_INDEX   = 0.8 // Scaled by velocity
	BELL_HARM2_GAIN  = 0.1
	BELL_HARM3_RATIO = 2.95
	BELL_HARM3_GAIN  = 0.05
	BELL_GAIN        = 0.3

	BELL_MOD_ATK = 0.001
	BELL_MOD_SUS = 0.1
	BELL_MOD_REL = 1.5
	BELL_CAR_ATK = 0.01
	BELL_CAR_SUS = 0.5
	BELL_CAR_REL = 4.5
)

type bellVoice struct {
	freq     float32
	velocity float32
	pan      float32

	carrier phasor
	mod     phasor
	harm2   phasor
	harm3   phasor
	modEnv  *asrEnvelope
	carEnv  *asrEnvelope
	filter  svFilter
}

func newBellVoice(p BellParams) *bellVoice {
	v := &bellVoice{
		freq:     float32(p.Freq),
		velocity: float32(p.Velocity),
		pan:      p.Pan,
		modEnv:   newASR(BELL_MOD_ATK, BELL_MOD_SUS, BELL_MOD_REL),
		carEnv:   newASR(BELL_CAR_ATK, BELL_CAR_SUS, BELL_CAR_REL),
	}
	cutoff := v.freq * 8
	if cutoff > 8000 {
		cutoff = 8000
	}
	v.filter.setCutoff(cutoff, 0.2)
	return v
}

func (v *bellVoice) Kind() VoiceKind { return VOICE_BELL }
func (v *bellVoice) Pan() float32    { return v.pan }

func (v *bellVoice) Render(out []float32) bool {
	modIndex := BELL_MOD_INDEX * v.velocity
	for i := range out {
		mod := v.mod.sine(v.freq*BELL_MOD_RATIO) * v.modEnv.next() * modIndex
		carEnv := v.carEnv.next()

		// Carrier frequency bends with the enveloped modulator.
		bell := v.carrier.sine(v.freq*(1.0+mod)) * carEnv * BELL_GAIN
		h2 := v.harm2.sine(v.freq*2.0) * carEnv * BELL_HARM2_GAIN
		h3 := v.harm3.sine(v.freq*BELL_HARM3_RATIO) * carEnv * BELL_HARM3_GAIN

		mixed := (bell + h2 + h3) * v.velocity * 0.5
		out[i] += v.filter.lowpass(mixed)
	}
	return !v.carEnv.done()
}
