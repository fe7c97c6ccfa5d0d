// voice_keys.go - FM electric keyboard voice for chord targets

package main

// Electric-piano FM recipe: 1:1 modulator ratio with a frequency-scaled
// index for bite, a sine octave partial plus a quiet saw third partial,
// and a short single-tap chorus delay for the characteristic swirl.
const (
	KEYS_MOD_RATIO  = 1.0
	KEYS_MOD_INDEX  = 4.5
	KEYS_HARM2_GAIN = 0.3
	KEYS_SAW3_GAIN  = 0.12
	KEYS_GAIN       = 0.08

	KEYS_MOD_ATK = 0.2
	KEYS_MOD_SUS = 0.05
	KEYS_MOD_REL = 0.8
	KEYS_CAR_ATK = 1.0
	KEYS_CAR_SUS = 0.0
	KEYS_CAR_REL = 8.0

	KEYS_CHORUS_DELAY = 0.007 // Seconds
	KEYS_CHORUS_MIX   = 0.3
	KEYS_DRY_MIX      = 0.8
)

type keysVoice struct {
	freq     float32
	velocity float32
	pan      float32

	carrier phasor
	mod     phasor
	harm2   phasor
	saw3    phasor
	modEnv  *asrEnvelope
	carEnv  *asrEnvelope

	chorus    []float32
	chorusPos int
}

func newKeysVoice(p KeysParams) *keysVoice {
	delaySec := float64(KEYS_CHORUS_DELAY)
	return &keysVoice{
		freq:     float32(p.Freq),
		velocity: float32(p.Velocity),
		pan:      p.Pan,
		modEnv:   newASR(KEYS_MOD_ATK, KEYS_MOD_SUS, KEYS_MOD_REL),
		carEnv:   newASR(KEYS_CAR_ATK, KEYS_CAR_SUS, KEYS_CAR_REL),
		chorus:   make([]float32, int(delaySec*SAMPLE_RATE)),
	}
}

func (v *keysVoice) Kind() VoiceKind { return VOICE_KEYS }
func (v *keysVoice) Pan() float32    { return v.pan }

func (v *keysVoice) Render(out []float32) bool {
	for i := range out {
		// Index is scaled by frequency, so modulation depth tracks pitch.
		mod := v.mod.sine(v.freq*KEYS_MOD_RATIO) * v.modEnv.next() * KEYS_MOD_INDEX
		carEnv := v.carEnv.next()

		tone := v.carrier.sine(v.freq*(1.0+mod)) * carEnv
		h2 := v.harm2.sine(v.freq*2.0) * carEnv * KEYS_HARM2_GAIN
		s3 := v.saw3.saw(v.freq*3.0) * carEnv * KEYS_SAW3_GAIN

		mixed := (tone + h2 + s3) * v.velocity

		delayed := v.chorus[v.chorusPos]
		v.chorus[v.chorusPos] = mixed
		v.chorusPos++
		if v.chorusPos >= len(v.chorus) {
			v.chorusPos = 0
		}

		out[i] += (mixed*KEYS_DRY_MIX + delayed*KEYS_CHORUS_MIX) * KEYS_GAIN
	}
	return !v.carEnv.done()
}
