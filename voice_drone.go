// voice_drone.go - Self-replacing low drone voice

package main

// The drone is the one deliberately unbroken layer. Each instance has a
// finite envelope like every other voice, but once it crosses
// DRONE_RESPAWN_FRACTION of its lifetime it hands the pool params for its
// successor, which fades in while this instance fades out. The pool never
// needs an "infinite voice" special case.
const (
	DRONE_FREQ     = 65.41 // C2
	DRONE_VELOCITY = 0.1

	DRONE_ATK = 1.0
	DRONE_SUS = 8.0
	DRONE_REL = 8.0

	DRONE_RESPAWN_FRACTION = 0.8
)

type droneVoice struct {
	inner   *keysVoice
	params  DroneParams
	spawned bool
}

func newDroneVoice(p DroneParams) *droneVoice {
	inner := newKeysVoice(KeysParams{Freq: p.Freq, Velocity: p.Velocity, Pan: 0})
	inner.modEnv = newASR(KEYS_MOD_ATK, KEYS_MOD_SUS, KEYS_MOD_REL)
	inner.carEnv = newASR(DRONE_ATK, DRONE_SUS, DRONE_REL)
	return &droneVoice{inner: inner, params: p}
}

func (v *droneVoice) Kind() VoiceKind { return VOICE_DRONE }
func (v *droneVoice) Pan() float32    { return 0 } // Always centered

func (v *droneVoice) Render(out []float32) bool {
	return v.inner.Render(out)
}

// Successor reports replacement params exactly once, when the envelope has
// passed the respawn point.
func (v *droneVoice) Successor() (VoiceParams, bool) {
	if v.spawned || v.inner.carEnv.progress() < DRONE_RESPAWN_FRACTION {
		return nil, false
	}
	v.spawned = true
	return v.params, true
}
