// event.go - Note events and per-kind voice parameters

package main

// VoiceKind selects a synthesis recipe. Under render overload the texture
// layers shed first (wind bed, then shimmer), then bells, then keys; the
// drone is never shed.
type VoiceKind int

const (
	VOICE_BELL VoiceKind = iota
	VOICE_KEYS
	VOICE_DRONE
	VOICE_SHIMMER
	VOICE_WIND
)

func (k VoiceKind) String() string {
	switch k {
	case VOICE_BELL:
		return "bell"
	case VOICE_KEYS:
		return "keys"
	case VOICE_DRONE:
		return "drone"
	case VOICE_SHIMMER:
		return "shimmer"
	case VOICE_WIND:
		return "wind"
	}
	return "unknown"
}

// HarmonyKind tags how a secondary pitch in a trigger group was chosen.
type HarmonyKind int

const (
	HARMONY_NONE     HarmonyKind = iota
	HARMONY_ADJACENT             // Immediate neighbour in the bell layout
	HARMONY_INTERVAL             // Scale third or fifth above the primary
)

// NoteEvent is a scheduled request to sound one pitch. The scheduler produces
// them with non-decreasing onsets; the render loop consumes each exactly once.
type NoteEvent struct {
	Onset    float64 // Composition time in seconds
	Kind     VoiceKind
	Freq     float64
	Velocity float64
	Pan      float32
	Bell     int         // Layout index, -1 when not a bell
	Cluster  int         // Total pitches in this trigger group
	Harmony  HarmonyKind // How this pitch joined the group
}

// VoiceParams is the tagged union of per-kind synthesis parameters. Exactly
// one of the variant structs below is carried by each voice.
type VoiceParams interface {
	voiceKind() VoiceKind
}

type BellParams struct {
	Freq     float64
	Velocity float64
	Pan      float32
}

type KeysParams struct {
	Freq     float64
	Velocity float64
	Pan      float32
}

type DroneParams struct {
	Freq     float64
	Velocity float64
}

type ShimmerParams struct {
	Freq float64 // Base pitch; the partner oscillator rides just above it
}

type WindParams struct {
	Freq float64 // Band-pass center of the noise bed
	Seed int64   // Noise and dynamics source, derived from the engine seed
}

func (BellParams) voiceKind() VoiceKind    { return VOICE_BELL }
func (KeysParams) voiceKind() VoiceKind    { return VOICE_KEYS }
func (DroneParams) voiceKind() VoiceKind   { return VOICE_DRONE }
func (ShimmerParams) voiceKind() VoiceKind { return VOICE_SHIMMER }
func (WindParams) voiceKind() VoiceKind    { return VOICE_WIND }
