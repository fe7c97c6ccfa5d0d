// voice.go - Voice contract and factory keyed by voice kind

package main

import "fmt"

// Voice is one live synthesis unit. Render fills a mono block and reports
// whether the voice is still alive; a finished voice is retired by the pool
// at the next block boundary. Render is only ever called from the render
// loop, so voices need no internal locking.
type Voice interface {
	Kind() VoiceKind
	Pan() float32
	// Render adds one block of mono samples into out and returns false once
	// the voice has fully decayed.
	Render(out []float32) bool
}

// successorSpawner is implemented by voices that schedule their own
// replacement (the drone). The pool polls it after each render.
type successorSpawner interface {
	// Successor returns replacement params exactly once, when the voice has
	// decided its replacement should start.
	Successor() (VoiceParams, bool)
}

// NewVoice builds a voice for the given params. Invalid parameters (silent
// or out-of-band frequency) return an error; callers drop the event and
// carry on.
func NewVoice(params VoiceParams) (Voice, error) {
	if params == nil {
		return nil, fmt.Errorf("nil voice params")
	}
	if err := validateParams(params); err != nil {
		return nil, err
	}
	switch p := params.(type) {
	case BellParams:
		return newBellVoice(p), nil
	case KeysParams:
		return newKeysVoice(p), nil
	case DroneParams:
		return newDroneVoice(p), nil
	case ShimmerParams:
		return newShimmerVoice(p), nil
	case WindParams:
		return newWindVoice(p), nil
	}
	return nil, fmt.Errorf("unknown voice params %T", params)
}

func validateParams(params VoiceParams) error {
	var freq float64
	switch p := params.(type) {
	case BellParams:
		freq = p.Freq
	case KeysParams:
		freq = p.Freq
	case DroneParams:
		freq = p.Freq
	case ShimmerParams:
		freq = p.Freq
	case WindParams:
		freq = p.Freq
	}
	if freq < MIN_VOICE_HZ || freq > MAX_VOICE_HZ {
		return fmt.Errorf("%s frequency %g Hz outside %d-%d Hz", params.voiceKind(), freq, MIN_VOICE_HZ, MAX_VOICE_HZ)
	}
	return nil
}
