// fx_delay.go - Cascading multi-tap delay network

package main

import "fmt"

const (
	DELAY_TAPS         = 24
	DELAY_CASCADE_GAIN = 0.8  // Gain from each tap into the next
	DELAY_FEEDBACK     = 0.35 // Last tap back into the first, must be < 1
	DELAY_DAMPING      = 0.3  // One-pole lowpass amount per tap
)

// delayMix is the wet contribution of each tap, loudest first so early
// echoes dominate and the tail thins out.
var delayMix = [DELAY_TAPS]float32{
	0.30, 0.28, 0.26, 0.24, 0.22, 0.20, 0.18, 0.16,
	0.14, 0.12, 0.10, 0.09, 0.08, 0.07, 0.06, 0.05,
	0.04, 0.03, 0.025, 0.02, 0.015, 0.01, 0.008, 0.005,
}

type delayTap struct {
	buf []float32
	pos int
	lp  float32 // Damping filter state
}

// delayLine is one channel of the cascade: tap i's damped output feeds tap
// i+1 at DELAY_CASCADE_GAIN, every tap also sums into the wet bus, and the
// final tap recirculates into the first at the feedback gain. With the
// feedback strictly below unity the network is unconditionally stable: one
// full round trip scales by feedback * cascade^taps, far below 1.
type delayLine struct {
	taps     [DELAY_TAPS]delayTap
	feedback float32
	last     float32 // Final tap output from the previous sample
}

// DelayNetwork is the stereo pair of cascaded delay lines.
type DelayNetwork struct {
	left  delayLine
	right delayLine
}

// NewDelayNetwork builds the network with every tap delayed by tapSeconds.
// The construction fails rather than permitting a runaway feedback gain.
func NewDelayNetwork(tapSeconds, feedback float64) (*DelayNetwork, error) {
	if feedback >= 1.0 || feedback < 0 {
		return nil, fmt.Errorf("delay feedback %g out of range [0,1)", feedback)
	}
	if tapSeconds <= 0 {
		return nil, fmt.Errorf("delay tap time %g must be positive", tapSeconds)
	}
	n := &DelayNetwork{}
	samples := int(tapSeconds * SAMPLE_RATE)
	if samples < 1 {
		samples = 1
	}
	for _, line := range []*delayLine{&n.left, &n.right} {
		line.feedback = float32(feedback)
		for i := range line.taps {
			line.taps[i].buf = make([]float32, samples)
		}
	}
	return n, nil
}

// process pushes one input sample through the cascade and returns the wet sum.
func (l *delayLine) process(in float32) float32 {
	x := in + l.last*l.feedback
	var wet float32
	for i := range l.taps {
		t := &l.taps[i]
		delayed := t.buf[t.pos]
		t.buf[t.pos] = x
		t.pos++
		if t.pos >= len(t.buf) {
			t.pos = 0
		}

		// Damping keeps late echoes darker than early ones.
		t.lp += DELAY_DAMPING * (delayed - t.lp)
		wet += t.lp * delayMix[i]
		x = t.lp * DELAY_CASCADE_GAIN
	}
	l.last = x
	return wet
}

// Process filters one stereo frame of send-bus signal.
func (n *DelayNetwork) Process(inL, inR float32) (float32, float32) {
	return n.left.process(inL), n.right.process(inR)
}
