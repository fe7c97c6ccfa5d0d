// dsp.go - Oscillator, envelope, filter and LFO building blocks

package main

import "math"

const (
	SAMPLE_RATE   = 44100
	BLOCK_FRAMES  = 512 // Frames per render block
	MAX_SAMPLE    = 1.0
	MIN_SAMPLE    = -1.0
	MAX_VOICE_HZ  = 20000 // Reject events outside the audible band
	MIN_VOICE_HZ  = 16
	FADE_SAMPLES  = 220 // ~5ms spawn/evict fade to avoid clicks
	MS_TO_SAMPLES = SAMPLE_RATE / 1000
)

// phasor is a phase accumulator in [0, 2π).
type phasor struct {
	phase float32
}

// next advances the phasor by one sample at the given frequency and returns
// the new phase.
func (p *phasor) next(freq float32) float32 {
	p.phase += freq * (TWO_PI / SAMPLE_RATE)
	if p.phase >= TWO_PI {
		p.phase -= TWO_PI
	}
	return p.phase
}

// sine returns the current sine sample and advances.
func (p *phasor) sine(freq float32) float32 {
	return fastSin(p.next(freq))
}

// triangle returns the current triangle sample and advances.
func (p *phasor) triangle(freq float32) float32 {
	ph := p.next(freq)
	return 2.0*float32(math.Abs(float64(2.0*(ph/TWO_PI)-1.0))) - 1.0
}

// saw returns the current sawtooth sample and advances.
func (p *phasor) saw(freq float32) float32 {
	ph := p.next(freq)
	return 2.0*(ph/TWO_PI) - 1.0
}

// Envelope phases
const (
	ENV_ATTACK = iota
	ENV_SUSTAIN
	ENV_RELEASE
	ENV_DONE
)

// asrEnvelope is a one-shot attack/sustain/release envelope with linear
// attack and exponential-feel linear release, timed in samples.
type asrEnvelope struct {
	attack  int
	sustain int
	release int
	phase   int
	pos     int
	level   float32
}

func newASR(attackSec, sustainSec, releaseSec float64) *asrEnvelope {
	e := &asrEnvelope{
		attack:  int(attackSec * SAMPLE_RATE),
		sustain: int(sustainSec * SAMPLE_RATE),
		release: int(releaseSec * SAMPLE_RATE),
	}
	if e.attack < 1 {
		e.attack = 1
	}
	if e.release < 1 {
		e.release = 1
	}
	return e
}

// next returns the envelope level for the current sample and advances.
func (e *asrEnvelope) next() float32 {
	switch e.phase {
	case ENV_ATTACK:
		e.level = float32(e.pos) / float32(e.attack)
		e.pos++
		if e.pos >= e.attack {
			e.level = 1.0
			e.phase = ENV_SUSTAIN
			e.pos = 0
		}
	case ENV_SUSTAIN:
		e.level = 1.0
		e.pos++
		if e.pos >= e.sustain {
			e.phase = ENV_RELEASE
			e.pos = 0
		}
	case ENV_RELEASE:
		e.level = 1.0 - float32(e.pos)/float32(e.release)
		e.pos++
		if e.pos >= e.release {
			e.level = 0
			e.phase = ENV_DONE
		}
	case ENV_DONE:
		e.level = 0
	}
	return e.level
}

func (e *asrEnvelope) done() bool { return e.phase == ENV_DONE }

// progress reports how far through its total lifetime the envelope is, 0..1.
func (e *asrEnvelope) progress() float64 {
	total := e.attack + e.sustain + e.release
	elapsed := 0
	switch e.phase {
	case ENV_ATTACK:
		elapsed = e.pos
	case ENV_SUSTAIN:
		elapsed = e.attack + e.pos
	case ENV_RELEASE:
		elapsed = e.attack + e.sustain + e.pos
	case ENV_DONE:
		elapsed = total
	}
	return float64(elapsed) / float64(total)
}

// retrigger restarts the envelope from the attack phase without resetting
// the output level, so re-struck voices swell rather than click.
func (e *asrEnvelope) retrigger() {
	e.phase = ENV_ATTACK
	e.pos = int(e.level * float32(e.attack))
}

// svFilter is the 2-pole state variable filter from the classic Chamberlin
// topology. Per-voice damping uses the low-pass output.
type svFilter struct {
	lp, bp, hp float32
	cutoff     float32 // Normalized coefficient, set via setCutoff
	resonance  float32
}

// setCutoff configures the filter for a cutoff in Hz and resonance 0..1.
func (f *svFilter) setCutoff(hz, resonance float32) {
	if hz > SAMPLE_RATE*0.45 {
		hz = SAMPLE_RATE * 0.45
	}
	f.cutoff = 2 * fastSin(float32(math.Pi)*hz/SAMPLE_RATE)
	// Map resonance 0..1 to damping 2..0.1; higher resonance damps less.
	f.resonance = 2.0 - 1.9*resonance
}

// lowpass filters one sample and returns the low-pass output.
func (f *svFilter) lowpass(in float32) float32 {
	f.lp += f.cutoff * f.bp
	f.hp = in - f.lp - f.resonance*f.bp
	f.bp += f.cutoff * f.hp

	if f.lp > MAX_SAMPLE {
		f.lp = MAX_SAMPLE
	} else if f.lp < MIN_SAMPLE {
		f.lp = MIN_SAMPLE
	}
	return f.lp
}

// bandpass filters one sample and returns the band-pass output.
func (f *svFilter) bandpass(in float32) float32 {
	f.lp += f.cutoff * f.bp
	f.hp = in - f.lp - f.resonance*f.bp
	f.bp += f.cutoff * f.hp

	if f.bp > MAX_SAMPLE {
		f.bp = MAX_SAMPLE
	} else if f.bp < MIN_SAMPLE {
		f.bp = MIN_SAMPLE
	}
	return f.bp
}

// sineLFO is a slow control oscillator mapped onto [min, max].
type sineLFO struct {
	ph       phasor
	freq     float32
	min, max float32
}

func newSineLFO(freq, min, max float32) *sineLFO {
	return &sineLFO{freq: freq, min: min, max: max}
}

// next returns the LFO value for the current sample and advances.
func (l *sineLFO) next() float32 {
	s := l.ph.sine(l.freq)
	return l.min + (l.max-l.min)*(0.5+0.5*s)
}

// panGains converts a stereo position in [-1,1] to equal-power L/R gains.
func panGains(pan float32) (float32, float32) {
	if pan < -1 {
		pan = -1
	} else if pan > 1 {
		pan = 1
	}
	angle := (pan + 1) * (math.Pi / 4)
	return fastSin(float32(math.Pi/2) - angle), fastSin(angle)
}
