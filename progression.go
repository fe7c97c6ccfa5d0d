// progression.go - Cyclic Dorian chord progression with blooming voice offsets

package main

import "math/rand"

const (
	PROG_MAX_BLOOM = 0.5 // Max random onset offset per chord voice, seconds
)

// ChordNote is one voice of a harmonic target with its bloom offset.
type ChordNote struct {
	Freq    float64
	Offset  float64 // Seconds after the chord step begins
	Seventh bool
}

// HarmonicTarget is the active chord for one progression step. Voices carry
// independent onset offsets so the chord blooms instead of striking at once.
type HarmonicTarget struct {
	Step    int
	Chord   int
	Notes   []ChordNote
	Seventh bool
}

// defaultChordTable is C Dorian: each chord is root, fourth/fifth, and a
// seventh candidate that joins probabilistically per step.
var defaultChordTable = [][]float64{
	{130.81, 174.61, 233.08}, // C3  F3  Bb3
	{146.83, 196.00, 261.63}, // D3  G3  C4
	{174.61, 233.08, 311.13}, // F3  Bb3 Eb4
	{196.00, 261.63, 349.23}, // G3  C4  F4
}

// Progression walks a cyclic chord table at a fixed step duration, choosing
// the next chord and its seventh extension from the injected random source.
// CurrentAt must be called with non-decreasing times; the cursor only moves
// forward, so a seeded progression replays the same chord stream.
type Progression struct {
	rng         *rand.Rand
	chords      [][]float64
	stepDur     float64
	seventhProb float64
	cursor      int
	current     HarmonicTarget
}

func NewProgression(rng *rand.Rand, chords [][]float64, stepDur, seventhProb float64) *Progression {
	p := &Progression{
		rng:         rng,
		chords:      chords,
		stepDur:     stepDur,
		seventhProb: seventhProb,
		cursor:      -1,
	}
	return p
}

// StepDuration returns the length of one chord step in seconds.
func (p *Progression) StepDuration() float64 { return p.stepDur }

// CurrentAt returns the harmonic target active at time t, advancing the
// cursor through any steps between the previous call and t.
func (p *Progression) CurrentAt(t float64) HarmonicTarget {
	step := int(t / p.stepDur)
	if step < 0 {
		step = 0
	}
	for p.cursor < step {
		p.cursor++
		p.current = p.nextTarget(p.cursor)
	}
	return p.current
}

func (p *Progression) nextTarget(step int) HarmonicTarget {
	chord := p.rng.Intn(len(p.chords))
	notes := p.chords[chord]

	target := HarmonicTarget{Step: step, Chord: chord}

	// Root and fifth always sound; the seventh joins by chance.
	count := 2
	if count > len(notes) {
		count = len(notes)
	}
	for i := 0; i < count; i++ {
		target.Notes = append(target.Notes, ChordNote{
			Freq:   notes[i],
			Offset: p.rng.Float64() * PROG_MAX_BLOOM,
		})
	}
	if len(notes) > 2 && p.rng.Float64() < p.seventhProb {
		target.Notes = append(target.Notes, ChordNote{
			Freq:    notes[2],
			Offset:  p.rng.Float64() * PROG_MAX_BLOOM,
			Seventh: true,
		})
		target.Seventh = true
	}
	return target
}
