// preset.go - Composition preset: every tunable the engine exposes

package main

import "fmt"

// Preset collects the composition-level tuning in one validated struct.
// The zero value is not usable; start from DefaultPreset and override,
// either in code or from a Lua preset script.
type Preset struct {
	BPM              float64
	MeasuresPerChord int
	SeventhProb      float64
	Chords           [][]float64
	Bells            []float64
	Scheduler        SchedulerTuning
	DelayTapBeats    float64 // Tap spacing in beats; 2 = half measure
	DelayFeedback    float64
	VoiceCap         int
	DroneFreq        float64
	ShimmerFreq      float64
}

func DefaultPreset() Preset {
	return Preset{
		BPM:              82,
		MeasuresPerChord: 4,
		SeventhProb:      0.7,
		Chords:           defaultChordTable,
		Bells:            defaultBellFreqs,
		Scheduler:        DefaultSchedulerTuning(),
		DelayTapBeats:    2,
		DelayFeedback:    DELAY_FEEDBACK,
		VoiceCap:         MAX_VOICES,
		DroneFreq:        DRONE_FREQ,
		ShimmerFreq:      523.25, // C5
	}
}

// ChordStepSeconds returns the duration of one progression step.
func (p Preset) ChordStepSeconds() float64 {
	return float64(p.MeasuresPerChord) * 4 * 60 / p.BPM
}

// DelayTapSeconds returns the per-tap delay time.
func (p Preset) DelayTapSeconds() float64 {
	return p.DelayTapBeats * 60 / p.BPM
}

// Validate rejects presets the engine cannot run safely. The feedback bound
// is the one that matters: everything downstream assumes the delay network
// cannot diverge.
func (p Preset) Validate() error {
	if p.BPM <= 0 {
		return fmt.Errorf("preset: bpm %g must be positive", p.BPM)
	}
	if p.MeasuresPerChord <= 0 {
		return fmt.Errorf("preset: measures_per_chord %d must be positive", p.MeasuresPerChord)
	}
	if p.SeventhProb < 0 || p.SeventhProb > 1 {
		return fmt.Errorf("preset: seventh_prob %g outside [0,1]", p.SeventhProb)
	}
	if p.DelayFeedback < 0 || p.DelayFeedback >= 1 {
		return fmt.Errorf("preset: delay_feedback %g outside [0,1)", p.DelayFeedback)
	}
	if len(p.Chords) == 0 {
		return fmt.Errorf("preset: chord table is empty")
	}
	for i, chord := range p.Chords {
		if len(chord) < 2 {
			return fmt.Errorf("preset: chord %d needs at least root and fifth", i)
		}
		for _, f := range chord {
			if f < MIN_VOICE_HZ || f > MAX_VOICE_HZ {
				return fmt.Errorf("preset: chord %d frequency %g Hz out of band", i, f)
			}
		}
	}
	if p.VoiceCap < 4 {
		return fmt.Errorf("preset: voice_cap %d too small", p.VoiceCap)
	}
	if p.Scheduler.MinInterval <= 0 || p.Scheduler.MaxInterval < p.Scheduler.MinInterval {
		return fmt.Errorf("preset: interval bounds [%g,%g] invalid",
			p.Scheduler.MinInterval, p.Scheduler.MaxInterval)
	}
	if _, err := NewBellLayout(p.Bells); err != nil {
		return fmt.Errorf("preset: %w", err)
	}
	return nil
}
