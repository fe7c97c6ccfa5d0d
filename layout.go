// layout.go - Fixed bell layout mapping pitch order to stereo position

package main

import "fmt"

// BellLayout is an immutable ordered set of bell frequencies, lowest first,
// spread across the stereo field left to right. Shared read-only by the
// scheduler and the voice factory.
type BellLayout struct {
	freqs []float64
	pans  []float32
}

// defaultBellFreqs is a pentatonic spread across two octaves (A3..E5).
var defaultBellFreqs = []float64{
	220.00, // A3
	246.94, // B3
	293.66, // D4
	329.63, // E4
	392.00, // G4
	440.00, // A4
	493.88, // B4
	587.33, // D5
	659.25, // E5
}

// NewBellLayout builds a layout from ascending frequencies. Bells are panned
// -0.8..+0.8 in pitch order so high strikes sit to the right.
func NewBellLayout(freqs []float64) (*BellLayout, error) {
	if len(freqs) < 2 {
		return nil, fmt.Errorf("bell layout needs at least 2 bells, got %d", len(freqs))
	}
	for i := 1; i < len(freqs); i++ {
		if freqs[i] <= freqs[i-1] {
			return nil, fmt.Errorf("bell layout must ascend: freq[%d]=%g <= freq[%d]=%g",
				i, freqs[i], i-1, freqs[i-1])
		}
	}
	l := &BellLayout{
		freqs: append([]float64(nil), freqs...),
		pans:  make([]float32, len(freqs)),
	}
	for i := range l.pans {
		l.pans[i] = float32(-0.8 + (float64(i)/float64(len(freqs)-1))*1.6)
	}
	return l, nil
}

func (l *BellLayout) Len() int { return len(l.freqs) }

// Freq returns the frequency of bell i. i must be in range.
func (l *BellLayout) Freq(i int) float64 { return l.freqs[i] }

// Pan returns the stereo position of bell i in [-0.8, 0.8].
func (l *BellLayout) Pan(i int) float32 { return l.pans[i] }

// InRange reports whether i is a valid bell index.
func (l *BellLayout) InRange(i int) bool { return i >= 0 && i < len(l.freqs) }
