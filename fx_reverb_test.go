// fx_reverb_test.go - Reverb tail decay and stereo decorrelation

package main

import (
	"math"
	"testing"
)

func TestReverbImpulseDecays(t *testing.T) {
	r := NewReverb()
	const window = 4410
	var early, late float64
	for i := 0; i < SAMPLE_RATE*4; i++ {
		var in float32
		if i == 0 {
			in = 1.0
		}
		outL, _ := r.Process(in, in)
		if math.IsNaN(float64(outL)) || math.IsInf(float64(outL), 0) {
			t.Fatalf("reverb blew up at sample %d", i)
		}
		e := float64(outL) * float64(outL)
		if i < SAMPLE_RATE {
			early += e
		}
		if i >= SAMPLE_RATE*4-window {
			late += e
		}
	}
	if early == 0 {
		t.Fatal("impulse produced no early reverb energy")
	}
	if late >= early*0.01 {
		t.Errorf("tail energy %.6g did not decay below 1%% of early energy %.6g", late, early)
	}
}

func TestReverbChannelsDecorrelated(t *testing.T) {
	r := NewReverb()
	same := true
	for i := 0; i < SAMPLE_RATE; i++ {
		var in float32
		if i == 0 {
			in = 1.0
		}
		outL, outR := r.Process(in, in)
		if outL != outR {
			same = false
		}
	}
	if same {
		t.Error("identical input produced identical channels; the stereo skew should decorrelate the tail")
	}
}
