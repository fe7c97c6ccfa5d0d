// graph_test.go - Mix graph rendering, fades, and bus behaviour

package main

import (
	"math"
	"testing"
)

func newTestGraph(t *testing.T) (*VoicePool, *MixGraph) {
	t.Helper()
	delay, err := NewDelayNetwork(0.05, DELAY_FEEDBACK)
	if err != nil {
		t.Fatal(err)
	}
	pool := NewVoicePool(MAX_VOICES)
	return pool, NewMixGraph(pool, delay, NewReverb())
}

func TestGraphSilenceInSilenceOut(t *testing.T) {
	_, g := newTestGraph(t)
	out := make([]float32, 2*BLOCK_FRAMES)
	for b := 0; b < 20; b++ {
		g.RenderBlock(out)
		for i, s := range out {
			if s != 0 {
				t.Fatalf("block %d sample %d: empty graph emitted %g", b, i, s)
			}
		}
	}
}

func TestGraphOutputBounded(t *testing.T) {
	pool, g := newTestGraph(t)
	// Pile on loud bells; the soft clip must keep the master bus in range.
	for i := 0; i < MAX_VOICES; i++ {
		v, err := NewVoice(BellParams{Freq: 220 + float64(i)*55, Velocity: 0.8})
		if err != nil {
			t.Fatal(err)
		}
		pool.Spawn(v)
	}
	out := make([]float32, 2*BLOCK_FRAMES)
	for b := 0; b < 200; b++ {
		g.RenderBlock(out)
		for _, s := range out {
			if s > MAX_SAMPLE || s < MIN_SAMPLE || math.IsNaN(float64(s)) {
				t.Fatalf("block %d: master bus sample %g out of range", b, s)
			}
		}
	}
}

func TestGraphRetiresFinishedVoices(t *testing.T) {
	pool, g := newTestGraph(t)
	v, err := NewVoice(BellParams{Freq: 440, Velocity: 0.5})
	if err != nil {
		t.Fatal(err)
	}
	pool.Spawn(v)
	out := make([]float32, 2*BLOCK_FRAMES)
	// The bell envelope finishes in just over 5s.
	maxBlocks := 6 * SAMPLE_RATE / BLOCK_FRAMES
	for b := 0; b < maxBlocks; b++ {
		g.RenderBlock(out)
		if pool.Size() == 0 {
			return
		}
	}
	t.Error("finished bell never left the pool")
}

func TestGraphSpawnFadeAvoidsHardOnset(t *testing.T) {
	pool, g := newTestGraph(t)
	v, err := NewVoice(ShimmerParams{Freq: 523.25})
	if err != nil {
		t.Fatal(err)
	}
	pool.Spawn(v)
	out := make([]float32, 2*BLOCK_FRAMES)
	g.RenderBlock(out)
	// The very first samples sit under the spawn fade ramp.
	if a := math.Abs(float64(out[0])); a > 0.01 {
		t.Errorf("first sample %.4f, spawn fade should start near zero", a)
	}
}

func TestGraphPanPlacesVoice(t *testing.T) {
	pool, g := newTestGraph(t)
	v, err := NewVoice(BellParams{Freq: 440, Velocity: 0.8, Pan: 0.8})
	if err != nil {
		t.Fatal(err)
	}
	pool.Spawn(v)
	out := make([]float32, 2*BLOCK_FRAMES)
	var energyL, energyR float64
	for b := 0; b < 40; b++ {
		g.RenderBlock(out)
		for i := 0; i < BLOCK_FRAMES; i++ {
			energyL += float64(out[2*i] * out[2*i])
			energyR += float64(out[2*i+1] * out[2*i+1])
		}
	}
	if energyR <= energyL {
		t.Errorf("right-panned bell: L energy %.4f, R energy %.4f", energyL, energyR)
	}
}
