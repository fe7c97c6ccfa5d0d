// voice_test.go - Per-kind voice lifetime and amplitude behaviour

package main

import (
	"math"
	"testing"
)

func renderBlocks(v Voice, max int) (blocks int, peak float64) {
	buf := make([]float32, BLOCK_FRAMES)
	for blocks = 0; blocks < max; blocks++ {
		for i := range buf {
			buf[i] = 0
		}
		alive := v.Render(buf)
		for _, s := range buf {
			if a := math.Abs(float64(s)); a > peak {
				peak = a
			}
		}
		if !alive {
			return blocks + 1, peak
		}
	}
	return blocks, peak
}

func TestBellVoiceRingsAndDecays(t *testing.T) {
	v, err := NewVoice(BellParams{Freq: 440, Velocity: 0.5, Pan: 0})
	if err != nil {
		t.Fatal(err)
	}
	// The carrier envelope runs just over 5s.
	maxBlocks := 6 * SAMPLE_RATE / BLOCK_FRAMES
	blocks, peak := renderBlocks(v, maxBlocks)
	if blocks == maxBlocks {
		t.Error("bell never finished")
	}
	if peak == 0 {
		t.Error("bell produced silence")
	}
	if peak > 1.0 {
		t.Errorf("bell peak %.3f clips", peak)
	}

	// After death the voice must stay dead and silent.
	buf := make([]float32, BLOCK_FRAMES)
	if v.Render(buf) {
		t.Error("finished bell reported alive")
	}
	for _, s := range buf {
		// Filter state may carry a vanishing residue past the envelope.
		if math.Abs(float64(s)) > 1e-3 {
			t.Fatalf("finished bell still emits %g", s)
		}
	}
}

func TestBellVelocityScalesLoudness(t *testing.T) {
	soft, _ := NewVoice(BellParams{Freq: 440, Velocity: 0.1, Pan: 0})
	hard, _ := NewVoice(BellParams{Freq: 440, Velocity: 0.8, Pan: 0})
	_, softPeak := renderBlocks(soft, 50)
	_, hardPeak := renderBlocks(hard, 50)
	if hardPeak <= softPeak {
		t.Errorf("hard strike peak %.4f not louder than soft %.4f", hardPeak, softPeak)
	}
}

func TestKeysVoiceFinishes(t *testing.T) {
	v, err := NewVoice(KeysParams{Freq: 261.63, Velocity: 0.2, Pan: 0.3})
	if err != nil {
		t.Fatal(err)
	}
	// Sustain plus release is around 9s.
	maxBlocks := 11 * SAMPLE_RATE / BLOCK_FRAMES
	blocks, peak := renderBlocks(v, maxBlocks)
	if blocks == maxBlocks {
		t.Error("keys voice never finished")
	}
	if peak == 0 || peak > 1.0 {
		t.Errorf("keys peak %.3f out of expected range", peak)
	}
}

func TestDroneOffersSuccessorOnce(t *testing.T) {
	v, err := NewVoice(DroneParams{Freq: DRONE_FREQ, Velocity: DRONE_VELOCITY})
	if err != nil {
		t.Fatal(err)
	}
	drone := v.(*droneVoice)
	buf := make([]float32, BLOCK_FRAMES)
	maxBlocks := 20 * SAMPLE_RATE / BLOCK_FRAMES
	offered := 0
	for b := 0; b < maxBlocks; b++ {
		alive := drone.Render(buf)
		if params, due := drone.Successor(); due {
			offered++
			if params.voiceKind() != VOICE_DRONE {
				t.Fatalf("successor params are %v, not drone", params.voiceKind())
			}
			if drone.inner.carEnv.progress() < DRONE_RESPAWN_FRACTION {
				t.Fatal("successor offered before the respawn point")
			}
		}
		if !alive {
			break
		}
	}
	if offered != 1 {
		t.Errorf("successor offered %d times, want exactly once", offered)
	}
}

func TestShimmerPersistsAndWanders(t *testing.T) {
	v, err := NewVoice(ShimmerParams{Freq: 523.25})
	if err != nil {
		t.Fatal(err)
	}
	buf := make([]float32, BLOCK_FRAMES)
	minPan, maxPan := float32(1), float32(-1)
	for b := 0; b < 4000; b++ { // ~46s, past a full pan LFO period
		if !v.Render(buf) {
			t.Fatal("shimmer self-terminated")
		}
		p := v.Pan()
		if p < minPan {
			minPan = p
		}
		if p > maxPan {
			maxPan = p
		}
	}
	if maxPan-minPan < 1.0 {
		t.Errorf("pan only covered [%.2f, %.2f], LFO should sweep most of ±0.8", minPan, maxPan)
	}
}

func TestWindBedPersistsAndBreathes(t *testing.T) {
	v, err := NewVoice(WindParams{Freq: WIND_NOISE_CENTER, Seed: 9})
	if err != nil {
		t.Fatal(err)
	}
	buf := make([]float32, BLOCK_FRAMES)
	var peak float64
	for b := 0; b < 2000; b++ { // ~23s
		for i := range buf {
			buf[i] = 0
		}
		if !v.Render(buf) {
			t.Fatal("wind bed self-terminated")
		}
		for _, s := range buf {
			if a := math.Abs(float64(s)); a > peak {
				peak = a
			}
		}
	}
	if peak == 0 {
		t.Error("wind bed produced silence")
	}
	if peak > 0.1 {
		t.Errorf("wind bed peak %.4f, a background texture should stay quiet", peak)
	}
}

func TestWindBedDeterministicForSeed(t *testing.T) {
	a, err := NewVoice(WindParams{Freq: WIND_NOISE_CENTER, Seed: 42})
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewVoice(WindParams{Freq: WIND_NOISE_CENTER, Seed: 42})
	if err != nil {
		t.Fatal(err)
	}
	bufA := make([]float32, BLOCK_FRAMES)
	bufB := make([]float32, BLOCK_FRAMES)
	for blk := 0; blk < 200; blk++ {
		for i := range bufA {
			bufA[i], bufB[i] = 0, 0
		}
		a.Render(bufA)
		b.Render(bufB)
		for i := range bufA {
			if bufA[i] != bufB[i] {
				t.Fatalf("block %d sample %d: seeded beds diverged: %g vs %g", blk, i, bufA[i], bufB[i])
			}
		}
	}
}

func TestVoiceFactoryRejectsOutOfBand(t *testing.T) {
	cases := []VoiceParams{
		BellParams{Freq: 5, Velocity: 0.5},
		BellParams{Freq: 30000, Velocity: 0.5},
		KeysParams{Freq: 0, Velocity: 0.2},
		DroneParams{Freq: -10, Velocity: 0.1},
		ShimmerParams{Freq: 25000},
		WindParams{Freq: 5, Seed: 1},
	}
	for _, p := range cases {
		if _, err := NewVoice(p); err == nil {
			t.Errorf("%T with out-of-band frequency accepted", p)
		}
	}
}

func TestVoiceFactoryRejectsNilParams(t *testing.T) {
	if _, err := NewVoice(nil); err == nil {
		t.Error("nil params accepted")
	}
}
