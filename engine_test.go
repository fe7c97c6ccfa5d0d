// engine_test.go - End-to-end capture behaviour of the engine

package main

import (
	"bytes"
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func captureConfig(t *testing.T, seed int64, duration float64) EngineConfig {
	t.Helper()
	return EngineConfig{
		Mode:     SINK_CAPTURE,
		Duration: duration,
		Seed:     seed,
		Preset:   DefaultPreset(),
		OutPath:  filepath.Join(t.TempDir(), "out.wav"),
	}
}

func runCapture(t *testing.T, cfg EngineConfig) *Engine {
	t.Helper()
	e, err := NewEngine(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if err := e.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	return e
}

func TestCaptureRendersExactDuration(t *testing.T) {
	if testing.Short() {
		t.Skip("renders audio")
	}
	cfg := captureConfig(t, 42, 5.0)
	e := runCapture(t, cfg)

	cs := e.sink.(*captureSink)
	if cs.Frames() != cs.TargetFrames() {
		t.Errorf("captured %d frames, want exactly %d", cs.Frames(), cs.TargetFrames())
	}
	if want := 5 * SAMPLE_RATE; cs.TargetFrames() != want {
		t.Errorf("target %d frames for 5s, want %d", cs.TargetFrames(), want)
	}

	info, err := os.Stat(cfg.OutPath)
	if err != nil {
		t.Fatal(err)
	}
	// 16-bit stereo data plus the header.
	if min := int64(cs.TargetFrames() * 4); info.Size() < min {
		t.Errorf("export is %d bytes, want at least %d", info.Size(), min)
	}
}

func TestCaptureOutputNormalizedAndBounded(t *testing.T) {
	if testing.Short() {
		t.Skip("renders audio")
	}
	e := runCapture(t, captureConfig(t, 42, 3.0))
	cs := e.sink.(*captureSink)

	var peak float64
	for _, s := range cs.Samples() {
		if math.IsNaN(float64(s)) {
			t.Fatal("NaN in captured audio")
		}
		if a := math.Abs(float64(s)); a > peak {
			peak = a
		}
	}
	if peak > CAPTURE_PEAK+1e-4 {
		t.Errorf("peak %.4f exceeds normalization target %.2f", peak, CAPTURE_PEAK)
	}
	if peak < 0.1 {
		t.Errorf("peak %.4f: a 3s render with drone and chords should not be near-silent", peak)
	}
}

func TestCaptureDeterministicForSeed(t *testing.T) {
	if testing.Short() {
		t.Skip("renders audio twice")
	}
	a := captureConfig(t, 1234, 2.0)
	b := captureConfig(t, 1234, 2.0)
	runCapture(t, a)
	runCapture(t, b)

	fa, err := os.ReadFile(a.OutPath)
	if err != nil {
		t.Fatal(err)
	}
	fb, err := os.ReadFile(b.OutPath)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(fa, fb) {
		t.Error("same seed produced different exports")
	}
}

func TestCaptureSeedsDiffer(t *testing.T) {
	if testing.Short() {
		t.Skip("renders audio twice")
	}
	a := captureConfig(t, 1, 2.0)
	b := captureConfig(t, 2, 2.0)
	sa := runCapture(t, a).sink.(*captureSink).Samples()
	sb := runCapture(t, b).sink.(*captureSink).Samples()
	if len(sa) == len(sb) {
		same := true
		for i := range sa {
			if sa[i] != sb[i] {
				same = false
				break
			}
		}
		if same {
			t.Error("different seeds produced identical audio")
		}
	}
}

func TestEngineRejectsBadConfig(t *testing.T) {
	cfg := captureConfig(t, 1, 0)
	if _, err := NewEngine(cfg); err == nil {
		t.Error("zero capture duration accepted")
	}

	cfg = captureConfig(t, 1, 2.0)
	cfg.Preset.DelayFeedback = 1.2
	if _, err := NewEngine(cfg); err == nil {
		t.Error("runaway delay feedback accepted")
	}

	cfg = captureConfig(t, 1, 2.0)
	cfg.Preset.Bells = []float64{440, 220} // Not ascending
	if _, err := NewEngine(cfg); err == nil {
		t.Error("non-ascending bell layout accepted")
	}
}

func TestCaptureCancellationStops(t *testing.T) {
	if testing.Short() {
		t.Skip("renders audio")
	}
	cfg := captureConfig(t, 5, 10)
	e, err := NewEngine(cfg)
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := e.Run(ctx); err != nil {
		t.Fatalf("cancelled run returned %v, want clean shutdown", err)
	}
	cs := e.sink.(*captureSink)
	// Close pads the remainder, so the file still has the promised length.
	if cs.Frames() != cs.TargetFrames() {
		t.Errorf("padded capture has %d frames, want %d", cs.Frames(), cs.TargetFrames())
	}
}
