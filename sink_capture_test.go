// sink_capture_test.go - Capture sink bounding, normalization and flush

package main

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestCaptureSinkBoundsPushes(t *testing.T) {
	s, err := newCaptureSink(filepath.Join(t.TempDir(), "out.wav"), 0.01)
	if err != nil {
		t.Fatal(err)
	}
	block := make([]float32, 2*BLOCK_FRAMES)
	for !s.Full() {
		if err := s.Push(block); err != nil {
			t.Fatal(err)
		}
	}
	if s.Frames() != s.TargetFrames() {
		t.Errorf("accumulated %d frames, want trimmed to %d", s.Frames(), s.TargetFrames())
	}
	// Extra pushes past full are ignored, not an error.
	if err := s.Push(block); err != nil {
		t.Errorf("push past full: %v", err)
	}
	if s.Frames() != s.TargetFrames() {
		t.Error("push past full grew the buffer")
	}
}

func TestCaptureSinkRejectsZeroDuration(t *testing.T) {
	if _, err := newCaptureSink("x.wav", 0); err == nil {
		t.Error("zero duration accepted")
	}
}

func TestCaptureSinkNormalizesOnClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.wav")
	s, err := newCaptureSink(path, 5.0)
	if err != nil {
		t.Fatal(err)
	}
	// A quiet constant tone well below the normalization target.
	block := make([]float32, 2*BLOCK_FRAMES)
	for i := range block {
		block[i] = 0.05 * fastSin(float32(i)*0.1)
	}
	for !s.Full() {
		if err := s.Push(block); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	var peak float64
	for _, v := range s.Samples() {
		if a := math.Abs(float64(v)); a > peak {
			peak = a
		}
	}
	if !closeTo(peak, CAPTURE_PEAK, 1e-3) {
		t.Errorf("post-flush peak %.4f, want %.2f", peak, CAPTURE_PEAK)
	}

	// Edge fades: the first frame starts at zero.
	buf := s.Samples()
	if buf[0] != 0 || buf[1] != 0 {
		t.Errorf("first frame %g/%g, want faded to silence", buf[0], buf[1])
	}

	if _, err := os.Stat(path); err != nil {
		t.Errorf("flush left no file: %v", err)
	}

	// Pushing after close is a caller bug and must be reported.
	if err := s.Push(block); err == nil {
		t.Error("push after close accepted")
	}
}

func TestCaptureSinkPadsShortRender(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.wav")
	s, err := newCaptureSink(path, 1.0)
	if err != nil {
		t.Fatal(err)
	}
	block := make([]float32, 2*BLOCK_FRAMES)
	s.Push(block) // One block of a 1s target
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	if s.Frames() != s.TargetFrames() {
		t.Errorf("padded to %d frames, want %d", s.Frames(), s.TargetFrames())
	}
}
