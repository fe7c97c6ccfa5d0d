// sink_capture.go - Bounded capture sink with one-shot WAV flush

package main

import (
	"fmt"
	"math"
	"os"

	wav "github.com/youpy/go-wav"
)

const (
	CAPTURE_FADE_SEC = 2.0 // Fade-in/out applied on flush
	CAPTURE_PEAK     = 0.9 // Normalization headroom
	CAPTURE_BITS     = 16
	CAPTURE_CHANNELS = 2
)

// captureSink accumulates exactly targetFrames stereo frames. It ignores
// real time entirely: the render loop may run faster or slower than
// playback, and Push never drops. Close normalizes, applies edge fades,
// and writes a 16-bit WAV; any I/O failure is surfaced, never swallowed.
type captureSink struct {
	path         string
	targetFrames int
	buf          []float32 // Interleaved stereo
	closed       bool
}

func newCaptureSink(path string, durationSec float64) (*captureSink, error) {
	if durationSec <= 0 {
		return nil, fmt.Errorf("capture duration %g must be positive", durationSec)
	}
	frames := int(durationSec * SAMPLE_RATE)
	return &captureSink{
		path:         path,
		targetFrames: frames,
		buf:          make([]float32, 0, frames*2),
	}, nil
}

func (s *captureSink) Start() error { return nil }

// TargetFrames reports the exact frame count the capture is bounded to.
func (s *captureSink) TargetFrames() int { return s.targetFrames }

// Frames reports how many frames have been accumulated so far.
func (s *captureSink) Frames() int { return len(s.buf) / 2 }

// Full reports whether the capture reached its bound.
func (s *captureSink) Full() bool { return s.Frames() >= s.targetFrames }

// Samples exposes the accumulated interleaved buffer (for tests and the
// determinism check; the WAV flush happens in Close).
func (s *captureSink) Samples() []float32 { return s.buf }

func (s *captureSink) Push(block []float32) error {
	if s.closed {
		return fmt.Errorf("push on closed capture sink")
	}
	remaining := s.targetFrames*2 - len(s.buf)
	if remaining <= 0 {
		return nil
	}
	if len(block) > remaining {
		block = block[:remaining]
	}
	s.buf = append(s.buf, block...)
	return nil
}

func (s *captureSink) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	// Pad a short render with silence so the file always has the promised
	// duration.
	for len(s.buf) < s.targetFrames*2 {
		s.buf = append(s.buf, 0)
	}

	normalizeCapture(s.buf)
	applyEdgeFades(s.buf, int(CAPTURE_FADE_SEC*SAMPLE_RATE))

	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("capture flush: %w", err)
	}
	defer f.Close()

	w := wav.NewWriter(f, uint32(s.targetFrames), CAPTURE_CHANNELS, SAMPLE_RATE, CAPTURE_BITS)
	samples := make([]wav.Sample, s.targetFrames)
	for i := 0; i < s.targetFrames; i++ {
		samples[i].Values[0] = int(s.buf[2*i] * 32767)
		samples[i].Values[1] = int(s.buf[2*i+1] * 32767)
	}
	if err := w.WriteSamples(samples); err != nil {
		return fmt.Errorf("capture flush: %w", err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("capture flush: %w", err)
	}
	return nil
}

// normalizeCapture scales the buffer so its peak sits at CAPTURE_PEAK.
// Silence is left untouched.
func normalizeCapture(buf []float32) {
	var peak float32
	for _, s := range buf {
		if a := float32(math.Abs(float64(s))); a > peak {
			peak = a
		}
	}
	if peak == 0 {
		return
	}
	gain := CAPTURE_PEAK / peak
	for i := range buf {
		buf[i] *= gain
	}
}

// applyEdgeFades ramps the first and last fadeFrames frames so the export
// never starts or ends on a cliff.
func applyEdgeFades(buf []float32, fadeFrames int) {
	frames := len(buf) / 2
	if fadeFrames > frames/2 {
		fadeFrames = frames / 2
	}
	for i := 0; i < fadeFrames; i++ {
		g := float32(i) / float32(fadeFrames)
		buf[2*i] *= g
		buf[2*i+1] *= g
		j := frames - 1 - i
		buf[2*j] *= g
		buf[2*j+1] *= g
	}
}
