// sink.go - Output sink contract and constructor

package main

import "fmt"

const (
	SINK_LIVE = iota
	SINK_CAPTURE
)

// OutputSink accepts rendered stereo blocks. The live variant paces
// delivery to real time and tolerates loss under overload; the capture
// variant accumulates a fixed duration losslessly and flushes on Close.
type OutputSink interface {
	Start() error
	// Push accepts one interleaved stereo block. Capture sinks return an
	// error only for conditions that compromise export correctness.
	Push(block []float32) error
	Close() error
}

// NewOutputSink builds a sink for the given mode. path and durationSec are
// only meaningful for capture.
func NewOutputSink(mode int, path string, durationSec float64) (OutputSink, error) {
	switch mode {
	case SINK_LIVE:
		return newLiveSink()
	case SINK_CAPTURE:
		return newCaptureSink(path, durationSec)
	}
	return nil, fmt.Errorf("unknown sink mode %d", mode)
}
