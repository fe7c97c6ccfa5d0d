//go:build headless

// sink_live_headless.go - No-op live sink for headless builds

package main

type liveSink struct {
	started bool
}

func newLiveSink() (*liveSink, error) {
	return &liveSink{}, nil
}

func (s *liveSink) Start() error {
	s.started = true
	return nil
}

func (s *liveSink) Push(block []float32) error { return nil }

func (s *liveSink) Underruns() uint64 { return 0 }

func (s *liveSink) Close() error {
	s.started = false
	return nil
}
