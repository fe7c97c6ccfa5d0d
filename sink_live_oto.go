//go:build !headless

// sink_live_oto.go - OTO v3 live playback sink

package main

import (
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/ebitengine/oto/v3"
)

const LIVE_QUEUE_BLOCKS = 8

// liveSink paces rendered blocks out through an oto player. Push blocks
// until the queue drains, which is what holds the render loop to real time.
// When the device callback finds the queue empty it plays silence and
// counts an underrun; the engine reads that counter to shed layers before
// ever dropping whole blocks.
type liveSink struct {
	ctx       *oto.Context
	player    *oto.Player
	blocks    chan []float32
	stop      chan struct{}
	leftover  []byte
	underruns atomic.Uint64
	started   bool
	stopped   sync.Once
	mutex     sync.Mutex
}

func newLiveSink() (*liveSink, error) {
	op := &oto.NewContextOptions{
		SampleRate:   SAMPLE_RATE,
		ChannelCount: 2,
		Format:       oto.FormatFloat32LE,
	}
	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, err
	}
	<-ready

	s := &liveSink{
		ctx:    ctx,
		blocks: make(chan []float32, LIVE_QUEUE_BLOCKS),
		stop:   make(chan struct{}),
	}
	s.player = ctx.NewPlayer(s)
	return s, nil
}

func (s *liveSink) Start() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if !s.started {
		s.player.Play()
		s.started = true
	}
	return nil
}

// Push queues one block, blocking until the device drains or the sink is
// closed. The blocking send is what paces the render loop to real time.
func (s *liveSink) Push(block []float32) error {
	owned := make([]float32, len(block))
	copy(owned, block)
	select {
	case s.blocks <- owned:
	case <-s.stop:
	}
	return nil
}

// Underruns reports how many device reads found no audio queued.
func (s *liveSink) Underruns() uint64 {
	return s.underruns.Load()
}

// Read feeds the oto player. Never blocks: missing audio becomes silence.
func (s *liveSink) Read(p []byte) (int, error) {
	n := 0
	for n < len(p) {
		if len(s.leftover) == 0 {
			select {
			case block := <-s.blocks:
				s.leftover = floatsToBytes(block)
			default:
				s.underruns.Add(1)
				for i := n; i < len(p); i++ {
					p[i] = 0
				}
				return len(p), nil
			}
		}
		c := copy(p[n:], s.leftover)
		s.leftover = s.leftover[c:]
		n += c
	}
	return n, nil
}

func (s *liveSink) Close() error {
	s.stopped.Do(func() { close(s.stop) })
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.player != nil {
		s.player.Close()
		s.player = nil
	}
	s.started = false
	return nil
}

func floatsToBytes(samples []float32) []byte {
	if len(samples) == 0 {
		return nil
	}
	return (*[1 << 30]byte)(unsafe.Pointer(&samples[0]))[: len(samples)*4 : len(samples)*4]
}
