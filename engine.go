// engine.go - Engine aggregate: composition loop, render loop, lifecycle

package main

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"os"

	"golang.org/x/sync/errgroup"
)

const (
	COMPOSER_TICK     = 0.05 // Seconds of composition time per composer step
	COMPOSER_QUEUE    = 256  // Bounded event queue between the two loops
	KEYS_VELOCITY     = 0.2
	KEYS_PAN_SPLIT_HZ = 250 // Chord notes below this pan left, above right
	KEYS_PAN_WIDTH    = 0.3

	STATUS_FRAMES = 10 * SAMPLE_RATE // Verbose export progress print interval
)

// EngineConfig is the full configuration surface: mode, duration, seed and
// preset. Seed zero means "not reproducible": the engine draws one from
// the OS entropy the CLI layer provides.
type EngineConfig struct {
	Mode     int // SINK_LIVE or SINK_CAPTURE
	Duration float64
	Seed     int64
	Preset   Preset
	OutPath  string
	Verbose  bool
}

// composerMsg carries either one NoteEvent or a bare time watermark. The
// watermark tells the render loop how far the composer has committed, so
// the capture path can wait for completeness while the live path never has
// to block.
type composerMsg struct {
	event   *NoteEvent
	horizon float64
}

// Engine owns the whole signal path: wind, progression, scheduler, voice
// pool, mix graph and sink. Two goroutines run under Run: the composer
// advances the control signals on its own sample-time clock and emits
// NoteEvents into a bounded queue; the render loop consumes them at block
// boundaries only, renders, and pushes to the sink. The composer clock is
// pure sample time, so the same seed replays the same composition whether
// the render runs at, above, or below real time.
type Engine struct {
	cfg    EngineConfig
	wind   *WindSignal
	prog   *Progression
	sched  *Scheduler
	layout *BellLayout
	pool   *VoicePool
	graph  *MixGraph
	sink   OutputSink

	msgs chan composerMsg
}

func NewEngine(cfg EngineConfig) (*Engine, error) {
	if err := cfg.Preset.Validate(); err != nil {
		return nil, err
	}
	if cfg.Mode == SINK_CAPTURE && cfg.Duration <= 0 {
		return nil, fmt.Errorf("capture mode needs a positive duration, got %g", cfg.Duration)
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	layout, err := NewBellLayout(cfg.Preset.Bells)
	if err != nil {
		return nil, err
	}
	delay, err := NewDelayNetwork(cfg.Preset.DelayTapSeconds(), cfg.Preset.DelayFeedback)
	if err != nil {
		return nil, err
	}
	sink, err := NewOutputSink(cfg.Mode, cfg.OutPath, cfg.Duration)
	if err != nil {
		return nil, err
	}

	pool := NewVoicePool(cfg.Preset.VoiceCap)
	e := &Engine{
		cfg:    cfg,
		wind:   NewWindSignal(rng),
		prog:   NewProgression(rng, cfg.Preset.Chords, cfg.Preset.ChordStepSeconds(), cfg.Preset.SeventhProb),
		sched:  NewScheduler(rng, layout, cfg.Preset.Scheduler),
		layout: layout,
		pool:   pool,
		graph:  NewMixGraph(pool, delay, NewReverb()),
		sink:   sink,
		msgs:   make(chan composerMsg, COMPOSER_QUEUE),
	}
	return e, nil
}

// Run plays or exports until the context is cancelled or, in capture mode,
// the target duration has been rendered. The sink is always closed before
// returning; a capture flush failure is surfaced.
func (e *Engine) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// The persistent layers start immediately, before the first wind strike.
	e.spawnEvent(NoteEvent{Kind: VOICE_DRONE, Freq: e.cfg.Preset.DroneFreq, Velocity: DRONE_VELOCITY})
	e.spawnEvent(NoteEvent{Kind: VOICE_SHIMMER, Freq: e.cfg.Preset.ShimmerFreq})
	e.spawnEvent(NoteEvent{Kind: VOICE_WIND, Freq: WIND_NOISE_CENTER})

	if err := e.sink.Start(); err != nil {
		e.sink.Close()
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return e.composerLoop(gctx) })
	g.Go(func() error {
		defer cancel() // Render finishing (capture full) releases the composer
		return e.renderLoop(gctx)
	})

	runErr := g.Wait()
	if closeErr := e.sink.Close(); closeErr != nil && runErr == nil {
		runErr = closeErr
	}
	return runErr
}

// composerLoop advances wind and progression on the composition clock and
// feeds the queue. It blocks when the queue is full, which bounds how far
// it can run ahead of the render loop.
func (e *Engine) composerLoop(ctx context.Context) error {
	defer close(e.msgs)

	t := 0.0
	lastStep := -1
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}
		if e.cfg.Mode == SINK_CAPTURE && t > e.cfg.Duration+COMPOSER_TICK {
			return nil
		}

		intensity := e.wind.Advance(COMPOSER_TICK)

		target := e.prog.CurrentAt(t)
		if target.Step != lastStep {
			lastStep = target.Step
			stepStart := float64(target.Step) * e.prog.StepDuration()
			if e.cfg.Verbose {
				seventh := ""
				if target.Seventh {
					seventh = " (+7th)"
				}
				fmt.Printf("%6.1fs  chord %d, %d voices%s  wind %.2f\n",
					stepStart, target.Chord+1, len(target.Notes), seventh, intensity)
			}
			for _, note := range target.Notes {
				pan := float32(KEYS_PAN_WIDTH)
				if note.Freq < KEYS_PAN_SPLIT_HZ {
					pan = -KEYS_PAN_WIDTH
				}
				ev := NoteEvent{
					Onset:    stepStart + note.Offset,
					Kind:     VOICE_KEYS,
					Freq:     note.Freq,
					Velocity: KEYS_VELOCITY,
					Pan:      pan,
					Bell:     -1,
				}
				if !e.send(ctx, composerMsg{event: &ev, horizon: t}) {
					return nil
				}
			}
		}

		for _, ev := range e.sched.Tick(t, intensity) {
			ev := ev
			if !e.send(ctx, composerMsg{event: &ev, horizon: t}) {
				return nil
			}
		}

		t += COMPOSER_TICK
		if !e.send(ctx, composerMsg{horizon: t}) {
			return nil
		}
	}
}

func (e *Engine) send(ctx context.Context, msg composerMsg) bool {
	select {
	case e.msgs <- msg:
		return true
	case <-ctx.Done():
		return false
	}
}

// renderLoop pulls voices through the graph one block at a time. In capture
// mode it waits for the composer's watermark to pass the block end, so the
// export deterministically contains every due event; in live mode it takes
// whatever is queued and never stalls on the composer.
func (e *Engine) renderLoop(ctx context.Context) error {
	out := make([]float32, 2*BLOCK_FRAMES)
	var pending []NoteEvent
	horizon := 0.0
	open := true
	framesDone := 0
	nextStatus := STATUS_FRAMES
	shedLevel := 0
	var lastUnderruns uint64

	for {
		blockEnd := float64(framesDone+BLOCK_FRAMES) / SAMPLE_RATE

		if e.cfg.Mode == SINK_CAPTURE {
			for open && horizon < blockEnd {
				select {
				case msg, ok := <-e.msgs:
					if !ok {
						open = false
						break
					}
					pending, horizon = e.accept(pending, msg, horizon)
				case <-ctx.Done():
					return nil
				}
			}
		} else {
			for open {
				select {
				case msg, ok := <-e.msgs:
					if !ok {
						open = false
						break
					}
					pending, horizon = e.accept(pending, msg, horizon)
					continue
				default:
				}
				break
			}
		}

		pending = e.spawnDue(pending, blockEnd)
		e.graph.RenderBlock(out)
		if err := e.sink.Push(out); err != nil {
			return err
		}
		framesDone += BLOCK_FRAMES

		if e.cfg.Verbose && framesDone >= nextStatus {
			nextStatus += STATUS_FRAMES
			if frames := e.CaptureFrames(); !math.IsNaN(frames) {
				fmt.Printf("%6.1fs rendered, %d voices\n", frames/SAMPLE_RATE, e.PoolSize())
			}
		}

		if e.cfg.Mode == SINK_CAPTURE {
			if cs, ok := e.sink.(*captureSink); ok && cs.Full() {
				return nil
			}
		} else {
			if ls, ok := e.sink.(interface{ Underruns() uint64 }); ok {
				if u := ls.Underruns(); u > lastUnderruns {
					lastUnderruns = u
					shedLevel = e.shed(shedLevel)
				}
			}
		}

		select {
		case <-ctx.Done():
			return nil
		default:
		}
	}
}

func (e *Engine) accept(pending []NoteEvent, msg composerMsg, horizon float64) ([]NoteEvent, float64) {
	if msg.event != nil {
		pending = append(pending, *msg.event)
	}
	if msg.horizon > horizon {
		horizon = msg.horizon
	}
	return pending, horizon
}

// spawnDue queues voices for every pending event with onset inside the
// current block and returns the events still in the future.
func (e *Engine) spawnDue(pending []NoteEvent, blockEnd float64) []NoteEvent {
	remaining := pending[:0]
	for _, ev := range pending {
		if ev.Onset < blockEnd {
			e.spawnEvent(ev)
		} else {
			remaining = append(remaining, ev)
		}
	}
	return remaining
}

// spawnEvent converts one NoteEvent into a queued voice. A factory error
// means the event carried unusable parameters; it is dropped and scheduling
// continues.
func (e *Engine) spawnEvent(ev NoteEvent) {
	var params VoiceParams
	switch ev.Kind {
	case VOICE_BELL:
		params = BellParams{Freq: ev.Freq, Velocity: ev.Velocity, Pan: ev.Pan}
	case VOICE_KEYS:
		params = KeysParams{Freq: ev.Freq, Velocity: ev.Velocity, Pan: ev.Pan}
	case VOICE_DRONE:
		params = DroneParams{Freq: ev.Freq, Velocity: ev.Velocity}
	case VOICE_SHIMMER:
		params = ShimmerParams{Freq: ev.Freq}
	case VOICE_WIND:
		params = WindParams{Freq: ev.Freq, Seed: e.cfg.Seed + 1}
	}
	v, err := NewVoice(params)
	if err != nil {
		if e.cfg.Verbose {
			fmt.Fprintf(os.Stderr, "dropping %s event: %v\n", ev.Kind, err)
		}
		return
	}
	e.pool.Spawn(v)
}

// shed degrades the mix one layer at a time when the live sink underruns:
// the noise bed first, then shimmer, then bells, then the chord keys. The
// drone is never shed.
func (e *Engine) shed(level int) int {
	order := []VoiceKind{VOICE_WIND, VOICE_SHIMMER, VOICE_BELL, VOICE_KEYS}
	for level < len(order) {
		n := e.pool.Shed(order[level])
		level++
		if n > 0 {
			if e.cfg.Verbose {
				fmt.Fprintf(os.Stderr, "render overload: shed %d %s voice(s)\n", n, order[level-1])
			}
			break
		}
	}
	return level
}

// CaptureFrames reports rendered frame progress for capture mode, NaN in
// live mode.
func (e *Engine) CaptureFrames() float64 {
	if cs, ok := e.sink.(*captureSink); ok {
		return float64(cs.Frames())
	}
	return math.NaN()
}

// PoolSize exposes the live voice count for status reporting.
func (e *Engine) PoolSize() int { return e.pool.Size() }
