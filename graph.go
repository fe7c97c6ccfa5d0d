// graph.go - Spatial mix graph: pan, delay send, reverb, master bus

package main

// Per-kind send level into the delay network. The chord keys lean hardest
// on the echo cascade; the drone mostly bypasses it and lives in the reverb.
var delaySend = map[VoiceKind]float32{
	VOICE_BELL:    0.2,
	VOICE_KEYS:    0.5,
	VOICE_DRONE:   0.05,
	VOICE_SHIMMER: 0.3,
	VOICE_WIND:    0.3,
}

const (
	MIX_DRY         = 0.9
	MIX_DELAY_WET   = 0.5
	MIX_REVERB_WET  = 0.35
	REVERB_SEND_DRY = 0.25 // Dry bus portion feeding the reverb
	REVERB_SEND_DEL = 0.4  // Delay wet portion feeding the reverb
	SOFT_CLIP_DRIVE = 0.8
)

// MixGraph renders all live voices into a stereo block. Each voice renders
// mono, is panned equal-power, and splits into a direct path and a send into
// the cascading delay; the shared reverb tails both. Voice fades are applied
// here so the pool can add and remove voices at block boundaries without
// clicks.
type MixGraph struct {
	pool   *VoicePool
	delay  *DelayNetwork
	reverb *Reverb

	scratch  []float32
	dryL     []float32
	dryR     []float32
	sendL    []float32
	sendR    []float32
	finished map[*poolEntry]bool
}

func NewMixGraph(pool *VoicePool, delay *DelayNetwork, reverb *Reverb) *MixGraph {
	return &MixGraph{
		pool:     pool,
		delay:    delay,
		reverb:   reverb,
		scratch:  make([]float32, BLOCK_FRAMES),
		dryL:     make([]float32, BLOCK_FRAMES),
		dryR:     make([]float32, BLOCK_FRAMES),
		sendL:    make([]float32, BLOCK_FRAMES),
		sendR:    make([]float32, BLOCK_FRAMES),
		finished: make(map[*poolEntry]bool),
	}
}

// RenderBlock fills out (interleaved stereo, 2*BLOCK_FRAMES samples) and
// applies all pool mutations queued since the previous block.
func (g *MixGraph) RenderBlock(out []float32) {
	g.pool.BeginBlock()

	for i := range g.dryL {
		g.dryL[i], g.dryR[i], g.sendL[i], g.sendR[i] = 0, 0, 0, 0
	}
	clear(g.finished)

	for _, e := range g.pool.Entries() {
		for i := range g.scratch {
			g.scratch[i] = 0
		}
		alive := e.voice.Render(g.scratch)

		gl, gr := panGains(e.voice.Pan())
		send := delaySend[e.voice.Kind()]
		for i, s := range g.scratch {
			fade := float32(1.0)
			if e.fadeIn > 0 {
				fade = 1 - float32(e.fadeIn)/float32(FADE_SAMPLES)
				e.fadeIn--
			}
			if e.fadeOut > 0 {
				fade *= float32(e.fadeOut) / float32(FADE_SAMPLES)
				e.fadeOut--
			} else if e.fadeOut == 0 {
				fade = 0
			}
			s *= fade
			l, r := s*gl, s*gr
			g.dryL[i] += l
			g.dryR[i] += r
			g.sendL[i] += l * send
			g.sendR[i] += r * send
		}
		if !alive || e.fadeOut == 0 {
			g.finished[e] = true
		}
	}

	for i := 0; i < BLOCK_FRAMES; i++ {
		dl, dr := g.delay.Process(g.sendL[i], g.sendR[i])
		rl, rr := g.reverb.Process(
			g.dryL[i]*REVERB_SEND_DRY+dl*REVERB_SEND_DEL,
			g.dryR[i]*REVERB_SEND_DRY+dr*REVERB_SEND_DEL,
		)
		l := g.dryL[i]*MIX_DRY + dl*MIX_DELAY_WET + rl*MIX_REVERB_WET
		r := g.dryR[i]*MIX_DRY + dr*MIX_DELAY_WET + rr*MIX_REVERB_WET

		l = fastTanh(l * SOFT_CLIP_DRIVE)
		r = fastTanh(r * SOFT_CLIP_DRIVE)

		out[2*i] = l
		out[2*i+1] = r
	}

	g.pool.EndBlock(g.finished)
}
