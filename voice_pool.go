// voice_pool.go - Capacity-bounded pool of live voices

package main

const MAX_VOICES = 24

// poolEntry wraps a voice with its spawn order and fade state. Fades are
// applied by the graph when mixing, keeping spawn and evict click-free.
type poolEntry struct {
	voice   Voice
	serial  uint64
	fadeIn  int // Samples of fade-in remaining
	fadeOut int // Samples of fade-out remaining; -1 = not fading out
}

// VoicePool owns every live voice. All mutation happens at block boundaries
// on the render goroutine: Spawn only queues, and BeginBlock applies queued
// spawns, retires finished voices, and evicts oldest-first past the cap.
type VoicePool struct {
	cap     int
	entries []*poolEntry
	pending []Voice
	serial  uint64
	evicted uint64 // Running count, for status reporting
}

func NewVoicePool(capacity int) *VoicePool {
	if capacity <= 0 {
		capacity = MAX_VOICES
	}
	return &VoicePool{cap: capacity}
}

// Spawn queues a voice for admission at the next block boundary.
func (p *VoicePool) Spawn(v Voice) {
	p.pending = append(p.pending, v)
}

// BeginBlock admits queued voices and enforces the cap. Eviction is
// oldest-first and starts a fade-out rather than cutting the voice; a voice
// already fading out counts against the cap until it is gone.
func (p *VoicePool) BeginBlock() {
	for _, v := range p.pending {
		p.serial++
		p.entries = append(p.entries, &poolEntry{
			voice:   v,
			serial:  p.serial,
			fadeIn:  FADE_SAMPLES,
			fadeOut: -1,
		})
	}
	p.pending = p.pending[:0]

	for p.activeCount() > p.cap {
		oldest := p.oldestActive()
		if oldest == nil {
			break
		}
		oldest.fadeOut = FADE_SAMPLES
		p.evicted++
	}
}

// activeCount counts voices not already on their way out.
func (p *VoicePool) activeCount() int {
	n := 0
	for _, e := range p.entries {
		if e.fadeOut < 0 {
			n++
		}
	}
	return n
}

func (p *VoicePool) oldestActive() *poolEntry {
	var oldest *poolEntry
	for _, e := range p.entries {
		if e.fadeOut >= 0 {
			continue // Already on the way out
		}
		if e.voice.Kind() == VOICE_DRONE {
			continue // The low layer must stay unbroken
		}
		if oldest == nil || e.serial < oldest.serial {
			oldest = e
		}
	}
	return oldest
}

// EndBlock retires voices that finished during the block: either their own
// envelope completed or their eviction fade ran out. Self-replacing voices
// get their successor admitted before the parent is dropped.
func (p *VoicePool) EndBlock(finished map[*poolEntry]bool) {
	kept := p.entries[:0]
	for _, e := range p.entries {
		if spawner, ok := e.voice.(successorSpawner); ok {
			if params, due := spawner.Successor(); due {
				if v, err := NewVoice(params); err == nil {
					p.Spawn(v)
				}
			}
		}
		if finished[e] || e.fadeOut == 0 {
			continue
		}
		kept = append(kept, e)
	}
	p.entries = kept
}

// Entries exposes the live entries for the graph's render pass.
func (p *VoicePool) Entries() []*poolEntry { return p.entries }

// Size reports the number of live voices (queued spawns excluded).
func (p *VoicePool) Size() int { return len(p.entries) }

// Evictions reports how many voices were forced out by the cap.
func (p *VoicePool) Evictions() uint64 { return p.evicted }

// Shed starts fade-out on every voice of the given kind. The live path
// calls it under overload, texture layers before bells, never the drone.
func (p *VoicePool) Shed(kind VoiceKind) int {
	n := 0
	for _, e := range p.entries {
		if e.voice.Kind() == kind && e.fadeOut < 0 {
			e.fadeOut = FADE_SAMPLES
			n++
		}
	}
	return n
}
