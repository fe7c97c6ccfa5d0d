// scheduler.go - Stochastic bell trigger scheduler driven by wind intensity

package main

import (
	"math/rand"
	"sort"
)

const (
	SCHED_MIN_INTERVAL = 0.4  // Seconds between triggers at full wind
	SCHED_MAX_INTERVAL = 3.75 // Seconds between triggers in still air
	SCHED_JITTER       = 0.3  // Uniform interval jitter, +/- seconds
	SCHED_COOLDOWN     = 1.5  // Per-bell rest before it may strike again

	SCHED_ADJ_PROB_BASE = 0.25 // Cluster probability at zero wind...
	SCHED_ADJ_PROB_SPAN = 0.6  // ...rising linearly to base+span at full wind
	SCHED_HARMONY_PROB  = 0.15 // Fixed chance of a scale third/fifth instead

	SCHED_ROLL_MIN = 0.02 // Rolling offset between grouped strikes
	SCHED_ROLL_MAX = 0.08

	VEL_FLOOR  = 0.15 // Velocity before wind contribution
	VEL_WIND   = 0.5  // Velocity added at full wind
	VEL_JIT_LO = -0.1
	VEL_JIT_HI = 0.15
	VEL_MIN    = 0.1
	VEL_MAX    = 0.8
)

// harmonyOffsets are the layout-index steps allowed by the harmonic-interval
// rule: +2 and +4 positions up the scale, a third and a fifth.
var harmonyOffsets = []int{2, 4}

// SchedulerTuning bounds the intensity-to-interval mapping. Interval shrinks
// linearly from MaxInterval at intensity 0 to MinInterval at intensity 1;
// only the sign and monotonicity of that mapping are load-bearing.
type SchedulerTuning struct {
	MinInterval float64
	MaxInterval float64
	Jitter      float64
	Cooldown    float64
	AdjProbBase float64
	AdjProbSpan float64
	HarmonyProb float64
}

func DefaultSchedulerTuning() SchedulerTuning {
	return SchedulerTuning{
		MinInterval: SCHED_MIN_INTERVAL,
		MaxInterval: SCHED_MAX_INTERVAL,
		Jitter:      SCHED_JITTER,
		Cooldown:    SCHED_COOLDOWN,
		AdjProbBase: SCHED_ADJ_PROB_BASE,
		AdjProbSpan: SCHED_ADJ_PROB_SPAN,
		HarmonyProb: SCHED_HARMONY_PROB,
	}
}

// Scheduler decides when bells strike, which, and how many. It consumes the
// wind intensity each tick and emits NoteEvents with non-decreasing onsets.
// All randomness comes from the injected source.
type Scheduler struct {
	rng     *rand.Rand
	layout  *BellLayout
	tuning  SchedulerTuning
	nextAt  float64
	lastHit []float64
}

func NewScheduler(rng *rand.Rand, layout *BellLayout, tuning SchedulerTuning) *Scheduler {
	s := &Scheduler{
		rng:     rng,
		layout:  layout,
		tuning:  tuning,
		lastHit: make([]float64, layout.Len()),
	}
	for i := range s.lastHit {
		s.lastHit[i] = -tuning.Cooldown // All bells available at t=0
	}
	// No strike at the very beginning; let the wind build first.
	s.nextAt = s.interval(0)
	return s
}

// interval maps intensity to the gap before the next candidate trigger.
// Monotone non-increasing in intensity, bounded to [MinInterval, inf).
func (s *Scheduler) interval(intensity float64) float64 {
	t := s.tuning
	gap := t.MinInterval + (t.MaxInterval-t.MinInterval)*(1-intensity)
	gap += (s.rng.Float64()*2 - 1) * t.Jitter
	if gap < t.MinInterval {
		gap = t.MinInterval
	}
	return gap
}

// Tick emits every event due up to time now at the given intensity. Events
// within one call are sorted by onset, and successive calls with
// non-decreasing now never move backwards.
func (s *Scheduler) Tick(now, intensity float64) []NoteEvent {
	var events []NoteEvent
	for s.nextAt <= now {
		events = append(events, s.trigger(s.nextAt, intensity)...)
		s.nextAt += s.interval(intensity)
	}
	sort.SliceStable(events, func(i, j int) bool { return events[i].Onset < events[j].Onset })
	return events
}

// trigger builds one strike group at time at. A primary bell is chosen
// uniformly among bells off cooldown; grouping and harmony rules may add
// more, each with independently jittered velocity. Out-of-range companions
// degrade to a no-op rather than failing the group.
func (s *Scheduler) trigger(at, intensity float64) []NoteEvent {
	available := s.availableBells(at)
	if len(available) == 0 {
		return nil
	}
	primary := available[s.rng.Intn(len(available))]

	group := []int{primary}
	harmony := []HarmonyKind{HARMONY_NONE}

	adjProb := s.tuning.AdjProbBase + s.tuning.AdjProbSpan*intensity
	if s.rng.Float64() < adjProb {
		// Neighbouring bells ring together, one or both sides.
		neighbors := make([]int, 0, 2)
		for _, n := range []int{primary - 1, primary + 1} {
			if s.layout.InRange(n) {
				neighbors = append(neighbors, n)
			}
		}
		if len(neighbors) > 0 {
			take := 1 + s.rng.Intn(len(neighbors))
			s.rng.Shuffle(len(neighbors), func(i, j int) {
				neighbors[i], neighbors[j] = neighbors[j], neighbors[i]
			})
			for _, n := range neighbors[:take] {
				group = append(group, n)
				harmony = append(harmony, HARMONY_ADJACENT)
			}
		}
	} else if s.rng.Float64() < s.tuning.HarmonyProb {
		// A third or fifth up the scale instead of a neighbour.
		off := harmonyOffsets[s.rng.Intn(len(harmonyOffsets))]
		if n := primary + off; s.layout.InRange(n) {
			group = append(group, n)
			harmony = append(harmony, HARMONY_INTERVAL)
		}
	}

	events := make([]NoteEvent, 0, len(group))
	onset := at
	for i, bell := range group {
		if i > 0 {
			onset += SCHED_ROLL_MIN + s.rng.Float64()*(SCHED_ROLL_MAX-SCHED_ROLL_MIN)
		}
		vel := clampF(VEL_FLOOR+intensity*VEL_WIND+
			VEL_JIT_LO+s.rng.Float64()*(VEL_JIT_HI-VEL_JIT_LO), VEL_MIN, VEL_MAX)
		events = append(events, NoteEvent{
			Onset:    onset,
			Kind:     VOICE_BELL,
			Freq:     s.layout.Freq(bell),
			Velocity: vel,
			Pan:      s.layout.Pan(bell),
			Bell:     bell,
			Cluster:  len(group),
			Harmony:  harmony[i],
		})
		s.lastHit[bell] = onset
	}
	return events
}

func (s *Scheduler) availableBells(at float64) []int {
	available := make([]int, 0, s.layout.Len())
	for i := range s.lastHit {
		if at-s.lastHit[i] >= s.tuning.Cooldown {
			available = append(available, i)
		}
	}
	return available
}
