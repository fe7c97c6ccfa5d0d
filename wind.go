// wind.go - Wind intensity signal driving trigger density and velocity

package main

import (
	"math"
	"math/rand"
)

const (
	WIND_BASE_FLOOR = 0.3  // Resting intensity around which the slow cycle swings
	WIND_CYCLE_RATE = 0.02 // Radians per second for the slow swell
	WIND_WALK_STEP  = 0.04 // Max random-walk step per second
	WIND_GUST_PROB  = 0.1  // Chance of a gust per advance
	WIND_GUST_MIN   = 0.2
	WIND_GUST_MAX   = 0.4
	WIND_GUST_DECAY = 0.5 // Gust energy lost per second
)

// WindSignal is a bounded scalar process in [0,1]. A slow sinusoidal swell
// carries the long-term shape, a clamped random walk adds drift, and
// occasional gusts spike the value before decaying away. All randomness
// comes from the injected source, so a seeded signal replays exactly.
type WindSignal struct {
	rng   *rand.Rand
	t     float64
	walk  float64
	gust  float64
	level float64
}

func NewWindSignal(rng *rand.Rand) *WindSignal {
	return &WindSignal{rng: rng, level: WIND_BASE_FLOOR}
}

// Advance moves the signal forward by dt seconds and returns the current
// intensity. The result is always clamped to [0,1].
func (w *WindSignal) Advance(dt float64) float64 {
	w.t += dt

	// Slow swell between 0.3 and 1.0, same shape the composition breathes on.
	base := WIND_BASE_FLOOR + 0.7*(0.5+0.5*math.Sin(w.t*WIND_CYCLE_RATE))

	w.walk += (w.rng.Float64()*2 - 1) * WIND_WALK_STEP * dt
	if w.walk > 0.15 {
		w.walk = 0.15
	} else if w.walk < -0.15 {
		w.walk = -0.15
	}

	if w.rng.Float64() < WIND_GUST_PROB*dt {
		w.gust += WIND_GUST_MIN + w.rng.Float64()*(WIND_GUST_MAX-WIND_GUST_MIN)
	}
	w.gust -= w.gust * WIND_GUST_DECAY * dt
	if w.gust < 0 {
		w.gust = 0
	}

	w.level = clampF(base+w.walk+w.gust, 0, 1)
	return w.level
}

// Level returns the last computed intensity without advancing time.
func (w *WindSignal) Level() float64 {
	return w.level
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
