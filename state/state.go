package state

import (
	"log/slog"
	"math/rand/v2"
	"time"
)

// NodeId is the configuration-level name of a node. Addresses, not
// names, appear on the wire.
type NodeId string

// Env is the per-simulation environment shared by every module. The
// simulation is single-threaded: everything runs on the goroutine
// driving Env.Clock, so no module ever observes concurrent mutation of
// its state.
type Env struct {
	Clock *Clock
	CentralCfg
	Log  *slog.Logger
	Rand *rand.Rand
}

// SimTime is a slog attribute carrying the current virtual time.
func (e *Env) SimTime() slog.Attr {
	return slog.Duration("t", e.Clock.Now())
}

// Every runs fn each interval of virtual time, first firing one interval
// from now.
func (e *Env) Every(interval time.Duration, fn func()) {
	var tick func()
	tick = func() {
		fn()
		e.Clock.Schedule(interval, tick)
	}
	e.Clock.Schedule(interval, tick)
}

// EveryJittered runs fn each interval, with the first fire drawn
// uniformly from [0, jitter) to desynchronize periodic advertisements.
func (e *Env) EveryJittered(interval, jitter time.Duration, fn func()) {
	var tick func()
	tick = func() {
		fn()
		e.Clock.Schedule(interval, tick)
	}
	first := time.Duration(0)
	if jitter > 0 {
		first = time.Duration(e.Rand.Int64N(int64(jitter)))
	}
	e.Clock.Schedule(first, tick)
}
