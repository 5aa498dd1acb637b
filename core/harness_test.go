package core

import (
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/weftlabs/weft/state"
)

func newTestEnv(seed uint64) *state.Env {
	return &state.Env{
		Clock: state.NewClock(),
		Log:   slog.New(slog.DiscardHandler),
		Rand:  rand.New(rand.NewPCG(seed, seed)),
	}
}

// tap collects whatever the far end of a link receives.
type tap struct {
	msgs []state.Msg
}

func (t *tap) receive(m state.Msg) {
	t.msgs = append(t.msgs, m)
}

// newTestPort builds a port whose transmissions land in the returned tap
// once the clock drains.
func newTestPort(env *state.Env, index int) (*Port, *tap) {
	tp := &tap{}
	sched := NewTxScheduler(env.Clock, env.Log, state.DefaultBandwidth, time.Millisecond, tp.receive)
	return &Port{Index: index, sched: sched}, tp
}

func drain(env *state.Env) {
	for env.Clock.Step() {
	}
}
