package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/weftlabs/weft/state"
)

func dataMsg(prio state.Priority, tag string) state.Msg {
	return &state.UDPData{
		Header: state.Header{Src: 201, Dst: 301, Priority: prio, Size: state.DefaultMsgSize},
		App:    state.HTTPGet{Path: []byte(tag)},
	}
}

func msgTag(m state.Msg) string {
	return string(m.(*state.UDPData).App.(state.HTTPGet).Path)
}

func TestScheduler_SingleTransmissionAtATime(t *testing.T) {
	env := newTestEnv(1)
	port, _ := newTestPort(env, 0)
	s := port.Scheduler()

	port.Send(dataMsg(state.PriorityNormal, "a"))
	port.Send(dataMsg(state.PriorityNormal, "b"))
	assert.True(t, s.InFlight())
	assert.Equal(t, 1, s.QueueLen())
	assert.Equal(t, 1, s.Enqueued)

	drain(env)
	assert.False(t, s.InFlight())
	assert.Equal(t, 0, s.QueueLen())
	assert.Equal(t, 2, s.Transmitted)
}

func TestScheduler_PriorityDrainOrder(t *testing.T) {
	env := newTestEnv(1)
	port, tp := newTestPort(env, 0)

	// first message seizes the link; the rest queue and must drain
	// highest class first
	port.Send(dataMsg(state.PriorityNormal, "first"))
	port.Send(dataMsg(state.PriorityLow, "low"))
	port.Send(dataMsg(state.PriorityNormal, "normal"))
	port.Send(dataMsg(state.PriorityHigh, "high"))
	port.Send(dataMsg(state.PriorityCritical, "critical"))

	drain(env)
	var got []string
	for _, m := range tp.msgs {
		got = append(got, msgTag(m))
	}
	assert.Equal(t, []string{"first", "critical", "high", "normal", "low"}, got)
}

func TestScheduler_FIFOWithinClass(t *testing.T) {
	env := newTestEnv(1)
	port, tp := newTestPort(env, 0)

	port.Send(dataMsg(state.PriorityNormal, "first"))
	port.Send(dataMsg(state.PriorityNormal, "a"))
	port.Send(dataMsg(state.PriorityNormal, "b"))
	port.Send(dataMsg(state.PriorityNormal, "c"))

	drain(env)
	var got []string
	for _, m := range tp.msgs {
		got = append(got, msgTag(m))
	}
	assert.Equal(t, []string{"first", "a", "b", "c"}, got)
}

func TestScheduler_IdleLinkTransmitsImmediately(t *testing.T) {
	env := newTestEnv(1)
	port, tp := newTestPort(env, 0)
	s := port.Scheduler()

	port.Send(dataMsg(state.PriorityLow, "only"))
	assert.Equal(t, 0, s.Enqueued)
	drain(env)
	assert.Len(t, tp.msgs, 1)
}
