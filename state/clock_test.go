package state

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClock_DeliversInTimeOrder(t *testing.T) {
	c := NewClock()
	var got []int
	c.Schedule(3*time.Second, func() { got = append(got, 3) })
	c.Schedule(1*time.Second, func() { got = append(got, 1) })
	c.Schedule(2*time.Second, func() { got = append(got, 2) })

	for c.Step() {
	}
	assert.Equal(t, []int{1, 2, 3}, got)
	assert.Equal(t, 3*time.Second, c.Now())
}

func TestClock_SameInstantFIFO(t *testing.T) {
	c := NewClock()
	var got []int
	for i := 0; i < 5; i++ {
		i := i
		c.Schedule(time.Second, func() { got = append(got, i) })
	}
	for c.Step() {
	}
	assert.Equal(t, []int{0, 1, 2, 3, 4}, got)
}

func TestClock_Cancel(t *testing.T) {
	c := NewClock()
	fired := false
	timer := c.Schedule(time.Second, func() { fired = true })
	timer.Cancel()

	assert.True(t, timer.Stopped())
	for c.Step() {
	}
	assert.False(t, fired)
}

func TestClock_ScheduleFromCallback(t *testing.T) {
	c := NewClock()
	var got []time.Duration
	c.Schedule(time.Second, func() {
		got = append(got, c.Now())
		c.Schedule(time.Second, func() {
			got = append(got, c.Now())
		})
	})
	for c.Step() {
	}
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, got)
}

func TestClock_SchedulePastFiresNow(t *testing.T) {
	c := NewClock()
	c.Schedule(5*time.Second, func() {})
	c.Step()
	assert.Equal(t, 5*time.Second, c.Now())

	timer := c.ScheduleAt(time.Second, func() {})
	assert.Equal(t, 5*time.Second, timer.When())
}

func TestClock_RunStopsAtDeadline(t *testing.T) {
	c := NewClock()
	early, late := false, false
	c.Schedule(2*time.Second, func() { early = true })
	c.Schedule(20*time.Second, func() { late = true })

	c.Run(10 * time.Second)
	assert.True(t, early)
	assert.False(t, late)
	assert.Equal(t, 10*time.Second, c.Now())
	assert.Equal(t, 1, c.Pending())
}
