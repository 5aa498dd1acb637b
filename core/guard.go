package core

import (
	"time"

	"github.com/weftlabs/weft/state"
)

// GenerateCookie builds a stateless SYN cookie for (src, dst, seq). The
// responder can validate a later echo of the cookie without remembering
// the half-open connection, which is the whole anti-flood point.
func GenerateCookie(src, dst state.Addr, seq int64) state.Cookie {
	mixed := (int64(src) ^ int64(dst) ^ seq ^ state.CookieSecret) & 0xFFFFFF
	return state.Cookie(mixed | seq<<24)
}

// ValidateCookie recomputes the expected cookie and compares the token
// bits.
func ValidateCookie(cookie state.Cookie, src, dst state.Addr, seq int64) bool {
	expected := GenerateCookie(src, dst, seq)
	return cookie&0xFFFFFF == expected&0xFFFFFF
}

// SynCookieGuard tracks per-source request pressure. Generic request
// counters clear wholesale at every window boundary (a periodic reset,
// not a sliding window); SYN activity is additionally swept so sources
// quiet for SynActivityWindow are forgotten.
type SynCookieGuard struct {
	limit int

	requests  map[state.Addr]int
	synCounts map[state.Addr]int
	synSeen   map[state.Addr]time.Duration

	Rejected int
}

func NewSynCookieGuard(limit int) *SynCookieGuard {
	return &SynCookieGuard{
		limit:     limit,
		requests:  make(map[state.Addr]int),
		synCounts: make(map[state.Addr]int),
		synSeen:   make(map[state.Addr]time.Duration),
	}
}

// Admit counts one generic request from src in the current window and
// reports whether it is under the limit.
func (g *SynCookieGuard) Admit(src state.Addr) bool {
	g.requests[src]++
	if g.requests[src] > g.limit {
		g.Rejected++
		return false
	}
	return true
}

// AdmitSyn counts one connection request from src and reports whether it
// is under the limit.
func (g *SynCookieGuard) AdmitSyn(src state.Addr, now time.Duration) bool {
	g.synCounts[src]++
	g.synSeen[src] = now
	if g.synCounts[src] > g.limit {
		g.Rejected++
		return false
	}
	return true
}

// ResetWindow clears every generic request counter. Called at each
// window boundary.
func (g *SynCookieGuard) ResetWindow() {
	clear(g.requests)
}

// Sweep evicts SYN activity not refreshed within SynActivityWindow.
func (g *SynCookieGuard) Sweep(now time.Duration) {
	for src, seen := range g.synSeen {
		if now-seen > state.SynActivityWindow {
			delete(g.synSeen, src)
			delete(g.synCounts, src)
		}
	}
}
