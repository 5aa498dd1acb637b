package state

import "time"

// One simulated time-unit is one virtual second.
var (
	// RetransmitDelay is the fixed SYN retransmit timeout. A single
	// retransmit attempt is modeled; there is no backoff.
	RetransmitDelay = 3 * time.Second

	// RateWindow is the reset cycle for per-source request counters.
	// All counters clear at each window boundary.
	RateWindow = 1 * time.Second

	// SynActivityWindow bounds how long per-source SYN activity is
	// remembered before the sweep evicts it.
	SynActivityWindow = 60 * time.Second

	// RIPInfinity is the hop count at which a route is unreachable.
	RIPInfinity = 16

	// Congestion control starting points.
	InitialCwnd     = 1.0
	InitialSsthresh = 64.0

	// DefaultMsgSize is the modeled size of a message in bytes.
	DefaultMsgSize = 1000

	// DefaultBandwidth is the link bandwidth in Mbps when a link does
	// not specify one.
	DefaultBandwidth = 100.0

	// DefaultLinkDelay is the one-way propagation delay when a link
	// does not specify one.
	DefaultLinkDelay = 1 * time.Millisecond

	// Default periodic advertisement intervals.
	DefaultRIPUpdateInterval = 30 * time.Second
	DefaultHelloInterval     = 10 * time.Second
	DefaultLSAInterval       = 15 * time.Second

	// DefaultRateLimit caps per-source requests per RateWindow.
	DefaultRateLimit = 100

	// DefaultRunFor is how long a scenario runs when the config does
	// not say.
	DefaultRunFor = 120 * time.Second

	// CookieSecret seeds stateless SYN cookie generation. Shared by
	// every node, as in the modeled network.
	CookieSecret = int64(0x5EED)
)
