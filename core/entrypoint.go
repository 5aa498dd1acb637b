package core

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"path"

	"github.com/encodeous/tint"
	"github.com/goccy/go-yaml"
	slogmulti "github.com/samber/slog-multi"
	"github.com/weftlabs/weft/state"
)

// Sim owns a fully wired scenario: the virtual clock, every node and
// every link scheduler.
type Sim struct {
	Env     *state.Env
	nodes   map[state.NodeId]Node
	byAddr  map[state.Addr]Node
	started bool
}

func readCentralConfig(configPath string) (*state.CentralCfg, error) {
	var cfg state.CentralCfg
	file, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}
	err = yaml.Unmarshal(file, &cfg)
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Bootstrap loads, validates and runs a scenario file from disk. It is
// the CLI's whole job; tests build a Sim directly instead.
func Bootstrap(configPath, logPath string, verbose bool) error {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	cfg, err := readCentralConfig(configPath)
	if err != nil {
		return err
	}
	state.ExpandConfig(cfg)
	err = state.CentralConfigValidator(cfg)
	if err != nil {
		return err
	}

	logger, err := buildLogger(level, logPath)
	if err != nil {
		return err
	}

	sim, err := New(*cfg, logger)
	if err != nil {
		return err
	}
	sim.Run()
	sim.LogSummary()
	return nil
}

func buildLogger(level slog.Level, logPath string) (*slog.Logger, error) {
	handlers := make([]slog.Handler, 0)
	handlers = append(handlers,
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:        level,
			AddSource:    false,
			CustomPrefix: "weft",
			ReplaceAttr: func(groups []string, attr slog.Attr) slog.Attr {
				if attr.Key == "time" {
					return slog.Attr{}
				}
				return attr
			},
		}))

	if logPath != "" {
		err := os.MkdirAll(path.Dir(logPath), 0700)
		if err != nil {
			return nil, err
		}
		f, err := os.OpenFile(logPath, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0700)
		if err != nil {
			return nil, err
		}
		handlers = append(handlers, slog.NewTextHandler(f, &slog.HandlerOptions{Level: level}))
	}

	return slog.New(slogmulti.Fanout(handlers...)), nil
}

// New wires a scenario: instantiates every node, builds one
// transmission scheduler per link direction and attaches the ports. The
// caller still has to Run it.
func New(cfg state.CentralCfg, logger *slog.Logger) (*Sim, error) {
	env := &state.Env{
		Clock:      state.NewClock(),
		CentralCfg: cfg,
		Log:        logger,
		Rand:       rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9E3779B97F4A7C15)),
	}

	s := &Sim{
		Env:    env,
		nodes:  make(map[state.NodeId]Node),
		byAddr: make(map[state.Addr]Node),
	}

	for _, n := range cfg.Nodes {
		var node Node
		if n.Role == state.RoleRouter {
			node = NewRouter(n)
		} else {
			node = NewHost(n, NewApp(n))
		}
		s.nodes[n.Id] = node
		s.byAddr[n.Address] = node
	}

	ports := make(map[state.NodeId][]*Port)
	for _, l := range cfg.Links {
		a, ok := s.nodes[l.A]
		if !ok {
			return nil, fmt.Errorf("link references unknown node %s", l.A)
		}
		b, ok := s.nodes[l.B]
		if !ok {
			return nil, fmt.Errorf("link references unknown node %s", l.B)
		}

		pa := &Port{Index: len(ports[l.A]), owner: a}
		pb := &Port{Index: len(ports[l.B]), owner: b}
		pa.remote = pb
		pb.remote = pa

		pa.sched = NewTxScheduler(env.Clock, logger.With("link", fmt.Sprintf("%s->%s", l.A, l.B)),
			l.Bandwidth, l.Delay, deliverTo(b, pb.Index))
		pb.sched = NewTxScheduler(env.Clock, logger.With("link", fmt.Sprintf("%s->%s", l.B, l.A)),
			l.Bandwidth, l.Delay, deliverTo(a, pa.Index))

		ports[l.A] = append(ports[l.A], pa)
		ports[l.B] = append(ports[l.B], pb)
	}

	for _, n := range cfg.Nodes {
		if len(ports[n.Id]) == 0 {
			return nil, fmt.Errorf("node %s has no links", n.Id)
		}
		s.nodes[n.Id].Attach(env, ports[n.Id])
	}
	return s, nil
}

func deliverTo(n Node, inPort int) func(state.Msg) {
	return func(m state.Msg) {
		n.Deliver(m, inPort)
	}
}

// Start arms every node's timers without running the clock. Tests that
// step time manually use this; Run calls it implicitly.
func (s *Sim) Start() {
	if s.started {
		return
	}
	s.started = true
	// config order, so identical seeds produce identical runs
	for _, n := range s.Env.Nodes {
		s.nodes[n.Id].Start()
	}
}

// Run drives the event clock until the configured end of the scenario.
func (s *Sim) Run() {
	s.Start()
	s.Env.Clock.Run(s.Env.RunFor)
}

// Host returns the host with the given id, nil if unknown or a router.
func (s *Sim) Host(id state.NodeId) *Host {
	h, _ := s.nodes[id].(*Host)
	return h
}

// Router returns the router with the given id, nil if unknown or a host.
func (s *Sim) Router(id state.NodeId) *Router {
	r, _ := s.nodes[id].(*Router)
	return r
}

// Node returns the node owning an address.
func (s *Sim) Node(addr state.Addr) Node {
	return s.byAddr[addr]
}

// LogSummary emits one line of traffic counters per node at the end of
// a run.
func (s *Sim) LogSummary() {
	for _, n := range s.Env.Nodes {
		switch node := s.nodes[n.Id].(type) {
		case *Host:
			s.Env.Log.Info("host summary", "node", n.Id,
				"sent", node.Stats.Sent,
				"received", node.Stats.Received,
				"dropped", node.Stats.Dropped,
				"cookie_drops", node.Endpoint.CookieDrops,
				"syn_drops", node.Endpoint.SynDrops)
		case *Router:
			s.Env.Log.Info("router summary", "node", n.Id,
				"received", node.Stats.Received,
				"forwarded", node.Stats.Forwarded,
				"flooded", node.Stats.Flooded,
				"syn_drops", node.SynDrops,
				"routes", len(node.table))
		}
	}
}
