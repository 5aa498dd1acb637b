package core

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/weftlabs/weft/state"
)

// advRoute is one parsed entry of a distance-vector update.
type advRoute struct {
	Dest   state.Addr
	Metric float64
	Hops   int
}

// encodeRoutes renders the table as "dest:metric:hops" triples joined
// by commas, sorted by destination so updates are deterministic.
func encodeRoutes(table map[state.Addr]RouteEntry) string {
	dests := make([]state.Addr, 0, len(table))
	for d := range table {
		dests = append(dests, d)
	}
	sort.Slice(dests, func(i, j int) bool { return dests[i] < dests[j] })

	var b strings.Builder
	for i, d := range dests {
		if i > 0 {
			b.WriteByte(',')
		}
		e := table[d]
		fmt.Fprintf(&b, "%d:%g:%d", e.Dest, e.Metric, e.HopCount)
	}
	return b.String()
}

// parseRoutes is the inverse of encodeRoutes. Malformed entries are
// skipped rather than failing the whole update.
func parseRoutes(s string) []advRoute {
	if s == "" {
		return nil
	}
	var out []advRoute
	for _, entry := range strings.Split(s, ",") {
		fields := strings.Split(entry, ":")
		if len(fields) != 3 {
			continue
		}
		dest, err := strconv.ParseInt(fields[0], 10, 64)
		if err != nil {
			continue
		}
		metric, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			continue
		}
		hops, err := strconv.Atoi(fields[2])
		if err != nil {
			continue
		}
		out = append(out, advRoute{Dest: state.Addr(dest), Metric: metric, Hops: hops})
	}
	return out
}

// pathResult is the outcome of the shortest-path computation for one
// reachable router: the first-hop port from the origin plus the summed
// cost and hop count of the winning path.
type pathResult struct {
	Port int
	Cost float64
	Hops int
}

type spEdge struct {
	to   state.Addr
	cost float64
	port int
}

// shortestPaths runs Dijkstra over the link-state database from origin.
// Ties break on fewer hops, then on the lowest first-hop port, so two
// routers with identical databases install identical tables.
func shortestPaths(origin state.Addr, lsdb map[LsKey]LinkStateRecord) map[state.Addr]pathResult {
	adj := make(map[state.Addr][]spEdge)
	for key, rec := range lsdb {
		if rec.Neighbor == 0 {
			continue
		}
		adj[key.Origin] = append(adj[key.Origin], spEdge{
			to:   rec.Neighbor,
			cost: rec.Cost,
			port: key.LinkID,
		})
	}
	for _, edges := range adj {
		sort.Slice(edges, func(i, j int) bool {
			if edges[i].to != edges[j].to {
				return edges[i].to < edges[j].to
			}
			return edges[i].port < edges[j].port
		})
	}

	dist := map[state.Addr]pathResult{origin: {Port: -1, Cost: 0, Hops: 0}}
	visited := make(map[state.Addr]bool)

	for {
		// pick the unvisited node with the smallest distance; the
		// graphs here are tiny so a scan beats heap bookkeeping
		var cur state.Addr
		found := false
		for node, d := range dist {
			if visited[node] {
				continue
			}
			if !found || better(d, dist[cur]) || (d.Cost == dist[cur].Cost && d.Hops == dist[cur].Hops && node < cur) {
				cur = node
				found = true
			}
		}
		if !found {
			break
		}
		visited[cur] = true

		for _, e := range adj[cur] {
			cand := pathResult{
				Port: dist[cur].Port,
				Cost: dist[cur].Cost + e.cost,
				Hops: dist[cur].Hops + 1,
			}
			if cur == origin {
				cand.Port = e.port
			}
			old, ok := dist[e.to]
			if !ok || better(cand, old) {
				dist[e.to] = cand
			}
		}
	}

	delete(dist, origin)
	return dist
}

// better reports whether a wins over b under the cost, hops, lowest-port
// ordering.
func better(a, b pathResult) bool {
	if a.Cost != b.Cost {
		return a.Cost < b.Cost
	}
	if a.Hops != b.Hops {
		return a.Hops < b.Hops
	}
	return a.Port < b.Port
}
