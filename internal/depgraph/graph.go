package depgraph

import (
	"fmt"
	"slices"
	"sort"

	"fortio.org/safecast"

	"tracegen/internal/buildlog"
)

// TargetID is a dense node number inside a Graph.
type TargetID uint32

// Graph is the one-hop dependency relation restricted to a set of targets.
type Graph struct {
	Names []string            // Names[id] = target name, sorted
	IDs   map[string]TargetID // reverse of Names
	Edges [][]TargetID        // Edges[from] = dependencies of from
	Indeg []int               // number of dependents, for Kahn
}

// BuildGraph builds the dependency graph over targets. Edges leaving the
// set are dropped; self-dependencies are kept and show up as cycles.
func BuildGraph(targets []*buildlog.Target, idx *TargetIndex) Graph {
	byName := make(map[string]*buildlog.Target, len(targets))
	for _, t := range targets {
		byName[t.Name] = t
	}
	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)

	g := Graph{
		Names: names,
		IDs:   make(map[string]TargetID, len(names)),
		Edges: make([][]TargetID, len(names)),
		Indeg: make([]int, len(names)),
	}
	for i, name := range names {
		g.IDs[name] = mustID(i)
	}

	for from, name := range names {
		seen := make(map[TargetID]struct{})
		for _, dep := range OneHop(byName[name], idx) {
			to, ok := g.IDs[dep.Name]
			if !ok {
				continue
			}
			if _, dup := seen[to]; dup {
				continue
			}
			seen[to] = struct{}{}
			g.Edges[from] = append(g.Edges[from], to)
			g.Indeg[int(to)]++
		}
		if len(g.Edges[from]) > 1 {
			slices.Sort(g.Edges[from])
		}
	}
	return g
}

// Topo is the result of a Kahn toposort over a Graph.
type Topo struct {
	Order   []TargetID   // dependents before their dependencies
	Batches [][]TargetID // waves of targets whose dependents are all ordered
	Cyclic  bool
	Cycles  []TargetID // targets on or between dependency cycles
}

// Toposort runs Kahn's algorithm. Targets left over are trimmed of pure
// dependencies of a cycle, so Cycles only holds targets that sit on a cycle
// or on a path between two cycles.
func Toposort(g Graph) *Topo {
	nodeCount := len(g.Edges)
	indeg := make([]int, len(g.Indeg))
	copy(indeg, g.Indeg)

	topo := &Topo{Order: make([]TargetID, 0, nodeCount)}

	current := make([]TargetID, 0, nodeCount)
	for i := range nodeCount {
		if indeg[i] == 0 {
			current = append(current, mustID(i))
		}
	}

	for len(current) > 0 {
		batch := slices.Clone(current)
		topo.Batches = append(topo.Batches, batch)

		var next []TargetID
		for _, id := range batch {
			topo.Order = append(topo.Order, id)
			for _, to := range g.Edges[int(id)] {
				indeg[int(to)]--
				if indeg[int(to)] == 0 {
					next = append(next, to)
				}
			}
		}
		slices.Sort(next)
		current = next
	}

	if len(topo.Order) == nodeCount {
		return topo
	}

	topo.Cyclic = true
	remaining := make([]bool, nodeCount)
	for i := range nodeCount {
		remaining[i] = indeg[i] > 0
	}
	// drop targets that only sit below a cycle
	for changed := true; changed; {
		changed = false
		for i := range nodeCount {
			if !remaining[i] {
				continue
			}
			out := false
			for _, to := range g.Edges[i] {
				if remaining[int(to)] {
					out = true
					break
				}
			}
			if !out {
				remaining[i] = false
				changed = true
			}
		}
	}
	for i := range nodeCount {
		if remaining[i] {
			topo.Cycles = append(topo.Cycles, mustID(i))
		}
	}
	return topo
}

// CyclePath walks edges inside t.Cycles from its smallest member and
// returns one concrete cycle, first node repeated at the end.
func (t *Topo) CyclePath(g Graph) []TargetID {
	if t == nil || len(t.Cycles) == 0 {
		return nil
	}
	inCycle := make(map[TargetID]bool, len(t.Cycles))
	for _, id := range t.Cycles {
		inCycle[id] = true
	}
	pos := make(map[TargetID]int)
	var path []TargetID
	cur := t.Cycles[0]
	for {
		if at, seen := pos[cur]; seen {
			return append(path[at:], cur)
		}
		pos[cur] = len(path)
		path = append(path, cur)
		next, ok := TargetID(0), false
		for _, to := range g.Edges[int(cur)] {
			if inCycle[to] {
				next, ok = to, true
				break
			}
		}
		if !ok {
			// unreachable after trimming; every member has an edge inside the set
			return nil
		}
		cur = next
	}
}

// NamesOf maps ids to target names.
func (g Graph) NamesOf(ids []TargetID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = g.Names[int(id)]
	}
	return out
}

func mustID(i int) TargetID {
	id, err := safecast.Conv[TargetID](i)
	if err != nil {
		panic(fmt.Errorf("target id overflow: %w", err))
	}
	return id
}
