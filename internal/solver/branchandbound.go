// Package solver implements the exact Branch & Bound search for the
// Pareto-optimal set of hub -> all clients -> hub tours under the
// battery and recharge model.
package solver

import (
	"errors"
	"sort"

	"dronerouting/internal/graph"
	"dronerouting/internal/route"
)

// ErrTooManyClients is returned when the client count exceeds the bitset
// the search keys partial states with. Exhaustive search is gated to far
// smaller instances anyway.
var ErrTooManyClients = errors.New("solver: more than 64 clients")

// stateKey identifies a partial-search state: the node the drone sits on
// and the set of clients already visited, as a bitmask over the fixed
// client index.
type stateKey struct {
	node    string
	visited uint64
}

// frontierEntry is one non-dominated (cost, battery) pair recorded for a
// state key.
type frontierEntry struct {
	cost    route.Cost
	battery float64
}

// dominates extends Pareto dominance with battery as a fourth, maximized
// dimension: more battery left is never worse for any continuation of
// the same partial route. Battery alone may supply the strict
// inequality.
func (e frontierEntry) dominates(o frontierEntry) bool {
	if e.cost.Distance > o.cost.Distance || e.cost.Risk > o.cost.Risk ||
		e.cost.Recharges > o.cost.Recharges || e.battery < o.battery {
		return false
	}
	return e.cost.Distance < o.cost.Distance || e.cost.Risk < o.cost.Risk ||
		e.cost.Recharges < o.cost.Recharges || e.battery > o.battery
}

// Solver runs the exhaustive permutation search with dominance pruning.
// A Solver instance owns mutable search state and must not be shared
// across concurrent Solve calls; the graph itself is read-only and safe
// to share between instances.
type Solver struct {
	g       *graph.Graph
	clients []string
	bit     map[string]uint64
	full    uint64

	pareto map[stateKey][]frontierEntry
	best   []route.Plan
}

// New builds a solver over the graph's clients.
func New(g *graph.Graph) (*Solver, error) {
	if len(g.Clients) > 64 {
		return nil, ErrTooManyClients
	}

	s := &Solver{
		g:       g,
		clients: g.Clients,
		bit:     make(map[string]uint64, len(g.Clients)),
	}
	for i, client := range g.Clients {
		s.bit[client] = 1 << uint(i)
		s.full |= 1 << uint(i)
	}
	return s, nil
}

// Solve searches every feasible client permutation from the hub and
// returns the Pareto-optimal tours over (distance, risk, recharges).
// Output order is fixed, so repeated calls return identical results.
func (s *Solver) Solve(startBattery float64) []route.Plan {
	s.pareto = make(map[stateKey][]frontierEntry)
	s.best = nil

	s.expand(s.g.Hub, 0, route.Cost{}, startBattery, nil)

	sort.Slice(s.best, func(i, j int) bool {
		a, b := s.best[i], s.best[j]
		if a.Cost.Distance != b.Cost.Distance {
			return a.Cost.Distance < b.Cost.Distance
		}
		if a.Cost.Risk != b.Cost.Risk {
			return a.Cost.Risk < b.Cost.Risk
		}
		if a.Cost.Recharges != b.Cost.Recharges {
			return a.Cost.Recharges < b.Cost.Recharges
		}
		return lessOrder(a.Order, b.Order)
	})

	result := make([]route.Plan, len(s.best))
	copy(result, s.best)
	return result
}

// expand recursively grows the partial route ending at last with the
// given visited set, accumulated cost and remaining battery.
func (s *Solver) expand(last string, visited uint64, cost route.Cost, battery float64, order []string) {
	key := stateKey{node: last, visited: visited}
	entry := frontierEntry{cost: cost, battery: battery}

	if s.isDominated(key, entry) {
		return
	}
	s.register(key, entry)

	if visited == s.full {
		result, ok := s.g.Transfer(last, s.g.Hub, battery)
		if !ok {
			return
		}
		s.tryComplete(order, cost.Add(result))
		return
	}

	for _, client := range s.clients {
		if visited&s.bit[client] != 0 {
			continue
		}
		result, ok := s.g.Transfer(last, client, battery)
		if !ok {
			continue
		}

		next := make([]string, len(order), len(order)+1)
		copy(next, order)
		next = append(next, client)

		s.expand(client, visited|s.bit[client], cost.Add(result), result.BatteryLeft, next)
	}
}

// isDominated checks the partial state against its Pareto frontier.
func (s *Solver) isDominated(key stateKey, entry frontierEntry) bool {
	for _, existing := range s.pareto[key] {
		if existing.dominates(entry) {
			return true
		}
	}
	return false
}

// register inserts the state into its frontier, dropping entries the
// newcomer dominates so every frontier stays mutually non-dominated.
func (s *Solver) register(key stateKey, entry frontierEntry) {
	frontier := s.pareto[key]

	kept := frontier[:0]
	for _, existing := range frontier {
		if !entry.dominates(existing) {
			kept = append(kept, existing)
		}
	}
	s.pareto[key] = append(kept, entry)
}

// tryComplete registers a finished tour unless an existing solution
// dominates it on (distance, risk, recharges); solutions the newcomer
// dominates are removed.
func (s *Solver) tryComplete(order []string, cost route.Cost) {
	for _, existing := range s.best {
		if existing.Cost.Dominates(cost) {
			return
		}
	}

	kept := s.best[:0]
	for _, existing := range s.best {
		if !cost.Dominates(existing.Cost) {
			kept = append(kept, existing)
		}
	}

	tour := make([]string, len(order))
	copy(tour, order)
	s.best = append(kept, route.Plan{Order: tour, Cost: cost})
}

func lessOrder(a, b []string) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}
