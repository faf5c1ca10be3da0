// Package route holds the multi-objective cost type shared by every
// planner and the evaluation of complete client visit orders.
package route

import (
	"dronerouting/internal/graph"
)

// Cost scores a route or partial route on the three planning objectives.
// All three accumulate additively along a route.
type Cost struct {
	Distance  float64 `json:"distance"`
	Risk      float64 `json:"risk"`
	Recharges int     `json:"recharges"`
}

// Add folds one transfer leg into the cost.
func (c Cost) Add(t graph.Transfer) Cost {
	return Cost{
		Distance:  c.Distance + t.Distance,
		Risk:      c.Risk + t.Risk,
		Recharges: c.Recharges + t.Recharges,
	}
}

// Dominates reports whether c is at least as good as other on every
// objective and strictly better on at least one.
func (c Cost) Dominates(other Cost) bool {
	if c.Distance > other.Distance || c.Risk > other.Risk || c.Recharges > other.Recharges {
		return false
	}
	return c.Distance < other.Distance || c.Risk < other.Risk || c.Recharges < other.Recharges
}

// Weights scalarize a Cost for the greedy heuristic and the annealer.
type Weights struct {
	Distance  float64 `json:"distance" mapstructure:"distance"`
	Risk      float64 `json:"risk" mapstructure:"risk"`
	Recharges float64 `json:"recharges" mapstructure:"recharges"`
}

// DefaultWeights order the objectives recharges >> risk >> distance.
func DefaultWeights() Weights {
	return Weights{Distance: 1, Risk: 100, Recharges: 1000}
}

// Score collapses the cost into a single scalar under the given weights.
func (c Cost) Score(w Weights) float64 {
	return w.Distance*c.Distance + w.Risk*c.Risk + w.Recharges*float64(c.Recharges)
}

// Plan is a complete tour: a client visit order and its total cost.
type Plan struct {
	Order []string `json:"order"`
	Cost  Cost     `json:"cost"`
}

// EvaluateOrder prices the complete tour hub -> order... -> hub. It
// returns false if any leg has no feasible transfer, an expected outcome
// for orders that over-stretch the battery.
func EvaluateOrder(g *graph.Graph, order []string, startBattery float64) (Cost, bool) {
	battery := startBattery
	last := g.Hub
	var total Cost

	for _, client := range order {
		result, ok := g.Transfer(last, client, battery)
		if !ok {
			return Cost{}, false
		}
		total = total.Add(result)
		battery = result.BatteryLeft
		last = client
	}

	result, ok := g.Transfer(last, g.Hub, battery)
	if !ok {
		return Cost{}, false
	}
	return total.Add(result), true
}
