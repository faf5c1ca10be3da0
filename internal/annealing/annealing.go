// Package annealing improves a feasible client visit order with
// simulated annealing over the swap-two neighborhood.
package annealing

import (
	"math"
	"math/rand"

	"dronerouting/internal/graph"
	"dronerouting/internal/route"
)

// Options control one annealing run.
type Options struct {
	Seed       int64         `json:"seed" mapstructure:"seed"`
	Iterations int           `json:"iterations" mapstructure:"iterations"`
	T0         float64       `json:"t0" mapstructure:"t0"`
	Alpha      float64       `json:"alpha" mapstructure:"alpha"`
	Weights    route.Weights `json:"weights" mapstructure:"weights"`
}

// DefaultOptions returns the parameters the experiment harness runs with.
func DefaultOptions() Options {
	return Options{
		Seed:       0,
		Iterations: 5000,
		T0:         10.0,
		Alpha:      0.995,
		Weights:    route.DefaultWeights(),
	}
}

// Optimize anneals the initial order and returns the best feasible order
// found under the weighted scalar score. It returns false only when the
// initial order itself is infeasible.
func Optimize(g *graph.Graph, initial []string, startBattery float64, opts Options) (route.Plan, bool) {
	rng := rand.New(rand.NewSource(opts.Seed))

	current := make([]string, len(initial))
	copy(current, initial)

	currentCost, ok := route.EvaluateOrder(g, current, startBattery)
	if !ok {
		return route.Plan{}, false
	}
	currentScore := currentCost.Score(opts.Weights)

	best := make([]string, len(current))
	copy(best, current)
	bestCost := currentCost
	bestScore := currentScore

	temperature := opts.T0

	for iter := 0; iter < opts.Iterations; iter++ {
		candidate := swapNeighbor(current, rng)

		candidateCost, ok := route.EvaluateOrder(g, candidate, startBattery)
		if !ok {
			temperature *= opts.Alpha
			continue
		}

		candidateScore := candidateCost.Score(opts.Weights)
		delta := candidateScore - currentScore

		accept := delta <= 0
		if !accept && temperature > 1e-12 {
			accept = rng.Float64() < math.Exp(-delta/temperature)
		}

		if accept {
			current = candidate
			currentCost = candidateCost
			currentScore = candidateScore

			if currentScore < bestScore {
				best = make([]string, len(current))
				copy(best, current)
				bestCost = currentCost
				bestScore = currentScore
			}
		}

		temperature *= opts.Alpha
	}

	return route.Plan{Order: best, Cost: bestCost}, true
}

// swapNeighbor returns a copy of order with two distinct random
// positions exchanged.
func swapNeighbor(order []string, rng *rand.Rand) []string {
	neighbor := make([]string, len(order))
	copy(neighbor, order)
	if len(order) < 2 {
		return neighbor
	}

	i := rng.Intn(len(order))
	j := rng.Intn(len(order))
	for i == j {
		j = rng.Intn(len(order))
	}
	neighbor[i], neighbor[j] = neighbor[j], neighbor[i]
	return neighbor
}
