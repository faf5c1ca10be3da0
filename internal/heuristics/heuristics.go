// Package heuristics provides the two constructive route builders. Both
// consume the graph exclusively through Transfer and produce a complete
// tour or report that they got stuck, which is an expected outcome on
// tight instances.
package heuristics

import (
	"sort"

	"dronerouting/internal/graph"
	"dronerouting/internal/route"
)

// NearestFeasible builds a tour by repeatedly flying to the closest
// unvisited client with a feasible transfer, then returning to the hub.
func NearestFeasible(g *graph.Graph, startBattery float64) (route.Plan, bool) {
	remaining := make(map[string]bool, len(g.Clients))
	for _, client := range g.Clients {
		remaining[client] = true
	}

	var (
		order   []string
		total   route.Cost
		last    = g.Hub
		battery = startBattery
	)

	for len(remaining) > 0 {
		type candidate struct {
			client string
			result graph.Transfer
		}
		var candidates []candidate

		// Fixed client order keeps the sort below deterministic.
		for _, client := range g.Clients {
			if !remaining[client] {
				continue
			}
			if result, ok := g.Transfer(last, client, battery); ok {
				candidates = append(candidates, candidate{client: client, result: result})
			}
		}
		if len(candidates) == 0 {
			return route.Plan{}, false
		}

		sort.SliceStable(candidates, func(i, j int) bool {
			return candidates[i].result.Distance < candidates[j].result.Distance
		})

		chosen := candidates[0]
		total = total.Add(chosen.result)
		battery = chosen.result.BatteryLeft
		order = append(order, chosen.client)
		delete(remaining, chosen.client)
		last = chosen.client
	}

	result, ok := g.Transfer(last, g.Hub, battery)
	if !ok {
		return route.Plan{}, false
	}
	return route.Plan{Order: order, Cost: total.Add(result)}, true
}

// GreedyWeighted builds a tour by taking, at every step, the unvisited
// client whose transfer minimizes the weighted scalar cost. Ties go to
// the earliest client in graph order.
func GreedyWeighted(g *graph.Graph, startBattery float64, w route.Weights) (route.Plan, bool) {
	remaining := make(map[string]bool, len(g.Clients))
	for _, client := range g.Clients {
		remaining[client] = true
	}

	var (
		order   []string
		total   route.Cost
		last    = g.Hub
		battery = startBattery
	)

	for len(remaining) > 0 {
		var (
			bestClient string
			bestResult graph.Transfer
			bestScore  float64
			found      bool
		)

		for _, client := range g.Clients {
			if !remaining[client] {
				continue
			}
			result, ok := g.Transfer(last, client, battery)
			if !ok {
				continue
			}

			score := route.Cost{
				Distance:  result.Distance,
				Risk:      result.Risk,
				Recharges: result.Recharges,
			}.Score(w)

			if !found || score < bestScore {
				found = true
				bestScore = score
				bestClient = client
				bestResult = result
			}
		}
		if !found {
			return route.Plan{}, false
		}

		total = total.Add(bestResult)
		battery = bestResult.BatteryLeft
		order = append(order, bestClient)
		delete(remaining, bestClient)
		last = bestClient
	}

	result, ok := g.Transfer(last, g.Hub, battery)
	if !ok {
		return route.Plan{}, false
	}
	return route.Plan{Order: order, Cost: total.Add(result)}, true
}
