package graph

import (
	"container/heap"
)

// Transfer is the accumulated outcome of a feasible constrained path
// between two nodes.
type Transfer struct {
	Distance    float64
	Risk        float64
	Recharges   int
	BatteryLeft float64
}

// transferState is one entry in the best-first search over
// (node, recharges-used) states.
type transferState struct {
	recharges int
	distance  float64
	risk      float64
	node      string
	battery   float64
	index     int // heap index
}

// transferQueue implements heap.Interface. States are ordered
// lexicographically by (recharges, distance, risk); ties beyond that are
// broken by higher battery and then node id so results never depend on
// map iteration order.
type transferQueue []*transferState

func (q transferQueue) Len() int { return len(q) }

func (q transferQueue) Less(i, j int) bool {
	a, b := q[i], q[j]
	if a.recharges != b.recharges {
		return a.recharges < b.recharges
	}
	if a.distance != b.distance {
		return a.distance < b.distance
	}
	if a.risk != b.risk {
		return a.risk < b.risk
	}
	if a.battery != b.battery {
		return a.battery > b.battery
	}
	return a.node < b.node
}

func (q transferQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *transferQueue) Push(x any) {
	s := x.(*transferState)
	s.index = len(*q)
	*q = append(*q, s)
}

func (q *transferQueue) Pop() any {
	old := *q
	n := len(old)
	s := old[n-1]
	old[n-1] = nil
	*q = old[0 : n-1]
	return s
}

// batteryKey identifies a search state for closed-set pruning. Battery is
// the secondary criterion within a key: a popped state is expanded only
// if it improves on the best battery recorded for its key.
type batteryKey struct {
	node      string
	recharges int
}

// Transfer determines whether the drone can fly from start to goal with
// the given battery, recharging on the way if needed. Paths with fewer
// recharge stops win; among those, shorter and then less risky paths win.
// Arrival at a recharge node or the hub resets battery to MaxBattery;
// only non-hub arrivals count as recharge stops. The second return value
// is false when no feasible path exists, which is an expected outcome
// rather than an error.
func (g *Graph) Transfer(start, goal string, battery float64) (Transfer, bool) {
	queue := &transferQueue{}
	heap.Init(queue)
	heap.Push(queue, &transferState{node: start, battery: battery})

	bestBattery := make(map[batteryKey]float64)

	for queue.Len() > 0 {
		current := heap.Pop(queue).(*transferState)

		// A path cannot usefully stop to recharge more times than there
		// are recharge nodes.
		if current.recharges > len(g.Recharges) {
			continue
		}

		if current.node == goal {
			return Transfer{
				Distance:    current.distance,
				Risk:        current.risk,
				Recharges:   current.recharges,
				BatteryLeft: current.battery,
			}, true
		}

		key := batteryKey{node: current.node, recharges: current.recharges}
		if previous, seen := bestBattery[key]; seen && previous >= current.battery {
			continue
		}
		bestBattery[key] = current.battery

		for next, w := range g.Edges[current.node] {
			if w.Battery > current.battery {
				continue
			}

			newBattery := current.battery - w.Battery
			newRecharges := current.recharges

			if g.IsRecharge(next) || next == g.Hub {
				if next != g.Hub {
					newRecharges++
				}
				newBattery = g.MaxBattery
			}

			heap.Push(queue, &transferState{
				recharges: newRecharges,
				distance:  current.distance + w.Distance,
				risk:      current.risk + w.Risk,
				node:      next,
				battery:   newBattery,
			})
		}
	}

	return Transfer{}, false
}
