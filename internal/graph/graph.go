// Package graph models the drone's operating environment as a directed
// weighted graph and answers constrained reachability queries over it.
// Edges exist between node pairs whose straight segment avoids every
// forbidden zone; weights carry distance, accumulated risk and battery
// consumption. A graph is immutable once built and may be shared
// read-only across concurrent searches.
package graph

import (
	"dronerouting/internal/geometry"
)

// EdgeWeight is the cost of traversing one straight flight leg.
type EdgeWeight struct {
	Distance float64
	Risk     float64
	Battery  float64
}

// RiskZone pairs a polygon with its risk multiplier. A segment touching
// the zone accrues Factor times its length in risk.
type RiskZone struct {
	Polygon *geometry.Polygon
	Factor  float64
}

// Graph is the navigation graph. All fields are read-only after Build.
type Graph struct {
	MaxBattery float64

	Nodes     map[string]geometry.Point
	Clients   []string
	Recharges []string
	Hub       string

	ForbiddenZones []*geometry.Polygon
	RiskZones      []RiskZone

	// Edges[i][j] exists iff the straight segment i->j is clear of
	// every forbidden zone.
	Edges map[string]map[string]EdgeWeight

	rechargeSet map[string]struct{}
}

// IsRecharge reports whether the node grants a full battery reset that
// counts toward the recharge budget. The hub is not a recharge node.
func (g *Graph) IsRecharge(node string) bool {
	_, ok := g.rechargeSet[node]
	return ok
}

// EdgeCost returns the weight of the directed edge a->b, if it exists.
func (g *Graph) EdgeCost(a, b string) (EdgeWeight, bool) {
	w, ok := g.Edges[a][b]
	return w, ok
}
