package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dronerouting/internal/mapdata"
)

func buildGraph(t *testing.T, doc *mapdata.Document) *Graph {
	t.Helper()
	g, err := Build(doc)
	require.NoError(t, err)
	return g
}

// cityMap models the fixture used throughout: a hub at the origin, a
// client behind a no-fly rectangle, a reachable client, and a recharge
// node, plus one risk rectangle on the way to C2.
func cityMap() *mapdata.Document {
	return &mapdata.Document{
		MaxBattery: 100,
		Nodes: []mapdata.NodeRecord{
			{ID: "H", X: 0, Y: 0, Type: mapdata.TypeHub},
			{ID: "C1", X: 5, Y: 2, Type: mapdata.TypeClient},
			{ID: "C2", X: -3, Y: 4, Type: mapdata.TypeClient},
			{ID: "R1", X: 1, Y: 6, Type: mapdata.TypeRecharge},
		},
		ForbiddenZones: []mapdata.ZoneRecord{
			{Polygon: []mapdata.PointRecord{{X: 2, Y: 1}, {X: 4, Y: 1}, {X: 4, Y: 3}, {X: 2, Y: 3}}},
		},
		RiskZones: []mapdata.RiskZoneRecord{
			{Polygon: []mapdata.PointRecord{{X: -1, Y: 2}, {X: 1, Y: 2}, {X: 1, Y: 5}, {X: -1, Y: 5}}, RiskFactor: 0.5},
		},
	}
}

func TestBuildClassifiesNodes(t *testing.T) {
	g := buildGraph(t, cityMap())

	assert.Equal(t, "H", g.Hub)
	assert.Equal(t, []string{"C1", "C2"}, g.Clients)
	assert.Equal(t, []string{"R1"}, g.Recharges)
	assert.True(t, g.IsRecharge("R1"))
	assert.False(t, g.IsRecharge("H"))
	assert.False(t, g.IsRecharge("C1"))
}

func TestBuildConfigurationErrors(t *testing.T) {
	noHub := cityMap()
	noHub.Nodes[0].Type = mapdata.TypeClient
	_, err := Build(noHub)
	assert.ErrorIs(t, err, ErrNoHub)

	twoHubs := cityMap()
	twoHubs.Nodes[1].Type = mapdata.TypeHub
	_, err = Build(twoHubs)
	assert.ErrorIs(t, err, ErrMultipleHubs)

	duplicate := cityMap()
	duplicate.Nodes[2].ID = "C1"
	_, err = Build(duplicate)
	assert.ErrorIs(t, err, ErrDuplicateID)

	degenerate := cityMap()
	degenerate.ForbiddenZones[0].Polygon = degenerate.ForbiddenZones[0].Polygon[:2]
	_, err = Build(degenerate)
	assert.Error(t, err)
}

func TestBuildBlocksEdgesThroughForbiddenZones(t *testing.T) {
	g := buildGraph(t, cityMap())

	// H -> C1 pierces the no-fly rectangle.
	_, ok := g.EdgeCost("H", "C1")
	assert.False(t, ok)
	_, ok = g.EdgeCost("C1", "H")
	assert.False(t, ok)

	// H -> C2 is clear of it.
	w, ok := g.EdgeCost("H", "C2")
	require.True(t, ok)
	assert.InDelta(t, 5.0, w.Distance, 1e-9)
	assert.Equal(t, w.Distance, w.Battery)
}

func TestBuildAccumulatesRisk(t *testing.T) {
	g := buildGraph(t, cityMap())

	// H -> R1 passes through the risk rectangle: risk = factor * length.
	w, ok := g.EdgeCost("H", "R1")
	require.True(t, ok)
	assert.InDelta(t, 0.5*w.Distance, w.Risk, 1e-9)

	// H -> C2 passes left of it and accrues nothing.
	w, ok = g.EdgeCost("H", "C2")
	require.True(t, ok)
	assert.Zero(t, w.Risk)
}

func TestEdgeTouchingZoneBoundaryIsBlocked(t *testing.T) {
	doc := &mapdata.Document{
		MaxBattery: 50,
		Nodes: []mapdata.NodeRecord{
			{ID: "H", X: 0, Y: 1, Type: mapdata.TypeHub},
			{ID: "C", X: 6, Y: 1, Type: mapdata.TypeClient},
		},
		ForbiddenZones: []mapdata.ZoneRecord{
			// Rectangle whose bottom edge lies exactly on y=1.
			{Polygon: []mapdata.PointRecord{{X: 2, Y: 1}, {X: 4, Y: 1}, {X: 4, Y: 3}, {X: 2, Y: 3}}},
		},
	}
	g := buildGraph(t, doc)

	_, ok := g.EdgeCost("H", "C")
	assert.False(t, ok, "boundary contact blocks the edge")
}

func TestTransferDirect(t *testing.T) {
	doc := &mapdata.Document{
		MaxBattery: 100,
		Nodes: []mapdata.NodeRecord{
			{ID: "H", X: 0, Y: 0, Type: mapdata.TypeHub},
			{ID: "C", X: 3, Y: 4, Type: mapdata.TypeClient},
		},
	}
	g := buildGraph(t, doc)

	result, ok := g.Transfer("H", "C", 100)
	require.True(t, ok)
	assert.InDelta(t, 5.0, result.Distance, 1e-9)
	assert.Zero(t, result.Risk)
	assert.Zero(t, result.Recharges)
	assert.InDelta(t, 95.0, result.BatteryLeft, 1e-9)
}

func TestTransferRoutesThroughRecharge(t *testing.T) {
	doc := &mapdata.Document{
		MaxBattery: 8,
		Nodes: []mapdata.NodeRecord{
			{ID: "H", X: 0, Y: 0, Type: mapdata.TypeHub},
			{ID: "R", X: 0, Y: 6, Type: mapdata.TypeRecharge},
			{ID: "C", X: 0, Y: 12, Type: mapdata.TypeClient},
		},
	}
	g := buildGraph(t, doc)

	// Direct H -> C needs 12 battery, above the 8 available; via R both
	// legs cost 6 and the stop restores a full charge.
	result, ok := g.Transfer("H", "C", 8)
	require.True(t, ok)
	assert.Equal(t, 1, result.Recharges)
	assert.InDelta(t, 12.0, result.Distance, 1e-9)
	assert.InDelta(t, 2.0, result.BatteryLeft, 1e-9)
}

func TestTransferPrefersFewerRecharges(t *testing.T) {
	// A short path through a recharge stop competes with a longer
	// recharge-free path; fewer recharges is the primary criterion.
	doc := &mapdata.Document{
		MaxBattery: 30,
		Nodes: []mapdata.NodeRecord{
			{ID: "H", X: 0, Y: 0, Type: mapdata.TypeHub},
			{ID: "R", X: 5, Y: 1, Type: mapdata.TypeRecharge},
			{ID: "C", X: 10, Y: 0, Type: mapdata.TypeClient},
		},
	}
	g := buildGraph(t, doc)

	result, ok := g.Transfer("H", "C", 30)
	require.True(t, ok)
	assert.Zero(t, result.Recharges)
	assert.InDelta(t, 10.0, result.Distance, 1e-9)
}

func TestTransferHubRefuelsWithoutCounting(t *testing.T) {
	doc := &mapdata.Document{
		MaxBattery: 8,
		Nodes: []mapdata.NodeRecord{
			{ID: "C1", X: -6, Y: 0, Type: mapdata.TypeClient},
			{ID: "H", X: 0, Y: 0, Type: mapdata.TypeHub},
			{ID: "C2", X: 6, Y: 0, Type: mapdata.TypeClient},
			// Keep C1 -> C2 infeasible directly by distance (12 > 8);
			// passing through H refuels for free.
		},
	}
	g := buildGraph(t, doc)

	result, ok := g.Transfer("C1", "C2", 8)
	require.True(t, ok)
	assert.Zero(t, result.Recharges, "hub stop is not a recharge stop")
	assert.InDelta(t, 12.0, result.Distance, 1e-9)
	assert.InDelta(t, 2.0, result.BatteryLeft, 1e-9)
}

func TestTransferUnreachable(t *testing.T) {
	doc := &mapdata.Document{
		MaxBattery: 5,
		Nodes: []mapdata.NodeRecord{
			{ID: "H", X: 0, Y: 0, Type: mapdata.TypeHub},
			{ID: "R1", X: 0, Y: 3, Type: mapdata.TypeRecharge},
			{ID: "R2", X: 3, Y: 0, Type: mapdata.TypeRecharge},
			{ID: "C", X: 100, Y: 100, Type: mapdata.TypeClient},
		},
	}
	g := buildGraph(t, doc)

	// C is beyond battery range from everywhere. The recharge cycle
	// H/R1/R2 must not keep the search alive forever.
	_, ok := g.Transfer("H", "C", 5)
	assert.False(t, ok)
}

func TestTransferDeterministic(t *testing.T) {
	g := buildGraph(t, cityMap())

	first, ok := g.Transfer("H", "C2", 100)
	require.True(t, ok)
	for i := 0; i < 20; i++ {
		again, ok := g.Transfer("H", "C2", 100)
		require.True(t, ok)
		assert.Equal(t, first, again)
	}
}
