package graph

import (
	"errors"
	"fmt"

	"dronerouting/internal/geometry"
	"dronerouting/internal/mapdata"
)

// Configuration errors surfaced at construction time.
var (
	ErrNoHub        = errors.New("graph: map defines no hub")
	ErrMultipleHubs = errors.New("graph: map defines more than one hub")
	ErrDuplicateID  = errors.New("graph: duplicate node id")
	ErrUnknownType  = errors.New("graph: unknown node type")
)

// Build constructs the navigation graph from a validated map document.
// Node and zone order from the document is preserved so downstream
// searches are deterministic.
func Build(doc *mapdata.Document) (*Graph, error) {
	g := &Graph{
		MaxBattery:  doc.MaxBattery,
		Nodes:       make(map[string]geometry.Point, len(doc.Nodes)),
		Edges:       make(map[string]map[string]EdgeWeight, len(doc.Nodes)),
		rechargeSet: make(map[string]struct{}),
	}

	ids := make([]string, 0, len(doc.Nodes))
	for _, node := range doc.Nodes {
		if _, exists := g.Nodes[node.ID]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateID, node.ID)
		}
		g.Nodes[node.ID] = geometry.Point{X: node.X, Y: node.Y}
		ids = append(ids, node.ID)

		switch node.Type {
		case mapdata.TypeClient:
			g.Clients = append(g.Clients, node.ID)
		case mapdata.TypeRecharge:
			g.Recharges = append(g.Recharges, node.ID)
			g.rechargeSet[node.ID] = struct{}{}
		case mapdata.TypeHub:
			if g.Hub != "" {
				return nil, ErrMultipleHubs
			}
			g.Hub = node.ID
		default:
			return nil, fmt.Errorf("%w: %q (node %s)", ErrUnknownType, node.Type, node.ID)
		}
	}
	if g.Hub == "" {
		return nil, ErrNoHub
	}

	var err error
	g.ForbiddenZones, err = buildPolygons(doc.ForbiddenZones)
	if err != nil {
		return nil, err
	}
	for _, zone := range doc.RiskZones {
		polygon, perr := newPolygon(zone.Polygon)
		if perr != nil {
			return nil, perr
		}
		g.RiskZones = append(g.RiskZones, RiskZone{Polygon: polygon, Factor: zone.RiskFactor})
	}

	forbiddenIdx, riskIdx, err := buildZoneIndexes(g)
	if err != nil {
		return nil, err
	}

	for _, i := range ids {
		g.Edges[i] = make(map[string]EdgeWeight)
		for _, j := range ids {
			if i == j {
				continue
			}
			if w, ok := edgeBetween(g.Nodes[i], g.Nodes[j], forbiddenIdx, riskIdx); ok {
				g.Edges[i][j] = w
			}
		}
	}

	return g, nil
}

// edgeBetween evaluates the straight segment between two node positions.
// The segment is infeasible if it touches any forbidden zone, boundary
// included; otherwise risk accrues for every risk zone it touches.
func edgeBetween(a, b geometry.Point, forbidden, risk *zoneIndex) (EdgeWeight, bool) {
	seg := geometry.Segment{A: a, B: b}

	for _, entry := range forbidden.candidates(seg) {
		if geometry.SegmentIntersectsPolygon(seg, entry.polygon, true) {
			return EdgeWeight{}, false
		}
	}

	dist := a.Distance(b)
	w := EdgeWeight{Distance: dist, Battery: dist}

	for _, entry := range risk.candidates(seg) {
		if geometry.SegmentIntersectsPolygon(seg, entry.polygon, true) {
			w.Risk += entry.factor * dist
		}
	}

	return w, true
}

func buildZoneIndexes(g *Graph) (forbidden, risk *zoneIndex, err error) {
	forbiddenEntries := make([]*zoneEntry, 0, len(g.ForbiddenZones))
	for _, polygon := range g.ForbiddenZones {
		entry, err := newZoneEntry(polygon, 0)
		if err != nil {
			return nil, nil, fmt.Errorf("graph: index forbidden zone: %w", err)
		}
		forbiddenEntries = append(forbiddenEntries, entry)
	}

	riskEntries := make([]*zoneEntry, 0, len(g.RiskZones))
	for _, zone := range g.RiskZones {
		entry, err := newZoneEntry(zone.Polygon, zone.Factor)
		if err != nil {
			return nil, nil, fmt.Errorf("graph: index risk zone: %w", err)
		}
		riskEntries = append(riskEntries, entry)
	}

	return newZoneIndex(forbiddenEntries), newZoneIndex(riskEntries), nil
}

func buildPolygons(zones []mapdata.ZoneRecord) ([]*geometry.Polygon, error) {
	polygons := make([]*geometry.Polygon, 0, len(zones))
	for _, zone := range zones {
		polygon, err := newPolygon(zone.Polygon)
		if err != nil {
			return nil, err
		}
		polygons = append(polygons, polygon)
	}
	return polygons, nil
}

func newPolygon(records []mapdata.PointRecord) (*geometry.Polygon, error) {
	vertices := make([]geometry.Point, len(records))
	for i, r := range records {
		vertices[i] = geometry.Point{X: r.X, Y: r.Y}
	}
	return geometry.NewPolygon(vertices)
}
