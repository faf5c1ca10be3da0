package graph

import (
	"github.com/dhconnelly/rtreego"

	"dronerouting/internal/geometry"
)

// zoneEntry wraps a polygon for R-tree storage.
type zoneEntry struct {
	polygon *geometry.Polygon
	factor  float64 // risk multiplier; unused for forbidden zones
	rect    rtreego.Rect
}

// Bounds implements rtreego.Spatial.
func (e *zoneEntry) Bounds() rtreego.Rect {
	return e.rect
}

// zoneIndex answers "which zones could this segment touch" via an R-tree
// over polygon bounding boxes, so graph construction tests each candidate
// edge against nearby zones only instead of every zone on the map.
type zoneIndex struct {
	tree *rtreego.Rtree
}

func newZoneIndex(entries []*zoneEntry) *zoneIndex {
	tree := rtreego.NewTree(2, 25, 50)
	for _, e := range entries {
		tree.Insert(e)
	}
	return &zoneIndex{tree: tree}
}

// candidates returns the zones whose bounding box intersects the
// segment's bounding box, Epsilon-padded. Exact segment-polygon tests
// remain the caller's job.
func (ix *zoneIndex) candidates(seg geometry.Segment) []*zoneEntry {
	b := seg.Bounds()
	rect, err := rtreego.NewRect(
		rtreego.Point{b.MinX - geometry.Epsilon, b.MinY - geometry.Epsilon},
		[]float64{b.MaxX - b.MinX + 2*geometry.Epsilon, b.MaxY - b.MinY + 2*geometry.Epsilon},
	)
	if err != nil {
		return nil
	}

	results := ix.tree.SearchIntersect(rect)
	entries := make([]*zoneEntry, 0, len(results))
	for _, item := range results {
		entries = append(entries, item.(*zoneEntry))
	}
	return entries
}

// newZoneEntry builds an R-tree entry from a polygon's bounding box.
// Zero-extent boxes are padded so rtreego accepts them.
func newZoneEntry(polygon *geometry.Polygon, factor float64) (*zoneEntry, error) {
	b := polygon.Bounds()
	rect, err := rtreego.NewRect(
		rtreego.Point{b.MinX - geometry.Epsilon, b.MinY - geometry.Epsilon},
		[]float64{b.MaxX - b.MinX + 2*geometry.Epsilon, b.MaxY - b.MinY + 2*geometry.Epsilon},
	)
	if err != nil {
		return nil, err
	}
	return &zoneEntry{polygon: polygon, factor: factor, rect: rect}, nil
}
