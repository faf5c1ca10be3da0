// Package geometry provides the 2D primitives and predicates used to
// validate drone flight segments against map polygons. It is a pure
// support layer with no knowledge of routing.
package geometry

import (
	"errors"
	"math"
)

// Epsilon is the tolerance applied to every floating-point comparison.
const Epsilon = 1e-9

// ErrDegeneratePolygon is returned when a polygon has fewer than 3 vertices.
var ErrDegeneratePolygon = errors.New("geometry: polygon needs at least 3 vertices")

// Point is a position in the plane.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Distance calculates the Euclidean distance to another point.
func (p Point) Distance(other Point) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Segment is a directed line segment between two points. It models both
// flight legs and polygon edges.
type Segment struct {
	A, B Point
}

// Bounds returns the tight axis-aligned bounding box of the segment.
func (s Segment) Bounds() Rect {
	return Rect{
		MinX: math.Min(s.A.X, s.B.X),
		MinY: math.Min(s.A.Y, s.B.Y),
		MaxX: math.Max(s.A.X, s.B.X),
		MaxY: math.Max(s.A.Y, s.B.Y),
	}
}

// Rect is an axis-aligned bounding box.
type Rect struct {
	MinX, MinY, MaxX, MaxY float64
}

// Intersects reports whether two boxes overlap, with Epsilon padding so
// that boxes touching along an edge still count as intersecting.
func (r Rect) Intersects(other Rect) bool {
	if r.MaxX < other.MinX-Epsilon || other.MaxX < r.MinX-Epsilon {
		return false
	}
	if r.MaxY < other.MinY-Epsilon || other.MaxY < r.MinY-Epsilon {
		return false
	}
	return true
}

// Contains reports whether other lies entirely inside r.
func (r Rect) Contains(other Rect) bool {
	return other.MinX >= r.MinX && other.MaxX <= r.MaxX &&
		other.MinY >= r.MinY && other.MaxY <= r.MaxY
}

// Polygon is an ordered, closed sequence of at least 3 vertices. The edge
// list is derived lazily and cached; the bounding box is computed at
// construction time.
type Polygon struct {
	vertices []Point
	edges    []Segment
	bounds   Rect
}

// NewPolygon validates the vertex list and builds a polygon.
func NewPolygon(vertices []Point) (*Polygon, error) {
	if len(vertices) < 3 {
		return nil, ErrDegeneratePolygon
	}

	owned := make([]Point, len(vertices))
	copy(owned, vertices)

	bounds := Rect{MinX: owned[0].X, MinY: owned[0].Y, MaxX: owned[0].X, MaxY: owned[0].Y}
	for _, v := range owned[1:] {
		bounds.MinX = math.Min(bounds.MinX, v.X)
		bounds.MinY = math.Min(bounds.MinY, v.Y)
		bounds.MaxX = math.Max(bounds.MaxX, v.X)
		bounds.MaxY = math.Max(bounds.MaxY, v.Y)
	}

	return &Polygon{vertices: owned, bounds: bounds}, nil
}

// Vertices returns the vertex list. The slice must not be mutated.
func (p *Polygon) Vertices() []Point {
	return p.vertices
}

// Bounds returns the tight axis-aligned bounding box over the vertices.
func (p *Polygon) Bounds() Rect {
	return p.bounds
}

// Edges returns the consecutive vertex pairs, wrapping from the last
// vertex back to the first. Built on first access and cached.
func (p *Polygon) Edges() []Segment {
	if p.edges == nil {
		n := len(p.vertices)
		p.edges = make([]Segment, n)
		for i := 0; i < n; i++ {
			p.edges[i] = Segment{A: p.vertices[i], B: p.vertices[(i+1)%n]}
		}
	}
	return p.edges
}

// Turn calculates twice the signed area of triangle (a, b, c). The sign
// gives the orientation of the turn at b seen from a; magnitudes below
// Epsilon are treated as collinear.
func Turn(a, b, c Point) float64 {
	return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
}

// onSegment checks whether c lies within the bounding box of segment ab,
// Epsilon-padded. Only meaningful after collinearity with ab has been
// established via Turn.
func onSegment(a, b, c Point) bool {
	return c.X >= math.Min(a.X, b.X)-Epsilon && c.X <= math.Max(a.X, b.X)+Epsilon &&
		c.Y >= math.Min(a.Y, b.Y)-Epsilon && c.Y <= math.Max(a.Y, b.Y)+Epsilon
}

// PointInPolygon determines whether a point lies inside a polygon using
// even-odd ray casting, after a bounding-box fast reject. A point on the
// boundary belongs to the polygon iff includeBoundary is set.
func PointInPolygon(a Point, p *Polygon, includeBoundary bool) bool {
	b := p.Bounds()
	if a.X < b.MinX-Epsilon || a.X > b.MaxX+Epsilon ||
		a.Y < b.MinY-Epsilon || a.Y > b.MaxY+Epsilon {
		return false
	}

	// Boundary cases are resolved before casting the ray.
	for _, edge := range p.Edges() {
		if math.Abs(Turn(edge.A, edge.B, a)) <= Epsilon && onSegment(edge.A, edge.B, a) {
			return includeBoundary
		}
	}

	inside := false
	vertices := p.vertices
	n := len(vertices)

	for i := 0; i < n; i++ {
		va := vertices[i]
		vb := vertices[(i+1)%n]

		// Only edges straddling the horizontal through a can cross the
		// +x ray; this also keeps the division below away from zero.
		if (va.Y > a.Y) == (vb.Y > a.Y) {
			continue
		}

		intersectionX := va.X + (a.Y-va.Y)*(vb.X-va.X)/(vb.Y-va.Y)
		if intersectionX > a.X {
			inside = !inside
		}
	}

	return inside
}

// SegmentsIntersect checks whether two segments intersect. A proper
// crossing is detected via opposite-sign turn tests on both segments.
// Collinear touches are handled separately: a touch at a shared endpoint
// only counts when includeEndpoints is set.
func SegmentsIntersect(s1, s2 Segment, includeEndpoints bool) bool {
	a, b := s1.A, s1.B
	c, d := s2.A, s2.B

	turnABC := Turn(a, b, c)
	turnABD := Turn(a, b, d)
	turnCDA := Turn(c, d, a)
	turnCDB := Turn(c, d, b)

	if ((turnABC > Epsilon && turnABD < -Epsilon) || (turnABC < -Epsilon && turnABD > Epsilon)) &&
		((turnCDA > Epsilon && turnCDB < -Epsilon) || (turnCDA < -Epsilon && turnCDB > Epsilon)) {
		return true
	}

	if math.Abs(turnABC) <= Epsilon && onSegment(a, b, c) {
		return includeEndpoints || (c != a && c != b)
	}
	if math.Abs(turnABD) <= Epsilon && onSegment(a, b, d) {
		return includeEndpoints || (d != a && d != b)
	}
	if math.Abs(turnCDA) <= Epsilon && onSegment(c, d, a) {
		return includeEndpoints || (a != c && a != d)
	}
	if math.Abs(turnCDB) <= Epsilon && onSegment(c, d, b) {
		return includeEndpoints || (b != c && b != d)
	}

	return false
}

// SegmentIntersectsPolygon checks whether a segment touches or crosses
// any edge of a polygon. includeBoundary controls whether endpoint-only
// contacts with polygon edges count.
func SegmentIntersectsPolygon(seg Segment, p *Polygon, includeBoundary bool) bool {
	if !seg.Bounds().Intersects(p.Bounds()) {
		return false
	}

	for _, edge := range p.Edges() {
		if SegmentsIntersect(seg, edge, includeBoundary) {
			return true
		}
	}
	return false
}

// SegmentCrossesPolygon checks whether a segment passes through the
// interior of a polygon, as opposed to merely touching its boundary. A
// segment with exactly one endpoint strictly inside crosses; otherwise
// the segment crosses iff its boundary-inclusive edge intersections
// number two or more, which separates a segment slicing through the
// polygon from one that stays inside or outside it.
func SegmentCrossesPolygon(seg Segment, p *Polygon) bool {
	aInside := PointInPolygon(seg.A, p, false)
	bInside := PointInPolygon(seg.B, p, false)

	if aInside != bInside {
		return true
	}

	count := 0
	for _, edge := range p.Edges() {
		if SegmentsIntersect(seg, edge, true) {
			count++
			if count >= 2 {
				return true
			}
		}
	}
	return false
}
