package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// square returns the no-fly rectangle used across the map fixtures:
// x in [2,4], y in [1,3].
func square(t *testing.T) *Polygon {
	t.Helper()
	p, err := NewPolygon([]Point{
		{X: 2, Y: 1},
		{X: 4, Y: 1},
		{X: 4, Y: 3},
		{X: 2, Y: 3},
	})
	require.NoError(t, err)
	return p
}

func TestNewPolygonDegenerate(t *testing.T) {
	_, err := NewPolygon([]Point{{X: 0, Y: 0}, {X: 1, Y: 1}})
	assert.ErrorIs(t, err, ErrDegeneratePolygon)
}

func TestPolygonEdgesAndBounds(t *testing.T) {
	p := square(t)

	edges := p.Edges()
	require.Len(t, edges, 4)
	assert.Equal(t, Segment{A: Point{X: 2, Y: 3}, B: Point{X: 2, Y: 1}}, edges[3])

	assert.Equal(t, Rect{MinX: 2, MinY: 1, MaxX: 4, MaxY: 3}, p.Bounds())
}

func TestDistance(t *testing.T) {
	a := Point{X: 0, Y: 0}
	b := Point{X: 3, Y: 4}
	c := Point{X: -1, Y: 7}

	assert.InDelta(t, 5.0, a.Distance(b), Epsilon)
	assert.Equal(t, a.Distance(b), b.Distance(a))
	assert.Zero(t, a.Distance(a))

	// Triangle inequality.
	assert.LessOrEqual(t, a.Distance(c), a.Distance(b)+b.Distance(c))
}

func TestTurnOrientation(t *testing.T) {
	a := Point{X: 0, Y: 0}
	b := Point{X: 1, Y: 0}

	assert.Positive(t, Turn(a, b, Point{X: 1, Y: 1}))
	assert.Negative(t, Turn(a, b, Point{X: 1, Y: -1}))
	assert.InDelta(t, 0.0, Turn(a, b, Point{X: 2, Y: 0}), Epsilon)
}

func TestPointInPolygonOutsideBounds(t *testing.T) {
	p := square(t)

	for _, pt := range []Point{
		{X: 10, Y: 10},
		{X: -5, Y: 2},
		{X: 3, Y: 100},
	} {
		assert.False(t, PointInPolygon(pt, p, true), "point %+v", pt)
		assert.False(t, PointInPolygon(pt, p, false), "point %+v", pt)
	}
}

func TestPointInPolygonInterior(t *testing.T) {
	p := square(t)

	inside := Point{X: 3, Y: 2}
	assert.True(t, PointInPolygon(inside, p, true))
	assert.True(t, PointInPolygon(inside, p, false))
}

func TestPointInPolygonBoundary(t *testing.T) {
	p := square(t)

	border := Point{X: 2, Y: 2}
	assert.True(t, PointInPolygon(border, p, true))
	assert.False(t, PointInPolygon(border, p, false))

	vertex := Point{X: 4, Y: 3}
	assert.True(t, PointInPolygon(vertex, p, true))
	assert.False(t, PointInPolygon(vertex, p, false))
}

func TestPointInPolygonNonConvex(t *testing.T) {
	// U shape: the notch between the prongs is outside.
	p, err := NewPolygon([]Point{
		{X: 0, Y: 0},
		{X: 6, Y: 0},
		{X: 6, Y: 4},
		{X: 4, Y: 4},
		{X: 4, Y: 1},
		{X: 2, Y: 1},
		{X: 2, Y: 4},
		{X: 0, Y: 4},
	})
	require.NoError(t, err)

	assert.True(t, PointInPolygon(Point{X: 1, Y: 3}, p, false))
	assert.True(t, PointInPolygon(Point{X: 5, Y: 3}, p, false))
	assert.False(t, PointInPolygon(Point{X: 3, Y: 3}, p, false))
}

func TestSegmentsIntersectProperCrossing(t *testing.T) {
	s1 := Segment{A: Point{X: 0, Y: 0}, B: Point{X: 4, Y: 4}}
	s2 := Segment{A: Point{X: 0, Y: 4}, B: Point{X: 4, Y: 0}}
	s3 := Segment{A: Point{X: 5, Y: 5}, B: Point{X: 6, Y: 6}}

	assert.True(t, SegmentsIntersect(s1, s2, true))
	assert.True(t, SegmentsIntersect(s1, s2, false))
	assert.False(t, SegmentsIntersect(s1, s3, true))
}

func TestSegmentsIntersectSymmetric(t *testing.T) {
	cases := []struct{ s1, s2 Segment }{
		{Segment{Point{0, 0}, Point{4, 4}}, Segment{Point{0, 4}, Point{4, 0}}},
		{Segment{Point{0, 0}, Point{2, 0}}, Segment{Point{2, 0}, Point{4, 0}}},
		{Segment{Point{0, 0}, Point{1, 1}}, Segment{Point{3, 3}, Point{4, 4}}},
	}

	for _, tc := range cases {
		for _, include := range []bool{true, false} {
			assert.Equal(t,
				SegmentsIntersect(tc.s1, tc.s2, include),
				SegmentsIntersect(tc.s2, tc.s1, include))
		}
	}
}

func TestSegmentsIntersectEndpointTouch(t *testing.T) {
	// Two segments sharing only the endpoint (2,0).
	s1 := Segment{A: Point{X: 0, Y: 0}, B: Point{X: 2, Y: 0}}
	s2 := Segment{A: Point{X: 2, Y: 0}, B: Point{X: 4, Y: 2}}

	assert.True(t, SegmentsIntersect(s1, s2, true))
	assert.False(t, SegmentsIntersect(s1, s2, false))

	// A segment ending in the middle of another: the touch point is not
	// an endpoint of s3, so it counts even with endpoints excluded.
	s3 := Segment{A: Point{X: 0, Y: 0}, B: Point{X: 4, Y: 0}}
	s4 := Segment{A: Point{X: 2, Y: 0}, B: Point{X: 2, Y: 3}}
	assert.True(t, SegmentsIntersect(s3, s4, false))
}

func TestSegmentIntersectsPolygonScenario(t *testing.T) {
	p := square(t)

	crossing := Segment{A: Point{X: 0, Y: 0}, B: Point{X: 5, Y: 2}}
	assert.True(t, SegmentIntersectsPolygon(crossing, p, true))

	clear := Segment{A: Point{X: 0, Y: 0}, B: Point{X: -3, Y: 4}}
	assert.False(t, SegmentIntersectsPolygon(clear, p, true))
}

func TestSegmentCrossesPolygon(t *testing.T) {
	p := square(t)

	// One endpoint strictly inside.
	assert.True(t, SegmentCrossesPolygon(Segment{Point{3, 2}, Point{10, 10}}, p))

	// Straight through: both endpoints outside, two boundary crossings.
	assert.True(t, SegmentCrossesPolygon(Segment{Point{0, 2}, Point{6, 2}}, p))

	// Fully outside.
	assert.False(t, SegmentCrossesPolygon(Segment{Point{0, 0}, Point{-3, 4}}, p))
}

func TestCrossingImpliesIntersection(t *testing.T) {
	p := square(t)

	segments := []Segment{
		{Point{3, 2}, Point{10, 10}},
		{Point{0, 2}, Point{6, 2}},
		{Point{0, 0}, Point{5, 2}},
		{Point{0, 0}, Point{-3, 4}},
		{Point{2, 0}, Point{2, 4}},
	}

	for _, seg := range segments {
		if SegmentCrossesPolygon(seg, p) {
			assert.True(t, SegmentIntersectsPolygon(seg, p, true), "segment %+v", seg)
		}
	}

	// The converse does not hold: sliding along one edge touches the
	// boundary without entering the interior.
	along := Segment{A: Point{X: 2, Y: 0}, B: Point{X: 2, Y: 4}}
	assert.True(t, SegmentIntersectsPolygon(along, p, true))
	assert.False(t, SegmentCrossesPolygon(along, p))
}

func TestSimplifyPolygon(t *testing.T) {
	// A square with redundant collinear midpoints on every side.
	p, err := NewPolygon([]Point{
		{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 4, Y: 0},
		{X: 4, Y: 2}, {X: 4, Y: 4},
		{X: 2, Y: 4}, {X: 0, Y: 4},
		{X: 0, Y: 2},
	})
	require.NoError(t, err)

	simplified := SimplifyPolygon(p, 0.1)
	assert.Less(t, len(simplified.Vertices()), len(p.Vertices()))
	assert.GreaterOrEqual(t, len(simplified.Vertices()), 3)

	// Interior membership survives simplification.
	assert.True(t, PointInPolygon(Point{X: 2, Y: 2}, simplified, true))
}

func TestRemoveContainedPolygons(t *testing.T) {
	outer, err := NewPolygon([]Point{{0, 0}, {10, 0}, {10, 10}, {0, 10}})
	require.NoError(t, err)
	inner, err := NewPolygon([]Point{{2, 2}, {4, 2}, {4, 4}, {2, 4}})
	require.NoError(t, err)
	disjoint, err := NewPolygon([]Point{{20, 20}, {22, 20}, {22, 22}, {20, 22}})
	require.NoError(t, err)

	kept := RemoveContainedPolygons([]*Polygon{outer, inner, disjoint})
	require.Len(t, kept, 2)
	assert.Contains(t, kept, outer)
	assert.Contains(t, kept, disjoint)
}
