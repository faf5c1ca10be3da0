package geometry

import "math"

// SimplifyPolygon reduces the vertex count of a polygon with the
// Douglas-Peucker algorithm. The ring is cut open at its first vertex,
// simplified, and re-closed; if simplification would leave fewer than 3
// vertices the original polygon is returned unchanged.
func SimplifyPolygon(p *Polygon, epsilon float64) *Polygon {
	vertices := p.Vertices()
	if len(vertices) <= 3 {
		return p
	}

	// Close the ring so the shared first/last vertex anchors both ends
	// of the recursion, then drop the duplicate again.
	ring := make([]Point, 0, len(vertices)+1)
	ring = append(ring, vertices...)
	ring = append(ring, vertices[0])

	simplified := douglasPeucker(ring, epsilon)
	simplified = simplified[:len(simplified)-1]

	if len(simplified) < 3 {
		return p
	}

	out, err := NewPolygon(simplified)
	if err != nil {
		return p
	}
	return out
}

// SimplifyPolygons simplifies every polygon in the slice.
func SimplifyPolygons(polygons []*Polygon, epsilon float64) []*Polygon {
	simplified := make([]*Polygon, len(polygons))
	for i, p := range polygons {
		simplified[i] = SimplifyPolygon(p, epsilon)
	}
	return simplified
}

// douglasPeucker keeps the endpoints and recursively keeps the most
// distant interior point while it deviates more than epsilon from the
// chord.
func douglasPeucker(points []Point, epsilon float64) []Point {
	if len(points) <= 2 {
		return points
	}

	dmax := 0.0
	index := 0
	end := len(points) - 1

	for i := 1; i < end; i++ {
		d := perpendicularDistance(points[i], points[0], points[end])
		if d > dmax {
			index = i
			dmax = d
		}
	}

	if dmax > epsilon {
		left := douglasPeucker(points[0:index+1], epsilon)
		right := douglasPeucker(points[index:], epsilon)

		result := make([]Point, 0, len(left)+len(right)-1)
		result = append(result, left[:len(left)-1]...)
		result = append(result, right...)
		return result
	}

	return []Point{points[0], points[end]}
}

// perpendicularDistance calculates the distance from a point to the line
// through lineStart and lineEnd.
func perpendicularDistance(point, lineStart, lineEnd Point) float64 {
	dx := lineEnd.X - lineStart.X
	dy := lineEnd.Y - lineStart.Y

	mag := math.Sqrt(dx*dx + dy*dy)
	if mag > 0 {
		dx /= mag
		dy /= mag
	}

	pvx := point.X - lineStart.X
	pvy := point.Y - lineStart.Y

	pvdot := dx*pvx + dy*pvy

	ax := pvx - pvdot*dx
	ay := pvy - pvdot*dy

	return math.Sqrt(ax*ax + ay*ay)
}

// RemoveContainedPolygons drops polygons that lie entirely inside another
// polygon of the slice. Containment of redundant zones only inflates the
// edge-feasibility checks during graph construction.
func RemoveContainedPolygons(polygons []*Polygon) []*Polygon {
	if len(polygons) <= 1 {
		return polygons
	}

	contained := make([]bool, len(polygons))
	for i := range polygons {
		if contained[i] {
			continue
		}
		for j := range polygons {
			if i == j || contained[j] {
				continue
			}
			if polygonContainedIn(polygons[i], polygons[j]) {
				contained[i] = true
				break
			}
			if polygonContainedIn(polygons[j], polygons[i]) {
				contained[j] = true
			}
		}
	}

	result := make([]*Polygon, 0, len(polygons))
	for i, p := range polygons {
		if !contained[i] {
			result = append(result, p)
		}
	}
	return result
}

// polygonContainedIn checks whether every vertex of a lies inside b,
// after a bounding-box fast reject.
func polygonContainedIn(a, b *Polygon) bool {
	if !b.Bounds().Contains(a.Bounds()) {
		return false
	}
	for _, vertex := range a.Vertices() {
		if !PointInPolygon(vertex, b, true) {
			return false
		}
	}
	return true
}
