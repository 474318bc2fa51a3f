package region

import (
	"math"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/xy"
)

// Contains reports whether the point lies inside the multipolygon: inside
// some polygon's exterior ring and outside that polygon's holes.
func Contains(mp *geom.MultiPolygon, x, y float64) bool {
	p := geom.Coord{x, y}
	for i := 0; i < mp.NumPolygons(); i++ {
		poly := mp.Polygon(i)
		if poly.NumLinearRings() == 0 {
			continue
		}
		if !xy.IsPointInRing(geom.XY, p, poly.LinearRing(0).FlatCoords()) {
			continue
		}
		inHole := false
		for j := 1; j < poly.NumLinearRings(); j++ {
			if xy.IsPointInRing(geom.XY, p, poly.LinearRing(j).FlatCoords()) {
				inHole = true
				break
			}
		}
		if !inHole {
			return true
		}
	}
	return false
}

// BoundaryDistance returns the shortest distance from the point to the
// multipolygon's boundary, in the units of the geometry's coordinate system.
// Interior points still measure to the boundary; callers that want the
// geopandas-style polygon distance (zero inside) check Contains first.
func BoundaryDistance(mp *geom.MultiPolygon, x, y float64) float64 {
	p := geom.Coord{x, y}
	best := math.Inf(1)
	for i := 0; i < mp.NumPolygons(); i++ {
		poly := mp.Polygon(i)
		for j := 0; j < poly.NumLinearRings(); j++ {
			d := xy.DistanceFromPointToLineString(geom.XY, p, poly.LinearRing(j).FlatCoords())
			if d < best {
				best = d
			}
		}
	}
	return best
}

// ClosestBoundaryPoint returns the point on the multipolygon's boundary
// nearest to (x, y), in the geometry's own coordinate system.
func ClosestBoundaryPoint(mp *geom.MultiPolygon, x, y float64) (float64, float64) {
	bestX, bestY := x, y
	best := math.Inf(1)
	for i := 0; i < mp.NumPolygons(); i++ {
		poly := mp.Polygon(i)
		for j := 0; j < poly.NumLinearRings(); j++ {
			flat := poly.LinearRing(j).FlatCoords()
			for k := 0; k+3 < len(flat); k += 2 {
				px, py := closestPointOnSegment(x, y, flat[k], flat[k+1], flat[k+2], flat[k+3])
				d := (px-x)*(px-x) + (py-y)*(py-y)
				if d < best {
					best = d
					bestX, bestY = px, py
				}
			}
		}
	}
	return bestX, bestY
}

// closestPointOnSegment projects (x, y) onto the segment (ax, ay)-(bx, by)
// and clamps to the segment's extent.
func closestPointOnSegment(x, y, ax, ay, bx, by float64) (float64, float64) {
	dx := bx - ax
	dy := by - ay
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return ax, ay
	}
	t := ((x-ax)*dx + (y-ay)*dy) / lenSq
	t = math.Max(0, math.Min(1, t))
	return ax + t*dx, ay + t*dy
}
