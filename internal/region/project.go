package region

import (
	"math"

	"github.com/twpayne/go-geom"
)

// Spherical Web Mercator (EPSG:3857 equivalent). Good enough for metro-scale
// distance math; inaccurate at very long range.
const (
	earthRadiusMeters = 6378137.0
	maxMercatorLat    = 85.051128779807 // poles project to infinity, clamp
)

// ProjectPoint converts geographic degrees to Web Mercator meters.
func ProjectPoint(lon, lat float64) (x, y float64) {
	lat = math.Max(-maxMercatorLat, math.Min(maxMercatorLat, lat))
	x = earthRadiusMeters * lon * math.Pi / 180
	y = earthRadiusMeters * math.Log(math.Tan(math.Pi/4+lat*math.Pi/360))
	return x, y
}

// UnprojectPoint converts Web Mercator meters back to geographic degrees.
func UnprojectPoint(x, y float64) (lon, lat float64) {
	lon = x / earthRadiusMeters * 180 / math.Pi
	lat = (2*math.Atan(math.Exp(y/earthRadiusMeters)) - math.Pi/2) * 180 / math.Pi
	return lon, lat
}

// projectMultiPolygon reprojects a geographic multipolygon into Web Mercator.
func projectMultiPolygon(mp *geom.MultiPolygon) *geom.MultiPolygon {
	flat := mp.FlatCoords()
	projected := make([]float64, len(flat))
	stride := mp.Stride()
	for i := 0; i+1 < len(flat); i += stride {
		x, y := ProjectPoint(flat[i], flat[i+1])
		projected[i] = x
		projected[i+1] = y
	}
	return geom.NewMultiPolygonFlat(geom.XY, projected, mp.Endss())
}
