package region

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProjectPoint(t *testing.T) {
	tests := []struct {
		name     string
		lon, lat float64
		x, y     float64
	}{
		{name: "origin", lon: 0, lat: 0, x: 0, y: 0},
		{name: "antimeridian", lon: 180, lat: 0, x: 20037508.34, y: 0},
		{name: "new york", lon: -74.0060, lat: 40.7128, x: -8238310.24, y: 4970071.58},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := ProjectPoint(tt.lon, tt.lat)
			assert.InDelta(t, tt.x, x, 1.0)
			assert.InDelta(t, tt.y, y, 1.0)
		})
	}
}

func TestProjectPoint_ClampsNearPoles(t *testing.T) {
	_, y := ProjectPoint(0, 89.9)
	_, yClamped := ProjectPoint(0, maxMercatorLat)
	assert.Equal(t, yClamped, y)
}

func TestUnprojectPoint_RoundTrip(t *testing.T) {
	coords := [][2]float64{
		{-74.0060, 40.7128},
		{-112.0740, 33.4484},
		{151.2093, -33.8688},
		{0, 0},
	}
	for _, c := range coords {
		x, y := ProjectPoint(c[0], c[1])
		lon, lat := UnprojectPoint(x, y)
		assert.InDelta(t, c[0], lon, 1e-9)
		assert.InDelta(t, c[1], lat, 1e-9)
	}
}

func TestProjectMultiPolygon_PreservesStructure(t *testing.T) {
	mp := squareGeo(-80.5, 25.0, -80.0, 26.0)
	proj := projectMultiPolygon(mp)

	assert.Equal(t, mp.NumPolygons(), proj.NumPolygons())
	assert.Equal(t, len(mp.FlatCoords()), len(proj.FlatCoords()))

	wantX, wantY := ProjectPoint(-80.5, 25.0)
	assert.InDelta(t, wantX, proj.FlatCoords()[0], 1e-6)
	assert.InDelta(t, wantY, proj.FlatCoords()[1], 1e-6)
}
