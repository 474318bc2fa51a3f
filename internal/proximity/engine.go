// Package proximity answers the core spatial query: is a point inside, near,
// or far from the loaded metro regions, and is it in an excluded state.
package proximity

import (
	"fmt"
	"math"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/metro-proximity/internal/jurisdiction"
	"github.com/sells-group/metro-proximity/internal/region"
)

// ErrInvalidParameters reports coordinates or radius that are not finite
// numbers. Surfaced directly to the caller; no retry.
var ErrInvalidParameters = eris.New("proximity: invalid parameters")

// MetersPerMile is a fixed conversion constant, not geodesically exact.
const MetersPerMile = 1609.34

// Engine runs proximity queries against the boundary store. Queries are pure
// reads over immutable geometry and may run fully in parallel.
type Engine struct {
	manager *region.Manager
}

// NewEngine creates an Engine over the given store manager.
func NewEngine(m *region.Manager) *Engine {
	return &Engine{manager: m}
}

// regionDistance pairs a region with its planar boundary distance, zero when
// the point is inside.
type regionDistance struct {
	region    *region.Region
	meters    float64
	contained bool
}

// Check runs the full proximity query for a geographic point.
//
// Ranking uses planar (Web Mercator) distances; the boundary point returned
// for line drawing is computed separately against the geographic polygon,
// where visual accuracy is all that matters. Distances are Euclidean on the
// projection: fine at metro scale, off by a few percent at continental range.
func (e *Engine) Check(lat, lon, maxDistanceMiles float64) (result *Result, err error) {
	// One bad query must not take the process down with it.
	defer func() {
		if r := recover(); r != nil {
			zap.L().Error("proximity check panicked",
				zap.Float64("lat", lat),
				zap.Float64("lon", lon),
				zap.Any("panic", r),
			)
			result = nil
			err = eris.Errorf("proximity: internal error: %v", r)
		}
	}()

	if !isFinite(lat) || !isFinite(lon) || !isFinite(maxDistanceMiles) {
		return nil, eris.Wrap(ErrInvalidParameters, "lat, lon, and max distance must be finite numbers")
	}

	store, err := e.manager.EnsureLoaded()
	if err != nil {
		return nil, err
	}

	x, y := region.ProjectPoint(lon, lat)

	// Exclusion check is best-effort: its failure must not prevent the
	// proximity computation from running.
	if state := stateForPoint(store, x, y); state != "" && jurisdiction.IsExcluded(state) {
		zap.L().Info("location in excluded state",
			zap.Float64("lat", lat),
			zap.Float64("lon", lon),
			zap.String("state", state),
		)
		return &Result{
			Excluded:      true,
			ExcludedState: state,
			WithinRange:   false,
			Message:       fmt.Sprintf("We do not lend in %s", state),
		}, nil
	}

	ranked := rankByPlanarDistance(store, x, y)
	if len(ranked) == 0 {
		return nil, region.ErrDataUnavailable
	}

	// Global nearest is always reported, even when nothing is in range.
	nearest := ranked[0]
	for _, rd := range ranked[1:] {
		if rd.meters < nearest.meters {
			nearest = rd
		}
	}

	edgeLat, edgeLon := nearestGeographicBoundaryPoint(nearest.region, lat, lon)
	nearestMiles := round2(nearest.meters / MetersPerMile)

	maxMeters := maxDistanceMiles * MetersPerMile
	var nearby []regionDistance
	for _, rd := range ranked {
		if rd.meters <= maxMeters {
			nearby = append(nearby, rd)
		}
	}

	if len(nearby) == 0 {
		return &Result{
			WithinRange:   false,
			IsInsideMetro: boolPtr(false),
			NearestMetro: &NearestMetro{
				Name:                nearest.region.Name,
				CBSACode:            nearest.region.Code,
				DistanceToEdgeMiles: nearestMiles,
				EdgeCoords:          [2]float64{edgeLat, edgeLon},
			},
			Message: fmt.Sprintf("Nearest metro is %v miles away (outside %v mile range)", nearestMiles, maxDistanceMiles),
		}, nil
	}

	best := nearby[0]
	for _, rd := range nearby[1:] {
		if rd.meters < best.meters {
			best = rd
		}
	}

	distance := round2(best.meters / MetersPerMile)
	if best.contained {
		distance = 0
	}

	res := &Result{
		WithinRange:   true,
		IsInsideMetro: boolPtr(best.contained),
		NearestMetro: &NearestMetro{
			Name:                best.region.Name,
			CBSACode:            best.region.Code,
			DistanceToEdgeMiles: distance,
			EdgeCoords:          [2]float64{edgeLat, edgeLon},
		},
		AllNearby: make([]NearbyMetro, 0, len(nearby)),
	}
	for _, rd := range nearby {
		res.AllNearby = append(res.AllNearby, NearbyMetro{
			Name:          rd.region.Name,
			DistanceMiles: round2(rd.meters / MetersPerMile),
			CBSACode:      rd.region.Code,
		})
	}
	return res, nil
}

// stateForPoint finds the first-loaded region containing the projected point
// and mines its name for a state identifier. Returns "" when no region
// contains the point, when extraction finds nothing, or when the scan fails.
func stateForPoint(store *region.Store, x, y float64) (state string) {
	defer func() {
		if r := recover(); r != nil {
			zap.L().Warn("state check failed, continuing with proximity", zap.Any("panic", r))
			state = ""
		}
	}()

	for _, r := range store.ContainmentCandidates(x, y) {
		if region.Contains(r.GeomProj, x, y) {
			return jurisdiction.Extract(r.Name)
		}
	}
	return ""
}

// rankByPlanarDistance computes the planar boundary distance from the point
// to every region, in store load order. Distance collapses to zero for
// interior points; this is boundary distance, not centroid distance.
func rankByPlanarDistance(store *region.Store, x, y float64) []regionDistance {
	regions := store.Regions()
	ranked := make([]regionDistance, 0, len(regions))
	for _, r := range regions {
		rd := regionDistance{region: r}
		if region.Contains(r.GeomProj, x, y) {
			rd.contained = true
		} else {
			rd.meters = region.BoundaryDistance(r.GeomProj, x, y)
		}
		ranked = append(ranked, rd)
	}
	return ranked
}

// nearestGeographicBoundaryPoint finds the closest point on the region's
// geographic boundary to the raw query point, returned as (lat, lon). This
// intentionally mixes coordinate systems with the planar ranking step: the
// boundary point only feeds map line drawing.
func nearestGeographicBoundaryPoint(r *region.Region, lat, lon float64) (float64, float64) {
	px, py := region.ClosestBoundaryPoint(r.GeomGeo, lon, lat)
	return py, px
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
