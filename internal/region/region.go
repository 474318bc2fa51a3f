// Package region loads, filters, and indexes metro boundary polygons.
//
// Each Region carries the same polygon in two coordinate systems: geographic
// degrees (WGS84) for anything handed back to callers, and Web Mercator
// meters for all containment and distance math. Reprojection happens once at
// load time, never per query.
package region

import (
	"sort"

	"github.com/dhconnelly/rtreego"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
)

// ErrDataUnavailable reports that the boundary dataset could not be loaded,
// or that a query arrived before a successful load. It is non-fatal: the
// process keeps serving and every query reports it until a load succeeds.
var ErrDataUnavailable = eris.New("region: boundary data not loaded")

// Region is a named metro boundary with both coordinate representations.
type Region struct {
	Code        string // CBSA code, carried through unchanged
	Name        string // e.g. "Phoenix-Mesa-Chandler, AZ"
	LSAD        string
	GeomGeo     *geom.MultiPolygon // geographic degrees (WGS84)
	GeomProj    *geom.MultiPolygon // Web Mercator meters
	CentroidGeo geom.Coord         // geographic centroid, for map rendering

	idx int // load order, used as the tie-break for overlapping polygons
}

// Centroid is a region's geographic center point.
type Centroid struct {
	Code string  `json:"cbsa_code"`
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

// Store is an immutable, ordered collection of regions built once at load
// time. Concurrent readers need no synchronization.
type Store struct {
	regions []*Region
	tree    *rtreego.Rtree
}

// Count returns the number of loaded regions.
func (s *Store) Count() int {
	return len(s.regions)
}

// Regions returns all regions in load order.
func (s *Store) Regions() []*Region {
	return s.regions
}

// Centroids returns the geographic centroid of every region, in load order.
func (s *Store) Centroids() []Centroid {
	out := make([]Centroid, 0, len(s.regions))
	for _, r := range s.regions {
		out = append(out, Centroid{
			Code: r.Code,
			Name: r.Name,
			Lat:  r.CentroidGeo.Y(),
			Lon:  r.CentroidGeo.X(),
		})
	}
	return out
}

// spatialRegion wraps a Region for R-tree indexing over its projected bbox.
type spatialRegion struct {
	region *Region
	rect   *rtreego.Rect
}

func (sr *spatialRegion) Bounds() *rtreego.Rect {
	return sr.rect
}

// ContainmentCandidates returns the regions whose projected bounding box
// contains the given planar point, sorted by load order so the first-loaded
// region wins ties from overlapping polygons.
func (s *Store) ContainmentCandidates(x, y float64) []*Region {
	if s.tree == nil {
		return nil
	}
	pt := rtreego.Point{x, y}
	results := s.tree.SearchIntersect(pt.ToRect(bboxTolerance))

	candidates := make([]*Region, 0, len(results))
	for _, res := range results {
		sr, ok := res.(*spatialRegion)
		if !ok {
			continue
		}
		candidates = append(candidates, sr.region)
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].idx < candidates[j].idx
	})
	return candidates
}
