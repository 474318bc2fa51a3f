package region

import (
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/dhconnelly/rtreego"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/xy"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// R-tree parameters.
const (
	treeDimensions  = 2
	treeMinChildren = 25
	treeMaxChildren = 50
	bboxTolerance   = 1.0 // meters; rects must have nonzero extent
)

// Load reads the boundary shapefile, filters to the target metro list,
// reprojects every region into Web Mercator, and builds the spatial index.
// A missing shapefile yields ErrDataUnavailable.
func Load(shapefilePath, targetListPath string) (*Store, error) {
	log := zap.L().With(zap.String("component", "region.store"))
	start := time.Now()

	if _, err := os.Stat(shapefilePath); err != nil {
		log.Warn("shapefile not found", zap.String("path", shapefilePath))
		return nil, eris.Wrapf(ErrDataUnavailable, "shapefile %s", shapefilePath)
	}

	regions, err := readShapefile(shapefilePath)
	if err != nil {
		return nil, eris.Wrap(ErrDataUnavailable, err.Error())
	}
	total := len(regions)

	var targets []string
	if targetListPath != "" {
		targets, err = LoadTargets(targetListPath)
		if err != nil {
			return nil, err
		}
	}
	regions = filterRegions(regions, targets)

	if len(targets) > 0 {
		log.Info("filtered to target metro areas",
			zap.Int("total", total),
			zap.Int("kept", len(regions)),
		)
	} else {
		log.Info("no target filter applied", zap.Int("regions", len(regions)))
	}

	// One-time reprojection and centroid computation for the whole collection.
	g := new(errgroup.Group)
	g.SetLimit(runtime.NumCPU())
	for i, r := range regions {
		g.Go(func() error {
			r.idx = i
			r.GeomProj = projectMultiPolygon(r.GeomGeo)
			r.CentroidGeo = multiPolygonCentroid(r.GeomGeo)
			return nil
		})
	}
	_ = g.Wait()

	return newStore(regions, log, start), nil
}

// newStore indexes an already-projected region collection. Regions keep their
// slice order; that order is the documented containment tie-break.
func newStore(regions []*Region, log *zap.Logger, start time.Time) *Store {
	tree := rtreego.NewTree(treeDimensions, treeMinChildren, treeMaxChildren)
	for i, r := range regions {
		r.idx = i
		rect := projectedRect(r.GeomProj)
		if rect == nil {
			continue
		}
		tree.Insert(&spatialRegion{region: r, rect: rect})
	}

	if log != nil {
		log.Info("boundary store built",
			zap.Int("regions", len(regions)),
			zap.Duration("duration", time.Since(start)),
		)
	}
	return &Store{regions: regions, tree: tree}
}

// projectedRect returns the R-tree rect for a projected multipolygon.
func projectedRect(mp *geom.MultiPolygon) *rtreego.Rect {
	b := mp.Bounds()
	dx := b.Max(0) - b.Min(0)
	dy := b.Max(1) - b.Min(1)
	if dx < bboxTolerance {
		dx = bboxTolerance
	}
	if dy < bboxTolerance {
		dy = bboxTolerance
	}
	rect, err := rtreego.NewRect(rtreego.Point{b.Min(0), b.Min(1)}, []float64{dx, dy})
	if err != nil {
		zap.L().Debug("region: invalid bbox", zap.Error(err))
		return nil
	}
	return rect
}

// multiPolygonCentroid computes the area-weighted centroid of a multipolygon.
func multiPolygonCentroid(mp *geom.MultiPolygon) geom.Coord {
	n := mp.NumPolygons()
	if n == 0 {
		return geom.Coord{0, 0}
	}
	extra := make([]*geom.Polygon, 0, n-1)
	for i := 1; i < n; i++ {
		extra = append(extra, mp.Polygon(i))
	}
	return xy.PolygonsCentroid(mp.Polygon(0), extra...)
}

// Manager owns the process-wide store with one-time lazy initialization.
// The first build wins; after that the store is effectively write-once.
// A failed load is remembered and not retried until process restart.
type Manager struct {
	shapefilePath  string
	targetListPath string

	once  sync.Once
	store *Store
	err   error
}

// NewManager creates a Manager that loads from the given paths on first use.
func NewManager(shapefilePath, targetListPath string) *Manager {
	return &Manager{shapefilePath: shapefilePath, targetListPath: targetListPath}
}

// EnsureLoaded triggers the load exactly once and returns the store.
// Concurrent first calls race safely: one loads, the rest wait.
func (m *Manager) EnsureLoaded() (*Store, error) {
	m.once.Do(func() {
		m.store, m.err = Load(m.shapefilePath, m.targetListPath)
	})
	if m.err != nil {
		return nil, m.err
	}
	return m.store, nil
}

// NewManagerWithStore wraps an already-built store, for tests and callers
// that construct regions programmatically.
func NewManagerWithStore(s *Store) *Manager {
	m := &Manager{}
	m.once.Do(func() { m.store = s })
	return m
}

// NewStore builds a store directly from regions carrying geographic geometry.
// Projection and centroids are computed here.
func NewStore(regions []*Region) *Store {
	for i, r := range regions {
		r.idx = i
		r.GeomProj = projectMultiPolygon(r.GeomGeo)
		r.CentroidGeo = multiPolygonCentroid(r.GeomGeo)
	}
	return newStore(regions, nil, time.Time{})
}
