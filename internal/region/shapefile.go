package region

import (
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"go.uber.org/zap"
)

// readShapefile reads the CBSA boundary shapefile and returns one Region per
// record, in file order, with geographic geometry only. Projection and
// filtering are the loader's job.
func readShapefile(path string) ([]*Region, error) {
	reader, err := shp.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "region: open shapefile %s", path)
	}
	defer func() { _ = reader.Close() }()

	nameIdx := fieldIndex(reader, "NAME")
	codeIdx := fieldIndex(reader, "CBSAFP")
	lsadIdx := fieldIndex(reader, "LSAD")
	if nameIdx < 0 || codeIdx < 0 {
		return nil, eris.New("region: required shapefile fields (NAME, CBSAFP) not found")
	}

	var regions []*Region
	var skipped int
	for reader.Next() {
		_, shape := reader.Shape()

		name := attr(reader, nameIdx)
		code := attr(reader, codeIdx)
		if name == "" || code == "" {
			skipped++
			continue
		}

		mp := shapeToMultiPolygon(shape)
		if mp == nil {
			skipped++
			continue
		}

		r := &Region{
			Code:    code,
			Name:    name,
			GeomGeo: mp,
		}
		if lsadIdx >= 0 {
			r.LSAD = attr(reader, lsadIdx)
		}
		regions = append(regions, r)
	}

	if skipped > 0 {
		zap.L().Debug("region: skipped shapefile records", zap.Int("skipped", skipped))
	}

	return regions, nil
}

// fieldIndex returns the index of a named field in the shapefile, or -1 if
// not found.
func fieldIndex(reader *shp.Reader, name string) int {
	for i, f := range reader.Fields() {
		if strings.EqualFold(strings.TrimRight(f.String(), "\x00"), name) {
			return i
		}
	}
	return -1
}

func attr(reader *shp.Reader, idx int) string {
	return strings.TrimSpace(strings.TrimRight(reader.Attribute(idx), "\x00"))
}

// shapeToMultiPolygon converts a shapefile Polygon to a geom.MultiPolygon.
// Each part becomes its own single-ring polygon.
func shapeToMultiPolygon(shape shp.Shape) *geom.MultiPolygon {
	p, ok := shape.(*shp.Polygon)
	if !ok || p == nil || p.NumParts == 0 || len(p.Points) == 0 {
		return nil
	}

	mp := geom.NewMultiPolygon(geom.XY)

	for i := int32(0); i < p.NumParts; i++ {
		start := p.Parts[i]
		var end int32
		if i+1 < p.NumParts {
			end = p.Parts[i+1]
		} else {
			end = int32(len(p.Points))
		}

		flat := make([]float64, 0, (end-start)*2)
		for j := start; j < end; j++ {
			flat = append(flat, p.Points[j].X, p.Points[j].Y)
		}

		ring := geom.NewLinearRingFlat(geom.XY, flat)
		poly := geom.NewPolygon(geom.XY)
		if err := poly.Push(ring); err != nil {
			zap.L().Debug("region: skipping malformed polygon ring", zap.Int32("part", i), zap.Error(err))
			continue
		}
		if err := mp.Push(poly); err != nil {
			zap.L().Debug("region: skipping malformed polygon part", zap.Int32("part", i), zap.Error(err))
			continue
		}
	}

	if mp.NumPolygons() == 0 {
		return nil
	}
	return mp
}
