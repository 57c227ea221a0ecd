package contour

import (
	"math"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"

	"github.com/KrisEhl/social-sports/internal/model"
	"github.com/KrisEhl/social-sports/internal/raster"
)

const earthMetersPerDegree = 111320.0

// ErrDegenerateRing marks a boundary with fewer than 3 distinct vertices.
var ErrDegenerateRing = eris.New("contour: ring has fewer than 3 distinct vertices")

// ErrSelfIntersecting marks a ring whose edges cross.
var ErrSelfIntersecting = eris.New("contour: ring is self-intersecting")

// RingToPolygon converts a pixel boundary to a closed WGS84 polygon using
// the tile transform. Vertices map to pixel centers. Consecutive
// duplicate vertices are dropped; a ring with fewer than 3 distinct
// vertices is invalid.
func RingToPolygon(ring []model.Pixel, gt raster.GeoTransform) (*geom.Polygon, error) {
	coords := make([]geom.Coord, 0, len(ring)+1)
	for _, p := range ring {
		lon, lat := gt.LonLat(float64(p.X)+0.5, float64(p.Y)+0.5)
		c := geom.Coord{lon, lat}
		if n := len(coords); n > 0 && coords[n-1][0] == c[0] && coords[n-1][1] == c[1] {
			continue
		}
		coords = append(coords, c)
	}
	if len(coords) < 3 {
		return nil, ErrDegenerateRing
	}
	// Close the ring.
	if first := coords[0]; first[0] != coords[len(coords)-1][0] || first[1] != coords[len(coords)-1][1] {
		coords = append(coords, first)
	}

	flat := make([]float64, 0, len(coords)*2)
	for _, c := range coords {
		flat = append(flat, c[0], c[1])
	}
	poly := geom.NewPolygonFlat(geom.XY, flat, []int{len(flat)}).SetSRID(4326)
	return poly, nil
}

// PlanarAreaM2 computes the polygon's area in square meters using a
// sinusoidal projection centered on the polygon's mean latitude. Raw
// degree-space area is invalid because one degree of longitude shrinks
// with latitude.
func PlanarAreaM2(p *geom.Polygon) float64 {
	ring := p.LinearRing(0).FlatCoords()
	n := len(ring) / 2
	if n < 3 {
		return 0
	}

	cosLat := math.Cos(meanLat(ring) * math.Pi / 180)

	// Shoelace over projected coordinates.
	var sum float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		xi := ring[2*i] * earthMetersPerDegree * cosLat
		yi := ring[2*i+1] * earthMetersPerDegree
		xj := ring[2*j] * earthMetersPerDegree * cosLat
		yj := ring[2*j+1] * earthMetersPerDegree
		sum += xi*yj - xj*yi
	}
	return math.Abs(sum) / 2
}

// AspectRatio returns the polygon bounding box's long side over its short
// side, measured in projected meters. A zero-extent box yields the
// maximum float so the aspect filter rejects it.
func AspectRatio(p *geom.Polygon) float64 {
	ring := p.LinearRing(0).FlatCoords()
	n := len(ring) / 2
	if n == 0 {
		return math.MaxFloat64
	}

	minLon, maxLon := ring[0], ring[0]
	minLat, maxLat := ring[1], ring[1]
	for i := 1; i < n; i++ {
		lon, lat := ring[2*i], ring[2*i+1]
		minLon = math.Min(minLon, lon)
		maxLon = math.Max(maxLon, lon)
		minLat = math.Min(minLat, lat)
		maxLat = math.Max(maxLat, lat)
	}

	cosLat := math.Cos(meanLat(ring) * math.Pi / 180)
	w := (maxLon - minLon) * earthMetersPerDegree * cosLat
	h := (maxLat - minLat) * earthMetersPerDegree
	short := math.Min(w, h)
	long := math.Max(w, h)
	if short <= 0 {
		return math.MaxFloat64
	}
	return long / short
}

// SelfIntersects reports whether any two non-adjacent ring edges properly
// cross. Shared endpoints between adjacent edges are allowed.
func SelfIntersects(p *geom.Polygon) bool {
	ring := p.LinearRing(0).FlatCoords()
	n := len(ring)/2 - 1 // last vertex repeats the first
	if n < 4 {
		return false
	}
	for i := 0; i < n; i++ {
		for j := i + 2; j < n; j++ {
			// Skip the adjacency between the last and first edge.
			if i == 0 && j == n-1 {
				continue
			}
			if segmentsCross(
				ring[2*i], ring[2*i+1], ring[2*(i+1)], ring[2*(i+1)+1],
				ring[2*j], ring[2*j+1], ring[2*(j+1)], ring[2*(j+1)+1],
			) {
				return true
			}
		}
	}
	return false
}

func meanLat(flatRing []float64) float64 {
	n := len(flatRing) / 2
	if n == 0 {
		return 0
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += flatRing[2*i+1]
	}
	return sum / float64(n)
}

// segmentsCross reports proper intersection of segments (a,b) and (c,d).
func segmentsCross(ax, ay, bx, by, cx, cy, dx, dy float64) bool {
	d1 := cross(cx, cy, dx, dy, ax, ay)
	d2 := cross(cx, cy, dx, dy, bx, by)
	d3 := cross(ax, ay, bx, by, cx, cy)
	d4 := cross(ax, ay, bx, by, dx, dy)
	return ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0))
}

func cross(ox, oy, ax, ay, bx, by float64) float64 {
	return (ax-ox)*(by-oy) - (ay-oy)*(bx-ox)
}
