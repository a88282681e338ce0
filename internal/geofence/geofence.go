// Package geofence decides whether a coordinate falls inside one of the
// configured circular office zones. It is a pure computation with no state
// beyond the zone table loaded at startup.
package geofence

import "math"

// earthRadiusM is the fixed Earth radius used for great-circle distances.
const earthRadiusM = 6371000.0

// Zone is a circular region around an office. Zones are immutable at runtime
// and evaluated in slice order, so the first matching zone wins.
type Zone struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Lat          float64 `json:"lat"`
	Lng          float64 `json:"lng"`
	RadiusMeters float64 `json:"radiusMeters"`
}

// Result reports the outcome of an evaluation. Zone and DistanceM are only
// meaningful when Inside is true.
type Result struct {
	Inside    bool
	Zone      *Zone
	DistanceM float64
}

// Evaluator matches coordinates against a fixed zone table.
type Evaluator struct {
	zones []Zone
}

// New returns an Evaluator over the given zones. The slice is copied so the
// caller cannot mutate the table afterwards.
func New(zones []Zone) *Evaluator {
	zs := make([]Zone, len(zones))
	copy(zs, zones)
	return &Evaluator{zones: zs}
}

// Zones returns a copy of the configured zone table.
func (e *Evaluator) Zones() []Zone {
	zs := make([]Zone, len(e.zones))
	copy(zs, e.zones)
	return zs
}

// Evaluate returns the first zone whose center lies within its radius of the
// coordinate, boundary inclusive. When no zone matches, Inside is false and
// Zone is nil.
func (e *Evaluator) Evaluate(lat, lng float64) Result {
	for i := range e.zones {
		z := &e.zones[i]
		d := Distance(lat, lng, z.Lat, z.Lng)
		if d <= z.RadiusMeters {
			return Result{Inside: true, Zone: z, DistanceM: d}
		}
	}
	return Result{}
}

// Distance computes the haversine great-circle distance in meters between two
// coordinate pairs given in degrees.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	toRad := func(d float64) float64 { return d * math.Pi / 180 }
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusM * c
}
