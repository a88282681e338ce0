package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dinex/webclock/internal/geofence"
)

// defaultZones is the built-in office table. Order matters: the evaluator
// returns the first zone that contains the coordinate.
var defaultZones = []geofence.Zone{
	{ID: "TX-116", Name: "Sede 1 - Quickstop", Lat: 29.71694, Lng: -95.48804, RadiusMeters: 150},
	{ID: "TX-117", Name: "Sede 2 - Rosemberg", Lat: 29.57039, Lng: -95.77575, RadiusMeters: 150},
	{ID: "TX-1293", Name: "Sede 3 - South West", Lat: 29.70031, Lng: -95.28904, RadiusMeters: 150},
	{ID: "TX-1386", Name: "Sede 4 - LongPoint", Lat: 29.79806, Lng: -95.52474, RadiusMeters: 150},
	{ID: "TX-1615", Name: "Sede 5 - Rampart", Lat: 29.71948, Lng: -95.48853, RadiusMeters: 150},
	{ID: "TX-839", Name: "Sede 6 - Rosemberg C", Lat: 29.55853, Lng: -95.80851, RadiusMeters: 150},
	{ID: "TX-845", Name: "Sede 7 - Airline", Lat: 29.89497, Lng: -95.39804, RadiusMeters: 150},
	{ID: "TX-1544", Name: "Sede 8 - Fry", Lat: 29.79521, Lng: -95.71863, RadiusMeters: 150},
	{ID: "TX-104", Name: "Sede 9 - Fulton", Lat: 29.83249, Lng: -95.37564, RadiusMeters: 150},
	{ID: "TX-101", Name: "Sede 10 - Office", Lat: 29.74978, Lng: -95.48319, RadiusMeters: 150},
}

// LoadZones returns the geofence zone table. When ZonesFile is set it must
// contain a JSON array of zones; otherwise the built-in table is used.
func (c Config) LoadZones() ([]geofence.Zone, error) {
	if c.ZonesFile == "" {
		zs := make([]geofence.Zone, len(defaultZones))
		copy(zs, defaultZones)
		return zs, nil
	}
	raw, err := os.ReadFile(c.ZonesFile)
	if err != nil {
		return nil, fmt.Errorf("read zones file: %w", err)
	}
	var zs []geofence.Zone
	if err := json.Unmarshal(raw, &zs); err != nil {
		return nil, fmt.Errorf("parse zones file: %w", err)
	}
	if len(zs) == 0 {
		return nil, fmt.Errorf("zones file %s contains no zones", c.ZonesFile)
	}
	return zs, nil
}
