package model

// Punch types accepted by the workflow. The set is extensible; these four are
// what the front-end submits today.
const (
	TipoEntrada      = "entrada"
	TipoSalida       = "salida"
	TipoEntradaLunch = "entrada_lunch"
	TipoSalidaLunch  = "salida_lunch"
)

// PunchRecord is one clock event as persisted in marcajes.json. The json tags
// match the historical file format so data files written by earlier versions
// of the service load unchanged.
//
// Fields:
//  ID                – stable identifier assigned when the record is appended.
//  Usuario           – username of the employee who punched.
//  Tipo              – punch type (entrada, salida, entrada_lunch, salida_lunch).
//  Fecha             – local date in YYYY-MM-DD.
//  Hora              – local time in HH:mm:ss.
//  IP                – origin IP as seen through the proxy.
//  Departamento      – department the employee selected (may be empty).
//  Lat/Lng/Accuracy  – geolocation reported by the browser; nil when absent.
//  InsideGeofence    – geofence verdict; nil for records without evaluation.
//  GeofenceID/Name   – matched zone, nil when outside every zone.
//  DistanceToCenterM – rounded distance to the matched zone center in meters.
//  Auto              – true when the record was synthesized by the system.
//  UserAgent         – browser user agent string, nil when unknown.
type PunchRecord struct {
	ID                string   `json:"id,omitempty"`
	Usuario           string   `json:"usuario"`
	Tipo              string   `json:"tipo"`
	Fecha             string   `json:"fecha"`
	Hora              string   `json:"hora"`
	IP                string   `json:"ip"`
	Departamento      string   `json:"departamento"`
	Lat               *float64 `json:"lat"`
	Lng               *float64 `json:"lng"`
	Accuracy          *float64 `json:"accuracy"`
	InsideGeofence    *bool    `json:"insideGeofence"`
	GeofenceID        *string  `json:"geofenceId"`
	GeofenceName      *string  `json:"geofenceName"`
	DistanceToCenterM *int     `json:"distanceToCenterM"`
	Auto              bool     `json:"auto,omitempty"`
	UserAgent         *string  `json:"userAgent"`
}
