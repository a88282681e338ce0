// Package queue defines message payloads exchanged over the message broker.
package queue

// PunchRecordedEvent is published after a punch record has been committed to
// the ledger. It carries enough for downstream consumers to audit or notify
// without touching the primary store. Geofence fields are nil for records
// that skipped evaluation (auto-closes and manual entries).
type PunchRecordedEvent struct {
	RecordID       string  `json:"record_id"`
	Usuario        string  `json:"usuario"`
	Tipo           string  `json:"tipo"`
	Fecha          string  `json:"fecha"`
	Hora           string  `json:"hora"`
	Departamento   string  `json:"departamento"`
	InsideGeofence *bool   `json:"insideGeofence"`
	GeofenceID     *string `json:"geofenceId"`
	Auto           bool    `json:"auto"`
	RecordedAt     string  `json:"recorded_at"`
}
