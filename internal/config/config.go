package config // package config loads application configuration from environment variables

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config holds all runtime configuration values. The struct is built once in
// main and passed explicitly to the components that need it; nothing reads
// the environment after startup.
type Config struct {
	Env      string // application environment (e.g. "dev", "prod")
	Port     string // HTTP port to listen on
	DataDir  string // directory holding marcajes.json, users.json and backups/
	Timezone string // IANA zone used for "today"/"yesterday" (America/Chicago)

	StrictGeofence bool   // true rejects punches outside every zone
	ZonesFile      string // optional JSON file overriding the built-in zone table

	JWTSecret    string // secret used to sign admin/user access tokens
	AccessTTLMin int    // access token time-to-live in minutes
	BcryptCost   int    // bcrypt cost for credential hashing

	DBUser string // mirror database username (mirror disabled when DBHost empty)
	DBPass string // mirror database password (optional)
	DBHost string // mirror database host
	DBPort string // mirror database port
	DBName string // mirror database name

	QueueEnabled bool   // publish punch.recorded events and run the consumer
	BackupSpec   string // cron expression for the nightly backup

	AdminUser string // optional admin account seeded at startup
	AdminPass string // password for the seeded admin account
}

// Load reads configuration from environment variables. JWT_SECRET is the only
// hard requirement; everything else has a default mirroring the previous
// deployment. Missing required values cause a fatal log message.
func Load() Config {
	return Config{
		Env:            getenv("APP_ENV", "dev"),
		Port:           getenv("APP_PORT", getenv("PORT", "3000")),
		DataDir:        getenv("DATA_DIR", "."),
		Timezone:       getenv("CLOCK_TZ", "America/Chicago"),
		StrictGeofence: envBool("GEOFENCE_STRICT", false),
		ZonesFile:      os.Getenv("GEOFENCE_ZONES_FILE"),
		JWTSecret:      must("JWT_SECRET"),
		AccessTTLMin:   envInt("ACCESS_TOKEN_TTL_MIN", 480),
		BcryptCost:     envInt("BCRYPT_COST", 10),
		DBUser:         os.Getenv("DB_USER"),
		DBPass:         os.Getenv("DB_PASS"),
		DBHost:         os.Getenv("DB_HOST"),
		DBPort:         getenv("DB_PORT", "3306"),
		DBName:         getenv("DB_NAME", "webclock"),
		QueueEnabled:   envBool("QUEUE_ENABLED", false),
		BackupSpec:     getenv("BACKUP_CRON", "0 23 * * *"),
		AdminUser:      os.Getenv("ADMIN_USER"),
		AdminPass:      os.Getenv("ADMIN_PASS"),
	}
}

// MirrorEnabled reports whether a mirror database was configured.
func (c Config) MirrorEnabled() bool { return c.DBHost != "" }

// LedgerPath is the punch ledger file inside DataDir.
func (c Config) LedgerPath() string { return filepath.Join(c.DataDir, "marcajes.json") }

// UsersPath is the user directory file inside DataDir.
func (c Config) UsersPath() string { return filepath.Join(c.DataDir, "users.json") }

// BackupsDir is where nightly snapshots land.
func (c Config) BackupsDir() string { return filepath.Join(c.DataDir, "backups") }

// Location resolves the configured time zone, falling back to UTC when the
// zone database does not know the name.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		log.Printf("config: unknown timezone %q, falling back to UTC", c.Timezone)
		return time.UTC
	}
	return loc
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envBool(key string, def bool) bool {
	switch os.Getenv(key) {
	case "":
		return def
	case "1", "true", "TRUE", "True", "yes", "YES", "on", "ON":
		return true
	case "0", "false", "FALSE", "False", "no", "NO", "off", "OFF":
		return false
	}
	return def
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return def
}

func envDur(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	return def
}
