// Package mirror maintains the write-only relational projection of the punch
// ledger. The workflow never reads it back; it exists so payroll tooling can
// query punches with SQL. Inserts are best-effort and must never fail a
// punch request.
package mirror

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"github.com/dinex/webclock/internal/model"
)

// Store wraps the mirror database handle.
type Store struct {
	db *sql.DB
}

// Open connects to MySQL, verifies the connection and makes sure the
// registros table exists.
func Open(user, pass, host, port, name string) (*Store, error) {
	auth := user
	if pass != "" {
		auth = fmt.Sprintf("%s:%s", user, pass)
	}
	// parseTime=true -> DATETIME -> time.Time | loc=UTC keeps times consistent
	dsn := fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
		auth, host, port, name)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	// Pool settings
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	s := &Store{db: db}
	if err := s.ensureSchema(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) ensureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS registros (
			id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
			usuario VARCHAR(64) NOT NULL,
			tipo VARCHAR(32) NOT NULL,
			fecha CHAR(10) NOT NULL,
			hora CHAR(8) NOT NULL,
			ip VARCHAR(64) NOT NULL DEFAULT '',
			departamento VARCHAR(64) NOT NULL DEFAULT ''
		)`)
	return err
}

// Insert projects one punch record into the registros table.
func (s *Store) Insert(ctx context.Context, rec model.PunchRecord) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO registros (usuario, tipo, fecha, hora, ip, departamento) VALUES (?,?,?,?,?,?)",
		rec.Usuario, rec.Tipo, rec.Fecha, rec.Hora, rec.IP, rec.Departamento)
	return err
}

// Clear removes every projected row. Used when an admin wipes the ledger.
func (s *Store) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM registros")
	return err
}

// Close releases the connection pool.
func (s *Store) Close() error { return s.db.Close() }
