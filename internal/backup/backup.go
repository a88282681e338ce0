// Package backup copies the JSON stores into a date-stamped snapshot
// directory. The nightly run is driven by cron; the same snapshot can be
// triggered manually through the admin endpoint. Snapshots only read the
// store files and never hold a lock that could block punch handling.
package backup

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"
)

// Runner snapshots the configured source files into destDir.
type Runner struct {
	ledgerPath string
	usersPath  string
	destDir    string
}

// NewRunner builds a Runner for the two JSON stores.
func NewRunner(ledgerPath, usersPath, destDir string) *Runner {
	return &Runner{ledgerPath: ledgerPath, usersPath: usersPath, destDir: destDir}
}

// Run copies both store files into destDir with the date baked into the file
// name, e.g. marcajes-2024-01-10.json. A missing source file is skipped; any
// other failure aborts the snapshot.
func (r *Runner) Run() error {
	fecha := time.Now().UTC().Format("2006-01-02")
	if err := os.MkdirAll(r.destDir, 0o755); err != nil {
		return fmt.Errorf("create backups dir: %w", err)
	}
	for _, src := range []struct{ path, prefix string }{
		{r.ledgerPath, "marcajes"},
		{r.usersPath, "users"},
	} {
		if err := copyFile(src.path, filepath.Join(r.destDir, fmt.Sprintf("%s-%s.json", src.prefix, fecha))); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return fmt.Errorf("backup %s: %w", src.path, err)
		}
	}
	return nil
}

// Schedule registers the nightly snapshot with the given cron expression
// (standard 5-field syntax, e.g. "0 23 * * *") and starts the scheduler.
func (r *Runner) Schedule(spec string) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		if err := r.Run(); err != nil {
			log.Printf("backup: scheduled snapshot failed: %v", err)
			return
		}
		log.Printf("backup: snapshot completed")
	})
	if err != nil {
		return nil, fmt.Errorf("schedule backup %q: %w", spec, err)
	}
	c.Start()
	return c, nil
}

func copyFile(src, dst string) error {
	raw, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, raw, 0o644)
}
