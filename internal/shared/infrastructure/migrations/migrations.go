// Package migrations applies the embedded schema for either backend.
package migrations

import (
	"context"
	"embed"
	"fmt"
	"sort"
	"strings"

	"github.com/felixgeelhaar/weekplan/internal/shared/infrastructure/database"
)

//go:embed postgres/*.sql sqlite/*.sql
var migrationFS embed.FS

// Run executes all migrations for the connection's driver, in file order.
// Statements use CREATE ... IF NOT EXISTS, so reruns are idempotent.
func Run(ctx context.Context, conn database.Connection) error {
	dir := conn.Driver().String()

	entries, err := migrationFS.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("migrations: read %s directory: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)

	for _, file := range files {
		script, err := migrationFS.ReadFile(dir + "/" + file)
		if err != nil {
			return fmt.Errorf("migrations: read %s: %w", file, err)
		}
		// Statements run one at a time; pgx rejects multi-statement Exec.
		for _, stmt := range strings.Split(string(script), ";") {
			stmt = strings.TrimSpace(stmt)
			if stmt == "" {
				continue
			}
			if _, err := conn.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("migrations: apply %s: %w", file, err)
			}
		}
	}

	return nil
}
