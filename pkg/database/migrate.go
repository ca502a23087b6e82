package database

import (
	dbsql "database/sql"
	"fmt"
	"sort"

	"arden/api_monitor/pkg/database/sql"
	"arden/api_monitor/pkg/logging"
)

// Migrate applies the embedded schema files in lexical order. Statements are
// written to be idempotent (IF NOT EXISTS) so re-running on boot is safe.
func Migrate(db *dbsql.DB, logger logging.Logger) error {
	entries, err := sql.Content.ReadDir("schema")
	if err != nil {
		return fmt.Errorf("read embedded schema: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		contents, err := sql.Content.ReadFile("schema/" + name)
		if err != nil {
			return fmt.Errorf("read schema %s: %w", name, err)
		}
		if _, err := db.Exec(string(contents)); err != nil {
			return fmt.Errorf("apply schema %s: %w", name, err)
		}
		logger.WithField("schema", name).Debug("Applied schema file")
	}

	return nil
}
