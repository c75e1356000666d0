package database

import (
	"database/sql"
	"fmt"
)

// MigrateFavoritesUp creates the user_favorite_datatypes relation. The
// composite unique index is what makes repeated marks of the same
// (user, datatype) pair impossible to persist twice.
func MigrateFavoritesUp(db *sql.DB) error {
	query := `
		CREATE TABLE IF NOT EXISTS user_favorite_datatypes (
			id SERIAL PRIMARY KEY,
			user_id INTEGER NOT NULL,
			datatype VARCHAR(255) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`

	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("failed to create user_favorite_datatypes: %w", err)
	}

	index := `
		CREATE UNIQUE INDEX IF NOT EXISTS idx_user_datatype
		ON user_favorite_datatypes (user_id, datatype)
	`

	if _, err := db.Exec(index); err != nil {
		return fmt.Errorf("failed to create idx_user_datatype: %w", err)
	}

	return nil
}

// MigrateFavoritesDown drops the user_favorite_datatypes relation. The
// feature introduces a new table rather than altering an existing one, so
// no data migration is needed in either direction.
func MigrateFavoritesDown(db *sql.DB) error {
	if _, err := db.Exec(`DROP TABLE IF EXISTS user_favorite_datatypes`); err != nil {
		return fmt.Errorf("failed to drop user_favorite_datatypes: %w", err)
	}
	return nil
}
