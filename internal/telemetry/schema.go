package telemetry

import "database/sql"

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
        CREATE TABLE IF NOT EXISTS samples (
            timestamp INTEGER PRIMARY KEY,
            temperature INTEGER,
            voltage REAL,
            charge REAL
        )
    `)

	return err
}
