package collection

import "database/sql"

const tokenDocsSchema = `
CREATE TABLE IF NOT EXISTS token_docs (
    id TEXT PRIMARY KEY,
    content TEXT,
    meta TEXT,
    tokens INTEGER NOT NULL,
    dim INTEGER NOT NULL,
    embedding BLOB
);
`

// EnsureSchema creates the token_docs table in the provided database if it
// does not already exist. The dimension is stored per row and validated to
// be uniform on preload, which keeps the schema free of a separate
// metadata table.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(tokenDocsSchema)
	return err
}
