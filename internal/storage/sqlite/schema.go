package sqlite

// schema sets up the single records table. It runs at first open and is
// idempotent: re-creating an existing table is a no-op.
const schema = `
CREATE TABLE IF NOT EXISTS records (
    collection TEXT NOT NULL,
    id         TEXT NOT NULL,
    data       TEXT NOT NULL,
    PRIMARY KEY (collection, id)
);
`

// upsertQuery overwrites silently when the id already exists.
const upsertQuery = `
INSERT INTO records (collection, id, data) VALUES (?, ?, ?)
ON CONFLICT (collection, id) DO UPDATE SET data = excluded.data
`
