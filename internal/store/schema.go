package store

const Schema = `
CREATE TABLE IF NOT EXISTS downloads (
	id TEXT PRIMARY KEY,
	provider_id TEXT NOT NULL,
	title TEXT NOT NULL,
	artist TEXT,
	album TEXT,
	file_path TEXT,
	status TEXT NOT NULL,
	error TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_downloads_provider_id ON downloads(provider_id);
CREATE INDEX IF NOT EXISTS idx_downloads_status ON downloads(status);
`
