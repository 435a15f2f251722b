package repository

// SQLiteSchema creates the tables for the SQLite dialect.
var SQLiteSchema = []string{
	`CREATE TABLE IF NOT EXISTS media (
		id TEXT PRIMARY KEY,
		source TEXT NOT NULL,
		original_name TEXT,
		path TEXT NOT NULL,
		active_transcript_id INTEGER,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS transcripts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		media_id TEXT NOT NULL REFERENCES media(id) ON DELETE CASCADE,
		language TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_transcripts_media ON transcripts(media_id)`,
	`CREATE TABLE IF NOT EXISTS segments (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		transcript_id INTEGER NOT NULL REFERENCES transcripts(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		start_s REAL NOT NULL,
		end_s REAL NOT NULL,
		text TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_segments_transcript ON segments(transcript_id, position)`,
	`CREATE TABLE IF NOT EXISTS words (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		segment_id INTEGER NOT NULL REFERENCES segments(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		start_s REAL NOT NULL,
		end_s REAL NOT NULL,
		text TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_words_segment ON words(segment_id, position)`,
	`CREATE TABLE IF NOT EXISTS render_attempts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		media_id TEXT NOT NULL REFERENCES media(id) ON DELETE CASCADE,
		style_id TEXT NOT NULL,
		resolution TEXT,
		output_path TEXT NOT NULL,
		artifact_url TEXT,
		created_at TIMESTAMP NOT NULL,
		success BOOLEAN NOT NULL,
		error TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_render_attempts_media ON render_attempts(media_id)`,
	`CREATE TABLE IF NOT EXISTS pipeline_jobs (
		id TEXT PRIMARY KEY,
		media_id TEXT REFERENCES media(id) ON DELETE CASCADE,
		source_url TEXT NOT NULL,
		style_id TEXT NOT NULL,
		language TEXT NOT NULL DEFAULT '',
		resolution TEXT NOT NULL DEFAULT '',
		stage TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL,
		failed_stage TEXT NOT NULL DEFAULT '',
		error TEXT NOT NULL DEFAULT '',
		output_path TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL,
		completed_at TIMESTAMP
	)`,
}

// PostgresSchema creates the tables for the PostgreSQL dialect.
var PostgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS media (
		id TEXT PRIMARY KEY,
		source TEXT NOT NULL,
		original_name TEXT,
		path TEXT NOT NULL,
		active_transcript_id BIGINT,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS transcripts (
		id BIGSERIAL PRIMARY KEY,
		media_id TEXT NOT NULL REFERENCES media(id) ON DELETE CASCADE,
		language TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_transcripts_media ON transcripts(media_id)`,
	`CREATE TABLE IF NOT EXISTS segments (
		id BIGSERIAL PRIMARY KEY,
		transcript_id BIGINT NOT NULL REFERENCES transcripts(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		start_s DOUBLE PRECISION NOT NULL,
		end_s DOUBLE PRECISION NOT NULL,
		text TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_segments_transcript ON segments(transcript_id, position)`,
	`CREATE TABLE IF NOT EXISTS words (
		id BIGSERIAL PRIMARY KEY,
		segment_id BIGINT NOT NULL REFERENCES segments(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		start_s DOUBLE PRECISION NOT NULL,
		end_s DOUBLE PRECISION NOT NULL,
		text TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_words_segment ON words(segment_id, position)`,
	`CREATE TABLE IF NOT EXISTS render_attempts (
		id BIGSERIAL PRIMARY KEY,
		media_id TEXT NOT NULL REFERENCES media(id) ON DELETE CASCADE,
		style_id TEXT NOT NULL,
		resolution TEXT,
		output_path TEXT NOT NULL,
		artifact_url TEXT,
		created_at TIMESTAMPTZ NOT NULL,
		success BOOLEAN NOT NULL,
		error TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_render_attempts_media ON render_attempts(media_id)`,
	`CREATE TABLE IF NOT EXISTS pipeline_jobs (
		id TEXT PRIMARY KEY,
		media_id TEXT REFERENCES media(id) ON DELETE CASCADE,
		source_url TEXT NOT NULL,
		style_id TEXT NOT NULL,
		language TEXT NOT NULL DEFAULT '',
		resolution TEXT NOT NULL DEFAULT '',
		stage TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL,
		failed_stage TEXT NOT NULL DEFAULT '',
		error TEXT NOT NULL DEFAULT '',
		output_path TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL,
		completed_at TIMESTAMPTZ
	)`,
}
