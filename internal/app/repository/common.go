package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	apperrors "opencaption/internal/app/errors"
	"opencaption/internal/app/model"
)

// CommonDB provides shared database functionality
type CommonDB struct {
	db           *sql.DB
	driverName   string
	placeholders PlaceholderFunc
	now          func() time.Time
}

var _ Store = (*CommonDB)(nil)

// PlaceholderFunc generates parameter placeholders for different SQL dialects
type PlaceholderFunc func(n int) string

// NewCommonDB creates a new CommonDB instance
func NewCommonDB(db *sql.DB, driverName string) *CommonDB {
	var placeholders PlaceholderFunc

	switch driverName {
	case "postgres":
		placeholders = func(n int) string { return fmt.Sprintf("$%d", n) }
	default:
		placeholders = func(n int) string { return "?" }
	}

	return &CommonDB{
		db:           db,
		driverName:   driverName,
		placeholders: placeholders,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// DB exposes the underlying handle.
func (c *CommonDB) DB() *sql.DB {
	return c.db
}

// Close closes the database connection
func (c *CommonDB) Close() error {
	return c.db.Close()
}

// Migrate executes the schema statements in order.
func (c *CommonDB) Migrate(ctx context.Context, schema []string) error {
	for _, stmt := range schema {
		if _, err := c.db.ExecContext(ctx, stmt); err != nil {
			return apperrors.Persistence(err, "migrate schema")
		}
	}
	return nil
}

// rebind rewrites '?' markers into the dialect's placeholders.
func (c *CommonDB) rebind(query string) string {
	if c.driverName != "postgres" {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString(c.placeholders(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (c *CommonDB) withTx(ctx context.Context, op string, fn func(tx *sql.Tx) error) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.Persistence(err, op+": begin")
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return apperrors.Persistence(err, op+": commit")
	}
	return nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func int64Ptr(ni sql.NullInt64) *int64 {
	if !ni.Valid {
		return nil
	}
	v := ni.Int64
	return &v
}

// CreateMedia inserts a media row. CreatedAt is set when zero.
func (c *CommonDB) CreateMedia(ctx context.Context, m *model.Media) error {
	if m.CreatedAt.IsZero() {
		m.CreatedAt = c.now()
	}
	query := c.rebind(`INSERT INTO media (id, source, original_name, path, created_at) VALUES (?, ?, ?, ?, ?)`)
	_, err := c.db.ExecContext(ctx, query, m.ID, string(m.Source), nullString(m.OriginalName), m.Path, m.CreatedAt)
	if err != nil {
		return apperrors.Persistence(err, "insert media").WithMedia(m.ID)
	}
	return nil
}

const mediaColumns = `id, source, original_name, path, active_transcript_id, created_at`

func scanMedia(row interface{ Scan(...any) error }) (*model.Media, error) {
	var (
		m        model.Media
		source   string
		original sql.NullString
		active   sql.NullInt64
	)
	if err := row.Scan(&m.ID, &source, &original, &m.Path, &active, &m.CreatedAt); err != nil {
		return nil, err
	}
	m.Source = model.MediaSource(source)
	m.OriginalName = stringPtr(original)
	m.ActiveTranscriptID = int64Ptr(active)
	return &m, nil
}

// GetMedia loads one media row.
func (c *CommonDB) GetMedia(ctx context.Context, id string) (*model.Media, error) {
	query := c.rebind(`SELECT ` + mediaColumns + ` FROM media WHERE id = ?`)
	m, err := scanMedia(c.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("media", id)
	}
	if err != nil {
		return nil, apperrors.Persistence(err, "select media").WithMedia(id)
	}
	return m, nil
}

// ListMedia returns every media row, newest first.
func (c *CommonDB) ListMedia(ctx context.Context) ([]model.Media, error) {
	rows, err := c.db.QueryContext(ctx, `SELECT `+mediaColumns+` FROM media ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, apperrors.Persistence(err, "list media")
	}
	defer rows.Close()

	var out []model.Media
	for rows.Next() {
		m, err := scanMedia(rows)
		if err != nil {
			return nil, apperrors.Persistence(err, "scan media")
		}
		out = append(out, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Persistence(err, "list media")
	}
	return out, nil
}

// DeleteMedia removes the media row and, through ON DELETE CASCADE, all
// rows that reference it.
func (c *CommonDB) DeleteMedia(ctx context.Context, id string) error {
	res, err := c.db.ExecContext(ctx, c.rebind(`DELETE FROM media WHERE id = ?`), id)
	if err != nil {
		return apperrors.Persistence(err, "delete media").WithMedia(id)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperrors.NotFound("media", id)
	}
	return nil
}

// SaveTranscript inserts the transcript graph in one transaction.
func (c *CommonDB) SaveTranscript(ctx context.Context, t *model.Transcript, promote bool) error {
	createdAt := c.now()
	return c.withTx(ctx, "save transcript", func(tx *sql.Tx) error {
		var id int64
		err := tx.QueryRowContext(ctx,
			c.rebind(`INSERT INTO transcripts (media_id, language, created_at) VALUES (?, ?, ?) RETURNING id`),
			t.MediaID, t.Language, createdAt).Scan(&id)
		if err != nil {
			return apperrors.Persistence(err, "insert transcript").WithMedia(t.MediaID)
		}

		segQuery := c.rebind(`INSERT INTO segments (transcript_id, position, start_s, end_s, text) VALUES (?, ?, ?, ?, ?) RETURNING id`)
		wordQuery := c.rebind(`INSERT INTO words (segment_id, position, start_s, end_s, text) VALUES (?, ?, ?, ?, ?)`)
		for i, s := range t.Segments {
			var segID int64
			if err := tx.QueryRowContext(ctx, segQuery, id, i, s.Start, s.End, s.Text).Scan(&segID); err != nil {
				return apperrors.Persistence(err, "insert segment").WithMedia(t.MediaID)
			}
			for j, w := range s.Words {
				if _, err := tx.ExecContext(ctx, wordQuery, segID, j, w.Start, w.End, w.Text); err != nil {
					return apperrors.Persistence(err, "insert word").WithMedia(t.MediaID)
				}
			}
		}

		if promote {
			if err := c.promote(ctx, tx, t.MediaID, id); err != nil {
				return err
			}
		}
		t.ID = id
		t.CreatedAt = createdAt
		return nil
	})
}

// GetTranscript loads a transcript with its segments and words.
func (c *CommonDB) GetTranscript(ctx context.Context, id int64) (*model.Transcript, error) {
	t := &model.Transcript{ID: id}
	err := c.db.QueryRowContext(ctx,
		c.rebind(`SELECT media_id, language, created_at FROM transcripts WHERE id = ?`), id).
		Scan(&t.MediaID, &t.Language, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("transcript", fmt.Sprint(id))
	}
	if err != nil {
		return nil, apperrors.Persistence(err, "select transcript")
	}
	if err := c.loadSegments(ctx, c.db, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (c *CommonDB) loadSegments(ctx context.Context, q querier, t *model.Transcript) error {
	rows, err := q.QueryContext(ctx,
		c.rebind(`SELECT id, start_s, end_s, text FROM segments WHERE transcript_id = ? ORDER BY position`), t.ID)
	if err != nil {
		return apperrors.Persistence(err, "select segments")
	}
	index := make(map[int64]int)
	t.Segments = []model.Segment{}
	for rows.Next() {
		var (
			segID int64
			s     model.Segment
		)
		if err := rows.Scan(&segID, &s.Start, &s.End, &s.Text); err != nil {
			rows.Close()
			return apperrors.Persistence(err, "scan segment")
		}
		index[segID] = len(t.Segments)
		t.Segments = append(t.Segments, s)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return apperrors.Persistence(err, "select segments")
	}
	if len(index) == 0 {
		return nil
	}

	rows, err = q.QueryContext(ctx, c.rebind(`
		SELECT w.segment_id, w.start_s, w.end_s, w.text
		FROM words w JOIN segments s ON s.id = w.segment_id
		WHERE s.transcript_id = ?
		ORDER BY s.position, w.position`), t.ID)
	if err != nil {
		return apperrors.Persistence(err, "select words")
	}
	defer rows.Close()
	for rows.Next() {
		var (
			segID int64
			w     model.Word
		)
		if err := rows.Scan(&segID, &w.Start, &w.End, &w.Text); err != nil {
			return apperrors.Persistence(err, "scan word")
		}
		if i, ok := index[segID]; ok {
			t.Segments[i].Words = append(t.Segments[i].Words, w)
		}
	}
	if err := rows.Err(); err != nil {
		return apperrors.Persistence(err, "select words")
	}
	return nil
}

// GetActiveTranscript loads the transcript the media currently points at.
func (c *CommonDB) GetActiveTranscript(ctx context.Context, mediaID string) (*model.Transcript, error) {
	m, err := c.GetMedia(ctx, mediaID)
	if err != nil {
		return nil, err
	}
	if m.ActiveTranscriptID == nil {
		return nil, apperrors.NotFound("transcript for media", mediaID)
	}
	return c.GetTranscript(ctx, *m.ActiveTranscriptID)
}

// PromoteTranscript makes transcriptID the media's active transcript.
func (c *CommonDB) PromoteTranscript(ctx context.Context, mediaID string, transcriptID int64) error {
	return c.withTx(ctx, "promote transcript", func(tx *sql.Tx) error {
		return c.promote(ctx, tx, mediaID, transcriptID)
	})
}

func (c *CommonDB) promote(ctx context.Context, q querier, mediaID string, transcriptID int64) error {
	res, err := q.ExecContext(ctx, c.rebind(`
		UPDATE media SET active_transcript_id = ?
		WHERE id = ? AND EXISTS (SELECT 1 FROM transcripts WHERE id = ? AND media_id = ?)`),
		transcriptID, mediaID, transcriptID, mediaID)
	if err != nil {
		return apperrors.Persistence(err, "promote transcript").WithMedia(mediaID)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperrors.NotFound("transcript for media", fmt.Sprintf("%s/%d", mediaID, transcriptID))
	}
	return nil
}

// ListTranscripts returns transcript headers for a media, newest first.
func (c *CommonDB) ListTranscripts(ctx context.Context, mediaID string) ([]model.Transcript, error) {
	rows, err := c.db.QueryContext(ctx,
		c.rebind(`SELECT id, media_id, language, created_at FROM transcripts WHERE media_id = ? ORDER BY id DESC`), mediaID)
	if err != nil {
		return nil, apperrors.Persistence(err, "list transcripts").WithMedia(mediaID)
	}
	defer rows.Close()

	var out []model.Transcript
	for rows.Next() {
		var t model.Transcript
		if err := rows.Scan(&t.ID, &t.MediaID, &t.Language, &t.CreatedAt); err != nil {
			return nil, apperrors.Persistence(err, "scan transcript")
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Persistence(err, "list transcripts")
	}
	return out, nil
}

// AppendRenderAttempt inserts an audit row and sets a.ID.
func (c *CommonDB) AppendRenderAttempt(ctx context.Context, a *model.RenderAttempt) error {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = c.now()
	}
	err := c.db.QueryRowContext(ctx, c.rebind(`
		INSERT INTO render_attempts (media_id, style_id, resolution, output_path, artifact_url, created_at, success, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?) RETURNING id`),
		a.MediaID, a.StyleID, nullString(a.Resolution), a.OutputPath, nullString(a.ArtifactURL),
		a.CreatedAt, a.Success, nullString(a.Error)).Scan(&a.ID)
	if err != nil {
		return apperrors.Persistence(err, "insert render attempt").WithMedia(a.MediaID)
	}
	return nil
}

// ListRenderAttempts returns attempts oldest first.
func (c *CommonDB) ListRenderAttempts(ctx context.Context, mediaID string) ([]model.RenderAttempt, error) {
	query := `SELECT id, media_id, style_id, resolution, output_path, artifact_url, created_at, success, error FROM render_attempts`
	var args []any
	if mediaID != "" {
		query += ` WHERE media_id = ?`
		args = append(args, mediaID)
	}
	query += ` ORDER BY id`

	rows, err := c.db.QueryContext(ctx, c.rebind(query), args...)
	if err != nil {
		return nil, apperrors.Persistence(err, "list render attempts")
	}
	defer rows.Close()

	var out []model.RenderAttempt
	for rows.Next() {
		var (
			a                        model.RenderAttempt
			resolution, url, errText sql.NullString
		)
		if err := rows.Scan(&a.ID, &a.MediaID, &a.StyleID, &resolution, &a.OutputPath, &url,
			&a.CreatedAt, &a.Success, &errText); err != nil {
			return nil, apperrors.Persistence(err, "scan render attempt")
		}
		a.Resolution = stringPtr(resolution)
		a.ArtifactURL = stringPtr(url)
		a.Error = stringPtr(errText)
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Persistence(err, "list render attempts")
	}
	return out, nil
}

// CreateJob inserts a pipeline job.
func (c *CommonDB) CreateJob(ctx context.Context, j *model.PipelineJob) error {
	now := c.now()
	if j.CreatedAt.IsZero() {
		j.CreatedAt = now
	}
	j.UpdatedAt = now
	_, err := c.db.ExecContext(ctx, c.rebind(`
		INSERT INTO pipeline_jobs (id, media_id, source_url, style_id, language, resolution, stage, status,
			failed_stage, error, output_path, created_at, updated_at, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		j.ID, nullString(j.MediaID), j.SourceURL, j.StyleID, j.Language, j.Resolution, string(j.Stage),
		string(j.Status), j.FailedStage, j.Error, j.OutputPath, j.CreatedAt, j.UpdatedAt, j.CompletedAt)
	if err != nil {
		return apperrors.Persistence(err, "insert pipeline job")
	}
	return nil
}

// UpdateJob overwrites the mutable job fields and bumps UpdatedAt.
func (c *CommonDB) UpdateJob(ctx context.Context, j *model.PipelineJob) error {
	j.UpdatedAt = c.now()
	res, err := c.db.ExecContext(ctx, c.rebind(`
		UPDATE pipeline_jobs SET media_id = ?, stage = ?, status = ?, failed_stage = ?, error = ?,
			output_path = ?, updated_at = ?, completed_at = ?
		WHERE id = ?`),
		nullString(j.MediaID), string(j.Stage), string(j.Status), j.FailedStage, j.Error,
		j.OutputPath, j.UpdatedAt, j.CompletedAt, j.ID)
	if err != nil {
		return apperrors.Persistence(err, "update pipeline job")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperrors.NotFound("job", j.ID)
	}
	return nil
}

// GetJob loads a pipeline job.
func (c *CommonDB) GetJob(ctx context.Context, id string) (*model.PipelineJob, error) {
	var (
		j             model.PipelineJob
		mediaID       sql.NullString
		stage, status string
		completedAt   sql.NullTime
	)
	err := c.db.QueryRowContext(ctx, c.rebind(`
		SELECT id, media_id, source_url, style_id, language, resolution, stage, status,
			failed_stage, error, output_path, created_at, updated_at, completed_at
		FROM pipeline_jobs WHERE id = ?`), id).
		Scan(&j.ID, &mediaID, &j.SourceURL, &j.StyleID, &j.Language, &j.Resolution, &stage, &status,
			&j.FailedStage, &j.Error, &j.OutputPath, &j.CreatedAt, &j.UpdatedAt, &completedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("job", id)
	}
	if err != nil {
		return nil, apperrors.Persistence(err, "select pipeline job")
	}
	j.MediaID = stringPtr(mediaID)
	j.Stage = model.Stage(stage)
	j.Status = model.JobStatus(status)
	if completedAt.Valid {
		t := completedAt.Time
		j.CompletedAt = &t
	}
	return &j, nil
}
