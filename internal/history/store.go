// Package history keeps a SQLite record of finished transcription jobs.
package history

import (
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/ytget/yt-transcriber/internal/model"
	"github.com/ytget/yt-transcriber/internal/platform"
)

// ErrNotFound is returned by Get when no entry matches
var ErrNotFound = errors.New("history entry not found")

// DefaultListLimit caps List when no limit is given
const DefaultListLimit = 50

const createTableSQL = `
CREATE TABLE IF NOT EXISTS transcriptions (
	id                   INTEGER PRIMARY KEY AUTOINCREMENT,
	job_id               TEXT NOT NULL,
	url                  TEXT NOT NULL,
	video_id             TEXT NOT NULL DEFAULT '',
	title                TEXT NOT NULL DEFAULT '',
	engine               TEXT NOT NULL DEFAULT '',
	model                TEXT NOT NULL DEFAULT '',
	language             TEXT NOT NULL DEFAULT '',
	audio_duration       REAL NOT NULL DEFAULT 0,
	output_path          TEXT NOT NULL DEFAULT '',
	transcription        TEXT NOT NULL DEFAULT '',
	last_conversion_time TIMESTAMP NOT NULL,
	has_error            INTEGER NOT NULL DEFAULT 0,
	error_message        TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_transcriptions_time ON transcriptions(last_conversion_time);`

// Entry is one recorded job
type Entry struct {
	ID                 int64
	JobID              string
	URL                string
	VideoID            string
	Title              string
	Engine             string
	Model              string
	Language           string
	AudioDuration      float64
	OutputPath         string
	Transcription      string
	LastConversionTime time.Time
	HasError           bool
	ErrorMessage       string
}

// Store is the SQLite-backed history
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and migrates it
func Open(path string) (*Store, error) {
	if err := platform.CreateDirectoryIfNotExists(filepath.Dir(path)); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?_busy_timeout=5000&mode=rwc", path))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(createTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

// Record inserts a finished job
func (s *Store) Record(job *model.Job) (int64, error) {
	if job == nil {
		return 0, errors.New("nil job")
	}

	finished := job.FinishedAt
	if finished.IsZero() {
		finished = time.Now()
	}
	hasError := 0
	if job.Status == model.JobStatusError {
		hasError = 1
	}

	const insertSQL = `INSERT INTO transcriptions
		(job_id, url, video_id, title, engine, model, language, audio_duration, output_path,
		 transcription, last_conversion_time, has_error, error_message)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`

	res, err := s.db.Exec(insertSQL,
		job.ID, job.URL, job.VideoID, job.Title,
		string(job.Options.Engine), job.Options.Model, job.Language,
		job.Duration, job.OutputPath, job.Text,
		finished.UTC(), hasError, job.LastError)
	if err != nil {
		return 0, fmt.Errorf("failed to insert history entry: %w", err)
	}
	return res.LastInsertId()
}

const selectColumns = `id, job_id, url, video_id, title, engine, model, language, audio_duration,
	output_path, transcription, last_conversion_time, has_error, error_message`

// List returns the newest entries first
func (s *Store) List(limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	rows, err := s.db.Query(`SELECT `+selectColumns+` FROM transcriptions
		ORDER BY last_conversion_time DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	entries := make([]Entry, 0)
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Get returns one entry by row ID
func (s *Store) Get(id int64) (Entry, error) {
	row := s.db.QueryRow(`SELECT `+selectColumns+` FROM transcriptions WHERE id = ?`, id)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return e, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (Entry, error) {
	var e Entry
	var hasError int
	err := row.Scan(&e.ID, &e.JobID, &e.URL, &e.VideoID, &e.Title, &e.Engine, &e.Model,
		&e.Language, &e.AudioDuration, &e.OutputPath, &e.Transcription,
		&e.LastConversionTime, &hasError, &e.ErrorMessage)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return e, err
		}
		return e, fmt.Errorf("db scan failed: %w", err)
	}
	e.HasError = hasError != 0
	return e, nil
}
