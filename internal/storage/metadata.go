package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/codebuildervaibhav/lecture-insights/internal/analysis"
)

// MetadataDB handles SQLite database operations
type MetadataDB struct {
	db *sql.DB
}

// NewMetadataDB creates a new metadata database
func NewMetadataDB(dbPath string) (*MetadataDB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %v", err)
	}

	// Create table if not exists
	createTableSQL := `
	CREATE TABLE IF NOT EXISTS lectures (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		job_id TEXT NOT NULL UNIQUE,
		request_name TEXT NOT NULL,
		source_type TEXT NOT NULL,
		summary TEXT,
		keywords TEXT,
		categories TEXT,
		gdrive_url TEXT,
		local_path TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		duration REAL,
		word_count INTEGER
	);

	CREATE INDEX IF NOT EXISTS idx_created_at ON lectures(created_at);
	CREATE INDEX IF NOT EXISTS idx_request_name ON lectures(request_name);
	`

	if _, err := db.Exec(createTableSQL); err != nil {
		return nil, fmt.Errorf("failed to create table: %v", err)
	}

	return &MetadataDB{db: db}, nil
}

// SaveLecture saves lecture metadata and analysis results to the database.
// Keyword and category lists are stored newline-joined.
func (mdb *MetadataDB) SaveLecture(
	jobID, requestName, sourceType string,
	report *analysis.Result,
	gdriveURL, localPath string,
	duration float64, wordCount int,
) error {
	var summary, keywords, categories string
	if report != nil {
		summary = report.Summary
		keywords = strings.Join(report.Keywords, "\n")
		categories = strings.Join(report.Categories, "\n")
	}

	query := `
	INSERT INTO lectures (job_id, request_name, source_type, summary, keywords, categories, gdrive_url, local_path, created_at, duration, word_count)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := mdb.db.Exec(query, jobID, requestName, sourceType, summary, keywords, categories,
		gdriveURL, localPath, time.Now(), duration, wordCount)
	if err != nil {
		return fmt.Errorf("failed to save lecture metadata: %v", err)
	}

	return nil
}

// GetLecture retrieves lecture metadata by job ID
func (mdb *MetadataDB) GetLecture(jobID string) (map[string]interface{}, error) {
	query := `
	SELECT job_id, request_name, source_type, summary, keywords, categories, gdrive_url, local_path, created_at, duration, word_count
	FROM lectures WHERE job_id = ?
	`

	row := mdb.db.QueryRow(query, jobID)
	return scanLecture(row.Scan)
}

// ListLectures returns the most recent lectures
func (mdb *MetadataDB) ListLectures(limit int) ([]map[string]interface{}, error) {
	query := `
	SELECT job_id, request_name, source_type, summary, keywords, categories, gdrive_url, local_path, created_at, duration, word_count
	FROM lectures ORDER BY created_at DESC LIMIT ?
	`

	rows, err := mdb.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list lectures: %v", err)
	}
	defer rows.Close()

	var lectures []map[string]interface{}

	for rows.Next() {
		lecture, err := scanLecture(rows.Scan)
		if err != nil {
			continue
		}
		lectures = append(lectures, lecture)
	}

	return lectures, nil
}

func scanLecture(scan func(...interface{}) error) (map[string]interface{}, error) {
	var (
		jid, name, source, summary, keywords, categories, gdrive, local string
		createdAt                                                       time.Time
		duration                                                        float64
		wordCount                                                       int
	)

	err := scan(&jid, &name, &source, &summary, &keywords, &categories, &gdrive, &local,
		&createdAt, &duration, &wordCount)
	if err != nil {
		return nil, fmt.Errorf("failed to scan lecture: %v", err)
	}

	return map[string]interface{}{
		"job_id":       jid,
		"request_name": name,
		"source_type":  source,
		"summary":      summary,
		"keywords":     splitLines(keywords),
		"categories":   splitLines(categories),
		"gdrive_url":   gdrive,
		"local_path":   local,
		"created_at":   createdAt,
		"duration":     duration,
		"word_count":   wordCount,
	}, nil
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

// Close closes the database connection
func (mdb *MetadataDB) Close() error {
	return mdb.db.Close()
}
