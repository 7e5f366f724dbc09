package store

import (
	"time"

	"github.com/google/uuid"

	"github.com/SohamBorate/spot-dl-downloader/internal/domain"
)

// RecordDownload appends one terminal outcome to the history. The row
// ID is generated here; the passed record is updated with it.
func (db *DB) RecordDownload(d *domain.Download) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now().UTC()
	}
	query := `INSERT INTO downloads (id, provider_id, title, artist, album, file_path, status, error, created_at)
		VALUES (:id, :provider_id, :title, :artist, :album, :file_path, :status, :error, :created_at)`
	_, err := db.NamedExec(query, d)
	return err
}

// ListDownloads returns the most recent history rows, newest first.
func (db *DB) ListDownloads(limit int) ([]*domain.Download, error) {
	query := `SELECT id, provider_id, title, artist, album, file_path, status, error, created_at
		FROM downloads ORDER BY created_at DESC, id LIMIT ?`
	var downloads []*domain.Download
	if err := db.Select(&downloads, query, limit); err != nil {
		return nil, err
	}
	return downloads, nil
}

// CountByStatus tallies history rows per terminal status.
func (db *DB) CountByStatus() (map[domain.DownloadStatus]int, error) {
	rows, err := db.Queryx(`SELECT status, COUNT(*) AS n FROM downloads GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[domain.DownloadStatus]int)
	for rows.Next() {
		var status domain.DownloadStatus
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}
