package domain

import (
	"fmt"
	"strings"
	"time"
)

// ReleaseDate holds the components of a catalog release date. Month and
// Day are zero when the catalog only reports a year.
type ReleaseDate struct {
	Year  int
	Month int
	Day   int
}

// ParseReleaseDate parses a catalog date string of the form
// "YYYY", "YYYY-MM" or "YYYY-MM-DD".
func ParseReleaseDate(s string) ReleaseDate {
	var rd ReleaseDate
	parts := strings.Split(s, "-")
	if len(parts) > 0 {
		fmt.Sscanf(parts[0], "%d", &rd.Year)
	}
	if len(parts) > 1 {
		fmt.Sscanf(parts[1], "%d", &rd.Month)
	}
	if len(parts) > 2 {
		fmt.Sscanf(parts[2], "%d", &rd.Day)
	}
	return rd
}

// MonthDay returns the MMDD form used by ID3 TDAT frames, or an empty
// string when the date carries no month component.
func (rd ReleaseDate) MonthDay() string {
	if rd.Month == 0 {
		return ""
	}
	return fmt.Sprintf("%02d%02d", rd.Month, rd.Day)
}

// AlbumContext is the album substructure attached to a track record. It
// is populated from the track's own album when the record is fetched
// directly, and synthesized from the parent album during album or
// artist expansion.
type AlbumContext struct {
	Name        string
	Artist      string
	ReleaseDate ReleaseDate
	ArtURL      string
}

// Track is a catalog track record with everything the pipeline needs:
// display names, numbering, web links and the album context. The record
// is immutable once fetched except for the display-name fields, which
// the sanitize stage rewrites in place.
type Track struct {
	ID          string
	Title       string
	Artists     []string // ordered, first entry is the primary artist
	TrackNumber int
	DiscNumber  int
	Duration    int    // milliseconds
	URL         string // canonical audio source link
	ArtistURL   string // canonical primary-artist link
	Album       AlbumContext
}

// PrimaryArtist returns the first contributing artist, or an empty
// string for a record with no artist list.
func (t *Track) PrimaryArtist() string {
	if len(t.Artists) == 0 {
		return ""
	}
	return t.Artists[0]
}

// BaseName returns the "{artist} - {title}" pair that keys every path
// derived for this track.
func (t *Track) BaseName() string {
	return fmt.Sprintf("%s - %s", t.PrimaryArtist(), t.Title)
}

// QueueItem is one entry of the scheduler backlog: a track plus the
// advisory redownload flag carried from the original request.
type QueueItem struct {
	Track      *Track
	Redownload bool
}

// DownloadStatus is the terminal outcome of one pipeline run.
type DownloadStatus string

const (
	DownloadStatusCompleted DownloadStatus = "completed"
	DownloadStatusFailed    DownloadStatus = "failed"
)

// Download is one row of the download history.
type Download struct {
	ID         string         `json:"id" db:"id"`
	ProviderID string         `json:"provider_id" db:"provider_id"`
	Title      string         `json:"title" db:"title"`
	Artist     string         `json:"artist" db:"artist"`
	Album      string         `json:"album" db:"album"`
	FilePath   string         `json:"file_path" db:"file_path"`
	Status     DownloadStatus `json:"status" db:"status"`
	Error      string         `json:"error,omitempty" db:"error"`
	CreatedAt  time.Time      `json:"created_at" db:"created_at"`
}
