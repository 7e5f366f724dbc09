package storage

import (
	"fmt"
	"path/filepath"

	"github.com/SohamBorate/spot-dl-downloader/internal/constants"
)

// Layout derives every path the pipeline touches from the output
// directory and sanitized display names. Paths are deterministic: two
// pipelines handling the same "{artist} - {title}" pair target the same
// files, which is an accepted collision risk.
type Layout struct {
	OutputDir string
	Ext       string // final audio extension including the dot
}

func NewLayout(outputDir, format string) Layout {
	ext := constants.ExtMP3
	if format == constants.FormatFLAC {
		ext = constants.ExtFLAC
	}
	return Layout{OutputDir: outputDir, Ext: ext}
}

// WorkDir is the hidden directory holding staging audio and cached art.
func (l Layout) WorkDir() string {
	return filepath.Join(l.OutputDir, constants.WorkDirName)
}

// StagingPath is the intermediate audio file for one track, existing
// only between the fetch and tag stages.
func (l Layout) StagingPath(artist, title string) string {
	name := fmt.Sprintf("%s - %s%s%s", artist, title, constants.StagingSuffix, l.Ext)
	return filepath.Join(l.WorkDir(), name)
}

// ArtPath is the shared cover-art cache file for one album.
func (l Layout) ArtPath(albumArtist, album string) string {
	name := fmt.Sprintf("%s - %s%s", albumArtist, album, constants.ExtJPG)
	return filepath.Join(l.WorkDir(), name)
}

// FinalPath is where the finished, tagged audio file lands.
func (l Layout) FinalPath(artist, title string) string {
	name := fmt.Sprintf("%s - %s%s", artist, title, l.Ext)
	return filepath.Join(l.OutputDir, name)
}
