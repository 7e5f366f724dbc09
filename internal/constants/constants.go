// Package constants contains application-wide constants to avoid magic numbers and strings.
package constants

import "time"

// Application defaults
const (
	DefaultPort         = "8080"
	DefaultDBPath       = "spot-dl.db"
	DefaultBatchSize    = 1
	DefaultBitrate      = 320
	DefaultFormat       = "mp3"
	ImageHTTPTimeout    = 30 * time.Second
	SearchHTTPTimeout   = 30 * time.Second
	DeleteRetryInterval = 1 * time.Second
)

// WorkDirName is the hidden directory that holds staging audio and
// cached cover art, created under the output directory.
const WorkDirName = ".spot-dl"

// StagingSuffix is appended to the base name of intermediate audio
// files awaiting tag embedding.
const StagingSuffix = "_raw"

// Audio formats
const (
	FormatMP3  = "mp3"
	FormatFLAC = "flac"
)

// File Extensions
const (
	ExtMP3  = ".mp3"
	ExtFLAC = ".flac"
	ExtJPG  = ".jpg"
)

// MIME Types
const (
	MimeTypeJPEG = "image/jpeg"
	MimeTypeMP3  = "audio/mpeg"
	MimeTypeFLAC = "audio/flac"
)

// File Permissions
const (
	DirPermissions  = 0755
	FilePermissions = 0644
)

// ForbiddenNameChars are removed from free-text names before they are
// used as path components.
const ForbiddenNameChars = "#%&{}\\/<>*?$!'\":@+`|="
