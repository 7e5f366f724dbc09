package storage

import (
	"context"
	"errors"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/SohamBorate/spot-dl-downloader/internal/constants"
)

// nameSubstitutions maps forbidden characters that should be replaced
// with corrective text instead of being dropped.
var nameSubstitutions = map[rune]string{
	'&': "and",
}

// SanitizeName maps free text to a filesystem-safe name: every
// character from the forbidden set is removed, except characters with a
// corrective substitution, which are replaced by their mapped text.
func SanitizeName(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if !strings.ContainsRune(constants.ForbiddenNameChars, r) {
			b.WriteRune(r)
		} else if sub, ok := nameSubstitutions[r]; ok {
			b.WriteString(sub)
		}
	}
	return b.String()
}

func EnsureDir(path string) error {
	return os.MkdirAll(path, constants.DirPermissions)
}

func CreateFile(path string) (*os.File, error) {
	return os.Create(path)
}

func WriteFile(path string, data []byte) error {
	return os.WriteFile(path, data, constants.FilePermissions)
}

func RemoveFile(path string) error {
	return os.Remove(path)
}

// FileExists reports whether a regular file exists at path.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// removeFile is swapped out by tests to simulate busy files.
var removeFile = os.Remove

// RemoveFileRetry deletes the file at path, retrying on a fixed
// interval while the filesystem reports it busy or locked. Any other
// error is returned to the caller immediately.
func RemoveFileRetry(ctx context.Context, path string, interval time.Duration) error {
	for {
		err := removeFile(path)
		if err == nil || os.IsNotExist(err) {
			return nil
		}
		if !isBusy(err) {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}
	}
}

func isBusy(err error) bool {
	return errors.Is(err, syscall.EBUSY) || errors.Is(err, syscall.ETXTBSY)
}
