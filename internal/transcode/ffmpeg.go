// Package transcode converts a raw audio stream into the target format
// and bitrate by piping it through ffmpeg.
package transcode

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/SohamBorate/spot-dl-downloader/internal/constants"
)

// ErrTranscode indicates the conversion failed. Non-retryable for the
// item being converted.
var ErrTranscode = errors.New("transcode failed")

const (
	ffmpegCommand = "ffmpeg"
	mp3Codec      = "libmp3lame"
	flacCodec     = "flac"
	stdinPipe     = "pipe:0"
)

// Options configures one conversion.
type Options struct {
	Format  string // mp3 or flac
	Bitrate int    // kbps, mp3 only
}

// Transcoder converts an audio byte stream to a file on disk.
type Transcoder interface {
	Transcode(ctx context.Context, input io.Reader, outputPath string, opts Options) error
}

// FFmpeg shells out to the ffmpeg binary, reading audio from stdin.
type FFmpeg struct {
	Command string
}

func NewFFmpeg() *FFmpeg {
	return &FFmpeg{Command: ffmpegCommand}
}

func (f *FFmpeg) Transcode(ctx context.Context, input io.Reader, outputPath string, opts Options) error {
	cmd := exec.CommandContext(ctx, f.Command, buildArgs(opts, outputPath)...)
	cmd.Stdin = input

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			detail = err.Error()
		}
		return fmt.Errorf("%w: %s", ErrTranscode, detail)
	}
	return nil
}

func buildArgs(opts Options, outputPath string) []string {
	args := []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-i", stdinPipe,
		"-vn",
	}

	switch opts.Format {
	case constants.FormatFLAC:
		args = append(args, "-codec:a", flacCodec)
	default:
		args = append(args, "-codec:a", mp3Codec, "-b:a", fmt.Sprintf("%dk", opts.Bitrate))
	}

	return append(args, outputPath)
}
