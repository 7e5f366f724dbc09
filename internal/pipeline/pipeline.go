// Package pipeline drives one track record through the download state
// machine: sanitize names, locate a remote stream, fetch and transcode
// it to a staging file, secure cover art, embed tags into the final
// file and clean up intermediates.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/SohamBorate/spot-dl-downloader/internal/art"
	"github.com/SohamBorate/spot-dl-downloader/internal/constants"
	"github.com/SohamBorate/spot-dl-downloader/internal/domain"
	"github.com/SohamBorate/spot-dl-downloader/internal/locate"
	"github.com/SohamBorate/spot-dl-downloader/internal/logger"
	"github.com/SohamBorate/spot-dl-downloader/internal/progress"
	"github.com/SohamBorate/spot-dl-downloader/internal/storage"
	"github.com/SohamBorate/spot-dl-downloader/internal/tagging"
	"github.com/SohamBorate/spot-dl-downloader/internal/transcode"
)

// Stage names identify where a failed item gave up.
type Stage string

const (
	StagePrepare   Stage = "prepare"
	StageLocate    Stage = "locate"
	StageFetch     Stage = "fetch"
	StageTranscode Stage = "transcode"
	StageArt       Stage = "art"
	StageTag       Stage = "tag"
	StageFinalize  Stage = "finalize"
)

// StageError is the failure value of one item's run: the stage that
// failed plus the underlying cause. It never escalates past the item.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// TagFunc embeds metadata into a finished audio file.
type TagFunc func(path string, track *domain.Track, albumArtData []byte) error

// Pipeline runs track records through the stage sequence. One Pipeline
// is shared by all items; each Run gets its own Future.
type Pipeline struct {
	locator    locate.Locator
	transcoder transcode.Transcoder
	artFetcher art.Fetcher
	layout     storage.Layout
	opts       transcode.Options
	logger     *logger.Logger

	tag         TagFunc
	deleteRetry time.Duration
}

func New(loc locate.Locator, tc transcode.Transcoder, af art.Fetcher, layout storage.Layout, opts transcode.Options, log *logger.Logger) *Pipeline {
	if log == nil {
		log = logger.Default()
	}
	return &Pipeline{
		locator:     loc,
		transcoder:  tc,
		artFetcher:  af,
		layout:      layout,
		opts:        opts,
		logger:      log.WithComponent("pipeline"),
		tag:         tagging.TagFile,
		deleteRetry: constants.DeleteRetryInterval,
	}
}

// Run starts one item's state machine and returns its progress handle.
// Callers that need the progress messages attach observers before
// starting, via Start. The terminal value is a success summary or a
// StageError; failures never affect other items.
func (p *Pipeline) Run(ctx context.Context, track *domain.Track) *progress.Future {
	future := progress.NewFuture()
	p.Start(ctx, track, future)
	return future
}

// Start runs the item asynchronously against a caller-built Future.
// Observers subscribed on it before Start see every message; there is
// no replay for late subscribers.
func (p *Pipeline) Start(ctx context.Context, track *domain.Track, future *progress.Future) {
	go p.run(ctx, track, future)
}

func (p *Pipeline) run(ctx context.Context, track *domain.Track, future *progress.Future) {
	// Sanitize the display names used for paths. Only the in-memory
	// record is touched.
	track.Title = storage.SanitizeName(track.Title)
	if len(track.Artists) > 0 {
		track.Artists[0] = storage.SanitizeName(track.Artists[0])
	}
	track.Album.Name = storage.SanitizeName(track.Album.Name)

	base := track.BaseName()
	log := p.logger.WithItem(track.ID, track.Title)

	if err := storage.EnsureDir(p.layout.WorkDir()); err != nil {
		p.fail(future, log, StagePrepare, err)
		return
	}

	// Locate the remote audio.
	candidate, err := p.locator.SearchOne(ctx, base)
	if err != nil {
		p.fail(future, log, StageLocate, err)
		return
	}

	// Fetch and transcode into the staging file.
	future.Message(fmt.Sprintf("Starting download %s", base))
	stream, err := p.locator.Fetch(ctx, candidate.URL)
	if err != nil {
		p.fail(future, log, StageFetch, err)
		return
	}
	future.Message("--> downloaded audio")

	stagingPath := p.layout.StagingPath(track.PrimaryArtist(), track.Title)
	err = p.transcoder.Transcode(ctx, stream, stagingPath, p.opts)
	stream.Close()
	if err != nil {
		p.fail(future, log, StageTranscode, err)
		return
	}
	future.Message("--> converted audio")

	// Secure cover art. A cache hit is silent.
	artPath := p.layout.ArtPath(track.Album.Artist, track.Album.Name)
	cached, err := p.artFetcher.Ensure(ctx, track.Album.ArtURL, artPath, &future.Notifier)
	if err != nil {
		p.fail(future, log, StageArt, err)
		return
	}
	if !cached {
		future.Message("--> downloaded thumbnail")
	}

	// Embed tags into the final file.
	artData, err := os.ReadFile(artPath)
	if err != nil {
		p.fail(future, log, StageTag, err)
		return
	}

	finalPath := p.layout.FinalPath(track.PrimaryArtist(), track.Title)
	if err := copyFile(stagingPath, finalPath); err != nil {
		p.fail(future, log, StageFinalize, err)
		return
	}
	if err := p.tag(finalPath, track, artData); err != nil {
		p.fail(future, log, StageTag, err)
		return
	}
	future.Message("--> applied metadata")

	// Cleanup is non-fatal: a busy file is retried, anything else is
	// logged and abandoned.
	if err := storage.RemoveFileRetry(ctx, stagingPath, p.deleteRetry); err != nil {
		log.Error("Failed to delete staging file", "path", stagingPath, "error", err)
	}

	future.Resolve(progress.Result{Message: fmt.Sprintf("--> Downloaded %s", base)})
}

func (p *Pipeline) fail(future *progress.Future, log *logger.Logger, stage Stage, err error) {
	stageErr := &StageError{Stage: stage, Err: err}
	log.Error("Pipeline stage failed", "stage", string(stage), "error", err)
	future.Fail(stageErr)
}

// copyFile overwrites dst with the contents of src unconditionally.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := storage.CreateFile(dst)
	if err != nil {
		return err
	}

	_, err = io.Copy(out, in)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	return err
}
