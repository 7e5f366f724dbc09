// Package app wires the catalog, pipeline, queue and history store
// into the downloader lifecycle: construct, acquire credentials,
// settle ready-or-error, serve download requests.
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/SohamBorate/spot-dl-downloader/internal/catalog"
	"github.com/SohamBorate/spot-dl-downloader/internal/constants"
	"github.com/SohamBorate/spot-dl-downloader/internal/domain"
	"github.com/SohamBorate/spot-dl-downloader/internal/logger"
	"github.com/SohamBorate/spot-dl-downloader/internal/progress"
	"github.com/SohamBorate/spot-dl-downloader/internal/queue"
	"github.com/SohamBorate/spot-dl-downloader/internal/storage"
)

// ProviderFactory builds the catalog client, performing the
// client-credentials exchange. Its outcome settles the readiness gate.
type ProviderFactory func(ctx context.Context) (catalog.Provider, error)

// History is the subset of the store used by the downloader.
type History interface {
	RecordDownload(d *domain.Download) error
}

// Options collects the downloader's collaborators. Runner and Provider
// are required; History and Output are optional.
type Options struct {
	Provider  ProviderFactory
	Runner    queue.Runner
	Layout    storage.Layout
	History   History
	BatchSize int
	Logger    *logger.Logger
	Output    io.Writer
}

// Downloader is the long-lived application object. One instance serves
// all download requests for the process lifetime.
type Downloader struct {
	newProvider ProviderFactory
	provider    catalog.Provider

	runner    queue.Runner
	backlog   *queue.Backlog
	drainMu   sync.Mutex
	layout    storage.Layout
	history   History
	batchSize int
	readiness *Readiness
	logger    *logger.Logger
	output    io.Writer
}

func New(opts Options) *Downloader {
	log := opts.Logger
	if log == nil {
		log = logger.Default()
	}
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	batchSize := opts.BatchSize
	if batchSize < 1 {
		batchSize = constants.DefaultBatchSize
	}
	return &Downloader{
		newProvider: opts.Provider,
		runner:      opts.Runner,
		backlog:     queue.NewBacklog(),
		layout:      opts.Layout,
		history:     opts.History,
		batchSize:   batchSize,
		readiness:   NewReadiness(),
		logger:      log.WithComponent("downloader"),
		output:      out,
	}
}

// Readiness exposes the dispatch gate, mainly for the HTTP surface.
func (d *Downloader) Readiness() *Readiness {
	return d.readiness
}

// Init acquires catalog credentials and settles the readiness gate.
// Call it once, typically in its own goroutine; Download blocks until
// the gate settles.
func (d *Downloader) Init(ctx context.Context) {
	provider, err := d.newProvider(ctx)
	if err != nil {
		d.logger.Error("Catalog authentication failed", "error", err)
		d.readiness.SetError()
		return
	}
	d.provider = provider
	d.readiness.SetReady()
	d.logger.Info("Downloader ready")
}

// Download resolves a catalog URL and drains the resulting items. It
// blocks until the gate settles: an errored gate drops the request
// silently, as does an unrecognized URL.
func (d *Downloader) Download(ctx context.Context, rawURL string, redownload bool) error {
	state, err := d.readiness.Await(ctx)
	if err != nil {
		return err
	}
	if state != StateReady {
		d.logger.Warn("Dropping request, downloader is not ready", "url", rawURL)
		return nil
	}

	ref, ok := ParseReference(rawURL)
	if !ok {
		d.logger.Warn("Ignoring unrecognized URL", "url", rawURL)
		return nil
	}
	d.logger.Info("Dispatching", "kind", string(ref.Kind), "id", ref.ID)

	switch ref.Kind {
	case RefTrack:
		return d.downloadTrack(ctx, ref.ID, redownload)
	case RefPlaylist:
		return d.downloadPlaylist(ctx, ref.ID, redownload)
	case RefAlbum:
		return d.downloadAlbum(ctx, ref.ID, redownload)
	case RefArtist:
		return d.downloadArtist(ctx, ref.ID, redownload)
	}
	return nil
}

func (d *Downloader) downloadTrack(ctx context.Context, id string, redownload bool) error {
	track, err := d.provider.GetTrack(ctx, id)
	if err != nil {
		return fmt.Errorf("resolve track %s: %w", id, err)
	}
	d.enqueue([]*domain.Track{track}, redownload)
	return d.drain(ctx)
}

func (d *Downloader) downloadPlaylist(ctx context.Context, id string, redownload bool) error {
	tracks, err := d.provider.GetPlaylistTracks(ctx, id)
	if err != nil {
		return fmt.Errorf("resolve playlist %s: %w", id, err)
	}
	d.enqueue(tracks, redownload)
	return d.drain(ctx)
}

func (d *Downloader) downloadAlbum(ctx context.Context, id string, redownload bool) error {
	if err := d.enqueueAlbum(ctx, id, redownload); err != nil {
		return err
	}
	return d.drain(ctx)
}

// downloadArtist expands the discography in two phases: every album's
// tracks land in the backlog first, then one drain covers them all.
func (d *Downloader) downloadArtist(ctx context.Context, id string, redownload bool) error {
	albumIDs, err := d.provider.GetArtistAlbumIDs(ctx, id)
	if err != nil {
		return fmt.Errorf("resolve artist %s: %w", id, err)
	}
	for _, albumID := range albumIDs {
		if err := d.enqueueAlbum(ctx, albumID, redownload); err != nil {
			// A bad album does not sink the rest of the discography.
			d.logger.Error("Failed to expand album", "album_id", albumID, "error", err)
		}
	}
	return d.drain(ctx)
}

func (d *Downloader) enqueueAlbum(ctx context.Context, id string, redownload bool) error {
	tracks, err := d.provider.GetAlbumTracks(ctx, id)
	if err != nil {
		return fmt.Errorf("resolve album %s: %w", id, err)
	}
	d.enqueue(tracks, redownload)
	return nil
}

func (d *Downloader) enqueue(tracks []*domain.Track, redownload bool) {
	items := make([]*domain.QueueItem, len(tracks))
	for i, track := range tracks {
		items[i] = &domain.QueueItem{Track: track, Redownload: redownload}
	}
	d.backlog.Enqueue(items...)
}

// drain runs the scheduler over the backlog, surfacing every progress
// message as a console line and recording each terminal outcome. The
// backlog has a single-consumer discipline: concurrent requests
// serialize here, and whichever drain runs first also picks up items
// the waiters enqueued, leaving them an empty backlog.
func (d *Downloader) drain(ctx context.Context) error {
	d.drainMu.Lock()
	defer d.drainMu.Unlock()

	scheduler := queue.NewScheduler(d.backlog, d.runner, d.batchSize, d.logger)
	scheduler.SetObserver(func(item *domain.QueueItem, future *progress.Future) {
		future.OnMessage(func(text string) {
			fmt.Fprintln(d.output, text)
		})
	})

	results, err := scheduler.Drain(ctx)
	for _, r := range results {
		d.report(r)
	}
	return err
}

func (d *Downloader) report(r queue.ItemResult) {
	track := r.Item.Track
	record := &domain.Download{
		ProviderID: track.ID,
		Title:      track.Title,
		Artist:     track.PrimaryArtist(),
		Album:      track.Album.Name,
	}
	if r.Err != nil {
		fmt.Fprintf(d.output, "Failed to download %s: %v\n", track.BaseName(), r.Err)
		record.Status = domain.DownloadStatusFailed
		record.Error = r.Err.Error()
	} else {
		fmt.Fprintln(d.output, r.Message)
		record.Status = domain.DownloadStatusCompleted
		record.FilePath = d.layout.FinalPath(track.PrimaryArtist(), track.Title)
	}

	if d.history == nil {
		return
	}
	if err := d.history.RecordDownload(record); err != nil {
		d.logger.Error("Failed to record download history", "track_id", track.ID, "error", err)
	}
}
