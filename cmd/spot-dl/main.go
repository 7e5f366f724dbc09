// Command spot-dl downloads Spotify tracks, playlists, albums and
// artist discographies as tagged audio files.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/SohamBorate/spot-dl-downloader/internal/app"
	"github.com/SohamBorate/spot-dl-downloader/internal/art"
	"github.com/SohamBorate/spot-dl-downloader/internal/catalog"
	"github.com/SohamBorate/spot-dl-downloader/internal/config"
	"github.com/SohamBorate/spot-dl-downloader/internal/locate"
	"github.com/SohamBorate/spot-dl-downloader/internal/logger"
	"github.com/SohamBorate/spot-dl-downloader/internal/pipeline"
	"github.com/SohamBorate/spot-dl-downloader/internal/server"
	"github.com/SohamBorate/spot-dl-downloader/internal/storage"
	"github.com/SohamBorate/spot-dl-downloader/internal/store"
	"github.com/SohamBorate/spot-dl-downloader/internal/transcode"
)

var redownload bool

var rootCmd = &cobra.Command{
	Use:   "spot-dl",
	Short: "Download Spotify tracks, playlists, albums and artist discographies",
}

var downloadCmd = &cobra.Command{
	Use:   "download <url>",
	Short: "Download everything behind one catalog URL",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := buildEnv()
		if err != nil {
			return err
		}
		defer env.close()

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		go env.downloader.Init(ctx)
		return env.downloader.Download(ctx, args[0], redownload)
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the download API over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := buildEnv()
		if err != nil {
			return err
		}
		defer env.close()

		go env.downloader.Init(context.Background())

		router := server.NewRouter(server.NewHandler(env.downloader, env.db, env.logger))
		srv := &http.Server{
			Addr:    ":" + env.cfg.Port,
			Handler: router,
		}

		go func() {
			env.logger.Info("Server listening", "addr", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatalf("Server error: %v", err)
			}
		}()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		env.logger.Info("Shutting down server")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	},
}

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent downloads",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := buildEnv()
		if err != nil {
			return err
		}
		defer env.close()

		downloads, err := env.db.ListDownloads(historyLimit)
		if err != nil {
			return err
		}
		for _, d := range downloads {
			line := fmt.Sprintf("%s  %-9s  %s - %s", d.CreatedAt.Format(time.RFC3339), d.Status, d.Artist, d.Title)
			if d.Error != "" {
				line += "  (" + d.Error + ")"
			}
			fmt.Println(line)
		}
		return nil
	},
}

type env struct {
	cfg        *config.Config
	logger     *logger.Logger
	db         *store.DB
	downloader *app.Downloader
}

func (e *env) close() {
	if err := e.db.Close(); err != nil {
		e.logger.Error("Failed to close db", "error", err)
	}
}

func buildEnv() (*env, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}

	appLogger := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})

	db, err := store.NewSQLiteDB(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to init db: %w", err)
	}

	layout := storage.NewLayout(cfg.OutputDir, cfg.Format)
	pipe := pipeline.New(
		locate.NewYouTube(),
		transcode.NewFFmpeg(),
		art.NewService(),
		layout,
		transcode.Options{Format: cfg.Format, Bitrate: cfg.Bitrate},
		appLogger,
	)

	downloader := app.New(app.Options{
		Provider: func(ctx context.Context) (catalog.Provider, error) {
			return catalog.NewSpotify(ctx, cfg.SpotifyID, cfg.SpotifySecret)
		},
		Runner:    pipe,
		Layout:    layout,
		History:   db,
		BatchSize: cfg.BatchSize,
		Logger:    appLogger,
	})

	return &env{cfg: cfg, logger: appLogger, db: db, downloader: downloader}, nil
}

func main() {
	downloadCmd.Flags().BoolVar(&redownload, "redownload", false, "overwrite an already downloaded file")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 50, "number of rows to show")
	rootCmd.AddCommand(downloadCmd, serveCmd, historyCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
