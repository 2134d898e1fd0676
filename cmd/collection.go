package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/nmx/internal/formatter"
	"github.com/desertthunder/nmx/internal/models"
	"github.com/desertthunder/nmx/internal/repositories"
	"github.com/desertthunder/nmx/internal/shared"
	"github.com/desertthunder/nmx/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Like toggles a song in the liked list.
func (r *Runner) Like(ctx context.Context, cmd *cli.Command) error {
	id, err := idArg(cmd, "id")
	if err != nil {
		return err
	}

	p, err := r.newPlayer(ctx, shared.NewLogNotifier(r.logger))
	if err != nil {
		return err
	}

	music, err := p.Lookup(ctx, id)
	if err != nil {
		return err
	}

	liked, err := p.ToggleLike(ctx, music)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(map[string]any{"id": music.ID, "liked": liked}, cmd.Bool("pretty"))
	}
	if liked {
		return r.writePlain("♥ Liked %s\n", music.MusicName)
	}
	return r.writePlain("Removed %s from liked songs\n", music.MusicName)
}

// Collect toggles a playlist or album in the collected lists.
func (r *Runner) Collect(ctx context.Context, cmd *cli.Command) error {
	list, err := r.fetchList(ctx, cmd, cmd.Bool("album"))
	if err != nil {
		return err
	}

	p, err := r.newPlayer(ctx, shared.NewLogNotifier(r.logger))
	if err != nil {
		return err
	}

	collected, err := p.ToggleCollectPlaylist(ctx, *list)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(map[string]any{"id": list.ID, "collected": collected}, cmd.Bool("pretty"))
	}
	if collected {
		return r.writePlain("★ Collected %s\n", list.Name)
	}
	return r.writePlain("Removed %s from collected playlists\n", list.Name)
}

// Favorites prints the liked songs and the collected playlists.
func (r *Runner) Favorites(ctx context.Context, cmd *cli.Command) error {
	db, err := r.database()
	if err != nil {
		return err
	}

	collector, err := repositories.NewCollectorRepository(repositories.NewDocumentRepository(db)).Get(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(collector, cmd.Bool("pretty"))
	}

	liked := collector.Liked()
	r.writePlainHeader(fmt.Sprintf("%s (%d)", liked.Name, len(liked.Tracks)))
	r.writeTracks(liked.Tracks)

	r.writePlainln("Collected playlists (%d)", len(collector.CollectList))
	for _, l := range collector.CollectList {
		r.writePlain("  %-40s %3d tracks  %d\n", l.Name, len(l.Tracks), l.ID)
	}
	return nil
}

// FavoritesExport writes every collected list to disk and prints a summary.
func (r *Runner) FavoritesExport(ctx context.Context, cmd *cli.Command) error {
	db, err := r.database()
	if err != nil {
		return err
	}

	collector, err := repositories.NewCollectorRepository(repositories.NewDocumentRepository(db)).Get(ctx)
	if err != nil {
		return err
	}
	if len(collector.CollectList) == 0 {
		return r.writePlain("No collected playlists to export\n")
	}

	progress := make(chan tasks.ProgressUpdate, len(collector.CollectList)*2)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for u := range progress {
			r.logger.Info(u.Message, "phase", u.Phase)
		}
	}()

	exporter := tasks.NewExporter(r.api, r.httpClient, r.logger)
	result, err := exporter.BulkExport(ctx, progress, collector.CollectList, tasks.BulkExportOpts{
		Format:     cmd.String("format"),
		OutputDir:  cmd.String("output-dir"),
		NumWorkers: int(cmd.Int("workers")),
		RateLimit:  r.config.API.RateLimit,
		Refresh:    cmd.Bool("refresh") && r.api != nil,
	})
	close(progress)
	<-done

	if result != nil {
		r.writePlainHeader("Export summary")
		r.writePlain("Exported %d of %d lists to %s\n", result.SuccessfulExports, result.TotalLists, result.OutputDirectory)
		for _, res := range result.Results {
			if !res.Success {
				r.writePlain("  ✗ %s: %v\n", res.ListName, res.Error)
			}
		}
		if result.ManifestPath != "" {
			r.writePlain("Manifest: %s\n", result.ManifestPath)
		}
	}
	return err
}

// Recent prints the most recently played songs, newest first.
func (r *Runner) Recent(ctx context.Context, cmd *cli.Command) error {
	limit := int(cmd.Int("limit"))
	if limit <= 0 {
		return fmt.Errorf("%w: limit must be positive", shared.ErrInvalidArgument)
	}

	db, err := r.database()
	if err != nil {
		return err
	}

	entries, err := repositories.NewHistoryRepository(db).Recent(ctx, limit)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(entries, cmd.Bool("pretty"))
	}

	r.writePlainHeader("Recently played")
	if len(entries) == 0 {
		return r.writePlain("Nothing played yet\n")
	}
	for _, e := range entries {
		song := models.Music{ID: e.MusicID, MusicName: e.MusicName, Singer: models.Singer{Name: e.SingerName}}
		r.writePlain("%s  %s\n", e.PlayedAt.Local().Format("2006-01-02 15:04"), formatter.FormatMusic(song))
	}
	return nil
}
