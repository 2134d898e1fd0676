package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/nmx/internal/formatter"
	"github.com/desertthunder/nmx/internal/models"
	"github.com/desertthunder/nmx/internal/shared"
	"github.com/urfave/cli/v3"
)

// PlaylistShow prints a remote playlist.
func (r *Runner) PlaylistShow(ctx context.Context, cmd *cli.Command) error {
	list, err := r.fetchList(ctx, cmd, false)
	if err != nil {
		return err
	}
	return r.writeList(cmd, list)
}

// AlbumShow prints an album.
func (r *Runner) AlbumShow(ctx context.Context, cmd *cli.Command) error {
	list, err := r.fetchList(ctx, cmd, true)
	if err != nil {
		return err
	}
	return r.writeList(cmd, list)
}

// PlaylistExport writes a remote playlist to disk in the chosen format.
func (r *Runner) PlaylistExport(ctx context.Context, cmd *cli.Command) error {
	list, err := r.fetchList(ctx, cmd, false)
	if err != nil {
		return err
	}
	return r.export(ctx, cmd, list)
}

// AlbumExport writes an album to disk in the chosen format.
func (r *Runner) AlbumExport(ctx context.Context, cmd *cli.Command) error {
	list, err := r.fetchList(ctx, cmd, true)
	if err != nil {
		return err
	}
	return r.export(ctx, cmd, list)
}

func (r *Runner) fetchList(ctx context.Context, cmd *cli.Command, album bool) (*models.MusicList, error) {
	if err := r.requireAPI(); err != nil {
		return nil, err
	}

	id, err := idArg(cmd, "id")
	if err != nil {
		return nil, err
	}

	if album {
		r.logger.Debug("fetching album", "id", id)
		list, err := r.api.GetAlbumInfo(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch album %d: %w", id, err)
		}
		return list, nil
	}

	r.logger.Debug("fetching playlist", "id", id)
	list, err := r.api.GetMusicListDetail(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch playlist %d: %w", id, err)
	}
	return list, nil
}

func (r *Runner) writeList(cmd *cli.Command, list *models.MusicList) error {
	if cmd.Bool("json") {
		return r.writeJSON(list, cmd.Bool("pretty"))
	}

	r.writePlainHeader(list.Name)
	if list.IsAlbum() {
		r.writePlain("Artist:    %s\n", list.Artist.Name)
		if list.Company != "" {
			r.writePlain("Company:   %s\n", list.Company)
		}
		if published := formatter.FormatPublishTime(list.PublishTime); published != "" {
			r.writePlain("Published: %s\n", published)
		}
	}
	if list.Description != "" {
		r.writePlain("%s\n", list.Description)
	}
	r.writePlainln("%d tracks", len(list.Tracks))
	r.writeTracks(list.Tracks)
	return nil
}

func (r *Runner) writeTracks(tracks []models.Music) {
	for i, m := range tracks {
		r.writePlain("%3d. %-40s %-24s %d\n", i+1, m.MusicName, m.Singer.Name, m.ID)
	}
}

func (r *Runner) export(ctx context.Context, cmd *cli.Command, list *models.MusicList) error {
	output := cmd.String("output")

	switch format := strings.ToLower(cmd.String("format")); format {
	case "csv":
		res, err := formatter.WriteCSVExport(list, output)
		if err != nil {
			return err
		}
		r.writePlain("✓ Exported %d tracks\n", len(list.Tracks))
		r.writePlain("  %s\n  %s\n", res.TracksFile, res.MetadataFile)
	case "markdown", "md":
		res, err := formatter.WriteMarkdownExport(ctx, r.httpClient, list, output)
		if err != nil {
			return err
		}
		if res.CoverErr != nil {
			r.logger.Warn("cover image not saved", "url", list.CoverImgURL, "error", res.CoverErr)
		}
		r.writePlain("✓ Exported %d tracks to %s\n", len(list.Tracks), res.Directory)
		for _, f := range res.Files {
			r.writePlain("  %s\n", f)
		}
	case "text", "txt":
		path, err := formatter.WriteTextExport(list, output)
		if err != nil {
			return err
		}
		r.writePlain("✓ Exported %d tracks to %s\n", len(list.Tracks), path)
	default:
		return fmt.Errorf("%w: unknown export format %q", shared.ErrInvalidArgument, format)
	}
	return nil
}

// SingerShow prints an artist profile with their hot songs.
func (r *Runner) SingerShow(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAPI(); err != nil {
		return err
	}

	id, err := idArg(cmd, "id")
	if err != nil {
		return err
	}

	info, err := r.api.GetSingerInfo(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to fetch singer %d: %w", id, err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(info, cmd.Bool("pretty"))
	}

	r.writePlainHeader(info.Artist.Name)
	r.writePlain("Albums: %d  Songs: %d\n", info.Artist.AlbumSize, info.Artist.MusicSize)
	if info.Artist.BriefDesc != "" {
		r.writePlainln("%s", info.Artist.BriefDesc)
	}
	r.writePlainln("Hot songs")
	r.writeTracks(info.HotSongs)
	return nil
}

// SongURL prints the stream URL of a song.
func (r *Runner) SongURL(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAPI(); err != nil {
		return err
	}

	id, err := idArg(cmd, "id")
	if err != nil {
		return err
	}

	u, err := r.api.GetMusicURL(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to fetch url for song %d: %w", id, err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(map[string]any{"id": id, "url": u}, cmd.Bool("pretty"))
	}
	return r.writePlain("%s\n", u)
}

// SongLyric prints the lyric of a song, one timed line per row.
func (r *Runner) SongLyric(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAPI(); err != nil {
		return err
	}

	id, err := idArg(cmd, "id")
	if err != nil {
		return err
	}

	lyric, err := r.api.GetMusicLyric(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to fetch lyric for song %d: %w", id, err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(lyric, cmd.Bool("pretty"))
	}

	lines := formatter.ParseLyrics(lyric)
	if len(lines) == 0 {
		return r.writePlain("No lyric available\n")
	}

	withTranslation := cmd.Bool("translation")
	for _, l := range lines {
		ts := fmt.Sprintf("%02d:%02d", int(l.Time.Minutes()), int(l.Time.Seconds())%60)
		r.writePlain("[%s] %s\n", ts, l.Text)
		if withTranslation && l.Translation != "" {
			r.writePlain("        %s\n", l.Translation)
		}
	}
	return nil
}

// SongSearch searches songs by keywords.
func (r *Runner) SongSearch(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAPI(); err != nil {
		return err
	}

	keywords := strings.TrimSpace(cmd.StringArg("keywords"))
	if keywords == "" {
		return fmt.Errorf("%w: keywords", shared.ErrMissingArgument)
	}

	limit := int(cmd.Int("limit"))
	if limit <= 0 {
		return fmt.Errorf("%w: limit must be positive", shared.ErrInvalidArgument)
	}

	songs, err := r.api.SearchMusic(ctx, keywords, limit)
	if err != nil {
		return fmt.Errorf("failed to search %q: %w", keywords, err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(songs, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("Search: %s", keywords))
	if len(songs) == 0 {
		return r.writePlain("No results\n")
	}
	r.writeTracks(songs)
	return nil
}
