// NetEase Cloud Music [MusicAPI] implementation
//
// Communicates with a NeteaseCloudMusicApi compatible proxy (default port 3000).
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/desertthunder/nmx/internal/models"
	"github.com/desertthunder/nmx/internal/shared"
	"golang.org/x/time/rate"
)

const defaultNeteaseBaseURL string = "http://localhost:3000"

// NeteaseOpts configures a [NeteaseService].
type NeteaseOpts struct {
	BaseURL    string
	Cookie     string
	HTTPClient *http.Client
	Timeout    time.Duration
	RateLimit  float64 // requests per second, 0 disables pacing
	Burst      int
}

// NeteaseService implements [MusicAPI] over HTTP.
type NeteaseService struct {
	baseURL    string
	cookie     string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewNeteaseService creates a new NetEase service instance.
func NewNeteaseService(opts NeteaseOpts) *NeteaseService {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultNeteaseBaseURL
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: opts.Timeout}
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if opts.RateLimit > 0 {
		burst := max(opts.Burst, 1)
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}

	return &NeteaseService{
		baseURL:    opts.BaseURL,
		cookie:     opts.Cookie,
		httpClient: opts.HTTPClient,
		limiter:    limiter,
	}
}

// NewNeteaseServiceFromConfig builds a [NeteaseService] from the api section of the config.
func NewNeteaseServiceFromConfig(cfg shared.APIConfig) *NeteaseService {
	return NewNeteaseService(NeteaseOpts{
		BaseURL:   cfg.BaseURL,
		Cookie:    cfg.Cookie,
		Timeout:   cfg.Timeout(),
		RateLimit: cfg.RateLimit,
		Burst:     cfg.Burst,
	})
}

// Name returns the service name.
func (n *NeteaseService) Name() string {
	return "NetEase Cloud Music"
}

// envelope is the status wrapper every endpoint returns alongside its payload.
type envelope struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Msg     string `json:"msg"`
}

func (n *NeteaseService) doRequest(ctx context.Context, endpoint string, params url.Values, result any) error {
	if err := n.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	apiURL := n.baseURL + endpoint
	if len(params) > 0 {
		apiURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if n.cookie != "" {
		req.Header.Set("Cookie", n.cookie)
	}

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: request failed: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: failed to read response: %v", shared.ErrAPIRequest, err)
	}

	var env envelope
	_ = json.Unmarshal(body, &env)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if detail := env.detail(); detail != "" {
			return fmt.Errorf("%w: %s (status %d): %s", shared.ErrAPIRequest, endpoint, resp.StatusCode, detail)
		}
		return fmt.Errorf("%w: %s: status %d", shared.ErrAPIRequest, endpoint, resp.StatusCode)
	}

	if env.Code != 0 && env.Code != http.StatusOK {
		return fmt.Errorf("%w: %s: code %d: %s", shared.ErrAPIRequest, endpoint, env.Code, env.detail())
	}

	if result != nil {
		if err := json.Unmarshal(body, result); err != nil {
			return fmt.Errorf("%w: failed to decode response: %v", shared.ErrAPIRequest, err)
		}
	}

	return nil
}

func (e envelope) detail() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Msg
}

func idParam(key string, id int64) url.Values {
	return url.Values{key: []string{strconv.FormatInt(id, 10)}}
}

// GetMusicURL resolves the stream URL of a song.
//
// Calls GET /song/url?id={id}. Songs without copyright come back with an empty URL, which is returned as is.
func (n *NeteaseService) GetMusicURL(ctx context.Context, id int64) (string, error) {
	var resp struct {
		Data []struct {
			ID  int64  `json:"id"`
			URL string `json:"url"`
		} `json:"data"`
	}

	if err := n.doRequest(ctx, "/song/url", idParam("id", id), &resp); err != nil {
		return "", err
	}
	if len(resp.Data) == 0 {
		return "", fmt.Errorf("%w: no stream for song %d", shared.ErrTrackNotFound, id)
	}

	return resp.Data[0].URL, nil
}

// GetMusicLyric fetches the LRC lyric of a song.
//
// Calls GET /lyric?id={id}.
func (n *NeteaseService) GetMusicLyric(ctx context.Context, id int64) (*models.Lyric, error) {
	var resp struct {
		Lrc struct {
			Lyric string `json:"lyric"`
		} `json:"lrc"`
		TLyric struct {
			Lyric string `json:"lyric"`
		} `json:"tlyric"`
	}

	if err := n.doRequest(ctx, "/lyric", idParam("id", id), &resp); err != nil {
		return nil, err
	}

	return &models.Lyric{Lrc: resp.Lrc.Lyric, TLyric: resp.TLyric.Lyric}, nil
}

// GetSingerInfo fetches an artist and their hot songs.
//
// Calls GET /artists?id={id}.
func (n *NeteaseService) GetSingerInfo(ctx context.Context, id int64) (*models.SingerInfo, error) {
	var resp struct {
		Artist   *models.Artist `json:"artist"`
		HotSongs []RawTrack     `json:"hotSongs"`
	}

	if err := n.doRequest(ctx, "/artists", idParam("id", id), &resp); err != nil {
		return nil, err
	}
	if resp.Artist == nil {
		return nil, fmt.Errorf("%w: %d", shared.ErrSingerNotFound, id)
	}

	return &models.SingerInfo{
		Artist:   *resp.Artist,
		HotSongs: FormatTracks(resp.HotSongs),
	}, nil
}

// GetAlbumInfo fetches an album and shapes it as a [models.MusicList].
//
// Calls GET /album?id={id}. A missing description becomes an empty string.
func (n *NeteaseService) GetAlbumInfo(ctx context.Context, id int64) (*models.MusicList, error) {
	var resp struct {
		Album *struct {
			ID          int64     `json:"id"`
			Name        string    `json:"name"`
			Description *string   `json:"description"`
			PicURL      string    `json:"picUrl"`
			Company     string    `json:"company"`
			PublishTime int64     `json:"publishTime"`
			Artist      rawArtist `json:"artist"`
			Type        string    `json:"type"`
		} `json:"album"`
		Songs []RawTrack `json:"songs"`
	}

	if err := n.doRequest(ctx, "/album", idParam("id", id), &resp); err != nil {
		return nil, err
	}
	if resp.Album == nil {
		return nil, fmt.Errorf("%w: %d", shared.ErrAlbumNotFound, id)
	}

	album := resp.Album
	list := &models.MusicList{
		ID:          album.ID,
		Name:        album.Name,
		CoverImgURL: album.PicURL,
		Tracks:      FormatTracks(resp.Songs),
		Company:     album.Company,
		PublishTime: album.PublishTime,
		Artist:      &models.Singer{ID: album.Artist.ID, Name: album.Artist.Name},
		Type:        album.Type,
	}
	if album.Description != nil {
		list.Description = *album.Description
	}

	return list, nil
}

// GetMusicDetail fetches a single song including its album artwork.
//
// Calls GET /song/detail?ids={id}.
func (n *NeteaseService) GetMusicDetail(ctx context.Context, id int64) (*models.Music, error) {
	var resp struct {
		Songs []RawTrack `json:"songs"`
	}

	if err := n.doRequest(ctx, "/song/detail", idParam("ids", id), &resp); err != nil {
		return nil, err
	}
	if len(resp.Songs) == 0 {
		return nil, fmt.Errorf("%w: %d", shared.ErrTrackNotFound, id)
	}

	m := FormatTrack(resp.Songs[0])
	return &m, nil
}

// GetMusicListDetail fetches a playlist with its tracks.
//
// Calls GET /playlist/detail?id={id}.
func (n *NeteaseService) GetMusicListDetail(ctx context.Context, id int64) (*models.MusicList, error) {
	var resp struct {
		Playlist *struct {
			ID          int64      `json:"id"`
			Name        string     `json:"name"`
			Description *string    `json:"description"`
			CoverImgURL string     `json:"coverImgUrl"`
			Tracks      []RawTrack `json:"tracks"`
		} `json:"playlist"`
	}

	if err := n.doRequest(ctx, "/playlist/detail", idParam("id", id), &resp); err != nil {
		return nil, err
	}
	if resp.Playlist == nil {
		return nil, fmt.Errorf("%w: %d", shared.ErrPlaylistNotFound, id)
	}

	pl := resp.Playlist
	list := &models.MusicList{
		ID:          pl.ID,
		Name:        pl.Name,
		CoverImgURL: pl.CoverImgURL,
		Tracks:      FormatTracks(pl.Tracks),
	}
	if pl.Description != nil {
		list.Description = *pl.Description
	}

	return list, nil
}

// SearchMusic searches songs by keywords.
//
// Calls GET /search?keywords={keywords}&limit={limit}. The search payload uses `artists`/`album` instead of `ar`/`al` and carries no artwork.
func (n *NeteaseService) SearchMusic(ctx context.Context, keywords string, limit int) ([]models.Music, error) {
	if keywords == "" {
		return nil, fmt.Errorf("%w: empty search keywords", shared.ErrInvalidInput)
	}
	if limit <= 0 {
		limit = 30
	}

	var resp struct {
		Result struct {
			Songs []struct {
				ID      int64       `json:"id"`
				Name    string      `json:"name"`
				Artists []rawArtist `json:"artists"`
				Album   rawAlbum    `json:"album"`
			} `json:"songs"`
		} `json:"result"`
	}

	params := url.Values{}
	params.Set("keywords", keywords)
	params.Set("limit", strconv.Itoa(limit))

	if err := n.doRequest(ctx, "/search", params, &resp); err != nil {
		return nil, err
	}

	songs := make([]models.Music, len(resp.Result.Songs))
	for i, s := range resp.Result.Songs {
		songs[i] = FormatTrack(RawTrack{
			ID:   s.ID,
			Name: s.Name,
			Ar:   s.Artists,
			Al:   rawAlbum{ID: s.Album.ID, Name: s.Album.Name},
		})
	}

	return songs, nil
}
