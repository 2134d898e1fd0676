package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/nmx/internal/models"
	"github.com/desertthunder/nmx/internal/player"
	"github.com/desertthunder/nmx/internal/repositories"
	"github.com/desertthunder/nmx/internal/services"
	"github.com/desertthunder/nmx/internal/shared"
	"github.com/desertthunder/nmx/internal/store"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	api        services.MusicAPI
	db         *sql.DB
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
//
// DB is opened from Config.Database on first use when nil.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	API        services.MusicAPI
	DB         *sql.DB
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		api:        opts.API,
		db:         opts.DB,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

// SetLogger swaps the logger, e.g. to a file logger while the TUI owns the terminal.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

// Close releases the database handle when one was opened.
func (r *Runner) Close() error {
	if r.db == nil {
		return nil
	}
	err := r.db.Close()
	r.db = nil
	return err
}

func (r *Runner) database() (*sql.DB, error) {
	if r.db != nil {
		return r.db, nil
	}

	r.logger.Debug("opening database", "path", r.config.Database.Path)
	db, err := shared.OpenDatabase(r.config.Database)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrStorage, err)
	}
	r.db = db
	return db, nil
}

func (r *Runner) requireAPI() error {
	if r.api == nil {
		return fmt.Errorf("%w: music API not configured", shared.ErrServiceUnavailable)
	}
	return nil
}

// newPlayer builds a player backed by the local database.
//
// The collector is loaded before returning; the saved session is restored when the config asks for it.
func (r *Runner) newPlayer(ctx context.Context, notifier player.Notifier) (*player.Player, error) {
	db, err := r.database()
	if err != nil {
		return nil, err
	}

	docs := repositories.NewDocumentRepository(db)
	initial := store.InitialState()
	if mode, err := models.ParsePlayMode(r.config.Player.PlayMode); err == nil {
		initial.PlayMode = mode
	} else {
		r.logger.Warn("ignoring invalid play mode", "value", r.config.Player.PlayMode, "error", err)
	}

	p := player.New(player.Opts{
		Store:     store.New(initial, r.logger),
		API:       r.api,
		Collector: repositories.NewCollectorRepository(docs),
		Sessions:  repositories.NewSessionRepository(docs),
		History:   repositories.NewHistoryRepository(db),
		Notifier:  notifier,
		Logger:    r.logger,
	})

	if err := p.RefreshCollector(ctx); err != nil {
		return nil, err
	}

	if r.config.Player.RestoreSession {
		if err := p.RestoreSession(ctx); err != nil {
			r.logger.Warn("failed to restore session", "error", err)
		}
	}
	return p, nil
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, playlistCommand, albumCommand, singerCommand, songCommand,
		likeCommand, collectCommand, favoritesCommand, recentCommand, tuiCommand, serveCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
