package main

import (
	"cmp"
	"context"

	"github.com/desertthunder/nmx/internal/server"
	"github.com/desertthunder/nmx/internal/shared"
	"github.com/urfave/cli/v3"
)

// Serve exposes the player over HTTP until the command context is cancelled.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAPI(); err != nil {
		return err
	}

	p, err := r.newPlayer(ctx, shared.NewLogNotifier(r.logger))
	if err != nil {
		return err
	}
	defer func() {
		if err := p.SaveSession(context.WithoutCancel(ctx)); err != nil {
			r.logger.Error("failed to save session", "error", err)
		}
	}()

	logger := shared.WithLogger(r.logger, "component", "server")
	addr := cmp.Or(cmd.String("addr"), r.config.Server.Addr())
	srv := server.New(addr, server.NewRouter(p, logger))
	return server.Serve(ctx, srv, logger)
}
