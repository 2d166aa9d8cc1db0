package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/malphas-lang/humanabi/internal/config"
	"github.com/malphas-lang/humanabi/internal/metrics"
	"github.com/malphas-lang/humanabi/internal/server"
)

func (c *cli) serveCmd() *cobra.Command {
	var listen string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the compiler over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if listen != "" {
				c.opts.Server.Listen = listen
			}
			app := fx.New(c.serveModule())
			if err := app.Err(); err != nil {
				return err
			}
			app.Run()
			return nil
		},
	}
	cmd.Flags().StringVarP(&listen, "listen", "l", "", "listen address (default from config)")
	return cmd
}

// serveModule wires config, logger, metrics and server, and ties the
// server to the application lifecycle.
func (c *cli) serveModule() fx.Option {
	return fx.Options(
		fx.Supply(c.opts, c.logger),
		fx.WithLogger(func(l *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: l.Named("fx")}
		}),
		fx.Provide(
			metrics.New,
			newServer,
		),
		fx.Invoke(func(*server.Server) {}),
	)
}

func newServer(lc fx.Lifecycle, opts *config.Options, logger *zap.Logger, m *metrics.Metrics) (*server.Server, error) {
	s, err := server.New(opts, logger, m)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStart: s.Start,
		OnStop:  s.Stop,
	})
	return s, nil
}
