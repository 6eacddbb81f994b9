package cli

import (
	"net"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/reasongraph/pkg/live"
	"github.com/matzehuels/reasongraph/pkg/view"
)

// serveCommand creates the live web page server.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr          string
		frameInterval time.Duration
		origins       []string
	)

	cmd := &cobra.Command{
		Use:   "serve [graph.json]",
		Short: "Serve the live graph page with draggable nodes",
		Long: `Serve hosts a page with the graph as inline SVG. Frames are streamed to
the browser over a websocket and pointer drags are sent back.

PUT /api/graph replaces the graph while the server runs.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			input := ""
			if len(args) == 1 {
				input = args[0]
			}
			g, err := loadGraph(input, cmd.InOrStdin(), false)
			if err != nil {
				return err
			}
			if addr == "" {
				addr = c.config.Server.Addr
			}
			if frameInterval <= 0 {
				frameInterval = c.config.Server.FrameInterval.Duration
			}

			comp := view.New(
				view.WithForceOptions(c.config.ForceOptions()),
				view.WithFrameInterval(frameInterval),
				view.WithLogger(logger),
				view.WithInitialGraph(g),
			)
			if err := comp.Mount(ctx); err != nil {
				return err
			}
			defer comp.Unmount()

			srv := live.NewServer(comp, live.Options{Logger: logger, AllowedOrigins: origins})
			err = srv.ListenAndServe(ctx, addr, func(a net.Addr) {
				printSuccess(c.Out, "Serving %s", sourceName(input))
				printURL(c.Out, "URL", "http://"+a.String()+"/")
				printKeyValue(c.Out, "Frames", frameInterval.String())
				printDetail(c.Out, "Press Ctrl+C to stop")
			})
			if err != nil {
				return err
			}
			printInfo(c.Out, "Server stopped")
			return nil
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "listen address (default from config)")
	cmd.Flags().DurationVar(&frameInterval, "frame-interval", 0, "time between animation frames (default from config)")
	cmd.Flags().StringSliceVar(&origins, "allow-origin", nil, "extra websocket origins to accept (* for any)")

	return cmd
}
