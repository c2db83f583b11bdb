package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/blueprint/internal/server"
)

type serveOpts struct {
	addr      string
	assetsDir string
	refresh   bool
}

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the viewer HTTP server",
		Long: `Run the viewer HTTP server.

The metadata document is loaded once in the background; until it is ready
the API answers 503. Drawing images are served from the asset directory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (overrides server.addr)")
	cmd.Flags().StringVar(&opts.assetsDir, "assets", "", "drawing image directory (overrides assets.dir)")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass the cached metadata document")

	return cmd
}

func (c *CLI) runServe(cmd *cobra.Command, opts serveOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if opts.addr != "" {
		cfg.Server.Addr = opts.addr
	}
	if opts.assetsDir != "" {
		cfg.Assets.Dir = opts.assetsDir
	}

	cc, err := newCache(ctx, cfg.Cache)
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}
	defer cc.Close()

	src, err := openSource(cfg, cc, opts.refresh)
	if err != nil {
		return err
	}

	srv := server.New(server.Options{
		Source:           src,
		Prober:           newProber(cfg, cc),
		Logger:           logger,
		Anchor:           cfg.Anchor,
		AssetPrefix:      cfg.Assets.Prefix,
		SessionTTL:       cfg.Session.TTL,
		CleanupInterval:  cfg.Session.CleanupInterval,
		ProbeConcurrency: cfg.Assets.ProbeConcurrency,
		LoadTimeout:      cfg.Metadata.Timeout,
	})

	logger.Info("starting server", "addr", cfg.Server.Addr, "metadata", src, "assets", cfg.Assets.Dir)
	return srv.ListenAndServe(ctx, cfg.Server.Addr, cfg.Server.ReadHeaderTimeout, cfg.Server.ShutdownTimeout)
}
