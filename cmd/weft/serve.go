package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/weft-ui/weft/internal/config"
	"github.com/weft-ui/weft/pkg/archive"
	"github.com/weft-ui/weft/pkg/engine"
	"github.com/weft-ui/weft/pkg/server"
	"github.com/weft-ui/weft/pkg/vdom"
)

func serveCmd() *cobra.Command {
	var (
		address    string
		configPath string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a live demo tree",
		Long: `Start a server around a self-updating demo tree: a snapshot page
at /, the patch feed at /ws, health at /healthz and, when enabled,
Prometheus metrics at /metrics.

Configuration comes from weft.json in the current directory or any
parent; defaults apply when none exists.

Examples:
  weft serve
  weft serve --address :9000
  weft serve --config ./deploy/weft.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), address, configPath)
		},
	}

	cmd.Flags().StringVarP(&address, "address", "a", "", "Listen address (default from weft.json)")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to weft.json")

	return cmd
}

func runServe(ctx context.Context, address, configPath string) error {
	cfg, err := loadServeConfig(configPath)
	if err != nil {
		return err
	}
	if address != "" {
		cfg.Address = address
	}

	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	opts := []engine.Option{
		engine.WithLogger(logger),
		engine.WithHistory(cfg.HistorySize),
	}

	var reg *prometheus.Registry
	if cfg.Metrics {
		reg = prometheus.NewRegistry()
		opts = append(opts, engine.WithMetrics(reg))
	}

	if cfg.Archive.S3Bucket != "" {
		store, err := newS3Archive(ctx, cfg.Archive)
		if err != nil {
			return fmt.Errorf("archive: %w", err)
		}
		defer store.Close()
		opts = append(opts, engine.WithArchive(store))
		info("archiving frames to s3://%s/%s", cfg.Archive.S3Bucket, cfg.Archive.S3Prefix)
	}

	eng := engine.New(opts...)
	if _, err := eng.Mount(ctx, demoTree(0, time.Now())); err != nil {
		return err
	}

	title := cfg.Name
	if title == "" {
		title = "weft"
	}
	srv := server.New(eng, &server.Config{
		Address:      cfg.Address,
		Title:        title,
		ClientScript: cfg.ClientScript,
		Gatherer:     gathererOrNil(reg),
	})
	srv.SetLogger(logger)

	go tick(ctx, eng, logger)

	printBanner()
	info("serving on %s", cfg.Address)
	return srv.Run()
}

func loadServeConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	cfg, _, err := config.Find(wd)
	if err != nil {
		// No project config; the defaults serve the demo fine.
		return config.Default(), nil
	}
	return cfg, nil
}

func newLogger(level string) *slog.Logger {
	var l slog.Level
	switch level {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l}))
}

func newS3Archive(ctx context.Context, ac config.ArchiveConfig) (*archive.S3Store, error) {
	var loadOpts []func(*awsconfig.LoadOptions) error
	if ac.S3Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(ac.S3Region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, err
	}
	return archive.NewS3Store(s3.NewFromConfig(awsCfg), ac.S3Bucket, ac.S3Prefix), nil
}

func gathererOrNil(reg *prometheus.Registry) prometheus.Gatherer {
	if reg == nil {
		return nil
	}
	return reg
}

// demoTree is the self-updating tree the serve command renders: a tick
// counter and a clock, with a keyed list that rotates so the feed
// carries moves as well as updates.
func demoTree(n int, now time.Time) *vdom.VNode {
	items := []string{"alpha", "beta", "gamma", "delta"}
	list := make([]*vdom.VNode, len(items))
	for i := range items {
		name := items[(i+n)%len(items)]
		list[i] = vdom.Li(vdom.Key(name), name)
	}

	return vdom.Div(vdom.Class("demo"),
		vdom.H1("weft"),
		vdom.P(vdom.Textf("tick %d", n)),
		vdom.P(vdom.Textf("server time %s", now.Format(time.RFC3339))),
		vdom.Ul(list),
	)
}

// tick re-renders the demo tree once a second.
func tick(ctx context.Context, eng *engine.Engine, logger *slog.Logger) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	n := 0
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			n++
			if _, err := eng.Render(ctx, demoTree(n, now)); err != nil {
				logger.Error("render failed", "error", err)
				return
			}
		}
	}
}
