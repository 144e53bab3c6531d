// airbnb-dashboard serves an interactive analysis of the Inside Airbnb Vienna listings.
//
// Usage:
//
//	airbnb-dashboard serve [--listen :8501]
//	airbnb-dashboard report [--price-min 50 --price-max 300]
//	airbnb-dashboard snapshot [--out output/dashboard.png]
package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"airbnb-dashboard/config"
	"airbnb-dashboard/services"
	"airbnb-dashboard/snapshot"
	"airbnb-dashboard/storage"
	"airbnb-dashboard/utils"
	"airbnb-dashboard/web"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"
)

var version = "dev"

func main() {
	app := &cli.App{
		Name:    "airbnb-dashboard",
		Usage:   "Vienna AirBnB analysis dashboard",
		Version: version,
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			serveCommand(),
			reportCommand(),
			snapshotCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// globalFlags select the config file and override dataset settings from it
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Value:   "config.yaml",
			Usage:   "Path to YAML config file (optional)",
			EnvVars: []string{"DASHBOARD_CONFIG"},
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "Log level (debug, info, warn, error)",
		},
		&cli.StringFlag{
			Name:  "source",
			Usage: "Dataset source (http, file, postgres, mongo)",
		},
		&cli.StringFlag{
			Name:  "dataset-url",
			Usage: "CSV URL for the http source",
		},
		&cli.StringFlag{
			Name:  "dataset-file",
			Usage: "CSV path for the file source",
		},
	}
}

// =============================================================================
// SERVE COMMAND
// =============================================================================

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the dashboard and JSON API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "listen",
				Aliases: []string{"l"},
				Usage:   "Listen address (default from config, :8501)",
			},
		},
		Action: func(c *cli.Context) error {
			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()

			app, err := bootstrap(ctx, c)
			if err != nil {
				return err
			}
			defer app.close()

			addr := app.cfg.ListenAddr
			if c.IsSet("listen") {
				addr = c.String("listen")
			}

			srv, err := web.NewServer(app.dashboard, app.snapshotID, app.logger)
			if err != nil {
				return err
			}
			return srv.Run(ctx, addr)
		},
	}
}

// =============================================================================
// REPORT COMMAND
// =============================================================================

func reportCommand() *cli.Command {
	return &cli.Command{
		Name:  "report",
		Usage: "Print every dashboard view to stdout",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:  "cols",
				Usage: "Columns of the overview table",
			},
			&cli.Float64Flag{Name: "price-min", Value: services.DefaultPriceMin, Usage: "Histogram range start"},
			&cli.Float64Flag{Name: "price-max", Value: services.DefaultPriceMax, Usage: "Histogram range end"},
			&cli.Float64Flag{Name: "reviews-min", Value: services.DefaultReviewsMin, Usage: "Minimum number of reviews"},
			&cli.Float64Flag{Name: "reviews-max", Value: services.DefaultReviewsMax, Usage: "Maximum number of reviews"},
		},
		Action: func(c *cli.Context) error {
			app, err := bootstrap(c.Context, c)
			if err != nil {
				return err
			}
			defer app.close()

			in := services.DefaultInputs()
			if c.IsSet("cols") {
				in.Columns = c.StringSlice("cols")
			}
			in.PriceMin = c.Float64("price-min")
			in.PriceMax = c.Float64("price-max")
			in.ReviewsMin = c.Float64("reviews-min")
			in.ReviewsMax = c.Float64("reviews-max")

			services.PrintInsightReport(os.Stdout, app.dashboard.Generate(in))
			return nil
		},
	}
}

// =============================================================================
// SNAPSHOT COMMAND
// =============================================================================

func snapshotCommand() *cli.Command {
	return &cli.Command{
		Name:  "snapshot",
		Usage: "Render the dashboard in headless Chrome and save a PNG",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Usage:   "Output PNG path (default from config)",
			},
		},
		Action: func(c *cli.Context) error {
			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()

			app, err := bootstrap(ctx, c)
			if err != nil {
				return err
			}
			defer app.close()

			out := app.cfg.SnapshotPath
			if c.IsSet("out") {
				out = c.String("out")
			}

			srv, err := web.NewServer(app.dashboard, app.snapshotID, app.logger)
			if err != nil {
				return err
			}
			ln, err := net.Listen("tcp", "127.0.0.1:0")
			if err != nil {
				return fmt.Errorf("failed to listen: %w", err)
			}

			serveCtx, cancelServe := context.WithCancel(ctx)
			done := make(chan error, 1)
			go func() { done <- srv.Serve(serveCtx, ln) }()

			captureErr := snapshot.NewCapturer(app.logger).Capture(ctx, "http://"+ln.Addr().String()+"/", out)
			cancelServe()
			if err := <-done; err != nil {
				app.logger.Warn("Dashboard server stopped with error: %v", err)
			}
			return captureErr
		},
	}
}

// =============================================================================
// BOOTSTRAP
// =============================================================================

type application struct {
	cfg        *config.Config
	logger     *utils.Logger
	dashboard  *services.Dashboard
	snapshotID uuid.UUID
	closers    []func()
}

func (a *application) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// bootstrap loads configuration, reads the dataset once and builds the dashboard
func bootstrap(ctx context.Context, c *cli.Context) (*application, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, cli.Exit(fmt.Sprintf("invalid configuration: %v", err), 1)
	}

	logger := utils.NewLogger(cfg.LogLevel, cfg.Development())
	app := &application{cfg: cfg, logger: logger}

	source, err := openSource(ctx, cfg, app)
	if err != nil {
		app.close()
		logger.Error("Cannot open dataset source: %v", err)
		return nil, cli.Exit("failed to open dataset source", 1)
	}

	logger.Info("Loading listings from %s", source.Name())
	loadCtx, cancel := context.WithTimeout(ctx, cfg.FetchTimeout)
	defer cancel()
	raw, err := source.Load(loadCtx)
	if err != nil {
		app.close()
		logger.Error("Failed to load dataset: %v", err)
		return nil, cli.Exit("failed to load dataset", 1)
	}

	listings := services.NewDataCleaner(logger).Clean(raw)
	app.snapshotID = uuid.New()
	app.dashboard = services.NewDashboard(listings, logger)
	logger.Info("Loaded %d listings (snapshot %s)", len(listings), app.snapshotID)
	return app, nil
}

// loadConfig layers the global flags over the loaded configuration, then validates it
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}
	applyFlags(cfg, c)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyFlags(cfg *config.Config, c *cli.Context) {
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}
	if c.IsSet("source") {
		cfg.Source = c.String("source")
	}
	if c.IsSet("dataset-url") {
		cfg.DatasetURL = c.String("dataset-url")
	}
	if c.IsSet("dataset-file") {
		cfg.DatasetFile = c.String("dataset-file")
	}
}

func openSource(ctx context.Context, cfg *config.Config, app *application) (storage.Source, error) {
	var source storage.Source
	switch cfg.Source {
	case config.SourceFile:
		source = storage.NewFileSource(cfg.DatasetFile, app.logger)
	case config.SourcePostgres:
		pg, err := storage.NewPostgresSource(ctx, cfg.DatabaseURL, cfg.DatabaseTable, app.logger)
		if err != nil {
			return nil, err
		}
		app.closers = append(app.closers, pg.Close)
		source = pg
	case config.SourceMongo:
		mongo, err := storage.NewMongoSource(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.MongoCollection, app.logger)
		if err != nil {
			return nil, err
		}
		app.closers = append(app.closers, func() { mongo.Close(context.Background()) })
		source = mongo
	default:
		source = storage.NewHTTPSource(cfg.DatasetURL, cfg.FetchTimeout, cfg.FetchAttempts, app.logger)
	}
	return storage.NewCachedSource(source), nil
}
