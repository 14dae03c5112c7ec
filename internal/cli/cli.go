package cli

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"sales-dashboard/internal/config"
	"sales-dashboard/internal/dataset"
	"sales-dashboard/internal/observability"
	"sales-dashboard/internal/services"
)

// CLI is the dashboard command tree. Running it without a subcommand serves
// the dashboard.
type CLI struct {
	cfg      *config.Config
	out      io.Writer
	logOut   io.Writer
	reporter *Reporter
	rootCmd  *cobra.Command
}

type Options struct {
	Config *config.Config
	// Output receives command results; defaults to stdout.
	Output io.Writer
	// LogOutput receives structured logs; defaults to stderr.
	LogOutput io.Writer
}

func New(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.LogOutput == nil {
		opts.LogOutput = os.Stderr
	}

	cli := &CLI{
		cfg:      opts.Config,
		out:      opts.Output,
		logOut:   opts.LogOutput,
		reporter: NewReporter(opts.Output),
	}
	cli.rootCmd = cli.newRootCmd()
	return cli
}

func (cli *CLI) Execute(ctx context.Context) error {
	return cli.rootCmd.ExecuteContext(ctx)
}

// SetArgs overrides os.Args[1:], for tests.
func (cli *CLI) SetArgs(args []string) {
	cli.rootCmd.SetArgs(args)
}

func (cli *CLI) newRootCmd() *cobra.Command {
	serve := cli.newServeCmd()

	cmd := &cobra.Command{
		Use:           "dashboard",
		Short:         "Sales dashboard and report generator",
		Long:          "Reads a CSV or XLSX file of sales records and reports KPIs, daily sales and sales per category.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          serve.RunE,
	}

	cmd.PersistentFlags().StringVarP(&cli.cfg.Data.File, "file", "f", cli.cfg.Data.File, "Path to the sales data file (overrides DATA_FILE)")

	cmd.AddCommand(serve)
	cmd.AddCommand(cli.newSummaryCmd())
	cmd.AddCommand(cli.newExportCmd())

	return cmd
}

// app is the wiring shared by every command.
type app struct {
	logger  *slog.Logger
	metrics *observability.Metrics
	cache   *dataset.Cache
	reports *services.Reports
}

func (cli *CLI) newApp() *app {
	logger := observability.NewLoggerTo(cli.logOut, cli.cfg.Logger)
	metrics := observability.NewMetrics()
	cache := dataset.NewCache(dataset.NewLoader(logger).Load, logger, metrics)

	return &app{
		logger:  logger,
		metrics: metrics,
		cache:   cache,
		reports: services.NewReports(cache, services.Options{
			Path:     cli.cfg.Data.File,
			Title:    cli.cfg.Report.Title,
			Currency: cli.cfg.Report.Currency,
			Logger:   logger,
		}),
	}
}

// userError replaces a dataset failure with the message shown to users.
func userError(err error) error {
	if msg := dataset.UserMessage(err); msg != "" {
		return errors.New(msg)
	}
	return err
}
