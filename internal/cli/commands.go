package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"sales-dashboard/internal/export"
	"sales-dashboard/internal/middleware"
	"sales-dashboard/internal/models"
	"sales-dashboard/internal/observability"
	"sales-dashboard/internal/server"
)

const loadTimeout = 30 * time.Second

func (cli *CLI) newServeCmd() *cobra.Command {
	var preload bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.serve(cmd.Context(), preload)
		},
	}
	cmd.Flags().BoolVar(&preload, "preload", false, "Load the data file before accepting requests and exit if it fails")

	return cmd
}

func (cli *CLI) serve(ctx context.Context, preload bool) error {
	a := cli.newApp()
	a.logger.Info("starting application",
		"version", "1.0.0",
		"addr", cli.cfg.Address(),
		"data_file", cli.cfg.Data.File,
	)

	if preload {
		loadCtx, cancel := context.WithTimeout(ctx, loadTimeout)
		defer cancel()

		start := time.Now()
		ds, err := a.reports.Dataset(loadCtx)
		if err != nil {
			return userError(err)
		}
		a.logger.Info("data file preloaded", "records", ds.Len(), "duration", time.Since(start))
	}

	shutdownTracing, err := observability.InitTracing(cli.cfg.Tracing)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}

	limiter := middleware.NewRateLimiter(cli.cfg.Security)
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	go limiter.Run(sweepCtx)

	srv := server.NewServer(a.reports, a.logger, a.metrics)
	httpServer := &http.Server{
		Addr:         cli.cfg.Address(),
		Handler:      srv.Handler(cli.cfg.Security, limiter),
		ReadTimeout:  cli.cfg.Server.ReadTimeout,
		WriteTimeout: cli.cfg.Server.WriteTimeout,
		IdleTimeout:  cli.cfg.Server.IdleTimeout,
	}

	gracefulServer := server.NewGracefulServer(httpServer, a.logger, cli.cfg.Server)
	gracefulServer.RegisterShutdownHook(func(ctx context.Context) error {
		a.logger.Info("flushing traces")
		return shutdownTracing(ctx)
	})

	if err := gracefulServer.ListenAndServe(); err != nil {
		return err
	}

	a.logger.Info("application stopped gracefully", "cache", a.cache.Stats())
	return nil
}

func (cli *CLI) newSummaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Print KPIs and grouped sales to stdout",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), loadTimeout)
			defer cancel()

			a := cli.newApp()
			report, err := a.reports.Generate(ctx)
			if err != nil {
				return userError(err)
			}
			return cli.reporter.Handle(a.reports.Path(), report)
		},
	}
}

func (cli *CLI) newExportCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the report as an XLSX workbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), loadTimeout)
			defer cancel()

			a := cli.newApp()
			report, err := a.reports.Generate(ctx)
			if err != nil {
				return userError(err)
			}

			if err := writeWorkbook(out, report); err != nil {
				return err
			}
			fmt.Fprintf(cli.out, "Wrote %d records to %s\n", report.RecordCount, out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "sales_report.xlsx", "Path of the workbook to write")

	return cmd
}

// writeWorkbook writes to a temporary file next to path and renames it into
// place, so a failed export never leaves a partial workbook behind.
func writeWorkbook(path string, report *models.Report) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".export-*.xlsx")
	if err != nil {
		return fmt.Errorf("create workbook: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err = tmp.Chmod(0o644); err != nil {
		return fmt.Errorf("chmod workbook: %w", err)
	}
	if err = export.WriteXLSX(tmp, report); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close workbook: %w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("move workbook into place: %w", err)
	}
	return nil
}
