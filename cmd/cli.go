package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	httpin "logistics/internal/adapters/in/http"
	"logistics/internal/adapters/out/snapshotfile"
	"logistics/internal/core/domain/model/snapshot"

	"github.com/labstack/gommon/log"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

// NewRootCommand builds the logistics CLI.
func NewRootCommand() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "logistics",
		Short:         "Transport logistics service",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to the YAML config file")

	root.AddCommand(newServeCommand(&configPath))
	root.AddCommand(newSnapshotCommand())
	return root
}

func newServeCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, the simulation clock and autosave",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := LoadConfig(*configPath)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, NewLogger(cfg.Logging, os.Stdout))
		},
	}
}

// NewLogger builds the process logger.
func NewLogger(cfg LoggingConfig, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if cfg.Format == "text" {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

func serve(ctx context.Context, cfg Config, logger *slog.Logger) error {
	root, err := NewCompositionRoot(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := root.Close(); err != nil {
			logger.Error("Failed to close resources", "error", err)
		}
	}()

	manager, err := root.CreateJobManager()
	if err != nil {
		return err
	}
	if err := manager.StartAll(); err != nil {
		return err
	}
	defer manager.StopAll()

	go root.Run(ctx)

	e, err := httpin.NewServer(root.CreateHTTPHandlers(), root.Gatherer()).NewEcho()
	if err != nil {
		return err
	}
	e.Logger.SetLevel(echoLevel(cfg.Logging.SlogLevel()))

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("HTTP server started", "port", cfg.HTTP.Port, "storage", cfg.Storage.Driver)
		if err := e.Start(fmt.Sprintf("0.0.0.0:%s", cfg.HTTP.Port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	logger.Info("Shutting down")
	return e.Shutdown(shutdownCtx)
}

func echoLevel(level slog.Level) log.Lvl {
	switch {
	case level <= slog.LevelDebug:
		return log.DEBUG
	case level <= slog.LevelInfo:
		return log.INFO
	case level <= slog.LevelWarn:
		return log.WARN
	default:
		return log.ERROR
	}
}

func newSnapshotCommand() *cobra.Command {
	snapshotCmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Work with saved snapshot files",
	}

	var verbose bool
	inspect := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Print a summary of a JSON or YAML snapshot file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := snapshotfile.FormatOf(args[0])
			if err != nil {
				return err
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			snap, err := snapshotfile.Decode(format, data)
			if err != nil {
				return fmt.Errorf("decode %s: %w", args[0], err)
			}
			return printSnapshot(cmd.OutOrStdout(), snap, verbose)
		},
	}
	inspect.Flags().BoolVarP(&verbose, "verbose", "v", false, "list every job, order and route")

	snapshotCmd.AddCommand(inspect)
	return snapshotCmd
}

func printSnapshot(out io.Writer, snap snapshot.Snapshot, verbose bool) error {
	fmt.Fprintf(out, "schema version: %d\n", snap.SchemaVersion)
	if !snap.SavedAt.IsZero() {
		fmt.Fprintf(out, "saved at:       %s\n", snap.SavedAt.UTC().Format(time.RFC3339))
	}
	fmt.Fprintf(out, "jobs:           %d (%d queued)\n", len(snap.Jobs), len(snap.Queue))
	fmt.Fprintf(out, "orders:         %d\n", len(snap.Orders))
	fmt.Fprintf(out, "routes:         %d\n", len(snap.Routes))
	if !verbose {
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	if len(snap.Jobs) > 0 {
		fmt.Fprintln(w, "\nJOB\tORDER\tRESOURCE\tQTY\tSTATUS\tSUPPLIER\tTARGET")
		for _, j := range snap.Jobs {
			fmt.Fprintf(w, "%d\t%d\t%s\t%d\t%s\t%s\t%s\n",
				j.ID, j.OrderID, j.Resource, j.Quantity, j.Status, j.Supplier, j.Destination)
		}
	}
	if len(snap.Orders) > 0 {
		fmt.Fprintln(w, "\nORDER\tRESOURCE\tREMAINING\tTOTAL\tSTATUS\tJOBS")
		for _, o := range snap.Orders {
			fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%s\t%v\n", o.ID, o.Resource, o.Remaining, o.Total, o.Status, o.JobIDs)
		}
	}
	if len(snap.Routes) > 0 {
		fmt.Fprintln(w, "\nROUTE\tRESOURCE\tSUPPLIER\tCONSUMER\tPERIOD\tCAPACITY")
		for _, r := range snap.Routes {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%g\t%d\n", r.ID, r.Resource, r.Supplier, r.Consumer, r.Period, r.Capacity)
		}
	}
	return w.Flush()
}
