package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/napolitain/solver-oasis/internal/api"
	"github.com/napolitain/solver-oasis/internal/auth"
	"github.com/napolitain/solver-oasis/internal/loader"
	"github.com/napolitain/solver-oasis/internal/logging"
	"github.com/napolitain/solver-oasis/internal/server"
	"github.com/napolitain/solver-oasis/internal/solver/raid"
)

type serverOptions struct {
	addr        string
	dataDir     string
	usersFile   string
	logLevel    string
	logJSON     bool
	timeout     time.Duration
	maxBudget   int
	maxRestarts int
}

func main() {
	opts := &serverOptions{}

	rootCmd := &cobra.Command{
		Use:          "server",
		Short:        "HTTP API for the oasis raid optimizer",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(opts)
		},
	}

	fs := rootCmd.Flags()
	fs.StringVar(&opts.addr, "addr", ":8080", "Listen address")
	fs.StringVarP(&opts.dataDir, "data", "d", "", "Directory with roster.yaml and oasis.yaml (built-in tables when empty)")
	fs.StringVar(&opts.usersFile, "users", "", "JSON file of username: password pairs enabling basic auth")
	fs.StringVar(&opts.logLevel, "log-level", "info", "Log level")
	fs.BoolVar(&opts.logJSON, "log-json", false, "Log as JSON")
	fs.DurationVar(&opts.timeout, "timeout", 30*time.Second, "Per request optimization timeout (0 disables)")
	fs.IntVar(&opts.maxBudget, "max-budget", api.DefaultMaxBudget, "Largest max_iter accepted")
	fs.IntVar(&opts.maxRestarts, "max-restarts", api.DefaultMaxRestarts, "Largest restarts accepted")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serve(opts *serverOptions) error {
	logger, err := logging.New(opts.logLevel, opts.logJSON)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	roster, catalog, err := loader.LoadAll(opts.dataDir)
	if err != nil {
		return fmt.Errorf("loading data: %w", err)
	}
	logger.Info("data loaded", zap.Int("factions", len(roster)), zap.Int("defenders", len(catalog)))

	var users auth.Users
	if opts.usersFile != "" {
		users, err = auth.LoadUsers(opts.usersFile)
		if err != nil {
			return err
		}
		logger.Info("basic auth enabled", zap.Int("users", len(users)))
	}

	svc := api.NewService(raid.NewSolver(roster, catalog))
	svc.MaxBudget = opts.maxBudget
	svc.MaxRestarts = opts.maxRestarts

	srv := &http.Server{
		Addr:              opts.addr,
		Handler:           server.New(svc, logger, server.Options{Users: users, Timeout: opts.timeout}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", opts.addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
