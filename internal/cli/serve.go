package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mkarlik/retention/internal/config"
	"github.com/mkarlik/retention/internal/engine"
	"github.com/mkarlik/retention/internal/server"
	"github.com/mkarlik/retention/internal/source"
	"github.com/mkarlik/retention/internal/store"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Default()

	// RETENTION_SOURCE_CMD points at a legacy backend binary to import
	// from, overriding the builtin sample set.
	if backend := os.Getenv("RETENTION_SOURCE_CMD"); backend != "" {
		cfg.Source.Provider = "exec"
		cfg.Source.Command = backend
	}

	// Simulation state lives in memory only; a restart starts fresh.
	db, err := store.OpenMemory()
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	if cfg.Sim.DecayRate > 0 {
		if err := db.SetLambda(cfg.Sim.DecayRate); err != nil {
			return fmt.Errorf("set decay rate: %w", err)
		}
	}

	src, err := source.New(cfg.Source)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: source not configured (%v), using builtin sample set\n", err)
		src = source.NewBuiltin()
	}

	eng := engine.New(db, src)

	// Seed once at startup. A collaborator failure is reported, not
	// retried; the builtin sample set keeps the simulation usable.
	{
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		seeded, err := eng.Seed(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: seed from %s source failed (%v), using builtin sample set\n", cfg.Source.Provider, err)
			seeded, err = engine.New(db, source.NewBuiltin()).Seed(ctx)
			if err != nil {
				cancel()
				return fmt.Errorf("seed: %w", err)
			}
		}
		cancel()
		fmt.Fprintf(os.Stderr, "  seeded %d concepts\n", seeded)
	}

	srv := server.New(db, eng, VersionString())
	addr := cfg.ListenAddr()

	httpServer := &http.Server{
		Addr:    addr,
		Handler: srv,
	}

	// Graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		fmt.Fprintf(os.Stderr, "retention serving on %s\n", addr)
		fmt.Fprintf(os.Stderr, "  source: %s\n", cfg.Source.Provider)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Fprintf(os.Stderr, "server error: %v\n", err)
			os.Exit(1)
		}
	}()

	<-done
	fmt.Fprintln(os.Stderr, "\nshutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return httpServer.Shutdown(ctx)
}
