// Package main implements the chess server application serving the session
// API, plus the `db` maintenance subcommands for the move journal.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chessrules/cmd/chess-server/cli"
	"chessrules/internal/game"
	"chessrules/internal/logging"
	"chessrules/internal/service"
	"chessrules/internal/storage"
	"chessrules/internal/transport/http"

	"github.com/apex/log"
)

const (
	gracefulShutdownTimeout = time.Second * 5
)

func main() {
	// Check for CLI database commands
	if len(os.Args) > 1 && os.Args[1] == "db" {
		if err := cli.Run(os.Args[2:], os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "CLI error: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	var (
		apiHost     = flag.String("api-host", "localhost", "API server host")
		apiPort     = flag.Int("api-port", 8080, "API server port")
		dev         = flag.Bool("dev", false, "Development mode (relaxed rate limits, WAL journal)")
		storagePath = flag.String("storage-path", "", "Path to SQLite database file (disables persistence if empty)")
		pidPath     = flag.String("pid", "", "Optional path to write PID file")
		pidLock     = flag.Bool("pid-lock", false, "Lock PID file to allow only one instance (requires -pid)")
		repetition  = flag.String("repetition", "window", "Default threefold repetition detector: window or occurrence")
		logLevel    = flag.String("log-level", "info", "Log level: debug, info, warn, error or off")
		accessLog   = flag.Bool("access-log", true, "Log every HTTP request")
	)
	flag.Parse()

	if err := logging.Setup(os.Stderr, *logLevel); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if *pidLock && *pidPath == "" {
		log.Fatal("-pid-lock flag requires the -pid flag to be set")
	}

	policy, err := game.ParsePolicy(*repetition)
	if err != nil {
		log.WithError(err).Fatal("invalid -repetition")
	}

	// Manage PID file if requested
	if *pidPath != "" {
		cleanup, err := managePIDFile(*pidPath, *pidLock)
		if err != nil {
			log.WithError(err).Fatal("failed to manage PID file")
		}
		defer cleanup()
		log.WithFields(log.Fields{"path": *pidPath, "lock": *pidLock}).Info("PID file created")
	}

	// 1. Initialize storage (optional)
	opts := []service.Option{service.WithDefaultPolicy(policy)}
	if *storagePath != "" {
		log.WithField("path", *storagePath).Info("initializing persistent storage")
		store, err := storage.NewStore(*storagePath, *dev)
		if err != nil {
			log.WithError(err).Fatal("failed to initialize storage")
		}
		if err := store.InitDB(); err != nil {
			log.WithError(err).Fatal("failed to initialize schema")
		}
		opts = append(opts, service.WithStore(store))
	} else {
		log.Info("persistent storage disabled (use -storage-path to enable)")
	}

	// 2. Service owns the store and the wait registry
	svc := service.New(opts...)

	// 3. Fiber app
	app := http.NewFiberApp(svc, http.Config{
		DevMode:   *dev,
		AccessLog: *accessLog,
	})

	apiAddr := fmt.Sprintf("%s:%d", *apiHost, *apiPort)

	go func() {
		log.WithFields(log.Fields{
			"addr":       "http://" + apiAddr,
			"games":      fmt.Sprintf("http://%s/api/v1/games", apiAddr),
			"health":     fmt.Sprintf("http://%s/health", apiAddr),
			"dev":        *dev,
			"repetition": policy.String(),
		}).Info("chess API server starting")

		if err := app.Listen(apiAddr); err != nil {
			log.WithError(err).Error("API server listen error")
		}
	}()

	// Wait for an interrupt signal to gracefully shut down
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer shutdownCancel()

	// Release long-poll waiters before draining HTTP so their requests can finish
	if err := svc.Shutdown(gracefulShutdownTimeout); err != nil {
		log.WithError(err).Warn("service shutdown error")
	}

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.WithError(err).Warn("server forced to shutdown")
	}

	log.Info("server exited")
}
