package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/clinops/trialpulse/internal/api"
	"github.com/clinops/trialpulse/internal/api/handlers"
	"github.com/clinops/trialpulse/internal/loader"
	"github.com/clinops/trialpulse/internal/realtime"
	"github.com/clinops/trialpulse/pkg/logger"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the API server",
	Long: `Start the REST API server with the dashboard websocket and background jobs.

Endpoints:
  GET  /health                        - Health check
  GET  /metrics                       - Prometheus metrics
  GET  /ws                            - Dashboard events
  GET  /api/studies                   - Study index
  POST /api/studies/reload            - Reread the study index
  GET  /api/studies/{id}              - Load a study
  GET  /api/studies/{id}/summary      - Dashboard aggregates of a study
  GET  /api/studies/{id}/history      - Load snapshot history
  POST /api/session/select            - Select the dashboard study
  GET  /api/session/current           - Selected study and its records
  GET  /api/session/summary           - Aggregates of the selected study
  GET  /api/scheduler/jobs            - Background job statistics
  POST /api/scheduler/jobs/{name}/run - Trigger a job

Example:
  go run ./cmd/trialpulse api
  go run ./cmd/trialpulse api --port 9090`,
	RunE: runAPIServer,
}

var (
	apiPort   string
	apiNoJobs bool
)

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API server port (overrides PORT)")
	apiCmd.Flags().BoolVar(&apiNoJobs, "no-jobs", false, "do not run background jobs in this process")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if apiPort != "" {
		cfg.Port = apiPort
	}

	log := logger.New(cfg)
	log.WithFields(map[string]interface{}{
		"port":    cfg.Port,
		"env":     cfg.Env,
		"dataset": cfg.Dataset.Driver,
	}).Info("Initializing API server")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("init: %w", err)
	}
	defer a.Close()

	hub := realtime.NewHub(log, a.metrics)
	defer hub.Close()

	session := loader.NewSession(a.loader, hub, a.metrics, log)
	a.startWatcher(ctx)

	var jobRunner handlers.JobRunner
	if !apiNoJobs {
		sched, err := a.newScheduler(session, hub)
		if err != nil {
			return fmt.Errorf("init scheduler: %w", err)
		}
		sched.Start()
		defer sched.Stop()
		jobRunner = sched
	}

	var history handlers.HistoryReader
	if a.snapshots != nil {
		history = a.snapshots
	}

	router := api.NewRouter(api.Handlers{
		Studies:   handlers.NewStudyHandler(a.index, a.loader, history, log),
		Session:   handlers.NewSessionHandler(session, log),
		Scheduler: handlers.NewSchedulerHandler(jobRunner, log),
		Realtime:  hub,
		Metrics:   a.metrics,
	}, api.RateLimit{RPS: cfg.RateLimitRPS, Burst: cfg.RateLimitBurst}, log)

	server := api.New(cfg, log, router)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	fmt.Printf("\n✅ Server running on http://localhost:%s\n", cfg.Port)
	fmt.Println("\nPress Ctrl+C to stop")

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
