package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/clinops/trialpulse/internal/scheduler"
	"github.com/clinops/trialpulse/pkg/logger"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Background job management",
	Long: `Run the background jobs without the API server, or inspect them.

Subcommands:
  start   - run the scheduler until interrupted
  list    - registered jobs and their schedules
  run     - run one job now and print its result

Example:
  go run ./cmd/trialpulse scheduler start
  go run ./cmd/trialpulse scheduler run index_refresh`,
}

var (
	schedulerStartCmd = &cobra.Command{
		Use:   "start",
		Short: "Start the scheduler",
		Long: `Start the scheduler and every registered job.

Registered jobs:
- index_refresh: INDEX_REFRESH_SCHEDULE (default every 15 minutes)

The scheduler stops on Ctrl+C.`,
		RunE: runScheduler,
	}

	schedulerListCmd = &cobra.Command{
		Use:   "list",
		Short: "List registered jobs",
		RunE:  listJobs,
	}

	schedulerRunCmd = &cobra.Command{
		Use:   "run [job_name]",
		Short: "Run a job now",
		Args:  cobra.ExactArgs(1),
		RunE:  runJob,
	}
)

func init() {
	rootCmd.AddCommand(schedulerCmd)
	schedulerCmd.AddCommand(schedulerStartCmd)
	schedulerCmd.AddCommand(schedulerListCmd)
	schedulerCmd.AddCommand(schedulerRunCmd)
}

func runScheduler(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, sched, err := initScheduler(ctx)
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	defer a.Close()

	a.startWatcher(ctx)
	sched.Start()

	fmt.Println("\n✅ Scheduler started successfully")
	fmt.Println("\nRegistered jobs:")
	for _, jobName := range sched.GetAllJobs() {
		fmt.Printf("  - %s\n", jobName)
	}
	fmt.Println("\nPress Ctrl+C to stop")

	<-ctx.Done()

	fmt.Println("\nShutting down scheduler...")
	sched.Stop()
	fmt.Println("Scheduler stopped")

	return nil
}

func listJobs(cmd *cobra.Command, args []string) error {
	a, sched, err := initScheduler(context.Background())
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	defer a.Close()

	stats := sched.GetJobStats()
	names := make([]string, 0, len(stats))
	for name := range stats {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println("Registered jobs:")
	for _, name := range names {
		stat := stats[name]
		next := "-"
		if stat.NextRun != nil {
			next = stat.NextRun.Format("2006-01-02 15:04:05")
		}
		fmt.Printf("  - %-16s %-18s next %s\n", name, stat.Schedule, next)
	}

	return nil
}

func runJob(cmd *cobra.Command, args []string) error {
	jobName := args[0]

	a, sched, err := initScheduler(context.Background())
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	defer a.Close()

	fmt.Printf("Running job: %s\n", jobName)
	result, err := sched.RunJobSync(jobName)
	if err != nil {
		return fmt.Errorf("run job: %w", err)
	}

	if !result.Success {
		return fmt.Errorf("job %s failed after %d attempts: %s", jobName, result.Attempts, result.Error)
	}
	fmt.Printf("✅ Job %s completed in %s\n", jobName, result.Duration)
	return nil
}

func initScheduler(ctx context.Context) (*app, *scheduler.Scheduler, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	log := logger.New(cfg)

	a, err := newApp(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}

	sched, err := a.newScheduler(nil, nil)
	if err != nil {
		a.Close()
		return nil, nil, err
	}
	return a, sched, nil
}
