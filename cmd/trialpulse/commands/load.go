package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/clinops/trialpulse/internal/summary"
	"github.com/clinops/trialpulse/pkg/logger"
)

var loadCmd = &cobra.Command{
	Use:   "load <study-id>",
	Short: "Load one study and print its load report",
	Long: `Resolve, decode and normalize every role file of a study.

Example:
  go run ./cmd/trialpulse load study-1_cpid
  go run ./cmd/trialpulse load study-1_cpid --json`,
	Args: cobra.ExactArgs(1),
	RunE: runLoad,
}

var (
	loadJSON    bool
	loadRegions bool
)

func init() {
	rootCmd.AddCommand(loadCmd)

	loadCmd.Flags().BoolVar(&loadJSON, "json", false, "print the full StudyData as JSON")
	loadCmd.Flags().BoolVar(&loadRegions, "regions", false, "print per-region metrics")
}

func runLoad(cmd *cobra.Command, args []string) error {
	studyID := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := logger.New(cfg)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := newApp(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("init: %w", err)
	}
	defer a.Close()

	data, err := a.loader.Load(ctx, studyID)
	if err != nil {
		return fmt.Errorf("load %s: %w", studyID, err)
	}

	if loadJSON {
		return printJSON(data)
	}

	printLoadReport(data.Report)
	printOverview(summary.Overview(data))

	if loadRegions {
		fmt.Println(rule)
		for _, r := range summary.Regions(data.Sites) {
			fmt.Printf("  %-15s %3d sites %5d subjects  DQ %5.1f  resolved %5.1f%%\n",
				r.Region, r.Sites, r.Subjects, r.DataQualityScore, r.QueryResolutionRate)
		}
	}
	fmt.Println()
	return nil
}
