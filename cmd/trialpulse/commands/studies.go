package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/clinops/trialpulse/internal/source"
	"github.com/clinops/trialpulse/internal/studyindex"
	"github.com/clinops/trialpulse/pkg/logger"
)

var studiesCmd = &cobra.Command{
	Use:   "studies",
	Short: "List the studies in the dataset index",
	RunE:  listStudies,
}

var studiesJSON bool

func init() {
	rootCmd.AddCommand(studiesCmd)

	studiesCmd.Flags().BoolVar(&studiesJSON, "json", false, "print the index as JSON")
}

func listStudies(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := logger.New(cfg)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	src, err := source.New(ctx, cfg.Dataset, log)
	if err != nil {
		return err
	}

	studies, err := studyindex.New(src, log).Refresh(ctx)
	if err != nil {
		return err
	}

	if studiesJSON {
		return printJSON(studies)
	}

	printHeader(fmt.Sprintf("Studies (%s: %s)", src.Name(), cfg.Dataset.Root))
	for _, s := range studies {
		fmt.Printf("  %-24s %-12s %2d files  %s\n", s.ID, s.Name, len(s.Files), s.Folder)
	}
	fmt.Println()
	return nil
}
