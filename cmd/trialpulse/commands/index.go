package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/clinops/trialpulse/internal/studyindex"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Study index maintenance",
}

var indexGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Scan a dataset directory and write the study index",
	Long: `Scan every study folder under --dir and write the .xlsx exports of each
into the study index JSON.

Example:
  go run ./cmd/trialpulse index generate --dir ./dataset
  go run ./cmd/trialpulse index generate --dir ./dataset --out ./dataset/study-index.json`,
	RunE: generateIndex,
}

var (
	indexDir string
	indexOut string
)

func init() {
	rootCmd.AddCommand(indexCmd)
	indexCmd.AddCommand(indexGenerateCmd)

	indexGenerateCmd.Flags().StringVar(&indexDir, "dir", "", "dataset directory (default DATASET_ROOT)")
	indexGenerateCmd.Flags().StringVar(&indexOut, "out", "", "output file (default <dir>/DATASET_INDEX_FILE)")
}

func generateIndex(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	dir := indexDir
	if dir == "" {
		dir = cfg.Dataset.Root
	}
	out := indexOut
	if out == "" {
		out = filepath.Join(dir, cfg.Dataset.IndexFile)
	}

	studies, err := studyindex.WriteIndex(dir, out)
	if err != nil {
		return err
	}

	files := 0
	for _, s := range studies {
		files += len(s.Files)
	}
	fmt.Printf("✅ Wrote %d studies (%d files) to %s\n", len(studies), files, out)
	return nil
}
