package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"casview/internal/format"
	"casview/internal/logging"
	"casview/internal/progress"
	"casview/internal/tree"
	"casview/internal/walker"
)

var indexWorkers int

var indexCmd = &cobra.Command{
	Use:   "index <directory> [output-file]",
	Short: "Index a directory into a content-addressed snapshot",
	Long: `Hash every file under a directory and write a snapshot of its directory
listings keyed by digest. Output ending in .zst is zstd-compressed. Without an
output path the snapshot is written to output/<root-hash>.json.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().IntVarP(&indexWorkers, "workers", "w", 0, "Number of hashing goroutines (default from config)")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	logger := logging.L()

	outputPath := cfg.OutputFile
	if len(args) == 2 {
		outputPath = args[1]
	}
	workers := cfg.Workers
	if indexWorkers > 0 {
		workers = indexWorkers
	}

	absDirectory, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}

	logger.Info("scanning directory", zap.String("path", absDirectory))

	walkResult, err := walker.Walk(absDirectory, cfg.Exclude)
	if err != nil {
		return fmt.Errorf("failed to walk directory: %w", err)
	}

	var totalBytes int64
	for _, fileInfo := range walkResult.Files {
		totalBytes += fileInfo.Size
	}
	logger.Info("hashing files",
		zap.Int("files", len(walkResult.Files)),
		zap.Int64("bytes", totalBytes),
		zap.Int("workers", workers))

	bar := progress.NewWithWriter(totalBytes, cmd.ErrOrStderr())
	hashResult, err := walker.HashFiles(cmd.Context(), walkResult.Files, workers, bar)
	if err != nil {
		return err
	}
	bar.Finish()

	fileDataMap := make(map[string]tree.FileData, len(hashResult.Digests))
	for _, fileInfo := range walkResult.Files {
		if d, ok := hashResult.Digests[fileInfo.Path]; ok {
			fileDataMap[fileInfo.Path] = tree.FileData{
				Hash:    d.Hash,
				Size:    d.SizeBytes,
				ModTime: fileInfo.ModTime,
			}
		}
	}

	snapshot, err := tree.Build(fileDataMap, absDirectory)
	if err != nil {
		return fmt.Errorf("failed to build snapshot: %w", err)
	}

	// Default to the root hash as filename in ./output/
	if outputPath == "" {
		outputPath = filepath.Join("output", snapshot.Root.Digest.Hash+".json")
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := tree.Save(snapshot, outputPath); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}

	for _, walkErr := range walkResult.Errors {
		logger.Warn("skipped path", zap.Error(walkErr))
	}
	for _, hashErr := range hashResult.Errors {
		logger.Warn("skipped file", zap.Error(hashErr))
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "✓ Snapshot written\n")
	fmt.Fprintf(out, "  Root: %s\n", snapshot.Root.Key())
	fmt.Fprintf(out, "  Files: %d (%s)\n", len(fileDataMap), format.Bytes(snapshot.TotalSize))
	fmt.Fprintf(out, "  Directories: %d\n", len(snapshot.Directories))
	fmt.Fprintf(out, "  Output: %s\n", outputPath)

	if skipped := len(walkResult.Errors) + len(hashResult.Errors); skipped > 0 {
		fmt.Fprintf(out, "\n⚠ Skipped %d paths due to errors\n", skipped)
	}

	return nil
}
