package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/MeKo-Tech/blobcount/internal/batch"
	"github.com/MeKo-Tech/blobcount/internal/config"
)

// batchCmd represents the batch command for parallel directory processing.
var batchCmd = &cobra.Command{
	Use:   "batch [files or directories...]",
	Short: "Count objects in many images in parallel",
	Long: `Process multiple image files or whole directories in parallel.

Each image runs through the full counting pipeline; results are collected
in discovery order and can be persisted together with annotated copies.

Supported formats: JPEG, PNG, BMP, TIFF

Examples:
  blobcount batch *.jpg *.png
  blobcount batch images/ --recursive --workers 8
  blobcount batch images/ --output-dir resultados/ --save-annotated
  blobcount batch images/ --format json --continue-on-error`,
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
	RunE:         runBatchCommand,
}

// configToBatchConfig maps centralized configuration to batch.Config.
// CLI flags override config file values.
func configToBatchConfig(cfg *config.Config, cmd *cobra.Command) (*batch.Config, error) {
	pipelineCfg := *cfg
	flags := cmd.Flags()

	if flags.Changed("workers") {
		pipelineCfg.Batch.Workers, _ = flags.GetInt("workers")
	}
	if flags.Changed("recursive") {
		pipelineCfg.Batch.Recursive, _ = flags.GetBool("recursive")
	}
	if flags.Changed("output-dir") {
		pipelineCfg.Batch.OutputDir, _ = flags.GetString("output-dir")
	}
	if flags.Changed("continue-on-error") {
		pipelineCfg.Batch.ContinueOnError, _ = flags.GetBool("continue-on-error")
	}
	if flags.Changed("format") {
		pipelineCfg.Output.Format, _ = flags.GetString("format")
	}
	if flags.Changed("save-annotated") {
		pipelineCfg.Output.SaveAnnotated, _ = flags.GetBool("save-annotated")
	}

	counterCfg, err := counterConfigFromFlags(&pipelineCfg, cmd)
	if err != nil {
		return nil, err
	}

	batchCfg, err := pipelineCfg.BatchConfigFor()
	if err != nil {
		return nil, err
	}
	batchCfg.Counter = counterCfg

	batchCfg.IncludePatterns, _ = flags.GetStringSlice("include")
	batchCfg.ExcludePatterns, _ = flags.GetStringSlice("exclude")
	batchCfg.ShowProgress, _ = flags.GetBool("progress")
	batchCfg.Quiet, _ = flags.GetBool("quiet")

	return batchCfg, nil
}

func runBatchCommand(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	batchCfg, err := configToBatchConfig(cfg, cmd)
	if err != nil {
		return err
	}

	processor, err := batch.NewProcessor(batchCfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	results, summary, err := processor.Process(ctx, args)
	if err != nil {
		return err
	}

	rendered, err := batch.FormatResults(results, batchCfg.Format)
	if err != nil {
		return err
	}

	outputFile := cfg.Output.File
	if cmd.Flags().Changed("output") {
		outputFile, _ = cmd.Flags().GetString("output")
	}
	if outputFile != "" {
		if err := os.WriteFile(outputFile, []byte(rendered), 0o600); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
	} else {
		fmt.Fprint(cmd.OutOrStdout(), rendered)
	}

	if !batchCfg.Quiet {
		fmt.Fprint(cmd.OutOrStdout(), batch.FormatSummary(summary))
	}

	return nil
}

func init() {
	rootCmd.AddCommand(batchCmd)

	addPipelineFlags(batchCmd)
	batchCmd.Flags().StringP("format", "f", "text", "output format (text, json, csv)")
	batchCmd.Flags().StringP("output", "o", "", "write results to file instead of stdout")
	batchCmd.Flags().IntP("workers", "w", 0, "number of parallel workers (0 = CPU count)")
	batchCmd.Flags().BoolP("recursive", "r", false, "recurse into subdirectories")
	batchCmd.Flags().String("output-dir", "", "directory for batch results and annotated images")
	batchCmd.Flags().Bool("save-annotated", false, "save annotated images into the output directory")
	batchCmd.Flags().Bool("continue-on-error", false, "record per-file failures instead of aborting")
	batchCmd.Flags().StringSlice("include", nil, "glob patterns of file names to include")
	batchCmd.Flags().StringSlice("exclude", nil, "glob patterns of file names to exclude")
	batchCmd.Flags().Bool("progress", false, "show a console progress bar")
	batchCmd.Flags().BoolP("quiet", "q", false, "suppress the summary banner and progress output")
}
