package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MeKo-Tech/blobcount/internal/batch"
	"github.com/MeKo-Tech/blobcount/internal/config"
	"github.com/MeKo-Tech/blobcount/internal/counter"
	"github.com/MeKo-Tech/blobcount/internal/utils"
)

const (
	outputFormatJSON = "json"
	outputFormatCSV  = "csv"
	outputFormatText = "text"
)

// imageCmd represents the image command.
var imageCmd = &cobra.Command{
	Use:   "image [files...]",
	Short: "Count objects in one or more images",
	Long: `Process one or more image files and count the discrete objects in each.

Supported formats: JPEG, PNG, BMP, TIFF

Examples:
  blobcount image parts.jpg
  blobcount image *.png --format json
  blobcount image scan.jpg --method adaptive --min-area 100
  blobcount image scan.jpg --save-annotated --annotated-dir out/`,
	Args:         cobra.ArbitraryArgs,
	SilenceUsage: true,
	RunE:         runImageCommand,
}

func runImageCommand(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return errors.New("no input files provided")
	}

	cfg := GetConfig()
	counterCfg, err := counterConfigFromFlags(cfg, cmd)
	if err != nil {
		return err
	}

	format := cfg.Output.Format
	if cmd.Flags().Changed("format") {
		format, _ = cmd.Flags().GetString("format")
	}
	validFormats := []string{outputFormatText, outputFormatJSON, outputFormatCSV}
	valid := false
	for _, f := range validFormats {
		if format == f {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("invalid output format: %s (must be one of: %s)", format, strings.Join(validFormats, ", "))
	}

	outputFile := cfg.Output.File
	if cmd.Flags().Changed("output") {
		outputFile, _ = cmd.Flags().GetString("output")
	}

	saveAnnotated := cfg.Output.SaveAnnotated
	if cmd.Flags().Changed("save-annotated") {
		saveAnnotated, _ = cmd.Flags().GetBool("save-annotated")
	}
	annotatedDir := cfg.Output.AnnotatedDir
	if cmd.Flags().Changed("annotated-dir") {
		annotatedDir, _ = cmd.Flags().GetString("annotated-dir")
	}
	if annotatedDir == "" {
		annotatedDir = "."
	}

	c, err := counter.New(counterCfg)
	if err != nil {
		return err
	}

	results := make([]batch.FileResult, 0, len(args))
	for _, path := range args {
		res, err := c.ProcessFile(path)
		if err != nil {
			return fmt.Errorf("processing %s: %w", path, err)
		}

		results = append(results, batch.FileResult{
			File:         filepath.Base(path),
			Path:         path,
			TotalObjects: res.TotalObjects,
			Statistics:   res.Statistics,
			Objects:      res.Objects,
		})

		if saveAnnotated && res.Annotated != nil {
			if err := os.MkdirAll(annotatedDir, 0o750); err != nil {
				return fmt.Errorf("failed to create annotated dir: %w", err)
			}
			stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
			out := filepath.Join(annotatedDir, stem+"_annotated.png")
			if err := utils.SaveImage(res.Annotated, out); err != nil {
				return fmt.Errorf("failed to save annotated image: %w", err)
			}
		}
	}

	rendered, err := batch.FormatResults(results, format)
	if err != nil {
		return err
	}

	if outputFile != "" {
		if err := os.WriteFile(outputFile, []byte(rendered), 0o600); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Results written to %s\n", outputFile)
		return nil
	}

	_, err = fmt.Fprint(cmd.OutOrStdout(), rendered)
	return err
}

// counterConfigFromFlags maps configuration to a counter config, letting
// changed CLI flags override file and environment values.
func counterConfigFromFlags(cfg *config.Config, cmd *cobra.Command) (counter.Config, error) {
	pipelineCfg := *cfg
	flags := cmd.Flags()

	if flags.Changed("method") {
		pipelineCfg.Pipeline.Method, _ = flags.GetString("method")
	}
	if flags.Changed("min-area") {
		pipelineCfg.Pipeline.MinArea, _ = flags.GetInt("min-area")
	}
	if flags.Changed("smooth-kernel") {
		pipelineCfg.Pipeline.SmoothKernel, _ = flags.GetInt("smooth-kernel")
	}
	if flags.Changed("morph-kernel") {
		pipelineCfg.Pipeline.MorphKernelSize, _ = flags.GetInt("morph-kernel")
	}
	if flags.Changed("morph-iterations") {
		pipelineCfg.Pipeline.MorphIterations, _ = flags.GetInt("morph-iterations")
	}
	if flags.Changed("adaptive-window") {
		pipelineCfg.Pipeline.Adaptive.WindowSize, _ = flags.GetInt("adaptive-window")
	}
	if flags.Changed("adaptive-offset") {
		pipelineCfg.Pipeline.Adaptive.Offset, _ = flags.GetInt("adaptive-offset")
	}
	if flags.Changed("edge-low") {
		pipelineCfg.Pipeline.Edge.LowThreshold, _ = flags.GetInt("edge-low")
	}
	if flags.Changed("edge-high") {
		pipelineCfg.Pipeline.Edge.HighThreshold, _ = flags.GetInt("edge-high")
	}

	return pipelineCfg.CounterConfig()
}

// addPipelineFlags registers the shared counting pipeline flags.
func addPipelineFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("method", "m", "otsu", "segmentation method (otsu, adaptive, canny)")
	cmd.Flags().IntP("min-area", "a", 50, "minimum object area in pixels")
	cmd.Flags().Int("smooth-kernel", 5, "Gaussian smoothing kernel size (odd)")
	cmd.Flags().IntP("morph-kernel", "k", 3, "morphological kernel size")
	cmd.Flags().Int("morph-iterations", 2, "morphological iterations")
	cmd.Flags().Int("adaptive-window", 11, "adaptive threshold window size (odd)")
	cmd.Flags().Int("adaptive-offset", 2, "adaptive threshold offset")
	cmd.Flags().Int("edge-low", 50, "edge detection low threshold")
	cmd.Flags().Int("edge-high", 150, "edge detection high threshold")
}

func init() {
	rootCmd.AddCommand(imageCmd)

	addPipelineFlags(imageCmd)
	imageCmd.Flags().StringP("format", "f", "text", "output format (text, json, csv)")
	imageCmd.Flags().StringP("output", "o", "", "write results to file instead of stdout")
	imageCmd.Flags().Bool("save-annotated", false, "save annotated images with bounding boxes")
	imageCmd.Flags().String("annotated-dir", "", "directory for annotated images (default current directory)")
}
