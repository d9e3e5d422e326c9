package batch

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Summary aggregates a whole batch run.
type Summary struct {
	ImagesProcessed int     `json:"imagens_processadas"`
	ImagesFailed    int     `json:"imagens_com_falha"`
	TotalObjects    int     `json:"total_objetos"`
	MeanPerImage    float64 `json:"media_por_imagem"`
}

// Summarize computes batch-level totals over the per-file results. Failed
// files count toward ImagesFailed and are excluded from the object totals.
func Summarize(results []FileResult) Summary {
	var s Summary
	for _, r := range results {
		if r.Err != nil {
			s.ImagesFailed++
			continue
		}
		s.ImagesProcessed++
		s.TotalObjects += r.TotalObjects
	}
	if s.ImagesProcessed > 0 {
		s.MeanPerImage = float64(s.TotalObjects) / float64(s.ImagesProcessed)
	}
	return s
}

// FormatResults renders the batch results in the requested format.
func FormatResults(results []FileResult, format string) (string, error) {
	switch format {
	case "json":
		return formatJSON(results)
	case "csv":
		return formatCSV(results)
	case "text":
		return formatText(results), nil
	default:
		return "", fmt.Errorf("unsupported output format: %s", format)
	}
}

func formatJSON(results []FileResult) (string, error) {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal results: %w", err)
	}
	return string(data), nil
}

func formatCSV(results []FileResult) (string, error) {
	var sb strings.Builder
	w := csv.NewWriter(&sb)

	header := []string{"file", "path", "total_objects", "mean_area", "median_area", "min_area", "max_area", "stddev_area", "error"}
	if err := w.Write(header); err != nil {
		return "", fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, r := range results {
		errMsg := ""
		if r.Err != nil {
			errMsg = r.Err.Error()
		}
		record := []string{
			r.File,
			r.Path,
			strconv.Itoa(r.TotalObjects),
			strconv.FormatFloat(r.Statistics.MeanArea, 'f', 2, 64),
			strconv.FormatFloat(r.Statistics.MedianArea, 'f', 2, 64),
			strconv.Itoa(r.Statistics.MinArea),
			strconv.Itoa(r.Statistics.MaxArea),
			strconv.FormatFloat(r.Statistics.StdDevArea, 'f', 2, 64),
			errMsg,
		}
		if err := w.Write(record); err != nil {
			return "", fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("failed to flush CSV: %w", err)
	}
	return sb.String(), nil
}

func formatText(results []FileResult) string {
	var sb strings.Builder
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(&sb, "%s: error: %v\n", r.File, r.Err)
			continue
		}
		fmt.Fprintf(&sb, "%s: %d object(s)\n", r.File, r.TotalObjects)
		if r.TotalObjects > 0 {
			fmt.Fprintf(&sb, "  mean area: %.2f  median: %.2f  min: %d  max: %d  stddev: %.2f\n",
				r.Statistics.MeanArea, r.Statistics.MedianArea,
				r.Statistics.MinArea, r.Statistics.MaxArea, r.Statistics.StdDevArea)
		}
	}
	return sb.String()
}

// FormatSummary renders the batch summary banner with grouped thousands.
func FormatSummary(s Summary) string {
	p := message.NewPrinter(language.English)

	var sb strings.Builder
	line := strings.Repeat("=", 50)
	sb.WriteString(line + "\n")
	sb.WriteString("BATCH PROCESSING SUMMARY\n")
	sb.WriteString(line + "\n")
	p.Fprintf(&sb, "Images processed: %d\n", s.ImagesProcessed)
	if s.ImagesFailed > 0 {
		p.Fprintf(&sb, "Images failed: %d\n", s.ImagesFailed)
	}
	p.Fprintf(&sb, "Objects detected: %d\n", s.TotalObjects)
	p.Fprintf(&sb, "Mean objects per image: %.2f\n", s.MeanPerImage)
	sb.WriteString(line + "\n")
	return sb.String()
}
