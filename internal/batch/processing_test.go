package batch

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/blobcount/internal/testutil"
)

// writeScene renders a synthetic scene with n rectangles and saves it as PNG.
func writeScene(t *testing.T, path string, n int) {
	t.Helper()
	scene := testutil.DefaultSceneConfig()
	for i := range n {
		scene.Shapes = append(scene.Shapes, testutil.Rectangle{
			X: 15 + i*55, Y: 30, W: 25, H: 25,
		})
	}
	testutil.WritePNG(t, testutil.GenerateScene(scene), path)
}

func TestProcessor_ProcessDirectory(t *testing.T) {
	dir := t.TempDir()
	writeScene(t, filepath.Join(dir, "one.png"), 1)
	writeScene(t, filepath.Join(dir, "three.png"), 3)

	cfg := DefaultConfig()
	cfg.Workers = 2
	p, err := NewProcessor(cfg)
	require.NoError(t, err)

	results, summary, err := p.Process(context.Background(), []string{dir})
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, 2, summary.ImagesProcessed)
	assert.Zero(t, summary.ImagesFailed)
	assert.Equal(t, 4, summary.TotalObjects)
	assert.InDelta(t, 2.0, summary.MeanPerImage, 1e-9)

	// Results follow discovery order, not completion order.
	assert.Equal(t, "one.png", results[0].File)
	assert.Equal(t, "three.png", results[1].File)
	assert.Equal(t, 1, results[0].TotalObjects)
	assert.Equal(t, 3, results[1].TotalObjects)
}

func TestProcessor_NoImagesFound(t *testing.T) {
	p, err := NewProcessor(DefaultConfig())
	require.NoError(t, err)

	_, _, err = p.Process(context.Background(), []string{t.TempDir()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no image files found")
}

func TestProcessor_ContinueOnError(t *testing.T) {
	dir := t.TempDir()
	writeScene(t, filepath.Join(dir, "good.png"), 2)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.png"), []byte("not an image"), 0o600))

	cfg := DefaultConfig()
	cfg.ContinueOnError = true
	p, err := NewProcessor(cfg)
	require.NoError(t, err)

	results, summary, err := p.Process(context.Background(), []string{dir})
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, 1, summary.ImagesProcessed)
	assert.Equal(t, 1, summary.ImagesFailed)
	assert.Equal(t, 2, summary.TotalObjects)

	var failed *FileResult
	for i := range results {
		if results[i].Err != nil {
			failed = &results[i]
		}
	}
	require.NotNil(t, failed)
	assert.Equal(t, "bad.png", failed.File)
}

func TestProcessor_AbortsOnFirstErrorByDefault(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.png"), []byte("not an image"), 0o600))

	cfg := DefaultConfig()
	cfg.Workers = 1
	p, err := NewProcessor(cfg)
	require.NoError(t, err)

	_, _, err = p.Process(context.Background(), []string{dir})
	assert.Error(t, err)
}

func TestProcessor_WritesResultsJSONAndAnnotated(t *testing.T) {
	inDir := t.TempDir()
	outDir := t.TempDir()
	writeScene(t, filepath.Join(inDir, "scan.png"), 2)

	cfg := DefaultConfig()
	cfg.OutputDir = outDir
	cfg.SaveAnnotated = true
	p, err := NewProcessor(cfg)
	require.NoError(t, err)

	_, _, err = p.Process(context.Background(), []string{inDir})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(outDir, ResultsFileName))
	require.NoError(t, err)

	var persisted []map[string]any
	require.NoError(t, json.Unmarshal(data, &persisted))
	require.Len(t, persisted, 1)
	assert.Equal(t, "scan.png", persisted[0]["arquivo"])
	assert.EqualValues(t, 2, persisted[0]["total_objetos"])

	_, err = os.Stat(filepath.Join(outDir, "scan_annotated.png"))
	assert.NoError(t, err, "annotated copy saved next to the results JSON")
}

func TestProcessor_CancelledContext(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.png", "b.png", "c.png", "d.png"} {
		writeScene(t, filepath.Join(dir, name), 1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := DefaultConfig()
	cfg.Workers = 1
	p, err := NewProcessor(cfg)
	require.NoError(t, err)

	_, _, err = p.Process(ctx, []string{dir})
	assert.Error(t, err)
}

func TestNewProcessor_InvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Format = "yaml"
	_, err := NewProcessor(cfg)
	assert.Error(t, err)

	cfg = DefaultConfig()
	cfg.Counter.MinArea = -1
	_, err = NewProcessor(cfg)
	assert.Error(t, err)
}

func TestAnnotatedName(t *testing.T) {
	assert.Equal(t, "scan_annotated.png", annotatedName("/in/scan.jpg"))
	assert.Equal(t, "a.b_annotated.png", annotatedName("a.b.png"))
}
