// Package config centralizes application configuration loaded from files,
// environment variables, and command-line flags.
package config

import (
	"fmt"
	"strings"

	"github.com/MeKo-Tech/blobcount/internal/batch"
	"github.com/MeKo-Tech/blobcount/internal/counter"
	"github.com/MeKo-Tech/blobcount/internal/preprocess"
	"github.com/MeKo-Tech/blobcount/internal/segment"
	"github.com/MeKo-Tech/blobcount/internal/server"
)

// Config represents the complete configuration for the blobcount application.
// It includes settings for all commands (image, batch, serve) and supports
// loading from configuration files, environment variables, and command-line flags.
type Config struct {
	// Global settings
	LogLevel string `mapstructure:"log_level" yaml:"log_level" json:"log_level"`
	Verbose  bool   `mapstructure:"verbose" yaml:"verbose" json:"verbose"`

	// Pipeline configuration
	Pipeline PipelineConfig `mapstructure:"pipeline" yaml:"pipeline" json:"pipeline"`

	// Output configuration
	Output OutputConfig `mapstructure:"output" yaml:"output" json:"output"`

	// Server configuration (for serve command)
	Server ServerConfig `mapstructure:"server" yaml:"server" json:"server"`

	// Batch processing configuration
	Batch BatchConfig `mapstructure:"batch" yaml:"batch" json:"batch"`
}

// PipelineConfig contains counting pipeline settings.
type PipelineConfig struct {
	Method          string `mapstructure:"method" yaml:"method" json:"method"`
	MinArea         int    `mapstructure:"min_area" yaml:"min_area" json:"min_area"`
	SmoothKernel    int    `mapstructure:"smooth_kernel" yaml:"smooth_kernel" json:"smooth_kernel"`
	MorphKernelSize int    `mapstructure:"morph_kernel_size" yaml:"morph_kernel_size" json:"morph_kernel_size"`
	MorphIterations int    `mapstructure:"morph_iterations" yaml:"morph_iterations" json:"morph_iterations"`

	Adaptive AdaptiveConfig `mapstructure:"adaptive" yaml:"adaptive" json:"adaptive"`
	Edge     EdgeConfig     `mapstructure:"edge" yaml:"edge" json:"edge"`
}

// AdaptiveConfig contains local thresholding settings.
type AdaptiveConfig struct {
	WindowSize int `mapstructure:"window_size" yaml:"window_size" json:"window_size"`
	Offset     int `mapstructure:"offset" yaml:"offset" json:"offset"`
}

// EdgeConfig contains edge-based segmentation settings.
type EdgeConfig struct {
	LowThreshold  int `mapstructure:"low_threshold" yaml:"low_threshold" json:"low_threshold"`
	HighThreshold int `mapstructure:"high_threshold" yaml:"high_threshold" json:"high_threshold"`
}

// OutputConfig contains output formatting settings.
type OutputConfig struct {
	Format        string `mapstructure:"format" yaml:"format" json:"format"`
	File          string `mapstructure:"file" yaml:"file" json:"file"`
	SaveAnnotated bool   `mapstructure:"save_annotated" yaml:"save_annotated" json:"save_annotated"`
	AnnotatedDir  string `mapstructure:"annotated_dir" yaml:"annotated_dir" json:"annotated_dir"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host            string `mapstructure:"host" yaml:"host" json:"host"`
	Port            int    `mapstructure:"port" yaml:"port" json:"port"`
	CORSOrigin      string `mapstructure:"cors_origin" yaml:"cors_origin" json:"cors_origin"`
	MaxUploadMB     int    `mapstructure:"max_upload_mb" yaml:"max_upload_mb" json:"max_upload_mb"`
	TimeoutSec      int    `mapstructure:"timeout_sec" yaml:"timeout_sec" json:"timeout_sec"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout" json:"shutdown_timeout"`
}

// BatchConfig contains batch processing settings.
type BatchConfig struct {
	Workers         int    `mapstructure:"workers" yaml:"workers" json:"workers"`
	Recursive       bool   `mapstructure:"recursive" yaml:"recursive" json:"recursive"`
	OutputDir       string `mapstructure:"output_dir" yaml:"output_dir" json:"output_dir"`
	ContinueOnError bool   `mapstructure:"continue_on_error" yaml:"continue_on_error" json:"continue_on_error"`
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	pipeline := counter.DefaultConfig()
	return Config{
		LogLevel: "info",
		Verbose:  false,
		Pipeline: PipelineConfig{
			Method:          pipeline.Segmentation.Method.String(),
			MinArea:         pipeline.MinArea,
			SmoothKernel:    pipeline.SmoothKernel.Width,
			MorphKernelSize: pipeline.MorphKernelSize,
			MorphIterations: pipeline.MorphIterations,
			Adaptive: AdaptiveConfig{
				WindowSize: pipeline.Segmentation.Adaptive.WindowSize,
				Offset:     pipeline.Segmentation.Adaptive.Offset,
			},
			Edge: EdgeConfig{
				LowThreshold:  pipeline.Segmentation.Edge.LowThreshold,
				HighThreshold: pipeline.Segmentation.Edge.HighThreshold,
			},
		},
		Output: OutputConfig{
			Format: "text",
		},
		Server: ServerConfig{
			Host:            "localhost",
			Port:            8080,
			CORSOrigin:      "*",
			MaxUploadMB:     20,
			TimeoutSec:      60,
			ShutdownTimeout: 10,
		},
		Batch: BatchConfig{
			Workers:         4,
			ContinueOnError: false,
		},
	}
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	validLogLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLogLevels, c.LogLevel) {
		return fmt.Errorf("invalid log level: %s (must be one of: %s)", c.LogLevel, strings.Join(validLogLevels, ", "))
	}

	validFormats := []string{"text", "json", "csv"}
	if c.Output.Format != "" && !contains(validFormats, c.Output.Format) {
		return fmt.Errorf("invalid output format: %s (must be one of: %s)", c.Output.Format, strings.Join(validFormats, ", "))
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d (must be between 1 and 65535)", c.Server.Port)
	}
	if c.Server.MaxUploadMB <= 0 {
		return fmt.Errorf("invalid max upload size: %d (must be positive)", c.Server.MaxUploadMB)
	}
	if c.Server.TimeoutSec <= 0 {
		return fmt.Errorf("invalid timeout: %d (must be positive)", c.Server.TimeoutSec)
	}
	if c.Batch.Workers <= 0 {
		return fmt.Errorf("invalid batch workers: %d (must be positive)", c.Batch.Workers)
	}

	// Pipeline settings are validated through the counter configuration so
	// the rules stay in one place.
	counterCfg, err := c.CounterConfig()
	if err != nil {
		return err
	}
	return counterCfg.Validate()
}

// CounterConfig translates the pipeline section into a counter configuration.
func (c *Config) CounterConfig() (counter.Config, error) {
	method, err := segment.ParseMethod(c.Pipeline.Method)
	if err != nil {
		return counter.Config{}, err
	}

	cfg := counter.DefaultConfig()
	cfg.MinArea = c.Pipeline.MinArea
	cfg.SmoothKernel = preprocess.KernelSize{
		Width:  c.Pipeline.SmoothKernel,
		Height: c.Pipeline.SmoothKernel,
	}
	cfg.MorphKernelSize = c.Pipeline.MorphKernelSize
	cfg.MorphIterations = c.Pipeline.MorphIterations
	cfg.Segmentation.Method = method
	cfg.Segmentation.Adaptive = segment.AdaptiveParams{
		WindowSize: c.Pipeline.Adaptive.WindowSize,
		Offset:     c.Pipeline.Adaptive.Offset,
	}
	cfg.Segmentation.Edge = segment.EdgeParams{
		LowThreshold:  c.Pipeline.Edge.LowThreshold,
		HighThreshold: c.Pipeline.Edge.HighThreshold,
	}
	return cfg, nil
}

// BatchConfigFor builds the batch configuration for the given input settings.
func (c *Config) BatchConfigFor() (*batch.Config, error) {
	counterCfg, err := c.CounterConfig()
	if err != nil {
		return nil, err
	}

	cfg := batch.DefaultConfig()
	cfg.Counter = counterCfg
	cfg.Workers = c.Batch.Workers
	cfg.Recursive = c.Batch.Recursive
	cfg.OutputDir = c.Batch.OutputDir
	cfg.ContinueOnError = c.Batch.ContinueOnError
	cfg.SaveAnnotated = c.Output.SaveAnnotated
	cfg.Format = c.Output.Format
	return cfg, nil
}

// ServerConfigFor builds the HTTP server configuration.
func (c *Config) ServerConfigFor() (server.Config, error) {
	counterCfg, err := c.CounterConfig()
	if err != nil {
		return server.Config{}, err
	}

	return server.Config{
		Host:          c.Server.Host,
		Port:          c.Server.Port,
		CORSOrigin:    c.Server.CORSOrigin,
		MaxUploadMB:   int64(c.Server.MaxUploadMB),
		TimeoutSec:    c.Server.TimeoutSec,
		CounterConfig: counterCfg,
	}, nil
}

func contains(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}
