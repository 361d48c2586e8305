// Package config provides configuration loading and structs for the sheetsum server.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sheetsum/sheetsum/internal/analysis"
	"github.com/sheetsum/sheetsum/internal/digest"
	"github.com/sheetsum/sheetsum/internal/workbook"
)

// Config holds all configuration for the application.
type Config struct {
	Debug    bool           `yaml:"debug"`
	Server   ServerConfig   `yaml:"server"`
	Extract  ExtractConfig  `yaml:"extract"`
	Digest   DigestConfig   `yaml:"digest"`
	Classify ClassifyConfig `yaml:"classify"`
	Analysis AnalysisConfig `yaml:"analysis"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	// MaxUploadMB caps the total size of one upload request. Workbook bytes
	// are held in memory for the duration of a request.
	MaxUploadMB int `yaml:"max_upload_mb"`
}

// ExtractConfig bounds per-sheet extraction.
type ExtractConfig struct {
	MaxRowsPerSheet int `yaml:"max_rows_per_sheet"`
	MaxCharsPerCell int `yaml:"max_chars_per_cell"`
}

// DigestConfig bounds per-sheet previews in the composed digest.
type DigestConfig struct {
	SampleRows        int `yaml:"sample_rows"`
	HeaderPreview     int `yaml:"header_preview"`
	ValuePreviewChars int `yaml:"value_preview_chars"`
}

// ClassifyConfig tunes column type inference.
type ClassifyConfig struct {
	SampleSize int `yaml:"sample_size"`
	// NumericThreshold is the sample fraction that must be strictly exceeded
	// to classify a column as numeric. Zero means default (0.7).
	NumericThreshold float64 `yaml:"numeric_threshold"`
}

// AnalysisConfig holds the downstream analysis service endpoint. The API key
// is read from the GEMINI_API_KEY environment variable, never from the file.
type AnalysisConfig struct {
	BaseURL        string `yaml:"base_url"`
	Model          string `yaml:"model"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Load reads and parses the config file at path and applies defaults.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)
	return &cfg, nil
}

// Default returns a config with every field at its default value, for
// running without a config file.
func Default() *Config {
	var cfg Config
	ApplyDefaults(&cfg)
	return &cfg
}

// WorkbookConfig converts the extract and classify sections into the
// extraction package's config.
func (c *Config) WorkbookConfig() workbook.Config {
	return workbook.Config{
		MaxRowsPerSheet:    c.Extract.MaxRowsPerSheet,
		MaxCharsPerCell:    c.Extract.MaxCharsPerCell,
		ClassifySampleSize: c.Classify.SampleSize,
		NumericThreshold:   c.Classify.NumericThreshold,
	}
}

// ComposerConfig converts the digest section into the composer's config.
func (c *Config) ComposerConfig() digest.Config {
	return digest.Config{
		SampleRows:        c.Digest.SampleRows,
		HeaderPreview:     c.Digest.HeaderPreview,
		ValuePreviewChars: c.Digest.ValuePreviewChars,
	}
}

// AnalyzerConfig converts the analysis section into the client's config,
// attaching the API key supplied by the caller.
func (c *Config) AnalyzerConfig(apiKey string) analysis.Config {
	return analysis.Config{
		BaseURL: c.Analysis.BaseURL,
		Model:   c.Analysis.Model,
		APIKey:  apiKey,
		Timeout: time.Duration(c.Analysis.TimeoutSeconds) * time.Second,
	}
}
