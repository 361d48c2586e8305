package config

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.MaxUploadMB == 0 {
		cfg.Server.MaxUploadMB = 64
	}
	if cfg.Extract.MaxRowsPerSheet == 0 {
		cfg.Extract.MaxRowsPerSheet = 100
	}
	if cfg.Extract.MaxCharsPerCell == 0 {
		cfg.Extract.MaxCharsPerCell = 500
	}
	if cfg.Digest.SampleRows == 0 {
		cfg.Digest.SampleRows = 2
	}
	if cfg.Digest.HeaderPreview == 0 {
		cfg.Digest.HeaderPreview = 10
	}
	if cfg.Digest.ValuePreviewChars == 0 {
		cfg.Digest.ValuePreviewChars = 50
	}
	if cfg.Classify.SampleSize == 0 {
		cfg.Classify.SampleSize = 10
	}
	if cfg.Classify.NumericThreshold == 0 {
		cfg.Classify.NumericThreshold = 0.7
	}
	if cfg.Analysis.BaseURL == "" {
		cfg.Analysis.BaseURL = "https://generativelanguage.googleapis.com"
	}
	if cfg.Analysis.Model == "" {
		cfg.Analysis.Model = "gemini-2.0-flash"
	}
	if cfg.Analysis.TimeoutSeconds == 0 {
		cfg.Analysis.TimeoutSeconds = 60
	}
}
