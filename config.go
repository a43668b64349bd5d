package pdfextract

// Config holds all configuration for the extraction runner.
type Config struct {
	// Method selects the extraction strategy: "auto" (default), "structured",
	// or "raw". Auto tries structured first and falls back to raw when the
	// structured pass fails or yields too little text.
	Method string `json:"method" yaml:"method"`

	// FallbackThreshold is the minimum trimmed content length (in bytes) the
	// structured strategy must produce before auto mode accepts it without
	// consulting the raw strategy. Defaults to 5000.
	FallbackThreshold int `json:"fallback_threshold" yaml:"fallback_threshold"`

	// MinImageWidth and MinImageHeight filter out decorative images
	// (spacers, rules). Both default to 10 pixels.
	MinImageWidth  int `json:"min_image_width" yaml:"min_image_width"`
	MinImageHeight int `json:"min_image_height" yaml:"min_image_height"`

	// HistoryDB is the path to the optional SQLite run-history database.
	// Empty disables run logging.
	HistoryDB string `json:"history_db" yaml:"history_db"`
}

// DefaultConfig returns a Config with the standard thresholds.
func DefaultConfig() Config {
	return Config{
		Method:            "auto",
		FallbackThreshold: 5000,
		MinImageWidth:     10,
		MinImageHeight:    10,
	}
}
