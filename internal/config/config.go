package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

// CaptureMode controls how aggressively response-like text is filtered.
type CaptureMode string

const (
	ModeUserInputOnly    CaptureMode = "userInputOnly"
	ModeInputAndResponse CaptureMode = "inputAndResponse"
	ModeAll              CaptureMode = "all"
)

// ParseCaptureMode maps a config string to a CaptureMode, falling back to
// the default for unknown values.
func ParseCaptureMode(s string) CaptureMode {
	switch CaptureMode(s) {
	case ModeUserInputOnly, ModeInputAndResponse, ModeAll:
		return CaptureMode(s)
	default:
		return ModeUserInputOnly
	}
}

// Config holds application configuration.
type Config struct {
	// Enabled is the global capture switch. Every pipeline entry point
	// no-ops when this is false.
	Enabled bool `json:"enabled"`

	// LogFilePath overrides log directory resolution when set.
	// Empty means resolve: workspace copilot-prompts, then home fallback.
	LogFilePath string `json:"logFilePath,omitempty"`

	// TimestampFormat is the Go time layout used for entry headings.
	TimestampFormat string `json:"timestampFormat,omitempty"`

	// IncludeContextLines is how many lines around a document change are
	// captured as context.
	IncludeContextLines int `json:"includeContextLines,omitempty"`

	// CaptureMode is one of userInputOnly, inputAndResponse, all.
	CaptureMode string `json:"captureMode,omitempty"`

	// IncludeContext controls whether entries carry a context block.
	IncludeContext bool `json:"includeContext"`

	// DebugMode turns on structured pipeline tracing.
	DebugMode bool `json:"debugMode,omitempty"`
}

// Mode returns the validated capture mode.
func (c *Config) Mode() CaptureMode {
	return ParseCaptureMode(c.CaptureMode)
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Enabled:             true,
		TimestampFormat:     "2006-01-02 15:04:05",
		IncludeContextLines: 3,
		CaptureMode:         string(ModeUserInputOnly),
		IncludeContext:      true,
	}
}

// fileConfig mirrors Config with pointer fields so that an absent key can be
// told apart from an explicit false/zero. Absent keys fall back to defaults.
type fileConfig struct {
	Enabled             *bool   `json:"enabled,omitempty"`
	LogFilePath         *string `json:"logFilePath,omitempty"`
	TimestampFormat     *string `json:"timestampFormat,omitempty"`
	IncludeContextLines *int    `json:"includeContextLines,omitempty"`
	CaptureMode         *string `json:"captureMode,omitempty"`
	IncludeContext      *bool   `json:"includeContext,omitempty"`
	DebugMode           *bool   `json:"debugMode,omitempty"`
}

// Load loads configuration from baseDir/config.json.
// Returns default config if the file doesn't exist. A key missing from the
// file is never an error; it falls back to its default.
func Load(baseDir string) (*Config, error) {
	overlay, err := loadFileRaw(filepath.Join(baseDir, "config.json"))
	if err != nil {
		return nil, err
	}
	return Merge(DefaultConfig(), overlay), nil
}

// loadFileRaw loads the overlay from a specific file path.
// Returns an empty overlay if the file doesn't exist.
func loadFileRaw(configPath string) (*fileConfig, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &fileConfig{}, nil
		}
		return nil, err
	}

	fc := &fileConfig{}
	if err := json.Unmarshal(data, fc); err != nil {
		return nil, err
	}
	return fc, nil
}

// Merge applies overlay values over base. Keys present in the overlay win;
// absent keys keep the base value.
func Merge(base *Config, overlay *fileConfig) *Config {
	result := *base

	if overlay.Enabled != nil {
		result.Enabled = *overlay.Enabled
	}
	if overlay.LogFilePath != nil {
		result.LogFilePath = *overlay.LogFilePath
	}
	if overlay.TimestampFormat != nil && *overlay.TimestampFormat != "" {
		result.TimestampFormat = *overlay.TimestampFormat
	}
	if overlay.IncludeContextLines != nil {
		result.IncludeContextLines = *overlay.IncludeContextLines
	}
	if overlay.CaptureMode != nil {
		result.CaptureMode = string(ParseCaptureMode(*overlay.CaptureMode))
	}
	if overlay.IncludeContext != nil {
		result.IncludeContext = *overlay.IncludeContext
	}
	if overlay.DebugMode != nil {
		result.DebugMode = *overlay.DebugMode
	}

	return &result
}

// Save writes the full configuration to baseDir/config.json.
// Only the enable/disable toggles mutate config through this path; all other
// keys are owned by whoever edits the file.
func Save(baseDir string, cfg *Config) error {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	return os.WriteFile(filepath.Join(baseDir, "config.json"), data, 0o644)
}
