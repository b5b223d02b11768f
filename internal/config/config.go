// Package config loads folio engine and logging settings from YAML or CUE.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/roach88/folio/internal/history"
)

// Config is the top-level configuration.
type Config struct {
	History HistoryConfig `yaml:"history" json:"history"`
	Log     LogConfig     `yaml:"log" json:"log"`
	Tracer  TracerConfig  `yaml:"tracer" json:"tracer"`
}

// HistoryConfig tunes a history.Manager. Durations are Go duration strings
// ("300ms", "1s") so the same file parses identically as YAML and CUE.
type HistoryConfig struct {
	MaxSize           int      `yaml:"max_size,omitempty" json:"max_size,omitempty"`
	ThrottleWindow    string   `yaml:"throttle_window,omitempty" json:"throttle_window,omitempty"`
	ContinuousActions []string `yaml:"continuous_actions,omitempty" json:"continuous_actions,omitempty"`
	RestoreFallback   string   `yaml:"restore_fallback,omitempty" json:"restore_fallback,omitempty"`
	UndoFloor         string   `yaml:"undo_floor,omitempty" json:"undo_floor,omitempty"` // "empty" | "stop"
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string `yaml:"level,omitempty" json:"level,omitempty"`   // debug | info | warn | error
	Format string `yaml:"format,omitempty" json:"format,omitempty"` // text | json
}

// TracerConfig selects the OpenTelemetry span exporter.
type TracerConfig struct {
	Enabled  bool   `yaml:"enabled,omitempty" json:"enabled,omitempty"`
	Exporter string `yaml:"exporter,omitempty" json:"exporter,omitempty"` // noop | stdout
}

// Defaults returns the configuration used when no file is given.
func Defaults() *Config {
	return &Config{
		History: DefaultHistory(),
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Tracer: TracerConfig{
			Exporter: "noop",
		},
	}
}

// DefaultHistory returns the history.Manager defaults in config form.
func DefaultHistory() HistoryConfig {
	continuous := make([]string, len(history.DefaultContinuousActions))
	for i, tag := range history.DefaultContinuousActions {
		continuous[i] = string(tag)
	}
	return HistoryConfig{
		MaxSize:           history.DefaultMaxSize,
		ThrottleWindow:    history.DefaultThrottleWindow.String(),
		ContinuousActions: continuous,
		RestoreFallback:   history.DefaultRestoreFallback.String(),
		UndoFloor:         history.FloorEmptySnapshot.String(),
	}
}

// WithDefaults returns h with every unset field taken from DefaultHistory.
// A non-nil empty ContinuousActions is kept: it means "throttle nothing".
func (h HistoryConfig) WithDefaults() HistoryConfig {
	return h.Over(DefaultHistory())
}

// Over returns h with every unset field taken from base.
// Scenario configs use it to override the loaded config field by field.
func (h HistoryConfig) Over(base HistoryConfig) HistoryConfig {
	if h.MaxSize == 0 {
		h.MaxSize = base.MaxSize
	}
	if h.ThrottleWindow == "" {
		h.ThrottleWindow = base.ThrottleWindow
	}
	if h.ContinuousActions == nil {
		h.ContinuousActions = base.ContinuousActions
	}
	if h.RestoreFallback == "" {
		h.RestoreFallback = base.RestoreFallback
	}
	if h.UndoFloor == "" {
		h.UndoFloor = base.UndoFloor
	}
	return h
}

func (c *Config) applyDefaults() {
	c.History = c.History.WithDefaults()
	d := Defaults()
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = d.Log.Format
	}
	if c.Tracer.Exporter == "" {
		c.Tracer.Exporter = d.Tracer.Exporter
	}
}

// ApplyEnvOverrides overrides cfg from FOLIO_* environment variables.
// Unparseable values are ignored; Validate reports what remains wrong.
func ApplyEnvOverrides(cfg *Config) {
	if v := os.Getenv("FOLIO_HISTORY_MAX_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.History.MaxSize = n
		}
	}
	if v := os.Getenv("FOLIO_HISTORY_THROTTLE_WINDOW"); v != "" {
		cfg.History.ThrottleWindow = v
	}
	if v := os.Getenv("FOLIO_HISTORY_UNDO_FLOOR"); v != "" {
		cfg.History.UndoFloor = v
	}
	if v := os.Getenv("FOLIO_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("FOLIO_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("FOLIO_TRACER_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Tracer.Enabled = b
		}
	}
	if v := os.Getenv("FOLIO_TRACER_EXPORTER"); v != "" {
		cfg.Tracer.Exporter = v
	}
}

// ManagerOptions converts h into history.Manager options.
// Unset fields fall back to the manager's defaults.
func (h HistoryConfig) ManagerOptions() ([]history.Option, error) {
	h = h.WithDefaults()
	if ve := validateHistory(h); ve.HasErrors() {
		return nil, ve
	}

	window, _ := time.ParseDuration(h.ThrottleWindow)
	fallback, _ := time.ParseDuration(h.RestoreFallback)
	floor, _ := ParseFloorPolicy(h.UndoFloor)

	continuous := make([]history.ActionTag, len(h.ContinuousActions))
	for i, tag := range h.ContinuousActions {
		continuous[i] = history.ActionTag(tag)
	}

	return []history.Option{
		history.WithMaxSize(h.MaxSize),
		history.WithThrottleWindow(window),
		history.WithContinuousActions(continuous...),
		history.WithRestoreFallback(fallback),
		history.WithFloorPolicy(floor),
	}, nil
}

// ParseFloorPolicy parses the undo_floor setting.
func ParseFloorPolicy(s string) (history.FloorPolicy, error) {
	switch s {
	case "", "empty":
		return history.FloorEmptySnapshot, nil
	case "stop":
		return history.FloorStop, nil
	default:
		return 0, fmt.Errorf("unknown undo floor %q (want empty or stop)", s)
	}
}
