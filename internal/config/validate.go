package config

import (
	"fmt"
	"strings"
	"time"
)

// ValidationError accumulates config validation errors.
type ValidationError struct {
	Errors []string
}

func (v *ValidationError) Error() string {
	return "config validation failed:\n  - " + strings.Join(v.Errors, "\n  - ")
}

// HasErrors reports whether any validation errors have been recorded.
func (v *ValidationError) HasErrors() bool {
	return len(v.Errors) > 0
}

// Add records a formatted validation error.
func (v *ValidationError) Add(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}

// Validate checks cfg. It returns a *ValidationError listing every problem.
func Validate(cfg *Config) error {
	ve := validateHistory(cfg.History)
	validateLog(cfg.Log, ve)
	validateTracer(cfg.Tracer, ve)
	if ve.HasErrors() {
		return ve
	}
	return nil
}

func validateHistory(h HistoryConfig) *ValidationError {
	ve := &ValidationError{}

	if h.MaxSize <= 0 {
		ve.Add("history.max_size must be > 0")
	}
	if d, err := time.ParseDuration(h.ThrottleWindow); err != nil {
		ve.Add("history.throttle_window: %v", err)
	} else if d < 0 {
		ve.Add("history.throttle_window must be >= 0")
	}
	if d, err := time.ParseDuration(h.RestoreFallback); err != nil {
		ve.Add("history.restore_fallback: %v", err)
	} else if d <= 0 {
		ve.Add("history.restore_fallback must be > 0")
	}
	for i, tag := range h.ContinuousActions {
		if strings.TrimSpace(tag) == "" {
			ve.Add("history.continuous_actions[%d] must not be empty", i)
		}
	}
	if _, err := ParseFloorPolicy(h.UndoFloor); err != nil {
		ve.Add("history.undo_floor: %v", err)
	}
	return ve
}

var validLevels = map[string]bool{"debug": true, "info": true, "warn": true, "warning": true, "error": true}

var validFormats = map[string]bool{"text": true, "json": true}

func validateLog(l LogConfig, ve *ValidationError) {
	if !validLevels[strings.ToLower(l.Level)] {
		ve.Add("log.level %q is not one of debug, info, warn, error", l.Level)
	}
	if !validFormats[strings.ToLower(l.Format)] {
		ve.Add("log.format %q is not one of text, json", l.Format)
	}
}

var validExporters = map[string]bool{"noop": true, "stdout": true}

func validateTracer(t TracerConfig, ve *ValidationError) {
	if !validExporters[t.Exporter] {
		ve.Add("tracer.exporter %q is not one of noop, stdout", t.Exporter)
	}
}
