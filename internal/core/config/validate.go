package config

import (
	"fmt"
	"os"

	"github.com/hay-kot/criterio"
)

// ValidationWarning represents a non-fatal configuration issue.
type ValidationWarning struct {
	Category string `json:"category"`
	Item     string `json:"item,omitempty"`
	Message  string `json:"message"`
}

// ValidateDeep performs comprehensive validation of the configuration
// including file accessibility and window tunable cross-checks. The
// configPath argument specifies the config file location to validate (empty
// string skips the config file check). This calls Validate() first for
// basic structural validation, then adds I/O and range checks.
func (c *Config) ValidateDeep(configPath string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	return criterio.ValidateStruct(
		c.validateFileAccess(configPath),
		c.validateWindow(),
	)
}

// Warnings returns non-fatal configuration issues.
func (c *Config) Warnings() []ValidationWarning {
	var warnings []ValidationWarning

	w := c.Window
	if w.EvictionCeiling > 0 && w.PageSize > 0 && w.EvictionCeiling < 2*w.PageSize {
		warnings = append(warnings, ValidationWarning{
			Category: "Window",
			Item:     "eviction_ceiling",
			Message:  "ceiling under two pages causes eviction on nearly every load",
		})
	}
	if w.NavResolveThrottle > 0 && w.ScrollCenterDebounce > 0 && w.NavResolveThrottle > w.ScrollCenterDebounce {
		warnings = append(warnings, ValidationWarning{
			Category: "Window",
			Item:     "nav_resolve_throttle",
			Message:  "throttle longer than the scroll debounce delays the location header",
		})
	}

	return warnings
}

// validateFileAccess checks the config file and data directory.
func (c *Config) validateFileAccess(configPath string) error {
	return criterio.ValidateStruct(
		validateConfigFile(configPath),
		criterio.Run("data_dir", c.DataDir, isDirectoryOrNotExist),
	)
}

func validateConfigFile(configPath string) error {
	if configPath == "" {
		return nil
	}

	info, err := os.Stat(configPath)
	if os.IsNotExist(err) {
		return nil // not found is fine, using defaults
	}
	if err != nil {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("cannot access: %w", err))
	}
	if info.IsDir() {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("%s is a directory, not a file", configPath))
	}
	return nil
}

// isDirectoryOrNotExist validates that a path is a directory or doesn't exist.
func isDirectoryOrNotExist(path string) error {
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil // will be created
	}
	if err != nil {
		return fmt.Errorf("cannot access: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("exists but is not a directory")
	}
	return nil
}

// validateWindow cross-checks the window tunables. Zero values are legal
// everywhere (they fall back to defaults); only explicit bad values fail.
func (c *Config) validateWindow() error {
	w := c.Window
	var errs criterio.FieldErrorsBuilder

	check := func(field string, v int) {
		if v < 0 {
			errs = errs.Append("window."+field, fmt.Errorf("must not be negative"))
		}
	}
	check("edge_threshold_rows", w.EdgeThresholdRows)
	check("page_size", w.PageSize)
	check("initial_page_size", w.InitialPageSize)
	check("eviction_ceiling", w.EvictionCeiling)
	check("eviction_buffer_units", w.EvictionBufferUnits)
	check("eviction_min_batch", w.EvictionMinBatch)
	check("avg_unit_height_rows", w.AvgUnitHeightRows)

	if w.MinIndex < 0 {
		errs = errs.Append("window.min_index", fmt.Errorf("must not be negative"))
	}
	if w.MaxIndex < 0 {
		errs = errs.Append("window.max_index", fmt.Errorf("must not be negative"))
	}
	if w.MinIndex > 0 && w.MaxIndex > 0 && w.MinIndex > w.MaxIndex {
		errs = errs.Append("window.min_index", fmt.Errorf("min_index %d exceeds max_index %d", w.MinIndex, w.MaxIndex))
	}
	if w.NavResolveThrottle < 0 {
		errs = errs.Append("window.nav_resolve_throttle", fmt.Errorf("must not be negative"))
	}
	if w.ScrollCenterDebounce < 0 {
		errs = errs.Append("window.scroll_center_debounce", fmt.Errorf("must not be negative"))
	}

	return errs.ToError()
}
