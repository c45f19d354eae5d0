package window

import "time"

// Config holds the tunables for the window manager. All values are
// overridable from the application config; zero values fall back to the
// documented defaults.
type Config struct {
	// EdgeThresholdRows is how close (in terminal rows) the scroll position
	// must get to a loaded edge before the next page is requested. Roughly
	// twelve average verses.
	EdgeThresholdRows int `yaml:"edge_threshold_rows"`

	// PageSize is the number of verses fetched per incremental load.
	PageSize int `yaml:"page_size"`

	// InitialPageSize is the number of verses fetched by a locator load.
	InitialPageSize int `yaml:"initial_page_size"`

	// EvictionCeiling is the rendered-element count above which eviction
	// runs. Fetched verse data is never evicted, only rendered elements.
	EvictionCeiling int `yaml:"eviction_ceiling"`

	// EvictionBufferUnits is the keep-window half-size around the scroll
	// position, in average verse heights.
	EvictionBufferUnits int `yaml:"eviction_buffer_units"`

	// EvictionMinBatch is the minimum number of eviction candidates needed
	// before any are removed, so eviction never trims one element at a time.
	EvictionMinBatch int `yaml:"eviction_min_batch"`

	// MinIndex and MaxIndex bound the global verse index domain, inclusive.
	MinIndex int `yaml:"min_index"`
	MaxIndex int `yaml:"max_index"`

	// AvgUnitHeightRows seeds the measured-height average before any verse
	// has been rendered.
	AvgUnitHeightRows int `yaml:"avg_unit_height_rows"`

	// NavResolveThrottle is the minimum spacing between navigation resolve
	// requests while scrolling.
	NavResolveThrottle time.Duration `yaml:"nav_resolve_throttle"`

	// ScrollCenterDebounce is the quiet period after the last scroll event
	// before the centered verse is derived.
	ScrollCenterDebounce time.Duration `yaml:"scroll_center_debounce"`
}

// DefaultConfig returns the documented default tunables.
func DefaultConfig() Config {
	return Config{
		EdgeThresholdRows:    36,
		PageSize:             50,
		InitialPageSize:      30,
		EvictionCeiling:      300,
		EvictionBufferUnits:  100,
		EvictionMinBatch:     20,
		MinIndex:             1,
		MaxIndex:             31102,
		AvgUnitHeightRows:    3,
		NavResolveThrottle:   100 * time.Millisecond,
		ScrollCenterDebounce: 200 * time.Millisecond,
	}
}

// normalized fills zero fields from the defaults so a partially specified
// config behaves sensibly.
func (c Config) normalized() Config {
	def := DefaultConfig()
	if c.EdgeThresholdRows <= 0 {
		c.EdgeThresholdRows = def.EdgeThresholdRows
	}
	if c.PageSize <= 0 {
		c.PageSize = def.PageSize
	}
	if c.InitialPageSize <= 0 {
		c.InitialPageSize = def.InitialPageSize
	}
	if c.EvictionCeiling <= 0 {
		c.EvictionCeiling = def.EvictionCeiling
	}
	if c.EvictionBufferUnits <= 0 {
		c.EvictionBufferUnits = def.EvictionBufferUnits
	}
	if c.EvictionMinBatch <= 0 {
		c.EvictionMinBatch = def.EvictionMinBatch
	}
	if c.MaxIndex <= 0 {
		c.MaxIndex = def.MaxIndex
	}
	if c.MinIndex <= 0 {
		c.MinIndex = def.MinIndex
	}
	if c.AvgUnitHeightRows <= 0 {
		c.AvgUnitHeightRows = def.AvgUnitHeightRows
	}
	if c.NavResolveThrottle <= 0 {
		c.NavResolveThrottle = def.NavResolveThrottle
	}
	if c.ScrollCenterDebounce <= 0 {
		c.ScrollCenterDebounce = def.ScrollCenterDebounce
	}
	return c
}
