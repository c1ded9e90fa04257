package model

// SolveSettings controls the search. None of the switches change answers,
// only how much work the search does to reach them.
type SolveSettings struct {
	MostConstrainedFirst bool `json:"most_constrained_first" yaml:"most_constrained_first"` // Branch on the shape with the fewest legal placements
	Memoize              bool `json:"memoize" yaml:"memoize"`                               // Cache failed (occupied, remaining) states per region
	AreaPrecheck         bool `json:"area_precheck" yaml:"area_precheck"`                   // Reject regions whose required area exceeds the board
}

// DefaultSettings returns the settings used when no configuration is saved:
// every search aid switched on.
func DefaultSettings() SolveSettings {
	return SolveSettings{
		MostConstrainedFirst: true,
		Memoize:              true,
		AreaPrecheck:         true,
	}
}

// AppConfig holds application-wide preferences.
type AppConfig struct {
	Solver SolveSettings `yaml:"solver"`

	// Export defaults
	ExportDir string `yaml:"export_dir"` // Directory for generated reports, "" = next to the input

	RecentInputs []string `yaml:"recent_inputs"`
	Verbose      bool     `yaml:"verbose"`
}

// MaxRecentInputs caps the recent input history.
const MaxRecentInputs = 10

// DefaultAppConfig returns an AppConfig populated with sensible defaults.
func DefaultAppConfig() AppConfig {
	return AppConfig{
		Solver:       DefaultSettings(),
		ExportDir:    "",
		RecentInputs: []string{},
	}
}

// AddRecentInput moves path to the front of the recent list, dropping
// duplicates and trimming to MaxRecentInputs.
func (c *AppConfig) AddRecentInput(path string) {
	recent := []string{path}
	for _, p := range c.RecentInputs {
		if p != path {
			recent = append(recent, p)
		}
	}
	if len(recent) > MaxRecentInputs {
		recent = recent[:MaxRecentInputs]
	}
	c.RecentInputs = recent
}
