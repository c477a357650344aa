package model

import "time"

// AppConfig holds application-wide preferences and default settings.
type AppConfig struct {
	// Default solve settings applied to new projects
	DefaultEncoding  Encoding      `json:"default_encoding" yaml:"default_encoding"`
	DefaultLinkUsage bool          `json:"default_link_usage" yaml:"default_link_usage"`
	DefaultTimeLimit time.Duration `json:"default_time_limit" yaml:"default_time_limit"`
	DefaultNodeLimit int64         `json:"default_node_limit" yaml:"default_node_limit"`
	DefaultBackend   Backend       `json:"default_backend" yaml:"default_backend"`
	DefaultVerify    bool          `json:"default_verify" yaml:"default_verify"`

	// Integrations
	RedisURL    string `json:"redis_url" yaml:"redis_url"`       // Plan cache, empty = in-memory
	MetricsFile string `json:"metrics_file" yaml:"metrics_file"` // Prometheus textfile, empty = disabled

	// Application preferences
	RecentProjects []string `json:"recent_projects" yaml:"recent_projects"`
	Units          string   `json:"units" yaml:"units"` // "cm", "mm", "in"
}

// DefaultAppConfig returns an AppConfig populated with sensible defaults
// matching the values from DefaultSettings().
func DefaultAppConfig() AppConfig {
	defaults := DefaultSettings()
	return AppConfig{
		DefaultEncoding:  defaults.Encoding,
		DefaultLinkUsage: defaults.LinkUsage,
		DefaultTimeLimit: defaults.TimeLimit,
		DefaultNodeLimit: defaults.NodeLimit,
		DefaultBackend:   defaults.Backend,
		DefaultVerify:    defaults.Verify,
		RecentProjects:   []string{},
		Units:            "cm",
	}
}

// ApplyToSettings copies the default values from AppConfig into a SolveSettings struct.
// This is used when creating a new project so it inherits the user's saved defaults.
func (c AppConfig) ApplyToSettings(s *SolveSettings) {
	if c.DefaultEncoding != "" {
		s.Encoding = c.DefaultEncoding
	}
	s.LinkUsage = c.DefaultLinkUsage
	s.TimeLimit = c.DefaultTimeLimit
	s.NodeLimit = c.DefaultNodeLimit
	if c.DefaultBackend != "" {
		s.Backend = c.DefaultBackend
	}
	s.Verify = c.DefaultVerify
}

// AddRecentProject records path as the most recently used project, keeping
// at most limit entries.
func (c *AppConfig) AddRecentProject(path string, limit int) {
	out := []string{path}
	for _, p := range c.RecentProjects {
		if p != path {
			out = append(out, p)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	c.RecentProjects = out
}
