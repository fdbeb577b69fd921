package config

import "time"

// Mode selects how a marked code block is augmented.
type Mode string

const (
	// ModeLink appends "Open In Playground" and "Add to Agent" links.
	ModeLink Mode = "link"
	// ModeEmbed replaces the block with an explorer iframe.
	ModeEmbed Mode = "embed"
)

// Config is the top-level docaug configuration, corresponding to .docaug.yml.
type Config struct {
	Explorer          ExplorerConfig   `yaml:"explorer" koanf:"explorer"`
	Categories        []CategoryConfig `yaml:"categories" koanf:"categories"`
	ExampleInputClass string           `yaml:"example_input_class" koanf:"example_input_class"`
	CaptionPrefix     string           `yaml:"caption_prefix" koanf:"caption_prefix"`
	DefaultTitle      string           `yaml:"default_title" koanf:"default_title"`
	SiteDir           string           `yaml:"site_dir" koanf:"site_dir"`
	DocsDir           string           `yaml:"docs_dir" koanf:"docs_dir"`
	Host              string           `yaml:"host" koanf:"host"`
	Include           []string         `yaml:"include" koanf:"include"`
	Exclude           []string         `yaml:"exclude" koanf:"exclude"`
	MaxConcurrency    int              `yaml:"max_concurrency" koanf:"max_concurrency"`
	Serve             ServeConfig      `yaml:"serve" koanf:"serve"`
	LinkCheck         LinkCheckConfig  `yaml:"linkcheck" koanf:"linkcheck"`
	LogLevel          string           `yaml:"log_level" koanf:"log_level"`
}

// ExplorerConfig describes where the playground/explorer service lives and
// how its reachability is checked.
type ExplorerConfig struct {
	LocalHosts    []string      `yaml:"local_hosts" koanf:"local_hosts"`
	LocalURL      string        `yaml:"local_url" koanf:"local_url"`
	ProductionURL string        `yaml:"production_url" koanf:"production_url"`
	ProbePath     string        `yaml:"probe_path" koanf:"probe_path"`
	ProbeTimeout  time.Duration `yaml:"probe_timeout" koanf:"probe_timeout"`
	ProbeCacheTTL time.Duration `yaml:"probe_cache_ttl" koanf:"probe_cache_ttl"`
}

// CategoryConfig binds a marker selector to an explorer endpoint.
type CategoryConfig struct {
	Name     string `yaml:"name" koanf:"name"`
	Selector string `yaml:"selector" koanf:"selector"`
	Endpoint string `yaml:"endpoint" koanf:"endpoint"`
	Mode     Mode   `yaml:"mode" koanf:"mode"`
}

// ServeConfig holds dev server settings.
type ServeConfig struct {
	Port            int  `yaml:"port" koanf:"port"`
	AllowAllOrigins bool `yaml:"allow_all_origins" koanf:"allow_all_origins"`
}

// LinkCheckConfig holds crawler settings for `docaug linkcheck`.
type LinkCheckConfig struct {
	BaseURL      string        `yaml:"base_url" koanf:"base_url"`
	VisitedFile  string        `yaml:"visited_file" koanf:"visited_file"`
	BrokenFile   string        `yaml:"broken_file" koanf:"broken_file"`
	ContentsFile string        `yaml:"contents_file" koanf:"contents_file"`
	Timeout      time.Duration `yaml:"timeout" koanf:"timeout"`
	// SQLite file runs are recorded in so consecutive runs can be
	// compared. Empty disables history.
	HistoryFile string `yaml:"history_file" koanf:"history_file"`
}
