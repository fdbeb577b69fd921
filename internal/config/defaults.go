package config

import "time"

// Default explorer addresses.
const (
	DefaultLocalURL      = "http://localhost/"
	DefaultProductionURL = "https://explorer.invariantlabs.ai/"
)

// DefaultCategories marks execution traces for embedding and guardrail
// policies for playground links.
var DefaultCategories = []CategoryConfig{
	{Name: "trace", Selector: "div.language-trace", Endpoint: "traceview?trace", Mode: ModeEmbed},
	{Name: "guardrail", Selector: "div.language-guardrail", Endpoint: "playground?policy", Mode: ModeLink},
}

// DefaultExcludes are glob patterns never augmented.
var DefaultExcludes = []string{
	"assets/**",
	"search/**",
	"**/404.html",
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Explorer: ExplorerConfig{
			LocalHosts:    []string{"localhost", "127.0.0.1"},
			LocalURL:      DefaultLocalURL,
			ProductionURL: DefaultProductionURL,
			ProbePath:     "embed/traceview",
			ProbeTimeout:  10 * time.Second,
			ProbeCacheTTL: 30 * time.Second,
		},
		Categories:        append([]CategoryConfig(nil), DefaultCategories...),
		ExampleInputClass: "language-example-trace",
		CaptionPrefix:     "Example:",
		DefaultTitle:      "New Guardrail",
		SiteDir:           "site",
		DocsDir:           "docs",
		Include:           []string{"**/*.html"},
		Exclude:           append([]string(nil), DefaultExcludes...),
		MaxConcurrency:    4,
		Serve: ServeConfig{
			Port: 8000,
		},
		LinkCheck: LinkCheckConfig{
			BaseURL:     "http://localhost:8000",
			VisitedFile: "visited.log",
			BrokenFile:  "broken-links.txt",
			Timeout:     15 * time.Second,
		},
		LogLevel: "info",
	}
}
