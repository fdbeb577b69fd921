package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strings"

	"github.com/andybalholm/cascadia"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/sirupsen/logrus"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/explorer-docs/docaug/internal/walker"
)

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (DOCAUG_*). Nested keys use a double
// underscore: DOCAUG_EXPLORER__PRODUCTION_URL -> explorer.production_url.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	if err := k.Load(env.Provider("DOCAUG_", ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, "DOCAUG_")), "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	// ZeroFields makes a list from the file replace the default list instead
	// of being merged into it element by element.
	err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
			Result:           cfg,
			TagName:          "koanf",
			WeaklyTypedInput: true,
			ZeroFields:       true,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// validModes is the set of recognized category modes.
var validModes = map[Mode]bool{
	ModeLink:  true,
	ModeEmbed: true,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if err := validateBaseURL("explorer.local_url", c.Explorer.LocalURL); err != nil {
		return err
	}
	if err := validateBaseURL("explorer.production_url", c.Explorer.ProductionURL); err != nil {
		return err
	}
	if c.Explorer.ProbeTimeout < 0 {
		return fmt.Errorf("explorer.probe_timeout must be non-negative")
	}
	if c.Explorer.ProbeCacheTTL < 0 {
		return fmt.Errorf("explorer.probe_cache_ttl must be non-negative")
	}

	if len(c.Categories) == 0 {
		return fmt.Errorf("at least one category is required")
	}
	seen := make(map[string]bool)
	for i, cat := range c.Categories {
		if cat.Name == "" {
			return fmt.Errorf("categories[%d]: name is required", i)
		}
		if seen[cat.Name] {
			return fmt.Errorf("categories[%d]: duplicate name %q", i, cat.Name)
		}
		seen[cat.Name] = true
		if _, err := cascadia.Compile(cat.Selector); err != nil {
			return fmt.Errorf("categories[%d] (%s): invalid selector %q: %w", i, cat.Name, cat.Selector, err)
		}
		if cat.Endpoint == "" {
			return fmt.Errorf("categories[%d] (%s): endpoint is required", i, cat.Name)
		}
		if !validModes[cat.Mode] {
			return fmt.Errorf("categories[%d] (%s): invalid mode %q: must be link or embed", i, cat.Name, cat.Mode)
		}
	}

	if err := walker.ValidatePatterns(c.Include); err != nil {
		return fmt.Errorf("include: %w", err)
	}
	if err := walker.ValidatePatterns(c.Exclude); err != nil {
		return fmt.Errorf("exclude: %w", err)
	}

	if c.DefaultTitle == "" {
		return fmt.Errorf("default_title is required")
	}
	if c.MaxConcurrency < 0 {
		return fmt.Errorf("max_concurrency must be non-negative")
	}
	if c.Serve.Port < 0 || c.Serve.Port > 65535 {
		return fmt.Errorf("serve.port %d out of range", c.Serve.Port)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log_level %q: %w", c.LogLevel, err)
	}

	return nil
}

// validateBaseURL requires an absolute http(s) URL ending in "/", since
// explorer paths are appended to it verbatim.
func validateBaseURL(key, raw string) error {
	if raw == "" {
		return fmt.Errorf("%s is required", key)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid %s %q: scheme must be http or https", key, raw)
	}
	if !strings.HasSuffix(raw, "/") {
		return fmt.Errorf("invalid %s %q: must end with /", key, raw)
	}
	return nil
}

// ResolveBaseURL picks the explorer address for a page served from host.
// Local development hosts get the local explorer, every other host the
// production one. A port suffix on host is ignored.
func (e ExplorerConfig) ResolveBaseURL(host string) string {
	hostname := strings.ToLower(strings.TrimSpace(host))
	if h, _, err := net.SplitHostPort(hostname); err == nil {
		hostname = h
	}
	for _, local := range e.LocalHosts {
		if hostname == strings.ToLower(local) {
			return e.LocalURL
		}
	}
	return e.ProductionURL
}
