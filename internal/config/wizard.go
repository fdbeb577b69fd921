package config

import (
	"fmt"
	"os"

	"github.com/manifoldco/promptui"
)

// siteDirCandidates are output directories of common static site generators,
// checked in order to pre-fill the site directory prompt.
var siteDirCandidates = []string{"site", "public", "_site", "build", "dist"}

// detectSiteDir returns the first existing candidate directory, or "site".
func detectSiteDir() string {
	for _, dir := range siteDirCandidates {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir
		}
	}
	return "site"
}

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to path.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to docaug! Let's configure your documentation site.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Explorer addresses.
	prodPrompt := promptui.Prompt{
		Label:    "Production explorer URL",
		Default:  cfg.Explorer.ProductionURL,
		Validate: func(s string) error { return validateBaseURL("production URL", s) },
	}
	prodURL, err := prodPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("production URL: %w", err)
	}
	cfg.Explorer.ProductionURL = prodURL

	localPrompt := promptui.Prompt{
		Label:    "Local explorer URL (used when serving from localhost)",
		Default:  cfg.Explorer.LocalURL,
		Validate: func(s string) error { return validateBaseURL("local URL", s) },
	}
	localURL, err := localPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("local URL: %w", err)
	}
	cfg.Explorer.LocalURL = localURL

	// 2. Rendered site directory.
	sitePrompt := promptui.Prompt{
		Label:   "Rendered site directory",
		Default: detectSiteDir(),
	}
	siteDir, err := sitePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("site dir: %w", err)
	}
	cfg.SiteDir = siteDir

	// 3. Mode per category.
	for i, cat := range cfg.Categories {
		modePrompt := promptui.Select{
			Label: fmt.Sprintf("How should %q blocks be augmented", cat.Name),
			Items: []string{
				"embed: replace the block with a live explorer frame",
				"link:  add Open In Playground / Add to Agent links",
			},
			CursorPos: modeIndex(cat.Mode),
		}
		idx, _, err := modePrompt.Run()
		if err != nil {
			return nil, fmt.Errorf("%s mode: %w", cat.Name, err)
		}
		cfg.Categories[i].Mode = []Mode{ModeEmbed, ModeLink}[idx]
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}

func modeIndex(m Mode) int {
	if m == ModeLink {
		return 1
	}
	return 0
}
