package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to path.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to techdigest! Let's configure your digest front-end.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Report API.
	apiPrompt := promptui.Prompt{
		Label:    "Report API base URL",
		Default:  DefaultAPIBaseURL,
		Validate: validateURLInput,
	}
	apiBase, err := apiPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("api base url: %w", err)
	}
	cfg.APIBaseURL = strings.TrimRight(apiBase, "/")

	// 2. Port.
	portPrompt := promptui.Prompt{
		Label:    "Port for `techdigest serve`",
		Default:  strconv.Itoa(cfg.Server.Port),
		Validate: validatePortInput,
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	cfg.Server.Port, _ = strconv.Atoi(portStr)

	// 3. Base path.
	basePrompt := promptui.Prompt{
		Label:   "Base path (leave blank to serve at /)",
		Default: "",
	}
	basePath, err := basePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("base path: %w", err)
	}
	cfg.BasePath = normalizeBasePath(basePath)

	// 4. Cache.
	cachePrompt := promptui.Select{
		Label: "Cache API responses on disk?",
		Items: []string{
			"yes - serve stale data when a feed is down",
			"no  - always fetch live",
		},
	}
	cacheIdx, _, err := cachePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("cache selection: %w", err)
	}
	cfg.Cache.Enabled = cacheIdx == 0

	// 5. Log format.
	logPrompt := promptui.Select{
		Label: "Log format",
		Items: []string{string(LogFormatText), string(LogFormatJSON)},
	}
	_, format, err := logPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("log format: %w", err)
	}
	cfg.Log.Format = LogFormat(format)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}

func validateURLInput(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return fmt.Errorf("a URL is required")
	}
	return validateHTTPURL("url", s)
}

func validatePortInput(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("port must be a number")
	}
	if n <= 0 || n > 65535 {
		return fmt.Errorf("port must be between 1 and 65535")
	}
	return nil
}

// splitAndTrim splits a comma-separated string and trims whitespace.
func splitAndTrim(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		if token := strings.TrimSpace(part); token != "" {
			result = append(result, token)
		}
	}
	return result
}

// RouteList parses a comma-separated list of route globs, as accepted by
// `techdigest export --routes`.
func RouteList(s string) []string {
	return splitAndTrim(s)
}
