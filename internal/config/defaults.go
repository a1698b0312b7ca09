package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// AppName is used for XDG directory names.
const AppName = "techdigest"

// DefaultConfigFile is the config path used by the CLI and the wizard.
const DefaultConfigFile = ".techdigest.yml"

const (
	DefaultAPIBaseURL      = "https://tech-digest-vietnam.vercel.app"
	DefaultGitHubRSSBase   = "https://mshibanami.github.io/GitHubTrendingRSS"
	DefaultHuggingFaceBase = "https://huggingface.co"
	DefaultOpenRouterBase  = "https://openrouter.ai"
)

// CacheDir returns the XDG cache directory for techdigest.
func CacheDir() string {
	return filepath.Join(xdg.CacheHome, AppName)
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		APIBaseURL: DefaultAPIBaseURL,
		SiteName:   "Tech Digest Vietnam",
		BasePath:   "",
		PageSize:   10,
		Server: ServerConfig{
			Port:            8080,
			AllowAllOrigins: false,
			RequestTimeout:  60 * time.Second,
		},
		HTTP: HTTPConfig{
			Timeout:   15 * time.Second,
			UserAgent: "techdigest/dev",
		},
		Cache: CacheConfig{
			Enabled: true,
			Path:    filepath.Join(CacheDir(), "cache.db"),
			TTL:     10 * time.Minute,
		},
		Feeds: FeedsConfig{
			GitHubRSSBase:   DefaultGitHubRSSBase,
			HuggingFaceBase: DefaultHuggingFaceBase,
			OpenRouterBase:  DefaultOpenRouterBase,
			RefreshInterval: 15 * time.Minute,
		},
		Log: LogConfig{
			Level:  "info",
			Format: LogFormatText,
		},
	}
}
