package config

import "time"

// LogFormat selects the slog handler used for process logs.
type LogFormat string

const (
	LogFormatText LogFormat = "text"
	LogFormatJSON LogFormat = "json"
)

// Config is the top-level techdigest configuration, corresponding to .techdigest.yml.
type Config struct {
	APIBaseURL string       `yaml:"api_base_url" koanf:"api_base_url"`
	SiteName   string       `yaml:"site_name" koanf:"site_name"`
	BasePath   string       `yaml:"base_path" koanf:"base_path"`
	PageSize   int          `yaml:"page_size" koanf:"page_size"`
	Server     ServerConfig `yaml:"server" koanf:"server"`
	HTTP       HTTPConfig   `yaml:"http" koanf:"http"`
	Cache      CacheConfig  `yaml:"cache" koanf:"cache"`
	Feeds      FeedsConfig  `yaml:"feeds" koanf:"feeds"`
	Log        LogConfig    `yaml:"log" koanf:"log"`
}

// ServerConfig holds settings for the `serve` command.
type ServerConfig struct {
	Port            int           `yaml:"port" koanf:"port"`
	AllowAllOrigins bool          `yaml:"allow_all_origins" koanf:"allow_all_origins"`
	RequestTimeout  time.Duration `yaml:"request_timeout" koanf:"request_timeout"`
}

// HTTPConfig controls outbound requests to the report API and feeds.
type HTTPConfig struct {
	Timeout   time.Duration `yaml:"timeout" koanf:"timeout"`
	UserAgent string        `yaml:"user_agent" koanf:"user_agent"`
}

// CacheConfig controls the optional on-disk response cache.
type CacheConfig struct {
	Enabled bool          `yaml:"enabled" koanf:"enabled"`
	Path    string        `yaml:"path" koanf:"path"`
	TTL     time.Duration `yaml:"ttl" koanf:"ttl"`
}

// FeedsConfig holds third-party feed endpoints and the live refresh period.
type FeedsConfig struct {
	GitHubRSSBase   string        `yaml:"github_rss_base" koanf:"github_rss_base"`
	HuggingFaceBase string        `yaml:"huggingface_base" koanf:"huggingface_base"`
	OpenRouterBase  string        `yaml:"openrouter_base" koanf:"openrouter_base"`
	RefreshInterval time.Duration `yaml:"refresh_interval" koanf:"refresh_interval"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string    `yaml:"level" koanf:"level"`
	Format LogFormat `yaml:"format" koanf:"format"`
}
