package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/siteaudit/crawl"
	sahttp "github.com/fwojciec/siteaudit/http"
	"github.com/fwojciec/siteaudit/rod"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment variables read into Config,
// e.g. SITEAUDIT_MAX_PAGES.
const EnvPrefix = "SITEAUDIT"

// Config holds settings read from defaults, an optional config file and the
// environment, in increasing order of precedence. Audit flags are applied
// on top.
type Config struct {
	MaxPages    int           `mapstructure:"max_pages"`
	BatchSize   int           `mapstructure:"batch_size"`
	BatchDelay  time.Duration `mapstructure:"batch_delay"`
	Timeout     time.Duration `mapstructure:"timeout"`
	RateLimit   float64       `mapstructure:"rate_limit"`
	UserAgent   string        `mapstructure:"user_agent"`
	Render      bool          `mapstructure:"render"`
	RenderPool  int           `mapstructure:"render_pool"`
	MetricsAddr string        `mapstructure:"metrics_addr"`
	DB          string        `mapstructure:"db"`
	User        string        `mapstructure:"user"`
}

// LoadConfig reads configuration. path may be empty, in which case only
// defaults and the environment are used. The file format is taken from the
// extension (yaml, toml, json, env).
func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("max_pages", crawl.DefaultMaxPages)
	v.SetDefault("batch_size", crawl.DefaultBatchSize)
	v.SetDefault("batch_delay", crawl.DefaultBatchDelay)
	v.SetDefault("timeout", sahttp.DefaultFetchTimeout)
	v.SetDefault("rate_limit", 0.0)
	v.SetDefault("user_agent", sahttp.DefaultUserAgent)
	v.SetDefault("render", false)
	v.SetDefault("render_pool", rod.DefaultPoolSize)
	v.SetDefault("metrics_addr", "")
	v.SetDefault("db", "")
	v.SetDefault("user", "local")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %q: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	return &cfg, nil
}
