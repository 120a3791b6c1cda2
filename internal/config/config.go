// Package config provides configuration management for the application.
// Values come from a YAML file, environment variables, and defaults, in
// that order of precedence, using viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/DawsonJay/jam-hot-project/internal/logger"
)

// Scraper defaults.
const (
	defaultRateLimit           = 300 * time.Millisecond
	defaultRequestTimeout      = 30 * time.Second
	defaultMaxRecipesPerSource = 10
	defaultUserAgent           = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
		"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// Browser defaults.
const (
	defaultPageLoadTimeout = 30 * time.Second
	defaultSelectorTimeout = 10 * time.Second
	defaultSettleDelay     = 5 * time.Second
	defaultScrollDelay     = 500 * time.Millisecond
	defaultMaxScrolls      = 4
)

// Image pipeline defaults.
const (
	defaultImageOutputDir    = "image_data"
	defaultImageWorkers      = 3
	defaultImagesPerFruit    = 172
	defaultExoticImageCount  = 25
	defaultImageFetchTimeout = 30 * time.Second
)

// Config represents the application configuration.
type Config struct {
	// Logger holds logger configuration
	Logger logger.Config `mapstructure:"logger" yaml:"logger"`
	// Database holds PostgreSQL connection configuration
	Database Database `mapstructure:"database" yaml:"database"`
	// Scraper holds recipe scraping configuration
	Scraper Scraper `mapstructure:"scraper" yaml:"scraper"`
	// Browser holds rendered-fetch engine configuration
	Browser Browser `mapstructure:"browser" yaml:"browser"`
	// Images holds the training-image pipeline configuration
	Images Images `mapstructure:"images" yaml:"images"`
}

// Database holds PostgreSQL connection settings.
type Database struct {
	Host     string `mapstructure:"host" yaml:"host"`
	Port     string `mapstructure:"port" yaml:"port"`
	User     string `mapstructure:"user" yaml:"user"`
	Password string `mapstructure:"password" yaml:"password"`
	DBName   string `mapstructure:"dbname" yaml:"dbname"`
	SSLMode  string `mapstructure:"sslmode" yaml:"sslmode"`
}

// Scraper holds recipe scraping settings.
type Scraper struct {
	// RateLimit is the fixed delay between lightweight requests.
	RateLimit time.Duration `mapstructure:"rate_limit" yaml:"rate_limit"`
	// RequestTimeout bounds a single HTTP request.
	RequestTimeout time.Duration `mapstructure:"request_timeout" yaml:"request_timeout"`
	// UserAgent is sent with every request.
	UserAgent string `mapstructure:"user_agent" yaml:"user_agent"`
	// MaxRecipesPerSource caps candidate detail pages per source per query.
	MaxRecipesPerSource int `mapstructure:"max_recipes_per_source" yaml:"max_recipes_per_source"`
}

// Browser holds rendered-fetch engine settings.
type Browser struct {
	// Headless runs the browser without a display.
	Headless bool `mapstructure:"headless" yaml:"headless"`
	// PageLoadTimeout bounds navigation plus waits and scrolling.
	PageLoadTimeout time.Duration `mapstructure:"page_load_timeout" yaml:"page_load_timeout"`
	// SelectorTimeout bounds the wait for a named selector.
	SelectorTimeout time.Duration `mapstructure:"selector_timeout" yaml:"selector_timeout"`
	// SettleDelay is the fixed wait used when no selector is given.
	SettleDelay time.Duration `mapstructure:"settle_delay" yaml:"settle_delay"`
	// ScrollDelay is the pause between viewport scrolls.
	ScrollDelay time.Duration `mapstructure:"scroll_delay" yaml:"scroll_delay"`
	// MaxScrolls bounds lazy-load scrolling per page.
	MaxScrolls int `mapstructure:"max_scrolls" yaml:"max_scrolls"`
}

// Images holds training-image pipeline settings.
type Images struct {
	// OutputDir is the root directory; one subdirectory per fruit.
	OutputDir string `mapstructure:"output_dir" yaml:"output_dir"`
	// Workers is the resolution engine pool size.
	Workers int `mapstructure:"workers" yaml:"workers"`
	// PerFruit is the validated-image target for main fruits.
	PerFruit int `mapstructure:"per_fruit" yaml:"per_fruit"`
	// ExoticPerFruit is the target for exotic fruits in the unknown class.
	ExoticPerFruit int `mapstructure:"exotic_per_fruit" yaml:"exotic_per_fruit"`
	// FetchTimeout bounds a single image download.
	FetchTimeout time.Duration `mapstructure:"fetch_timeout" yaml:"fetch_timeout"`
}

// Load reads configuration from viper's current state into a Config.
// InitViper must have been called first.
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration for values the pipeline cannot run with.
func (c *Config) Validate() error {
	if c.Scraper.RateLimit < 0 {
		return fmt.Errorf("scraper.rate_limit must not be negative: %v", c.Scraper.RateLimit)
	}
	if c.Scraper.MaxRecipesPerSource <= 0 {
		return fmt.Errorf("scraper.max_recipes_per_source must be positive: %d",
			c.Scraper.MaxRecipesPerSource)
	}
	if c.Images.Workers <= 0 {
		return fmt.Errorf("images.workers must be positive: %d", c.Images.Workers)
	}
	if c.Browser.MaxScrolls < 0 {
		return fmt.Errorf("browser.max_scrolls must not be negative: %d", c.Browser.MaxScrolls)
	}
	return nil
}

// InitViper configures viper with the config file location, environment
// overrides, and defaults.
func InitViper(cfgFile string) {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("./config")
	}

	viper.SetEnvPrefix("JAMHOT")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults()
}

// setDefaults registers default values for every configuration key.
func setDefaults() {
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.encoding", "console")
	viper.SetDefault("logger.development", false)

	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", "5432")
	viper.SetDefault("database.user", "postgres")
	viper.SetDefault("database.dbname", "jam_hot")
	viper.SetDefault("database.sslmode", "disable")

	viper.SetDefault("scraper.rate_limit", defaultRateLimit)
	viper.SetDefault("scraper.request_timeout", defaultRequestTimeout)
	viper.SetDefault("scraper.user_agent", defaultUserAgent)
	viper.SetDefault("scraper.max_recipes_per_source", defaultMaxRecipesPerSource)

	viper.SetDefault("browser.headless", true)
	viper.SetDefault("browser.page_load_timeout", defaultPageLoadTimeout)
	viper.SetDefault("browser.selector_timeout", defaultSelectorTimeout)
	viper.SetDefault("browser.settle_delay", defaultSettleDelay)
	viper.SetDefault("browser.scroll_delay", defaultScrollDelay)
	viper.SetDefault("browser.max_scrolls", defaultMaxScrolls)

	viper.SetDefault("images.output_dir", defaultImageOutputDir)
	viper.SetDefault("images.workers", defaultImageWorkers)
	viper.SetDefault("images.per_fruit", defaultImagesPerFruit)
	viper.SetDefault("images.exotic_per_fruit", defaultExoticImageCount)
	viper.SetDefault("images.fetch_timeout", defaultImageFetchTimeout)
}
