package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/guestbites/guestbites/internal/model"
)

// Config holds the full application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
	Foursquare FoursquareConfig `yaml:"foursquare" mapstructure:"foursquare"`
	Nominatim  NominatimConfig  `yaml:"nominatim" mapstructure:"nominatim"`
	Overpass   OverpassConfig   `yaml:"overpass" mapstructure:"overpass"`
	Upstream   UpstreamConfig   `yaml:"upstream" mapstructure:"upstream"`
	Cache      CacheConfig      `yaml:"cache" mapstructure:"cache"`
	Classifier ClassifierConfig `yaml:"classifier" mapstructure:"classifier"`
	Guide      GuideConfig      `yaml:"guide" mapstructure:"guide"`
	Resend     ResendConfig     `yaml:"resend" mapstructure:"resend"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
	// Origin is the public base URL used in share links.
	Origin      string   `yaml:"origin" mapstructure:"origin"`
	CORSOrigins []string `yaml:"cors_origins" mapstructure:"cors_origins"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// FoursquareConfig holds Foursquare Places settings. An empty key disables
// the provider.
type FoursquareConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	Radius  int    `yaml:"radius" mapstructure:"radius"`
	Limit   int    `yaml:"limit" mapstructure:"limit"`
	Fields  string `yaml:"fields" mapstructure:"fields"`
}

// NominatimConfig holds geocoder settings.
type NominatimConfig struct {
	BaseURL   string  `yaml:"base_url" mapstructure:"base_url"`
	UserAgent string  `yaml:"user_agent" mapstructure:"user_agent"`
	RPS       float64 `yaml:"rps" mapstructure:"rps"`
}

// OverpassConfig holds OpenStreetMap Overpass settings.
type OverpassConfig struct {
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	Radius  int    `yaml:"radius" mapstructure:"radius"`
	Limit   int    `yaml:"limit" mapstructure:"limit"`
}

// UpstreamConfig bounds every outbound call.
type UpstreamConfig struct {
	TimeoutSecs      int `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	Retries          int `yaml:"retries" mapstructure:"retries"`
	BreakerThreshold int `yaml:"breaker_threshold" mapstructure:"breaker_threshold"`
	BreakerResetSecs int `yaml:"breaker_reset_secs" mapstructure:"breaker_reset_secs"`
}

// Timeout returns TimeoutSecs as a duration.
func (u UpstreamConfig) Timeout() time.Duration {
	return time.Duration(u.TimeoutSecs) * time.Second
}

// CacheConfig configures the result cache.
type CacheConfig struct {
	TTLHours int `yaml:"ttl_hours" mapstructure:"ttl_hours"`
}

// TTL returns TTLHours as a duration.
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLHours) * time.Hour
}

// ClassifierConfig configures bucket classification.
type ClassifierConfig struct {
	DefaultBucket string `yaml:"default_bucket" mapstructure:"default_bucket"`
	// RulesFile optionally replaces the built-in rules.
	RulesFile string `yaml:"rules_file" mapstructure:"rules_file"`
}

// GuideConfig configures guide assembly.
type GuideConfig struct {
	SortByName bool `yaml:"sort_by_name" mapstructure:"sort_by_name"`
	// FallbackEnabled lets searches fall through to OpenStreetMap.
	FallbackEnabled bool `yaml:"fallback_enabled" mapstructure:"fallback_enabled"`
}

// ResendConfig holds email delivery settings for host submissions.
type ResendConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	From    string `yaml:"from" mapstructure:"from"`
	To      string `yaml:"to" mapstructure:"to"`
}

// Recipients splits To on commas.
func (r ResendConfig) Recipients() []string {
	var out []string
	for _, s := range strings.Split(r.To, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// legacyEnv maps config keys to the variable names the first deployment used.
var legacyEnv = map[string]string{
	"foursquare.key": "FOURSQUARE_SERVER_API_KEY",
	"resend.key":     "RESEND_API_KEY",
	"resend.from":    "HOST_SUBMIT_EMAIL_FROM",
	"resend.to":      "HOST_SUBMIT_EMAIL_TO",
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("GUESTBITES")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, legacy := range legacyEnv {
		prefixed := "GUESTBITES_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, prefixed, legacy); err != nil {
			return nil, eris.Wrapf(err, "config: bind env %s", key)
		}
	}

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.origin", "http://localhost:8080")
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("foursquare.base_url", "https://api.foursquare.com/v3")
	v.SetDefault("foursquare.radius", 4000)
	v.SetDefault("foursquare.limit", 15)
	v.SetDefault("foursquare.fields", "fsq_id,name,location,categories,website")
	v.SetDefault("nominatim.base_url", "https://nominatim.openstreetmap.org")
	v.SetDefault("nominatim.user_agent", "GuestBites/1.0 (server)")
	v.SetDefault("nominatim.rps", 1.0)
	v.SetDefault("overpass.base_url", "https://overpass-api.de/api/interpreter")
	v.SetDefault("overpass.radius", 4000)
	v.SetDefault("overpass.limit", 20)
	v.SetDefault("upstream.timeout_secs", 10)
	v.SetDefault("upstream.retries", 1)
	v.SetDefault("upstream.breaker_threshold", 5)
	v.SetDefault("upstream.breaker_reset_secs", 60)
	v.SetDefault("cache.ttl_hours", 24)
	v.SetDefault("classifier.default_bucket", string(model.BucketOther))
	v.SetDefault("guide.sort_by_name", false)
	v.SetDefault("guide.fallback_enabled", true)
	v.SetDefault("resend.base_url", "https://api.resend.com")
	v.SetDefault("resend.from", "GuestBites <onboarding@resend.dev>")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks values that would otherwise fail at request time. mode
// is "serve" for the HTTP server or "cli" for one-shot commands.
func (c *Config) Validate(mode string) error {
	var errs []string

	switch mode {
	case "serve":
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			errs = append(errs, "server.port must be between 1 and 65535")
		}
		if c.Server.Origin == "" {
			errs = append(errs, "server.origin is required")
		}
	case "cli":
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if _, ok := model.ParseBucket(c.Classifier.DefaultBucket); !ok {
		errs = append(errs, fmt.Sprintf("classifier.default_bucket %q is not a bucket", c.Classifier.DefaultBucket))
	}
	if c.Foursquare.Limit < 1 || c.Foursquare.Limit > 50 {
		errs = append(errs, "foursquare.limit must be between 1 and 50")
	}
	if c.Upstream.TimeoutSecs <= 0 {
		errs = append(errs, "upstream.timeout_secs must be > 0")
	}
	if c.Upstream.Retries < 0 {
		errs = append(errs, "upstream.retries must be >= 0")
	}
	if c.Cache.TTLHours <= 0 {
		errs = append(errs, "cache.ttl_hours must be > 0")
	}
	if c.Nominatim.RPS <= 0 {
		errs = append(errs, "nominatim.rps must be > 0")
	}

	if len(errs) > 0 {
		return eris.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
