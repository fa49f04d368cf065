package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	MinCacheTTL = 6 * time.Hour
	MaxCacheTTL = 24 * time.Hour

	maxBulkDomains = 20
)

type Config struct {
	Server    ServerConfig
	Log       LogConfig
	Whois     WhoisConfig
	DNS       DNSConfig
	GeoIP     GeoIPConfig
	Analysis  AnalysisConfig
	Cache     CacheConfig
	Bulk      BulkConfig
	RateLimit RateLimitConfig
	Auth      AuthConfig
	Metrics   MetricsConfig
}

type ServerConfig struct {
	Port            string
	Mode            string
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type LogConfig struct {
	Level  string
	Format string
}

type WhoisConfig struct {
	APIURL          string        `mapstructure:"api_url"`
	APIKey          string        `mapstructure:"api_key"`
	UserAgent       string        `mapstructure:"user_agent"`
	APITimeout      time.Duration `mapstructure:"api_timeout"`
	ProtocolTimeout time.Duration `mapstructure:"protocol_timeout"`
	StrategyOrder   []string      `mapstructure:"strategy_order"`
}

type DNSConfig struct {
	Server  string
	Timeout time.Duration
}

type GeoIPConfig struct {
	DatabasePath string `mapstructure:"database_path"`
}

type AnalysisConfig struct {
	WhoisDeadline   time.Duration `mapstructure:"whois_deadline"`
	DNSDeadline     time.Duration `mapstructure:"dns_deadline"`
	PrivacyDeadline time.Duration `mapstructure:"privacy_deadline"`
	GeoSampleSize   int           `mapstructure:"geo_sample_size"`
}

type CacheConfig struct {
	TTL         time.Duration
	CheckPeriod time.Duration `mapstructure:"check_period"`
	MaxKeys     int           `mapstructure:"max_keys"`
}

type BulkConfig struct {
	MaxDomains  int           `mapstructure:"max_domains"`
	PacingDelay time.Duration `mapstructure:"pacing_delay"`
}

type RateLimitConfig struct {
	Window      time.Duration
	MaxRequests int `mapstructure:"max_requests"`
}

type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
}

type MetricsConfig struct {
	RemoteWriteURL string        `mapstructure:"remote_write_url"`
	TenantHeader   string        `mapstructure:"tenant_header"`
	TenantID       string        `mapstructure:"tenant_id"`
	AuthToken      string        `mapstructure:"auth_token"`
	BatchSize      int           `mapstructure:"batch_size"`
	FlushInterval  time.Duration `mapstructure:"flush_interval"`
}

func Load() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.SetEnvPrefix("DOMAININTEL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	// Override with environment variables
	if port := os.Getenv("PORT"); port != "" {
		cfg.Server.Port = port
	}
	if key := os.Getenv("WHOISJSON_API_KEY"); key != "" {
		cfg.Whois.APIKey = key
	}
	if path := os.Getenv("GEOIP_DATABASE"); path != "" {
		cfg.GeoIP.DatabasePath = path
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "3001")
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.shutdown_timeout", "30s")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("whois.api_url", "https://whoisjson.com/api/v1/whois")
	v.SetDefault("whois.user_agent", "DomainIntel/1.0")
	v.SetDefault("whois.api_timeout", "8s")
	v.SetDefault("whois.protocol_timeout", "12s")
	v.SetDefault("whois.strategy_order", []string{"api", "protocol"})

	v.SetDefault("dns.server", "")
	v.SetDefault("dns.timeout", "5s")

	v.SetDefault("geoip.database_path", "")

	v.SetDefault("analysis.whois_deadline", "15s")
	v.SetDefault("analysis.dns_deadline", "10s")
	v.SetDefault("analysis.privacy_deadline", "10s")
	v.SetDefault("analysis.geo_sample_size", 3)

	v.SetDefault("cache.ttl", "6h")
	v.SetDefault("cache.check_period", "1h")
	v.SetDefault("cache.max_keys", 1000)

	v.SetDefault("bulk.max_domains", 10)
	v.SetDefault("bulk.pacing_delay", "800ms")

	v.SetDefault("ratelimit.window", "15m")
	v.SetDefault("ratelimit.max_requests", 200)

	v.SetDefault("auth.jwt_secret", "")

	v.SetDefault("metrics.remote_write_url", "")
	v.SetDefault("metrics.tenant_header", "X-Scope-OrgID")
	v.SetDefault("metrics.batch_size", 1000)
	v.SetDefault("metrics.flush_interval", "30s")
}

// validate clamps tunables into their supported ranges and rejects values that cannot work.
func (c *Config) validate() error {
	if c.Cache.TTL < MinCacheTTL {
		c.Cache.TTL = MinCacheTTL
	}
	if c.Cache.TTL > MaxCacheTTL {
		c.Cache.TTL = MaxCacheTTL
	}

	if c.Bulk.MaxDomains < 1 || c.Bulk.MaxDomains > maxBulkDomains {
		return fmt.Errorf("bulk.max_domains must be between 1 and %d, got %d", maxBulkDomains, c.Bulk.MaxDomains)
	}
	if c.Bulk.PacingDelay < 0 {
		return fmt.Errorf("bulk.pacing_delay must not be negative")
	}

	if c.RateLimit.MaxRequests <= 0 || c.RateLimit.Window <= 0 {
		return fmt.Errorf("ratelimit.max_requests and ratelimit.window must be positive")
	}

	if c.Analysis.GeoSampleSize < 1 {
		c.Analysis.GeoSampleSize = 1
	}

	for _, name := range c.Whois.StrategyOrder {
		switch name {
		case "api", "protocol":
		default:
			return fmt.Errorf("unknown whois strategy %q", name)
		}
	}
	if len(c.Whois.StrategyOrder) == 0 {
		return fmt.Errorf("whois.strategy_order must name at least one strategy")
	}

	return nil
}
