// Package config loads HandFlow configuration from a TOML file and
// environment variables.
//
// Lookup order: defaults, then the config file, then HANDFLOW_* env vars.
// The file is $HANDFLOW_CONFIG if set, otherwise
// ~/.config/handflow/config.toml. Env overrides map dots to underscores,
// so store.redis_addr becomes HANDFLOW_STORE_REDIS_ADDR.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Store  StoreConfig  `mapstructure:"store"`
	Cache  CacheConfig  `mapstructure:"cache"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Addr is the listen address, host optional.
	Addr string `mapstructure:"addr"`
	// MaxUploadMB caps the multipart request body.
	MaxUploadMB int64 `mapstructure:"max_upload_mb"`
	// MaxConcurrent bounds in-flight /upload and /generate requests.
	MaxConcurrent int `mapstructure:"max_concurrent"`
	// ScoreTTL is how long an uploaded score stays retrievable.
	ScoreTTL time.Duration `mapstructure:"score_ttl"`
}

// StoreConfig selects and parameterizes the uploaded-score store.
type StoreConfig struct {
	// Backend is one of memory, file, redis, mongo.
	Backend string `mapstructure:"backend"`
	// Path is the file backend's directory. Empty means
	// ~/.config/handflow/scores.
	Path string `mapstructure:"path"`

	RedisAddr     string `mapstructure:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db"`

	MongoURI        string `mapstructure:"mongo_uri"`
	MongoDatabase   string `mapstructure:"mongo_database"`
	MongoCollection string `mapstructure:"mongo_collection"`
}

// CacheConfig parameterizes the pipeline artifact cache.
type CacheConfig struct {
	// Backend is one of file, memory, off.
	Backend string `mapstructure:"backend"`
	// Dir is the file backend's directory. Empty means the platform
	// cache dir (~/.cache/handflow on Linux).
	Dir string `mapstructure:"dir"`
}

var storeBackends = map[string]bool{
	"memory": true,
	"file":   true,
	"redis":  true,
	"mongo":  true,
}

var cacheBackends = map[string]bool{
	"file":   true,
	"memory": true,
	"off":    true,
}

// Load reads configuration from file and env. Env var overrides use
// prefix HANDFLOW_.
func Load() (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.max_upload_mb", 20)
	v.SetDefault("server.max_concurrent", 8)
	v.SetDefault("server.score_ttl", "10m")
	v.SetDefault("store.backend", "memory")
	v.SetDefault("store.path", "")
	v.SetDefault("store.redis_addr", "localhost:6379")
	v.SetDefault("store.redis_password", "")
	v.SetDefault("store.redis_db", 0)
	v.SetDefault("store.mongo_uri", "mongodb://localhost:27017")
	v.SetDefault("store.mongo_database", "handflow")
	v.SetDefault("store.mongo_collection", "scores")
	v.SetDefault("cache.backend", "file")
	v.SetDefault("cache.dir", "")

	v.SetConfigType("toml")

	cfgPath := os.Getenv("HANDFLOW_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "handflow"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("HANDFLOW")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) validate() error {
	if !storeBackends[c.Store.Backend] {
		return fmt.Errorf("unknown store backend %q (must be memory, file, redis or mongo)", c.Store.Backend)
	}
	if !cacheBackends[c.Cache.Backend] {
		return fmt.Errorf("unknown cache backend %q (must be file, memory or off)", c.Cache.Backend)
	}
	if c.Server.MaxUploadMB <= 0 {
		return fmt.Errorf("server.max_upload_mb must be positive, got %d", c.Server.MaxUploadMB)
	}
	if c.Server.MaxConcurrent <= 0 {
		return fmt.Errorf("server.max_concurrent must be positive, got %d", c.Server.MaxConcurrent)
	}
	if c.Server.ScoreTTL <= 0 {
		return fmt.Errorf("server.score_ttl must be positive, got %s", c.Server.ScoreTTL)
	}
	return nil
}

// MaxUploadBytes returns the request body cap in bytes.
func (c ServerConfig) MaxUploadBytes() int64 {
	return c.MaxUploadMB << 20
}
