package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig   `json:"server"`
	Roster   RosterConfig   `json:"roster"`
	Cache    CacheConfig    `json:"cache"`
	Redis    RedisConfig    `json:"redis"`
	GeoIP    GeoIPConfig    `json:"geoip"`
	MongoDB  MongoDBConfig  `json:"mongodb"`
	Versions VersionsConfig `json:"versions"`
	Discord  DiscordConfig  `json:"discord"`
}

type ServerConfig struct {
	Port           int      `json:"port"`
	Host           string   `json:"host"`
	AllowedOrigins []string `json:"allowed_origins"`
}

// RosterConfig describes where the already-built node roster is fetched
// from and how often the analytics cycle runs.
type RosterConfig struct {
	URL          string `json:"url"`
	PollInterval int    `json:"poll_interval_seconds"`
	Timeout      int    `json:"timeout_seconds"`
	MaxRetries   int    `json:"max_retries"`
}

type CacheConfig struct {
	TTL int `json:"ttl_seconds"`
}

type RedisConfig struct {
	Address  string `json:"address"`
	Password string `json:"password"`
	DB       int    `json:"db"`
	Enabled  bool   `json:"enabled"`
}

type GeoIPConfig struct {
	DBPath string `json:"db_path"`
}

type MongoDBConfig struct {
	URI      string `json:"uri"`
	Database string `json:"database"`
	Enabled  bool   `json:"enabled"`
}

// VersionsConfig is the reference version policy used when a node record
// carries no version-freshness telemetry.
type VersionsConfig struct {
	CurrentStable string `json:"current_stable"`
	MinSupported  string `json:"min_supported"`
}

type DiscordConfig struct {
	BotToken  string `json:"-"`
	ChannelID string `json:"channel_id"`
}

func LoadConfig() (*Config, error) {
	// Load .env file if present
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:           8080,
			Host:           "0.0.0.0",
			AllowedOrigins: []string{"*"},
		},
		Roster: RosterConfig{
			URL:          "http://localhost:9000/nodes",
			PollInterval: 30,
			Timeout:      10,
			MaxRetries:   3,
		},
		Cache: CacheConfig{
			TTL: 30,
		},
		Redis: RedisConfig{
			Address: "localhost:6379",
			DB:      0,
			Enabled: false,
		},
		GeoIP: GeoIPConfig{
			DBPath: "",
		},
		MongoDB: MongoDBConfig{
			URI:      "mongodb://localhost:27017",
			Database: "pnodes_analytics",
			Enabled:  false,
		},
		Versions: VersionsConfig{
			CurrentStable: "0.8.0",
			MinSupported:  "0.7.3",
		},
	}

	// Config file overrides defaults
	configPath := os.Getenv("CONFIG_FILE")
	if configPath == "" {
		configPath = "config/config.json"
	}

	if _, err := os.Stat(configPath); err == nil {
		file, err := os.Open(configPath)
		if err == nil {
			defer file.Close()
			if err := json.NewDecoder(file).Decode(cfg); err != nil {
				fmt.Printf("Warning: failed to decode config file: %v\n", err)
			}
		}
	}

	// Environment overrides the config file
	loadEnv(cfg)

	return cfg, nil
}

func loadEnv(cfg *Config) {
	if val := os.Getenv("SERVER_PORT"); val != "" {
		if p, err := strconv.Atoi(val); err == nil {
			cfg.Server.Port = p
		}
	}
	if val := os.Getenv("SERVER_HOST"); val != "" {
		cfg.Server.Host = val
	}
	if val := os.Getenv("ALLOWED_ORIGINS"); val != "" {
		cfg.Server.AllowedOrigins = strings.Split(val, ",")
	}

	if val := os.Getenv("ROSTER_URL"); val != "" {
		cfg.Roster.URL = val
	}
	if val := os.Getenv("ROSTER_POLL_INTERVAL"); val != "" {
		if p, err := strconv.Atoi(val); err == nil {
			cfg.Roster.PollInterval = p
		}
	}
	if val := os.Getenv("ROSTER_TIMEOUT"); val != "" {
		if p, err := strconv.Atoi(val); err == nil {
			cfg.Roster.Timeout = p
		}
	}
	if val := os.Getenv("ROSTER_MAX_RETRIES"); val != "" {
		if p, err := strconv.Atoi(val); err == nil {
			cfg.Roster.MaxRetries = p
		}
	}

	if val := os.Getenv("CACHE_TTL"); val != "" {
		if p, err := strconv.Atoi(val); err == nil {
			cfg.Cache.TTL = p
		}
	}

	if val := os.Getenv("REDIS_ADDRESS"); val != "" {
		cfg.Redis.Address = val
	}
	if val := os.Getenv("REDIS_PASSWORD"); val != "" {
		cfg.Redis.Password = val
	}
	if val := os.Getenv("REDIS_DB"); val != "" {
		if p, err := strconv.Atoi(val); err == nil {
			cfg.Redis.DB = p
		}
	}
	if val := os.Getenv("REDIS_ENABLED"); val != "" {
		cfg.Redis.Enabled = val == "true" || val == "1"
	}

	if val := os.Getenv("GEOIP_DB_PATH"); val != "" {
		cfg.GeoIP.DBPath = val
	}

	if val := os.Getenv("MONGODB_URI"); val != "" {
		cfg.MongoDB.URI = val
	}
	if val := os.Getenv("MONGODB_DATABASE"); val != "" {
		cfg.MongoDB.Database = val
	}
	if val := os.Getenv("MONGODB_ENABLED"); val != "" {
		cfg.MongoDB.Enabled = val == "true" || val == "1"
	}

	if val := os.Getenv("CURRENT_STABLE_VERSION"); val != "" {
		cfg.Versions.CurrentStable = val
	}
	if val := os.Getenv("MIN_SUPPORTED_VERSION"); val != "" {
		cfg.Versions.MinSupported = val
	}

	cfg.Discord.BotToken = os.Getenv("DISCORD_BOT_TOKEN")
	if val := os.Getenv("DISCORD_CHANNEL_ID"); val != "" {
		cfg.Discord.ChannelID = val
	}
}

func (c *Config) RosterTimeoutDuration() time.Duration {
	return time.Duration(c.Roster.Timeout) * time.Second
}

func (c *Config) PollIntervalDuration() time.Duration {
	return time.Duration(c.Roster.PollInterval) * time.Second
}

func (c *Config) CacheTTLDuration() time.Duration {
	return time.Duration(c.Cache.TTL) * time.Second
}
