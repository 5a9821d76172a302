package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	configPathEnv     = "CONSTRUCTION_WATCH_CONFIG"
	databaseDSNEnv    = "DATABASE_DSN"
	telegramTokenEnv  = "TELEGRAM_BOT_TOKEN"
	telegramChatIDEnv = "TELEGRAM_CHAT_ID"
	geocoderURLEnv    = "GEOCODER_ENDPOINT"
	logLevelEnv       = "LOG_LEVEL"
)

// Config holds high-level settings required across the application.
type Config struct {
	Database      DatabaseConfig     `yaml:"database"`
	Scheduler     SchedulerConfig    `yaml:"scheduler"`
	Logging       LoggingConfig      `yaml:"logging"`
	Notifications NotificationConfig `yaml:"notifications"`
	Geocoder      GeocoderConfig     `yaml:"geocoder"`
	Extraction    ExtractionConfig   `yaml:"extraction"`
	HistorySize   int                `yaml:"historySize"`
	Sources       []SourceConfig     `yaml:"sources"`
}

// DatabaseConfig describes Postgres connection details. An empty DSN selects
// the in-memory store.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// SchedulerConfig defines how often all sources are scraped.
type SchedulerConfig struct {
	Interval time.Duration `yaml:"interval"`
}

// LoggingConfig selects the slog level and handler.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// NotificationConfig encapsulates outbound channels.
type NotificationConfig struct {
	Telegram TelegramConfig `yaml:"telegram"`
}

// TelegramConfig wires all data required to send messages.
type TelegramConfig struct {
	BotToken string `yaml:"botToken"`
	ChatID   string `yaml:"chatId"`
}

// GeocoderConfig configures the place lookup service.
type GeocoderConfig struct {
	Endpoint          string        `yaml:"endpoint"`
	UserAgent         string        `yaml:"userAgent"`
	CountryCode       string        `yaml:"countryCode"`
	Timeout           time.Duration `yaml:"timeout"`
	RequestsPerSecond float64       `yaml:"requestsPerSecond"`
	BBox              BBoxConfig    `yaml:"bbox"`
}

// BBoxConfig bounds geocoding results.
type BBoxConfig struct {
	MinLon float64 `yaml:"minLon"`
	MinLat float64 `yaml:"minLat"`
	MaxLon float64 `yaml:"maxLon"`
	MaxLat float64 `yaml:"maxLat"`
}

// ExtractionConfig overrides parts of the default lexicon.
type ExtractionConfig struct {
	RegionName    string   `yaml:"regionName"`
	RegionAliases []string `yaml:"regionAliases"`
	Districts     []string `yaml:"districts"`
	Keywords      []string `yaml:"keywords"`
	RawTextLimit  int      `yaml:"rawTextLimit"`
}

// SourceConfig describes a single article source.
type SourceConfig struct {
	ID          string          `yaml:"id"`
	Name        string          `yaml:"name"`
	BaseURL     string          `yaml:"baseUrl"`
	Enabled     bool            `yaml:"enabled"`
	Scanner     string          `yaml:"scanner"`
	Keywords    []string        `yaml:"keywords"`
	MaxArticles int             `yaml:"maxArticles"`
	DelayMS     int             `yaml:"delayMs"`
	Selectors   SelectorsConfig `yaml:"selectors"`
}

// Delay is the pause between requests to the source.
func (s SourceConfig) Delay() time.Duration {
	return time.Duration(s.DelayMS) * time.Millisecond
}

// SelectorsConfig holds CSS selectors for listing pages.
type SelectorsConfig struct {
	Item        string `yaml:"item"`
	Link        string `yaml:"link"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

// Load reads .env and YAML configuration (if present) and applies environment overrides.
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("config: cannot read .env: %v", err)
	}

	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		fileCfg, err := LoadFile(path)
		if err != nil {
			log.Printf("config: %v (falling back to defaults)", err)
		} else {
			cfg = mergeConfig(cfg, fileCfg)
		}
	}

	cfg.applyEnvOverrides()
	cfg.fillSourceDefaults()
	return cfg
}

// LoadFile parses a YAML file without applying defaults.
func LoadFile(path string) (Config, error) {
	var fileCfg Config
	raw, err := os.ReadFile(path)
	if err != nil {
		return fileCfg, err
	}
	if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
		return fileCfg, err
	}
	return fileCfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv(telegramTokenEnv); v != "" {
		c.Notifications.Telegram.BotToken = v
	}
	if v := os.Getenv(telegramChatIDEnv); v != "" {
		c.Notifications.Telegram.ChatID = v
	}
	if v := os.Getenv(geocoderURLEnv); v != "" {
		c.Geocoder.Endpoint = v
	}
	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}
}

func (c *Config) fillSourceDefaults() {
	for i := range c.Sources {
		s := &c.Sources[i]
		s.ID = strings.TrimSpace(s.ID)
		if s.Name == "" {
			s.Name = s.ID
		}
		if s.Scanner == "" {
			s.Scanner = "html"
		}
		if s.MaxArticles <= 0 {
			s.MaxArticles = defaultMaxArticles
		}
		if s.DelayMS < 0 {
			s.DelayMS = 0
		}
	}
}

func mergeConfig(base, override Config) Config {
	if override.Database.DSN != "" {
		base.Database = override.Database
	}

	if override.Scheduler.Interval > 0 {
		base.Scheduler.Interval = override.Scheduler.Interval
	}

	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}
	if override.Logging.Format != "" {
		base.Logging.Format = override.Logging.Format
	}

	if override.Notifications.Telegram.BotToken != "" {
		base.Notifications.Telegram.BotToken = override.Notifications.Telegram.BotToken
	}
	if override.Notifications.Telegram.ChatID != "" {
		base.Notifications.Telegram.ChatID = override.Notifications.Telegram.ChatID
	}

	if override.Geocoder.Endpoint != "" {
		base.Geocoder.Endpoint = override.Geocoder.Endpoint
	}
	if override.Geocoder.UserAgent != "" {
		base.Geocoder.UserAgent = override.Geocoder.UserAgent
	}
	if override.Geocoder.CountryCode != "" {
		base.Geocoder.CountryCode = override.Geocoder.CountryCode
	}
	if override.Geocoder.Timeout > 0 {
		base.Geocoder.Timeout = override.Geocoder.Timeout
	}
	if override.Geocoder.RequestsPerSecond > 0 {
		base.Geocoder.RequestsPerSecond = override.Geocoder.RequestsPerSecond
	}
	if override.Geocoder.BBox != (BBoxConfig{}) {
		base.Geocoder.BBox = override.Geocoder.BBox
	}

	if override.Extraction.RegionName != "" {
		base.Extraction.RegionName = override.Extraction.RegionName
	}
	if len(override.Extraction.RegionAliases) > 0 {
		base.Extraction.RegionAliases = override.Extraction.RegionAliases
	}
	if len(override.Extraction.Districts) > 0 {
		base.Extraction.Districts = override.Extraction.Districts
	}
	if len(override.Extraction.Keywords) > 0 {
		base.Extraction.Keywords = override.Extraction.Keywords
	}
	if override.Extraction.RawTextLimit > 0 {
		base.Extraction.RawTextLimit = override.Extraction.RawTextLimit
	}

	if override.HistorySize > 0 {
		base.HistorySize = override.HistorySize
	}

	if len(override.Sources) > 0 {
		base.Sources = override.Sources
	}

	return base
}

const (
	defaultMaxArticles = 20
	defaultHistorySize = 100
)

func defaultConfig() Config {
	return Config{
		Scheduler: SchedulerConfig{Interval: 6 * time.Hour},
		Logging:   LoggingConfig{Level: "info", Format: "text"},
		Geocoder: GeocoderConfig{
			Endpoint:          "https://nominatim.openstreetmap.org",
			UserAgent:         "ConstructionWatch/1.0",
			CountryCode:       "vn",
			Timeout:           10 * time.Second,
			RequestsPerSecond: 1,
			BBox:              BBoxConfig{MinLon: 106.35, MinLat: 10.35, MaxLon: 107.05, MaxLat: 11.17},
		},
		Extraction:  ExtractionConfig{RawTextLimit: 50000},
		HistorySize: defaultHistorySize,
		Sources: []SourceConfig{
			{
				ID:          "vnexpress",
				Name:        "VnExpress Thời sự",
				BaseURL:     "https://vnexpress.net/thoi-su",
				Enabled:     true,
				Scanner:     "html",
				MaxArticles: defaultMaxArticles,
				DelayMS:     2000,
				Selectors:   SelectorsConfig{Item: "article.item-news", Link: "h3.title-news a", Title: "h3.title-news a", Description: "p.description"},
			},
			{
				ID:          "hcmcgov",
				Name:        "Cổng thông tin TP.HCM",
				BaseURL:     "https://hochiminhcity.gov.vn/tin-tuc",
				Enabled:     true,
				Scanner:     "html",
				MaxArticles: defaultMaxArticles,
				DelayMS:     3000,
				Selectors:   SelectorsConfig{Item: ".news-item", Link: "a", Title: ".news-title", Description: ".news-summary"},
			},
		},
	}
}
