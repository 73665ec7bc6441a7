package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"ArgusIntel/internal/analysis"
)

const (
	defaultTimezone   = "UTC"
	configPathEnv     = "ARGUS_CONFIG"
	databaseDSNEnv    = "DATABASE_DSN"
	nerURLEnv         = "NER_URL"
	nerAPIKeyEnv      = "NER_API_KEY"
	telegramTokenEnv  = "TELEGRAM_BOT_TOKEN"
	telegramChatIDEnv = "TELEGRAM_CHAT_ID"
	httpAddrEnv       = "ARGUS_HTTP_ADDR"
)

// Config holds high-level settings required across the application.
type Config struct {
	Database      DatabaseConfig     `yaml:"database"`
	Scheduler     SchedulerConfig    `yaml:"scheduler"`
	NER           NERConfig          `yaml:"ner"`
	Notifications NotificationConfig `yaml:"notifications"`
	HTTP          HTTPConfig         `yaml:"http"`
	Scraper       ScraperConfig      `yaml:"scraper"`
	Analysis      AnalysisConfig     `yaml:"analysis"`
	Sites         []SiteConfig       `yaml:"sites"`
	Logging       LoggingConfig      `yaml:"logging"`
}

// DatabaseConfig describes the intelligence store. A postgres:// DSN selects
// the Postgres backend; anything else is treated as a SQLite file path.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// SchedulerConfig defines how often scan batches run.
type SchedulerConfig struct {
	Interval time.Duration  `yaml:"interval"`
	Timezone string         `yaml:"timezone"`
	location *time.Location `yaml:"-"`
}

// Location resolves the scheduler timezone string to a time.Location.
func (s SchedulerConfig) Location() *time.Location {
	if s.location != nil {
		return s.location
	}
	loc, _ := time.LoadLocation(defaultTimezone)
	return loc
}

// NERConfig describes the external entity-recognition service.
type NERConfig struct {
	URL            string        `yaml:"url"`
	APIKey         string        `yaml:"apiKey"`
	BreakerTrips   uint32        `yaml:"breakerTrips"`
	BreakerTimeout time.Duration `yaml:"breakerTimeout"`
}

// NotificationConfig encapsulates outbound channels (Telegram, etc.).
type NotificationConfig struct {
	Telegram TelegramConfig `yaml:"telegram"`
}

// TelegramConfig wires all data required to send messages.
type TelegramConfig struct {
	BotToken string `yaml:"botToken"`
	ChatID   string `yaml:"chatId"`
}

// HTTPConfig controls the read-only dashboard API. Empty Addr disables it.
type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

// ScraperConfig tunes the news scraper collaborator.
type ScraperConfig struct {
	RequestsPerMinute     int `yaml:"requestsPerMinute"`
	MinContentLength      int `yaml:"minContentLength"`
	MaxArticlesPerSection int `yaml:"maxArticlesPerSection"`
}

// CategoryConfig is one weighted general-tier keyword group.
type CategoryConfig struct {
	Keywords []string `yaml:"keywords"`
	Weight   float64  `yaml:"weight"`
}

// AnalysisConfig is the keyword/lexicon/threshold surface of the engine.
// Weight and thresholds are pointers so a config file can set them to zero;
// absent fields keep the defaults.
type AnalysisConfig struct {
	HighImpactKeywords  []string                  `yaml:"highImpactKeywords"`
	HighImpactWeight    *float64                  `yaml:"highImpactWeight"`
	Categories          map[string]CategoryConfig `yaml:"categories"`
	MediumThreshold     *float64                  `yaml:"mediumThreshold"`
	LowThreshold        *float64                  `yaml:"lowThreshold"`
	MilitaryUnitLexicon []string                  `yaml:"militaryUnitLexicon"`
	WeaponLexicon       []string                  `yaml:"weaponLexicon"`
}

// Engine converts the YAML shape into the engine's immutable configuration.
func (a AnalysisConfig) Engine() analysis.Config {
	categories := make(map[string]analysis.KeywordCategory, len(a.Categories))
	for name, cat := range a.Categories {
		categories[name] = analysis.KeywordCategory{Keywords: cat.Keywords, Weight: cat.Weight}
	}
	return analysis.Config{
		HighImpactKeywords:  a.HighImpactKeywords,
		HighImpactWeight:    floatValue(a.HighImpactWeight),
		Categories:          categories,
		MediumThreshold:     floatValue(a.MediumThreshold),
		LowThreshold:        floatValue(a.LowThreshold),
		MilitaryUnitLexicon: a.MilitaryUnitLexicon,
		WeaponLexicon:       a.WeaponLexicon,
	}
}

// SiteConfig describes a single news site with its scanner strategy.
type SiteConfig struct {
	Name     string            `yaml:"name"`
	Scanner  string            `yaml:"scanner"`
	Sections []SectionConfig   `yaml:"sections"`
	Options  map[string]string `yaml:"options"`
}

// SectionConfig holds the concrete section pages to crawl.
type SectionConfig struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// LoggingConfig controls slog verbosity.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	cfg.bindTimezone()

	if len(cfg.Sites) == 0 {
		cfg.Sites = defaultConfig().Sites
	}

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Database.DSN = v
	}

	if v := os.Getenv(nerURLEnv); v != "" {
		c.NER.URL = v
	}

	if v := os.Getenv(nerAPIKeyEnv); v != "" {
		c.NER.APIKey = v
	}

	if v := os.Getenv(telegramTokenEnv); v != "" {
		c.Notifications.Telegram.BotToken = v
	}

	if v := os.Getenv(telegramChatIDEnv); v != "" {
		c.Notifications.Telegram.ChatID = v
	}

	if v := os.Getenv(httpAddrEnv); v != "" {
		c.HTTP.Addr = v
	}
}

func (c *Config) bindTimezone() {
	tz := c.Scheduler.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("config: unknown timezone %s, reverting to %s", tz, defaultTimezone)
		loc, _ = time.LoadLocation(defaultTimezone)
	}
	c.Scheduler.location = loc
}

func mergeConfig(base, override Config) Config {
	if override.Database.DSN != "" {
		base.Database = override.Database
	}

	if override.Scheduler.Interval > 0 {
		base.Scheduler.Interval = override.Scheduler.Interval
	}
	if override.Scheduler.Timezone != "" {
		base.Scheduler.Timezone = override.Scheduler.Timezone
	}

	if override.NER.URL != "" {
		base.NER.URL = override.NER.URL
	}
	if override.NER.APIKey != "" {
		base.NER.APIKey = override.NER.APIKey
	}
	if override.NER.BreakerTrips > 0 {
		base.NER.BreakerTrips = override.NER.BreakerTrips
	}
	if override.NER.BreakerTimeout > 0 {
		base.NER.BreakerTimeout = override.NER.BreakerTimeout
	}

	if override.Notifications.Telegram.BotToken != "" {
		base.Notifications.Telegram.BotToken = override.Notifications.Telegram.BotToken
	}
	if override.Notifications.Telegram.ChatID != "" {
		base.Notifications.Telegram.ChatID = override.Notifications.Telegram.ChatID
	}

	if override.HTTP.Addr != "" {
		base.HTTP.Addr = override.HTTP.Addr
	}

	if override.Scraper.RequestsPerMinute > 0 {
		base.Scraper.RequestsPerMinute = override.Scraper.RequestsPerMinute
	}
	if override.Scraper.MinContentLength > 0 {
		base.Scraper.MinContentLength = override.Scraper.MinContentLength
	}
	if override.Scraper.MaxArticlesPerSection > 0 {
		base.Scraper.MaxArticlesPerSection = override.Scraper.MaxArticlesPerSection
	}

	base.Analysis = mergeAnalysis(base.Analysis, override.Analysis)

	if len(override.Sites) > 0 {
		base.Sites = override.Sites
	}

	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	return base
}

func mergeAnalysis(base, override AnalysisConfig) AnalysisConfig {
	if len(override.HighImpactKeywords) > 0 {
		base.HighImpactKeywords = override.HighImpactKeywords
	}
	if override.HighImpactWeight != nil {
		base.HighImpactWeight = override.HighImpactWeight
	}
	if len(override.Categories) > 0 {
		base.Categories = override.Categories
	}
	if override.MediumThreshold != nil {
		base.MediumThreshold = override.MediumThreshold
	}
	if override.LowThreshold != nil {
		base.LowThreshold = override.LowThreshold
	}
	if len(override.MilitaryUnitLexicon) > 0 {
		base.MilitaryUnitLexicon = override.MilitaryUnitLexicon
	}
	if len(override.WeaponLexicon) > 0 {
		base.WeaponLexicon = override.WeaponLexicon
	}
	return base
}

func defaultConfig() Config {
	tz, _ := time.LoadLocation(defaultTimezone)
	return Config{
		Database:  DatabaseConfig{DSN: "defense_intelligence.db"},
		Scheduler: SchedulerConfig{Interval: 6 * time.Hour, Timezone: defaultTimezone, location: tz},
		NER: NERConfig{
			URL:            "",
			BreakerTrips:   3,
			BreakerTimeout: 30 * time.Second,
		},
		Notifications: NotificationConfig{
			Telegram: TelegramConfig{BotToken: "", ChatID: ""},
		},
		HTTP: HTTPConfig{Addr: ""},
		Scraper: ScraperConfig{
			RequestsPerMinute:     60,
			MinContentLength:      100,
			MaxArticlesPerSection: 20,
		},
		Analysis: defaultAnalysis(),
		Sites: []SiteConfig{
			{
				Name:    "defense-gov",
				Scanner: "newssite",
				Sections: []SectionConfig{
					{Name: "news", URL: "https://www.defense.gov/News/"},
				},
			},
			{
				Name:    "hindustan-times",
				Scanner: "newssite",
				Sections: []SectionConfig{
					{Name: "india-news", URL: "https://www.hindustantimes.com/india-news"},
				},
			},
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

func floatPtr(v float64) *float64 {
	return &v
}

func floatValue(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

func defaultAnalysis() AnalysisConfig {
	return AnalysisConfig{
		HighImpactKeywords: []string{
			"imminent attack", "planned attack", "terrorist attack", "credible threat",
			"security breach", "bomb threat", "missile strike", "intelligence warning",
			"emergency response", "evacuation", "lockdown", "high alert",
		},
		HighImpactWeight: floatPtr(25),
		Categories: map[string]CategoryConfig{
			"terrorism": {
				Weight: 3,
				Keywords: []string{
					"terrorist", "terrorism", "suicide bomb", "ied", "extremist",
					"militant", "insurgent", "hijack", "hostage",
				},
			},
			"military": {
				Weight: 1,
				Keywords: []string{
					"military", "army", "navy", "air force", "soldier", "troop",
					"deployment", "combat", "warfare", "reconnaissance",
				},
			},
			"weapons": {
				Weight: 2,
				Keywords: []string{
					"weapon", "missile", "rocket", "explosive", "ammunition",
					"artillery", "drone strike", "nuclear", "chemical weapon",
				},
			},
			"cyber_security": {
				Weight: 2,
				Keywords: []string{
					"cyber attack", "hacking", "malware", "ransomware", "data breach",
					"cyber espionage", "zero day", "ddos",
				},
			},
			"border_security": {
				Weight: 1,
				Keywords: []string{
					"border", "smuggling", "infiltration", "illegal crossing",
					"patrol", "checkpoint", "ceasefire",
				},
			},
			"violence": {
				Weight: 1,
				Keywords: []string{
					"riot", "unrest", "clash", "shooting", "assault", "death toll",
				},
			},
		},
		MediumThreshold: floatPtr(6),
		LowThreshold:    floatPtr(1),
		MilitaryUnitLexicon: []string{
			"Indian Army", "Indian Navy", "Indian Air Force", "Northern Command",
			"Rashtriya Rifles", "CRPF", "BSF", "NSG", "ITBP",
		},
		WeaponLexicon: []string{
			"INS Vikrant", "BrahMos", "Agni-V", "Rafale", "S-400", "Tejas",
			"Apache helicopter", "Predator drone",
		},
	}
}
