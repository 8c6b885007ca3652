package structures

import (
	"time"
	_ "time/tzdata"
)

type Server struct {
	Enabled bool   `yaml:"enabled"`
	Host    string `yaml:"host" validate:"required"`
	Port    int    `yaml:"port" validate:"required|uint|min:1|max:65535"`
}

// EntityConfig is one tracked competitor profile. Never mutated after startup.
type EntityConfig struct {
	ID          string `yaml:"id" validate:"required|alphaDash"`
	ProfileURL  string `yaml:"profileUrl" validate:"required|fullUrl"`
	DisplayName string `yaml:"displayName"`
}

type SchedulerConfig struct {
	Interval time.Duration `yaml:"interval" validate:"required|min:1"`
	Cron     string        `yaml:"cron"`
	Pacing   time.Duration `yaml:"pacing" validate:"min:0"`
}

type FetcherConfig struct {
	Engine    string        `yaml:"engine" validate:"required|in:rod,chromedp"`
	Timeout   time.Duration `yaml:"timeout" validate:"required|min:1"`
	Settle    time.Duration `yaml:"settle" validate:"min:0"`
	Headless  bool          `yaml:"headless"`
	Stealth   bool          `yaml:"stealth"`
	UserAgent string        `yaml:"userAgent"`
	RemoteURL string        `yaml:"remoteUrl"`
}

type StorageConfig struct {
	Dir           string `yaml:"dir" validate:"required"`
	ArchiveDir    string `yaml:"archiveDir"`
	RetentionDays int    `yaml:"retentionDays" validate:"min:0"`
	FileMode      uint32 `yaml:"fileMode"`
	Compression   string `yaml:"compression" validate:"in:fastest,default,better,best"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir"`
}

type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Size    int           `yaml:"size"`
	TTL     time.Duration `yaml:"ttl"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type Config struct {
	AppName   string
	Debug     bool
	Path      string
	Once      bool
	Timezone  string          `yaml:"timezone" validate:"required"`
	Entities  []EntityConfig  `yaml:"entities"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Fetcher   FetcherConfig   `yaml:"fetcher"`
	Storage   StorageConfig   `yaml:"storage"`
	WebServer Server          `yaml:"webServer"`
	Logger    LoggerConfig    `yaml:"logger"`
	Cache     CacheConfig     `yaml:"cache"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

// Location resolves Timezone, falling back to the process local zone.
func (c *Config) Location() *time.Location {
	if c.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// ArchivePath returns the directory for cold archives, defaulting to the storage dir.
func (c *Config) ArchivePath() string {
	if c.Storage.ArchiveDir != "" {
		return c.Storage.ArchiveDir
	}
	return c.Storage.Dir
}
