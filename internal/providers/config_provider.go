package providers

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/sa03134/soomgo-competitor-tracker/internal/structures"
)

const AppName = "SoomgoCompetitorTracker"

func setDefaults(v *viper.Viper) {
	v.SetDefault("timezone", "Asia/Seoul")
	v.SetDefault("scheduler.interval", time.Hour)
	v.SetDefault("scheduler.pacing", 3*time.Second)
	v.SetDefault("fetcher.engine", "rod")
	v.SetDefault("fetcher.timeout", 60*time.Second)
	v.SetDefault("fetcher.settle", 5*time.Second)
	v.SetDefault("fetcher.headless", true)
	v.SetDefault("storage.dir", "collected_data")
	v.SetDefault("storage.fileMode", 0644)
	v.SetDefault("storage.compression", "best")
	v.SetDefault("webServer.host", "127.0.0.1")
	v.SetDefault("webServer.port", 8080)
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.mode", 0644)
	v.SetDefault("cache.size", 8)
	v.SetDefault("cache.ttl", 30*time.Second)
}

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	v := viper.New()
	setDefaults(v)

	filename := filepath.Base(flags.ConfigPath)
	v.AddConfigPath(filepath.Dir(flags.ConfigPath))
	v.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	v.SetConfigType("yaml")

	_ = v.BindEnv("logger.level", "TRACKER_LOG_LEVEL")
	_ = v.BindEnv("storage.dir", "TRACKER_STORAGE_DIR")
	_ = v.BindEnv("scheduler.interval", "TRACKER_INTERVAL")
	_ = v.BindEnv("fetcher.engine", "TRACKER_FETCH_ENGINE")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %s: %w", flags.ConfigPath, err)
	}

	if err := v.Unmarshal(&conf); err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	if flags.Interval > 0 {
		conf.Scheduler.Interval = flags.Interval
		conf.Scheduler.Cron = ""
	}

	if err := NewCnfValidator(&conf).Validate(); err != nil {
		return nil, err
	}

	conf.AppName = AppName
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode
	conf.Once = flags.Once

	return &conf, nil
}
