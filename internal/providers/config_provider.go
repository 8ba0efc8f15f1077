package providers

import (
	"fmt"
	"github.com/spf13/viper"
	"path/filepath"
	"promod/internal/structures"
	"strings"
	"time"
)

const (
	DefaultEndpoint = "https://www.schweizersolutions.com/wordpress.org/?p=opt-out-for-google-analytics"
	DefaultPrefix   = "gaoo_"
	DefaultLocale   = "en_US"
)

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	v := viper.New()
	filename := filepath.Base(flags.ConfigPath)
	v.AddConfigPath(filepath.Dir(flags.ConfigPath))
	v.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	v.SetConfigType("yaml")

	v.SetDefault("promo.endpoint", DefaultEndpoint)
	v.SetDefault("promo.prefix", DefaultPrefix)
	v.SetDefault("promo.locale", DefaultLocale)
	v.SetDefault("promo.timeout", 10*time.Second)
	v.SetDefault("promo.maxBodySize", DefaultMaxBodySize)
	v.SetDefault("cache.size", 8)
	v.SetDefault("options.driver", "sqlite")
	v.SetDefault("logger.mode", 0644)

	v.BindEnv("logger.level", "PROMOD_LOG_LEVEL")
	v.BindEnv("promo.endpoint", "PROMOD_ENDPOINT")
	v.BindEnv("promo.locale", "PROMOD_LOCALE")
	v.BindEnv("options.driver", "PROMOD_OPTIONS_DRIVER")
	v.BindEnv("options.dsn", "PROMOD_OPTIONS_DSN")
	v.BindEnv("cache.size", "PROMOD_CACHE_SIZE")

	err := v.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = v.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = "PromoDaemon"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
