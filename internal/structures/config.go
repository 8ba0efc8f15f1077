package structures

import "time"

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1"`
}

type Persistence struct {
	FilePath     string        `yaml:"filePath" validate:"required|unixPath"`
	SaveInterval time.Duration `yaml:"saveInterval" validate:"required|min:1"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required|unixPath"`
}

type PromoConfig struct {
	Endpoint    string        `yaml:"endpoint" validate:"required|fullUrl"`
	Locale      string        `yaml:"locale"`
	Prefix      string        `yaml:"prefix" validate:"required"`
	Timeout     time.Duration `yaml:"timeout"`
	TemplateDir string        `yaml:"templateDir"`
	MaxBodySize int           `yaml:"maxBodySize" validate:"min:1024"`
}

type CacheConfig struct {
	Size int `yaml:"size" validate:"required|min:1"`
}

type OptionsConfig struct {
	Driver string `yaml:"driver" validate:"required|in:sqlite,pgx"`
	Dsn    string `yaml:"dsn" validate:"required"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type Config struct {
	AppName     string
	Debug       bool
	Path        string
	WebServer   Server        `yaml:"webServer"`
	Persistence Persistence   `yaml:"persistence"`
	Logger      LoggerConfig  `yaml:"logger"`
	Promo       PromoConfig   `yaml:"promo"`
	Cache       CacheConfig   `yaml:"cache"`
	Options     OptionsConfig `yaml:"options"`
	Metrics     MetricsConfig `yaml:"metrics"`
}
