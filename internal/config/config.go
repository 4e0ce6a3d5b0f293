package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/viper"
)

type ServerConfig struct {
	Address string `mapstructure:"address"`
	Port    int    `mapstructure:"port"`
	Mode    string `mapstructure:"mode"`
	Debug   bool   `mapstructure:"debug"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	PageSize    int    `mapstructure:"page_size"`
}

type DatabaseConfig struct {
	URL     string `mapstructure:"url"`
	LogMode bool   `mapstructure:"log_mode"`
}

type UploadConfig struct {
	Dir               string   `mapstructure:"dir"`
	MaxSize           int64    `mapstructure:"max_size"`
	AllowedExtensions []string `mapstructure:"allowed_extensions"`
}

type CORSConfig struct {
	Origins []string `mapstructure:"origins"`
}

type StaticConfig struct {
	Dir string `mapstructure:"dir"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type BackupConfig struct {
	Dir string `mapstructure:"dir"`
	Key string `mapstructure:"key"`
}

// Config is resolved once at startup and never mutated afterwards.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	App      AppConfig      `mapstructure:"app"`
	Database DatabaseConfig `mapstructure:"database"`
	Upload   UploadConfig   `mapstructure:"upload"`
	CORS     CORSConfig     `mapstructure:"cors"`
	Static   StaticConfig   `mapstructure:"static"`
	Log      LogConfig      `mapstructure:"log"`
	Backup   BackupConfig   `mapstructure:"backup"`
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}

// IsProduction reports whether the app runs in the production environment.
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", "0.0.0.0")
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.mode", "")
	v.SetDefault("server.debug", false)

	v.SetDefault("app.name", "Life Record")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.page_size", 10)

	v.SetDefault("database.url", "data/life_records.db")
	v.SetDefault("database.log_mode", false)

	v.SetDefault("upload.dir", "uploads")
	v.SetDefault("upload.max_size", 16*1024*1024)
	v.SetDefault("upload.allowed_extensions", []string{"png", "jpg", "jpeg", "gif", "pdf", "txt"})

	v.SetDefault("cors.origins", []string{"*"})
	v.SetDefault("static.dir", "./web/static")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("backup.dir", "data/backups")
	v.SetDefault("backup.key", "")
}

// Load reads configuration from the given yaml file (missing file is fine)
// and applies environment overrides, e.g. LIFELOG_UPLOAD_DIR=/srv/uploads.
// DATABASE_URL, PORT and CORS_ORIGINS are honoured without the prefix.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path == "" {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	} else {
		v.SetConfigFile(path)
	}

	v.SetEnvPrefix("LIFELOG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// platform-provided variables
	_ = v.BindEnv("database.url", "LIFELOG_DATABASE_URL", "DATABASE_URL")
	_ = v.BindEnv("server.port", "LIFELOG_SERVER_PORT", "PORT")
	_ = v.BindEnv("cors.origins", "LIFELOG_CORS_ORIGINS", "CORS_ORIGINS")
	_ = v.BindEnv("app.environment", "LIFELOG_APP_ENVIRONMENT", "APP_ENV")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !isMissingFile(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	normalize(&c)
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func isMissingFile(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

func normalize(c *Config) {
	if strings.HasPrefix(c.Database.URL, "postgres://") {
		c.Database.URL = strings.Replace(c.Database.URL, "postgres://", "postgresql://", 1)
	}
	c.Database.URL = strings.TrimPrefix(c.Database.URL, "sqlite:///")

	// env values arrive as a single comma separated string
	c.CORS.Origins = splitList(c.CORS.Origins)
	c.Upload.AllowedExtensions = splitList(c.Upload.AllowedExtensions)
	for i, ext := range c.Upload.AllowedExtensions {
		c.Upload.AllowedExtensions[i] = strings.ToLower(strings.TrimPrefix(ext, "."))
	}

	if c.App.PageSize <= 0 {
		c.App.PageSize = 10
	}
	// server.debug 在生产环境也能打开 gin 的 debug 模式
	if c.Server.Mode == "" {
		if c.Server.Debug || !c.IsProduction() {
			c.Server.Mode = "debug"
		} else {
			c.Server.Mode = "release"
		}
	}
	if len(c.CORS.Origins) == 0 {
		c.CORS.Origins = []string{"*"}
	}
}

func splitList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, item := range in {
		for _, p := range strings.Split(item, ",") {
			p = strings.TrimSpace(p)
			if p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

func (c *Config) validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("database.url is empty")
	}
	if c.Upload.Dir == "" {
		return fmt.Errorf("upload.dir is empty")
	}
	if c.Upload.MaxSize <= 0 {
		return fmt.Errorf("upload.max_size must be positive, got %d", c.Upload.MaxSize)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	return nil
}
