package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Database struct {
	URL          string `mapstructure:"url"`
	User         string `mapstructure:"user"`
	Password     string `mapstructure:"password"`
	PasswordFile string `mapstructure:"password_file"`
	Host         string `mapstructure:"host"`
	Port         uint16 `mapstructure:"port"`
	Name         string `mapstructure:"name"`
	SSLMode      string `mapstructure:"sslmode"`
}

type Log struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

type Tickets struct {
	Secret   string        `mapstructure:"secret"`
	Lifetime time.Duration `mapstructure:"lifetime"`
}

// DefaultMaxCells caps rows*cols of boards created over the network.
const DefaultMaxCells = 10_000

type Game struct {
	MaxCells int `mapstructure:"max_cells"`
}

type Sessions struct {
	TTL           time.Duration `mapstructure:"ttl"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
}

type Config struct {
	Mode     string   `mapstructure:"mode"`
	Addr     string   `mapstructure:"addr"`
	BasePath string   `mapstructure:"base_path"`
	Database Database `mapstructure:"database"`
	Log      Log      `mapstructure:"log"`
	Game     Game     `mapstructure:"game"`
	Tickets  Tickets  `mapstructure:"tickets"`
	Sessions Sessions `mapstructure:"sessions"`
}

// New returns a viper instance with defaults set that also reads
// SWEEPER_* environment variables, e.g. SWEEPER_DATABASE_URL.
func New() *viper.Viper {
	v := viper.New()

	v.SetDefault("mode", "development")
	v.SetDefault("addr", ":8080")
	v.SetDefault("base_path", "")
	v.SetDefault("database.url", "")
	v.SetDefault("database.user", "")
	v.SetDefault("database.password", "")
	v.SetDefault("database.password_file", "")
	v.SetDefault("database.host", "")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("log.level", "")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 50)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 28)
	v.SetDefault("game.max_cells", DefaultMaxCells)
	v.SetDefault("tickets.secret", "")
	v.SetDefault("tickets.lifetime", 24*time.Hour)
	v.SetDefault("sessions.ttl", time.Hour)
	v.SetDefault("sessions.sweep_interval", time.Minute)

	v.SetEnvPrefix("sweeper")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// Load reads the optional config file at path and decodes the result.
func Load(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("unable to read config %s: %w", path, err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unable to parse config: %w", err)
	}

	if c.Production() && c.Tickets.Secret == "" {
		return nil, fmt.Errorf("tickets.secret must be set in production")
	}

	return &c, nil
}

func (c Config) Production() bool {
	return c.Mode == "production"
}

func (c Config) Development() bool {
	return c.Mode != "production"
}

func (c Config) Fields() logrus.Fields {
	return map[string]any{
		"mode":                    c.Mode,
		"addr":                    c.Addr,
		"base_path":               c.BasePath,
		"db_enabled":              c.Database.Enabled(),
		"db_host":                 c.Database.Host,
		"db_port":                 c.Database.Port,
		"db_name":                 c.Database.Name,
		"log_level":               c.Log.Level,
		"log_file":                c.Log.File,
		"game_max_cells":          c.Game.MaxCells,
		"tickets_lifetime":        c.Tickets.Lifetime.String(),
		"sessions_ttl":            c.Sessions.TTL.String(),
		"sessions_sweep_interval": c.Sessions.SweepInterval.String(),
	}
}

func (d Database) Enabled() bool {
	return d.URL != "" || d.Host != ""
}

func (d Database) loadPassword() (string, error) {
	if d.Password != "" || d.PasswordFile == "" {
		return d.Password, nil
	}
	data, err := os.ReadFile(d.PasswordFile)
	if err != nil {
		return "", fmt.Errorf("unable to read from password file: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// ConnString prefers database.url and otherwise assembles a postgres URL
// from the individual settings.
func (d Database) ConnString() (string, error) {
	if d.URL != "" {
		return d.URL, nil
	}
	if d.Host == "" {
		return "", fmt.Errorf("no database url or host configured")
	}
	password, err := d.loadPassword()
	if err != nil {
		return "", err
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.User(d.User),
		Host:   net.JoinHostPort(d.Host, strconv.Itoa(int(d.Port))),
		Path:   "/" + d.Name,
	}
	if password != "" {
		u.User = url.UserPassword(d.User, password)
	}
	if d.SSLMode != "" {
		u.RawQuery = url.Values{"sslmode": {d.SSLMode}}.Encode()
	}
	return u.String(), nil
}
