package config

import (
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

const (
	ProfileSymbol = "symbol"
	ProfileStatus = "status"
)

// DBConfig Database config
type DBConfig struct {
	Type     string `yaml:"type"` // postgres or sqlite
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Passwd   string `yaml:"passwd"`
	SSLMode  string `yaml:"sslmode"`
	MaxConn  int    `yaml:"max_conn"`
	IdleConn int    `yaml:"idle_conn"`
	Debug    bool   `yaml:"debug"`
}

// DSN returns the postgres connection string
func (c DBConfig) DSN() string {
	sslmode := c.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Passwd, c.Name, sslmode)
}

// SysConfig System config
type SysConfig struct {
	Appid           string `yaml:"appid"`
	Location        string `yaml:"location"`
	Workdir         string `yaml:"workdir"`
	Debug           bool   `yaml:"debug"`
	MonitorInterval string `yaml:"monitor_interval"` // cron spec, e.g. "@every 60s"; empty disables
}

// WebConfig Web config
type WebConfig struct {
	Host         string `yaml:"host"`
	Port         int    `yaml:"port"`
	ApiPrefix    string `yaml:"api_prefix"`
	BodyLimit    string `yaml:"body_limit"`
	ReadTimeout  int    `yaml:"read_timeout"`  // seconds
	WriteTimeout int    `yaml:"write_timeout"` // seconds
	NodeId       int64  `yaml:"node_id"`       // snowflake node for request ids
}

// Addr returns the listen address
func (c WebConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type LogConfig struct {
	Mode       string `yaml:"mode"` // development or production
	FileEnable bool   `yaml:"file_enable"`
	Filename   string `yaml:"filename"`
}

// CatalogConfig selects the field-set profile of the product table
type CatalogConfig struct {
	Profile  string `yaml:"profile"` // symbol or status
	SeedDemo bool   `yaml:"seed_demo"`
}

type AppConfig struct {
	System   SysConfig     `yaml:"system"`
	Web      WebConfig     `yaml:"web"`
	Database DBConfig      `yaml:"database"`
	Logger   LogConfig     `yaml:"logger"`
	Catalog  CatalogConfig `yaml:"catalog"`
}

func (c *AppConfig) GetLogDir() string {
	return path.Join(c.System.Workdir, "logs")
}

func (c *AppConfig) GetDataDir() string {
	return path.Join(c.System.Workdir, "data")
}

var DefaultAppConfig = &AppConfig{
	System: SysConfig{
		Appid:           "TradeCatalog",
		Location:        "UTC",
		Workdir:         "/var/tradecatalog",
		Debug:           false,
		MonitorInterval: "@every 60s",
	},
	Web: WebConfig{
		Host:         "0.0.0.0",
		Port:         8080,
		BodyLimit:    "1M",
		ReadTimeout:  30,
		WriteTimeout: 30,
		NodeId:       1,
	},
	Database: DBConfig{
		Type:     "postgres",
		Host:     "127.0.0.1",
		Port:     5432,
		Name:     "tradecatalog",
		User:     "postgres",
		Passwd:   "postgres",
		MaxConn:  100,
		IdleConn: 10,
	},
	Logger: LogConfig{
		Mode:       "development",
		FileEnable: false,
		Filename:   "/var/tradecatalog/logs/tradecatalog.log",
	},
	Catalog: CatalogConfig{
		Profile:  ProfileSymbol,
		SeedDemo: false,
	},
}

// LoadConfig reads the yaml file when it exists, then applies env overrides.
// An empty cfile yields the defaults plus env overrides.
func LoadConfig(cfile string) (*AppConfig, error) {
	cfg := *DefaultAppConfig
	if cfile != "" {
		data, err := os.ReadFile(cfile)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", cfile, err)
			}
		case !os.IsNotExist(err):
			return nil, fmt.Errorf("read config %s: %w", cfile, err)
		}
	}
	applyEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that would otherwise fail late at startup
func (c *AppConfig) Validate() error {
	c.Catalog.Profile = strings.ToLower(strings.TrimSpace(c.Catalog.Profile))
	switch c.Catalog.Profile {
	case ProfileSymbol, ProfileStatus:
	case "":
		c.Catalog.Profile = ProfileSymbol
	default:
		return fmt.Errorf("unsupported catalog profile %q", c.Catalog.Profile)
	}
	switch c.Database.Type {
	case "postgres", "sqlite":
	case "":
		c.Database.Type = "postgres"
	default:
		return fmt.Errorf("unsupported database type %q", c.Database.Type)
	}
	if c.Web.Port <= 0 || c.Web.Port > 65535 {
		return fmt.Errorf("invalid web port %d", c.Web.Port)
	}
	return nil
}

func setEnvValue(name string, val *string) {
	if v := os.Getenv(name); v != "" {
		*val = v
	}
}

func setEnvBoolValue(name string, val *bool) {
	if v := os.Getenv(name); v != "" {
		*val = cast.ToBool(v)
	}
}

func setEnvIntValue(name string, val *int) {
	if v := os.Getenv(name); v != "" {
		*val = cast.ToInt(v)
	}
}

func setEnvInt64Value(name string, val *int64) {
	if v := os.Getenv(name); v != "" {
		*val = cast.ToInt64(v)
	}
}

func applyEnv(cfg *AppConfig) {
	setEnvValue("TRADECATALOG_SYSTEM_WORKER_DIR", &cfg.System.Workdir)
	setEnvValue("TRADECATALOG_SYSTEM_LOCATION", &cfg.System.Location)
	setEnvValue("TRADECATALOG_SYSTEM_MONITOR_INTERVAL", &cfg.System.MonitorInterval)
	setEnvBoolValue("TRADECATALOG_SYSTEM_DEBUG", &cfg.System.Debug)

	setEnvValue("TRADECATALOG_WEB_HOST", &cfg.Web.Host)
	setEnvIntValue("TRADECATALOG_WEB_PORT", &cfg.Web.Port)
	setEnvValue("TRADECATALOG_WEB_API_PREFIX", &cfg.Web.ApiPrefix)
	setEnvInt64Value("TRADECATALOG_WEB_NODE_ID", &cfg.Web.NodeId)

	setEnvValue("TRADECATALOG_DB_TYPE", &cfg.Database.Type)
	setEnvValue("TRADECATALOG_DB_HOST", &cfg.Database.Host)
	setEnvIntValue("TRADECATALOG_DB_PORT", &cfg.Database.Port)
	setEnvValue("TRADECATALOG_DB_NAME", &cfg.Database.Name)
	setEnvValue("TRADECATALOG_DB_USER", &cfg.Database.User)
	setEnvValue("TRADECATALOG_DB_PWD", &cfg.Database.Passwd)
	setEnvValue("TRADECATALOG_DB_SSLMODE", &cfg.Database.SSLMode)
	setEnvIntValue("TRADECATALOG_DB_MAX_CONN", &cfg.Database.MaxConn)
	setEnvBoolValue("TRADECATALOG_DB_DEBUG", &cfg.Database.Debug)

	setEnvValue("TRADECATALOG_LOGGER_MODE", &cfg.Logger.Mode)
	setEnvBoolValue("TRADECATALOG_LOGGER_FILE_ENABLE", &cfg.Logger.FileEnable)
	setEnvValue("TRADECATALOG_LOGGER_FILENAME", &cfg.Logger.Filename)

	setEnvValue("TRADECATALOG_CATALOG_PROFILE", &cfg.Catalog.Profile)
	setEnvBoolValue("TRADECATALOG_CATALOG_SEED_DEMO", &cfg.Catalog.SeedDemo)
}
