package config

import (
	"fmt"
	"path/filepath"
	"time"

	"knoxshield/internal/utils"
	apperrors "knoxshield/pkg/errors"

	"github.com/spf13/viper"
)

const DefaultConfigName = "knoxshield"

// Version is overridden at build time with -ldflags "-X knoxshield/internal/config.Version=...".
var Version = "1.3.0"

type ServerConfig struct {
	Port        int
	IP          string
	CORSOrigins []string
}

type DatabaseConfig struct {
	Enabled  bool
	Host     string
	Port     int
	User     string
	Password string
	Name     string
}

// DSN is the postgres connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		d.Host, d.Port, d.User, d.Password, d.Name)
}

type EngineConfig struct {
	MaxConcurrent int
}

type VPNConfig struct {
	ScriptsDir             string
	ConfigsDir             string
	ImportDir              string
	MonitorInterval        time.Duration
	Interface              string
	// KillSwitchOnDisconnect blocks traffic after every disconnect.
	KillSwitchOnDisconnect bool
}

type VaultConfig struct {
	KeyFile    string
	Passphrase string
}

type AIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

type StorageConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
}

type DiscordConfig struct {
	Token     string
	ChannelID string
}

type UIConfig struct {
	Language string
	Theme    string
}

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Engine   EngineConfig
	DataDir  string
	VPN      VPNConfig
	Vault    VaultConfig
	AI       AIConfig
	Storage  StorageConfig
	Discord  DiscordConfig
	UI       UIConfig
}

// Defaults are applied before the config file and KNOX_* environment variables.
func Defaults() map[string]interface{} {
	return map[string]interface{}{
		"server.port":                   8080,
		"server.ip":                     "localhost",
		"server.cors_origins":           []string{"http://localhost:8080"},
		"database.enabled":              false,
		"database.host":                 "localhost",
		"database.port":                 5432,
		"database.user":                 "knoxshield",
		"database.password":             "knoxshield",
		"database.name":                 "knoxshield",
		"engine.max_concurrent":         8,
		"data_dir":                      "./data",
		"vpn.scripts_dir":               "./scripts",
		"vpn.configs_dir":               "",
		"vpn.import_dir":                "",
		"vpn.monitor_interval":          "5s",
		"vpn.interface":                 "",
		"vpn.kill_switch_on_disconnect": false,
		"vault.key_file":                "",
		"vault.passphrase":              "",
		"ai.api_key":                    "",
		"ai.base_url":                   "",
		"ai.model":                      "gpt-4o-mini",
		"storage.endpoint":              "",
		"storage.access_key":            "",
		"storage.secret_key":            "",
		"storage.bucket":                "knoxshield-reports",
		"storage.region":                "us-east-1",
		"storage.use_ssl":               false,
		"discord.token":                 "",
		"discord.channel_id":            "",
		"ui.language":                   "en",
		"ui.theme":                      "dark",
	}
}

// LoadConfig reads knoxshield.yaml from the usual search paths. A missing file is not an error.
func LoadConfig() (*Config, error) {
	v, err := utils.NewViperConfigWithOptions(utils.ConfigOptions{
		ConfigPath:  utils.GetConfigPath(),
		ConfigName:  DefaultConfigName,
		ConfigType:  "yaml",
		EnvPrefix:   "KNOX",
		DefaultsMap: Defaults(),
		Optional:    true,
	})
	if err != nil {
		return nil, err
	}
	return FromViper(v)
}

// FromViper builds and validates a Config. Relative VPN and vault paths live under data_dir.
func FromViper(v *viper.Viper) (*Config, error) {
	dataDir := v.GetString("data_dir")

	cfg := &Config{
		Server: ServerConfig{
			Port:        v.GetInt("server.port"),
			IP:          v.GetString("server.ip"),
			CORSOrigins: v.GetStringSlice("server.cors_origins"),
		},
		Database: DatabaseConfig{
			Enabled:  v.GetBool("database.enabled"),
			Host:     v.GetString("database.host"),
			Port:     v.GetInt("database.port"),
			User:     v.GetString("database.user"),
			Password: v.GetString("database.password"),
			Name:     v.GetString("database.name"),
		},
		Engine: EngineConfig{
			MaxConcurrent: v.GetInt("engine.max_concurrent"),
		},
		DataDir: dataDir,
		VPN: VPNConfig{
			ScriptsDir:             v.GetString("vpn.scripts_dir"),
			ConfigsDir:             orDefault(v.GetString("vpn.configs_dir"), filepath.Join(dataDir, "configs")),
			ImportDir:              v.GetString("vpn.import_dir"),
			MonitorInterval:        v.GetDuration("vpn.monitor_interval"),
			Interface:              v.GetString("vpn.interface"),
			KillSwitchOnDisconnect: v.GetBool("vpn.kill_switch_on_disconnect"),
		},
		Vault: VaultConfig{
			KeyFile:    orDefault(v.GetString("vault.key_file"), filepath.Join(dataDir, "vault.key")),
			Passphrase: v.GetString("vault.passphrase"),
		},
		AI: AIConfig{
			APIKey:  v.GetString("ai.api_key"),
			BaseURL: v.GetString("ai.base_url"),
			Model:   v.GetString("ai.model"),
		},
		Storage: StorageConfig{
			Endpoint:  v.GetString("storage.endpoint"),
			AccessKey: v.GetString("storage.access_key"),
			SecretKey: v.GetString("storage.secret_key"),
			Bucket:    v.GetString("storage.bucket"),
			Region:    v.GetString("storage.region"),
			UseSSL:    v.GetBool("storage.use_ssl"),
		},
		Discord: DiscordConfig{
			Token:     v.GetString("discord.token"),
			ChannelID: v.GetString("discord.channel_id"),
		},
		UI: UIConfig{
			Language: v.GetString("ui.language"),
			Theme:    v.GetString("ui.theme"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return apperrors.NewConfigError("server.port", c.Server.Port, "must be between 1 and 65535")
	}
	if c.Engine.MaxConcurrent < 1 {
		return apperrors.NewConfigError("engine.max_concurrent", c.Engine.MaxConcurrent, "must be at least 1")
	}
	if c.VPN.MonitorInterval <= 0 {
		return apperrors.NewConfigError("vpn.monitor_interval", c.VPN.MonitorInterval, "must be positive")
	}
	if c.UI.Language != "en" && c.UI.Language != "ar" {
		return apperrors.NewConfigError("ui.language", c.UI.Language, "must be en or ar")
	}
	if c.UI.Theme != "dark" && c.UI.Theme != "light" {
		return apperrors.NewConfigError("ui.theme", c.UI.Theme, "must be dark or light")
	}
	if c.DataDir == "" {
		return apperrors.NewConfigError("data_dir", c.DataDir, "must not be empty")
	}
	return nil
}

// ReportsDir is where finished operation reports are written.
func (c *Config) ReportsDir() string {
	return filepath.Join(c.DataDir, "reports")
}

// VPNLogFile is the on-disk copy of the VPN event log.
func (c *Config) VPNLogFile() string {
	return filepath.Join(c.DataDir, "vpn.log")
}

// ServersFile is the servers.json index kept next to the encrypted configs.
func (c *Config) ServersFile() string {
	return filepath.Join(c.VPN.ConfigsDir, "servers.json")
}

// PreferencesFile stores preferences when no database is configured.
func (c *Config) PreferencesFile() string {
	return filepath.Join(c.DataDir, "preferences.json")
}

func orDefault(v, def string) string {
	if v != "" {
		return v
	}
	return def
}
