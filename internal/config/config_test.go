package config

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	apperrors "knoxshield/pkg/errors"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViper(overrides map[string]interface{}) *viper.Viper {
	v := viper.New()
	for k, val := range Defaults() {
		v.SetDefault(k, val)
	}
	for k, val := range overrides {
		v.Set(k, val)
	}
	return v
}

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := FromViper(newViper(nil))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.False(t, cfg.Database.Enabled)
	assert.Equal(t, 8, cfg.Engine.MaxConcurrent)
	assert.Equal(t, 5*time.Second, cfg.VPN.MonitorInterval)
	assert.Equal(t, filepath.Join("./data", "configs"), cfg.VPN.ConfigsDir)
	assert.Equal(t, filepath.Join("./data", "vault.key"), cfg.Vault.KeyFile)
	assert.Equal(t, filepath.Join("./data", "reports"), cfg.ReportsDir())
	assert.Equal(t, filepath.Join("./data", "configs", "servers.json"), cfg.ServersFile())
	assert.Equal(t, filepath.Join("./data", "preferences.json"), cfg.PreferencesFile())
	assert.Equal(t, "en", cfg.UI.Language)
	assert.Equal(t, "dark", cfg.UI.Theme)
	assert.False(t, cfg.VPN.KillSwitchOnDisconnect)
	assert.Equal(t, "host=localhost port=5432 user=knoxshield password=knoxshield dbname=knoxshield sslmode=disable", cfg.Database.DSN())
}

func TestFromViper_Validation(t *testing.T) {
	tests := []struct {
		name      string
		overrides map[string]interface{}
		field     string
	}{
		{name: "bad port", overrides: map[string]interface{}{"server.port": 0}, field: "server.port"},
		{name: "no slots", overrides: map[string]interface{}{"engine.max_concurrent": 0}, field: "engine.max_concurrent"},
		{name: "bad interval", overrides: map[string]interface{}{"vpn.monitor_interval": "0s"}, field: "vpn.monitor_interval"},
		{name: "bad language", overrides: map[string]interface{}{"ui.language": "fr"}, field: "ui.language"},
		{name: "bad theme", overrides: map[string]interface{}{"ui.theme": "blue"}, field: "ui.theme"},
		{name: "empty data dir", overrides: map[string]interface{}{"data_dir": ""}, field: "data_dir"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromViper(newViper(tt.overrides))
			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrInvalidConfig)

			var cfgErr *apperrors.ConfigError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, tt.field, cfgErr.Field)
		})
	}
}

func TestFromViper_ExplicitPaths(t *testing.T) {
	cfg, err := FromViper(newViper(map[string]interface{}{
		"data_dir":            "/var/lib/knox",
		"vpn.configs_dir":     "/srv/configs",
		"vault.key_file":      "/etc/knox/key",
		"ui.language":         "ar",
		"server.cors_origins": []string{"http://a", "http://b"},
	}))
	require.NoError(t, err)
	assert.Equal(t, "/srv/configs", cfg.VPN.ConfigsDir)
	assert.Equal(t, "/etc/knox/key", cfg.Vault.KeyFile)
	assert.Equal(t, "/var/lib/knox/vpn.log", cfg.VPNLogFile())
	assert.Equal(t, []string{"http://a", "http://b"}, cfg.Server.CORSOrigins)
}
