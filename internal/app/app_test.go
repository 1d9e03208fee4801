package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"knoxshield/internal/config"
	"knoxshield/internal/services"
	"knoxshield/pkg/logger"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	v := viper.New()
	for k, val := range config.Defaults() {
		v.SetDefault(k, val)
	}
	v.Set("data_dir", t.TempDir())
	v.Set("ui.language", "ar")
	cfg, err := config.FromViper(v)
	require.NoError(t, err)
	return cfg
}

func TestNew_LocalStack(t *testing.T) {
	cfg := testConfig(t)
	ctx := context.Background()

	a, err := New(ctx, cfg, logger.NewDiscardLogger(), Options{})
	require.NoError(t, err)
	defer a.Close(ctx)

	assert.NotEmpty(t, a.Catalog.Categories("en"))
	assert.False(t, a.AI.Available())
	assert.Equal(t, "ar", a.Preferences.Language())
	require.NotNil(t, a.VPN)

	_, err = a.Preferences.SetTheme(services.ThemeLight)
	require.NoError(t, err)
	_, err = os.Stat(cfg.PreferencesFile())
	assert.NoError(t, err)

	_, err = os.Stat(cfg.Vault.KeyFile)
	assert.NoError(t, err, "vault key is created on first start")
	assert.Equal(t, filepath.Join(cfg.DataDir, "vault.key"), cfg.Vault.KeyFile)
}

func TestNew_KillSwitchOnDisconnectReachesVPN(t *testing.T) {
	cfg := testConfig(t)
	assert.False(t, cfg.VPN.KillSwitchOnDisconnect)

	v := viper.New()
	for k, val := range config.Defaults() {
		v.SetDefault(k, val)
	}
	v.Set("data_dir", t.TempDir())
	v.Set("vpn.kill_switch_on_disconnect", true)
	cfg, err := config.FromViper(v)
	require.NoError(t, err)
	require.True(t, cfg.VPN.KillSwitchOnDisconnect)

	ctx := context.Background()
	a, err := New(ctx, cfg, logger.NewDiscardLogger(), Options{})
	require.NoError(t, err)
	defer a.Close(ctx)

	require.NotNil(t, a.VPN)
	assert.True(t, a.VPN.InitialData().Settings.KillSwitchOnDisconnect)
}

func TestNew_WithoutVPN(t *testing.T) {
	ctx := context.Background()
	a, err := New(ctx, testConfig(t), logger.NewDiscardLogger(), Options{WithoutVPN: true})
	require.NoError(t, err)
	defer a.Close(ctx)

	assert.Nil(t, a.VPN)
	assert.Equal(t, 0, a.Operations.Stats().Total)
}
