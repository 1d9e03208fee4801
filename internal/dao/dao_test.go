package dao

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"knoxshield/internal/models"
	apperrors "knoxshield/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryOperationDAO_ListNewestFirstAndCapped(t *testing.T) {
	d := NewMemoryOperationDAO()

	for i := 0; i < 60; i++ {
		op := &models.Operation{
			ID:        fmt.Sprintf("op-%d-knoxdeepscan", i),
			ToolID:    "knoxdeepscan",
			Status:    models.StatusRunning,
			CreatedAt: int64(1000 + i),
		}
		require.NoError(t, d.SaveOperation(op))
	}

	ops, err := d.ListOperations()
	require.NoError(t, err)
	assert.Len(t, ops, HistoryLimit)
	assert.Equal(t, "op-59-knoxdeepscan", ops[0].ID)
	assert.Equal(t, "op-10-knoxdeepscan", ops[len(ops)-1].ID)

	page, total, err := d.ListOperationsWithPagination(3, 25)
	require.NoError(t, err)
	assert.Equal(t, int64(60), total)
	assert.Len(t, page, 10)

	empty, _, err := d.ListOperationsWithPagination(10, 25)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestMemoryOperationDAO_CRUD(t *testing.T) {
	d := NewMemoryOperationDAO()
	op := &models.Operation{ID: "op-1-hashcrack", Logs: []string{"a"}}
	require.NoError(t, d.SaveOperation(op))
	assert.NotZero(t, op.CreatedAt)

	op.Logs = append(op.Logs, "b")
	got, err := d.GetOperation("op-1-hashcrack")
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, got.Logs)

	op.Status = models.StatusCompleted
	require.NoError(t, d.UpdateOperation(op))
	got, err = d.GetOperation("op-1-hashcrack")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, got.Status)
	assert.Equal(t, []string{"a", "b"}, got.Logs)

	require.NoError(t, d.DeleteOperation("op-1-hashcrack"))
	_, err = d.GetOperation("op-1-hashcrack")
	assert.ErrorIs(t, err, apperrors.ErrOperationNotFound)
	assert.ErrorIs(t, d.DeleteOperation("op-1-hashcrack"), apperrors.ErrOperationNotFound)
}

func TestMemoryServerDAO(t *testing.T) {
	d := NewMemoryServerDAO()
	now := time.Now()

	require.NoError(t, d.SaveServer(&models.VPNServer{ID: "1_home.conf", Name: "home", ImportDate: now}))
	require.NoError(t, d.SaveServer(&models.VPNServer{ID: "2_office.ovpn", Name: "office", ImportDate: now}))
	require.NoError(t, d.SaveServer(&models.VPNServer{ID: "1_home.conf", Name: "home-renamed", ImportDate: now}))

	servers, err := d.ListServers()
	require.NoError(t, err)
	require.Len(t, servers, 2)
	assert.Equal(t, "home-renamed", servers[0].Name)

	require.NoError(t, d.DeleteServer("1_home.conf"))
	_, err = d.GetServer("1_home.conf")
	assert.ErrorIs(t, err, apperrors.ErrServerNotFound)
	assert.ErrorIs(t, d.DeleteServer("missing"), apperrors.ErrServerNotFound)
}

func TestPreferenceDAOs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs", "preferences.json")

	tests := []struct {
		name string
		dao  func() PreferenceDAO
	}{
		{name: "memory", dao: NewMemoryPreferenceDAO},
		{name: "file", dao: func() PreferenceDAO { return NewFilePreferenceDAO(path) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := tt.dao()
			prefs, err := d.GetPreferences()
			require.NoError(t, err)
			assert.Empty(t, prefs)

			require.NoError(t, d.SetPreference(models.PrefLanguage, "ar"))
			require.NoError(t, d.SetPreference(models.PrefTheme, "light"))
			require.NoError(t, d.SetPreference(models.PrefTheme, "dark"))

			prefs, err = d.GetPreferences()
			require.NoError(t, err)
			assert.Equal(t, map[string]string{"language": "ar", "theme": "dark"}, prefs)
		})
	}

	reopened, err := NewFilePreferenceDAO(path).GetPreferences()
	require.NoError(t, err)
	assert.Equal(t, "ar", reopened[models.PrefLanguage])
}
