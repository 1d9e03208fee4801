package runner

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	apperrors "knoxshield/pkg/errors"
	"knoxshield/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0755))
	return path
}

func skipOnWindows(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not run on windows")
	}
}

func TestSimpleRunner_RunScript(t *testing.T) {
	skipOnWindows(t)
	dir := t.TempDir()

	writeScript(t, dir, "status.sh", "#!/bin/sh\necho '{\"connected\": true, \"ip\": \"10.0.0.2\"}'\n")
	writeScript(t, dir, "plain.sh", "#!/bin/sh\necho \"  hello $1  \"\n")
	writeScript(t, dir, "list.sh", "#!/bin/sh\necho '[1, 2, 3]'\n")
	writeScript(t, dir, "broken.sh", "#!/bin/sh\necho '{not json'\n")
	writeScript(t, dir, "fail.sh", "#!/bin/sh\necho 'access denied' >&2\nexit 3\n")

	r := NewSimpleRunner(dir, logger.NewDiscardLogger())
	ctx := context.Background()

	t.Run("json object", func(t *testing.T) {
		res, err := r.RunScript(ctx, "status.sh")
		require.NoError(t, err)
		assert.True(t, res.IsJSON())

		var status struct {
			Connected bool   `json:"connected"`
			IP        string `json:"ip"`
		}
		require.NoError(t, res.Decode(&status))
		assert.True(t, status.Connected)
		assert.Equal(t, "10.0.0.2", status.IP)
	})

	t.Run("plain text is trimmed", func(t *testing.T) {
		res, err := r.RunScript(ctx, "plain.sh", "world")
		require.NoError(t, err)
		assert.False(t, res.IsJSON())
		assert.Equal(t, "hello world", res.Stdout)
		assert.Error(t, res.Decode(&struct{}{}))
	})

	t.Run("json array", func(t *testing.T) {
		res, err := r.RunScript(ctx, "list.sh")
		require.NoError(t, err)
		assert.Equal(t, []interface{}{1.0, 2.0, 3.0}, res.Data)
	})

	t.Run("malformed json stays text", func(t *testing.T) {
		res, err := r.RunScript(ctx, "broken.sh")
		require.NoError(t, err)
		assert.False(t, res.IsJSON())
		assert.Equal(t, "{not json", res.Stdout)
	})

	t.Run("non-zero exit", func(t *testing.T) {
		res, err := r.RunScript(ctx, "fail.sh")
		require.Error(t, err)

		var scriptErr *apperrors.ScriptError
		require.True(t, errors.As(err, &scriptErr))
		assert.Equal(t, 3, scriptErr.ExitCode)
		assert.Equal(t, "access denied", scriptErr.Stderr)
		assert.Equal(t, 3, res.ExitCode)
	})

	t.Run("missing script", func(t *testing.T) {
		_, err := r.RunScript(ctx, "connect_vpn.ps1")
		assert.True(t, errors.Is(err, apperrors.ErrScriptNotFound))

		var missing *apperrors.MissingScriptError
		require.True(t, errors.As(err, &missing))
		assert.Equal(t, r.ScriptPath("connect_vpn.ps1"), missing.Path)
	})

	t.Run("dangerous argument", func(t *testing.T) {
		_, err := r.RunScript(ctx, "plain.sh", "x; rm -rf /")
		assert.Error(t, err)
	})
}

func TestSimpleRunner_ResolveInterpreter(t *testing.T) {
	tests := []struct {
		name         string
		goos         string
		command      string
		args         []string
		expectedCmd  string
		expectedArgs []string
	}{
		{
			name:        "powershell on windows",
			goos:        "windows",
			command:     `C:\knox\scripts\connect_vpn.ps1`,
			args:        []string{`C:\Temp\home.conf`},
			expectedCmd: "powershell.exe",
			expectedArgs: []string{
				"-ExecutionPolicy", "Bypass", "-NoProfile", "-WindowStyle", "Hidden",
				"-File", `C:\knox\scripts\connect_vpn.ps1`, `C:\Temp\home.conf`,
			},
		},
		{
			name:         "powershell core elsewhere",
			goos:         "linux",
			command:      "/opt/knox/toggle_killswitch.ps1",
			args:         []string{"DisableInternet"},
			expectedCmd:  "pwsh",
			expectedArgs: []string{"-NoProfile", "-File", "/opt/knox/toggle_killswitch.ps1", "DisableInternet"},
		},
		{
			name:         "shell script",
			goos:         "linux",
			command:      "/opt/knox/status.sh",
			expectedCmd:  "sh",
			expectedArgs: []string{"/opt/knox/status.sh"},
		},
		{
			name:         "batch file on windows",
			goos:         "windows",
			command:      "status.bat",
			expectedCmd:  "cmd",
			expectedArgs: []string{"/c", "status.bat"},
		},
		{
			name:         "plain command untouched",
			goos:         "linux",
			command:      "pwsh",
			args:         []string{"-Version"},
			expectedCmd:  "pwsh",
			expectedArgs: []string{"-Version"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &SimpleRunner{goos: tt.goos, logger: logger.NewDiscardLogger()}
			cmd, args := r.resolveInterpreter(tt.command, tt.args)
			assert.Equal(t, tt.expectedCmd, cmd)
			assert.Equal(t, tt.expectedArgs, args)
		})
	}
}

func TestSimpleRunner_Validation(t *testing.T) {
	r := NewSimpleRunner(t.TempDir(), logger.NewDiscardLogger())

	argTests := []struct {
		arg     string
		wantErr bool
	}{
		{"", false},
		{"DisableInternet", false},
		{`C:\Users\Admin\AppData\Local\Temp\knox-1-home.conf`, false},
		{"a && b", true},
		{"$(whoami)", true},
		{"`id`", true},
		{"../../etc/passwd", true},
		{"line\nbreak", true},
	}
	for _, tt := range argTests {
		err := r.validateArgument(tt.arg)
		assert.Equal(t, tt.wantErr, err != nil, "arg %q", tt.arg)
	}

	assert.Error(t, r.validateCommand(""))
	assert.Error(t, r.validateCommand("rm"))
	assert.NoError(t, r.validateCommand("pwsh"))
	assert.Error(t, r.validateCommand("/does/not/exist.ps1"))
	assert.Error(t, r.validateCommand("/tmp/evil;name.ps1"))
}

func TestNewResult(t *testing.T) {
	res := NewResult("get_external_ip.ps1", "  203.0.113.7\r\n", "", 0)
	assert.Equal(t, "203.0.113.7", res.Stdout)
	assert.Nil(t, res.Data)

	res = NewResult("get_network_stats.ps1", `{"bytesReceived": 1024}`, "", 0)
	require.True(t, res.IsJSON())
	assert.Equal(t, map[string]interface{}{"bytesReceived": 1024.0}, res.Data)
}
