package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	apperrors "knoxshield/pkg/errors"
	"knoxshield/pkg/logger"
)

var (
	safeFilename = regexp.MustCompile(`^[a-zA-Z0-9_\-./\\: ]+$`)

	allowedCommands = map[string]bool{
		"powershell.exe": true,
		"powershell":     true,
		"pwsh":           true,
		"sh":             true,
		"bash":           true,
		"cmd":            true,
		"python3":        true,
	}
)

// SimpleRunner executes platform scripts from a fixed directory.
type SimpleRunner struct {
	scriptsDir string
	goos       string
	logger     *logger.Logger
}

// NewSimpleRunner creates a runner resolving script names against scriptsDir.
func NewSimpleRunner(scriptsDir string, log *logger.Logger) *SimpleRunner {
	if log == nil {
		log = logger.Default()
	}
	return &SimpleRunner{
		scriptsDir: scriptsDir,
		goos:       runtime.GOOS,
		logger:     log,
	}
}

func (r *SimpleRunner) ScriptsDir() string {
	return r.scriptsDir
}

// ScriptPath returns the absolute path of a named script.
func (r *SimpleRunner) ScriptPath(script string) string {
	return filepath.Join(r.scriptsDir, filepath.Base(script))
}

// RunScript runs a named script from the scripts directory.
func (r *SimpleRunner) RunScript(ctx context.Context, script string, args ...string) (*Result, error) {
	path := r.ScriptPath(script)
	if _, err := os.Stat(path); err != nil {
		return nil, apperrors.NewMissingScriptError(path)
	}
	return r.Run(ctx, path, args)
}

// Run executes a command with automatic interpreter resolution for script files.
func (r *SimpleRunner) Run(ctx context.Context, command string, args []string) (*Result, error) {
	if err := r.validateCommand(command); err != nil {
		return nil, fmt.Errorf("invalid command: %w", err)
	}

	for i, arg := range args {
		if err := r.validateArgument(arg); err != nil {
			return nil, fmt.Errorf("invalid argument at index %d (%s): %w", i, arg, err)
		}
	}

	finalCommand, finalArgs := r.resolveInterpreter(command, args)

	if err := r.validateCommand(finalCommand); err != nil {
		return nil, fmt.Errorf("invalid resolved command: %w", err)
	}

	name := filepath.Base(command)
	r.logger.WithFields(logger.Fields{
		"script": name,
		"args":   args,
	}).Infof("Executing script: %s with args: %v", name, args)

	cmd := exec.CommandContext(ctx, finalCommand, finalArgs...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()

	exitCode := 0
	if runErr != nil {
		exitCode = -1
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
	}

	result := NewResult(name, stdout.String(), stderr.String(), exitCode)

	r.logger.WithFields(logger.Fields{
		"script":    name,
		"exit_code": exitCode,
	}).Infof("Script %s finished with exit code: %d", name, exitCode)

	if result.Stderr != "" {
		r.logger.WithFields(logger.Fields{
			"script": name,
			"stderr": result.Stderr,
		}).Warn("Script error output")
	}

	if runErr != nil {
		r.logger.WithError(runErr).Errorf("Script failed with exit code %d: %s", exitCode, result.Stderr)
		return result, apperrors.NewScriptError(name, exitCode, result.Stderr, runErr)
	}

	return result, nil
}

// validateCommand accepts whitelisted interpreters and existing, non-symlinked script files.
func (r *SimpleRunner) validateCommand(command string) error {
	if command == "" {
		return fmt.Errorf("command is empty")
	}

	if allowedCommands[command] {
		return nil
	}

	if strings.Contains(command, ".") {
		if !safeFilename.MatchString(command) {
			return fmt.Errorf("unsafe characters in command: %s", command)
		}

		fi, err := os.Lstat(command)
		if err != nil {
			return fmt.Errorf("command file does not exist: %w", err)
		}
		if fi.Mode()&os.ModeSymlink != 0 {
			return fmt.Errorf("command is a symlink: %s", command)
		}

		return nil
	}

	return fmt.Errorf("command not in whitelist: %s", command)
}

// validateArgument rejects shell metacharacters and path traversal.
func (r *SimpleRunner) validateArgument(arg string) error {
	if arg == "" {
		return nil
	}

	dangerous := []string{";", "&", "|", "`", "$", "(", ")", "\n", "\r", "<", ">"}
	for _, char := range dangerous {
		if strings.Contains(arg, char) {
			return fmt.Errorf("argument contains dangerous character: %s", char)
		}
	}

	if strings.Contains(arg, "..") {
		return fmt.Errorf("path traversal detected in argument")
	}

	return nil
}

// resolveInterpreter picks the interpreter for a script based on its extension.
func (r *SimpleRunner) resolveInterpreter(command string, args []string) (string, []string) {
	switch filepath.Ext(command) {
	case ".ps1":
		if r.goos == "windows" {
			return "powershell.exe", append([]string{
				"-ExecutionPolicy", "Bypass",
				"-NoProfile",
				"-WindowStyle", "Hidden",
				"-File", command,
			}, args...)
		}
		return "pwsh", append([]string{"-NoProfile", "-File", command}, args...)
	case ".sh":
		if r.goos == "windows" {
			return "bash", append([]string{command}, args...)
		}
		return "sh", append([]string{command}, args...)
	case ".bat", ".cmd":
		if r.goos == "windows" {
			return "cmd", append([]string{"/c", command}, args...)
		}
		return "sh", append([]string{command}, args...)
	case ".py":
		return "python3", append([]string{command}, args...)
	}

	return command, args
}
