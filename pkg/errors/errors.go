package errors

import (
	"errors"
	"fmt"
)

var (
	ErrToolNotFound         = errors.New("tool not found")
	ErrCategoryNotFound     = errors.New("category not found")
	ErrOperationNotFound    = errors.New("operation not found")
	ErrInvalidParams        = errors.New("invalid operation parameters")
	ErrInvalidAction        = errors.New("invalid operation action")
	ErrInvalidState         = errors.New("invalid state for requested action")
	ErrInvalidConfig        = errors.New("invalid configuration")
	ErrServerNotFound       = errors.New("vpn server not found")
	ErrUnsupportedConfig    = errors.New("unsupported vpn config file")
	ErrScriptNotFound       = errors.New("script not found")
	ErrAIUnavailable        = errors.New("ai client not configured")
	ErrDecrypt              = errors.New("failed to decrypt vault payload")
	ErrStorageNotConfigured = errors.New("object storage not configured")
	ErrDiscordNotConfigured = errors.New("discord client not configured")
)

// ScriptError carries the outcome of a failed platform script.
type ScriptError struct {
	Script   string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *ScriptError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("script %s failed with exit code %d: %s", e.Script, e.ExitCode, e.Stderr)
	}
	return fmt.Sprintf("script %s failed with exit code %d: %v", e.Script, e.ExitCode, e.Err)
}

func (e *ScriptError) Unwrap() error {
	return e.Err
}

func NewScriptError(script string, exitCode int, stderr string, err error) *ScriptError {
	return &ScriptError{
		Script:   script,
		ExitCode: exitCode,
		Stderr:   stderr,
		Err:      err,
	}
}

// MissingScriptError names the script path that was not on disk.
type MissingScriptError struct {
	Path string
}

func (e *MissingScriptError) Error() string {
	return fmt.Sprintf("%s: %s", ErrScriptNotFound, e.Path)
}

func (e *MissingScriptError) Unwrap() error {
	return ErrScriptNotFound
}

func NewMissingScriptError(path string) *MissingScriptError {
	return &MissingScriptError{Path: path}
}

type ParamError struct {
	Label   string
	Message string
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("parameter %q: %s", e.Label, e.Message)
}

func (e *ParamError) Unwrap() error {
	return ErrInvalidParams
}

func NewParamError(label, message string) *ParamError {
	return &ParamError{Label: label, Message: message}
}

type ConfigError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error for field %s (value: %v): %s", e.Field, e.Value, e.Message)
}

func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfig
}

func NewConfigError(field string, value interface{}, message string) *ConfigError {
	return &ConfigError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}
