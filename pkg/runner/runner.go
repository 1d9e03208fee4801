package runner

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// ScriptRunner runs a platform script by name and returns its output.
type ScriptRunner interface {
	RunScript(ctx context.Context, script string, args ...string) (*Result, error)
}

// Result is the captured outcome of one script invocation.
type Result struct {
	Script   string
	Stdout   string
	Stderr   string
	ExitCode int
	// Data holds the decoded stdout when it looks like a JSON object or array.
	Data interface{}
}

func (r *Result) IsJSON() bool {
	return r != nil && r.Data != nil
}

// Decode unmarshals JSON stdout into v.
func (r *Result) Decode(v interface{}) error {
	if r == nil || !looksLikeJSON(r.Stdout) {
		return fmt.Errorf("script output is not JSON")
	}
	return json.Unmarshal([]byte(r.Stdout), v)
}

func looksLikeJSON(s string) bool {
	return strings.HasPrefix(s, "{") || strings.HasPrefix(s, "[")
}

// NewResult trims stdout and decodes it when it is JSON. Output that starts
// like JSON but fails to parse is kept as plain text.
func NewResult(script, stdout, stderr string, exitCode int) *Result {
	res := &Result{
		Script:   script,
		Stdout:   strings.TrimSpace(stdout),
		Stderr:   strings.TrimSpace(stderr),
		ExitCode: exitCode,
	}
	if looksLikeJSON(res.Stdout) {
		var data interface{}
		if err := json.Unmarshal([]byte(res.Stdout), &data); err == nil {
			res.Data = data
		}
	}
	return res
}
