// Package testutil provides testing utilities for knoxshield
package testutil

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"knoxshield/pkg/runner"
)

// MockScriptRunner implements runner.ScriptRunner for testing
type MockScriptRunner struct {
	mu        sync.RWMutex
	calls     []ExecutedScript
	responses map[string]ScriptResponse
}

type ExecutedScript struct {
	Script  string
	Args    []string
	Context context.Context
}

type ScriptResponse struct {
	Stdout string
	Stderr string
	Error  error
	Delay  time.Duration
}

func NewMockScriptRunner() *MockScriptRunner {
	return &MockScriptRunner{
		responses: make(map[string]ScriptResponse),
	}
}

func (m *MockScriptRunner) RunScript(ctx context.Context, script string, args ...string) (*runner.Result, error) {
	m.mu.Lock()
	m.calls = append(m.calls, ExecutedScript{
		Script:  script,
		Args:    args,
		Context: ctx,
	})
	m.mu.Unlock()

	m.mu.RLock()
	response, exists := m.responses[scriptKey(script, args)]
	if !exists {
		response, exists = m.responses[script]
	}
	m.mu.RUnlock()

	if !exists {
		return runner.NewResult(script, "", "", 0), nil
	}

	if response.Delay > 0 {
		select {
		case <-time.After(response.Delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	exitCode := 0
	if response.Error != nil {
		exitCode = 1
	}
	return runner.NewResult(script, response.Stdout, response.Stderr, exitCode), response.Error
}

// SetResponse registers the outcome for a script called with exactly args.
func (m *MockScriptRunner) SetResponse(script string, args []string, response ScriptResponse) {
	m.mu.Lock()
	m.responses[scriptKey(script, args)] = response
	m.mu.Unlock()
}

// SetDefault registers the outcome for a script regardless of its args.
func (m *MockScriptRunner) SetDefault(script string, response ScriptResponse) {
	m.mu.Lock()
	m.responses[script] = response
	m.mu.Unlock()
}

func (m *MockScriptRunner) Calls() []ExecutedScript {
	m.mu.RLock()
	defer m.mu.RUnlock()

	calls := make([]ExecutedScript, len(m.calls))
	copy(calls, m.calls)
	return calls
}

// CallCount counts invocations of script.
func (m *MockScriptRunner) CallCount(script string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := 0
	for _, c := range m.calls {
		if c.Script == script {
			n++
		}
	}
	return n
}

func (m *MockScriptRunner) Reset() {
	m.mu.Lock()
	m.calls = nil
	m.responses = make(map[string]ScriptResponse)
	m.mu.Unlock()
}

func scriptKey(script string, args []string) string {
	return script + " " + strings.Join(args, " ")
}

// CreateTestFile creates a test file with the given content
func CreateTestFile(t *testing.T, dir, filename, content string) string {
	t.Helper()

	filePath := filepath.Join(dir, filename)
	if err := os.WriteFile(filePath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create test file %s: %v", filePath, err)
	}

	return filePath
}
