package hooks

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// ReportWriterHook writes the final operation record as <dir>/<op-id>.json.
type ReportWriterHook struct {
	Dir string
}

func (h *ReportWriterHook) Name() string {
	return "report_writer"
}

func (h *ReportWriterHook) PostHook(ctx Context) error {
	if ctx.Operation == nil {
		return nil
	}
	if err := os.MkdirAll(h.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create reports directory: %w", err)
	}

	data, err := json.MarshalIndent(ctx.Operation, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	path := filepath.Join(h.Dir, ctx.Operation.ID+".json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write report %s: %w", path, err)
	}

	ctx.Data[DataReportPath] = path
	return nil
}
