package hooks

import (
	"path/filepath"

	"knoxshield/internal/storage"

	log "github.com/sirupsen/logrus"
)

// ReportArchiveHook uploads the report written by ReportWriterHook.
type ReportArchiveHook struct {
	Store  storage.ArtifactStore
	Prefix string
}

func (h *ReportArchiveHook) Name() string {
	return "report_archive"
}

func (h *ReportArchiveHook) PostHook(ctx Context) error {
	path, ok := ctx.Data[DataReportPath].(string)
	if !ok || path == "" {
		return nil
	}

	prefix := h.Prefix
	if prefix == "" {
		prefix = "reports"
	}
	key := prefix + "/" + filepath.Base(path)

	url, err := h.Store.Upload(ctx.Ctx, path, key)
	if err != nil {
		return err
	}
	log.WithField("url", url).Info("Report archived")
	return nil
}
