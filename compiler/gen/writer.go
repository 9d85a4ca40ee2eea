package gen

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/tools/imports"

	"github.com/syssam/glossa"
)

// Writer is the output sink of the generated artifact. It optionally runs
// goimports over the source and leaves the target untouched when its content
// is already up to date.
type Writer struct {
	cfg     OutputConfig
	metrics WriterMetrics
}

// WriterMetrics tracks the work done by a Writer.
type WriterMetrics struct {
	FilesWritten   int
	FilesUnchanged int
	TotalBytes     int64
	FormatTime     time.Duration
	WriteTime      time.Duration
}

// NewWriter creates a writer for the given output settings.
func NewWriter(cfg OutputConfig) *Writer {
	return &Writer{cfg: cfg}
}

// Metrics returns the writer metrics.
func (w *Writer) Metrics() WriterMetrics {
	return w.metrics
}

// Content returns the bytes that Write puts in the target file.
func (w *Writer) Content(a *Artifact) ([]byte, error) {
	if !w.cfg.Format {
		return a.Source, nil
	}
	start := time.Now()
	defer func() { w.metrics.FormatTime += time.Since(start) }()
	formatted, err := imports.Process(w.target(a), a.Source, nil)
	if err != nil {
		// Keep the unformatted output next to the target for debugging.
		debugPath := w.target(a) + ".error"
		_ = os.MkdirAll(filepath.Dir(debugPath), 0o755)
		_ = os.WriteFile(debugPath, a.Source, 0o644)
		return nil, glossa.NewGenerationError("format", w.target(a), "goimports failed, unformatted output written to "+debugPath, err)
	}
	return formatted, nil
}

// Write writes the artifact and reports if the target changed.
func (w *Writer) Write(a *Artifact) (bool, error) {
	content, err := w.Content(a)
	if err != nil {
		return false, err
	}
	target := w.target(a)
	current, err := os.ReadFile(target)
	switch {
	case err == nil && bytes.Equal(current, content):
		w.metrics.FilesUnchanged++
		return false, nil
	case err != nil && !errors.Is(err, fs.ErrNotExist):
		return false, glossa.NewGenerationError("write", target, "reading existing file", err)
	}
	start := time.Now()
	if err := writeFile(target, content); err != nil {
		return false, glossa.NewGenerationError("write", target, "", err)
	}
	w.metrics.WriteTime += time.Since(start)
	w.metrics.FilesWritten++
	w.metrics.TotalBytes += int64(len(content))
	return true, nil
}

// Check reports a GenerationError if the target is missing or differs from
// the artifact. Nothing is written.
func (w *Writer) Check(a *Artifact) error {
	content, err := w.Content(a)
	if err != nil {
		return err
	}
	target := w.target(a)
	current, err := os.ReadFile(target)
	if err != nil {
		return glossa.NewGenerationError("check", target, "generated file is missing", err)
	}
	if !bytes.Equal(current, content) {
		return glossa.NewGenerationError("check", target, "generated file is out of date", nil)
	}
	return nil
}

func (w *Writer) target(a *Artifact) string {
	if w.cfg.Target != "" {
		return w.cfg.Target
	}
	return a.Target
}

// writeFile replaces path with content through a temporary file in the same
// directory, so readers never observe a partial file.
func writeFile(path string, content []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
