package mdpublish

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/alnah/go-mdpublish/internal/dateutil"
	"github.com/alnah/go-mdpublish/internal/fileutil"
)

// DefaultExportFormat names snapshot files markdown_YYYYMMDD_HHMM.md.
const DefaultExportFormat = "[markdown_]YYYYMMDD[_]HHmm"

// exportPerm is the mode of exported snapshot files.
const exportPerm = 0o644

// ExportName returns the snapshot file name for t using DefaultExportFormat.
func ExportName(t time.Time) string {
	name, _ := FormatExportName(DefaultExportFormat, t)
	return name
}

// FormatExportName renders a snapshot file name from a dateutil pattern.
// The ".md" extension is appended.
func FormatExportName(format string, t time.Time) (string, error) {
	base, err := dateutil.Format(format, t)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExport, err)
	}
	if base == "" || base != filepath.Base(base) {
		return "", fmt.Errorf("%w: invalid file name %q", ErrExport, base)
	}
	return base + ".md", nil
}

// Export writes the current snapshot into dir and returns the file path.
// An empty dir writes to the working directory.
func (s *Session) Export(dir string) (string, error) {
	s.mu.Lock()
	content := s.content
	format := s.exportFmt
	now := s.now()
	s.mu.Unlock()

	if content == "" {
		return "", ErrEmptyContent
	}
	name, err := FormatExportName(format, now)
	if err != nil {
		return "", err
	}
	if dir == "" {
		dir = "."
	}

	path := filepath.Join(dir, name)
	if err := fileutil.WriteFileAtomic(path, []byte(content), exportPerm); err != nil {
		return "", fmt.Errorf("%w: %v", ErrExport, err)
	}
	s.logger.Info("exported snapshot", "path", path)
	return path, nil
}
