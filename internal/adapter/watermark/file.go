// Package watermark persists the id of the last fully delivered issue.
package watermark

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"twir-bot/internal/domain/ports"
)

// DefaultName is the file name and key the watermark is stored under.
const DefaultName = "this_week_in_rust.last_id"

// FileStore keeps the watermark as a decimal integer in a file.
type FileStore struct {
	path   string
	logger ports.Logger
}

var _ ports.WatermarkStore = (*FileStore)(nil)

// NewFileStore creates a FileStore at path.
func NewFileStore(path string, logger ports.Logger) *FileStore {
	return &FileStore{path: path, logger: logger}
}

// DefaultPath resolves the watermark file: dir if set, else the user config
// directory, else /tmp.
func DefaultPath(dir string) string {
	if dir == "" {
		if configDir, err := os.UserConfigDir(); err == nil {
			dir = configDir
		} else {
			dir = os.TempDir()
		}
	}
	return filepath.Join(dir, DefaultName)
}

// Path returns the file location.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the watermark. A missing or unparsable file reads as 0.
func (s *FileStore) Load(ctx context.Context) (int, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read watermark file: %w", err)
	}
	return parseID(ctx, s.logger, string(data)), nil
}

// Save replaces the file content with id.
func (s *FileStore) Save(_ context.Context, id int) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create watermark dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".watermark-*")
	if err != nil {
		return fmt.Errorf("create temp watermark file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(strconv.Itoa(id)); err != nil {
		tmp.Close()
		return fmt.Errorf("write watermark file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close watermark file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace watermark file: %w", err)
	}
	return nil
}

func parseID(ctx context.Context, logger ports.Logger, raw string) int {
	id, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || id < 0 {
		if logger != nil {
			logger.Error(ctx, "ignoring unparsable watermark", "value", raw)
		}
		return 0
	}
	return id
}
