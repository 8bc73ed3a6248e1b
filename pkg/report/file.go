package report

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sync"

	errs "github.com/matzehuels/fpminer/pkg/errors"
)

// FileStore keeps reports as JSON files in a directory.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// DefaultDir returns $XDG_DATA_HOME/fpminer/reports, falling back to
// ~/.local/share/fpminer/reports.
func DefaultDir() (string, error) {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "fpminer", "reports"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errs.Wrap(errs.ErrCodeStorage, err, "get home dir")
	}
	return filepath.Join(home, ".local", "share", "fpminer", "reports"), nil
}

// NewFileStore creates a file-based report store. An empty baseDir means
// DefaultDir.
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		dir, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		baseDir = dir
	}
	if err := os.MkdirAll(baseDir, 0o700); err != nil {
		return nil, errs.Wrap(errs.ErrCodeStorage, err, "create report directory %s", baseDir)
	}
	return &FileStore{baseDir: baseDir}, nil
}

func (s *FileStore) reportPath(id string) string {
	return filepath.Join(s.baseDir, id+".json")
}

// Save implements Store.
func (s *FileStore) Save(_ context.Context, r *Report) error {
	if err := errs.ValidateReportID(r.ID); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return errs.Wrap(errs.ErrCodeInternal, err, "marshal report")
	}
	path := s.reportPath(r.ID)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return errs.Wrap(errs.ErrCodeStorage, err, "write report %s", path)
	}
	return nil
}

// Get implements Store.
func (s *FileStore) Get(_ context.Context, id string) (*Report, error) {
	if err := errs.ValidateReportID(id); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read(s.reportPath(id))
}

func (s *FileStore) read(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, errs.New(errs.ErrCodeNotFound, "report %s not found", filepath.Base(path))
	}
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeStorage, err, "read report %s", path)
	}
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, errs.Wrap(errs.ErrCodeStorage, err, "parse report %s", path)
	}
	return &r, nil
}

// List implements Store. Unreadable files are skipped.
func (s *FileStore) List(_ context.Context, limit int) ([]*Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeStorage, err, "read report directory %s", s.baseDir)
	}

	var out []*Report
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		r, err := s.read(filepath.Join(s.baseDir, entry.Name()))
		if err != nil {
			continue
		}
		out = append(out, r)
	}

	slices.SortFunc(out, func(a, b *Report) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Delete implements Store.
func (s *FileStore) Delete(_ context.Context, id string) error {
	if err := errs.ValidateReportID(id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.reportPath(id)
	err := os.Remove(path)
	if errors.Is(err, fs.ErrNotExist) {
		return errs.New(errs.ErrCodeNotFound, "report %s not found", id)
	}
	if err != nil {
		return errs.Wrap(errs.ErrCodeStorage, err, "remove report %s", path)
	}
	return nil
}

// Close does nothing for file store.
func (s *FileStore) Close() error { return nil }

// Path returns the directory holding the report files.
func (s *FileStore) Path() string {
	return s.baseDir
}

var _ Store = (*FileStore)(nil)
