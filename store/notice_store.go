// Package store provides read-mostly access to the notice corpus on disk.
// Each notice lives in <dataDir>/parsed/<id>.json and a meta index in
// <dataDir>/index.json supports cheap enumeration without opening every file.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	internalErrors "github.com/campusnotice/notice-qa/internal/errors"
	"github.com/campusnotice/notice-qa/model"
)

const (
	parsedDirName = "parsed"
	metaFileName  = "index.json"
	storeDirPerm  = 0750
	storeFilePerm = 0640
)

// NoticeStore is a filesystem-backed document store adapter. Writes go
// through Put (ingestion backfill); everything else is read-only. The mutex
// only guards the meta index file, individual notice files are written
// atomically via rename.
type NoticeStore struct {
	mu      sync.RWMutex
	dataDir string
}

// NewNoticeStore creates a store rooted at dataDir, creating the layout if
// needed.
func NewNoticeStore(dataDir string) (*NoticeStore, error) {
	if dataDir == "" {
		return nil, fmt.Errorf("data directory cannot be empty")
	}
	if err := os.MkdirAll(filepath.Join(dataDir, parsedDirName), storeDirPerm); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}
	return &NoticeStore{dataDir: dataDir}, nil
}

// validateID rejects IDs that could escape the parsed directory.
func validateID(id string) error {
	if id == "" {
		return internalErrors.NewValidationError("id", "notice ID cannot be empty")
	}
	if strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return internalErrors.NewValidationError("id", "notice ID cannot contain path separators")
	}
	return nil
}

func (s *NoticeStore) noticePath(id string) string {
	return filepath.Join(s.dataDir, parsedDirName, id+".json")
}

func (s *NoticeStore) metaPath() string {
	return filepath.Join(s.dataDir, metaFileName)
}

// Get returns the notice with the given ID. A missing file yields
// ErrNoticeNotFound; a file that cannot be decoded yields ErrNoticeUnreadable
// so corpus scans can skip it.
func (s *NoticeStore) Get(id string) (*model.Notice, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.noticePath(id)) // #nosec G304 -- id is validated above
	if err != nil {
		if os.IsNotExist(err) {
			return nil, internalErrors.NewNoticeNotFoundError(id)
		}
		return nil, internalErrors.NewNoticeUnreadableError(id, err)
	}

	var notice model.Notice
	if err := json.Unmarshal(data, &notice); err != nil {
		return nil, internalErrors.NewNoticeUnreadableError(id, err)
	}
	if notice.ID == "" {
		notice.ID = id
	}
	return &notice, nil
}

// ListIDs returns the IDs of every stored notice. Ordering is the directory
// listing order; callers must not rely on it for correctness.
func (s *NoticeStore) ListIDs() ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(s.dataDir, parsedDirName))
	if err != nil {
		return nil, fmt.Errorf("failed to read parsed directory: %w", err)
	}

	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasSuffix(name, ".json") {
			ids = append(ids, strings.TrimSuffix(name, ".json"))
		}
	}
	return ids, nil
}

// ListMeta returns the meta index mapping notice ID to its listing
// projection. A missing meta file yields an empty map, not an error.
func (s *NoticeStore) ListMeta() (map[string]model.NoticeMeta, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.metaPath())
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]model.NoticeMeta{}, nil
		}
		return nil, fmt.Errorf("failed to read meta index: %w", err)
	}

	meta := make(map[string]model.NoticeMeta)
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("failed to decode meta index: %w", err)
	}
	return meta, nil
}

// Put stores a notice and updates the meta index. The notice file is written
// atomically; the meta index is rewritten under the store lock.
func (s *NoticeStore) Put(notice *model.Notice) error {
	if notice == nil {
		return internalErrors.NewValidationError("notice", "notice cannot be nil")
	}
	if err := validateID(notice.ID); err != nil {
		return err
	}

	data, err := json.Marshal(notice)
	if err != nil {
		return fmt.Errorf("failed to encode notice '%s': %w", notice.ID, err)
	}
	if err := writeFileAtomic(s.noticePath(notice.ID), data); err != nil {
		return fmt.Errorf("failed to write notice '%s': %w", notice.ID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	meta, err := s.readMetaLocked()
	if err != nil {
		return err
	}
	meta[notice.ID] = model.NoticeMeta{
		URL:       notice.SourceURL,
		Title:     notice.Title,
		Writer:    notice.Writer,
		FetchedAt: notice.FetchedAt,
	}

	metaData, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("failed to encode meta index: %w", err)
	}
	if err := writeFileAtomic(s.metaPath(), metaData); err != nil {
		return fmt.Errorf("failed to write meta index: %w", err)
	}
	return nil
}

func (s *NoticeStore) readMetaLocked() (map[string]model.NoticeMeta, error) {
	data, err := os.ReadFile(s.metaPath())
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]model.NoticeMeta{}, nil
		}
		return nil, fmt.Errorf("failed to read meta index: %w", err)
	}
	meta := make(map[string]model.NoticeMeta)
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("failed to decode meta index: %w", err)
	}
	return meta, nil
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	if err := os.Chmod(tmpPath, storeFilePerm); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	return os.Rename(tmpPath, path)
}
