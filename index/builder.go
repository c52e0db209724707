package index

import (
	"fmt"
	"log"

	"github.com/campusnotice/notice-qa/internal/persistence"
	"github.com/campusnotice/notice-qa/model"
)

// NoticeReader is the slice of the document store the builder needs.
type NoticeReader interface {
	Get(id string) (*model.Notice, error)
	ListIDs() ([]string, error)
}

// Build scans every document in the store and produces a fresh snapshot.
// Unreadable documents are skipped, never fatal.
func Build(reader NoticeReader) (*Snapshot, error) {
	ids, err := reader.ListIDs()
	if err != nil {
		return nil, fmt.Errorf("failed to list corpus IDs: %w", err)
	}

	snapshot := NewSnapshot()
	for _, id := range ids {
		notice, err := reader.Get(id)
		if err != nil {
			log.Printf("Warning: skipping unreadable notice '%s' during index build: %v", id, err)
			continue
		}
		snapshot.Add(notice.ID, notice.Title, notice.SearchableText())
	}
	return snapshot, nil
}

// Save persists the snapshot to filePath. The underlying write is atomic, so
// a crash never leaves a reader with a half-written index file.
func (s *Snapshot) Save(filePath string) error {
	return persistence.SaveGob(filePath, s)
}

// Load restores a previously persisted snapshot. Returns os.ErrNotExist when
// no snapshot file is present so callers can fall back to a cold build.
func Load(filePath string) (*Snapshot, error) {
	snapshot := NewSnapshot()
	if err := persistence.LoadGob(filePath, snapshot); err != nil {
		return nil, err
	}
	// Re-initialize maps that gob leaves nil when they were empty.
	if snapshot.DocLen == nil {
		snapshot.DocLen = make(map[string]int)
	}
	if snapshot.TF == nil {
		snapshot.TF = make(map[string]map[string]int)
	}
	if snapshot.DF == nil {
		snapshot.DF = make(map[string]int)
	}
	if snapshot.Titles == nil {
		snapshot.Titles = make(map[string]string)
	}
	return snapshot, nil
}
