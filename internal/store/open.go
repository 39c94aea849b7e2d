package store

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

// Backend is what the rest of the program needs from a store.
type Backend interface {
	LoadLedger(ctx context.Context) (projects, days []byte, err error)
	SaveLedger(ctx context.Context, projects, days []byte) error
	GetSetting(key string) (string, error)
	SetSetting(key, value string) error
	GetAllSettings() ([]Setting, error)
	RecordSyncRun(run SyncRun) (int64, error)
	ListSyncRuns(limit int) ([]SyncRun, error)
	Close() error
}

var (
	_ Backend = (*Store)(nil)
	_ Backend = (*DiskStore)(nil)
)

// Open returns the backend named kind ("sqlite" or "diskv") at path. For
// diskv the path names a directory; a path ending in ".db" is mapped to a
// sibling directory with the extension removed.
func Open(kind, path string) (Backend, error) {
	switch strings.ToLower(kind) {
	case "", "sqlite":
		return New(path)
	case "diskv":
		if ext := filepath.Ext(path); ext == ".db" {
			path = strings.TrimSuffix(path, ext)
		}
		return NewDisk(path), nil
	}
	return nil, fmt.Errorf("unknown store backend %q (want sqlite or diskv)", kind)
}
