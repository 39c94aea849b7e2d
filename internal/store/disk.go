package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"time"

	"github.com/peterbourgon/diskv/v3"
)

const (
	diskProjectsKey = "ledger-projects"
	diskDaysKey     = "ledger-days"
	diskSyncKey     = "sync-runs"
	diskSettingPfx  = "setting-"
)

// DiskStore keeps the same data as Store as one file per key under a
// directory, for users who want to inspect or version the ledger by hand.
type DiskStore struct {
	d *diskv.Diskv
}

// NewDisk opens a file-backed store rooted at dir.
func NewDisk(dir string) *DiskStore {
	return &DiskStore{d: diskv.New(diskv.Options{
		BasePath:          dir,
		AdvancedTransform: keyToPathTransform,
		InverseTransform:  pathToKeyTransform,
		CacheSizeMax:      1024 * 1024, // 1MB
	})}
}

// keyToPathTransform files "ledger-days" as ledger/days.
func keyToPathTransform(s string) *diskv.PathKey {
	parts := strings.SplitN(s, "-", 2)
	if len(parts) == 1 {
		return &diskv.PathKey{FileName: s}
	}
	return &diskv.PathKey{Path: parts[:1], FileName: parts[1]}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	if len(pathKey.Path) == 0 {
		return pathKey.FileName
	}
	return fmt.Sprintf("%s-%s", strings.Join(pathKey.Path, "-"), pathKey.FileName)
}

func (s *DiskStore) Close() error { return nil }

func (s *DiskStore) read(key string) ([]byte, error) {
	b, err := s.d.Read(key)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return b, nil
}

func (s *DiskStore) LoadLedger(_ context.Context) (projects, days []byte, err error) {
	if projects, err = s.read(diskProjectsKey); err != nil {
		return nil, nil, err
	}
	if days, err = s.read(diskDaysKey); err != nil {
		return nil, nil, err
	}
	return projects, days, nil
}

func (s *DiskStore) SaveLedger(_ context.Context, projects, days []byte) error {
	if err := s.d.Write(diskProjectsKey, projects); err != nil {
		return fmt.Errorf("save projects: %w", err)
	}
	if err := s.d.Write(diskDaysKey, days); err != nil {
		return fmt.Errorf("save days: %w", err)
	}
	return nil
}

func (s *DiskStore) GetSetting(key string) (string, error) {
	b, err := s.read(diskSettingPfx + key)
	if err != nil {
		return "", fmt.Errorf("get setting %q: %w", key, err)
	}
	if b == nil {
		v, ok := defaultSettings[key]
		if !ok {
			return "", fmt.Errorf("get setting %q: %w", key, fs.ErrNotExist)
		}
		return v, nil
	}
	return string(b), nil
}

func (s *DiskStore) SetSetting(key, value string) error {
	return s.d.WriteString(diskSettingPfx+key, value)
}

func (s *DiskStore) GetAllSettings() ([]Setting, error) {
	values := make(map[string]string, len(defaultSettings))
	for k, v := range defaultSettings {
		values[k] = v
	}
	for key := range s.d.KeysPrefix(diskSettingPfx, nil) {
		b, err := s.d.Read(key)
		if err != nil {
			return nil, fmt.Errorf("list settings: %w", err)
		}
		values[strings.TrimPrefix(key, diskSettingPfx)] = string(b)
	}
	settings := make([]Setting, 0, len(values))
	for k, v := range values {
		settings = append(settings, Setting{Key: k, Value: v})
	}
	sort.Slice(settings, func(i, j int) bool { return settings[i].Key < settings[j].Key })
	return settings, nil
}

func (s *DiskStore) syncRuns() ([]SyncRun, error) {
	b, err := s.read(diskSyncKey)
	if err != nil || b == nil {
		return nil, err
	}
	var runs []SyncRun
	if err := json.Unmarshal(b, &runs); err != nil {
		return nil, fmt.Errorf("decode sync runs: %w", err)
	}
	return runs, nil
}

func (s *DiskStore) RecordSyncRun(run SyncRun) (int64, error) {
	runs, err := s.syncRuns()
	if err != nil {
		return 0, err
	}
	if run.At.IsZero() {
		run.At = time.Now()
	}
	run.At = run.At.UTC().Truncate(time.Second)
	run.ID = int64(len(runs) + 1)
	runs = append(runs, run)
	b, err := json.Marshal(runs)
	if err != nil {
		return 0, fmt.Errorf("encode sync runs: %w", err)
	}
	if err := s.d.Write(diskSyncKey, b); err != nil {
		return 0, fmt.Errorf("record sync run: %w", err)
	}
	return run.ID, nil
}

func (s *DiskStore) ListSyncRuns(limit int) ([]SyncRun, error) {
	runs, err := s.syncRuns()
	if err != nil {
		return nil, err
	}
	sort.SliceStable(runs, func(i, j int) bool {
		if !runs[i].At.Equal(runs[j].At) {
			return runs[i].At.After(runs[j].At)
		}
		return runs[i].ID > runs[j].ID
	})
	if limit > 0 && len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}
