package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewMemory()
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func newTestDisk(t *testing.T) *DiskStore {
	t.Helper()
	return NewDisk(t.TempDir())
}

// ============================================================
// Store initialization
// ============================================================

func TestNewMemory(t *testing.T) {
	s := newTestStore(t)

	var version int
	require.NoError(t, s.db.QueryRow("PRAGMA user_version").Scan(&version))
	assert.Equal(t, currentVersion, version)
}

func TestNewWithPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "dayledger.db")
	s, err := New(path)
	require.NoError(t, err)
	require.NoError(t, s.SaveLedger(context.Background(), []byte(`[]`), []byte(`[{"date":"2024-01-01"}]`)))
	s.Close()

	// Reopen; data survives and migrations do not run twice.
	s2, err := New(path)
	require.NoError(t, err)
	defer s2.Close()
	_, days, err := s2.LoadLedger(context.Background())
	require.NoError(t, err)
	assert.Equal(t, `[{"date":"2024-01-01"}]`, string(days))
}

func TestDefaultDBPath(t *testing.T) {
	path, err := DefaultDBPath()
	require.NoError(t, err)
	assert.Equal(t, "dayledger.db", filepath.Base(path))
}

func TestPragmasConfigured(t *testing.T) {
	s := newTestStore(t)

	var fk int
	require.NoError(t, s.db.QueryRow("PRAGMA foreign_keys").Scan(&fk))
	assert.Equal(t, 1, fk)
}

func TestMigrationIdempotent(t *testing.T) {
	s := newTestStore(t)
	assert.NoError(t, s.migrate())
}

func TestMigrateFromV1(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.db")
	s, err := New(path)
	require.NoError(t, err)
	_, err = s.db.Exec("DROP TABLE sync_runs")
	require.NoError(t, err)
	_, err = s.db.Exec("PRAGMA user_version = 1")
	require.NoError(t, err)
	s.Close()

	s2, err := New(path)
	require.NoError(t, err)
	defer s2.Close()
	_, err = s2.RecordSyncRun(SyncRun{System: "crm", Direction: "push"})
	assert.NoError(t, err, "sync_runs should exist after upgrade")
}

// ============================================================
// Ledger blobs
// ============================================================

func TestLoadLedgerEmpty(t *testing.T) {
	s := newTestStore(t)
	projects, days, err := s.LoadLedger(context.Background())
	require.NoError(t, err)
	assert.Nil(t, projects)
	assert.Nil(t, days)
}

func TestSaveLedgerOverwrites(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveLedger(ctx, []byte(`[{"id":"a"}]`), []byte(`[]`)))
	require.NoError(t, s.SaveLedger(ctx, []byte(`[{"id":"b"}]`), []byte(`[{"date":"2024-01-02"}]`)))

	projects, days, err := s.LoadLedger(ctx)
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"b"}]`, string(projects))
	assert.Equal(t, `[{"date":"2024-01-02"}]`, string(days))

	var n int
	require.NoError(t, s.db.QueryRow("SELECT COUNT(*) FROM ledger_blobs").Scan(&n))
	assert.Equal(t, 2, n)
}

func TestSaveLedgerKeepsMalformedBytes(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.SaveLedger(ctx, []byte(`{not json`), []byte(`[]`)))

	projects, _, err := s.LoadLedger(ctx)
	require.NoError(t, err)
	assert.Equal(t, `{not json`, string(projects))
}

func TestSaveLedgerCanceled(t *testing.T) {
	s := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, s.SaveLedger(ctx, []byte(`[]`), []byte(`[]`)))
}

// ============================================================
// Settings
// ============================================================

func TestSettingsDefaults(t *testing.T) {
	s := newTestStore(t)

	for k, expected := range defaultSettings {
		val, err := s.GetSetting(k)
		require.NoError(t, err, "GetSetting(%q)", k)
		assert.Equal(t, expected, val, "GetSetting(%q)", k)
	}
}

func TestSetSettingOverwrite(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.SetSetting("key", "v1"))
	require.NoError(t, s.SetSetting("key", "v2"))
	val, err := s.GetSetting("key")
	require.NoError(t, err)
	assert.Equal(t, "v2", val)
}

func TestGetSettingNotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetSetting("nonexistent")
	assert.Error(t, err)
}

func TestGetAllSettings(t *testing.T) {
	s := newTestStore(t)
	all, err := s.GetAllSettings()
	require.NoError(t, err)
	require.Len(t, all, len(defaultSettings))
	for i := 1; i < len(all); i++ {
		assert.Less(t, all[i-1].Key, all[i].Key, "settings must be sorted by key")
	}
}

func TestDailyGoal(t *testing.T) {
	s := newTestStore(t)
	assert.Equal(t, 480, DailyGoal(s))

	require.NoError(t, s.SetSetting(SettingDailyGoal, "390"))
	assert.Equal(t, 390, DailyGoal(s))

	require.NoError(t, s.SetSetting(SettingDailyGoal, "lots"))
	assert.Equal(t, 480, DailyGoal(s), "junk falls back to the default")
}

// ============================================================
// Sync runs
// ============================================================

func TestSyncRunsNewestFirst(t *testing.T) {
	s := newTestStore(t)
	base := time.Date(2024, 1, 4, 9, 0, 0, 0, time.UTC)
	_, err := s.RecordSyncRun(SyncRun{System: "crm", Direction: "push", Success: true, Created: 3, At: base})
	require.NoError(t, err)
	_, err = s.RecordSyncRun(SyncRun{System: "crm", Direction: "pull", Message: "unauthorized", At: base.Add(time.Hour)})
	require.NoError(t, err)

	runs, err := s.ListSyncRuns(0)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "pull", runs[0].Direction)
	assert.False(t, runs[0].Success)
	assert.Equal(t, "unauthorized", runs[0].Message)
	assert.True(t, runs[1].Success)
	assert.Equal(t, 3, runs[1].Created)
	assert.True(t, runs[1].At.Equal(base))

	runs, err = s.ListSyncRuns(1)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

// ============================================================
// Disk backend
// ============================================================

func TestDiskLedgerRoundTrip(t *testing.T) {
	d := newTestDisk(t)
	ctx := context.Background()

	projects, days, err := d.LoadLedger(ctx)
	require.NoError(t, err)
	assert.Nil(t, projects)
	assert.Nil(t, days)

	require.NoError(t, d.SaveLedger(ctx, []byte(`[{"id":"a"}]`), []byte(`[]`)))
	projects, days, err = d.LoadLedger(ctx)
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"a"}]`, string(projects))
	assert.Equal(t, `[]`, string(days))
}

func TestDiskLayout(t *testing.T) {
	dir := t.TempDir()
	d := NewDisk(dir)
	require.NoError(t, d.SaveLedger(context.Background(), []byte(`[]`), []byte(`[]`)))
	_, err := os.Stat(filepath.Join(dir, "ledger", "days"))
	assert.NoError(t, err)
}

func TestDiskSettings(t *testing.T) {
	d := newTestDisk(t)
	val, err := d.GetSetting(SettingWeekStart)
	require.NoError(t, err)
	assert.Equal(t, "monday", val)

	_, err = d.GetSetting("nonexistent")
	assert.Error(t, err)

	require.NoError(t, d.SetSetting(SettingDailyGoal, "420"))
	require.NoError(t, d.SetSetting("theme", "dark"))
	assert.Equal(t, 420, DailyGoal(d))

	all, err := d.GetAllSettings()
	require.NoError(t, err)
	require.Len(t, all, len(defaultSettings)+1)
	for i := 1; i < len(all); i++ {
		assert.Less(t, all[i-1].Key, all[i].Key, "settings must be sorted by key")
	}
}

func TestDiskSyncRuns(t *testing.T) {
	d := newTestDisk(t)
	base := time.Date(2024, 1, 4, 9, 0, 0, 0, time.UTC)
	id1, err := d.RecordSyncRun(SyncRun{System: "crm", Direction: "push", At: base})
	require.NoError(t, err)
	id2, err := d.RecordSyncRun(SyncRun{System: "crm", Direction: "pull", At: base})
	require.NoError(t, err)
	assert.Equal(t, int64(1), id1)
	assert.Equal(t, int64(2), id2)

	runs, err := d.ListSyncRuns(0)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, int64(2), runs[0].ID)
}

// ============================================================
// Open
// ============================================================

func TestOpenBackends(t *testing.T) {
	dir := t.TempDir()

	b, err := Open("sqlite", filepath.Join(dir, "a.db"))
	require.NoError(t, err)
	assert.IsType(t, &Store{}, b)
	b.Close()

	b, err = Open("diskv", filepath.Join(dir, "b.db"))
	require.NoError(t, err)
	assert.IsType(t, &DiskStore{}, b)
	require.NoError(t, b.SaveLedger(context.Background(), []byte(`[]`), []byte(`[]`)))
	_, err = os.Stat(filepath.Join(dir, "b", "ledger", "projects"))
	assert.NoError(t, err, "diskv should write under the extension-less directory")

	_, err = Open("postgres", "x")
	assert.Error(t, err)
}

func TestCloseStore(t *testing.T) {
	s, err := NewMemory()
	require.NoError(t, err)
	assert.NoError(t, s.Close())
}
