package store

import "time"

// Setting keys with defaults seeded by the first migration.
const (
	SettingDailyGoal = "daily_goal" // minutes
	SettingWeekStart = "week_start"
)

var defaultSettings = map[string]string{
	SettingDailyGoal: "480",
	SettingWeekStart: "monday",
}

type Setting struct {
	Key   string
	Value string
}

// SyncRun records one push to or pull from an external system.
type SyncRun struct {
	ID        int64
	System    string
	Direction string // "push" or "pull"
	Success   bool
	Message   string
	Created   int
	Updated   int
	Skipped   int
	At        time.Time
}
