package ledger

import "errors"

var (
	ErrProjectNotFound = errors.New("project not found")
	ErrInvalidProject  = errors.New("invalid project")
	ErrDayNotFound     = errors.New("day entry not found")
	ErrEntryNotFound   = errors.New("day project entry not found")
	ErrInvalidDate     = errors.New("invalid date")
	ErrInvalidTime     = errors.New("invalid time")
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrAlreadyOpen     = errors.New("interval already open")
	ErrNothingOpen     = errors.New("no open interval")
)
