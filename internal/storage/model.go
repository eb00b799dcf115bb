package storage

import (
	"database/sql"
	"time"
)

// SessionData represents a single program run
type SessionData struct {
	ID        int64
	StartTime time.Time
	Config    sql.NullString
}

// ResultData represents the outcome of one solver within a session
type ResultData struct {
	ID         int64
	SessionID  int64
	Method     string
	Found      bool
	Resistance sql.NullFloat64
	Frequency  sql.NullFloat64
	Iterations int
	Reason     sql.NullString
	Steps      []StepData
}

// StepData represents a single solver iteration
type StepData struct {
	ID         int64
	ResultID   int64
	Iteration  int
	Resistance float64
	Frequency  sql.NullFloat64
	Error      sql.NullFloat64
}
