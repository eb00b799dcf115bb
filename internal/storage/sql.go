package storage

import (
	_ "embed"
)

//go:embed schema.sql
var initSchemaSQL string

const (
	initIndexesSQL = `
CREATE INDEX IF NOT EXISTS idx_results_session ON results (session_id);
CREATE INDEX IF NOT EXISTS idx_steps_result ON steps (result_id, iteration);`

	insertSessionSQL = `
INSERT INTO sessions (
                      start_time,
                      config)
VALUES (CURRENT_TIMESTAMP, ?)`

	selectSessionSQL = `
SELECT 
    id, 
    start_time, 
    config 
FROM sessions 
WHERE 
    id = ?`

	insertResultSQL = `
INSERT INTO results (session_id,
                     method,
                     found,
                     resistance,
                     frequency,
                     iterations,
                     reason)
VALUES (?, ?, ?, ?, ?, ?, ?)`

	insertStepSQL = `
INSERT INTO steps (
    result_id,
    iteration,
    resistance,
    frequency,
    error
)
VALUES `

	selectResultsSQL = `
SELECT 
    id,
    session_id,
    method,
    found,
    resistance,
    frequency,
    iterations,
    reason
FROM results
WHERE 
    session_id = ?
ORDER BY id`

	selectStepsSQL = `
SELECT 
    id,
    result_id,
    iteration,
    resistance,
    frequency,
    error
FROM steps
WHERE 
    result_id = ?
ORDER BY iteration`
)
