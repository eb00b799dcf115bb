package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	"github.com/roman-kulish/rlc-resonance/internal/circuit"
	"github.com/roman-kulish/rlc-resonance/internal/solver"
)

// SqliteStore records solver runs in a Sqlite database
type SqliteStore struct {
	dbPath string

	writeDB     *sql.DB
	writeDBOnce sync.Once
	writeDBErr  error

	readDB     *sql.DB
	readDBOnce sync.Once
	readDBErr  error

	closeOnce sync.Once
	closeErr  error
}

// NewSqliteStore creates a store backed by the database file at dbPath.
// Connections are opened lazily and the schema is created on first write.
func NewSqliteStore(dbPath string) *SqliteStore {
	return &SqliteStore{dbPath: dbPath}
}

func runSQLCommand(db *sql.DB, sql string) error {
	_, err := db.Exec(sql)
	return err
}

func (s *SqliteStore) getWriteDB() (*sql.DB, error) {
	s.writeDBOnce.Do(func() {
		db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?%s", s.dbPath, "_journal_mode=WAL&_synchronous=NORMAL"))
		if err != nil {
			s.writeDBErr = fmt.Errorf("opening write connection: %w", err)
			return
		}

		if err = runSQLCommand(db, initSchemaSQL); err != nil {
			_ = db.Close()
			s.writeDBErr = fmt.Errorf("initializing schema: %w", err)
			return
		}

		s.writeDB = db
	})

	return s.writeDB, s.writeDBErr
}

func (s *SqliteStore) getReadDB() (*sql.DB, error) {
	s.readDBOnce.Do(func() {
		db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?%s", s.dbPath, "mode=ro"))
		if err != nil {
			s.readDBErr = fmt.Errorf("opening read connection: %w", err)
			return
		}
		s.readDB = db
	})

	return s.readDB, s.readDBErr
}

// CreateSession registers a new run. config is stored as JSON unless it is
// already a string or a byte slice.
func (s *SqliteStore) CreateSession(ctx context.Context, config any) (sessionID int64, err error) {
	var configData sql.NullString

	if config != nil {
		switch c := config.(type) {
		case string:
			configData.Valid = true
			configData.String = c

		case []byte:
			configData.Valid = true
			configData.String = string(c)

		default:
			var p []byte
			if p, err = json.Marshal(config); err != nil {
				err = fmt.Errorf("marshaling config: %w", err)
				return
			}

			configData.Valid = true
			configData.String = string(p)
		}
	}

	db, err := s.getWriteDB()
	if err != nil {
		err = fmt.Errorf("getting write connection: %w", err)
		return
	}

	stmt, err := db.PrepareContext(ctx, insertSessionSQL)
	if err != nil {
		err = fmt.Errorf("preparing statement: %w", err)
		return
	}
	defer closeWithError(stmt, &err)

	result, err := stmt.ExecContext(ctx, configData)
	if err != nil {
		err = fmt.Errorf("inserting session: %w", err)
		return
	}

	sessionID, err = result.LastInsertId()
	if err != nil {
		err = fmt.Errorf("getting session ID: %w", err)
	}
	return
}

// Session returns the session with the given id
func (s *SqliteStore) Session(ctx context.Context, id int64) (session *SessionData, err error) {
	db, err := s.getReadDB()
	if err != nil {
		err = fmt.Errorf("getting read connection: %w", err)
		return
	}

	stmt, err := db.PrepareContext(ctx, selectSessionSQL)
	if err != nil {
		err = fmt.Errorf("preparing statement: %w", err)
		return
	}
	defer closeWithError(stmt, &err)

	var sess SessionData
	if err = stmt.QueryRowContext(ctx, id).Scan(&sess.ID, &sess.StartTime, &sess.Config); err != nil {
		err = fmt.Errorf("scanning session: %w", err)
		return
	}

	return &sess, nil
}

// StoreResult records a solver outcome together with its iteration trace in
// a single transaction. reason is the error returned by the solver, nil when
// a root was found.
func (s *SqliteStore) StoreResult(ctx context.Context, sessionID int64, r *solver.Result, frequency circuit.Value, reason error) (resultID int64, err error) {
	db, err := s.getWriteDB()
	if err != nil {
		err = fmt.Errorf("getting write connection: %w", err)
		return
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		err = fmt.Errorf("beginning transaction: %w", err)
		return
	}
	defer rollbackWithError(tx, &err)

	data := toResultData(sessionID, r, frequency, reason)

	res, err := tx.ExecContext(ctx, insertResultSQL,
		data.SessionID,
		data.Method,
		data.Found,
		data.Resistance,
		data.Frequency,
		data.Iterations,
		data.Reason,
	)
	if err != nil {
		err = fmt.Errorf("inserting result: %w", err)
		return
	}

	if resultID, err = res.LastInsertId(); err != nil {
		err = fmt.Errorf("getting result ID: %w", err)
		return
	}

	if len(data.Steps) > 0 {
		values := make([]any, 0, len(data.Steps)*5)
		valuesPlaceholder := "(?, ?, ?, ?, ?)"

		var sb strings.Builder
		sb.WriteString(insertStepSQL)

		for i, step := range data.Steps {
			values = append(values,
				resultID,
				step.Iteration,
				step.Resistance,
				step.Frequency,
				step.Error,
			)

			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(valuesPlaceholder)
		}

		if _, err = tx.ExecContext(ctx, sb.String(), values...); err != nil {
			err = fmt.Errorf("batch inserting steps: %w", err)
			return
		}
	}

	if err = tx.Commit(); err != nil {
		err = fmt.Errorf("committing transaction: %w", err)
	}
	return
}

// Results returns every result recorded for the session, steps included
func (s *SqliteStore) Results(ctx context.Context, sessionID int64) (results []*ResultData, err error) {
	db, err := s.getReadDB()
	if err != nil {
		err = fmt.Errorf("getting read connection: %w", err)
		return
	}

	rows, err := db.QueryContext(ctx, selectResultsSQL, sessionID)
	if err != nil {
		err = fmt.Errorf("querying results: %w", err)
		return
	}
	defer closeWithError(rows, &err)

	for rows.Next() {
		var r ResultData
		if err = rows.Scan(&r.ID, &r.SessionID, &r.Method, &r.Found, &r.Resistance, &r.Frequency, &r.Iterations, &r.Reason); err != nil {
			err = fmt.Errorf("scanning result: %w", err)
			return
		}
		results = append(results, &r)
	}
	if err = rows.Err(); err != nil {
		err = fmt.Errorf("iterating results: %w", err)
		return
	}

	for _, r := range results {
		if r.Steps, err = s.steps(ctx, db, r.ID); err != nil {
			return
		}
	}
	return
}

func (s *SqliteStore) steps(ctx context.Context, db *sql.DB, resultID int64) (steps []StepData, err error) {
	rows, err := db.QueryContext(ctx, selectStepsSQL, resultID)
	if err != nil {
		err = fmt.Errorf("querying steps: %w", err)
		return
	}
	defer closeWithError(rows, &err)

	for rows.Next() {
		var st StepData
		if err = rows.Scan(&st.ID, &st.ResultID, &st.Iteration, &st.Resistance, &st.Frequency, &st.Error); err != nil {
			err = fmt.Errorf("scanning step: %w", err)
			return
		}
		steps = append(steps, st)
	}
	err = rows.Err()
	return
}

func (s *SqliteStore) Close() error {
	s.closeOnce.Do(func() {
		var writeErr, readErr error

		if s.writeDB != nil {
			_ = runSQLCommand(s.writeDB, initIndexesSQL)

			writeErr = s.writeDB.Close()
			s.writeDB = nil
		}

		if s.readDB != nil {
			readErr = s.readDB.Close()
			s.readDB = nil
		}

		s.closeErr = errors.Join(writeErr, readErr)
	})

	return s.closeErr
}
