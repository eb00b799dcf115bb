package storage

import (
	"database/sql"
	"math"

	"github.com/roman-kulish/rlc-resonance/internal/circuit"
	"github.com/roman-kulish/rlc-resonance/internal/solver"
)

func closeWithError(cl interface{ Close() error }, err *error) {
	if cErr := cl.Close(); cErr != nil && *err == nil {
		*err = cErr
	}
}

func rollbackWithError(rb interface{ Rollback() error }, err *error) {
	if cErr := rb.Rollback(); cErr != nil && cErr != sql.ErrTxDone && *err == nil {
		*err = cErr
	}
}

func toNullFloat64(f float64) sql.NullFloat64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: f, Valid: true}
}

func toNullValue(v circuit.Value) sql.NullFloat64 {
	if !v.Valid {
		return sql.NullFloat64{}
	}
	return toNullFloat64(v.Value)
}

func toResultData(sessionID int64, r *solver.Result, frequency circuit.Value, reason error) *ResultData {
	data := &ResultData{
		SessionID:  sessionID,
		Method:     r.Method.String(),
		Found:      reason == nil,
		Iterations: r.Iterations,
	}

	if reason != nil {
		data.Reason = sql.NullString{String: reason.Error(), Valid: true}
	} else {
		data.Resistance = toNullFloat64(r.Resistance)
		data.Frequency = toNullValue(frequency)
	}

	data.Steps = make([]StepData, len(r.Steps))
	for i, s := range r.Steps {
		data.Steps[i] = StepData{
			Iteration:  s.Iteration,
			Resistance: s.Resistance,
			Frequency:  toNullValue(s.Frequency),
			Error:      toNullFloat64(s.Error),
		}
	}

	return data
}
