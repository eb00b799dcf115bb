package solver

import (
	"context"
	"fmt"
	"math"

	"github.com/roman-kulish/rlc-resonance/internal/circuit"
)

const (
	NewtonRaphson Method = "newton-raphson"
	Bisection     Method = "bisection"

	DefaultMaxIterations = 100
)

type Method string

func (m Method) String() string {
	return string(m)
}

// Title is the human readable method name used in reports
func (m Method) Title() string {
	switch m {
	case NewtonRaphson:
		return "Newton-Raphson"
	case Bisection:
		return "Bisection"
	default:
		return string(m)
	}
}

// Config holds the parameters shared by both solvers
type Config struct {
	Target        float64 // Target frequency in Hz
	Tolerance     float64 // Stop threshold, in Ohm for the step size and in Hz for the bisection error
	MaxIterations int     // Upper bound on iterations
}

func (c Config) validate() error {
	switch {
	case !(c.Target > 0):
		return fmt.Errorf("%w: target must be positive, got %g", ErrInvalidConfig, c.Target)
	case !(c.Tolerance > 0):
		return fmt.Errorf("%w: tolerance must be positive, got %g", ErrInvalidConfig, c.Tolerance)
	case c.MaxIterations <= 0:
		return fmt.Errorf("%w: max iterations must be positive, got %d", ErrInvalidConfig, c.MaxIterations)
	}
	return nil
}

// Step is a single solver iteration
type Step struct {
	Iteration  int
	Resistance float64       // Resistance evaluated at this iteration
	Frequency  circuit.Value // f at Resistance
	Error      float64       // f - target, NaN when the frequency is undefined
}

// Result is the outcome of a solver run. Resistance is meaningful only when
// the solver returned a nil error.
type Result struct {
	Method     Method
	Resistance float64
	Iterations int
	Steps      []Step
}

func (r *Result) record(c circuit.Circuit, resistance, target float64) circuit.Value {
	f := c.Frequency(resistance)
	e := math.NaN()
	if f.Valid {
		e = f.Value - target
	}
	r.Iterations++
	r.Steps = append(r.Steps, Step{
		Iteration:  r.Iterations,
		Resistance: resistance,
		Frequency:  f,
		Error:      e,
	})
	return f
}

func checkContext(ctx context.Context, result *Result, r float64) error {
	if err := ctx.Err(); err != nil {
		return newError(result.Method, result.Iterations, r, err)
	}
	return nil
}
