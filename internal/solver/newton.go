package solver

import (
	"context"
	"math"

	"github.com/roman-kulish/rlc-resonance/internal/circuit"
)

// Newton searches for the resistance at which the circuit frequency equals
// config.Target, starting from initialGuess. It stops once a Newton step is
// shorter than config.Tolerance and returns the resistance after that step.
//
// A non-nil error means no root was found; the returned Result still carries
// the iterations performed so far.
func Newton(ctx context.Context, c circuit.Circuit, config Config, initialGuess float64) (*Result, error) {
	result := &Result{Method: NewtonRaphson, Resistance: math.NaN()}
	if err := config.validate(); err != nil {
		return result, err
	}

	r := initialGuess
	for result.Iterations < config.MaxIterations {
		if err := checkContext(ctx, result, r); err != nil {
			return result, err
		}

		f := result.record(c, r, config.Target)
		if !f.Valid {
			return result, newError(NewtonRaphson, result.Iterations, r, ErrUndefinedFrequency)
		}

		d := c.Derivative(r)
		if !d.Valid {
			return result, newError(NewtonRaphson, result.Iterations, r, ErrUndefinedDerivative)
		}
		if d.Value == 0 {
			return result, newError(NewtonRaphson, result.Iterations, r, ErrZeroDerivative)
		}

		next := r - (f.Value-config.Target)/d.Value
		if math.Abs(next-r) < config.Tolerance {
			result.Resistance = next
			return result, nil
		}
		r = next
	}

	return result, newError(NewtonRaphson, result.Iterations, r, ErrNoConvergence)
}
