package app

import (
	"context"
	"errors"
	"math"

	"github.com/roman-kulish/rlc-resonance/internal/circuit"
	"github.com/roman-kulish/rlc-resonance/internal/solver"
)

// Solution pairs a solver outcome with the frequency at the returned
// resistance. Err is nil only when a root was found.
type Solution struct {
	Method     solver.Method
	Resistance float64
	Frequency  circuit.Value
	Result     *solver.Result
	Err        error
}

func (s Solution) Found() bool {
	return s.Err == nil
}

// Solve runs Newton-Raphson and then bisection on the configured circuit.
// Solver failures are reported through Solution.Err; the returned error is
// set only when ctx was cancelled.
func Solve(ctx context.Context, config *Config) ([]Solution, error) {
	c := config.circuitModel()
	sc := config.solverConfig()

	runs := []struct {
		method solver.Method
		fn     func() (*solver.Result, error)
	}{
		{solver.NewtonRaphson, func() (*solver.Result, error) {
			return solver.Newton(ctx, c, sc, config.Solver.InitialGuess)
		}},
		{solver.Bisection, func() (*solver.Result, error) {
			return solver.Bisect(ctx, c, sc, config.bracket())
		}},
	}

	solutions := make([]Solution, 0, len(runs))
	for _, run := range runs {
		result, err := run.fn()
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return solutions, err
		}
		solutions = append(solutions, newSolution(c, run.method, result, err))
	}

	return solutions, nil
}

func newSolution(c circuit.Circuit, method solver.Method, result *solver.Result, err error) Solution {
	s := Solution{
		Method:     method,
		Resistance: math.NaN(),
		Frequency:  circuit.Value{Value: math.NaN()},
		Result:     result,
		Err:        err,
	}
	if err != nil {
		return s
	}

	s.Resistance = result.Resistance
	s.Frequency = c.Frequency(result.Resistance)
	return s
}
