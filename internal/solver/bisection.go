package solver

import (
	"context"
	"fmt"
	"math"

	"github.com/roman-kulish/rlc-resonance/internal/circuit"
)

// Bracket is a closed resistance interval [Lower, Upper] in Ohm
type Bracket struct {
	Lower float64
	Upper float64
}

func (b Bracket) String() string {
	return fmt.Sprintf("[%g, %g]", b.Lower, b.Upper)
}

// Bisect halves the bracket until its half-width drops to config.Tolerance or
// the midpoint frequency is within config.Tolerance of config.Target.
//
// The lower end must have a defined frequency. When the upper end has one too,
// both ends must lie on opposite sides of the target, otherwise no root is
// reported. A bracket already narrower than 2·config.Tolerance returns its
// midpoint without evaluating anything.
func Bisect(ctx context.Context, c circuit.Circuit, config Config, bracket Bracket) (*Result, error) {
	result := &Result{Method: Bisection, Resistance: math.NaN()}
	if err := config.validate(); err != nil {
		return result, err
	}

	a, b := bracket.Lower, bracket.Upper
	if !(a < b) {
		return result, newError(Bisection, 0, a, fmt.Errorf("%w: %s", ErrInvalidBracket, bracket))
	}

	if !((b-a)/2 > config.Tolerance) {
		result.Resistance = (a + b) / 2
		return result, nil
	}

	fa := c.Frequency(a)
	if !fa.Valid {
		return result, newError(Bisection, 0, a, ErrUndefinedFrequency)
	}

	// an undefined f(b) is not rejected, the loop only ever evaluates midpoints
	if fb := c.Frequency(b); fb.Valid && (fa.Value-config.Target)*(fb.Value-config.Target) > 0 {
		return result, newError(Bisection, 0, a, fmt.Errorf("%w: %s", ErrNoSignChange, bracket))
	}

	// f(a) only changes when a moves, so it is kept between iterations
	errA := fa.Value - config.Target
	for (b-a)/2 > config.Tolerance {
		if result.Iterations >= config.MaxIterations {
			return result, newError(Bisection, result.Iterations, (a+b)/2, ErrNoConvergence)
		}

		mid := (a + b) / 2
		if err := checkContext(ctx, result, mid); err != nil {
			return result, err
		}

		fm := result.record(c, mid, config.Target)
		if !fm.Valid {
			return result, newError(Bisection, result.Iterations, mid, ErrUndefinedFrequency)
		}

		errMid := fm.Value - config.Target
		if math.Abs(errMid) < config.Tolerance {
			result.Resistance = mid
			return result, nil
		}

		if errA*errMid < 0 {
			b = mid
		} else {
			a = mid
			errA = errMid
		}
	}

	result.Resistance = (a + b) / 2
	return result, nil
}
