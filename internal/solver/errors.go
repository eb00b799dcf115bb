package solver

import (
	"errors"
	"fmt"
)

var (
	// ErrUndefinedFrequency means f(R) has no real value at the evaluated resistance
	ErrUndefinedFrequency = errors.New("frequency undefined")

	// ErrUndefinedDerivative means f'(R) has no real value at the evaluated resistance
	ErrUndefinedDerivative = errors.New("derivative undefined")

	// ErrZeroDerivative means the Newton step would divide by zero
	ErrZeroDerivative = errors.New("derivative is zero")

	// ErrNoConvergence means the iteration limit was reached before the stop rule held
	ErrNoConvergence = errors.New("maximum iterations exceeded")

	// ErrNoSignChange means the bracket ends lie on the same side of the target
	ErrNoSignChange = errors.New("no sign change in bracket")

	// ErrInvalidBracket means the lower bound is not below the upper bound
	ErrInvalidBracket = errors.New("invalid bracket")

	// ErrInvalidConfig means tolerance or iteration limit are not positive
	ErrInvalidConfig = errors.New("invalid solver configuration")
)

// Error describes where a solver gave up. It unwraps to one of the
// sentinel errors above.
type Error struct {
	Method     Method
	Iteration  int
	Resistance float64
	Err        error
}

func newError(method Method, iteration int, r float64, err error) *Error {
	return &Error{Method: method, Iteration: iteration, Resistance: r, Err: err}
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: iteration %d at R=%g: %s", e.Method, e.Iteration, e.Resistance, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
