package circuit

import (
	"fmt"
	"math"
)

// Value is the outcome of evaluating the frequency model or its derivative.
// Valid is false when the circuit has no real damped frequency at the
// evaluated resistance.
type Value struct {
	Value float64
	Valid bool
}

func undefined() Value {
	return Value{Value: math.NaN()}
}

// Circuit describes a series RLC circuit with a variable resistance
type Circuit struct {
	Inductance  float64 // L in Henry
	Capacitance float64 // C in Farad
}

// Radicand returns 1/(LC) - R²/(4L²), the damped angular frequency squared.
// The circuit oscillates only while it is strictly positive.
func (c Circuit) Radicand(r float64) float64 {
	return 1/(c.Inductance*c.Capacitance) - (r*r)/(4*c.Inductance*c.Inductance)
}

// Frequency returns the damped resonant frequency in Hz at resistance r
func (c Circuit) Frequency(r float64) Value {
	term := c.Radicand(r)
	if !(term > 0) {
		return undefined()
	}
	return Value{Value: math.Sqrt(term) / (2 * math.Pi), Valid: true}
}

// Derivative returns df/dR at resistance r
func (c Circuit) Derivative(r float64) Value {
	term := c.Radicand(r)
	if !(term > 0) {
		return undefined()
	}
	return Value{Value: -r / (4 * math.Pi * c.Inductance * c.Inductance * math.Sqrt(term)), Valid: true}
}

// CriticalResistance is the resistance at which the radicand reaches zero,
// 2·sqrt(L/C). Frequency is undefined from here on.
func (c Circuit) CriticalResistance() float64 {
	return 2 * math.Sqrt(c.Inductance/c.Capacitance)
}

// Validate checks that both reactive components are positive. NaN is rejected.
func (c Circuit) Validate() error {
	switch {
	case !(c.Inductance > 0):
		return fmt.Errorf("inductance must be positive, got %g", c.Inductance)
	case !(c.Capacitance > 0):
		return fmt.Errorf("capacitance must be positive, got %g", c.Capacitance)
	}
	return nil
}
