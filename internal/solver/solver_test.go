package solver

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roman-kulish/rlc-resonance/internal/circuit"
)

var (
	// L=0.5 H, C=10 µF peaks at ~71.2 Hz, so 1000 Hz is unreachable
	literal = circuit.Circuit{Inductance: 0.5, Capacitance: 10e-6}

	// crosses 1000 Hz at ~73.5 Ω, inside [0, 100]
	tunable = circuit.Circuit{Inductance: 0.04, Capacitance: 0.62e-6}

	defaultConfig = Config{Target: 1000, Tolerance: 0.1, MaxIterations: DefaultMaxIterations}
)

func TestNewton_Converges(t *testing.T) {
	result, err := Newton(context.Background(), tunable, defaultConfig, 50)
	require.NoError(t, err)

	f := tunable.Frequency(result.Resistance)
	require.True(t, f.Valid)
	assert.Less(t, math.Abs(f.Value-1000), 1.0)
	assert.InDelta(t, 73.44, result.Resistance, 0.05)
	assert.Equal(t, NewtonRaphson, result.Method)
	assert.Len(t, result.Steps, result.Iterations)
	assert.Equal(t, 50.0, result.Steps[0].Resistance)
}

func TestNewton_ReturnsResistanceAfterFinalStep(t *testing.T) {
	result, err := Newton(context.Background(), tunable, defaultConfig, 50)
	require.NoError(t, err)

	last := result.Steps[len(result.Steps)-1]
	d := tunable.Derivative(last.Resistance)
	require.True(t, d.Valid)

	want := last.Resistance - last.Error/d.Value
	assert.Equal(t, want, result.Resistance)
	assert.Less(t, math.Abs(result.Resistance-last.Resistance), defaultConfig.Tolerance)
}

func TestNewton_LiteralCircuitNotFound(t *testing.T) {
	// the first step overshoots into negative resistance far past the critical value
	result, err := Newton(context.Background(), literal, defaultConfig, 50)
	require.ErrorIs(t, err, ErrUndefinedFrequency)
	assert.True(t, math.IsNaN(result.Resistance))
	assert.Equal(t, 2, result.Iterations)

	var serr *Error
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, NewtonRaphson, serr.Method)
	assert.Less(t, serr.Resistance, -literal.CriticalResistance())
}

func TestNewton_UndefinedAtStart(t *testing.T) {
	_, err := Newton(context.Background(), literal, defaultConfig, 1000)
	assert.ErrorIs(t, err, ErrUndefinedFrequency)
}

func TestNewton_ZeroDerivative(t *testing.T) {
	_, err := Newton(context.Background(), tunable, defaultConfig, 0)
	assert.ErrorIs(t, err, ErrZeroDerivative)
}

func TestNewton_IterationLimit(t *testing.T) {
	config := defaultConfig
	config.MaxIterations = 1

	result, err := Newton(context.Background(), tunable, config, 50)
	require.ErrorIs(t, err, ErrNoConvergence)
	assert.Equal(t, 1, result.Iterations)
}

func TestNewton_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Newton(ctx, tunable, defaultConfig, 50)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBisect_Converges(t *testing.T) {
	result, err := Bisect(context.Background(), tunable, defaultConfig, Bracket{Lower: 0, Upper: 100})
	require.NoError(t, err)

	f := tunable.Frequency(result.Resistance)
	require.True(t, f.Valid)
	assert.Less(t, math.Abs(f.Value-1000), 0.1)
	assert.Equal(t, Bisection, result.Method)
	assert.Equal(t, 50.0, result.Steps[0].Resistance)
}

func TestBisect_WidthExit(t *testing.T) {
	// steep enough that the accuracy test never fires before the bracket closes
	steep := circuit.Circuit{Inductance: 0.01, Capacitance: 2e-6}
	result, err := Bisect(context.Background(), steep, defaultConfig, Bracket{Lower: 0, Upper: 100})
	require.NoError(t, err)

	last := result.Steps[len(result.Steps)-1]
	assert.GreaterOrEqual(t, math.Abs(last.Error), defaultConfig.Tolerance)
	assert.InDelta(t, 64.874, result.Resistance, defaultConfig.Tolerance)
}

func TestMethods_Agree(t *testing.T) {
	newton, err := Newton(context.Background(), tunable, defaultConfig, 50)
	require.NoError(t, err)

	bisection, err := Bisect(context.Background(), tunable, defaultConfig, Bracket{Lower: 0, Upper: 100})
	require.NoError(t, err)

	assert.InDelta(t, newton.Resistance, bisection.Resistance, 1.0)
}

func TestBisect_NotFound(t *testing.T) {
	testCases := []struct {
		name    string
		circuit circuit.Circuit
		bracket Bracket
		want    error
	}{
		{"literal circuit below target", literal, Bracket{Lower: 0, Upper: 100}, ErrNoSignChange},
		{"no sign change", literal, Bracket{Lower: 200, Upper: 300}, ErrNoSignChange},
		{"lower end past critical resistance", literal, Bracket{Lower: 500, Upper: 600}, ErrUndefinedFrequency},
		{"midpoint past critical resistance", literal, Bracket{Lower: 0, Upper: 1000}, ErrUndefinedFrequency},
		{"NaN circuit", circuit.Circuit{Inductance: math.NaN(), Capacitance: 10e-6}, Bracket{Lower: 0, Upper: 100}, ErrUndefinedFrequency},
		{"inverted bracket", tunable, Bracket{Lower: 100, Upper: 0}, ErrInvalidBracket},
		{"empty bracket", tunable, Bracket{Lower: 50, Upper: 50}, ErrInvalidBracket},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := Bisect(context.Background(), tc.circuit, defaultConfig, tc.bracket)
			require.ErrorIs(t, err, tc.want)
			assert.True(t, math.IsNaN(result.Resistance))
		})
	}
}

func TestBisect_UpperEndPastCriticalResistance(t *testing.T) {
	// f(1000) is undefined but f(500) is not, so the root stays reachable
	require.False(t, tunable.Frequency(1000).Valid)

	result, err := Bisect(context.Background(), tunable, defaultConfig, Bracket{Lower: 0, Upper: 1000})
	require.NoError(t, err)
	assert.InDelta(t, 73.5, result.Resistance, 0.5)
	assert.Equal(t, 500.0, result.Steps[0].Resistance)
	assert.True(t, result.Steps[0].Frequency.Valid)

	f := tunable.Frequency(result.Resistance)
	require.True(t, f.Valid)
	assert.Less(t, math.Abs(f.Value-1000), 0.1)
}

func TestBisect_NarrowBracketSkipsEvaluation(t *testing.T) {
	// both ends are past the critical resistance, nothing is evaluated
	result, err := Bisect(context.Background(), literal, defaultConfig, Bracket{Lower: 500, Upper: 500.1})
	require.NoError(t, err)
	assert.InDelta(t, 500.05, result.Resistance, 1e-9)
	assert.Zero(t, result.Iterations)
	assert.Empty(t, result.Steps)
}

func TestNewton_NaNCircuit(t *testing.T) {
	_, err := Newton(context.Background(), circuit.Circuit{Inductance: 0.04, Capacitance: math.NaN()}, defaultConfig, 50)
	assert.ErrorIs(t, err, ErrUndefinedFrequency)
}

func TestBisect_IterationLimit(t *testing.T) {
	config := defaultConfig
	config.MaxIterations = 2

	result, err := Bisect(context.Background(), tunable, config, Bracket{Lower: 0, Upper: 100})
	require.ErrorIs(t, err, ErrNoConvergence)
	assert.Equal(t, 2, result.Iterations)
}

func TestConfig_Invalid(t *testing.T) {
	testCases := []struct {
		name   string
		config Config
	}{
		{"zero tolerance", Config{Target: 1000, Tolerance: 0, MaxIterations: 10}},
		{"negative tolerance", Config{Target: 1000, Tolerance: -1, MaxIterations: 10}},
		{"zero iterations", Config{Target: 1000, Tolerance: 0.1, MaxIterations: 0}},
		{"NaN tolerance", Config{Target: 1000, Tolerance: math.NaN(), MaxIterations: 10}},
		{"NaN target", Config{Target: math.NaN(), Tolerance: 0.1, MaxIterations: 10}},
		{"zero target", Config{Target: 0, Tolerance: 0.1, MaxIterations: 10}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Newton(context.Background(), tunable, tc.config, 50)
			assert.ErrorIs(t, err, ErrInvalidConfig)

			_, err = Bisect(context.Background(), tunable, tc.config, Bracket{Lower: 0, Upper: 100})
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestError_Message(t *testing.T) {
	err := newError(Bisection, 3, 12.5, ErrUndefinedFrequency)
	assert.Equal(t, "bisection: iteration 3 at R=12.5: frequency undefined", err.Error())
	assert.Equal(t, "Bisection", Bisection.Title())
	assert.Equal(t, "Newton-Raphson", NewtonRaphson.Title())
}
