package app

import (
	"fmt"
	"io"
	"strconv"
)

const notFound = "Not found"

// WriteReport prints one block per solution:
//
//	Newton-Raphson Method:
//	Resistance: 73.44 ohm, Frequency: 1000.01 Hz
func WriteReport(w io.Writer, solutions []Solution) error {
	for i, s := range solutions {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}

		resistance, frequency := notFound, notFound
		if s.Found() {
			resistance = formatFloat(s.Resistance) + " ohm"
			if s.Frequency.Valid {
				frequency = formatFloat(s.Frequency.Value) + " Hz"
			}
		}

		if _, err := fmt.Fprintf(w, "%s Method:\nResistance: %s, Frequency: %s\n", s.Method.Title(), resistance, frequency); err != nil {
			return err
		}
	}

	return nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
