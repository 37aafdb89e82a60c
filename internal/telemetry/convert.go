// Package telemetry turns operator-entered readings into the payload the
// prediction service expects.
package telemetry

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// KelvinOffset is added to a Celsius reading to get Kelvin.
const KelvinOffset = 273.15

func CToK(c float64) float64 {
	return c + KelvinOffset
}

var numericPrefix = regexp.MustCompile(`^[+-]?(Infinity|\d+\.?\d*(?:[eE][+-]?\d+)?|\.\d+(?:[eE][+-]?\d+)?)`)

// ParseReading reads the longest numeric prefix of s, ignoring leading
// whitespace and trailing garbage. Text without a numeric prefix yields
// NaN rather than an error, so bad input is forwarded for the model to judge.
func ParseReading(s string) float64 {
	m := numericPrefix.FindString(strings.TrimLeft(s, " \t\n\r\v\f"))
	if m == "" {
		return math.NaN()
	}

	switch strings.TrimLeft(m, "+-") {
	case "Infinity":
		if strings.HasPrefix(m, "-") {
			return math.Inf(-1)
		}
		return math.Inf(1)
	}

	f, err := strconv.ParseFloat(m, 64)
	if err != nil {
		// out of range mantissa/exponent still yields ±Inf or 0 with ErrRange
		if numErr, ok := err.(*strconv.NumError); ok && numErr.Err == strconv.ErrRange {
			return f
		}
		return math.NaN()
	}
	return f
}
