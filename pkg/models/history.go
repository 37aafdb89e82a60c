package models

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

const (
	HistoryStatusSuccess = "success"

	FieldUDI             = "UDI"
	FieldProductID       = "Product ID"
	FieldType            = "Type"
	FieldRotationalSpeed = "Rotational speed [rpm]"
	FieldTorque          = "Torque [Nm]"
	FieldProcTemperature = "Process temperature [K]"
	FieldAirTemperature  = "Air temperature [K]"
	FieldToolWear        = "Tool wear [min]"
	FieldTarget          = "Target"
	FieldFailureType     = "Failure Type"
)

// HistoryRecord is one row of the historical dataset. The field set is
// owned by the upstream, so it is kept as decoded JSON.
type HistoryRecord map[string]interface{}

type HistoryResponse struct {
	Status string          `json:"status"`
	Data   []HistoryRecord `json:"data"`
}

// Text renders a field the way it reads in the table. Missing and null
// fields render empty.
func (r HistoryRecord) Text(field string) string {
	return displayString(r[field])
}

// Failed reports whether the record's Target is truthy.
func (r HistoryRecord) Failed() bool {
	switch v := r[FieldTarget].(type) {
	case nil:
		return false
	case bool:
		return v
	case float64:
		return v != 0 && !math.IsNaN(v)
	case int:
		return v != 0
	case json.Number:
		f, err := v.Float64()
		return err == nil && f != 0
	case string:
		return v != ""
	default:
		return true
	}
}

// Status is the label shown in the table's status column.
func (r HistoryRecord) Status() string {
	if !r.Failed() {
		return "Nominal"
	}
	if ft := r.Text(FieldFailureType); ft != "" {
		return ft
	}
	return "ALARM"
}

// Matches reports whether any field contains term, case-insensitively.
// The term is expected lower-cased already; an empty term matches.
func (r HistoryRecord) Matches(lowerTerm string) bool {
	if lowerTerm == "" {
		return true
	}
	for _, v := range r {
		if strings.Contains(strings.ToLower(displayString(v)), lowerTerm) {
			return true
		}
	}
	return false
}

func displayString(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return formatNumber(val)
	case int:
		return strconv.Itoa(val)
	case json.Number:
		if f, err := val.Float64(); err == nil {
			return formatNumber(f)
		}
		return val.String()
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

func formatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	if f == 0 {
		return "0"
	}

	// Plain decimals inside [1e-6, 1e21), exponent form outside it,
	// the way a browser prints a number.
	if abs := math.Abs(f); abs >= 1e-6 && abs < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	mant, exp, _ := strings.Cut(strconv.FormatFloat(f, 'e', -1, 64), "e")
	digits := strings.TrimLeft(exp[1:], "0")
	if digits == "" {
		digits = "0"
	}
	return mant + "e" + exp[:1] + digits
}
