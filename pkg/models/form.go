package models

import (
	"errors"
	"strings"
)

const (
	DefaultAirTempC = 25.0
	DefaultToolWear = 0.0
)

var ErrMissingField = errors.New("required field missing")

// FormState is the telemetry entered on the diagnostic form. The numeric
// text fields stay free text until a submission parses them.
type FormState struct {
	MachineType     MachineType `json:"machine_type"`
	RotationalSpeed string      `json:"rotational_speed"`
	Torque          string      `json:"torque"`
	ProcTempC       string      `json:"proc_temp_c"`
	AirTempC        float64     `json:"air_temp_c"`
	ToolWear        float64     `json:"tool_wear"`
}

func DefaultFormState() FormState {
	return FormState{
		MachineType: MachineTypeLow,
		AirTempC:    DefaultAirTempC,
		ToolWear:    DefaultToolWear,
	}
}

// MissingFields lists the required inputs left blank. Only presence is
// checked; content is forwarded as typed.
func (f FormState) MissingFields() []string {
	var missing []string
	if strings.TrimSpace(f.RotationalSpeed) == "" {
		missing = append(missing, "rotational_speed")
	}
	if strings.TrimSpace(f.Torque) == "" {
		missing = append(missing, "torque")
	}
	if strings.TrimSpace(f.ProcTempC) == "" {
		missing = append(missing, "proc_temp_c")
	}
	return missing
}

func (f FormState) Ready() bool {
	return f.MachineType.Valid() && len(f.MissingFields()) == 0
}
