package telemetry

import (
	"math"

	"github.com/OldStager01/sentinel-console/pkg/models"
)

// BuildRequest derives the prediction payload from the form. Both
// temperatures are converted to Kelvin; numeric text is coerced with
// ParseReading. No range checks are applied.
func BuildRequest(form models.FormState) models.PredictionRequest {
	return models.PredictionRequest{
		MachineType:     form.MachineType,
		RotationalSpeed: models.Reading(ParseReading(form.RotationalSpeed)),
		Torque:          models.Reading(ParseReading(form.Torque)),
		ProcTemperature: models.Reading(CToK(ParseReading(form.ProcTempC))),
		AirTemperature:  models.Reading(CToK(form.AirTempC)),
		ToolWear:        models.Reading(form.ToolWear),
	}
}

// PowerW is the mechanical power implied by speed and torque.
func PowerW(rpm, torqueNm float64) float64 {
	return torqueNm * rpm * 2 * math.Pi / 60
}

// TempDelta is the process-to-ambient temperature difference in Kelvin.
func TempDelta(procK, airK float64) float64 {
	return procK - airK
}
