package simulator

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/OldStager01/sentinel-console/internal/telemetry"
	"github.com/OldStager01/sentinel-console/pkg/models"
)

const (
	DefaultRows = 100
	DefaultSeed = 42

	noFailure = "No Failure"
)

const (
	statRotationalSpeed = "rotational_speed"
	statTorque          = "torque"
	statToolWear        = "tool_wear"
	statAirTemp         = "air_temp"
	statProcTemp        = "proc_temp"
)

// Dataset is a reproducible slice of milling telemetry shaped like the
// upstream history rows.
type Dataset struct {
	Records []models.HistoryRecord
	Stats   map[string]FeatureStat
}

// GenerateDataset produces rows records from seed. The same seed always
// yields the same rows.
func GenerateDataset(rows int, seed int64) *Dataset {
	if rows <= 0 {
		rows = DefaultRows
	}
	rng := rand.New(rand.NewSource(seed))

	records := make([]models.HistoryRecord, 0, rows)
	columns := map[string][]float64{}
	wear := 0.0

	for i := 1; i <= rows; i++ {
		t := pickType(rng)
		air := round(298+rng.NormFloat64()*2, 1)
		proc := round(air+10+rng.NormFloat64(), 1)
		rpm := math.Round(clamp(1538+rng.NormFloat64()*179, 1168, 2886))
		torque := round(clamp(40+rng.NormFloat64()*10, 3.8, 76.6), 1)

		// Tools wear in runs and get replaced past the failure band.
		wear += float64(2 + rng.Intn(5))
		if wear > 253 {
			wear = 0
		}

		req := models.PredictionRequest{
			MachineType:     t,
			RotationalSpeed: models.Reading(rpm),
			Torque:          models.Reading(torque),
			ProcTemperature: models.Reading(proc),
			AirTemperature:  models.Reading(air),
			ToolWear:        models.Reading(wear),
		}
		failure := classify(req)
		target := 0
		if failure != noFailure {
			target = 1
		}

		records = append(records, models.HistoryRecord{
			models.FieldUDI:             i,
			models.FieldProductID:       fmt.Sprintf("%s%05d", t, 10000+rng.Intn(90000)),
			models.FieldType:            string(t),
			models.FieldAirTemperature:  air,
			models.FieldProcTemperature: proc,
			models.FieldRotationalSpeed: rpm,
			models.FieldTorque:          torque,
			models.FieldToolWear:        wear,
			models.FieldTarget:          target,
			models.FieldFailureType:     failure,
		})

		columns[statRotationalSpeed] = append(columns[statRotationalSpeed], rpm)
		columns[statTorque] = append(columns[statTorque], torque)
		columns[statToolWear] = append(columns[statToolWear], wear)
		columns[statAirTemp] = append(columns[statAirTemp], air)
		columns[statProcTemp] = append(columns[statProcTemp], proc)
	}

	stats := make(map[string]FeatureStat, len(columns))
	for key, values := range columns {
		stats[key] = describe(values)
	}

	return &Dataset{Records: records, Stats: stats}
}

// pickType follows the 60/30/10 L/M/H split of the plant.
func pickType(rng *rand.Rand) models.MachineType {
	switch n := rng.Intn(10); {
	case n < 6:
		return models.MachineTypeLow
	case n < 9:
		return models.MachineTypeMedium
	default:
		return models.MachineTypeHigh
	}
}

// classify labels a row with the first failure mode whose rule fires.
func classify(req models.PredictionRequest) string {
	rpm := float64(req.RotationalSpeed)
	torque := float64(req.Torque)
	wear := float64(req.ToolWear)

	switch {
	case wear >= toolWearLow && wear <= toolWearHigh:
		return models.FailureToolWear.Description()
	case telemetry.TempDelta(float64(req.ProcTemperature), float64(req.AirTemperature)) < heatDeltaLimitK && rpm < heatSpeedLimit:
		return models.FailureHeatDissipation.Description()
	case telemetry.PowerW(rpm, torque) < powerLowW || telemetry.PowerW(rpm, torque) > powerHighW:
		return models.FailurePower.Description()
	case wear*torque > overstrainLimit[req.MachineType]:
		return models.FailureOverstrain.Description()
	default:
		return noFailure
	}
}

func describe(values []float64) FeatureStat {
	if len(values) == 0 {
		return FeatureStat{}
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))

	if len(values) < 2 {
		return FeatureStat{Mean: mean}
	}
	var sq float64
	for _, v := range values {
		sq += (v - mean) * (v - mean)
	}
	return FeatureStat{Mean: mean, Std: math.Sqrt(sq / float64(len(values)-1))}
}
