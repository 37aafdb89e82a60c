package simulator

import (
	"errors"
	"math"
	"sort"

	"github.com/OldStager01/sentinel-console/internal/telemetry"
	"github.com/OldStager01/sentinel-console/pkg/models"
)

var ErrInvalidReading = errors.New("reading must be a finite number")

// Rule-of-thumb failure thresholds of the milling dataset.
const (
	toolWearLow       = 200.0
	toolWearHigh      = 240.0
	heatDeltaLimitK   = 8.6
	heatSpeedLimit    = 1380.0
	powerLowW         = 3500.0
	powerHighW        = 9000.0
	randomFailureRisk = 0.1
)

var overstrainLimit = map[models.MachineType]float64{
	models.MachineTypeLow:    11000,
	models.MachineTypeMedium: 12000,
	models.MachineTypeHigh:   13000,
}

type finding struct {
	insight        models.Recommendation
	recommendation models.Recommendation
}

var findings = map[models.FailureMode]finding{
	models.FailurePower: {
		insight:        models.Recommendation{EN: "The machine is using too much energy and might stop.", UR: "مشین بہت زیادہ بجلی استعمال کر رہی ہے اور رک سکتی ہے۔"},
		recommendation: models.Recommendation{EN: "Please lower the speed or the load immediately.", UR: "براہ کرم فوری طور پر رفتار یا بوجھ کم کریں۔"},
	},
	models.FailureOverstrain: {
		insight:        models.Recommendation{EN: "The machine is under too much pressure.", UR: "مشین پر بہت زیادہ دباؤ ہے۔"},
		recommendation: models.Recommendation{EN: "Lower the torque or check the tool.", UR: "ٹارک کم کریں یا اوزار چیک کریں۔"},
	},
	models.FailureHeatDissipation: {
		insight:        models.Recommendation{EN: "The machine is getting too hot.", UR: "مشین بہت زیادہ گرم ہو رہی ہے۔"},
		recommendation: models.Recommendation{EN: "Check the cooling system or slow down the machine.", UR: "کولنگ سسٹم چیک کریں یا مشین کی رفتار کم کریں۔"},
	},
	models.FailureToolWear: {
		insight:        models.Recommendation{EN: "The cutting tool is worn out.", UR: "مشین کا اوزار گھس گیا ہے۔"},
		recommendation: models.Recommendation{EN: "Change the tool head soon to avoid damage.", UR: "نقصان سے بچنے کے لیے جلد اوزار تبدیل کریں۔"},
	},
}

// Findings are reported in this order.
var findingOrder = []models.FailureMode{
	models.FailurePower,
	models.FailureOverstrain,
	models.FailureHeatDissipation,
	models.FailureToolWear,
}

var healthyFinding = finding{
	insight:        models.Recommendation{EN: "Everything looks good! The machine is safe.", UR: "سب کچھ ٹھیک ہے! مشین محفوظ ہے۔"},
	recommendation: models.Recommendation{EN: "Keep working as usual.", UR: "معمول کے مطابق کام جاری رکھیں۔"},
}

// FeatureStat is the mean and standard deviation of one dataset column.
type FeatureStat struct {
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
}

// Model scores telemetry with threshold heuristics instead of a trained
// classifier. Stats feed the feature-importance estimate.
type Model struct {
	stats map[string]FeatureStat
}

func NewModel(stats map[string]FeatureStat) *Model {
	return &Model{stats: stats}
}

// Score returns per-mode failure probabilities in percent.
func Score(req models.PredictionRequest) map[models.FailureMode]float64 {
	rpm := float64(req.RotationalSpeed)
	torque := float64(req.Torque)
	wear := float64(req.ToolWear)
	delta := telemetry.TempDelta(float64(req.ProcTemperature), float64(req.AirTemperature))
	power := telemetry.PowerW(rpm, torque)

	scores := map[models.FailureMode]float64{
		models.FailureToolWear:        toolWearRisk(wear),
		models.FailureHeatDissipation: heatRisk(delta, rpm),
		models.FailurePower:           powerRisk(power),
		models.FailureOverstrain:      overstrainRisk(machineType(req.MachineType), wear*torque),
		models.FailureRandom:          randomFailureRisk,
	}
	for mode, v := range scores {
		scores[mode] = round(clamp(v, 0, 99.9), 2)
	}
	return scores
}

func toolWearRisk(wear float64) float64 {
	switch {
	case wear >= toolWearLow && wear <= toolWearHigh:
		return 85
	case wear > toolWearHigh:
		return 65
	default:
		return wear / toolWearLow * 30
	}
}

func heatRisk(deltaK, rpm float64) float64 {
	if deltaK < heatDeltaLimitK && rpm < heatSpeedLimit {
		return 80
	}
	// Either condition holding keeps the rule quiet; risk tracks the safer one.
	margin := math.Max((deltaK-heatDeltaLimitK)/heatDeltaLimitK, (rpm-heatSpeedLimit)/heatSpeedLimit)
	return math.Max(0, 30-margin*100)
}

func powerRisk(powerW float64) float64 {
	switch {
	case powerW < powerLowW:
		return 75 + (powerLowW-powerW)/powerLowW*20
	case powerW > powerHighW:
		return 75 + (powerW-powerHighW)/powerHighW*20
	default:
		return 3
	}
}

func overstrainRisk(t models.MachineType, strain float64) float64 {
	limit := overstrainLimit[t]
	if strain > limit {
		return 90
	}
	return strain / limit * 40
}

// machineType mirrors the inference service: unknown codes score as L.
func machineType(t models.MachineType) models.MachineType {
	parsed, err := models.ParseMachineType(string(t))
	if err != nil {
		return models.MachineTypeLow
	}
	return parsed
}

func typeEncoded(t models.MachineType) int {
	switch machineType(t) {
	case models.MachineTypeMedium:
		return 1
	case models.MachineTypeHigh:
		return 2
	default:
		return 0
	}
}

// Predict builds the full response the console expects.
func (m *Model) Predict(req models.PredictionRequest) (*models.PredictionResult, error) {
	for _, r := range []models.Reading{req.RotationalSpeed, req.Torque, req.ProcTemperature, req.AirTemperature, req.ToolWear} {
		if r.IsNaN() || math.IsInf(float64(r), 0) {
			return nil, ErrInvalidReading
		}
	}

	scores := Score(req)
	maxRisk := 0.0
	for _, mode := range models.AllFailureModes() {
		if scores[mode] > maxRisk {
			maxRisk = scores[mode]
		}
	}

	var insights, recs []models.Recommendation
	for _, mode := range findingOrder {
		if scores[mode] > models.CriticalRiskThreshold {
			insights = append(insights, findings[mode].insight)
			recs = append(recs, findings[mode].recommendation)
		}
	}
	if len(insights) == 0 {
		insights = append(insights, healthyFinding.insight)
		recs = append(recs, healthyFinding.recommendation)
	}

	power := telemetry.PowerW(float64(req.RotationalSpeed), float64(req.Torque))
	delta := telemetry.TempDelta(float64(req.ProcTemperature), float64(req.AirTemperature))

	return &models.PredictionResult{
		Status:          "success",
		MaxRisk:         maxRisk,
		Predictions:     scores,
		Recommendations: recs,
		Insights:        insights,
		EngineeredFeatures: &models.EngineeredFeatures{
			PowerW:      round(power, 2),
			TempDelta:   round(delta, 2),
			TypeEncoded: typeEncoded(req.MachineType),
		},
		FeatureImportance: m.importance(req),
	}, nil
}

// importance estimates each input's contribution from its z-score against
// the dataset, scaled by 25 and sorted descending.
func (m *Model) importance(req models.PredictionRequest) []models.FeatureImportance {
	if len(m.stats) == 0 {
		return nil
	}

	inputs := []struct {
		name  string
		key   string
		value float64
	}{
		{"Rotational speed", statRotationalSpeed, float64(req.RotationalSpeed)},
		{"Torque", statTorque, float64(req.Torque)},
		{"Tool wear", statToolWear, float64(req.ToolWear)},
		{"Proc_Temp_C", statProcTemp, float64(req.ProcTemperature)},
	}

	out := make([]models.FeatureImportance, 0, len(inputs))
	for _, in := range inputs {
		stat, ok := m.stats[in.key]
		if !ok || stat.Std == 0 {
			continue
		}
		z := math.Abs((in.value - stat.Mean) / stat.Std)
		out = append(out, models.FeatureImportance{
			Feature:      in.name,
			Value:        in.value,
			ZScore:       round(z, 2),
			Contribution: round(z*25, 1),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Contribution > out[j].Contribution
	})
	return out
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
