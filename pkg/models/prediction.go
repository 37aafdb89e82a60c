package models

import (
	"encoding/json"
	"math"
	"sort"
)

// CriticalRiskThreshold separates critical from nominal results. It is a
// product constant, not configuration.
const CriticalRiskThreshold = 50.0

// Reading is a numeric telemetry value. NaN and infinities encode as JSON
// null, the same bytes a browser sends for an unparseable number.
type Reading float64

func (r Reading) MarshalJSON() ([]byte, error) {
	f := float64(r)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(f)
}

func (r *Reading) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*r = Reading(math.NaN())
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*r = Reading(f)
	return nil
}

func (r Reading) IsNaN() bool {
	return math.IsNaN(float64(r))
}

// PredictionRequest is the body posted to the prediction endpoint.
// Temperatures are in Kelvin.
type PredictionRequest struct {
	MachineType     MachineType `json:"machine_type"`
	RotationalSpeed Reading     `json:"rotational_speed"`
	Torque          Reading     `json:"torque"`
	ProcTemperature Reading     `json:"proc_temperature"`
	AirTemperature  Reading     `json:"air_temperature"`
	ToolWear        Reading     `json:"tool_wear"`
}

// Recommendation is a maintenance directive in English and Urdu.
type Recommendation struct {
	EN string `json:"en"`
	UR string `json:"ur"`
}

type EngineeredFeatures struct {
	PowerW      float64 `json:"power_w"`
	TempDelta   float64 `json:"temp_delta"`
	TypeEncoded int     `json:"type_encoded"`
}

type FeatureImportance struct {
	Feature      string  `json:"feature"`
	Value        float64 `json:"value"`
	ZScore       float64 `json:"z_score"`
	Contribution float64 `json:"contribution"`
}

// PredictionResult is the structured response of the prediction endpoint.
// Only MaxRisk, Predictions and Recommendations are guaranteed; the rest is
// shown when the upstream provides it.
type PredictionResult struct {
	Status             string                  `json:"status,omitempty"`
	MaxRisk            float64                 `json:"max_risk"`
	Predictions        map[FailureMode]float64 `json:"predictions"`
	Recommendations    []Recommendation        `json:"ai_recommendations"`
	Insights           []Recommendation        `json:"ai_insights,omitempty"`
	EngineeredFeatures *EngineeredFeatures     `json:"engineered_features,omitempty"`
	FeatureImportance  []FeatureImportance     `json:"feature_importance,omitempty"`
}

// IsCritical reports whether a risk value crosses the critical threshold.
// The comparison is strict: exactly 50 is nominal.
func IsCritical(maxRisk float64) bool {
	return maxRisk > CriticalRiskThreshold
}

func (p *PredictionResult) IsCritical() bool {
	if p == nil {
		return false
	}
	return IsCritical(p.MaxRisk)
}

// Health is the complement of the risk, rounded to a whole percent.
func (p *PredictionResult) Health() int {
	return int(math.Round(100 - p.MaxRisk))
}

func (p *PredictionResult) Score(mode FailureMode) float64 {
	return p.Predictions[mode]
}

// Known drops failure-mode keys outside the closed set.
func (p *PredictionResult) Known() {
	for mode := range p.Predictions {
		if _, ok := ParseFailureMode(string(mode)); !ok {
			delete(p.Predictions, mode)
		}
	}
}

// TopFailureMode returns the highest scoring mode, ties broken by report order.
func (p *PredictionResult) TopFailureMode() (FailureMode, float64) {
	var (
		top   FailureMode
		score = -1.0
	)
	for _, mode := range AllFailureModes() {
		if v, ok := p.Predictions[mode]; ok && v > score {
			top, score = mode, v
		}
	}
	return top, score
}

// RankedImportance returns feature contributions, highest first.
func (p *PredictionResult) RankedImportance() []FeatureImportance {
	ranked := make([]FeatureImportance, len(p.FeatureImportance))
	copy(ranked, p.FeatureImportance)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Contribution > ranked[j].Contribution
	})
	return ranked
}
