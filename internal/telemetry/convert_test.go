package telemetry_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OldStager01/sentinel-console/internal/telemetry"
	"github.com/OldStager01/sentinel-console/pkg/models"
)

func TestCToK(t *testing.T) {
	tests := []struct {
		celsius  float64
		expected float64
	}{
		{celsius: 25, expected: 298.15},
		{celsius: 0, expected: 273.15},
		{celsius: 36, expected: 309.15},
		{celsius: -273.15, expected: 0},
	}

	for _, tt := range tests {
		assert.InDelta(t, tt.expected, telemetry.CToK(tt.celsius), 1e-9)
		assert.Equal(t, tt.celsius+273.15, telemetry.CToK(tt.celsius))
	}
}

func TestParseReading(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected float64
		isNaN    bool
	}{
		{name: "integer", input: "1500", expected: 1500},
		{name: "decimal", input: "40.5", expected: 40.5},
		{name: "leading whitespace", input: "  36", expected: 36},
		{name: "trailing garbage", input: "12abc", expected: 12},
		{name: "leading dot", input: ".5", expected: 0.5},
		{name: "exponent", input: "1e3", expected: 1000},
		{name: "dangling exponent", input: "2e", expected: 2},
		{name: "negative", input: "-4", expected: -4},
		{name: "infinity", input: "Infinity", expected: math.Inf(1)},
		{name: "letters", input: "abc", isNaN: true},
		{name: "empty", input: "", isNaN: true},
		{name: "sign only", input: "-", isNaN: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := telemetry.ParseReading(tt.input)
			if tt.isNaN {
				assert.True(t, math.IsNaN(got))
				return
			}
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestBuildRequest(t *testing.T) {
	form := models.FormState{
		MachineType:     models.MachineTypeMedium,
		RotationalSpeed: "1500",
		Torque:          "40",
		ProcTempC:       "36",
		AirTempC:        25,
		ToolWear:        0,
	}

	req := telemetry.BuildRequest(form)

	assert.Equal(t, models.MachineTypeMedium, req.MachineType)
	assert.Equal(t, models.Reading(1500), req.RotationalSpeed)
	assert.Equal(t, models.Reading(40), req.Torque)
	assert.InDelta(t, 309.15, float64(req.ProcTemperature), 1e-9)
	assert.InDelta(t, 298.15, float64(req.AirTemperature), 1e-9)
	assert.Equal(t, models.Reading(0), req.ToolWear)
}

func TestBuildRequest_UnparseableForwardedAsNull(t *testing.T) {
	form := models.DefaultFormState()
	form.RotationalSpeed = "fast"
	form.Torque = "40"
	form.ProcTempC = "hot"

	data, err := json.Marshal(telemetry.BuildRequest(form))
	require.NoError(t, err)

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &payload))
	assert.Nil(t, payload["rotational_speed"])
	assert.Nil(t, payload["proc_temperature"])
	assert.Equal(t, 40.0, payload["torque"])
	assert.Equal(t, "L", payload["machine_type"])
}

func TestPowerW(t *testing.T) {
	assert.InDelta(t, 6283.19, telemetry.PowerW(1500, 40), 0.01)
	assert.InDelta(t, 10.0, telemetry.TempDelta(309.15, 299.15), 1e-9)
}
