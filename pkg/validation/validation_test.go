package validation_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OldStager01/sentinel-console/pkg/models"
	"github.com/OldStager01/sentinel-console/pkg/validation"
)

func TestValidateChatMessage(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "keeps surrounding spaces", input: "  status?  ", want: "  status?  "},
		{name: "blank passes through", input: "   ", want: "   "},
		{name: "drops null bytes", input: "he\x00llo", want: "hello"},
		{name: "keeps control characters", input: "a\r\nb\x07c", want: "a\r\nb\x07c"},
		{name: "keeps urdu", input: "مشین", want: "مشین"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := validation.ValidateChatMessage(tt.input, 20)
			require.NoError(t, err)
			assert.Equal(t, tt.want, msg)
		})
	}

	_, err := validation.ValidateChatMessage(strings.Repeat("x", 11), 10)
	assert.ErrorIs(t, err, validation.ErrInvalidInput)

	_, err = validation.ValidateChatMessage(strings.Repeat("x", validation.DefaultMaxMessageLength), 0)
	assert.NoError(t, err)
}

func TestValidateSearchTerm(t *testing.T) {
	term, err := validation.ValidateSearchTerm(" H ")
	require.NoError(t, err)
	assert.Equal(t, " H ", term)

	_, err = validation.ValidateSearchTerm(strings.Repeat("a", validation.MaxSearchTermLength+1))
	assert.ErrorIs(t, err, validation.ErrInvalidInput)
}

func TestValidateFormField(t *testing.T) {
	assert.NoError(t, validation.ValidateFormField("torque", "abc"))
	assert.NoError(t, validation.ValidateFormField("torque", ""))
	assert.Error(t, validation.ValidateFormField("torque", strings.Repeat("9", validation.MaxFieldLength+1)))
	assert.Error(t, validation.ValidateFormField("torque", "4\x000"))
}

func TestValidateMachineType(t *testing.T) {
	mt, err := validation.ValidateMachineType("h")
	require.NoError(t, err)
	assert.Equal(t, models.MachineTypeHigh, mt)

	_, err = validation.ValidateMachineType("X")
	assert.ErrorIs(t, err, validation.ErrInvalidInput)
}

func TestValidateSessionID(t *testing.T) {
	assert.NoError(t, validation.ValidateSessionID("0b8a3a64-9a57-4c1e-8b7e-2f1a5c3d9e10"))
	assert.Error(t, validation.ValidateSessionID("0B8A3A64-9A57-4C1E-8B7E-2F1A5C3D9E10"))
	assert.Error(t, validation.ValidateSessionID("nope"))
}
