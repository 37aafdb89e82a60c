package models

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownMachineType = errors.New("unknown machine type")

// MachineType is the product quality variant of the monitored machine.
type MachineType string

const (
	MachineTypeLow    MachineType = "L"
	MachineTypeMedium MachineType = "M"
	MachineTypeHigh   MachineType = "H"
)

func AllMachineTypes() []MachineType {
	return []MachineType{MachineTypeLow, MachineTypeMedium, MachineTypeHigh}
}

// ParseMachineType accepts the one-letter code in either case.
func ParseMachineType(code string) (MachineType, error) {
	switch MachineType(strings.ToUpper(strings.TrimSpace(code))) {
	case MachineTypeLow:
		return MachineTypeLow, nil
	case MachineTypeMedium:
		return MachineTypeMedium, nil
	case MachineTypeHigh:
		return MachineTypeHigh, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMachineType, code)
	}
}

func (t MachineType) Valid() bool {
	_, err := ParseMachineType(string(t))
	return err == nil
}

func (t MachineType) Label() string {
	switch t {
	case MachineTypeLow:
		return "Standard"
	case MachineTypeMedium:
		return "Industrial"
	case MachineTypeHigh:
		return "Heavy-Duty"
	default:
		return "Unknown"
	}
}

// FailureMode is one of the failure categories scored by the remote model.
type FailureMode string

const (
	FailureToolWear        FailureMode = "TWF"
	FailureHeatDissipation FailureMode = "HDF"
	FailurePower           FailureMode = "PWF"
	FailureOverstrain      FailureMode = "OSF"
	FailureRandom          FailureMode = "RNF"
)

// AllFailureModes returns the modes in the order the remote model reports them.
func AllFailureModes() []FailureMode {
	return []FailureMode{
		FailureToolWear,
		FailureHeatDissipation,
		FailurePower,
		FailureOverstrain,
		FailureRandom,
	}
}

func ParseFailureMode(code string) (FailureMode, bool) {
	switch FailureMode(code) {
	case FailureToolWear, FailureHeatDissipation, FailurePower, FailureOverstrain, FailureRandom:
		return FailureMode(code), true
	default:
		return "", false
	}
}

func (m FailureMode) Description() string {
	switch m {
	case FailureToolWear:
		return "Tool Wear Failure"
	case FailureHeatDissipation:
		return "Heat Dissipation Failure"
	case FailurePower:
		return "Power Failure"
	case FailureOverstrain:
		return "Overstrain Failure"
	case FailureRandom:
		return "Random Failure"
	default:
		return "Unknown Failure"
	}
}

// Axis is the single-letter radar axis label used on the risk profile.
func (m FailureMode) Axis() string {
	switch m {
	case FailureToolWear:
		return "W"
	case FailureHeatDissipation:
		return "H"
	case FailurePower:
		return "P"
	case FailureOverstrain:
		return "S"
	case FailureRandom:
		return "R"
	default:
		return "?"
	}
}
