package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/OldStager01/sentinel-console/pkg/models"
)

const (
	DefaultMaxMessageLength = 2000
	MaxSearchTermLength     = 200
	MaxFieldLength          = 64
)

var (
	// ErrInvalidInput indicates the input failed validation
	ErrInvalidInput = errors.New("invalid input")

	sessionIDRegex = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)
)

// ValidateChatMessage enforces the length cap and drops null bytes. The
// text is otherwise forwarded as typed; trimming is left to the chat session.
func ValidateChatMessage(message string, maxLength int) (string, error) {
	if maxLength <= 0 {
		maxLength = DefaultMaxMessageLength
	}

	message = strings.ReplaceAll(message, "\x00", "")
	if utf8.RuneCountInString(message) > maxLength {
		return "", fmt.Errorf("%w: message must not exceed %d characters", ErrInvalidInput, maxLength)
	}
	return message, nil
}

// ValidateSearchTerm caps the history search term. The term is not trimmed:
// a space is a legitimate substring.
func ValidateSearchTerm(term string) (string, error) {
	term = strings.ReplaceAll(term, "\x00", "")
	if utf8.RuneCountInString(term) > MaxSearchTermLength {
		return "", fmt.Errorf("%w: search term must not exceed %d characters", ErrInvalidInput, MaxSearchTermLength)
	}
	return term, nil
}

// ValidateFormField caps a free-text telemetry field. Content is not
// checked for being numeric.
func ValidateFormField(name, value string) error {
	if utf8.RuneCountInString(value) > MaxFieldLength {
		return fmt.Errorf("%w: %s must not exceed %d characters", ErrInvalidInput, name, MaxFieldLength)
	}
	if strings.ContainsRune(value, '\x00') {
		return fmt.Errorf("%w: %s contains a null byte", ErrInvalidInput, name)
	}
	return nil
}

func ValidateMachineType(code string) (models.MachineType, error) {
	t, err := models.ParseMachineType(code)
	if err != nil {
		return "", fmt.Errorf("%w: machine type must be one of L, M, H", ErrInvalidInput)
	}
	return t, nil
}

// ValidateSessionID checks the canonical lower-case uuid form.
func ValidateSessionID(id string) error {
	if !sessionIDRegex.MatchString(id) {
		return fmt.Errorf("%w: malformed session id", ErrInvalidInput)
	}
	return nil
}
