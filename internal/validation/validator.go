package validation

import (
	"regexp"
	"strings"
	"time"

	"taskfollow/internal/config"
)

// Validator provides common validation utilities
type Validator struct {
	userIDRegex *regexp.Regexp
	config      *config.Config
}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{
		userIDRegex: regexp.MustCompile(`^[a-zA-Z0-9_\-.]+$`),
		config:      nil, // Use defaults
	}
}

// NewValidatorWithConfig creates a new validator instance with configuration
func NewValidatorWithConfig(cfg *config.Config) *Validator {
	return &Validator{
		userIDRegex: regexp.MustCompile(`^[a-zA-Z0-9_\-.]+$`),
		config:      cfg,
	}
}

// IsNonEmptyString checks if a string is not empty after trimming whitespace
func (v *Validator) IsNonEmptyString(s string) bool {
	return strings.TrimSpace(s) != ""
}

// IsValidStringLength checks if a string length is within the specified range
func (v *Validator) IsValidStringLength(s string, min, max int) bool {
	length := len(strings.TrimSpace(s))
	return length >= min && length <= max
}

// IsValidUserID checks if a user identifier contains only allowed characters.
// Identifiers appear in URLs (follow/unfollow routes), so whitespace and
// control characters are rejected.
func (v *Validator) IsValidUserID(id string) bool {
	return v.userIDRegex.MatchString(id)
}

// IsValidTaskNameLength checks if a task name length is within configured limits
func (v *Validator) IsValidTaskNameLength(name string) bool {
	length := len(strings.TrimSpace(name))
	return length >= 1 && length <= v.getTaskNameMaxLength()
}

// IsValidPasswordLength checks if a password meets the configured minimum
func (v *Validator) IsValidPasswordLength(password string) bool {
	return len(password) >= v.getPasswordMinLength()
}

// IsValidTaskID checks if a task ID is valid (positive)
func (v *Validator) IsValidTaskID(id int64) bool {
	return id > 0
}

// IsValidDeadline checks that a deadline is a real timestamp
func (v *Validator) IsValidDeadline(deadline time.Time) bool {
	return !deadline.IsZero()
}

// TrimAndValidateString trims whitespace and returns the cleaned string
func (v *Validator) TrimAndValidateString(s string) string {
	return strings.TrimSpace(s)
}

// getTaskNameMaxLength returns configured maximum task name length or default
func (v *Validator) getTaskNameMaxLength() int {
	if v.config != nil {
		return v.config.Validation.TaskNameMaxLength
	}
	return 255 // Default maximum
}

// getPasswordMinLength returns configured minimum password length or default
func (v *Validator) getPasswordMinLength() int {
	if v.config != nil {
		return v.config.Validation.PasswordMinLength
	}
	return 1 // Default minimum
}
