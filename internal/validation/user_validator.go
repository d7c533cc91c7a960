package validation

// UserValidator provides validation for user registration and profile updates
type UserValidator struct {
	validator *Validator
}

// NewUserValidator creates a new user validator
func NewUserValidator() *UserValidator {
	return &UserValidator{
		validator: NewValidator(),
	}
}

// ValidateRegistration validates all fields of a registration request.
// Every field is required; empty fields are collected into one error so the
// form can report them together.
func (uv *UserValidator) ValidateRegistration(id, password, lastname, firstname string) error {
	validationError := NewValidationError()

	if !uv.validator.IsNonEmptyString(id) {
		validationError.AddRequiredError("user_id")
	} else if !uv.validator.IsValidUserID(uv.validator.TrimAndValidateString(id)) {
		validationError.AddInvalidCharacterError("user_id", id)
	}

	if password == "" {
		validationError.AddRequiredError("password")
	} else if !uv.validator.IsValidPasswordLength(password) {
		validationError.AddInvalidValueError("password", nil, "too short")
	}

	if !uv.validator.IsNonEmptyString(lastname) {
		validationError.AddRequiredError("lastname")
	}
	if !uv.validator.IsNonEmptyString(firstname) {
		validationError.AddRequiredError("firstname")
	}

	if validationError.HasErrors() {
		return validationError
	}
	return nil
}

// ValidateProfileUpdate validates a profile update. The new identifier and
// password are optional; empty values mean "keep the current one".
func (uv *UserValidator) ValidateProfileUpdate(newID, lastname, firstname string) error {
	validationError := NewValidationError()

	if newID != "" && !uv.validator.IsValidUserID(uv.validator.TrimAndValidateString(newID)) {
		validationError.AddInvalidCharacterError("user_id", newID)
	}

	if !uv.validator.IsNonEmptyString(lastname) {
		validationError.AddRequiredError("lastname")
	}
	if !uv.validator.IsNonEmptyString(firstname) {
		validationError.AddRequiredError("firstname")
	}

	if validationError.HasErrors() {
		return validationError
	}
	return nil
}

// ValidateUserID validates a standalone user identifier
func (uv *UserValidator) ValidateUserID(id string) error {
	validationError := NewValidationError()

	trimmed := uv.validator.TrimAndValidateString(id)
	if !uv.validator.IsNonEmptyString(trimmed) {
		validationError.AddRequiredError("user_id")
		return validationError
	}
	if !uv.validator.IsValidUserID(trimmed) {
		validationError.AddInvalidCharacterError("user_id", id)
		return validationError
	}
	return nil
}
