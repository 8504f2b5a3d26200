package validator

// Validator validates inbound API requests
type Validator struct {
	maxMessageLength int
}

// NewValidator creates a validator. maxMessageLength of 0 disables the
// length check.
func NewValidator(maxMessageLength int) *Validator {
	return &Validator{
		maxMessageLength: maxMessageLength,
	}
}
