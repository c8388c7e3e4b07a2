package action

// Result is the outcome of applying one action to one repository.
type Result struct {
	Success bool   `json:"success" yaml:"success"`
	Message string `json:"message" yaml:"message"`
	// Details is optional extra information; empty means none.
	Details string `json:"details,omitempty" yaml:"details,omitempty"`
}

// Succeeded returns a successful result.
func Succeeded(message string) Result {
	return Result{Success: true, Message: message}
}

// SucceededWith returns a successful result with details.
func SucceededWith(message, details string) Result {
	return Result{Success: true, Message: message, Details: details}
}

// Failed returns a failed result.
func Failed(message string) Result {
	return Result{Message: message}
}

// FailedWith returns a failed result with details.
func FailedWith(message, details string) Result {
	return Result{Message: message, Details: details}
}
