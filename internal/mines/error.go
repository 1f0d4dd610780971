package mines

import "fmt"

// AssertionError is the panic value for contract violations: out-of-range
// cell indices, malformed board dimensions and the like. These are
// programming errors, not game conditions.
type AssertionError struct {
	message string
}

// [AssertionError] implements [error]
func (e AssertionError) Error() string {
	return e.message
}

func assertf(cond bool, format string, args ...any) {
	if !cond {
		panic(AssertionError{fmt.Sprintf(format, args...)})
	}
}

func NewAssertionError(format string, args ...any) AssertionError {
	return AssertionError{fmt.Sprintf(format, args...)}
}
