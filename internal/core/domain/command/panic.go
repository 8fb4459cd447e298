package command

import "fmt"

// PanicError is a panic recovered while running an alias, with the stack of
// the goroutine that panicked.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("internal error: %v", e.Value)
}

// StackTrace returns the stack captured where the panic was recovered.
func (e *PanicError) StackTrace() []byte {
	return e.Stack
}
