package engine

import (
	"errors"
	"fmt"
)

// Declaration and recording errors.
var (
	// ErrDuplicateVariable indicates a variable declared twice against the
	// same engine instance.
	ErrDuplicateVariable = errors.New("engine: variable already declared")

	// ErrReservedVariable indicates a direct assignment to a derived
	// variable the engine maintains itself.
	ErrReservedVariable = errors.New("engine: cannot assign reserved variable")

	// ErrUnbalancedBlocks indicates mismatched begin/end block emission.
	ErrUnbalancedBlocks = errors.New("engine: unbalanced begin/end blocks")

	// ErrUndefinedVariable indicates access to a variable that was never
	// declared.
	ErrUndefinedVariable = errors.New("engine: undefined variable")
)

// DeclarationError reports the variable involved in a declaration failure.
type DeclarationError struct {
	Name    string
	Wrapped error
}

func (e *DeclarationError) Error() string {
	return fmt.Sprintf("%v: %s", e.Wrapped, e.Name)
}

func (e *DeclarationError) Unwrap() error {
	return e.Wrapped
}
