package propagator

import (
	"errors"
	"fmt"
)

// Construction errors for propagator composition.
var (
	// ErrInvalidOrder indicates an unsupported Suzuki-Yoshida weight count.
	ErrInvalidOrder = errors.New("propagator: suzuki-yoshida order must be 1, 3, 7, or 15")

	// ErrVariableConflict indicates two merged propagators declare the same
	// variable with differing defaults or persistence.
	ErrVariableConflict = errors.New("propagator: conflicting variable declarations")

	// ErrInvalidLoops indicates an empty or non-positive RESPA loop count list.
	ErrInvalidLoops = errors.New("propagator: respa loop counts must be positive integers")

	// ErrInvalidDof indicates too few degrees of freedom for a thermostat's
	// sampling scheme.
	ErrInvalidDof = errors.New("propagator: velocity rescaling requires at least 3 degrees of freedom")
)

// ConflictError reports the variable that failed a registry merge.
type ConflictError struct {
	Name string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("propagator: variable %q declared with conflicting default or persistence", e.Name)
}

func (e *ConflictError) Unwrap() error {
	return ErrVariableConflict
}
