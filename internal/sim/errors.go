package sim

import "errors"

// Execution errors.
var (
	// ErrInvalidConfig indicates a non-positive step size or step count.
	ErrInvalidConfig = errors.New("sim: step size and step count must be positive")

	// ErrUnknownTarget indicates a program step assigning a variable that
	// was never declared.
	ErrUnknownTarget = errors.New("sim: assignment to undeclared variable")

	// ErrDimensionMismatch indicates initialization values whose length
	// does not match the system size.
	ErrDimensionMismatch = errors.New("sim: per-dof value length does not match system size")

	// ErrDiverged indicates the trajectory produced NaN or Inf.
	ErrDiverged = errors.New("sim: state diverged (NaN or Inf detected)")
)
