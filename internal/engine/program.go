package engine

import (
	"fmt"
	"strings"
)

// Op identifies one primitive step kind.
type Op int

const (
	OpComputeGlobal Op = iota
	OpComputePerDof
	OpComputeSum
	OpConstrainPositions
	OpConstrainVelocities
	OpUpdateContextState
	OpBeginWhile
	OpBeginIf
	OpEndBlock
)

// Step is one recorded primitive. Variable and Expression are set for the
// compute kinds; Expression holds the condition for block openers.
type Step struct {
	Op         Op
	Variable   string
	Expression string
}

func (s Step) String() string {
	switch s.Op {
	case OpComputeGlobal, OpComputePerDof:
		return fmt.Sprintf("%s <- %s", s.Variable, s.Expression)
	case OpComputeSum:
		return fmt.Sprintf("%s <- sum(%s)", s.Variable, s.Expression)
	case OpConstrainPositions:
		return "constrain positions"
	case OpConstrainVelocities:
		return "constrain velocities"
	case OpUpdateContextState:
		return "update context state"
	case OpBeginWhile:
		return fmt.Sprintf("while (%s):", s.Expression)
	case OpBeginIf:
		return fmt.Sprintf("if (%s):", s.Expression)
	case OpEndBlock:
		return "end"
	}
	return "unknown"
}

// Program is the ordered step sequence for one integration step.
type Program []Step

// String renders a numbered listing with block-level indentation, the form
// printed by the CLI and compared in golden tests.
func (p Program) String() string {
	var b strings.Builder
	depth := 0
	for i, step := range p {
		if step.Op == OpEndBlock && depth > 0 {
			depth--
		}
		fmt.Fprintf(&b, "%4d: %s%s\n", i, strings.Repeat("   ", depth), step)
		if step.Op == OpBeginWhile || step.Op == OpBeginIf {
			depth++
		}
	}
	return b.String()
}
