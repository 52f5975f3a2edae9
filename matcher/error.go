package matcher

import (
	"errors"
	"fmt"
)

// Sentinel errors for the ReDoS protections: a compiled program that would
// otherwise run away is aborted rather than left to spin or blow the stack.
var (
	ErrStepLimitExceeded      = errors.New("matcher: step limit exceeded")
	ErrRecursionLimitExceeded = errors.New("matcher: recursion depth limit exceeded")
)

// StructuralError reports bytecode the matcher could not execute — a
// corrupted or incompatible program, which is a programmer error rather
// than a failed match.
type StructuralError struct {
	Err error
	PC  int
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("matcher: %v at PC %d", e.Err, e.PC)
}

func (e *StructuralError) Unwrap() error { return e.Err }
