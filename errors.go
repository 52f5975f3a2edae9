package goregex

import (
	"errors"
	"fmt"

	"github.com/chronos-tachyon/goregex/matcher"
	"github.com/chronos-tachyon/goregex/parser"
)

// Resource-cap errors returned by the matching operations. They are
// re-exported here so callers can errors.Is against them without importing
// the matcher package. Treating them as "did not match" would hide
// denial-of-service attempts, so they surface as errors, never as a nil
// result.
var (
	ErrStepLimitExceeded      = matcher.ErrStepLimitExceeded
	ErrRecursionLimitExceeded = matcher.ErrRecursionLimitExceeded
)

// CompileError reports a pattern that failed to compile. Pos is the byte
// offset into the pattern at which the defect was detected, or -1 when no
// position is available.
type CompileError struct {
	Pattern string
	Pos     int
	Err     error
}

func (e *CompileError) Error() string {
	if e.Pos >= 0 {
		return fmt.Sprintf("goregex: compiling %q: %v (at byte %d)", e.Pattern, e.Err, e.Pos)
	}
	return fmt.Sprintf("goregex: compiling %q: %v", e.Pattern, e.Err)
}

func (e *CompileError) Unwrap() error { return e.Err }

func newCompileError(pattern string, err error) *CompileError {
	pos := -1
	var perr *parser.Error
	if errors.As(err, &perr) {
		pos = perr.Pos
	}
	return &CompileError{Pattern: pattern, Pos: pos, Err: err}
}
