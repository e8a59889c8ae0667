// Package cli implements the command-line interface.
package cli

import (
	"context"
	"errors"

	"github.com/aidanlsb/mobrename/internal/engine"
)

// Error codes for structured error responses. Failed preconditions are
// reported under their engine kind (INVALID_NAME, DIRTY_WORKTREE, ...).
const (
	ErrInvalidInput   = "INVALID_INPUT"
	ErrConfigInvalid  = "CONFIG_INVALID"
	ErrFlavorNotFound = "FLAVOR_NOT_FOUND"
	ErrRunFailed      = "RUN_FAILED"
	ErrCancelled      = "CANCELLED"
	ErrInternal       = "INTERNAL_ERROR"
)

// Warning codes for non-fatal issues.
const (
	WarnPrecheck = "PRECHECK_WARNING"
)

// Process exit codes.
const (
	ExitOK               = 0
	ExitUnexpected       = 1
	ExitInvalidInput     = 2
	ExitNotRepository    = 3
	ExitDirtyWorktree    = 4
	ExitInvalidStructure = 5
)

var kindExitCodes = map[engine.Kind]int{
	engine.KindNotRepository:    ExitNotRepository,
	engine.KindDirtyWorktree:    ExitDirtyWorktree,
	engine.KindInvalidStructure: ExitInvalidStructure,
	engine.KindAmbiguousPath:    ExitInvalidStructure,
	engine.KindInvalidName:      ExitInvalidInput,
	engine.KindInvalidBundleID:  ExitInvalidInput,
	engine.KindInvalidFlavor:    ExitInvalidInput,
}

// cliError is an error with everything needed to report it and exit.
type cliError struct {
	code       string
	exit       int
	err        error
	suggestion string
	details    []string

	// reported means the output already describes the failure.
	reported bool
}

func (e *cliError) Error() string { return e.err.Error() }

func (e *cliError) Unwrap() error { return e.err }

func inputError(code string, err error, suggestion string) *cliError {
	return &cliError{code: code, exit: ExitInvalidInput, err: err, suggestion: suggestion}
}

// classify maps any error returned by the command to a code and exit code.
func classify(err error) *cliError {
	var ce *cliError
	if errors.As(err, &ce) {
		return ce
	}

	var pe *engine.PreconditionError
	if errors.As(err, &pe) {
		exit, ok := kindExitCodes[pe.Kind]
		if !ok {
			exit = ExitUnexpected
		}
		return &cliError{
			code:       string(pe.Kind),
			exit:       exit,
			err:        pe.Err,
			suggestion: pe.Remedy,
			details:    pe.Details,
		}
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return &cliError{
			code:       ErrCancelled,
			exit:       ExitUnexpected,
			err:        err,
			suggestion: "the project may be partially renamed; review `git status` before running again",
		}
	}
	return &cliError{code: ErrInternal, exit: ExitUnexpected, err: err}
}
