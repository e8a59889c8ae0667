package engine

// Kind classifies a failed precondition.
type Kind string

const (
	KindNotRepository    Kind = "NOT_REPOSITORY"
	KindDirtyWorktree    Kind = "DIRTY_WORKTREE"
	KindInvalidStructure Kind = "INVALID_STRUCTURE"
	KindAmbiguousPath    Kind = "AMBIGUOUS_PATH"
	KindInvalidName      Kind = "INVALID_NAME"
	KindInvalidBundleID  Kind = "INVALID_BUNDLE_ID"
	KindInvalidFlavor    Kind = "INVALID_FLAVOR"
)

// PreconditionError stops a run before any mutation.
type PreconditionError struct {
	Kind Kind
	Err  error
	// Remedy tells the user how to get past the failure.
	Remedy string
	// Details lists offending items, such as uncommitted paths.
	Details []string
}

func (e *PreconditionError) Error() string { return e.Err.Error() }

func (e *PreconditionError) Unwrap() error { return e.Err }

func precondition(kind Kind, err error, remedy string, details ...string) *PreconditionError {
	return &PreconditionError{Kind: kind, Err: err, Remedy: remedy, Details: details}
}
