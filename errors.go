package xmlbind

import (
	"errors"
	"fmt"
)

// Fault codes (exported consts for stable programmatic matching).
const (
	// CodeMalformed reports malformed input from the underlying token source.
	CodeMalformed = "malformed_input"
	// CodeIllegalPosition reports an operation invoked while the cursor was not
	// in the position that operation requires.
	CodeIllegalPosition = "illegal_position"
	// CodeDepthMismatch reports a violated depth bookkeeping invariant: a child
	// subtree was under- or over-consumed by a builder.
	CodeDepthMismatch = "depth_mismatch"
	// CodeNilObject reports a builder that returned a nil object where the
	// contract requires a non-nil one.
	CodeNilObject = "nil_object"
	// CodeNoDefaultConstructor reports a builder type that cannot be
	// instantiated through the per-session cache.
	CodeNoDefaultConstructor = "no_default_constructor"
	// CodeTypeMismatch reports a builder that created an object of a type the
	// caller did not request.
	CodeTypeMismatch = "object_type_mismatch"
	// CodeDuplicateRegistration reports a strict-mode registration conflict.
	CodeDuplicateRegistration = "duplicate_registration"
	// CodeSessionClosed reports use of a closed or already-failed session.
	CodeSessionClosed = "session_closed"
)

// Fault is the error type for every failure surfaced by this package. Code
// identifies the failure class; Expected and Observed carry cursor depths for
// depth_mismatch faults and are zero otherwise.
type Fault struct {
	Code     string
	Message  string
	Expected int
	Observed int
	Cause    error
}

func (f *Fault) Error() string {
	switch {
	case f.Code == CodeDepthMismatch:
		return fmt.Sprintf("xmlbind: %s: %s (expected depth = %d, observed depth = %d)",
			f.Code, f.Message, f.Expected, f.Observed)
	case f.Cause != nil:
		return fmt.Sprintf("xmlbind: %s: %s: %v", f.Code, f.Message, f.Cause)
	default:
		return fmt.Sprintf("xmlbind: %s: %s", f.Code, f.Message)
	}
}

func (f *Fault) Unwrap() error { return f.Cause }

// AsFault extracts a *Fault from an error chain using errors.As internally.
func AsFault(err error) (*Fault, bool) {
	var f *Fault
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}

// IsCode reports whether err carries a Fault with the given code.
func IsCode(err error, code string) bool {
	f, ok := AsFault(err)
	return ok && f.Code == code
}

func faultf(code, format string, args ...any) *Fault {
	return &Fault{Code: code, Message: fmt.Sprintf(format, args...)}
}

func cursorFault(cause error) *Fault {
	return &Fault{Code: CodeMalformed, Message: "token source failed", Cause: cause}
}

func positionFault(op string) *Fault {
	return faultf(CodeIllegalPosition, "illegal to call %s when the cursor is not on a start element", op)
}

func nilObjectFault(builder ObjectBuilder) *Fault {
	return faultf(CodeNilObject, "the builder %T created a nil object", builder)
}

func constructionFault(builder ObjectBuilder, cause error) *Fault {
	return &Fault{
		Code:    CodeNilObject,
		Message: fmt.Sprintf("the builder %T failed to create an object", builder),
		Cause:   cause,
	}
}

func depthFault(expected, observed int) *Fault {
	return &Fault{
		Code:     CodeDepthMismatch,
		Message:  "a builder under- or over-consumed a child subtree",
		Expected: expected,
		Observed: observed,
	}
}
