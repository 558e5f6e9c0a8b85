package types

import "fmt"

// -----------------------------------------------------------------------------
// Typed Errors (stable categories for programmatic handling)
// -----------------------------------------------------------------------------

// ErrKind classifies errors so callers can branch on intent rather than text.
type ErrKind int

const (
	ErrKindDisposed          ErrKind = iota // operation on a closed key
	ErrKindAccessDenied                     // write on a read-only key, or the store refused access
	ErrKindInvalidArgument                  // malformed name, missing entity in strict mode, bad value shape
	ErrKindInvalidOperation                 // operation not valid for the key's current contents
	ErrKindMarkedForDeletion                // key was deleted by someone else mid-operation
	ErrKindFormat                           // raw payload could not be decoded
	ErrKindUnsupported                      // value tag the codec does not handle
	ErrKindUnidentified                     // store result code with no specific mapping
)

// String implements the Stringer interface for ErrKind.
func (k ErrKind) String() string {
	switch k {
	case ErrKindDisposed:
		return "disposed"
	case ErrKindAccessDenied:
		return "access denied"
	case ErrKindInvalidArgument:
		return "invalid argument"
	case ErrKindInvalidOperation:
		return "invalid operation"
	case ErrKindMarkedForDeletion:
		return "marked for deletion"
	case ErrKindFormat:
		return "format"
	case ErrKindUnsupported:
		return "unsupported"
	case ErrKindUnidentified:
		return "unidentified"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Error is a typed error with an optional underlying cause.
type Error struct {
	Kind ErrKind
	Msg  string
	Err  error // optional underlying cause
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is a *Error of the same kind, so a detailed error
// built with Errorf still matches the sentinel of its category.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil {
		return false
	}
	return e.Kind == t.Kind
}

// Errorf builds an *Error of the given kind with a formatted message.
func Errorf(kind ErrKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap builds an *Error of the given kind around cause.
func Wrap(kind ErrKind, msg string, cause error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: cause}
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) (ErrKind, bool) {
	for err != nil {
		if e, ok := err.(*Error); ok {
			return e.Kind, true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return 0, false
		}
		err = u.Unwrap()
	}
	return 0, false
}

// Sentinels commonly returned by implementations. Compare with errors.Is.
var (
	// ErrDisposed indicates the key was already closed.
	ErrDisposed = &Error{Kind: ErrKindDisposed, Msg: "registry key is closed"}
	// ErrAccessDenied indicates a write on a read-only key or a store-level denial.
	ErrAccessDenied = &Error{Kind: ErrKindAccessDenied, Msg: "cannot write to the registry key"}
	// ErrInvalidArgument indicates a malformed or missing argument.
	ErrInvalidArgument = &Error{Kind: ErrKindInvalidArgument, Msg: "invalid argument"}
	// ErrInvalidOperation indicates the key's contents do not allow the operation.
	ErrInvalidOperation = &Error{Kind: ErrKindInvalidOperation, Msg: "invalid operation"}
	// ErrMarkedForDeletion indicates the key vanished during the call.
	ErrMarkedForDeletion = &Error{
		Kind: ErrKindMarkedForDeletion,
		Msg:  "illegal operation attempted on a registry key that has been marked for deletion",
	}
	// ErrFormat indicates a raw payload could not be decoded.
	ErrFormat = &Error{Kind: ErrKindFormat, Msg: "malformed registry value"}
	// ErrUnsupportedType indicates a value tag the codec does not handle.
	ErrUnsupportedType = &Error{Kind: ErrKindUnsupported, Msg: "unsupported registry value type"}
	// ErrUnidentified indicates a store failure with no specific mapping.
	ErrUnidentified = &Error{Kind: ErrKindUnidentified, Msg: "unidentified registry failure"}
)
