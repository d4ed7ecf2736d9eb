package helptable

import "errors"

var (
	// ErrUnresolvedMacro indicates an expression names a macro that was not
	// defined before it.
	ErrUnresolvedMacro = errors.New("unresolved macro reference")

	// ErrMalformedEntry indicates an entry or macro definition could not be parsed.
	ErrMalformedEntry = errors.New("malformed table entry")
)
