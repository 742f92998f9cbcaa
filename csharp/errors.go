package csharp

import (
	"errors"
	"strings"

	"github.com/broady/qmlgen/ir"
)

// Sentinel errors for generation failures.
var (
	// ErrUnmappable indicates a type reference the mapping table cannot
	// represent. Generation aborts.
	ErrUnmappable = errors.New("qmlgen: unmappable type")

	// ErrUnsupported indicates a member whose marshalling is not implemented
	// for its position, such as a value-type return. The owning type is
	// skipped and the run continues.
	ErrUnsupported = errors.New("qmlgen: unsupported member")

	// ErrInvalidGraph indicates a graph that failed validation.
	ErrInvalidGraph = ir.ErrInvalidGraph
)

// MemberError identifies the type and member a generation error belongs to.
type MemberError struct {
	Type   string // Type display name
	Member string // Member name (if applicable)
	Err    error
}

// Error implements the error interface.
func (e *MemberError) Error() string {
	var b strings.Builder
	b.WriteString("type ")
	b.WriteString(e.Type)
	if e.Member != "" {
		b.WriteString(" member ")
		b.WriteString(e.Member)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *MemberError) Unwrap() error {
	return e.Err
}

func memberError(t *ir.TypeDescriptor, member string, err error) error {
	return &MemberError{Type: t.DisplayName(), Member: member, Err: err}
}
