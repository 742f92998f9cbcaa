// Package ir defines the type graph that the proxy generator consumes.
// A Graph is a closed, immutable snapshot of the types exposed by the native
// reflection system: native object types, native value types, types derived
// from declarative documents and their inline components.
package ir

import "strconv"

// TypeID identifies a type within one Graph. It is an index into the graph's
// type arena and stands in for the reflection handle: two descriptors denote
// the same type iff their IDs are equal, regardless of name.
type TypeID int

// NoType is the zero reference for optional type links.
const NoType TypeID = -1

// Valid reports whether id refers to a type.
func (id TypeID) Valid() bool { return id >= 0 }

func (id TypeID) String() string {
	if !id.Valid() {
		return "type(none)"
	}
	return "type#" + strconv.Itoa(int(id))
}

// EnumID identifies an enum within one Graph.
type EnumID int

func (id EnumID) String() string { return "enum#" + strconv.Itoa(int(id)) }

// Warning represents a non-fatal issue encountered while building or
// generating from a graph.
type Warning struct {
	// Code is a machine-readable warning identifier.
	Code string

	// Message is a human-readable description.
	Message string

	// TypeName is the type that triggered the warning, if applicable.
	TypeName string

	// Member is the member that triggered the warning, if applicable.
	Member string
}

func (w Warning) String() string {
	s := w.Code + ": " + w.Message
	if w.TypeName != "" {
		s += " (type " + w.TypeName
		if w.Member != "" {
			s += ", member " + w.Member
		}
		s += ")"
	}
	return s
}
