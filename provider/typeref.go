package provider

import (
	"fmt"
	"strings"

	"github.com/broady/qmlgen/ir"
)

// Type references are spelled as text in snapshots:
//
//	void                  no value
//	int32, string, ...    a built-in kind (see ir.ParseBuiltInKind)
//	type:<handle>         a reflected type
//	list:<handle>         a list of reflected objects
//	enum:<handle>:<Name>  an enum declared on a type; an empty handle
//	                      denotes the type declaring the member
type refParser struct {
	handles map[string]ir.TypeID
	self    ir.TypeID
}

func (p refParser) parse(s string) (ir.TypeRef, error) {
	s = strings.TrimSpace(s)
	switch {
	case s == "" || s == "void":
		return ir.Void(), nil
	case strings.HasPrefix(s, "type:"):
		id, err := p.handle(strings.TrimPrefix(s, "type:"))
		if err != nil {
			return nil, err
		}
		return ir.Object(id), nil
	case strings.HasPrefix(s, "list:"):
		id, err := p.handle(strings.TrimPrefix(s, "list:"))
		if err != nil {
			return nil, err
		}
		return ir.List(id), nil
	case strings.HasPrefix(s, "enum:"):
		rest := strings.TrimPrefix(s, "enum:")
		i := strings.LastIndexByte(rest, ':')
		if i < 0 || i == len(rest)-1 {
			return nil, fmt.Errorf("malformed enum reference %q: expected enum:<handle>:<Name>", s)
		}
		owner := p.self
		if h := rest[:i]; h != "" {
			id, err := p.handle(h)
			if err != nil {
				return nil, err
			}
			owner = id
		}
		return ir.Enum(owner, rest[i+1:]), nil
	}
	k, ok := ir.ParseBuiltInKind(s)
	if !ok {
		return nil, fmt.Errorf("unknown type %q", s)
	}
	return ir.BuiltIn(k), nil
}

func (p refParser) handle(h string) (ir.TypeID, error) {
	id, ok := p.handles[h]
	if !ok {
		return ir.NoType, fmt.Errorf("unknown handle %q", h)
	}
	return id, nil
}

// FormatTypeRef spells ref the way snapshots do. handleOf maps type ids back
// to handles.
func FormatTypeRef(ref ir.TypeRef, handleOf func(ir.TypeID) string) string {
	switch r := ref.(type) {
	case ir.BuiltInRef:
		return r.BuiltIn.String()
	case ir.ObjectRef:
		return "type:" + handleOf(r.Type)
	case ir.ListRef:
		return "list:" + handleOf(r.Element)
	case ir.EnumRef:
		return "enum:" + handleOf(r.Type) + ":" + r.Name
	default:
		return "void"
	}
}
