package provider

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/broady/qmlgen/ir"
)

// Snapshot is the wire format written by the native introspection host.
// Types reference each other through opaque string handles; a handle is
// the only identity of a type.
type Snapshot struct {
	// Documents are the documents the host loaded, as given to it.
	Documents []string       `json:"documents,omitempty" yaml:"documents,omitempty"`
	Types     []SnapshotType `json:"types" yaml:"types"`
}

// SnapshotType is one reflected type.
type SnapshotType struct {
	Handle string `json:"handle" yaml:"handle"`

	// Kind is "object", "value" or "document".
	Kind string `json:"kind" yaml:"kind"`

	Name      string `json:"name" yaml:"name"`
	MetaClass string `json:"metaClass,omitempty" yaml:"metaClass,omitempty"`

	Module    string `json:"module,omitempty" yaml:"module,omitempty"`
	Version   string `json:"version,omitempty" yaml:"version,omitempty"`
	Creatable *bool  `json:"creatable,omitempty" yaml:"creatable,omitempty"`

	Source     string `json:"source,omitempty" yaml:"source,omitempty"`
	Enclosing  string `json:"enclosing,omitempty" yaml:"enclosing,omitempty"`
	InlineName string `json:"inlineName,omitempty" yaml:"inlineName,omitempty"`
	Base       string `json:"base,omitempty" yaml:"base,omitempty"`

	Properties   []SnapshotProperty `json:"properties,omitempty" yaml:"properties,omitempty"`
	Methods      []SnapshotMethod   `json:"methods,omitempty" yaml:"methods,omitempty"`
	Signals      []SnapshotMethod   `json:"signals,omitempty" yaml:"signals,omitempty"`
	Constructors []SnapshotMethod   `json:"constructors,omitempty" yaml:"constructors,omitempty"`
	Enums        []SnapshotEnum     `json:"enums,omitempty" yaml:"enums,omitempty"`
}

// SnapshotProperty is one property. Readable defaults to true.
type SnapshotProperty struct {
	Name     string `json:"name" yaml:"name"`
	Type     string `json:"type" yaml:"type"`
	Readable *bool  `json:"readable,omitempty" yaml:"readable,omitempty"`
	Writable bool   `json:"writable,omitempty" yaml:"writable,omitempty"`
}

// SnapshotMethod is a method, signal or constructor. When Overload is absent
// on any method of a list, the whole list is renumbered.
type SnapshotMethod struct {
	Name      string              `json:"name" yaml:"name"`
	Signature string              `json:"signature,omitempty" yaml:"signature,omitempty"`
	Overload  *int                `json:"overload,omitempty" yaml:"overload,omitempty"`
	Return    string              `json:"return,omitempty" yaml:"return,omitempty"`
	Params    []SnapshotParameter `json:"params,omitempty" yaml:"params,omitempty"`
}

// SnapshotParameter is one parameter; Name may be empty.
type SnapshotParameter struct {
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
	Type string `json:"type" yaml:"type"`
}

// SnapshotEnum is one enum. Backing defaults to int32.
type SnapshotEnum struct {
	Name    string              `json:"name" yaml:"name"`
	Flags   bool                `json:"flags,omitempty" yaml:"flags,omitempty"`
	Backing string              `json:"backing,omitempty" yaml:"backing,omitempty"`
	Values  []SnapshotEnumValue `json:"values" yaml:"values"`
}

// SnapshotEnumValue is one enum member.
type SnapshotEnumValue struct {
	Name  string `json:"name" yaml:"name"`
	Value int64  `json:"value" yaml:"value"`
}

// Format identifies the encoding of a snapshot.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatForPath picks the format from a file extension; anything other than
// .json is read as YAML.
func FormatForPath(p string) Format {
	if strings.EqualFold(filepath.Ext(p), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

// DecodeSnapshot decodes data in the given format. Unknown fields are
// rejected so typos in hand-written snapshots surface early.
func DecodeSnapshot(data []byte, format Format) (*Snapshot, error) {
	var s Snapshot
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&s); err != nil {
			return nil, fmt.Errorf("%w: decode json: %w", ErrSnapshot, err)
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&s); err != nil {
			return nil, fmt.Errorf("%w: decode yaml: %w", ErrSnapshot, err)
		}
	default:
		return nil, fmt.Errorf("%w: unknown format %q", ErrSnapshot, format)
	}
	return &s, nil
}

// BuildGraph converts the snapshot into a validated graph.
func (s *Snapshot) BuildGraph() (*ir.Graph, error) {
	b := ir.NewBuilder()
	handles := make(map[string]ir.TypeID, len(s.Types))

	// First pass: intern every handle so members may reference any type.
	for _, st := range s.Types {
		if st.Handle == "" {
			return nil, fmt.Errorf("%w: type %q has no handle", ErrSnapshot, st.Name)
		}
		if _, dup := handles[st.Handle]; dup {
			return nil, fmt.Errorf("%w: duplicate type handle %q", ErrSnapshot, st.Handle)
		}
		kind, err := parseTypeKind(st.Kind)
		if err != nil {
			return nil, fmt.Errorf("%w: type %q: %w", ErrSnapshot, st.Handle, err)
		}
		major, minor := ir.NoVersion, 0
		if st.Version != "" {
			v, err := parseModuleVersion(st.Version)
			if err != nil {
				return nil, fmt.Errorf("%w: type %q: version: %w", ErrSnapshot, st.Handle, err)
			}
			major, minor = int(v.Major()), int(v.Minor())
		}
		handles[st.Handle] = b.AddType(ir.TypeDescriptor{
			Kind:          kind,
			Name:          st.Name,
			MetaClassName: st.MetaClass,
			Module:        st.Module,
			MajorVersion:  major,
			MinorVersion:  minor,
			Uncreatable:   st.Creatable != nil && !*st.Creatable,
			SourceURL:     st.Source,
			InlineName:    st.InlineName,
			Enclosing:     ir.NoType,
			Base:          ir.NoType,
		})
	}

	resolve := func(h, context string) (ir.TypeID, error) {
		id, ok := handles[h]
		if !ok {
			return ir.NoType, fmt.Errorf("%w: %s references unknown handle %q", ErrSnapshot, context, h)
		}
		return id, nil
	}

	// Second pass: links, members and enums.
	for _, st := range s.Types {
		id := handles[st.Handle]
		t := b.Type(id)
		p := refParser{handles: handles, self: id}

		if st.Enclosing != "" {
			enc, err := resolve(st.Enclosing, "enclosing of "+st.Handle)
			if err != nil {
				return nil, err
			}
			t.Enclosing = enc
		}
		if st.Base != "" {
			base, err := resolve(st.Base, "base of "+st.Handle)
			if err != nil {
				return nil, err
			}
			t.Base = base
		}

		for _, sp := range st.Properties {
			ref, err := p.parse(sp.Type)
			if err != nil {
				return nil, fmt.Errorf("%w: property %s.%s: %w", ErrSnapshot, st.Handle, sp.Name, err)
			}
			readable := true
			if sp.Readable != nil {
				readable = *sp.Readable
			}
			t.Properties = append(t.Properties, ir.PropertyDescriptor{
				Name:     sp.Name,
				Type:     ref,
				Readable: readable,
				Writable: sp.Writable,
			})
		}

		var err error
		if t.Methods, err = p.methods(st.Handle, st.Methods, ir.RoleMethod); err != nil {
			return nil, err
		}
		if t.Signals, err = p.methods(st.Handle, st.Signals, ir.RoleSignal); err != nil {
			return nil, err
		}
		if t.Constructors, err = p.methods(st.Handle, st.Constructors, ir.RoleConstructor); err != nil {
			return nil, err
		}

		for _, se := range st.Enums {
			backing := ir.BuiltInInt32
			if se.Backing != "" {
				k, ok := ir.ParseBuiltInKind(se.Backing)
				if !ok {
					return nil, fmt.Errorf("%w: enum %s.%s: unknown backing type %q", ErrSnapshot, st.Handle, se.Name, se.Backing)
				}
				backing = k
			}
			values := make([]ir.EnumValue, len(se.Values))
			for i, v := range se.Values {
				values[i] = ir.EnumValue{Name: v.Name, Value: v.Value}
			}
			b.AddEnum(ir.EnumDescriptor{
				Owner:   id,
				Name:    se.Name,
				IsFlags: se.Flags,
				Backing: backing,
				Values:  values,
			})
		}
	}

	return b.Build()
}

func (p refParser) methods(handle string, in []SnapshotMethod, role ir.MemberRole) ([]ir.MethodDescriptor, error) {
	if len(in) == 0 {
		return nil, nil
	}
	out := make([]ir.MethodDescriptor, len(in))
	numbered := true
	for i, sm := range in {
		ctx := fmt.Sprintf("%s %s.%s", role, handle, sm.Name)
		ret := ir.Void()
		if sm.Return != "" {
			r, err := p.parse(sm.Return)
			if err != nil {
				return nil, fmt.Errorf("%w: %s return: %w", ErrSnapshot, ctx, err)
			}
			ret = r
		}
		params := make([]ir.ParameterDescriptor, len(sm.Params))
		for j, sp := range sm.Params {
			r, err := p.parse(sp.Type)
			if err != nil {
				return nil, fmt.Errorf("%w: %s parameter %d: %w", ErrSnapshot, ctx, j, err)
			}
			params[j] = ir.ParameterDescriptor{Name: sp.Name, Type: r}
		}
		overload := ir.NoOverload
		if sm.Overload != nil {
			overload = *sm.Overload
		} else {
			numbered = false
		}
		out[i] = ir.MethodDescriptor{
			Name:          sm.Name,
			Role:          role,
			Signature:     sm.Signature,
			OverloadIndex: overload,
			Params:        params,
			Return:        ret,
		}
	}
	if !numbered {
		ir.NumberOverloads(out)
	}
	return out, nil
}

func parseTypeKind(s string) (ir.TypeKind, error) {
	switch strings.ToLower(s) {
	case "object", "nativeobject":
		return ir.KindNativeObject, nil
	case "value", "gadget", "nativevaluetype":
		return ir.KindNativeValueType, nil
	case "document", "documentobject":
		return ir.KindDocumentObject, nil
	}
	return 0, fmt.Errorf("unknown type kind %q", s)
}

// crossCheck reports requested documents, modules and meta classes the
// snapshot does not cover.
func (s *Snapshot) crossCheck(req Request) []ir.Warning {
	var warnings []ir.Warning

	sources := make([]string, 0, len(s.Types))
	modules := make(map[string]bool)
	metaClasses := make(map[string]bool)
	for _, t := range s.Types {
		if t.Source != "" {
			sources = append(sources, t.Source)
		}
		if t.Module != "" {
			modules[t.Module] = true
		}
		if t.MetaClass != "" {
			metaClasses[t.MetaClass] = true
		}
	}
	loaded := make(map[string]bool, len(s.Documents))
	for _, d := range s.Documents {
		loaded[path.Clean(filepath.ToSlash(d))] = true
	}

	for _, doc := range req.Documents {
		rel := path.Clean(filepath.ToSlash(doc))
		if loaded[rel] || hasSourceSuffix(sources, rel) {
			continue
		}
		warnings = append(warnings, ir.Warning{
			Code:    "document_not_in_snapshot",
			Message: "document " + rel + " was discovered but the snapshot has no type for it",
		})
	}
	for _, m := range req.Modules {
		if !modules[m.Name] {
			warnings = append(warnings, ir.Warning{
				Code:    "module_not_in_snapshot",
				Message: "module " + m.String() + " was requested but the snapshot has no type from it",
			})
		}
	}
	for _, mc := range req.MetaClasses {
		if !metaClasses[mc] {
			warnings = append(warnings, ir.Warning{
				Code:    "meta_class_not_in_snapshot",
				Message: "meta class " + mc + " was requested but is not in the snapshot",
			})
		}
	}
	return warnings
}

func hasSourceSuffix(sources []string, rel string) bool {
	for _, src := range sources {
		if src == rel || strings.HasSuffix(src, "/"+rel) {
			return true
		}
	}
	return false
}
