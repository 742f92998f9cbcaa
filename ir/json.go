package ir

import "encoding/json"

// JSON serialization support for the graph dump.
// Type refs and descriptors include a "kind" field for discrimination.

// MarshalJSON implements json.Marshaler for VoidRef.
func (VoidRef) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind string `json:"kind"`
	}{Kind: "void"})
}

// MarshalJSON implements json.Marshaler for ObjectRef.
func (r ObjectRef) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind string `json:"kind"`
		Type TypeID `json:"type"`
	}{Kind: "object", Type: r.Type})
}

// MarshalJSON implements json.Marshaler for EnumRef.
func (r EnumRef) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind string `json:"kind"`
		Type TypeID `json:"type"`
		Name string `json:"name"`
	}{Kind: "enum", Type: r.Type, Name: r.Name})
}

// MarshalJSON implements json.Marshaler for BuiltInRef.
func (r BuiltInRef) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind    string `json:"kind"`
		BuiltIn string `json:"builtin"`
	}{Kind: "builtin", BuiltIn: r.BuiltIn.String()})
}

// MarshalJSON implements json.Marshaler for ListRef.
func (r ListRef) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind    string `json:"kind"`
		Element TypeID `json:"element"`
	}{Kind: "list", Element: r.Element})
}

// MarshalJSON implements json.Marshaler for TypeKind.
func (k TypeKind) MarshalJSON() ([]byte, error) { return json.Marshal(k.String()) }

// MarshalJSON implements json.Marshaler for MemberRole.
func (r MemberRole) MarshalJSON() ([]byte, error) { return json.Marshal(r.String()) }

// MarshalJSON implements json.Marshaler for BuiltInKind.
func (k BuiltInKind) MarshalJSON() ([]byte, error) { return json.Marshal(k.String()) }

// MarshalJSON implements json.Marshaler for Graph.
func (g *Graph) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Types    []TypeDescriptor `json:"types"`
		Enums    []EnumDescriptor `json:"enums"`
		Warnings []Warning        `json:"warnings,omitempty"`
	}{
		Types:    g.types,
		Enums:    g.enums,
		Warnings: g.Warnings,
	})
}
