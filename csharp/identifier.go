package csharp

import (
	"strings"
	"unicode"
)

// C# reserved keywords.
var reservedWords = map[string]bool{
	"abstract": true, "as": true, "base": true, "bool": true, "break": true,
	"byte": true, "case": true, "catch": true, "char": true, "checked": true,
	"class": true, "const": true, "continue": true, "decimal": true, "default": true,
	"delegate": true, "do": true, "double": true, "else": true, "enum": true,
	"event": true, "explicit": true, "extern": true, "false": true, "finally": true,
	"fixed": true, "float": true, "for": true, "foreach": true, "goto": true,
	"if": true, "implicit": true, "in": true, "int": true, "interface": true,
	"internal": true, "is": true, "lock": true, "long": true, "namespace": true,
	"new": true, "null": true, "object": true, "operator": true, "out": true,
	"override": true, "params": true, "private": true, "protected": true, "public": true,
	"readonly": true, "ref": true, "return": true, "sbyte": true, "sealed": true,
	"short": true, "sizeof": true, "stackalloc": true, "static": true, "string": true,
	"struct": true, "switch": true, "this": true, "throw": true, "true": true,
	"try": true, "typeof": true, "uint": true, "ulong": true, "unchecked": true,
	"unsafe": true, "ushort": true, "using": true, "virtual": true, "void": true,
	"volatile": true, "while": true,
}

// Contextual keywords. They are legal identifiers in most positions, but
// generated accessors and event bodies use several of them (value, add,
// remove, get, set), so they are escaped as well.
var contextualWords = map[string]bool{
	"add": true, "and": true, "alias": true, "ascending": true, "args": true,
	"async": true, "await": true, "by": true, "descending": true, "dynamic": true,
	"equals": true, "file": true, "from": true, "get": true, "global": true,
	"group": true, "init": true, "into": true, "join": true, "let": true,
	"managed": true, "nameof": true, "nint": true, "not": true, "notnull": true,
	"nuint": true, "on": true, "or": true, "orderby": true, "partial": true,
	"record": true, "remove": true, "required": true, "scoped": true, "select": true,
	"set": true, "unmanaged": true, "value": true, "var": true, "when": true,
	"where": true, "with": true, "yield": true,
}

// Sanitize escapes name with a verbatim "@" prefix when it is a reserved or
// contextual C# keyword.
func Sanitize(name string) string {
	if reservedWords[name] || contextualWords[name] {
		return "@" + name
	}
	return name
}

// isIdentifier reports whether s is a plain C# identifier.
func isIdentifier(s string) bool {
	if s == "" || reservedWords[s] {
		return false
	}
	for i, r := range s {
		if r == '_' || unicode.IsLetter(r) {
			continue
		}
		if i > 0 && unicode.IsDigit(r) {
			continue
		}
		return false
	}
	return true
}

// IsNamespace reports whether s is a dotted sequence of C# identifiers.
func IsNamespace(s string) bool {
	if s == "" {
		return false
	}
	for _, part := range strings.Split(s, ".") {
		if !isIdentifier(part) {
			return false
		}
	}
	return true
}

// IsIdentifierSuffix reports whether s can be appended to an identifier.
// The empty suffix is allowed.
func IsIdentifierSuffix(s string) bool {
	for _, r := range s {
		if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
