// Package schema is the type registry: an explicit table of the GraphQL object types
// (Query, User, Post, Comment) and their fields, each classified as stored, relational
// or query (see package field).  The registry is built once at startup, validated,
// and then never changed.  It is also used to generate the GraphQL schema (SDL) text
// which the handler uses to validate incoming queries.
package schema

// schema.go contains the Registry and the exported functions New, MustNew and SDL

import (
	"fmt"
	"sort"
	"strings"

	"github.com/andrewwphillips/blogql/internal/field"
)

// Kind is an "enumeration" of the object types that fields can be resolved on
type Kind int8

const (
	Query Kind = iota
	User
	Post
	Comment
	numKinds
)

var kindNames = [numKinds]string{"Query", "User", "Post", "Comment"}

func (k Kind) String() string {
	if k < 0 || k >= numKinds {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// KindOf finds the Kind given the GraphQL type name (any list/non-null modifiers are ignored)
func KindOf(typeName string) (Kind, bool) {
	typeName = field.BaseType(typeName)
	for k, name := range kindNames {
		if name == typeName {
			return Kind(k), true
		}
	}
	return 0, false
}

const (
	openString  = " {\n"
	closeString = "}\n"

	gqlObjectType = "type"
)

type (
	// TypeDef declares one object type and its fields (in the order they are declared)
	TypeDef struct {
		Kind        Kind
		Description string
		Fields      []field.Info
	}

	// Registry holds the validated type declarations
	Registry struct {
		defs   []TypeDef
		lookup [numKinds]map[string]*field.Info
	}
)

// New validates the type declarations and builds a registry that can be used for fast lookup
func New(defs ...TypeDef) (*Registry, error) {
	r := &Registry{defs: make([]TypeDef, 0, len(defs))}
	for _, def := range defs {
		if def.Kind < 0 || def.Kind >= numKinds {
			return nil, fmt.Errorf("unknown kind %d", int(def.Kind))
		}
		if r.lookup[def.Kind] != nil {
			return nil, fmt.Errorf("type %q declared more than once", def.Kind)
		}
		if err := validateTypeDef(def); err != nil {
			return nil, fmt.Errorf("%w in type %q", err, def.Kind)
		}
		fields := append([]field.Info(nil), def.Fields...) // our own copy
		m := make(map[string]*field.Info, len(fields))
		for i := range fields {
			m[fields[i].Name] = &fields[i]
		}
		r.lookup[def.Kind] = m
		r.defs = append(r.defs, TypeDef{Kind: def.Kind, Description: def.Description, Fields: fields})
	}
	if r.lookup[Query] == nil {
		return nil, fmt.Errorf("no %q type declared", Query)
	}
	// Object fields must refer to declared types
	for _, def := range r.defs {
		for _, f := range def.Fields {
			if field.IsScalar(f.Type) {
				continue
			}
			if k, ok := KindOf(f.Type); !ok || r.lookup[k] == nil {
				return nil, fmt.Errorf("field %s.%s has unknown type %q", def.Kind, f.Name, f.Type)
			}
		}
	}
	return r, nil
}

// MustNew is the same as New but panics on error
func MustNew(defs ...TypeDef) *Registry {
	r, err := New(defs...)
	if err != nil {
		panic(err)
	}
	return r
}

// Lookup finds the declaration of a field of a type.  An undeclared field returns an *Error
// (which wraps ErrUnknownField) rather than being silently ignored.
func (r *Registry) Lookup(kind Kind, name string) (*field.Info, error) {
	if kind < 0 || kind >= numKinds || r.lookup[kind] == nil {
		return nil, &Error{Type: kind.String(), Field: name, Err: ErrUnknownType}
	}
	info, ok := r.lookup[kind][name]
	if !ok {
		return nil, &Error{Type: kind.String(), Field: name, Err: ErrUnknownField}
	}
	return info, nil
}

// Has returns true if the type has been declared
func (r *Registry) Has(kind Kind) bool {
	return kind >= 0 && kind < numKinds && r.lookup[kind] != nil
}

// Fields returns the declared fields of a type in declaration order
func (r *Registry) Fields(kind Kind) []field.Info {
	for _, def := range r.defs {
		if def.Kind == kind {
			return append([]field.Info(nil), def.Fields...)
		}
	}
	return nil
}

// SDL generates a string containing the GraphQL schema for the registry
func (r *Registry) SDL() string {
	builder := &strings.Builder{}
	builder.Grow(256) // Even simple schemas are at least this big
	builder.WriteString("schema")
	builder.WriteString(openString)
	builder.WriteString(" query: ")
	builder.WriteString(Query.String())
	builder.WriteRune('\n')
	builder.WriteString(closeString)

	// we need to always output the types in the same order (eg for consistency in tests)
	defs := append([]TypeDef(nil), r.defs...)
	sort.Slice(defs, func(i, j int) bool { return defs[i].Kind.String() < defs[j].Kind.String() })
	for _, def := range defs {
		writeDescription(builder, "", def.Description)
		builder.WriteString(gqlObjectType)
		builder.WriteRune(' ')
		builder.WriteString(def.Kind.String())
		builder.WriteString(openString)
		for _, f := range def.Fields {
			writeDescription(builder, " ", f.Description)
			builder.WriteRune(' ')
			builder.WriteString(f.Name)
			if len(f.Args) > 0 {
				builder.WriteRune('(')
				for i, a := range f.Args {
					if i > 0 {
						builder.WriteString(", ")
					}
					if a.Description != "" {
						builder.WriteString(`"`)
						builder.WriteString(a.Description)
						builder.WriteString(`" `)
					}
					builder.WriteString(a.Name)
					builder.WriteString(": ")
					builder.WriteString(a.Type)
				}
				builder.WriteRune(')')
			}
			builder.WriteString(": ")
			builder.WriteString(f.Type)
			builder.WriteRune('\n')
		}
		builder.WriteString(closeString)
	}
	return builder.String()
}

func writeDescription(builder *strings.Builder, indent, desc string) {
	if desc == "" {
		return
	}
	builder.WriteString(indent)
	builder.WriteRune('"')
	builder.WriteString(desc)
	builder.WriteString("\"\n")
}
