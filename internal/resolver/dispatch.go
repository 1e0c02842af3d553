// Package resolver resolves the fields of GraphQL queries against an entity store.  Every
// field declared in the type registry is bound to an implementation when the Resolver is
// created: stored fields read an attribute of the parent entity, relational fields follow
// references between collections, and query fields are the entry points of the Query type.
package resolver

// dispatch.go builds the (closed) table that maps each declared field to its implementation

import (
	"fmt"
	"strings"

	"github.com/andrewwphillips/blogql/internal/field"
	"github.com/andrewwphillips/blogql/internal/schema"
	"github.com/andrewwphillips/blogql/internal/store"
)

type (
	// resolverFunc obtains the value of a field given the parent entity (nil for Query) and coerced arguments
	resolverFunc func(r *Resolver, parent interface{}, args map[string]interface{}) interface{}

	// Resolver resolves queries using a store and the registry of declared types
	Resolver struct {
		store    *store.Store
		registry *schema.Registry
		dispatch map[schema.Kind]map[string]resolverFunc

		noConcurrency bool
		observer      Observer
	}
)

var kinds = []schema.Kind{schema.Query, schema.User, schema.Post, schema.Comment}

// binding is the implementation of a field plus the GraphQL type of the values it produces.
// The type is given without non-null modifiers (eg "[Post]"); nullable is set if the value may be null.
type binding struct {
	typ      string
	nullable bool
	resolve  resolverFunc
}

// storedFields are the implementations of stored fields for each entity kind
var storedFields = map[schema.Kind]map[string]binding{
	schema.User: {
		"id": {"ID", false, func(_ *Resolver, p interface{}, _ map[string]interface{}) interface{} {
			return string(p.(store.User).ID)
		}},
		"name": {"String", false, func(_ *Resolver, p interface{}, _ map[string]interface{}) interface{} {
			return p.(store.User).Name
		}},
		"email": {"String", false, func(_ *Resolver, p interface{}, _ map[string]interface{}) interface{} {
			return p.(store.User).Email
		}},
		"age": {"Int", true, func(_ *Resolver, p interface{}, _ map[string]interface{}) interface{} {
			if age := p.(store.User).Age; age != nil {
				return *age
			}
			return nil
		}},
	},
	schema.Post: {
		"id": {"ID", false, func(_ *Resolver, p interface{}, _ map[string]interface{}) interface{} {
			return string(p.(store.Post).ID)
		}},
		"title": {"String", false, func(_ *Resolver, p interface{}, _ map[string]interface{}) interface{} {
			return p.(store.Post).Title
		}},
		"body": {"String", false, func(_ *Resolver, p interface{}, _ map[string]interface{}) interface{} {
			return p.(store.Post).Body
		}},
		"published": {"Boolean", false, func(_ *Resolver, p interface{}, _ map[string]interface{}) interface{} {
			return p.(store.Post).Published
		}},
	},
	schema.Comment: {
		"id": {"ID", false, func(_ *Resolver, p interface{}, _ map[string]interface{}) interface{} {
			return string(p.(store.Comment).ID)
		}},
		"text": {"String", false, func(_ *Resolver, p interface{}, _ map[string]interface{}) interface{} {
			return p.(store.Comment).Text
		}},
	},
}

// relation is the implementation of a relational field plus the kind of entity it is resolved on
type relation struct {
	on schema.Kind
	binding
}

var relations = map[field.Relation]relation{
	field.PostAuthor: {schema.Post, binding{"User", true, func(r *Resolver, p interface{}, _ map[string]interface{}) interface{} {
		if u, ok := r.PostAuthor(p.(store.Post)); ok {
			return u
		}
		return nil
	}}},
	field.CommentAuthor: {schema.Comment, binding{"User", true, func(r *Resolver, p interface{}, _ map[string]interface{}) interface{} {
		if u, ok := r.CommentAuthor(p.(store.Comment)); ok {
			return u
		}
		return nil
	}}},
	field.CommentPost: {schema.Comment, binding{"Post", true, func(r *Resolver, p interface{}, _ map[string]interface{}) interface{} {
		if post, ok := r.CommentPost(p.(store.Comment)); ok {
			return post
		}
		return nil
	}}},
	field.PostComments: {schema.Post, binding{"[Comment]", false, func(r *Resolver, p interface{}, _ map[string]interface{}) interface{} {
		return r.PostComments(p.(store.Post))
	}}},
	field.UserPosts: {schema.User, binding{"[Post]", false, func(r *Resolver, p interface{}, _ map[string]interface{}) interface{} {
		return r.UserPosts(p.(store.User))
	}}},
	field.UserComments: {schema.User, binding{"[Comment]", false, func(r *Resolver, p interface{}, _ map[string]interface{}) interface{} {
		return r.UserComments(p.(store.User))
	}}},
}

// queryFields are the implementations of the fields of the Query type
var queryFields = map[string]binding{
	"users": {"[User]", false, func(r *Resolver, _ interface{}, args map[string]interface{}) interface{} {
		return r.Users(optString(args, "query"))
	}},
	"posts": {"[Post]", false, func(r *Resolver, _ interface{}, args map[string]interface{}) interface{} {
		return r.Posts(optString(args, "query"))
	}},
	"comments": {"[Comment]", false, func(r *Resolver, _ interface{}, _ map[string]interface{}) interface{} {
		return r.Comments()
	}},
	"me": {"User", false, func(r *Resolver, _ interface{}, _ map[string]interface{}) interface{} { return r.Me() }},
	"post": {"Post", false, func(r *Resolver, _ interface{}, _ map[string]interface{}) interface{} {
		return r.Post()
	}},
	"greeting": {"String", false, func(r *Resolver, _ interface{}, args map[string]interface{}) interface{} {
		return r.Greeting(optString(args, "name"), optString(args, "position"))
	}},
	"add": {"Float", false, func(r *Resolver, _ interface{}, args map[string]interface{}) interface{} {
		numbers, _ := args["numbers"].([]float64)
		return r.Add(numbers)
	}},
	"grades": {"[Int]", false, func(r *Resolver, _ interface{}, _ map[string]interface{}) interface{} {
		return r.Grades()
	}},
}

// nullableShape strips the non-null modifiers from a GraphQL type string, eg "[Post!]!" => "[Post]"
func nullableShape(typeName string) string {
	return strings.ReplaceAll(typeName, "!", "")
}

// New creates a resolver for the store, binding every field declared in the registry to its
// implementation.  It is an error for a declared field to have no implementation.
func New(s *store.Store, registry *schema.Registry, options ...func(*Resolver)) (*Resolver, error) {
	if s == nil || registry == nil {
		return nil, fmt.Errorf("resolver.New: store and registry are required")
	}
	r := &Resolver{
		store:    s,
		registry: registry,
		dispatch: make(map[schema.Kind]map[string]resolverFunc, len(kinds)),
	}
	for _, option := range options {
		option(r)
	}

	for _, kind := range kinds {
		if !registry.Has(kind) {
			continue
		}
		fields := registry.Fields(kind)
		table := make(map[string]resolverFunc, len(fields))
		for _, f := range fields {
			var b binding
			var ok bool
			switch f.Class {
			case field.Stored:
				b, ok = storedFields[kind][f.Name]
			case field.Relational:
				var rel relation
				if rel, ok = relations[f.Relation]; ok {
					if rel.on != kind {
						return nil, fmt.Errorf("relation %s of field %s.%s is not resolved on type %s", f.Relation, kind, f.Name, kind)
					}
					b = rel.binding
				}
			case field.Query:
				b, ok = queryFields[f.Name]
			}
			if !ok {
				return nil, fmt.Errorf("no resolver implemented for %s field %s.%s", f.Class, kind, f.Name)
			}
			if shape := nullableShape(f.Type); shape != b.typ {
				return nil, fmt.Errorf("field %s.%s is declared as %s but its resolver returns %s", kind, f.Name, f.Type, b.typ)
			}
			if b.nullable && field.IsNonNull(f.Type) {
				return nil, fmt.Errorf("field %s.%s is declared as %s but its resolver may return null", kind, f.Name, f.Type)
			}
			table[f.Name] = b.resolve
		}
		r.dispatch[kind] = table
	}
	return r, nil
}

// kindOf finds the kind of entity of a parent value (nil means the Query type)
func kindOf(parent interface{}) (schema.Kind, bool) {
	switch parent.(type) {
	case nil:
		return schema.Query, true
	case store.User:
		return schema.User, true
	case store.Post:
		return schema.Post, true
	case store.Comment:
		return schema.Comment, true
	}
	return 0, false
}

// Resolve obtains the value of a single field of a parent entity (a store.User, store.Post or
// store.Comment), or of the Query type if parent is nil.  Arguments only apply to query fields.
// An undeclared field returns a *schema.Error; bad arguments return an *ArgumentError.
// A single-valued reference that does not resolve returns nil (and no error).
func (r *Resolver) Resolve(parent interface{}, name string, args map[string]interface{}) (interface{}, error) {
	kind, ok := kindOf(parent)
	if !ok {
		return nil, &schema.Error{Type: fmt.Sprintf("%T", parent), Field: name, Err: schema.ErrUnknownType}
	}
	info, fn, err := r.lookup(kind, name)
	if err != nil {
		return nil, err
	}
	if info.Class == field.Query {
		if args, err = coerceArgs(info, args, nil); err != nil {
			return nil, err
		}
	}
	return fn(r, parent, args), nil
}

func (r *Resolver) lookup(kind schema.Kind, name string) (*field.Info, resolverFunc, error) {
	info, err := r.registry.Lookup(kind, name)
	if err != nil {
		return nil, nil, err
	}
	fn, ok := r.dispatch[kind][name]
	if !ok {
		return nil, nil, &schema.Error{Type: kind.String(), Field: name, Err: schema.ErrUnknownField}
	}
	return info, fn, nil
}

// Registry returns the type registry the resolver was built from
func (r *Resolver) Registry() *schema.Registry { return r.registry }
