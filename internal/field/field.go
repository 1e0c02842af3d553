// Package field describes the fields of GraphQL object types: what they are called, their
// GraphQL type, any arguments, and how a value is obtained for them (their "class").
package field

// field.go has the Info type which declares a field and the classification of fields

import (
	"fmt"
)

// Class says how the value of a field is obtained
type Class int8

const (
	Stored     Class = iota // copied verbatim from the entity
	Relational              // computed by following a reference to (or from) another collection
	Query                   // top-level entry point (only fields of the Query type)
)

func (c Class) String() string {
	switch c {
	case Stored:
		return "stored"
	case Relational:
		return "relational"
	case Query:
		return "query"
	}
	return fmt.Sprintf("Class(%d)", int(c))
}

// Relation identifies the traversal used to resolve a relational field
type Relation int8

const (
	NoRelation Relation = iota
	PostAuthor
	PostComments
	UserPosts
	UserComments
	CommentAuthor
	CommentPost
)

var relationNames = [...]string{
	NoRelation:    "none",
	PostAuthor:    "Post.author",
	PostComments:  "Post.comments",
	UserPosts:     "User.posts",
	UserComments:  "User.comments",
	CommentAuthor: "Comment.author",
	CommentPost:   "Comment.post",
}

func (r Relation) String() string {
	if r < 0 || int(r) >= len(relationNames) {
		return fmt.Sprintf("Relation(%d)", int(r))
	}
	return relationNames[r]
}

// Target is the name of the type of entity the relation resolves to
func (r Relation) Target() string {
	switch r {
	case PostAuthor, CommentAuthor:
		return "User"
	case UserPosts, CommentPost:
		return "Post"
	case PostComments, UserComments:
		return "Comment"
	}
	return ""
}

// SingleValued is true for relations that resolve to (at most) one entity
func (r Relation) SingleValued() bool {
	return r == PostAuthor || r == CommentAuthor || r == CommentPost
}

type (
	// Arg declares an argument of a query field
	Arg struct {
		Name        string
		Type        string // GraphQL type, eg "String" or "[Float!]!" (trailing ! means required)
		Description string
	}

	// Info declares one field of an object type
	Info struct {
		Name        string   // name used in GraphQL queries
		Type        string   // GraphQL type of the result, eg "ID!", "User", "[Post!]!"
		Class       Class    // how the value is obtained
		Relation    Relation // which traversal (Relational fields only)
		Args        []Arg    // arguments (Query fields only)
		Description string
	}
)

// Required returns true if the argument must be supplied (ie it has a non-null type)
func (a Arg) Required() bool {
	return IsNonNull(a.Type)
}

// Arg finds an argument declaration by name
func (i *Info) Arg(name string) (Arg, bool) {
	for _, a := range i.Args {
		if a.Name == name {
			return a, true
		}
	}
	return Arg{}, false
}

// BaseType is the name of the GraphQL type without list or non-null modifiers
func (i *Info) BaseType() string {
	return BaseType(i.Type)
}

// IsList is true if the field returns a GraphQL list
func (i *Info) IsList() bool {
	return IsList(i.Type)
}

// IsNonNull returns true if the type string has a non-null (!) modifier at the outer level
func IsNonNull(typeName string) bool {
	return len(typeName) > 1 && typeName[len(typeName)-1] == '!'
}

// IsList returns true if the type string is a list (ignoring a non-null modifier)
func IsList(typeName string) bool {
	if IsNonNull(typeName) {
		typeName = typeName[:len(typeName)-1]
	}
	return len(typeName) > 2 && typeName[0] == '[' && typeName[len(typeName)-1] == ']'
}

// ElemType returns the element type of a list type string or an empty string if not a list
func ElemType(typeName string) string {
	if !IsList(typeName) {
		return ""
	}
	if IsNonNull(typeName) {
		typeName = typeName[:len(typeName)-1]
	}
	return typeName[1 : len(typeName)-1]
}

// BaseType strips all list and non-null modifiers from a GraphQL type string, eg "[Post!]!" => "Post"
func BaseType(typeName string) string {
	for {
		if IsNonNull(typeName) {
			typeName = typeName[:len(typeName)-1] // remove non-nullability
			continue
		}
		if len(typeName) > 2 && typeName[0] == '[' && typeName[len(typeName)-1] == ']' {
			typeName = typeName[1 : len(typeName)-1]
			continue
		}
		return typeName
	}
}

// IsScalar returns true for the built-in GraphQL scalar type names
func IsScalar(typeName string) bool {
	switch BaseType(typeName) {
	case "Int", "Float", "String", "Boolean", "ID":
		return true
	}
	return false
}
