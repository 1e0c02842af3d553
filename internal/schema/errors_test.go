package schema_test

// errors_test.go has table-driven tests for error conditions in calls to schema.New

import (
	"strings"
	"testing"

	"github.com/andrewwphillips/blogql/internal/field"
	"github.com/andrewwphillips/blogql/internal/schema"
)

var grades = field.Info{Name: "grades", Type: "[Int!]!", Class: field.Query}

func query(fields ...field.Info) schema.TypeDef {
	return schema.TypeDef{Kind: schema.Query, Fields: append([]field.Info{grades}, fields...)}
}

func user(fields ...field.Info) schema.TypeDef {
	return schema.TypeDef{Kind: schema.User, Fields: append([]field.Info{{Name: "id", Type: "ID!", Class: field.Stored}}, fields...)}
}

// TestSchemaErrors tests that the right error is returned for bad type declarations
func TestSchemaErrors(t *testing.T) {
	var errorData = map[string]struct {
		defs    []schema.TypeDef
		problem string
	}{
		"NoQuery":     {[]schema.TypeDef{user()}, `no "Query" type`},
		"DupeType":    {[]schema.TypeDef{query(), query()}, "declared more than once"},
		"BadKind":     {[]schema.TypeDef{{Kind: schema.Kind(7), Fields: []field.Info{grades}}}, "unknown kind"},
		"NoFields":    {[]schema.TypeDef{{Kind: schema.Query}}, "no fields"},
		"BadName":     {[]schema.TypeDef{query(field.Info{Name: "9lives", Type: "Int", Class: field.Query})}, "not a valid field name"},
		"BadReserved": {[]schema.TypeDef{query(field.Info{Name: "__schema", Type: "Int", Class: field.Query})}, "not a valid field name"},
		"DupeField":   {[]schema.TypeDef{query(grades)}, "repeated field name"},
		"BadType":     {[]schema.TypeDef{query(field.Info{Name: "x", Type: "[Int", Class: field.Query})}, "invalid type"},
		"UnknownType": {[]schema.TypeDef{query(field.Info{Name: "x", Type: "Widget", Class: field.Query})}, `unknown type "Widget"`},
		"UndeclaredTarget": {
			[]schema.TypeDef{query(field.Info{Name: "me", Type: "User!", Class: field.Query})}, `unknown type "User!"`,
		},
		"StoredInQuery":     {[]schema.TypeDef{query(field.Info{Name: "x", Type: "Int", Class: field.Stored})}, "not allowed in query type"},
		"StoredObject":      {[]schema.TypeDef{query(), user(field.Info{Name: "me", Type: "User", Class: field.Stored})}, "must have a scalar type"},
		"RelationalInQuery": {[]schema.TypeDef{query(field.Info{Name: "x", Type: "User", Class: field.Relational, Relation: field.PostAuthor})}, "not allowed in query type"},
		"NoRelation":        {[]schema.TypeDef{query(), user(field.Info{Name: "posts", Type: "[User!]!", Class: field.Relational})}, "has no relation"},
		"SingleAsList": {
			[]schema.TypeDef{query(), user(field.Info{Name: "author", Type: "[User]", Class: field.Relational, Relation: field.PostAuthor})},
			"does not match type",
		},
		"ListAsSingle": {
			[]schema.TypeDef{query(), user(field.Info{Name: "posts", Type: "User", Class: field.Relational, Relation: field.UserPosts})},
			"does not match type",
		},
		"WrongTarget": {
			[]schema.TypeDef{query(), user(field.Info{Name: "author", Type: "Comment", Class: field.Relational, Relation: field.PostAuthor})},
			`resolves to User not "Comment"`,
		},
		"QueryInUser": {[]schema.TypeDef{query(), user(field.Info{Name: "x", Type: "Int", Class: field.Query})}, "only allowed in the query type"},
		"BadClass":    {[]schema.TypeDef{query(field.Info{Name: "x", Type: "Int", Class: field.Class(9)})}, "unknown class"},
		"ArgsStored": {
			[]schema.TypeDef{query(), user(field.Info{Name: "name", Type: "String", Class: field.Stored, Args: []field.Arg{{Name: "a", Type: "Int"}}})},
			"arguments cannot be declared",
		},
		"BadArgName": {
			[]schema.TypeDef{query(field.Info{Name: "x", Type: "Int", Class: field.Query, Args: []field.Arg{{Name: "a b", Type: "Int"}}})},
			"not a valid argument name",
		},
		"DupeArg": {
			[]schema.TypeDef{query(field.Info{Name: "x", Type: "Int", Class: field.Query, Args: []field.Arg{{Name: "a", Type: "Int"}, {Name: "a", Type: "String"}}})},
			"repeated argument",
		},
		"ObjectArg": {
			[]schema.TypeDef{query(field.Info{Name: "x", Type: "Int", Class: field.Query, Args: []field.Arg{{Name: "a", Type: "User"}}})},
			"invalid type",
		},
	}

	for name, data := range errorData {
		_, err := schema.New(data.defs...)
		if err == nil {
			Assertf(t, err != nil, "TestSchemaErrors: %18s: expected error containing %q but got no error", name, data.problem)
			continue
		}
		Assertf(t, strings.Contains(err.Error(), data.problem), "TestSchemaErrors: %18s: expected error containing %q got %q", name, data.problem, err.Error())
	}
}

func TestMustNewPanics(t *testing.T) {
	defer func() {
		Assertf(t, recover() != nil, "MustNew: expected panic for empty declarations")
	}()
	schema.MustNew()
}
