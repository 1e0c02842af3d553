package schema

// validate.go has functions to help check that type declarations are valid

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/andrewwphillips/blogql/internal/field"
)

var nameRegex = regexp.MustCompile(`^[_a-zA-Z][_a-zA-Z0-9]*$`)

// typeRegex matches a type reference with optional list and non-null modifiers (one level of list)
var typeRegex = regexp.MustCompile(`^(\[[_a-zA-Z][_a-zA-Z0-9]*!?\]|[_a-zA-Z][_a-zA-Z0-9]*)!?$`)

// validGraphQLName checks that a string contains a valid GraphQL identifier like an argument or field name
func validGraphQLName(s string) bool {
	if strings.HasPrefix(s, "__") {
		return false // reserved names
	}
	return nameRegex.MatchString(s)
}

// validateTypeDef checks the fields of a type declaration are consistent with their classification
func validateTypeDef(def TypeDef) error {
	if len(def.Fields) == 0 {
		return fmt.Errorf("no fields")
	}
	inUse := make(map[string]struct{}, len(def.Fields)) // for repeated name check
	for _, f := range def.Fields {
		if !validGraphQLName(f.Name) {
			return fmt.Errorf("%q is not a valid field name", f.Name)
		}
		if _, ok := inUse[f.Name]; ok {
			return fmt.Errorf("%q is a repeated field name", f.Name)
		}
		inUse[f.Name] = struct{}{}

		if !typeRegex.MatchString(f.Type) {
			return fmt.Errorf("field %q has invalid type %q", f.Name, f.Type)
		}

		switch f.Class {
		case field.Stored:
			if def.Kind == Query {
				return fmt.Errorf("stored field %q not allowed in query type", f.Name)
			}
			if !field.IsScalar(f.Type) {
				return fmt.Errorf("stored field %q must have a scalar type (not %q)", f.Name, f.Type)
			}
		case field.Relational:
			if def.Kind == Query {
				return fmt.Errorf("relational field %q not allowed in query type", f.Name)
			}
			if f.Relation == field.NoRelation {
				return fmt.Errorf("relational field %q has no relation", f.Name)
			}
			if f.Relation.SingleValued() == f.IsList() {
				return fmt.Errorf("relation %s does not match type %q of field %q", f.Relation, f.Type, f.Name)
			}
			if field.IsScalar(f.Type) {
				return fmt.Errorf("relational field %q cannot have scalar type %q", f.Name, f.Type)
			}
			if target := f.Relation.Target(); f.BaseType() != target {
				return fmt.Errorf("relation %s of field %q resolves to %s not %q", f.Relation, f.Name, target, f.BaseType())
			}
		case field.Query:
			if def.Kind != Query {
				return fmt.Errorf("query field %q is only allowed in the query type", f.Name)
			}
		default:
			return fmt.Errorf("field %q has unknown class %v", f.Name, f.Class)
		}

		if f.Class != field.Query && len(f.Args) > 0 {
			return fmt.Errorf("arguments cannot be declared for %s field %q", f.Class, f.Name)
		}
		args := make(map[string]struct{}, len(f.Args))
		for _, a := range f.Args {
			if !validGraphQLName(a.Name) {
				return fmt.Errorf("%q is not a valid argument name (field %s)", a.Name, f.Name)
			}
			if _, ok := args[a.Name]; ok {
				return fmt.Errorf("%q is a repeated argument (field %s)", a.Name, f.Name)
			}
			args[a.Name] = struct{}{}
			if !typeRegex.MatchString(a.Type) || !field.IsScalar(a.Type) {
				return fmt.Errorf("argument %q of field %q has invalid type %q", a.Name, f.Name, a.Type)
			}
		}
	}
	return nil
}
