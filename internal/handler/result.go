package handler

// result.go converts the (validated) selections of a query into the selections that are resolved

import (
	"fmt"

	"github.com/vektah/gqlparser/v2/ast"

	"github.com/andrewwphillips/blogql/internal/resolver"
)

// gqlOperation controls an operation (query) of a GraphQL request
type gqlOperation struct {
	variables map[string]interface{} // variables valid for this op (extracted from the request)
}

// GetSelections converts a selection set into a list of resolver selections for an object of the named
// type.  Fragments (inline or spread) are expanded in place and fields excluded by @skip or @include
// directives are left out.  Fields with the same response key (name or alias) are merged into one.
func (op *gqlOperation) GetSelections(set ast.SelectionSet, typeName string) ([]resolver.Selection, error) {
	retval := make([]resolver.Selection, 0, len(set))
	index := make(map[string]int, len(set)) // key => position in retval
	if err := op.collect(set, typeName, &retval, index); err != nil {
		return nil, err
	}
	return retval, nil
}

func (op *gqlOperation) collect(set ast.SelectionSet, typeName string, out *[]resolver.Selection, index map[string]int) error {
	for _, s := range set {
		switch astType := s.(type) {
		case *ast.Field:
			if skip, err := op.directiveBypass(astType.Directives); err != nil || skip {
				if err != nil {
					return err
				}
				continue
			}
			sel := resolver.Selection{Name: astType.Name, Alias: astType.Alias}
			if len(astType.Arguments) > 0 {
				sel.Arguments = make(map[string]interface{}, len(astType.Arguments))
				for _, arg := range astType.Arguments {
					// rawValue stores the value of an argument the same way the JSON decoder does (eg a list is []interface{})
					rawValue, err := arg.Value.Value(op.variables)
					if err != nil {
						return fmt.Errorf("getting argument %q of %q: %w", arg.Name, astType.Name, err)
					}
					sel.Arguments[arg.Name] = rawValue
				}
			}
			if len(astType.SelectionSet) > 0 {
				if astType.Definition == nil || astType.Definition.Type == nil {
					return fmt.Errorf("field %q of %q has no definition", astType.Name, typeName)
				}
				var err error
				if sel.Selections, err = op.GetSelections(astType.SelectionSet, astType.Definition.Type.Name()); err != nil {
					return err
				}
			}

			key := sel.Key()
			if i, ok := index[key]; ok {
				(*out)[i].Selections = mergeSelections((*out)[i].Selections, sel.Selections)
				continue
			}
			index[key] = len(*out)
			*out = append(*out, sel)

		case *ast.InlineFragment:
			if skip, err := op.directiveBypass(astType.Directives); err != nil || skip {
				if err != nil {
					return err
				}
				continue
			}
			if astType.TypeCondition != "" && astType.TypeCondition != typeName {
				continue
			}
			if err := op.collect(astType.SelectionSet, typeName, out, index); err != nil {
				return err
			}

		case *ast.FragmentSpread:
			if skip, err := op.directiveBypass(astType.Directives); err != nil || skip {
				if err != nil {
					return err
				}
				continue
			}
			if astType.Definition == nil {
				return fmt.Errorf("fragment %q not defined", astType.Name)
			}
			if astType.Definition.TypeCondition != "" && astType.Definition.TypeCondition != typeName {
				continue
			}
			if err := op.collect(astType.Definition.SelectionSet, typeName, out, index); err != nil {
				return err
			}
		}
	}
	return nil
}

// mergeSelections adds the fields of b to a, merging the sub-selections of fields with the same key
func mergeSelections(a, b []resolver.Selection) []resolver.Selection {
	for _, s := range b {
		found := false
		for i := range a {
			if a[i].Key() == s.Key() {
				a[i].Selections = mergeSelections(a[i].Selections, s.Selections)
				found = true
				break
			}
		}
		if !found {
			a = append(a, s)
		}
	}
	return a
}

// directiveBypass handles field directives - just standard "skip" and "include" for now
// Returns: true if a directive indicates the field is not to be processed
func (op *gqlOperation) directiveBypass(directives ast.DirectiveList) (bool, error) {
	for _, d := range directives {
		if d.Name != "skip" && d.Name != "include" {
			continue
		}
		reverse := d.Name == "skip"
		for _, arg := range d.Arguments {
			if arg.Name == "if" {
				rawValue, err := arg.Value.Value(op.variables)
				if err != nil {
					return false, err
				}
				if b, ok := rawValue.(bool); ok && b == reverse {
					return true, nil
				}
			}
		}
	}
	return false, nil
}
