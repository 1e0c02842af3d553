package resolver

// execute.go walks the tree of selections of a query, generating the (ordered) result

import (
	"context"
	"fmt"

	"github.com/dolmen-go/jsonmap"

	"github.com/andrewwphillips/blogql/internal/field"
	"github.com/andrewwphillips/blogql/internal/schema"
	"github.com/andrewwphillips/blogql/internal/store"
)

// typenameField is the one introspection field that can be requested on any object
const typenameField = "__typename"

type (
	// Selection is a field requested in a query, with arguments (query fields only) and any sub-selections
	Selection struct {
		Name       string
		Alias      string                 // key used in the result (Name if empty)
		Arguments  map[string]interface{} // raw values (as decoded from JSON or an ast.Value)
		Selections []Selection
	}

	// planned is a selection that has been checked against the registry and has its resolver attached
	planned struct {
		key      string
		info     *field.Info // nil for __typename
		resolve  resolverFunc
		args     map[string]interface{} // coerced
		kind     schema.Kind            // kind of entity returned (object fields only)
		children []planned
	}

	// gqlValue contains the result of resolving one field, or an error, plus the name
	gqlValue struct {
		name  string      // name/alias of the field
		value interface{} // scalar, nested result (jsonmap.Ordered), or list ([]interface{})
		err   error       // non-nil if something went wrong whence value should be ignored
	}
)

// Key returns the name used for the field in the result
func (s Selection) Key() string {
	if s.Alias != "" {
		return s.Alias
	}
	return s.Name
}

// Execute resolves a set of selections on the Query type.  All selections (at every level) are
// first checked - any undeclared field, bad sub-selection or bad argument aborts the query
// before anything is resolved.  Each object's fields are then resolved (concurrently unless the
// NoConcurrency option was used) and returned in the order they were selected.
func (r *Resolver) Execute(ctx context.Context, set []Selection) (jsonmap.Ordered, error) {
	plan, err := r.check(schema.Query, set, nil)
	if err != nil {
		return jsonmap.Ordered{}, err
	}
	return r.getSelections(ctx, schema.Query, nil, plan)
}

// check validates selections against the registry and returns the plan for resolving them
func (r *Resolver) check(kind schema.Kind, set []Selection, path []string) ([]planned, error) {
	retval := make([]planned, 0, len(set))
	for _, s := range set {
		fieldPath := append(append(make([]string, 0, len(path)+1), path...), s.Key())
		if s.Name == typenameField {
			if len(s.Selections) > 0 {
				return nil, &schema.Error{Type: kind.String(), Field: s.Name, Path: fieldPath, Err: schema.ErrSelection}
			}
			retval = append(retval, planned{key: s.Key()})
			continue
		}

		info, fn, err := r.lookup(kind, s.Name)
		if err != nil {
			if e, ok := err.(*schema.Error); ok {
				e.Path = fieldPath
			}
			return nil, err
		}
		p := planned{key: s.Key(), info: info, resolve: fn}
		if info.Class == field.Query {
			if p.args, err = coerceArgs(info, s.Arguments, fieldPath); err != nil {
				return nil, err
			}
		}

		if field.IsScalar(info.Type) {
			if len(s.Selections) > 0 {
				return nil, &schema.Error{Type: kind.String(), Field: s.Name, Path: fieldPath, Err: schema.ErrSelection}
			}
		} else {
			if len(s.Selections) == 0 {
				return nil, &schema.Error{Type: kind.String(), Field: s.Name, Path: fieldPath, Err: schema.ErrSelection}
			}
			p.kind, _ = schema.KindOf(info.Type) // registry ensures the type is declared
			if p.children, err = r.check(p.kind, s.Selections, fieldPath); err != nil {
				return nil, err
			}
		}
		retval = append(retval, p)
	}
	return retval, nil
}

// getSelections resolves the (checked) selections of one object.  Each field's value is
// delivered on a chan, which allows the fields to be resolved in separate goroutines.
func (r *Resolver) getSelections(ctx context.Context, kind schema.Kind, parent interface{}, plan []planned,
) (jsonmap.Ordered, error) {
	if err := ctx.Err(); err != nil {
		return jsonmap.Ordered{}, err
	}
	resultChans := make([]<-chan gqlValue, 0, len(plan))
	for i := range plan {
		ch := make(chan gqlValue, 1)
		if r.noConcurrency {
			r.wrapResolve(ctx, kind, parent, &plan[i], ch)
		} else {
			// Calling wrapResolve as a goroutine allows fields to be resolved in parallel
			go r.wrapResolve(ctx, kind, parent, &plan[i], ch)
		}
		resultChans = append(resultChans, ch)
	}

	// Now extract the values (will block until all channels have a value)
	result := jsonmap.Ordered{
		Data:  make(map[string]interface{}, len(plan)),
		Order: make([]string, 0, len(plan)),
	}
	for _, ch := range resultChans {
		select {
		case v := <-ch:
			if v.err != nil {
				return jsonmap.Ordered{}, v.err
			}
			if _, ok := result.Data[v.name]; !ok {
				result.Order = append(result.Order, v.name) // only append to order if not already in the map
			}
			result.Data[v.name] = v.value
		case <-ctx.Done():
			return jsonmap.Ordered{}, ctx.Err()
		}
	}
	return result, nil
}

// wrapResolve calls resolve putting the return value on a chan and converting any panic to an error
func (r *Resolver) wrapResolve(ctx context.Context, kind schema.Kind, parent interface{}, p *planned, ch chan<- gqlValue) {
	defer func() {
		if recoverValue := recover(); recoverValue != nil {
			ch <- gqlValue{name: p.key, err: fmt.Errorf("internal error: panic resolving %s.%s: %v", kind, p.key, recoverValue)}
		}
	}()
	value, err := r.resolve(ctx, kind, parent, p)
	ch <- gqlValue{name: p.key, value: value, err: err}
}

// resolve gets the value of one field of an object, including the results of any sub-selections
func (r *Resolver) resolve(ctx context.Context, kind schema.Kind, parent interface{}, p *planned) (interface{}, error) {
	if p.info == nil {
		return kind.String(), nil // __typename
	}
	value := p.resolve(r, parent, p.args)
	if p.children == nil || value == nil {
		return value, nil // scalar (or list of scalars) or a reference that did not resolve
	}

	if !p.info.IsList() {
		return r.getSelections(ctx, p.kind, value, p.children)
	}
	entities := toEntities(value)
	results := make([]interface{}, 0, len(entities)) // to distinguish empty list from null
	for _, e := range entities {
		result, err := r.getSelections(ctx, p.kind, e, p.children)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, nil
}

// toEntities converts a slice of entities returned from a resolver into a slice of interface{}
func toEntities(value interface{}) []interface{} {
	var retval []interface{}
	switch list := value.(type) {
	case []store.User:
		retval = make([]interface{}, len(list))
		for i := range list {
			retval[i] = list[i]
		}
	case []store.Post:
		retval = make([]interface{}, len(list))
		for i := range list {
			retval[i] = list[i]
		}
	case []store.Comment:
		retval = make([]interface{}, len(list))
		for i := range list {
			retval[i] = list[i]
		}
	default:
		panic(fmt.Sprintf("unexpected list of type %T", value))
	}
	return retval
}
