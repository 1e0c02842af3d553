package resolver

// args.go converts the "raw" argument values of a query field into the Go types declared for them.
// Raw values are stored the way the JSON decoder (or gqlparser's ast.Value.Value) stores them: a
// list is a []interface{}, integers are int64 (or json.Number), floats are float64, etc.

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/andrewwphillips/blogql/internal/field"
)

// coerceArgs checks and converts the supplied arguments against the declaration of the field.
// Arguments that are not supplied (and not required) are left out of the returned map.
func coerceArgs(info *field.Info, raw map[string]interface{}, path []string) (map[string]interface{}, error) {
	args := make(map[string]interface{}, len(info.Args))
	for name := range raw {
		if _, ok := info.Arg(name); !ok {
			return nil, &ArgumentError{Field: info.Name, Argument: name, Path: path,
				Err: fmt.Errorf("%w: not declared", ErrInvalidArgument)}
		}
	}
	for _, a := range info.Args {
		value, err := getValue(a.Type, raw[a.Name])
		if err != nil {
			return nil, &ArgumentError{Field: info.Name, Argument: a.Name, Path: path, Err: err}
		}
		if value != nil {
			args[a.Name] = value
		}
	}
	return args, nil
}

// getValue returns a value of the Go type corresponding to a GraphQL type string
// (String/ID => string, Int => int, Float => float64, Boolean => bool, lists => slices)
func getValue(typeName string, value interface{}) (interface{}, error) {
	if value == nil {
		if field.IsNonNull(typeName) {
			return nil, ErrMissingArgument
		}
		return nil, nil
	}
	if !field.IsList(typeName) {
		return getScalar(field.BaseType(typeName), value)
	}

	elemType := field.ElemType(typeName)
	list := toList(value)
	values := make([]interface{}, len(list))
	for i, elem := range list {
		if elem == nil && field.IsNonNull(elemType) {
			return nil, fmt.Errorf("%w: null list element %d", ErrInvalidArgument, i)
		}
		if elem == nil {
			continue
		}
		v, err := getScalar(field.BaseType(elemType), elem)
		if err != nil {
			return nil, fmt.Errorf("getting list value [%d]: %w", i, err)
		}
		values[i] = v
	}
	return getList(field.BaseType(elemType), values), nil
}

// toList returns the elements of a list value.  A single (non-list) value is treated as a list of one
// element, as GraphQL input coercion requires.
func toList(value interface{}) []interface{} {
	switch v := value.(type) {
	case []interface{}:
		return v
	case []float64:
		r := make([]interface{}, len(v))
		for i := range v {
			r[i] = v[i]
		}
		return r
	case []int:
		r := make([]interface{}, len(v))
		for i := range v {
			r[i] = v[i]
		}
		return r
	case []string:
		r := make([]interface{}, len(v))
		for i := range v {
			r[i] = v[i]
		}
		return r
	}
	return []interface{}{value}
}

// getList makes a slice of the right Go type given the (already converted) elements.
// Any null elements become the zero value.
func getList(baseType string, values []interface{}) interface{} {
	switch baseType {
	case "Float":
		r := make([]float64, len(values))
		for i, v := range values {
			r[i], _ = v.(float64)
		}
		return r
	case "Int":
		r := make([]int, len(values))
		for i, v := range values {
			r[i], _ = v.(int)
		}
		return r
	case "Boolean":
		r := make([]bool, len(values))
		for i, v := range values {
			r[i], _ = v.(bool)
		}
		return r
	default:
		r := make([]string, len(values))
		for i, v := range values {
			r[i], _ = v.(string)
		}
		return r
	}
}

// getScalar converts a single raw value to the Go type for a built-in scalar
func getScalar(baseType string, value interface{}) (interface{}, error) {
	if n, ok := value.(json.Number); ok {
		if i, err := n.Int64(); err == nil {
			value = i
		} else if f, err := n.Float64(); err == nil {
			value = f
		}
	}
	switch baseType {
	case "String":
		if s, ok := value.(string); ok {
			return s, nil
		}
	case "ID":
		switch v := value.(type) {
		case string:
			return v, nil
		case int:
			return fmt.Sprint(v), nil
		case int64:
			return fmt.Sprint(v), nil
		}
	case "Int":
		if i, ok := toInt64(value); ok {
			// GraphQL Int is a signed 32-bit integer
			if i < math.MinInt32 || i > math.MaxInt32 {
				return nil, fmt.Errorf("%w: %d is out of range for Int", ErrInvalidArgument, i)
			}
			return int(i), nil
		}
	case "Float":
		switch v := value.(type) {
		case float64:
			return v, nil
		case float32:
			return float64(v), nil
		case int:
			return float64(v), nil
		case int32:
			return float64(v), nil
		case int64:
			return float64(v), nil
		}
	case "Boolean":
		if b, ok := value.(bool); ok {
			return b, nil
		}
	}
	return nil, fmt.Errorf("%w: expected %s but got %T", ErrInvalidArgument, baseType, value)
}

func toInt64(value interface{}) (int64, bool) {
	switch v := value.(type) {
	case int:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	}
	return 0, false
}

// optString returns a pointer to a (coerced) string argument or nil if it was not supplied
func optString(args map[string]interface{}, name string) *string {
	if s, ok := args[name].(string); ok {
		return &s
	}
	return nil
}
