package handler

// execute.go handles the execution of a GraphQL request

import (
	"context"
	"errors"

	"github.com/dolmen-go/jsonmap"
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"github.com/vektah/gqlparser/v2/validator"

	"github.com/andrewwphillips/blogql/internal/metrics"
	"github.com/andrewwphillips/blogql/internal/resolver"
	"github.com/andrewwphillips/blogql/internal/schema"
)

// Error codes added to the "extensions" of errors in the response
const (
	CodeValidationFailed = "GRAPHQL_VALIDATION_FAILED"
	CodeSchemaError      = "SCHEMA_ERROR"
	CodeArgumentError    = "ARGUMENT_ERROR"
	CodeInternalError    = "INTERNAL_ERROR"
)

// Result contains the result (or errors) of the request to be encoded in JSON
type Result struct {
	Data   *jsonmap.Ordered `json:"data,omitempty"`
	Errors gqlerror.List    `json:"errors,omitempty"`
}

// Outcome summarises the result for metrics and logging
func (r Result) Outcome() string {
	if len(r.Errors) == 0 {
		return metrics.OK
	}
	switch r.Errors[0].Extensions["code"] {
	case CodeSchemaError:
		return metrics.SchemaError
	case CodeArgumentError:
		return metrics.ArgumentError
	case CodeInternalError:
		return metrics.InternalError
	}
	return metrics.ValidationError
}

// Execute parses, validates and runs the request and returns the result.  Any error
// means that the whole request failed so the result has no data.
func (h *Handler) Execute(ctx context.Context, g Request) (r Result) {
	if h.queryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.queryTimeout)
		defer cancel()
	}

	// First analyse and validate the query string
	query, errs := gqlparser.LoadQuery(h.schema, g.Query)
	if errs != nil {
		for _, e := range errs {
			r.Errors = append(r.Errors, withCode(e, CodeValidationFailed))
		}
		return
	}

	operation := query.Operations.ForName(g.OperationName)
	if operation == nil {
		msg := "operation name is required when the query has more than one operation"
		if g.OperationName != "" {
			msg = "unknown operation " + g.OperationName
		}
		r.Errors = append(r.Errors, withCode(gqlerror.Errorf("%s", msg), CodeValidationFailed))
		return
	}
	if operation.Operation != ast.Query {
		r.Errors = append(r.Errors, withCode(gqlerror.Errorf("%s operations are not supported", operation.Operation), CodeValidationFailed))
		return
	}

	// Get variables associated with this operation if any
	variables, pgqlError := validator.VariableValues(h.schema, operation, g.Variables)
	if pgqlError != nil {
		r.Errors = append(r.Errors, withCode(pgqlError, CodeValidationFailed))
		return
	}

	op := gqlOperation{variables: variables}
	set, err := op.GetSelections(operation.SelectionSet, h.schema.Query.Name)
	if err != nil {
		r.Errors = append(r.Errors, withCode(gqlerror.Errorf("%v", err), CodeValidationFailed))
		return
	}

	data, err := h.resolver.Execute(ctx, set)
	if err != nil {
		r.Errors = append(r.Errors, toGQLError(err, operation.Name))
		return
	}
	r.Data = &data
	return
}

// toGQLError converts an error from the resolver into a GraphQL error with a code and path
func toGQLError(err error, operationName string) *gqlerror.Error {
	e := &gqlerror.Error{
		Message:    err.Error(),
		Extensions: map[string]interface{}{"code": CodeInternalError},
	}
	if operationName != "" {
		e.Extensions["operation"] = operationName
	}

	var schemaErr *schema.Error
	var argErr *resolver.ArgumentError
	switch {
	case errors.As(err, &schemaErr):
		e.Extensions["code"] = CodeSchemaError
		e.Path = toPath(schemaErr.Path)
	case errors.As(err, &argErr):
		e.Extensions["code"] = CodeArgumentError
		e.Extensions["argument"] = argErr.Argument
		e.Path = toPath(argErr.Path)
	}
	return e
}

func toPath(path []string) ast.Path {
	if len(path) == 0 {
		return nil
	}
	retval := make(ast.Path, 0, len(path))
	for _, p := range path {
		retval = append(retval, ast.PathName(p))
	}
	return retval
}

func withCode(e *gqlerror.Error, code string) *gqlerror.Error {
	if e.Extensions == nil {
		e.Extensions = make(map[string]interface{}, 1)
	}
	e.Extensions["code"] = code
	return e
}
