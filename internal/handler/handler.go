// Package handler implements an HTTP handler to process GraphQL queries given a
// GraphQL schema (SDL) and a resolver for the types declared in it.  Queries may
// be sent using GET or POST or over a websocket (graphql-ws or graphql-transport-ws).
package handler

// handler.go implements the handler and it's ServeHTTP method

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	jsoniter "github.com/json-iterator/go"
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"

	"github.com/andrewwphillips/blogql/internal/metrics"
	"github.com/andrewwphillips/blogql/internal/resolver"
)

// RequestIDHeader is the response header containing the ID generated for each request
const RequestIDHeader = "X-Request-Id"

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

type (
	// Handler stores the invariants (schema and resolver) used in the GraphQL requests
	Handler struct {
		schema   *ast.Schema
		resolver *resolver.Resolver

		logger       *slog.Logger
		metrics      *metrics.Metrics
		queryTimeout time.Duration

		initialTimeout time.Duration
		pingFrequency  time.Duration
		pongTimeout    time.Duration
	}

	// Request is a GraphQL request as decoded from the HTTP request (or websocket message)
	Request struct {
		Query         string                 `json:"query"`
		OperationName string                 `json:"operationName,omitempty"`
		Variables     map[string]interface{} `json:"variables,omitempty"`
	}
)

// New returns an HTTP handler given a schema (SDL) and a resolver that resolves the types of the
// schema.  It panics if the schema is invalid.
func New(schemaString string, res *resolver.Resolver, options ...func(*Handler)) *Handler {
	schema, pgqlError := gqlparser.LoadSchema(&ast.Source{
		Name:  "schema",
		Input: schemaString,
	})
	if pgqlError != nil {
		panic("blogql.handler.New - error making schema: " + pgqlError.Message)
	}

	h := &Handler{
		schema:   schema,
		resolver: res,
	}
	h.SetOptions(options...)
	return h
}

// ServeHTTP receives a GraphQL query as an HTTP request, executes the
// query and generates an HTTP response or error message
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := uuid.NewString()
	w.Header().Set(RequestIDHeader, id)
	logger := h.logger.With("request_id", id)

	if websocket.IsWebSocketUpgrade(r) {
		h.serveWS(w, r, logger)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	var g Request
	switch r.Method {
	case http.MethodGet:
		if err := decodeQueryParams(r.URL.Query(), &g); err != nil {
			h.badRequest(w, logger, "Error decoding query parameters: "+err.Error())
			return
		}
	case http.MethodPost:
		decoder := jsonAPI.NewDecoder(r.Body)
		decoder.UseNumber() // allows us to distinguish ints from floats (see FixNumberVariables() below)
		if err := decoder.Decode(&g); err != nil {
			h.badRequest(w, logger, "Error decoding JSON request: "+err.Error())
			return
		}
	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	// Since variables are sent as JSON (which does not distinguish int/float) we need to decide
	FixNumberVariables(g.Variables)

	start := time.Now()
	result := h.Execute(r.Context(), g)
	outcome := result.Outcome()
	h.metrics.Request(metrics.HTTP, outcome, time.Since(start))
	logger.Debug("graphql request", "operation", g.OperationName, "outcome", outcome, "duration", time.Since(start))

	if buf, err := jsonAPI.Marshal(result); err != nil {
		logger.Error("encoding response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"errors": [{"message": "Error encoding JSON response"}]}`))
	} else {
		_, _ = w.Write(buf)
	}
}

// badRequest writes an error response for a request that could not be decoded
func (h *Handler) badRequest(w http.ResponseWriter, logger *slog.Logger, message string) {
	logger.Info("bad request", "error", message)
	h.metrics.Request(metrics.HTTP, metrics.BadRequest, 0)
	w.WriteHeader(http.StatusBadRequest)
	buf, _ := jsonAPI.Marshal(map[string]interface{}{
		"errors": []map[string]string{{"message": message}},
	})
	_, _ = w.Write(buf)
}

// decodeQueryParams gets the request from the URL of a GET request
func decodeQueryParams(values url.Values, g *Request) error {
	g.Query = values.Get("query")
	g.OperationName = values.Get("operationName")
	if vars := values.Get("variables"); vars != "" {
		decoder := jsonAPI.NewDecoder(strings.NewReader(vars))
		decoder.UseNumber()
		if err := decoder.Decode(&g.Variables); err != nil {
			return err
		}
	}
	return nil
}

// FixNumberVariables goes through the structure created by the JSON decoder, converting any json.Number values to
// either an int64 or a float64.  This assumes that all the JSON numbers were decoded into a json.Number type, rather
// than int/float, by use of the UseNumber() method of the decoder.
func FixNumberVariables(m map[string]interface{}) {
	for key, val := range m {
		m[key] = fixNumber(val)
	}
}

func fixNumber(val interface{}) interface{} {
	switch v := val.(type) {
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return i
		}
		if f, err := v.Float64(); err == nil {
			return f
		}
		return v.String() // out of range - leave it for validation to reject
	case map[string]interface{}:
		FixNumberVariables(v) // recursively handle nested numbers
	case []interface{}:
		for i := range v {
			v[i] = fixNumber(v[i])
		}
	}
	return val
}
