package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/andrewwphillips/blogql/internal/handler"
	"github.com/andrewwphillips/blogql/internal/schema"
)

// SDLs that differ from the blog registry, used to get errors past validation and into the resolver
const (
	nicknameSchema = "type Query { grades: [Int!]! nickname: String }"
	optionalSchema = "type Query { add(numbers: [Float!]): Float! }"
	limitSchema    = "type Query { grades(limit: Int): [Int!]! }"
	scalarSchema   = "type Query { me: String! }"
)

// errorData is for testing GraphQL error responses returned for a bad query
var errorData = map[string]struct {
	schema    string // GraphQL schema (empty for the blog schema)
	query     string // GraphQL query to send to the handler (query syntax)
	variables string // GraphQL variables to use with the query (JSON)
	opName    string // operation name
	expError  string // expected error (or a part of it) decoded from the returned JSON response
	expCode   string // expected code (in error extensions)
	expPath   string // expected path of the error (dot separated)
}{
	"QueryError":   {"", `x`, "", "", `Unexpected Name "x"`, handler.CodeValidationFailed, ""},
	"UnknownQuery": {"", `{ unknown }`, "", "", `Cannot query field "unknown" on type "Query".`, handler.CodeValidationFailed, ""},
	"MissingArg":   {"", `{ add }`, "", "", `is required`, handler.CodeValidationFailed, ""},
	"Mutation":     {"", `mutation { grades }`, "", "", ``, handler.CodeValidationFailed, ""},
	"BadVariable": {"", `query ($q: String) { users(query: $q) { id } }`, `{"q": 5}`, "", `String`,
		handler.CodeValidationFailed, ""},
	"Ambiguous": {"", `query A { grades } query B { grades }`, "", "", `operation name is required`,
		handler.CodeValidationFailed, ""},
	"UnknownOperation": {"", `query A { grades }`, "", "C", `unknown operation C`, handler.CodeValidationFailed, ""},
	"Undeclared": {nicknameSchema, `{ grades nickname }`, "", "", `Cannot query field "nickname" on type "Query"`,
		handler.CodeSchemaError, "nickname"},
	"ScalarMismatch": {scalarSchema, `{ me }`, "", "", schema.ErrSelection.Error(), handler.CodeSchemaError, "me"},
	"MissingResolverArg": {optionalSchema, `{ add }`, "", "", `missing required argument`,
		handler.CodeArgumentError, "add"},
	"OptionalSDL": {optionalSchema, `query ($n: [Float!]) { add(numbers: $n) }`, `{"n": [1, 2]}`, "", ``,
		"", ""}, // no error: included to show the optional SDL works
	"UndeclaredArg": {limitSchema, `{ grades(limit: 2) }`, "", "", `not declared`, handler.CodeArgumentError, "grades"},
}

func TestErrors(t *testing.T) {
	for name, testData := range errorData {
		t.Run(name, func(t *testing.T) {
			var h *handler.Handler
			if testData.schema == "" {
				h = newHandler(t)
			} else {
				h = newHandlerSDL(t, testData.schema)
			}

			body := map[string]interface{}{"query": testData.query}
			if testData.variables != "" {
				body["variables"] = json.RawMessage(testData.variables)
			}
			if testData.opName != "" {
				body["operationName"] = testData.opName
			}
			writer := post(t, h, body)

			// All of these tests should give status OK
			if writer.Result().StatusCode != http.StatusOK {
				t.Fatalf("Unexpected response code %d", writer.Code)
			}

			// Decode the JSON response
			var result struct {
				Data   interface{}
				Errors []struct {
					Message    string
					Path       []interface{}
					Extensions map[string]interface{}
				}
			}
			decoder := json.NewDecoder(writer.Body)
			if err := decoder.Decode(&result); err != nil {
				t.Fatalf("Error decoding JSON: %v", err)
			}

			if testData.expCode == "" {
				Assertf(t, result.Errors == nil, "Expected no errors, got %v", result.Errors)
				return
			}
			// Check that the resulting GraphQL result (error and data)
			Assertf(t, result.Data == nil, "Expected no data and got %v", result.Data)
			if len(result.Errors) == 0 {
				t.Fatalf("Expected error %q, got none", testData.expError)
			}
			e := result.Errors[0]
			Assertf(t, strings.Contains(e.Message, testData.expError), "Expected error %q, got %q", testData.expError, e.Message)
			Assertf(t, e.Extensions["code"] == testData.expCode, "Expected code %q, got %v", testData.expCode, e.Extensions["code"])
			if testData.expPath != "" {
				path := make([]string, 0, len(e.Path))
				for _, p := range e.Path {
					s, _ := p.(string)
					path = append(path, s)
				}
				got := strings.Join(path, ".")
				Assertf(t, got == testData.expPath, "Expected path %q, got %q", testData.expPath, got)
			}
		})
	}
}

func TestOperationExtension(t *testing.T) {
	h := newHandlerSDL(t, optionalSchema)
	writer := post(t, h, map[string]interface{}{"query": `query Sum { add }`})

	var result struct {
		Errors []struct {
			Extensions map[string]interface{}
		}
	}
	if err := json.Unmarshal(writer.Body.Bytes(), &result); err != nil {
		t.Fatalf("Error decoding JSON: %v", err)
	}
	if len(result.Errors) != 1 {
		t.Fatalf("Expected one error, got %d", len(result.Errors))
	}
	ext := result.Errors[0].Extensions
	Assertf(t, ext["operation"] == "Sum", "Expected operation Sum, got %v", ext["operation"])
	Assertf(t, ext["argument"] == "numbers", "Expected argument numbers, got %v", ext["argument"])
}

func TestBadRequests(t *testing.T) {
	h := newHandler(t)

	request := httptest.NewRequest("POST", "/", strings.NewReader(`{"query": `))
	writer := httptest.NewRecorder()
	h.ServeHTTP(writer, request)
	Assertf(t, writer.Code == http.StatusBadRequest, "Bad JSON: expected status 400, got %d", writer.Code)
	Assertf(t, strings.Contains(writer.Body.String(), `"errors"`), "Bad JSON: expected errors, got %s", writer.Body.String())

	request = httptest.NewRequest("GET", "/?query=%7Bgrades%7D&variables=bad", nil)
	writer = httptest.NewRecorder()
	h.ServeHTTP(writer, request)
	Assertf(t, writer.Code == http.StatusBadRequest, "Bad variables: expected status 400, got %d", writer.Code)

	request = httptest.NewRequest("PUT", "/", strings.NewReader(`{"query": "{ grades }"}`))
	writer = httptest.NewRecorder()
	h.ServeHTTP(writer, request)
	Assertf(t, writer.Code == http.StatusMethodNotAllowed, "PUT: expected status 405, got %d", writer.Code)
	Assertf(t, writer.Header().Get("Allow") == "GET, POST", "PUT: expected Allow header, got %q", writer.Header().Get("Allow"))
}
