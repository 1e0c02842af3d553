package blogql_test

// End-to-end tests (also see low-level tests in the store, schema, resolver and handler packages)

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/andrewwphillips/blogql"
)

// JsonObject is what json.Unmarshaler produces when it decodes a JSON object.  Note that we use a type alias here,
// hence the equals sign (=), rather than a type definition - otherwise reflect.DeepEqual does not work.
type JsonObject = map[string]interface{}

// danglingStore has a post whose author is missing and a comment on a missing post
func danglingStore(t *testing.T) *blogql.Store {
	t.Helper()
	s, err := blogql.NewStore(
		[]blogql.User{{ID: "1", Name: "Anh"}},
		[]blogql.Post{{ID: "01", Title: "Orphan", Author: "99"}},
		[]blogql.Comment{{ID: "11", Text: "lost", Author: "1", Post: "97"}},
	)
	if err != nil {
		t.Fatalf("Error creating store: %v", err)
	}
	return s
}

// TestQuery performs high-level (end to end) tests of GraphQL queries.  More thorough low-level tests are included
// in the internal packages.
func TestQuery(t *testing.T) {
	tests := map[string]struct {
		dangling  bool        // use the store with dangling references (else the demo data)
		query     string      // main part of request body (GraphQl query format)
		variables string      // if not empty: added to request body (JSON key/value pairs)
		expected  interface{} // encoded JSON
	}{
		"grades": {
			query:    "{ grades }",
			expected: JsonObject{"grades": []interface{}{99.0, 80.0, 93.0}},
		},
		"users": {
			query: "{ users { name age } }",
			expected: JsonObject{
				"users": []interface{}{
					JsonObject{"name": "Anh", "age": 24.0},
					JsonObject{"name": "Kate", "age": nil},
					JsonObject{"name": "Kim", "age": nil},
				},
			},
		},
		"author_posts": {
			query:     `query ($q: String) { posts(query: $q) { id author { name posts { id } } } }`,
			variables: `{ "q": "STARTING" }`,
			expected: JsonObject{
				"posts": []interface{}{
					JsonObject{"id": "03", "author": JsonObject{"name": "Kim", "posts": []interface{}{JsonObject{"id": "03"}}}},
				},
			},
		},
		"dangling": {
			dangling: true,
			query:    `{ posts { title author { name } } comments { post { id } author { name } } }`,
			expected: JsonObject{
				"posts":    []interface{}{JsonObject{"title": "Orphan", "author": nil}},
				"comments": []interface{}{JsonObject{"post": nil, "author": JsonObject{"name": "Anh"}}},
			},
		},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			s := blogql.SeedStore()
			if test.dangling {
				s = danglingStore(t)
			}

			// Create a test server
			server := httptest.NewTLSServer(blogql.MustRun(s))
			defer server.Close()

			// build and POST the query
			body := JsonObject{"query": test.query}
			if test.variables != "" {
				body["variables"] = json.RawMessage(test.variables)
			}
			inBody, _ := json.Marshal(body)
			resp, err := server.Client().Post(server.URL, "application/json", bytes.NewReader(inBody))
			if err != nil {
				t.Fatalf("Error POSTing the query: %v", err)
			}
			defer resp.Body.Close()

			// decode the response
			var result struct {
				Data   interface{}
				Errors []struct {
					Message string
				}
			}
			decoder := json.NewDecoder(resp.Body)
			if err := decoder.Decode(&result); err != nil {
				t.Fatalf("Error decoding JSON: %v", err)
			}

			// Check that the resulting GraphQL result (error and data)
			Assertf(t, result.Errors == nil, "%-12s: expected no error and got %v", name, result.Errors)
			Assertf(t, reflect.DeepEqual(result.Data, test.expected), "%-12s: expected %v, got %v", name, test.expected, result.Data)
		})
	}
}

// TestObserver checks that a reference miss is logged and counted
func TestObserver(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := blogql.NewMetrics(reg)
	if err != nil {
		t.Fatalf("Error creating metrics: %v", err)
	}
	var logged bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logged, &slog.HandlerOptions{Level: slog.LevelDebug}))

	g := blogql.New(danglingStore(t), blogql.Logger(logger), blogql.WithMetrics(m), blogql.NoConcurrency(true))
	result, err := g.Execute(context.Background(), blogql.Request{Query: "{ posts { author { name } } }"})
	if err != nil {
		t.Fatalf("Error executing: %v", err)
	}
	Assertf(t, result.Errors == nil, "Expected no errors, got %v", result.Errors)
	Assertf(t, strings.Contains(logged.String(), "relation=Post.author id=99"), "Expected miss to be logged, got %q", logged.String())

	n, err := testutil.GatherAndCount(reg, "blogql_reference_misses_total")
	Assertf(t, err == nil && n == 1, "Expected 1 reference miss series, got %d (%v)", n, err)
}

func TestGetSchema(t *testing.T) {
	g := blogql.New(blogql.SeedStore())
	sdl := g.GetSchema()
	for _, s := range []string{"query: Query", "type Comment {", "type Post {", "type Query {", "type User {", "author: User"} {
		Assertf(t, strings.Contains(sdl, s), "Expected schema to contain %q", s)
	}
}

func TestNoStore(t *testing.T) {
	g := blogql.New(nil)
	_, err := g.GetHandler()
	Assertf(t, err != nil, "Expected an error for a nil store")

	defer func() {
		Assertf(t, recover() != nil, "Expected MustRun to panic")
	}()
	blogql.MustRun(nil)
}

// Assertf displays a tick or cross depending on the success of the test (succeeded)
// It also displays a nicely formated message if the test failed, and also displays the message for successful tests if
// all results are displayed (-v testing option) OR any other test run at the same time fails
func Assertf(t *testing.T, succeeded bool, format string, args ...interface{}) {
	const (
		succeed = "\u2713" // tick
		failed  = "XXXXX"  //"\u2717" // cross
	)

	t.Helper()
	if !succeeded {
		t.Errorf("%-6s"+format, append([]interface{}{failed}, args...)...)
	} else {
		t.Logf("%-6s"+format, append([]interface{}{succeed}, args...)...)
	}
}
