package blogql

// types.go re-exports the entity, error and request types so that users of the package
// do not need to import the internal packages

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/andrewwphillips/blogql/internal/handler"
	"github.com/andrewwphillips/blogql/internal/metrics"
	"github.com/andrewwphillips/blogql/internal/resolver"
	"github.com/andrewwphillips/blogql/internal/schema"
	"github.com/andrewwphillips/blogql/internal/store"
)

type (
	// ID uniquely identifies an entity within its own collection.  It is stored as a string
	// but in a GraphQL query (argument or variable) an ID may be given as a string or an integer.
	ID = store.ID

	User    = store.User
	Post    = store.Post
	Comment = store.Comment

	// Store is the immutable collection of users, posts and comments
	Store = store.Store

	// SchemaError is returned when a query asks for a field that is not declared (or has
	// the wrong shape of sub-selection).  ArgumentError is returned for a bad argument.
	SchemaError   = schema.Error
	ArgumentError = resolver.ArgumentError

	// Request is a GraphQL request (query, operation name and variables) and Result is
	// the response (data or errors) that is encoded as JSON
	Request = handler.Request
	Result  = handler.Result

	// Metrics holds the Prometheus collectors (see NewMetrics)
	Metrics = metrics.Metrics
)

// NewStore builds a store, returning an error if two entities of the same kind have the same ID.
// A reference (eg the Author of a Post) need not refer to an entity in the store.
func NewStore(users []User, posts []Post, comments []Comment) (*Store, error) {
	return store.New(users, posts, comments)
}

// SeedStore returns a store containing the demo data
func SeedStore() *Store {
	return store.Seed()
}

// LoadStore reads a store from a YAML file with top-level "users", "posts" and "comments" lists
func LoadStore(path string) (*Store, error) {
	return store.Load(path)
}

// NewMetrics creates the Prometheus collectors and registers them with reg
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	return metrics.New(reg)
}
