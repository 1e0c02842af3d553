package blogql

// run.go provides the MustRun function for quickly creating a GraphQL http handler

import (
	"net/http"
)

// MustRun creates an http handler that handles GraphQL requests for the entities of the store.
// It panics if the handler cannot be created (eg if s is nil).  Options are the same as for New.
func MustRun(s *Store, opts ...func(*options)) http.Handler {
	g := New(s, opts...)
	h, err := g.GetHandler()
	if err != nil {
		panic(err)
	}
	return h
}
