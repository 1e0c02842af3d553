// Package blogql is a small read-only GraphQL server for a blog: users, the posts
// they write and the comments made on those posts.
//
// The entities are held in memory (see NewStore, LoadStore and SeedStore) and never
// change once loaded.  Each GraphQL field is declared in a type registry as either a
// stored value (eg a post's title), a relation that follows a reference to another
// collection (eg a post's author) or a root query (eg "users").  The registry is used
// to generate the GraphQL schema so the schema and the resolvers cannot get out of step.
// For example, here is the code for a complete GraphQL server using the demo data:
//
//	package main
//
//	import (
//	    "net/http"
//
//	    "github.com/andrewwphillips/blogql"
//	)
//
//	func main() {
//		http.Handle("/graphql", blogql.MustRun(blogql.SeedStore()))
//		http.ListenAndServe(":8080", nil)
//	}
//
// which can be used in a query like this:
//
//	{
//	   posts(query: "server") {
//	     title
//	     author { name }
//	   }
//	}
//
// A reference that does not resolve (eg a comment on a post that is not in the
// store) gives null rather than an error.  Undeclared fields and bad arguments are
// errors that reject the whole query (there is no partial data).
//
// See cmd/blogql for a command line server that also provides Prometheus metrics.
package blogql
