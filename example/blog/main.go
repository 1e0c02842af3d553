package main

// A complete GraphQL server for a small blog.  Try this query at http://localhost:8080/graphql
//
//	{ posts(query: "go") { title author { name } comments { text } } }

import (
	"net/http"

	"github.com/andrewwphillips/blogql"
)

var (
	users = []blogql.User{
		{ID: "1", Name: "Ada", Email: "ada@example.com"},
		{ID: "2", Name: "Brian", Email: "brian@example.com"},
	}
	posts = []blogql.Post{
		{ID: "10", Title: "Learning Go", Body: "Start with the tour..", Published: true, Author: "2"},
		{ID: "11", Title: "Analytical Engines", Body: "Notes on the engine..", Published: false, Author: "1"},
	}
	comments = []blogql.Comment{
		{ID: "100", Text: "Go is fun", Author: "1", Post: "10"},
		{ID: "101", Text: "Where are the notes?", Author: "2", Post: "11"},
	}
)

func main() {
	s, err := blogql.NewStore(users, posts, comments)
	if err != nil {
		panic(err)
	}
	http.Handle("/graphql", blogql.MustRun(s))
	http.ListenAndServe(":8080", nil)
}
