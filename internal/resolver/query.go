package resolver

// query.go implements the top-level (Query type) fields

import (
	"strings"

	"github.com/andrewwphillips/blogql/internal/store"
)

// Users returns all users (if query is nil or empty) or those whose name contains query, ignoring case
func (r *Resolver) Users(query *string) []store.User {
	if query == nil || *query == "" {
		return r.store.Users()
	}
	q := strings.ToLower(*query)
	retval := []store.User{}
	r.store.EachUser(func(u store.User) bool {
		if strings.Contains(strings.ToLower(u.Name), q) {
			retval = append(retval, u)
		}
		return true
	})
	return retval
}

// Posts returns all posts (if query is nil or empty) or those whose title or body contains query, ignoring case
func (r *Resolver) Posts(query *string) []store.Post {
	if query == nil || *query == "" {
		return r.store.Posts()
	}
	q := strings.ToLower(*query)
	retval := []store.Post{}
	r.store.EachPost(func(p store.Post) bool {
		if strings.Contains(strings.ToLower(p.Title), q) || strings.Contains(strings.ToLower(p.Body), q) {
			retval = append(retval, p)
		}
		return true
	})
	return retval
}

// Comments returns all comments
func (r *Resolver) Comments() []store.Comment {
	return r.store.Comments()
}

// Me returns a fixed user that is not in the store, so its posts and comments are always empty
func (r *Resolver) Me() store.User {
	return store.User{ID: "155", Name: "Mike", Email: "mike@example.com"}
}

// Post returns a fixed post that is not in the store (and has no author)
func (r *Resolver) Post() store.Post {
	return store.Post{
		ID:        "0136",
		Title:     "Reboot Server",
		Body:      "Before restarting your server, please make sure..",
		Published: true,
	}
}

// Greeting says hello, personally if both name and position are given
func (r *Resolver) Greeting(name, position *string) string {
	if name == nil || *name == "" || position == nil || *position == "" {
		return "Hello!"
	}
	return "Hello, " + *name + "! You are a great " + *position
}

// Add sums a list of numbers
func (r *Resolver) Add(numbers []float64) float64 {
	var sum float64
	for _, n := range numbers {
		sum += n
	}
	return sum
}

// Grades returns a fixed list of grades
func (r *Resolver) Grades() []int {
	return []int{99, 80, 93}
}
