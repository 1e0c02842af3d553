// Package store holds the in-memory collections of users, posts and comments that
// GraphQL queries are resolved against.  A Store is built once and never modified,
// so it can be shared by any number of concurrent queries without locking.
package store

// store.go contains the entity types and the Store itself

import (
	"fmt"
)

type (
	// ID uniquely identifies an entity within its own collection
	ID string

	// UserRef is a reference (foreign key) to a User.  It may not resolve.
	UserRef ID

	// PostRef is a reference (foreign key) to a Post.  It may not resolve.
	PostRef ID

	User struct {
		ID    ID     `yaml:"id"`
		Name  string `yaml:"name"`
		Email string `yaml:"email"`
		Age   *int   `yaml:"age,omitempty"` // nil if not known
	}

	Post struct {
		ID        ID      `yaml:"id"`
		Title     string  `yaml:"title"`
		Body      string  `yaml:"body"`
		Published bool    `yaml:"published"`
		Author    UserRef `yaml:"author"`
	}

	Comment struct {
		ID     ID      `yaml:"id"`
		Text   string  `yaml:"text"`
		Author UserRef `yaml:"author"`
		Post   PostRef `yaml:"post"`
	}

	// Store is an immutable snapshot of the three collections (in their original order)
	Store struct {
		users    []User
		posts    []Post
		comments []Comment
	}

	// DuplicateIDError is returned by New if two entities of the same kind share an ID
	DuplicateIDError struct {
		Kind string // "User", "Post" or "Comment"
		ID   ID
	}
)

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("duplicate %s id %q", e.Kind, e.ID)
}

// New creates a store from copies of the given collections, checking that IDs are unique
// within each collection.  References between collections are not checked.
func New(users []User, posts []Post, comments []Comment) (*Store, error) {
	if err := checkUnique("User", len(users), func(i int) ID { return users[i].ID }); err != nil {
		return nil, err
	}
	if err := checkUnique("Post", len(posts), func(i int) ID { return posts[i].ID }); err != nil {
		return nil, err
	}
	if err := checkUnique("Comment", len(comments), func(i int) ID { return comments[i].ID }); err != nil {
		return nil, err
	}
	return &Store{
		users:    copyUsers(users),
		posts:    append([]Post(nil), posts...),
		comments: append([]Comment(nil), comments...),
	}, nil
}

// MustNew is the same as New but panics on error
func MustNew(users []User, posts []Post, comments []Comment) *Store {
	s, err := New(users, posts, comments)
	if err != nil {
		panic(err)
	}
	return s
}

// copyUsers makes a deep copy so that no Age is shared with the caller
func copyUsers(users []User) []User {
	r := make([]User, len(users))
	for i, u := range users {
		r[i] = u.clone()
	}
	return r
}

func (u User) clone() User {
	if u.Age != nil {
		age := *u.Age
		u.Age = &age
	}
	return u
}

func checkUnique(kind string, n int, id func(int) ID) error {
	seen := make(map[ID]struct{}, n)
	for i := 0; i < n; i++ {
		if _, ok := seen[id(i)]; ok {
			return &DuplicateIDError{Kind: kind, ID: id(i)}
		}
		seen[id(i)] = struct{}{}
	}
	return nil
}

// Users returns all users in store order.  The slice (and each Age) is a copy so may be modified by the caller.
func (s *Store) Users() []User { return copyUsers(s.users) }

// Posts returns all posts in store order (a copy)
func (s *Store) Posts() []Post { return append([]Post(nil), s.posts...) }

// Comments returns all comments in store order (a copy)
func (s *Store) Comments() []Comment { return append([]Comment(nil), s.comments...) }

// Len returns the number of users, posts and comments
func (s *Store) Len() (users, posts, comments int) {
	return len(s.users), len(s.posts), len(s.comments)
}

// User dereferences a user reference.  The 2nd return value is false for a dangling reference.
func (s *Store) User(ref UserRef) (User, bool) {
	for _, u := range s.users {
		if u.ID == ID(ref) {
			return u.clone(), true
		}
	}
	return User{}, false
}

// Post dereferences a post reference.  The 2nd return value is false for a dangling reference.
func (s *Store) Post(ref PostRef) (Post, bool) {
	for _, p := range s.posts {
		if p.ID == ID(ref) {
			return p, true
		}
	}
	return Post{}, false
}

// EachPost calls f for every post in order until f returns false
func (s *Store) EachPost(f func(Post) bool) {
	for _, p := range s.posts {
		if !f(p) {
			return
		}
	}
}

// EachComment calls f for every comment in order until f returns false
func (s *Store) EachComment(f func(Comment) bool) {
	for _, c := range s.comments {
		if !f(c) {
			return
		}
	}
}

// EachUser calls f for every user in order until f returns false
func (s *Store) EachUser(f func(User) bool) {
	for _, u := range s.users {
		if !f(u.clone()) {
			return
		}
	}
}

// Ref returns a reference to the user
func (u User) Ref() UserRef { return UserRef(u.ID) }

// Ref returns a reference to the post
func (p Post) Ref() PostRef { return PostRef(p.ID) }
