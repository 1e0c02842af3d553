package resolver

// relations.go has the routines that follow references between the collections of the store

import (
	"github.com/andrewwphillips/blogql/internal/field"
	"github.com/andrewwphillips/blogql/internal/store"
)

// Observer is told about dangling references found while resolving relational fields.
// A miss is not an error (the field just resolves to null).
type Observer interface {
	ReferenceMiss(relation field.Relation, id store.ID)
}

// PostAuthor finds the author of a post
func (r *Resolver) PostAuthor(p store.Post) (store.User, bool) {
	u, ok := r.store.User(p.Author)
	if !ok {
		r.miss(field.PostAuthor, store.ID(p.Author))
	}
	return u, ok
}

// CommentAuthor finds the author of a comment
func (r *Resolver) CommentAuthor(c store.Comment) (store.User, bool) {
	u, ok := r.store.User(c.Author)
	if !ok {
		r.miss(field.CommentAuthor, store.ID(c.Author))
	}
	return u, ok
}

// CommentPost finds the post that a comment was made on
func (r *Resolver) CommentPost(c store.Comment) (store.Post, bool) {
	p, ok := r.store.Post(c.Post)
	if !ok {
		r.miss(field.CommentPost, store.ID(c.Post))
	}
	return p, ok
}

// PostComments returns the comments made on a post (empty, not nil, if there are none)
func (r *Resolver) PostComments(p store.Post) []store.Comment {
	retval := []store.Comment{}
	r.store.EachComment(func(c store.Comment) bool {
		if c.Post == p.Ref() {
			retval = append(retval, c)
		}
		return true
	})
	return retval
}

// UserPosts returns the posts authored by a user
func (r *Resolver) UserPosts(u store.User) []store.Post {
	retval := []store.Post{}
	r.store.EachPost(func(p store.Post) bool {
		if p.Author == u.Ref() {
			retval = append(retval, p)
		}
		return true
	})
	return retval
}

// UserComments returns the comments written by a user
func (r *Resolver) UserComments(u store.User) []store.Comment {
	retval := []store.Comment{}
	r.store.EachComment(func(c store.Comment) bool {
		if c.Author == u.Ref() {
			retval = append(retval, c)
		}
		return true
	})
	return retval
}

func (r *Resolver) miss(relation field.Relation, id store.ID) {
	if r.observer != nil {
		r.observer.ReferenceMiss(relation, id)
	}
}
