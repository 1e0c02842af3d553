package schema

// types.go declares the types (and their fields) of the blog schema

import (
	"github.com/andrewwphillips/blogql/internal/field"
)

// Definitions returns the declarations of the Query, User, Post and Comment types.
// (A new slice is returned each time so the caller may modify it, eg in tests.)
func Definitions() []TypeDef {
	return []TypeDef{
		{
			Kind: Query,
			Fields: []field.Info{
				{Name: "greeting", Type: "String!", Class: field.Query,
					Args: []field.Arg{{Name: "name", Type: "String"}, {Name: "position", Type: "String"}}},
				{Name: "add", Type: "Float!", Class: field.Query,
					Args: []field.Arg{{Name: "numbers", Type: "[Float!]!"}}},
				{Name: "grades", Type: "[Int!]!", Class: field.Query},
				{Name: "users", Type: "[User!]!", Class: field.Query, Description: "Users with names containing the query (case-insensitive)",
					Args: []field.Arg{{Name: "query", Type: "String"}}},
				{Name: "posts", Type: "[Post!]!", Class: field.Query, Description: "Posts with title or body containing the query (case-insensitive)",
					Args: []field.Arg{{Name: "query", Type: "String"}}},
				{Name: "comments", Type: "[Comment!]!", Class: field.Query},
				{Name: "me", Type: "User!", Class: field.Query},
				{Name: "post", Type: "Post!", Class: field.Query},
			},
		},
		{
			Kind: User,
			Fields: []field.Info{
				{Name: "id", Type: "ID!", Class: field.Stored},
				{Name: "name", Type: "String!", Class: field.Stored},
				{Name: "email", Type: "String!", Class: field.Stored},
				{Name: "age", Type: "Int", Class: field.Stored},
				{Name: "posts", Type: "[Post!]!", Class: field.Relational, Relation: field.UserPosts},
				{Name: "comments", Type: "[Comment!]!", Class: field.Relational, Relation: field.UserComments},
			},
		},
		{
			Kind: Post,
			Fields: []field.Info{
				{Name: "id", Type: "ID!", Class: field.Stored},
				{Name: "title", Type: "String!", Class: field.Stored},
				{Name: "body", Type: "String!", Class: field.Stored},
				{Name: "published", Type: "Boolean!", Class: field.Stored},
				{Name: "author", Type: "User", Class: field.Relational, Relation: field.PostAuthor},
				{Name: "comments", Type: "[Comment!]!", Class: field.Relational, Relation: field.PostComments},
			},
		},
		{
			Kind: Comment,
			Fields: []field.Info{
				{Name: "id", Type: "ID!", Class: field.Stored},
				{Name: "text", Type: "String!", Class: field.Stored},
				{Name: "author", Type: "User", Class: field.Relational, Relation: field.CommentAuthor},
				{Name: "post", Type: "Post", Class: field.Relational, Relation: field.CommentPost},
			},
		},
	}
}

// Default returns the registry for the blog schema
func Default() *Registry {
	return MustNew(Definitions()...)
}
