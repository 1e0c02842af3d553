package schema_test

import (
	"errors"
	"strconv"
	"strings"
	"testing"
	"unicode"

	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"

	"github.com/andrewwphillips/blogql/internal/field"
	"github.com/andrewwphillips/blogql/internal/schema"
)

const blogSchema = `schema { query: Query }
type Comment { id: ID! text: String! author: User post: Post }
type Post { id: ID! title: String! body: String! published: Boolean! author: User comments: [Comment!]! }
type Query {
  greeting(name: String, position: String): String!
  add(numbers: [Float!]!): Float!
  grades: [Int!]!
  "Users with names containing the query (case-insensitive)"
  users(query: String): [User!]!
  "Posts with title or body containing the query (case-insensitive)"
  posts(query: String): [Post!]!
  comments: [Comment!]!
  me: User!
  post: Post!
}
type User { id: ID! name: String! email: String! age: Int posts: [Post!]! comments: [Comment!]! }
`

// TestBuildSchema checks the generated SDL (ignoring whitespace differences)
func TestBuildSchema(t *testing.T) {
	var sdlData = map[string]struct {
		defs     []schema.TypeDef
		expected string
	}{
		"Blog": {schema.Definitions(), blogSchema},
		"QueryOnly": {
			[]schema.TypeDef{{Kind: schema.Query, Fields: []field.Info{{Name: "grades", Type: "[Int!]!", Class: field.Query}}}},
			"schema {query: Query} type Query { grades: [Int!]! }",
		},
		"Described": {
			[]schema.TypeDef{{Kind: schema.Query, Description: "root", Fields: []field.Info{
				{Name: "add", Type: "Float!", Class: field.Query, Args: []field.Arg{{Name: "numbers", Type: "[Float!]!", Description: "to sum"}}},
			}}},
			`schema {query: Query} "root" type Query { add("to sum" numbers: [Float!]!): Float! }`,
		},
	}

	for name, data := range sdlData {
		r, err := schema.New(data.defs...)
		if err != nil {
			Assertf(t, err == nil, "TestBuildSchema: %12s: expected no error got %v", name, err)
			continue
		}
		exp := RemoveWhiteSpace(t, data.expected)
		out := RemoveWhiteSpace(t, r.SDL())
		same := exp == out
		where := ""
		if !same {
			for i := range exp {
				if i >= len(out) || exp[i] != out[i] {
					where = "\nwhere first difference is at character " + strconv.Itoa(i) + " of " + strconv.Itoa(len(exp))
					break
				}
			}
		}
		Assertf(t, same, "TestBuildSchema: %12s: make schema expected %q got %q%s", name, exp, out, where)
	}
}

// TestSchemaLoads checks that gqlparser accepts the generated schema
func TestSchemaLoads(t *testing.T) {
	s, err := gqlparser.LoadSchema(&ast.Source{Name: "schema", Input: schema.Default().SDL()})
	Assertf(t, err == nil, "LoadSchema: expected no error got %v", err)
	if err != nil {
		return
	}
	for _, name := range []string{"Query", "User", "Post", "Comment"} {
		Assertf(t, s.Types[name] != nil, "LoadSchema: expected type %q", name)
	}
	Assertf(t, s.Query != nil && s.Query.Name == "Query", "LoadSchema: expected query type")
}

func TestLookup(t *testing.T) {
	r := schema.Default()

	info, err := r.Lookup(schema.Comment, "author")
	Assertf(t, err == nil, "Lookup Comment.author: expected no error got %v", err)
	Assertf(t, info != nil && info.Class == field.Relational && info.Relation == field.CommentAuthor,
		"Lookup Comment.author: got %+v", info)

	info, err = r.Lookup(schema.Query, "users")
	Assertf(t, err == nil && info.Class == field.Query, "Lookup Query.users: got %+v %v", info, err)

	info, err = r.Lookup(schema.User, "age")
	Assertf(t, err == nil && info.Class == field.Stored && info.Type == "Int", "Lookup User.age: got %+v %v", info, err)

	_, err = r.Lookup(schema.Comment, "title")
	var schemaErr *schema.Error
	Assertf(t, errors.As(err, &schemaErr), "Lookup Comment.title: expected *schema.Error got %v", err)
	Assertf(t, errors.Is(err, schema.ErrUnknownField), "Lookup Comment.title: expected ErrUnknownField got %v", err)
	Assertf(t, err != nil && err.Error() == `Cannot query field "title" on type "Comment"`, "Lookup Comment.title: message %v", err)

	_, err = r.Lookup(schema.Kind(42), "id")
	Assertf(t, errors.Is(err, schema.ErrUnknownType), "Lookup Kind(42): expected ErrUnknownType got %v", err)

	fields := r.Fields(schema.User)
	names := make([]string, 0, len(fields))
	for _, f := range fields {
		names = append(names, f.Name)
	}
	Assertf(t, strings.Join(names, ",") == "id,name,email,age,posts,comments", "Fields(User): got %v", names)
}

func TestKindOf(t *testing.T) {
	for _, name := range []string{"Query", "User", "[Post!]!", "Comment"} {
		k, ok := schema.KindOf(name)
		Assertf(t, ok && k.String() == strings.Trim(name, "[]!"), "KindOf(%q): got %v %v", name, k, ok)
	}
	_, ok := schema.KindOf("String")
	Assertf(t, !ok, "KindOf(String): expected not found")
	Assertf(t, schema.Kind(9).String() == "Kind(9)", "Kind(9).String(): got %q", schema.Kind(9).String())
}

// Assertf writes a tick or cross (depending on the status of a value that is asserted during tests), followed
// by a message (with parameters - printf style).  This allows the result of a test run to be quickly scanned to
// see which tests passed and which failed.  Note that all messages are printed (to stderr) if any test fails or
// if the -v (verbose) test flag is used.  If all tests pass then no messages are printed (unless -v is used).
func Assertf(t *testing.T, succeeded bool, format string, args ...interface{}) {
	const (
		succeed = "\u2713" // tick
		failed  = "X"      //"\u2717" // cross
	)

	t.Helper()
	if !succeeded {
		t.Errorf("%s\t"+format, append([]interface{}{failed}, args...)...)
	} else {
		t.Logf("%s\t"+format, append([]interface{}{succeed}, args...)...)
	}
}

// RemoveWhiteSpace is used to compare GraphQL schemas (text) without having to worry about whitespace issues.
// It returns it's input string but with unnecessary whitespace removed.  If a whitespace sequence separates "words"
// (keywords, identifiers, numbers etc) it is replaced with a single space to avoid words being merged together.
func RemoveWhiteSpace(t *testing.T, s string) string {
	type JustSeen int8
	const (
		Normal JustSeen = iota
		AlNum
		Space
	)

	t.Helper()
	var b strings.Builder
	b.Grow(len(s))
	var last JustSeen
	for _, c := range s {
		if unicode.IsSpace(c) {
			if last == AlNum {
				last = Space
			}
			continue
		}

		if unicode.IsLetter(c) || unicode.IsDigit(c) {
			if last == Space {
				// add one space for whitespace that had alphanumerics before and after
				b.WriteByte(' ')
			}
			last = AlNum
		} else {
			last = Normal
		}
		b.WriteRune(c)
	}
	return b.String()
}
