package resolver_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/andrewwphillips/blogql/internal/store"
)

func strPtr(s string) *string { return &s }

func userNames(users []store.User) []string {
	retval := make([]string, 0, len(users))
	for _, u := range users {
		retval = append(retval, u.Name)
	}
	return retval
}

func postIDs(posts []store.Post) []string {
	retval := make([]string, 0, len(posts))
	for _, p := range posts {
		retval = append(retval, string(p.ID))
	}
	return retval
}

func TestUsers(t *testing.T) {
	r := newResolver(t, nil)

	tests := map[string]struct {
		query    *string
		expected []string
	}{
		"All":       {nil, []string{"Anh", "Kate", "Kim"}},
		"Empty":     {strPtr(""), []string{"Anh", "Kate", "Kim"}},
		"Prefix":    {strPtr("k"), []string{"Kate", "Kim"}},
		"UpperCase": {strPtr("KI"), []string{"Kim"}},
		"Middle":    {strPtr("at"), []string{"Kate"}},
		"Whole":     {strPtr("anh"), []string{"Anh"}},
		"None":      {strPtr("zz"), []string{}},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.expected, userNames(r.Users(tt.query)))
		})
	}
}

// TestUsersSubstrings checks every substring of every name finds exactly the users containing it
func TestUsersSubstrings(t *testing.T) {
	r := newResolver(t, nil)
	all := r.Users(nil)
	for _, u := range all {
		for i := 0; i < len(u.Name); i++ {
			for j := i + 1; j <= len(u.Name); j++ {
				s := u.Name[i:j]
				var expected []string
				for _, other := range all {
					if strings.Contains(strings.ToLower(other.Name), strings.ToLower(s)) {
						expected = append(expected, other.Name)
					}
				}
				assert.Equal(t, expected, userNames(r.Users(&s)), "users(%q)", s)
			}
		}
	}
}

func TestPosts(t *testing.T) {
	r := newResolver(t, nil)

	tests := map[string]struct {
		query    *string
		expected []string
	}{
		"All":       {nil, []string{"01", "02", "03"}},
		"Empty":     {strPtr(""), []string{"01", "02", "03"}},
		"Title":     {strPtr("reboot"), []string{"01"}},
		"Body":      {strPtr("after"), []string{"03"}},
		"Both":      {strPtr("server"), []string{"01", "02", "03"}},
		"TitleBody": {strPtr("START"), []string{"03"}},
		"None":      {strPtr("xyzzy"), []string{}},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.expected, postIDs(r.Posts(tt.query)))
		})
	}
}

func TestComments(t *testing.T) {
	r := newResolver(t, nil)
	comments := r.Comments()
	assert.Len(t, comments, 4)
	assert.Equal(t, "Worked like a charm", comments[0].Text)
}

func TestStubs(t *testing.T) {
	r := newResolver(t, nil)

	me := r.Me()
	assert.Equal(t, store.User{ID: "155", Name: "Mike", Email: "mike@example.com"}, me)

	p := r.Post()
	assert.Equal(t, store.ID("0136"), p.ID)
	assert.Equal(t, "Reboot Server", p.Title)
	assert.True(t, p.Published)
	assert.Equal(t, store.UserRef(""), p.Author)
}

func TestGreeting(t *testing.T) {
	r := newResolver(t, nil)
	assert.Equal(t, "Hello!", r.Greeting(nil, nil))
	assert.Equal(t, "Hello!", r.Greeting(strPtr("Ana"), nil))
	assert.Equal(t, "Hello!", r.Greeting(nil, strPtr("Engineer")))
	assert.Equal(t, "Hello!", r.Greeting(strPtr("Ana"), strPtr("")))
	assert.Equal(t, "Hello, Ana! You are a great Engineer", r.Greeting(strPtr("Ana"), strPtr("Engineer")))
}

func TestAddAndGrades(t *testing.T) {
	r := newResolver(t, nil)
	assert.Equal(t, 0.0, r.Add(nil))
	assert.Equal(t, 0.0, r.Add([]float64{}))
	assert.Equal(t, 4.0, r.Add([]float64{1.5, 2.5}))
	assert.Equal(t, -1.0, r.Add([]float64{1, -2}))
	assert.Equal(t, []int{99, 80, 93}, r.Grades())
}
