package store

// seed.go has the demo data and loading of data from a YAML file

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// file is the layout of a YAML data file
type file struct {
	Users    []User    `yaml:"users"`
	Posts    []Post    `yaml:"posts"`
	Comments []Comment `yaml:"comments"`
}

func intPtr(i int) *int { return &i }

// Seed returns a new store containing the demo data
func Seed() *Store {
	return MustNew(
		[]User{
			{ID: "1", Name: "Anh", Email: "anh@exmaple.com", Age: intPtr(24)},
			{ID: "2", Name: "Kate", Email: "kate@example.com"},
			{ID: "3", Name: "Kim", Email: "kim@example"},
		},
		[]Post{
			{ID: "01", Title: "Reboot Server", Body: "Before rebooting the server..", Published: true, Author: "1"},
			{ID: "02", Title: "Shutting Down Server", Body: "Before shutting down server..", Published: true, Author: "1"},
			{ID: "03", Title: "Starting Server", Body: "After starting up the server..", Published: false, Author: "3"},
		},
		[]Comment{
			{ID: "11", Text: "Worked like a charm", Author: "1", Post: "01"},
			{ID: "12", Text: "Which server should I reboot first?", Author: "3", Post: "01"},
			{ID: "13", Text: "Don't forget to drain connections", Author: "2", Post: "02"},
			{ID: "14", Text: "Is this still relevant?", Author: "2", Post: "03"},
		},
	)
}

// Parse builds a store from YAML text with top-level "users", "posts" and "comments" lists.
// Unknown keys are rejected so that a misspelt reference is not silently dropped.
func Parse(data []byte) (*Store, error) {
	var f file
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decoding data: %w", err)
	}
	return New(f.Users, f.Posts, f.Comments)
}

// Load reads a YAML data file (see Parse)
func Load(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w in data file %q", err, path)
	}
	return s, nil
}
