// Command blogql runs a GraphQL server for users, posts and comments, or runs a
// single query (or prints the schema) from the command line.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
