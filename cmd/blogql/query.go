package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
	"github.com/tidwall/pretty"
	"github.com/vektah/gqlparser/v2/gqlerror"

	"github.com/andrewwphillips/blogql"
	"github.com/andrewwphillips/blogql/internal/handler"
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

func (a *app) newQueryCmd() *cobra.Command {
	var (
		queryJSON      bool
		queryVariables string
		queryOperation string
	)
	cmd := &cobra.Command{
		Use:     "query <query>",
		Aliases: []string{"graphql"},
		Short:   "Execute a GraphQL query",
		Long: `Execute a GraphQL query against the blog data without starting a server.

Examples:
  # List the names of all users
  blogql query '{ users { name } }'

  # Posts about servers with their authors
  blogql query '{ posts(query: "server") { title author { name } } }'

  # Use variables
  blogql query -v '{"q": "kim"}' 'query ($q: String) { users(query: $q) { id name } }'

  # Read from stdin
  cat query.graphql | blogql query`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var query string
			if len(args) == 1 {
				query = args[0]
			} else {
				stdinQuery, err := readFromStdin(cmd.InOrStdin())
				if err != nil {
					return err
				}
				if stdinQuery == "" {
					return fmt.Errorf("no query provided (pass as argument or pipe to stdin)")
				}
				query = stdinQuery
			}

			request := blogql.Request{Query: query, OperationName: queryOperation}
			if queryVariables != "" {
				decoder := jsonAPI.NewDecoder(strings.NewReader(queryVariables))
				decoder.UseNumber()
				if err := decoder.Decode(&request.Variables); err != nil {
					return fmt.Errorf("invalid variables JSON: %w", err)
				}
				handler.FixNumberVariables(request.Variables)
			}

			g := blogql.New(a.store, a.options(nil)...)
			result, err := g.Execute(cmd.Context(), request)
			if err != nil {
				return err
			}
			if len(result.Errors) > 0 {
				return formatGraphQLErrors(result.Errors)
			}

			data, err := jsonAPI.Marshal(result.Data)
			if err != nil {
				return fmt.Errorf("encoding result: %w", err)
			}
			if queryJSON {
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), string(pretty.Color(pretty.Pretty(data), nil)))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&queryJSON, "json", false, "Output raw JSON (no formatting)")
	cmd.Flags().StringVarP(&queryVariables, "variables", "v", "", "Query variables as JSON string")
	cmd.Flags().StringVarP(&queryOperation, "operation", "o", "", "Operation name (for multi-operation documents)")
	return cmd
}

// readFromStdin reads the query from stdin if data is available (ie it is not a terminal)
func readFromStdin(in io.Reader) (string, error) {
	if f, ok := in.(*os.File); ok {
		stat, err := f.Stat()
		if err != nil {
			return "", fmt.Errorf("checking stdin: %w", err)
		}
		if (stat.Mode() & os.ModeCharDevice) != 0 {
			return "", nil
		}
	}
	data, err := io.ReadAll(in)
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// formatGraphQLErrors formats GraphQL errors into a single error.
func formatGraphQLErrors(errs gqlerror.List) error {
	if len(errs) == 1 {
		return fmt.Errorf("graphql: %s", errs[0].Message)
	}
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, e.Message)
	}
	return fmt.Errorf("graphql errors:\n  %s", strings.Join(msgs, "\n  "))
}
