package main

import (
	"bytes"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/formatter"

	"github.com/andrewwphillips/blogql"
)

func (a *app) newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the GraphQL schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			g := blogql.New(a.store)
			s, err := formatSchema(g.GetSchema())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), s)
			return nil
		},
	}
}

// formatSchema parses the SDL and prints it in the standard layout
func formatSchema(sdl string) (string, error) {
	schema, pgqlError := gqlparser.LoadSchema(&ast.Source{Name: "schema", Input: sdl})
	if pgqlError != nil {
		return "", fmt.Errorf("loading schema: %w", pgqlError)
	}
	var buf bytes.Buffer
	f := formatter.NewFormatter(&buf)
	f.FormatSchema(schema)
	return buf.String(), nil
}
