package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/patrickhuang888/orcarrow/orc/api"
)

func schemaCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "schema <type-string>",
		Short: "Print column ids and the arrow schema of an ORC type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			td, err := api.ParseSchema(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprint(out, td.Tree())
			schema, err := td.ArrowSchema()
			if err != nil {
				// a non struct root still has a tree
				fmt.Fprintf(out, "arrow type: %s\n", td.ArrowType())
				return nil
			}
			fmt.Fprintln(out, schema)
			return nil
		},
	}
}
