package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/azd1997/emsg/protocol/message"
)

func init() {
	rootCmd.AddCommand(schemasCmd)
}

var schemasCmd = &cobra.Command{
	Use:   "schemas",
	Short: "list known message schemas and their body layouts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return writeSchemas(cmd.OutOrStdout(), registry)
	},
}

func writeSchemas(w io.Writer, r *message.Registry) error {
	for _, s := range r.Schemas() {
		if _, err := fmt.Fprintln(w, s); err != nil {
			return err
		}
		for _, f := range s.Fields() {
			from, to := f.Range()
			if _, err := fmt.Fprintf(w, "    %-14s [%d..%d)\n", f.Name(), from, to); err != nil {
				return err
			}
		}
	}
	return nil
}
