package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/azd1997/emsg/common/encoding"
)

func init() {
	rootCmd.AddCommand(encodeCmd)
}

var encodeCmd = &cobra.Command{
	Use:   "encode <json-file>",
	Short: "rebuild a message from json (signature kept as is) and print its hex",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := readInput(args[0])
		if err != nil {
			return err
		}
		return encode(cmd.OutOrStdout(), data)
	},
}

func encode(w io.Writer, data []byte) error {
	m, err := registry.DecodeJSON(data)
	if err != nil {
		return err
	}
	return writeLine(w, encoding.ToHex(m.Bytes()))
}
