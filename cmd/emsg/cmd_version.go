package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/azd1997/emsg/common/params"
)

func init() {
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Version of emsg",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "emsg %s\n", params.CurrentCodeVersion)
	},
}
