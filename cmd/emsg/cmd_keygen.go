package main

import (
	"io"

	"github.com/azd1997/ego/utils"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/azd1997/emsg/account"
)

func init() {
	rootCmd.AddCommand(keygenCmd)
	keygenCmd.Flags().StringP("output", "o", "", "account file. default the account path in config")
}

var keygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "create a new signing account",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("output")
		if out == "" {
			out = conf.AC.Path
		}
		return keygen(cmd.OutOrStdout(), out)
	},
}

// keygen 不会覆盖已有的账户文件
func keygen(w io.Writer, file string) error {
	exists, err := utils.FileExists(file)
	if err != nil {
		return err
	}
	if exists {
		return errors.Errorf("account file %s already exists", file)
	}
	acc, err := account.LoadOrCreateAccount(file)
	if err != nil {
		return err
	}
	return writeLine(w, acc.String())
}
