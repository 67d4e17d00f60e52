package main

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/azd1997/emsg/account"
	"github.com/azd1997/emsg/common/crypto"
)

func init() {
	rootCmd.AddCommand(verifyCmd)
	verifyCmd.Flags().StringP("pubkey", "k", "", "signer public key in hex. default the account's own key")
}

var verifyCmd = &cobra.Command{
	Use:   "verify <hex>",
	Short: "check a binary message and verify its signature against a public key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pubHex, _ := cmd.Flags().GetString("pubkey")
		pub, err := verifyKey(pubHex, conf.AC.Path)
		if err != nil {
			return err
		}
		return verify(cmd.OutOrStdout(), args[0], pub)
	},
}

// verifyKey 没给公钥时用已有账户的公钥，不会新建账户
func verifyKey(pubHex, accountFile string) (crypto.PublicKey, error) {
	if pubHex != "" {
		return crypto.PublicKeyFromHex(pubHex)
	}
	acc, err := account.LoadAccount(accountFile)
	if err != nil {
		return crypto.PublicKey{}, err
	}
	return acc.PublicKey(), nil
}

func verify(w io.Writer, hexStr string, pub crypto.PublicKey) error {
	m, err := parseHexMessage(hexStr)
	if err != nil {
		return err
	}
	if err := m.VerifySignature(pub); err != nil {
		return errors.Wrapf(err, "%s signature", m.Schema().Name())
	}
	_, err = fmt.Fprintf(w, "%s signature valid, signer %s\n", m.Schema().Name(), pub.Address())
	return err
}
