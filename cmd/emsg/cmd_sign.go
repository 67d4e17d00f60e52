package main

import (
	"encoding/json"
	"io"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/azd1997/emsg/account"
	"github.com/azd1997/emsg/common/encoding"
	"github.com/azd1997/emsg/protocol/message"
)

func init() {
	rootCmd.AddCommand(signCmd)
	signCmd.Flags().BoolP("hex", "x", false, "print hex instead of json")
}

var signCmd = &cobra.Command{
	Use:   "sign <json-file>",
	Short: "build a message from json body and ids, sign it with the account key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := readInput(args[0])
		if err != nil {
			return err
		}
		acc, err := account.LoadOrCreateAccount(conf.AC.Path)
		if err != nil {
			return err
		}
		asHex, _ := cmd.Flags().GetBool("hex")
		return sign(cmd.OutOrStdout(), data, acc, asHex)
	},
}

// unsignedJSON 待签名的消息，不需要 signature 键
type unsignedJSON struct {
	Body      json.RawMessage `json:"body"`
	MessageID *uint16         `json:"message_id"`
	ServiceID *uint16         `json:"service_id"`
}

func sign(w io.Writer, data []byte, acc *account.Account, asHex bool) error {
	var u unsignedJSON
	if err := json.Unmarshal(data, &u); err != nil {
		return errors.Wrap(err, "parse message json")
	}
	if u.Body == nil {
		return &message.MissingKeyError{Key: "body"}
	}
	if u.MessageID == nil {
		return &message.MissingKeyError{Key: "message_id"}
	}
	if u.ServiceID == nil {
		return &message.MissingKeyError{Key: "service_id"}
	}

	s, ok := registry.Lookup(*u.ServiceID, *u.MessageID)
	if !ok {
		return errors.Wrapf(message.ErrUnknownMessage, "service_id %d message_id %d", *u.ServiceID, *u.MessageID)
	}
	b, err := s.BuilderFromJSON(u.Body)
	if err != nil {
		return err
	}
	m, err := acc.SignMessage(b)
	if err != nil {
		return err
	}
	logger.Info("signed %s by %s", s.Name(), acc.Address())

	if asHex {
		return writeLine(w, encoding.ToHex(m.Bytes()))
	}
	out, err := m.MarshalJSON()
	if err != nil {
		return err
	}
	return writeLine(w, string(out))
}
