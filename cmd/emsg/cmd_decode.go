package main

import (
	"bytes"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/azd1997/emsg/common/encoding"
	"github.com/azd1997/emsg/protocol/message"
)

func init() {
	rootCmd.AddCommand(decodeCmd)
	decodeCmd.Flags().BoolP("debug", "d", false, "print the debug form instead of json")
	decodeCmd.Flags().StringP("file", "f", "", "binary file of concatenated messages, instead of a hex argument")
}

// 从文件读消息时单条消息体的上限
const maxStreamBodyLen = 1 << 20

var decodeCmd = &cobra.Command{
	Use:   "decode [hex]",
	Short: "check a binary message and print it as json",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		debug, _ := cmd.Flags().GetBool("debug")
		file, _ := cmd.Flags().GetString("file")
		if file != "" {
			data, err := readInput(file)
			if err != nil {
				return err
			}
			return decodeStream(cmd.OutOrStdout(), bytes.NewReader(data), debug)
		}
		if len(args) != 1 {
			return errors.New("need a hex message or --file")
		}
		return decode(cmd.OutOrStdout(), args[0], debug)
	},
}

func parseHexMessage(hexStr string) (message.Message, error) {
	data, err := encoding.FromHex(strings.TrimSpace(hexStr))
	if err != nil {
		return message.Message{}, errors.Wrap(err, "invalid hex")
	}
	m, err := registry.Parse(data)
	if err != nil {
		return message.Message{}, err
	}
	logger.Debug("decoded %s, hash %s", m.Schema().Name(), m.Hash())
	return m, nil
}

func decode(w io.Writer, hexStr string, debug bool) error {
	m, err := parseHexMessage(hexStr)
	if err != nil {
		return err
	}
	return writeMessage(w, m, debug)
}

// decodeStream 逐条解码，遇到第一条坏消息就停止
func decodeStream(w io.Writer, r io.Reader, debug bool) error {
	for i := 0; ; i++ {
		raw, err := message.ReadRawMessage(r, maxStreamBodyLen)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return errors.Wrapf(err, "message %d", i)
		}
		m, err := registry.FromRaw(raw)
		if err != nil {
			return errors.Wrapf(err, "message %d", i)
		}
		if err := writeMessage(w, m, debug); err != nil {
			return err
		}
	}
}

func writeMessage(w io.Writer, m message.Message, debug bool) error {
	if debug {
		return writeLine(w, m.String())
	}
	data, err := m.MarshalJSON()
	if err != nil {
		return err
	}
	s, err := encoding.JsonIndent(data)
	if err != nil {
		return err
	}
	return writeLine(w, s)
}
