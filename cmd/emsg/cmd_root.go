package main

import (
	"io"
	"io/ioutil"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/azd1997/emsg/cmd/emsg/config"
	"github.com/azd1997/emsg/common/log"
	"github.com/azd1997/emsg/protocol/core"
)

var (
	cfgFile string
	conf    = config.Default()
	logger  = log.NewLogger("emsg")

	// 工具认识的全部消息
	registry = core.Registry()
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "./emsg-config.json", "config file path")
}

var rootCmd = &cobra.Command{
	Use:   "emsg",
	Short: "emsg inspects, encodes and signs consensus messages",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.ParseConfig(cfgFile)
		if err != nil {
			return err
		}
		conf = c
		log.SetLogLevel(conf.LC.LogLevel)
		log.SetLogColor(conf.LC.LogColor)
		return nil
	},
	SilenceUsage:  true,
	SilenceErrors: true,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Usage()
	},
}

// readInput 读文件，"-" 表示标准输入
func readInput(arg string) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	if arg == "-" {
		data, err = ioutil.ReadAll(os.Stdin)
	} else {
		data, err = ioutil.ReadFile(arg)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", arg)
	}
	return data, nil
}

func writeLine(w io.Writer, s string) error {
	_, err := io.WriteString(w, s+"\n")
	return err
}
