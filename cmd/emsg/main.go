package main

import (
	"github.com/azd1997/emsg/common/utils"
)

func main() {
	utils.LogErrAndExit(rootCmd.Execute())
}
