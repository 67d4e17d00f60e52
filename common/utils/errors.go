package utils

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/azd1997/emsg/common/log"
)

/*********************************************************************************************************************
                                                    error相关
*********************************************************************************************************************/

var logger = log.NewLogger("utils")

// LogErr 记录错误
func LogErr(err error) {
	if err != nil {
		pc, filename, lineno, ok := runtime.Caller(1)
		if !ok {
			return
		}
		filename = filepath.Base(filename)
		callFunc := runtime.FuncForPC(pc).Name()
		callFunc = filepath.Base(callFunc)
		logger.Error("(%s:%s:%d) %s", filename, callFunc, lineno, err)
	}
}

// LogErrAndExit 记录错误并退出进程
func LogErrAndExit(err error) {
	if err == nil {
		return
	}
	LogErr(err)
	os.Exit(1)
}
