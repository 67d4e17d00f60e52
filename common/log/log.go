package log

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
)

/*
   A wrapper of standard library logger, support log level and tag
*/

const (
	LogErrorLevel int = 0
	LogWarnLevel  int = 1
	LogInfoLevel  int = 2
	LogDebugLevel int = 3

	defaultCallDepth = 3
)

var levelNames = [...]string{
	LogErrorLevel: "[Error]",
	LogWarnLevel:  "[Warn]",
	LogInfoLevel:  "[Info]",
	LogDebugLevel: "[Debug]",
}

var levelColors = [...]Color{
	LogErrorLevel: MAGENTA,
	LogWarnLevel:  YELLOW,
	LogInfoLevel:  GREEN,
	LogDebugLevel: BLUE,
}

var (
	mu        sync.RWMutex
	stdout    = log.New(os.Stdout, "", log.LstdFlags|log.Lshortfile)
	stdoutLog = NewLogger("")
	logLevel  = LogInfoLevel
	logColor  = false
)

func SetLogLevel(level int) {
	if level < LogErrorLevel {
		level = LogErrorLevel
	}
	if level > LogDebugLevel {
		level = LogDebugLevel
	}
	mu.Lock()
	logLevel = level
	mu.Unlock()
}

func GetLogLevel() int {
	mu.RLock()
	defer mu.RUnlock()
	return logLevel
}

// SetLogColor 设置是否彩色标签（只在linux shell下生效）
func SetLogColor(color bool) {
	mu.Lock()
	logColor = color
	mu.Unlock()
}

// SetOutput 替换所有Logger共用的输出
func SetOutput(w io.Writer) {
	stdout.SetOutput(w)
}

func GetStdoutLog() *Logger {
	return stdoutLog
}

type Logger struct {
	*log.Logger
	prefix string
}

// NewLogger tag会以 [tag] 的形式出现在每行日志最前面
func NewLogger(tag string) *Logger {
	prefix := tag
	if len(tag) != 0 {
		prefix = "[" + tag + "]"
	}
	return &Logger{
		Logger: stdout,
		prefix: prefix,
	}
}

func (l *Logger) enabled(level int) bool {
	return level <= GetLogLevel()
}

func (l *Logger) levelStr(level int) string {
	mu.RLock()
	color := logColor
	mu.RUnlock()
	name := levelNames[level]
	if color {
		name = levelColors[level].Color(name)
	}
	return l.prefix + name + " "
}

func (l *Logger) output(level int, s string) {
	if !l.enabled(level) {
		return
	}
	l.Logger.Output(defaultCallDepth, l.levelStr(level)+s)
}

func (l *Logger) Fatal(format string, v ...interface{}) {
	l.Logger.Output(defaultCallDepth-1, l.prefix+red("[Fatal]")+" "+fmt.Sprintf(format, v...))
	os.Exit(1)
}

func (l *Logger) Error(format string, v ...interface{}) {
	l.output(LogErrorLevel, fmt.Sprintf(format, v...))
}

func (l *Logger) Errorln(v ...interface{}) {
	l.output(LogErrorLevel, fmt.Sprintln(v...))
}

func (l *Logger) Warn(format string, v ...interface{}) {
	l.output(LogWarnLevel, fmt.Sprintf(format, v...))
}

func (l *Logger) Warnln(v ...interface{}) {
	l.output(LogWarnLevel, fmt.Sprintln(v...))
}

func (l *Logger) Info(format string, v ...interface{}) {
	l.output(LogInfoLevel, fmt.Sprintf(format, v...))
}

func (l *Logger) Infoln(v ...interface{}) {
	l.output(LogInfoLevel, fmt.Sprintln(v...))
}

func (l *Logger) Debug(format string, v ...interface{}) {
	l.output(LogDebugLevel, fmt.Sprintf(format, v...))
}

func (l *Logger) Debugln(v ...interface{}) {
	l.output(LogDebugLevel, fmt.Sprintln(v...))
}
