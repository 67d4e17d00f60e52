package log

import "fmt"

// Color 终端颜色
type Color uint8

func (c Color) Color(s string) string {
	return fmt.Sprintf("\x1b[%dm%s\x1b[0m", c, s)
}

const (
	RED     = Color(iota + 91)
	GREEN   // 92
	YELLOW  // 93
	BLUE    // 94
	MAGENTA // 95
)

func red(s string) string {
	return RED.Color(s)
}
