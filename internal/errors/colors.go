package errors

import (
	"os"
	"runtime"
)

// Color 终端颜色
type Color int

const (
	ColorReset Color = iota
	ColorRed
	ColorYellow
	ColorBlue
	ColorCyan
	ColorBold
)

var ansiCodes = map[Color]string{
	ColorReset:  "\033[0m",
	ColorRed:    "\033[31m",
	ColorYellow: "\033[33m",
	ColorBlue:   "\033[34m",
	ColorCyan:   "\033[36m",
	ColorBold:   "\033[1m",
}

var colorsEnabled = detectColorSupport()

// detectColorSupport 判断当前终端是否适合输出 ANSI 颜色
func detectColorSupport() bool {
	if runtime.GOOS == "windows" {
		// 新版 Windows 终端默认支持 ANSI
		if os.Getenv("WT_SESSION") != "" || os.Getenv("ANSICON") != "" {
			return true
		}
		term := os.Getenv("TERM")
		return term != "" && term != "dumb"
	}

	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}

	// 只在 stdout 是终端时着色
	if info, err := os.Stdout.Stat(); err == nil {
		return (info.Mode() & os.ModeCharDevice) != 0
	}
	return false
}

// SetColorsEnabled 强制开关颜色（测试和 -json 模式使用）
func SetColorsEnabled(enabled bool) {
	colorsEnabled = enabled
}

// ColorsEnabled 返回颜色是否启用
func ColorsEnabled() bool {
	return colorsEnabled
}

// Colorize 给字符串着色；颜色被禁用时原样返回
func Colorize(s string, color Color) string {
	if !colorsEnabled || color == ColorReset {
		return s
	}
	return ansiCodes[color] + s + ansiCodes[ColorReset]
}
