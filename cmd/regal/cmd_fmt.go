package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/tebeka/atexit"

	"github.com/tangzhangming/regal/internal/errors"
	"github.com/tangzhangming/regal/internal/formatter"
	"github.com/tangzhangming/regal/internal/i18n"
	"github.com/tangzhangming/regal/internal/parser"
)

// cmdFmt 规范化排版
//
// 默认打印到标准输出；-write 写回源文件；-out 写到指定文件。
func cmdFmt(args []string) {
	fs := flag.NewFlagSet("fmt", flag.ExitOnError)
	write := fs.Bool("write", false, i18n.T(i18n.MsgOptWrite))
	out := fs.String("out", "", i18n.T(i18n.MsgOptOut))

	fs.Usage = func() {
		fmt.Println(i18n.T(i18n.MsgHelpUsage) + " regal fmt [options] <file>")
		fmt.Println()
		fmt.Println(i18n.T(i18n.MsgHelpOptions))
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		atexit.Exit(2)
	}

	if fs.NArg() < 1 {
		fs.Usage()
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, i18n.T(i18n.ErrNoInput))
		atexit.Exit(2)
	}

	filename := fs.Arg(0)
	source, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintln(os.Stderr, i18n.T(i18n.ErrReadFile, filename, err))
		atexit.Exit(2)
	}

	formatted, err := formatter.FormatWithDefaultOptions(string(source), filename)
	if err != nil {
		// 格式化失败意味着解析失败，按诊断渲染
		if pe, ok := err.(parser.Error); ok {
			reporter := errors.NewReporter()
			reporter.SetSource(filename, string(source))
			reporter.Report(pe.Diagnostic())
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		atexit.Exit(2)
	}

	switch {
	case *write:
		if err := os.WriteFile(filename, []byte(formatted), 0644); err != nil {
			fmt.Fprintln(os.Stderr, i18n.T(i18n.ErrWriteFile, filename, err))
			atexit.Exit(2)
		}
	case *out != "":
		if err := os.WriteFile(*out, []byte(formatted), 0644); err != nil {
			fmt.Fprintln(os.Stderr, i18n.T(i18n.ErrWriteFile, *out, err))
			atexit.Exit(2)
		}
	default:
		fmt.Print(formatted)
	}
}
