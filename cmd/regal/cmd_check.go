package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/tebeka/atexit"

	"github.com/tangzhangming/regal/internal/errors"
	"github.com/tangzhangming/regal/internal/i18n"
	"github.com/tangzhangming/regal/internal/parser"
)

// cmdCheck 语法检查
//
// 解析基本块并渲染全部诊断。有错误时退出码为 1。
func cmdCheck(args []string) {
	fs := flag.NewFlagSet("check", flag.ExitOnError)

	fs.Usage = func() {
		fmt.Println(i18n.T(i18n.MsgHelpUsage) + " regal check <file>")
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

	p := parser.New(string(source), filename)
	block := p.Parse()

	if p.HasErrors() {
		reporter := errors.NewReporter()
		reporter.SetSource(filename, string(source))
		for _, e := range p.Errors() {
			reporter.Report(e.Diagnostic())
		}
		reporter.Summary()
		atexit.Exit(1)
	}

	fmt.Println(i18n.T(i18n.MsgSyntaxOK, filename, block.Len(), len(block.LiveOut())))
}
