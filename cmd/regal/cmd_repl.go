package main

import (
	"os"

	"github.com/tangzhangming/regal/internal/repl"
)

// cmdRepl 启动交互式基本块编辑器
func cmdRepl(args []string) {
	_ = args
	r := repl.New(os.Stdin, os.Stdout)
	r.Run()
}
