package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tebeka/atexit"

	"github.com/tangzhangming/regal/internal/i18n"
	"github.com/tangzhangming/regal/internal/project"
)

// cmdInit 在当前目录生成默认配置文件
func cmdInit(args []string) {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	k := fs.Int("k", 0, i18n.T(i18n.MsgOptRegisters))

	fs.Usage = func() {
		fmt.Println(i18n.T(i18n.MsgHelpUsage) + " regal init [options]")
		fmt.Println()
		fmt.Println(i18n.T(i18n.MsgHelpOptions))
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		atexit.Exit(2)
	}

	dir, err := os.Getwd()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		atexit.Exit(2)
	}

	configPath := filepath.Join(dir, project.ConfigFileName)
	if _, err := os.Stat(configPath); err == nil {
		fmt.Fprintln(os.Stderr, i18n.T(i18n.ErrConfigExists, project.ConfigFileName))
		atexit.Exit(2)
	}

	cfg := project.Default()
	if *k > 0 {
		cfg.Registers.Count = *k
	}

	if err := cfg.Save(configPath); err != nil {
		fmt.Fprintln(os.Stderr, i18n.T(i18n.ErrWriteFile, configPath, err))
		atexit.Exit(2)
	}
	fmt.Println(i18n.T(i18n.MsgInitCreated, project.ConfigFileName))
}
