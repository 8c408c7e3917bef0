package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/tangzhangming/regal/internal/i18n"
	"github.com/tangzhangming/regal/internal/lsp"
	"github.com/tangzhangming/regal/internal/project"
)

const Version = "0.1.0"

func main() {
	showVersion := flag.Bool("version", false, "print version information")
	showHelp := flag.Bool("help", false, "print this help")
	logFile := flag.String("log", "", "log file path (default: no logging)")
	registers := flag.Int("k", 0, "number of machine registers for hover info")
	configPath := flag.String("config", "", "path to regal.toml")
	lang := flag.String("lang", "", "diagnostic language (en or zh)")

	flag.Parse()

	if *showVersion {
		fmt.Printf("regal language server v%s\n", Version)
		os.Exit(0)
	}

	if *showHelp {
		printUsage()
		os.Exit(0)
	}

	if *lang == "" {
		*lang = os.Getenv("REGAL_LANG")
	}
	i18n.SetLanguageFromString(*lang)

	// 配置解析顺序：旗标 > regal.toml > 默认值
	cfg := loadConfig(*configPath)
	logPath := *logFile
	if logPath == "" {
		logPath = cfg.LSP.Log
	}
	k := *registers
	if k <= 0 {
		k, _ = cfg.RegisterCount("")
	}

	logger, err := lsp.NewLogger(logPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot open log file: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	server := lsp.NewServer(logger, k)
	if err := server.Run(context.Background(), lsp.Stdio()); err != nil {
		fmt.Fprintf(os.Stderr, "language server error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig 从指定路径或当前目录向上查找 regal.toml
func loadConfig(path string) *project.Config {
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return project.Default()
		}
		path = project.Find(wd)
		if path == "" {
			return project.Default()
		}
	}

	cfg, err := project.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot load config: %v\n", err)
		return project.Default()
	}
	return cfg
}

func printUsage() {
	fmt.Println("regals - the regal language server")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  regals [options]")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --version        print version information")
	fmt.Println("  --help           print this help")
	fmt.Println("  --log <file>     log file path")
	fmt.Println("  --k <n>          number of machine registers for hover info")
	fmt.Println("  --config <path>  path to regal.toml")
	fmt.Println("  --lang <en|zh>   diagnostic language")
	fmt.Println()
	fmt.Println("The server speaks the language server protocol over stdio.")
	fmt.Println("Capabilities: diagnostics, hover, document symbols, formatting.")
}
