package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/tebeka/atexit"

	"github.com/tangzhangming/regal/internal/i18n"
)

const (
	Version = "0.1.0"
)

// 全局语言参数
var globalLang string

func main() {
	defer atexit.Exit(0)

	// 预扫描全局参数 --lang 或 -lang
	args := preprocessArgs(os.Args[1:])

	if globalLang == "" {
		globalLang = os.Getenv("REGAL_LANG")
	}
	i18n.SetLanguageFromString(globalLang)

	if len(args) < 1 {
		printUsage()
		atexit.Exit(0)
	}

	command := args[0]

	switch command {
	case "check":
		cmdCheck(args[1:])
	case "fmt":
		cmdFmt(args[1:])
	case "liveness":
		cmdLiveness(args[1:])
	case "graph":
		cmdGraph(args[1:])
	case "alloc":
		cmdAlloc(args[1:])
	case "codegen":
		cmdCodegen(args[1:])
	case "repl":
		cmdRepl(args[1:])
	case "init":
		cmdInit(args[1:])
	case "version", "-v", "--version":
		cmdVersion()
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, i18n.T(i18n.ErrUnknownCmd, command)+"\n\n")
		printUsage()
		atexit.Exit(2)
	}
}

// preprocessArgs 预处理参数，提取全局 --lang 参数
func preprocessArgs(args []string) []string {
	var result []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--lang" || arg == "-lang" {
			if i+1 < len(args) {
				globalLang = args[i+1]
				i++ // 跳过下一个参数
				continue
			}
		} else if strings.HasPrefix(arg, "--lang=") {
			globalLang = strings.TrimPrefix(arg, "--lang=")
			continue
		} else if strings.HasPrefix(arg, "-lang=") {
			globalLang = strings.TrimPrefix(arg, "-lang=")
			continue
		}
		result = append(result, arg)
	}
	return result
}

func printUsage() {
	fmt.Printf(i18n.T(i18n.MsgVersionTitle, Version) + "\n\n")
	fmt.Println(i18n.T(i18n.MsgHelpUsage))
	fmt.Println("  regal [--lang en|zh] <command> [options] [arguments]")
	fmt.Println()
	fmt.Println(i18n.T(i18n.MsgHelpCommands))
	fmt.Printf("  check <file>     %s\n", i18n.T(i18n.MsgCmdCheck))
	fmt.Printf("  fmt <file>       %s\n", i18n.T(i18n.MsgCmdFmt))
	fmt.Printf("  liveness <file>  %s\n", i18n.T(i18n.MsgCmdLiveness))
	fmt.Printf("  graph <file>     %s\n", i18n.T(i18n.MsgCmdGraph))
	fmt.Printf("  alloc <file>     %s\n", i18n.T(i18n.MsgCmdAlloc))
	fmt.Printf("  codegen <file>   %s\n", i18n.T(i18n.MsgCmdCodegen))
	fmt.Printf("  repl             %s\n", i18n.T(i18n.MsgCmdRepl))
	fmt.Printf("  init             %s\n", i18n.T(i18n.MsgCmdInit))
	fmt.Printf("  version          %s\n", i18n.T(i18n.MsgCmdVersion))
	fmt.Printf("  help             %s\n", i18n.T(i18n.MsgCmdHelp))
	fmt.Println()
	fmt.Println(i18n.T(i18n.MsgHelpOptions))
	fmt.Printf("  -k <n>           %s\n", i18n.T(i18n.MsgOptRegisters))
	fmt.Printf("  -profile <name>  %s\n", i18n.T(i18n.MsgOptProfile))
	fmt.Printf("  -config <path>   %s\n", i18n.T(i18n.MsgOptConfig))
	fmt.Printf("  -json            %s\n", i18n.T(i18n.MsgOptJSON))
	fmt.Printf("  -verbose         %s\n", i18n.T(i18n.MsgOptVerbose))
	fmt.Printf("  -out <file>      %s\n", i18n.T(i18n.MsgOptOut))
	fmt.Printf("  --lang <en|zh>   %s\n", i18n.T(i18n.MsgOptLang))
	fmt.Println()
	fmt.Println(i18n.T(i18n.MsgHelpExamples))
	fmt.Println("  regal alloc -k 3 block.tac")
	fmt.Println("  regal liveness block.tac")
	fmt.Println("  regal fmt -write block.tac")
	fmt.Println("  regal --lang zh check block.tac")
}

// cmdVersion 显示版本信息
func cmdVersion() {
	fmt.Printf(i18n.T(i18n.MsgVersionTitle, Version) + "\n")
}
