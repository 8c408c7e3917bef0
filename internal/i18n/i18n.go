package i18n

import (
	"fmt"
	"sync"
)

// Language 语言类型
type Language string

const (
	LangEnglish Language = "en"
	LangChinese Language = "zh"
)

// 全局语言设置
var (
	currentLang Language = LangEnglish
	mu          sync.RWMutex
)

// SetLanguage 设置当前语言
func SetLanguage(lang Language) {
	mu.Lock()
	defer mu.Unlock()
	currentLang = lang
}

// SetLanguageFromString 从字符串设置语言
func SetLanguageFromString(lang string) {
	switch lang {
	case "zh", "zh-cn", "zh-tw", "zh-hk", "chinese":
		SetLanguage(LangChinese)
	default:
		SetLanguage(LangEnglish)
	}
}

// GetLanguage 获取当前语言
func GetLanguage() Language {
	mu.RLock()
	defer mu.RUnlock()
	return currentLang
}

// T 翻译消息（支持格式化参数）
func T(msgID string, args ...interface{}) string {
	mu.RLock()
	lang := currentLang
	mu.RUnlock()

	var messages map[string]string
	switch lang {
	case LangChinese:
		messages = messagesZH
	default:
		messages = messagesEN
	}

	if msg, ok := messages[msgID]; ok {
		if len(args) > 0 {
			return fmt.Sprintf(msg, args...)
		}
		return msg
	}

	// 回退到英文
	if msg, ok := messagesEN[msgID]; ok {
		if len(args) > 0 {
			return fmt.Sprintf(msg, args...)
		}
		return msg
	}

	// 找不到翻译则返回原始 ID
	return msgID
}

// ============================================================================
// 消息 ID
// ============================================================================

const (
	// 词法分析
	ErrUnexpectedChar = "lexer.unexpected_char"

	// 语法分析
	ErrExpectedDest      = "parser.expected_dest"
	ErrDestNotVariable   = "parser.dest_not_variable"
	ErrExpectedAssign    = "parser.expected_assign"
	ErrExpectedOperand   = "parser.expected_operand"
	ErrOperandShape      = "parser.operand_shape"
	ErrExpectedEndOfLine = "parser.expected_end_of_line"
	ErrMissingLiveLine   = "parser.missing_live_line"
	ErrLiveNotLast       = "parser.live_not_last"
	ErrExpectedColon     = "parser.expected_colon"
	ErrExpectedLiveVar   = "parser.expected_live_var"
	ErrLiveNotVariable   = "parser.live_not_variable"
	ErrLiveUnknownVar    = "parser.live_unknown_var"
	ErrEmptyLiveList     = "parser.empty_live_list"
	ErrEmptyInput        = "parser.empty_input"
	ErrTooManyErrors     = "parser.too_many_errors"

	// 修复建议
	HintDidYouMean = "suggestion.did_you_mean"

	// 寄存器分配
	ErrRegisterCount = "regalloc.register_count"

	// 命令行
	MsgVersionTitle = "cli.version_title"
	MsgHelpUsage    = "cli.help_usage"
	MsgHelpCommands = "cli.help_commands"
	MsgHelpOptions  = "cli.help_options"
	MsgHelpExamples = "cli.help_examples"
	MsgCmdCheck     = "cli.cmd_check"
	MsgCmdFmt       = "cli.cmd_fmt"
	MsgCmdLiveness  = "cli.cmd_liveness"
	MsgCmdGraph     = "cli.cmd_graph"
	MsgCmdAlloc     = "cli.cmd_alloc"
	MsgCmdCodegen   = "cli.cmd_codegen"
	MsgCmdRepl      = "cli.cmd_repl"
	MsgCmdVersion   = "cli.cmd_version"
	MsgCmdHelp      = "cli.cmd_help"
	MsgOptRegisters = "cli.opt_registers"
	MsgOptProfile   = "cli.opt_profile"
	MsgOptConfig    = "cli.opt_config"
	MsgOptJSON      = "cli.opt_json"
	MsgOptVerbose   = "cli.opt_verbose"
	MsgOptOut       = "cli.opt_out"
	MsgOptLang      = "cli.opt_lang"
	MsgOptWrite     = "cli.opt_write"
	MsgCmdInit      = "cli.cmd_init"
	MsgSyntaxOK     = "cli.syntax_ok"
	MsgInitCreated  = "cli.init_created"
	ErrConfigExists = "cli.config_exists"
	ErrUnknownCmd   = "cli.unknown_cmd"
	ErrNoInput      = "cli.no_input"
	ErrReadFile     = "cli.read_file"
	ErrWriteFile    = "cli.write_file"
	ErrLoadConfig   = "cli.load_config"
	ErrNoProfile    = "cli.no_profile"
	MsgErrorCount   = "cli.error_count"

	// REPL
	MsgReplWelcome = "repl.welcome"
	MsgReplGoodbye = "repl.goodbye"
	MsgReplHelp    = "repl.help"
	MsgReplLoaded  = "repl.loaded"
	MsgReplReset   = "repl.reset"
	ErrReplCommand = "repl.unknown_command"
	ErrReplEmpty   = "repl.empty_block"
	ErrReplNoLive  = "repl.no_live"
	ErrReplBinding = "repl.bad_binding"
	ErrReplUnbound = "repl.entry_unbound"
)
