package i18n

var messagesEN = map[string]string{
	// ========== Lexer ==========
	ErrUnexpectedChar: "unexpected character '%c'",

	// ========== Parser ==========
	ErrExpectedDest:      "expected a destination variable",
	ErrDestNotVariable:   "destination '%s' is not a variable (want t<digits> or a single lowercase letter other than 't')",
	ErrExpectedAssign:    "expected '=' after destination",
	ErrExpectedOperand:   "expected a variable or integer constant",
	ErrOperandShape:      "'%s' is neither a variable nor an integer constant",
	ErrExpectedEndOfLine: "unexpected %s: expected end of line",
	ErrMissingLiveLine:   "missing final 'live:' line",
	ErrLiveNotLast:       "the 'live:' line must be the last line of the block",
	ErrExpectedColon:     "expected ':' after 'live'",
	ErrExpectedLiveVar:   "expected a variable name in the live list",
	ErrLiveNotVariable:   "live name '%s' is not a variable",
	ErrLiveUnknownVar:    "live variable '%s' does not appear in the block",
	ErrEmptyLiveList:     "the 'live:' line lists no variables",
	ErrEmptyInput:        "empty input: expected instructions and a final 'live:' line",
	ErrTooManyErrors:     "too many errors; further diagnostics suppressed",

	// ========== Hints ==========
	HintDidYouMean: "did you mean '%s'?",

	// ========== Register allocation ==========
	ErrRegisterCount: "register count must be a positive integer, got %d",

	// ========== CLI ==========
	MsgVersionTitle: "regal - a register allocator for three-address code (v%s)",
	MsgHelpUsage:    "Usage:",
	MsgHelpCommands: "Commands:",
	MsgHelpOptions:  "Options:",
	MsgHelpExamples: "Examples:",
	MsgCmdCheck:     "parse a block and report diagnostics",
	MsgCmdFmt:       "format a block canonically",
	MsgCmdLiveness:  "print per-instruction liveness sets",
	MsgCmdGraph:     "print the variable interference table",
	MsgCmdAlloc:     "run the full allocation pipeline",
	MsgCmdCodegen:   "emit pseudo target code for an allocated block",
	MsgCmdRepl:      "start the interactive block editor",
	MsgCmdVersion:   "print version information",
	MsgCmdHelp:      "print this help",
	MsgOptRegisters: "number of machine registers (overrides regal.toml)",
	MsgOptProfile:   "named register profile from regal.toml",
	MsgOptConfig:    "path to regal.toml",
	MsgOptJSON:      "emit a machine-readable JSON report",
	MsgOptVerbose:   "log pipeline stages to stderr",
	MsgOptOut:       "write output to file instead of stdout",
	MsgOptLang:      "diagnostic language (en or zh)",
	MsgOptWrite:     "write the formatted block back to the source file",
	MsgCmdInit:      "create a default regal.toml in the current directory",
	MsgSyntaxOK:     "%s: syntax OK (%d instruction(s), %d live-out variable(s))",
	MsgInitCreated:  "created %s",
	ErrConfigExists: "%s already exists",
	ErrUnknownCmd:   "unknown command: %s",
	ErrNoInput:      "no input file given",
	ErrReadFile:     "cannot read %s: %v",
	ErrWriteFile:    "cannot write %s: %v",
	ErrLoadConfig:   "cannot load config: %v",
	ErrNoProfile:    "profile '%s' not found in regal.toml",
	MsgErrorCount:   "error: found %d error(s)",

	// ========== REPL ==========
	MsgReplWelcome: "regal repl - type instructions, then :alloc <k>; :help for commands",
	MsgReplGoodbye: "bye",
	MsgReplHelp: `Commands:
  :help            show this help
  :show            print the current block
  :liveness        print liveness sets for the current block
  :graph           print the interference table
  :alloc <k>       colour the block with k registers
  :codegen <k>     emit pseudo target code using k registers
  :run [v=n ...]   evaluate the block and print its live-out values
  :load <file>     replace the block with the contents of a file
  :live a, b       set the block's live-out list
  :history         show input history
  :reset           discard the current block
  :quit            leave the repl`,
	MsgReplLoaded:  "loaded %s (%d instruction(s))",
	MsgReplReset:   "block discarded",
	ErrReplCommand: "unknown command %s (:help lists commands)",
	ErrReplEmpty:   "the block is empty; type instructions first",
	ErrReplNoLive:  "no live-out set; use ':live a, b' first",
	ErrReplBinding: "bad binding '%s'; expected name=value",
	ErrReplUnbound: "variable '%s' is live on entry; bind it with '%s=<value>'",
}
