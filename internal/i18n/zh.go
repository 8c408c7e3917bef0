package i18n

var messagesZH = map[string]string{
	// ========== 词法分析 ==========
	ErrUnexpectedChar: "意外字符 '%c'",

	// ========== 语法分析 ==========
	ErrExpectedDest:      "缺少目标变量",
	ErrDestNotVariable:   "目标 '%s' 不是变量（应为 t+数字，或除 't' 以外的单个小写字母）",
	ErrExpectedAssign:    "目标变量后应为 '='",
	ErrExpectedOperand:   "应为变量或整数常量",
	ErrOperandShape:      "'%s' 既不是变量也不是整数常量",
	ErrExpectedEndOfLine: "意外的 %s：指令应在此结束",
	ErrMissingLiveLine:   "缺少末尾的 'live:' 行",
	ErrLiveNotLast:       "'live:' 行必须是基本块的最后一行",
	ErrExpectedColon:     "'live' 后应为 ':'",
	ErrExpectedLiveVar:   "live 列表中应为变量名",
	ErrLiveNotVariable:   "live 名称 '%s' 不是变量",
	ErrLiveUnknownVar:    "live 变量 '%s' 未在基本块中出现",
	ErrEmptyLiveList:     "'live:' 行没有列出任何变量",
	ErrEmptyInput:        "输入为空：应包含若干指令和末尾的 'live:' 行",
	ErrTooManyErrors:     "错误过多；不再输出后续诊断",

	// ========== 修复建议 ==========
	HintDidYouMean: "是否想写 '%s'？",

	// ========== 寄存器分配 ==========
	ErrRegisterCount: "寄存器数量必须是正整数，实际为 %d",

	// ========== 命令行 ==========
	MsgVersionTitle: "regal - 三地址码寄存器分配器 (v%s)",
	MsgHelpUsage:    "用法:",
	MsgHelpCommands: "命令:",
	MsgHelpOptions:  "选项:",
	MsgHelpExamples: "示例:",
	MsgCmdCheck:     "解析基本块并报告诊断信息",
	MsgCmdFmt:       "规范化格式化基本块",
	MsgCmdLiveness:  "打印每条指令的活跃变量集合",
	MsgCmdGraph:     "打印变量冲突表",
	MsgCmdAlloc:     "运行完整的分配流水线",
	MsgCmdCodegen:   "为完成分配的基本块生成伪目标代码",
	MsgCmdRepl:      "启动交互式基本块编辑器",
	MsgCmdVersion:   "打印版本信息",
	MsgCmdHelp:      "打印本帮助",
	MsgOptRegisters: "机器寄存器数量（覆盖 regal.toml）",
	MsgOptProfile:   "regal.toml 中的命名寄存器档案",
	MsgOptConfig:    "regal.toml 的路径",
	MsgOptJSON:      "输出机器可读的 JSON 报告",
	MsgOptVerbose:   "向 stderr 记录流水线各阶段日志",
	MsgOptOut:       "输出到文件而不是标准输出",
	MsgOptLang:      "诊断信息语言（en 或 zh）",
	MsgOptWrite:     "将格式化结果写回源文件",
	MsgCmdInit:      "在当前目录生成默认 regal.toml",
	MsgSyntaxOK:     "%s：语法正确（%d 条指令，%d 个出口活跃变量）",
	MsgInitCreated:  "已创建 %s",
	ErrConfigExists: "%s 已存在",
	ErrUnknownCmd:   "未知命令: %s",
	ErrNoInput:      "未指定输入文件",
	ErrReadFile:     "无法读取 %s: %v",
	ErrWriteFile:    "无法写入 %s: %v",
	ErrLoadConfig:   "无法加载配置: %v",
	ErrNoProfile:    "regal.toml 中没有档案 '%s'",
	MsgErrorCount:   "错误: 发现 %d 个错误",

	// ========== REPL ==========
	MsgReplWelcome: "regal repl - 输入指令后用 :alloc <k> 分配；:help 查看命令",
	MsgReplGoodbye: "再见",
	MsgReplHelp: `命令:
  :help            显示本帮助
  :show            打印当前基本块
  :liveness        打印当前基本块的活跃变量集合
  :graph           打印冲突表
  :alloc <k>       用 k 个寄存器为基本块着色
  :codegen <k>     用 k 个寄存器生成伪目标代码
  :run [v=n ...]   求值基本块并打印出口活跃变量的值
  :load <file>     用文件内容替换当前基本块
  :live a, b       设置基本块的出口活跃变量
  :history         显示输入历史
  :reset           丢弃当前基本块
  :quit            退出 repl`,
	MsgReplLoaded:  "已加载 %s（%d 条指令）",
	MsgReplReset:   "已丢弃基本块",
	ErrReplCommand: "未知命令 %s（:help 查看命令列表）",
	ErrReplEmpty:   "基本块为空；请先输入指令",
	ErrReplNoLive:  "尚未设置出口活跃变量；先用 ':live a, b'",
	ErrReplBinding: "绑定 '%s' 非法；应写成 name=value",
	ErrReplUnbound: "变量 '%s' 在入口处活跃；用 '%s=<值>' 提供初值",
}
