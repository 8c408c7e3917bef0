// Package errors 提供 regal 的诊断系统
//
// 诊断带着稳定的错误码（E 开头是解析诊断，A 开头是分配诊断），
// CLI 用它渲染带源码上下文的报告，LSP 用它填充 Diagnostic.Code。
package errors

// ============================================================================
// 诊断级别
// ============================================================================

// Level 诊断级别
type Level int

const (
	LevelError   Level = iota // 错误
	LevelWarning              // 警告
	LevelNote                 // 提示
	LevelHelp                 // 帮助
)

func (l Level) String() string {
	switch l {
	case LevelError:
		return "error"
	case LevelWarning:
		return "warning"
	case LevelNote:
		return "note"
	case LevelHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ============================================================================
// 诊断码
// ============================================================================

const (
	// E0001-E0099: 词法与语法
	E0001 = "E0001" // 意外的字符
	E0002 = "E0002" // 指令语法错误
	E0003 = "E0003" // 目标不是合法变量
	E0004 = "E0004" // 操作数不是变量或整数常量
	E0005 = "E0005" // live 行缺失、位置不对或形状错误
	E0006 = "E0006" // live 变量未在块中出现
	E0007 = "E0007" // 空输入

	// A0001-A0099: 寄存器分配
	A0001 = "A0001" // 寄存器数量不是正整数
	A0002 = "A0002" // 寄存器不足，图不可着色
)
