package token

import "fmt"

// ============================================================================
// Token 类型定义
// ============================================================================
//
// 三地址码（TAC）是面向单个基本块的中间表示，词法非常小：
// 1. 特殊标记（ILLEGAL, EOF, NEWLINE）
// 2. 字面量（标识符、整数）
// 3. 运算符（= + - * /）
// 4. 分隔符（, :）
// 5. 关键字（live）
//
// ============================================================================

// TokenType 表示 Token 的类型
type TokenType int

const (
	// ----------------------------------------------------------
	// 特殊标记
	// ----------------------------------------------------------
	ILLEGAL TokenType = iota // 非法字符
	EOF                      // 文件结束
	NEWLINE                  // 换行（TAC 按行划分指令，换行是语法的一部分）

	// ----------------------------------------------------------
	// 字面量
	// ----------------------------------------------------------
	IDENT // 标识符 (变量名，如 a、t1)
	INT   // 整数字面量

	// ----------------------------------------------------------
	// 运算符
	// ----------------------------------------------------------
	ASSIGN // =
	PLUS   // +
	MINUS  // -
	STAR   // *
	SLASH  // /

	// ----------------------------------------------------------
	// 分隔符
	// ----------------------------------------------------------
	COMMA // ,
	COLON // :

	// ----------------------------------------------------------
	// 关键字
	// ----------------------------------------------------------
	LIVE // live（出口活跃变量行的引导关键字）
)

// tokenNames Token 类型的可读名称（用于调试与错误信息）
var tokenNames = map[TokenType]string{
	ILLEGAL: "ILLEGAL",
	EOF:     "EOF",
	NEWLINE: "NEWLINE",
	IDENT:   "IDENT",
	INT:     "INT",
	ASSIGN:  "=",
	PLUS:    "+",
	MINUS:   "-",
	STAR:    "*",
	SLASH:   "/",
	COMMA:   ",",
	COLON:   ":",
	LIVE:    "live",
}

// String 返回 Token 类型的字符串表示
func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

// keywords 关键字表
var keywords = map[string]TokenType{
	"live": LIVE,
}

// LookupIdent 查找标识符是否为关键字
//
// 注意：live 只有在行首并紧跟冒号时才引导活跃变量行，
// 这个区分由语法分析器完成，词法分析器统一返回 LIVE。
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

// ============================================================================
// 位置信息
// ============================================================================

// Position 表示源代码中的位置
type Position struct {
	Filename string // 文件名
	Line     int    // 行号 (从1开始)
	Column   int    // 列号 (从1开始)
	Offset   int    // 字节偏移量 (从0开始)
}

// String 返回位置的字符串表示，格式为 "filename:line:column"
func (p Position) String() string {
	if p.Filename != "" {
		return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// IsValid 检查位置是否有效
func (p Position) IsValid() bool {
	return p.Line > 0
}

// ============================================================================
// Token
// ============================================================================

// Token 一个词法单元
type Token struct {
	Type    TokenType // Token 类型
	Literal string    // 原始字面量
	Pos     Position  // 位置信息
}

// String 返回 Token 的字符串表示（用于调试）
func (t Token) String() string {
	switch t.Type {
	case IDENT, INT:
		return fmt.Sprintf("%s(%s) at %s", t.Type, t.Literal, t.Pos)
	case NEWLINE:
		return fmt.Sprintf("NEWLINE at %s", t.Pos)
	default:
		return fmt.Sprintf("%s at %s", t.Type, t.Pos)
	}
}

// IsOperator 检查是否为二元算术运算符 (+ - * /)
func (t Token) IsOperator() bool {
	switch t.Type {
	case PLUS, MINUS, STAR, SLASH:
		return true
	default:
		return false
	}
}
