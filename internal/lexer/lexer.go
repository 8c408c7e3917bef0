package lexer

import (
	"fmt"

	"github.com/tangzhangming/regal/internal/i18n"
	"github.com/tangzhangming/regal/internal/token"
)

// ============================================================================
// Lexer - 词法分析器
// ============================================================================
//
// 词法分析器负责将三地址码源文本转换为 Token 序列。
//
// 与常规语言不同，这门中间语言是行导向的：换行是指令分隔符，
// 因此 '\n' 产生 NEWLINE token 而不是被当作空白跳过。
// 分号视为与换行等价的分隔符，便于单行交互输入。
//
// 扫描是空白不敏感的：'a=a+1' 与 'a = a + 1' 产生同样的 Token 序列。
//
// ============================================================================

// Lexer 词法分析器结构体
type Lexer struct {
	source   string        // 源代码字符串
	filename string        // 源文件名（用于错误报告）
	tokens   []token.Token // 已扫描的 Token 列表

	start     int // 当前 Token 的起始位置（字节偏移）
	current   int // 当前扫描位置（字节偏移）
	line      int // 当前行号（从1开始）
	column    int // 当前列号（从1开始）
	lineStart int // 当前行的起始偏移（用于计算列号）

	errors []Error // 词法错误列表
}

// Error 表示词法分析错误
type Error struct {
	Pos     token.Position // 错误位置
	Message string         // 错误信息
}

func (e Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Message)
}

// ============================================================================
// 构造函数
// ============================================================================

// New 创建一个新的词法分析器
//
// 参数:
//   - source: 源代码字符串
//   - filename: 源文件名（用于错误报告）
func New(source, filename string) *Lexer {
	// 预估 token 数量：三地址码平均每 3 个字符产生一个 token
	estimatedTokens := len(source) / 3
	if estimatedTokens < 16 {
		estimatedTokens = 16
	}

	return &Lexer{
		source:   source,
		filename: filename,
		tokens:   make([]token.Token, 0, estimatedTokens),
		line:     1,
		column:   1,
	}
}

// ============================================================================
// 公共方法
// ============================================================================

// ScanTokens 扫描所有 tokens
//
// 这是词法分析的主入口，会扫描整个源代码并返回 Token 序列。
// 最后一个 Token 总是 EOF，表示输入结束。
func (l *Lexer) ScanTokens() []token.Token {
	for !l.isAtEnd() {
		l.start = l.current
		l.scanToken()
	}

	l.tokens = append(l.tokens, token.Token{
		Type: token.EOF,
		Pos:  l.currentPos(),
	})

	return l.tokens
}

// Errors 返回所有词法错误
func (l *Lexer) Errors() []Error {
	return l.errors
}

// HasErrors 检查是否有错误
func (l *Lexer) HasErrors() bool {
	return len(l.errors) > 0
}

// ============================================================================
// 核心扫描逻辑
// ============================================================================

// scanToken 扫描单个 token
func (l *Lexer) scanToken() {
	ch := l.advance()

	switch ch {

	// ----------------------------------------------------------
	// 空白字符：换行是分隔符，其余跳过
	// ----------------------------------------------------------
	case ' ', '\t', '\r':
		l.skipWhitespace()

	case '\n':
		l.addToken(token.NEWLINE)
		l.newLine()

	case ';':
		// 分号等价于换行，方便把多条指令写在一行里
		l.addToken(token.NEWLINE)

	// ----------------------------------------------------------
	// 单字符运算符与分隔符
	// ----------------------------------------------------------
	case '=':
		l.addToken(token.ASSIGN)
	case '+':
		l.addToken(token.PLUS)
	case '-':
		l.addToken(token.MINUS)
	case '*':
		l.addToken(token.STAR)
	case '/':
		l.addToken(token.SLASH)
	case ',':
		l.addToken(token.COMMA)
	case ':':
		l.addToken(token.COLON)

	// ----------------------------------------------------------
	// 注释：# 到行尾
	// ----------------------------------------------------------
	case '#':
		l.lineComment()

	// ----------------------------------------------------------
	// 标识符与数字
	// ----------------------------------------------------------
	default:
		if isLetter(ch) {
			l.identifier()
		} else if isDigit(ch) {
			l.number()
		} else {
			l.error(i18n.T(i18n.ErrUnexpectedChar, ch))
		}
	}
}

// skipWhitespace 批量跳过连续空白字符（不含换行）
func (l *Lexer) skipWhitespace() {
	for !l.isAtEnd() {
		switch l.peekByte() {
		case ' ', '\t', '\r':
			l.advanceByte()
		default:
			return
		}
	}
}

// lineComment 跳过 # 行注释（不产生 token）
func (l *Lexer) lineComment() {
	for !l.isAtEnd() && l.peekByte() != '\n' {
		l.advanceByte()
	}
}

// identifier 扫描标识符或关键字
//
// 词法层面接受任意 [A-Za-z_][A-Za-z0-9_]* 形状的标识符；
// 变量命名规则（t+数字 或 单个小写字母）由解析阶段校验，
// 这样 'foo' 这类名字能得到位置准确的解析错误而非词法错误。
func (l *Lexer) identifier() {
	for !l.isAtEnd() && isAlphaNumeric(l.peekByte()) {
		l.advanceByte()
	}

	literal := l.source[l.start:l.current]
	l.addToken(token.LookupIdent(literal))
}

// number 扫描整数字面量
//
// 负号不属于数字 token：'-5' 扫描为 MINUS INT 两个 token，
// 由解析阶段组合成负常量。
func (l *Lexer) number() {
	for !l.isAtEnd() && isDigit(l.peekByte()) {
		l.advanceByte()
	}

	l.addToken(token.INT)
}

// ============================================================================
// 底层辅助函数
// ============================================================================

// isAtEnd 检查是否到达源码末尾
func (l *Lexer) isAtEnd() bool {
	return l.current >= len(l.source)
}

// advance 前进一个字节并返回它
//
// 输入语言是纯 ASCII 的，无需 UTF-8 解码；
// 非 ASCII 字节直接落入 scanToken 的 error 分支。
func (l *Lexer) advance() byte {
	if l.current >= len(l.source) {
		return 0
	}
	b := l.source[l.current]
	l.current++
	l.column++
	return b
}

// advanceByte 前进一个字节（不返回）
func (l *Lexer) advanceByte() {
	l.current++
	l.column++
}

// peekByte 查看当前字节但不前进
func (l *Lexer) peekByte() byte {
	if l.current >= len(l.source) {
		return 0
	}
	return l.source[l.current]
}

// newLine 更新行号与列号
func (l *Lexer) newLine() {
	l.line++
	l.column = 1
	l.lineStart = l.current
}

// currentPos 计算当前 token 的起始位置
func (l *Lexer) currentPos() token.Position {
	return token.Position{
		Filename: l.filename,
		Line:     l.line,
		Column:   l.column - (l.current - l.start),
		Offset:   l.start,
	}
}

// addToken 添加一个 token
func (l *Lexer) addToken(tokenType token.TokenType) {
	literal := l.source[l.start:l.current]
	l.tokens = append(l.tokens, token.Token{
		Type:    tokenType,
		Literal: literal,
		Pos:     l.currentPos(),
	})
}

// error 记录词法错误并添加 ILLEGAL token
func (l *Lexer) error(message string) {
	l.errors = append(l.errors, Error{
		Pos:     l.currentPos(),
		Message: message,
	})
	l.addToken(token.ILLEGAL)
}

// isLetter 判断字节是否为字母或下划线
func isLetter(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b == '_'
}

// isDigit 判断字节是否为十进制数字
func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// isAlphaNumeric 判断字节是否为字母、数字或下划线
func isAlphaNumeric(b byte) bool {
	return isLetter(b) || isDigit(b)
}
