package parser

import (
	"fmt"
	"strings"

	"github.com/tangzhangming/regal/internal/errors"
	"github.com/tangzhangming/regal/internal/i18n"
	"github.com/tangzhangming/regal/internal/ir"
	"github.com/tangzhangming/regal/internal/lexer"
	"github.com/tangzhangming/regal/internal/token"
)

// ============================================================================
// Parser - 语法分析器
// ============================================================================
//
// 输入是一个基本块：
//
//	零或多条三地址指令，每行一条：
//	  dst = src
//	  dst = -src
//	  dst = src1 op src2      op 为 + - * / 之一
//	最后一行必须是出口活跃变量声明：
//	  live: v1, v2, v3
//
// 校验规则：
//   - dst 与 live 变量必须符合变量命名（t+数字 或 单个小写字母，t 除外）
//   - 操作数必须是变量或整数常量（可带前导负号）
//   - live 行必须非空、必须在最后，其变量必须在块中出现过
//
// '-' 后跟整数解析为负常量（如 -5），后跟变量解析为一元取负。
//
// ============================================================================

// Parser 语法分析器
type Parser struct {
	lexer     *lexer.Lexer
	tokens    []token.Token
	current   int
	errors    []Error
	filename  string
	panicMode bool // 错误恢复模式标志，用于避免级联报错
	tooMany   bool // 超过 maxParseErrors 后停止收集
}

// maxParseErrors 最大错误数量限制，防止错误爆炸
const maxParseErrors = 50

// Error 语法分析错误
type Error struct {
	Pos       token.Position
	EndColumn int // 标注结束列；0 表示只标注一列
	Code      string
	Message   string
	Hints     []string
}

func (e Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Message)
}

// Diagnostic 转换为可渲染的诊断
func (e Error) Diagnostic() *errors.Diagnostic {
	return &errors.Diagnostic{
		Code:      e.Code,
		Level:     errors.LevelError,
		Message:   e.Message,
		File:      e.Pos.Filename,
		Line:      e.Pos.Line,
		Column:    e.Pos.Column,
		EndColumn: e.EndColumn,
		Hints:     e.Hints,
	}
}

// New 创建一个新的语法分析器
//
// 词法错误会并入语法错误列表，调用方只需检查一处。
func New(source, filename string) *Parser {
	l := lexer.New(source, filename)
	tokens := l.ScanTokens()

	p := &Parser{
		lexer:    l,
		tokens:   tokens,
		current:  0,
		filename: filename,
	}

	for _, e := range l.Errors() {
		p.errors = append(p.errors, Error{
			Pos:       e.Pos,
			EndColumn: e.Pos.Column + 1,
			Code:      errors.E0001,
			Message:   e.Message,
		})
	}

	return p
}

// Parse 解析整个基本块
//
// 总是返回一个 Block（可能不完整）；调用方应先检查 HasErrors。
func (p *Parser) Parse() *ir.Block {
	var instrs []ir.Instruction
	var liveToks []token.Token
	liveSeen := false
	liveTailReported := false

	for !p.isAtEnd() {
		p.panicMode = false

		// 跳过空行
		if p.match(token.NEWLINE) {
			continue
		}

		if p.check(token.LIVE) {
			if liveSeen {
				// 第二条 live 行同样违反"必须在最后"
				p.error(errors.E0005, i18n.T(i18n.ErrLiveNotLast))
				p.synchronize()
				continue
			}
			liveToks = p.parseLiveLine()
			liveSeen = true
			if p.panicMode {
				p.synchronize()
			}
			continue
		}

		if liveSeen {
			if !liveTailReported {
				p.error(errors.E0005, i18n.T(i18n.ErrLiveNotLast))
				liveTailReported = true
			}
			p.panicMode = true
			p.synchronize()
			continue
		}

		inst, ok := p.parseInstruction()
		if p.panicMode {
			p.synchronize()
			continue
		}
		if ok {
			instrs = append(instrs, inst)
		}
	}

	if !liveSeen {
		if len(instrs) == 0 && len(p.errors) == 0 {
			p.errorAt(p.peek().Pos, errors.E0007, i18n.T(i18n.ErrEmptyInput))
		} else {
			p.errorAt(p.peek().Pos, errors.E0005, i18n.T(i18n.ErrMissingLiveLine))
		}
	}

	liveOut := make([]string, 0, len(liveToks))
	for _, tok := range liveToks {
		liveOut = append(liveOut, tok.Literal)
	}

	block := ir.NewBlock(instrs, liveOut)

	// live 变量必须在块中出现过。仅在没有其它错误时检查，
	// 避免因某条指令解析失败而连带误报。
	if liveSeen && len(p.errors) == 0 {
		vars := block.Variables()
		for _, tok := range liveToks {
			if !block.Mentions(tok.Literal) {
				var hints []string
				if similar := errors.FindSimilar(tok.Literal, vars, 2); similar != "" {
					hints = append(hints, i18n.T(i18n.HintDidYouMean, similar))
				}
				p.errorAtToken(tok, errors.E0006, i18n.T(i18n.ErrLiveUnknownVar, tok.Literal), hints...)
			}
		}
	}

	return block
}

// Line 单行解析结果：一条指令或一条 live 声明
//
// 两个字段最多一个非 nil；都为 nil 表示空行。
type Line struct {
	Instr *ir.Instruction
	Live  []string
}

// ParseLine 解析单独的一行（REPL 输入）
//
// 与 Parse 不同，这里不要求 live 行在场，也不检查 live 变量
// 是否在块中出现过，这些约束由调用方在块完整时检查。
func ParseLine(source, filename string) (Line, []Error) {
	p := New(source, filename)
	if p.HasErrors() {
		return Line{}, p.errors
	}

	for p.match(token.NEWLINE) {
	}
	if p.isAtEnd() {
		return Line{}, nil
	}

	if p.check(token.LIVE) {
		toks := p.parseLiveLine()
		if p.HasErrors() || !p.expectSingleLine() {
			return Line{}, p.errors
		}
		live := make([]string, 0, len(toks))
		for _, tok := range toks {
			live = append(live, tok.Literal)
		}
		return Line{Live: live}, nil
	}

	inst, ok := p.parseInstruction()
	if !ok || p.HasErrors() || !p.expectSingleLine() {
		return Line{}, p.errors
	}
	return Line{Instr: &inst}, nil
}

// expectSingleLine 确认剩余输入只有空行
func (p *Parser) expectSingleLine() bool {
	for p.match(token.NEWLINE) {
	}
	if p.isAtEnd() {
		return true
	}
	p.error(errors.E0002, i18n.T(i18n.ErrExpectedEndOfLine, p.peek().Literal))
	return false
}

// Errors 返回所有语法错误
func (p *Parser) Errors() []Error {
	return p.errors
}

// HasErrors 检查是否有错误
func (p *Parser) HasErrors() bool {
	return len(p.errors) > 0
}

// ============================================================================
// 指令解析
// ============================================================================

// parseInstruction 解析一条三地址指令（不含行尾换行之前的内容）
func (p *Parser) parseInstruction() (ir.Instruction, bool) {
	var zero ir.Instruction

	if !p.check(token.IDENT) {
		p.error(errors.E0002, i18n.T(i18n.ErrExpectedDest))
		p.panicMode = true
		return zero, false
	}
	dstTok := p.advance()
	if !ir.IsVariable(dstTok.Literal) {
		p.errorAtToken(dstTok, errors.E0003, i18n.T(i18n.ErrDestNotVariable, dstTok.Literal), lowerHint(dstTok.Literal)...)
		p.panicMode = true
		return zero, false
	}

	if !p.match(token.ASSIGN) {
		p.error(errors.E0002, i18n.T(i18n.ErrExpectedAssign))
		p.panicMode = true
		return zero, false
	}

	// 一元取负：'-' 后面是标识符
	// （'-' 后面是整数时走普通操作数路径，得到负常量）
	if p.check(token.MINUS) && p.peekNext().Type == token.IDENT {
		p.advance() // '-'
		srcTok := p.advance()
		if !ir.IsVariable(srcTok.Literal) {
			p.errorAtToken(srcTok, errors.E0004, i18n.T(i18n.ErrOperandShape, srcTok.Literal), lowerHint(srcTok.Literal)...)
			p.panicMode = true
			return zero, false
		}
		if !p.expectEndOfLine() {
			return zero, false
		}
		return ir.NewNegate(dstTok.Literal, srcTok.Literal, dstTok.Pos), true
	}

	src1, ok := p.parseOperand()
	if !ok {
		return zero, false
	}

	// 二元运算
	if p.checkAny(token.PLUS, token.MINUS, token.STAR, token.SLASH) {
		opTok := p.advance()
		src2, ok := p.parseOperand()
		if !ok {
			return zero, false
		}
		if !p.expectEndOfLine() {
			return zero, false
		}
		return ir.NewBinary(dstTok.Literal, src1, opTok.Literal, src2, dstTok.Pos), true
	}

	// 复制
	if !p.expectEndOfLine() {
		return zero, false
	}
	return ir.NewCopy(dstTok.Literal, src1, dstTok.Pos), true
}

// parseOperand 解析一个操作数：变量、整数常量或负常量
func (p *Parser) parseOperand() (string, bool) {
	if p.match(token.MINUS) {
		if p.check(token.INT) {
			return "-" + p.advance().Literal, true
		}
		p.error(errors.E0004, i18n.T(i18n.ErrExpectedOperand))
		p.panicMode = true
		return "", false
	}

	if p.check(token.INT) {
		return p.advance().Literal, true
	}

	if p.check(token.IDENT) {
		tok := p.advance()
		if !ir.IsVariable(tok.Literal) {
			p.errorAtToken(tok, errors.E0004, i18n.T(i18n.ErrOperandShape, tok.Literal), lowerHint(tok.Literal)...)
			p.panicMode = true
			return "", false
		}
		return tok.Literal, true
	}

	p.error(errors.E0004, i18n.T(i18n.ErrExpectedOperand))
	p.panicMode = true
	return "", false
}

// parseLiveLine 解析 'live: v1, v2, ...' 行，返回变量 token 列表
//
// 变量是否在块中出现的检查延后到 Parse 末尾，那时块已完整。
func (p *Parser) parseLiveLine() []token.Token {
	p.advance() // 'live'

	if !p.match(token.COLON) {
		p.error(errors.E0005, i18n.T(i18n.ErrExpectedColon))
		p.panicMode = true
		return nil
	}

	if p.check(token.NEWLINE) || p.isAtEnd() {
		p.error(errors.E0005, i18n.T(i18n.ErrEmptyLiveList))
		p.panicMode = true
		return nil
	}

	var toks []token.Token
	for {
		if !p.check(token.IDENT) {
			p.error(errors.E0005, i18n.T(i18n.ErrExpectedLiveVar))
			p.panicMode = true
			return toks
		}
		tok := p.advance()
		if !ir.IsVariable(tok.Literal) {
			p.errorAtToken(tok, errors.E0005, i18n.T(i18n.ErrLiveNotVariable, tok.Literal), lowerHint(tok.Literal)...)
			p.panicMode = true
			return toks
		}
		toks = append(toks, tok)

		if !p.match(token.COMMA) {
			break
		}
	}

	if !p.expectEndOfLine() {
		return toks
	}
	return toks
}

// expectEndOfLine 消耗行尾：NEWLINE 或 EOF
func (p *Parser) expectEndOfLine() bool {
	if p.check(token.NEWLINE) {
		p.advance()
		return true
	}
	if p.isAtEnd() {
		return true
	}
	p.error(errors.E0002, i18n.T(i18n.ErrExpectedEndOfLine, p.peek().Literal))
	p.panicMode = true
	return false
}

// ============================================================================
// 辅助方法
// ============================================================================

func (p *Parser) isAtEnd() bool {
	return p.peek().Type == token.EOF
}

func (p *Parser) peek() token.Token {
	return p.tokens[p.current]
}

func (p *Parser) peekNext() token.Token {
	if p.current+1 >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1] // 返回EOF
	}
	return p.tokens[p.current+1]
}

func (p *Parser) previous() token.Token {
	return p.tokens[p.current-1]
}

func (p *Parser) advance() token.Token {
	if !p.isAtEnd() {
		p.current++
	}
	return p.previous()
}

func (p *Parser) check(t token.TokenType) bool {
	if p.isAtEnd() {
		return false
	}
	return p.peek().Type == t
}

func (p *Parser) checkAny(types ...token.TokenType) bool {
	for _, t := range types {
		if p.check(t) {
			return true
		}
	}
	return false
}

func (p *Parser) match(types ...token.TokenType) bool {
	for _, t := range types {
		if p.check(t) {
			p.advance()
			return true
		}
	}
	return false
}

// error 在当前 token 位置记录错误
func (p *Parser) error(code, message string) {
	p.errorAt(p.peek().Pos, code, message)
}

// errorAtToken 在某个 token 处记录错误，标注覆盖整个字面量
func (p *Parser) errorAtToken(tok token.Token, code, message string, hints ...string) {
	p.record(Error{
		Pos:       tok.Pos,
		EndColumn: tok.Pos.Column + len(tok.Literal),
		Code:      code,
		Message:   message,
		Hints:     hints,
	})
}

// errorAt 在指定位置记录错误
func (p *Parser) errorAt(pos token.Position, code, message string, hints ...string) {
	p.record(Error{
		Pos:     pos,
		Code:    code,
		Message: message,
		Hints:   hints,
	})
}

func (p *Parser) record(e Error) {
	// panicMode 下跳过后续错误，避免级联报错
	if p.panicMode || p.tooMany {
		return
	}

	// 避免在同一位置重复报错
	if len(p.errors) > 0 {
		last := p.errors[len(p.errors)-1]
		if last.Pos.Line == e.Pos.Line && last.Pos.Column == e.Pos.Column {
			return
		}
	}

	// 超过上限后补一条收尾说明，之后不再收集
	if len(p.errors) >= maxParseErrors {
		p.tooMany = true
		p.errors = append(p.errors, Error{
			Pos:     e.Pos,
			Code:    errors.E0002,
			Message: i18n.T(i18n.ErrTooManyErrors),
		})
		return
	}

	p.errors = append(p.errors, e)
}

// lowerHint 针对大小写错误给出建议：'T1' 改小写后若是合法变量则提示
func lowerHint(name string) []string {
	lower := strings.ToLower(name)
	if lower != name && ir.IsVariable(lower) {
		return []string{i18n.T(i18n.HintDidYouMean, lower)}
	}
	return nil
}

// synchronize 跳到下一行的开头（错误恢复）
func (p *Parser) synchronize() {
	for !p.isAtEnd() {
		if p.advance().Type == token.NEWLINE {
			return
		}
	}
}
