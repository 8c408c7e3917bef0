package errors

import (
	"fmt"
	"strings"
)

// ============================================================================
// 诊断
// ============================================================================

// Diagnostic 一条带位置的诊断
type Diagnostic struct {
	Code      string   // 诊断码 (E0003)
	Level     Level    // 诊断级别
	Message   string   // 主消息
	File      string   // 文件路径
	Line      int      // 行号（1-based）
	Column    int      // 列号（1-based）
	EndColumn int      // 结束列；0 表示只标注一列
	Hints     []string // 修复建议
	Notes     []string // 附加说明
}

// Error 实现 error 接口
func (d *Diagnostic) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s", d.File, d.Line, d.Column, d.Message)
}

// ============================================================================
// 格式化器
// ============================================================================

// Formatter 诊断格式化器
type Formatter struct {
	Colors     bool // 是否使用颜色
	ShowSource bool // 是否显示源代码行
	ShowHints  bool // 是否显示修复建议
	TabWidth   int  // Tab 展开宽度
}

// NewFormatter 创建默认格式化器
func NewFormatter() *Formatter {
	return &Formatter{
		Colors:     ColorsEnabled(),
		ShowSource: true,
		ShowHints:  true,
		TabWidth:   4,
	}
}

// Format 格式化一条诊断
//
// 输出形如：
//
//	error[E0003]: destination 'foo' is not a variable
//	 --> block.tac:2:1
//	  |
//	2 | foo = 1
//	    ^^^
//	 = help: did you mean 'f'?
func (f *Formatter) Format(d *Diagnostic, sourceLines []string) string {
	var sb strings.Builder

	// 头部: error[E0003]: 消息
	levelStr := f.colorize(d.Level.String(), f.levelColor(d.Level))
	codeStr := f.colorize(fmt.Sprintf("[%s]", d.Code), f.levelColor(d.Level))
	sb.WriteString(fmt.Sprintf("%s%s: %s\n", levelStr, codeStr, d.Message))

	// 位置: --> block.tac:2:1
	// 分配阶段的诊断（A 码）没有源码位置，只输出头部。
	if d.Line > 0 {
		arrow := f.colorize("-->", ColorCyan)
		location := f.colorize(fmt.Sprintf("%s:%d:%d", d.File, d.Line, d.Column), ColorCyan)
		sb.WriteString(fmt.Sprintf(" %s %s\n", arrow, location))
	}

	// 源代码行与下划线标注
	if f.ShowSource && d.Line > 0 && d.Line <= len(sourceLines) {
		sb.WriteString(f.formatSourceLine(sourceLines[d.Line-1], d))
	}

	// 修复建议
	if f.ShowHints {
		for _, hint := range d.Hints {
			hintLabel := f.colorize(" = help:", ColorCyan)
			sb.WriteString(fmt.Sprintf("%s %s\n", hintLabel, hint))
		}
	}

	// 附加说明
	for _, note := range d.Notes {
		noteLabel := f.colorize(" = note:", ColorCyan)
		sb.WriteString(fmt.Sprintf("%s %s\n", noteLabel, note))
	}

	return sb.String()
}

// formatSourceLine 渲染出错行与 ^ 标注
func (f *Formatter) formatSourceLine(line string, d *Diagnostic) string {
	var sb strings.Builder

	lineNumWidth := len(fmt.Sprintf("%d", d.Line))

	// 空行分隔符
	separator := f.colorize(strings.Repeat(" ", lineNumWidth)+" |", ColorBlue)
	sb.WriteString(separator + "\n")

	// 出错行
	lineNum := f.colorize(fmt.Sprintf("%*d", lineNumWidth, d.Line), ColorBlue)
	pipe := f.colorize(" |", ColorBlue)
	sb.WriteString(fmt.Sprintf("%s%s %s\n", lineNum, pipe, f.expandTabs(line)))

	// 标注长度；EndColumn 为 0 时只标一列
	endCol := d.EndColumn
	if endCol <= d.Column {
		endCol = d.Column + 1
	}
	length := endCol - d.Column

	// 计算实际的列位置（考虑 Tab）
	actualCol := f.actualColumn(line, d.Column)
	underline := strings.Repeat(" ", lineNumWidth+3+actualCol) +
		f.colorize(strings.Repeat("^", length), ColorRed)
	sb.WriteString(underline + "\n")

	return sb.String()
}

// expandTabs 展开 Tab 为空格
func (f *Formatter) expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", f.TabWidth))
}

// actualColumn 计算 Tab 展开后的实际列位置
func (f *Formatter) actualColumn(line string, col int) int {
	if col <= 0 {
		return 0
	}
	actual := 0
	for i := 0; i < col-1 && i < len(line); i++ {
		if line[i] == '\t' {
			actual += f.TabWidth
		} else {
			actual++
		}
	}
	return actual
}

func (f *Formatter) levelColor(l Level) Color {
	switch l {
	case LevelError:
		return ColorRed
	case LevelWarning:
		return ColorYellow
	default:
		return ColorCyan
	}
}

func (f *Formatter) colorize(s string, color Color) string {
	if !f.Colors {
		return s
	}
	return Colorize(s, color)
}
