package errors

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/tangzhangming/regal/internal/i18n"
)

// ============================================================================
// 诊断报告器
// ============================================================================

// Reporter 诊断报告器
//
// 收集诊断并渲染到输出流（默认 stderr）。
// 源代码按文件名缓存，供格式化器打印出错行。
type Reporter struct {
	formatter   *Formatter
	out         io.Writer
	sourceCache map[string][]string
	errors      []*Diagnostic
}

// NewReporter 创建诊断报告器
func NewReporter() *Reporter {
	return &Reporter{
		formatter:   NewFormatter(),
		out:         os.Stderr,
		sourceCache: make(map[string][]string),
	}
}

// SetFormatter 设置格式化器
func (r *Reporter) SetFormatter(f *Formatter) {
	r.formatter = f
}

// SetOutput 设置输出流
func (r *Reporter) SetOutput(w io.Writer) {
	r.out = w
}

// ============================================================================
// 源代码缓存
// ============================================================================

// LoadSource 从磁盘加载源文件
func (r *Reporter) LoadSource(filename string) error {
	if _, ok := r.sourceCache[filename]; ok {
		return nil // 已加载
	}

	file, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	r.sourceCache[filename] = lines
	return nil
}

// SetSource 设置源代码（REPL、LSP 和测试的源码在内存中）
func (r *Reporter) SetSource(filename, content string) {
	r.sourceCache[filename] = strings.Split(content, "\n")
}

// GetSourceLine 获取某一行源代码
func (r *Reporter) GetSourceLine(filename string, line int) string {
	if lines, ok := r.sourceCache[filename]; ok {
		if line > 0 && line <= len(lines) {
			return lines[line-1]
		}
	}
	return ""
}

// GetSourceLines 获取源代码行数组
func (r *Reporter) GetSourceLines(filename string) []string {
	return r.sourceCache[filename]
}

// ============================================================================
// 报告
// ============================================================================

// Report 报告一条诊断并立即渲染
func (r *Reporter) Report(d *Diagnostic) {
	// 尽力加载源文件；内存中的源码已由 SetSource 提供
	if d.File != "" {
		r.LoadSource(d.File)
	}

	if d.Level == LevelError {
		r.errors = append(r.errors, d)
	}

	fmt.Fprint(r.out, r.formatter.Format(d, r.GetSourceLines(d.File)))
	fmt.Fprintln(r.out)
}

// Summary 输出错误计数行
func (r *Reporter) Summary() {
	if len(r.errors) == 0 {
		return
	}
	msg := i18n.T(i18n.MsgErrorCount, len(r.errors))
	fmt.Fprintln(r.out, r.formatter.colorize(msg, ColorRed))
}

// ============================================================================
// 状态查询
// ============================================================================

// HasErrors 是否有错误
func (r *Reporter) HasErrors() bool {
	return len(r.errors) > 0
}

// ErrorCount 错误数量
func (r *Reporter) ErrorCount() int {
	return len(r.errors)
}

// Errors 获取所有错误
func (r *Reporter) Errors() []*Diagnostic {
	return r.errors
}

// Clear 清空错误
func (r *Reporter) Clear() {
	r.errors = nil
}
