// Package formatter 把基本块重新渲染成规范形式
//
// 解析后按统一的空白规则重新打印，指令顺序与 live 变量顺序不变。
// 注释在词法阶段就被丢弃，格式化不保留注释。
package formatter

import (
	"github.com/tangzhangming/regal/internal/parser"
)

// Format 格式化源代码
func Format(source, filename string, options *Options) (string, error) {
	p := parser.New(source, filename)
	block := p.Parse()

	if p.HasErrors() {
		return "", p.Errors()[0]
	}

	printer := NewPrinter(options)
	return printer.Print(block), nil
}

// FormatWithDefaultOptions 使用默认选项格式化
func FormatWithDefaultOptions(source, filename string) (string, error) {
	return Format(source, filename, DefaultOptions())
}
