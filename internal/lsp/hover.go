package lsp

import (
	"fmt"
	"sort"
	"strings"

	"go.lsp.dev/protocol"

	"github.com/tangzhangming/regal/internal/interference"
	"github.com/tangzhangming/regal/internal/ir"
	"github.com/tangzhangming/regal/internal/liveness"
	"github.com/tangzhangming/regal/internal/regalloc"
)

// hoverFor 构造指定位置的悬停信息
//
// 光标下是块中的变量时，返回它的活跃性集合、冲突邻居，
// 以及用配置的寄存器数能分到的寄存器。块有解析错误时不提供悬停。
func hoverFor(doc *Document, line, character, registers int) *protocol.Hover {
	block, errs := doc.Analysis()
	if block == nil || len(errs) > 0 {
		return nil
	}

	lineText := doc.Line(line)
	word, start, end := wordAt(lineText, character)
	if word == "" || !ir.IsVariable(word) || !block.Mentions(word) {
		return nil
	}

	inf := liveness.Analyze(block)
	g := interference.Build(block, inf)

	var sb strings.Builder
	fmt.Fprintf(&sb, "```regal\n%s\n```\n", word)

	neighbors := g.Neighbors(word).ToSlice()
	sort.Strings(neighbors)
	if len(neighbors) > 0 {
		fmt.Fprintf(&sb, "\n**interferes with:** %s\n", strings.Join(neighbors, ", "))
	} else {
		sb.WriteString("\n**interferes with:** (nothing)\n")
	}

	// 光标所在行是指令时给出该点的活跃前后集
	if idx := instructionAt(block, line+1); idx >= 0 {
		fmt.Fprintf(&sb, "\n**live before:** %s\n", liveness.FormatSet(inf.Before[idx]))
		fmt.Fprintf(&sb, "**live after:** %s\n", liveness.FormatSet(inf.After[idx]))
	} else if block.LiveOutSet().Contains(word) {
		sb.WriteString("\n**live at block exit**\n")
	}

	if res, err := regalloc.Allocate(g, registers); err == nil && res.Feasible {
		if reg, ok := res.Assignment[word]; ok {
			fmt.Fprintf(&sb, "\n**register (k=%d):** R%d\n", registers, reg)
		}
	}

	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.Markdown,
			Value: sb.String(),
		},
		Range: &protocol.Range{
			Start: protocol.Position{Line: uint32(line), Character: uint32(start)},
			End:   protocol.Position{Line: uint32(line), Character: uint32(end)},
		},
	}
}

// instructionAt 返回位于指定源码行（1-based）的指令下标，没有返回 -1
func instructionAt(block *ir.Block, srcLine int) int {
	for i, in := range block.Instructions() {
		if in.Pos().Line == srcLine {
			return i
		}
	}
	return -1
}

// isWordChar 判断字符是否属于标识符（字母或数字）
func isWordChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}

// wordAt 获取指定位置（0-based 字符下标）的单词及其起止位置
func wordAt(line string, character int) (word string, start, end int) {
	if character < 0 || character > len(line) {
		return "", 0, 0
	}

	start = character
	for start > 0 && isWordChar(line[start-1]) {
		start--
	}
	end = character
	for end < len(line) && isWordChar(line[end]) {
		end++
	}

	if start >= end {
		return "", 0, 0
	}
	return line[start:end], start, end
}
