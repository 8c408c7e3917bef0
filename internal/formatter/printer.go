package formatter

import (
	"strings"

	"github.com/tangzhangming/regal/internal/ir"
)

// Printer 规范化打印器
type Printer struct {
	options *Options
}

// NewPrinter 创建打印器
func NewPrinter(options *Options) *Printer {
	if options == nil {
		options = DefaultOptions()
	}
	return &Printer{options: options}
}

// Print 打印整个基本块
//
// 每行一条指令，live 行在最后。顺序和 live 变量的书写顺序保持不变，
// 格式化只规范空白。
func (p *Printer) Print(block *ir.Block) string {
	var sb strings.Builder

	dstWidth := 0
	if p.options.AlignAssignments {
		for _, in := range block.Instructions() {
			if len(in.Dst()) > dstWidth {
				dstWidth = len(in.Dst())
			}
		}
	}

	for _, in := range block.Instructions() {
		sb.WriteString(p.printInstruction(in, dstWidth))
		sb.WriteByte('\n')
	}

	sb.WriteString("live: ")
	sb.WriteString(strings.Join(block.LiveOut(), ", "))

	if p.options.EnsureNewlineAtEOF {
		sb.WriteByte('\n')
	}
	return sb.String()
}

// printInstruction 打印一条指令
func (p *Printer) printInstruction(in ir.Instruction, dstWidth int) string {
	dst := in.Dst()
	if dstWidth > len(dst) {
		dst += strings.Repeat(" ", dstWidth-len(dst))
	}

	assign := "="
	if p.options.SpaceAroundOps {
		assign = " = "
	}

	switch in.Kind() {
	case ir.Negate:
		return dst + assign + "-" + in.Src1()
	case ir.Binary:
		op := in.Operator()
		if p.options.SpaceAroundOps {
			op = " " + op + " "
		}
		return dst + assign + in.Src1() + op + in.Src2()
	default:
		return dst + assign + in.Src1()
	}
}
