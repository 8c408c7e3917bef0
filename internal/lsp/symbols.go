package lsp

import (
	"go.lsp.dev/protocol"
)

// symbolsFor 把块中每个变量的首次定义列为文档符号
//
// 只使用不定义的变量（入口活跃变量）没有定义点，不列出。
func symbolsFor(doc *Document) []protocol.DocumentSymbol {
	block, _ := doc.Analysis()
	if block == nil {
		return []protocol.DocumentSymbol{}
	}

	symbols := make([]protocol.DocumentSymbol, 0, block.Len())
	seen := make(map[string]bool)

	for _, in := range block.Instructions() {
		name := in.Dst()
		if seen[name] {
			continue
		}
		seen[name] = true

		line := zeroBased(in.Pos().Line)
		col := zeroBased(in.Pos().Column)
		selection := protocol.Range{
			Start: protocol.Position{Line: line, Character: col},
			End:   protocol.Position{Line: line, Character: col + uint32(len(name))},
		}

		symbols = append(symbols, protocol.DocumentSymbol{
			Name:   name,
			Detail: in.String(),
			Kind:   protocol.SymbolKindVariable,
			Range: protocol.Range{
				Start: protocol.Position{Line: line, Character: 0},
				End:   protocol.Position{Line: line, Character: uint32(len(doc.Line(int(line))))},
			},
			SelectionRange: selection,
		})
	}
	return symbols
}
