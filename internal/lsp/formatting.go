package lsp

import (
	"go.lsp.dev/protocol"

	"github.com/tangzhangming/regal/internal/formatter"
)

// formattingFor 计算整篇文档的格式化编辑
//
// 解析失败时返回 nil，客户端保持原文不动。
// 编辑是整文替换，范围覆盖到最后一行之后。
func formattingFor(doc *Document) []protocol.TextEdit {
	formatted, err := formatter.FormatWithDefaultOptions(doc.Text, doc.Path)
	if err != nil {
		return nil
	}
	if formatted == doc.Text {
		return []protocol.TextEdit{}
	}

	return []protocol.TextEdit{
		{
			Range: protocol.Range{
				Start: protocol.Position{Line: 0, Character: 0},
				End:   protocol.Position{Line: uint32(len(doc.Lines)), Character: 0},
			},
			NewText: formatted,
		},
	}
}
