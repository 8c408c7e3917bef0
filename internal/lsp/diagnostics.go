package lsp

import (
	"strings"

	"go.lsp.dev/protocol"
)

const diagnosticSource = "regal"

// diagnosticsFor 把文档的解析错误转换为 LSP 诊断
//
// 总是返回非 nil 切片：空切片发布出去会清掉客户端的旧诊断。
func diagnosticsFor(doc *Document) []protocol.Diagnostic {
	_, errs := doc.Analysis()

	diags := make([]protocol.Diagnostic, 0, len(errs))
	for _, e := range errs {
		endCol := e.EndColumn
		if endCol <= e.Pos.Column {
			endCol = e.Pos.Column + 1
		}

		msg := e.Message
		for _, hint := range e.Hints {
			msg += "\nhelp: " + hint
		}

		diags = append(diags, protocol.Diagnostic{
			Range: protocol.Range{
				Start: protocol.Position{
					Line:      zeroBased(e.Pos.Line),
					Character: zeroBased(e.Pos.Column),
				},
				End: protocol.Position{
					Line:      zeroBased(e.Pos.Line),
					Character: zeroBased(endCol),
				},
			},
			Severity: severityOf(e.Code),
			Code:     e.Code,
			Source:   diagnosticSource,
			Message:  msg,
		})
	}
	return diags
}

// severityOf 根据诊断码前缀决定严重程度
func severityOf(code string) protocol.DiagnosticSeverity {
	switch {
	case strings.HasPrefix(code, "W"):
		return protocol.DiagnosticSeverityWarning
	case strings.HasPrefix(code, "H"):
		return protocol.DiagnosticSeverityHint
	default:
		return protocol.DiagnosticSeverityError
	}
}

// zeroBased 把 1-based 的行列号转成 LSP 的 0-based
func zeroBased(n int) uint32 {
	if n <= 1 {
		return 0
	}
	return uint32(n - 1)
}
