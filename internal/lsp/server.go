// server.go - regal 语言服务器
//
// JSON-RPC 流跑在 stdio 上，文档全量同步。
// 提供的能力：
//   - 诊断：词法/语法错误随 didOpen/didChange/didSave 推送
//   - 悬停：变量的活跃性集合、冲突邻居和寄存器指派
//   - 文档符号：块中每个变量的定义点
//   - 格式化：整篇重排为规范排版
package lsp

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/segmentio/encoding/json"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.uber.org/zap"
)

const (
	serverName    = "regals"
	serverVersion = "0.1.0"
)

// Server 语言服务器
type Server struct {
	conn      jsonrpc2.Conn
	docs      *DocumentManager
	logger    *zap.SugaredLogger
	registers int

	workspaceRoot string
	initialized   bool
	shutdown      bool
}

// NewServer 创建语言服务器
//
// registers 是悬停信息演示分配时用的寄存器数量。
func NewServer(logger *zap.SugaredLogger, registers int) *Server {
	return &Server{
		docs:      NewDocumentManager(logger),
		logger:    logger,
		registers: registers,
	}
}

// Run 在 rwc 上服务 JSON-RPC，直到客户端断开或发来 exit
func (s *Server) Run(ctx context.Context, rwc io.ReadWriteCloser) error {
	conn := jsonrpc2.NewConn(jsonrpc2.NewStream(rwc))
	s.conn = conn

	s.logger.Infof("%s %s started (k=%d)", serverName, serverVersion, s.registers)

	conn.Go(ctx, s.handle)
	<-conn.Done()

	if !s.shutdown {
		return fmt.Errorf("connection closed without shutdown request")
	}
	s.logger.Info("server stopped")
	return nil
}

// handle 按方法分发请求
func (s *Server) handle(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	s.logger.Debugf("request: %s", req.Method())

	switch req.Method() {
	case protocol.MethodInitialize:
		return s.handleInitialize(ctx, reply, req)

	case protocol.MethodInitialized:
		s.initialized = true
		s.logger.Info("client initialized")
		return reply(ctx, nil, nil)

	case protocol.MethodShutdown:
		s.shutdown = true
		s.logger.Info("shutdown requested")
		return reply(ctx, nil, nil)

	case protocol.MethodExit:
		err := reply(ctx, nil, nil)
		s.conn.Close()
		return err

	case protocol.MethodTextDocumentDidOpen:
		return s.handleDidOpen(ctx, reply, req)

	case protocol.MethodTextDocumentDidChange:
		return s.handleDidChange(ctx, reply, req)

	case protocol.MethodTextDocumentDidSave:
		return s.handleDidSave(ctx, reply, req)

	case protocol.MethodTextDocumentDidClose:
		return s.handleDidClose(ctx, reply, req)

	case protocol.MethodTextDocumentHover:
		return s.handleHover(ctx, reply, req)

	case protocol.MethodTextDocumentDocumentSymbol:
		return s.handleDocumentSymbol(ctx, reply, req)

	case protocol.MethodTextDocumentFormatting:
		return s.handleFormatting(ctx, reply, req)

	default:
		s.logger.Debugf("unhandled method: %s", req.Method())
		return reply(ctx, nil, jsonrpc2.ErrMethodNotFound)
	}
}

// ============================================================================
// 生命周期
// ============================================================================

func (s *Server) handleInitialize(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.InitializeParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return reply(ctx, nil, fmt.Errorf("%w: %v", jsonrpc2.ErrParse, err))
	}

	if params.RootURI != "" {
		s.workspaceRoot = pathOf(params.RootURI)
	}
	s.logger.Infof("initialize: workspace=%s", s.workspaceRoot)

	result := protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: protocol.TextDocumentSyncOptions{
				OpenClose: true,
				Change:    protocol.TextDocumentSyncKindFull,
				Save:      &protocol.SaveOptions{IncludeText: true},
			},
			HoverProvider:              true,
			DocumentSymbolProvider:     true,
			DocumentFormattingProvider: true,
		},
		ServerInfo: &protocol.ServerInfo{
			Name:    serverName,
			Version: serverVersion,
		},
	}
	return reply(ctx, result, nil)
}

// ============================================================================
// 文档同步
// ============================================================================

func (s *Server) handleDidOpen(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.DidOpenTextDocumentParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		s.logger.Errorf("didOpen params: %v", err)
		return reply(ctx, nil, nil)
	}

	doc := s.docs.Open(params.TextDocument.URI, params.TextDocument.Text, params.TextDocument.Version)
	s.publishDiagnostics(ctx, doc)
	return reply(ctx, nil, nil)
}

func (s *Server) handleDidChange(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.DidChangeTextDocumentParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		s.logger.Errorf("didChange params: %v", err)
		return reply(ctx, nil, nil)
	}

	// 全量同步：取第一个变更的完整文本
	if len(params.ContentChanges) > 0 {
		doc := s.docs.Update(params.TextDocument.URI, params.ContentChanges[0].Text, params.TextDocument.Version)
		if doc != nil {
			s.publishDiagnostics(ctx, doc)
		}
	}
	return reply(ctx, nil, nil)
}

func (s *Server) handleDidSave(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.DidSaveTextDocumentParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		s.logger.Errorf("didSave params: %v", err)
		return reply(ctx, nil, nil)
	}

	if params.Text != "" {
		if doc := s.docs.Get(params.TextDocument.URI); doc != nil {
			updated := s.docs.Update(params.TextDocument.URI, params.Text, doc.Version+1)
			s.publishDiagnostics(ctx, updated)
		}
	}
	return reply(ctx, nil, nil)
}

func (s *Server) handleDidClose(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.DidCloseTextDocumentParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		s.logger.Errorf("didClose params: %v", err)
		return reply(ctx, nil, nil)
	}

	s.docs.Close(params.TextDocument.URI)

	// 清掉客户端残留的诊断
	s.notifyDiagnostics(ctx, params.TextDocument.URI, []protocol.Diagnostic{})
	return reply(ctx, nil, nil)
}

// ============================================================================
// 语言功能
// ============================================================================

func (s *Server) handleHover(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.HoverParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return reply(ctx, nil, fmt.Errorf("%w: %v", jsonrpc2.ErrParse, err))
	}

	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return reply(ctx, nil, nil)
	}
	return reply(ctx, hoverFor(doc, int(params.Position.Line), int(params.Position.Character), s.registers), nil)
}

func (s *Server) handleDocumentSymbol(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.DocumentSymbolParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return reply(ctx, nil, fmt.Errorf("%w: %v", jsonrpc2.ErrParse, err))
	}

	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return reply(ctx, []protocol.DocumentSymbol{}, nil)
	}
	return reply(ctx, symbolsFor(doc), nil)
}

func (s *Server) handleFormatting(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.DocumentFormattingParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return reply(ctx, nil, fmt.Errorf("%w: %v", jsonrpc2.ErrParse, err))
	}

	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return reply(ctx, nil, nil)
	}
	return reply(ctx, formattingFor(doc), nil)
}

// ============================================================================
// 诊断推送
// ============================================================================

func (s *Server) publishDiagnostics(ctx context.Context, doc *Document) {
	diags := diagnosticsFor(doc)
	s.notifyDiagnostics(ctx, doc.URI, diags)
	s.logger.Debugf("published %d diagnostic(s) for %s", len(diags), doc.URI)
}

func (s *Server) notifyDiagnostics(ctx context.Context, docURI protocol.DocumentURI, diags []protocol.Diagnostic) {
	params := &protocol.PublishDiagnosticsParams{
		URI:         docURI,
		Diagnostics: diags,
	}
	if err := s.conn.Notify(ctx, protocol.MethodTextDocumentPublishDiagnostics, params); err != nil {
		s.logger.Errorf("publish diagnostics: %v", err)
	}
}

// ============================================================================
// stdio 流
// ============================================================================

type stdio struct{}

func (stdio) Read(p []byte) (int, error)  { return os.Stdin.Read(p) }
func (stdio) Write(p []byte) (int, error) { return os.Stdout.Write(p) }

func (stdio) Close() error {
	if err := os.Stdin.Close(); err != nil {
		return err
	}
	return os.Stdout.Close()
}

// Stdio 把标准输入输出组合成协议流
func Stdio() io.ReadWriteCloser {
	return stdio{}
}
