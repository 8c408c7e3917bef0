package lsp

import (
	"strings"
	"sync"

	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"
	"go.uber.org/zap"

	"github.com/tangzhangming/regal/internal/ir"
	"github.com/tangzhangming/regal/internal/parser"
)

// Document 表示一个打开的文档
type Document struct {
	URI     protocol.DocumentURI
	Path    string
	Text    string
	Version int32
	Lines   []string

	// 延迟解析的基本块
	block  *ir.Block
	errs   []parser.Error
	parsed bool
	mu     sync.Mutex
}

// Analysis 获取文档的基本块与解析错误（延迟解析）
//
// 解析失败时 block 为解析器尽力恢复出的部分块，errs 非空。
func (d *Document) Analysis() (*ir.Block, []parser.Error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.parsed {
		p := parser.New(d.Text, d.Path)
		d.block = p.Parse()
		d.errs = p.Errors()
		d.parsed = true
	}
	return d.block, d.errs
}

// Invalidate 标记文档需要重新解析
func (d *Document) Invalidate() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.parsed = false
	d.block = nil
	d.errs = nil
}

// Line 获取某一行内容（0-based），越界返回空串
func (d *Document) Line(n int) string {
	if n < 0 || n >= len(d.Lines) {
		return ""
	}
	return d.Lines[n]
}

// DocumentManager 文档管理器
type DocumentManager struct {
	docs   map[protocol.DocumentURI]*Document
	mu     sync.Mutex
	logger *zap.SugaredLogger
}

// NewDocumentManager 创建文档管理器
func NewDocumentManager(logger *zap.SugaredLogger) *DocumentManager {
	return &DocumentManager{
		docs:   make(map[protocol.DocumentURI]*Document),
		logger: logger,
	}
}

// Open 打开文档
func (dm *DocumentManager) Open(docURI protocol.DocumentURI, text string, version int32) *Document {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	// 已打开则更新内容
	if doc, exists := dm.docs[docURI]; exists {
		doc.Text = text
		doc.Version = version
		doc.Lines = splitLines(text)
		doc.Invalidate()
		dm.logger.Debugf("document reopened: %s (version %d)", docURI, version)
		return doc
	}

	doc := &Document{
		URI:     docURI,
		Path:    pathOf(docURI),
		Text:    text,
		Version: version,
		Lines:   splitLines(text),
	}
	dm.docs[docURI] = doc
	dm.logger.Debugf("document opened: %s (version %d, %d bytes)", docURI, version, len(text))
	return doc
}

// Update 更新文档内容（完整同步）
func (dm *DocumentManager) Update(docURI protocol.DocumentURI, text string, version int32) *Document {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	doc, exists := dm.docs[docURI]
	if !exists {
		return nil
	}

	doc.Text = text
	doc.Version = version
	doc.Lines = splitLines(text)
	doc.Invalidate()
	dm.logger.Debugf("document updated: %s (version %d)", docURI, version)
	return doc
}

// Close 关闭文档
func (dm *DocumentManager) Close(docURI protocol.DocumentURI) {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	delete(dm.docs, docURI)
	dm.logger.Debugf("document closed: %s (remaining: %d)", docURI, len(dm.docs))
}

// Get 获取文档
func (dm *DocumentManager) Get(docURI protocol.DocumentURI) *Document {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	return dm.docs[docURI]
}

// Count 返回当前打开的文档数量
func (dm *DocumentManager) Count() int {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	return len(dm.docs)
}

// pathOf 将文档 URI 转换为文件路径
//
// 非 file 协议的 URI 原样返回，解析器只把它当文件名用。
func pathOf(docURI protocol.DocumentURI) string {
	u := uri.URI(docURI)
	if !strings.HasPrefix(string(u), "file://") {
		return string(u)
	}
	return u.Filename()
}

// splitLines 将内容按行分割，统一换行符
func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return strings.Split(text, "\n")
}
