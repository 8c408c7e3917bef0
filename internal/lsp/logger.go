package lsp

import (
	"go.uber.org/zap"
)

// NewLogger 创建语言服务器日志器
//
// stdout 被协议流占用，日志只能写文件。
// path 为空时返回静默日志器。
func NewLogger(path string) (*zap.SugaredLogger, error) {
	if path == "" {
		return zap.NewNop().Sugar(), nil
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}

	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}
