// Package project 处理 regal.toml 项目配置
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// 常量定义
const (
	ConfigFileName = "regal.toml" // 配置文件名

	defaultRegisterCount = 4
)

// ErrUnknownProfile 请求的寄存器档案不存在
var ErrUnknownProfile = errors.New("unknown register profile")

// Config 项目配置
type Config struct {
	Registers Registers `toml:"registers"`
	Output    Output    `toml:"output"`
	LSP       LSP       `toml:"lsp"`
}

// Registers 寄存器配置
type Registers struct {
	// Count 机器寄存器数量；0 表示未设置，使用默认值
	Count int `toml:"count"`

	// Profiles 命名档案（档案名 -> 寄存器数），
	// 如 rv32 = 8；通过 alloc -profile <name> 选用
	Profiles map[string]int `toml:"profiles"`
}

// Output 输出配置
type Output struct {
	JSON bool `toml:"json"` // 默认输出 JSON 报告
}

// LSP 语言服务器配置
type LSP struct {
	Log string `toml:"log"` // 日志文件路径；空则不记录
}

// Default 返回默认配置
func Default() *Config {
	return &Config{
		Registers: Registers{Count: defaultRegisterCount},
	}
}

// Load 从文件加载配置
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &config, nil
}

// RegisterCount 解析寄存器数量
//
// profile 非空时查命名档案，找不到返回 ErrUnknownProfile。
// 否则使用 [registers].count；0 视为未设置，落回默认值。
// 负数原样返回，由分配入口统一拒绝。
func (c *Config) RegisterCount(profile string) (int, error) {
	if profile != "" {
		k, ok := c.Registers.Profiles[profile]
		if !ok {
			return 0, fmt.Errorf("%w: %s", ErrUnknownProfile, profile)
		}
		return k, nil
	}

	if c.Registers.Count == 0 {
		return defaultRegisterCount, nil
	}
	return c.Registers.Count, nil
}

// Save 保存配置到文件
func (c *Config) Save(path string) error {
	content := generateConfigWithComments(c)

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// generateConfigWithComments 生成带注释的配置文件内容
func generateConfigWithComments(c *Config) string {
	var sb strings.Builder

	sb.WriteString("[registers]\n")
	sb.WriteString("# 机器寄存器数量\n")
	sb.WriteString(fmt.Sprintf("count = %d\n", c.Registers.Count))

	if len(c.Registers.Profiles) > 0 {
		sb.WriteString("\n# 命名档案：regal alloc -profile <name>\n")
		sb.WriteString("[registers.profiles]\n")
		names := make([]string, 0, len(c.Registers.Profiles))
		for name := range c.Registers.Profiles {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			sb.WriteString(fmt.Sprintf("%s = %d\n", name, c.Registers.Profiles[name]))
		}
	}

	sb.WriteString("\n[output]\n")
	sb.WriteString("# 是否默认输出 JSON 报告\n")
	sb.WriteString(fmt.Sprintf("json = %v\n", c.Output.JSON))

	sb.WriteString("\n[lsp]\n")
	sb.WriteString("# LSP 日志文件路径；留空则不记录\n")
	sb.WriteString(fmt.Sprintf("log = %q\n", c.LSP.Log))

	return sb.String()
}

// Find 从指定路径向上查找配置文件
//
// 返回配置文件的完整路径，找不到则返回空字符串。
func Find(startPath string) string {
	info, err := os.Stat(startPath)
	if err != nil {
		return ""
	}

	var dir string
	if info.IsDir() {
		dir = startPath
	} else {
		dir = filepath.Dir(startPath)
	}

	dir, err = filepath.Abs(dir)
	if err != nil {
		return ""
	}

	for {
		configPath := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// 已到达根目录
			return ""
		}
		dir = parent
	}
}
