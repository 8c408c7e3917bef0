package formatter

// Options 格式化选项
type Options struct {
	SpaceAroundOps     bool // 运算符周围是否有空格 (a = b + c vs a=b+c)
	AlignAssignments   bool // 对齐赋值：目标变量补齐到同一列
	EnsureNewlineAtEOF bool // 确保末尾有换行符
}

// DefaultOptions 返回默认格式化选项
func DefaultOptions() *Options {
	return &Options{
		SpaceAroundOps:     true,
		AlignAssignments:   false,
		EnsureNewlineAtEOF: true,
	}
}
