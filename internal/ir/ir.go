// ir.go - 三地址码中间表示
//
// 定义单个基本块的中间表示：
// - Instruction：一条三地址指令（复制 / 一元取负 / 二元运算）
// - Block：指令序列 + 出口活跃变量（live-out）
//
// 解析逻辑不属于本包，见 internal/parser。

package ir

import (
	"sort"
	"strings"

	"github.com/tangzhangming/regal/internal/token"

	mapset "github.com/deckarep/golang-set/v2"
)

// ============================================================================
// 词元分类
// ============================================================================
//
// 操作数既可能是变量也可能是整数常量。活跃性分析与冲突图的结点集
// 只关心变量，所以分类规则必须全局唯一：
//
//   变量：  t 后跟一个或多个十进制数字（临时变量，如 t1、t42），
//          或除 't' 以外的单个小写字母（命名变量，如 a、x）
//   常量：  可选的前导负号后跟一个或多个十进制数字（如 10、-3）
//
// 其它形状的词元既不是变量也不是常量（由解析阶段拒绝）。

// IsVariable 判断词元是否为变量名
func IsVariable(tok string) bool {
	if len(tok) == 0 {
		return false
	}
	if len(tok) == 1 {
		c := tok[0]
		return c >= 'a' && c <= 'z' && c != 't'
	}
	if tok[0] != 't' {
		return false
	}
	for i := 1; i < len(tok); i++ {
		if tok[i] < '0' || tok[i] > '9' {
			return false
		}
	}
	return true
}

// IsConstant 判断词元是否为整数常量
func IsConstant(tok string) bool {
	if len(tok) == 0 {
		return false
	}
	i := 0
	if tok[0] == '-' {
		if len(tok) == 1 {
			return false
		}
		i = 1
	}
	for ; i < len(tok); i++ {
		if tok[i] < '0' || tok[i] > '9' {
			return false
		}
	}
	return true
}

// ============================================================================
// 指令
// ============================================================================

// OpKind 指令形态
//
// 用标签区分三种形态，而不是通过字段判空推断，
// 让"有运算符却缺操作数"这类非法状态无法构造出来。
type OpKind int

const (
	Copy   OpKind = iota // dst = src
	Negate               // dst = -src
	Binary               // dst = src1 op src2
)

// String 返回指令形态的可读名称
func (k OpKind) String() string {
	switch k {
	case Copy:
		return "copy"
	case Negate:
		return "negate"
	case Binary:
		return "binary"
	default:
		return "unknown"
	}
}

// Instruction 一条三地址指令（不可变值）
//
// 不变式：恰好一个目标变量；Copy/Negate 只有 src1；
// Binary 同时具有 src1、运算符（+ - * /）和 src2。
type Instruction struct {
	kind OpKind
	dst  string // 目标，总是变量
	src1 string // 第一操作数：变量或常量
	op   string // 运算符，仅 Binary 形态有效
	src2 string // 第二操作数，仅 Binary 形态有效
	pos  token.Position
}

// NewCopy 构造 dst = src
func NewCopy(dst, src string, pos token.Position) Instruction {
	return Instruction{kind: Copy, dst: dst, src1: src, pos: pos}
}

// NewNegate 构造 dst = -src
func NewNegate(dst, src string, pos token.Position) Instruction {
	return Instruction{kind: Negate, dst: dst, src1: src, pos: pos}
}

// NewBinary 构造 dst = src1 op src2，op 取 + - * / 之一
func NewBinary(dst, src1, op, src2 string, pos token.Position) Instruction {
	return Instruction{kind: Binary, dst: dst, src1: src1, op: op, src2: src2, pos: pos}
}

// Kind 返回指令形态
func (in Instruction) Kind() OpKind { return in.kind }

// Dst 返回目标变量名
func (in Instruction) Dst() string { return in.dst }

// Src1 返回第一操作数
func (in Instruction) Src1() string { return in.src1 }

// Operator 返回二元运算符；非 Binary 形态返回空串
func (in Instruction) Operator() string { return in.op }

// Src2 返回第二操作数；非 Binary 形态返回空串
func (in Instruction) Src2() string { return in.src2 }

// Pos 返回指令在源码中的位置
func (in Instruction) Pos() token.Position { return in.pos }

// Defs 返回指令定义（写入）的变量
//
// 每条指令都恰好写一个目标变量。
func (in Instruction) Defs() string { return in.dst }

// Uses 返回指令读取的变量（按分类规则过滤掉常量，去重）
func (in Instruction) Uses() []string {
	var uses []string
	if IsVariable(in.src1) {
		uses = append(uses, in.src1)
	}
	if in.kind == Binary && IsVariable(in.src2) && in.src2 != in.src1 {
		uses = append(uses, in.src2)
	}
	return uses
}

// Operands 返回指令的所有源操作数（变量和常量都含）
func (in Instruction) Operands() []string {
	if in.kind == Binary {
		return []string{in.src1, in.src2}
	}
	return []string{in.src1}
}

// String 按输入格式渲染指令
func (in Instruction) String() string {
	switch in.kind {
	case Negate:
		return in.dst + " = -" + in.src1
	case Binary:
		return in.dst + " = " + in.src1 + " " + in.op + " " + in.src2
	default:
		return in.dst + " = " + in.src1
	}
}

// ============================================================================
// 基本块
// ============================================================================

// Block 一个基本块：顺序指令序列 + 出口活跃变量
//
// Block 由解析阶段（或 REPL）构建；构建完成后，下游分析
// 只读访问。每个 Block 拥有自己新分配的容器，不与其它
// Block 共享。
type Block struct {
	instrs  []Instruction
	liveOut []string // 保留书写顺序，便于按原样回显
}

// NewBlock 构造基本块，复制传入的切片
func NewBlock(instrs []Instruction, liveOut []string) *Block {
	b := &Block{
		instrs:  make([]Instruction, len(instrs)),
		liveOut: make([]string, len(liveOut)),
	}
	copy(b.instrs, instrs)
	copy(b.liveOut, liveOut)
	return b
}

// Append 在块尾追加一条指令
func (b *Block) Append(in Instruction) {
	b.instrs = append(b.instrs, in)
}

// SetLiveOut 设置出口活跃变量列表（复制）
func (b *Block) SetLiveOut(names []string) {
	b.liveOut = make([]string, len(names))
	copy(b.liveOut, names)
}

// Instructions 返回指令序列；调用方不得修改
func (b *Block) Instructions() []Instruction { return b.instrs }

// Len 返回指令条数
func (b *Block) Len() int { return len(b.instrs) }

// LiveOut 返回出口活跃变量（书写顺序）；调用方不得修改
func (b *Block) LiveOut() []string { return b.liveOut }

// LiveOutSet 返回出口活跃变量的集合视图（新分配）
func (b *Block) LiveOutSet() mapset.Set[string] {
	s := mapset.NewThreadUnsafeSet[string]()
	for _, name := range b.liveOut {
		s.Add(name)
	}
	return s
}

// Variables 返回块中出现过的全部变量名（目标与变量操作数），按字典序
func (b *Block) Variables() []string {
	s := mapset.NewThreadUnsafeSet[string]()
	for _, in := range b.instrs {
		s.Add(in.dst)
		for _, op := range in.Operands() {
			if IsVariable(op) {
				s.Add(op)
			}
		}
	}
	names := s.ToSlice()
	sort.Strings(names)
	return names
}

// Mentions 判断名字是否在块中作为目标或操作数出现过
//
// 解析阶段用它校验 live 行：live 变量必须在块中出现。
func (b *Block) Mentions(name string) bool {
	for _, in := range b.instrs {
		if in.dst == name {
			return true
		}
		for _, op := range in.Operands() {
			if op == name {
				return true
			}
		}
	}
	return false
}

// String 按输入格式渲染整个基本块（含 live 行）
func (b *Block) String() string {
	var sb strings.Builder
	for _, in := range b.instrs {
		sb.WriteString(in.String())
		sb.WriteByte('\n')
	}
	sb.WriteString("live: ")
	sb.WriteString(strings.Join(b.liveOut, ", "))
	return sb.String()
}
