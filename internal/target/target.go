// target.go - 伪目标代码生成
//
// 把分配完寄存器的基本块落成两地址伪汇编。指令形式：
//
//	OP            （如 NEG R0 之前无操作数的情形不存在，这里仅为完整性）
//	OP src
//	OP src,dst    含义：dst = dst OP src
//
// 操作数写法：#n 立即数，R<i> 寄存器，裸名字是该变量的内存单元。
//
// 序言从内存装载入口活跃变量，尾声把出口活跃变量写回内存；
// 块内每条三地址指令按目标寄存器展开，遇到目标寄存器与源操作数
// 重合的情况做专门处理（见 emitBinary）。

package target

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/tangzhangming/regal/internal/ir"
	"github.com/tangzhangming/regal/internal/liveness"
	"github.com/tangzhangming/regal/internal/regalloc"
)

// 伪汇编操作码
const (
	MOV = "MOV"
	ADD = "ADD"
	SUB = "SUB"
	MUL = "MUL"
	DIV = "DIV"
	NEG = "NEG"
)

// opcodes 三地址运算符到操作码的映射
var opcodes = map[string]string{
	"+": ADD,
	"-": SUB,
	"*": MUL,
	"/": DIV,
}

// AsmInstruction 一条伪汇编指令
//
// 支持三种形式：只有操作码、单操作数、src 和 dst 双操作数。
type AsmInstruction struct {
	Opcode string
	Src    string
	Dst    string
}

// String 渲染指令：'OP'、'OP src' 或 'OP src,dst'
func (a AsmInstruction) String() string {
	if a.Src == "" && a.Dst == "" {
		return a.Opcode
	}
	if a.Dst == "" {
		return a.Opcode + " " + a.Src
	}
	return a.Opcode + " " + a.Src + "," + a.Dst
}

// TargetCode 一个基本块对应的伪汇编序列
type TargetCode struct {
	instructions []AsmInstruction
}

// Add 追加一条指令
func (t *TargetCode) Add(in AsmInstruction) {
	t.instructions = append(t.instructions, in)
}

// Instructions 返回指令序列；调用方不得修改
func (t *TargetCode) Instructions() []AsmInstruction {
	return t.instructions
}

// Len 返回指令条数
func (t *TargetCode) Len() int {
	return len(t.instructions)
}

// String 渲染为换行分隔的汇编文本（适合写 .s 文件）
func (t *TargetCode) String() string {
	lines := make([]string, len(t.instructions))
	for i, in := range t.instructions {
		lines[i] = in.String()
	}
	return strings.Join(lines, "\n")
}

// ============================================================================
// 代码生成
// ============================================================================

// emitter 携带一次代码生成的上下文
type emitter struct {
	code *TargetCode
	res  *regalloc.Result
}

// Emit 把基本块展开为伪目标代码
//
// res 必须是对同一个块的冲突图做 Allocate 得到的可行结果；
// 不可行的结果或缺少寄存器指派的变量会返回错误。
func Emit(block *ir.Block, inf *liveness.Info, res *regalloc.Result) (*TargetCode, error) {
	if !res.Feasible {
		return nil, fmt.Errorf("target: allocation result is not feasible")
	}

	e := &emitter{code: &TargetCode{}, res: res}

	// 序言：入口活跃变量从内存装载到各自的寄存器
	for _, v := range sortedVars(inf.Entry().ToSlice()) {
		reg, err := e.register(v)
		if err != nil {
			return nil, err
		}
		e.code.Add(AsmInstruction{Opcode: MOV, Src: v, Dst: reg})
	}

	for _, in := range block.Instructions() {
		if err := e.instruction(in); err != nil {
			return nil, err
		}
	}

	// 尾声：出口活跃变量写回各自的内存单元
	for _, v := range sortedVars(block.LiveOut()) {
		reg, err := e.register(v)
		if err != nil {
			return nil, err
		}
		e.code.Add(AsmInstruction{Opcode: MOV, Src: reg, Dst: v})
	}

	return e.code, nil
}

// instruction 展开一条三地址指令
func (e *emitter) instruction(in ir.Instruction) error {
	rd, err := e.register(in.Dst())
	if err != nil {
		return err
	}

	switch in.Kind() {
	case ir.Copy:
		return e.emitCopy(in, rd)
	case ir.Negate:
		return e.emitNegate(in, rd)
	case ir.Binary:
		return e.emitBinary(in, rd)
	default:
		return fmt.Errorf("target: unknown instruction kind %s", in.Kind())
	}
}

// emitCopy dst = src
//
// 源已经在目标寄存器里时整条指令是空操作，直接省略。
func (e *emitter) emitCopy(in ir.Instruction, rd string) error {
	src, inRd, err := e.operand(in.Src1(), rd)
	if err != nil {
		return err
	}
	if inRd {
		return nil
	}
	e.code.Add(AsmInstruction{Opcode: MOV, Src: src, Dst: rd})
	return nil
}

// emitNegate dst = -src
func (e *emitter) emitNegate(in ir.Instruction, rd string) error {
	src, inRd, err := e.operand(in.Src1(), rd)
	if err != nil {
		return err
	}
	if !inRd {
		e.code.Add(AsmInstruction{Opcode: MOV, Src: src, Dst: rd})
	}
	e.code.Add(AsmInstruction{Opcode: NEG, Src: rd})
	return nil
}

// emitBinary dst = src1 op src2
//
// 常规展开是 MOV src1,Rd 再 OP src2,Rd。当某个源操作数恰好
// 住在 Rd 里时（分配器允许和 dst 同寄存器的操作数在本指令
// 处死亡），MOV 会先破坏它，需要分情况处理：
//
//   - src1 在 Rd：省略 MOV，直接 OP src2,Rd
//   - src2 在 Rd 且 op 可交换（+ *）：OP src1,Rd
//   - src2 在 Rd 且 op 是减法：SUB src1,Rd 得到 src2-src1，再 NEG Rd
//   - src2 在 Rd 且 op 是除法：借 dst 的内存单元当暂存，
//     先把 src2 写进去，再常规展开
func (e *emitter) emitBinary(in ir.Instruction, rd string) error {
	opcode, ok := opcodes[in.Operator()]
	if !ok {
		return fmt.Errorf("target: unknown operator %q", in.Operator())
	}

	src1, src1InRd, err := e.operand(in.Src1(), rd)
	if err != nil {
		return err
	}
	src2, src2InRd, err := e.operand(in.Src2(), rd)
	if err != nil {
		return err
	}

	if src1InRd {
		e.code.Add(AsmInstruction{Opcode: opcode, Src: src2, Dst: rd})
		return nil
	}

	if src2InRd {
		switch opcode {
		case ADD, MUL:
			e.code.Add(AsmInstruction{Opcode: opcode, Src: src1, Dst: rd})
		case SUB:
			e.code.Add(AsmInstruction{Opcode: SUB, Src: src1, Dst: rd})
			e.code.Add(AsmInstruction{Opcode: NEG, Src: rd})
		case DIV:
			mem := in.Dst()
			e.code.Add(AsmInstruction{Opcode: MOV, Src: rd, Dst: mem})
			e.code.Add(AsmInstruction{Opcode: MOV, Src: src1, Dst: rd})
			e.code.Add(AsmInstruction{Opcode: DIV, Src: mem, Dst: rd})
		}
		return nil
	}

	e.code.Add(AsmInstruction{Opcode: MOV, Src: src1, Dst: rd})
	e.code.Add(AsmInstruction{Opcode: opcode, Src: src2, Dst: rd})
	return nil
}

// operand 把三地址操作数转成伪汇编操作数
//
// 返回值 inRd 表示该操作数是变量且恰好住在 rd 里。
func (e *emitter) operand(tok, rd string) (string, bool, error) {
	if ir.IsConstant(tok) {
		return "#" + tok, false, nil
	}
	reg, err := e.register(tok)
	if err != nil {
		return "", false, err
	}
	return reg, reg == rd, nil
}

// register 查询变量的寄存器名（R<i>）
func (e *emitter) register(v string) (string, error) {
	reg, ok := e.res.Assignment[v]
	if !ok {
		return "", fmt.Errorf("target: variable %s has no register", v)
	}
	return "R" + strconv.Itoa(reg), nil
}

// sortedVars 过滤出变量并按名字排序，保证输出稳定
func sortedVars(names []string) []string {
	vars := make([]string, 0, len(names))
	for _, n := range names {
		if ir.IsVariable(n) {
			vars = append(vars, n)
		}
	}
	sort.Strings(vars)
	return vars
}
