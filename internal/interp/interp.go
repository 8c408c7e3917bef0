// interp.go - 参考求值器
//
// 给同一个基本块提供两层可执行语义：
//
//   - EvalBlock 直接按三地址语义求值（dst = src1 op src2）
//   - Machine   执行 target 包生成的两地址伪汇编
//
// 两层用同一套整数语义（int64，除法向零截断），所以同一组
// 入口变量取值下，生成代码跑出来的出口活跃变量必须和源块
// 完全一致。codegen 的测试靠这条性质验证生成器没改变语义。
//
// 读未初始化的寄存器或内存单元是错误而不是取零：
// 生成的代码要是读了没装载过的位置，这里会立刻暴露。

package interp

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tangzhangming/regal/internal/ir"
	"github.com/tangzhangming/regal/internal/target"
)

// EvalBlock 按三地址语义顺序执行基本块
//
// env 提供入口时已有值的变量（至少要覆盖入口活跃变量）。
// 返回执行结束后的完整变量环境；env 本身不会被修改。
func EvalBlock(block *ir.Block, env map[string]int64) (map[string]int64, error) {
	state := make(map[string]int64, len(env)+block.Len())
	for name, v := range env {
		state[name] = v
	}

	for _, in := range block.Instructions() {
		v1, err := operandValue(state, in.Src1())
		if err != nil {
			return nil, err
		}

		switch in.Kind() {
		case ir.Copy:
			state[in.Dst()] = v1
		case ir.Negate:
			state[in.Dst()] = -v1
		case ir.Binary:
			v2, err := operandValue(state, in.Src2())
			if err != nil {
				return nil, err
			}
			res, err := apply(in.Operator(), v1, v2)
			if err != nil {
				return nil, fmt.Errorf("interp: %s: %v", in.String(), err)
			}
			state[in.Dst()] = res
		default:
			return nil, fmt.Errorf("interp: unknown instruction kind %s", in.Kind())
		}
	}

	return state, nil
}

// operandValue 求一个三地址操作数的值：常量解析，变量查环境
func operandValue(state map[string]int64, tok string) (int64, error) {
	if ir.IsConstant(tok) {
		n, err := strconv.ParseInt(tok, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("interp: bad constant %q: %v", tok, err)
		}
		return n, nil
	}
	v, ok := state[tok]
	if !ok {
		return 0, fmt.Errorf("interp: variable %s has no value", tok)
	}
	return v, nil
}

// apply 执行一次二元整数运算
func apply(op string, a, b int64) (int64, error) {
	switch op {
	case "+":
		return a + b, nil
	case "-":
		return a - b, nil
	case "*":
		return a * b, nil
	case "/":
		if b == 0 {
			return 0, fmt.Errorf("division by zero")
		}
		return a / b, nil
	default:
		return 0, fmt.Errorf("unknown operator %q", op)
	}
}

// ============================================================================
// 伪汇编执行机
// ============================================================================

// Machine 两地址伪汇编执行机
//
// 状态只有寄存器组和按名字编址的内存单元。操作数写法与
// target 包一致：#n 立即数，R<i> 寄存器，其余是内存单元名。
type Machine struct {
	regs map[string]int64
	mem  map[string]int64
}

// NewMachine 创建空状态的执行机
func NewMachine() *Machine {
	return &Machine{
		regs: make(map[string]int64),
		mem:  make(map[string]int64),
	}
}

// Store 预置一个内存单元的值（执行前装载入口变量用）
func (m *Machine) Store(cell string, v int64) {
	m.mem[cell] = v
}

// Load 读取一个内存单元，第二个返回值表示是否写过
func (m *Machine) Load(cell string) (int64, bool) {
	v, ok := m.mem[cell]
	return v, ok
}

// Run 顺序执行伪汇编指令
//
// MOV src,dst 写入 dst；ADD/SUB/MUL/DIV src,dst 按
// dst = dst op src 更新；NEG r 原地取负。
func (m *Machine) Run(instrs []target.AsmInstruction) error {
	for _, in := range instrs {
		if err := m.step(in); err != nil {
			return fmt.Errorf("interp: %s: %v", in.String(), err)
		}
	}
	return nil
}

// step 执行一条指令
func (m *Machine) step(in target.AsmInstruction) error {
	switch in.Opcode {
	case target.MOV:
		v, err := m.read(in.Src)
		if err != nil {
			return err
		}
		return m.write(in.Dst, v)

	case target.ADD, target.SUB, target.MUL, target.DIV:
		src, err := m.read(in.Src)
		if err != nil {
			return err
		}
		dst, err := m.read(in.Dst)
		if err != nil {
			return err
		}
		var res int64
		switch in.Opcode {
		case target.ADD:
			res = dst + src
		case target.SUB:
			res = dst - src
		case target.MUL:
			res = dst * src
		case target.DIV:
			if src == 0 {
				return fmt.Errorf("division by zero")
			}
			res = dst / src
		}
		return m.write(in.Dst, res)

	case target.NEG:
		v, err := m.read(in.Src)
		if err != nil {
			return err
		}
		return m.write(in.Src, -v)

	default:
		return fmt.Errorf("unknown opcode %q", in.Opcode)
	}
}

// read 求一个操作数的值
func (m *Machine) read(operand string) (int64, error) {
	switch {
	case operand == "":
		return 0, fmt.Errorf("missing operand")
	case strings.HasPrefix(operand, "#"):
		n, err := strconv.ParseInt(operand[1:], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("bad immediate %q: %v", operand, err)
		}
		return n, nil
	case isRegister(operand):
		v, ok := m.regs[operand]
		if !ok {
			return 0, fmt.Errorf("read of uninitialized register %s", operand)
		}
		return v, nil
	default:
		v, ok := m.mem[operand]
		if !ok {
			return 0, fmt.Errorf("read of undefined memory cell %s", operand)
		}
		return v, nil
	}
}

// write 把值写进寄存器或内存单元
func (m *Machine) write(operand string, v int64) error {
	switch {
	case operand == "":
		return fmt.Errorf("missing destination")
	case strings.HasPrefix(operand, "#"):
		return fmt.Errorf("cannot write to immediate %s", operand)
	case isRegister(operand):
		m.regs[operand] = v
		return nil
	default:
		m.mem[operand] = v
		return nil
	}
}

// isRegister 判断操作数是否为寄存器名（R 后跟十进制数字）
func isRegister(operand string) bool {
	if len(operand) < 2 || operand[0] != 'R' {
		return false
	}
	for i := 1; i < len(operand); i++ {
		if operand[i] < '0' || operand[i] > '9' {
			return false
		}
	}
	return true
}
