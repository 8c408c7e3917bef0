// repl.go - regal REPL (Read-Eval-Print Loop)
//
// 交互式基本块编辑器：
// - 逐行输入三地址指令，实时校验
// - :live 设置出口活跃变量
// - :liveness / :graph / :alloc / :codegen 对当前块运行各流水线阶段
// - :run 按三地址语义求值当前块
// - :load 从文件载入，:history 查看输入历史
package repl

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/tangzhangming/regal/internal/errors"
	"github.com/tangzhangming/regal/internal/i18n"
	"github.com/tangzhangming/regal/internal/interference"
	"github.com/tangzhangming/regal/internal/interp"
	"github.com/tangzhangming/regal/internal/ir"
	"github.com/tangzhangming/regal/internal/liveness"
	"github.com/tangzhangming/regal/internal/parser"
	"github.com/tangzhangming/regal/internal/regalloc"
	"github.com/tangzhangming/regal/internal/target"
)

const (
	promptPrimary = ">>> "
	replFilename  = "<repl>"

	maxHistory = 1000
)

// REPL 交互式基本块编辑器
type REPL struct {
	reader   *bufio.Reader
	writer   io.Writer
	reporter *errors.Reporter
	instrs   []ir.Instruction
	live     []string
	history  []string
}

// New 创建 REPL
func New(in io.Reader, out io.Writer) *REPL {
	reporter := errors.NewReporter()
	reporter.SetOutput(out)
	return &REPL{
		reader:   bufio.NewReader(in),
		writer:   out,
		reporter: reporter,
	}
}

// Run 运行 REPL，读到 EOF 或 :quit 时返回
func (r *REPL) Run() {
	fmt.Fprintln(r.writer, i18n.T(i18n.MsgReplWelcome))

	for {
		fmt.Fprint(r.writer, promptPrimary)

		line, err := r.reader.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				fmt.Fprintln(r.writer)
				fmt.Fprintln(r.writer, i18n.T(i18n.MsgReplGoodbye))
				return
			}
			fmt.Fprintf(r.writer, "error reading input: %v\n", err)
			continue
		}

		line = strings.TrimRight(line, "\r\n")

		if strings.HasPrefix(strings.TrimSpace(line), ":") {
			if r.handleCommand(strings.TrimSpace(line)) {
				return
			}
			continue
		}

		r.handleLine(line)
	}
}

// handleLine 处理一行指令输入
func (r *REPL) handleLine(line string) {
	parsed, errs := parser.ParseLine(line, replFilename)
	if len(errs) > 0 {
		r.reportErrors(line, errs)
		return
	}

	switch {
	case parsed.Instr != nil:
		r.instrs = append(r.instrs, *parsed.Instr)
		r.addHistory(line)
	case parsed.Live != nil:
		r.live = parsed.Live
		r.addHistory(line)
	}
	// 空行忽略
}

// handleCommand 处理 : 开头的命令；返回 true 表示退出
func (r *REPL) handleCommand(line string) bool {
	parts := strings.Fields(line)
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case ":help", ":h", ":?":
		fmt.Fprintln(r.writer, i18n.T(i18n.MsgReplHelp))

	case ":quit", ":q", ":exit":
		fmt.Fprintln(r.writer, i18n.T(i18n.MsgReplGoodbye))
		return true

	case ":show":
		fmt.Fprintln(r.writer, r.block().String())

	case ":liveness":
		r.runLiveness()

	case ":graph":
		r.runGraph()

	case ":alloc":
		if k, ok := r.parseRegisterArg(cmd, args); ok {
			r.runAlloc(k)
		}

	case ":codegen":
		if k, ok := r.parseRegisterArg(cmd, args); ok {
			r.runCodegen(k)
		}

	case ":run":
		r.runEval(args)

	case ":live":
		r.setLive(strings.TrimSpace(strings.TrimPrefix(line, parts[0])))

	case ":load", ":l":
		if len(args) < 1 {
			fmt.Fprintln(r.writer, "Usage: :load <filename>")
			break
		}
		r.loadFile(args[0])

	case ":history", ":hist":
		for i, entry := range r.history {
			fmt.Fprintf(r.writer, "%4d  %s\n", i+1, entry)
		}

	case ":reset", ":clear":
		r.instrs = nil
		r.live = nil
		fmt.Fprintln(r.writer, i18n.T(i18n.MsgReplReset))

	default:
		fmt.Fprintln(r.writer, i18n.T(i18n.ErrReplCommand, cmd))
	}

	return false
}

// ============================================================================
// 流水线阶段
// ============================================================================

// block 用当前指令和 live 变量组装基本块
func (r *REPL) block() *ir.Block {
	return ir.NewBlock(r.instrs, r.live)
}

// checkComplete 阶段运行前的完整性检查
//
// live 变量是否都在块里出现过的校验也在这里做，
// 与文件解析时的规则保持一致。
func (r *REPL) checkComplete() (*ir.Block, bool) {
	if len(r.instrs) == 0 {
		fmt.Fprintln(r.writer, i18n.T(i18n.ErrReplEmpty))
		return nil, false
	}
	if len(r.live) == 0 {
		fmt.Fprintln(r.writer, i18n.T(i18n.ErrReplNoLive))
		return nil, false
	}

	block := r.block()
	ok := true
	for _, name := range r.live {
		if !block.Mentions(name) {
			fmt.Fprintln(r.writer, i18n.T(i18n.ErrLiveUnknownVar, name))
			ok = false
		}
	}
	return block, ok
}

func (r *REPL) runLiveness() {
	block, ok := r.checkComplete()
	if !ok {
		return
	}

	inf := liveness.Analyze(block)
	for i, in := range block.Instructions() {
		fmt.Fprintln(r.writer, in.String())
		fmt.Fprintf(r.writer, "  before: %s\n", liveness.FormatSet(inf.Before[i]))
		fmt.Fprintf(r.writer, "  after : %s\n", liveness.FormatSet(inf.After[i]))
	}
}

func (r *REPL) runGraph() {
	block, ok := r.checkComplete()
	if !ok {
		return
	}

	g := interference.Build(block, liveness.Analyze(block))
	fmt.Fprint(r.writer, g.Table())
}

func (r *REPL) runAlloc(k int) {
	block, ok := r.checkComplete()
	if !ok {
		return
	}

	g := interference.Build(block, liveness.Analyze(block))
	res, err := regalloc.Allocate(g, k)
	if err != nil {
		fmt.Fprintln(r.writer, err)
		return
	}
	if !res.Feasible {
		fmt.Fprintln(r.writer, "Failed.")
		return
	}
	fmt.Fprint(r.writer, res.Lines())
}

func (r *REPL) runCodegen(k int) {
	block, ok := r.checkComplete()
	if !ok {
		return
	}

	inf := liveness.Analyze(block)
	g := interference.Build(block, inf)
	res, err := regalloc.Allocate(g, k)
	if err != nil {
		fmt.Fprintln(r.writer, err)
		return
	}
	if !res.Feasible {
		fmt.Fprintln(r.writer, "Failed.")
		return
	}

	code, err := target.Emit(block, inf, res)
	if err != nil {
		fmt.Fprintln(r.writer, err)
		return
	}
	fmt.Fprintln(r.writer, code.String())
}

// runEval 按三地址语义执行当前块，打印出口活跃变量的值
//
// 入口活跃变量的初值通过 name=value 参数提供，缺一个都不能跑。
func (r *REPL) runEval(args []string) {
	block, ok := r.checkComplete()
	if !ok {
		return
	}

	env := make(map[string]int64, len(args))
	for _, arg := range args {
		name, value, found := strings.Cut(arg, "=")
		if !found || !ir.IsVariable(name) {
			fmt.Fprintln(r.writer, i18n.T(i18n.ErrReplBinding, arg))
			return
		}
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			fmt.Fprintln(r.writer, i18n.T(i18n.ErrReplBinding, arg))
			return
		}
		env[name] = n
	}

	entry := liveness.Analyze(block).Entry().ToSlice()
	sort.Strings(entry)
	for _, name := range entry {
		if _, bound := env[name]; !bound {
			fmt.Fprintln(r.writer, i18n.T(i18n.ErrReplUnbound, name, name))
			return
		}
	}

	state, err := interp.EvalBlock(block, env)
	if err != nil {
		fmt.Fprintln(r.writer, err)
		return
	}

	names := make([]string, len(block.LiveOut()))
	copy(names, block.LiveOut())
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(r.writer, "%s = %d\n", name, state[name])
	}
}

// ============================================================================
// 命令辅助
// ============================================================================

// parseRegisterArg 解析 :alloc / :codegen 的寄存器数量参数
func (r *REPL) parseRegisterArg(cmd string, args []string) (int, bool) {
	if len(args) != 1 {
		fmt.Fprintf(r.writer, "Usage: %s <k>\n", cmd)
		return 0, false
	}
	k, err := strconv.Atoi(args[0])
	if err != nil {
		fmt.Fprintf(r.writer, "Usage: %s <k>\n", cmd)
		return 0, false
	}
	return k, true
}

// setLive 处理 :live a, b
func (r *REPL) setLive(names string) {
	line := "live: " + names
	parsed, errs := parser.ParseLine(line, replFilename)
	if len(errs) > 0 {
		r.reportErrors(line, errs)
		return
	}
	r.live = parsed.Live
	r.addHistory(line)
}

// loadFile 用文件内容替换当前基本块
func (r *REPL) loadFile(filename string) {
	source, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintln(r.writer, i18n.T(i18n.ErrReadFile, filename, err))
		return
	}

	p := parser.New(string(source), filename)
	block := p.Parse()
	if p.HasErrors() {
		r.reportParseErrors(filename, string(source), p.Errors())
		return
	}

	r.instrs = block.Instructions()
	r.live = block.LiveOut()
	fmt.Fprintln(r.writer, i18n.T(i18n.MsgReplLoaded, filename, block.Len()))
}

// reportErrors 渲染单行输入的诊断
func (r *REPL) reportErrors(line string, errs []parser.Error) {
	r.reportParseErrors(replFilename, line, errs)
}

func (r *REPL) reportParseErrors(filename, source string, errs []parser.Error) {
	r.reporter.SetSource(filename, source)
	for _, e := range errs {
		r.reporter.Report(e.Diagnostic())
	}
	r.reporter.Clear()
}

// addHistory 添加到历史记录
func (r *REPL) addHistory(input string) {
	if len(r.history) > 0 && r.history[len(r.history)-1] == input {
		return
	}
	r.history = append(r.history, input)
	if len(r.history) > maxHistory {
		r.history = r.history[len(r.history)-maxHistory:]
	}
}
