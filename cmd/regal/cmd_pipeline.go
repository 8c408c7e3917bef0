package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/segmentio/encoding/json"
	"github.com/tebeka/atexit"
	"go.uber.org/zap"

	"github.com/tangzhangming/regal/internal/errors"
	"github.com/tangzhangming/regal/internal/i18n"
	"github.com/tangzhangming/regal/internal/interference"
	"github.com/tangzhangming/regal/internal/ir"
	"github.com/tangzhangming/regal/internal/liveness"
	"github.com/tangzhangming/regal/internal/parser"
	"github.com/tangzhangming/regal/internal/project"
	"github.com/tangzhangming/regal/internal/regalloc"
	"github.com/tangzhangming/regal/internal/target"
)

// pipelineOpts 流水线子命令共享的选项
type pipelineOpts struct {
	k       int
	kSet    bool
	profile string
	config  string
	jsonOut bool
	jsonSet bool
	verbose bool
	out     string
}

// parsePipelineFlags 解析流水线子命令的旗标并返回输入文件名
//
// withAlloc 为 true 时注册寄存器数量与配置相关的旗标。
func parsePipelineFlags(name string, args []string, withAlloc, withJSON bool) (*pipelineOpts, string) {
	o := &pipelineOpts{}
	fs := flag.NewFlagSet(name, flag.ExitOnError)

	if withAlloc {
		fs.IntVar(&o.k, "k", 0, i18n.T(i18n.MsgOptRegisters))
		fs.StringVar(&o.profile, "profile", "", i18n.T(i18n.MsgOptProfile))
		fs.StringVar(&o.config, "config", "", i18n.T(i18n.MsgOptConfig))
	}
	if withJSON {
		fs.BoolVar(&o.jsonOut, "json", false, i18n.T(i18n.MsgOptJSON))
	}
	fs.BoolVar(&o.verbose, "verbose", false, i18n.T(i18n.MsgOptVerbose))
	fs.StringVar(&o.out, "out", "", i18n.T(i18n.MsgOptOut))

	fs.Usage = func() {
		fmt.Println(i18n.T(i18n.MsgHelpUsage) + " regal " + name + " [options] <file>")
		fmt.Println()
		fmt.Println(i18n.T(i18n.MsgHelpOptions))
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		atexit.Exit(2)
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "k":
			o.kSet = true
		case "json":
			o.jsonSet = true
		}
	})

	if fs.NArg() < 1 {
		fs.Usage()
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, i18n.T(i18n.ErrNoInput))
		atexit.Exit(2)
	}
	return o, fs.Arg(0)
}

// loadBlock 读取并解析输入文件；失败渲染诊断并以退出码 2 结束
func loadBlock(filename string) *ir.Block {
	source, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintln(os.Stderr, i18n.T(i18n.ErrReadFile, filename, err))
		atexit.Exit(2)
	}

	p := parser.New(string(source), filename)
	block := p.Parse()
	if p.HasErrors() {
		reporter := errors.NewReporter()
		reporter.SetSource(filename, string(source))
		for _, e := range p.Errors() {
			reporter.Report(e.Diagnostic())
		}
		reporter.Summary()
		atexit.Exit(2)
	}
	return block
}

// loadProjectConfig 取得项目配置：-config 指定的文件优先，
// 其次从输入文件所在目录向上查找 regal.toml，最后落回默认值
func loadProjectConfig(o *pipelineOpts, inputPath string) *project.Config {
	path := o.config
	if path == "" {
		path = project.Find(inputPath)
	}
	if path == "" {
		return project.Default()
	}

	cfg, err := project.Load(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, i18n.T(i18n.ErrLoadConfig, err))
		atexit.Exit(2)
	}
	return cfg
}

// resolveRegisters 决定寄存器数量：-k 旗标优先，其次配置文件
func resolveRegisters(o *pipelineOpts, cfg *project.Config) int {
	if o.kSet {
		return o.k
	}

	k, err := cfg.RegisterCount(o.profile)
	if err != nil {
		fmt.Fprintln(os.Stderr, i18n.T(i18n.ErrNoProfile, o.profile))
		atexit.Exit(2)
	}
	return k
}

// outputWriter 打开 -out 指定的输出文件，未指定时用标准输出
func outputWriter(path string) io.Writer {
	if path == "" {
		return os.Stdout
	}
	f, err := os.Create(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, i18n.T(i18n.ErrWriteFile, path, err))
		atexit.Exit(2)
	}
	atexit.Register(func() { f.Close() })
	return f
}

// newPipelineLogger -verbose 时输出调试日志到 stderr
func newPipelineLogger(verbose bool) *zap.SugaredLogger {
	if !verbose {
		return zap.NewNop().Sugar()
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop().Sugar()
	}
	sugar := logger.Sugar()
	atexit.Register(func() { sugar.Sync() })
	return sugar
}

// reportAllocError 把分配阶段的错误渲染为 A 码诊断
func reportAllocError(err error) {
	code := errors.A0001
	reporter := errors.NewReporter()
	reporter.Report(&errors.Diagnostic{
		Code:    code,
		Level:   errors.LevelError,
		Message: err.Error(),
	})
	atexit.Exit(2)
}

// ============================================================================
// 子命令
// ============================================================================

// cmdLiveness 打印逐指令活跃性集合
func cmdLiveness(args []string) {
	opts, filename := parsePipelineFlags("liveness", args, false, false)
	block := loadBlock(filename)

	inf := liveness.Analyze(block)
	w := outputWriter(opts.out)
	printLivenessTable(w, block, inf)
}

// cmdGraph 打印变量冲突表
func cmdGraph(args []string) {
	opts, filename := parsePipelineFlags("graph", args, false, false)
	block := loadBlock(filename)

	g := interference.Build(block, liveness.Analyze(block))
	w := outputWriter(opts.out)
	fmt.Fprint(w, g.Table())
}

// cmdAlloc 运行完整分配流水线
//
// 输出依次为：基本块回显、逐指令活跃性、冲突表、分配结果。
// 分配成功退出 0，失败打印 Failed. 并退出 1。
func cmdAlloc(args []string) {
	opts, filename := parsePipelineFlags("alloc", args, true, true)
	logger := newPipelineLogger(opts.verbose)

	block := loadBlock(filename)
	cfg := loadProjectConfig(opts, filename)
	k := resolveRegisters(opts, cfg)
	jsonOut := opts.jsonOut
	if !opts.jsonSet {
		jsonOut = cfg.Output.JSON
	}
	logger.Debugf("parsed %s: %d instruction(s), live-out %v", filename, block.Len(), block.LiveOut())

	inf := liveness.Analyze(block)
	logger.Debugf("liveness: entry set %s", liveness.FormatSet(inf.Entry()))

	g := interference.Build(block, inf)
	logger.Debugf("interference: %d node(s)", g.Len())

	res, err := regalloc.Allocate(g, k)
	if err != nil {
		reportAllocError(err)
		return
	}
	logger.Debugf("allocation with k=%d: feasible=%v", k, res.Feasible)
	if res.Feasible {
		logger.Debugf("register table:\n%s", res.RegisterTable())
	}

	w := outputWriter(opts.out)

	if jsonOut {
		writeJSONReport(w, filename, k, block, inf, g, res)
		if !res.Feasible {
			atexit.Exit(1)
		}
		return
	}

	fmt.Fprintln(w, block.String())
	printLivenessTable(w, block, inf)
	fmt.Fprint(w, g.Table())

	if !res.Feasible {
		fmt.Fprintln(w, "Failed.")
		atexit.Exit(1)
	}
	fmt.Fprint(w, res.Lines())
}

// cmdCodegen 生成伪目标代码
func cmdCodegen(args []string) {
	opts, filename := parsePipelineFlags("codegen", args, true, false)
	logger := newPipelineLogger(opts.verbose)

	block := loadBlock(filename)
	k := resolveRegisters(opts, loadProjectConfig(opts, filename))

	inf := liveness.Analyze(block)
	g := interference.Build(block, inf)

	res, err := regalloc.Allocate(g, k)
	if err != nil {
		reportAllocError(err)
		return
	}
	if !res.Feasible {
		fmt.Println("Failed.")
		atexit.Exit(1)
	}
	logger.Debugf("codegen with k=%d on %d instruction(s)", k, block.Len())

	code, err := target.Emit(block, inf, res)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		atexit.Exit(2)
	}

	w := outputWriter(opts.out)
	fmt.Fprintln(w, code.String())
}

// printLivenessTable 打印逐指令的 before/after 集合
func printLivenessTable(w io.Writer, block *ir.Block, inf *liveness.Info) {
	for i, in := range block.Instructions() {
		fmt.Fprintf(w, "%d: %s\n", i, in.String())
		fmt.Fprintf(w, "  before: %s\n", liveness.FormatSet(inf.Before[i]))
		fmt.Fprintf(w, "  after : %s\n", liveness.FormatSet(inf.After[i]))
	}
}

// ============================================================================
// JSON 报告
// ============================================================================

type instructionReport struct {
	Text       string   `json:"text"`
	LiveBefore []string `json:"liveBefore"`
	LiveAfter  []string `json:"liveAfter"`
}

type allocationReport struct {
	File         string              `json:"file"`
	Registers    int                 `json:"registers"`
	LiveOut      []string            `json:"liveOut"`
	Instructions []instructionReport `json:"instructions"`
	Interference map[string][]string `json:"interference"`
	Feasible     bool                `json:"feasible"`
	Assignment   map[string]string   `json:"assignment,omitempty"`
	Code         string              `json:"code,omitempty"`
}

// writeJSONReport 输出机器可读的分配报告
func writeJSONReport(w io.Writer, filename string, k int, block *ir.Block, inf *liveness.Info, g *interference.Graph, res *regalloc.Result) {
	report := allocationReport{
		File:         filename,
		Registers:    k,
		LiveOut:      block.LiveOut(),
		Interference: make(map[string][]string, g.Len()),
		Feasible:     res.Feasible,
	}

	for i, in := range block.Instructions() {
		report.Instructions = append(report.Instructions, instructionReport{
			Text:       in.String(),
			LiveBefore: sortedSlice(inf.Before[i].ToSlice()),
			LiveAfter:  sortedSlice(inf.After[i].ToSlice()),
		})
	}

	for _, v := range g.Nodes() {
		report.Interference[v] = sortedSlice(g.Neighbors(v).ToSlice())
	}

	if res.Feasible {
		report.Assignment = make(map[string]string, len(res.Assignment))
		for v, r := range res.Assignment {
			report.Assignment[v] = fmt.Sprintf("R%d", r)
		}
	} else {
		report.Code = errors.A0002
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		atexit.Exit(2)
	}
	fmt.Fprintln(w, string(data))
}

func sortedSlice(s []string) []string {
	sort.Strings(s)
	return s
}
