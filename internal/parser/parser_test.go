package parser

import (
	"strings"
	"testing"

	"github.com/tangzhangming/regal/internal/errors"
	"github.com/tangzhangming/regal/internal/ir"
)

func parseOK(t *testing.T, source string) *ir.Block {
	t.Helper()
	p := New(source, "test.tac")
	block := p.Parse()
	if p.HasErrors() {
		t.Fatalf("unexpected parse errors: %v", p.Errors())
	}
	return block
}

func parseFail(t *testing.T, source string) []Error {
	t.Helper()
	p := New(source, "test.tac")
	p.Parse()
	if !p.HasErrors() {
		t.Fatalf("expected parse errors for %q, got none", source)
	}
	return p.Errors()
}

func TestParseCopy(t *testing.T) {
	block := parseOK(t, "a = 1\nlive: a")

	if block.Len() != 1 {
		t.Fatalf("instruction count mismatch: got %d, want 1", block.Len())
	}

	in := block.Instructions()[0]
	if in.Kind() != ir.Copy || in.Dst() != "a" || in.Src1() != "1" {
		t.Errorf("copy mismatch: got %s", in)
	}
}

func TestParseNegate(t *testing.T) {
	block := parseOK(t, "a = 1\nb = -a\nlive: b")

	in := block.Instructions()[1]
	if in.Kind() != ir.Negate || in.Dst() != "b" || in.Src1() != "a" {
		t.Errorf("negate mismatch: got %s", in)
	}
}

func TestParseBinary(t *testing.T) {
	block := parseOK(t, "a = 1\nb = 2\nt1 = a + b\nlive: t1")

	in := block.Instructions()[2]
	if in.Kind() != ir.Binary {
		t.Fatalf("kind mismatch: got %s, want binary", in.Kind())
	}
	if in.Dst() != "t1" || in.Src1() != "a" || in.Operator() != "+" || in.Src2() != "b" {
		t.Errorf("binary mismatch: got %s", in)
	}
}

func TestParseAllOperators(t *testing.T) {
	ops := []string{"+", "-", "*", "/"}

	for _, op := range ops {
		source := "a = 1\nb = 2\nc = a " + op + " b\nlive: c"
		block := parseOK(t, source)
		in := block.Instructions()[2]
		if in.Operator() != op {
			t.Errorf("operator mismatch: got %q, want %q", in.Operator(), op)
		}
	}
}

// 空白不敏感：'a=a+1' 必须与 'a = a + 1' 解析结果一致
func TestParseWhitespaceInsensitive(t *testing.T) {
	dense := parseOK(t, "a=1\na=a+1\nlive:a")
	spaced := parseOK(t, "a = 1\na = a + 1\nlive: a")

	if dense.String() != spaced.String() {
		t.Errorf("parse mismatch:\ndense:  %s\nspaced: %s", dense, spaced)
	}
}

func TestParseNegativeConstant(t *testing.T) {
	// '-' 后跟整数是负常量，不是取负指令
	block := parseOK(t, "x = -5\nlive: x")

	in := block.Instructions()[0]
	if in.Kind() != ir.Copy {
		t.Fatalf("kind mismatch: got %s, want copy", in.Kind())
	}
	if in.Src1() != "-5" {
		t.Errorf("source mismatch: got %q, want \"-5\"", in.Src1())
	}

	// 二元指令的第二操作数同样允许负常量
	block = parseOK(t, "a = 1\nx = a + -3\nlive: x")
	in = block.Instructions()[1]
	if in.Kind() != ir.Binary || in.Src2() != "-3" {
		t.Errorf("binary with negative constant mismatch: got %s", in)
	}
}

func TestParseTemporaries(t *testing.T) {
	block := parseOK(t, "t1 = 10\nt42 = t1 * t1\nlive: t42")

	if block.Instructions()[0].Dst() != "t1" {
		t.Errorf("dst mismatch: got %q, want t1", block.Instructions()[0].Dst())
	}
	if block.Instructions()[1].Dst() != "t42" {
		t.Errorf("dst mismatch: got %q, want t42", block.Instructions()[1].Dst())
	}
}

func TestParseLiveLineOrder(t *testing.T) {
	block := parseOK(t, "a = 1\nb = 2\nc = 3\nlive: c, a, b")

	want := []string{"c", "a", "b"}
	got := block.LiveOut()
	if len(got) != len(want) {
		t.Fatalf("live-out count mismatch: got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("live-out[%d] mismatch: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestParseBlankLinesAndComments(t *testing.T) {
	source := `
# 累加器初始化
a = 1

b = a + 1   # 下一项

live: b
`
	block := parseOK(t, source)
	if block.Len() != 2 {
		t.Errorf("instruction count mismatch: got %d, want 2", block.Len())
	}
}

func TestParseSemicolonSeparated(t *testing.T) {
	block := parseOK(t, "a = 1; b = a + 1; live: b")
	if block.Len() != 2 {
		t.Errorf("instruction count mismatch: got %d, want 2", block.Len())
	}
}

// ============================================================================
// 错误用例
// ============================================================================

func TestParseEmptyInput(t *testing.T) {
	for _, source := range []string{"", "\n\n", "  \n \t\n"} {
		errs := parseFail(t, source)
		if !strings.Contains(errs[0].Message, "empty input") {
			t.Errorf("message mismatch for %q: got %q", source, errs[0].Message)
		}
	}
}

func TestParseMissingLiveLine(t *testing.T) {
	errs := parseFail(t, "a = 1\nb = a + 1\n")
	if !strings.Contains(errs[0].Message, "live:") {
		t.Errorf("message mismatch: got %q", errs[0].Message)
	}
}

func TestParseLiveLineNotLast(t *testing.T) {
	errs := parseFail(t, "a = 1\nlive: a\nb = 2\n")
	if !strings.Contains(errs[0].Message, "last line") {
		t.Errorf("message mismatch: got %q", errs[0].Message)
	}
}

func TestParseLiveUnknownVariable(t *testing.T) {
	errs := parseFail(t, "a = 1\nlive: a, b")
	if !strings.Contains(errs[0].Message, "'b'") {
		t.Errorf("message mismatch: got %q", errs[0].Message)
	}
	// 位置指向 live 行里的 b
	if errs[0].Pos.Line != 2 || errs[0].Pos.Column != 10 {
		t.Errorf("position mismatch: got %d:%d, want 2:10", errs[0].Pos.Line, errs[0].Pos.Column)
	}
	if errs[0].EndColumn != 11 {
		t.Errorf("end column mismatch: got %d, want 11", errs[0].EndColumn)
	}
}

func TestParseErrorCodes(t *testing.T) {
	cases := []struct {
		source string
		code   string
	}{
		{"a = @\nlive: a", errors.E0001},
		{"a 1\nlive: a", errors.E0002},
		{"foo = 1\nlive: a", errors.E0003},
		{"a = bar\nlive: a", errors.E0004},
		{"a = 1\n", errors.E0005},
		{"a = 1\nlive: a, b", errors.E0006},
		{"", errors.E0007},
	}

	for _, tc := range cases {
		errs := parseFail(t, tc.source)
		if errs[0].Code != tc.code {
			t.Errorf("code mismatch for %q: got %s, want %s", tc.source, errs[0].Code, tc.code)
		}
	}
}

// ============================================================================
// 单行解析（REPL）
// ============================================================================

func TestParseLineInstruction(t *testing.T) {
	line, errs := ParseLine("t1 = a + 1", "<repl>")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if line.Instr == nil || line.Live != nil {
		t.Fatalf("expected an instruction line, got %+v", line)
	}
	if line.Instr.Kind() != ir.Binary || line.Instr.Dst() != "t1" {
		t.Errorf("instruction mismatch: got %s", line.Instr)
	}
}

func TestParseLineLive(t *testing.T) {
	// 单行解析不检查 live 变量是否在块中出现
	line, errs := ParseLine("live: a, b", "<repl>")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if line.Instr != nil || len(line.Live) != 2 {
		t.Fatalf("expected a live line, got %+v", line)
	}
	if line.Live[0] != "a" || line.Live[1] != "b" {
		t.Errorf("live names mismatch: got %v", line.Live)
	}
}

func TestParseLineBlank(t *testing.T) {
	for _, source := range []string{"", "   ", "\n", "# 注释"} {
		line, errs := ParseLine(source, "<repl>")
		if len(errs) != 0 {
			t.Errorf("unexpected errors for %q: %v", source, errs)
		}
		if line.Instr != nil || line.Live != nil {
			t.Errorf("expected a blank line for %q, got %+v", source, line)
		}
	}
}

func TestParseLineErrors(t *testing.T) {
	cases := []string{
		"foo = 1",      // 目标不合规
		"live:",        // 空 live 列表
		"a = 1 b",      // 行尾有多余内容
		"a = 1\nb = 2", // 一次只接受一行
	}
	for _, source := range cases {
		if _, errs := ParseLine(source, "<repl>"); len(errs) == 0 {
			t.Errorf("expected errors for %q, got none", source)
		}
	}
}

func TestParseCaseHint(t *testing.T) {
	// 大写变量名提示改成小写
	errs := parseFail(t, "T1 = 1\nlive: a")
	if errs[0].Code != errors.E0003 {
		t.Fatalf("code mismatch: got %s, want %s", errs[0].Code, errors.E0003)
	}
	if len(errs[0].Hints) != 1 || !strings.Contains(errs[0].Hints[0], "'t1'") {
		t.Errorf("hint mismatch: got %v", errs[0].Hints)
	}
}

func TestParseLiveSuggestion(t *testing.T) {
	// t3 不在块中，编辑距离最近的块内变量是 t1
	errs := parseFail(t, "t1 = 1\nt2 = t1 + 1\nlive: t3")
	if errs[0].Code != errors.E0006 {
		t.Fatalf("code mismatch: got %s, want %s", errs[0].Code, errors.E0006)
	}
	if len(errs[0].Hints) != 1 || !strings.Contains(errs[0].Hints[0], "'t1'") {
		t.Errorf("hint mismatch: got %v", errs[0].Hints)
	}
}

func TestParseEmptyLiveList(t *testing.T) {
	errs := parseFail(t, "a = 1\nlive:\n")
	if !strings.Contains(errs[0].Message, "no variables") {
		t.Errorf("message mismatch: got %q", errs[0].Message)
	}
}

func TestParseBadDestination(t *testing.T) {
	// 目标必须符合变量命名规则
	cases := []string{
		"foo = 1\nlive: a",  // 多字母名
		"T1 = 1\nlive: a",   // 大写
		"t = 1\nlive: a",    // 单独的 t
		"t1a = 1\nlive: a",  // t+数字后有字母
		"5 = 1\nlive: a",    // 数字开头
		"_x = 1\nlive: a",   // 下划线开头
	}

	for _, source := range cases {
		parseFail(t, source)
	}
}

func TestParseBadOperand(t *testing.T) {
	cases := []string{
		"a = foo\nlive: a",      // 操作数名不合规
		"a = 1 + bar\nlive: a",  // 第二操作数不合规
		"a = -\nlive: a",        // 负号后无内容
		"a = \nlive: a",         // 缺操作数
		"a = 1 +\nlive: a",      // 缺第二操作数
	}

	for _, source := range cases {
		parseFail(t, source)
	}
}

func TestParseMissingAssign(t *testing.T) {
	errs := parseFail(t, "a 1\nlive: a")
	if !strings.Contains(errs[0].Message, "'='") {
		t.Errorf("message mismatch: got %q", errs[0].Message)
	}
}

func TestParseTrailingGarbage(t *testing.T) {
	// 二元指令后不能再有内容
	parseFail(t, "a = 1 + 2 + 3\nlive: a")
	// 取负指令后不能再有内容
	parseFail(t, "a = 1\nb = -a + 1\nlive: b")
}

func TestParseLiveLineMissingComma(t *testing.T) {
	// live 变量之间必须用逗号分隔
	parseFail(t, "a = 1\nb = 2\nlive: a b")
}

func TestParseErrorRecovery(t *testing.T) {
	// 一行出错不应吞掉后续行的解析
	p := New("foo = 1\na = 2\nbar = 3\nlive: a", "test.tac")
	block := p.Parse()

	if !p.HasErrors() {
		t.Fatal("expected parse errors")
	}
	if len(p.Errors()) < 2 {
		t.Errorf("error count mismatch: got %d, want >= 2", len(p.Errors()))
	}

	// a = 2 仍应解析成功
	found := false
	for _, in := range block.Instructions() {
		if in.Dst() == "a" {
			found = true
		}
	}
	if !found {
		t.Error("recovery failed: 'a = 2' was not parsed")
	}
}

func TestParseErrorPositions(t *testing.T) {
	errs := parseFail(t, "a = 1\nfoo = 2\nlive: a")

	if errs[0].Pos.Line != 2 || errs[0].Pos.Column != 1 {
		t.Errorf("position mismatch: got %d:%d, want 2:1", errs[0].Pos.Line, errs[0].Pos.Column)
	}
}

func TestParseErrorLimit(t *testing.T) {
	// 每行一个错误，超过上限后只追加一条收尾说明
	source := strings.Repeat("foo = 1\n", maxParseErrors+10) + "live: a"
	errs := parseFail(t, source)

	if len(errs) != maxParseErrors+1 {
		t.Fatalf("error count mismatch: got %d, want %d", len(errs), maxParseErrors+1)
	}
	last := errs[len(errs)-1]
	if !strings.Contains(last.Message, "too many errors") {
		t.Errorf("sentinel message mismatch: got %q", last.Message)
	}
}
