package errors

import (
	"bytes"
	"strings"
	"testing"
)

func plainFormatter() *Formatter {
	return &Formatter{
		Colors:     false,
		ShowSource: true,
		ShowHints:  true,
		TabWidth:   4,
	}
}

func TestLevelString(t *testing.T) {
	cases := []struct {
		level Level
		want  string
	}{
		{LevelError, "error"},
		{LevelWarning, "warning"},
		{LevelNote, "note"},
		{LevelHelp, "help"},
	}
	for _, tc := range cases {
		if got := tc.level.String(); got != tc.want {
			t.Errorf("Level(%d).String() mismatch: got %q, want %q", tc.level, got, tc.want)
		}
	}
}

func TestDiagnosticError(t *testing.T) {
	d := &Diagnostic{
		Message: "destination 'foo' is not a variable",
		File:    "block.tac",
		Line:    2,
		Column:  1,
	}
	want := "block.tac:2:1: destination 'foo' is not a variable"
	if got := d.Error(); got != want {
		t.Errorf("Error() mismatch: got %q, want %q", got, want)
	}
}

func TestFormatWithSource(t *testing.T) {
	d := &Diagnostic{
		Code:      E0003,
		Level:     LevelError,
		Message:   "destination 'foo' is not a variable",
		File:      "block.tac",
		Line:      2,
		Column:    1,
		EndColumn: 4,
		Hints:     []string{"rename it to a single lowercase letter"},
	}
	lines := []string{"a = 1", "foo = 2", "live: a"}

	got := plainFormatter().Format(d, lines)
	want := "error[E0003]: destination 'foo' is not a variable\n" +
		" --> block.tac:2:1\n" +
		"  |\n" +
		"2 | foo = 2\n" +
		"    ^^^\n" +
		" = help: rename it to a single lowercase letter\n"
	if got != want {
		t.Errorf("format mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestFormatCaretInsideLine(t *testing.T) {
	// 标注落在行中间，长度覆盖整个字面量
	d := &Diagnostic{
		Code:      E0004,
		Level:     LevelError,
		Message:   "'bar' is neither a variable nor an integer constant",
		File:      "block.tac",
		Line:      1,
		Column:    5,
		EndColumn: 8,
	}
	got := plainFormatter().Format(d, []string{"a = bar"})
	want := "error[E0004]: 'bar' is neither a variable nor an integer constant\n" +
		" --> block.tac:1:5\n" +
		"  |\n" +
		"1 | a = bar\n" +
		"        ^^^\n"
	if got != want {
		t.Errorf("format mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestFormatWithoutPosition(t *testing.T) {
	// 分配阶段的诊断没有源码位置，只渲染头部
	d := &Diagnostic{
		Code:    A0001,
		Level:   LevelError,
		Message: "register count must be a positive integer, got 0",
	}
	got := plainFormatter().Format(d, nil)
	want := "error[A0001]: register count must be a positive integer, got 0\n"
	if got != want {
		t.Errorf("format mismatch: got %q, want %q", got, want)
	}
}

func TestFormatZeroEndColumn(t *testing.T) {
	// EndColumn 为 0 时只标注一列
	d := &Diagnostic{
		Code:    E0002,
		Level:   LevelError,
		Message: "expected '=' after destination",
		File:    "block.tac",
		Line:    1,
		Column:  3,
	}
	got := plainFormatter().Format(d, []string{"a 1"})
	want := "error[E0002]: expected '=' after destination\n" +
		" --> block.tac:1:3\n" +
		"  |\n" +
		"1 | a 1\n" +
		"      ^\n"
	if got != want {
		t.Errorf("format mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestReporter(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter()
	r.SetFormatter(plainFormatter())
	r.SetOutput(&buf)
	r.SetSource("block.tac", "a = 1\nfoo = 2\nlive: a")

	r.Report(&Diagnostic{
		Code:    E0003,
		Level:   LevelError,
		Message: "destination 'foo' is not a variable",
		File:    "block.tac",
		Line:    2,
		Column:  1,
	})
	r.Summary()

	if !r.HasErrors() {
		t.Error("expected HasErrors after reporting an error")
	}
	if r.ErrorCount() != 1 {
		t.Errorf("error count mismatch: got %d, want 1", r.ErrorCount())
	}

	out := buf.String()
	if !strings.Contains(out, "error[E0003]") {
		t.Errorf("missing diagnostic header in output:\n%s", out)
	}
	if !strings.Contains(out, "2 | foo = 2") {
		t.Errorf("missing source line in output:\n%s", out)
	}
	if !strings.Contains(out, "error: found 1 error(s)") {
		t.Errorf("missing summary line in output:\n%s", out)
	}

	r.Clear()
	if r.HasErrors() {
		t.Error("expected no errors after Clear")
	}
}

func TestReporterSourceCache(t *testing.T) {
	r := NewReporter()
	r.SetSource("mem.tac", "a = 1\nlive: a")

	if got := r.GetSourceLine("mem.tac", 2); got != "live: a" {
		t.Errorf("source line mismatch: got %q", got)
	}
	if got := r.GetSourceLine("mem.tac", 99); got != "" {
		t.Errorf("out-of-range line should be empty, got %q", got)
	}
	if got := r.GetSourceLine("other.tac", 1); got != "" {
		t.Errorf("unknown file should be empty, got %q", got)
	}
}

func TestFindSimilar(t *testing.T) {
	cases := []struct {
		name       string
		candidates []string
		maxDist    int
		want       string
	}{
		{"t3", []string{"t1", "t2"}, 2, "t1"}, // 距离并列时取先出现的
		{"T1", []string{"t1"}, 0, "t1"},       // 忽略大小写
		{"abc", []string{"xyz"}, 2, ""},       // 距离太远
		{"foo", nil, 2, ""},                   // 没有候选
		{"livr", []string{"live"}, 2, "live"},
	}
	for _, tc := range cases {
		if got := FindSimilar(tc.name, tc.candidates, tc.maxDist); got != tc.want {
			t.Errorf("FindSimilar(%q, %v, %d) mismatch: got %q, want %q",
				tc.name, tc.candidates, tc.maxDist, got, tc.want)
		}
	}
}

func TestLevenshteinDistance(t *testing.T) {
	cases := []struct {
		s1, s2 string
		want   int
	}{
		{"", "abc", 3},
		{"abc", "", 3},
		{"a", "a", 0},
		{"kitten", "sitting", 3},
		{"flaw", "lawn", 2},
		{"t1", "t2", 1},
	}
	for _, tc := range cases {
		if got := levenshteinDistance(tc.s1, tc.s2); got != tc.want {
			t.Errorf("distance(%q, %q) mismatch: got %d, want %d", tc.s1, tc.s2, got, tc.want)
		}
	}
}

func TestColorize(t *testing.T) {
	saved := ColorsEnabled()
	defer SetColorsEnabled(saved)

	SetColorsEnabled(false)
	if got := Colorize("boom", ColorRed); got != "boom" {
		t.Errorf("disabled colors should pass through, got %q", got)
	}

	SetColorsEnabled(true)
	got := Colorize("boom", ColorRed)
	if !strings.HasPrefix(got, "\033[31m") || !strings.HasSuffix(got, "\033[0m") {
		t.Errorf("expected ANSI red wrapping, got %q", got)
	}
}
