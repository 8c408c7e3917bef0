package interference

import (
	"testing"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"

	"github.com/tangzhangming/regal/internal/ir"
	"github.com/tangzhangming/regal/internal/liveness"
	"github.com/tangzhangming/regal/internal/token"
)

var noPos = token.Position{}

func buildFrom(instrs []ir.Instruction, liveOut []string) *Graph {
	block := ir.NewBlock(instrs, liveOut)
	return Build(block, liveness.Analyze(block))
}

func TestBuildChainNoInterference(t *testing.T) {
	// a = 1
	// b = a + 1
	// live: b
	//
	// a 和 b 从不同时活跃，不应有边
	g := buildFrom([]ir.Instruction{
		ir.NewCopy("a", "1", noPos),
		ir.NewBinary("b", "a", "+", "1", noPos),
	}, []string{"b"})

	assert.Check(t, is.DeepEqual(g.Nodes(), []string{"a", "b"}))
	assert.Check(t, !g.HasEdge("a", "b"))
	assert.Check(t, !g.HasEdge("b", "a"))
}

func TestBuildOverlappingRangesInterfere(t *testing.T) {
	// a = 1
	// b = 2
	// c = a + b
	// live: c
	//
	// a 和 b 在第三条指令前同时活跃，必有边 (a, b)
	g := buildFrom([]ir.Instruction{
		ir.NewCopy("a", "1", noPos),
		ir.NewCopy("b", "2", noPos),
		ir.NewBinary("c", "a", "+", "b", noPos),
	}, []string{"c"})

	assert.Check(t, is.DeepEqual(g.Nodes(), []string{"a", "b", "c"}))
	assert.Check(t, g.HasEdge("a", "b"))
	assert.Check(t, !g.HasEdge("a", "c"))
	assert.Check(t, !g.HasEdge("b", "c"))
}

func TestBuildEntryLiveSetClique(t *testing.T) {
	// x 与 y 在块入口同时活跃（都被第一条指令之后使用），
	// liveBefore[0] 的团规则必须给它们加边
	g := buildFrom([]ir.Instruction{
		ir.NewBinary("a", "x", "+", "y", noPos),
	}, []string{"a"})

	assert.Check(t, g.HasEdge("x", "y"))
}

func TestBuildExitLiveOutClique(t *testing.T) {
	// 出口活跃的变量在最后一条指令之后同时活跃，两两冲突
	g := buildFrom([]ir.Instruction{
		ir.NewCopy("a", "1", noPos),
		ir.NewCopy("b", "2", noPos),
		ir.NewCopy("c", "3", noPos),
	}, []string{"a", "b", "c"})

	assert.Check(t, g.HasEdge("a", "b"))
	assert.Check(t, g.HasEdge("a", "c"))
	assert.Check(t, g.HasEdge("b", "c"))
}

func TestBuildSymmetry(t *testing.T) {
	g := buildFrom([]ir.Instruction{
		ir.NewCopy("a", "1", noPos),
		ir.NewCopy("b", "2", noPos),
		ir.NewBinary("c", "a", "+", "b", noPos),
	}, []string{"c", "a"})

	for _, u := range g.Nodes() {
		for _, v := range g.Neighbors(u).ToSlice() {
			assert.Check(t, g.HasEdge(v, u), "edge %s-%s must be symmetric", u, v)
		}
	}
}

func TestBuildNoSelfLoops(t *testing.T) {
	g := buildFrom([]ir.Instruction{
		ir.NewBinary("a", "a", "+", "1", noPos),
		ir.NewBinary("b", "a", "*", "b", noPos),
	}, []string{"a", "b"})

	for _, v := range g.Nodes() {
		assert.Check(t, !g.HasEdge(v, v), "%s must not neighbor itself", v)
	}
}

func TestBuildConstantsAreNotNodes(t *testing.T) {
	g := buildFrom([]ir.Instruction{
		ir.NewCopy("a", "10", noPos),
		ir.NewBinary("b", "a", "+", "-3", noPos),
	}, []string{"b"})

	assert.Check(t, is.DeepEqual(g.Nodes(), []string{"a", "b"}))
	assert.Check(t, !g.Has("10"))
	assert.Check(t, !g.Has("-3"))
}

func TestBuildNonVariableLiveOutTolerated(t *testing.T) {
	// 直接构造的块可能带着不合规的 liveOut 名字；
	// 它们不得成为图结点，也不得引起失败
	block := ir.NewBlock([]ir.Instruction{
		ir.NewCopy("a", "1", noPos),
		ir.NewCopy("b", "2", noPos),
	}, []string{"a", "b", "42", "foo"})

	g := Build(block, liveness.Analyze(block))

	assert.Check(t, is.DeepEqual(g.Nodes(), []string{"a", "b"}))
	assert.Check(t, g.HasEdge("a", "b"))
}

func TestBuildEmptyBlock(t *testing.T) {
	g := buildFrom(nil, nil)
	assert.Equal(t, g.Len(), 0)
}

func TestAddEdgeIdempotent(t *testing.T) {
	g := NewGraph([]string{"a", "b"})

	g.AddEdge("a", "b")
	g.AddEdge("a", "b")
	g.AddEdge("b", "a")

	assert.Equal(t, g.Degree("a"), 1)
	assert.Equal(t, g.Degree("b"), 1)
}

func TestAddEdgeIgnoresSelfLoop(t *testing.T) {
	g := NewGraph([]string{"a"})
	g.AddEdge("a", "a")
	assert.Equal(t, g.Degree("a"), 0)
}

func TestAddEdgeCreatesMissingNodes(t *testing.T) {
	g := NewGraph(nil)
	g.AddEdge("a", "b")

	assert.Check(t, is.DeepEqual(g.Nodes(), []string{"a", "b"}))
	assert.Check(t, g.HasEdge("a", "b"))
}

func TestNeighborsUnknownNode(t *testing.T) {
	g := NewGraph([]string{"a"})
	assert.Equal(t, g.Neighbors("zz").Cardinality(), 0)
	assert.Equal(t, g.Degree("zz"), 0)
}

func TestAssignRoundTrip(t *testing.T) {
	g := NewGraph([]string{"a", "b"})

	_, ok := g.Assigned("a")
	assert.Check(t, !ok, "fresh graph must have no assignments")

	g.Assign("a", 2)
	reg, ok := g.Assigned("a")
	assert.Check(t, ok)
	assert.Equal(t, reg, 2)

	g.Unassign("a")
	_, ok = g.Assigned("a")
	assert.Check(t, !ok, "Unassign must remove the entry")
}

func TestIsSafe(t *testing.T) {
	// a-b 相邻，c 孤立
	g := NewGraph([]string{"a", "b", "c"})
	g.AddEdge("a", "b")

	// 邻居未指派时任何寄存器都安全
	assert.Check(t, g.IsSafe("a", 0))

	g.Assign("b", 0)
	assert.Check(t, !g.IsSafe("a", 0), "neighbor holds R0")
	assert.Check(t, g.IsSafe("a", 1))

	// 不相邻的结点互不约束
	assert.Check(t, g.IsSafe("c", 0))

	// 撤销后恢复安全
	g.Unassign("b")
	assert.Check(t, g.IsSafe("a", 0))
}

func TestAssignmentReturnsCopy(t *testing.T) {
	g := NewGraph([]string{"a", "b"})
	g.Assign("a", 0)
	g.Assign("b", 1)

	snapshot := g.Assignment()
	assert.Check(t, is.DeepEqual(snapshot, map[string]int{"a": 0, "b": 1}))

	snapshot["a"] = 9
	reg, _ := g.Assigned("a")
	assert.Equal(t, reg, 0, "mutating the copy must not touch the graph")
}

func TestClearAssignment(t *testing.T) {
	g := NewGraph([]string{"a", "b"})
	g.Assign("a", 0)
	g.Assign("b", 1)

	g.ClearAssignment()

	_, ok := g.Assigned("a")
	assert.Check(t, !ok)
	assert.Equal(t, len(g.Assignment()), 0)
}

func TestTableFormat(t *testing.T) {
	g := buildFrom([]ir.Instruction{
		ir.NewCopy("a", "1", noPos),
		ir.NewCopy("b", "2", noPos),
		ir.NewBinary("c", "a", "+", "b", noPos),
	}, []string{"c"})

	want := "--- Variable Interference Table ---\n" +
		"a: b\n" +
		"b: a\n" +
		"c: \n"

	assert.Equal(t, g.Table(), want)
}

func TestTableSortedOutput(t *testing.T) {
	g := NewGraph([]string{"c", "a", "b"})
	g.AddEdge("c", "a")
	g.AddEdge("c", "b")

	want := "--- Variable Interference Table ---\n" +
		"a: c\n" +
		"b: c\n" +
		"c: a, b\n"

	assert.Equal(t, g.Table(), want)
}
