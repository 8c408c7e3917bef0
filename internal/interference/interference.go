// interference.go - 变量冲突图
//
// 结点是变量，无向边 (u, v) 表示 u 与 v 在某个程序点同时活跃，
// 因而不能共用一个寄存器。
//
// 建边规则（保守策略，不对复制指令做特殊处理）：
//   - 入口活跃集 liveBefore[0]（块非空时）内的变量两两冲突
//   - 每条指令之后的活跃集 liveAfter[i] 内的变量两两冲突

package interference

import (
	"sort"
	"strings"

	"github.com/tangzhangming/regal/internal/ir"
	"github.com/tangzhangming/regal/internal/liveness"

	mapset "github.com/deckarep/golang-set/v2"
)

// Graph 无向简单图（邻接集表示）加着色状态
//
// 邻接集天然去重：重复加边是幂等操作。自环被忽略，
// 变量不与自己冲突。
//
// 邻接结构在构建后不再变化；指派映射归分配器独占，
// 搜索过程中通过 Assign/Unassign 增删，回溯失败后收缩回空。
type Graph struct {
	adj        map[string]mapset.Set[string]
	nodes      []string // 保持插入顺序
	assignment map[string]int
}

// NewGraph 用给定结点集构造一个无边图
func NewGraph(vars []string) *Graph {
	g := &Graph{
		adj:        make(map[string]mapset.Set[string], len(vars)),
		nodes:      make([]string, 0, len(vars)),
		assignment: make(map[string]int, len(vars)),
	}
	for _, v := range vars {
		g.ensureNode(v)
	}
	return g
}

func (g *Graph) ensureNode(v string) {
	if _, ok := g.adj[v]; ok {
		return
	}
	g.adj[v] = mapset.NewThreadUnsafeSet[string]()
	g.nodes = append(g.nodes, v)
}

// AddEdge 添加无向边；自环被忽略，未知结点自动补建
func (g *Graph) AddEdge(u, v string) {
	if u == v {
		return
	}
	g.ensureNode(u)
	g.ensureNode(v)
	g.adj[u].Add(v)
	g.adj[v].Add(u)
}

// Len 返回结点数
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Nodes 返回按名字排序的结点列表（新切片）
func (g *Graph) Nodes() []string {
	nodes := make([]string, len(g.nodes))
	copy(nodes, g.nodes)
	sort.Strings(nodes)
	return nodes
}

// Has 判断结点是否在图中
func (g *Graph) Has(v string) bool {
	_, ok := g.adj[v]
	return ok
}

// HasEdge 判断两结点之间是否有边
func (g *Graph) HasEdge(u, v string) bool {
	s, ok := g.adj[u]
	return ok && s.Contains(v)
}

// Neighbors 返回结点的邻接集；未知结点返回空集。
// 返回的是内部集合，调用方不得修改。
func (g *Graph) Neighbors(v string) mapset.Set[string] {
	if s, ok := g.adj[v]; ok {
		return s
	}
	return mapset.NewThreadUnsafeSet[string]()
}

// Degree 返回结点的度数
func (g *Graph) Degree(v string) int {
	if s, ok := g.adj[v]; ok {
		return s.Cardinality()
	}
	return 0
}

// ============================================================================
// 着色状态
// ============================================================================

// Assign 给结点指派寄存器
func (g *Graph) Assign(v string, reg int) {
	g.assignment[v] = reg
}

// Unassign 撤销结点的寄存器指派
func (g *Graph) Unassign(v string) {
	delete(g.assignment, v)
}

// Assigned 返回结点当前的寄存器指派
func (g *Graph) Assigned(v string) (int, bool) {
	reg, ok := g.assignment[v]
	return reg, ok
}

// IsSafe 判断给结点指派该寄存器是否安全：
// 没有任何邻居当前持有同一个寄存器
func (g *Graph) IsSafe(v string, reg int) bool {
	safe := true
	g.Neighbors(v).Each(func(n string) bool {
		if r, ok := g.assignment[n]; ok && r == reg {
			safe = false
			return true // 发现冲突，提前终止遍历
		}
		return false
	})
	return safe
}

// Assignment 返回当前指派映射的副本
func (g *Graph) Assignment() map[string]int {
	out := make(map[string]int, len(g.assignment))
	for v, reg := range g.assignment {
		out[v] = reg
	}
	return out
}

// ClearAssignment 清空指派映射
//
// 每次分配尝试开始时调用，同一张图可以换不同的 k 反复尝试。
func (g *Graph) ClearAssignment() {
	g.assignment = make(map[string]int, len(g.nodes))
}

// Table 渲染冲突表：
//
//	--- Variable Interference Table ---
//	a: b, c
//	b: a
//	c: a
//
// 结点与邻居都按名字排序，输出稳定。
func (g *Graph) Table() string {
	var sb strings.Builder
	sb.WriteString("--- Variable Interference Table ---\n")
	for _, v := range g.Nodes() {
		neighbors := g.adj[v].ToSlice()
		sort.Strings(neighbors)
		sb.WriteString(v)
		sb.WriteString(": ")
		sb.WriteString(strings.Join(neighbors, ", "))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Build 由基本块与活跃性表构造冲突图
//
// 结点集：所有目标变量、所有变量操作数、出口活跃变量的并集，
// 只保留符合变量分类的名字。纯函数，合法输入下不会失败。
func Build(block *ir.Block, inf *liveness.Info) *Graph {
	vars := mapset.NewThreadUnsafeSet[string]()

	for _, in := range block.Instructions() {
		if ir.IsVariable(in.Dst()) {
			vars.Add(in.Dst())
		}
		for _, op := range in.Operands() {
			if ir.IsVariable(op) {
				vars.Add(op)
			}
		}
	}
	for _, name := range block.LiveOut() {
		if ir.IsVariable(name) {
			vars.Add(name)
		}
	}

	names := vars.ToSlice()
	sort.Strings(names)
	g := NewGraph(names)

	// 入口活跃集内两两冲突
	if block.Len() > 0 {
		addClique(g, inf.Before[0])
	}

	// 每条指令之后的活跃集内两两冲突
	for _, after := range inf.After {
		addClique(g, after)
	}

	return g
}

// addClique 在集合内的变量之间两两加边
//
// 活跃集里可能混入不符合变量分类的名字（比如直接构造的块里
// 写进 liveOut 的常量形状名字），这里再过滤一次，保证它们
// 不会成为图结点。
func addClique(g *Graph, live mapset.Set[string]) {
	vars := make([]string, 0, live.Cardinality())
	for _, name := range live.ToSlice() {
		if ir.IsVariable(name) {
			vars = append(vars, name)
		}
	}
	for i := 0; i < len(vars); i++ {
		for j := i + 1; j < len(vars); j++ {
			g.AddEdge(vars[i], vars[j])
		}
	}
}
