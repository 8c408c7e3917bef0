// regalloc.go - 图着色寄存器分配
//
// 把 k 个寄存器看作 k 种颜色，在冲突图上做回溯搜索：
// 相邻结点不得同色。找到任意一个合法着色即成功；
// 搜索穷尽仍无解则说明图不是 k-可着色的。
//
// 结点选择采用 DSATUR 启发式：优先选饱和度（已着色邻居使用的
// 不同颜色数）最高的结点，饱和度相同取度数大者，再相同取名字
// 字典序最小者。颜色按 0..k-1 升序尝试。选择顺序只影响速度和
// 返回哪一个合法着色，不影响可行与否。
//
// 最坏情况下搜索是指数级的（图着色是 NP 完全问题）；
// 输入是单个基本块，结点数很小，实际开销可以接受。

package regalloc

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/tangzhangming/regal/internal/interference"

	mapset "github.com/deckarep/golang-set/v2"
)

// ErrInvalidRegisterCount 寄存器数量不是正整数
//
// 这是配置错误，与"图不可着色"（正常的搜索结果）严格区分。
var ErrInvalidRegisterCount = errors.New("invalid register count")

// Result 一次分配尝试的结果
//
// Feasible 为 false 表示 k 个寄存器不够用，这是正常结果而非错误；
// 此时 Assignment 为空映射，不含任何残留的试探性赋值。
type Result struct {
	Feasible   bool
	Registers  int            // 本次尝试使用的寄存器数量 k
	Assignment map[string]int // 变量 → 寄存器编号，范围 [0, k)
}

// Allocate 在冲突图上分配 k 个寄存器
//
// k ≤ 0 返回 ErrInvalidRegisterCount；搜索失败不是错误，
// 通过 Result.Feasible 报告。
//
// 指派状态挂在图上，由本次调用独占并改写；入口先清掉
// 上一次尝试的残留，同一张图可以换不同的 k 重复调用。
func Allocate(g *interference.Graph, k int) (*Result, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidRegisterCount, k)
	}

	g.ClearAssignment()

	a := &allocator{
		graph: g,
		k:     k,
		nodes: g.Nodes(), // 已按名字排序，保证平局裁决稳定
	}

	if a.solve() {
		return &Result{
			Feasible:   true,
			Registers:  k,
			Assignment: g.Assignment(),
		}, nil
	}

	// 回溯已把所有试探性指派撤销干净，副本是空映射
	return &Result{
		Feasible:   false,
		Registers:  k,
		Assignment: g.Assignment(),
	}, nil
}

// ============================================================================
// 回溯搜索
// ============================================================================

type allocator struct {
	graph *interference.Graph
	k     int
	nodes []string
}

// solve 递归主体：全部着色则成功，否则选点、逐色试探、失败回溯
func (a *allocator) solve() bool {
	v, ok := a.selectNode()
	if !ok {
		return true // 所有结点都已着色
	}

	for colour := 0; colour < a.k; colour++ {
		if !a.graph.IsSafe(v, colour) {
			continue
		}

		a.graph.Assign(v, colour)
		if a.solve() {
			return true
		}
		a.graph.Unassign(v) // 撤销试探，换下一种颜色
	}

	return false
}

// selectNode 按 DSATUR 启发式挑选下一个未着色结点
//
// 排序键：(饱和度, 度数) 取最大；nodes 本身按名字排序，
// 严格大于才替换当前最优，平局自然落在字典序最小的结点上。
func (a *allocator) selectNode() (string, bool) {
	var best string
	bestSat, bestDeg := -1, -1
	found := false

	for _, v := range a.nodes {
		if _, done := a.graph.Assigned(v); done {
			continue
		}

		sat := a.saturation(v)
		deg := a.graph.Degree(v)

		if !found || sat > bestSat || (sat == bestSat && deg > bestDeg) {
			best, bestSat, bestDeg = v, sat, deg
			found = true
		}
	}

	return best, found
}

// saturation 统计已着色邻居使用的不同颜色数
func (a *allocator) saturation(v string) int {
	colours := mapset.NewThreadUnsafeSet[int]()
	a.graph.Neighbors(v).Each(func(n string) bool {
		if c, ok := a.graph.Assigned(n); ok {
			colours.Add(c)
		}
		return false
	})
	return colours.Cardinality()
}

// ============================================================================
// 结果渲染
// ============================================================================

// Lines 把成功的分配渲染为 'var: R<n>' 行（按变量名排序）
func (r *Result) Lines() string {
	vars := make([]string, 0, len(r.Assignment))
	for v := range r.Assignment {
		vars = append(vars, v)
	}
	sort.Strings(vars)

	var sb strings.Builder
	for _, v := range vars {
		fmt.Fprintf(&sb, "%s: R%d\n", v, r.Assignment[v])
	}
	return sb.String()
}

// RegisterTable 把成功的分配渲染为按寄存器分组的表：
//
//	R0: a, c
//	R1: b
//
// 每个寄存器一行（包括空寄存器），变量按名字排序。
func (r *Result) RegisterTable() string {
	byReg := make([][]string, r.Registers)
	for v, reg := range r.Assignment {
		byReg[reg] = append(byReg[reg], v)
	}

	var sb strings.Builder
	for reg := 0; reg < r.Registers; reg++ {
		sort.Strings(byReg[reg])
		fmt.Fprintf(&sb, "R%d: %s\n", reg, strings.Join(byReg[reg], ", "))
	}
	return sb.String()
}
