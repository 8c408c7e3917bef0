// liveness.go - 活跃变量分析
//
// 对单个基本块做精确的后向数据流分析：
//
//	liveAfter[last] = liveOut
//	liveAfter[i]    = liveBefore[i+1]
//	liveBefore[i]   = uses(instr[i]) ∪ (liveAfter[i] \ defs(instr[i]))
//
// 块内没有分支和循环，一次自底向上的遍历即是精确解，
// 不需要不动点迭代。
//
// 只有变量参与活跃性：常量操作数被分类规则（见 internal/ir）
// 过滤掉，不产生 use。

package liveness

import (
	"sort"
	"strings"

	"github.com/tangzhangming/regal/internal/ir"

	mapset "github.com/deckarep/golang-set/v2"
)

// Info 基本块的活跃性表
//
// Before[i] / After[i] 分别是第 i 条指令执行前/后的活跃变量集。
// 两张表与指令序列等长；每个条目是独立的新集合，互不共享，
// 调用方可以安全修改。
type Info struct {
	Before []mapset.Set[string]
	After  []mapset.Set[string]
}

// Len 返回表长（等于块内指令条数）
func (inf *Info) Len() int {
	return len(inf.Before)
}

// Entry 返回入口活跃变量集（即 Before[0]）
//
// 空块返回空集。
func (inf *Info) Entry() mapset.Set[string] {
	if len(inf.Before) == 0 {
		return mapset.NewThreadUnsafeSet[string]()
	}
	return inf.Before[0]
}

// Analyze 计算基本块的活跃性表
//
// 纯函数：不修改块，也不缓存结果。空块得到两张空表。
func Analyze(block *ir.Block) *Info {
	n := block.Len()
	inf := &Info{
		Before: make([]mapset.Set[string], n),
		After:  make([]mapset.Set[string], n),
	}

	// live 是工作集，自块尾向上滚动；表条目取其快照
	live := block.LiveOutSet()

	instrs := block.Instructions()
	for i := n - 1; i >= 0; i-- {
		inf.After[i] = live.Clone()

		live.Remove(instrs[i].Defs())
		for _, u := range instrs[i].Uses() {
			live.Add(u)
		}

		inf.Before[i] = live.Clone()
	}

	return inf
}

// FormatSet 把变量集渲染为 '{a, b, t1}' 形式（按名字排序）
//
// 供 CLI、REPL 和 LSP 悬停展示复用。
func FormatSet(s mapset.Set[string]) string {
	names := s.ToSlice()
	sort.Strings(names)

	var sb strings.Builder
	sb.WriteByte('{')
	sb.WriteString(strings.Join(names, ", "))
	sb.WriteByte('}')
	return sb.String()
}
