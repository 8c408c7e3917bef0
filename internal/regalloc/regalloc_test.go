package regalloc

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/tangzhangming/regal/internal/interference"
	"github.com/tangzhangming/regal/internal/ir"
	"github.com/tangzhangming/regal/internal/liveness"
	"github.com/tangzhangming/regal/internal/token"
)

var noPos = token.Position{}

// graphOf 走完整流水线：块 → 活跃性 → 冲突图
func graphOf(instrs []ir.Instruction, liveOut []string) *interference.Graph {
	block := ir.NewBlock(instrs, liveOut)
	return interference.Build(block, liveness.Analyze(block))
}

// expectValidColouring 校验着色合法性：每个结点都有颜色、
// 颜色落在 [0, k) 内、相邻结点颜色不同
func expectValidColouring(g *interference.Graph, res *Result) {
	GinkgoHelper()

	Expect(res.Feasible).To(BeTrue())
	Expect(res.Assignment).To(HaveLen(g.Len()))

	for _, v := range g.Nodes() {
		Expect(res.Assignment).To(HaveKey(v))
		Expect(res.Assignment[v]).To(BeNumerically(">=", 0))
		Expect(res.Assignment[v]).To(BeNumerically("<", res.Registers))

		for _, n := range g.Neighbors(v).ToSlice() {
			Expect(res.Assignment[v]).NotTo(Equal(res.Assignment[n]),
				"adjacent nodes %s and %s share a register", v, n)
		}
	}
}

var _ = Describe("Allocate", func() {
	Describe("register count validation", func() {
		It("rejects k = 0", func() {
			_, err := Allocate(interference.NewGraph(nil), 0)
			Expect(err).To(HaveOccurred())
			Expect(errors.Is(err, ErrInvalidRegisterCount)).To(BeTrue())
		})

		It("rejects negative k", func() {
			_, err := Allocate(interference.NewGraph([]string{"a"}), -3)
			Expect(errors.Is(err, ErrInvalidRegisterCount)).To(BeTrue())
		})

		It("keeps infeasibility distinct from the validation error", func() {
			g := interference.NewGraph([]string{"a", "b"})
			g.AddEdge("a", "b")

			res, err := Allocate(g, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Feasible).To(BeFalse())
		})
	})

	Context("with a chain block (no interference)", func() {
		// a = 1
		// b = a + 1
		// live: b
		var g *interference.Graph

		BeforeEach(func() {
			g = graphOf([]ir.Instruction{
				ir.NewCopy("a", "1", noPos),
				ir.NewBinary("b", "a", "+", "1", noPos),
			}, []string{"b"})
		})

		It("succeeds with a single register", func() {
			res, err := Allocate(g, 1)
			Expect(err).NotTo(HaveOccurred())
			expectValidColouring(g, res)
		})

		It("packs both variables into R0", func() {
			res, _ := Allocate(g, 1)
			Expect(res.Assignment).To(Equal(map[string]int{"a": 0, "b": 0}))
		})
	})

	Context("with one interference edge", func() {
		// a = 1
		// b = 2
		// c = a + b
		// live: c
		var g *interference.Graph

		BeforeEach(func() {
			g = graphOf([]ir.Instruction{
				ir.NewCopy("a", "1", noPos),
				ir.NewCopy("b", "2", noPos),
				ir.NewBinary("c", "a", "+", "b", noPos),
			}, []string{"c"})
		})

		It("fails with one register", func() {
			res, err := Allocate(g, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Feasible).To(BeFalse())
		})

		It("succeeds with two registers", func() {
			res, err := Allocate(g, 2)
			Expect(err).NotTo(HaveOccurred())
			expectValidColouring(g, res)
			Expect(res.Assignment["a"]).NotTo(Equal(res.Assignment["b"]))
		})

		It("follows the deterministic search order", func() {
			// 结点 a、b、c：度数 a=1 b=1 c=0，饱和度开局全 0。
			// 先选 a（度数并列时取字典序小者）→ R0；
			// b 的饱和度升为 1，选 b → R0 不安全 → R1；
			// 最后 c → R0。
			res, _ := Allocate(g, 2)
			Expect(res.Assignment).To(Equal(map[string]int{"a": 0, "b": 1, "c": 0}))
		})
	})

	Context("with a triangle of mutual interference", func() {
		var g *interference.Graph

		BeforeEach(func() {
			g = interference.NewGraph([]string{"a", "b", "c"})
			g.AddEdge("a", "b")
			g.AddEdge("b", "c")
			g.AddEdge("a", "c")
		})

		It("fails deterministically with two registers", func() {
			for i := 0; i < 3; i++ {
				res, err := Allocate(g, 2)
				Expect(err).NotTo(HaveOccurred())
				Expect(res.Feasible).To(BeFalse())
			}
		})

		It("succeeds with three registers using all of them", func() {
			res, err := Allocate(g, 3)
			Expect(err).NotTo(HaveOccurred())
			expectValidColouring(g, res)

			used := map[int]bool{}
			for _, reg := range res.Assignment {
				used[reg] = true
			}
			Expect(used).To(HaveLen(3))
		})
	})

	Describe("failure paths", func() {
		It("unwinds the assignment map completely", func() {
			g := interference.NewGraph([]string{"a", "b", "c"})
			g.AddEdge("a", "b")
			g.AddEdge("b", "c")
			g.AddEdge("a", "c")

			res, _ := Allocate(g, 2)
			Expect(res.Feasible).To(BeFalse())
			Expect(res.Assignment).To(BeEmpty())

			// 图上的指派状态同样被回溯清空
			for _, v := range g.Nodes() {
				_, ok := g.Assigned(v)
				Expect(ok).To(BeFalse(), "node %s kept a stale assignment", v)
			}
		})
	})

	Describe("graph assignment state", func() {
		It("mirrors the result on success and detaches the copy", func() {
			g := interference.NewGraph([]string{"a", "b"})
			g.AddEdge("a", "b")

			res, err := Allocate(g, 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Feasible).To(BeTrue())

			for v, reg := range res.Assignment {
				got, ok := g.Assigned(v)
				Expect(ok).To(BeTrue())
				Expect(got).To(Equal(reg))
			}

			// 结果持有副本，改它不影响图
			res.Assignment["a"] = 9
			got, _ := g.Assigned("a")
			Expect(got).NotTo(Equal(9))
		})

		It("clears leftovers from an earlier attempt", func() {
			g := interference.NewGraph([]string{"a", "b"})
			g.Assign("a", 7) // 残留的手工指派

			res, err := Allocate(g, 1)
			Expect(err).NotTo(HaveOccurred())
			expectValidColouring(g, res)
			Expect(res.Assignment["a"]).To(Equal(0))
		})
	})

	Describe("monotonic infeasibility", func() {
		It("flips from infeasible to feasible exactly once as k grows", func() {
			// 四阶完全图：鉴定阈值是 4
			g := interference.NewGraph([]string{"a", "b", "c", "d"})
			for _, u := range []string{"a", "b", "c", "d"} {
				for _, v := range []string{"a", "b", "c", "d"} {
					g.AddEdge(u, v)
				}
			}

			for k := 1; k <= 3; k++ {
				res, err := Allocate(g, k)
				Expect(err).NotTo(HaveOccurred())
				Expect(res.Feasible).To(BeFalse(), "K4 must not be %d-colourable", k)
			}
			for k := 4; k <= 6; k++ {
				res, err := Allocate(g, k)
				Expect(err).NotTo(HaveOccurred())
				Expect(res.Feasible).To(BeTrue(), "K4 must be %d-colourable", k)
				expectValidColouring(g, res)
			}
		})
	})

	Describe("determinism", func() {
		It("returns the identical assignment on repeated runs", func() {
			g := graphOf([]ir.Instruction{
				ir.NewCopy("a", "10", noPos),
				ir.NewBinary("t1", "a", "*", "4", noPos),
				ir.NewBinary("t2", "t1", "+", "1", noPos),
				ir.NewNegate("b", "a", noPos),
				ir.NewBinary("c", "t2", "-", "b", noPos),
			}, []string{"c", "a"})

			first, err := Allocate(g, 3)
			Expect(err).NotTo(HaveOccurred())
			Expect(first.Feasible).To(BeTrue())

			for i := 0; i < 5; i++ {
				again, _ := Allocate(g, 3)
				Expect(again.Assignment).To(Equal(first.Assignment))
			}
		})
	})

	Context("with an empty graph", func() {
		It("succeeds with an empty assignment", func() {
			res, err := Allocate(interference.NewGraph(nil), 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Feasible).To(BeTrue())
			Expect(res.Assignment).To(BeEmpty())
		})
	})

	Describe("colouring validity on a denser block", func() {
		It("holds for every edge of the pipeline-built graph", func() {
			// t1 = a * 4
			// t2 = t1 + b
			// t3 = t2 - a
			// c  = t3 / b
			// live: c, a
			g := graphOf([]ir.Instruction{
				ir.NewBinary("t1", "a", "*", "4", noPos),
				ir.NewBinary("t2", "t1", "+", "b", noPos),
				ir.NewBinary("t3", "t2", "-", "a", noPos),
				ir.NewBinary("c", "t3", "/", "b", noPos),
			}, []string{"c", "a"})

			res, err := Allocate(g, 3)
			Expect(err).NotTo(HaveOccurred())
			expectValidColouring(g, res)
		})
	})
})

var _ = Describe("Result rendering", func() {
	It("renders var: R<n> lines sorted by name", func() {
		res := &Result{
			Feasible:   true,
			Registers:  2,
			Assignment: map[string]int{"b": 1, "a": 0, "t1": 0},
		}

		Expect(res.Lines()).To(Equal("a: R0\nb: R1\nt1: R0\n"))
	})

	It("renders the register table grouped by register", func() {
		res := &Result{
			Feasible:   true,
			Registers:  3,
			Assignment: map[string]int{"b": 1, "a": 0, "c": 0},
		}

		Expect(res.RegisterTable()).To(Equal("R0: a, c\nR1: b\nR2: \n"))
	})
})
