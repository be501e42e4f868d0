package operator

import (
	"runtime"
	"sync"

	"fdfd/grid"
	"fdfd/maths"
	"fdfd/pml"
)

// Matrix 复数稀疏算子
type Matrix = maths.SparseMatrix[complex128]

// Derivatives 八个含吸收层拉伸的一阶差分算子
//
//	Ax, Bx, Ay, By 前向差分（对角 -1/s，邻居 +1/s）
//	Cx, Dx, Cy, Dy 后向差分（对角 +1/s，邻居 -1/s）
//
// x 方向邻居为展开下标 k±1，y 方向为 k±Nx，越出展开范围时省略
type Derivatives struct {
	Ax, Bx, Cx, Dx *Matrix
	Ay, By, Cy, Dy *Matrix
}

// ---- 组装 ----

// builder 八个算子的三元组缓冲区，第 k 行占用槽位 2k（对角）与 2k+1（邻居）
type builder struct {
	ax, bx, cx, dx *maths.Triplets[complex128]
	ay, by, cy, dy *maths.Triplets[complex128]
}

func newBuilder(n int) *builder {
	t := func() *maths.Triplets[complex128] { return maths.NewTriplets[complex128](n, n, 2*n) }
	return &builder{
		ax: t(), bx: t(), cx: t(), dx: t(),
		ay: t(), by: t(), cy: t(), dy: t(),
	}
}

// forward 前向差分行：对角 -v，邻居 +v
func forward(t *maths.Triplets[complex128], k, next, n int, v complex128) {
	t.Put(2*k, k, k, -v)
	if next < n {
		t.Put(2*k+1, k, next, v)
	}
}

// backward 后向差分行：对角 +v，邻居 -v
func backward(t *maths.Triplets[complex128], k, prev int, v complex128) {
	t.Put(2*k, k, k, v)
	if prev >= 0 {
		t.Put(2*k+1, k, prev, -v)
	}
}

// row 写入单元 k 在八个算子中的行
func (b *builder) row(g grid.Grid, k int, s pml.Stretch) {
	n := g.Size()
	inv := complex(1/g.Dx, 0)
	forward(b.ax, k, k+1, n, inv/s.XEz)
	forward(b.bx, k, k+1, n, inv/s.XEy)
	forward(b.ay, k, k+g.Nx, n, inv/s.YEz)
	forward(b.by, k, k+g.Nx, n, inv/s.YEx)
	backward(b.cx, k, k-1, inv/s.XHz)
	backward(b.dx, k, k-1, inv/s.XHy)
	backward(b.cy, k, k-g.Nx, inv/s.YHz)
	backward(b.dy, k, k-g.Nx, inv/s.YHx)
}

// Assemble 组装八个差分算子，workers<=0 时使用全部 CPU
// 每行只写自己的槽位，结果与并行度无关
func Assemble(g grid.Grid, eps *grid.Permittivity, profile *pml.Profile, workers int) *Derivatives {
	n := g.Size()
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	workers = max(1, min(workers, n))
	b := newBuilder(n)

	chunk := (n + workers - 1) / workers
	var wg sync.WaitGroup
	for start := 0; start < n; start += chunk {
		end := min(start+chunk, n)
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for k := start; k < end; k++ {
				x, y := g.Coord(k)
				b.row(g, k, profile.At(x, y, eps.Cell(k)))
			}
		}(start, end)
	}
	wg.Wait()

	return &Derivatives{
		Ax: b.ax.ToCSR(), Bx: b.bx.ToCSR(), Cx: b.cx.ToCSR(), Dx: b.dx.ToCSR(),
		Ay: b.ay.ToCSR(), By: b.by.ToCSR(), Cy: b.cy.ToCSR(), Dy: b.dy.ToCSR(),
	}
}
