package operator

import (
	"math"
	"math/cmplx"
	"reflect"
	"testing"

	"fdfd/grid"
	"fdfd/pml"
)

func uniform(nx int, n float64) grid.IndexMap {
	m := make(grid.IndexMap, nx)
	for i := range m {
		m[i] = make([]float64, nx)
		for j := range m[i] {
			m[i][j] = n
		}
	}
	return m
}

func setup(t *testing.T, n grid.IndexMap, dx float64, cfg pml.Config, workers int) (grid.Grid, *grid.Permittivity, *Derivatives) {
	t.Helper()
	g, err := grid.New(dx, n)
	if err != nil {
		t.Fatal(err)
	}
	eps := grid.Sample(g, n)
	wl := 1e-6
	profile := pml.NewProfile(cfg, g, 2*math.Pi*pml.C/wl)
	return g, eps, Assemble(g, eps, profile, workers)
}

// TestAssembleWithoutPML 无吸收层时算子退化为普通差分
func TestAssembleWithoutPML(t *testing.T) {
	const nx, dx = 5, 0.1
	g, _, d := setup(t, uniform(nx, 1.3), dx, pml.Config{}, 0)
	n := g.Size()
	inv := complex(1/dx, 0)
	near := func(a, b complex128) bool { return cmplx.Abs(a-b) < 1e-9 }

	ops := map[string]struct {
		m    *Matrix
		diag complex128
		off  int
	}{
		"Ax": {d.Ax, -inv, 1}, "Bx": {d.Bx, -inv, 1},
		"Ay": {d.Ay, -inv, nx}, "By": {d.By, -inv, nx},
		"Cx": {d.Cx, inv, -1}, "Dx": {d.Dx, inv, -1},
		"Cy": {d.Cy, inv, -nx}, "Dy": {d.Dy, inv, -nx},
	}
	for name, op := range ops {
		wantNNZ := n + n - abs(op.off)
		if op.m.NonZeroCount() != wantNNZ {
			t.Errorf("%s: 非零元 %d, 期望 %d", name, op.m.NonZeroCount(), wantNNZ)
		}
		for k := 0; k < n; k++ {
			if !near(op.m.Get(k, k), op.diag) {
				t.Fatalf("%s(%d,%d) = %v", name, k, k, op.m.Get(k, k))
			}
			if j := k + op.off; j >= 0 && j < n && !near(op.m.Get(k, j), -op.diag) {
				t.Fatalf("%s(%d,%d) = %v", name, k, j, op.m.Get(k, j))
			}
		}
	}
	// 展开下标相邻即相邻：x 方向最后一格仍与下一列首格耦合
	if !near(d.Ax.Get(nx-1, nx), inv) || !near(d.Cx.Get(nx, nx-1), -inv) {
		t.Errorf("行边界处的邻居项不应被省略")
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// TestAssembleParallelDeterministic 并行度不影响结果
func TestAssembleParallelDeterministic(t *testing.T) {
	n := uniform(14, 1.0)
	for i := 4; i < 10; i++ {
		for j := 5; j < 9; j++ {
			n[i][j] = 1.45
		}
	}
	cfg := pml.Config{Depth: 4, TargetLoss: 1e-5, PolyDegree: 3}
	_, _, serial := setup(t, n, 0.1e-6, cfg, 1)
	_, _, parallel := setup(t, n, 0.1e-6, cfg, 7)
	if !reflect.DeepEqual(serial, parallel) {
		t.Fatalf("串行与并行组装结果不一致")
	}
}

// ---- 稠密参考实现 ----

type dense [][]complex128

func toDense(m *Matrix) dense { return m.ToDense() }

func (a dense) mul(b dense) dense {
	out := make(dense, len(a))
	for i := range a {
		out[i] = make([]complex128, len(b[0]))
		for k := range b {
			if a[i][k] == 0 {
				continue
			}
			for j := range b[0] {
				out[i][j] += a[i][k] * b[k][j]
			}
		}
	}
	return out
}

func (a dense) add(alpha complex128, b dense) dense {
	out := make(dense, len(a))
	for i := range a {
		out[i] = make([]complex128, len(a[i]))
		for j := range a[i] {
			out[i][j] = a[i][j] + alpha*b[i][j]
		}
	}
	return out
}

func diag(v []float64) dense {
	out := make(dense, len(v))
	for i := range v {
		out[i] = make([]complex128, len(v))
		out[i][i] = complex(v[i], 0)
	}
	return out
}

// TestBuildWaveMatchesDense 四个分块与稠密公式一致
func TestBuildWaveMatchesDense(t *testing.T) {
	n := grid.IndexMap{
		{1.0, 1.2, 1.0, 1.1},
		{1.3, 1.45, 1.4, 1.0},
		{1.0, 1.44, 1.2, 1.0},
		{1.1, 1.0, 1.0, 1.0},
	}
	cfg := pml.Config{Depth: 1, TargetLoss: 1e-5, PolyDegree: 3}
	_, eps, d := setup(t, n, 0.2e-6, cfg, 2)
	k0 := 2 * math.Pi / 1e-6
	w := BuildWave(d, eps, k0)

	ik := complex(1/(k0*k0), 0)
	k2 := complex(k0*k0, 0)
	ax, bx, cx, dx := toDense(d.Ax), toDense(d.Bx), toDense(d.Cx), toDense(d.Dx)
	ay, by, cy, dy := toDense(d.Ay), toDense(d.By), toDense(d.Cy), toDense(d.Dy)
	z := diag(eps.InverseZ())
	ex, ey := diag(eps.X), diag(eps.Y)
	id := diag(make([]float64, len(eps.R)))
	for i := range id {
		id[i][i] = 1
	}
	zero := diag(make([]float64, len(eps.R)))

	px := ey.add(ik, ax.mul(dx))
	py := ex.add(ik, ay.mul(dy))
	yy := zero.add(k2, id).add(1, cy.mul(z).mul(by))
	xx := zero.add(k2, id).add(1, cx.mul(z).mul(bx))

	want := map[string]dense{
		"Qxx": px.mul(yy).add(-ik, ax.mul(dy).mul(cx).mul(z).mul(by)),
		"Qyy": py.mul(xx).add(-ik, ay.mul(dx).mul(cy).mul(z).mul(bx)),
		"Qxy": zero.add(ik, ax.mul(dy).mul(xx)).add(-1, px.mul(cy).mul(z).mul(bx)),
		"Qyx": zero.add(ik, ay.mul(dx).mul(yy)).add(-1, py.mul(cx).mul(z).mul(by)),
	}
	got := map[string]*Matrix{"Qxx": w.Qxx, "Qyy": w.Qyy, "Qxy": w.Qxy, "Qyx": w.Qyx}
	for name, m := range got {
		g := m.ToDense()
		ref := want[name]
		scale := 0.0
		for i := range ref {
			for j := range ref[i] {
				scale = math.Max(scale, cmplx.Abs(ref[i][j]))
			}
		}
		for i := range ref {
			for j := range ref[i] {
				if cmplx.Abs(g[i][j]-ref[i][j]) > 1e-10*scale {
					t.Fatalf("%s(%d,%d) = %v, 期望 %v", name, i, j, g[i][j], ref[i][j])
				}
			}
		}
	}

	// 分块拼装
	size := w.Size()
	if w.Q.Rows() != 2*size || w.Q.Cols() != 2*size {
		t.Fatalf("Q 尺寸 %dx%d", w.Q.Rows(), w.Q.Cols())
	}
	if w.Q.Get(1, size+2) != w.Qxy.Get(1, 2) || w.Q.Get(size+3, 0) != w.Qyx.Get(3, 0) {
		t.Errorf("Q 分块位置错误")
	}
}
