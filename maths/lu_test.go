package maths

import (
	"math/rand"
	"testing"
)

// denseToSparse 测试辅助：由稠密切片构建稀疏矩阵
func denseToSparse[T Number](dense [][]T) *SparseMatrix[T] {
	m := NewSparseMatrix[T](len(dense), len(dense[0]))
	for i, row := range dense {
		for j, v := range row {
			m.Set(i, j, v)
		}
	}
	return m
}

// TestLuDenseSolve 函数验证了针对实数矩阵的 LU 分解和求解过程的正确性。
func TestLuDenseSolve(t *testing.T) {
	// A = [[2, 3, 1],
	//      [1, 2, 3],
	//      [3, 1, 2]]
	// b = [9, 6, 8]
	// 预期解 x = [35/18, 29/18, 5/18]
	a := denseToSparse([][]float64{
		{2, 3, 1},
		{1, 2, 3},
		{3, 1, 2},
	})
	b := []float64{9, 6, 8}

	lu, err := NewLU[float64](3)
	if err != nil {
		t.Fatalf("NewLU failed: %v", err)
	}
	if err := lu.Decompose(a); err != nil {
		t.Fatalf("Decomposition failed: %v", err)
	}
	x := make([]float64, 3)
	if err := lu.SolveReuse(b, x); err != nil {
		t.Fatalf("Solve failed: %v", err)
	}

	expected := []float64{35.0 / 18.0, 29.0 / 18.0, 5.0 / 18.0}
	for i := range expected {
		if Abs(x[i]-expected[i]) > 1e-9 {
			t.Errorf("Element x[%d] is incorrect. Got %f, expected %f", i, x[i], expected[i])
		}
	}
}

// TestLuSolveComplex 稠密与稀疏分解器求解同一复数方程组
func TestLuSolveComplex(t *testing.T) {
	// A = [[1+2i, 2+3i],
	//      [3+4i, 4+5i]]
	// b = [6+7i, 12+13i]
	// 预期解 x = [1+i, 2-i]
	a := denseToSparse([][]complex128{
		{1 + 2i, 2 + 3i},
		{3 + 4i, 4 + 5i},
	})
	b := []complex128{6 + 7i, 12 + 13i}
	expected := []complex128{1 + 1i, 2 - 1i}

	for name, ctor := range map[string]func(int) (LU[complex128], error){
		"dense":  NewLU[complex128],
		"sparse": NewLUSparse[complex128],
	} {
		lu, err := ctor(2)
		if err != nil {
			t.Fatalf("%s: 创建失败: %v", name, err)
		}
		if err := lu.Decompose(a); err != nil {
			t.Fatalf("%s: 分解失败: %v", name, err)
		}
		x := make([]complex128, 2)
		if err := lu.SolveReuse(b, x); err != nil {
			t.Fatalf("%s: 求解失败: %v", name, err)
		}
		for i := range expected {
			if Abs(x[i]-expected[i]) > 1e-9 {
				t.Errorf("%s: x[%d] = %v, 期望 %v", name, i, x[i], expected[i])
			}
		}
	}
}

// TestLuSparseMatchesDense 随机带状复数矩阵上稀疏分解与稠密分解结果一致
func TestLuSparseMatchesDense(t *testing.T) {
	const n = 60
	rng := rand.New(rand.NewSource(7))
	tr := NewTriplets[complex128](n, n, 5*n)
	for i := 0; i < n; i++ {
		tr.Put(5*i, i, i, complex(4+rng.Float64(), rng.Float64()))
		if i+1 < n {
			tr.Put(5*i+1, i, i+1, complex(rng.Float64(), -rng.Float64()))
		}
		if i-1 >= 0 {
			tr.Put(5*i+2, i, i-1, complex(-rng.Float64(), rng.Float64()))
		}
		if i+7 < n {
			tr.Put(5*i+3, i, i+7, complex(rng.Float64(), 0))
		}
		if i-7 >= 0 {
			tr.Put(5*i+4, i, i-7, complex(0, rng.Float64()))
		}
	}
	a := tr.ToCSR()
	b := make([]complex128, n)
	for i := range b {
		b[i] = complex(rng.Float64(), rng.Float64())
	}

	dense, _ := NewLU[complex128](n)
	sparse, _ := NewLUSparse[complex128](n)
	if err := dense.Decompose(a); err != nil {
		t.Fatalf("稠密分解失败: %v", err)
	}
	if err := sparse.Decompose(a); err != nil {
		t.Fatalf("稀疏分解失败: %v", err)
	}
	xd := make([]complex128, n)
	xs := make([]complex128, n)
	if err := dense.SolveReuse(b, xd); err != nil {
		t.Fatal(err)
	}
	if err := sparse.SolveReuse(b, xs); err != nil {
		t.Fatal(err)
	}
	for i := range xd {
		if Abs(xd[i]-xs[i]) > 1e-9 {
			t.Fatalf("x[%d]: 稠密 %v, 稀疏 %v", i, xd[i], xs[i])
		}
	}
	// 残差检查
	r := a.MatrixVectorMultiply(xs)
	for i := range r {
		if Abs(r[i]-b[i]) > 1e-9 {
			t.Fatalf("残差过大: row %d, %v != %v", i, r[i], b[i])
		}
	}
}

// TestLuDenseSingular 函数验证 Decompose 方法能否正确识别奇异矩阵。
func TestLuDenseSingular(t *testing.T) {
	// A 有一行全为零
	a := denseToSparse([][]float64{
		{1, 2, 3},
		{4, 5, 6},
		{0, 0, 0},
	})
	lu, err := NewLU[float64](3)
	if err != nil {
		t.Fatalf("NewLU failed: %v", err)
	}
	if err := lu.Decompose(a); err == nil {
		t.Fatalf("Decompose should have failed for a singular matrix but it did not")
	}
}

// BenchmarkLuSparseDecompose 测试五点差分型复数矩阵的稀疏分解性能。
func BenchmarkLuSparseDecompose(b *testing.B) {
	const nx = 30
	n := nx * nx
	tr := NewTriplets[complex128](n, n, 5*n)
	for i := 0; i < n; i++ {
		tr.Put(5*i, i, i, 4+0.1i)
		for s, off := range []int{-nx, -1, 1, nx} {
			if j := i + off; j >= 0 && j < n {
				tr.Put(5*i+1+s, i, j, -1)
			}
		}
	}
	a := tr.ToCSR()
	lu, err := NewLUSparse[complex128](n)
	if err != nil {
		b.Fatalf("NewLUSparse failed: %v", err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := lu.Decompose(a); err != nil {
			b.Fatalf("Decomposition failed during benchmark: %v", err)
		}
	}
}
