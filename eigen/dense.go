package eigen

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/cmplxs"
	"gonum.org/v1/gonum/mat"

	"fdfd/maths"
)

// DenseEigen 稠密复数矩阵的全部特征对
//
// 复矩阵 A+iB 嵌入实矩阵 R = [[A, -B], [B, A]]，R 的特征值为 A+iB 的特征值及其共轭。
// 对 R 的特征向量 [w1; w2]，v = w1 + i·w2 满足 (A+iB)v = μv 或为零，
// 按 |v| 从大到小筛选残差合格且与同值已选向量线性无关者。
func DenseEigen(a [][]complex128) ([]complex128, [][]complex128, error) {
	m := len(a)
	if m == 0 {
		return nil, nil, nil
	}
	r := mat.NewDense(2*m, 2*m, nil)
	norm := 0.0
	for i, row := range a {
		if len(row) != m {
			panic("matrix is not square")
		}
		for j, v := range row {
			re, im := real(v), imag(v)
			r.Set(i, j, re)
			r.Set(i, j+m, -im)
			r.Set(i+m, j, im)
			r.Set(i+m, j+m, re)
			norm += re*re + im*im
		}
	}
	norm = math.Sqrt(norm)

	var e mat.Eigen
	if ok := e.Factorize(r, mat.EigenRight); !ok {
		return nil, nil, fmt.Errorf("dense eigen: %w", ErrNoConvergence)
	}
	mu := e.Values(nil)
	var w mat.CDense
	e.VectorsTo(&w)

	type candidate struct {
		value complex128
		vec   []complex128
		score float64
	}
	cands := make([]candidate, 2*m)
	for c := range cands {
		v := make([]complex128, m)
		for i := range v {
			v[i] = w.At(i, c) + 1i*w.At(i+m, c)
		}
		cands[c] = candidate{value: mu[c], vec: v, score: cmplxs.Norm(v, 2)}
	}
	sort.SliceStable(cands, func(i, j int) bool { return cands[i].score > cands[j].score })

	tol := 1e-7 * math.Max(norm, math.SmallestNonzeroFloat64)
	values := make([]complex128, 0, m)
	vectors := make([][]complex128, 0, m)
	res := make([]complex128, m)
	for _, c := range cands {
		if len(values) == m {
			break
		}
		if c.score < 1e-8 {
			continue
		}
		cmplxs.ScaleReal(1/c.score, c.vec)
		// 残差 |Av - μv|
		for i, row := range a {
			var s complex128
			for j, x := range row {
				s += x * c.vec[j]
			}
			res[i] = s - c.value*c.vec[i]
		}
		if cmplxs.Norm(res, 2) > tol {
			continue
		}
		if inSpan(c.vec, c.value, values, vectors, tol) {
			continue
		}
		values = append(values, c.value)
		vectors = append(vectors, c.vec)
	}
	return values, vectors, nil
}

// inSpan 判断 v 是否落在特征值与 mu 相同的已选向量张成的子空间内
func inSpan(v []complex128, mu complex128, values []complex128, vectors [][]complex128, tol float64) bool {
	var basis [][]complex128
	for i, val := range values {
		if maths.Abs(val-mu) > 1e3*tol {
			continue
		}
		q := append([]complex128(nil), vectors[i]...)
		for _, b := range basis {
			cmplxs.AddScaled(q, -cmplxs.Dot(b, q), b)
		}
		if n := cmplxs.Norm(q, 2); n > 1e-10 {
			cmplxs.ScaleReal(1/n, q)
			basis = append(basis, q)
		}
	}
	if len(basis) == 0 {
		return false
	}
	r := append([]complex128(nil), v...)
	for pass := 0; pass < 2; pass++ {
		for _, b := range basis {
			cmplxs.AddScaled(r, -cmplxs.Dot(b, r), b)
		}
	}
	return cmplxs.Norm(r, 2) < 1e-6
}

// Dense 对整个矩阵做稠密特征分解，适用于小规模网格与交叉验证
type Dense struct{}

// Eigs 实现 ShiftInvertEigensolver
func (Dense) Eigs(a *maths.SparseMatrix[complex128], sigma complex128, k int) (*Result, error) {
	n := a.Rows()
	if k < 1 || k > n {
		return nil, fmt.Errorf("dense eigen: k=%d, n=%d: %w", k, n, ErrTooManyModes)
	}
	values, vectors, err := DenseEigen(a.ToDense())
	if err != nil {
		return nil, err
	}
	if len(values) < k {
		return nil, fmt.Errorf("dense eigen: resolved %d of %d eigenpairs: %w", len(values), k, ErrNoConvergence)
	}
	return nearest(values, vectors, sigma, k), nil
}
