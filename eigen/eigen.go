// Package eigen 求解稀疏复数矩阵在给定位移附近的特征对
package eigen

import (
	"errors"
	"sort"

	"fdfd/maths"
)

var (
	// ErrNoConvergence 迭代次数用尽仍未收敛
	ErrNoConvergence = errors.New("eigensolver did not converge")
	// ErrTooManyModes 请求的特征对数超过算子允许的数量
	ErrTooManyModes = errors.New("requested more eigenpairs than the operator supports")
	// ErrSingularShift 位移后的矩阵无法分解
	ErrSingularShift = errors.New("shifted operator is singular")
)

// Result 特征值按 |λ-σ| 升序排列，Vectors[i] 为单位范数特征向量
type Result struct {
	Values     []complex128
	Vectors    [][]complex128
	Iterations int // 重启次数
}

// ShiftInvertEigensolver 求 A 在位移 sigma 附近的 k 个特征对
type ShiftInvertEigensolver interface {
	Eigs(a *maths.SparseMatrix[complex128], sigma complex128, k int) (*Result, error)
}

// Auto 小矩阵用稠密分解，其余用 Arnoldi
type Auto struct {
	Limit   int // 稠密分解的最大阶数
	Arnoldi Arnoldi
}

// Eigs 实现 ShiftInvertEigensolver
func (s Auto) Eigs(a *maths.SparseMatrix[complex128], sigma complex128, k int) (*Result, error) {
	if a.Rows() <= s.Limit {
		return Dense{}.Eigs(a, sigma, k)
	}
	return s.Arnoldi.Eigs(a, sigma, k)
}

// nearest 按到 sigma 的距离排序并截取前 k 个
func nearest(values []complex128, vectors [][]complex128, sigma complex128, k int) *Result {
	idx := make([]int, len(values))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return maths.Abs(values[idx[a]]-sigma) < maths.Abs(values[idx[b]]-sigma)
	})
	k = min(k, len(idx))
	res := &Result{
		Values:  make([]complex128, k),
		Vectors: make([][]complex128, k),
	}
	for i, j := range idx[:k] {
		res.Values[i] = values[j]
		res.Vectors[i] = vectors[j]
	}
	return res
}
