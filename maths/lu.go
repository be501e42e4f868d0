package maths

import (
	"errors"
	"fmt"

	"github.com/edp1096/sparse"
)

// ErrSingular 矩阵奇异（主元为零）
var ErrSingular = errors.New("matrix is singular or nearly singular")

// NewLU 创建稠密矩阵LU分解器（输入矩阵维度n）
// 参数:
//
//	n - 矩阵维度（必须为正整数）
//
// 返回:
//
//	LU接口实例，错误信息
func NewLU[T Number](n int) (LU[T], error) {
	if n < 1 {
		return nil, errors.New("lu dimension must be positive")
	}
	a := make([][]T, n)
	for i := range a {
		a[i] = make([]T, n)
	}
	return &luDense[T]{
		n: n,
		a: a,
		y: make([]T, n),
		p: make([]int, n),
	}, nil
}

// luDense 稠密矩阵LU分解实现（PA=LU，带部分主元）
// L 与 U 原位存储于 a：严格下三角为消元因子，上三角为 U
type luDense[T Number] struct {
	n int
	a [][]T
	y []T   // 前向替换中间向量
	p []int // 置换向量：p[i] = 分解后第i行对应的原始行索引
}

// Dim 获取矩阵维度
func (lu *luDense[T]) Dim() int { return lu.n }

// Decompose 执行稠密矩阵LU分解（高斯消元+部分主元）
func (lu *luDense[T]) Decompose(matrix Matrix[T]) error {
	if matrix.Rows() != matrix.Cols() {
		return errors.New("lu dense decompose: input must be square matrix")
	}
	if matrix.Rows() != lu.n {
		return errors.New("lu dense decompose: matrix dimension mismatch")
	}
	// 拷贝 A
	for i := 0; i < lu.n; i++ {
		clear(lu.a[i])
		cols, vals := matrix.GetRow(i)
		for k, j := range cols {
			lu.a[i][j] += vals[k]
		}
		lu.p[i] = i
	}
	for k := 0; k < lu.n; k++ {
		// 部分主元选择
		maxRow := k
		maxAbsVal := Abs(lu.a[k][k])
		for i := k + 1; i < lu.n; i++ {
			if v := Abs(lu.a[i][k]); v > maxAbsVal {
				maxAbsVal = v
				maxRow = i
			}
		}
		if maxAbsVal < Epsilon {
			return fmt.Errorf("lu dense decompose: column %d: %w", k, ErrSingular)
		}
		if maxRow != k {
			lu.a[k], lu.a[maxRow] = lu.a[maxRow], lu.a[k]
			lu.p[k], lu.p[maxRow] = lu.p[maxRow], lu.p[k]
		}
		// 高斯消元
		pivot := lu.a[k][k]
		rowK := lu.a[k]
		for i := k + 1; i < lu.n; i++ {
			rowI := lu.a[i]
			if rowI[k] == 0 {
				continue
			}
			factor := rowI[k] / pivot
			rowI[k] = factor
			for j := k + 1; j < lu.n; j++ {
				rowI[j] -= factor * rowK[j]
			}
		}
	}
	return nil
}

// SolveReuse 利用分解结果求解Ax=b
// 数学步骤:
//  1. 前向替换：求解Ly = Pb
//  2. 后向替换：求解Ux = y
func (lu *luDense[T]) SolveReuse(b, x []T) error {
	if len(b) != lu.n || len(x) != lu.n {
		return errors.New("lu dense solve: vector dimension mismatch")
	}
	for i := 0; i < lu.n; i++ {
		sum := b[lu.p[i]]
		row := lu.a[i]
		for j := 0; j < i; j++ {
			sum -= row[j] * lu.y[j]
		}
		lu.y[i] = sum
	}
	for i := lu.n - 1; i >= 0; i-- {
		sum := lu.y[i]
		row := lu.a[i]
		for j := i + 1; j < lu.n; j++ {
			sum -= row[j] * x[j]
		}
		if Abs(row[i]) < Epsilon {
			return errors.New("lu dense solve: division by zero (U diagonal is zero)")
		}
		x[i] = sum / row[i]
	}
	return nil
}

// ---- 稀疏 LU（Markowitz 排序，github.com/edp1096/sparse） ----

// NewLUSparse 创建稀疏矩阵LU分解器（输入矩阵维度n）
func NewLUSparse[T Number](n int) (LU[T], error) {
	if n < 1 {
		return nil, errors.New("lu sparse dimension must be positive")
	}
	return &luSparse[T]{
		n:   n,
		rhs: make([]float64, n+1),
		irh: make([]float64, n+1),
	}, nil
}

// luSparse 稀疏矩阵LU分解实现
// 矩阵以 1 为基下标写入 sparse.Matrix，复数按实部/虚部分开存储
type luSparse[T Number] struct {
	n        int
	m        *sparse.Matrix
	rhs, irh []float64
}

// Dim 获取矩阵维度
func (lu *luSparse[T]) Dim() int { return lu.n }

// Decompose 执行稀疏矩阵LU分解
func (lu *luSparse[T]) Decompose(matrix Matrix[T]) error {
	if matrix.Rows() != matrix.Cols() {
		return errors.New("lu sparse decompose: input must be square matrix")
	}
	if matrix.Rows() != lu.n {
		return errors.New("lu sparse decompose: matrix dimension mismatch")
	}
	lu.Release()
	m, err := sparse.Create(int64(lu.n), &sparse.Configuration{
		Real:                    true,
		Complex:                 true,
		SeparatedComplexVectors: true,
		Expandable:              false,
		Translate:               false,
		ModifiedNodal:           false,
		TiesMultiplier:          5,
		PrinterWidth:            140,
		DefaultThreshold:        1.0e-3,
		DefaultPartition:        sparse.AUTO_PARTITION,
	})
	if err != nil {
		return fmt.Errorf("lu sparse decompose: %w", err)
	}
	for i := 0; i < lu.n; i++ {
		cols, vals := matrix.GetRow(i)
		for k, j := range cols {
			v := toComplex(vals[k])
			if v == 0 {
				continue
			}
			e := m.GetElement(int64(i+1), int64(j+1))
			if e == nil {
				m.Destroy()
				return fmt.Errorf("lu sparse decompose: element (%d, %d) unavailable", i, j)
			}
			e.Real += real(v)
			e.Imag += imag(v)
		}
	}
	if err := m.Factor(); err != nil {
		m.Destroy()
		return fmt.Errorf("lu sparse decompose: %v: %w", err, ErrSingular)
	}
	lu.m = m
	return nil
}

// SolveReuse 利用分解结果求解Ax=b
func (lu *luSparse[T]) SolveReuse(b, x []T) error {
	if len(b) != lu.n || len(x) != lu.n {
		return errors.New("lu sparse solve: vector dimension mismatch")
	}
	if lu.m == nil {
		return errors.New("lu sparse solve: matrix is not factored")
	}
	for i, v := range b {
		c := toComplex(v)
		lu.rhs[i+1] = real(c)
		lu.irh[i+1] = imag(c)
	}
	re, im, err := lu.m.SolveComplex(lu.rhs, lu.irh)
	if err != nil {
		return fmt.Errorf("lu sparse solve: %w", err)
	}
	for i := range x {
		x[i] = fromComplex[T](complex(re[i+1], im[i+1]))
	}
	return nil
}

// Release 释放底层稀疏矩阵
func (lu *luSparse[T]) Release() {
	if lu.m != nil {
		lu.m.Destroy()
		lu.m = nil
	}
}
