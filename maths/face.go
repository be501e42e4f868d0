package maths

import (
	"math"
	"math/cmplx"
)

// Epsilon 浮点精度阈值（主元判零）
const Epsilon = 1e-300

// Number 是一个约束，允许任何浮点或复数类型
type Number interface {
	~float32 | ~float64 | ~complex64 | ~complex128
}

// Abs 返回任何支持的 Number 类型的绝对值（复数取模）
func Abs[T Number](v T) float64 {
	switch x := any(v).(type) {
	case float32:
		return math.Abs(float64(x))
	case float64:
		return math.Abs(x)
	case complex64:
		return cmplx.Abs(complex128(x))
	case complex128:
		return cmplx.Abs(x)
	}
	return 0
}

// toComplex 转换为 complex128
func toComplex[T Number](v T) complex128 {
	switch x := any(v).(type) {
	case float32:
		return complex(float64(x), 0)
	case float64:
		return complex(x, 0)
	case complex64:
		return complex128(x)
	case complex128:
		return x
	}
	return 0
}

// fromComplex 由 complex128 转回 T（实数类型丢弃虚部）
func fromComplex[T Number](c complex128) T {
	var zero T
	switch any(zero).(type) {
	case float32:
		return any(float32(real(c))).(T)
	case float64:
		return any(real(c)).(T)
	case complex64:
		return any(complex64(c)).(T)
	case complex128:
		return any(c).(T)
	}
	return zero
}

// Matrix 只读矩阵接口（LU 分解的输入）
type Matrix[T Number] interface {
	Rows() int                      // 获取矩阵行数
	Cols() int                      // 获取矩阵列数
	Get(row, col int) T             // 获取指定行列元素值
	GetRow(row int) ([]int, []T)    // 获取指定行非零元素（列索引+值）
	NonZeroCount() int              // 统计非零元素数量
	MatrixVectorMultiply(x []T) []T // 矩阵向量乘法（返回A*x）
}

// LU 接口定义了 LU 分解和求解线性方程组的操作。
type LU[T Number] interface {
	Decompose(matrix Matrix[T]) error // 对输入方阵执行LU分解（A=PLU）
	SolveReuse(b, x []T) error        // 重用分解结果求解Ax=b
	Dim() int                         // 矩阵维度
}
