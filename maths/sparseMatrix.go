package maths

import "sort"

// SparseMatrix 稀疏矩阵数据结构
// 使用CSR (Compressed Sparse Row) 格式存储，行内列索引升序
type SparseMatrix[T Number] struct {
	rows, cols int
	rowPtr     []int // 行指针数组
	colInd     []int // 列索引数组
	values     []T   // 非零元素值
}

// NewSparseMatrix 创建新的空稀疏矩阵
func NewSparseMatrix[T Number](rows, cols int) *SparseMatrix[T] {
	return &SparseMatrix[T]{
		rows:   rows,
		cols:   cols,
		rowPtr: make([]int, rows+1), // 多一个元素用于存储结束位置
	}
}

// NewDiagonal 由对角线元素创建方阵
func NewDiagonal[T Number](diag []T) *SparseMatrix[T] {
	n := len(diag)
	m := &SparseMatrix[T]{
		rows:   n,
		cols:   n,
		rowPtr: make([]int, n+1),
		colInd: make([]int, n),
		values: make([]T, n),
	}
	for i, v := range diag {
		m.rowPtr[i+1] = i + 1
		m.colInd[i] = i
		m.values[i] = v
	}
	return m
}

// NewIdentity 创建 n 阶单位阵的 scale 倍
func NewIdentity[T Number](n int, scale T) *SparseMatrix[T] {
	diag := make([]T, n)
	for i := range diag {
		diag[i] = scale
	}
	return NewDiagonal(diag)
}

// NewBlock 由 2×2 分块拼装矩阵 [[a, b], [c, d]]
func NewBlock[T Number](a, b, c, d *SparseMatrix[T]) *SparseMatrix[T] {
	if a.rows != b.rows || c.rows != d.rows || a.cols != c.cols || b.cols != d.cols {
		panic("block dimension mismatch")
	}
	rows, cols := a.rows+c.rows, a.cols+b.cols
	m := &SparseMatrix[T]{
		rows:   rows,
		cols:   cols,
		rowPtr: make([]int, rows+1),
		colInd: make([]int, 0, a.NonZeroCount()+b.NonZeroCount()+c.NonZeroCount()+d.NonZeroCount()),
		values: make([]T, 0, a.NonZeroCount()+b.NonZeroCount()+c.NonZeroCount()+d.NonZeroCount()),
	}
	appendRows := func(offset int, left, right *SparseMatrix[T]) {
		for i := 0; i < left.rows; i++ {
			for k := left.rowPtr[i]; k < left.rowPtr[i+1]; k++ {
				m.colInd = append(m.colInd, left.colInd[k])
				m.values = append(m.values, left.values[k])
			}
			for k := right.rowPtr[i]; k < right.rowPtr[i+1]; k++ {
				m.colInd = append(m.colInd, right.colInd[k]+left.cols)
				m.values = append(m.values, right.values[k])
			}
			m.rowPtr[offset+i+1] = len(m.colInd)
		}
	}
	appendRows(0, a, b)
	appendRows(a.rows, c, d)
	return m
}

// Rows 返回行数
func (m *SparseMatrix[T]) Rows() int { return m.rows }

// Cols 返回列数
func (m *SparseMatrix[T]) Cols() int { return m.cols }

// NonZeroCount 返回存储元素数量
func (m *SparseMatrix[T]) NonZeroCount() int { return len(m.values) }

// search 二分查找列索引位置
func (m *SparseMatrix[T]) search(row, col int) (pos int, found bool) {
	if row < 0 || row >= m.rows || col < 0 || col >= m.cols {
		panic("index out of range")
	}
	start := m.rowPtr[row]
	end := m.rowPtr[row+1]
	pos = sort.Search(end-start, func(i int) bool {
		return m.colInd[start+i] >= col
	}) + start
	return pos, pos < end && m.colInd[pos] == col
}

// Get 获取矩阵元素
func (m *SparseMatrix[T]) Get(row, col int) T {
	if pos, ok := m.search(row, col); ok {
		return m.values[pos]
	}
	return 0
}

// Set 设置矩阵元素（零值删除元素）
func (m *SparseMatrix[T]) Set(row, col int, value T) {
	pos, ok := m.search(row, col)
	switch {
	case ok && value == 0:
		m.colInd = append(m.colInd[:pos], m.colInd[pos+1:]...)
		m.values = append(m.values[:pos], m.values[pos+1:]...)
		for i := row + 1; i <= m.rows; i++ {
			m.rowPtr[i]--
		}
	case ok:
		m.values[pos] = value
	case value != 0:
		m.colInd = append(m.colInd, 0)
		copy(m.colInd[pos+1:], m.colInd[pos:])
		m.colInd[pos] = col
		m.values = append(m.values, 0)
		copy(m.values[pos+1:], m.values[pos:])
		m.values[pos] = value
		for i := row + 1; i <= m.rows; i++ {
			m.rowPtr[i]++
		}
	}
}

// Increment 增量设置矩阵元素
func (m *SparseMatrix[T]) Increment(row, col int, value T) {
	m.Set(row, col, m.Get(row, col)+value)
}

// GetRow 获取指定行的非零元素（返回内部切片，调用方只读）
func (m *SparseMatrix[T]) GetRow(row int) ([]int, []T) {
	if row < 0 || row >= m.rows {
		panic("row index out of range")
	}
	start := m.rowPtr[row]
	end := m.rowPtr[row+1]
	return m.colInd[start:end], m.values[start:end]
}

// MatrixVectorMultiply 矩阵向量乘法
func (m *SparseMatrix[T]) MatrixVectorMultiply(x []T) []T {
	return m.MulVecTo(make([]T, m.rows), x)
}

// MulVecTo 计算 dst = A*x 并返回 dst
func (m *SparseMatrix[T]) MulVecTo(dst, x []T) []T {
	if len(x) != m.cols || len(dst) != m.rows {
		panic("vector dimension mismatch")
	}
	for i := 0; i < m.rows; i++ {
		var sum T
		for k := m.rowPtr[i]; k < m.rowPtr[i+1]; k++ {
			sum += m.values[k] * x[m.colInd[k]]
		}
		dst[i] = sum
	}
	return dst
}

// Mul 稀疏矩阵乘法 A*B（Gustavson 行合并）
func (m *SparseMatrix[T]) Mul(b *SparseMatrix[T]) *SparseMatrix[T] {
	if m.cols != b.rows {
		panic("matrix dimension mismatch")
	}
	out := &SparseMatrix[T]{
		rows:   m.rows,
		cols:   b.cols,
		rowPtr: make([]int, m.rows+1),
	}
	acc := make([]T, b.cols)
	mark := make([]int, b.cols)
	for i := range mark {
		mark[i] = -1
	}
	cols := make([]int, 0, 16)
	for i := 0; i < m.rows; i++ {
		cols = cols[:0]
		for ka := m.rowPtr[i]; ka < m.rowPtr[i+1]; ka++ {
			j, av := m.colInd[ka], m.values[ka]
			for kb := b.rowPtr[j]; kb < b.rowPtr[j+1]; kb++ {
				c := b.colInd[kb]
				if mark[c] != i {
					mark[c] = i
					acc[c] = 0
					cols = append(cols, c)
				}
				acc[c] += av * b.values[kb]
			}
		}
		sort.Ints(cols)
		for _, c := range cols {
			out.colInd = append(out.colInd, c)
			out.values = append(out.values, acc[c])
		}
		out.rowPtr[i+1] = len(out.colInd)
	}
	return out
}

// AddScaled 返回 A + alpha*B（行内有序合并）
func (m *SparseMatrix[T]) AddScaled(alpha T, b *SparseMatrix[T]) *SparseMatrix[T] {
	if m.rows != b.rows || m.cols != b.cols {
		panic("matrix dimension mismatch")
	}
	out := &SparseMatrix[T]{
		rows:   m.rows,
		cols:   m.cols,
		rowPtr: make([]int, m.rows+1),
		colInd: make([]int, 0, len(m.values)+len(b.values)),
		values: make([]T, 0, len(m.values)+len(b.values)),
	}
	for i := 0; i < m.rows; i++ {
		ka, ea := m.rowPtr[i], m.rowPtr[i+1]
		kb, eb := b.rowPtr[i], b.rowPtr[i+1]
		for ka < ea || kb < eb {
			switch {
			case kb >= eb || (ka < ea && m.colInd[ka] < b.colInd[kb]):
				out.colInd = append(out.colInd, m.colInd[ka])
				out.values = append(out.values, m.values[ka])
				ka++
			case ka >= ea || b.colInd[kb] < m.colInd[ka]:
				out.colInd = append(out.colInd, b.colInd[kb])
				out.values = append(out.values, alpha*b.values[kb])
				kb++
			default:
				out.colInd = append(out.colInd, m.colInd[ka])
				out.values = append(out.values, m.values[ka]+alpha*b.values[kb])
				ka++
				kb++
			}
		}
		out.rowPtr[i+1] = len(out.colInd)
	}
	return out
}

// Add 返回 A + B
func (m *SparseMatrix[T]) Add(b *SparseMatrix[T]) *SparseMatrix[T] { return m.AddScaled(1, b) }

// Sub 返回 A - B
func (m *SparseMatrix[T]) Sub(b *SparseMatrix[T]) *SparseMatrix[T] { return m.AddScaled(-1, b) }

// Scale 返回 alpha*A
func (m *SparseMatrix[T]) Scale(alpha T) *SparseMatrix[T] {
	out := m.Clone()
	for k := range out.values {
		out.values[k] *= alpha
	}
	return out
}

// Clone 深拷贝
func (m *SparseMatrix[T]) Clone() *SparseMatrix[T] {
	return &SparseMatrix[T]{
		rows:   m.rows,
		cols:   m.cols,
		rowPtr: append([]int(nil), m.rowPtr...),
		colInd: append([]int(nil), m.colInd...),
		values: append([]T(nil), m.values...),
	}
}

// Diagonal 返回对角线元素
func (m *SparseMatrix[T]) Diagonal() []T {
	n := min(m.rows, m.cols)
	diag := make([]T, n)
	for i := 0; i < n; i++ {
		diag[i] = m.Get(i, i)
	}
	return diag
}

// ToDense 转换为稠密二维切片
func (m *SparseMatrix[T]) ToDense() [][]T {
	dense := make([][]T, m.rows)
	for i := range dense {
		dense[i] = make([]T, m.cols)
		for k := m.rowPtr[i]; k < m.rowPtr[i+1]; k++ {
			dense[i][m.colInd[k]] += m.values[k]
		}
	}
	return dense
}
