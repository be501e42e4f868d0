package maths

import "sort"

// Triplets 预分配的 (行, 列, 值) 三元组缓冲区
// 每个槽位只被一个写入者写入，写入完成后一次性转换为 CSR
type Triplets[T Number] struct {
	rows, cols int
	row        []int
	col        []int
	val        []T
	used       []bool
}

// NewTriplets 创建容量为 slots 的三元组缓冲区
func NewTriplets[T Number](rows, cols, slots int) *Triplets[T] {
	return &Triplets[T]{
		rows: rows,
		cols: cols,
		row:  make([]int, slots),
		col:  make([]int, slots),
		val:  make([]T, slots),
		used: make([]bool, slots),
	}
}

// Put 写入指定槽位（不同槽位可并发写入）
func (t *Triplets[T]) Put(slot, row, col int, value T) {
	if row < 0 || row >= t.rows || col < 0 || col >= t.cols {
		panic("triplet index out of range")
	}
	t.row[slot] = row
	t.col[slot] = col
	t.val[slot] = value
	t.used[slot] = true
}

// Len 返回已写入的槽位数量
func (t *Triplets[T]) Len() int {
	n := 0
	for _, u := range t.used {
		if u {
			n++
		}
	}
	return n
}

// ToCSR 转换为 CSR 稀疏矩阵，重复位置累加，未写入槽位忽略
func (t *Triplets[T]) ToCSR() *SparseMatrix[T] {
	m := &SparseMatrix[T]{
		rows:   t.rows,
		cols:   t.cols,
		rowPtr: make([]int, t.rows+1),
	}
	// 按行计数
	for s, u := range t.used {
		if u {
			m.rowPtr[t.row[s]+1]++
		}
	}
	for i := 0; i < t.rows; i++ {
		m.rowPtr[i+1] += m.rowPtr[i]
	}
	colInd := make([]int, m.rowPtr[t.rows])
	values := make([]T, m.rowPtr[t.rows])
	next := append([]int(nil), m.rowPtr[:t.rows]...)
	for s, u := range t.used {
		if !u {
			continue
		}
		r := t.row[s]
		colInd[next[r]] = t.col[s]
		values[next[r]] = t.val[s]
		next[r]++
	}
	// 行内排序并合并重复列
	m.colInd = colInd[:0]
	m.values = values[:0]
	start := 0
	for i := 0; i < t.rows; i++ {
		end := m.rowPtr[i+1]
		seg := rowSegment[T]{cols: colInd[start:end], vals: values[start:end]}
		sort.Sort(seg)
		m.rowPtr[i] = len(m.colInd)
		for k := range seg.cols {
			n := len(m.colInd)
			if n > m.rowPtr[i] && m.colInd[n-1] == seg.cols[k] {
				m.values[n-1] += seg.vals[k]
				continue
			}
			m.colInd = append(m.colInd, seg.cols[k])
			m.values = append(m.values, seg.vals[k])
		}
		start = end
	}
	m.rowPtr[t.rows] = len(m.colInd)
	return m
}

// rowSegment 单行内按列排序
type rowSegment[T Number] struct {
	cols []int
	vals []T
}

func (s rowSegment[T]) Len() int           { return len(s.cols) }
func (s rowSegment[T]) Less(i, j int) bool { return s.cols[i] < s.cols[j] }
func (s rowSegment[T]) Swap(i, j int) {
	s.cols[i], s.cols[j] = s.cols[j], s.cols[i]
	s.vals[i], s.vals[j] = s.vals[j], s.vals[i]
}
