package maths

// MatrixToColumn 按列优先展开方阵（先转置再按行展开）
// 展开后下标 k = r + c*n 对应 M[r][c]
func MatrixToColumn[T Number](m [][]T) []T {
	n := len(m)
	out := make([]T, n*n)
	for r, row := range m {
		if len(row) != n {
			panic("matrix is not square")
		}
		for c, v := range row {
			out[r+c*n] = v
		}
	}
	return out
}

// ColumnToMatrix MatrixToColumn 的逆变换
func ColumnToMatrix[T Number](v []T, n int) [][]T {
	if len(v) != n*n {
		panic("vector length does not match n*n")
	}
	out := make([][]T, n)
	for r := range out {
		out[r] = make([]T, n)
		for c := range out[r] {
			out[r][c] = v[r+c*n]
		}
	}
	return out
}
