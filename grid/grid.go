package grid

import (
	"errors"
	"fmt"
)

// ErrInvalidGrid 折射率分布不是方阵
var ErrInvalidGrid = errors.New("invalid grid")

// InvalidGridError 记录非方阵输入的尺寸
type InvalidGridError struct {
	Rows, Cols int
	Row        int // 第一个长度不一致的行（-1 表示行列数不等）
}

func (e *InvalidGridError) Error() string {
	if e.Row >= 0 {
		return fmt.Sprintf("index map row %d has %d columns, want %d", e.Row, e.Cols, e.Rows)
	}
	return fmt.Sprintf("index map is %dx%d, must be square", e.Rows, e.Cols)
}

// Is 支持 errors.Is(err, ErrInvalidGrid)
func (e *InvalidGridError) Is(target error) bool { return target == ErrInvalidGrid }

// IndexMap 折射率分布（Nx×Nx，调用方所有，求解器只读）
type IndexMap [][]float64

// RealMap 实数场分布
type RealMap [][]float64

// ComplexMap 复数场分布
type ComplexMap [][]complex128

// Grid 均匀方形采样网格
type Grid struct {
	Nx int     // 边长（单元数）
	Dx float64 // 网格间距
}

// New 校验折射率分布并创建网格
func New(dx float64, n IndexMap) (Grid, error) {
	rows := len(n)
	if rows == 0 {
		return Grid{}, &InvalidGridError{Rows: 0, Cols: 0, Row: -1}
	}
	if cols := len(n[0]); cols != rows {
		return Grid{}, &InvalidGridError{Rows: rows, Cols: cols, Row: -1}
	}
	for i, row := range n {
		if len(row) != rows {
			return Grid{}, &InvalidGridError{Rows: rows, Cols: len(row), Row: i}
		}
	}
	return Grid{Nx: rows, Dx: dx}, nil
}

// Size 展开后的未知量个数 Nx²
func (g Grid) Size() int { return g.Nx * g.Nx }

// Coord 展开下标 k 对应的 (x, y)：x 为矩阵行，y 为矩阵列
func (g Grid) Coord(k int) (x, y int) { return k % g.Nx, k / g.Nx }

// Index (x, y) 对应的展开下标
func (g Grid) Index(x, y int) int { return x + y*g.Nx }
