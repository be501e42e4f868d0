package grid

import "fdfd/maths"

// Permittivity 交错网格上的各向异性介电常数（均为展开后的列向量）
type Permittivity struct {
	R []float64 // 单元中心 n²
	X []float64 // 与上方单元平均（H x 方向）
	Y []float64 // 与左侧单元平均（H y 方向）
	Z []float64 // 四单元角点平均（Ez）
}

// Cell 单元 k 的四个介电常数
type Cell struct {
	R, X, Y, Z float64
}

// Sample 由折射率分布计算各向异性介电常数
// 邻居按展开下标取（k-1, k-Nx, k-1-Nx），越界时退化为本单元值，不做周期延拓
func Sample(g Grid, n IndexMap) *Permittivity {
	flat := maths.MatrixToColumn([][]float64(n))
	size := len(flat)
	p := &Permittivity{
		R: make([]float64, size),
		X: make([]float64, size),
		Y: make([]float64, size),
		Z: make([]float64, size),
	}
	for k, v := range flat {
		p.R[k] = v * v
	}
	nx := g.Nx
	for k := range p.R {
		p.X[k] = p.R[k]
		if k-nx >= 0 {
			p.X[k] = (p.R[k] + p.R[k-nx]) / 2
		}
		p.Y[k] = p.R[k]
		if k-1 >= 0 {
			p.Y[k] = (p.R[k] + p.R[k-1]) / 2
		}
		p.Z[k] = p.R[k]
		if k-1-nx >= 0 {
			p.Z[k] = (p.R[k] + p.R[k-1] + p.R[k-nx] + p.R[k-1-nx]) / 4
		}
	}
	return p
}

// Cell 返回单元 k 的介电常数
func (p *Permittivity) Cell(k int) Cell {
	return Cell{R: p.R[k], X: p.X[k], Y: p.Y[k], Z: p.Z[k]}
}

// InverseZ 返回 1/Z
func (p *Permittivity) InverseZ() []float64 {
	inv := make([]float64, len(p.Z))
	for k, v := range p.Z {
		inv[k] = 1 / v
	}
	return inv
}
