package field

import (
	"math"
	"math/cmplx"
	"sync"

	"fdfd/grid"
	"fdfd/maths"
	"fdfd/operator"
	"fdfd/pml"
)

// Meta 求解参数
type Meta struct {
	Nx         int           `json:"nx"`
	Dx         float64       `json:"dx"`
	Wavelength float64       `json:"wavelength"`
	K0         float64       `json:"k0"`
	Omega      float64       `json:"omega"`
	BetaGuess  float64       `json:"betaGuess"`
	PML        pml.Config    `json:"pml"`
	SigmaMax   float64       `json:"sigmaMax"`
	Loss       float64       `json:"loss"`
	Index      grid.IndexMap `json:"-"`
}

// Mode 一个本征模式
type Mode struct {
	Beta                   complex128
	Neff                   complex128
	Ex, Ey, Ez, Hx, Hy, Hz grid.ComplexMap
	EAbs, HAbs             grid.RealMap
}

// ModeSet 求解结果
type ModeSet struct {
	Meta  Meta
	Modes []Mode
}

// Neff 有效折射率 β/k0
func (s *ModeSet) Neff(i int) complex128 { return s.Modes[i].Neff }

// ReconstructAll 并行重建所有模式的场分量（算子只读共享）
func ReconstructAll(d *operator.Derivatives, eps *grid.Permittivity, omega float64, values []complex128, vectors [][]complex128) []Flat {
	out := make([]Flat, len(values))
	var wg sync.WaitGroup
	for i := range values {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			out[i] = Reconstruct(d, eps, omega, values[i], vectors[i])
		}(i)
	}
	wg.Wait()
	return out
}

// Package 还原为二维分布并计算 |E|、|H|
func Package(meta Meta, fields []Flat) *ModeSet {
	set := &ModeSet{Meta: meta, Modes: make([]Mode, len(fields))}
	nx := meta.Nx
	unflatten := func(v []complex128) grid.ComplexMap { return maths.ColumnToMatrix(v, nx) }
	for i, f := range fields {
		m := Mode{
			Beta: f.Beta,
			Neff: f.Beta / complex(meta.K0, 0),
			Ex:   unflatten(f.Ex),
			Ey:   unflatten(f.Ey),
			Ez:   unflatten(f.Ez),
			Hx:   unflatten(f.Hx),
			Hy:   unflatten(f.Hy),
			Hz:   unflatten(f.Hz),
		}
		m.EAbs = magnitude(m.Ex, m.Ey, m.Ez)
		m.HAbs = magnitude(m.Hx, m.Hy, m.Hz)
		set.Modes[i] = m
	}
	return set
}

// magnitude sqrt(|a|²+|b|²+|c|²)
func magnitude(a, b, c grid.ComplexMap) grid.RealMap {
	out := make(grid.RealMap, len(a))
	for r := range a {
		out[r] = make([]float64, len(a[r]))
		for col := range a[r] {
			x, y, z := cmplx.Abs(a[r][col]), cmplx.Abs(b[r][col]), cmplx.Abs(c[r][col])
			out[r][col] = math.Sqrt(x*x + y*y + z*z)
		}
	}
	return out
}

// EdgeRatio 最外层单元的最大 |E| 与全域最大 |E| 之比
func (m *Mode) EdgeRatio() float64 {
	nx := len(m.EAbs)
	if nx == 0 {
		return 0
	}
	peak, edge := 0.0, 0.0
	for r, row := range m.EAbs {
		for c, v := range row {
			peak = math.Max(peak, v)
			if r == 0 || c == 0 || r == nx-1 || c == nx-1 {
				edge = math.Max(edge, v)
			}
		}
	}
	if peak == 0 {
		return 0
	}
	return edge / peak
}
