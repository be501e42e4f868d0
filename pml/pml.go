package pml

import (
	"math"
	"math/cmplx"

	"fdfd/grid"
)

// ---- 物理常数 ----

const (
	Eps0 = 8.85e-12           // 真空介电常数
	Mu0  = 4 * math.Pi * 1e-7 // 真空磁导率
	C    = 3e8                // 光速
)

// Config 吸收边界参数
type Config struct {
	Depth      int     `json:"depth"`      // 吸收层厚度（单元数），0 表示关闭
	TargetLoss float64 `json:"targetLoss"` // 边界处目标场衰减
	PolyDegree float64 `json:"polyDegree"` // 电导率分布多项式阶数
}

// DefaultConfig 默认吸收边界
func DefaultConfig() Config {
	return Config{Depth: 10, TargetLoss: 1e-5, PolyDegree: 3}
}

// SigmaMax 峰值电导率
func (c Config) SigmaMax(dx float64) float64 {
	if c.Depth <= 0 {
		return 0
	}
	return (c.PolyDegree + 1) / 2 * Eps0 * C / (float64(c.Depth) * dx) * math.Log(1/c.TargetLoss)
}

// Stretch 单元的全部拉伸因子（x 轴与 y 轴各四个场分量位置）
type Stretch struct {
	XEy, XEz, XHy, XHz complex128
	YEx, YEz, YHx, YHz complex128
}

// Identity 无损单元
var Identity = Stretch{
	XEy: 1, XEz: 1, XHy: 1, XHz: 1,
	YEx: 1, YEz: 1, YHx: 1, YHz: 1,
}

// Profile 给定网格与频率下的吸收层分布
type Profile struct {
	Config
	Nx       int
	Omega    float64 // 角频率
	sigmaMax float64
}

// NewProfile 创建吸收层分布，omega 为角频率
func NewProfile(cfg Config, g grid.Grid, omega float64) *Profile {
	return &Profile{
		Config:   cfg,
		Nx:       g.Nx,
		Omega:    omega,
		sigmaMax: cfg.SigmaMax(g.Dx),
	}
}

// SigmaMax 峰值电导率
func (p *Profile) SigmaMax() float64 { return p.sigmaMax }

// Loss 边界处配置的场衰减
func (p *Profile) Loss() float64 {
	if p.Depth <= 0 {
		return 1
	}
	return p.TargetLoss
}

// factor 距离 d 处、介电常数 eps 下的拉伸因子
func (p *Profile) factor(d, eps float64) complex128 {
	grade := math.Pow(1-d/float64(p.Depth), p.PolyDegree)
	return 1 - complex(p.sigmaMax*grade, 0)*1i/complex(p.Omega*Eps0, 0)/cmplx.Sqrt(complex(eps, 0))
}

// axis 单轴拉伸：near 为到西/北边界距离，far 为到东/南边界距离
// 近边界电场取 d、磁场取 d-0.5；远边界电场取 d-0.5、磁场取 d
func (p *Profile) axis(near, far int, e1, e2, h1, h2 float64) (s1, s2, s3, s4 complex128) {
	switch {
	case p.Depth > 0 && near <= p.Depth:
		d := float64(near)
		return p.factor(d, e1), p.factor(d, e2), p.factor(d-0.5, h1), p.factor(d-0.5, h2)
	case p.Depth > 0 && far <= p.Depth:
		d := float64(far)
		return p.factor(d-0.5, e1), p.factor(d-0.5, e2), p.factor(d, h1), p.factor(d, h2)
	}
	return 1, 1, 1, 1
}

// At 单元 (x, y) 的拉伸因子，x 为矩阵行，y 为矩阵列
func (p *Profile) At(x, y int, eps grid.Cell) Stretch {
	var s Stretch
	last := p.Nx - 1
	s.XEy, s.XEz, s.XHy, s.XHz = p.axis(x, last-x, eps.Y, eps.Z, eps.X, eps.R)
	s.YEx, s.YEz, s.YHx, s.YHz = p.axis(y, last-y, eps.X, eps.Z, eps.Y, eps.R)
	return s
}
