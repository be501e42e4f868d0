// Package geometry 生成折射率分布
package geometry

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"fdfd/grid"
)

// Shape 平面图形
type Shape interface {
	Contains(x, y float64) bool
}

// Circle 圆
type Circle struct {
	CX     float64 `json:"cx"`
	CY     float64 `json:"cy"`
	Radius float64 `json:"radius"`
}

// Contains 严格在圆内
func (c Circle) Contains(x, y float64) bool {
	return math.Hypot(x-c.CX, y-c.CY) < c.Radius
}

// Ring 圆环 Inner <= r <= Outer
type Ring struct {
	CX    float64 `json:"cx"`
	CY    float64 `json:"cy"`
	Inner float64 `json:"inner"`
	Outer float64 `json:"outer"`
}

// Contains 在圆环上（含边界）
func (r Ring) Contains(x, y float64) bool {
	d := math.Hypot(x-r.CX, y-r.CY)
	return d >= r.Inner && d <= r.Outer
}

// Ellipse 旋转椭圆，轴长为全长，Angle 为角度制
type Ellipse struct {
	CX        float64 `json:"cx"`
	CY        float64 `json:"cy"`
	MajorAxis float64 `json:"majorAxis"`
	MinorAxis float64 `json:"minorAxis"`
	Angle     float64 `json:"angle"`
}

// Contains 严格在椭圆内
func (e Ellipse) Contains(x, y float64) bool {
	a, b := e.MajorAxis/2, e.MinorAxis/2
	if a <= 0 || b <= 0 {
		return false
	}
	sin, cos := math.Sincos(e.Angle * math.Pi / 180)
	dx, dy := x-e.CX, y-e.CY
	xr := dx*cos + dy*sin
	yr := dy*cos - dx*sin
	return (xr/a)*(xr/a)+(yr/b)*(yr/b) < 1
}

// Layer 按顺序覆盖的图形
type Layer struct {
	Shape Shape
	Index float64
}

// Linspace n 个等距点，n < 2 时 panic
func Linspace(lo, hi float64, n int) []float64 {
	return floats.Span(make([]float64, n), lo, hi)
}

// Rasterize 在坐标轴 axis 构成的方形网格上绘制各层，后绘制的覆盖先绘制的。
// 行下标对应 y，列下标对应 x。
func Rasterize(axis []float64, background float64, layers ...Layer) grid.IndexMap {
	nx := len(axis)
	n := make(grid.IndexMap, nx)
	for i := range n {
		n[i] = make([]float64, nx)
		for j := range n[i] {
			n[i][j] = background
			for _, l := range layers {
				if l.Shape.Contains(axis[j], axis[i]) {
					n[i][j] = l.Index
				}
			}
		}
	}
	return n
}
