package geometry

import "fdfd/grid"

const um = 1e-6

// DoubleClad 双包层光纤截面：硅玻璃外环、一圈玻璃毛细管及其内部空气孔
type DoubleClad struct {
	Span          float64   `json:"span"`
	CoreRadius    float64   `json:"coreRadius"`
	CladThickness float64   `json:"cladThickness"`
	Silica        float64   `json:"silica"`
	Air           float64   `json:"air"`
	Glass         []Ellipse `json:"glass"`
	Holes         []Ellipse `json:"holes"`
}

// DefaultDoubleClad 八根毛细管的实测截面参数，单位 m
func DefaultDoubleClad() DoubleClad {
	type capillary struct{ cx, cy, angle, ga, gb, ha, hb float64 }
	caps := []capillary{
		{-19.35, 4.72, 166.29, 11.28, 10.28, 10.88, 9.88},
		{-10.30, 17.82, 120.03, 9.85, 9.82, 9.45, 9.42},
		{4.80, 19.92, 76.45, 10.42, 9.49, 10.02, 9.09},
		{17.46, 10.08, 30.00, 10.70, 9.91, 10.30, 9.51},
		{19.58, -4.59, -13.19, 10.80, 10.09, 10.40, 9.69},
		{10.15, -17.15, -59.38, 11.20, 10.09, 10.80, 9.69},
		{-4.73, -19.40, -103.70, 11.36, 9.97, 10.96, 9.57},
		{-16.85, -11.15, -147.51, 10.70, 10.60, 10.30, 10.20},
	}
	d := DoubleClad{
		Span:          52 * um,
		CoreRadius:    25.5 * um,
		CladThickness: 34 * um,
		Silica:        1.45,
		Air:           1.0,
	}
	for _, c := range caps {
		d.Glass = append(d.Glass, Ellipse{CX: c.cx * um, CY: c.cy * um, MajorAxis: c.ga * um, MinorAxis: c.gb * um, Angle: c.angle})
		d.Holes = append(d.Holes, Ellipse{CX: c.cx * um, CY: c.cy * um, MajorAxis: c.ha * um, MinorAxis: c.hb * um, Angle: c.angle})
	}
	return d
}

// Axis 截面坐标 [-Span/2, Span/2]
func (d DoubleClad) Axis(nx int) []float64 {
	return Linspace(-d.Span/2, d.Span/2, nx)
}

// Build 生成 nx×nx 折射率分布及网格步长
func (d DoubleClad) Build(nx int) (grid.IndexMap, float64) {
	axis := d.Axis(nx)
	layers := []Layer{{
		Shape: Ring{Inner: d.CoreRadius, Outer: d.CoreRadius + d.CladThickness},
		Index: d.Silica,
	}}
	for _, e := range d.Glass {
		layers = append(layers, Layer{Shape: e, Index: d.Silica})
	}
	for _, e := range d.Holes {
		layers = append(layers, Layer{Shape: e, Index: d.Air})
	}
	return Rasterize(axis, d.Air, layers...), axis[1] - axis[0]
}
