package operator

import (
	"sync"

	"fdfd/grid"
	"fdfd/maths"
)

// Wave 横向磁场 (Hx, Hy) 的矢量波动方程算子
//
//	Q = [[Qxx, Qxy],
//	     [Qyx, Qyy]]
type Wave struct {
	Qxx, Qxy, Qyx, Qyy *Matrix
	Q                  *Matrix
	K0                 float64
}

// Size 单个分量的未知量个数
func (w *Wave) Size() int { return w.Qxx.Rows() }

// BuildWave 由差分算子与介电常数组装波动方程算子
func BuildWave(d *Derivatives, eps *grid.Permittivity, k0 float64) *Wave {
	n := d.Ax.Rows()
	k0sq := complex(k0*k0, 0)
	ik0sq := complex(1/(k0*k0), 0)

	toComplex := func(v []float64) []complex128 {
		c := make([]complex128, len(v))
		for i, x := range v {
			c[i] = complex(x, 0)
		}
		return c
	}
	epsX := maths.NewDiagonal(toComplex(eps.X))
	epsY := maths.NewDiagonal(toComplex(eps.Y))
	invZ := maths.NewDiagonal(toComplex(eps.InverseZ()))
	k0I := maths.NewIdentity[complex128](n, k0sq)

	// 公共子式
	zBy := invZ.Mul(d.By)
	zBx := invZ.Mul(d.Bx)
	cyZBy := d.Cy.Mul(zBy)
	cxZBx := d.Cx.Mul(zBx)
	cyZBx := d.Cy.Mul(zBx)
	cxZBy := d.Cx.Mul(zBy)
	axDy := d.Ax.Mul(d.Dy)
	ayDx := d.Ay.Mul(d.Dx)
	px := epsY.AddScaled(ik0sq, d.Ax.Mul(d.Dx)) // Epsy + k0⁻² AxDx
	py := epsX.AddScaled(ik0sq, d.Ay.Mul(d.Dy)) // Epsx + k0⁻² AyDy
	yy := k0I.Add(cyZBy)                        // k0² I + Cy(invEpsz)By
	xx := k0I.Add(cxZBx)                        // k0² I + Cx(invEpsz)Bx

	w := &Wave{K0: k0}
	var wg sync.WaitGroup
	wg.Add(4)
	go func() {
		defer wg.Done()
		w.Qxx = px.Mul(yy).AddScaled(-ik0sq, axDy.Mul(cxZBy))
	}()
	go func() {
		defer wg.Done()
		w.Qyy = py.Mul(xx).AddScaled(-ik0sq, ayDx.Mul(cyZBx))
	}()
	go func() {
		defer wg.Done()
		w.Qxy = axDy.Mul(xx).Scale(ik0sq).Sub(px.Mul(cyZBx))
	}()
	go func() {
		defer wg.Done()
		w.Qyx = ayDx.Mul(yy).Scale(ik0sq).Sub(py.Mul(cxZBy))
	}()
	wg.Wait()

	w.Q = maths.NewBlock(w.Qxx, w.Qxy, w.Qyx, w.Qyy)
	return w
}
