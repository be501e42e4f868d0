package field

import (
	"math/cmplx"

	"gonum.org/v1/gonum/cmplxs"

	"fdfd/grid"
	"fdfd/operator"
	"fdfd/pml"
)

// Flat 展开形式的六个场分量
type Flat struct {
	Beta                   complex128
	Ex, Ey, Ez, Hx, Hy, Hz []complex128
}

// Beta 特征值的主平方根（Re β ≥ 0）
func Beta(eigenvalue complex128) complex128 { return cmplx.Sqrt(eigenvalue) }

// Reconstruct 由特征向量 [Hx; Hy] 依次求 Ez、Ey、Ex、Hz
func Reconstruct(d *operator.Derivatives, eps *grid.Permittivity, omega float64, eigenvalue complex128, vec []complex128) Flat {
	n := d.Ax.Rows()
	if len(vec) != 2*n {
		panic("eigenvector length does not match operator size")
	}
	f := Flat{
		Beta: Beta(eigenvalue),
		Hx:   append([]complex128(nil), vec[:n]...),
		Hy:   append([]complex128(nil), vec[n:]...),
	}
	jwe := complex(0, omega*pml.Eps0)
	jwm := complex(0, omega*pml.Mu0)
	jb := 1i * f.Beta

	// Ez = Epsz ∘ (−Dy·Hx + Dx·Hy) / (jωε0)
	f.Ez = d.Dx.MatrixVectorMultiply(f.Hy)
	cmplxs.Sub(f.Ez, d.Dy.MatrixVectorMultiply(f.Hx))
	for k := range f.Ez {
		f.Ez[k] *= complex(eps.Z[k], 0) / jwe
	}

	// Ey = (−jωμ0·Hx − Ay·Ez) / (jβ)
	f.Ey = d.Ay.MatrixVectorMultiply(f.Ez)
	for k := range f.Ey {
		f.Ey[k] = (-jwm*f.Hx[k] - f.Ey[k]) / jb
	}

	// Ex = (jωμ0·Hy − Ax·Ez) / (jβ)
	f.Ex = d.Ax.MatrixVectorMultiply(f.Ez)
	for k := range f.Ex {
		f.Ex[k] = (jwm*f.Hy[k] - f.Ex[k]) / jb
	}

	// Hz = −(−By·Ex + Bx·Ey) / (jωμ0)
	f.Hz = d.Bx.MatrixVectorMultiply(f.Ey)
	cmplxs.Sub(f.Hz, d.By.MatrixVectorMultiply(f.Ex))
	for k := range f.Hz {
		f.Hz[k] = -f.Hz[k] / jwm
	}
	return f
}
