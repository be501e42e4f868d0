package eigen

import (
	"fmt"
	"math/rand/v2"
	"sort"

	"gonum.org/v1/gonum/cmplxs"

	"fdfd/maths"
)

// Factorizer 创建 n 阶复数 LU 分解器
type Factorizer func(n int) (maths.LU[complex128], error)

// DefaultFactorizer 小矩阵用稠密 LU，其余用稀疏 LU
func DefaultFactorizer(n int) (maths.LU[complex128], error) {
	if n <= 400 {
		return maths.NewLU[complex128](n)
	}
	return maths.NewLUSparse[complex128](n)
}

// Arnoldi 位移-求逆 Arnoldi 迭代（显式重启）
//
// 对 (A-σI)⁻¹ 构造 Krylov 子空间，其模最大的 Ritz 值 θ 对应 A 最靠近 σ 的特征值 λ = σ + 1/θ。
// 未收敛时以前 k 个 Ritz 向量之和重新开始。
type Arnoldi struct {
	NCV         int        // Krylov 子空间维数，0 表示 max(2k+1, 20)
	Tol         float64    // 相对收敛精度，0 表示 1e-10
	MaxRestarts int        // 最大重启次数，0 表示 300
	Factorizer  Factorizer // nil 表示 DefaultFactorizer
	Seed        uint64     // 初始向量随机种子
}

// Eigs 实现 ShiftInvertEigensolver
func (s Arnoldi) Eigs(a *maths.SparseMatrix[complex128], sigma complex128, k int) (*Result, error) {
	n := a.Rows()
	if k < 1 || k > n-2 {
		return nil, fmt.Errorf("arnoldi: k=%d, n=%d: %w", k, n, ErrTooManyModes)
	}
	tol := s.Tol
	if tol <= 0 {
		tol = 1e-10
	}
	maxRestarts := s.MaxRestarts
	if maxRestarts <= 0 {
		maxRestarts = 300
	}
	ncv := s.NCV
	if ncv <= 0 {
		ncv = max(2*k+1, 20)
	}
	ncv = min(max(ncv, k+2), n)

	factorizer := s.Factorizer
	if factorizer == nil {
		factorizer = DefaultFactorizer
	}
	lu, err := factorizer(n)
	if err != nil {
		return nil, fmt.Errorf("arnoldi: %w", err)
	}
	if r, ok := lu.(interface{ Release() }); ok {
		defer r.Release()
	}
	shifted := a.AddScaled(-sigma, maths.NewIdentity[complex128](n, 1))
	if err := lu.Decompose(shifted); err != nil {
		return nil, fmt.Errorf("arnoldi: %w: %v", ErrSingularShift, err)
	}

	rng := rand.New(rand.NewPCG(s.Seed, 0x9e3779b97f4a7c15))
	v0 := make([]complex128, n)
	for i := range v0 {
		v0[i] = complex(rng.Float64()-0.5, rng.Float64()-0.5)
	}
	cmplxs.ScaleReal(1/cmplxs.Norm(v0, 2), v0)

	for restart := 0; restart <= maxRestarts; restart++ {
		basis, h, m, err := s.factorize(lu, v0, ncv)
		if err != nil {
			return nil, err
		}
		hm := make([][]complex128, m)
		for i := range hm {
			hm[i] = h[i][:m]
		}
		theta, y, err := DenseEigen(hm)
		if err != nil {
			return nil, fmt.Errorf("arnoldi: ritz values: %w", err)
		}
		order := make([]int, len(theta))
		for i := range order {
			order[i] = i
		}
		sort.SliceStable(order, func(i, j int) bool {
			return maths.Abs(theta[order[i]]) > maths.Abs(theta[order[j]])
		})
		if len(order) < k {
			return nil, fmt.Errorf("arnoldi: resolved %d of %d ritz pairs: %w", len(order), k, ErrNoConvergence)
		}
		order = order[:k]

		// 残差估计 |h(m+1,m)·y(m)|
		residual := 0.0
		if m < len(h) {
			residual = maths.Abs(h[m][m-1])
		}
		converged := true
		for _, i := range order {
			if residual*maths.Abs(y[i][m-1]) > tol*maths.Abs(theta[i]) {
				converged = false
				break
			}
		}

		ritz := make([][]complex128, k)
		for c, i := range order {
			x := make([]complex128, n)
			for j := 0; j < m; j++ {
				cmplxs.AddScaled(x, y[i][j], basis[j])
			}
			cmplxs.ScaleReal(1/cmplxs.Norm(x, 2), x)
			ritz[c] = x
		}

		if converged {
			res := &Result{
				Values:     make([]complex128, k),
				Vectors:    ritz,
				Iterations: restart,
			}
			for c, i := range order {
				res.Values[c] = sigma + 1/theta[i]
			}
			return res, nil
		}

		// 以 Ritz 向量之和重启
		clear(v0)
		for _, x := range ritz {
			cmplxs.Add(v0, x)
		}
		nrm := cmplxs.Norm(v0, 2)
		if nrm == 0 {
			copy(v0, ritz[0])
			nrm = 1
		}
		cmplxs.ScaleReal(1/nrm, v0)
	}
	return nil, fmt.Errorf("arnoldi: %d restarts: %w", maxRestarts, ErrNoConvergence)
}

// factorize 以 v0 为起点做 ncv 步 Arnoldi 分解，两遍正交化
// 返回基向量、(ncv+1)×ncv 的 Hessenberg 矩阵与实际步数 m（提前终止时 m < ncv）
func (s Arnoldi) factorize(lu maths.LU[complex128], v0 []complex128, ncv int) ([][]complex128, [][]complex128, int, error) {
	n := len(v0)
	basis := make([][]complex128, 0, ncv+1)
	basis = append(basis, append([]complex128(nil), v0...))
	h := make([][]complex128, ncv+1)
	for i := range h {
		h[i] = make([]complex128, ncv)
	}
	for j := 0; j < ncv; j++ {
		w := make([]complex128, n)
		if err := lu.SolveReuse(basis[j], w); err != nil {
			return nil, nil, 0, fmt.Errorf("arnoldi: %w", err)
		}
		wn := cmplxs.Norm(w, 2)
		for pass := 0; pass < 2; pass++ {
			for i := 0; i <= j; i++ {
				c := cmplxs.Dot(basis[i], w)
				h[i][j] += c
				cmplxs.AddScaled(w, -c, basis[i])
			}
		}
		beta := cmplxs.Norm(w, 2)
		if beta <= 1e-13*wn {
			// 不变子空间，Ritz 对精确
			return basis, h[:j+1], j + 1, nil
		}
		h[j+1][j] = complex(beta, 0)
		cmplxs.ScaleReal(1/beta, w)
		basis = append(basis, w)
	}
	return basis, h, ncv, nil
}
