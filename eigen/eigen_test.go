package eigen

import (
	"errors"
	"math"
	"math/cmplx"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/cmplxs"

	"fdfd/maths"
)

// sortedByReal 按实部升序，实部相同按虚部升序
func sortedByReal(v []complex128) []complex128 {
	out := append([]complex128(nil), v...)
	sort.Slice(out, func(i, j int) bool {
		if real(out[i]) != real(out[j]) {
			return real(out[i]) < real(out[j])
		}
		return imag(out[i]) < imag(out[j])
	})
	return out
}

func TestSortedByRealBreaksTies(t *testing.T) {
	got := sortedByReal([]complex128{1i, 2, -1i, 2 - 3i})
	require.Equal(t, []complex128{-1i, 1i, 2 - 3i, 2}, got)
}

func residual(a [][]complex128, lambda complex128, x []complex128) float64 {
	r := make([]complex128, len(x))
	for i, row := range a {
		for j, v := range row {
			r[i] += v * x[j]
		}
		r[i] -= lambda * x[i]
	}
	return cmplxs.Norm(r, 2)
}

func TestDenseEigenKnown(t *testing.T) {
	cases := []struct {
		name string
		a    [][]complex128
		want []complex128
	}{
		{"triangular", [][]complex128{{1 + 1i, 2}, {0, 3 - 2i}}, []complex128{1 + 1i, 3 - 2i}},
		{"hermitian", [][]complex128{{2, 1i}, {-1i, 2}}, []complex128{1, 3}},
		{"repeated", [][]complex128{{2, 0, 0}, {0, 2, 0}, {0, 0, 5}}, []complex128{2, 2, 5}},
		{"complex-pair", [][]complex128{{0, -1}, {1, 0}}, []complex128{-1i, 1i}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			values, vectors, err := DenseEigen(tc.a)
			require.NoError(t, err)
			require.Len(t, values, len(tc.want))
			got := sortedByReal(values)
			want := sortedByReal(tc.want)
			for i := range want {
				require.InDelta(t, 0, cmplx.Abs(got[i]-want[i]), 1e-10, "eigenvalue %d: %v", i, got)
			}
			for i, v := range values {
				require.InDelta(t, 1, cmplxs.Norm(vectors[i], 2), 1e-12)
				require.Less(t, residual(tc.a, v, vectors[i]), 1e-10)
			}
		})
	}
}

// testMatrix 对角占优的非厄米带状矩阵，特征值分布在 1..n 附近
func testMatrix(n int) *maths.SparseMatrix[complex128] {
	tr := maths.NewTriplets[complex128](n, n, 3*n)
	for i := 0; i < n; i++ {
		tr.Put(3*i, i, i, complex(float64(i+1), 0.1*math.Sin(float64(i))))
		if i+1 < n {
			tr.Put(3*i+1, i, i+1, 0.3+0.05i)
		}
		if i > 0 {
			tr.Put(3*i+2, i, i-1, 0.2)
		}
	}
	return tr.ToCSR()
}

func TestArnoldiMatchesDense(t *testing.T) {
	a := testMatrix(80)
	sigma := complex(20.3, 0)
	const k = 4

	dense, err := Dense{}.Eigs(a, sigma, k)
	require.NoError(t, err)
	arnoldi, err := Arnoldi{}.Eigs(a, sigma, k)
	require.NoError(t, err)

	require.Len(t, arnoldi.Values, k)
	require.LessOrEqual(t, arnoldi.Iterations, 300)
	for i := 0; i < k; i++ {
		require.InDelta(t, 0, cmplx.Abs(dense.Values[i]-arnoldi.Values[i]), 1e-8,
			"dense %v, arnoldi %v", dense.Values, arnoldi.Values)
		require.Less(t, residual(a.ToDense(), arnoldi.Values[i], arnoldi.Vectors[i]), 1e-7)
	}
	// 按到位移的距离升序
	for i := 1; i < k; i++ {
		require.LessOrEqual(t, cmplx.Abs(arnoldi.Values[i-1]-sigma), cmplx.Abs(arnoldi.Values[i]-sigma))
	}
}

func TestArnoldiSparseFactorizer(t *testing.T) {
	a := testMatrix(600)
	sigma := complex(300.4, 0.05)
	res, err := Arnoldi{Factorizer: maths.NewLUSparse[complex128]}.Eigs(a, sigma, 2)
	require.NoError(t, err)
	dense := a.ToDense()
	for i, v := range res.Values {
		require.Less(t, cmplx.Abs(v-sigma), 2.0)
		require.Less(t, residual(dense, v, res.Vectors[i]), 1e-6)
	}
}

func TestTooManyModes(t *testing.T) {
	a := testMatrix(10)
	_, err := Arnoldi{}.Eigs(a, 1, 9)
	require.True(t, errors.Is(err, ErrTooManyModes))
	_, err = Arnoldi{}.Eigs(a, 1, 0)
	require.ErrorIs(t, err, ErrTooManyModes)
	_, err = Dense{}.Eigs(a, 1, 11)
	require.ErrorIs(t, err, ErrTooManyModes)
}

func TestSingularShift(t *testing.T) {
	a := maths.NewDiagonal([]complex128{1, 2, 3, 4, 5})
	_, err := Arnoldi{}.Eigs(a, 3, 1)
	require.ErrorIs(t, err, ErrSingularShift)
}

func TestAutoSelectsBackend(t *testing.T) {
	a := testMatrix(30)
	small, err := Auto{Limit: 50}.Eigs(a, 10.2, 2)
	require.NoError(t, err)
	large, err := Auto{Limit: 10}.Eigs(a, 10.2, 2)
	require.NoError(t, err)
	for i := range small.Values {
		require.InDelta(t, 0, cmplx.Abs(small.Values[i]-large.Values[i]), 1e-8)
	}
}
