package fdfd

import (
	"context"
	"fmt"
	"log"
	"math"

	"fdfd/eigen"
	"fdfd/field"
	"fdfd/grid"
	"fdfd/operator"
	"fdfd/pml"
)

// 对外错误
var (
	ErrInvalidGrid   = grid.ErrInvalidGrid
	ErrNoConvergence = eigen.ErrNoConvergence
	ErrTooManyModes  = eigen.ErrTooManyModes
	ErrSingularShift = eigen.ErrSingularShift
)

// InvalidGridError 非方阵折射率分布
type InvalidGridError = grid.InvalidGridError

// MinPointsPerWavelength 低于该采样密度时给出精度警告
const MinPointsPerWavelength = 10

// options 求解选项
type options struct {
	pml     pml.Config
	solver  eigen.ShiftInvertEigensolver
	logger  *log.Logger
	workers int
}

// Option 求解选项设置函数
type Option func(*options)

// WithPML 设置吸收边界参数
func WithPML(cfg pml.Config) Option { return func(o *options) { o.pml = cfg } }

// WithEigensolver 替换特征值求解后端
func WithEigensolver(s eigen.ShiftInvertEigensolver) Option {
	return func(o *options) { o.solver = s }
}

// WithLogger 设置日志输出
func WithLogger(l *log.Logger) Option { return func(o *options) { o.logger = l } }

// WithWorkers 设置算子组装的并行度，<=0 使用全部 CPU
func WithWorkers(n int) Option { return func(o *options) { o.workers = n } }

func defaultOptions() *options {
	return &options{
		pml:    pml.DefaultConfig(),
		solver: eigen.Auto{Limit: 300},
		logger: log.Default(),
	}
}

// Solve 求折射率分布 n 在波长 wavelength 下传播常数最接近 betaGuess 的 modeCount 个模式
func Solve(dx float64, n grid.IndexMap, wavelength, betaGuess float64, modeCount int, opts ...Option) (*field.ModeSet, error) {
	return SolveContext(context.Background(), dx, n, wavelength, betaGuess, modeCount, opts...)
}

// SolveContext 同 Solve，在各阶段之间检查 ctx
func SolveContext(ctx context.Context, dx float64, n grid.IndexMap, wavelength, betaGuess float64, modeCount int, opts ...Option) (*field.ModeSet, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	g, err := grid.New(dx, n)
	if err != nil {
		return nil, fmt.Errorf("fdfd: %w", err)
	}
	if ratio := wavelength / dx; ratio < MinPointsPerWavelength {
		o.logger.Printf("warning: wavelength/dx = %.3g < %d, discretization may be inaccurate", ratio, MinPointsPerWavelength)
	}
	if modeCount < 1 {
		modeCount = 1
	}

	freq := pml.C / wavelength
	omega := 2 * math.Pi * freq
	k0 := 2 * math.Pi / wavelength
	eps := grid.Sample(g, n)
	profile := pml.NewProfile(o.pml, g, omega)
	meta := field.Meta{
		Nx:         g.Nx,
		Dx:         dx,
		Wavelength: wavelength,
		K0:         k0,
		Omega:      omega,
		BetaGuess:  betaGuess,
		PML:        o.pml,
		SigmaMax:   profile.SigmaMax(),
		Loss:       profile.Loss(),
		Index:      n,
	}

	o.logger.Println("calculating derivative operators")
	d := operator.Assemble(g, eps, profile, o.workers)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	o.logger.Println("calculating Q")
	wave := operator.BuildWave(d, eps, k0)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	o.logger.Printf("taking eigenvalues (%d modes, n=%d)", modeCount, wave.Q.Rows())
	res, err := o.solver.Eigs(wave.Q, complex(betaGuess*betaGuess, 0), modeCount)
	if err != nil {
		return nil, fmt.Errorf("fdfd: eigensolve: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	o.logger.Println("calculating fields")
	fields := field.ReconstructAll(d, eps, omega, res.Values, res.Vectors)
	return field.Package(meta, fields), nil
}
