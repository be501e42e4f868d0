package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"fdfd/field"
)

var csvHeader = []string{
	"x", "y",
	"Ex_re", "Ex_im", "Ey_re", "Ey_im", "Ez_re", "Ez_im",
	"Hx_re", "Hx_im", "Hy_re", "Hy_im", "Hz_re", "Hz_im",
	"E_abs", "H_abs",
}

// WriteModeCSV 按行输出一个模式的全部场分量，行对应 y，列对应 x
func WriteModeCSV(w io.Writer, axis []float64, m *field.Mode) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	g := func(v float64) string { return fmt.Sprintf("%.15g", v) }
	rec := make([]string, len(csvHeader))
	for r := range m.EAbs {
		for c := range m.EAbs[r] {
			rec = rec[:0]
			rec = append(rec, g(axis[c]), g(axis[r]))
			for _, f := range []complex128{m.Ex[r][c], m.Ey[r][c], m.Ez[r][c], m.Hx[r][c], m.Hy[r][c], m.Hz[r][c]} {
				rec = append(rec, g(real(f)), g(imag(f)))
			}
			rec = append(rec, g(m.EAbs[r][c]), g(m.HAbs[r][c]))
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// SaveModeCSV 写入 CSV 文件
func SaveModeCSV(filename string, axis []float64, m *field.Mode) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0o755); err != nil {
		return fmt.Errorf("cannot create directory: %w", err)
	}
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("cannot create csv: %w", err)
	}
	defer f.Close()
	return WriteModeCSV(f, axis, m)
}
