// Package report 输出求解结果：JSON 记录、CSV 场分布、PNG 与 HTML 热图
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"time"

	"fdfd/field"
)

const (
	um = 1e-6
	nm = 1e-9
)

// ModeRecord 单个模式摘要
type ModeRecord struct {
	Index     int     `json:"index"`
	BetaRe    float64 `json:"betaRe"`
	BetaIm    float64 `json:"betaIm"`
	NeffRe    float64 `json:"neffRe"`
	NeffIm    float64 `json:"neffIm"`
	PeakE     float64 `json:"peakE"`
	EdgeRatio float64 `json:"edgeRatio"`
}

// Record 记录一次求解
type Record struct {
	Meta    field.Meta   `json:"meta"`
	Modes   []ModeRecord `json:"modes"`
	Elapsed float64      `json:"elapsedSeconds"`
}

// NewRecord 由求解结果生成记录
func NewRecord(set *field.ModeSet, elapsed time.Duration) *Record {
	r := &Record{Meta: set.Meta, Elapsed: elapsed.Seconds()}
	for i := range set.Modes {
		m := &set.Modes[i]
		_, hi := bounds(m.EAbs)
		r.Modes = append(r.Modes, ModeRecord{
			Index:     i,
			BetaRe:    real(m.Beta),
			BetaIm:    imag(m.Beta),
			NeffRe:    real(m.Neff),
			NeffIm:    imag(m.Neff),
			PeakE:     hi,
			EdgeRatio: m.EdgeRatio(),
		})
	}
	return r
}

// Render 格式和输出内容
func (r *Record) Render(w io.Writer) error { return json.NewEncoder(w).Encode(r) }

// Summary 打印波长、步长、采样密度、耗时和各模式有效折射率
func (r *Record) Summary(w io.Writer) error {
	ratio := 0.0
	if r.Meta.Dx != 0 {
		ratio = r.Meta.Wavelength / r.Meta.Dx
	}
	if _, err := fmt.Fprintf(w, "lambda: %.2f nm\ndx: %.2f nm\nlambda/dx: %.2f\nelapsed: %.3fs\n",
		r.Meta.Wavelength/nm, r.Meta.Dx/nm, ratio, r.Elapsed); err != nil {
		return err
	}
	for _, m := range r.Modes {
		if _, err := fmt.Fprintf(w, "mode %d: %s\n", m.Index, NeffLabel(complex(m.NeffRe, m.NeffIm))); err != nil {
			return err
		}
	}
	return nil
}

// NeffLabel 有效折射率标题
func NeffLabel(neff complex128) string {
	return fmt.Sprintf("Effective Index: %.6g%+.6gj", real(neff), imag(neff))
}

func (r *Record) Error(err error) { log.Println(err) }
