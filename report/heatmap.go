package report

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"fdfd/grid"
)

// Grid 以坐标轴 Axis 表示的方形分布，行对应 y，列对应 x
type Grid struct {
	Axis []float64
	Data grid.RealMap
}

// Dims 列数与行数
func (g Grid) Dims() (c, r int) {
	return len(g.Axis), len(g.Axis)
}

// Z 第 r 行第 c 列的值
func (g Grid) Z(c, r int) float64 {
	return g.Data[r][c]
}

// X 第 c 列坐标（μm）
func (g Grid) X(c int) float64 {
	return g.Axis[c] / um
}

// Y 第 r 行坐标（μm）
func (g Grid) Y(r int) float64 {
	return g.Axis[r] / um
}

// Bounds 数据范围
func (g Grid) Bounds() (lo, hi float64) {
	return bounds(g.Data)
}

// bounds 最小值与最大值
func bounds(m grid.RealMap) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, row := range m {
		if len(row) == 0 {
			continue
		}
		lo = math.Min(lo, floats.Min(row))
		hi = math.Max(hi, floats.Max(row))
	}
	if lo > hi {
		return 0, 0
	}
	return lo, hi
}

// limitedTicker 最多 maxLabels 个刻度
func limitedTicker(maxLabels int, labelFmt string) plot.Ticker {
	if maxLabels < 2 {
		maxLabels = 2
	}
	return plot.TickerFunc(func(min, max float64) []plot.Tick {
		if math.IsNaN(min) || math.IsNaN(max) || math.IsInf(min, 0) || math.IsInf(max, 0) {
			return nil
		}
		if min == max {
			return []plot.Tick{{Value: min, Label: fmt.Sprintf(labelFmt, min)}}
		}
		step := (max - min) / float64(maxLabels-1)
		ticks := make([]plot.Tick, 0, maxLabels)
		for i := 0; i < maxLabels; i++ {
			v := min + float64(i)*step
			ticks = append(ticks, plot.Tick{Value: v, Label: fmt.Sprintf(labelFmt, v)})
		}
		return ticks
	})
}

func stylePlot(p *plot.Plot) {
	p.Title.TextStyle.Font.Size = vg.Points(18)
	p.Title.Padding = vg.Points(12)
	p.X.Label.TextStyle.Font.Size = vg.Points(14)
	p.Y.Label.TextStyle.Font.Size = vg.Points(14)
	p.X.Padding = vg.Points(10)
	p.Y.Padding = vg.Points(10)
	p.X.Tick.Label.Font.Size = vg.Points(12)
	p.Y.Tick.Label.Font.Size = vg.Points(12)
	p.X.Tick.Marker = limitedTicker(7, "%.0f")
	p.Y.Tick.Marker = limitedTicker(7, "%.0f")
}

// HeatmapPlot 生成热图
func HeatmapPlot(title string, g Grid) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "x (μm)"
	p.Y.Label.Text = "y (μm)"
	stylePlot(p)
	p.Add(plotter.NewHeatMap(g, moreland.Kindlmann().Palette(255)))
	return p
}

// WriteHeatmapPNG 以 dpi 分辨率输出 widthIn×heightIn 英寸的 PNG
func WriteHeatmapPNG(w io.Writer, title string, g Grid, widthIn, heightIn float64, dpi int) error {
	p := HeatmapPlot(title, g)
	c := vgimg.NewWith(
		vgimg.UseWH(vg.Length(widthIn)*vg.Inch, vg.Length(heightIn)*vg.Inch),
		vgimg.UseDPI(dpi),
	)
	p.Draw(draw.New(c))
	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(w); err != nil {
		return fmt.Errorf("cannot write png: %w", err)
	}
	return nil
}

// SaveHeatmapPNG 写入 8×6 英寸 300 DPI 的 PNG 文件
func SaveHeatmapPNG(filename, title string, g Grid) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0o755); err != nil {
		return fmt.Errorf("cannot create directory: %w", err)
	}
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("cannot create png: %w", err)
	}
	defer f.Close()
	bw := bufio.NewWriter(f)
	if err := WriteHeatmapPNG(bw, title, g, 8, 6, 300); err != nil {
		return err
	}
	return bw.Flush()
}
