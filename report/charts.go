package report

import (
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"fdfd/field"
	"fdfd/grid"
)

// Charts 网页热图
type Charts struct {
	Record
	Axis  []float64
	Index grid.RealMap
	EAbs  []grid.RealMap
	HAbs  []grid.RealMap
}

// NewCharts 由求解结果生成网页热图
func NewCharts(set *field.ModeSet, axis []float64, rec *Record) *Charts {
	c := &Charts{Record: *rec, Axis: axis, Index: grid.RealMap(set.Meta.Index)}
	for _, m := range set.Modes {
		c.EAbs = append(c.EAbs, m.EAbs)
		c.HAbs = append(c.HAbs, m.HAbs)
	}
	return c
}

// heatMap 单幅热图
func heatMap(title, subtitle string, labels []string, data grid.RealMap) *charts.HeatMap {
	lo, hi := bounds(data)
	hm := charts.NewHeatMap()
	hm.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Theme: types.ThemeWesteros,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: subtitle,
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show: opts.Bool(true),
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Type: "category",
			Name: "x (μm)",
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Type: "category",
			Name: "y (μm)",
			Data: labels,
		}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Calculable: opts.Bool(true),
			Min:        float32(lo),
			Max:        float32(hi),
			InRange: &opts.VisualMapInRange{
				Color: []string{"#000004", "#3b0f70", "#8c2981", "#de4968", "#fe9f6d", "#fcfdbf"},
			},
		}),
	)
	hm.SetXAxis(labels)
	items := make([]opts.HeatMapData, 0, len(data)*len(data))
	for r, row := range data {
		for c, v := range row {
			items = append(items, opts.HeatMapData{Value: [3]interface{}{c, r, v}})
		}
	}
	hm.AddSeries(title, items)
	return hm
}

// Render 格式化
func (c *Charts) Render(w io.Writer) error {
	labels := make([]string, len(c.Axis))
	for i, x := range c.Axis {
		labels[i] = fmt.Sprintf("%.1f", x/um)
	}
	page := components.NewPage()
	if len(c.Index) > 0 {
		page.AddCharts(heatMap("Refractive Index", "折射率分布", labels, c.Index))
	}
	for i, m := range c.Modes {
		neff := NeffLabel(complex(m.NeffRe, m.NeffIm))
		page.AddCharts(
			heatMap(fmt.Sprintf("|E| mode %d", m.Index), neff, labels, c.EAbs[i]),
			heatMap(fmt.Sprintf("|H| mode %d", m.Index), neff, labels, c.HAbs[i]),
		)
	}
	return page.Render(w)
}

// Handler 发布到网页面
func (c *Charts) Handler(w http.ResponseWriter, _ *http.Request) {
	if err := c.Render(w); err != nil {
		c.Error(err)
	}
}

func (c *Charts) Error(err error) { log.Println(err) }
