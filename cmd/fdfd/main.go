package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"fdfd"
	"fdfd/geometry"
	"fdfd/grid"
	"fdfd/pml"
	"fdfd/report"
)

// Problem 求解配置
type Problem struct {
	Nx         int                 `json:"nx"`
	Wavelength float64             `json:"wavelength"`
	NeffGuess  float64             `json:"neffGuess"`
	Modes      int                 `json:"modes"`
	Workers    int                 `json:"workers"`
	PML        pml.Config          `json:"pml"`
	Geometry   geometry.DoubleClad `json:"geometry"`
	Out        string              `json:"out"`
	Serve      string              `json:"serve"`
}

func defaultProblem() Problem {
	return Problem{
		Nx:         41,
		Wavelength: 0.65e-6,
		NeffGuess:  1,
		Modes:      2,
		PML:        pml.DefaultConfig(),
		Geometry:   geometry.DefaultDoubleClad(),
		Out:        "out",
	}
}

// loadProblem 读取 JSON 配置，未给出的字段保持默认值
func loadProblem(path string, p *Problem) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := json.NewDecoder(f).Decode(p); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func main() {
	p := defaultProblem()
	var (
		config     = flag.String("config", "", "JSON problem file")
		nx         = flag.Int("nx", p.Nx, "grid side length in cells")
		wavelength = flag.Float64("wavelength", p.Wavelength, "free-space wavelength (m)")
		neff       = flag.Float64("neff", p.NeffGuess, "effective index guess, shift = (neff·k0)²")
		modes      = flag.Int("modes", p.Modes, "number of modes")
		workers    = flag.Int("workers", p.Workers, "assembly goroutines (0 = all CPUs)")
		depth      = flag.Int("pml", p.PML.Depth, "PML depth in cells (0 disables)")
		out        = flag.String("out", p.Out, "output directory")
		serve      = flag.String("serve", "", "serve the heat-map page on this address after solving")
	)
	flag.Parse()
	if *config != "" {
		if err := loadProblem(*config, &p); err != nil {
			log.Fatalf("cannot load problem: %v", err)
		}
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "nx":
			p.Nx = *nx
		case "wavelength":
			p.Wavelength = *wavelength
		case "neff":
			p.NeffGuess = *neff
		case "modes":
			p.Modes = *modes
		case "workers":
			p.Workers = *workers
		case "pml":
			p.PML.Depth = *depth
		case "out":
			p.Out = *out
		case "serve":
			p.Serve = *serve
		}
	})

	n, dx := p.Geometry.Build(p.Nx)
	axis := p.Geometry.Axis(p.Nx)
	if err := report.SaveHeatmapPNG(filepath.Join(p.Out, "index.png"), "Refractive Index", report.Grid{Axis: axis, Data: grid.RealMap(n)}); err != nil {
		log.Fatalf("cannot save index map: %v", err)
	}

	k0 := 2 * math.Pi / p.Wavelength
	start := time.Now()
	set, err := fdfd.Solve(dx, n, p.Wavelength, p.NeffGuess*k0, p.Modes,
		fdfd.WithPML(p.PML),
		fdfd.WithWorkers(p.Workers),
	)
	if err != nil {
		log.Fatalf("solve: %v", err)
	}
	rec := report.NewRecord(set, time.Since(start))
	if err := rec.Summary(os.Stdout); err != nil {
		log.Fatal(err)
	}

	for i := range set.Modes {
		m := &set.Modes[i]
		title := report.NeffLabel(m.Neff)
		if err := report.SaveHeatmapPNG(filepath.Join(p.Out, fmt.Sprintf("mode%d_E.png", i)), title, report.Grid{Axis: axis, Data: m.EAbs}); err != nil {
			log.Fatalf("cannot save heat map: %v", err)
		}
		if err := report.SaveModeCSV(filepath.Join(p.Out, fmt.Sprintf("mode%d.csv", i)), axis, m); err != nil {
			log.Fatalf("cannot save fields: %v", err)
		}
	}
	if err := writeFile(filepath.Join(p.Out, "record.json"), rec.Render); err != nil {
		log.Fatalf("cannot save record: %v", err)
	}
	charts := report.NewCharts(set, axis, rec)
	if err := writeFile(filepath.Join(p.Out, "modes.html"), charts.Render); err != nil {
		log.Fatalf("cannot save charts: %v", err)
	}
	log.Printf("results written to %s", p.Out)

	if p.Serve != "" {
		http.HandleFunc("/", charts.Handler)
		log.Printf("serving on %s", p.Serve)
		log.Fatal(http.ListenAndServe(p.Serve, nil))
	}
}
