package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"fdfd/report"
)

func TestLoadProblemKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "problem.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"nx": 31, "pml": {"depth": 4}}`), 0o644))

	p := defaultProblem()
	require.NoError(t, loadProblem(path, &p))
	require.Equal(t, 31, p.Nx)
	require.Equal(t, 4, p.PML.Depth)
	require.Equal(t, 0.65e-6, p.Wavelength)
	require.Len(t, p.Geometry.Glass, 8)

	require.Error(t, loadProblem(filepath.Join(t.TempDir(), "missing.json"), &p))
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "record.json")
	rec := &report.Record{Elapsed: 2}
	require.NoError(t, writeFile(path, rec.Render))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, strings.Contains(string(data), `"elapsedSeconds":2`))
}
