package main

import (
	"bufio"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/robotsim/nikopt/motionplan/ik"
)

const (
	traceWidthIn  = 12.0
	traceHeightIn = 9.0
	traceDPI      = 150
)

// renderTrace draws the step records of a trace as a 2x2 grid: raw step, null space step, corrected step and
// joint values, each with one line per degree of freedom against the iteration number.
func renderTrace(trace *ik.Trace, names []string, filename string) error {
	steps := trace.Steps()
	if len(steps) == 0 {
		return errors.New("trace has no update steps to plot")
	}

	panels := []struct {
		title, ylabel string
		value         func(rec ik.IterationRecord, dof int) float64
	}{
		{"Raw step", "delta", func(rec ik.IterationRecord, dof int) float64 { return rec.RawDelta[dof] }},
		{"Null space step", "delta", func(rec ik.IterationRecord, dof int) float64 { return rec.NullSpaceDelta[dof] }},
		{"Corrected step", "delta", func(rec ik.IterationRecord, dof int) float64 { return rec.CorrectedDelta[dof] }},
		{"Joint path", "value", func(rec ik.IterationRecord, dof int) float64 { return rec.Configuration[dof].Value }},
	}

	plots := make([][]*plot.Plot, 2)
	for i, panel := range panels {
		p := plot.New()
		p.Title.Text = panel.title
		p.X.Label.Text = "iteration"
		p.Y.Label.Text = panel.ylabel
		p.Add(plotter.NewGrid())

		for dof, name := range names {
			pts := make(plotter.XYs, len(steps))
			for k, rec := range steps {
				pts[k].X = float64(rec.Iteration)
				pts[k].Y = panel.value(rec, dof)
			}
			line, err := plotter.NewLine(pts)
			if err != nil {
				return errors.Wrapf(err, "%s for %s", panel.title, name)
			}
			line.LineStyle.Width = vg.Points(1.5)
			line.LineStyle.Color = plotutil.Color(dof)
			p.Add(line)
			p.Legend.Add(name, line)
		}
		plots[i/2] = append(plots[i/2], p)
	}
	return savePlotsPNG(plots, filename)
}

func savePlotsPNG(plots [][]*plot.Plot, filename string) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0o755); err != nil {
		return errors.Wrap(err, "cannot create directory")
	}
	c := vgimg.NewWith(
		vgimg.UseWH(vg.Length(traceWidthIn)*vg.Inch, vg.Length(traceHeightIn)*vg.Inch),
		vgimg.UseDPI(traceDPI),
	)
	dc := draw.New(c)
	tiles := draw.Tiles{
		Rows:      len(plots),
		Cols:      len(plots[0]),
		PadX:      vg.Millimeter * 4,
		PadY:      vg.Millimeter * 4,
		PadTop:    vg.Millimeter * 2,
		PadBottom: vg.Millimeter * 2,
		PadLeft:   vg.Millimeter * 2,
		PadRight:  vg.Millimeter * 2,
	}
	canvases := plot.Align(plots, tiles, dc)
	for j := range plots {
		for i := range plots[j] {
			plots[j][i].Draw(canvases[j][i])
		}
	}

	//nolint:gosec
	f, err := os.Create(filename)
	if err != nil {
		return errors.Wrap(err, "cannot create png")
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	pngc := vgimg.PngCanvas{Canvas: c}
	if _, err := pngc.WriteTo(bw); err != nil {
		return errors.Wrap(err, "cannot write png")
	}
	return bw.Flush()
}
