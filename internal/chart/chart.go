// Package chart draws simple per-year count charts into a PDF, one chart
// per page.
package chart

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/jung-kurt/gofpdf"
)

// Kind selects how values are drawn.
type Kind int

const (
	Line Kind = iota
	Bar
)

// Chart is one labelled series: Labels[i] is the x label of Values[i].
type Chart struct {
	Title  string
	XLabel string
	YLabel string
	Kind   Kind
	Labels []string
	Values []float64
}

// ErrNoCharts is returned when asked to render nothing.
var ErrNoCharts = errors.New("chart: nothing to draw")

// page geometry in mm, A4 landscape
const (
	pageW   = 297.0
	pageH   = 210.0
	marginL = 30.0
	marginR = 15.0
	marginT = 30.0
	marginB = 30.0
	ticks   = 5
)

// Write renders charts as a PDF to w.
func Write(w io.Writer, charts ...Chart) error {
	pdf, err := render(charts)
	if err != nil {
		return err
	}
	return pdf.Output(w)
}

// WriteFile renders charts as a PDF at path.
func WriteFile(path string, charts ...Chart) error {
	pdf, err := render(charts)
	if err != nil {
		return err
	}
	return pdf.OutputFileAndClose(path)
}

func render(charts []Chart) (*gofpdf.Fpdf, error) {
	if len(charts) == 0 {
		return nil, ErrNoCharts
	}
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetTitle("goadverts charts", true)
	for i, c := range charts {
		if len(c.Labels) != len(c.Values) {
			return nil, fmt.Errorf("chart %d: %d labels for %d values", i, len(c.Labels), len(c.Values))
		}
		pdf.AddPage()
		draw(pdf, c)
	}
	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("chart: %w", err)
	}
	return pdf, nil
}

func draw(pdf *gofpdf.Fpdf, c Chart) {
	x0, y0 := marginL, pageH-marginB // origin, bottom left of plot area
	w, h := pageW-marginL-marginR, pageH-marginT-marginB

	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginL, 12)
	pdf.CellFormat(w, 8, c.Title, "", 0, "C", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.3)
	pdf.Line(x0, y0, x0+w, y0)
	pdf.Line(x0, y0, x0, y0-h)

	top := niceCeil(maxOf(c.Values))
	pdf.SetFont("Helvetica", "", 9)
	for i := 0; i <= ticks; i++ {
		v := top * float64(i) / ticks
		y := y0 - h*float64(i)/ticks
		pdf.Line(x0-1.5, y, x0, y)
		pdf.SetXY(x0-22, y-2)
		pdf.CellFormat(20, 4, strconv.FormatFloat(v, 'f', -1, 64), "", 0, "R", false, 0, "")
	}

	if c.YLabel != "" {
		pdf.TransformBegin()
		pdf.TransformRotate(90, 10, y0-h/2)
		pdf.Text(10-float64(len(c.YLabel)), y0-h/2, c.YLabel)
		pdf.TransformEnd()
	}
	if c.XLabel != "" {
		pdf.SetXY(x0, y0+10)
		pdf.CellFormat(w, 5, c.XLabel, "", 0, "C", false, 0, "")
	}

	n := len(c.Values)
	if n == 0 {
		pdf.SetXY(x0, y0-h/2)
		pdf.CellFormat(w, 6, "no data", "", 0, "C", false, 0, "")
		return
	}

	slot := w / float64(n)
	px := func(i int) float64 { return x0 + slot*(float64(i)+0.5) }
	py := func(v float64) float64 { return y0 - h*v/top }

	for i, l := range c.Labels {
		pdf.SetXY(px(i)-slot/2, y0+2)
		pdf.CellFormat(slot, 4, l, "", 0, "C", false, 0, "")
	}

	pdf.SetDrawColor(31, 119, 180)
	pdf.SetFillColor(31, 119, 180)
	switch c.Kind {
	case Bar:
		bw := slot * 0.6
		for i, v := range c.Values {
			pdf.Rect(px(i)-bw/2, py(v), bw, y0-py(v), "F")
		}
	default:
		pdf.SetLineWidth(0.6)
		for i := 1; i < n; i++ {
			pdf.Line(px(i-1), py(c.Values[i-1]), px(i), py(c.Values[i]))
		}
		for i, v := range c.Values {
			pdf.Circle(px(i), py(v), 0.9, "F")
		}
	}
}

func maxOf(vs []float64) float64 {
	m := 0.0
	for _, v := range vs {
		if v > m && !math.IsInf(v, 0) {
			m = v
		}
	}
	return m
}

// niceCeil rounds v up to 1, 2 or 5 times a power of ten, at least 1.
func niceCeil(v float64) float64 {
	if v <= 1 {
		return 1
	}
	mag := math.Pow(10, math.Floor(math.Log10(v)))
	for _, f := range []float64{1, 2, 5, 10} {
		if f*mag >= v {
			return f * mag
		}
	}
	return 10 * mag
}

// Counts converts integer counts for charting.
func Counts(ns []int) []float64 {
	out := make([]float64, len(ns))
	for i, n := range ns {
		out[i] = float64(n)
	}
	return out
}
