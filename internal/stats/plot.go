package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

// Series represents a named data series for plotting.
type Series struct {
	Name   string
	Values []float64
}

const (
	defaultPlotHeight   = 8
	minPlotWidth        = 10
	axisSeparator       = " ┤ "
	colorReset          = "\x1b[0m"
	terminalWidthBackup = 80
)

var seriesColors = []string{
	"\x1b[36m", // cyan
	"\x1b[35m", // magenta
	"\x1b[33m", // yellow
	"\x1b[32m", // green
}

// PlotOptions controls plot geometry and color.
type PlotOptions struct {
	Width      int
	Height     int
	ForceColor bool
}

// PlotSeries renders a braille line chart of all series on a shared scale.
// Each terminal cell holds a 2x4 dot grid.
func PlotSeries(w io.Writer, title string, series []Series, opts PlotOptions) error {
	series = nonEmptySeries(series)
	if len(series) == 0 {
		return nil
	}
	height := opts.Height
	if height <= 0 {
		height = defaultPlotHeight
	}
	width := opts.Width
	if width <= 0 {
		width = PlotWidthFor(terminalWidth())
	}
	width = max(width, minPlotWidth)

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, s := range series {
		slo, shi := minMax(s.Values)
		lo, hi = math.Min(lo, slo), math.Max(hi, shi)
	}
	lo = math.Min(lo, 0)
	if hi-lo < 1e-9 {
		hi = lo + 1
	}

	grids := make([]*brailleGrid, len(series))
	for i, s := range series {
		grids[i] = newBrailleGrid(width, height)
		grids[i].trace(resample(s.Values, width), lo, hi)
	}

	useColor := shouldUseColor(w, opts.ForceColor)
	labels := axisLabels(height, lo, hi)
	labelWidth := 0
	for _, l := range labels {
		labelWidth = max(labelWidth, runewidth.StringWidth(l))
	}

	if title != "" {
		if _, err := fmt.Fprintln(w, title); err != nil {
			return err
		}
	}
	for y := 0; y < height; y++ {
		var row strings.Builder
		row.WriteString(runewidth.FillLeft(labels[y], labelWidth))
		row.WriteString(axisSeparator)
		for x := 0; x < width; x++ {
			var mask uint8
			owner := -1
			for i, g := range grids {
				if m := g.cells[y][x]; m != 0 {
					mask |= m
					if owner < 0 {
						owner = i
					}
				}
			}
			ch := rune(0x2800 + int(mask))
			if useColor && owner >= 0 {
				row.WriteString(seriesColors[owner%len(seriesColors)])
				row.WriteRune(ch)
				row.WriteString(colorReset)
			} else {
				row.WriteRune(ch)
			}
		}
		if _, err := fmt.Fprintln(w, row.String()); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, legend(series, useColor))
	return err
}

// PaceWindow is the moving average window of PlotPace, in seconds.
const PaceWindow = 5

// PlotPace charts per-second WPM samples with their moving average. Fewer than
// two samples print nothing.
func PlotPace(w io.Writer, samples []float64, opts PlotOptions) error {
	if len(samples) < 2 {
		return nil
	}
	series := []Series{
		{Name: "WPM", Values: samples},
		{Name: "Average", Values: MovingAverage(samples, PaceWindow)},
	}
	return PlotSeries(w, "Pace (WPM)", series, opts)
}

// PlotWidthFor computes a plot width that fits within totalWidth.
func PlotWidthFor(totalWidth int) int {
	if totalWidth <= 0 {
		return minPlotWidth
	}
	axisWidth := 4 + runewidth.StringWidth(axisSeparator)
	return max(totalWidth-axisWidth, minPlotWidth)
}

type brailleGrid struct {
	cells [][]uint8
	dotsW int
	dotsH int
}

func newBrailleGrid(width, height int) *brailleGrid {
	cells := make([][]uint8, height)
	for y := range cells {
		cells[y] = make([]uint8, width)
	}
	return &brailleGrid{cells: cells, dotsW: width * 2, dotsH: height * 4}
}

// trace draws one dot column per value, joining neighbours with line segments.
func (g *brailleGrid) trace(values []float64, lo, hi float64) {
	prevX, prevY := -1, -1
	for i, v := range values {
		x := i * 2
		y := int(math.Round((1 - (v-lo)/(hi-lo)) * float64(g.dotsH-1)))
		y = clamp(y, 0, g.dotsH-1)
		if prevX < 0 {
			g.set(x, y)
		} else {
			bresenham(prevX, prevY, x, y, g.set)
		}
		prevX, prevY = x, y
	}
}

// Dot bit layout of a braille cell, indexed by [x][y].
var brailleBits = [2][4]uint8{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

func (g *brailleGrid) set(x, y int) {
	if x < 0 || y < 0 || x >= g.dotsW || y >= g.dotsH {
		return
	}
	g.cells[y/4][x/2] |= brailleBits[x%2][y%4]
}

func bresenham(x0, y0, x1, y1 int, plot func(x, y int)) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		plot(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// resample stretches or averages values down to exactly width points.
func resample(values []float64, width int) []float64 {
	out := make([]float64, width)
	n := len(values)
	switch {
	case n == 0:
		return nil
	case n == 1 || width == 1:
		for i := range out {
			out[i] = values[0]
		}
	case n > width:
		for i := range out {
			start := i * n / width
			end := max((i+1)*n/width, start+1)
			var sum float64
			for _, v := range values[start:end] {
				sum += v
			}
			out[i] = sum / float64(end-start)
		}
	default:
		for i := range out {
			pos := float64(i) * float64(n-1) / float64(width-1)
			idx := int(pos)
			if idx >= n-1 {
				out[i] = values[n-1]
				continue
			}
			frac := pos - float64(idx)
			out[i] = values[idx]*(1-frac) + values[idx+1]*frac
		}
	}
	return out
}

func axisLabels(height int, lo, hi float64) []string {
	labels := make([]string, height)
	labels[0] = fmt.Sprintf("%.0f", hi)
	if height > 1 {
		labels[height-1] = fmt.Sprintf("%.0f", lo)
	}
	if height > 2 {
		labels[height/2] = fmt.Sprintf("%.0f", (hi+lo)/2)
	}
	return labels
}

func legend(series []Series, useColor bool) string {
	parts := make([]string, 0, len(series))
	for i, s := range series {
		label := "⣿ " + s.Name
		if useColor {
			label = seriesColors[i%len(seriesColors)] + label + colorReset
		}
		parts = append(parts, label)
	}
	return strings.Join(parts, "  ")
}

func nonEmptySeries(series []Series) []Series {
	out := make([]Series, 0, len(series))
	for _, s := range series {
		if len(s.Values) > 0 {
			out = append(out, s)
		}
	}
	return out
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

func shouldUseColor(w io.Writer, force bool) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if force {
		return true
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}
