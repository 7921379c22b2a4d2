// Package plot renders input and output sequences as a line chart.
package plot

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrNoData is returned when there is nothing to draw.
var ErrNoData = errors.New("plot: no data")

// Options controls the chart frame.  The zero value draws 800x400 with the y
// axis fixed to [-1, 1].
type Options struct {
	Width, Height int
	YMin, YMax    float64
	Title         string
}

func (o Options) withDefaults() Options {
	if o.Width <= 0 {
		o.Width = 800
	}
	if o.Height <= 0 {
		o.Height = 400
	}
	if o.YMin == 0 && o.YMax == 0 {
		o.YMin, o.YMax = -1, 1
	}
	return o
}

// Series is one named line.
type Series struct {
	Name   string
	Values []float64
	Color  string
	Dashed bool
}

const margin = 40

// SVG draws the input as a solid line and the output dashed on a shared
// sample-index axis.  Points outside [YMin, YMax] are clipped to the frame.
func SVG(w io.Writer, input, output []float64, opts Options) error {
	return Lines(w, opts,
		Series{Name: "input", Values: input, Color: "#1f77b4"},
		Series{Name: "output", Values: output, Color: "#ff7f0e", Dashed: true},
	)
}

// Lines draws any number of series.
func Lines(w io.Writer, opts Options, series ...Series) error {
	opts = opts.withDefaults()
	if opts.YMax <= opts.YMin {
		return fmt.Errorf("plot: invalid y range [%g, %g]", opts.YMin, opts.YMax)
	}
	n := 0
	for _, s := range series {
		n = max(n, len(s.Values))
	}
	if n == 0 {
		return ErrNoData
	}

	plotW := float64(opts.Width - 2*margin)
	plotH := float64(opts.Height - 2*margin)
	xAt := func(i int) float64 {
		if n == 1 {
			return margin + plotW/2
		}
		return margin + plotW*float64(i)/float64(n-1)
	}
	yAt := func(v float64) float64 {
		v = min(max(v, opts.YMin), opts.YMax)
		return margin + plotH*(opts.YMax-v)/(opts.YMax-opts.YMin)
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`+"\n",
		opts.Width, opts.Height, opts.Width, opts.Height)
	fmt.Fprintf(bw, `<rect x="0" y="0" width="%d" height="%d" fill="white"/>`+"\n", opts.Width, opts.Height)
	fmt.Fprintf(bw, `<rect x="%d" y="%d" width="%s" height="%s" fill="none" stroke="#999"/>`+"\n",
		margin, margin, num(plotW), num(plotH))
	if opts.YMin < 0 && opts.YMax > 0 {
		y0 := yAt(0)
		fmt.Fprintf(bw, `<line x1="%d" y1="%s" x2="%s" y2="%s" stroke="#ddd"/>`+"\n",
			margin, num(y0), num(margin+plotW), num(y0))
	}
	fmt.Fprintf(bw, `<text x="4" y="%d" font-size="10">%s</text>`+"\n", margin+4, num(opts.YMax))
	fmt.Fprintf(bw, `<text x="4" y="%s" font-size="10">%s</text>`+"\n", num(margin+plotH), num(opts.YMin))
	if opts.Title != "" {
		fmt.Fprintf(bw, `<text x="%d" y="%d" font-size="14">%s</text>`+"\n", margin, margin-12, escape(opts.Title))
	}

	for i, s := range series {
		if len(s.Values) == 0 {
			continue
		}
		var pts strings.Builder
		for j, v := range s.Values {
			if j > 0 {
				pts.WriteByte(' ')
			}
			pts.WriteString(num(xAt(j)))
			pts.WriteByte(',')
			pts.WriteString(num(yAt(v)))
		}
		color := s.Color
		if color == "" {
			color = "black"
		}
		dash := ""
		if s.Dashed {
			dash = ` stroke-dasharray="6,4"`
		}
		fmt.Fprintf(bw, `<polyline fill="none" stroke="%s" stroke-width="1.5"%s points="%s"><title>%s</title></polyline>`+"\n",
			color, dash, pts.String(), escape(s.Name))
		fmt.Fprintf(bw, `<text x="%s" y="%d" font-size="11" fill="%s">%s</text>`+"\n",
			num(margin+plotW-80), margin+14*(i+1), color, escape(s.Name))
	}
	fmt.Fprintln(bw, `</svg>`)
	return bw.Flush()
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

var escaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")

func escape(s string) string {
	return escaper.Replace(s)
}
