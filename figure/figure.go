// Package figure renders fitted models against the data of one
// condition using gonum plot.
package figure

import (
	"fmt"

	"github.com/op/go-logging"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"bitbucket.org/mcfit/mcfit/dataset"
	"bitbucket.org/mcfit/mcfit/model"
)

// log is the global logging variable.
var log = logging.MustGetLogger("figure")

// linePoints is the number of evaluation points for a model curve.
const linePoints = 200

// Save renders the data series of a condition together with model
// predictions and writes a PNG file. theta may be nil to plot the
// data alone.
func Save(data *dataset.Dataset, indep [][]float64, m model.Model, theta []float64, filename string) error {
	p, err := plot.New()
	if err != nil {
		return err
	}
	p.Title.Text = data.Name
	p.X.Label.Text = "t"
	p.Y.Label.Text = "value"

	for i, s := range data.Series {
		if len(s) == 0 {
			continue
		}
		pts := make(plotter.XYs, len(s))
		for j, pt := range s {
			pts[j].X = pt.T
			pts[j].Y = pt.Value
		}
		scatter, err := plotter.NewScatter(pts)
		if err != nil {
			return err
		}
		scatter.Color = plotutil.Color(i)
		p.Add(scatter)
		p.Legend.Add(fmt.Sprintf("series %d", i+1), scatter)

		if m == nil || theta == nil {
			continue
		}
		var ind []float64
		if i < len(indep) {
			ind = indep[i]
		}
		line, err := plotter.NewLine(curve(m, theta, ind, s))
		if err != nil {
			return err
		}
		line.Color = plotutil.Color(i)
		p.Add(line)
	}
	if m != nil {
		p.Legend.Add(m.Name())
	}

	if err := p.Save(6*vg.Inch, 4*vg.Inch, filename); err != nil {
		return err
	}
	log.Infof("Saved %s", filename)
	return nil
}

// curve evaluates the model on a dense grid spanning the series.
func curve(m model.Model, theta, indep []float64, s dataset.Series) plotter.XYs {
	min, max := s[0].T, s[0].T
	for _, pt := range s[1:] {
		if pt.T < min {
			min = pt.T
		}
		if pt.T > max {
			max = pt.T
		}
	}
	pts := make(plotter.XYs, linePoints)
	for i := range pts {
		t := min + (max-min)*float64(i)/float64(linePoints-1)
		pts[i].X = t
		pts[i].Y = m.Eval(theta, indep, t)
	}
	return pts
}
