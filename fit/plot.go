package fit

import (
	"fmt"

	"bitbucket.org/mcfit/mcfit/figure"
)

// PlotModel renders the data together with the fit of one model and
// writes a PNG file.
func (p *Problem) PlotModel(name, filename string) error {
	f, ok := p.fitted[name]
	if !ok {
		return fmt.Errorf("model '%s' was not fit", name)
	}
	return figure.Save(p.data, p.indep, f.Model, f.Parameters, filename)
}

// Plot renders every fitted model; file names are derived from the
// prefix and the model names.
func (p *Problem) Plot(prefix string) error {
	for _, name := range p.order {
		filename := fmt.Sprintf("%s-%s.png", prefix, name)
		if err := p.PlotModel(name, filename); err != nil {
			return err
		}
	}
	return nil
}
