/*
Copyright © 2024 the ionochem authors.
This file is part of ionochem.

ionochem is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

ionochem is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with ionochem.  If not, see <http://www.gnu.org/licenses/>.
*/

package ionoutil

import (
	"fmt"
	"math"

	"github.com/spatialmodel/ionochem"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

const (
	figWidth  = 6 * vg.Inch
	figHeight = 4 * vg.Inch
)

// PlotTrajectory plots the density of each species in tr over time on a
// logarithmic axis and saves it to filename. The file type is chosen by
// the file extension. Non-positive densities are left out.
func PlotTrajectory(tr *ionochem.Trajectory, filename string) error {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("%g km, %v ionization, %v", tr.Altitude, tr.Regime, tr.Adjustment)
	p.X.Label.Text = "Time [s]"
	p.Y.Label.Text = "Number density [m⁻³]"
	p.Y.Scale = plot.LogScale{}
	p.Y.Tick.Marker = plot.LogTicks{Prec: -1}
	p.Add(plotter.NewGrid())
	p.Legend.Top = true
	p.Legend.Left = false

	var lines int
	for i, name := range tr.SpeciesNames {
		pts := make(plotter.XYs, 0, len(tr.Times))
		for j, t := range tr.Times {
			if v := tr.States[j][i]; v > 0 && !math.IsInf(v, 0) {
				pts = append(pts, plotter.XY{X: t, Y: v})
			}
		}
		if len(pts) == 0 {
			continue
		}
		l, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("ionochem: plotting %s: %v", name, err)
		}
		l.Color = plotutil.Color(i)
		l.Dashes = plotutil.Dashes(i)
		l.Width = 0.5 * vg.Millimeter
		p.Add(l)
		p.Legend.Add(name, l)
		lines++
	}
	if lines == 0 {
		return fmt.Errorf("ionochem: plotting %s: no positive densities", tr.Label())
	}
	if err := p.Save(figWidth, figHeight, filename); err != nil {
		return fmt.Errorf("ionochem: saving plot: %v", err)
	}
	return nil
}
