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
	"io"

	"github.com/spatialmodel/ionochem"
	"github.com/spatialmodel/ionochem/science/chem/ionchem"
	"github.com/spatialmodel/ionochem/science/ionization"
)

// writeProfile writes the densities and temperatures at each of the
// altitude indices as an aligned table.
func writeProfile(w io.Writer, atm *ionochem.Atmosphere, idx []int, adj ionochem.TemperatureAdjustment) error {
	species := []string{"O", "O2", "N2", "e", "O+", "O2+", "NO+"}
	tw := newTable(w)
	fmt.Fprint(tw, "index\taltitude [km]")
	for _, s := range species {
		u, err := atm.Density(idx[0], s)
		if err != nil {
			return err
		}
		fmt.Fprintf(tw, "\t%s [%v]", s, u.Dimensions())
	}
	fmt.Fprint(tw, "\tTn [K]\tTi [K]\tTe [K]\tTr [K]\n")
	for _, i := range idx {
		l, err := atm.Level(i, adj)
		if err != nil {
			return err
		}
		fmt.Fprintf(tw, "%d\t%g", i, l.Altitude)
		for _, s := range species {
			u, err := atm.Density(i, s)
			if err != nil {
				return err
			}
			fmt.Fprintf(tw, "\t%.4g", u.Value())
		}
		fmt.Fprintf(tw, "\t%.1f\t%.1f\t%.1f\t%.1f\n", l.NeutralTemperature, l.IonTemperature,
			l.ElectronTemperature, l.CompositeTemperature)
	}
	return tw.Flush()
}

// writeRates writes the rate coefficients and the partition of
// background ionization at each of the altitude indices.
func writeRates(w io.Writer, atm *ionochem.Atmosphere, idx []int, adj ionochem.TemperatureAdjustment) error {
	tw := newTable(w)
	fmt.Fprint(tw, "index\taltitude [km]\tα1\tα2\tα3\tαr\tk1\tk2\tk3\tk4\tk5\tk6\tqN2+/qe\tqO+/qe\tqO2+/qe\n")
	for _, i := range idx {
		l, err := atm.Level(i, adj)
		if err != nil {
			return err
		}
		r := ionchem.Rates(l.ElectronTemperature, l.CompositeTemperature)
		qN2, qO, qO2 := ionchem.Production(ionization.Background, l.O, l.O2, l.N2)
		fmt.Fprintf(tw, "%d\t%g", i, l.Altitude)
		for _, v := range []float64{r.Alpha1, r.Alpha2, r.Alpha3, r.AlphaR, r.K1, r.K2, r.K3, r.K4, r.K5, r.K6} {
			fmt.Fprintf(tw, "\t%.3g", v)
		}
		fmt.Fprintf(tw, "\t%.3f\t%.3f\t%.3f\n", qN2/ionization.Background,
			qO/ionization.Background, qO2/ionization.Background)
	}
	return tw.Flush()
}
