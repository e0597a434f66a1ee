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

// Package ionchem contains a six-species chemical mechanism for the
// lower ionosphere: electrons, O⁺, O₂⁺, N₂⁺, NO and NO⁺.
package ionchem

import (
	"fmt"

	"github.com/spatialmodel/ionochem"
	"github.com/spatialmodel/ionochem/science/ionization"
)

// Mechanism fulfils the github.com/spatialmodel/ionochem.Mechanism
// interface.
type Mechanism struct{}

// Indices of individual species in state vectors.
const (
	IElectron int = iota
	IOPlus
	IO2Plus
	IN2Plus
	INO
	INOPlus
)

var species = []string{"e", "O+", "O2+", "N2+", "NO", "NO+"}

// Len returns the number of species in this mechanism (6).
func (m Mechanism) Len() int {
	return len(species)
}

// Species returns the names of the species in state vector order.
func (m Mechanism) Species() []string {
	return append([]string(nil), species...)
}

// Units returns the units of the given species, or an
// error if the species name is invalid.
func (m Mechanism) Units(s string) (string, error) {
	for _, n := range species {
		if n == s {
			return "m⁻³", nil
		}
	}
	return "", fmt.Errorf("ionchem: invalid species name %s; valid names are %v", s, species)
}

// InitialState returns the electron, O⁺, O₂⁺ and NO⁺ densities of the
// ionosphere profile at l. N₂⁺ and NO start at zero.
func (m Mechanism) InitialState(l *ionochem.Level) []float64 {
	y := make([]float64, len(species))
	y[IElectron] = l.Electron
	y[IOPlus] = l.OPlus
	y[IO2Plus] = l.O2Plus
	y[INOPlus] = l.NOPlus
	return y
}

// Derivatives calculates the rate of change of each species in y at
// time t [s] and stores it in dst. Densities are not clamped, so a
// coarse integration may produce negative values.
func (m Mechanism) Derivatives(dst, y []float64, t float64, l *ionochem.Level, src ionization.Source) {
	r := Rates(l.ElectronTemperature, l.CompositeTemperature)
	qe := src.Rate(t)
	qN2, qO, qO2 := Production(qe, l.O, l.O2, l.N2)

	ne, nOp, nO2p, nN2p, nNO, nNOp := y[IElectron], y[IOPlus], y[IO2Plus], y[IN2Plus], y[INO], y[INOPlus]
	nO, nO2, nN2 := l.O, l.O2, l.N2

	dst[IElectron] = qe - ne*(r.Alpha1*nNOp+r.Alpha2*nO2p+r.Alpha3*nN2p+r.AlphaR*nOp)
	dst[IOPlus] = qO - nOp*(r.K1*nN2+r.K2*nO2+r.AlphaR*ne)
	dst[IO2Plus] = qO2 + r.K2*nOp*nO2 + r.K6*nN2p*nO2 - r.K3*nNO*nO2p - r.K4*nN2*nO2p - r.Alpha2*nO2p*ne
	dst[IN2Plus] = qN2 - nN2p*(r.Alpha3*ne+r.K5*nO+r.K6*nO2)
	dst[INO] = r.K4*nO2p*nN2 - r.K3*nNO*nO2p
	dst[INOPlus] = r.K1*nOp*nN2 + r.K3*nNO*nO2p + r.K4*nO2p*nN2 + r.K5*nN2p*nO - r.Alpha1*nNOp*ne
}

// Equilibrium returns the electron density at which ionization at rate
// qe [m⁻³ s⁻¹] balances recombination with the ion densities in y.
func (m Mechanism) Equilibrium(l *ionochem.Level, y []float64, qe float64) float64 {
	r := Rates(l.ElectronTemperature, l.CompositeTemperature)
	loss := r.Alpha1*y[INOPlus] + r.Alpha2*y[IO2Plus] + r.Alpha3*y[IN2Plus] + r.AlphaR*y[IOPlus]
	return qe / loss
}
