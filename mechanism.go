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

package ionochem

import "github.com/spatialmodel/ionochem/science/ionization"

// Mechanism is an interface for ionospheric chemical mechanisms.
type Mechanism interface {
	// Len returns the number of species in the mechanism's state vector.
	Len() int

	// Species returns the names of the species in state vector order.
	Species() []string

	// Units returns the units of the given species, or an
	// error if the species name is invalid.
	Units(species string) (string, error)

	// InitialState returns the state vector at the start of a run
	// at the given level.
	InitialState(l *Level) []float64

	// Derivatives writes the time derivatives of state y at time t [s]
	// into dst, for level l and ionization source src. It must be a pure
	// function of its arguments.
	Derivatives(dst, y []float64, t float64, l *Level, src ionization.Source)

	// Equilibrium returns the electron density at which production at
	// rate qe [m⁻³ s⁻¹] balances recombination with the ion composition
	// of state y.
	Equilibrium(l *Level, y []float64, qe float64) float64
}
