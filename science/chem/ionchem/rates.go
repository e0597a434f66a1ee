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

package ionchem

import "math"

// RateCoefficients holds the reaction rate coefficients at one
// temperature state.
type RateCoefficients struct {
	// Dissociative recombination of NO⁺, O₂⁺ and N₂⁺ [m³ s⁻¹].
	Alpha1, Alpha2, Alpha3 float64

	// Radiative recombination of O⁺ [m³ s⁻¹].
	AlphaR float64

	// Ion-neutral exchange [m³ s⁻¹]:
	//  K1: O⁺ + N₂ → NO⁺ + N
	//  K2: O⁺ + O₂ → O₂⁺ + O
	//  K3: O₂⁺ + NO → NO⁺ + O₂
	//  K4: O₂⁺ + N₂ → NO⁺ + NO
	//  K5: N₂⁺ + O → NO⁺ + N
	//  K6: N₂⁺ + O₂ → O₂⁺ + N₂
	K1, K2, K3, K4, K5, K6 float64
}

const (
	k1 = 2e-18
	k3 = 4.4e-16
	k4 = 5e-22
)

// Rates returns the rate coefficients for electron temperature te [K]
// and composite ion-neutral temperature tr [K]. Both must be positive.
func Rates(te, tr float64) RateCoefficients {
	e := te / 300
	r := tr / 300
	return RateCoefficients{
		Alpha1: 2.1e-13 * math.Pow(e, -0.85),
		Alpha2: 1.9e-13 * math.Pow(e, -0.5),
		Alpha3: 1.8e-13 * math.Pow(e, -0.39),
		AlphaR: 3.7e-18 * math.Pow(250/te, 0.7),
		K1:     k1,
		K2:     2e-17 * math.Pow(r, -0.4),
		K3:     k3,
		K4:     k4,
		K5:     1.4e-16 * math.Pow(r, -0.44),
		K6:     5e-17 * math.Pow(r, -0.8),
	}
}

// Branching weights of ionization into N₂⁺ and O⁺; O₂ has weight 1.
const (
	branchN2 = 0.92
	branchO  = 0.56
)

// Production partitions the total ionization rate qe [m⁻³ s⁻¹] into N₂⁺,
// O⁺ and O₂⁺ production in proportion to the weighted neutral densities
// nO, nO2 and nN2 [m⁻³].
func Production(qe, nO, nO2, nN2 float64) (qN2, qO, qO2 float64) {
	wN2 := branchN2 * nN2
	wO := branchO * nO
	weight := wN2 + nO2 + wO
	return qe * wN2 / weight, qe * wO / weight, qe * nO2 / weight
}
