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

package ode

import (
	"fmt"
	"strings"
)

// Method is an explicit Runge-Kutta scheme described by its Butcher tableau.
// Bhat holds the error weights (B minus the embedded lower-order weights);
// methods without an embedded estimator have all-zero Bhat and must be
// used with a fixed step.
type Method struct {
	Name  string
	Order int
	C     []float64
	A     [][]float64
	B     []float64
	Bhat  []float64
}

// Stages returns the number of stages in the method.
func (m *Method) Stages() int { return len(m.B) }

// Embedded reports whether the method carries an error estimator.
func (m *Method) Embedded() bool {
	for _, v := range m.Bhat {
		if v != 0 {
			return true
		}
	}
	return false
}

// DormandPrince returns the Dormand-Prince 5(4) method, the same pair
// used by MATLAB's ode45 and SciPy's RK45.
func DormandPrince() *Method {
	return &Method{
		Name:  "dopri5",
		Order: 5,
		C:     []float64{0, 1. / 5., 3. / 10., 4. / 5., 8. / 9., 1, 1},
		A: [][]float64{
			{},
			{1. / 5.},
			{3. / 40., 9. / 40.},
			{44. / 45., -56. / 15., 32. / 9.},
			{19372. / 6561., -25360. / 2187., 64448. / 6561., -212. / 729.},
			{9017. / 3168., -355. / 33., 46732. / 5247., 49. / 176., -5103. / 18656.},
			{35. / 384., 0, 500. / 1113., 125. / 192., -2187. / 6784., 11. / 84.},
		},
		B: []float64{35. / 384., 0, 500. / 1113., 125. / 192., -2187. / 6784., 11. / 84., 0},
		Bhat: []float64{
			35./384. - 5179./57600.,
			0,
			500./1113. - 7571./16695.,
			125./192. - 393./640.,
			-2187./6784. + 92097./339200.,
			11./84. - 187./2100.,
			-1. / 40.,
		},
	}
}

// BogackiShampine returns the Bogacki-Shampine 3(2) method.
func BogackiShampine() *Method {
	return &Method{
		Name:  "bs32",
		Order: 3,
		C:     []float64{0, 0.5, 0.75, 1},
		A: [][]float64{
			{},
			{0.5},
			{0, 0.75},
			{2. / 9., 1. / 3., 4. / 9.},
		},
		B: []float64{2. / 9., 1. / 3., 4. / 9., 0},
		Bhat: []float64{
			2./9. - 7./24.,
			1./3. - 1./4.,
			4./9. - 1./3.,
			-1. / 8.,
		},
	}
}

// RK4 returns the classic fixed-step fourth order Runge-Kutta method.
func RK4() *Method {
	return &Method{
		Name:  "rk4",
		Order: 4,
		C:     []float64{0, 0.5, 0.5, 1},
		A: [][]float64{
			{},
			{0.5},
			{0, 0.5},
			{0, 0, 1},
		},
		B:    []float64{1. / 6., 1. / 3., 1. / 3., 1. / 6.},
		Bhat: []float64{0, 0, 0, 0},
	}
}

// Euler returns the forward Euler method.
func Euler() *Method {
	return &Method{
		Name:  "euler",
		Order: 1,
		C:     []float64{0},
		A:     [][]float64{{}},
		B:     []float64{1},
		Bhat:  []float64{0},
	}
}

// MethodNames lists the names accepted by MethodByName.
var MethodNames = []string{"dopri5", "bs32", "rk4", "euler"}

// MethodByName returns the method with the given name.
func MethodByName(name string) (*Method, error) {
	switch strings.ToLower(name) {
	case "dopri5", "rk45":
		return DormandPrince(), nil
	case "bs32":
		return BogackiShampine(), nil
	case "rk4":
		return RK4(), nil
	case "euler":
		return Euler(), nil
	}
	return nil, fmt.Errorf("ode: invalid method %q; valid options are %v", name, MethodNames)
}
